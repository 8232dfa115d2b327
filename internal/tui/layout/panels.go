package layout

// Chrome is the number of lines taken by the title, tab bar, message line and status bar
const Chrome = 6

// PanelLayout splits the terminal into a list panel and a detail panel
type PanelLayout struct {
	leftWidth  int
	rightWidth int
	height     int
	splitRatio float64 // share of the width given to the list panel (0.0-1.0)
}

// NewPanelLayout creates a layout with a 35/65 split
func NewPanelLayout() *PanelLayout {
	return &PanelLayout{splitRatio: 0.35}
}

// SetSize updates the layout from the terminal dimensions
func (p *PanelLayout) SetSize(width, height int) {
	p.height = max(height-Chrome, 3)
	p.leftWidth = max(int(float64(width)*p.splitRatio), 10)
	p.rightWidth = max(width-p.leftWidth-1, 10) // -1 for separator
}

// LeftWidth returns the width allocated to the list panel
func (p *PanelLayout) LeftWidth() int {
	return p.leftWidth
}

// RightWidth returns the width allocated to the detail panel
func (p *PanelLayout) RightWidth() int {
	return p.rightWidth
}

// Height returns the panel height
func (p *PanelLayout) Height() int {
	return p.height
}

// ContentHeight returns the height available for content (minus borders)
func (p *PanelLayout) ContentHeight() int {
	return p.height - 2
}

// ContentWidth returns the content width of a panel of the given outer width (minus borders)
func ContentWidth(outer int) int {
	return outer - 2
}
