package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Colors
	Primary    = lipgloss.Color("#7C3AED") // Purple
	Secondary  = lipgloss.Color("#10B981") // Green
	Accent     = lipgloss.Color("#F59E0B") // Amber
	Danger     = lipgloss.Color("#EF4444") // Red
	MutedColor = lipgloss.Color("#6B7280") // Gray
	Subtle     = lipgloss.Color("#374151") // Dark gray
	White      = lipgloss.Color("#FFFFFF")

	Muted = lipgloss.NewStyle().
		Foreground(MutedColor)

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary)

	// List styles
	SelectedItem = lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			Background(Primary).
			Padding(0, 1)

	NormalItem = lipgloss.NewStyle().
			Foreground(White).
			Padding(0, 1)

	// Tabs
	TabActive = lipgloss.NewStyle().
			Bold(true).
			Foreground(White).
			Background(Primary).
			Padding(0, 2)

	TabInactive = lipgloss.NewStyle().
			Foreground(MutedColor).
			Padding(0, 2)

	// Panels
	ActivePanel = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary)

	Panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Subtle)

	// Detail panel
	InfoLabel = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(12)

	InfoValue = lipgloss.NewStyle().
			Foreground(White)

	Builtin = lipgloss.NewStyle().
		Foreground(Accent).
		SetString("built-in")

	Resolved = lipgloss.NewStyle().
			Foreground(Secondary).
			SetString("●")

	Unresolved = lipgloss.NewStyle().
			Foreground(MutedColor).
			SetString("○")

	// Help bar
	HelpBar = lipgloss.NewStyle().
		Foreground(MutedColor)

	HelpKey = lipgloss.NewStyle().
		Foreground(Primary).
		Bold(true)

	// Messages
	ErrorMsg = lipgloss.NewStyle().
			Foreground(Danger).
			Bold(true)

	SuccessMsg = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(Primary)
)

// FormatHelp formats help text with highlighted keys
func FormatHelp(pairs ...string) string {
	items := make([]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		items = append(items, HelpKey.Render(pairs[i])+" "+pairs[i+1])
	}
	return HelpBar.Render(strings.Join(items, "  "))
}
