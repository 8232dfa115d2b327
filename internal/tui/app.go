package tui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"lazyext/internal/manifest"
	"lazyext/internal/registry"
	"lazyext/internal/tui/components"
	"lazyext/internal/tui/layout"
	"lazyext/internal/tui/styles"
)

// Mode represents the application mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeLoading
)

// Tab selects which kind of asset is listed
type Tab int

const (
	TabLanguages Tab = iota
	TabGrammars
	TabThemes
	tabCount
)

func (t Tab) String() string {
	switch t {
	case TabLanguages:
		return "Languages"
	case TabGrammars:
		return "Grammars"
	case TabThemes:
		return "Themes"
	default:
		return fmt.Sprintf("Tab(%d)", int(t))
	}
}

// Source provides the manifest being browsed; *store.Store satisfies it
type Source interface {
	Manifest() *manifest.Manifest
	Reload(ctx context.Context) error
	InstalledDir() string
}

// App is the main TUI application model
type App struct {
	ctx       context.Context
	source    Source
	languages *registry.Languages
	themes    *registry.Themes

	layout  *layout.PanelLayout
	spinner components.Spinner

	mode   Mode
	tab    Tab
	cursor int
	offset int
	names  []string

	message string
	err     error
	width   int
	height  int
	ready   bool
}

// Messages
type (
	reloadDoneMsg struct{ changes int }
	reloadErrMsg  struct{ err error }
)

// NewApp creates a browser over source, resolving details through the registries
func NewApp(ctx context.Context, source Source, languages *registry.Languages, themes *registry.Themes) *App {
	a := &App{
		ctx:       ctx,
		source:    source,
		languages: languages,
		themes:    themes,
		layout:    layout.NewPanelLayout(),
		spinner:   components.NewSpinner("Reloading extensions..."),
		mode:      ModeNormal,
	}
	a.refresh()
	return a
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return nil
}

func (a *App) reload() tea.Msg {
	before := a.source.Manifest()
	if err := a.source.Reload(a.ctx); err != nil {
		return reloadErrMsg{err}
	}
	return reloadDoneMsg{changes: manifest.Diff(before, a.source.Manifest()).Count()}
}

// refresh rebuilds the visible name list for the current tab, keeping the cursor in range
func (a *App) refresh() {
	m := a.source.Manifest()
	switch a.tab {
	case TabLanguages:
		a.names = a.languages.LanguageNames()
	case TabGrammars:
		a.names = m.GrammarNames()
	case TabThemes:
		a.names = a.themes.ListNames()
	}
	if a.cursor >= len(a.names) {
		a.cursor = max(len(a.names)-1, 0)
	}
	a.scroll()
}

func (a *App) scroll() {
	visible := a.layout.ContentHeight()
	if visible <= 0 {
		a.offset = 0
		return
	}
	if a.cursor < a.offset {
		a.offset = a.cursor
	}
	if a.cursor >= a.offset+visible {
		a.offset = a.cursor - visible + 1
	}
}

// Update handles messages
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.layout.SetSize(msg.Width, msg.Height)
		a.ready = true
		a.scroll()
		return a, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
		if a.mode == ModeLoading {
			return a, nil
		}
		return a.updateNormal(msg)

	case reloadDoneMsg:
		a.mode = ModeNormal
		a.err = nil
		a.message = fmt.Sprintf("Reloaded: %d change(s)", msg.changes)
		a.refresh()
		return a, nil

	case reloadErrMsg:
		a.mode = ModeNormal
		a.message = ""
		a.err = msg.err
		return a, nil
	}

	if a.mode == ModeLoading {
		return a, a.spinner.Update(msg)
	}
	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "tab", "l", "right":
		a.switchTab((a.tab + 1) % tabCount)
	case "shift+tab", "h", "left":
		a.switchTab((a.tab + tabCount - 1) % tabCount)
	case "j", "down":
		if a.cursor < len(a.names)-1 {
			a.cursor++
		}
	case "k", "up":
		if a.cursor > 0 {
			a.cursor--
		}
	case "g", "home":
		a.cursor = 0
	case "G", "end":
		a.cursor = max(len(a.names)-1, 0)
	case "r":
		a.mode = ModeLoading
		a.message = ""
		a.err = nil
		return a, tea.Batch(a.spinner.Tick(), a.reload)
	}
	a.scroll()
	return a, nil
}

func (a *App) switchTab(t Tab) {
	a.tab = t
	a.cursor = 0
	a.offset = 0
	a.refresh()
}

// Selected returns the highlighted name, or "" when the list is empty
func (a *App) Selected() string {
	if a.cursor < 0 || a.cursor >= len(a.names) {
		return ""
	}
	return a.names[a.cursor]
}

// View renders the application
func (a *App) View() string {
	if !a.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(styles.Title.Render("lazyext"))
	b.WriteString("  ")
	b.WriteString(styles.Muted.Render(a.source.InstalledDir()))
	b.WriteString("\n\n")
	b.WriteString(a.renderTabs())
	b.WriteString("\n")
	b.WriteString(a.renderPanels())

	// Always reserve the message line to prevent layout jumps
	b.WriteString("\n")
	switch {
	case a.mode == ModeLoading:
		b.WriteString(a.spinner.View())
	case a.err != nil:
		b.WriteString(styles.ErrorMsg.Render(fmt.Sprintf("Error: %v", a.err)))
	case a.message != "":
		b.WriteString(styles.SuccessMsg.Render(a.message))
	}

	b.WriteString("\n")
	b.WriteString(styles.FormatHelp(
		"j/k", "navigate",
		"tab", "kind",
		"r", "reload",
		"q", "quit",
	))
	return b.String()
}

func (a *App) renderTabs() string {
	tabs := make([]string, 0, tabCount)
	for t := TabLanguages; t < tabCount; t++ {
		style := styles.TabInactive
		if t == a.tab {
			style = styles.TabActive
		}
		tabs = append(tabs, style.Render(t.String()))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (a *App) renderPanels() string {
	left := styles.ActivePanel.
		Width(layout.ContentWidth(a.layout.LeftWidth())).
		Height(a.layout.ContentHeight()).
		Render(a.renderList())
	right := styles.Panel.
		Width(layout.ContentWidth(a.layout.RightWidth())).
		Height(a.layout.ContentHeight()).
		Render(a.renderDetail())
	return lipgloss.JoinHorizontal(lipgloss.Top, left, " ", right)
}

func (a *App) renderList() string {
	if len(a.names) == 0 {
		return styles.Muted.Render("No " + strings.ToLower(a.tab.String()))
	}
	end := min(a.offset+max(a.layout.ContentHeight(), 1), len(a.names))
	lines := make([]string, 0, end-a.offset)
	for i := a.offset; i < end; i++ {
		style := styles.NormalItem
		if i == a.cursor {
			style = styles.SelectedItem
		}
		lines = append(lines, style.Render(a.names[i]))
	}
	return strings.Join(lines, "\n")
}

func (a *App) renderDetail() string {
	name := a.Selected()
	if name == "" {
		return ""
	}
	var rows [][2]string
	switch a.tab {
	case TabLanguages:
		rows = a.languageRows(name)
	case TabGrammars:
		rows = a.grammarRows(name)
	case TabThemes:
		rows = a.themeRows(name)
	}

	lines := []string{styles.Title.Render(name), ""}
	for _, row := range rows {
		lines = append(lines, styles.InfoLabel.Render(row[0])+styles.InfoValue.Render(row[1]))
	}
	return strings.Join(lines, "\n")
}

func (a *App) languageRows(name string) [][2]string {
	l, ok := a.languages.Language(name)
	if !ok {
		return nil
	}
	if l.Builtin {
		return [][2]string{{"Source", styles.Builtin.String()}, {"Suffixes", joinOrNone(l.Entry.Matcher.PathSuffixes)}}
	}
	grammar := "(none)"
	if l.Entry.Grammar != "" {
		indicator := styles.Unresolved.String()
		if _, resolved := a.languages.Grammar(name); resolved {
			indicator = styles.Resolved.String()
		}
		grammar = indicator + " " + l.Entry.Grammar
	}
	rows := [][2]string{
		{"Extension", l.Entry.Extension},
		{"Directory", l.Dir},
		{"Grammar", grammar},
		{"Suffixes", joinOrNone(l.Entry.Matcher.PathSuffixes)},
	}
	if l.Entry.Matcher.FirstLinePattern != "" {
		rows = append(rows, [2]string{"First line", l.Entry.Matcher.FirstLinePattern})
	}
	return rows
}

func (a *App) grammarRows(name string) [][2]string {
	m := a.source.Manifest()
	g, ok := m.Grammars[name]
	if !ok {
		return nil
	}
	var usedBy []string
	for _, lang := range m.LanguageNames() {
		if m.Languages[lang].Grammar == name {
			usedBy = append(usedBy, lang)
		}
	}
	return [][2]string{
		{"Extension", g.Extension},
		{"Path", filepath.Join(a.source.InstalledDir(), g.Extension, filepath.FromSlash(g.Path))},
		{"Used by", joinOrNone(usedBy)},
	}
}

func (a *App) themeRows(name string) [][2]string {
	t, ok := a.themes.Get(name)
	if !ok {
		return nil
	}
	if t.Builtin {
		return [][2]string{{"Source", styles.Builtin.String()}}
	}
	return [][2]string{
		{"Extension", t.Entry.Extension},
		{"Path", t.Path},
	}
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "(none)"
	}
	return strings.Join(items, ", ")
}

// Run starts the TUI application
func Run(ctx context.Context, source Source, languages *registry.Languages, themes *registry.Themes) error {
	app := NewApp(ctx, source, languages, themes)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	model, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	if finalApp, ok := model.(*App); ok && finalApp.err != nil {
		return finalApp.err
	}
	return nil
}
