package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"lazyext/internal/fsys"
	"lazyext/internal/fsys/fsystest"
	"lazyext/internal/registry"
	"lazyext/internal/store"
)

type testEnv struct {
	app       *App
	mem       *fsys.AferoFS
	installed string
}

func newTestApp(t *testing.T) testEnv {
	t.Helper()
	mem := fsys.NewMemory()
	installed := fsystest.InstalledDir(fsystest.ExtensionsRoot)
	fsystest.InsertTree(t, mem.Afero(), installed, fsystest.BaseTree())

	languages := registry.NewLanguages()
	themes := registry.NewThemes()
	s, err := store.New(context.Background(), store.Options{
		Root:      fsystest.ExtensionsRoot,
		FS:        mem,
		Languages: languages,
		Themes:    themes,
		Logger:    zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}

	app := NewApp(context.Background(), s, languages, themes)
	app.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return testEnv{app: app, mem: mem, installed: installed}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "end":
		return tea.KeyMsg{Type: tea.KeyEnd}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestApp_CtrlC_Quits(t *testing.T) {
	env := newTestApp(t)

	_, cmd := env.app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("Expected a command to be returned")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Error("Ctrl+C should return tea.Quit")
	}
}

func TestApp_Q_Quits(t *testing.T) {
	env := newTestApp(t)

	_, cmd := env.app.Update(key("q"))
	if cmd == nil || cmd() != tea.Quit() {
		t.Error("q should return tea.Quit")
	}
}

func TestApp_WindowSizeMsg_UpdatesDimensions(t *testing.T) {
	env := newTestApp(t)
	env.app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	if env.app.width != 100 || env.app.height != 30 {
		t.Errorf("Expected 100x30, got %dx%d", env.app.width, env.app.height)
	}
	if !env.app.ready {
		t.Error("Expected app to be ready after a window size message")
	}
}

func TestApp_ViewBeforeSize(t *testing.T) {
	env := newTestApp(t)
	env.app.ready = false
	if got := env.app.View(); got != "Initializing..." {
		t.Errorf("Expected placeholder view, got %q", got)
	}
}

func TestApp_TabsCycleThroughKinds(t *testing.T) {
	env := newTestApp(t)
	app := env.app

	want := map[Tab][]string{
		TabLanguages: {"ERB", registry.PlainText, "Ruby"},
		TabGrammars:  {"embedded_template", "ruby"},
		TabThemes:    {"Monokai Dark", "Monokai Light", "Monokai Pro Dark", "Monokai Pro Light", registry.OneDark},
	}

	for _, expected := range []Tab{TabLanguages, TabGrammars, TabThemes, TabLanguages} {
		if app.tab != expected {
			t.Fatalf("Expected tab %v, got %v", expected, app.tab)
		}
		if got := strings.Join(app.names, ","); got != strings.Join(want[expected], ",") {
			t.Errorf("Tab %v: expected %v, got %v", expected, want[expected], app.names)
		}
		app.Update(key("tab"))
	}

	app.Update(key("shift+tab"))
	if app.tab != TabThemes {
		t.Errorf("shift+tab from Languages should wrap to Themes, got %v", app.tab)
	}
}

func TestApp_CursorStaysInRange(t *testing.T) {
	env := newTestApp(t)
	app := env.app

	app.Update(key("k"))
	if app.cursor != 0 {
		t.Errorf("Expected cursor to stay at 0, got %d", app.cursor)
	}

	for i := 0; i < 10; i++ {
		app.Update(key("down"))
	}
	if got := app.Selected(); got != "Ruby" {
		t.Errorf("Expected cursor clamped on Ruby, got %q", got)
	}

	app.Update(key("g"))
	if got := app.Selected(); got != "ERB" {
		t.Errorf("Expected g to jump to top, got %q", got)
	}
	app.Update(key("end"))
	if got := app.Selected(); got != "Ruby" {
		t.Errorf("Expected end to jump to bottom, got %q", got)
	}
}

func TestApp_DetailShowsResolvedGrammar(t *testing.T) {
	env := newTestApp(t)
	app := env.app

	app.Update(key("G"))
	view := app.View()
	for _, want := range []string{"Ruby", "zed-ruby", "ruby", filepath.Join(env.installed, "zed-ruby", "languages", "ruby")} {
		if !strings.Contains(view, want) {
			t.Errorf("Expected view to contain %q", want)
		}
	}
}

func TestApp_GrammarDetailListsUsers(t *testing.T) {
	env := newTestApp(t)
	app := env.app

	app.Update(key("tab"))
	if got := app.Selected(); got != "embedded_template" {
		t.Fatalf("Expected embedded_template selected, got %q", got)
	}
	rows := app.grammarRows("embedded_template")
	if len(rows) != 3 || rows[2][1] != "ERB" {
		t.Errorf("Expected embedded_template to be used by ERB, got %v", rows)
	}
}

func TestApp_ReloadPicksUpNewExtension(t *testing.T) {
	env := newTestApp(t)
	app := env.app
	app.Update(key("tab"))
	app.Update(key("tab"))

	fsystest.InsertTree(t, env.mem.Afero(), env.installed, fsystest.GruvboxTree())

	_, cmd := app.Update(key("r"))
	if cmd == nil {
		t.Fatal("Expected r to return a command")
	}
	if app.mode != ModeLoading {
		t.Fatalf("Expected ModeLoading during reload, got %v", app.mode)
	}

	// Keys other than ctrl+c are ignored while loading
	app.Update(key("tab"))
	if app.tab != TabThemes {
		t.Error("Expected tab key to be ignored while loading")
	}

	app.Update(app.reload())
	if app.mode != ModeNormal {
		t.Errorf("Expected ModeNormal after reload, got %v", app.mode)
	}
	if app.err != nil {
		t.Errorf("Unexpected error: %v", app.err)
	}
	if app.names[0] != "Gruvbox" {
		t.Errorf("Expected Gruvbox first in the theme list, got %v", app.names)
	}
	if !strings.Contains(app.message, "1 change") {
		t.Errorf("Expected change count in message, got %q", app.message)
	}
}

func TestApp_ReloadErrorIsShown(t *testing.T) {
	env := newTestApp(t)
	app := env.app

	if err := env.mem.Afero().RemoveAll(env.installed); err != nil {
		t.Fatal(err)
	}
	app.Update(key("r"))
	app.Update(app.reload())

	if app.err == nil {
		t.Fatal("Expected reload error to be recorded")
	}
	if !strings.Contains(app.View(), "Error:") {
		t.Error("Expected error in view")
	}
	if got := strings.Join(app.names, ","); got != "ERB,"+registry.PlainText+",Ruby" {
		t.Errorf("Expected previous languages to remain, got %v", app.names)
	}
}
