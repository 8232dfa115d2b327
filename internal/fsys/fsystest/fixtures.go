// Package fsystest provides in-memory extension trees for tests.
package fsystest

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
)

// ExtensionsRoot is the root used by the fixture trees
const ExtensionsRoot = "/the-extension-dir"

// MonokaiTheme declares a dark/light pair
const MonokaiTheme = `{
  "name": "Monokai",
  "author": "Someone",
  "themes": [
    {"name": "Monokai Dark", "appearance": "dark", "style": {}},
    {"name": "Monokai Light", "appearance": "light", "style": {}}
  ]
}`

// MonokaiProTheme declares a second dark/light pair
const MonokaiProTheme = `{
  "name": "Monokai Pro",
  "author": "Someone",
  "themes": [
    {"name": "Monokai Pro Dark", "appearance": "dark", "style": {}},
    {"name": "Monokai Pro Light", "appearance": "light", "style": {}}
  ]
}`

// GruvboxTheme declares a single variant
const GruvboxTheme = `{
  "name": "Gruvbox",
  "author": "Someone Else",
  "themes": [
    {"name": "Gruvbox", "appearance": "dark", "style": {}}
  ]
}`

// RubyConfig is the language config of the Ruby language
const RubyConfig = `
name = "Ruby"
grammar = "ruby"
path_suffixes = ["rb"]
`

// ERBConfig is the language config of the ERB language
const ERBConfig = `
name = "ERB"
grammar = "embedded_template"
path_suffixes = ["erb"]
`

// BaseTree returns the zed-monokai + zed-ruby layout, keyed by path relative to installed/
func BaseTree() map[string]string {
	return map[string]string{
		"zed-monokai/themes/monokai.json":          MonokaiTheme,
		"zed-monokai/themes/monokai-pro.json":      MonokaiProTheme,
		"zed-ruby/grammars/ruby.wasm":              "",
		"zed-ruby/grammars/embedded_template.wasm": "",
		"zed-ruby/languages/ruby/config.toml":      RubyConfig,
		"zed-ruby/languages/ruby/highlights.scm":   "",
		"zed-ruby/languages/erb/config.toml":       ERBConfig,
		"zed-ruby/languages/erb/highlights.scm":    "",
	}
}

// GruvboxTree returns the zed-gruvbox extension layout
func GruvboxTree() map[string]string {
	return map[string]string{
		"zed-gruvbox/themes/gruvbox.json": GruvboxTheme,
	}
}

// InstalledDir returns the installed/ directory below root
func InstalledDir(root string) string {
	return filepath.Join(root, "installed")
}

// InsertTree writes files below dir, creating parent directories
func InsertTree(t testing.TB, fs afero.Fs, dir string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := afero.WriteFile(fs, path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

// Touch bumps the modification time of path, the way adding or removing a
// child bumps a directory mtime on a real filesystem.
func Touch(t testing.TB, fs afero.Fs, path string, at time.Time) {
	t.Helper()
	if err := fs.Chtimes(path, at, at); err != nil {
		t.Fatal(err)
	}
}
