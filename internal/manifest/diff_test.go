package manifest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func rubyManifest() *Manifest {
	m := NewManifest()
	m.Grammars["ruby"] = GrammarEntry{Extension: "zed-ruby", Path: "grammars/ruby.wasm"}
	m.Languages["Ruby"] = LanguageEntry{
		Extension: "zed-ruby",
		Path:      "languages/ruby",
		Grammar:   "ruby",
		Matcher:   LanguageMatcher{PathSuffixes: []string{"rb"}},
	}
	m.Themes["Monokai Dark"] = ThemeEntry{Extension: "zed-monokai", Path: "themes/monokai.json"}
	return m
}

func TestDiff(t *testing.T) {
	tests := []struct {
		name   string
		old    func() *Manifest
		next   func() *Manifest
		expect Delta
	}{
		{
			name: "from nil adds everything",
			old:  func() *Manifest { return nil },
			next: rubyManifest,
			expect: Delta{
				Grammars:  Changes{Added: []string{"ruby"}},
				Languages: Changes{Added: []string{"Ruby"}},
				Themes:    Changes{Added: []string{"Monokai Dark"}},
			},
		},
		{
			name: "to empty removes everything",
			old:  rubyManifest,
			next: NewManifest,
			expect: Delta{
				Grammars:  Changes{Removed: []string{"ruby"}},
				Languages: Changes{Removed: []string{"Ruby"}},
				Themes:    Changes{Removed: []string{"Monokai Dark"}},
			},
		},
		{
			name:   "identical manifests",
			old:    rubyManifest,
			next:   rubyManifest,
			expect: Delta{},
		},
		{
			name: "changed language is removed then added",
			old:  rubyManifest,
			next: func() *Manifest {
				m := rubyManifest()
				l := m.Languages["Ruby"]
				l.Matcher.PathSuffixes = []string{"rb", "rake"}
				m.Languages["Ruby"] = l
				return m
			},
			expect: Delta{
				Languages: Changes{Added: []string{"Ruby"}, Removed: []string{"Ruby"}},
			},
		},
		{
			name: "theme moved to another extension",
			old:  rubyManifest,
			next: func() *Manifest {
				m := rubyManifest()
				m.Themes["Monokai Dark"] = ThemeEntry{Extension: "other", Path: "themes/monokai.json"}
				m.Themes["Gruvbox"] = ThemeEntry{Extension: "zed-gruvbox", Path: "themes/gruvbox.json"}
				return m
			},
			expect: Delta{
				Themes: Changes{Added: []string{"Gruvbox", "Monokai Dark"}, Removed: []string{"Monokai Dark"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Diff(tt.old(), tt.next())
			assert.Equal(t, tt.expect, d)
			assert.Equal(t, tt.expect.Empty(), d.Empty())
		})
	}
}

func TestDelta_Count(t *testing.T) {
	d := Delta{
		Grammars: Changes{Added: []string{"a", "b"}},
		Themes:   Changes{Added: []string{"x"}, Removed: []string{"x"}},
	}
	assert.Equal(t, 4, d.Count())
	assert.False(t, d.Empty())
	assert.Zero(t, Delta{}.Count())
}
