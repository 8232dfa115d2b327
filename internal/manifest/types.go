package manifest

// Manifest is the unified index of every asset provided by the installed extensions.
// A Manifest handed out by the store is never mutated; updates build a new value.
type Manifest struct {
	Grammars  map[string]GrammarEntry  `yaml:"grammars"`
	Languages map[string]LanguageEntry `yaml:"languages"`
	Themes    map[string]ThemeEntry    `yaml:"themes"`
}

// GrammarEntry points at a compiled grammar artifact inside an extension
type GrammarEntry struct {
	Extension string `yaml:"extension"`
	Path      string `yaml:"path"` // relative to the extension root, e.g. grammars/ruby.wasm
}

// LanguageEntry points at a language directory inside an extension
type LanguageEntry struct {
	Extension string          `yaml:"extension"`
	Path      string          `yaml:"path"`
	Grammar   string          `yaml:"grammar,omitempty"` // late-bound grammar name, empty when absent
	Matcher   LanguageMatcher `yaml:"matcher"`
}

// LanguageMatcher decides which files a language applies to
type LanguageMatcher struct {
	PathSuffixes     []string `yaml:"path_suffixes"`
	FirstLinePattern string   `yaml:"first_line_pattern,omitempty"`
}

// ThemeEntry points at the theme family file declaring a theme variant
type ThemeEntry struct {
	Extension string `yaml:"extension"`
	Path      string `yaml:"path"`
}

// NewManifest creates an empty manifest
func NewManifest() *Manifest {
	return &Manifest{
		Grammars:  make(map[string]GrammarEntry),
		Languages: make(map[string]LanguageEntry),
		Themes:    make(map[string]ThemeEntry),
	}
}

// Equal reports whether two language entries describe the same asset
func (e LanguageEntry) Equal(other LanguageEntry) bool {
	if e.Extension != other.Extension || e.Path != other.Path || e.Grammar != other.Grammar {
		return false
	}
	if e.Matcher.FirstLinePattern != other.Matcher.FirstLinePattern {
		return false
	}
	if len(e.Matcher.PathSuffixes) != len(other.Matcher.PathSuffixes) {
		return false
	}
	for i, s := range e.Matcher.PathSuffixes {
		if other.Matcher.PathSuffixes[i] != s {
			return false
		}
	}
	return true
}
