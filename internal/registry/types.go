// Package registry defines what the extension store needs from the consumer
// registries, and provides in-memory registries implementing it.
//
// The store is the only writer. It always removes before it adds, and a name
// being replaced is removed and then added again, so implementations never
// see duplicate live entries for one name from the store's point of view.
package registry

import "lazyext/internal/manifest"

// LanguageRegistry receives grammars and languages. Grammars and languages may
// arrive in any order; a language refers to its grammar by name and resolves
// it lazily.
type LanguageRegistry interface {
	AddGrammar(name string, entry manifest.GrammarEntry, path string)
	RemoveGrammar(name string)
	AddLanguage(name string, entry manifest.LanguageEntry, dir string)
	RemoveLanguage(name string)
}

// ThemeRegistry receives themes
type ThemeRegistry interface {
	AddTheme(name string, entry manifest.ThemeEntry, path string)
	RemoveTheme(name string)
	ListNames() []string
}

// Grammar is a grammar known to the language registry
type Grammar struct {
	Name  string
	Entry manifest.GrammarEntry
	Path  string // absolute path of the grammar artifact
}

// Language is a language known to the language registry
type Language struct {
	Name    string
	Entry   manifest.LanguageEntry
	Dir     string // absolute path of the language directory
	Builtin bool
}

// Theme is a theme known to the theme registry
type Theme struct {
	Name    string
	Entry   manifest.ThemeEntry
	Path    string // absolute path of the theme family file
	Builtin bool
}
