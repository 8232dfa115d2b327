package registry

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"lazyext/internal/manifest"
)

// PlainText is the built-in fallback language
const PlainText = "Plain Text"

// Languages is an in-memory LanguageRegistry
type Languages struct {
	mu        sync.RWMutex
	builtin   map[string]Language
	languages map[string]Language
	grammars  map[string]Grammar
	patterns  map[string]*regexp.Regexp // compiled first-line patterns; nil when invalid
}

// NewLanguages creates a registry holding only the built-in languages
func NewLanguages() *Languages {
	return &Languages{
		builtin: map[string]Language{
			PlainText: {
				Name:    PlainText,
				Entry:   manifest.LanguageEntry{Matcher: manifest.LanguageMatcher{PathSuffixes: []string{"txt"}}},
				Builtin: true,
			},
		},
		languages: make(map[string]Language),
		grammars:  make(map[string]Grammar),
		patterns:  make(map[string]*regexp.Regexp),
	}
}

// AddGrammar registers or replaces a grammar
func (r *Languages) AddGrammar(name string, entry manifest.GrammarEntry, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grammars[name] = Grammar{Name: name, Entry: entry, Path: path}
}

// RemoveGrammar forgets a grammar; languages referring to it lose highlighting
func (r *Languages) RemoveGrammar(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.grammars, name)
}

// AddLanguage registers or replaces a language
func (r *Languages) AddLanguage(name string, entry manifest.LanguageEntry, dir string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.languages[name] = Language{Name: name, Entry: entry, Dir: dir}
	delete(r.patterns, name)
}

// RemoveLanguage forgets a language
func (r *Languages) RemoveLanguage(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.languages, name)
	delete(r.patterns, name)
}

// LanguageNames returns all language names, built-ins included, sorted
func (r *Languages) LanguageNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{}, len(r.builtin)+len(r.languages))
	for name := range r.builtin {
		seen[name] = struct{}{}
	}
	for name := range r.languages {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Language looks up a language by name. Extension languages shadow built-ins.
func (r *Languages) Language(name string) (Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lookup(name)
}

func (r *Languages) lookup(name string) (Language, bool) {
	if l, ok := r.languages[name]; ok {
		return l, true
	}
	l, ok := r.builtin[name]
	return l, ok
}

// Grammar resolves the grammar of a language. It succeeds only once both the
// language and the grammar it names have been added, in whichever order.
func (r *Languages) Grammar(language string) (Grammar, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lookup(language)
	if !ok || l.Entry.Grammar == "" {
		return Grammar{}, false
	}
	g, ok := r.grammars[l.Entry.Grammar]
	return g, ok
}

// GrammarNames returns the registered grammar names, sorted
func (r *Languages) GrammarNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.grammars))
	for name := range r.grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ForPath finds the language for a file path by its suffix. A suffix matches
// either the extension ("rb" for main.rb) or the whole file name ("Gemfile").
// Extension languages are tried before built-ins, each in name order.
func (r *Languages) ForPath(path string) (Language, bool) {
	base := filepath.Base(path)
	ext := strings.TrimPrefix(filepath.Ext(base), ".")

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.ordered() {
		for _, suffix := range l.Entry.Matcher.PathSuffixes {
			if suffix == base || (ext != "" && suffix == ext) {
				return l, true
			}
		}
	}
	return Language{}, false
}

// ForFirstLine finds the language whose first-line pattern matches line.
// Patterns are compiled on first use; a pattern that does not compile never matches.
func (r *Languages) ForFirstLine(line string) (Language, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.ordered() {
		pattern := l.Entry.Matcher.FirstLinePattern
		if pattern == "" {
			continue
		}
		re, ok := r.patterns[l.Name]
		if !ok {
			re, _ = regexp.Compile(pattern)
			r.patterns[l.Name] = re
		}
		if re != nil && re.MatchString(line) {
			return l, true
		}
	}
	return Language{}, false
}

// ordered returns extension languages then unshadowed built-ins, each sorted
// by name. Callers must hold the lock.
func (r *Languages) ordered() []Language {
	ext := make([]Language, 0, len(r.languages))
	for _, l := range r.languages {
		ext = append(ext, l)
	}
	sort.Slice(ext, func(i, j int) bool { return ext[i].Name < ext[j].Name })

	builtin := make([]Language, 0, len(r.builtin))
	for name, l := range r.builtin {
		if _, shadowed := r.languages[name]; !shadowed {
			builtin = append(builtin, l)
		}
	}
	sort.Slice(builtin, func(i, j int) bool { return builtin[i].Name < builtin[j].Name })

	return append(ext, builtin...)
}
