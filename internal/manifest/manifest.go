package manifest

import (
	"sort"
)

// Clone returns a deep copy of the manifest
func (m *Manifest) Clone() *Manifest {
	out := NewManifest()
	if m == nil {
		return out
	}
	for name, g := range m.Grammars {
		out.Grammars[name] = g
	}
	for name, l := range m.Languages {
		l.Matcher.PathSuffixes = append([]string(nil), l.Matcher.PathSuffixes...)
		out.Languages[name] = l
	}
	for name, t := range m.Themes {
		out.Themes[name] = t
	}
	return out
}

// Equal reports whether both manifests hold the same entries
func (m *Manifest) Equal(other *Manifest) bool {
	return Diff(m, other).Empty()
}

// Len returns the total number of entries across all mappings
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.Grammars) + len(m.Languages) + len(m.Themes)
}

// GrammarNames returns the grammar names in sorted order
func (m *Manifest) GrammarNames() []string {
	if m == nil {
		return nil
	}
	return sortedKeys(m.Grammars)
}

// LanguageNames returns the language names in sorted order
func (m *Manifest) LanguageNames() []string {
	if m == nil {
		return nil
	}
	return sortedKeys(m.Languages)
}

// ThemeNames returns the theme names in sorted order
func (m *Manifest) ThemeNames() []string {
	if m == nil {
		return nil
	}
	return sortedKeys(m.Themes)
}

// ExtensionIDs returns the ids of all extensions contributing at least one entry
func (m *Manifest) ExtensionIDs() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{})
	for _, g := range m.Grammars {
		seen[g.Extension] = struct{}{}
	}
	for _, l := range m.Languages {
		seen[l.Extension] = struct{}{}
	}
	for _, t := range m.Themes {
		seen[t.Extension] = struct{}{}
	}
	return sortedKeys(seen)
}

// Normalize replaces nil maps so decoded manifests behave like constructed ones
func Normalize(m *Manifest) *Manifest {
	if m == nil {
		return NewManifest()
	}
	if m.Grammars == nil {
		m.Grammars = make(map[string]GrammarEntry)
	}
	if m.Languages == nil {
		m.Languages = make(map[string]LanguageEntry)
	}
	if m.Themes == nil {
		m.Themes = make(map[string]ThemeEntry)
	}
	return m
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
