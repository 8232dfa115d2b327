package manifest

// Delta lists the names to remove from and add to the consumer registries
// when moving from one manifest to another. A name whose entry changed
// appears in both the Removed and Added lists of its kind.
type Delta struct {
	Grammars  Changes
	Languages Changes
	Themes    Changes
}

// Changes holds sorted name lists for one kind of asset
type Changes struct {
	Added   []string
	Removed []string
}

// Empty reports whether the change set is a no-op
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0
}

// Empty reports whether applying the delta would touch nothing
func (d Delta) Empty() bool {
	return d.Grammars.Empty() && d.Languages.Empty() && d.Themes.Empty()
}

// Count returns the number of registry calls the delta implies
func (d Delta) Count() int {
	n := 0
	for _, c := range []Changes{d.Grammars, d.Languages, d.Themes} {
		n += len(c.Added) + len(c.Removed)
	}
	return n
}

// Diff computes the delta from old to next. nil manifests are treated as empty.
func Diff(old, next *Manifest) Delta {
	if old == nil {
		old = NewManifest()
	}
	if next == nil {
		next = NewManifest()
	}
	return Delta{
		Grammars: diffMaps(old.Grammars, next.Grammars, func(a, b GrammarEntry) bool {
			return a == b
		}),
		Languages: diffMaps(old.Languages, next.Languages, func(a, b LanguageEntry) bool {
			return a.Equal(b)
		}),
		Themes: diffMaps(old.Themes, next.Themes, func(a, b ThemeEntry) bool {
			return a == b
		}),
	}
}

func diffMaps[V any](old, next map[string]V, equal func(a, b V) bool) Changes {
	var c Changes
	for _, name := range sortedKeys(old) {
		nv, ok := next[name]
		if !ok || !equal(old[name], nv) {
			c.Removed = append(c.Removed, name)
		}
	}
	for _, name := range sortedKeys(next) {
		ov, ok := old[name]
		if !ok || !equal(ov, next[name]) {
			c.Added = append(c.Added, name)
		}
	}
	return c
}
