package registry

import (
	"sort"
	"sync"

	"lazyext/internal/manifest"
)

// OneDark is the built-in default theme
const OneDark = "One Dark"

// Themes is an in-memory ThemeRegistry
type Themes struct {
	mu      sync.RWMutex
	builtin map[string]Theme
	themes  map[string]Theme
}

// NewThemes creates a registry holding only the built-in themes
func NewThemes() *Themes {
	return &Themes{
		builtin: map[string]Theme{
			OneDark: {Name: OneDark, Builtin: true},
		},
		themes: make(map[string]Theme),
	}
}

// AddTheme registers or replaces a theme
func (r *Themes) AddTheme(name string, entry manifest.ThemeEntry, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.themes[name] = Theme{Name: name, Entry: entry, Path: path}
}

// RemoveTheme forgets an extension theme. Built-in themes cannot be removed.
func (r *Themes) RemoveTheme(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.themes, name)
}

// ListNames returns all theme names, built-ins included, sorted
func (r *Themes) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.builtin)+len(r.themes))
	for name := range r.themes {
		names = append(names, name)
	}
	for name := range r.builtin {
		if _, shadowed := r.themes[name]; !shadowed {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Get looks up a theme by name. Extension themes shadow built-ins.
func (r *Themes) Get(name string) (Theme, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if t, ok := r.themes[name]; ok {
		return t, true
	}
	t, ok := r.builtin[name]
	return t, ok
}
