package scanner

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"lazyext/internal/manifest"
)

// LanguageConfigFileName is the per-language config file inside languages/<dir>/
const LanguageConfigFileName = "config.toml"

// LanguageConfig is the structure of a language config.toml. Keys the store
// does not need (brackets, comments, ...) are ignored.
type LanguageConfig struct {
	Name             string   `toml:"name"`
	Grammar          string   `toml:"grammar"`
	PathSuffixes     []string `toml:"path_suffixes"`
	FirstLinePattern string   `toml:"first_line_pattern"`
}

// ParseLanguageConfig decodes a language config.toml
func ParseLanguageConfig(data []byte) (*LanguageConfig, error) {
	var cfg LanguageConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLanguageConfig, err)
	}
	if cfg.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrInvalidLanguageConfig)
	}
	return &cfg, nil
}

// Entry converts the config into a manifest entry for the given extension and path
func (c *LanguageConfig) Entry(extension, path string) manifest.LanguageEntry {
	suffixes := c.PathSuffixes
	if suffixes == nil {
		suffixes = []string{}
	}
	return manifest.LanguageEntry{
		Extension: extension,
		Path:      path,
		Grammar:   c.Grammar,
		Matcher: manifest.LanguageMatcher{
			PathSuffixes:     suffixes,
			FirstLinePattern: c.FirstLinePattern,
		},
	}
}
