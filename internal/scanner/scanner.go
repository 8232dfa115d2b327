// Package scanner walks the installed-extensions directory and builds a
// Manifest of the grammars, languages and themes the extensions provide.
//
// One listing is issued for the root, and one for each grammars/, languages/
// and themes/ directory present in an extension. A symlinked extension costs
// one extra metadata call to resolve the link. A malformed asset only
// drops that asset; the rest of the tree is still indexed.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"lazyext/internal/fsys"
	"lazyext/internal/manifest"
)

const (
	GrammarsDir  = "grammars"
	LanguagesDir = "languages"
	ThemesDir    = "themes"

	DefaultConcurrency = 8
)

// Options configures a Scanner
type Options struct {
	Concurrency int
	Logger      zerolog.Logger
}

// Scanner builds manifests from an installed-extensions directory
type Scanner struct {
	fs          fsys.FS
	concurrency int
	log         zerolog.Logger
}

// New creates a scanner reading through filesystem
func New(filesystem fsys.FS, opts Options) *Scanner {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Scanner{
		fs:          filesystem,
		concurrency: concurrency,
		log:         opts.Logger,
	}
}

// extensionAssets is the partial manifest contributed by one extension
type extensionAssets struct {
	grammars  []namedGrammar
	languages []namedLanguage
	themes    []namedTheme
}

type namedGrammar struct {
	name  string
	entry manifest.GrammarEntry
}

type namedLanguage struct {
	name  string
	entry manifest.LanguageEntry
}

type namedTheme struct {
	name  string
	entry manifest.ThemeEntry
}

// Scan builds a manifest reflecting exactly the extensions present under installedDir.
//
// Extensions are read concurrently but merged in extension-id order, and within
// an extension in file-name order. When two assets claim the same name, the one
// merged last wins, so the result does not depend on goroutine scheduling.
func (s *Scanner) Scan(ctx context.Context, installedDir string) (*manifest.Manifest, error) {
	entries, err := s.fs.ReadDir(ctx, installedDir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrRootUnreadable, installedDir, err)
	}

	var ids []string
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name, ".") {
			continue
		}
		if !entry.IsDir {
			if !entry.Symlink || !s.linksToDir(ctx, filepath.Join(installedDir, entry.Name)) {
				continue
			}
		}
		ids = append(ids, entry.Name)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	results := make([]extensionAssets, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			assets, err := s.scanExtension(gctx, filepath.Join(installedDir, id), id)
			if err != nil {
				return err
			}
			results[i] = assets
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := manifest.NewManifest()
	for i, assets := range results {
		for _, gr := range assets.grammars {
			m.Grammars[gr.name] = gr.entry
		}
		for _, l := range assets.languages {
			if prev, ok := m.Languages[l.name]; ok {
				s.log.Warn().Str("language", l.name).Str("extension", ids[i]).
					Str("previous", prev.Extension).Msg("language declared twice, keeping the later one")
			}
			m.Languages[l.name] = l.entry
		}
		for _, t := range assets.themes {
			if prev, ok := m.Themes[t.name]; ok {
				s.log.Warn().Str("theme", t.name).Str("path", t.entry.Path).Str("extension", ids[i]).
					Str("previous", prev.Extension+"/"+prev.Path).Msg("theme declared twice, keeping the later one")
			}
			m.Themes[t.name] = t.entry
		}
	}

	s.log.Debug().
		Int("extensions", len(ids)).
		Int("grammars", len(m.Grammars)).
		Int("languages", len(m.Languages)).
		Int("themes", len(m.Themes)).
		Msg("scan complete")
	return m, nil
}

// scanExtension reads the assets of one extension. Only context errors are
// returned; everything else is logged and skipped.
func (s *Scanner) scanExtension(ctx context.Context, dir, id string) (extensionAssets, error) {
	var assets extensionAssets
	log := s.log.With().Str("extension", id).Logger()

	grammars, err := s.listOptional(ctx, filepath.Join(dir, GrammarsDir), log)
	if err != nil {
		return assets, err
	}
	for _, entry := range grammars {
		if entry.IsDir || strings.HasPrefix(entry.Name, ".") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name, filepath.Ext(entry.Name))
		if stem == "" {
			continue
		}
		assets.grammars = append(assets.grammars, namedGrammar{
			name: stem,
			entry: manifest.GrammarEntry{
				Extension: id,
				Path:      path.Join(GrammarsDir, entry.Name),
			},
		})
	}

	languages, err := s.listOptional(ctx, filepath.Join(dir, LanguagesDir), log)
	if err != nil {
		return assets, err
	}
	for _, entry := range languages {
		if !entry.IsDir || strings.HasPrefix(entry.Name, ".") {
			continue
		}
		configPath := filepath.Join(dir, LanguagesDir, entry.Name, LanguageConfigFileName)
		data, err := s.fs.ReadFile(ctx, configPath)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return assets, ctxErr
			}
			log.Warn().Err(err).Str("language_dir", entry.Name).Msg("skipping language without readable config")
			continue
		}
		cfg, err := ParseLanguageConfig(data)
		if err != nil {
			log.Warn().Err(err).Str("file", configPath).Msg("skipping malformed language config")
			continue
		}
		assets.languages = append(assets.languages, namedLanguage{
			name:  cfg.Name,
			entry: cfg.Entry(id, path.Join(LanguagesDir, entry.Name)),
		})
	}

	themes, err := s.listOptional(ctx, filepath.Join(dir, ThemesDir), log)
	if err != nil {
		return assets, err
	}
	for _, entry := range themes {
		if entry.IsDir || !strings.EqualFold(filepath.Ext(entry.Name), ".json") {
			continue
		}
		themePath := filepath.Join(dir, ThemesDir, entry.Name)
		data, err := s.fs.ReadFile(ctx, themePath)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return assets, ctxErr
			}
			log.Warn().Err(err).Str("file", themePath).Msg("skipping unreadable theme family")
			continue
		}
		family, err := ParseThemeFamily(data)
		if err != nil {
			log.Warn().Err(err).Str("file", themePath).Msg("skipping malformed theme family")
			continue
		}
		rel := path.Join(ThemesDir, entry.Name)
		for _, variant := range family.Themes {
			assets.themes = append(assets.themes, namedTheme{
				name:  variant.Name,
				entry: manifest.ThemeEntry{Extension: id, Path: rel},
			})
		}
	}

	return assets, nil
}

// linksToDir reports whether the symlink at p resolves to a directory.
// Dangling links are skipped with a warning.
func (s *Scanner) linksToDir(ctx context.Context, p string) bool {
	meta, err := s.fs.Metadata(ctx, p)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn().Err(err).Str("path", p).Msg("skipping unresolvable extension link")
		}
		return false
	}
	return meta.IsDir
}

// listOptional lists dir, treating a missing directory as empty. Other errors
// are logged and the directory is skipped; only context errors are returned.
func (s *Scanner) listOptional(ctx context.Context, dir string, log zerolog.Logger) ([]fsys.Entry, error) {
	entries, err := s.fs.ReadDir(ctx, dir)
	if err == nil {
		return entries, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Str("dir", dir).Msg("skipping unreadable asset directory")
	}
	return nil, nil
}
