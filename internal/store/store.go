// Package store owns the authoritative extension manifest.
//
// A Store adopts a cached manifest on startup when the cache is still fresh,
// and otherwise scans the installed extensions. Every change of manifest is
// pushed into the language and theme registries as a delta. The Store is the
// only writer of those registries.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"lazyext/internal/cache"
	"lazyext/internal/fsys"
	"lazyext/internal/logging"
	"lazyext/internal/manifest"
	"lazyext/internal/registry"
	"lazyext/internal/scanner"
)

const (
	InstalledDirName = "installed"
	ManifestFileName = "manifest.yaml"
)

// Sentinel errors for the store package
var (
	ErrMissingDependency  = errors.New("store option is required")
	ErrInvalidExtensionID = errors.New("invalid extension id")
	ErrNotInstalled       = errors.New("extension is not installed")
)

// State is the lifecycle state of the current manifest generation
type State int32

const (
	Uninitialized State = iota
	Loading
	Ready
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// Options configures a Store
type Options struct {
	Root        string // extension root; installed/ and manifest.yaml live below it
	FS          fsys.FS
	Languages   registry.LanguageRegistry
	Themes      registry.ThemeRegistry
	Logger      zerolog.Logger
	Concurrency int // parallel extension scans, 0 for the scanner default
}

// Store holds the active manifest and keeps the registries in sync with it
type Store struct {
	root         string
	installedDir string
	fs           fsys.FS
	scanner      *scanner.Scanner
	cache        *cache.Manager
	languages    registry.LanguageRegistry
	themes       registry.ThemeRegistry
	log          zerolog.Logger

	mu       sync.RWMutex
	manifest *manifest.Manifest

	// applyMu serializes registry mutation. Reloads take a ticket before
	// scanning; a result is applied only if no newer ticket has been applied.
	applyMu       sync.Mutex
	settled       *sync.Cond
	settledTicket uint64
	settledErr    error
	appliedTicket uint64
	tickets       atomic.Uint64

	generation atomic.Uint64
	state      atomic.Int32
}

// New creates a store and brings the registries up to date with the installed
// extensions. A fresh cached manifest is adopted without listing any directory.
// Otherwise the installed directory is created if needed and scanned.
func New(ctx context.Context, opts Options) (*Store, error) {
	switch {
	case opts.FS == nil:
		return nil, fmt.Errorf("%w: FS", ErrMissingDependency)
	case opts.Languages == nil:
		return nil, fmt.Errorf("%w: Languages", ErrMissingDependency)
	case opts.Themes == nil:
		return nil, fmt.Errorf("%w: Themes", ErrMissingDependency)
	case opts.Root == "":
		return nil, fmt.Errorf("%w: Root", ErrMissingDependency)
	}

	log := logging.Component(opts.Logger, "store")
	installedDir := filepath.Join(opts.Root, InstalledDirName)
	s := &Store{
		root:         opts.Root,
		installedDir: installedDir,
		fs:           opts.FS,
		scanner: scanner.New(opts.FS, scanner.Options{
			Concurrency: opts.Concurrency,
			Logger:      logging.Component(opts.Logger, "scanner"),
		}),
		cache: cache.NewManager(opts.FS, filepath.Join(opts.Root, ManifestFileName), installedDir,
			logging.Component(opts.Logger, "cache")),
		languages: opts.Languages,
		themes:    opts.Themes,
		log:       log,
		manifest:  manifest.NewManifest(),
	}
	s.settled = sync.NewCond(&s.applyMu)
	s.state.Store(int32(Loading))

	snap, err := s.cache.Load(ctx)
	switch {
	case err == nil && !s.cache.IsStale(ctx, snap):
		s.applyMu.Lock()
		delta := s.apply(snap.Manifest)
		s.applyMu.Unlock()
		s.state.Store(int32(Ready))
		log.Debug().Int("changes", delta.Count()).Msg("adopted cached manifest")
		return s, nil
	case err == nil:
		log.Debug().Msg("cached manifest is stale, rescanning")
	case errors.Is(err, cache.ErrCacheMiss):
		log.Debug().Msg("no cached manifest, scanning")
	case ctx.Err() != nil:
		return nil, ctx.Err()
	default:
		log.Warn().Err(err).Msg("ignoring unreadable manifest cache")
	}

	if err := s.fs.CreateDir(ctx, installedDir); err != nil {
		log.Warn().Err(err).Str("dir", installedDir).Msg("failed to create installed directory")
	}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload rescans the installed extensions and applies the difference to the
// registries. On failure the active manifest and the registries are left as
// they were.
//
// Reloads may run concurrently. A reload overtaken by a later one waits for
// the later one to settle. If that reload installed a manifest, the overtaken
// scan is stale and is discarded. If it failed, the overtaken scan is still
// the newest successful one and is applied; when both failed, the overtaken
// reload returns its own error.
func (s *Store) Reload(ctx context.Context) error {
	ticket := s.tickets.Add(1)
	s.state.Store(int32(Loading))

	next, stamp, scanErr := s.scan(ctx)

	s.applyMu.Lock()
	defer s.applyMu.Unlock()

	if latest := s.tickets.Load(); latest != ticket {
		for s.settledTicket < latest {
			s.settled.Wait()
		}
		if s.appliedTicket > ticket {
			s.log.Debug().Uint64("ticket", ticket).Uint64("applied", s.appliedTicket).Msg("discarding superseded scan")
			return nil
		}
		if scanErr != nil {
			s.log.Error().Err(scanErr).Msg("reload failed, keeping previous manifest")
			return scanErr
		}
		s.log.Debug().Uint64("ticket", ticket).AnErr("newer", s.settledErr).Msg("newer reload failed, applying superseded scan")
		s.commit(ctx, ticket, next, stamp)
		return nil
	}
	defer func() {
		s.settledTicket = ticket
		s.settledErr = scanErr
		s.state.Store(int32(Ready))
		s.settled.Broadcast()
	}()

	if scanErr != nil {
		s.log.Error().Err(scanErr).Msg("reload failed, keeping previous manifest")
		return scanErr
	}
	s.commit(ctx, ticket, next, stamp)
	return nil
}

// commit applies a successful scan and persists it. Callers must hold applyMu.
func (s *Store) commit(ctx context.Context, ticket uint64, next *manifest.Manifest, stamp time.Time) {
	delta := s.apply(next)
	s.appliedTicket = ticket
	s.log.Info().
		Int("grammars", len(next.Grammars)).
		Int("languages", len(next.Languages)).
		Int("themes", len(next.Themes)).
		Int("changes", delta.Count()).
		Msg("manifest reloaded")

	if err := s.cache.Save(ctx, next, stamp); err != nil {
		s.log.Warn().Err(err).Msg("failed to persist manifest")
	}
}

// scan stats the installed directory before listing it, so that the mtime
// recorded in the cache is never newer than what the scan saw.
func (s *Store) scan(ctx context.Context) (*manifest.Manifest, time.Time, error) {
	meta, err := s.fs.Metadata(ctx, s.installedDir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, time.Time{}, ctxErr
		}
		return nil, time.Time{}, fmt.Errorf("%w: %s: %v", scanner.ErrRootUnreadable, s.installedDir, err)
	}
	m, err := s.scanner.Scan(ctx, s.installedDir)
	if err != nil {
		return nil, time.Time{}, err
	}
	return m, meta.ModTime, nil
}

// apply pushes the difference between the active manifest and next into the
// registries, then publishes next. Callers must hold applyMu.
func (s *Store) apply(next *manifest.Manifest) manifest.Delta {
	old := s.Manifest()
	delta := manifest.Diff(old, next)

	for _, name := range delta.Languages.Removed {
		s.languages.RemoveLanguage(name)
	}
	for _, name := range delta.Grammars.Removed {
		s.languages.RemoveGrammar(name)
	}
	for _, name := range delta.Themes.Removed {
		s.themes.RemoveTheme(name)
	}

	for _, name := range delta.Grammars.Added {
		entry := next.Grammars[name]
		s.languages.AddGrammar(name, entry, s.assetPath(entry.Extension, entry.Path))
	}
	for _, name := range delta.Languages.Added {
		entry := next.Languages[name]
		s.languages.AddLanguage(name, entry, s.assetPath(entry.Extension, entry.Path))
	}
	for _, name := range delta.Themes.Added {
		entry := next.Themes[name]
		s.themes.AddTheme(name, entry, s.assetPath(entry.Extension, entry.Path))
	}

	s.mu.Lock()
	s.manifest = next
	s.mu.Unlock()
	s.generation.Add(1)
	return delta
}

func (s *Store) assetPath(extension, rel string) string {
	return filepath.Join(s.installedDir, extension, filepath.FromSlash(rel))
}

// Manifest returns the active manifest. The returned value must not be modified.
func (s *Store) Manifest() *manifest.Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest
}

// State returns the lifecycle state
func (s *Store) State() State {
	return State(s.state.Load())
}

// Generation returns how many manifests have been installed so far
func (s *Store) Generation() uint64 {
	return s.generation.Load()
}

// Root returns the extension root directory
func (s *Store) Root() string {
	return s.root
}

// InstalledDir returns the directory holding one subdirectory per extension
func (s *Store) InstalledDir() string {
	return s.installedDir
}

// CachePath returns the location of the persisted manifest
func (s *Store) CachePath() string {
	return s.cache.Path()
}

// Uninstall deletes an extension directory and reloads
func (s *Store) Uninstall(ctx context.Context, id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidExtensionID, id)
	}
	dir := filepath.Join(s.installedDir, id)
	meta, err := s.fs.Metadata(ctx, dir)
	if err != nil || !meta.IsDir {
		return fmt.Errorf("%w: %s", ErrNotInstalled, id)
	}
	if err := s.fs.RemoveAll(ctx, dir); err != nil {
		return fmt.Errorf("failed to remove %s: %w", id, err)
	}
	s.log.Info().Str("extension", id).Msg("extension removed")
	return s.Reload(ctx)
}
