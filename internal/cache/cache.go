package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
	"lazyext/internal/fsys"
	"lazyext/internal/manifest"
)

// FormatVersion is bumped whenever the on-disk layout of the cache changes.
// Files with another version are treated as a miss.
const FormatVersion = 1

// Sentinel errors for the cache package
var (
	// ErrCacheMiss indicates no persisted manifest exists
	ErrCacheMiss = errors.New("manifest cache miss")

	// ErrCacheCorrupt indicates the persisted manifest could not be decoded
	ErrCacheCorrupt = errors.New("manifest cache corrupt")
)

// Snapshot is the persisted manifest plus what is needed to judge its freshness
type Snapshot struct {
	Version          int                `yaml:"version"`
	InstalledModTime time.Time          `yaml:"installed_mod_time"`
	SavedAt          time.Time          `yaml:"saved_at"`
	Manifest         *manifest.Manifest `yaml:"manifest"`
}

// Manager persists manifests next to the installed-extensions directory
type Manager struct {
	fs           fsys.FS
	path         string
	installedDir string
	log          zerolog.Logger
}

// NewManager creates a cache manager for the file at path guarding installedDir
func NewManager(filesystem fsys.FS, path, installedDir string, logger zerolog.Logger) *Manager {
	return &Manager{
		fs:           filesystem,
		path:         path,
		installedDir: installedDir,
		log:          logger,
	}
}

// Path returns the cache file location
func (c *Manager) Path() string {
	return c.path
}

// Load reads the persisted manifest. It never touches the installed tree.
func (c *Manager) Load(ctx context.Context) (*Snapshot, error) {
	data, err := c.fs.ReadFile(ctx, c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrCacheMiss
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCacheCorrupt, err)
	}
	if snap.Version != FormatVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrCacheCorrupt, snap.Version)
	}
	if snap.Manifest == nil {
		return nil, fmt.Errorf("%w: no manifest", ErrCacheCorrupt)
	}
	snap.Manifest = manifest.Normalize(snap.Manifest)
	return &snap, nil
}

// IsStale reports whether snap may no longer describe the installed tree.
//
// It issues exactly two metadata calls, one for the installed directory and
// one for the cache file, and no directory listings. Installing or removing
// an extension changes the installed directory's mtime, which is compared
// against the value recorded when the manifest was scanned and against the
// cache file's own mtime.
func (c *Manager) IsStale(ctx context.Context, snap *Snapshot) bool {
	if snap == nil {
		return true
	}

	installed, err := c.fs.Metadata(ctx, c.installedDir)
	if err != nil {
		c.log.Debug().Err(err).Msg("installed directory not statable, cache is stale")
		return true
	}
	cached, err := c.fs.Metadata(ctx, c.path)
	if err != nil {
		c.log.Debug().Err(err).Msg("cache file not statable, cache is stale")
		return true
	}

	if !installed.ModTime.Equal(snap.InstalledModTime) {
		c.log.Debug().
			Time("recorded", snap.InstalledModTime).
			Time("current", installed.ModTime).
			Msg("installed directory changed since the manifest was scanned")
		return true
	}
	if installed.ModTime.After(cached.ModTime) {
		c.log.Debug().Msg("installed directory is newer than the cache file")
		return true
	}
	return false
}

// Save persists m, recording installedModTime as observed before the scan that produced m.
// The file is replaced atomically.
func (c *Manager) Save(ctx context.Context, m *manifest.Manifest, installedModTime time.Time) error {
	snap := Snapshot{
		Version:          FormatVersion,
		InstalledModTime: installedModTime,
		SavedAt:          time.Now().UTC(),
		Manifest:         m,
	}

	data, err := yaml.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("failed to encode manifest cache: %w", err)
	}
	if err := c.fs.AtomicWrite(ctx, c.path, data); err != nil {
		return fmt.Errorf("failed to write manifest cache: %w", err)
	}
	return nil
}
