// Package fsys is the filesystem boundary of the extension store. Everything the
// scanner, cache and store touch on disk goes through FS so that tests can run
// against an in-memory tree and count how many listings and stats were issued.
package fsys

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
)

// Entry is one child returned by a directory listing. Listings do not follow
// symlinks: a linked directory has IsDir false and Symlink true.
type Entry struct {
	Name    string
	IsDir   bool
	Symlink bool
}

// Metadata is the subset of file info the store relies on
type Metadata struct {
	ModTime time.Time
	IsDir   bool
	Size    int64
}

// FS is the filesystem service used by the extension store.
// Implementations must be safe for concurrent use.
type FS interface {
	ReadDir(ctx context.Context, path string) ([]Entry, error)
	ReadFile(ctx context.Context, path string) ([]byte, error)
	Metadata(ctx context.Context, path string) (Metadata, error)
	// AtomicWrite replaces path with data so that readers see either the old
	// or the new content, never a partial write.
	AtomicWrite(ctx context.Context, path string, data []byte) error
	CreateDir(ctx context.Context, path string) error
	RemoveAll(ctx context.Context, path string) error
}

// AferoFS implements FS on top of an afero filesystem
type AferoFS struct {
	fs afero.Fs
}

// New wraps an afero filesystem
func New(fs afero.Fs) *AferoFS {
	return &AferoFS{fs: fs}
}

// NewOS returns an FS backed by the real operating system filesystem
func NewOS() *AferoFS {
	return New(afero.NewOsFs())
}

// NewMemory returns an FS backed by an in-memory tree
func NewMemory() *AferoFS {
	return New(afero.NewMemMapFs())
}

// Afero exposes the underlying filesystem, mostly for test fixtures
func (a *AferoFS) Afero() afero.Fs {
	return a.fs
}

// ReadDir lists path sorted by name
func (a *AferoFS) ReadDir(ctx context.Context, path string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	infos, err := afero.ReadDir(a.fs, path)
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, Entry{
			Name:    info.Name(),
			IsDir:   info.IsDir(),
			Symlink: info.Mode()&os.ModeSymlink != 0,
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

// ReadFile reads a whole file
func (a *AferoFS) ReadFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return afero.ReadFile(a.fs, path)
}

// Metadata stats path
func (a *AferoFS) Metadata(ctx context.Context, path string) (Metadata, error) {
	if err := ctx.Err(); err != nil {
		return Metadata{}, err
	}
	info, err := a.fs.Stat(path)
	if err != nil {
		return Metadata{}, err
	}
	return Metadata{ModTime: info.ModTime(), IsDir: info.IsDir(), Size: info.Size()}, nil
}

// AtomicWrite writes data to a temp file in the target directory and renames it over path
func (a *AferoFS) AtomicWrite(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := a.fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := afero.TempFile(a.fs, dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		a.fs.Remove(tmpName)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		a.fs.Remove(tmpName)
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		a.fs.Remove(tmpName)
		return err
	}
	if err := a.fs.Chmod(tmpName, 0644); err != nil && !os.IsNotExist(err) {
		a.fs.Remove(tmpName)
		return err
	}
	if err := a.fs.Rename(tmpName, path); err != nil {
		a.fs.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// CreateDir creates path and any missing parents
func (a *AferoFS) CreateDir(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.fs.MkdirAll(path, 0755)
}

// RemoveAll deletes path and everything below it
func (a *AferoFS) RemoveAll(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return a.fs.RemoveAll(path)
}
