// Package watcher reloads the extension store when the installed tree changes.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"lazyext/internal/scanner"
)

// DefaultDebounce is how long the tree must stay quiet before a reload
const DefaultDebounce = 250 * time.Millisecond

// ErrAlreadyStopped is returned by Start on a watcher that has been stopped
var ErrAlreadyStopped = errors.New("watcher already stopped")

// Reloader is satisfied by *store.Store
type Reloader interface {
	Reload(ctx context.Context) error
}

// Options configures a Watcher
type Options struct {
	Debounce time.Duration
	Logger   zerolog.Logger
	// OnReload, when set, is called after every debounced reload with its result
	OnReload func(error)
}

// Stats tracks watcher activity
type Stats struct {
	Events        int
	Reloads       int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// Watcher watches installed/, every extension directory and their asset
// directories, and folds bursts of changes into a single reload.
type Watcher struct {
	mu       sync.RWMutex
	watcher  *fsnotify.Watcher
	reloader Reloader
	dir      string
	debounce time.Duration
	onReload func(error)
	log      zerolog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
	stats    Stats
}

// New creates a watcher for the installed directory dir
func New(reloader Reloader, dir string, opts Options) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		watcher:  fw,
		reloader: reloader,
		dir:      filepath.Clean(dir),
		debounce: debounce,
		onReload: opts.OnReload,
		log:      opts.Logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start registers the watches and begins the event loop in a goroutine
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return ErrAlreadyStopped
	}
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("%w: %s: %v", scanner.ErrRootUnreadable, w.dir, err)
	}
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.log.Warn().Err(err).Msg("failed to list installed extensions")
	}
	for _, e := range entries {
		if e.IsDir() {
			w.watchExtension(filepath.Join(w.dir, e.Name()))
		}
	}
	w.log.Info().Str("dir", w.dir).Int("watches", len(w.watcher.WatchList())).Msg("watching installed extensions")

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the underlying watches
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	wasRunning := w.running
	w.running = false
	w.stopped = true
	w.mu.Unlock()

	close(w.stopCh)
	if wasRunning {
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.log.Error().Err(err).Msg("failed to close watcher")
	}
	w.log.Debug().Msg("watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()
	var pending bool

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.handleEvent(event) {
				pending = true
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error().Err(err).Msg("watch error")
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-timer.C:
			if pending {
				pending = false
				w.reload(ctx)
			}
		}
	}
}

// handleEvent records an event and extends the watch to new directories.
// It reports whether the event should schedule a reload.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			switch parent := filepath.Dir(event.Name); {
			case parent == w.dir:
				w.watchExtension(event.Name)
			case filepath.Dir(parent) == w.dir && isAssetDir(filepath.Base(event.Name)):
				w.watchAssetDir(event.Name)
			case filepath.Base(parent) == scanner.LanguagesDir && filepath.Dir(filepath.Dir(parent)) == w.dir:
				w.add(event.Name)
			}
		}
	}

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = event.Name
	w.stats.LastEventTime = time.Now()
	w.mu.Unlock()
	return true
}

func (w *Watcher) reload(ctx context.Context) {
	err := w.reloader.Reload(ctx)
	w.mu.Lock()
	w.stats.Reloads++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.log.Error().Err(err).Msg("reload after change failed")
	} else {
		w.log.Debug().Msg("reloaded after change")
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}

// watchExtension watches an extension directory and its existing asset directories
func (w *Watcher) watchExtension(dir string) {
	w.add(dir)
	for _, name := range []string{scanner.GrammarsDir, scanner.LanguagesDir, scanner.ThemesDir} {
		sub := filepath.Join(dir, name)
		if info, err := os.Stat(sub); err == nil && info.IsDir() {
			w.watchAssetDir(sub)
		}
	}
}

// watchAssetDir watches an asset directory. Under languages/ each language
// directory is watched too, so edits to its config.toml are seen.
func (w *Watcher) watchAssetDir(dir string) {
	w.add(dir)
	if filepath.Base(dir) != scanner.LanguagesDir {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			w.add(filepath.Join(dir, e.Name()))
		}
	}
}

func (w *Watcher) add(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		w.log.Warn().Err(err).Str("dir", dir).Msg("failed to watch directory")
	}
}

func isAssetDir(name string) bool {
	return name == scanner.GrammarsDir || name == scanner.LanguagesDir || name == scanner.ThemesDir
}

// Stats returns a copy of the activity counters
func (w *Watcher) Stats() Stats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}

// IsWatching reports whether the event loop is running
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// WatchedDirs returns the watched directories, sorted
func (w *Watcher) WatchedDirs() []string {
	dirs := w.watcher.WatchList()
	slices.Sort(dirs)
	return dirs
}
