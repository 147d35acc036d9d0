package world

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/nexusroot/nexus/pkg/core/logging"
)

// Loader holds the active world and reloads it from its file on change
type Loader struct {
	mu      sync.RWMutex
	current *World
	path    string
	logger  *logging.Logger

	onChange func(*World)
}

// NewLoader returns a loader for path. An empty path serves the embedded
// world and never reloads.
func NewLoader(path string) (*Loader, error) {
	l := &Loader{path: path, logger: logging.New("world")}
	if path == "" {
		l.current = Default()
		return l, nil
	}
	w, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	l.current = w
	l.logger.Info("World loaded", "path", path, "files", len(w.Files))
	return l, nil
}

// Current returns the active world
func (l *Loader) Current() *World {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.current
}

// SetOnChange registers a callback for successful reloads
func (l *Loader) SetOnChange(fn func(*World)) {
	l.mu.Lock()
	l.onChange = fn
	l.mu.Unlock()
}

// Reload re-reads the world file. A broken file keeps the previous world.
func (l *Loader) Reload() error {
	if l.path == "" {
		return nil
	}
	w, err := LoadFile(l.path)
	if err != nil {
		l.logger.Warn("World reload failed, keeping previous world", "path", l.path, "error", err)
		return err
	}

	l.mu.Lock()
	l.current = w
	fn := l.onChange
	l.mu.Unlock()

	l.logger.Info("World reloaded", "path", l.path, "files", len(w.Files))
	if fn != nil {
		fn(w)
	}
	return nil
}

// Watch reloads the world whenever its file is written, until ctx ends.
// The directory is watched so editors that replace the file are seen.
func (l *Loader) Watch(ctx context.Context) error {
	if l.path == "" {
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(l.path)); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch world directory: %w", err)
	}
	l.logger.Info("Watching world file", "path", l.path)

	go l.watchLoop(ctx, watcher)
	return nil
}

func (l *Loader) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	target := filepath.Clean(l.path)
	const debounce = 200 * time.Millisecond

	// reload fires once writes have been quiet for debounce, so a save that
	// truncates then writes is read only after it finished
	reload := time.NewTimer(time.Hour)
	reload.Stop()
	defer reload.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-reload.C:
			_ = l.Reload()
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				reload.Reset(debounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.logger.Error("World watcher error", "error", err)
		}
	}
}
