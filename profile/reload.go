package profile

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/oakmount/ward/observe"
)

// Reloader watches a profile file and reloads it on changes. An invalid
// file never replaces the current profiles; the previous set stays
// active until a valid write lands.
type Reloader struct {
	mu        sync.RWMutex
	current   *File
	path      string
	logger    observe.Logger
	callbacks []func(*File)
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	stopOnce  sync.Once
}

// NewReloader creates a Reloader for the given profile file path. A nil
// logger discards reload diagnostics.
func NewReloader(path string, initial *File, logger observe.Logger) *Reloader {
	if logger == nil {
		logger = observe.NopLogger()
	}
	return &Reloader{
		current: initial,
		path:    path,
		logger:  logger,
		stopCh:  make(chan struct{}),
	}
}

// Current returns the active profile set.
func (r *Reloader) Current() *File {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// OnReload registers a callback invoked with the new profiles after a
// successful reload.
func (r *Reloader) OnReload(fn func(*File)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, fn)
}

// Start begins watching the profile file for changes. Must be called at
// most once after NewReloader.
func (r *Reloader) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(r.path); err != nil {
		watcher.Close()
		return err
	}

	r.watcher = watcher
	r.logger.Info(context.Background(), "profile file watcher started",
		observe.Field{Key: "path", Value: r.path})

	go r.watchLoop()
	return nil
}

// Stop terminates the file watcher. Safe to call more than once.
func (r *Reloader) Stop() {
	r.stopOnce.Do(func() {
		close(r.stopCh)
		if r.watcher != nil {
			r.watcher.Close()
		}
	})
}

// Reload loads the profile file from disk and, if valid, swaps it in and
// notifies all registered callbacks. Returns true when the reload
// succeeded. Exported so callers can force a reload without a file event.
func (r *Reloader) Reload() bool {
	ctx := context.Background()

	newFile, err := Load(r.path)
	if err != nil {
		r.logger.Error(ctx, "profile reload failed, keeping current",
			observe.Field{Key: "path", Value: r.path},
			observe.Field{Key: "error", Value: err.Error()})
		return false
	}

	r.mu.Lock()
	old := r.current
	r.current = newFile
	callbacks := make([]func(*File), len(r.callbacks))
	copy(callbacks, r.callbacks)
	r.mu.Unlock()

	r.logChanges(ctx, old, newFile)

	for _, cb := range callbacks {
		cb(newFile)
	}

	r.logger.Info(ctx, "profiles reloaded",
		observe.Field{Key: "profiles", Value: len(newFile.Profiles)})
	return true
}

// watchLoop processes fsnotify events with debouncing.
func (r *Reloader) watchLoop() {
	// Editors often write several events on save.
	var debounce *time.Timer

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(300*time.Millisecond, func() {
					r.Reload()
				})
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error(context.Background(), "profile watcher error",
				observe.Field{Key: "error", Value: err.Error()})
		case <-r.stopCh:
			if debounce != nil {
				debounce.Stop()
			}
			return
		}
	}
}

func (r *Reloader) logChanges(ctx context.Context, old, new *File) {
	if old == nil {
		return
	}

	for name := range new.Profiles {
		if _, ok := old.Profiles[name]; !ok {
			r.logger.Info(ctx, "profile added",
				observe.Field{Key: "profile", Value: name})
		}
	}
	for name := range old.Profiles {
		if _, ok := new.Profiles[name]; !ok {
			r.logger.Info(ctx, "profile removed",
				observe.Field{Key: "profile", Value: name})
		}
	}
}
