package auth

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/giantswarm/linkedin-mcp/pkg/logging"
)

// DefaultWatchDebounce is how long the watcher waits after the last event
// before invalidating the store.
const DefaultWatchDebounce = 250 * time.Millisecond

// TokenWatcher invalidates a TokenStore when the token file changes on disk,
// e.g. after `linkedin-mcp auth login` ran in another process while the MCP
// server keeps serving.
//
// The parent directory is watched rather than the file itself because saves
// replace the file by rename.
type TokenWatcher struct {
	mu       sync.Mutex
	store    *TokenStore
	path     string
	onChange func()
	debounce time.Duration

	fsWatcher *fsnotify.Watcher
	stopCh    chan struct{}
	running   bool

	debounceMu    sync.Mutex
	debounceTimer *time.Timer
}

// NewTokenWatcher watches path for store. onChange is optional and runs after
// each invalidation.
func NewTokenWatcher(store *TokenStore, path string, onChange func()) *TokenWatcher {
	return &TokenWatcher{
		store:    store,
		path:     filepath.Clean(path),
		onChange: onChange,
		debounce: DefaultWatchDebounce,
	}
}

// Start begins watching. It is a no-op when already running.
func (w *TokenWatcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create token directory %s: %w", dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w.fsWatcher = watcher
	w.stopCh = make(chan struct{})
	w.running = true

	// Capture channels before releasing lock to avoid racing with Stop
	go w.processEvents(watcher.Events, watcher.Errors, w.stopCh)

	logging.Debug("TokenWatcher", "Watching %s for token changes", w.path)
	return nil
}

// Stop ends watching and cancels any pending invalidation.
func (w *TokenWatcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.running {
		return
	}
	close(w.stopCh)
	_ = w.fsWatcher.Close()
	w.fsWatcher = nil
	w.running = false

	w.debounceMu.Lock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceMu.Unlock()
}

func (w *TokenWatcher) processEvents(eventsCh <-chan fsnotify.Event, errorsCh <-chan error, stopCh <-chan struct{}) {
	for {
		select {
		case <-stopCh:
			return
		case event, ok := <-eventsCh:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-errorsCh:
			if !ok {
				return
			}
			logging.Error("TokenWatcher", err, "fsnotify error")
		}
	}
}

func (w *TokenWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	logging.Debug("TokenWatcher", "Token file event %s", event.Op)

	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		running := w.running
		w.mu.Unlock()
		if !running {
			return
		}

		w.store.Invalidate()
		logging.Info("TokenWatcher", "Token record changed on disk, reloading")
		if w.onChange != nil {
			w.onChange()
		}
	})
}
