package fs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mansidodiya01/babymonitorwithlora/pkg/log"
)

// FileWatcher signals when a single file is written or recreated.
// It watches the parent directory so that editors and writers which
// replace the file are still noticed.
type FileWatcher struct {
	path     string
	debounce time.Duration
	logger   log.Logger

	changes chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewFileWatcher creates a watcher for path. Bursts of events within
// debounce collapse into one notification.
func NewFileWatcher(path string, debounce time.Duration, logger log.Logger) *FileWatcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &FileWatcher{
		path:     path,
		debounce: debounce,
		logger:   logger,
		changes:  make(chan struct{}, 1),
	}
}

// Changes delivers one value per debounced change. Pending notifications
// are coalesced, so a slow consumer sees at most one queued change.
func (w *FileWatcher) Changes() <-chan struct{} {
	return w.changes
}

// Run watches until ctx is cancelled.
func (w *FileWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Info("watching metadata ledger", log.String("path", w.path))

	base := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.schedule()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", log.Err(err))
		}
	}
}

func (w *FileWatcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *FileWatcher) notify() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func (w *FileWatcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}
