package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// configWatcher signals on Changes when the config file is written,
// created or replaced. Bursts within watchDebounce collapse to one signal.
type configWatcher struct {
	path    string
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	changes chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

func newConfigWatcher(path string, logger *slog.Logger) (*configWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	// Watch the directory: editors often replace the file instead of writing it.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &configWatcher{
		path:    abs,
		watcher: w,
		logger:  logger,
		changes: make(chan struct{}, 1),
	}, nil
}

// Changes delivers one value per settled burst of edits.
func (c *configWatcher) Changes() <-chan struct{} {
	return c.changes
}

// Run forwards file events until ctx is done, then closes the watcher.
func (c *configWatcher) Run(ctx context.Context) {
	defer c.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			if c.timer != nil {
				c.timer.Stop()
			}
			c.mu.Unlock()
			return
		case ev, ok := <-c.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != c.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				c.schedule()
			}
		case err, ok := <-c.watcher.Errors:
			if !ok {
				return
			}
			c.logger.Warn("config watcher error", "error", err)
		}
	}
}

func (c *configWatcher) schedule() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(watchDebounce, func() {
		select {
		case c.changes <- struct{}{}:
		default:
		}
	})
}
