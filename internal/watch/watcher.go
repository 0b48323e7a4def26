// Package watch reports changes to a single file.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ytbean/ubean/pkg/log"
)

// DefaultDebounce is used when Config.Debounce is not positive.
const DefaultDebounce = 100 * time.Millisecond

// Config holds configuration for a Watcher.
type Config struct {
	// Path is the file to watch. Its directory must exist.
	Path string

	// Debounce is the quiet period after the last change before OnChange runs.
	// Default: 100 milliseconds
	Debounce time.Duration
}

// Watcher calls OnChange after a file is written or (re)created. The parent
// directory is watched so editors that replace the file via rename are seen.
type Watcher struct {
	dir      string
	name     string
	debounce time.Duration
	onChange func(context.Context)
	logger   log.Logger

	mu    sync.Mutex
	timer *time.Timer

	ready     chan struct{}
	readyOnce sync.Once
}

// New creates a Watcher. onChange runs on a timer goroutine once per burst of events.
func New(cfg Config, onChange func(context.Context), logger log.Logger) *Watcher {
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	path := filepath.Clean(cfg.Path)
	return &Watcher{
		dir:      filepath.Dir(path),
		name:     filepath.Base(path),
		debounce: cfg.Debounce,
		onChange: onChange,
		logger:   logger,
		ready:    make(chan struct{}),
	}
}

// Run watches until ctx ends. It returns an error only if watching cannot begin.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch %s: %w", w.dir, err)
	}
	w.readyOnce.Do(func() { close(w.ready) })
	defer w.stop()

	w.logger.Info("watching config file", log.String("path", filepath.Join(w.dir, w.name)))

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != w.name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("config file event", log.String("op", event.Op.String()))
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		w.onChange(ctx)
	})
}

func (w *Watcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
}
