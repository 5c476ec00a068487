package validation

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fishter/lovelace-windrose-card/pkg/telemetry"
)

// DefaultDebounce is the quiet period after the last change before a card
// config is validated again.
const DefaultDebounce = 500 * time.Millisecond

// Handler receives the outcome of every validation triggered by the watcher.
type Handler func(*Result, error)

// Watcher re-validates a card config file whenever it changes.
type Watcher struct {
	service  *Service
	path     string
	debounce time.Duration
	logger   *telemetry.Logger
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher creates a watcher for the card config at path.
func NewWatcher(service *Service, path string, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		service:  service,
		path:     path,
		debounce: DefaultDebounce,
		logger:   service.tel.Logger.NewComponentLogger("watcher"),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run validates the file once, then again after every change, until ctx
// ends. The parent directory is watched so that editors replacing the file
// are noticed too.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	path, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", w.path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	var mu sync.Mutex
	revalidate := func() {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		handle(w.service.ValidateFile(ctx, path))
	}

	w.logger.WithSource(path).Info("watching card config")
	revalidate()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			w.logger.WithSource(path).WithField("op", event.Op.String()).Debug("card config changed")
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, revalidate)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.WithError(err).Error("watcher error")
		}
	}
}
