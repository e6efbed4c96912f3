package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/colonyops/mappicker/internal/core/logging"
	"github.com/colonyops/mappicker/pkg/debounce"
)

const watchDebounce = 100 * time.Millisecond

// Watcher calls reload whenever the dataset file changes on disk.
type Watcher struct {
	path     string
	reload   func(ctx context.Context) error
	log      zerolog.Logger
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher watches path. The parent directory is watched rather than the
// file, so editors that save by rename keep triggering reloads.
func NewWatcher(path string, reload func(ctx context.Context) error) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve dataset path: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     abs,
		reload:   reload,
		log:      logging.Component("dataset"),
		watcher:  fw,
		debounce: debounce.New(nil),
		ctx:      ctx,
		cancel:   cancel,
	}

	w.wg.Add(1)
	go w.run()

	return w, nil
}

// Close stops watching. A reload already running is allowed to finish.
func (w *Watcher) Close() error {
	w.cancel()
	w.debounce.Cancel()
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("dataset watcher error")
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	if filepath.Clean(event.Name) != w.path {
		return
	}

	w.debounce.Schedule(watchDebounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		if err := w.reload(w.ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.log.Warn().Err(err).Str("path", w.path).Msg("dataset reload failed")
			return
		}
		w.log.Info().Str("path", w.path).Msg("dataset reloaded")
	})
}
