// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Watcher refreshes a Loader whenever its catalog file changes.
//
// The parent directory is watched rather than the file itself so that
// editors replacing the file by rename are still observed. Reloads are
// spaced by at least the configured interval; events arriving while a
// reload waits are folded into it.
type Watcher struct {
	path    string
	loader  *Loader
	limiter *rate.Limiter
	logger  zerolog.Logger

	fsw    *fsnotify.Watcher
	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for path. interval <= 0 disables throttling.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWatcher(path string, loader *Loader, interval time.Duration, logger zerolog.Logger) *Watcher {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Watcher{
		path:    filepath.Clean(path),
		loader:  loader,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.With().Str("component", "catalog-watcher").Str("path", path).Logger(),
	}
}

// Start begins watching. It does not perform an initial refresh. Call Stop
// to clean up; a stopped watcher may be started again. Start and Stop must
// not be called concurrently.
func (w *Watcher) Start(ctx context.Context) error {
	if w.fsw != nil {
		return fmt.Errorf("watcher for %s already started", w.path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw
	w.done = make(chan struct{})

	ctx, w.cancel = context.WithCancel(ctx)
	go w.loop(ctx, fsw, w.done)

	w.logger.Info().Msg("watching catalog for changes")
	return nil
}

// Stop shuts down the watcher and waits for an in-flight reload to finish.
func (w *Watcher) Stop() {
	if w.fsw == nil {
		return
	}
	w.cancel()
	_ = w.fsw.Close()
	<-w.done
	w.fsw = nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(evt) {
				continue
			}
			if err := w.limiter.Wait(ctx); err != nil {
				return
			}
			drain(fsw)
			w.reload(ctx)
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("catalog watcher error")
		}
	}
}

func (w *Watcher) relevant(evt fsnotify.Event) bool {
	if filepath.Clean(evt.Name) != w.path {
		return false
	}
	return evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename)
}

// drain discards events queued while waiting for the limiter.
func drain(fsw *fsnotify.Watcher) {
	for {
		select {
		case _, ok := <-fsw.Events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	if _, err := w.loader.Refresh(ctx); err != nil {
		w.logger.Warn().Err(err).Msg("catalog reload failed; keeping current case base")
	}
}
