// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/cinecase/internal/catalog"
)

// CatalogWatcher is the part of catalog.Watcher the watch service drives.
type CatalogWatcher interface {
	Start(ctx context.Context) error
	Stop()
}

// CatalogRefresher is the part of catalog.Loader the refresh service drives.
type CatalogRefresher interface {
	Refresh(ctx context.Context) (catalog.Result, error)
}

// WatchService runs a catalog file watcher under supervision. A failed
// Start is returned to the supervisor, which retries with backoff.
type WatchService struct {
	watcher CatalogWatcher
	logger  zerolog.Logger
	name    string

	readyOnce sync.Once
	ready     chan struct{}
}

// NewWatchService creates a watch service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWatchService(watcher CatalogWatcher, logger zerolog.Logger) *WatchService {
	return &WatchService{
		watcher: watcher,
		logger:  logger.With().Str("service", "catalog-watch").Logger(),
		name:    "catalog-watch-service",
		ready:   make(chan struct{}),
	}
}

// Serve implements suture.Service.
func (s *WatchService) Serve(ctx context.Context) error {
	if err := s.watcher.Start(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to start catalog watcher")
		return err
	}
	s.readyOnce.Do(func() { close(s.ready) })

	<-ctx.Done()
	s.watcher.Stop()
	s.logger.Debug().Msg("catalog watcher stopped")
	return ctx.Err()
}

// Ready is closed once the watcher has started for the first time.
func (s *WatchService) Ready() <-chan struct{} {
	return s.ready
}

// String returns the service name for logging.
func (s *WatchService) String() string {
	return s.name
}

// RefreshService reloads the catalog on a fixed interval, for sources whose
// changes are not visible to a file watcher. Failed refreshes are logged and
// leave the current case base in place.
type RefreshService struct {
	refresher CatalogRefresher
	interval  time.Duration
	logger    zerolog.Logger
	name      string
}

// NewRefreshService creates a periodic refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(refresher CatalogRefresher, interval time.Duration, logger zerolog.Logger) *RefreshService {
	return &RefreshService{
		refresher: refresher,
		interval:  interval,
		logger:    logger.With().Str("service", "catalog-refresh").Logger(),
		name:      "catalog-refresh-service",
	}
}

// Serve implements suture.Service. A non-positive interval stops the
// service permanently.
func (s *RefreshService) Serve(ctx context.Context) error {
	if s.interval <= 0 {
		s.logger.Info().Msg("periodic catalog refresh disabled")
		return suture.ErrDoNotRestart
	}

	s.logger.Info().Dur("interval", s.interval).Msg("catalog refresh service starting")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog refresh service shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled catalog refresh triggered")
			if _, err := s.refresher.Refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled catalog refresh failed")
			}
		}
	}
}

// String returns the service name for logging.
func (s *RefreshService) String() string {
	return s.name
}
