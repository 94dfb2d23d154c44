// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

/*
Package services provides suture.Service wrappers for catalog maintenance.

Each wrapper translates a component's lifecycle into suture's context-aware
Serve pattern:

	type Service interface {
	    Serve(ctx context.Context) error
	}

# Available Services

Catalog Watch (WatchService):
  - Wraps catalog.Watcher's Start/Stop lifecycle
  - Returns start errors so the supervisor retries with backoff
  - Ready reports when the first start succeeded

Catalog Refresh (RefreshService):
  - Calls catalog.Loader.Refresh on a fixed interval
  - Logs failed refreshes and keeps the current case base
  - Returns suture.ErrDoNotRestart when the interval is not positive

# Usage

	tree.AddCatalogService(services.NewWatchService(watcher, logger))
	tree.AddCatalogService(services.NewRefreshService(loader, time.Minute, logger))
*/
package services
