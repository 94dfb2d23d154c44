// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

/*
Package supervisor runs the long-lived catalog services of follow mode under
a suture v4 supervisor tree.

# Overview

	RootSupervisor ("cinecase")
	└── CatalogSupervisor ("catalog-layer")
	    ├── WatchService (catalog.watch)
	    └── RefreshService (catalog.refresh_interval > 0)

Crashed services are restarted with backoff once FailureThreshold failures
accumulate; failures decay at FailureDecay per second. Canceling the context
passed to Serve stops every service, waiting up to ShutdownTimeout.

Supervisor events (service failures, backoff, restarts) are logged through
sutureslog. Pass logging.NewSlogLogger() so they share the zerolog output.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddCatalogService(services.NewWatchService(watcher, logging.Logger()))
	errCh := tree.ServeBackground(ctx)
*/
package supervisor
