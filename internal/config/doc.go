// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

/*
Package config provides layered configuration for Cinecase.

# Configuration Sources

Values are resolved in order, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: the path in CINECASE_CONFIG, else the first of
    DefaultConfigPaths that exists
 3. Mapped environment variables

# Sections

cbr: retrieval engine settings.
  - CBR_GENRE_WEIGHT (0.25), CBR_DIRECTOR_WEIGHT (0.20), CBR_ACTOR_WEIGHT (0.15),
    CBR_YEAR_WEIGHT (0.15), CBR_RATING_WEIGHT (0.15), CBR_COUNTRY_WEIGHT (0.10)
  - CBR_YEAR_CUTOFF (20), CBR_RATING_CUTOFF (5); 0 disables the attribute
  - CBR_IDENTITY: uri (default) or title
  - CBR_DUPLICATES: allow (default) or reject
  - CBR_DEFAULT_K (5)
  - CBR_CACHE_ENABLED (true), CBR_CACHE_TTL (5m), CBR_CACHE_MAX_ENTRIES (1024)

catalog: where movies come from.
  - CATALOG_PATH: JSON or YAML catalog file
  - CATALOG_FORMAT: json or yaml; detected from the extension when empty
  - CATALOG_WATCH (false), CATALOG_RELOAD_INTERVAL (2s), CATALOG_TIMEOUT (10s)
  - CATALOG_REFRESH_INTERVAL: periodic reload in follow mode (0, disabled)
  - CATALOG_BREAKER_ENABLED (true), CATALOG_BREAKER_MAX_REQUESTS (1),
    CATALOG_BREAKER_INTERVAL (1m), CATALOG_BREAKER_TIMEOUT (30s)

logging:
  - LOG_LEVEL (info), LOG_FORMAT (json), LOG_CALLER (false)

# Example File

	cbr:
	  genre_weight: 0.30
	  country_weight: 0.05
	  identity: uri
	catalog:
	  path: /var/lib/cinecase/movies.yaml
	  watch: true
	logging:
	  level: debug
	  format: console

Negative weights or cutoffs, unknown identity or duplicate modes and an
incomplete breaker section fail validation. Weights that do not sum to 1.0 are
accepted; the engine logs a warning.
*/
package config
