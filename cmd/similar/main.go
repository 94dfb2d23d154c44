// Cinecase - Case-Based Movie Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinecase

// Command similar prints the movies most similar to a query movie.
//
// The catalog is read from a JSON or YAML file, validated and loaded into a
// case base. Each neighbour is written to stdout as one JSON object per line,
// best first:
//
//	similar -catalog movies.yaml -id urn:movie:ryan -k 5
//	similar -catalog movies.yaml -title "Saving Private Ryan"
//	similar -catalog movies.yaml -all -k 3
//
// With -follow the command keeps running, reloads the case base whenever the
// catalog file changes and prints a fresh result set after every reload.
// Changes to the weights and cutoffs in the config file are applied the same
// way. The
// watcher (and the periodic refresh, when catalog.refresh_interval is set)
// run under a supervisor tree that restarts them on failure. SIGINT or
// SIGTERM stops it.
//
// # Configuration
//
// Settings come from built-in defaults, an optional YAML file (-config, or
// CINECASE_CONFIG) and environment variables such as CBR_GENRE_WEIGHT or
// LOG_LEVEL. Flags override the file for the catalog path and k. Logs go to
// stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinecase/internal/catalog"
	"github.com/tomtom215/cinecase/internal/config"
	"github.com/tomtom215/cinecase/internal/logging"
	"github.com/tomtom215/cinecase/internal/models"
	"github.com/tomtom215/cinecase/internal/recommend"
	"github.com/tomtom215/cinecase/internal/recommend/similarity"
	"github.com/tomtom215/cinecase/internal/supervisor"
	"github.com/tomtom215/cinecase/internal/supervisor/services"
)

// errUsage marks command-line errors; flag has already printed usage.
var errUsage = errors.New("invalid usage")

// neighbour is one output line.
type neighbour struct {
	Query     string               `json:"query"`
	Rank      int                  `json:"rank"`
	CaseID    string               `json:"case_id"`
	Title     string               `json:"title"`
	Year      int                  `json:"year,omitempty"`
	Score     float64              `json:"score"`
	Breakdown similarity.Breakdown `json:"breakdown"`
}

type options struct {
	configPath  string
	catalogPath string
	id          string
	title       string
	k           int
	all         bool
	follow      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()

	if errors.Is(err, errUsage) {
		os.Exit(2)
	}
	if err != nil {
		logging.Error().Err(err).Msg("similar failed")
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("similar", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &options{}
	fs.StringVar(&opts.configPath, "config", "", "Path to config file (optional)")
	fs.StringVar(&opts.catalogPath, "catalog", "", "Path to catalog file (overrides config)")
	fs.StringVar(&opts.id, "id", "", "URI of the query movie")
	fs.StringVar(&opts.title, "title", "", "Title of the query movie")
	fs.IntVar(&opts.k, "k", 0, "Number of neighbours (default: cbr.default_k)")
	fs.BoolVar(&opts.all, "all", false, "Print neighbours for every movie in the catalog")
	fs.BoolVar(&opts.follow, "follow", false, "Keep running and re-print results when the catalog changes")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	selectors := 0
	for _, set := range []bool{opts.id != "", opts.title != "", opts.all} {
		if set {
			selectors++
		}
	}
	if selectors != 1 {
		fmt.Fprintln(stderr, "exactly one of -id, -title or -all is required")
		fs.Usage()
		return nil, errUsage
	}
	if opts.k < 0 {
		fmt.Fprintln(stderr, "-k must not be negative")
		return nil, errUsage
	}
	return opts, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFile(opts.configPath)
	} else {
		cfg, err = config.LoadWithKoanf()
	}
	if err != nil {
		return nil, err
	}

	if opts.catalogPath != "" {
		cfg.Catalog.Path = opts.catalogPath
	}
	if opts.follow {
		cfg.Catalog.Watch = true
	}
	if opts.k == 0 {
		opts.k = cfg.CBR.DefaultK
	}
	return cfg, cfg.Validate()
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logging.Init(cfg.Logging.Logger())

	engine, err := recommend.NewEngine(cfg.CBR.Engine(), logging.Logger())
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	src, err := catalog.NewSource(&cfg.Catalog)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	loader := catalog.NewLoader(src, engine, cfg.Catalog.Timeout, logging.Logger())
	if _, err := loader.Refresh(ctx); err != nil {
		return err
	}

	p := &printer{engine: engine, opts: opts, enc: json.NewEncoder(stdout)}

	if !cfg.Catalog.Watch {
		return p.emit()
	}

	// The watcher is running before the first print so no change made after
	// the initial results appear can be missed.
	errCh, err := startFollow(ctx, cfg, loader, p)
	if err != nil {
		return err
	}
	if path := configFilePath(opts); path != "" {
		stop, err := watchConfig(path, engine, p)
		if err != nil {
			return err
		}
		defer func() { _ = stop() }()
	}
	if err := p.emit(); err != nil {
		return err
	}

	<-ctx.Done()
	logging.Info().Msg("Shutting down")
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervisor: %w", err)
	}
	return nil
}

// startFollow runs the catalog services under a supervisor tree and waits
// until the watcher is up. Results are re-emitted after every reload.
func startFollow(ctx context.Context, cfg *config.Config, loader *catalog.Loader, p *printer) (<-chan error, error) {
	loader.OnRefresh(func(catalog.Result) {
		if err := p.emit(); err != nil {
			logging.Warn().Err(err).Msg("Failed to print results after reload")
		}
	})

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create supervisor tree: %w", err)
	}

	log := logging.Component("follow")
	w := catalog.NewWatcher(cfg.Catalog.Path, loader, cfg.Catalog.ReloadInterval, log)
	watch := services.NewWatchService(w, log)
	tree.AddCatalogService(watch)
	if cfg.Catalog.RefreshInterval > 0 {
		tree.AddCatalogService(services.NewRefreshService(loader, cfg.Catalog.RefreshInterval, log))
	}

	errCh := tree.ServeBackground(ctx)
	select {
	case <-watch.Ready():
		return errCh, nil
	case err := <-errCh:
		return nil, fmt.Errorf("supervisor stopped before the catalog watcher started: %w", err)
	case <-ctx.Done():
		<-errCh
		return nil, ctx.Err()
	}
}

func configFilePath(opts *options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.FindConfigFile()
}

// watchConfig applies new weights and cutoffs from the config file and
// re-emits results. Other settings take effect on the next start.
func watchConfig(path string, engine *recommend.Engine, p *printer) (func() error, error) {
	log := logging.Component("follow").With().Str("config", path).Logger()

	return config.WatchConfigFile(path, func() {
		next, err := config.LoadFile(path)
		if err != nil {
			log.Warn().Err(err).Msg("Config reload failed; keeping current weights")
			return
		}
		scoring := next.CBR.Engine()
		if err := engine.Reweight(scoring.Weights, scoring.Cutoffs); err != nil {
			log.Warn().Err(err).Msg("Rejected new similarity settings")
			return
		}
		if err := p.emit(); err != nil {
			log.Warn().Err(err).Msg("Failed to print results after config reload")
		}
	})
}

// printer writes neighbour lines for the selected queries.
type printer struct {
	engine *recommend.Engine
	opts   *options

	mu  sync.Mutex
	enc *json.Encoder
}

func (p *printer) emit() error {
	queries, err := p.queries()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	for _, q := range queries {
		results, err := p.engine.FindSimilarWithScores(q, p.opts.k)
		if err != nil {
			return fmt.Errorf("retrieve neighbours of %q: %w", q.Title, err)
		}
		for i := range results {
			r := &results[i]
			line := neighbour{
				Query:     q.URI,
				Rank:      i + 1,
				CaseID:    r.CaseID,
				Title:     r.Movie.Title,
				Year:      r.Movie.Year,
				Score:     r.Score,
				Breakdown: r.Breakdown,
			}
			if err := p.enc.Encode(line); err != nil {
				return fmt.Errorf("write result: %w", err)
			}
		}
	}
	return nil
}

// queries resolves the query movies from the case base.
func (p *printer) queries() ([]*models.Movie, error) {
	cases := p.engine.Cases()

	if p.opts.all {
		movies := make([]*models.Movie, len(cases))
		for i, c := range cases {
			movies[i] = c.Movie
		}
		return movies, nil
	}

	for _, c := range cases {
		if (p.opts.id != "" && c.Movie.URI == p.opts.id) ||
			(p.opts.title != "" && c.Movie.Title == p.opts.title) {
			return []*models.Movie{c.Movie}, nil
		}
	}

	key := p.opts.id
	if key == "" {
		key = p.opts.title
	}
	return nil, fmt.Errorf("movie %q not found in catalog", key)
}
