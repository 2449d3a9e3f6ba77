package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/playperu/campusguessr/internal/campus"
	"github.com/playperu/campusguessr/internal/catalog"
	"github.com/playperu/campusguessr/internal/config"
	"github.com/playperu/campusguessr/internal/database"
	"github.com/playperu/campusguessr/internal/game"
	"github.com/playperu/campusguessr/internal/geo"
	"github.com/playperu/campusguessr/internal/handler/health"
	"github.com/playperu/campusguessr/internal/match"
	"github.com/playperu/campusguessr/internal/metrics"
	"github.com/playperu/campusguessr/internal/migrations"
	"github.com/playperu/campusguessr/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	checks := map[string]health.Checker{}

	// --- Catalog ---
	var ds catalog.Dataset
	switch {
	case cfg.CatalogDB != "":
		db, err := database.Open(ctx, cfg.CatalogDB)
		if err != nil {
			return fmt.Errorf("connecting to catalog db: %w", err)
		}
		defer db.Close()

		if err := migrations.Run(db); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		store := catalog.NewSQLiteStore(db)
		if ds, err = store.Read(ctx); err != nil {
			return fmt.Errorf("reading catalog db: %w", err)
		}
		checks["catalog_db"] = health.CheckFunc(store.Ping)
		logger.Info("reading catalog", "source", "db", "path", cfg.CatalogDB)
	case cfg.CatalogPath != "":
		if ds, err = catalog.ReadFile(cfg.CatalogPath); err != nil {
			return fmt.Errorf("reading catalog file: %w", err)
		}
		logger.Info("reading catalog", "source", "file", "path", cfg.CatalogPath)
	default:
		if ds, err = catalog.Default(); err != nil {
			return fmt.Errorf("reading embedded catalog: %w", err)
		}
		logger.Info("reading catalog", "source", "embedded")
	}

	cat, err := buildCatalog(logger, ds)
	if err != nil {
		return err
	}
	checks["catalog"] = catalogChecker{cat}

	// --- Game ---
	metrics.Register()
	metrics.SetCatalogBuildings(cat.Len())

	store := game.NewStore(cat, match.New(cat), geo.NewScorer(cfg.CampusRadius))
	broker := server.NewBroker()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger: logger,
		Store:  store,
		Broker: broker,
		Checks: checks,
		SPADir: cfg.SPADir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	g.Go(func() error {
		return store.RunSweeper(gctx, logger, cfg.SessionSweepInterval, cfg.SessionIdleTimeout, func(ids []string) {
			broker.Close(ids...)
			metrics.SetSessionsActive(store.Len())
		})
	})

	return g.Wait()
}

// buildCatalog validates ds, logging every entry that had to be dropped.
func buildCatalog(logger *slog.Logger, ds catalog.Dataset) (*campus.Catalog, error) {
	cat, report, err := catalog.Build(ds)
	for _, s := range report.Skipped {
		logger.Warn("skipping building", "index", s.Index, "name", s.Name, "error", s.Err)
	}
	for _, name := range report.DroppedAliases {
		logger.Warn("dropping aliases for unknown building", "name", name)
	}
	if err != nil {
		return nil, fmt.Errorf("loading catalog: %w", err)
	}
	logger.Info("catalog loaded", "buildings", report.Loaded, "skipped", len(report.Skipped))
	return cat, nil
}

// catalogChecker reports unhealthy if the catalog ended up empty.
type catalogChecker struct{ c *campus.Catalog }

func (c catalogChecker) Check(context.Context) error {
	if c.c.Len() == 0 {
		return campus.ErrEmptyCatalog
	}
	return nil
}
