// Command catalog-import loads a campus dataset into a catalog database
// that the server reads with CATALOG_DB.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/playperu/campusguessr/internal/catalog"
	"github.com/playperu/campusguessr/internal/database"
	"github.com/playperu/campusguessr/internal/migrations"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd(os.Stdout).ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

type options struct {
	dbPath string
	file   string
	dryRun bool
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "catalog-import",
		Short: "Load a campus building dataset into a catalog database",
		Long: `Reads a JSON dataset of buildings and aliases, validates it the same
way the server does, and replaces the contents of the catalog database.

Without --file the dataset compiled into the server is imported.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := slog.New(slog.NewTextHandler(stdout, nil))
			return runImport(cmd.Context(), logger, opts)
		},
	}

	cmd.Flags().StringVar(&opts.dbPath, "db", "", "catalog database path")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "JSON dataset to import (default: embedded dataset)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "validate the dataset without writing")
	cmd.SetOut(stdout)

	return cmd
}

func runImport(ctx context.Context, logger *slog.Logger, opts options) error {
	if opts.dbPath == "" && !opts.dryRun {
		return fmt.Errorf("--db is required unless --dry-run is set")
	}

	var (
		ds  catalog.Dataset
		err error
	)
	if opts.file != "" {
		ds, err = catalog.ReadFile(opts.file)
	} else {
		ds, err = catalog.Default()
	}
	if err != nil {
		return fmt.Errorf("reading dataset: %w", err)
	}

	// Validate first so a broken file never replaces a good catalog.
	_, report, err := catalog.Build(ds)
	for _, s := range report.Skipped {
		logger.Warn("skipping building", "index", s.Index, "name", s.Name, "error", s.Err)
	}
	for _, name := range report.DroppedAliases {
		logger.Warn("dropping aliases for unknown building", "name", name)
	}
	if err != nil {
		return fmt.Errorf("validating dataset: %w", err)
	}
	logger.Info("dataset valid", "buildings", report.Loaded, "skipped", len(report.Skipped))

	if opts.dryRun {
		return nil
	}

	db, err := database.Open(ctx, opts.dbPath)
	if err != nil {
		return fmt.Errorf("connecting to catalog db: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	clean := report.Clean(ds)
	if err := catalog.NewSQLiteStore(db).Replace(ctx, clean); err != nil {
		return fmt.Errorf("writing catalog: %w", err)
	}
	logger.Info("catalog imported", "path", opts.dbPath, "buildings", len(clean.Buildings))
	return nil
}
