package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	// CatalogDB, when set, is the path of a SQLite catalog database.
	// Otherwise CatalogPath is read, and with neither the embedded
	// dataset is used.
	CatalogDB   string `env:"CATALOG_DB"`
	CatalogPath string `env:"CATALOG_PATH"`

	CampusRadius float64 `env:"CAMPUS_RADIUS_METERS" envDefault:"800"`

	SessionIdleTimeout   time.Duration `env:"SESSION_IDLE_TIMEOUT" envDefault:"2h"`
	SessionSweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"5m"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.CampusRadius <= 0 {
		return nil, fmt.Errorf("CAMPUS_RADIUS_METERS must be positive, got %v", cfg.CampusRadius)
	}
	if cfg.SessionSweepInterval <= 0 {
		return nil, fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive, got %v", cfg.SessionSweepInterval)
	}
	return &cfg, nil
}
