package catalog

import (
	"context"
	"database/sql"
	"fmt"
)

// SQLiteStore reads and writes a Dataset in the catalog database. The schema
// lives in internal/migrations. Coordinates are stored as text, the same way
// they may arrive in JSON, and parsed by Build.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Read(ctx context.Context) (Dataset, error) {
	var ds Dataset

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, latitude, longitude
		FROM buildings
		ORDER BY position
	`)
	if err != nil {
		return Dataset{}, fmt.Errorf("querying buildings: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec Record
		var lat, lon string
		if err := rows.Scan(&rec.Name, &lat, &lon); err != nil {
			return Dataset{}, fmt.Errorf("scanning building: %w", err)
		}
		rec.Latitude, rec.Longitude = Coord(lat), Coord(lon)
		ds.Buildings = append(ds.Buildings, rec)
	}
	if err := rows.Err(); err != nil {
		return Dataset{}, fmt.Errorf("iterating buildings: %w", err)
	}

	aliasRows, err := s.db.QueryContext(ctx, `
		SELECT building, alias
		FROM building_aliases
		ORDER BY building, alias
	`)
	if err != nil {
		return Dataset{}, fmt.Errorf("querying aliases: %w", err)
	}
	defer aliasRows.Close()

	ds.Aliases = make(map[string][]string)
	for aliasRows.Next() {
		var building, alias string
		if err := aliasRows.Scan(&building, &alias); err != nil {
			return Dataset{}, fmt.Errorf("scanning alias: %w", err)
		}
		ds.Aliases[building] = append(ds.Aliases[building], alias)
	}
	if err := aliasRows.Err(); err != nil {
		return Dataset{}, fmt.Errorf("iterating aliases: %w", err)
	}

	return ds, nil
}

// Replace swaps the stored dataset for ds in a single transaction.
func (s *SQLiteStore) Replace(ctx context.Context, ds Dataset) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM building_aliases`, `DELETE FROM buildings`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing catalog: %w", err)
		}
	}

	for i, rec := range ds.Buildings {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO buildings (position, name, latitude, longitude) VALUES (?, ?, ?, ?)`,
			i, rec.Name, string(rec.Latitude), string(rec.Longitude),
		); err != nil {
			return fmt.Errorf("inserting building %q: %w", rec.Name, err)
		}
	}

	for building, list := range ds.Aliases {
		for _, alias := range list {
			if _, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO building_aliases (building, alias) VALUES (?, ?)`,
				building, alias,
			); err != nil {
				return fmt.Errorf("inserting alias %q: %w", alias, err)
			}
		}
	}

	return tx.Commit()
}

// Ping reports whether the catalog database is reachable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
