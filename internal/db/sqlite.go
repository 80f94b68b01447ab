package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/udisondev/zonefx/internal/game/zone"
)

// SQLiteZoneRepository stores zones in a single SQLite file.
type SQLiteZoneRepository struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the SQLite file at path and
// applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteZoneRepository, error) {
	if path == "" {
		return nil, fmt.Errorf("empty sqlite path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite dir: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %q: %w", path, err)
	}
	// Один писатель: SQLite сериализует запись на уровне файла.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("sqlite %s: %w", strings.TrimSuffix(pragma, ";"), err)
		}
	}

	if err := MigrateSQLite(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return &SQLiteZoneRepository{db: sqlDB}, nil
}

// Close closes the database handle.
func (r *SQLiteZoneRepository) Close() error {
	return r.db.Close()
}

// LoadAll loads all zones in their saved order. Invalid rows are skipped.
func (r *SQLiteZoneRepository) LoadAll(ctx context.Context) ([]zone.Zone, error) {
	rows, err := r.db.QueryContext(ctx, selectZones)
	if err != nil {
		return nil, fmt.Errorf("loading zones: %w", err)
	}
	defer rows.Close()

	zones := make([]zone.Zone, 0, 16)
	for rows.Next() {
		var row zoneRow
		if err := rows.Scan(row.scanTargets()...); err != nil {
			return nil, fmt.Errorf("scanning zone row: %w", err)
		}
		if z, ok := row.toZone(); ok {
			zones = append(zones, z)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating zone rows: %w", err)
	}

	return zones, nil
}

// SaveAll replaces the stored zone set with zones in a single transaction.
func (r *SQLiteZoneRepository) SaveAll(ctx context.Context, zones []zone.Zone) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM zones`); err != nil {
		return fmt.Errorf("deleting old zones: %w", err)
	}

	if len(zones) > 0 {
		insert := fmt.Sprintf("INSERT INTO zones (%s) VALUES (?%s)",
			strings.Join(zoneColumns, ", "),
			strings.Repeat(", ?", len(zoneColumns)-1))
		stmt, err := tx.PrepareContext(ctx, insert)
		if err != nil {
			return fmt.Errorf("preparing zone insert: %w", err)
		}
		defer stmt.Close()

		for i, z := range zones {
			if _, err := stmt.ExecContext(ctx, zoneValues(i, z)...); err != nil {
				return fmt.Errorf("inserting zone %q: %w", z.Name(), err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.Debug("saved zones", "backend", "sqlite", "count", len(zones))
	return nil
}
