package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/zonefx/internal/game/zone"
)

// ZoneRepository stores zones in PostgreSQL.
type ZoneRepository struct {
	pool *pgxpool.Pool
}

// NewZoneRepository creates a new zone repository.
func NewZoneRepository(pool *pgxpool.Pool) *ZoneRepository {
	return &ZoneRepository{pool: pool}
}

// LoadAll loads all zones in their saved order. Invalid rows are skipped.
func (r *ZoneRepository) LoadAll(ctx context.Context) ([]zone.Zone, error) {
	rows, err := r.pool.Query(ctx, selectZones)
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
func (r *ZoneRepository) SaveAll(ctx context.Context, zones []zone.Zone) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err.Error() != "tx is closed" {
			slog.Error("rollback failed", "error", err)
		}
	}()

	if _, err := tx.Exec(ctx, `DELETE FROM zones`); err != nil {
		return fmt.Errorf("deleting old zones: %w", err)
	}

	if len(zones) > 0 {
		rows := make([][]any, 0, len(zones))
		for i, z := range zones {
			rows = append(rows, zoneValues(i, z))
		}
		if _, err := tx.CopyFrom(ctx,
			pgx.Identifier{"zones"},
			zoneColumns,
			pgx.CopyFromRows(rows),
		); err != nil {
			return fmt.Errorf("inserting zones: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	slog.Debug("saved zones", "backend", "postgres", "count", len(zones))
	return nil
}
