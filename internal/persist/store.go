// Package persist connects the zone registry to a storage backend: it opens
// the configured Store, loads zones at startup and writes registry snapshots
// asynchronously after every mutation.
package persist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/udisondev/zonefx/internal/config"
	"github.com/udisondev/zonefx/internal/db"
	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/zonefile"
)

// Store loads and replaces the full zone set.
type Store interface {
	LoadAll(ctx context.Context) ([]zone.Zone, error)
	SaveAll(ctx context.Context, zones []zone.Zone) error
}

// Open creates the Store selected by cfg.Storage.Driver.
// The returned close func releases backend resources and is never nil.
func Open(ctx context.Context, cfg config.Server) (Store, func(), error) {
	nop := func() {}

	switch cfg.Storage.Driver {
	case config.DriverYAML:
		return zonefile.New(cfg.Storage.ZonesFile), nop, nil

	case config.DriverSQLite:
		repo, err := db.OpenSQLite(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nop, fmt.Errorf("opening sqlite store: %w", err)
		}
		return repo, func() {
			if err := repo.Close(); err != nil {
				slog.Error("closing sqlite store", "error", err)
			}
		}, nil

	case config.DriverPostgres:
		dsn := cfg.Database.DSN()
		if err := db.RunMigrations(ctx, dsn); err != nil {
			return nil, nop, fmt.Errorf("migrating postgres store: %w", err)
		}
		database, err := db.New(ctx, dsn)
		if err != nil {
			return nil, nop, fmt.Errorf("opening postgres store: %w", err)
		}
		return db.NewZoneRepository(database.Pool()), database.Close, nil

	default:
		return nil, nop, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// LoadInto fills m from store. Zones in worlds for which hasWorld reports
// false are skipped. A failed load leaves the registry empty and is only
// logged. Returns the number of zones loaded.
func LoadInto(ctx context.Context, store Store, m *zone.Manager, hasWorld func(string) bool) int {
	zones, err := store.LoadAll(ctx)
	if err != nil {
		slog.Error("loading zones failed, starting with empty registry", "error", err)
		return 0
	}

	known := zones[:0]
	for _, z := range zones {
		if hasWorld != nil && !hasWorld(z.Center().World) {
			slog.Warn("skip zone in unknown world", "zone", z.Name(), "world", z.Center().World)
			continue
		}
		known = append(known, z)
	}

	return m.Load(known)
}
