package db

import (
	"log/slog"

	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/model"
)

var zoneColumns = []string{
	"name", "seq", "world", "x", "y", "z", "shape", "size",
	"gravity", "speed", "jump", "knockback", "stamina",
}

const selectZones = `
	SELECT name, world, x, y, z, shape, size, gravity, speed, jump, knockback, stamina
	FROM zones
	ORDER BY seq, name
`

// zoneRow — плоская строка таблицы zones.
type zoneRow struct {
	Name      string
	World     string
	X, Y, Z   float64
	Shape     string
	Size      float64
	Gravity   float64
	Speed     float64
	Jump      float64
	Knockback float64
	Stamina   float64
}

func (r *zoneRow) scanTargets() []any {
	return []any{
		&r.Name, &r.World, &r.X, &r.Y, &r.Z, &r.Shape, &r.Size,
		&r.Gravity, &r.Speed, &r.Jump, &r.Knockback, &r.Stamina,
	}
}

// toZone validates the row. Invalid rows are logged and reported as !ok.
func (r zoneRow) toZone() (zone.Zone, bool) {
	shape, err := zone.ParseShape(r.Shape)
	if err == nil {
		var z zone.Zone
		z, err = zone.Restore(r.Name,
			model.NewLocation(r.World, r.X, r.Y, r.Z),
			shape, r.Size,
			zone.Params{
				Gravity:      r.Gravity,
				Speed:        r.Speed,
				Jump:         r.Jump,
				Knockback:    r.Knockback,
				StaminaDrain: r.Stamina,
			})
		if err == nil {
			return z, true
		}
	}
	slog.Warn("skip invalid zone row", "zone", r.Name, "error", err)
	return zone.Zone{}, false
}

// zoneValues returns the row values in zoneColumns order.
func zoneValues(seq int, z zone.Zone) []any {
	c := z.Center()
	p := z.Params()
	return []any{
		z.Name(), seq, c.World, c.X, c.Y, c.Z, z.Shape().String(), z.Size(),
		p.Gravity, p.Speed, p.Jump, p.Knockback, p.StaminaDrain,
	}
}
