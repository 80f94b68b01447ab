package combat

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/udisondev/zonefx/internal/model"
)

const (
	// DefaultKnockbackStrength is the horizontal push of an unarmed hit.
	DefaultKnockbackStrength = 0.4

	// verticalLift is the upward component of a hit at multiplier 1.0.
	verticalLift = 0.4
)

// KnockbackSource returns the zone knockback multiplier for a player.
// Implemented by zone.Engine.
type KnockbackSource interface {
	KnockbackMultiplier(id uuid.UUID) float64
}

// Vector is a velocity in blocks per tick.
type Vector struct {
	X, Y, Z float64
}

// String formats the vector for logs and console output.
func (v Vector) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v.X, v.Y, v.Z)
}

// Knockback computes the velocity pushed onto victim when hit by attacker.
// The push points away from the attacker in the XZ plane and is scaled by
// the multiplier of the victim's current zone. A multiplier of 0 cancels
// knockback, a negative one pulls the victim towards the attacker.
func Knockback(src KnockbackSource, attacker, victim *model.Player, strength float64) Vector {
	if strength <= 0 {
		return Vector{}
	}

	mult := 1.0
	if src != nil {
		mult = src.KnockbackMultiplier(victim.ID())
	}

	from := attacker.Location()
	to := victim.Location()
	dx := to.X - from.X
	dz := to.Z - from.Z

	dist := math.Hypot(dx, dz)
	if dist < 1e-4 {
		// Атакующий внутри жертвы — толкаем вдоль +X.
		dx, dz, dist = 1, 0, 1
	}

	return Vector{
		X: dx / dist * strength * mult,
		Y: verticalLift * mult,
		Z: dz / dist * strength * mult,
	}
}
