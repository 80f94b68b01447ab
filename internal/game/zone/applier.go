package zone

import (
	"math"

	"github.com/google/uuid"

	"github.com/udisondev/zonefx/internal/model"
)

const (
	// BaseSpeed is the neutral movement speed base value.
	BaseSpeed = model.DefaultMovementSpeed

	// DefaultTickRate is the nominal number of position updates per second.
	DefaultTickRate = 20

	slowFallingScale = 5.0 // amplifier per unit of missing gravity
	jumpBoostScale   = 3.0 // amplifier per unit of extra jump

	// saturationFloor — остаток насыщения ниже этого считается нулём.
	saturationFloor = 1e-9
)

// Sink exposes the runtime primitives zone effects are written to.
// Calls for unknown players must be no-ops.
type Sink interface {
	SetMovementSpeedBase(id uuid.UUID, v float64)
	AddEffect(id uuid.UUID, kind model.EffectKind, amplifier int32, infinite bool)
	RemoveEffect(id uuid.UUID, kind model.EffectKind)
	Saturation(id uuid.UUID) float64
	SetSaturation(id uuid.UUID, v float64)
	FoodLevel(id uuid.UUID) int32
	SetFoodLevel(id uuid.UUID, v int32)
}

// Applier translates zone parameters into runtime effects and back.
type Applier struct {
	sink     Sink
	tickRate int
}

// NewApplier creates an Applier writing to sink.
// tickRate <= 0 falls back to DefaultTickRate.
func NewApplier(sink Sink, tickRate int) *Applier {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	return &Applier{sink: sink, tickRate: tickRate}
}

// Apply writes the zone's movement effects to the player.
// Idempotent: every primitive is either set to an absolute value or
// explicitly removed. Knockback is not applied here; combat reads it
// through the engine.
func (a *Applier) Apply(id uuid.UUID, z Zone) {
	p := z.params

	a.sink.SetMovementSpeedBase(id, BaseSpeed*p.Speed)

	if p.Gravity < 1.0 {
		a.sink.AddEffect(id, model.EffectSlowFalling, SlowFallingAmplifier(p.Gravity), true)
	} else {
		a.sink.RemoveEffect(id, model.EffectSlowFalling)
	}

	if amp := JumpBoostAmplifier(p.Jump); amp > 0 {
		a.sink.AddEffect(id, model.EffectJumpBoost, amp, true)
	} else {
		a.sink.RemoveEffect(id, model.EffectJumpBoost)
	}
}

// Remove resets everything Apply may have changed. Safe on a player
// without zone effects.
func (a *Applier) Remove(id uuid.UUID) {
	a.sink.SetMovementSpeedBase(id, BaseSpeed)
	a.sink.RemoveEffect(id, model.EffectSlowFalling)
	a.sink.RemoveEffect(id, model.EffectJumpBoost)
}

// DrainStamina runs one tick of the zone's stamina drain.
// Saturation drops by drain/tickRate down to zero; once it is already
// empty, food level drops by one per tick down to zero.
func (a *Applier) DrainStamina(id uuid.UUID, z Zone) {
	rate := z.params.StaminaDrain
	if rate <= 0 {
		return
	}

	sat := a.sink.Saturation(id)
	if sat <= 0 {
		if food := a.sink.FoodLevel(id); food > 0 {
			a.sink.SetFoodLevel(id, food-1)
		}
		return
	}

	next := sat - rate/float64(a.tickRate)
	if next < saturationFloor {
		next = 0
	}
	a.sink.SetSaturation(id, next)
}

// SlowFallingAmplifier returns the slow-falling amplifier for a gravity
// multiplier below 1.0. Amplifier 0 is level I.
func SlowFallingAmplifier(gravity float64) int32 {
	return toAmplifier((1.0 - gravity) * slowFallingScale)
}

// JumpBoostAmplifier returns the jump-boost amplifier for a jump multiplier.
// Zero means no effect.
func JumpBoostAmplifier(jump float64) int32 {
	if jump == 1.0 {
		return 0
	}
	return toAmplifier((jump - 1.0) * jumpBoostScale)
}

// toAmplifier truncates v into 0..MaxInt32. Float-to-int conversion out of
// range is implementation-defined in Go, so huge multipliers are clamped first.
func toAmplifier(v float64) int32 {
	switch {
	case math.IsNaN(v) || v <= 0:
		return 0
	case v >= math.MaxInt32:
		return math.MaxInt32
	default:
		return int32(v)
	}
}
