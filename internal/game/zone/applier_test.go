package zone

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonefx/internal/model"
)

func TestAmplifiers(t *testing.T) {
	tests := []struct {
		name string
		got  int32
		want int32
	}{
		{name: "half gravity", got: SlowFallingAmplifier(0.5), want: 2},
		{name: "zero gravity", got: SlowFallingAmplifier(0), want: 5},
		{name: "slightly low gravity is level I", got: SlowFallingAmplifier(0.9), want: 0},
		{name: "double jump", got: JumpBoostAmplifier(2.0), want: 3},
		{name: "neutral jump", got: JumpBoostAmplifier(1.0), want: 0},
		{name: "small jump rounds down", got: JumpBoostAmplifier(1.2), want: 0},
		{name: "reduced jump is no effect", got: JumpBoostAmplifier(0.5), want: 0},
		{name: "huge jump saturates", got: JumpBoostAmplifier(1e10), want: math.MaxInt32},
		{name: "very negative gravity saturates", got: SlowFallingAmplifier(-1e10), want: math.MaxInt32},
		{name: "huge negative jump is no effect", got: JumpBoostAmplifier(-1e10), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestApplier_Apply(t *testing.T) {
	sink := newPlayerSink()
	p := sink.add(t, at(0, 64, 0))
	a := NewApplier(sink, DefaultTickRate)

	z := mustZone(t, "moon", at(0, 64, 0), ShapeCircle, 10,
		Params{Gravity: 0.5, Speed: 1.5, Jump: 2.0, Knockback: 3.0})
	a.Apply(p.ID(), z)

	assert.InDelta(t, 0.15, p.MovementSpeed(), 1e-12)

	fall, ok := p.Effect(model.EffectSlowFalling)
	require.True(t, ok)
	assert.Equal(t, int32(2), fall.Amplifier)
	assert.True(t, fall.Infinite)

	jump, ok := p.Effect(model.EffectJumpBoost)
	require.True(t, ok)
	assert.Equal(t, int32(3), jump.Amplifier)
}

func TestApplier_ApplyHugeMultipliers(t *testing.T) {
	sink := newPlayerSink()
	p := sink.add(t, at(0, 64, 0))
	a := NewApplier(sink, DefaultTickRate)

	z := mustZone(t, "space", at(0, 64, 0), ShapeCircle, 10,
		Params{Gravity: -1e10, Speed: 1, Jump: 1e10, Knockback: 1})
	a.Apply(p.ID(), z)

	fall, ok := p.Effect(model.EffectSlowFalling)
	require.True(t, ok)
	assert.Equal(t, int32(math.MaxInt32), fall.Amplifier)

	jump, ok := p.Effect(model.EffectJumpBoost)
	require.True(t, ok, "huge jump must still apply jump boost")
	assert.Equal(t, int32(math.MaxInt32), jump.Amplifier)
}

func TestApplier_ApplyIsIdempotent(t *testing.T) {
	z := mustZone(t, "moon", at(0, 64, 0), ShapeCircle, 10,
		Params{Gravity: 0.2, Speed: 0.7, Jump: 1.8, Knockback: 1, StaminaDrain: 4})

	once := newPlayerSink()
	p1 := once.add(t, at(0, 64, 0))
	NewApplier(once, DefaultTickRate).Apply(p1.ID(), z)

	twice := newPlayerSink()
	p2 := twice.add(t, at(0, 64, 0))
	a := NewApplier(twice, DefaultTickRate)
	a.Apply(p2.ID(), z)
	a.Apply(p2.ID(), z)

	assert.Equal(t, p1.MovementSpeed(), p2.MovementSpeed())
	assert.Equal(t, p1.Effects(), p2.Effects())
	assert.Equal(t, p1.Saturation(), p2.Saturation(), "apply must not drain")
	assert.Equal(t, p1.FoodLevel(), p2.FoodLevel())
}

func TestApplier_ApplyRemovesLeftovers(t *testing.T) {
	sink := newPlayerSink()
	p := sink.add(t, at(0, 64, 0))
	a := NewApplier(sink, DefaultTickRate)

	// Эффекты от предыдущей зоны, которые новая зона не задаёт.
	p.AddEffect(model.Effect{Kind: model.EffectSlowFalling, Amplifier: 4, Infinite: true})
	p.AddEffect(model.Effect{Kind: model.EffectJumpBoost, Amplifier: 2, Infinite: true})

	a.Apply(p.ID(), mustZone(t, "heavy", at(0, 64, 0), ShapeCircle, 10,
		Params{Gravity: 1.5, Speed: 1, Jump: 1.2, Knockback: 1}))

	assert.Empty(t, p.Effects(), "gravity >= 1 and zero jump amplifier must clear effects")
}

func TestApplier_Remove(t *testing.T) {
	sink := newPlayerSink()
	p := sink.add(t, at(0, 64, 0))
	a := NewApplier(sink, DefaultTickRate)

	// Снятие эффектов с чистого игрока — no-op.
	a.Remove(p.ID())
	assert.Equal(t, BaseSpeed, p.MovementSpeed())
	assert.Empty(t, p.Effects())

	a.Apply(p.ID(), mustZone(t, "moon", at(0, 64, 0), ShapeCircle, 10,
		Params{Gravity: 0.1, Speed: 3, Jump: 3, Knockback: 1}))
	require.Len(t, p.Effects(), 2)

	a.Remove(p.ID())
	assert.Equal(t, BaseSpeed, p.MovementSpeed())
	assert.Empty(t, p.Effects())

	// Unknown players are ignored by the sink.
	a.Remove(uuid.New())
}

func TestApplier_DrainStamina(t *testing.T) {
	sink := newPlayerSink()
	p := sink.add(t, at(0, 64, 0))
	a := NewApplier(sink, DefaultTickRate)

	z := mustZone(t, "desert", at(0, 64, 0), ShapeCircle, 10,
		Params{Gravity: 1, Speed: 1, Jump: 1, Knockback: 1, StaminaDrain: 2.0})

	p.SetSaturation(0.3)
	p.SetFoodLevel(2)

	a.DrainStamina(p.ID(), z)
	assert.InDelta(t, 0.2, p.Saturation(), 1e-9)
	assert.Equal(t, int32(2), p.FoodLevel())

	a.DrainStamina(p.ID(), z)
	assert.InDelta(t, 0.1, p.Saturation(), 1e-9)

	a.DrainStamina(p.ID(), z)
	assert.Equal(t, 0.0, p.Saturation(), "clamped at zero")
	assert.Equal(t, int32(2), p.FoodLevel(), "food untouched until saturation was already empty")

	a.DrainStamina(p.ID(), z)
	assert.Equal(t, int32(1), p.FoodLevel())

	a.DrainStamina(p.ID(), z)
	assert.Equal(t, int32(0), p.FoodLevel())

	a.DrainStamina(p.ID(), z)
	assert.Equal(t, int32(0), p.FoodLevel(), "food clamped at zero")
	assert.Equal(t, 0.0, p.Saturation())
}

func TestApplier_DrainStaminaZeroRate(t *testing.T) {
	sink := newPlayerSink()
	p := sink.add(t, at(0, 64, 0))
	p.SetSaturation(0)
	p.SetFoodLevel(7)

	NewApplier(sink, DefaultTickRate).DrainStamina(p.ID(), mustZone(t, "calm", at(0, 64, 0), ShapeCircle, 10, DefaultParams()))

	assert.Equal(t, int32(7), p.FoodLevel())
	assert.Equal(t, 0.0, p.Saturation())
}

func TestApplier_CustomTickRate(t *testing.T) {
	sink := newPlayerSink()
	p := sink.add(t, at(0, 64, 0))
	p.SetSaturation(5)

	z := mustZone(t, "fast", at(0, 64, 0), ShapeCircle, 10,
		Params{Gravity: 1, Speed: 1, Jump: 1, Knockback: 1, StaminaDrain: 10})
	NewApplier(sink, 10).DrainStamina(p.ID(), z)
	assert.InDelta(t, 4.0, p.Saturation(), 1e-9)

	NewApplier(sink, 0).DrainStamina(p.ID(), z)
	assert.InDelta(t, 3.5, p.Saturation(), 1e-9, "non-positive tick rate falls back to default")
}
