package model

// EffectKind identifies a status effect type on a player.
type EffectKind uint8

const (
	EffectSlowFalling EffectKind = iota + 1 // slows descent
	EffectJumpBoost                         // raises jump height
)

// String returns the effect identifier used in logs and info output.
func (k EffectKind) String() string {
	switch k {
	case EffectSlowFalling:
		return "slow_falling"
	case EffectJumpBoost:
		return "jump_boost"
	default:
		return "unknown"
	}
}

// Effect is an active status effect.
// Amplifier 0 is level I. Infinite effects never expire on their own.
type Effect struct {
	Kind      EffectKind
	Amplifier int32
	Infinite  bool
}
