package world

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/udisondev/zonefx/internal/model"
)

// zone.Sink and zone.Notifier over online players.
// Offline players are silently ignored.

func (w *World) SetMovementSpeedBase(id uuid.UUID, v float64) {
	if p, ok := w.Player(id); ok {
		p.SetMovementSpeed(v)
	}
}

func (w *World) AddEffect(id uuid.UUID, kind model.EffectKind, amplifier int32, infinite bool) {
	if p, ok := w.Player(id); ok {
		p.AddEffect(model.Effect{Kind: kind, Amplifier: amplifier, Infinite: infinite})
	}
}

func (w *World) RemoveEffect(id uuid.UUID, kind model.EffectKind) {
	if p, ok := w.Player(id); ok {
		p.RemoveEffect(kind)
	}
}

func (w *World) Saturation(id uuid.UUID) float64 {
	if p, ok := w.Player(id); ok {
		return p.Saturation()
	}
	return 0
}

func (w *World) SetSaturation(id uuid.UUID, v float64) {
	if p, ok := w.Player(id); ok {
		p.SetSaturation(v)
	}
}

func (w *World) FoodLevel(id uuid.UUID) int32 {
	if p, ok := w.Player(id); ok {
		return p.FoodLevel()
	}
	return 0
}

func (w *World) SetFoodLevel(id uuid.UUID, v int32) {
	if p, ok := w.Player(id); ok {
		p.SetFoodLevel(v)
	}
}

// Notify sends a chat line to the player.
func (w *World) Notify(id uuid.UUID, msg string) {
	p, ok := w.Player(id)
	if !ok {
		return
	}
	p.SendMessage(msg)
	slog.Debug("player notified", "player", p.Name(), "msg", msg)
}
