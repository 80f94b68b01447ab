package zone

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/zonefx/internal/model"
)

// Notifier delivers zone enter/leave messages to players.
type Notifier interface {
	Notify(id uuid.UUID, msg string)
}

// Engine runs the per-player enter/stay/exit state machine.
// A player is OUTSIDE when it has no State and INSIDE(zone) otherwise.
//
// Thread-safe: position updates are serialized by the engine mutex.
type Engine struct {
	zones    *Manager
	applier  *Applier
	notifier Notifier
	now      func() time.Time

	mu     sync.Mutex
	states map[uuid.UUID]State
}

// NewEngine creates an engine over the registry. notifier may be nil.
func NewEngine(zones *Manager, applier *Applier, notifier Notifier) *Engine {
	return &Engine{
		zones:    zones,
		applier:  applier,
		notifier: notifier,
		now:      time.Now,
		states:   make(map[uuid.UUID]State),
	}
}

// HandleMove processes one position update of a player.
//
// When from and to are in the same block cell no containment query runs;
// a player inside a zone only gets the periodic stamina drain. Otherwise
// the zones at to decide the transition; the first match wins.
func (e *Engine) HandleMove(id uuid.UUID, from, to model.Location) Transition {
	e.mu.Lock()
	defer e.mu.Unlock()

	current, inside := e.states[id]

	if from.SameBlock(to) {
		if !inside {
			return Transition{Kind: TransitionNone}
		}
		// Зона могла быть удалена: выход произойдёт при пересечении ячейки.
		if z, ok := e.zones.Get(current.ZoneName); ok {
			e.applier.DrainStamina(id, z)
		}
		return Transition{Kind: TransitionStay, From: current.ZoneName, To: current.ZoneName}
	}

	zones := e.zones.ZonesAt(to)

	if len(zones) == 0 {
		if !inside {
			return Transition{Kind: TransitionNone}
		}
		e.applier.Remove(id)
		delete(e.states, id)
		e.notify(id, "Left zone: "+current.ZoneName)

		slog.Debug("player left zone", "player", id, "zone", current.ZoneName)
		return Transition{Kind: TransitionExit, From: current.ZoneName}
	}

	target := zones[0]

	if inside && current.ZoneName == target.name {
		e.applier.DrainStamina(id, target)
		return Transition{Kind: TransitionStay, From: current.ZoneName, To: target.name}
	}

	kind := TransitionEnter
	if inside {
		// Полный сброс перед применением новой зоны: множители не складываются.
		e.applier.Remove(id)
		kind = TransitionSwitch
	}
	e.applier.Apply(id, target)
	e.states[id] = State{ZoneName: target.name, EnteredAt: e.now()}
	e.notify(id, "Entered zone: "+target.name)

	slog.Debug("player entered zone",
		"player", id,
		"zone", target.name,
		"from", current.ZoneName,
		"overlapping", len(zones))

	return Transition{Kind: kind, From: current.ZoneName, To: target.name}
}

// Release forgets a player, e.g. on disconnect. Runtime effects are not
// touched: the player is gone. Reports whether the player was tracked.
func (e *Engine) Release(id uuid.UUID) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.states[id]; !ok {
		return false
	}
	delete(e.states, id)
	return true
}

// Current returns the player's state, if inside a zone.
func (e *Engine) Current(id uuid.UUID) (State, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	st, ok := e.states[id]
	return st, ok
}

// CurrentZone resolves the player's current zone with live parameters.
func (e *Engine) CurrentZone(id uuid.UUID) (Zone, bool) {
	st, ok := e.Current(id)
	if !ok {
		return Zone{}, false
	}
	return e.zones.Get(st.ZoneName)
}

// KnockbackMultiplier returns the knockback multiplier of the player's
// current zone, or 1.0 outside zones.
func (e *Engine) KnockbackMultiplier(id uuid.UUID) float64 {
	z, ok := e.CurrentZone(id)
	if !ok {
		return 1.0
	}
	return z.params.Knockback
}

// TrackedCount returns the number of players inside a zone.
func (e *Engine) TrackedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.states)
}

// PlayersIn returns ids of players whose current zone is name.
func (e *Engine) PlayersIn(name string) []uuid.UUID {
	e.mu.Lock()
	defer e.mu.Unlock()

	var ids []uuid.UUID
	for id, st := range e.states {
		if st.ZoneName == name {
			ids = append(ids, id)
		}
	}
	return ids
}

func (e *Engine) notify(id uuid.UUID, msg string) {
	if e.notifier != nil {
		e.notifier.Notify(id, msg)
	}
}
