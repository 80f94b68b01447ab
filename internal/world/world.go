package world

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/model"
)

var (
	ErrUnknownWorld   = errors.New("unknown world")
	ErrPlayerNotFound = errors.New("player not found")
	ErrNameTaken      = errors.New("player name already online")
)

// Tracker consumes position updates and player removals.
// Implemented by zone.Engine.
type Tracker interface {
	HandleMove(id uuid.UUID, from, to model.Location) zone.Transition
	Release(id uuid.UUID) bool
}

// World is the host runtime: online players, their positions and runtime
// attributes. It is the position source for the zone engine and the sink
// zone effects are written to.
//
// Thread-safe. The world lock is never held while calling the tracker.
type World struct {
	mu      sync.RWMutex
	worlds  map[string]struct{}
	players map[uuid.UUID]*model.Player
	byName  map[string]uuid.UUID // lowercase name → id

	tracker Tracker

	ticks atomic.Uint64 // completed ticks
}

// New creates a world runtime hosting the named worlds.
func New(worlds ...string) *World {
	w := &World{
		worlds:  make(map[string]struct{}, len(worlds)),
		players: make(map[uuid.UUID]*model.Player),
		byName:  make(map[string]uuid.UUID),
	}
	for _, name := range worlds {
		w.worlds[name] = struct{}{}
	}
	return w
}

// SetTracker installs the position update consumer.
func (w *World) SetTracker(t Tracker) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tracker = t
}

// HasWorld reports whether the named world is hosted.
func (w *World) HasWorld(name string) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	_, ok := w.worlds[name]
	return ok
}

// Worlds returns hosted world names sorted.
func (w *World) Worlds() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()

	names := make([]string, 0, len(w.worlds))
	for name := range w.worlds {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Join adds a player at loc and evaluates zones at the spawn point.
func (w *World) Join(id uuid.UUID, name string, loc model.Location) (*model.Player, error) {
	p, err := model.NewPlayer(id, name, loc)
	if err != nil {
		return nil, fmt.Errorf("joining %q: %w", name, err)
	}

	w.mu.Lock()
	if _, ok := w.worlds[loc.World]; !ok {
		w.mu.Unlock()
		return nil, fmt.Errorf("joining %q: %w: %q", name, ErrUnknownWorld, loc.World)
	}
	key := strings.ToLower(name)
	if _, taken := w.byName[key]; taken {
		w.mu.Unlock()
		return nil, fmt.Errorf("joining %q: %w", name, ErrNameTaken)
	}
	if _, dup := w.players[id]; dup {
		w.mu.Unlock()
		return nil, fmt.Errorf("joining %q: player %s already online", name, id)
	}
	w.players[id] = p
	w.byName[key] = id
	tracker := w.tracker
	w.mu.Unlock()

	slog.Info("player joined", "player", name, "id", id, "location", loc)

	// Пустой мир в from гарантирует пересечение ячейки: зоны проверяются сразу.
	w.track(tracker, id, model.Location{}, loc)
	return p, nil
}

// Leave removes a player and releases its zone state.
func (w *World) Leave(id uuid.UUID) error {
	w.mu.Lock()
	p, ok := w.players[id]
	if !ok {
		w.mu.Unlock()
		return fmt.Errorf("leaving %s: %w", id, ErrPlayerNotFound)
	}
	delete(w.players, id)
	delete(w.byName, strings.ToLower(p.Name()))
	tracker := w.tracker
	w.mu.Unlock()

	if tracker != nil {
		tracker.Release(id)
	}
	slog.Info("player left", "player", p.Name(), "id", id)
	return nil
}

// Move updates a player's position and reports the zone transition.
func (w *World) Move(id uuid.UUID, to model.Location) (zone.Transition, error) {
	w.mu.RLock()
	p, ok := w.players[id]
	_, known := w.worlds[to.World]
	tracker := w.tracker
	w.mu.RUnlock()

	if !ok {
		return zone.Transition{}, fmt.Errorf("moving %s: %w", id, ErrPlayerNotFound)
	}
	if !known {
		return zone.Transition{}, fmt.Errorf("moving %s: %w: %q", p.Name(), ErrUnknownWorld, to.World)
	}

	from := p.SetLocation(to)
	// Обновление позиции заменяет stay-тик текущего периода.
	p.SetUpdateTick(w.ticks.Load() + 1)
	return w.track(tracker, id, from, to), nil
}

// track forwards a position update to the tracker. A player that left while
// the update was in flight is released again, so no zone state outlives it.
func (w *World) track(tracker Tracker, id uuid.UUID, from, to model.Location) zone.Transition {
	if tracker == nil {
		return zone.Transition{}
	}
	tr := tracker.HandleMove(id, from, to)
	if _, online := w.Player(id); !online {
		tracker.Release(id)
	}
	return tr
}

// Tick delivers a stay-in-place update for every online player that had
// no position update since the previous tick.
func (w *World) Tick() {
	tick := w.ticks.Add(1)

	w.mu.RLock()
	tracker := w.tracker
	players := make([]*model.Player, 0, len(w.players))
	for _, p := range w.players {
		players = append(players, p)
	}
	w.mu.RUnlock()

	if tracker == nil {
		return
	}
	for _, p := range players {
		if p.UpdateTick() == tick {
			continue
		}
		loc := p.Location()
		tracker.HandleMove(p.ID(), loc, loc)
	}
}

// Run ticks the world tickRate times per second until ctx is done.
func (w *World) Run(ctx context.Context, tickRate int) error {
	if tickRate <= 0 {
		return fmt.Errorf("tick rate must be positive, got %d", tickRate)
	}

	ticker := time.NewTicker(time.Second / time.Duration(tickRate))
	defer ticker.Stop()

	slog.Info("world tick loop started", "tick_rate", tickRate)
	for {
		select {
		case <-ctx.Done():
			slog.Info("world tick loop stopped")
			return nil
		case <-ticker.C:
			w.Tick()
		}
	}
}

// Player returns an online player by id.
func (w *World) Player(id uuid.UUID) (*model.Player, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	p, ok := w.players[id]
	return p, ok
}

// FindPlayerByName finds an online player by name (case-insensitive).
func (w *World) FindPlayerByName(name string) *model.Player {
	w.mu.RLock()
	defer w.mu.RUnlock()
	id, ok := w.byName[strings.ToLower(name)]
	if !ok {
		return nil
	}
	return w.players[id]
}

// Players returns online players sorted by name.
func (w *World) Players() []*model.Player {
	w.mu.RLock()
	result := make([]*model.Player, 0, len(w.players))
	for _, p := range w.players {
		result = append(result, p)
	}
	w.mu.RUnlock()

	slices.SortFunc(result, func(a, b *model.Player) int { return strings.Compare(a.Name(), b.Name()) })
	return result
}

// PlayerCount returns the number of online players.
func (w *World) PlayerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.players)
}
