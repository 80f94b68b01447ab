package model

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Runtime defaults of a freshly joined player.
const (
	DefaultMovementSpeed = 0.1
	MaxFoodLevel         = 20
	MaxSaturation        = 20.0
	DefaultSaturation    = 5.0
)

// maxInbox — сколько последних сообщений хранится у игрока.
const maxInbox = 64

// Player — подключённый игрок.
// Хранит позицию и runtime-атрибуты, которые изменяют зоны:
// базовую скорость передвижения, статус-эффекты, насыщение и голод.
//
// Thread-safe: all accessors take the player mutex.
type Player struct {
	id   uuid.UUID
	name string

	mu          sync.RWMutex
	location    Location
	accessLevel int32

	movementSpeed float64
	effects       map[EffectKind]Effect
	saturation    float64
	foodLevel     int32

	inbox []string

	updateTick uint64 // номер тика последнего обновления позиции
}

// NewPlayer creates a player at loc with default runtime attributes.
func NewPlayer(id uuid.UUID, name string, loc Location) (*Player, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("player id must not be nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("player name must not be empty")
	}

	return &Player{
		id:            id,
		name:          name,
		location:      loc,
		movementSpeed: DefaultMovementSpeed,
		effects:       make(map[EffectKind]Effect, 2),
		saturation:    DefaultSaturation,
		foodLevel:     MaxFoodLevel,
	}, nil
}

// ID returns the stable player identity (immutable).
func (p *Player) ID() uuid.UUID { return p.id }

// Name returns the display name (immutable).
func (p *Player) Name() string { return p.name }

// Location возвращает копию текущей позиции.
func (p *Player) Location() Location {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.location
}

// SetLocation updates the position and returns the previous one.
func (p *Player) SetLocation(loc Location) Location {
	p.mu.Lock()
	defer p.mu.Unlock()
	prev := p.location
	p.location = loc
	return prev
}

// UpdateTick returns the world tick of the last position update.
func (p *Player) UpdateTick() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.updateTick
}

// SetUpdateTick records the world tick of a position update.
func (p *Player) SetUpdateTick(tick uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updateTick = tick
}

// AccessLevel returns the admin access level (0 = regular player).
func (p *Player) AccessLevel() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.accessLevel
}

// SetAccessLevel sets the admin access level.
func (p *Player) SetAccessLevel(level int32) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.accessLevel = level
}

// MovementSpeed returns the base value of the movement speed attribute.
func (p *Player) MovementSpeed() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.movementSpeed
}

// SetMovementSpeed sets the base value of the movement speed attribute.
func (p *Player) SetMovementSpeed(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.movementSpeed = v
}

// AddEffect adds e, replacing any active effect of the same kind.
func (p *Player) AddEffect(e Effect) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.effects[e.Kind] = e
}

// RemoveEffect removes the effect of the given kind.
// Returns false if no such effect was active.
func (p *Player) RemoveEffect(kind EffectKind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.effects[kind]; !ok {
		return false
	}
	delete(p.effects, kind)
	return true
}

// Effect returns the active effect of the given kind.
func (p *Player) Effect(kind EffectKind) (Effect, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	e, ok := p.effects[kind]
	return e, ok
}

// Effects returns a snapshot of active effects ordered by kind.
func (p *Player) Effects() []Effect {
	p.mu.RLock()
	defer p.mu.RUnlock()

	result := make([]Effect, 0, len(p.effects))
	for _, e := range p.effects {
		result = append(result, e)
	}
	slices.SortFunc(result, func(a, b Effect) int { return int(a.Kind) - int(b.Kind) })
	return result
}

// Saturation returns the current saturation.
func (p *Player) Saturation() float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.saturation
}

// SetSaturation устанавливает насыщение с clamp 0..MaxSaturation.
func (p *Player) SetSaturation(v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > MaxSaturation {
		v = MaxSaturation
	}
	p.saturation = v
}

// FoodLevel returns the current food level.
func (p *Player) FoodLevel() int32 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.foodLevel
}

// SetFoodLevel устанавливает уровень голода с clamp 0..MaxFoodLevel.
func (p *Player) SetFoodLevel(v int32) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if v < 0 {
		v = 0
	}
	if v > MaxFoodLevel {
		v = MaxFoodLevel
	}
	p.foodLevel = v
}

// SendMessage delivers a chat line to the player.
// Only the latest maxInbox lines are kept.
func (p *Player) SendMessage(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.inbox = append(p.inbox, msg)
	if len(p.inbox) > maxInbox {
		p.inbox = slices.Clone(p.inbox[len(p.inbox)-maxInbox:])
	}
}

// LastMessage returns the most recent chat line, or "" if none.
func (p *Player) LastMessage() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.inbox) == 0 {
		return ""
	}
	return p.inbox[len(p.inbox)-1]
}

// DrainMessages returns and clears all pending chat lines.
func (p *Player) DrainMessages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	msgs := p.inbox
	p.inbox = nil
	return msgs
}
