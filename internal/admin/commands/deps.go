package commands

import (
	"github.com/google/uuid"

	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/model"
)

// ClientManager provides online player lookup for commands.
// Interface to avoid import cycle with the world package.
type ClientManager interface {
	// FindPlayerByName finds an online player by name (case-insensitive).
	FindPlayerByName(name string) *model.Player
	// PlayerCount returns number of online players.
	PlayerCount() int
}

// ZoneTracker exposes per-player zone state. Implemented by zone.Engine.
type ZoneTracker interface {
	CurrentZone(id uuid.UUID) (zone.Zone, bool)
	PlayersIn(name string) []uuid.UUID
}
