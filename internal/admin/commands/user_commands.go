package commands

import (
	"fmt"

	"github.com/udisondev/zonefx/internal/model"
)

// Where handles /where — shows the player's position and current zone.
type Where struct {
	tracker ZoneTracker
}

// NewWhere creates the where command handler.
func NewWhere(tracker ZoneTracker) *Where {
	return &Where{tracker: tracker}
}

func (c *Where) Names() []string { return []string{"where", "loc"} }

func (c *Where) Handle(player *model.Player, _ string) error {
	msg := fmt.Sprintf("Location: %s", player.Location())
	if z, ok := c.tracker.CurrentZone(player.ID()); ok {
		msg += fmt.Sprintf(", zone: %s", z.Name())
	}
	player.SendMessage(msg)
	return nil
}

// Online handles /online — shows number of online players.
type Online struct {
	clientMgr ClientManager
}

// NewOnline creates the online command handler.
func NewOnline(clientMgr ClientManager) *Online {
	return &Online{clientMgr: clientMgr}
}

func (c *Online) Names() []string { return []string{"online", "players"} }

func (c *Online) Handle(player *model.Player, _ string) error {
	player.SendMessage(fmt.Sprintf("Online: %d players", c.clientMgr.PlayerCount()))
	return nil
}
