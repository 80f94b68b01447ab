package commands

import (
	"github.com/udisondev/zonefx/internal/admin"
	"github.com/udisondev/zonefx/internal/game/zone"
)

// RegisterAll registers all admin and user commands into the handler.
// zoneLevel is the access level required for //zone.
func RegisterAll(h *admin.Handler, zones *zone.Manager, tracker ZoneTracker, clientMgr ClientManager, zoneLevel int32) {
	// Admin commands (// prefix)
	h.RegisterAdmin(NewZone(zones, tracker, zoneLevel))

	// User commands (/ prefix)
	h.RegisterUser(NewWhere(tracker))
	h.RegisterUser(NewOnline(clientMgr))
}
