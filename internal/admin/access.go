// Package admin dispatches administrative (//) and player (/) commands.
// Access levels gate every admin command before it reaches the zone core.
package admin

// AccessLevel defines a named permission tier.
// Level 0 = normal player, 1+ = staff, 100+ = full admin.
type AccessLevel struct {
	Level               int32
	Name                string
	CanUseAdminCommands bool
	CanEditZones        bool
}

const (
	LevelUser          int32 = 0
	LevelModerator     int32 = 1
	LevelBuilder       int32 = 2
	LevelAdministrator int32 = 100
)

var defaultAccessLevels = map[int32]*AccessLevel{
	LevelUser: {
		Level: LevelUser,
		Name:  "User",
	},
	LevelModerator: {
		Level:               LevelModerator,
		Name:                "Moderator",
		CanUseAdminCommands: true,
	},
	LevelBuilder: {
		Level:               LevelBuilder,
		Name:                "Builder",
		CanUseAdminCommands: true,
		CanEditZones:        true,
	},
	LevelAdministrator: {
		Level:               LevelAdministrator,
		Name:                "Administrator",
		CanUseAdminCommands: true,
		CanEditZones:        true,
	},
}

// GetAccessLevel returns AccessLevel for the given level value.
// Unknown levels inherit from the highest known level below them.
// Negative levels (banned) return nil.
func GetAccessLevel(level int32) *AccessLevel {
	if level < 0 {
		return nil
	}

	if al, ok := defaultAccessLevels[level]; ok {
		return al
	}

	var best *AccessLevel
	for _, al := range defaultAccessLevels {
		if al.Level <= level && (best == nil || al.Level > best.Level) {
			best = al
		}
	}
	return best
}
