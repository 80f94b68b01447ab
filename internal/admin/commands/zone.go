package commands

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/model"
)

var zoneSubcommands = []string{"create", "delete", "edit", "info", "list"}

const zoneUsage = "usage: //zone <create|delete|edit|list|info> ..."

// Zone handles //zone — zone administration.
//
//	//zone create <name> <circle|square> <size>
//	//zone delete <name>
//	//zone edit <name> <gravity|speed|jump|knockback|stamina|size> <value>
//	//zone list
//	//zone info <name>
type Zone struct {
	zones    *zone.Manager
	tracker  ZoneTracker
	required int32
}

// NewZone creates the zone command. required is the access level needed.
func NewZone(zones *zone.Manager, tracker ZoneTracker, required int32) *Zone {
	return &Zone{zones: zones, tracker: tracker, required: required}
}

func (c *Zone) Names() []string            { return []string{"zone"} }
func (c *Zone) RequiredAccessLevel() int32 { return c.required }

func (c *Zone) Handle(player *model.Player, args []string) error {
	if len(args) < 2 {
		return errors.New(zoneUsage)
	}

	switch strings.ToLower(args[1]) {
	case "create":
		return c.create(player, args[2:])
	case "delete":
		return c.delete(player, args[2:])
	case "edit":
		return c.edit(player, args[2:])
	case "list":
		return c.list(player)
	case "info":
		return c.info(player, args[2:])
	default:
		return fmt.Errorf("unknown subcommand %q; %s", args[1], zoneUsage)
	}
}

func (c *Zone) create(player *model.Player, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: //zone create <name> <%s> <size>", strings.Join(zone.ShapeNames, "|"))
	}

	shape, err := zone.ParseShape(args[1])
	if err != nil {
		return err
	}
	size, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid size %q", zone.ErrInvalid, args[2])
	}

	z, err := zone.New(args[0], player.Location(), shape, size)
	if err != nil {
		return err
	}
	if err := c.zones.Add(z); err != nil {
		return err
	}

	player.SendMessage(fmt.Sprintf("Zone %s created (%s, size %g) at %s",
		z.Name(), strings.ToLower(shape.String()), size, z.Center()))
	return nil
}

func (c *Zone) delete(player *model.Player, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: //zone delete <name>")
	}

	name := args[0]
	if !c.zones.Remove(name) {
		return fmt.Errorf("%w: %q", zone.ErrNotFound, name)
	}

	player.SendMessage(fmt.Sprintf("Zone %s deleted", name))
	return nil
}

func (c *Zone) edit(player *model.Player, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: //zone edit <name> <%s> <value>", strings.Join(zone.PropertyNames(), "|"))
	}

	prop, err := zone.ParseProperty(args[1])
	if err != nil {
		return err
	}
	v, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("%w: invalid value %q", zone.ErrInvalid, args[2])
	}

	z, err := c.zones.Edit(args[0], prop, v)
	if err != nil {
		return err
	}

	player.SendMessage(fmt.Sprintf("Zone %s: %s set to %g", z.Name(), prop, v))
	return nil
}

func (c *Zone) list(player *model.Player) error {
	names := c.zones.Names()
	if len(names) == 0 {
		player.SendMessage("No zones defined")
		return nil
	}
	player.SendMessage(fmt.Sprintf("Zones (%d): %s", len(names), strings.Join(names, ", ")))
	return nil
}

func (c *Zone) info(player *model.Player, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: //zone info <name>")
	}

	z, ok := c.zones.Get(args[0])
	if !ok {
		return fmt.Errorf("%w: %q", zone.ErrNotFound, args[0])
	}
	player.SendMessage(c.formatInfo(z))
	return nil
}

func (c *Zone) formatInfo(z zone.Zone) string {
	p := z.Params()

	var b strings.Builder
	fmt.Fprintf(&b, "=== Zone %s ===\n", z.Name())
	fmt.Fprintf(&b, "Shape: %s, size %g\n", strings.ToLower(z.Shape().String()), z.Size())
	fmt.Fprintf(&b, "Center: %s\n", z.Center())
	fmt.Fprintf(&b, "Gravity: %g\n", p.Gravity)
	fmt.Fprintf(&b, "Speed: %g\n", p.Speed)
	fmt.Fprintf(&b, "Jump: %g\n", p.Jump)
	fmt.Fprintf(&b, "Knockback: %g\n", p.Knockback)
	fmt.Fprintf(&b, "Stamina drain: %g/s", p.StaminaDrain)
	if c.tracker != nil {
		fmt.Fprintf(&b, "\nPlayers inside: %d", len(c.tracker.PlayersIn(z.Name())))
	}
	return b.String()
}

// Complete offers subcommands, zone names, shapes and property names.
func (c *Zone) Complete(_ *model.Player, args []string) []string {
	switch len(args) {
	case 2:
		return filterPrefix(zoneSubcommands, args[1])
	case 3:
		switch strings.ToLower(args[1]) {
		case "delete", "edit", "info":
			return filterPrefix(c.zones.Names(), args[2])
		}
	case 4:
		switch strings.ToLower(args[1]) {
		case "create":
			return filterPrefix(zone.ShapeNames, args[3])
		case "edit":
			return filterPrefix(zone.PropertyNames(), args[3])
		}
	}
	return nil
}

func filterPrefix(candidates []string, prefix string) []string {
	prefix = strings.ToLower(prefix)
	var out []string
	for _, s := range candidates {
		if strings.HasPrefix(strings.ToLower(s), prefix) {
			out = append(out, s)
		}
	}
	slices.Sort(out)
	return out
}
