package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/udisondev/zonefx/internal/admin"
	"github.com/udisondev/zonefx/internal/game/combat"
	"github.com/udisondev/zonefx/internal/game/zone"
	"github.com/udisondev/zonefx/internal/model"
	"github.com/udisondev/zonefx/internal/world"
)

const consoleHelp = `commands:
  join <player> [x y z [world]]     spawn a player (default 0 64 0)
  leave <player>                    disconnect a player
  move <player> <x> <y> <z> [world] move a player
  op <player> [level]               set access level
  chat <player> <text>              send chat; //cmd and /cmd are commands
  tab <player> <partial //command>  tab completion
  hit <attacker> <victim>           melee hit with zone knockback
  status <player>                   runtime attributes
  players                           online players
  help`

var errUsage = errors.New("bad usage, try: help")

// console drives the world from text commands, standing in for a game client.
type console struct {
	world   *world.World
	engine  *zone.Engine
	admin   *admin.Handler
	out     io.Writer
	spawn   string
	opLevel int32
}

func newConsole(w *world.World, e *zone.Engine, h *admin.Handler, out io.Writer, spawnWorld string, opLevel int32) *console {
	return &console{world: w, engine: e, admin: h, out: out, spawn: spawnWorld, opLevel: opLevel}
}

// Run executes lines from in until EOF or ctx is done.
func (c *console) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			return err
		case line := <-lines:
			c.Exec(line)
		}
	}
}

// Exec runs one console line and prints the result plus any chat
// messages delivered to players.
func (c *console) Exec(line string) {
	if err := c.exec(strings.Fields(line), line); err != nil {
		fmt.Fprintf(c.out, "error: %v\n", err)
	}
	for _, p := range c.world.Players() {
		for _, msg := range p.DrainMessages() {
			fmt.Fprintf(c.out, "[%s] %s\n", p.Name(), msg)
		}
	}
}

func (c *console) exec(args []string, line string) error {
	if len(args) == 0 {
		return nil
	}

	switch strings.ToLower(args[0]) {
	case "help":
		fmt.Fprintln(c.out, consoleHelp)
		return nil
	case "join":
		return c.join(args[1:])
	case "leave":
		if len(args) != 2 {
			return errUsage
		}
		p, err := c.player(args[1])
		if err != nil {
			return err
		}
		return c.world.Leave(p.ID())
	case "move":
		return c.move(args[1:])
	case "op":
		return c.op(args[1:])
	case "chat":
		return c.chat(args, line)
	case "tab":
		return c.tab(args, line)
	case "hit":
		return c.hit(args[1:])
	case "status":
		if len(args) != 2 {
			return errUsage
		}
		return c.status(args[1])
	case "players":
		for _, p := range c.world.Players() {
			fmt.Fprintf(c.out, "%s %s\n", p.Name(), p.Location())
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q, try: help", args[0])
	}
}

func (c *console) player(name string) (*model.Player, error) {
	p := c.world.FindPlayerByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %q", world.ErrPlayerNotFound, name)
	}
	return p, nil
}

func (c *console) join(args []string) error {
	if len(args) != 1 && len(args) != 4 && len(args) != 5 {
		return errUsage
	}
	loc := model.NewLocation(c.spawn, 0, 64, 0)
	if len(args) > 1 {
		var err error
		if loc, err = c.parseLocation(args[1:]); err != nil {
			return err
		}
	}

	p, err := c.world.Join(uuid.New(), args[0], loc)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "%s joined at %s\n", p.Name(), p.Location())
	return nil
}

func (c *console) move(args []string) error {
	if len(args) != 4 && len(args) != 5 {
		return errUsage
	}
	p, err := c.player(args[0])
	if err != nil {
		return err
	}
	if len(args) == 4 {
		args = append(args, p.Location().World)
	}
	loc, err := c.parseLocation(args[1:])
	if err != nil {
		return err
	}

	tr, err := c.world.Move(p.ID(), loc)
	if err != nil {
		return err
	}
	if tr.Kind != zone.TransitionNone {
		fmt.Fprintf(c.out, "%s: %s %s -> %s\n", p.Name(), tr.Kind, tr.From, tr.To)
	}
	return nil
}

// parseLocation parses "x y z [world]".
func (c *console) parseLocation(args []string) (model.Location, error) {
	var xyz [3]float64
	for i := range xyz {
		v, err := strconv.ParseFloat(args[i], 64)
		if err != nil {
			return model.Location{}, fmt.Errorf("invalid coordinate %q", args[i])
		}
		xyz[i] = v
	}
	w := c.spawn
	if len(args) > 3 {
		w = args[3]
	}
	return model.NewLocation(w, xyz[0], xyz[1], xyz[2]), nil
}

func (c *console) op(args []string) error {
	if len(args) != 1 && len(args) != 2 {
		return errUsage
	}
	p, err := c.player(args[0])
	if err != nil {
		return err
	}
	level := c.opLevel
	if len(args) == 2 {
		v, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid access level %q", args[1])
		}
		level = int32(v)
	}
	p.SetAccessLevel(level)

	name := "banned"
	if al := admin.GetAccessLevel(level); al != nil {
		name = al.Name
	}
	fmt.Fprintf(c.out, "%s access level %d (%s)\n", p.Name(), level, name)
	return nil
}

// rest returns line after its first n fields.
func rest(line string, n int) string {
	s := strings.TrimLeft(line, " \t")
	for range n {
		i := strings.IndexAny(s, " \t")
		if i < 0 {
			return ""
		}
		s = strings.TrimLeft(s[i:], " \t")
	}
	return s
}

func (c *console) chat(args []string, line string) error {
	if len(args) < 3 {
		return errUsage
	}
	p, err := c.player(args[1])
	if err != nil {
		return err
	}

	text := rest(line, 2)
	switch {
	case strings.HasPrefix(text, "//"):
		c.admin.HandleAdminCommand(p, text[2:])
	case strings.HasPrefix(text, "/"):
		if !c.admin.HandleUserCommand(p, text[1:]) {
			p.SendMessage("Unknown command: " + strings.Fields(text)[0])
		}
	default:
		fmt.Fprintf(c.out, "<%s> %s\n", p.Name(), text)
	}
	return nil
}

func (c *console) tab(args []string, line string) error {
	if len(args) < 3 {
		return errUsage
	}
	p, err := c.player(args[1])
	if err != nil {
		return err
	}

	text, ok := strings.CutPrefix(rest(line, 2), "//")
	if !ok {
		return fmt.Errorf("only //commands complete")
	}
	fmt.Fprintln(c.out, strings.Join(c.admin.CompleteAdmin(p, text), " "))
	return nil
}

func (c *console) hit(args []string) error {
	if len(args) != 2 {
		return errUsage
	}
	attacker, err := c.player(args[0])
	if err != nil {
		return err
	}
	victim, err := c.player(args[1])
	if err != nil {
		return err
	}

	v := combat.Knockback(c.engine, attacker, victim, combat.DefaultKnockbackStrength)
	fmt.Fprintf(c.out, "%s hits %s, knockback %s\n", attacker.Name(), victim.Name(), v)
	return nil
}

func (c *console) status(name string) error {
	p, err := c.player(name)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "%s at %s\n", p.Name(), p.Location())
	fmt.Fprintf(c.out, "  speed %.4f, saturation %.2f, food %d, access %d\n",
		p.MovementSpeed(), p.Saturation(), p.FoodLevel(), p.AccessLevel())
	for _, e := range p.Effects() {
		fmt.Fprintf(c.out, "  effect %s amplifier %d\n", e.Kind, e.Amplifier)
	}
	if z, ok := c.engine.CurrentZone(p.ID()); ok {
		fmt.Fprintf(c.out, "  zone %s, knockback x%g\n", z.Name(), c.engine.KnockbackMultiplier(p.ID()))
	}
	return nil
}
