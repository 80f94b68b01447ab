package admin

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/udisondev/zonefx/internal/model"
)

// Command is an admin command (//command).
// Each command registers one or more names and a required access level.
type Command interface {
	// Handle executes the command. args includes command name at [0].
	Handle(player *model.Player, args []string) error
	// Names returns all registered command names (without // prefix).
	Names() []string
	// RequiredAccessLevel returns the minimum access level to use this command.
	RequiredAccessLevel() int32
}

// Completer is implemented by commands that offer tab completion.
// args includes command name at [0]; the last element is the word being
// typed (may be empty).
type Completer interface {
	Complete(player *model.Player, args []string) []string
}

// UserCommand is a player command (/command), available to everyone.
type UserCommand interface {
	// Handle executes the command. params is the rest of the line after the name.
	Handle(player *model.Player, params string) error
	Names() []string
}

// Handler dispatches admin (//) and user (/) commands.
// Thread-safe: commands are registered once at startup, then read-only.
type Handler struct {
	mu        sync.RWMutex
	adminCmds map[string]Command     // name → Command (lowercase)
	userCmds  map[string]UserCommand // name → UserCommand (lowercase)
}

// NewHandler creates a new admin/user command handler.
func NewHandler() *Handler {
	return &Handler{
		adminCmds: make(map[string]Command, 8),
		userCmds:  make(map[string]UserCommand, 4),
	}
}

// RegisterAdmin registers an admin command.
// All command names are lowercased for case-insensitive lookup.
func (h *Handler) RegisterAdmin(cmd Command) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, name := range cmd.Names() {
		h.adminCmds[strings.ToLower(name)] = cmd
	}
}

// RegisterUser registers a user command.
func (h *Handler) RegisterUser(cmd UserCommand) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, name := range cmd.Names() {
		h.userCmds[strings.ToLower(name)] = cmd
	}
}

// HandleAdminCommand processes a message starting with //.
// text is the full message WITHOUT the // prefix.
// Returns true if a command was found and executed.
func (h *Handler) HandleAdminCommand(player *model.Player, text string) bool {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return false
	}
	cmdName := strings.ToLower(parts[0])

	h.mu.RLock()
	cmd, ok := h.adminCmds[cmdName]
	h.mu.RUnlock()

	if !ok {
		player.SendMessage("Unknown command: //" + cmdName)
		return false
	}

	if !h.allowed(player, cmdName, cmd) {
		return false
	}

	slog.Info("admin command",
		"player", player.Name(),
		"command", text)

	if err := cmd.Handle(player, parts); err != nil {
		player.SendMessage(fmt.Sprintf("Command error: %s", err))
		slog.Error("admin command failed",
			"player", player.Name(),
			"command", text,
			"error", err)
	}

	return true
}

// allowed проверяет права и сообщает игроку об отказе.
func (h *Handler) allowed(player *model.Player, cmdName string, cmd Command) bool {
	accessLevel := player.AccessLevel()
	al := GetAccessLevel(accessLevel)
	if al == nil || !al.CanUseAdminCommands {
		player.SendMessage("You don't have permission to use this command.")
		slog.Warn("unauthorized admin command attempt",
			"player", player.Name(),
			"command", cmdName,
			"accessLevel", accessLevel)
		return false
	}

	if accessLevel < cmd.RequiredAccessLevel() {
		player.SendMessage(fmt.Sprintf("Insufficient access level for //%s (need %d, have %d)",
			cmdName, cmd.RequiredAccessLevel(), accessLevel))
		slog.Warn("admin command access denied",
			"player", player.Name(),
			"command", cmdName,
			"required", cmd.RequiredAccessLevel(),
			"actual", accessLevel)
		return false
	}
	return true
}

// HandleUserCommand processes a message starting with /.
// text is the full message WITHOUT the / prefix.
// Returns true if a command was found and executed.
func (h *Handler) HandleUserCommand(player *model.Player, text string) bool {
	parts := strings.Fields(text)
	if len(parts) == 0 {
		return false
	}
	cmdName := strings.ToLower(parts[0])

	h.mu.RLock()
	cmd, ok := h.userCmds[cmdName]
	h.mu.RUnlock()

	if !ok {
		return false
	}

	params := strings.TrimSpace(strings.TrimLeft(text, " \t")[len(parts[0]):])

	if err := cmd.Handle(player, params); err != nil {
		player.SendMessage(fmt.Sprintf("Command error: %s", err))
		slog.Error("user command failed",
			"player", player.Name(),
			"command", text,
			"error", err)
	}

	return true
}

// CompleteAdmin returns tab-completion candidates for a partially typed
// admin command line (without the // prefix). Commands the player may not
// use are never offered.
func (h *Handler) CompleteAdmin(player *model.Player, text string) []string {
	args := strings.Fields(text)
	if len(args) == 0 || strings.HasSuffix(text, " ") {
		args = append(args, "")
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	level := player.AccessLevel()
	if al := GetAccessLevel(level); al == nil || !al.CanUseAdminCommands {
		return nil
	}

	if len(args) == 1 {
		prefix := strings.ToLower(args[0])
		var names []string
		for name, cmd := range h.adminCmds {
			if level >= cmd.RequiredAccessLevel() && strings.HasPrefix(name, prefix) {
				names = append(names, name)
			}
		}
		slices.Sort(names)
		return names
	}

	cmd, ok := h.adminCmds[strings.ToLower(args[0])]
	if !ok || level < cmd.RequiredAccessLevel() {
		return nil
	}
	c, ok := cmd.(Completer)
	if !ok {
		return nil
	}
	return c.Complete(player, args)
}

// AdminCommandCount returns number of registered admin command names.
func (h *Handler) AdminCommandCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.adminCmds)
}

// UserCommandCount returns number of registered user command names.
func (h *Handler) UserCommandCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userCmds)
}
