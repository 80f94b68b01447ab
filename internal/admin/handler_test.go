package admin

import (
	"slices"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/udisondev/zonefx/internal/model"
)

// mockAdminCmd is a test admin command.
type mockAdminCmd struct {
	names       []string
	required    int32
	handleCalls int
	lastArgs    []string
	completions []string
	err         error
}

func (c *mockAdminCmd) Names() []string            { return c.names }
func (c *mockAdminCmd) RequiredAccessLevel() int32 { return c.required }
func (c *mockAdminCmd) Handle(player *model.Player, args []string) error {
	c.handleCalls++
	c.lastArgs = args
	if c.err != nil {
		return c.err
	}
	player.SendMessage("admin ok: " + args[0])
	return nil
}

func (c *mockAdminCmd) Complete(_ *model.Player, args []string) []string {
	c.lastArgs = args
	return c.completions
}

// mockUserCmd is a test user command.
type mockUserCmd struct {
	names       []string
	handleCalls int
	lastParams  string
}

func (c *mockUserCmd) Names() []string { return c.names }
func (c *mockUserCmd) Handle(player *model.Player, params string) error {
	c.handleCalls++
	c.lastParams = params
	player.SendMessage("user ok")
	return nil
}

func newStaffPlayer(t *testing.T, accessLevel int32) *model.Player {
	t.Helper()
	p, err := model.NewPlayer(uuid.New(), "TestGM", model.NewLocation("world", 0, 64, 0))
	if err != nil {
		t.Fatalf("NewPlayer: %v", err)
	}
	p.SetAccessLevel(accessLevel)
	return p
}

func TestHandler_RegisterAndCount(t *testing.T) {
	h := NewHandler()
	if h.AdminCommandCount() != 0 {
		t.Errorf("AdminCommandCount = %d, want 0", h.AdminCommandCount())
	}

	h.RegisterAdmin(&mockAdminCmd{names: []string{"zone", "zones"}, required: 1})
	if h.AdminCommandCount() != 2 {
		t.Errorf("AdminCommandCount = %d, want 2 (two aliases)", h.AdminCommandCount())
	}

	h.RegisterUser(&mockUserCmd{names: []string{"where"}})
	if h.UserCommandCount() != 1 {
		t.Errorf("UserCommandCount = %d, want 1", h.UserCommandCount())
	}
}

func TestHandler_AdminCommand_Success(t *testing.T) {
	h := NewHandler()
	cmd := &mockAdminCmd{names: []string{"zone"}, required: 2}
	h.RegisterAdmin(cmd)

	player := newStaffPlayer(t, LevelBuilder)

	if !h.HandleAdminCommand(player, "zone list") {
		t.Error("HandleAdminCommand returned false, want true")
	}
	if cmd.handleCalls != 1 {
		t.Errorf("Handle called %d times, want 1", cmd.handleCalls)
	}
	if !slices.Equal(cmd.lastArgs, []string{"zone", "list"}) {
		t.Errorf("Handle args = %v, want [zone list]", cmd.lastArgs)
	}
	if msg := player.LastMessage(); msg != "admin ok: zone" {
		t.Errorf("LastMessage = %q, want %q", msg, "admin ok: zone")
	}
}

func TestHandler_AdminCommand_CaseInsensitive(t *testing.T) {
	h := NewHandler()
	cmd := &mockAdminCmd{names: []string{"zone"}, required: 1}
	h.RegisterAdmin(cmd)

	player := newStaffPlayer(t, LevelModerator)
	if !h.HandleAdminCommand(player, "ZONE list") {
		t.Error("HandleAdminCommand with uppercase should still find command")
	}
	if cmd.handleCalls != 1 {
		t.Errorf("Handle called %d times, want 1", cmd.handleCalls)
	}
}

func TestHandler_AdminCommand_UnknownCommand(t *testing.T) {
	h := NewHandler()
	player := newStaffPlayer(t, LevelAdministrator)

	if h.HandleAdminCommand(player, "nosuchcmd") {
		t.Error("HandleAdminCommand should return false for unknown command")
	}
	if msg := player.LastMessage(); !strings.Contains(msg, "Unknown command") {
		t.Errorf("LastMessage = %q, want unknown command notice", msg)
	}
}

func TestHandler_AdminCommand_EmptyText(t *testing.T) {
	h := NewHandler()
	player := newStaffPlayer(t, LevelAdministrator)

	for _, text := range []string{"", "   "} {
		if h.HandleAdminCommand(player, text) {
			t.Errorf("HandleAdminCommand(%q) should return false", text)
		}
	}
}

func TestHandler_AdminCommand_InsufficientAccess(t *testing.T) {
	h := NewHandler()
	cmd := &mockAdminCmd{names: []string{"zone"}, required: 2}
	h.RegisterAdmin(cmd)

	player := newStaffPlayer(t, LevelModerator)

	if h.HandleAdminCommand(player, "zone delete spawn") {
		t.Error("HandleAdminCommand should return false when access level insufficient")
	}
	if cmd.handleCalls != 0 {
		t.Error("Handle should not be called when access denied")
	}
	if msg := player.LastMessage(); !strings.Contains(msg, "Insufficient access level") {
		t.Errorf("LastMessage = %q, want access notice", msg)
	}
}

func TestHandler_AdminCommand_NormalPlayerDenied(t *testing.T) {
	h := NewHandler()
	cmd := &mockAdminCmd{names: []string{"zone"}, required: 0}
	h.RegisterAdmin(cmd)

	for _, level := range []int32{LevelUser, -1} {
		player := newStaffPlayer(t, level)
		if h.HandleAdminCommand(player, "zone list") {
			t.Errorf("level %d: HandleAdminCommand should return false", level)
		}
		if msg := player.LastMessage(); !strings.Contains(msg, "permission") {
			t.Errorf("level %d: LastMessage = %q, want permission notice", level, msg)
		}
	}
	if cmd.handleCalls != 0 {
		t.Error("Handle should not be called for normal player")
	}
}

func TestHandler_AdminCommand_ErrorReported(t *testing.T) {
	h := NewHandler()
	cmd := &mockAdminCmd{names: []string{"zone"}, required: 1, err: errString("boom")}
	h.RegisterAdmin(cmd)

	player := newStaffPlayer(t, LevelAdministrator)
	if !h.HandleAdminCommand(player, "zone create x") {
		t.Error("HandleAdminCommand should return true for executed command")
	}
	if msg := player.LastMessage(); msg != "Command error: boom" {
		t.Errorf("LastMessage = %q, want %q", msg, "Command error: boom")
	}
}

func TestHandler_UserCommand(t *testing.T) {
	h := NewHandler()
	cmd := &mockUserCmd{names: []string{"where", "whereami"}}
	h.RegisterUser(cmd)

	player := newStaffPlayer(t, LevelUser)

	if !h.HandleUserCommand(player, "whereami  verbose  ") {
		t.Error("HandleUserCommand returned false, want true")
	}
	if cmd.lastParams != "verbose" {
		t.Errorf("params = %q, want %q", cmd.lastParams, "verbose")
	}
	if h.HandleUserCommand(player, "nosuchcmd") {
		t.Error("HandleUserCommand should return false for unknown command")
	}
	if h.HandleUserCommand(player, "") {
		t.Error("HandleUserCommand should return false for empty text")
	}
}

func TestHandler_CompleteAdmin(t *testing.T) {
	h := NewHandler()
	zone := &mockAdminCmd{names: []string{"zone", "zones"}, required: 2, completions: []string{"create"}}
	h.RegisterAdmin(zone)
	h.RegisterAdmin(&mockAdminCmd{names: []string{"zap"}, required: 100})

	builder := newStaffPlayer(t, LevelBuilder)

	if got := h.CompleteAdmin(builder, "z"); !slices.Equal(got, []string{"zone", "zones"}) {
		t.Errorf("CompleteAdmin(z) = %v, want [zone zones]", got)
	}
	if got := h.CompleteAdmin(builder, "zone cr"); !slices.Equal(got, []string{"create"}) {
		t.Errorf("CompleteAdmin(zone cr) = %v, want [create]", got)
	}
	if !slices.Equal(zone.lastArgs, []string{"zone", "cr"}) {
		t.Errorf("Complete args = %v, want [zone cr]", zone.lastArgs)
	}

	h.CompleteAdmin(builder, "zone ")
	if !slices.Equal(zone.lastArgs, []string{"zone", ""}) {
		t.Errorf("Complete args = %v, want [zone \"\"]", zone.lastArgs)
	}

	if got := h.CompleteAdmin(builder, "zap "); got != nil {
		t.Errorf("CompleteAdmin(zap ) = %v, want nil for insufficient level", got)
	}
	if got := h.CompleteAdmin(newStaffPlayer(t, LevelUser), "z"); got != nil {
		t.Errorf("CompleteAdmin for user = %v, want nil", got)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
