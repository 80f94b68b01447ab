package zone

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zonefx/internal/model"
)

const testWorld = "world"

// playerSink — Sink поверх model.Player для unit тестов.
type playerSink struct {
	players map[uuid.UUID]*model.Player
}

func newPlayerSink() *playerSink {
	return &playerSink{players: make(map[uuid.UUID]*model.Player)}
}

func (s *playerSink) add(t *testing.T, loc model.Location) *model.Player {
	t.Helper()
	p, err := model.NewPlayer(uuid.New(), "tester", loc)
	require.NoError(t, err)
	s.players[p.ID()] = p
	return p
}

func (s *playerSink) SetMovementSpeedBase(id uuid.UUID, v float64) {
	if p, ok := s.players[id]; ok {
		p.SetMovementSpeed(v)
	}
}

func (s *playerSink) AddEffect(id uuid.UUID, kind model.EffectKind, amplifier int32, infinite bool) {
	if p, ok := s.players[id]; ok {
		p.AddEffect(model.Effect{Kind: kind, Amplifier: amplifier, Infinite: infinite})
	}
}

func (s *playerSink) RemoveEffect(id uuid.UUID, kind model.EffectKind) {
	if p, ok := s.players[id]; ok {
		p.RemoveEffect(kind)
	}
}

func (s *playerSink) Saturation(id uuid.UUID) float64 {
	if p, ok := s.players[id]; ok {
		return p.Saturation()
	}
	return 0
}

func (s *playerSink) SetSaturation(id uuid.UUID, v float64) {
	if p, ok := s.players[id]; ok {
		p.SetSaturation(v)
	}
}

func (s *playerSink) FoodLevel(id uuid.UUID) int32 {
	if p, ok := s.players[id]; ok {
		return p.FoodLevel()
	}
	return 0
}

func (s *playerSink) SetFoodLevel(id uuid.UUID, v int32) {
	if p, ok := s.players[id]; ok {
		p.SetFoodLevel(v)
	}
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs map[uuid.UUID][]string
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{msgs: make(map[uuid.UUID][]string)}
}

func (n *recordingNotifier) Notify(id uuid.UUID, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs[id] = append(n.msgs[id], msg)
}

func (n *recordingNotifier) last(id uuid.UUID) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	msgs := n.msgs[id]
	if len(msgs) == 0 {
		return ""
	}
	return msgs[len(msgs)-1]
}

func (n *recordingNotifier) count(id uuid.UUID) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.msgs[id])
}

type recordingPersister struct {
	snapshots [][]Zone
}

func (p *recordingPersister) Persist(zones []Zone) {
	p.snapshots = append(p.snapshots, zones)
}

func at(x, y, z float64) model.Location {
	return model.NewLocation(testWorld, x, y, z)
}

func mustZone(t *testing.T, name string, center model.Location, shape Shape, size float64, params Params) Zone {
	t.Helper()
	z, err := Restore(name, center, shape, size, params)
	require.NoError(t, err)
	return z
}

func withSpeed(speed float64) Params {
	p := DefaultParams()
	p.Speed = speed
	return p
}
