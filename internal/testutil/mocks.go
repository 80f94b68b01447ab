package testutil

import (
	"context"
	"slices"
	"sync"

	"github.com/udisondev/zonefx/internal/game/zone"
)

// MemoryStore — in-memory хранилище зон для unit тестов.
// Не требует ни файла, ни базы.
type MemoryStore struct {
	mu      sync.Mutex
	zones   []zone.Zone
	saves   int
	loadErr error
	saveErr error

	saved chan struct{}
}

// NewMemoryStore создаёт хранилище с начальным набором зон.
func NewMemoryStore(zones ...zone.Zone) *MemoryStore {
	return &MemoryStore{
		zones: slices.Clone(zones),
		saved: make(chan struct{}, 64),
	}
}

// FailLoad makes every LoadAll return err (nil restores normal behaviour).
func (m *MemoryStore) FailLoad(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErr = err
}

// FailSave makes every SaveAll return err (nil restores normal behaviour).
func (m *MemoryStore) FailSave(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// LoadAll returns a copy of the stored zones.
func (m *MemoryStore) LoadAll(_ context.Context) ([]zone.Zone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return slices.Clone(m.zones), nil
}

// SaveAll replaces the stored zones. Failed attempts are counted too.
func (m *MemoryStore) SaveAll(_ context.Context, zones []zone.Zone) error {
	m.mu.Lock()
	m.saves++
	err := m.saveErr
	if err == nil {
		m.zones = slices.Clone(zones)
	}
	m.mu.Unlock()

	select {
	case m.saved <- struct{}{}:
	default:
	}
	return err
}

// Zones returns a copy of the stored zones.
func (m *MemoryStore) Zones() []zone.Zone {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.zones)
}

// Saves returns the number of SaveAll calls.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// Saved signals after every SaveAll call.
func (m *MemoryStore) Saved() <-chan struct{} {
	return m.saved
}
