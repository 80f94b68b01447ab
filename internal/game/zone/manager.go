package zone

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/udisondev/zonefx/internal/model"
)

const (
	gridSize    = 64.0 // блоков на ячейку сетки
	maxGridSpan = 64   // зоны шире этого (в ячейках) проверяются на каждом запросе
)

type gridKey struct {
	world  string
	gx, gz int64
}

type entry struct {
	zone Zone
	seq  uint64 // insertion order, defines first-match priority
}

// Persister receives a full snapshot of the registry after every mutation.
// Implementations must not block.
type Persister interface {
	Persist(zones []Zone)
}

// Manager is the zone registry: a name-keyed store with spatial lookup.
// It owns all zones; every accessor returns copies.
//
// Thread-safe: mutations take the write lock, so queries never observe
// a half-applied change.
type Manager struct {
	mu        sync.RWMutex
	byName    map[string]*entry
	grid      map[gridKey][]*entry
	oversized []*entry
	nextSeq   uint64
	persister Persister
}

// NewManager creates an empty registry.
func NewManager() *Manager {
	return &Manager{
		byName: make(map[string]*entry),
		grid:   make(map[gridKey][]*entry),
	}
}

// SetPersister installs the persistence hook. nil disables persistence.
func (m *Manager) SetPersister(p Persister) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.persister = p
}

// Load inserts zones loaded from storage without triggering the persistence hook.
// Duplicate names are skipped. Returns the number of zones inserted.
func (m *Manager) Load(zones []Zone) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	loaded := 0
	for _, z := range zones {
		if _, exists := m.byName[z.name]; exists {
			slog.Warn("skip duplicate zone", "zone", z.name)
			continue
		}
		m.insertLocked(z)
		loaded++
	}

	slog.Info("zone manager loaded",
		"zones", len(m.byName),
		"grid_cells", len(m.grid),
		"oversized", len(m.oversized),
	)
	return loaded
}

// Add inserts a new zone. Returns ErrDuplicate if the name is taken.
func (m *Manager) Add(z Zone) error {
	if z.name == "" {
		return fmt.Errorf("%w: zone is not initialized", ErrInvalid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byName[z.name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicate, z.name)
	}

	m.insertLocked(z)
	m.persistLocked()
	return nil
}

// Remove deletes the zone by name. Removing an absent zone is not an error.
// Reports whether a zone was removed.
func (m *Manager) Remove(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byName[name]
	if ok {
		m.unindexLocked(e)
		delete(m.byName, name)
	}
	m.persistLocked()
	return ok
}

// Edit sets one property of a zone and returns the updated copy.
// Players already inside see the new values on their next evaluation.
func (m *Manager) Edit(name string, prop Property, v float64) (Zone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.byName[name]
	if !ok {
		return Zone{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	next, err := e.zone.with(prop, v)
	if err != nil {
		return e.zone, fmt.Errorf("editing zone %q: %w", name, err)
	}

	if prop == PropertySize {
		m.unindexLocked(e)
		e.zone = next
		m.indexLocked(e)
	} else {
		e.zone = next
	}

	m.persistLocked()
	return next, nil
}

// Get returns a copy of the zone with the given name.
func (m *Manager) Get(name string) (Zone, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.byName[name]
	if !ok {
		return Zone{}, false
	}
	return e.zone, true
}

// ZonesAt returns all zones containing loc, in registry insertion order.
func (m *Manager) ZonesAt(loc model.Location) []Zone {
	m.mu.RLock()
	defer m.mu.RUnlock()

	key := gridKey{world: loc.World, gx: cellOf(loc.X), gz: cellOf(loc.Z)}

	var hits []*entry
	for _, e := range m.grid[key] {
		if e.zone.Contains(loc) {
			hits = append(hits, e)
		}
	}
	for _, e := range m.oversized {
		if e.zone.Contains(loc) {
			hits = append(hits, e)
		}
	}

	slices.SortFunc(hits, func(a, b *entry) int {
		switch {
		case a.seq < b.seq:
			return -1
		case a.seq > b.seq:
			return 1
		default:
			return 0
		}
	})

	result := make([]Zone, 0, len(hits))
	for _, e := range hits {
		result = append(result, e.zone)
	}
	return result
}

// List returns a snapshot of all zones in insertion order.
func (m *Manager) List() []Zone {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Names returns all zone names sorted alphabetically.
func (m *Manager) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.byName))
	for name := range m.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered zones.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byName)
}

func (m *Manager) insertLocked(z Zone) {
	m.nextSeq++
	e := &entry{zone: z, seq: m.nextSeq}
	m.byName[z.name] = e
	m.indexLocked(e)
}

func (m *Manager) snapshotLocked() []Zone {
	entries := make([]*entry, 0, len(m.byName))
	for _, e := range m.byName {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })

	zones := make([]Zone, len(entries))
	for i, e := range entries {
		zones[i] = e.zone
	}
	return zones
}

func (m *Manager) persistLocked() {
	if m.persister == nil {
		return
	}
	m.persister.Persist(m.snapshotLocked())
}

// indexLocked регистрирует зону во всех ячейках сетки,
// которые пересекает её bounding box.
func (m *Manager) indexLocked(e *entry) {
	minX, maxX, minZ, maxZ := e.zone.bounds()
	gxMin, gxMax := cellOf(minX), cellOf(maxX)
	gzMin, gzMax := cellOf(minZ), cellOf(maxZ)

	if gxMax-gxMin >= maxGridSpan || gzMax-gzMin >= maxGridSpan {
		m.oversized = append(m.oversized, e)
		return
	}

	world := e.zone.center.World
	for gx := gxMin; gx <= gxMax; gx++ {
		for gz := gzMin; gz <= gzMax; gz++ {
			key := gridKey{world: world, gx: gx, gz: gz}
			m.grid[key] = append(m.grid[key], e)
		}
	}
}

// unindexLocked удаляет зону из всех ячеек сетки.
func (m *Manager) unindexLocked(e *entry) {
	if i := slices.Index(m.oversized, e); i >= 0 {
		m.oversized = slices.Delete(m.oversized, i, i+1)
		return
	}

	minX, maxX, minZ, maxZ := e.zone.bounds()
	world := e.zone.center.World
	for gx := cellOf(minX); gx <= cellOf(maxX); gx++ {
		for gz := cellOf(minZ); gz <= cellOf(maxZ); gz++ {
			key := gridKey{world: world, gx: gx, gz: gz}
			cell := m.grid[key]
			if i := slices.Index(cell, e); i >= 0 {
				cell = slices.Delete(cell, i, i+1)
			}
			if len(cell) == 0 {
				delete(m.grid, key)
			} else {
				m.grid[key] = cell
			}
		}
	}
}

// cellOf возвращает индекс ячейки с округлением к -inf,
// корректно обрабатывая отрицательные координаты.
func cellOf(v float64) int64 {
	return int64(math.Floor(v / gridSize))
}
