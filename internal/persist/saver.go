package persist

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/zonefx/internal/game/zone"
)

// Saver is an asynchronous, coalescing zone.Persister.
// Persist never blocks on I/O: it replaces the pending snapshot and wakes
// the writer. Bursts of mutations within the debounce window collapse
// into one SaveAll with the latest snapshot.
type Saver struct {
	store    Store
	debounce time.Duration

	mu      sync.Mutex
	pending []zone.Zone
	dirty   bool

	saveMu sync.Mutex // serializes SaveAll calls
	wake   chan struct{}
}

// NewSaver creates a Saver writing to store.
func NewSaver(store Store, debounce time.Duration) *Saver {
	return &Saver{
		store:    store,
		debounce: debounce,
		wake:     make(chan struct{}, 1),
	}
}

// Persist implements zone.Persister.
func (s *Saver) Persist(zones []zone.Zone) {
	s.mu.Lock()
	s.pending = zones
	s.dirty = true
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run writes pending snapshots until ctx is done. It does not perform a
// final save; call Flush after Run returns.
func (s *Saver) Run(ctx context.Context) error {
	var timer *time.Timer
	if s.debounce > 0 {
		timer = time.NewTimer(s.debounce)
		timer.Stop()
		defer timer.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.wake:
		}

		if timer != nil {
			timer.Reset(s.debounce)
			select {
			case <-ctx.Done():
				return nil
			case <-timer.C:
			}
		}

		// Ошибка уже залогирована, снимок остаётся в очереди.
		_ = s.Flush(ctx)
	}
}

// Flush synchronously writes the pending snapshot, if any.
// On failure the snapshot stays pending unless a newer one arrived.
func (s *Saver) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	snapshot := s.pending
	s.pending = nil
	s.dirty = false
	s.mu.Unlock()

	if err := s.store.SaveAll(ctx, snapshot); err != nil {
		slog.Error("saving zones failed", "zones", len(snapshot), "error", err)

		s.mu.Lock()
		if !s.dirty {
			s.pending = snapshot
			s.dirty = true
		}
		s.mu.Unlock()
		return err
	}

	slog.Debug("zones saved", "zones", len(snapshot))
	return nil
}

// Pending reports whether a snapshot is waiting to be written.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}
