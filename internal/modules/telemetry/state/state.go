// Package state holds the live dashboard state fed by the snapshot source.
package state

import (
	"sync"
	"time"

	"sensorboard/internal/modules/telemetry/types"
)

// Store is the single holder of delivered readings. Every snapshot replaces
// the whole sequence; there is no incremental merge. Delivery errors set a
// banner message without touching the held readings, and the next successful
// snapshot clears it.
type Store struct {
	mu          sync.RWMutex
	readings    []types.Reading
	loading     bool
	errMsg      string
	lastUpdated time.Time
}

// View is a consistent copy of the store for rendering.
type View struct {
	Readings    []types.Reading
	Loading     bool
	ErrMessage  string
	LastUpdated time.Time
}

func NewStore() *Store {
	return &Store{loading: true}
}

// Replace swaps in a freshly normalized sequence, records the delivery time
// and clears the loading and error flags.
func (s *Store) Replace(readings []types.Reading, at time.Time) {
	s.mu.Lock()
	s.readings = readings
	s.loading = false
	s.errMsg = ""
	s.lastUpdated = at
	s.mu.Unlock()
}

// Fail records a delivery error. Previously held readings are kept so the
// dashboard can still render the last known data.
func (s *Store) Fail(msg string) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
}

// View returns a copy safe to render while deliveries continue.
func (s *Store) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	readings := make([]types.Reading, len(s.readings))
	copy(readings, s.readings)
	return View{
		Readings:    readings,
		Loading:     s.loading,
		ErrMessage:  s.errMsg,
		LastUpdated: s.lastUpdated,
	}
}

// Latest returns the newest held reading, or nil when there is none. The
// sequence is sorted ascending, so this is the last element.
func (s *Store) Latest() *types.Reading {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.readings) == 0 {
		return nil
	}
	last := s.readings[len(s.readings)-1]
	return &last
}
