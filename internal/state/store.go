package state

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/five82/dinemenu/internal/sensor"
)

// Snapshot is the latest published state of one entity.
type Snapshot struct {
	EntityID    string         `json:"entity_id"`
	UniqueID    string         `json:"unique_id"`
	Name        string         `json:"name"`
	Kind        sensor.Kind    `json:"kind"`
	EntryID     string         `json:"entry_id"`
	HasReading  bool           `json:"available"`
	Reading     sensor.Reading `json:"reading"`
	LastUpdated time.Time      `json:"last_updated"`
	Updates     int            `json:"updates"`
}

// Store holds the published state of every registered entity, in
// registration order.
type Store struct {
	mu       sync.RWMutex
	order    []string
	entities map[string]Snapshot
}

// Register adds e with no reading and returns the entity id it was stored
// under. A taken id gets the first free "_2", "_3", ... suffix; the caller
// must use the returned id from then on.
func (s *Store) Register(e sensor.Entity, entryID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entities == nil {
		s.entities = make(map[string]Snapshot)
	}
	id := e.EntityID()
	for n := 2; ; n++ {
		if _, taken := s.entities[id]; !taken {
			break
		}
		id = fmt.Sprintf("%s_%d", e.EntityID(), n)
	}
	s.entities[id] = Snapshot{
		EntityID: id,
		UniqueID: e.UniqueID(),
		Name:     e.Name(),
		Kind:     e.Kind(),
		EntryID:  entryID,
	}
	s.order = append(s.order, id)
	return id
}

// Update records a new reading for a registered entity. Unknown ids are
// ignored and reported false.
func (s *Store) Update(entityID string, r sensor.Reading) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, ok := s.entities[entityID]
	if !ok {
		return false
	}
	snap.Reading = r
	snap.HasReading = true
	snap.LastUpdated = time.Now()
	snap.Updates++
	s.entities[entityID] = snap
	return true
}

// Snapshot returns the state of one entity.
func (s *Store) Snapshot(entityID string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.entities[entityID]
	return snap, ok
}

// All returns every entity in registration order.
func (s *Store) All() []Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Snapshot, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.entities[id])
	}
	return out
}

// Len reports the number of registered entities.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

var (
	// ErrUnknownEntity reports an entity id that was never registered.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrNotPressable reports a press on an entity that is not a button.
	ErrNotPressable = errors.New("entity is not a button")
)
