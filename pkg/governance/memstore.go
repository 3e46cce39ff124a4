package governance

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process StateStore and ActionLog. It is the reference
// implementation for tests and single-node runs.
type MemoryStore struct {
	mu      sync.Mutex
	states  map[string]State
	actions map[string][]ActionLogEntry
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		states:  make(map[string]State),
		actions: make(map[string][]ActionLogEntry),
	}
}

// Get returns the entity state, defaulting to active for unknown entities.
func (m *MemoryStore) Get(_ context.Context, entityID string) (State, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.states[entityID]; ok {
		return s, nil
	}
	return State{EntityID: entityID, Status: StatusActive}, nil
}

// CompareAndSwap applies the transition only if the stored status still
// matches 'from'. Unknown entities count as active.
func (m *MemoryStore) CompareAndSwap(_ context.Context, entityID string, from, to Status, at time.Time) (State, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	current, ok := m.states[entityID]
	if !ok {
		current = State{EntityID: entityID, Status: StatusActive}
	}
	if current.Status != from {
		return current, false, nil
	}
	next := State{EntityID: entityID, Status: to, UpdatedAt: at}
	m.states[entityID] = next
	return next, true, nil
}

// Append records entries in arrival order.
func (m *MemoryStore) Append(_ context.Context, entries []ActionLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		m.actions[e.EntityID] = append(m.actions[e.EntityID], e)
	}
	return nil
}

// Recent returns up to limit entries for the entity, newest first.
func (m *MemoryStore) Recent(_ context.Context, entityID string, limit int) ([]ActionLogEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.actions[entityID]
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]ActionLogEntry, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out, nil
}
