package store

import (
	"context"
	"sort"
	"sync"

	"github.com/chriskacerguis/hamqrzdb/internal/domain"
)

// Memory is a map-backed Store for tests, single-shot runs, and small
// filtered loads. Not durable.
type Memory struct {
	mu       sync.RWMutex
	entities map[string]*domain.Entity
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entities: make(map[string]*domain.Entity)}
}

func (m *Memory) Upsert(_ context.Context, u domain.Update) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[u.Callsign]
	if !ok {
		e = &domain.Entity{Callsign: u.Callsign}
		m.entities[u.Callsign] = e
	}
	e.Apply(u, domain.Now())
	return nil
}

func (m *Memory) Get(_ context.Context, callsign string) (domain.Entity, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entities[callsign]
	if !ok {
		return domain.Entity{}, false, nil
	}
	return *e, true, nil
}

// ForEach visits entities in callsign order.
func (m *Memory) ForEach(ctx context.Context, fn func(domain.Entity) error) error {
	m.mu.RLock()
	calls := make([]string, 0, len(m.entities))
	for c := range m.entities {
		calls = append(calls, c)
	}
	m.mu.RUnlock()
	sort.Strings(calls)

	for _, c := range calls {
		if err := ctx.Err(); err != nil {
			return err
		}
		e, ok, err := m.Get(ctx, c)
		if err != nil || !ok {
			continue
		}
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entities)), nil
}

func (m *Memory) Flush(_ context.Context) error { return nil }

func (m *Memory) Close() error { return nil }
