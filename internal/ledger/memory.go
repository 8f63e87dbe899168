package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryRepository keeps histories in process. It serializes all
// mutations, which gives the same guarantees as the row lock.
type MemoryRepository struct {
	mu      sync.Mutex
	members map[uuid.UUID][]Event
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{members: make(map[uuid.UUID][]Event)}
}

// AddMember registers an empty history, as inserting a members row does.
func (m *MemoryRepository) AddMember(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.members[id]; !ok {
		m.members[id] = nil
	}
}

func (m *MemoryRepository) Load(_ context.Context, memberID uuid.UUID) (History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	events, ok := m.members[memberID]
	if !ok {
		return History{}, ErrMemberNotFound
	}
	return NewHistory(memberID, events), nil
}

func (m *MemoryRepository) Mutate(_ context.Context, memberID uuid.UUID, fn MutateFunc) (History, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	events, ok := m.members[memberID]
	if !ok {
		return History{}, ErrMemberNotFound
	}
	base := NewHistory(memberID, events)

	next, err := fn(base)
	if err != nil {
		return History{}, err
	}

	active := 0
	for _, e := range next.events {
		if e.Status == StatusActive {
			active++
		}
	}
	if active > 1 {
		return History{}, ErrActiveExists
	}

	m.members[memberID] = next.Events()
	return next, nil
}
