package plan

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.Mutex
	plans map[uuid.UUID]Plan
}

func NewMemoryRepository(plans ...Plan) *MemoryRepository {
	m := &MemoryRepository{plans: make(map[uuid.UUID]Plan)}
	for _, p := range plans {
		m.plans[p.ID] = p
	}
	return m
}

func (m *MemoryRepository) List(_ context.Context) ([]Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Plan, 0, len(m.plans))
	for _, p := range m.plans {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Price.LessThan(out[j].Price) })
	return out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *MemoryRepository) Update(_ context.Context, p *Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.plans[p.ID]; !ok {
		return ErrPlanNotFound
	}
	if p.IsPopular {
		for id, other := range m.plans {
			if id != p.ID && other.IsPopular {
				other.IsPopular = false
				other.UpdatedAt = p.UpdatedAt
				m.plans[id] = other
			}
		}
	}
	m.plans[p.ID] = *p
	return nil
}
