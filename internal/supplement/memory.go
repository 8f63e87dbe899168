package supplement

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu          sync.Mutex
	supplements map[uuid.UUID]Supplement
	orders      []Order
}

func NewMemoryRepository(supplements ...Supplement) *MemoryRepository {
	m := &MemoryRepository{supplements: make(map[uuid.UUID]Supplement)}
	for _, s := range supplements {
		m.supplements[s.ID] = s
	}
	return m
}

func (m *MemoryRepository) List(_ context.Context) ([]Supplement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Supplement, 0, len(m.supplements))
	for _, s := range m.supplements {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Supplement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.supplements[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (m *MemoryRepository) GetMany(_ context.Context, ids []uuid.UUID) ([]Supplement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Supplement{}
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if s, ok := m.supplements[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MemoryRepository) Create(_ context.Context, s *Supplement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.supplements[s.ID] = *s
	return nil
}

func (m *MemoryRepository) Update(_ context.Context, s *Supplement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.supplements[s.ID]; !ok {
		return ErrSupplementNotFound
	}
	m.supplements[s.ID] = *s
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.supplements[id]; !ok {
		return ErrSupplementNotFound
	}
	delete(m.supplements, id)
	return nil
}

func (m *MemoryRepository) CreateOrder(_ context.Context, o *Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := *o
	stored.Items = append(Items{}, o.Items...)
	m.orders = append(m.orders, stored)
	return nil
}

func (m *MemoryRepository) ListOrders(_ context.Context, memberID uuid.UUID) ([]Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Order{}
	for i := len(m.orders) - 1; i >= 0; i-- {
		if m.orders[i].MemberID == memberID {
			out = append(out, m.orders[i])
		}
	}
	return out, nil
}
