package staff

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu    sync.Mutex
	staff map[uuid.UUID]Staff
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{staff: make(map[uuid.UUID]Staff)}
}

func clone(s Staff) *Staff {
	s.AvailabilitySlots = append([]string{}, s.AvailabilitySlots...)
	return &s
}

func (m *MemoryRepository) Create(_ context.Context, s *Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.staff {
		if existing.Email == s.Email {
			return ErrEmailTaken
		}
	}
	m.staff[s.ID] = *clone(*s)
	return nil
}

func (m *MemoryRepository) GetByID(_ context.Context, id uuid.UUID) (*Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.staff[id]
	if !ok {
		return nil, nil
	}
	return clone(s), nil
}

func (m *MemoryRepository) sorted() []Staff {
	out := make([]Staff, 0, len(m.staff))
	for _, s := range m.staff {
		out = append(out, *clone(s))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (m *MemoryRepository) FindByName(_ context.Context, fullName string) (*Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sorted() {
		if s.FullName == fullName {
			return clone(s), nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) List(_ context.Context) ([]Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.sorted()
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

func (m *MemoryRepository) ListByStatus(_ context.Context, status Status) ([]Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Staff{}
	for _, s := range m.sorted() {
		if s.Status == status {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

func (m *MemoryRepository) Update(_ context.Context, s *Staff) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[s.ID]; !ok {
		return ErrStaffNotFound
	}
	for id, existing := range m.staff {
		if id != s.ID && existing.Email == s.Email {
			return ErrEmailTaken
		}
	}
	m.staff[s.ID] = *clone(*s)
	return nil
}

func (m *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.staff[id]; !ok {
		return ErrStaffNotFound
	}
	delete(m.staff, id)
	return nil
}

func (m *MemoryRepository) EmailTaken(_ context.Context, email string, exclude uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, s := range m.staff {
		if id != exclude && s.Email == email {
			return true, nil
		}
	}
	return false, nil
}
