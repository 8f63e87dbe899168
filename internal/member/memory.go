package member

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type MemoryRepository struct {
	mu      sync.Mutex
	members map[uuid.UUID]Member
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{members: make(map[uuid.UUID]Member)}
}

func (r *MemoryRepository) Create(_ context.Context, m *Member) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.members {
		if existing.Email == m.Email {
			return ErrEmailExists
		}
	}
	r.members[m.ID] = *m
	return nil
}

func (r *MemoryRepository) FindByEmail(_ context.Context, email string) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.members {
		if m.Email == email {
			found := m
			return &found, nil
		}
	}
	return nil, nil
}

func (r *MemoryRepository) FindByID(_ context.Context, id uuid.UUID) (*Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MemoryRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	m, err := r.FindByEmail(ctx, email)
	return m != nil, err
}

func (r *MemoryRepository) ListByRole(_ context.Context, role string) ([]Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []Member{}
	for _, m := range r.members {
		if m.Role == role {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryRepository) update(id uuid.UUID, fn func(*Member)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.members[id]
	if !ok {
		return ErrMemberNotFound
	}
	fn(&m)
	r.members[id] = m
	return nil
}

func (r *MemoryRepository) UpdateName(_ context.Context, id uuid.UUID, fullName string, at time.Time) error {
	return r.update(id, func(m *Member) { m.FullName, m.UpdatedAt = fullName, at })
}

func (r *MemoryRepository) UpdatePassword(_ context.Context, id uuid.UUID, hash string, at time.Time) error {
	return r.update(id, func(m *Member) { m.PasswordHash, m.UpdatedAt = hash, at })
}

func (r *MemoryRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.members[id]; !ok {
		return ErrMemberNotFound
	}
	delete(r.members, id)
	return nil
}
