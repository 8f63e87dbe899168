package booking

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository mirrors the partial unique indexes of the bookings table.
type MemoryRepository struct {
	mu       sync.Mutex
	bookings []Booking
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (m *MemoryRepository) Create(_ context.Context, b *Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.bookings {
		if existing.Status != StatusActive {
			continue
		}
		if existing.StaffID.Valid && existing.StaffID == b.StaffID && existing.Slot == b.Slot {
			return ErrSlotConflict
		}
	}
	for _, existing := range m.bookings {
		if existing.Status == StatusActive && existing.MemberID == b.MemberID {
			return ErrMemberAlreadyBooked
		}
	}

	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *MemoryRepository) find(match func(Booking) bool) *Booking {
	for i := range m.bookings {
		if match(m.bookings[i]) {
			b := m.bookings[i]
			return &b
		}
	}
	return nil
}

func (m *MemoryRepository) FindActiveForSlot(_ context.Context, staffID uuid.UUID, slot string) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(b Booking) bool {
		return b.Status == StatusActive && b.StaffID.Valid && b.StaffID.UUID == staffID && b.Slot == slot
	}), nil
}

func (m *MemoryRepository) FindActiveForMember(_ context.Context, memberID uuid.UUID) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.find(func(b Booking) bool {
		return b.Status == StatusActive && b.MemberID == memberID
	}), nil
}

func (m *MemoryRepository) CancelActiveForMember(_ context.Context, memberID uuid.UUID, at time.Time) (*Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.bookings {
		if m.bookings[i].Status == StatusActive && m.bookings[i].MemberID == memberID {
			m.bookings[i].Status = StatusCancelled
			m.bookings[i].UpdatedAt = at
			b := m.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (m *MemoryRepository) remove(match func(Booking) bool) int64 {
	kept := m.bookings[:0]
	var n int64
	for _, b := range m.bookings {
		if match(b) {
			n++
			continue
		}
		kept = append(kept, b)
	}
	m.bookings = kept
	return n
}

func (m *MemoryRepository) DeleteForStaff(_ context.Context, staffID uuid.UUID, staffName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(func(b Booking) bool {
		if b.StaffID.Valid {
			return b.StaffID.UUID == staffID
		}
		return b.StaffName == staffName
	}), nil
}

func (m *MemoryRepository) DeleteForMember(_ context.Context, memberID uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remove(func(b Booking) bool { return b.MemberID == memberID }), nil
}

func (m *MemoryRepository) RenameStaff(_ context.Context, staffID uuid.UUID, name string, at time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for i := range m.bookings {
		b := &m.bookings[i]
		if b.StaffID.Valid && b.StaffID.UUID == staffID && b.StaffName != name {
			b.StaffName = name
			b.UpdatedAt = at
			n++
		}
	}
	return n, nil
}

func (m *MemoryRepository) List(_ context.Context) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(Booking) bool { return true }), nil
}

func (m *MemoryRepository) ListForMember(_ context.Context, memberID uuid.UUID) ([]Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(func(b Booking) bool { return b.MemberID == memberID }), nil
}

func (m *MemoryRepository) sorted(match func(Booking) bool) []Booking {
	out := []Booking{}
	for _, b := range m.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}
