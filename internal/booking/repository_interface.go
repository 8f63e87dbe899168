package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	// Create inserts an active booking. Storage-level uniqueness violations
	// come back as ErrSlotConflict or ErrMemberAlreadyBooked.
	Create(ctx context.Context, b *Booking) error
	FindActiveForSlot(ctx context.Context, staffID uuid.UUID, slot string) (*Booking, error)
	FindActiveForMember(ctx context.Context, memberID uuid.UUID) (*Booking, error)
	CancelActiveForMember(ctx context.Context, memberID uuid.UUID, at time.Time) (*Booking, error)
	DeleteForStaff(ctx context.Context, staffID uuid.UUID, staffName string) (int64, error)
	DeleteForMember(ctx context.Context, memberID uuid.UUID) (int64, error)
	RenameStaff(ctx context.Context, staffID uuid.UUID, name string, at time.Time) (int64, error)
	List(ctx context.Context) ([]Booking, error)
	ListForMember(ctx context.Context, memberID uuid.UUID) ([]Booking, error)
}
