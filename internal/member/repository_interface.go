package member

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository lookups return nil, nil when no member matches.
type Repository interface {
	Create(ctx context.Context, m *Member) error
	FindByEmail(ctx context.Context, email string) (*Member, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Member, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListByRole(ctx context.Context, role string) ([]Member, error)
	UpdateName(ctx context.Context, id uuid.UUID, fullName string, at time.Time) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}
