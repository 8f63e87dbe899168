package staff

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, s *Staff) error
	GetByID(ctx context.Context, id uuid.UUID) (*Staff, error)
	FindByName(ctx context.Context, fullName string) (*Staff, error)
	List(ctx context.Context) ([]Staff, error)
	ListByStatus(ctx context.Context, status Status) ([]Staff, error)
	Update(ctx context.Context, s *Staff) error
	Delete(ctx context.Context, id uuid.UUID) error
	EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error)
}
