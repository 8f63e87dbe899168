package supplement

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context) ([]Supplement, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Supplement, error)
	// GetMany returns the supplements among ids that exist, in no particular order.
	GetMany(ctx context.Context, ids []uuid.UUID) ([]Supplement, error)
	Create(ctx context.Context, s *Supplement) error
	Update(ctx context.Context, s *Supplement) error
	Delete(ctx context.Context, id uuid.UUID) error

	CreateOrder(ctx context.Context, o *Order) error
	ListOrders(ctx context.Context, memberID uuid.UUID) ([]Order, error)
}
