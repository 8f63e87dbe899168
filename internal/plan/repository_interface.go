package plan

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	List(ctx context.Context) ([]Plan, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	// Update saves p. When p is popular every other plan loses the flag in
	// the same transaction.
	Update(ctx context.Context, p *Plan) error
}
