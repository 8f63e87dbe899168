package plan

import (
	"time"

	"fitclub/internal/apperr"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

var (
	ErrPlanNotFound  = apperr.New(apperr.CodeNotFound, "Plan not found.")
	ErrNegativePrice = apperr.New(apperr.CodeValidation, "Price cannot be negative.")
)

// Plan is the catalogue entry behind a subscribable plan name. At most one
// plan is popular at a time.
type Plan struct {
	ID        uuid.UUID       `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Price     decimal.Decimal `db:"price" json:"price" swaggertype:"string" example:"59.99"`
	Features  pq.StringArray  `db:"features" json:"features"`
	IsPopular bool            `db:"is_popular" json:"is_popular"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// UpdatePlanRequest leaves nil fields unchanged.
type UpdatePlanRequest struct {
	Price     *decimal.Decimal `json:"price" swaggertype:"string"`
	Features  *[]string        `json:"features" validate:"omitempty,dive,required"`
	IsPopular *bool            `json:"is_popular"`
}
