package supplement

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitclub/internal/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryWheyProtein   Category = "whey-protein"
	CategoryCaseinProtein Category = "casein-protein"
	CategoryCreatine      Category = "creatine"
	CategoryPreWorkout    Category = "pre-workout"
	CategoryMultivitamins Category = "multivitamins"
	CategoryFishOil       Category = "fish-oil"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

const defaultFlavor = "N/A"

var (
	ErrSupplementNotFound = apperr.New(apperr.CodeNotFound, "Supplement not found.")
	ErrNegativePrice      = apperr.Validation("Price cannot be negative.")
	ErrEmptyCart          = apperr.Validation("Cart is empty.")
	ErrMemberNotFound     = apperr.New(apperr.CodeNotFound, "User not found.")

	// Causes behind the per-item cart errors, whose messages name the item.
	ErrUnknownSupplement = errors.New("unknown supplement")
	ErrOutOfStock        = errors.New("out of stock")
)

func unknownItem(name string) error {
	return apperr.Wrap(apperr.CodeNotFound, fmt.Sprintf("Supplement '%s' not found.", name), ErrUnknownSupplement)
}

func outOfStock(name string) error {
	return apperr.Wrap(apperr.CodeValidation, fmt.Sprintf("'%s' is out of stock.", name), ErrOutOfStock)
}

type Supplement struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Category    Category        `db:"category" json:"category"`
	Price       decimal.Decimal `db:"price" json:"price" swaggertype:"string" example:"39.99"`
	Rating      decimal.Decimal `db:"rating" json:"rating" swaggertype:"string" example:"4.5"`
	Reviews     int             `db:"reviews" json:"reviews"`
	Description string          `db:"description" json:"description"`
	Servings    int             `db:"servings" json:"servings"`
	Flavor      string          `db:"flavor" json:"flavor"`
	InStock     bool            `db:"in_stock" json:"in_stock"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

type CreateSupplementRequest struct {
	Name        string           `json:"name" validate:"required"`
	Category    Category         `json:"category" validate:"required,oneof=whey-protein casein-protein creatine pre-workout multivitamins fish-oil"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string" validate:"required"`
	Rating      *decimal.Decimal `json:"rating" swaggertype:"string"`
	Reviews     int              `json:"reviews" validate:"min=0"`
	Description string           `json:"description" validate:"required"`
	Servings    int              `json:"servings" validate:"required,min=1"`
	Flavor      string           `json:"flavor"`
	InStock     *bool            `json:"in_stock"`
}

// UpdateSupplementRequest leaves nil fields unchanged.
type UpdateSupplementRequest struct {
	Name        *string          `json:"name" validate:"omitempty,min=1"`
	Category    *Category        `json:"category" validate:"omitempty,oneof=whey-protein casein-protein creatine pre-workout multivitamins fish-oil"`
	Price       *decimal.Decimal `json:"price" swaggertype:"string"`
	Rating      *decimal.Decimal `json:"rating" swaggertype:"string"`
	Reviews     *int             `json:"reviews" validate:"omitempty,min=0"`
	Description *string          `json:"description" validate:"omitempty,min=1"`
	Servings    *int             `json:"servings" validate:"omitempty,min=1"`
	Flavor      *string          `json:"flavor"`
	InStock     *bool            `json:"in_stock"`
}

// CartItem names a supplement by id. Name is only used in error messages.
type CartItem struct {
	SupplementID uuid.UUID `json:"supplement_id" validate:"required"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
}

type PlaceOrderRequest struct {
	Items []CartItem `json:"cart_items" validate:"dive"`
}

// OrderItem is a cart line with the name and unit price it had when ordered.
type OrderItem struct {
	SupplementID uuid.UUID       `json:"supplement_id"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price" swaggertype:"string"`
	Quantity     int             `json:"quantity"`
}

// Items is stored as a JSONB column.
type Items []OrderItem

func (it Items) Value() (driver.Value, error) {
	if it == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(it)
}

func (it *Items) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*it = Items{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("supplement: cannot scan %T into Items", value)
	}
	return json.Unmarshal(raw, it)
}

type Order struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	MemberID    uuid.UUID       `db:"member_id" json:"member_id"`
	Items       Items           `db:"items" json:"items"`
	TotalAmount decimal.Decimal `db:"total_amount" json:"total_amount" swaggertype:"string" example:"79.98"`
	Status      OrderStatus     `db:"status" json:"status"`
	CreatedAt   time.Time       `db:"created_at" json:"order_date"`
}

type OrderResponse struct {
	Message string `json:"message"`
	Order   *Order `json:"order"`
}
