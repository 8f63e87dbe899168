package supplement

import (
	"context"
	"errors"
	"strings"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/events"
	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var maxRating = decimal.NewFromInt(5)

type Service interface {
	ListSupplements(ctx context.Context) ([]Supplement, error)
	GetSupplement(ctx context.Context, id uuid.UUID) (*Supplement, error)
	CreateSupplement(ctx context.Context, req CreateSupplementRequest) (*Supplement, error)
	UpdateSupplement(ctx context.Context, id uuid.UUID, req UpdateSupplementRequest) (*Supplement, error)
	DeleteSupplement(ctx context.Context, id uuid.UUID) error

	// PlaceOrder prices the cart from the catalogue and records it as a
	// processing order. Every item must exist and be in stock.
	PlaceOrder(ctx context.Context, memberID uuid.UUID, req PlaceOrderRequest) (*Order, error)
	ListOrders(ctx context.Context, memberID uuid.UUID) ([]Order, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, publisher events.Publisher, now func() time.Time) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, publisher: publisher, now: now}
}

func (s *service) ListSupplements(ctx context.Context) ([]Supplement, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("listing supplements", err)
	}
	return list, nil
}

func (s *service) GetSupplement(ctx context.Context, id uuid.UUID) (*Supplement, error) {
	sup, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("loading supplement", err)
	}
	if sup == nil {
		return nil, ErrSupplementNotFound
	}
	return sup, nil
}

func checkPrice(price decimal.Decimal) (decimal.Decimal, error) {
	if price.IsNegative() {
		return decimal.Zero, ErrNegativePrice
	}
	return price.Round(2), nil
}

func checkRating(rating decimal.Decimal) (decimal.Decimal, error) {
	if rating.IsNegative() || rating.GreaterThan(maxRating) {
		return decimal.Zero, apperr.Validation("Rating must be between 0 and 5.")
	}
	return rating.Round(1), nil
}

func (s *service) CreateSupplement(ctx context.Context, req CreateSupplementRequest) (*Supplement, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperr.Validation("Name is required.")
	}
	if req.Price == nil {
		return nil, apperr.Validation("Price is required.")
	}
	price, err := checkPrice(*req.Price)
	if err != nil {
		return nil, err
	}
	rating := decimal.Zero
	if req.Rating != nil {
		if rating, err = checkRating(*req.Rating); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	sup := &Supplement{
		ID:          uuid.New(),
		Name:        name,
		Category:    req.Category,
		Price:       price,
		Rating:      rating,
		Reviews:     req.Reviews,
		Description: strings.TrimSpace(req.Description),
		Servings:    req.Servings,
		Flavor:      strings.TrimSpace(req.Flavor),
		InStock:     req.InStock == nil || *req.InStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if sup.Flavor == "" {
		sup.Flavor = defaultFlavor
	}

	if err := s.repo.Create(ctx, sup); err != nil {
		return nil, apperr.Internal("creating supplement", err)
	}
	logger.Info("supplement created", "supplement_id", sup.ID.String(), "name", sup.Name, "price", sup.Price.StringFixed(2))
	return sup, nil
}

func (s *service) UpdateSupplement(ctx context.Context, id uuid.UUID, req UpdateSupplementRequest) (*Supplement, error) {
	sup, err := s.GetSupplement(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if sup.Name = strings.TrimSpace(*req.Name); sup.Name == "" {
			return nil, apperr.Validation("Name is required.")
		}
	}
	if req.Category != nil {
		sup.Category = *req.Category
	}
	if req.Price != nil {
		if sup.Price, err = checkPrice(*req.Price); err != nil {
			return nil, err
		}
	}
	if req.Rating != nil {
		if sup.Rating, err = checkRating(*req.Rating); err != nil {
			return nil, err
		}
	}
	if req.Reviews != nil {
		sup.Reviews = *req.Reviews
	}
	if req.Description != nil {
		sup.Description = strings.TrimSpace(*req.Description)
	}
	if req.Servings != nil {
		sup.Servings = *req.Servings
	}
	if req.Flavor != nil {
		if sup.Flavor = strings.TrimSpace(*req.Flavor); sup.Flavor == "" {
			sup.Flavor = defaultFlavor
		}
	}
	if req.InStock != nil {
		sup.InStock = *req.InStock
	}
	sup.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, sup); err != nil {
		if errors.Is(err, ErrSupplementNotFound) {
			return nil, err
		}
		return nil, apperr.Internal("updating supplement", err)
	}
	logger.Info("supplement updated", "supplement_id", sup.ID.String(), "in_stock", sup.InStock)
	return sup, nil
}

func (s *service) DeleteSupplement(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrSupplementNotFound) {
			return err
		}
		return apperr.Internal("deleting supplement", err)
	}
	logger.Info("supplement deleted", "supplement_id", id.String())
	return nil
}

func (s *service) PlaceOrder(ctx context.Context, memberID uuid.UUID, req PlaceOrderRequest) (*Order, error) {
	order, err := s.priceCart(ctx, memberID, req.Items)
	if err != nil {
		metrics.RecordSupplementOrder(rejection(err))
		return nil, err
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		metrics.RecordSupplementOrder("failed")
		if errors.Is(err, ErrMemberNotFound) {
			return nil, err
		}
		return nil, apperr.Internal("saving supplement order", err)
	}

	metrics.RecordSupplementOrder("placed")
	logger.Info("supplement order placed",
		"order_id", order.ID.String(),
		"member_id", memberID.String(),
		"items", len(order.Items),
		"total", order.TotalAmount.StringFixed(2),
	)
	events.Emit(ctx, s.publisher, events.New(events.TypeSupplementOrderPlaced, order.CreatedAt, order))
	return order, nil
}

func (s *service) priceCart(ctx context.Context, memberID uuid.UUID, cart []CartItem) (*Order, error) {
	if len(cart) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]uuid.UUID, 0, len(cart))
	for _, item := range cart {
		if item.Quantity < 1 {
			return nil, apperr.Validation("Quantity must be at least 1.")
		}
		ids = append(ids, item.SupplementID)
	}

	found, err := s.repo.GetMany(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("loading supplements", err)
	}
	byID := make(map[uuid.UUID]Supplement, len(found))
	for _, sup := range found {
		byID[sup.ID] = sup
	}

	order := &Order{
		ID:        uuid.New(),
		MemberID:  memberID,
		Items:     make(Items, 0, len(cart)),
		Status:    StatusProcessing,
		CreatedAt: s.now().UTC(),
	}
	total := decimal.Zero
	for _, item := range cart {
		sup, ok := byID[item.SupplementID]
		if !ok {
			name := item.Name
			if name == "" {
				name = item.SupplementID.String()
			}
			return nil, unknownItem(name)
		}
		if !sup.InStock {
			return nil, outOfStock(sup.Name)
		}
		total = total.Add(sup.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		order.Items = append(order.Items, OrderItem{
			SupplementID: sup.ID,
			Name:         sup.Name,
			Price:        sup.Price,
			Quantity:     item.Quantity,
		})
	}
	order.TotalAmount = total.Round(2)
	return order, nil
}

func rejection(err error) string {
	switch {
	case errors.Is(err, ErrOutOfStock):
		return "out_of_stock"
	case errors.Is(err, ErrUnknownSupplement):
		return "unknown_item"
	case apperr.CodeOf(err) == apperr.CodeValidation:
		return "invalid"
	default:
		return "failed"
	}
}

func (s *service) ListOrders(ctx context.Context, memberID uuid.UUID) ([]Order, error) {
	orders, err := s.repo.ListOrders(ctx, memberID)
	if err != nil {
		return nil, apperr.Internal("listing supplement orders", err)
	}
	return orders, nil
}
