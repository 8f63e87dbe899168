package plan

import (
	"context"
	"errors"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/logger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Service interface {
	ListPlans(ctx context.Context) ([]Plan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*Plan, error)
	// Prices maps plan name to price.
	Prices(ctx context.Context) (map[string]decimal.Decimal, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) Service {
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, now: now}
}

func (s *service) ListPlans(ctx context.Context) ([]Plan, error) {
	plans, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("listing plans", err)
	}
	return plans, nil
}

func (s *service) UpdatePlan(ctx context.Context, id uuid.UUID, req UpdatePlanRequest) (*Plan, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("loading plan", err)
	}
	if p == nil {
		return nil, ErrPlanNotFound
	}

	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, ErrNegativePrice
		}
		p.Price = req.Price.Round(2)
	}
	if req.Features != nil {
		p.Features = append([]string{}, (*req.Features)...)
	}
	if req.IsPopular != nil {
		p.IsPopular = *req.IsPopular
	}
	p.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, ErrPlanNotFound) {
			return nil, err
		}
		return nil, apperr.Internal("updating plan", err)
	}

	logger.Info("plan updated", "plan", p.Name, "price", p.Price.StringFixed(2), "popular", p.IsPopular)
	return p, nil
}

func (s *service) Prices(ctx context.Context) (map[string]decimal.Decimal, error) {
	plans, err := s.ListPlans(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]decimal.Decimal, len(plans))
	for _, p := range plans {
		out[p.Name] = p.Price
	}
	return out, nil
}
