package report

import (
	"context"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/logger"

	"github.com/shopspring/decimal"
)

// PriceSource supplies plan prices by name.
type PriceSource interface {
	Prices(ctx context.Context) (map[string]decimal.Decimal, error)
}

type Service interface {
	// Monthly builds the report for the calendar month containing at.
	Monthly(ctx context.Context, at time.Time) ([]Row, error)
}

type service struct {
	repo   Repository
	prices PriceSource
}

func NewService(repo Repository, prices PriceSource) Service {
	return &service{repo: repo, prices: prices}
}

func (s *service) Monthly(ctx context.Context, at time.Time) ([]Row, error) {
	w := MonthOf(at)

	prices, err := s.prices.Prices(ctx)
	if err != nil {
		return nil, err
	}
	members, err := s.repo.MemberActivity(ctx, w)
	if err != nil {
		return nil, apperr.Internal("loading member activity", err)
	}
	sessions, err := s.repo.Sessions(ctx, w)
	if err != nil {
		return nil, apperr.Internal("loading sessions", err)
	}

	rows := BuildMonthly(w, members, sessions, prices)
	logger.Debug("monthly report built", "month", w.From.Format("2006-01"), "rows", len(rows))
	return rows, nil
}
