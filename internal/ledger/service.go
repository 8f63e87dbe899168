package ledger

import (
	"context"
	"time"

	"fitclub/internal/events"
	"fitclub/internal/logger"
	"fitclub/internal/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Service interface {
	Subscribe(ctx context.Context, memberID uuid.UUID, plan string) (Current, error)
	Cancel(ctx context.Context, memberID uuid.UUID) (Current, error)
	Current(ctx context.Context, memberID uuid.UUID) (Current, error)
	History(ctx context.Context, memberID uuid.UUID) ([]Event, error)
}

type service struct {
	repo      Repository
	publisher events.Publisher
	now       func() time.Time
	tracer    trace.Tracer
}

func NewService(repo Repository, publisher events.Publisher, now func() time.Time) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      repo,
		publisher: publisher,
		now:       now,
		tracer:    otel.Tracer("fitclub/ledger"),
	}
}

type subscriptionPayload struct {
	MemberID uuid.UUID  `json:"member_id"`
	Plan     Plan       `json:"plan"`
	Previous *Plan      `json:"previous_plan,omitempty"`
	EndDate  *time.Time `json:"end_date"`
}

// Subscribe closes any active entry as upgraded and opens a new one for plan.
// Re-subscribing to the same plan still closes and reopens.
func (s *service) Subscribe(ctx context.Context, memberID uuid.UUID, plan string) (Current, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.subscribe", trace.WithAttributes(
		attribute.String("member.id", memberID.String()),
		attribute.String("plan", plan),
	))
	defer span.End()

	p, err := ParsePlan(plan)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Current{}, err
	}

	now := s.now()
	var previous *Plan

	h, err := s.repo.Mutate(ctx, memberID, func(h History) (History, error) {
		if idx, ok := h.Active(); ok {
			old := h.At(idx).Plan
			previous = &old

			closed, err := h.Close(idx, StatusUpgraded, now)
			if err != nil {
				return h, err
			}
			h = closed
		}
		return h.Append(p, now, AddMonth(now))
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Current{}, err
	}

	cur := h.Current()
	span.SetAttributes(attribute.Int("history.len", h.Len()))
	metrics.RecordSubscriptionEvent(string(p), "subscribe")
	logger.Info("subscription started", "member_id", memberID.String(), "plan", string(p))

	events.Emit(ctx, s.publisher, events.New(events.TypeSubscribed, now, subscriptionPayload{
		MemberID: memberID,
		Plan:     p,
		Previous: previous,
		EndDate:  cur.EndDate,
	}))

	return cur, nil
}

func (s *service) Cancel(ctx context.Context, memberID uuid.UUID) (Current, error) {
	ctx, span := s.tracer.Start(ctx, "ledger.cancel", trace.WithAttributes(
		attribute.String("member.id", memberID.String()),
	))
	defer span.End()

	now := s.now()
	var cancelledIdx int

	h, err := s.repo.Mutate(ctx, memberID, func(h History) (History, error) {
		idx, ok := h.Active()
		if !ok {
			return h, ErrNoActiveSubscription
		}
		cancelledIdx = idx
		return h.Close(idx, StatusCancelled, now)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Current{}, err
	}

	cancelled := h.At(cancelledIdx)
	metrics.RecordSubscriptionEvent(string(cancelled.Plan), "cancel")
	logger.Info("subscription cancelled", "member_id", memberID.String(), "plan", string(cancelled.Plan))

	events.Emit(ctx, s.publisher, events.New(events.TypeSubscriptionCancelled, now, subscriptionPayload{
		MemberID: memberID,
		Plan:     cancelled.Plan,
		EndDate:  cancelled.EndDate,
	}))

	return project(cancelled), nil
}

func (s *service) Current(ctx context.Context, memberID uuid.UUID) (Current, error) {
	h, err := s.repo.Load(ctx, memberID)
	if err != nil {
		return Current{}, err
	}
	return h.Current(), nil
}

func (s *service) History(ctx context.Context, memberID uuid.UUID) ([]Event, error) {
	h, err := s.repo.Load(ctx, memberID)
	if err != nil {
		return nil, err
	}
	return h.Events(), nil
}
