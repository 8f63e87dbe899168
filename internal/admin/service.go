package admin

import (
	"context"
	"time"

	"fitclub/internal/booking"
	"fitclub/internal/events"
	"fitclub/internal/ledger"
	"fitclub/internal/logger"
	"fitclub/internal/member"
	"fitclub/internal/metrics"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Subscriptions interface {
	Cancel(ctx context.Context, memberID uuid.UUID) (ledger.Current, error)
}

type Bookings interface {
	ReleaseMemberBooking(ctx context.Context, memberID uuid.UUID) (*booking.Booking, error)
}

type Members interface {
	FindByID(ctx context.Context, id uuid.UUID) (*member.Member, error)
}

type Notifier interface {
	SubscriptionCancelledByAdmin(ctx context.Context, to, name, plan string, bookingCancelled bool) error
}

type Service interface {
	// CancelMemberSubscription cancels the member's subscription, then
	// releases their active booking. The second step is best effort: its
	// failure is logged and recorded but never fails the call.
	CancelMemberSubscription(ctx context.Context, actorID, memberID uuid.UUID) (*CancelResult, error)
	ListActions(ctx context.Context, memberID uuid.UUID) ([]Action, error)
}

type Deps struct {
	Subscriptions Subscriptions
	Bookings      Bookings
	Members       Members
	Log           ActionLog
	Notifier      Notifier
	Publisher     events.Publisher
	Now           func() time.Time
}

type service struct {
	Deps
	tracer trace.Tracer
}

func NewService(deps Deps) Service {
	if deps.Publisher == nil {
		deps.Publisher = events.NopPublisher{}
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &service{Deps: deps, tracer: otel.Tracer("fitclub/admin")}
}

func (s *service) CancelMemberSubscription(ctx context.Context, actorID, memberID uuid.UUID) (*CancelResult, error) {
	ctx, span := s.tracer.Start(ctx, "admin.cancel_subscription", trace.WithAttributes(
		attribute.String("actor.id", actorID.String()),
		attribute.String("member.id", memberID.String()),
	))
	defer span.End()

	sub, err := s.Subscriptions.Cancel(ctx, memberID)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	result := &CancelResult{Subscription: sub, BookingOutcome: BookingNone}
	action := &Action{
		ID:                  uuid.New(),
		Action:              ActionCancelSubscription,
		ActorID:             actorID,
		MemberID:            memberID,
		SubscriptionOutcome: string(ledger.StatusCancelled),
		CreatedAt:           s.Now().UTC(),
	}

	b, err := s.Bookings.ReleaseMemberBooking(ctx, memberID)
	switch {
	case err != nil:
		result.BookingOutcome = BookingFailed
		msg := err.Error()
		action.Error = &msg
		span.RecordError(err)
		logger.Error("admin cancel: booking cleanup failed",
			"member_id", memberID.String(),
			"actor_id", actorID.String(),
			"error", msg,
		)
	case b != nil:
		result.BookingOutcome = BookingCancelled
		result.Booking = b
		action.BookingID = uuid.NullUUID{UUID: b.ID, Valid: true}
	}
	action.BookingOutcome = result.BookingOutcome
	span.SetAttributes(attribute.String("booking.outcome", result.BookingOutcome))

	if err := s.Log.Record(ctx, action); err != nil {
		logger.Error("admin cancel: saga log write failed", "member_id", memberID.String(), "error", err.Error())
	}
	metrics.RecordAdminCancellation(result.BookingOutcome)
	logger.Info("admin cancelled subscription",
		"member_id", memberID.String(),
		"actor_id", actorID.String(),
		"plan", string(sub.Plan),
		"booking_outcome", result.BookingOutcome,
	)

	s.notify(ctx, memberID, sub, result.BookingOutcome == BookingCancelled)
	events.Emit(ctx, s.Publisher, events.New(events.TypeAdminSubscriptionClose, action.CreatedAt, action))

	return result, nil
}

func (s *service) notify(ctx context.Context, memberID uuid.UUID, sub ledger.Current, bookingCancelled bool) {
	if s.Notifier == nil || s.Members == nil {
		return
	}
	m, err := s.Members.FindByID(ctx, memberID)
	if err != nil || m == nil {
		logger.Warn("admin cancel: member contact unavailable", "member_id", memberID.String())
		return
	}
	if err := s.Notifier.SubscriptionCancelledByAdmin(ctx, m.Email, m.FullName, string(sub.Plan), bookingCancelled); err != nil {
		logger.Warn("admin cancel: notification not queued", "member_id", memberID.String(), "error", err.Error())
	}
}

func (s *service) ListActions(ctx context.Context, memberID uuid.UUID) ([]Action, error) {
	return s.Log.ListForMember(ctx, memberID)
}
