package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitclub/internal/apperr"
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
	CreateBooking(ctx context.Context, memberID uuid.UUID, memberName, staffName, slot string) (*Booking, error)
	CancelBooking(ctx context.Context, memberID uuid.UUID) error
	// ReleaseMemberBooking cancels the member's active booking if there is
	// one. Absence is not an error: it returns nil, nil.
	ReleaseMemberBooking(ctx context.Context, memberID uuid.UUID) (*Booking, error)
	GetBookingForSlot(ctx context.Context, staffName, slot string) (*Booking, error)
	GetMemberBooking(ctx context.Context, memberID uuid.UUID) (*Booking, error)
	DeleteBookingsForStaff(ctx context.Context, staffID uuid.UUID, staffName string) (int64, error)
	DeleteBookingsForMember(ctx context.Context, memberID uuid.UUID) (int64, error)
	RenameStaff(ctx context.Context, staffID uuid.UUID, newName string) (int64, error)
	ListBookings(ctx context.Context) ([]Booking, error)
	ListMemberBookings(ctx context.Context, memberID uuid.UUID) ([]Booking, error)
}

type service struct {
	repo      Repository
	staff     StaffDirectory
	publisher events.Publisher
	now       func() time.Time
	tracer    trace.Tracer
}

func NewService(repo Repository, staff StaffDirectory, publisher events.Publisher, now func() time.Time) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &service{
		repo:      repo,
		staff:     staff,
		publisher: publisher,
		now:       now,
		tracer:    otel.Tracer("fitclub/booking"),
	}
}

func validateCreate(memberID uuid.UUID, memberName, staffName, slot string) error {
	var missing []string
	if memberID == uuid.Nil {
		missing = append(missing, "member_id")
	}
	if strings.TrimSpace(memberName) == "" {
		missing = append(missing, "member_name")
	}
	if strings.TrimSpace(staffName) == "" {
		missing = append(missing, "staff_name")
	}
	if strings.TrimSpace(slot) == "" {
		missing = append(missing, "slot")
	}
	if len(missing) > 0 {
		return apperr.Validation("All fields (member_id, member_name, staff_name, slot) are required; missing: " + strings.Join(missing, ", "))
	}
	return nil
}

// CreateBooking checks the slot before the member, so a request that
// violates both reports ErrSlotConflict.
func (s *service) CreateBooking(ctx context.Context, memberID uuid.UUID, memberName, staffName, slot string) (*Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.create", trace.WithAttributes(
		attribute.String("member.id", memberID.String()),
		attribute.String("staff.name", staffName),
		attribute.String("slot", slot),
	))
	defer span.End()

	b, err := s.create(ctx, memberID, memberName, staffName, slot)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		metrics.RecordBooking(outcomeOf(err))
		return nil, err
	}

	metrics.RecordBooking("created")
	logger.Info("booking created",
		"booking_id", b.ID.String(),
		"member_id", memberID.String(),
		"staff_id", b.StaffID.UUID.String(),
		"slot", slot,
	)
	events.Emit(ctx, s.publisher, events.New(events.TypeBookingCreated, b.CreatedAt, b))

	return b, nil
}

func (s *service) create(ctx context.Context, memberID uuid.UUID, memberName, staffName, slot string) (*Booking, error) {
	if err := validateCreate(memberID, memberName, staffName, slot); err != nil {
		return nil, err
	}

	ref, err := s.staff.LookupStaff(ctx, staffName)
	if err != nil {
		return nil, fmt.Errorf("resolving staff: %w", err)
	}
	if ref == nil {
		return nil, ErrStaffNotFound
	}
	if !ref.Offers(slot) {
		return nil, ErrSlotNotOffered
	}

	taken, err := s.repo.FindActiveForSlot(ctx, ref.ID, slot)
	if err != nil {
		return nil, fmt.Errorf("checking slot: %w", err)
	}
	if taken != nil {
		return nil, ErrSlotConflict
	}

	current, err := s.repo.FindActiveForMember(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("checking member bookings: %w", err)
	}
	if current != nil {
		return nil, ErrMemberAlreadyBooked
	}

	now := s.now()
	b := &Booking{
		ID:         uuid.New(),
		MemberID:   memberID,
		MemberName: memberName,
		StaffID:    uuid.NullUUID{UUID: ref.ID, Valid: true},
		StaffName:  ref.Name,
		Slot:       slot,
		Status:     StatusActive,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// a concurrent writer can still win between the checks and the insert;
	// the unique indexes turn that into the same two errors
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, ErrSlotConflict) || errors.Is(err, ErrMemberAlreadyBooked) {
			return nil, err
		}
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	return b, nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, ErrSlotConflict):
		return "slot_conflict"
	case errors.Is(err, ErrMemberAlreadyBooked):
		return "member_already_booked"
	case apperr.CodeOf(err) == apperr.CodeInternal:
		return "error"
	default:
		return "rejected"
	}
}

func (s *service) CancelBooking(ctx context.Context, memberID uuid.UUID) error {
	b, err := s.cancel(ctx, memberID, "member")
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNoActiveBooking
	}
	return nil
}

func (s *service) ReleaseMemberBooking(ctx context.Context, memberID uuid.UUID) (*Booking, error) {
	return s.cancel(ctx, memberID, "admin")
}

func (s *service) cancel(ctx context.Context, memberID uuid.UUID, initiator string) (*Booking, error) {
	ctx, span := s.tracer.Start(ctx, "booking.cancel", trace.WithAttributes(
		attribute.String("member.id", memberID.String()),
		attribute.String("initiator", initiator),
	))
	defer span.End()

	now := s.now()
	b, err := s.repo.CancelActiveForMember(ctx, memberID, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, fmt.Errorf("cancelling booking: %w", err)
	}
	if b == nil {
		return nil, nil
	}

	metrics.RecordBookingCancellation(initiator)
	logger.Info("booking cancelled", "booking_id", b.ID.String(), "member_id", memberID.String(), "initiator", initiator)
	events.Emit(ctx, s.publisher, events.New(events.TypeBookingCancelled, now, b))

	return b, nil
}

func (s *service) GetBookingForSlot(ctx context.Context, staffName, slot string) (*Booking, error) {
	ref, err := s.staff.LookupStaff(ctx, staffName)
	if err != nil {
		return nil, fmt.Errorf("resolving staff: %w", err)
	}
	if ref == nil {
		return nil, nil
	}
	return s.repo.FindActiveForSlot(ctx, ref.ID, slot)
}

func (s *service) GetMemberBooking(ctx context.Context, memberID uuid.UUID) (*Booking, error) {
	return s.repo.FindActiveForMember(ctx, memberID)
}

func (s *service) DeleteBookingsForStaff(ctx context.Context, staffID uuid.UUID, staffName string) (int64, error) {
	n, err := s.repo.DeleteForStaff(ctx, staffID, staffName)
	if err != nil {
		return 0, fmt.Errorf("deleting staff bookings: %w", err)
	}
	metrics.RecordBookingsDeleted("staff_deleted", n)
	logger.Info("staff bookings deleted", "staff_id", staffID.String(), "count", n)
	return n, nil
}

func (s *service) DeleteBookingsForMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	n, err := s.repo.DeleteForMember(ctx, memberID)
	if err != nil {
		return 0, fmt.Errorf("deleting member bookings: %w", err)
	}
	metrics.RecordBookingsDeleted("member_deleted", n)
	return n, nil
}

func (s *service) RenameStaff(ctx context.Context, staffID uuid.UUID, newName string) (int64, error) {
	n, err := s.repo.RenameStaff(ctx, staffID, newName, s.now())
	if err != nil {
		return 0, fmt.Errorf("renaming staff on bookings: %w", err)
	}
	return n, nil
}

func (s *service) ListBookings(ctx context.Context) ([]Booking, error) {
	return s.repo.List(ctx)
}

func (s *service) ListMemberBookings(ctx context.Context, memberID uuid.UUID) ([]Booking, error) {
	return s.repo.ListForMember(ctx, memberID)
}
