package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/booking"
	"fitclub/internal/events"
	"fitclub/internal/logger"

	"github.com/google/uuid"
)

// BookingCascade is the part of the booking allocator that staff changes
// must propagate to.
type BookingCascade interface {
	DeleteBookingsForStaff(ctx context.Context, staffID uuid.UUID, staffName string) (int64, error)
	RenameStaff(ctx context.Context, staffID uuid.UUID, newName string) (int64, error)
}

type Service interface {
	ListStaff(ctx context.Context) ([]Staff, error)
	ListActiveStaff(ctx context.Context) ([]PublicStaff, error)
	GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error)
	CreateStaff(ctx context.Context, req CreateStaffRequest) (*Staff, error)
	UpdateStaff(ctx context.Context, id uuid.UUID, req UpdateStaffRequest) (*Staff, error)
	// DeleteStaff removes the staff member and every booking that references
	// them. It returns how many bookings were removed.
	DeleteStaff(ctx context.Context, id uuid.UUID) (int64, error)
	LookupStaff(ctx context.Context, name string) (*booking.StaffRef, error)
}

type service struct {
	repo      Repository
	bookings  BookingCascade
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, bookings BookingCascade, publisher events.Publisher, now func() time.Time) Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if now == nil {
		now = time.Now
	}
	return &service{repo: repo, bookings: bookings, publisher: publisher, now: now}
}

func (s *service) ListStaff(ctx context.Context) ([]Staff, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("listing staff", err)
	}
	return list, nil
}

func (s *service) ListActiveStaff(ctx context.Context) ([]PublicStaff, error) {
	list, err := s.repo.ListByStatus(ctx, StatusActive)
	if err != nil {
		return nil, apperr.Internal("listing active staff", err)
	}
	out := make([]PublicStaff, 0, len(list))
	for _, st := range list {
		out = append(out, st.Public())
	}
	return out, nil
}

func (s *service) GetStaff(ctx context.Context, id uuid.UUID) (*Staff, error) {
	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.Internal("loading staff", err)
	}
	if st == nil {
		return nil, ErrStaffNotFound
	}
	return st, nil
}

func (s *service) CreateStaff(ctx context.Context, req CreateStaffRequest) (*Staff, error) {
	email := normalizeEmail(req.Email)
	taken, err := s.repo.EmailTaken(ctx, email, uuid.Nil)
	if err != nil {
		return nil, apperr.Internal("checking staff email", err)
	}
	if taken {
		return nil, ErrEmailTaken
	}

	now := s.now().UTC()
	st := &Staff{
		ID:                uuid.New(),
		FullName:          strings.TrimSpace(req.FullName),
		Email:             email,
		PhoneNumber:       strings.TrimSpace(req.PhoneNumber),
		Role:              req.Role,
		Designation:       strings.TrimSpace(req.Designation),
		Specialty:         strings.TrimSpace(req.Specialty),
		Bio:               req.Bio,
		AvailabilitySlots: cleanSlots(req.AvailabilitySlots),
		Status:            req.Status,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if st.Designation == "" {
		st.Designation = DefaultDesignation(st.Role)
	}
	if st.Status == "" {
		st.Status = StatusActive
	}

	if err := s.repo.Create(ctx, st); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return nil, err
		}
		return nil, apperr.Internal("creating staff", err)
	}

	logger.Info("staff created", "staff_id", st.ID.String(), "role", string(st.Role))
	return st, nil
}

func (s *service) UpdateStaff(ctx context.Context, id uuid.UUID, req UpdateStaffRequest) (*Staff, error) {
	st, err := s.GetStaff(ctx, id)
	if err != nil {
		return nil, err
	}
	oldName := st.FullName

	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email != st.Email {
			taken, err := s.repo.EmailTaken(ctx, email, id)
			if err != nil {
				return nil, apperr.Internal("checking staff email", err)
			}
			if taken {
				return nil, apperr.New(apperr.CodeConflict, "Another staff member already exists with this email.")
			}
		}
		st.Email = email
	}
	if req.FullName != nil {
		st.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.PhoneNumber != nil {
		st.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Role != nil && *req.Role != st.Role {
		// A designation that was only the old role's default follows the role.
		if st.Designation == DefaultDesignation(st.Role) {
			st.Designation = ""
		}
		st.Role = *req.Role
	}
	if req.Designation != nil {
		st.Designation = strings.TrimSpace(*req.Designation)
	}
	if st.Designation == "" {
		st.Designation = DefaultDesignation(st.Role)
	}
	if req.Specialty != nil {
		st.Specialty = strings.TrimSpace(*req.Specialty)
	}
	if req.Bio != nil {
		st.Bio = *req.Bio
	}
	if req.AvailabilitySlots != nil {
		st.AvailabilitySlots = cleanSlots(*req.AvailabilitySlots)
	}
	if req.Status != nil {
		st.Status = *req.Status
	}
	st.UpdatedAt = s.now().UTC()

	if err := s.repo.Update(ctx, st); err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrStaffNotFound) {
			return nil, err
		}
		return nil, apperr.Internal("updating staff", err)
	}

	if st.FullName != oldName {
		n, err := s.bookings.RenameStaff(ctx, st.ID, st.FullName)
		if err != nil {
			return nil, fmt.Errorf("renaming staff on bookings: %w", err)
		}
		logger.Info("staff renamed", "staff_id", st.ID.String(), "bookings_updated", n)
	}

	return st, nil
}

func (s *service) DeleteStaff(ctx context.Context, id uuid.UUID) (int64, error) {
	st, err := s.GetStaff(ctx, id)
	if err != nil {
		return 0, err
	}

	deleted, err := s.bookings.DeleteBookingsForStaff(ctx, st.ID, st.FullName)
	if err != nil {
		return 0, fmt.Errorf("deleting staff bookings: %w", err)
	}

	if err := s.repo.Delete(ctx, st.ID); err != nil {
		if errors.Is(err, ErrStaffNotFound) {
			return deleted, err
		}
		return deleted, apperr.Internal("deleting staff", err)
	}

	logger.Info("staff deleted", "staff_id", st.ID.String(), "deleted_bookings", deleted)
	events.Emit(ctx, s.publisher, events.New(events.TypeStaffDeleted, s.now().UTC(), map[string]interface{}{
		"staff_id":         st.ID,
		"staff_name":       st.FullName,
		"deleted_bookings": deleted,
	}))

	return deleted, nil
}

// LookupStaff lets the booking allocator resolve staff by display name.
func (s *service) LookupStaff(ctx context.Context, name string) (*booking.StaffRef, error) {
	st, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, nil
	}
	return &booking.StaffRef{
		ID:    st.ID,
		Name:  st.FullName,
		Role:  string(st.Role),
		Slots: append([]string{}, st.AvailabilitySlots...),
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func cleanSlots(slots []string) []string {
	out := make([]string, 0, len(slots))
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		slot = strings.TrimSpace(slot)
		if slot == "" {
			continue
		}
		if _, dup := seen[slot]; dup {
			continue
		}
		seen[slot] = struct{}{}
		out = append(out, slot)
	}
	return out
}
