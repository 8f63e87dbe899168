package booking

import (
	"context"
	"time"

	"fitclub/internal/apperr"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive Status = "active"
	// StatusCompleted is reserved. No operation sets it yet.
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var (
	ErrStaffNotFound       = apperr.New(apperr.CodeNotFound, "Staff member not found.")
	ErrSlotNotOffered      = apperr.New(apperr.CodeValidation, "This slot is not offered by the selected staff member.")
	ErrSlotConflict        = apperr.New(apperr.CodeSlotConflict, "This slot is already booked.")
	ErrMemberAlreadyBooked = apperr.New(apperr.CodeMemberAlreadyBooked, "You can only have one active session at a time.")
	ErrNoActiveBooking     = apperr.New(apperr.CodeNotFound, "No active booking for this member.")
)

// Booking reserves one slot with one staff member. MemberName and StaffName
// are display copies; StaffID is the join key.
type Booking struct {
	ID         uuid.UUID     `db:"id" json:"id"`
	MemberID   uuid.UUID     `db:"member_id" json:"member_id"`
	MemberName string        `db:"member_name" json:"member_name"`
	StaffID    uuid.NullUUID `db:"staff_id" json:"staff_id"`
	StaffName  string        `db:"staff_name" json:"staff_name"`
	Slot       string        `db:"slot" json:"slot"`
	Status     Status        `db:"status" json:"status"`
	CreatedAt  time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time     `db:"updated_at" json:"updated_at"`
}

// StaffRef is what the allocator needs to know about a staff member.
type StaffRef struct {
	ID    uuid.UUID
	Name  string
	Role  string
	Slots []string
}

func (s StaffRef) Offers(slot string) bool {
	if len(s.Slots) == 0 {
		return true
	}
	for _, v := range s.Slots {
		if v == slot {
			return true
		}
	}
	return false
}

// StaffDirectory resolves staff by display name. A nil ref with a nil error
// means no such staff member.
type StaffDirectory interface {
	LookupStaff(ctx context.Context, name string) (*StaffRef, error)
}

type CreateBookingRequest struct {
	MemberName string `json:"member_name" validate:"required"`
	StaffName  string `json:"staff_name" validate:"required"`
	Slot       string `json:"slot" validate:"required"`
}

type DeleteResult struct {
	Message         string `json:"message"`
	DeletedBookings int64  `json:"deleted_bookings"`
}
