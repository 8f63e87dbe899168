package staff

import (
	"time"

	"fitclub/internal/apperr"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Role string
type Status string

const (
	RoleTrainer      Role = "trainer"
	RoleNutritionist Role = "nutritionist"

	StatusActive   Status = "active"
	StatusOnLeave  Status = "on-leave"
	StatusInactive Status = "inactive"
)

var (
	ErrStaffNotFound = apperr.New(apperr.CodeNotFound, "Staff member not found.")
	ErrEmailTaken    = apperr.New(apperr.CodeConflict, "A staff member with this email already exists.")
)

// DefaultDesignation is used when a staff member is saved without one.
func DefaultDesignation(r Role) string {
	switch r {
	case RoleTrainer:
		return "Personal Trainer"
	case RoleNutritionist:
		return "Clinical Nutritionist"
	}
	return ""
}

type Staff struct {
	ID                uuid.UUID      `db:"id" json:"id"`
	FullName          string         `db:"full_name" json:"full_name"`
	Email             string         `db:"email" json:"email"`
	PhoneNumber       string         `db:"phone_number" json:"phone_number"`
	Role              Role           `db:"role" json:"role"`
	Designation       string         `db:"designation" json:"designation"`
	Specialty         string         `db:"specialty" json:"specialty"`
	Bio               string         `db:"bio" json:"bio"`
	AvailabilitySlots pq.StringArray `db:"availability_slots" json:"availability_slots"`
	Status            Status         `db:"status" json:"status"`
	CreatedAt         time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at" json:"updated_at"`
}

// PublicStaff is the subset shown to members picking a session.
type PublicStaff struct {
	ID                uuid.UUID `json:"id"`
	FullName          string    `json:"full_name"`
	Role              Role      `json:"role"`
	Designation       string    `json:"designation"`
	Specialty         string    `json:"specialty"`
	AvailabilitySlots []string  `json:"availability_slots"`
}

func (s Staff) Public() PublicStaff {
	return PublicStaff{
		ID:                s.ID,
		FullName:          s.FullName,
		Role:              s.Role,
		Designation:       s.Designation,
		Specialty:         s.Specialty,
		AvailabilitySlots: append([]string{}, s.AvailabilitySlots...),
	}
}

type CreateStaffRequest struct {
	FullName          string   `json:"full_name" validate:"required,min=2"`
	Email             string   `json:"email" validate:"required,email"`
	PhoneNumber       string   `json:"phone_number"`
	Role              Role     `json:"role" validate:"required,oneof=trainer nutritionist"`
	Designation       string   `json:"designation"`
	Specialty         string   `json:"specialty" validate:"required"`
	Bio               string   `json:"bio"`
	AvailabilitySlots []string `json:"availability_slots" validate:"dive,required"`
	Status            Status   `json:"status" validate:"omitempty,oneof=active on-leave inactive"`
}

type UpdateStaffRequest struct {
	FullName          *string   `json:"full_name" validate:"omitempty,min=2"`
	Email             *string   `json:"email" validate:"omitempty,email"`
	PhoneNumber       *string   `json:"phone_number"`
	Role              *Role     `json:"role" validate:"omitempty,oneof=trainer nutritionist"`
	Designation       *string   `json:"designation"`
	Specialty         *string   `json:"specialty"`
	Bio               *string   `json:"bio"`
	AvailabilitySlots *[]string `json:"availability_slots"`
	Status            *Status   `json:"status" validate:"omitempty,oneof=active on-leave inactive"`
}

type DeleteStaffResponse struct {
	Message         string `json:"message" example:"Staff member deleted successfully."`
	DeletedBookings int64  `json:"deleted_bookings" example:"2"`
}
