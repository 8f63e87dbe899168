package member

import (
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/ledger"

	"github.com/google/uuid"
)

var (
	ErrEmailExists        = apperr.New(apperr.CodeConflict, "User already exists with this email.")
	ErrInvalidCredentials = apperr.New(apperr.CodeUnauthorized, "Invalid email or password.")
	ErrMemberNotFound     = apperr.New(apperr.CodeNotFound, "User not found.")
	ErrIncorrectPassword  = apperr.New(apperr.CodeValidation, "Incorrect current password.")
	ErrForbidden          = apperr.New(apperr.CodeForbidden, "You are not authorized.")
	ErrNoAdminContact     = apperr.New(apperr.CodeNotFound, "Admin contact information not found.")
)

const contactUnavailable = "Not available"

type Member struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	FullName     string    `db:"full_name" json:"full_name"`
	PhoneNumber  string    `db:"phone_number" json:"phone_number"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Profile is a member with their derived current subscription.
type Profile struct {
	Member
	Subscription ledger.Current `json:"subscription"`
}

type RegisterRequest struct {
	FullName    string `json:"full_name" validate:"required,min=2"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	PhoneNumber string `json:"phone_number"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	// Role, when set, must match the account's role.
	Role string `json:"role" validate:"omitempty,oneof=member admin"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=2"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
}

type AuthResponse struct {
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token,omitempty"`
	Member       Profile `json:"member"`
}

// AdminContact is what members see when they need to reach the gym. Blank
// fields read "Not available".
type AdminContact struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}
