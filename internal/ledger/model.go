package ledger

import (
	"errors"
	"time"

	"fitclub/internal/apperr"

	"github.com/google/uuid"
)

type Plan string
type Status string

const (
	PlanNone    Plan = "none"
	PlanBasic   Plan = "Basic"
	PlanPremium Plan = "Premium"
	PlanVIP     Plan = "VIP"

	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
	StatusUpgraded  Status = "upgraded"
	StatusInactive  Status = "inactive"
)

var (
	ErrInvalidPlan          = apperr.New(apperr.CodeInvalidPlan, "Invalid plan selected.")
	ErrMemberNotFound       = apperr.New(apperr.CodeNotFound, "Member not found.")
	ErrNoActiveSubscription = apperr.New(apperr.CodeNoActiveSubscription, "No active subscription to cancel.")

	ErrActiveExists      = errors.New("history already has an active entry")
	ErrEntryNotActive    = errors.New("history entry is not active")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrIndexOutOfRange   = errors.New("history index out of range")
)

// SubscribablePlans lists the plans a member can pick.
var SubscribablePlans = []Plan{PlanBasic, PlanPremium, PlanVIP}

func ParsePlan(s string) (Plan, error) {
	for _, p := range SubscribablePlans {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrInvalidPlan
}

// Event is one entry of a member's subscription history. Only Status and
// EndDate change after it is appended.
type Event struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	MemberID  uuid.UUID  `db:"member_id" json:"member_id"`
	Seq       int        `db:"seq" json:"seq"`
	Plan      Plan       `db:"plan" json:"plan"`
	StartDate time.Time  `db:"start_date" json:"start_date"`
	EndDate   *time.Time `db:"end_date" json:"end_date"`
	Status    Status     `db:"status" json:"status"`
}

// Current is the derived view of a member's subscription. It is a copy and
// never aliases stored history.
type Current struct {
	Plan      Plan       `json:"plan" example:"Premium"`
	Status    Status     `json:"status" example:"active"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
}

type SubscribeRequest struct {
	Plan string `json:"plan" validate:"required"`
}
