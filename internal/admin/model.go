package admin

import (
	"time"

	"fitclub/internal/booking"
	"fitclub/internal/ledger"

	"github.com/google/uuid"
)

const ActionCancelSubscription = "cancel_subscription"

// Booking cleanup outcomes.
const (
	BookingCancelled = "cancelled"
	BookingNone      = "none"
	BookingFailed    = "failed"
)

// Action is one row of the saga log. The subscription step and the booking
// step do not share a transaction, so the log records how each one ended.
type Action struct {
	ID                  uuid.UUID     `db:"id" json:"id"`
	Action              string        `db:"action" json:"action"`
	ActorID             uuid.UUID     `db:"actor_id" json:"actor_id"`
	MemberID            uuid.UUID     `db:"member_id" json:"member_id"`
	SubscriptionOutcome string        `db:"subscription_outcome" json:"subscription_outcome"`
	BookingOutcome      string        `db:"booking_outcome" json:"booking_outcome"`
	BookingID           uuid.NullUUID `db:"booking_id" json:"booking_id"`
	Error               *string       `db:"error" json:"error,omitempty"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
}

type CancelResult struct {
	Subscription   ledger.Current   `json:"subscription"`
	BookingOutcome string           `json:"booking_outcome" example:"cancelled"`
	Booking        *booking.Booking `json:"booking,omitempty"`
}
