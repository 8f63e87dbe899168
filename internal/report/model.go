package report

import (
	"time"

	"fitclub/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventSubscribed    = "Subscribed"
	EventUpgraded      = "Upgraded"
	EventCancelled     = "Cancelled"
	EventBookedSession = "Booked Session"

	dateLayout = "2006-01-02"
)

// SessionFee is the flat price of one booked session.
var SessionFee = decimal.RequireFromString("50.00")

type Row struct {
	FullName  string          `json:"full_name"`
	Email     string          `json:"email"`
	Details   string          `json:"details"`
	EventType string          `json:"event_type"`
	Date      string          `json:"date" example:"2026-05-04"`
	Fee       decimal.Decimal `json:"fee" swaggertype:"string" example:"59.99"`

	at time.Time
}

type MemberActivity struct {
	ID       uuid.UUID
	FullName string
	Email    string
	// Events are ordered by seq.
	Events []ledger.Event
}

type SessionActivity struct {
	MemberID  uuid.UUID `db:"member_id"`
	StaffName string    `db:"staff_name"`
	StaffRole string    `db:"staff_role"`
	CreatedAt time.Time `db:"created_at"`
}

// Window is a half-open time range [From, To).
type Window struct {
	From time.Time
	To   time.Time
}

// MonthOf returns the calendar month containing t, in t's location.
func MonthOf(t time.Time) Window {
	from := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Window{From: from, To: from.AddDate(0, 1, 0)}
}

func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.From) && t.Before(w.To)
}
