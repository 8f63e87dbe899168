package report

import (
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"fitclub/internal/ledger"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BuildMonthly turns ledger histories and bookings into report rows for w.
//
// Every entry that starts inside w is billed at its plan price, as Upgraded
// when an earlier entry was closed as upgraded at the same instant and as
// Subscribed otherwise. An entry cancelled inside w adds a Cancelled row with
// no fee. Bookings created inside w are billed at SessionFee. Bookings whose
// member is not in members are skipped. Rows are sorted by date.
func BuildMonthly(w Window, members []MemberActivity, sessions []SessionActivity, prices map[string]decimal.Decimal) []Row {
	rows := []Row{}
	byID := make(map[uuid.UUID]MemberActivity, len(members))

	for _, m := range members {
		byID[m.ID] = m
		for i, e := range m.Events {
			if w.Contains(e.StartDate) {
				rows = append(rows, startRow(w, m, i, prices))
			}
			if e.Status == ledger.StatusCancelled && e.EndDate != nil && w.Contains(*e.EndDate) {
				rows = append(rows, newRow(w, m, string(e.Plan), EventCancelled, *e.EndDate, decimal.Zero))
			}
		}
	}

	for _, s := range sessions {
		m, ok := byID[s.MemberID]
		if !ok || !w.Contains(s.CreatedAt) {
			continue
		}
		details := sessionLabel(s.StaffRole) + " | " + s.StaffName
		rows = append(rows, newRow(w, m, details, EventBookedSession, s.CreatedAt, SessionFee))
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })
	return rows
}

func startRow(w Window, m MemberActivity, i int, prices map[string]decimal.Decimal) Row {
	e := m.Events[i]
	fee := prices[string(e.Plan)]
	for _, prev := range m.Events[:i] {
		if prev.Status == ledger.StatusUpgraded && prev.EndDate != nil && prev.EndDate.Equal(e.StartDate) {
			details := string(prev.Plan) + " -> " + string(e.Plan)
			return newRow(w, m, details, EventUpgraded, e.StartDate, fee)
		}
	}
	return newRow(w, m, string(e.Plan), EventSubscribed, e.StartDate, fee)
}

func newRow(w Window, m MemberActivity, details, eventType string, at time.Time, fee decimal.Decimal) Row {
	at = at.In(w.From.Location())
	return Row{
		FullName:  m.FullName,
		Email:     m.Email,
		Details:   details,
		EventType: eventType,
		Date:      at.Format(dateLayout),
		Fee:       fee.Round(2),
		at:        at,
	}
}

// sessionLabel capitalizes the staff role, "Session" when it is unknown.
func sessionLabel(role string) string {
	role = strings.TrimSpace(role)
	if role == "" {
		return "Session"
	}
	r, size := utf8.DecodeRuneInString(role)
	return string(unicode.ToUpper(r)) + role[size:]
}
