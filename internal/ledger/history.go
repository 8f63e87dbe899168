package ledger

import (
	"time"

	"github.com/google/uuid"
)

// History is an immutable, insertion-ordered subscription log. Every
// operation that changes it returns a new History.
type History struct {
	memberID uuid.UUID
	events   []Event
}

func NewHistory(memberID uuid.UUID, events []Event) History {
	cp := make([]Event, len(events))
	for i, e := range events {
		cp[i] = copyEvent(e)
	}
	return History{memberID: memberID, events: cp}
}

func (h History) MemberID() uuid.UUID { return h.memberID }

func (h History) Len() int { return len(h.events) }

func (h History) Events() []Event {
	out := make([]Event, len(h.events))
	for i, e := range h.events {
		out[i] = copyEvent(e)
	}
	return out
}

func (h History) At(i int) Event { return copyEvent(h.events[i]) }

// Active returns the index of the active entry.
func (h History) Active() (int, bool) {
	for i, e := range h.events {
		if e.Status == StatusActive {
			return i, true
		}
	}
	return -1, false
}

func (h History) Current() Current { return DeriveCurrent(h.events) }

func (h History) Append(plan Plan, start, end time.Time) (History, error) {
	if _, ok := h.Active(); ok {
		return h, ErrActiveExists
	}

	endCopy := end
	next := NewHistory(h.memberID, h.events)
	next.events = append(next.events, Event{
		ID:        uuid.New(),
		MemberID:  h.memberID,
		Seq:       len(h.events) + 1,
		Plan:      plan,
		StartDate: start,
		EndDate:   &endCopy,
		Status:    StatusActive,
	})
	return next, nil
}

// Close moves the active entry at idx forward to status, stamping its end date.
func (h History) Close(idx int, status Status, at time.Time) (History, error) {
	if idx < 0 || idx >= len(h.events) {
		return h, ErrIndexOutOfRange
	}
	if status != StatusCancelled && status != StatusUpgraded {
		return h, ErrInvalidTransition
	}
	if h.events[idx].Status != StatusActive {
		return h, ErrEntryNotActive
	}

	atCopy := at
	next := NewHistory(h.memberID, h.events)
	next.events[idx].Status = status
	next.events[idx].EndDate = &atCopy
	return next, nil
}

// Diff returns the entries of h that were closed relative to base and the
// entries appended after it. h must have been derived from base.
func (h History) Diff(base History) (closed, appended []Event) {
	for i, e := range h.events {
		if i >= len(base.events) {
			appended = append(appended, copyEvent(e))
			continue
		}
		if e.Status != base.events[i].Status {
			closed = append(closed, copyEvent(e))
		}
	}
	return closed, appended
}

// DeriveCurrent picks the active entry, else the last entry, else an
// inactive placeholder.
func DeriveCurrent(events []Event) Current {
	for _, e := range events {
		if e.Status == StatusActive {
			return project(e)
		}
	}
	if len(events) > 0 {
		return project(events[len(events)-1])
	}
	return Current{Plan: PlanNone, Status: StatusInactive}
}

func project(e Event) Current {
	start := e.StartDate
	return Current{
		Plan:      e.Plan,
		Status:    e.Status,
		StartDate: &start,
		EndDate:   copyTime(e.EndDate),
	}
}

func copyEvent(e Event) Event {
	e.EndDate = copyTime(e.EndDate)
	return e
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// AddMonth returns t one calendar month later. When the next month is
// shorter, the day is clamped to its last day (Jan 31 -> Feb 28/29).
func AddMonth(t time.Time) time.Time {
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()

	lastDay := time.Date(y, m+2, 0, 0, 0, 0, 0, t.Location()).Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(y, m+1, d, hh, mm, ss, t.Nanosecond(), t.Location())
}
