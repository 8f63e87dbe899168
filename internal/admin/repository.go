package admin

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type ActionLog interface {
	Record(ctx context.Context, a *Action) error
	ListForMember(ctx context.Context, memberID uuid.UUID) ([]Action, error)
}

type actionLog struct {
	db *sqlx.DB
}

func NewActionLog(conn *sqlx.DB) ActionLog {
	return &actionLog{db: conn}
}

func (r *actionLog) Record(ctx context.Context, a *Action) error {
	query := `
		INSERT INTO admin_actions (id, action, actor_id, member_id, subscription_outcome, booking_outcome, booking_id, error, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Action, a.ActorID, a.MemberID, a.SubscriptionOutcome, a.BookingOutcome, a.BookingID, a.Error, a.CreatedAt)
	return err
}

func (r *actionLog) ListForMember(ctx context.Context, memberID uuid.UUID) ([]Action, error) {
	query := `
		SELECT id, action, actor_id, member_id, subscription_outcome, booking_outcome, booking_id, error, created_at
		FROM admin_actions
		WHERE member_id = $1
		ORDER BY created_at DESC
	`
	out := []Action{}
	if err := r.db.SelectContext(ctx, &out, query, memberID); err != nil {
		return nil, err
	}
	return out, nil
}

type MemoryActionLog struct {
	mu      sync.Mutex
	actions []Action
}

func NewMemoryActionLog() *MemoryActionLog {
	return &MemoryActionLog{}
}

func (m *MemoryActionLog) Record(_ context.Context, a *Action) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, *a)
	return nil
}

func (m *MemoryActionLog) ListForMember(_ context.Context, memberID uuid.UUID) ([]Action, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []Action{}
	for _, a := range m.actions {
		if a.MemberID == memberID {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
