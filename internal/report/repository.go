package report

import (
	"context"

	"fitclub/internal/ledger"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type Repository interface {
	// MemberActivity returns every member with the ledger entries that
	// start or end inside w.
	MemberActivity(ctx context.Context, w Window) ([]MemberActivity, error)
	Sessions(ctx context.Context, w Window) ([]SessionActivity, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{db: conn}
}

type memberRow struct {
	ID       uuid.UUID `db:"id"`
	FullName string    `db:"full_name"`
	Email    string    `db:"email"`
}

func (r *repository) MemberActivity(ctx context.Context, w Window) ([]MemberActivity, error) {
	var members []memberRow
	if err := r.db.SelectContext(ctx, &members,
		`SELECT id, full_name, email FROM members WHERE role = 'member' ORDER BY created_at`); err != nil {
		return nil, err
	}

	query := `
		SELECT e.id, e.member_id, e.seq, e.plan, e.start_date, e.end_date, e.status
		FROM subscription_events e
		JOIN members m ON m.id = e.member_id
		WHERE m.role = 'member'
			AND ((e.start_date >= $1 AND e.start_date < $2) OR (e.end_date >= $1 AND e.end_date < $2))
		ORDER BY e.member_id, e.seq
	`
	var events []ledger.Event
	if err := r.db.SelectContext(ctx, &events, query, w.From, w.To); err != nil {
		return nil, err
	}

	byMember := make(map[uuid.UUID][]ledger.Event)
	for _, e := range events {
		byMember[e.MemberID] = append(byMember[e.MemberID], e)
	}

	out := make([]MemberActivity, 0, len(members))
	for _, m := range members {
		out = append(out, MemberActivity{
			ID:       m.ID,
			FullName: m.FullName,
			Email:    m.Email,
			Events:   byMember[m.ID],
		})
	}
	return out, nil
}

// Sessions resolves the staff role through staff_id. Rows without a staff
// link fall back to a name match.
func (r *repository) Sessions(ctx context.Context, w Window) ([]SessionActivity, error) {
	query := `
		SELECT b.member_id, b.staff_name, COALESCE(s.role, sn.role, '') AS staff_role, b.created_at
		FROM bookings b
		LEFT JOIN staff s ON s.id = b.staff_id
		LEFT JOIN LATERAL (
			SELECT role FROM staff WHERE b.staff_id IS NULL AND full_name = b.staff_name ORDER BY created_at LIMIT 1
		) sn ON TRUE
		WHERE b.created_at >= $1 AND b.created_at < $2
		ORDER BY b.created_at
	`
	out := []SessionActivity{}
	if err := r.db.SelectContext(ctx, &out, query, w.From, w.To); err != nil {
		return nil, err
	}
	return out, nil
}
