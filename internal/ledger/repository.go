package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"fitclub/internal/apperr"
	"fitclub/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const activeIndex = "subscription_events_active_uidx"

type repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{db: conn}
}

const selectEvents = `
		SELECT id, member_id, seq, plan, start_date, end_date, status
		FROM subscription_events
		WHERE member_id = $1
		ORDER BY seq
	`

func (r *repository) Load(ctx context.Context, memberID uuid.UUID) (History, error) {
	exists, err := db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, memberID)
	if err != nil {
		return History{}, fmt.Errorf("checking member: %w", err)
	}
	if !exists {
		return History{}, ErrMemberNotFound
	}

	var events []Event
	if err := r.db.SelectContext(ctx, &events, selectEvents, memberID); err != nil {
		return History{}, fmt.Errorf("loading history: %w", err)
	}

	return NewHistory(memberID, events), nil
}

func (r *repository) Mutate(ctx context.Context, memberID uuid.UUID, fn MutateFunc) (History, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return History{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var locked uuid.UUID
	err = tx.GetContext(ctx, &locked, `SELECT id FROM members WHERE id = $1 FOR UPDATE`, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return History{}, ErrMemberNotFound
	}
	if err != nil {
		return History{}, fmt.Errorf("locking member: %w", err)
	}

	var events []Event
	if err := tx.SelectContext(ctx, &events, selectEvents, memberID); err != nil {
		return History{}, fmt.Errorf("loading history: %w", err)
	}
	base := NewHistory(memberID, events)

	next, err := fn(base)
	if err != nil {
		return History{}, err
	}

	closed, appended := next.Diff(base)

	for _, e := range closed {
		res, err := tx.ExecContext(ctx, `
			UPDATE subscription_events
			SET status = $1, end_date = $2
			WHERE id = $3 AND status = 'active'
		`, e.Status, e.EndDate, e.ID)
		if err != nil {
			return History{}, fmt.Errorf("closing entry %d: %w", e.Seq, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return History{}, err
		}
		if n == 0 {
			return History{}, fmt.Errorf("closing entry %d: %w", e.Seq, ErrEntryNotActive)
		}
	}

	for _, e := range appended {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO subscription_events (id, member_id, seq, plan, start_date, end_date, status)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, e.ID, memberID, e.Seq, e.Plan, e.StartDate, e.EndDate, e.Status)
		if err != nil {
			if name, ok := db.UniqueViolation(err); ok && name == activeIndex {
				return History{}, apperr.Wrap(apperr.CodeConflict, "concurrent subscription change", err)
			}
			return History{}, fmt.Errorf("appending entry %d: %w", e.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return History{}, fmt.Errorf("commit: %w", err)
	}

	return next, nil
}
