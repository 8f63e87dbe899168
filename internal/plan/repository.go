package plan

import (
	"context"
	"database/sql"
	"errors"

	"fitclub/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const planColumns = `id, name, price, features, is_popular, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) List(ctx context.Context) ([]Plan, error) {
	out := []Plan{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+planColumns+` FROM plans ORDER BY price`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Plan, error) {
	var p Plan
	err := r.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) Update(ctx context.Context, p *Plan) error {
	return db.WithTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if p.IsPopular {
			if _, err := tx.ExecContext(ctx, `UPDATE plans SET is_popular = FALSE, updated_at = $1 WHERE id <> $2 AND is_popular`, p.UpdatedAt, p.ID); err != nil {
				return err
			}
		}

		result, err := tx.ExecContext(ctx,
			`UPDATE plans SET price = $1, features = $2, is_popular = $3, updated_at = $4 WHERE id = $5`,
			p.Price, p.Features, p.IsPopular, p.UpdatedAt, p.ID)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrPlanNotFound
		}
		return nil
	})
}
