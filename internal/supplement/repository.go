package supplement

import (
	"context"
	"database/sql"
	"errors"

	"fitclub/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const (
	supplementColumns = `id, name, category, price, rating, reviews, description, servings, flavor, in_stock, created_at, updated_at`
	orderColumns      = `id, member_id, items, total_amount, status, created_at`
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) List(ctx context.Context) ([]Supplement, error) {
	out := []Supplement{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+supplementColumns+` FROM supplements ORDER BY category, name`); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Supplement, error) {
	var s Supplement
	err := r.db.GetContext(ctx, &s, `SELECT `+supplementColumns+` FROM supplements WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetMany(ctx context.Context, ids []uuid.UUID) ([]Supplement, error) {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	out := []Supplement{}
	query := `SELECT ` + supplementColumns + ` FROM supplements WHERE id = ANY($1::uuid[])`
	if err := r.db.SelectContext(ctx, &out, query, pq.Array(keys)); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Create(ctx context.Context, s *Supplement) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO supplements (`+supplementColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.Name, s.Category, s.Price, s.Rating, s.Reviews, s.Description, s.Servings, s.Flavor, s.InStock, s.CreatedAt, s.UpdatedAt)
	return err
}

func (r *repository) Update(ctx context.Context, s *Supplement) error {
	return r.exec(ctx,
		`UPDATE supplements SET name = $1, category = $2, price = $3, rating = $4, reviews = $5, description = $6,
			servings = $7, flavor = $8, in_stock = $9, updated_at = $10 WHERE id = $11`,
		s.Name, s.Category, s.Price, s.Rating, s.Reviews, s.Description, s.Servings, s.Flavor, s.InStock, s.UpdatedAt, s.ID)
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM supplements WHERE id = $1`, id)
}

func (r *repository) exec(ctx context.Context, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSupplementNotFound
	}
	return nil
}

func (r *repository) CreateOrder(ctx context.Context, o *Order) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO supplement_orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.MemberID, o.Items, o.TotalAmount, o.Status, o.CreatedAt)
	if _, ok := db.ForeignKeyViolation(err); ok {
		return ErrMemberNotFound
	}
	return err
}

func (r *repository) ListOrders(ctx context.Context, memberID uuid.UUID) ([]Order, error) {
	out := []Order{}
	query := `SELECT ` + orderColumns + ` FROM supplement_orders WHERE member_id = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &out, query, memberID); err != nil {
		return nil, err
	}
	return out, nil
}
