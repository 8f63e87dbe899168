package member

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitclub/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const memberColumns = `id, email, full_name, phone_number, password_hash, role, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (id, email, full_name, phone_number, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.Email, m.FullName, m.PhoneNumber, m.PasswordHash, m.Role, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *repository) findOne(ctx context.Context, where string, arg interface{}) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `SELECT `+memberColumns+` FROM members WHERE `+where, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*Member, error) {
	return r.findOne(ctx, `email = $1`, email)
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Member, error) {
	return r.findOne(ctx, `id = $1`, id)
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM members WHERE email = $1)`, email)
}

func (r *repository) ListByRole(ctx context.Context, role string) ([]Member, error) {
	out := []Member{}
	query := `SELECT ` + memberColumns + ` FROM members WHERE role = $1 ORDER BY created_at DESC`
	if err := r.db.SelectContext(ctx, &out, query, role); err != nil {
		return nil, err
	}
	return out, nil
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
		return ErrMemberNotFound
	}
	return nil
}

func (r *repository) UpdateName(ctx context.Context, id uuid.UUID, fullName string, at time.Time) error {
	return r.exec(ctx, `UPDATE members SET full_name = $1, updated_at = $2 WHERE id = $3`, fullName, at, id)
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string, at time.Time) error {
	return r.exec(ctx, `UPDATE members SET password_hash = $1, updated_at = $2 WHERE id = $3`, hash, at, id)
}

// Delete removes the member. Their subscription history goes with them via
// ON DELETE CASCADE.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.exec(ctx, `DELETE FROM members WHERE id = $1`, id)
}
