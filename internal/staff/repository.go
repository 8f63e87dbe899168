package staff

import (
	"context"
	"database/sql"
	"errors"

	"fitclub/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const staffColumns = `id, full_name, email, phone_number, role, designation, specialty, bio, availability_slots, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, s *Staff) error {
	query := `
		INSERT INTO staff (` + staffColumns + `)
		VALUES (:id, :full_name, :email, :phone_number, :role, :designation, :specialty, :bio, :availability_slots, :status, :created_at, :updated_at)
	`

	if _, err := r.db.NamedExecContext(ctx, query, s); err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *repository) getOne(ctx context.Context, query string, args ...interface{}) (*Staff, error) {
	var s Staff
	err := r.db.GetContext(ctx, &s, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Staff, error) {
	return r.getOne(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id)
}

// FindByName returns the oldest staff member with that exact name.
func (r *repository) FindByName(ctx context.Context, fullName string) (*Staff, error) {
	query := `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE full_name = $1
		ORDER BY created_at
		LIMIT 1
	`
	return r.getOne(ctx, query, fullName)
}

func (r *repository) List(ctx context.Context) ([]Staff, error) {
	out := []Staff{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+staffColumns+` FROM staff ORDER BY created_at DESC`)
	return out, err
}

func (r *repository) ListByStatus(ctx context.Context, status Status) ([]Staff, error) {
	out := []Staff{}
	err := r.db.SelectContext(ctx, &out, `SELECT `+staffColumns+` FROM staff WHERE status = $1 ORDER BY full_name`, status)
	return out, err
}

func (r *repository) Update(ctx context.Context, s *Staff) error {
	query := `
		UPDATE staff
		SET full_name = :full_name, email = :email, phone_number = :phone_number, role = :role,
			designation = :designation, specialty = :specialty, bio = :bio,
			availability_slots = :availability_slots, status = :status, updated_at = :updated_at
		WHERE id = :id
	`

	result, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		if _, ok := db.UniqueViolation(err); ok {
			return ErrEmailTaken
		}
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrStaffNotFound
	}
	return nil
}

func (r *repository) EmailTaken(ctx context.Context, email string, exclude uuid.UUID) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM staff WHERE email = $1 AND id <> $2)`, email, exclude)
}
