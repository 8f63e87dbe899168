package booking

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitclub/internal/db"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const (
	activeSlotIndex   = "bookings_active_slot_uidx"
	activeMemberIndex = "bookings_active_member_uidx"
)

const bookingColumns = `id, member_id, member_name, staff_id, staff_name, slot, status, created_at, updated_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(conn *sqlx.DB) Repository {
	return &repository{db: conn}
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (id, member_id, member_name, staff_id, staff_name, slot, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.MemberID, b.MemberName, b.StaffID, b.StaffName, b.Slot, b.Status, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}

	return nil
}

func mapUniqueViolation(err error) error {
	name, ok := db.UniqueViolation(err)
	if !ok {
		return err
	}
	switch name {
	case activeSlotIndex:
		return ErrSlotConflict
	case activeMemberIndex:
		return ErrMemberAlreadyBooked
	}
	return err
}

func (r *repository) getOne(ctx context.Context, query string, args ...interface{}) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) FindActiveForSlot(ctx context.Context, staffID uuid.UUID, slot string) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE staff_id = $1 AND slot = $2 AND status = 'active'
	`
	return r.getOne(ctx, query, staffID, slot)
}

func (r *repository) FindActiveForMember(ctx context.Context, memberID uuid.UUID) (*Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE member_id = $1 AND status = 'active'
	`
	return r.getOne(ctx, query, memberID)
}

func (r *repository) CancelActiveForMember(ctx context.Context, memberID uuid.UUID, at time.Time) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', updated_at = $2
		WHERE member_id = $1 AND status = 'active'
		RETURNING ` + bookingColumns
	return r.getOne(ctx, query, memberID, at)
}

// DeleteForStaff hard-deletes every booking of the staff member in any
// status. Rows without a staff_id are matched by name.
func (r *repository) DeleteForStaff(ctx context.Context, staffID uuid.UUID, staffName string) (int64, error) {
	query := `
		DELETE FROM bookings
		WHERE staff_id = $1 OR (staff_id IS NULL AND staff_name = $2)
	`
	return r.exec(ctx, query, staffID, staffName)
}

func (r *repository) DeleteForMember(ctx context.Context, memberID uuid.UUID) (int64, error) {
	return r.exec(ctx, `DELETE FROM bookings WHERE member_id = $1`, memberID)
}

func (r *repository) RenameStaff(ctx context.Context, staffID uuid.UUID, name string, at time.Time) (int64, error) {
	query := `
		UPDATE bookings
		SET staff_name = $2, updated_at = $3
		WHERE staff_id = $1 AND staff_name <> $2
	`
	return r.exec(ctx, query, staffID, name, at)
}

func (r *repository) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *repository) List(ctx context.Context) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		ORDER BY created_at DESC
	`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) ListForMember(ctx context.Context, memberID uuid.UUID) ([]Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE member_id = $1
		ORDER BY created_at DESC
	`

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, memberID); err != nil {
		return nil, err
	}
	return bookings, nil
}
