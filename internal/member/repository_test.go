package member

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "email", "full_name", "phone_number", "password_hash", "role", "created_at", "updated_at"}

func setupMemberMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return NewRepository(sqlx.NewDb(raw, "sqlmock")), mock
}

func TestRepositoryCreate(t *testing.T) {
	m := &Member{ID: uuid.New(), Email: "mia@example.com", FullName: "Mia", PasswordHash: "h", Role: "member", CreatedAt: t0, UpdatedAt: t0}
	query := regexp.QuoteMeta(`INSERT INTO members (id, email, full_name, phone_number, password_hash, role, created_at, updated_at)`)

	t.Run("ok", func(t *testing.T) {
		repo, mock := setupMemberMock(t)
		mock.ExpectExec(query).
			WithArgs(m.ID, "mia@example.com", "Mia", "", "h", "member", t0, t0).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Create(context.Background(), m))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo, mock := setupMemberMock(t)
		mock.ExpectExec(query).WillReturnError(&pq.Error{Code: "23505", Constraint: "members_email_key"})

		assert.ErrorIs(t, repo.Create(context.Background(), m), ErrEmailExists)
	})
}

func TestRepositoryFindByEmail(t *testing.T) {
	repo, mock := setupMemberMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM members WHERE email = $1`)).
		WithArgs("mia@example.com").
		WillReturnRows(sqlmock.NewRows(columns).AddRow(id.String(), "mia@example.com", "Mia", "", "h", "member", t0, t0))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM members WHERE email = $1`)).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	m, err := repo.FindByEmail(context.Background(), "mia@example.com")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, id, m.ID)

	m, err = repo.FindByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, m)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDelete(t *testing.T) {
	repo, mock := setupMemberMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM members WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM members WHERE id = $1`)).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), id))
	assert.ErrorIs(t, repo.Delete(context.Background(), id), ErrMemberNotFound)
}

func TestRepositoryUpdateName(t *testing.T) {
	repo, mock := setupMemberMock(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE members SET full_name = $1, updated_at = $2 WHERE id = $3`)).
		WithArgs("Mia M.", t0, id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateName(context.Background(), id, "Mia M.", t0))
	assert.NoError(t, mock.ExpectationsWereMet())
}
