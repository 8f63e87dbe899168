package supplement

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSupplementMock(t *testing.T) (Repository, sqlmock.Sqlmock) {
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })

	return NewRepository(sqlx.NewDb(raw, "sqlmock")), mock
}

var supplementRowColumns = []string{"id", "name", "category", "price", "rating", "reviews", "description", "servings", "flavor", "in_stock", "created_at", "updated_at"}

func TestRepositoryGetMany(t *testing.T) {
	repo, mock := setupSupplementMock(t)

	mock.ExpectQuery(regexp.QuoteMeta(`FROM supplements WHERE id = ANY($1::uuid[])`)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(supplementRowColumns).
			AddRow(whey.ID.String(), "Gold Whey", "whey-protein", "39.99", "4.5", 120, "Fast protein", 30, "Vanilla", true, t0, t0))

	got, err := repo.GetMany(context.Background(), []uuid.UUID{whey.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, CategoryWheyProtein, got[0].Category)
	assert.True(t, got[0].Price.Equal(decimal.RequireFromString("39.99")))
	assert.Equal(t, "4.5", got[0].Rating.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdate_NotFound(t *testing.T) {
	repo, mock := setupSupplementMock(t)

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE supplements SET name = $1`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &whey)
	assert.ErrorIs(t, err, ErrSupplementNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateOrder(t *testing.T) {
	order := &Order{
		ID:          uuid.New(),
		MemberID:    uuid.New(),
		Items:       Items{{SupplementID: whey.ID, Name: "Gold Whey", Price: whey.Price, Quantity: 2}},
		TotalAmount: decimal.RequireFromString("79.98"),
		Status:      StatusProcessing,
		CreatedAt:   t0,
	}
	query := regexp.QuoteMeta(`INSERT INTO supplement_orders (id, member_id, items, total_amount, status, created_at)`)

	t.Run("stored", func(t *testing.T) {
		repo, mock := setupSupplementMock(t)
		mock.ExpectExec(query).
			WithArgs(order.ID, order.MemberID, sqlmock.AnyArg(), sqlmock.AnyArg(), "processing", t0).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.CreateOrder(context.Background(), order))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("member gone", func(t *testing.T) {
		repo, mock := setupSupplementMock(t)
		mock.ExpectExec(query).
			WillReturnError(&pq.Error{Code: "23503", Constraint: "supplement_orders_member_id_fkey"})

		assert.ErrorIs(t, repo.CreateOrder(context.Background(), order), ErrMemberNotFound)
	})
}

func TestRepositoryListOrders_DecodesItems(t *testing.T) {
	repo, mock := setupSupplementMock(t)
	memberID := uuid.New()
	items := `[{"supplement_id":"` + whey.ID.String() + `","name":"Gold Whey","price":"39.99","quantity":2}]`

	mock.ExpectQuery(regexp.QuoteMeta(`FROM supplement_orders WHERE member_id = $1 ORDER BY created_at DESC`)).
		WithArgs(memberID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "member_id", "items", "total_amount", "status", "created_at"}).
			AddRow(uuid.NewString(), memberID.String(), []byte(items), "79.98", "processing", t0))

	orders, err := repo.ListOrders(context.Background(), memberID)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, whey.ID, orders[0].Items[0].SupplementID)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.Equal(t, "79.98", orders[0].TotalAmount.StringFixed(2))
	assert.Equal(t, StatusProcessing, orders[0].Status)
}

func TestItemsValue(t *testing.T) {
	v, err := Items(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	var it Items
	require.NoError(t, it.Scan(nil))
	assert.NotNil(t, it)
	assert.Error(t, it.Scan(42))
}
