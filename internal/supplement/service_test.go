package supplement

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/events"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

var (
	whey = Supplement{
		ID: uuid.New(), Name: "Gold Whey", Category: CategoryWheyProtein,
		Price: decimal.RequireFromString("39.99"), Servings: 30, Flavor: "Vanilla", InStock: true,
	}
	creatine = Supplement{
		ID: uuid.New(), Name: "Pure Creatine", Category: CategoryCreatine,
		Price: decimal.RequireFromString("19.95"), Servings: 60, Flavor: defaultFlavor, InStock: true,
	}
	fishOil = Supplement{
		ID: uuid.New(), Name: "Omega 3", Category: CategoryFishOil,
		Price: decimal.RequireFromString("12.50"), Servings: 90, Flavor: defaultFlavor, InStock: false,
	}
)

func newTestService() (Service, *MemoryRepository, *events.Recorder) {
	repo := NewMemoryRepository(whey, creatine, fishOil)
	rec := &events.Recorder{}
	return NewService(repo, rec, func() time.Time { return t0 }), repo, rec
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestPlaceOrder_Rejections(t *testing.T) {
	member := uuid.New()
	missing := uuid.New()

	tests := []struct {
		name     string
		cart     []CartItem
		wantErr  error
		wantCode apperr.Code
		wantMsg  string
	}{
		{
			name:     "empty cart",
			cart:     nil,
			wantErr:  ErrEmptyCart,
			wantCode: apperr.CodeValidation,
			wantMsg:  "Cart is empty.",
		},
		{
			name:     "out of stock",
			cart:     []CartItem{{SupplementID: whey.ID, Quantity: 1}, {SupplementID: fishOil.ID, Quantity: 2}},
			wantErr:  ErrOutOfStock,
			wantCode: apperr.CodeValidation,
			wantMsg:  "'Omega 3' is out of stock.",
		},
		{
			name:     "unknown item",
			cart:     []CartItem{{SupplementID: missing, Name: "Mystery Powder", Quantity: 1}},
			wantErr:  ErrUnknownSupplement,
			wantCode: apperr.CodeNotFound,
			wantMsg:  "Supplement 'Mystery Powder' not found.",
		},
		{
			name:     "zero quantity",
			cart:     []CartItem{{SupplementID: whey.ID, Quantity: 0}},
			wantCode: apperr.CodeValidation,
			wantMsg:  "Quantity must be at least 1.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, rec := newTestService()
			ctx := context.Background()

			order, err := svc.PlaceOrder(ctx, member, PlaceOrderRequest{Items: tt.cart})
			require.Error(t, err)
			assert.Nil(t, order)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
			assert.Equal(t, tt.wantMsg, apperr.As(err).Message())

			orders, err := repo.ListOrders(ctx, member)
			require.NoError(t, err)
			assert.Empty(t, orders)
			assert.Empty(t, rec.Events())
		})
	}
}

func TestPlaceOrder_CopiesPricesAndRoundsTotal(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()
	member := uuid.New()

	order, err := svc.PlaceOrder(ctx, member, PlaceOrderRequest{Items: []CartItem{
		{SupplementID: whey.ID, Quantity: 2},
		{SupplementID: creatine.ID, Quantity: 3},
	}})
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, order.Status)
	assert.Equal(t, t0, order.CreatedAt)
	assert.Equal(t, "139.83", order.TotalAmount.StringFixed(2))
	require.Len(t, order.Items, 2)
	assert.Equal(t, "Gold Whey", order.Items[0].Name)
	assert.True(t, order.Items[0].Price.Equal(whey.Price))
	assert.Equal(t, []string{events.TypeSupplementOrderPlaced}, rec.Types())

	// later catalogue edits leave the order alone
	_, err = svc.UpdateSupplement(ctx, whey.ID, UpdateSupplementRequest{Price: price("45.00")})
	require.NoError(t, err)

	orders, err := repo.ListOrders(ctx, member)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].Items[0].Price.Equal(whey.Price))
	assert.True(t, orders[0].TotalAmount.Equal(order.TotalAmount))
}

func TestListOrders_NewestFirstPerMember(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	mia, leo := uuid.New(), uuid.New()

	first, err := svc.PlaceOrder(ctx, mia, PlaceOrderRequest{Items: []CartItem{{SupplementID: whey.ID, Quantity: 1}}})
	require.NoError(t, err)
	_, err = svc.PlaceOrder(ctx, leo, PlaceOrderRequest{Items: []CartItem{{SupplementID: whey.ID, Quantity: 1}}})
	require.NoError(t, err)
	second, err := svc.PlaceOrder(ctx, mia, PlaceOrderRequest{Items: []CartItem{{SupplementID: creatine.ID, Quantity: 1}}})
	require.NoError(t, err)

	orders, err := svc.ListOrders(ctx, mia)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
}

func TestCreateSupplement(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	sup, err := svc.CreateSupplement(ctx, CreateSupplementRequest{
		Name:        "  Night Casein ",
		Category:    CategoryCaseinProtein,
		Price:       price("44.999"),
		Description: "Slow release protein",
		Servings:    25,
	})
	require.NoError(t, err)
	assert.Equal(t, "Night Casein", sup.Name)
	assert.Equal(t, "45.00", sup.Price.StringFixed(2))
	assert.Equal(t, defaultFlavor, sup.Flavor)
	assert.True(t, sup.InStock)
	assert.True(t, sup.Rating.IsZero())

	got, err := svc.GetSupplement(ctx, sup.ID)
	require.NoError(t, err)
	assert.Equal(t, sup.Name, got.Name)

	tests := []struct {
		name string
		req  CreateSupplementRequest
	}{
		{"negative price", CreateSupplementRequest{Name: "X", Price: price("-1"), Servings: 1}},
		{"missing price", CreateSupplementRequest{Name: "X", Servings: 1}},
		{"blank name", CreateSupplementRequest{Name: "  ", Price: price("1"), Servings: 1}},
		{"rating above five", CreateSupplementRequest{Name: "X", Price: price("1"), Rating: price("5.5"), Servings: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateSupplement(ctx, tt.req)
			assert.Equal(t, apperr.CodeValidation, apperr.CodeOf(err))
		})
	}
}

func TestUpdateAndDeleteSupplement(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	yes, blank := true, " "

	got, err := svc.UpdateSupplement(ctx, fishOil.ID, UpdateSupplementRequest{InStock: &yes, Flavor: &blank})
	require.NoError(t, err)
	assert.True(t, got.InStock)
	assert.Equal(t, defaultFlavor, got.Flavor)
	assert.Equal(t, t0, got.UpdatedAt)

	// back in stock, so it can be ordered now
	_, err = svc.PlaceOrder(ctx, uuid.New(), PlaceOrderRequest{Items: []CartItem{{SupplementID: fishOil.ID, Quantity: 1}}})
	require.NoError(t, err)

	_, err = svc.UpdateSupplement(ctx, uuid.New(), UpdateSupplementRequest{InStock: &yes})
	assert.ErrorIs(t, err, ErrSupplementNotFound)

	require.NoError(t, svc.DeleteSupplement(ctx, creatine.ID))
	assert.ErrorIs(t, svc.DeleteSupplement(ctx, creatine.ID), ErrSupplementNotFound)

	list, err := svc.ListSupplements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, CategoryFishOil, list[0].Category)
}

// failingOrders stores nothing.
type failingOrders struct {
	*MemoryRepository
	err error
}

func (f failingOrders) CreateOrder(context.Context, *Order) error { return f.err }

func TestPlaceOrder_StoreFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode apperr.Code
	}{
		{"member gone", ErrMemberNotFound, apperr.CodeNotFound},
		{"database down", errors.New("connection refused"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &events.Recorder{}
			svc := NewService(failingOrders{NewMemoryRepository(whey), tt.err}, rec, nil)

			_, err := svc.PlaceOrder(context.Background(), uuid.New(), PlaceOrderRequest{Items: []CartItem{{SupplementID: whey.ID, Quantity: 1}}})
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
			assert.Empty(t, rec.Events())
		})
	}
}
