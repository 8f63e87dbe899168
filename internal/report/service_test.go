package report

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/ledger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) MemberActivity(ctx context.Context, w Window) ([]MemberActivity, error) {
	args := m.Called(ctx, w)
	return args.Get(0).([]MemberActivity), args.Error(1)
}

func (m *MockRepository) Sessions(ctx context.Context, w Window) ([]SessionActivity, error) {
	args := m.Called(ctx, w)
	return args.Get(0).([]SessionActivity), args.Error(1)
}

type staticPrices map[string]decimal.Decimal

func (p staticPrices) Prices(context.Context) (map[string]decimal.Decimal, error) { return p, nil }

func TestMonthly(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, staticPrices(prices))
	m := MemberActivity{ID: uuid.New(), FullName: "Mia", Events: []ledger.Event{
		{Seq: 1, Plan: ledger.PlanPremium, StartDate: day(6, 9), Status: ledger.StatusActive},
	}}

	repo.On("MemberActivity", mock.Anything, may).Return([]MemberActivity{m}, nil)
	repo.On("Sessions", mock.Anything, may).Return([]SessionActivity{}, nil)

	rows, err := svc.Monthly(context.Background(), day(28, 23))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "59.99", rows[0].Fee.StringFixed(2))
	repo.AssertExpectations(t)
}

func TestMonthly_RepositoryError(t *testing.T) {
	repo := &MockRepository{}
	svc := NewService(repo, staticPrices(prices))
	repo.On("MemberActivity", mock.Anything, mock.Anything).Return([]MemberActivity(nil), errors.New("timeout"))

	_, err := svc.Monthly(context.Background(), day(1, 0))
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
}

func TestHandler_Monthly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &MockRepository{}
	repo.On("MemberActivity", mock.Anything, MonthOf(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))).Return([]MemberActivity{}, nil)
	repo.On("Sessions", mock.Anything, mock.Anything).Return([]SessionActivity{}, nil)

	h := NewHandler(NewService(repo, staticPrices(prices)), func() time.Time { return day(1, 0) })
	router := gin.New()
	router.GET("/admin/reports/monthly", h.Monthly)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/reports/monthly?month=2026-03", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/reports/monthly?month=March", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
