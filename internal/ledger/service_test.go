package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitclub/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedClock struct{ now time.Time }

func (c *fixedClock) Now() time.Time { return c.now }

func newTestService(t *testing.T) (Service, *MemoryRepository, *fixedClock, *events.Recorder, uuid.UUID) {
	t.Helper()
	repo := NewMemoryRepository()
	memberID := uuid.New()
	repo.AddMember(memberID)

	clock := &fixedClock{now: t0}
	rec := &events.Recorder{}
	return NewService(repo, rec, clock.Now), repo, clock, rec, memberID
}

func TestSubscribe(t *testing.T) {
	svc, repo, _, rec, memberID := newTestService(t)
	ctx := context.Background()

	cur, err := svc.Subscribe(ctx, memberID, "Premium")
	require.NoError(t, err)

	assert.Equal(t, PlanPremium, cur.Plan)
	assert.Equal(t, StatusActive, cur.Status)
	assert.Equal(t, t0, *cur.StartDate)
	assert.Equal(t, AddMonth(t0), *cur.EndDate)

	h, err := repo.Load(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, []string{events.TypeSubscribed}, rec.Types())
}

func TestSubscribe_TwiceClosesFirstAsUpgraded(t *testing.T) {
	svc, repo, clock, _, memberID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, memberID, "Basic")
	require.NoError(t, err)

	clock.now = t0.Add(48 * time.Hour)
	cur, err := svc.Subscribe(ctx, memberID, "Basic")
	require.NoError(t, err)
	assert.Equal(t, PlanBasic, cur.Plan)
	assert.Equal(t, clock.now, *cur.StartDate)

	h, err := repo.Load(ctx, memberID)
	require.NoError(t, err)
	require.Equal(t, 2, h.Len())

	first, second := h.At(0), h.At(1)
	assert.Equal(t, StatusUpgraded, first.Status)
	assert.Equal(t, clock.now, *first.EndDate, "closed at the same instant the new entry starts")
	assert.Equal(t, StatusActive, second.Status)
	assert.Equal(t, 2, second.Seq)
}

func TestSubscribe_Errors(t *testing.T) {
	svc, repo, _, rec, memberID := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name     string
		memberID uuid.UUID
		plan     string
		wantErr  error
	}{
		{"unknown plan", memberID, "Gold", ErrInvalidPlan},
		{"none is not subscribable", memberID, "none", ErrInvalidPlan},
		{"case sensitive", memberID, "premium", ErrInvalidPlan},
		{"unknown member", uuid.New(), "Basic", ErrMemberNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Subscribe(ctx, tt.memberID, tt.plan)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	h, err := repo.Load(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, 0, h.Len())
	assert.Empty(t, rec.Events())
}

func TestCancel(t *testing.T) {
	svc, repo, clock, rec, memberID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, memberID, "VIP")
	require.NoError(t, err)

	clock.now = t0.Add(72 * time.Hour)
	cur, err := svc.Cancel(ctx, memberID)
	require.NoError(t, err)

	assert.Equal(t, PlanVIP, cur.Plan)
	assert.Equal(t, StatusCancelled, cur.Status)
	assert.Equal(t, clock.now, *cur.EndDate)

	h, err := repo.Load(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, 1, h.Len(), "cancel never appends")
	assert.Equal(t, StatusCancelled, h.Current().Status)
	assert.Equal(t, []string{events.TypeSubscribed, events.TypeSubscriptionCancelled}, rec.Types())
}

func TestCancel_NoActiveSubscription(t *testing.T) {
	svc, repo, _, _, memberID := newTestService(t)
	ctx := context.Background()

	_, err := svc.Cancel(ctx, memberID)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)

	_, err = svc.Subscribe(ctx, memberID, "Basic")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, memberID)
	require.NoError(t, err)

	before, _ := repo.Load(ctx, memberID)
	_, err = svc.Cancel(ctx, memberID)
	assert.ErrorIs(t, err, ErrNoActiveSubscription)
	assert.NotErrorIs(t, err, ErrMemberNotFound)

	after, _ := repo.Load(ctx, memberID)
	assert.Equal(t, before.Events(), after.Events())
}

func TestCancel_UnknownMember(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	_, err := svc.Cancel(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

func TestCurrentAndHistory(t *testing.T) {
	svc, _, clock, _, memberID := newTestService(t)
	ctx := context.Background()

	cur, err := svc.Current(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, PlanNone, cur.Plan)
	assert.Equal(t, StatusInactive, cur.Status)

	_, err = svc.Subscribe(ctx, memberID, "Basic")
	require.NoError(t, err)
	clock.now = clock.now.Add(time.Hour)
	_, err = svc.Subscribe(ctx, memberID, "Premium")
	require.NoError(t, err)
	_, err = svc.Cancel(ctx, memberID)
	require.NoError(t, err)

	cur, err = svc.Current(ctx, memberID)
	require.NoError(t, err)
	assert.Equal(t, PlanPremium, cur.Plan)
	assert.Equal(t, StatusCancelled, cur.Status)

	history, err := svc.History(ctx, memberID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, StatusUpgraded, history[0].Status)
	assert.Equal(t, StatusCancelled, history[1].Status)

	_, err = svc.History(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrMemberNotFound)
}

type MockRepository struct{ mock.Mock }

func (m *MockRepository) Load(ctx context.Context, memberID uuid.UUID) (History, error) {
	args := m.Called(ctx, memberID)
	return args.Get(0).(History), args.Error(1)
}

func (m *MockRepository) Mutate(ctx context.Context, memberID uuid.UUID, fn MutateFunc) (History, error) {
	args := m.Called(ctx, memberID, fn)
	return args.Get(0).(History), args.Error(1)
}

func TestSubscribe_PersistenceFailure(t *testing.T) {
	repo := new(MockRepository)
	rec := &events.Recorder{}
	svc := NewService(repo, rec, func() time.Time { return t0 })

	memberID := uuid.New()
	dbErr := errors.New("connection reset")
	repo.On("Mutate", mock.Anything, memberID, mock.Anything).Return(History{}, dbErr)

	_, err := svc.Subscribe(context.Background(), memberID, "Basic")
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, rec.Events())
	repo.AssertExpectations(t)
}
