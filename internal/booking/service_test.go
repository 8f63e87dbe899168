package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"fitclub/internal/apperr"
	"fitclub/internal/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

type staticDirectory map[string]StaffRef

func (d staticDirectory) LookupStaff(_ context.Context, name string) (*StaffRef, error) {
	ref, ok := d[name]
	if !ok {
		return nil, nil
	}
	return &ref, nil
}

var (
	trainerA = StaffRef{ID: uuid.New(), Name: "TrainerA", Role: "trainer"}
	janeDoe  = StaffRef{ID: uuid.New(), Name: "Jane Doe", Role: "nutritionist", Slots: []string{"Mon 10am", "Tue 2pm"}}
)

func newTestService() (Service, *MemoryRepository, *events.Recorder) {
	repo := NewMemoryRepository()
	rec := &events.Recorder{}
	dir := staticDirectory{trainerA.Name: trainerA, janeDoe.Name: janeDoe}
	return NewService(repo, dir, rec, func() time.Time { return t0 }), repo, rec
}

func TestCreateBooking(t *testing.T) {
	svc, _, rec := newTestService()
	memberID := uuid.New()

	b, err := svc.CreateBooking(context.Background(), memberID, "Mia", "TrainerA", "Mon 9am")
	require.NoError(t, err)

	assert.Equal(t, memberID, b.MemberID)
	assert.Equal(t, "Mia", b.MemberName)
	assert.Equal(t, trainerA.ID, b.StaffID.UUID)
	assert.True(t, b.StaffID.Valid)
	assert.Equal(t, "TrainerA", b.StaffName)
	assert.Equal(t, "Mon 9am", b.Slot)
	assert.Equal(t, StatusActive, b.Status)
	assert.Equal(t, t0, b.CreatedAt)
	assert.Equal(t, []string{events.TypeBookingCreated}, rec.Types())
}

func TestCreateBooking_Validation(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	tests := []struct {
		name       string
		memberID   uuid.UUID
		memberName string
		staffName  string
		slot       string
		wantErr    error
		wantCode   apperr.Code
	}{
		{"missing member", uuid.Nil, "Mia", "TrainerA", "Mon 9am", nil, apperr.CodeValidation},
		{"missing member name", uuid.New(), "", "TrainerA", "Mon 9am", nil, apperr.CodeValidation},
		{"blank staff", uuid.New(), "Mia", "  ", "Mon 9am", nil, apperr.CodeValidation},
		{"missing slot", uuid.New(), "Mia", "TrainerA", "", nil, apperr.CodeValidation},
		{"unknown staff", uuid.New(), "Mia", "Nobody", "Mon 9am", ErrStaffNotFound, apperr.CodeNotFound},
		{"slot not offered", uuid.New(), "Mia", "Jane Doe", "Sun 8pm", ErrSlotNotOffered, apperr.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBooking(ctx, tt.memberID, tt.memberName, tt.staffName, tt.slot)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Equal(t, tt.wantCode, apperr.CodeOf(err))
		})
	}

	assert.Equal(t, 0, repo.Count())
}

func TestCreateBooking_SlotConflict(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	m, n := uuid.New(), uuid.New()

	first, err := svc.CreateBooking(ctx, m, "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, n, "N", "TrainerA", "Mon 9am")
	assert.ErrorIs(t, err, ErrSlotConflict)

	still, err := svc.GetMemberBooking(ctx, m)
	require.NoError(t, err)
	require.NotNil(t, still)
	assert.Equal(t, first.ID, still.ID)
	assert.Equal(t, StatusActive, still.Status)
}

func TestCreateBooking_MemberAlreadyBooked(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	m := uuid.New()

	_, err := svc.CreateBooking(ctx, m, "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, m, "M", "Jane Doe", "Tue 2pm")
	assert.ErrorIs(t, err, ErrMemberAlreadyBooked)

	require.NoError(t, svc.CancelBooking(ctx, m))

	_, err = svc.CreateBooking(ctx, m, "M", "Jane Doe", "Tue 2pm")
	assert.NoError(t, err)
}

func TestCreateBooking_SlotCheckedBeforeMember(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	m, n := uuid.New(), uuid.New()

	_, err := svc.CreateBooking(ctx, m, "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, n, "N", "Jane Doe", "Mon 10am")
	require.NoError(t, err)

	// n already holds a booking and the slot is taken by m
	_, err = svc.CreateBooking(ctx, n, "N", "TrainerA", "Mon 9am")
	assert.ErrorIs(t, err, ErrSlotConflict)
}

func TestCancelBooking(t *testing.T) {
	svc, repo, rec := newTestService()
	ctx := context.Background()
	m := uuid.New()

	err := svc.CancelBooking(ctx, m)
	assert.ErrorIs(t, err, ErrNoActiveBooking)

	_, err = svc.CreateBooking(ctx, m, "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(ctx, m))

	active, err := svc.GetMemberBooking(ctx, m)
	require.NoError(t, err)
	assert.Nil(t, active, "cancelled bookings are not surfaced")

	all, err := svc.ListMemberBookings(ctx, m)
	require.NoError(t, err)
	require.Len(t, all, 1, "cancel keeps the record")
	assert.Equal(t, StatusCancelled, all[0].Status)
	assert.Equal(t, 1, repo.Count())

	assert.Equal(t, []string{events.TypeBookingCreated, events.TypeBookingCancelled}, rec.Types())
}

func TestReleaseMemberBooking(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	m := uuid.New()

	b, err := svc.ReleaseMemberBooking(ctx, m)
	require.NoError(t, err)
	assert.Nil(t, b)

	created, err := svc.CreateBooking(ctx, m, "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)

	b, err = svc.ReleaseMemberBooking(ctx, m)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, created.ID, b.ID)
	assert.Equal(t, StatusCancelled, b.Status)
}

func TestGetBookingForSlot(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	repo.Insert(Booking{
		ID: uuid.New(), MemberID: uuid.New(), StaffID: uuid.NullUUID{UUID: trainerA.ID, Valid: true},
		StaffName: "TrainerA", Slot: "Mon 9am", Status: StatusCompleted,
	})

	b, err := svc.GetBookingForSlot(ctx, "TrainerA", "Mon 9am")
	require.NoError(t, err)
	assert.Nil(t, b, "only active bookings hold a slot")

	_, err = svc.CreateBooking(ctx, uuid.New(), "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)

	b, err = svc.GetBookingForSlot(ctx, "TrainerA", "Mon 9am")
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, StatusActive, b.Status)

	b, err = svc.GetBookingForSlot(ctx, "Nobody", "Mon 9am")
	require.NoError(t, err)
	assert.Nil(t, b)
}

func TestDeleteBookingsForStaff_HardDeletesAllStatuses(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	other := uuid.New()

	_, err := svc.CreateBooking(ctx, uuid.New(), "M", "Jane Doe", "Mon 10am")
	require.NoError(t, err)
	repo.Insert(Booking{
		ID: uuid.New(), MemberID: other, StaffID: uuid.NullUUID{UUID: janeDoe.ID, Valid: true},
		StaffName: "Jane Doe", Slot: "Tue 2pm", Status: StatusCancelled,
	})
	_, err = svc.CreateBooking(ctx, uuid.New(), "K", "TrainerA", "Mon 10am")
	require.NoError(t, err)

	n, err := svc.DeleteBookingsForStaff(ctx, janeDoe.ID, janeDoe.Name)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	all, err := svc.ListBookings(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "TrainerA", all[0].StaffName)
}

func TestDeleteBookingsForStaff_LegacyRowsMatchedByName(t *testing.T) {
	svc, repo, _ := newTestService()

	repo.Insert(Booking{ID: uuid.New(), MemberID: uuid.New(), StaffName: "Jane Doe", Slot: "Mon 10am", Status: StatusActive})
	repo.Insert(Booking{ID: uuid.New(), MemberID: uuid.New(), StaffName: "Jane Roe", Slot: "Mon 10am", Status: StatusActive})

	n, err := svc.DeleteBookingsForStaff(context.Background(), janeDoe.ID, "Jane Doe")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Equal(t, 1, repo.Count())
}

func TestRenameStaff(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	m := uuid.New()

	_, err := svc.CreateBooking(ctx, m, "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)

	n, err := svc.RenameStaff(ctx, trainerA.ID, "Trainer Alpha")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	b, err := svc.GetMemberBooking(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, "Trainer Alpha", b.StaffName)
	assert.Equal(t, trainerA.ID, b.StaffID.UUID)
}

func TestDeleteBookingsForMember(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	m := uuid.New()

	_, err := svc.CreateBooking(ctx, m, "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)
	require.NoError(t, svc.CancelBooking(ctx, m))
	_, err = svc.CreateBooking(ctx, m, "M", "TrainerA", "Mon 9am")
	require.NoError(t, err)

	n, err := svc.DeleteBookingsForMember(ctx, m)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

type MockRepository struct {
	mock.Mock
	*MemoryRepository
}

func (m *MockRepository) Create(ctx context.Context, b *Booking) error {
	return m.Called(ctx, b).Error(0)
}

func TestCreateBooking_RaceMapsToConflict(t *testing.T) {
	repo := &MockRepository{MemoryRepository: NewMemoryRepository()}
	svc := NewService(repo, staticDirectory{trainerA.Name: trainerA}, nil, func() time.Time { return t0 })

	repo.On("Create", mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(ErrSlotConflict).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*booking.Booking")).Return(errors.New("connection reset")).Once()

	_, err := svc.CreateBooking(context.Background(), uuid.New(), "M", "TrainerA", "Mon 9am")
	assert.ErrorIs(t, err, ErrSlotConflict)

	_, err = svc.CreateBooking(context.Background(), uuid.New(), "M", "TrainerA", "Mon 9am")
	require.Error(t, err)
	assert.Equal(t, apperr.CodeInternal, apperr.CodeOf(err))
	repo.AssertExpectations(t)
}
