package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/mocks"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) SlotAvailability(ctx context.Context, q models.SlotAvailabilityQuery) ([]models.HallSlotAvailability, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.HallSlotAvailability), args.Error(1)
}

func (m *mockStore) HoldSlots(ctx context.Context, bookingID string, expiresAt time.Time) error {
	return m.Called(ctx, bookingID, expiresAt).Error(0)
}

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestService(store SlotStore, temporal HoldStarter) *Service {
	s := NewService(store, temporal, "hall-booking-queue", 15*time.Minute)
	s.now = func() time.Time { return fixedNow }
	return s
}

func testQuery(timer bool) models.SlotAvailabilityQuery {
	return models.SlotAvailabilityQuery{
		TenantID:          "pb.amritsar",
		BookingID:         "b-1",
		CommunityHallCode: "HALL_A",
		HallCode:          "H1",
		BookingStartDate:  "2024-07-01",
		BookingEndDate:    "2024-07-02",
		IsTimerRequired:   timer,
	}
}

func slots(statuses ...models.SlotStatus) []models.HallSlotAvailability {
	out := make([]models.HallSlotAvailability, len(statuses))
	for i, s := range statuses {
		out[i] = models.HallSlotAvailability{CommunityHallCode: "HALL_A", HallCode: "H1", SlotStatus: s}
	}
	return out
}

func TestCheckAvailability_HoldsFreeSlots(t *testing.T) {
	store := new(mockStore)
	temporal := &mocks.Client{}
	q := testQuery(true)
	expiresAt := fixedNow.Add(15 * time.Minute)

	store.On("SlotAvailability", mock.Anything, q).Return(slots(models.SlotStatusAvailable, models.SlotStatusAvailable), nil)
	store.On("HoldSlots", mock.Anything, "b-1", expiresAt).Return(nil)
	temporal.On("SignalWithStartWorkflow", mock.Anything, "hall-hold-b-1", models.SignalHoldExtended,
		models.HoldExtendedSignal{ExpiresAt: expiresAt},
		mock.MatchedBy(func(o client.StartWorkflowOptions) bool {
			return o.ID == "hall-hold-b-1" && o.TaskQueue == "hall-booking-queue"
		}),
		models.HallHoldWorkflowName,
		mock.MatchedBy(func(in models.HallHoldInput) bool {
			return in.BookingID == "b-1" && in.ExpiresAt.Equal(expiresAt)
		}),
	).Return(&mocks.WorkflowRun{}, nil)

	result, err := newTestService(store, temporal).CheckAvailability(context.Background(), q)

	require.NoError(t, err)
	assert.False(t, result.AnyBooked())
	assert.Equal(t, int64(900), result.TimerValue)
	store.AssertExpectations(t)
	temporal.AssertExpectations(t)
}

func TestCheckAvailability_BookedSlotSkipsHold(t *testing.T) {
	store := new(mockStore)
	temporal := &mocks.Client{}
	q := testQuery(true)

	store.On("SlotAvailability", mock.Anything, q).Return(slots(models.SlotStatusAvailable, models.SlotStatusBooked), nil)

	result, err := newTestService(store, temporal).CheckAvailability(context.Background(), q)

	require.NoError(t, err)
	assert.True(t, result.AnyBooked())
	assert.Zero(t, result.TimerValue)
	store.AssertNotCalled(t, "HoldSlots", mock.Anything, mock.Anything, mock.Anything)
	temporal.AssertNumberOfCalls(t, "SignalWithStartWorkflow", 0)
}

func TestCheckAvailability_NoTimer(t *testing.T) {
	store := new(mockStore)
	q := testQuery(false)
	store.On("SlotAvailability", mock.Anything, q).Return(slots(models.SlotStatusAvailable), nil)

	result, err := newTestService(store, &mocks.Client{}).CheckAvailability(context.Background(), q)

	require.NoError(t, err)
	assert.Zero(t, result.TimerValue)
	store.AssertNotCalled(t, "HoldSlots", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckAvailability_Errors(t *testing.T) {
	boom := errors.New("connection refused")

	t.Run("store failure", func(t *testing.T) {
		store := new(mockStore)
		store.On("SlotAvailability", mock.Anything, mock.Anything).Return(nil, boom)

		_, err := newTestService(store, &mocks.Client{}).CheckAvailability(context.Background(), testQuery(true))

		assert.ErrorIs(t, err, boom)
	})

	t.Run("workflow failure", func(t *testing.T) {
		store := new(mockStore)
		temporal := &mocks.Client{}
		store.On("SlotAvailability", mock.Anything, mock.Anything).Return(slots(models.SlotStatusAvailable), nil)
		store.On("HoldSlots", mock.Anything, "b-1", mock.Anything).Return(nil)
		temporal.On("SignalWithStartWorkflow", mock.Anything, mock.Anything, mock.Anything, mock.Anything,
			mock.Anything, mock.Anything, mock.Anything).Return(nil, boom)

		_, err := newTestService(store, temporal).CheckAvailability(context.Background(), testQuery(true))

		assert.ErrorIs(t, err, boom)
	})
}
