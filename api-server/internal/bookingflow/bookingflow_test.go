package bookingflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockMutation struct {
	mock.Mock
}

func (m *mockMutation) Submit(ctx context.Context, booking models.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

type mockAvailability struct {
	mock.Mock
}

func (m *mockAvailability) CheckAvailability(ctx context.Context, q models.SlotAvailabilityQuery) (*models.SlotAvailabilityResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SlotAvailabilityResult), args.Error(1)
}

type mockNavigator struct {
	mock.Mock
}

func (m *mockNavigator) GoTo(ctx context.Context, route string, state models.PaymentCollectionState) {
	m.Called(ctx, route, state)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Show(ctx context.Context, n models.Notification) {
	m.Called(ctx, n)
}

type mockResearcher struct {
	mock.Mock
}

func (m *mockResearcher) ExecuteSearch(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func bookedBooking() models.Booking {
	return models.Booking{
		BookingID:         "id-1",
		BookingNo:         "CHB-2024-001",
		TenantID:          "pb.amritsar",
		CommunityHallCode: "HALL_A",
		BookingStatus:     models.BookingStatusBooked,
		ApplicantDetail:   models.ApplicantDetail{ApplicantName: "Asha", ApplicantMobileNo: "9123456789"},
		BookingSlotDetails: []models.BookingSlot{
			{BookingDate: "2024-05-01", HallCode: "H1"},
		},
		CreatedAt: time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
	}
}

func payableBooking() models.Booking {
	return models.Booking{
		BookingID:         "id-2",
		BookingNo:         "CHB-2024-002",
		TenantID:          "pb.amritsar",
		CommunityHallCode: "HALL_A",
		BookingStatus:     models.BookingStatusPendingForPayment,
		BookingSlotDetails: []models.BookingSlot{
			{BookingDate: "2024-05-01", HallCode: "H1"},
			{BookingDate: "2024-05-02", HallCode: "H1"},
		},
	}
}

var genericFailure = models.Notification{Error: true, Label: models.LabelSomethingWentWrong}

func TestCancelWorkflow_ConfirmRoundTrip(t *testing.T) {
	mutation := new(mockMutation)
	researcher := new(mockResearcher)
	notifier := new(mockNotifier)
	w := NewCancelWorkflow(mutation, researcher, notifier)

	b := bookedBooking()
	want := b
	want.BookingStatus = models.BookingStatusCancelled
	want.BookingSlotDetails = []models.BookingSlot{{BookingDate: "2024-05-01", HallCode: "H1"}}

	mutation.On("Submit", mock.Anything, want).Return(nil).Once()
	researcher.On("ExecuteSearch", mock.Anything).Return(nil).Once()

	require.NoError(t, w.RequestCancel(b))
	assert.Equal(t, CancelConfirming, w.State())
	target, ok := w.Target()
	require.True(t, ok)
	assert.Equal(t, b.BookingNo, target.BookingNo)

	require.NoError(t, w.Confirm(context.Background()))

	assert.Equal(t, CancelIdle, w.State())
	mutation.AssertExpectations(t)
	researcher.AssertNumberOfCalls(t, "ExecuteSearch", 1)
	notifier.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
}

func TestCancelWorkflow_Decline(t *testing.T) {
	mutation := new(mockMutation)
	researcher := new(mockResearcher)
	w := NewCancelWorkflow(mutation, researcher, new(mockNotifier))

	require.NoError(t, w.RequestCancel(bookedBooking()))
	require.NoError(t, w.Decline())

	assert.Equal(t, CancelIdle, w.State())
	_, ok := w.Target()
	assert.False(t, ok)
	assert.ErrorIs(t, w.Confirm(context.Background()), ErrNotConfirming)
	mutation.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
	researcher.AssertNotCalled(t, "ExecuteSearch", mock.Anything)
}

func TestCancelWorkflow_MutationFailure(t *testing.T) {
	mutation := new(mockMutation)
	researcher := new(mockResearcher)
	notifier := new(mockNotifier)
	w := NewCancelWorkflow(mutation, researcher, notifier)

	mutation.On("Submit", mock.Anything, mock.Anything).Return(errors.New("503 from booking service"))
	notifier.On("Show", mock.Anything, genericFailure).Return().Once()

	require.NoError(t, w.RequestCancel(bookedBooking()))
	err := w.Confirm(context.Background())

	require.ErrorIs(t, err, ErrTransport)
	assert.Equal(t, CancelIdle, w.State())
	notifier.AssertExpectations(t)
	researcher.AssertNotCalled(t, "ExecuteSearch", mock.Anything)
}

func TestCancelWorkflow_RefreshFailureKeepsCancellation(t *testing.T) {
	mutation := new(mockMutation)
	researcher := new(mockResearcher)
	notifier := new(mockNotifier)
	w := NewCancelWorkflow(mutation, researcher, notifier)

	mutation.On("Submit", mock.Anything, mock.Anything).Return(nil).Once()
	researcher.On("ExecuteSearch", mock.Anything).Return(errors.New("search timed out")).Once()

	require.NoError(t, w.RequestCancel(bookedBooking()))
	err := w.Confirm(context.Background())

	require.ErrorIs(t, err, ErrRefreshFailed)
	assert.NotErrorIs(t, err, ErrTransport)
	assert.Equal(t, CancelIdle, w.State())
	mutation.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
}

func TestCancelWorkflow_RejectsNonCancellableStatus(t *testing.T) {
	w := NewCancelWorkflow(new(mockMutation), new(mockResearcher), new(mockNotifier))

	for _, status := range []models.BookingStatus{
		models.BookingStatusCreated,
		models.BookingStatusPendingForPayment,
		models.BookingStatusPaymentFailed,
		models.BookingStatusExpired,
		models.BookingStatusCancelled,
	} {
		b := bookedBooking()
		b.BookingStatus = status
		assert.ErrorIs(t, w.RequestCancel(b), ErrActionNotAllowed, string(status))
	}
	assert.Equal(t, CancelIdle, w.State())
}

func TestCancelWorkflow_BusyWhileSubmitting(t *testing.T) {
	mutation := new(mockMutation)
	researcher := new(mockResearcher)
	w := NewCancelWorkflow(mutation, researcher, new(mockNotifier))

	release := make(chan struct{})
	entered := make(chan struct{})
	mutation.On("Submit", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(nil)
	researcher.On("ExecuteSearch", mock.Anything).Return(nil)

	require.NoError(t, w.RequestCancel(bookedBooking()))
	done := make(chan error, 1)
	go func() { done <- w.Confirm(context.Background()) }()

	<-entered
	assert.Equal(t, CancelSubmitting, w.State())
	assert.ErrorIs(t, w.RequestCancel(bookedBooking()), ErrWorkflowBusy)
	assert.ErrorIs(t, w.Decline(), ErrWorkflowBusy)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, CancelIdle, w.State())
}

func TestSlotQueryFor(t *testing.T) {
	q, err := SlotQueryFor(payableBooking())
	require.NoError(t, err)
	assert.Equal(t, models.SlotAvailabilityQuery{
		TenantID:          "pb.amritsar",
		BookingID:         "id-2",
		CommunityHallCode: "HALL_A",
		HallCode:          "H1",
		BookingStartDate:  "2024-05-01",
		BookingEndDate:    "2024-05-02",
		IsTimerRequired:   true,
	}, q)

	single := bookedBooking()
	q, err = SlotQueryFor(single)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01", q.BookingStartDate)
	assert.Equal(t, "2024-05-01", q.BookingEndDate)

	_, err = SlotQueryFor(models.Booking{})
	assert.ErrorIs(t, err, ErrNoSlots)
}

func TestPaymentWorkflow_ConflictBlocksNavigation(t *testing.T) {
	availability := new(mockAvailability)
	navigator := new(mockNavigator)
	notifier := new(mockNotifier)
	w := NewPaymentWorkflow(availability, navigator, notifier)

	availability.On("CheckAvailability", mock.Anything, mock.Anything).Return(&models.SlotAvailabilityResult{
		Slots: []models.HallSlotAvailability{
			{BookingDate: "2024-05-01", SlotStatus: models.SlotStatusAvailable},
			{BookingDate: "2024-05-02", SlotStatus: models.SlotStatusBooked},
		},
		TimerValue: 600,
	}, nil)
	notifier.On("Show", mock.Anything, models.Notification{Error: true, Label: models.LabelHallAlreadyBooked}).Return().Once()

	outcome, err := w.Initiate(context.Background(), payableBooking())

	assert.Equal(t, PaymentConflict, outcome)
	require.ErrorIs(t, err, ErrHallAlreadyBooked)
	navigator.AssertNotCalled(t, "GoTo", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestPaymentWorkflow_SuccessNavigatesOnce(t *testing.T) {
	availability := new(mockAvailability)
	navigator := new(mockNavigator)
	notifier := new(mockNotifier)
	w := NewPaymentWorkflow(availability, navigator, notifier)

	b := payableBooking()
	query, err := SlotQueryFor(b)
	require.NoError(t, err)

	availability.On("CheckAvailability", mock.Anything, query).Return(&models.SlotAvailabilityResult{
		Slots: []models.HallSlotAvailability{
			{BookingDate: "2024-05-01", SlotStatus: models.SlotStatusAvailable},
			{BookingDate: "2024-05-02", SlotStatus: models.SlotStatusAvailable},
		},
		TimerValue: 600,
	}, nil).Once()
	navigator.On("GoTo", mock.Anything, "/payment/collect/chb-services/CHB-2024-002", models.PaymentCollectionState{
		TenantID:       "pb.amritsar",
		BookingNo:      "CHB-2024-002",
		TimerValue:     600,
		SlotSearchData: query,
	}).Return().Once()

	outcome, err := w.Initiate(context.Background(), b)

	require.NoError(t, err)
	assert.Equal(t, PaymentNavigated, outcome)
	navigator.AssertNumberOfCalls(t, "GoTo", 1)
	navigator.AssertExpectations(t)
	notifier.AssertNotCalled(t, "Show", mock.Anything, mock.Anything)
}

func TestPaymentWorkflow_TransportFailure(t *testing.T) {
	availability := new(mockAvailability)
	navigator := new(mockNavigator)
	notifier := new(mockNotifier)
	w := NewPaymentWorkflow(availability, navigator, notifier)

	availability.On("CheckAvailability", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
	notifier.On("Show", mock.Anything, genericFailure).Return().Once()

	outcome, err := w.Initiate(context.Background(), payableBooking())

	assert.Equal(t, PaymentFailed, outcome)
	require.ErrorIs(t, err, ErrTransport)
	navigator.AssertNotCalled(t, "GoTo", mock.Anything, mock.Anything, mock.Anything)
	notifier.AssertExpectations(t)
}

func TestPaymentWorkflow_NilResultIsFailure(t *testing.T) {
	availability := new(mockAvailability)
	navigator := new(mockNavigator)
	notifier := new(mockNotifier)
	w := NewPaymentWorkflow(availability, navigator, notifier)

	availability.On("CheckAvailability", mock.Anything, mock.Anything).Return(nil, nil)
	notifier.On("Show", mock.Anything, genericFailure).Return()

	outcome, err := w.Initiate(context.Background(), payableBooking())

	assert.Equal(t, PaymentFailed, outcome)
	require.ErrorIs(t, err, ErrTransport)
	navigator.AssertNotCalled(t, "GoTo", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentWorkflow_CancelledContextDoesNotNavigate(t *testing.T) {
	availability := new(mockAvailability)
	navigator := new(mockNavigator)
	notifier := new(mockNotifier)
	w := NewPaymentWorkflow(availability, navigator, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	availability.On("CheckAvailability", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		cancel()
	}).Return(&models.SlotAvailabilityResult{TimerValue: 600}, nil)
	notifier.On("Show", mock.Anything, genericFailure).Return()

	outcome, err := w.Initiate(ctx, payableBooking())

	assert.Equal(t, PaymentFailed, outcome)
	require.ErrorIs(t, err, context.Canceled)
	navigator.AssertNotCalled(t, "GoTo", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentWorkflow_RejectsDuplicateInFlight(t *testing.T) {
	availability := new(mockAvailability)
	navigator := new(mockNavigator)
	notifier := new(mockNotifier)
	w := NewPaymentWorkflow(availability, navigator, notifier)

	release := make(chan struct{})
	entered := make(chan struct{})
	availability.On("CheckAvailability", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		close(entered)
		<-release
	}).Return(&models.SlotAvailabilityResult{TimerValue: 600}, nil).Once()
	navigator.On("GoTo", mock.Anything, mock.Anything, mock.Anything).Return().Once()

	done := make(chan error, 1)
	go func() {
		_, err := w.Initiate(context.Background(), payableBooking())
		done <- err
	}()
	<-entered

	_, err := w.Initiate(context.Background(), payableBooking())
	assert.ErrorIs(t, err, ErrWorkflowBusy)

	close(release)
	require.NoError(t, <-done)
	navigator.AssertNumberOfCalls(t, "GoTo", 1)
}

func TestPaymentWorkflow_RejectsNonPayableStatus(t *testing.T) {
	availability := new(mockAvailability)
	w := NewPaymentWorkflow(availability, new(mockNavigator), new(mockNotifier))

	b := payableBooking()
	b.BookingStatus = models.BookingStatusBooked

	_, err := w.Initiate(context.Background(), b)

	assert.ErrorIs(t, err, ErrActionNotAllowed)
	availability.AssertNotCalled(t, "CheckAvailability", mock.Anything, mock.Anything)
}
