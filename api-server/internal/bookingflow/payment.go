package bookingflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/rowaction"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
)

// PaymentCollectionRoute is the prefix of the payment collection screen
const PaymentCollectionRoute = "/payment/collect/chb-services/"

var errEmptyAvailability = errors.New("empty availability response")

type PaymentOutcome string

const (
	PaymentNavigated PaymentOutcome = "navigated"
	PaymentConflict  PaymentOutcome = "conflict"
	PaymentFailed    PaymentOutcome = "failed"
)

// PaymentRoute returns the payment collection route of a booking
func PaymentRoute(bookingNo string) string {
	return PaymentCollectionRoute + url.PathEscape(bookingNo)
}

// SlotQueryFor derives the availability query of a booking. The end date is
// the last slot's date so date-range bookings are checked in full.
func SlotQueryFor(b models.Booking) (models.SlotAvailabilityQuery, error) {
	first, ok := b.FirstSlot()
	if !ok {
		return models.SlotAvailabilityQuery{}, ErrNoSlots
	}
	last, _ := b.LastSlot()

	return models.SlotAvailabilityQuery{
		TenantID:          b.TenantID,
		BookingID:         b.BookingID,
		CommunityHallCode: b.CommunityHallCode,
		HallCode:          first.HallCode,
		BookingStartDate:  first.BookingDate,
		BookingEndDate:    last.BookingDate,
		IsTimerRequired:   true,
	}, nil
}

// PaymentWorkflow revalidates slot availability before routing to payment
type PaymentWorkflow struct {
	availability SlotAvailabilityCollaborator
	navigator    Navigator
	notifier     Notifier

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewPaymentWorkflow creates a PaymentWorkflow
func NewPaymentWorkflow(availability SlotAvailabilityCollaborator, navigator Navigator, notifier Notifier) *PaymentWorkflow {
	return &PaymentWorkflow{
		availability: availability,
		navigator:    navigator,
		notifier:     notifier,
		inflight:     make(map[string]struct{}),
	}
}

// Initiate checks the booking's slots and navigates to payment collection only
// when none of them is already BOOKED. Navigation never happens before the
// check has resolved, and never on a failed or cancelled check.
func (w *PaymentWorkflow) Initiate(ctx context.Context, booking models.Booking) (PaymentOutcome, error) {
	if !rowaction.LegalActions(booking.BookingStatus).CollectPayment {
		return PaymentFailed, ErrActionNotAllowed
	}

	query, err := SlotQueryFor(booking)
	if err != nil {
		w.notifier.Show(ctx, somethingWentWrong())
		return PaymentFailed, fmt.Errorf("failed to derive slot query for %s: %w", booking.BookingNo, err)
	}

	if !w.begin(booking.BookingNo) {
		return PaymentFailed, ErrWorkflowBusy
	}
	defer w.end(booking.BookingNo)

	result, err := w.availability.CheckAvailability(ctx, query)
	if err == nil && result == nil {
		err = errEmptyAvailability
	}
	if err != nil {
		w.notifier.Show(ctx, somethingWentWrong())
		return PaymentFailed, fmt.Errorf("%w: failed to check slot availability for %s: %w", ErrTransport, booking.BookingNo, err)
	}

	if result.AnyBooked() {
		w.notifier.Show(ctx, models.Notification{Error: true, Label: models.LabelHallAlreadyBooked})
		return PaymentConflict, fmt.Errorf("%w: %s", ErrHallAlreadyBooked, booking.BookingNo)
	}

	if err := ctx.Err(); err != nil {
		w.notifier.Show(ctx, somethingWentWrong())
		return PaymentFailed, fmt.Errorf("payment initiation for %s abandoned: %w", booking.BookingNo, err)
	}

	w.navigator.GoTo(ctx, PaymentRoute(booking.BookingNo), models.PaymentCollectionState{
		TenantID:       booking.TenantID,
		BookingNo:      booking.BookingNo,
		TimerValue:     result.TimerValue,
		SlotSearchData: query,
	})
	return PaymentNavigated, nil
}

func (w *PaymentWorkflow) begin(bookingNo string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, busy := w.inflight[bookingNo]; busy {
		return false
	}
	w.inflight[bookingNo] = struct{}{}
	return true
}

func (w *PaymentWorkflow) end(bookingNo string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inflight, bookingNo)
}
