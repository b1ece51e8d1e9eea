package bookingflow

import (
	"context"
	"fmt"
	"sync"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/rowaction"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
)

type CancelState int

const (
	CancelIdle CancelState = iota
	CancelConfirming
	CancelSubmitting
)

func (s CancelState) String() string {
	switch s {
	case CancelConfirming:
		return "confirming"
	case CancelSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// CancelWorkflow confirms and submits the cancellation of one booking at a time
type CancelWorkflow struct {
	mutation   MutationCollaborator
	researcher Researcher
	notifier   Notifier

	mu     sync.Mutex
	state  CancelState
	target models.Booking
}

// NewCancelWorkflow creates an idle CancelWorkflow
func NewCancelWorkflow(mutation MutationCollaborator, researcher Researcher, notifier Notifier) *CancelWorkflow {
	return &CancelWorkflow{
		mutation:   mutation,
		researcher: researcher,
		notifier:   notifier,
	}
}

// RequestCancel captures the booking and waits for confirmation. While confirming,
// a new request replaces the captured booking.
func (w *CancelWorkflow) RequestCancel(booking models.Booking) error {
	if !rowaction.LegalActions(booking.BookingStatus).Cancel {
		return ErrActionNotAllowed
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == CancelSubmitting {
		return ErrWorkflowBusy
	}
	w.target = booking.Clone()
	w.state = CancelConfirming
	return nil
}

// Confirm submits the captured booking with status CANCELLED and refreshes the
// search on success. On failure the workflow returns to idle without re-searching.
func (w *CancelWorkflow) Confirm(ctx context.Context) error {
	w.mu.Lock()
	if w.state != CancelConfirming {
		w.mu.Unlock()
		return ErrNotConfirming
	}
	updated := w.target.WithStatus(models.BookingStatusCancelled)
	w.state = CancelSubmitting
	w.mu.Unlock()

	err := w.mutation.Submit(ctx, updated)

	w.mu.Lock()
	w.state = CancelIdle
	w.target = models.Booking{}
	w.mu.Unlock()

	if err != nil {
		w.notifier.Show(ctx, somethingWentWrong())
		return fmt.Errorf("%w: failed to cancel booking %s: %w", ErrTransport, updated.BookingNo, err)
	}

	if err := w.researcher.ExecuteSearch(ctx); err != nil {
		return fmt.Errorf("%w: booking %s: %w", ErrRefreshFailed, updated.BookingNo, err)
	}
	return nil
}

// Decline discards the captured booking
func (w *CancelWorkflow) Decline() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == CancelSubmitting {
		return ErrWorkflowBusy
	}
	w.state = CancelIdle
	w.target = models.Booking{}
	return nil
}

// State returns the current workflow state
func (w *CancelWorkflow) State() CancelState {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Target returns the booking awaiting confirmation, if any
func (w *CancelWorkflow) Target() (models.Booking, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state == CancelIdle {
		return models.Booking{}, false
	}
	return w.target.Clone(), true
}
