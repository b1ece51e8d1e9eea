package bookingflow

import (
	"context"
	"errors"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/rowaction"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
)

var (
	ErrTransport         = errors.New("transport failure")
	ErrWorkflowBusy      = errors.New("workflow is busy")
	ErrNotConfirming     = errors.New("no cancellation awaiting confirmation")
	ErrHallAlreadyBooked = errors.New("community hall already booked")
	ErrNoSlots           = errors.New("booking has no slots")
	// ErrRefreshFailed means the cancellation was submitted but the follow-up search failed
	ErrRefreshFailed     = errors.New("refresh after cancellation failed")
	ErrActionNotAllowed  = rowaction.ErrActionNotAllowed
)

// MutationCollaborator persists an updated booking record
type MutationCollaborator interface {
	Submit(ctx context.Context, booking models.Booking) error
}

// SlotAvailabilityCollaborator performs a single-shot availability check
type SlotAvailabilityCollaborator interface {
	CheckAvailability(ctx context.Context, query models.SlotAvailabilityQuery) (*models.SlotAvailabilityResult, error)
}

// Navigator moves the operator to another screen
type Navigator interface {
	GoTo(ctx context.Context, route string, state models.PaymentCollectionState)
}

// Notifier shows operator toasts
type Notifier interface {
	Show(ctx context.Context, n models.Notification)
}

// Researcher re-runs the current search
type Researcher interface {
	ExecuteSearch(ctx context.Context) error
}

func somethingWentWrong() models.Notification {
	return models.Notification{Error: true, Label: models.LabelSomethingWentWrong}
}
