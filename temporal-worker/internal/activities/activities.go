package activities

import (
	"context"
	"errors"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/temporal-worker/internal/repository"
	"go.temporal.io/sdk/activity"
)

// HoldRepository is the storage the hold activities need
type HoldRepository interface {
	GetHoldExpiry(ctx context.Context, bookingID string) (time.Time, error)
	ExpireHold(ctx context.Context, bookingID string, asOf time.Time) (bool, error)
}

// ExpireHoldInput is the input of the ExpireHold activity
type ExpireHoldInput struct {
	BookingID string `json:"bookingId"`
}

// ExpireHoldOutput reports what happened to the hold. A non-zero ExpiresAt
// means the hold was extended and is still active.
type ExpireHoldOutput struct {
	ExpiresAt      time.Time `json:"expiresAt,omitempty"`
	Released       bool      `json:"released"`
	BookingExpired bool      `json:"bookingExpired"`
}

// Activities holds the Temporal activities of the hall hold workflow
type Activities struct {
	repo HoldRepository
	now  func() time.Time
}

// NewActivities creates activities backed by repo
func NewActivities(repo HoldRepository) *Activities {
	return &Activities{repo: repo, now: time.Now}
}

// ExpireHold releases a booking's hold once it has lapsed
func (a *Activities) ExpireHold(ctx context.Context, input ExpireHoldInput) (*ExpireHoldOutput, error) {
	logger := activity.GetLogger(ctx)
	logger.Info("Checking slot hold", "bookingID", input.BookingID)

	expiresAt, err := a.repo.GetHoldExpiry(ctx, input.BookingID)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Info("Slot hold already released", "bookingID", input.BookingID)
		return &ExpireHoldOutput{Released: true}, nil
	}
	if err != nil {
		return nil, err
	}

	now := a.now()
	if expiresAt.After(now) {
		logger.Info("Slot hold still active", "bookingID", input.BookingID, "expiresAt", expiresAt)
		return &ExpireHoldOutput{ExpiresAt: expiresAt}, nil
	}

	expired, err := a.repo.ExpireHold(ctx, input.BookingID, now)
	if errors.Is(err, repository.ErrNotFound) {
		// extended or released between the read and the delete
		return a.ExpireHold(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Slot hold expired", "bookingID", input.BookingID, "bookingExpired", expired)
	return &ExpireHoldOutput{Released: true, BookingExpired: expired}, nil
}
