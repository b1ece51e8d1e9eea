package workflows

import (
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/cx-tal-miterani/hall-booking-console/temporal-worker/internal/activities"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

const (
	// ExpireHoldActivity is the registered name of the hold expiry activity
	ExpireHoldActivity = "ExpireHold"
	// MaxHoldChecks bounds how many timers one run arms, signal wakeups included
	MaxHoldChecks = 100
)

// HallHoldWorkflow keeps a booking's slots held until the hold lapses.
// Each availability recheck signals a new expiry; when the timer fires the
// hold is released and a still-unpaid booking is expired.
func HallHoldWorkflow(ctx workflow.Context, input models.HallHoldInput) (*models.HallHoldResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Hall hold workflow started", "bookingId", input.BookingID, "expiresAt", input.ExpiresAt)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    5,
		},
	})

	state := models.HallHoldState{
		BookingID: input.BookingID,
		ExpiresAt: input.ExpiresAt,
	}
	err := workflow.SetQueryHandler(ctx, models.QueryHoldState, func() (models.HallHoldState, error) {
		return state, nil
	})
	if err != nil {
		return nil, err
	}

	extendedCh := workflow.GetSignalChannel(ctx, models.SignalHoldExtended)
	extend := func(expiresAt time.Time) {
		if expiresAt.After(state.ExpiresAt) {
			state.ExpiresAt = expiresAt
			state.Extended++
			logger.Info("Hold extended", "bookingId", input.BookingID, "expiresAt", expiresAt)
		}
	}

	for checks := 0; checks < MaxHoldChecks; checks++ {
		timerCtx, cancelTimer := workflow.WithCancel(ctx)
		wait := state.ExpiresAt.Sub(workflow.Now(ctx))
		if wait <= 0 {
			wait = time.Millisecond
		}
		timer := workflow.NewTimer(timerCtx, wait)

		fired := false
		selector := workflow.NewSelector(ctx)
		selector.AddReceive(extendedCh, func(c workflow.ReceiveChannel, more bool) {
			var signal models.HoldExtendedSignal
			c.Receive(ctx, &signal)
			extend(signal.ExpiresAt)
		})
		selector.AddFuture(timer, func(f workflow.Future) {
			fired = f.Get(ctx, nil) == nil
		})
		selector.Select(ctx)
		cancelTimer()

		if ctx.Err() != nil {
			return &models.HallHoldResult{BookingID: input.BookingID, Reason: "cancelled"}, nil
		}
		if !fired {
			continue
		}

		var out activities.ExpireHoldOutput
		err := workflow.ExecuteActivity(ctx, ExpireHoldActivity, activities.ExpireHoldInput{
			BookingID: input.BookingID,
		}).Get(ctx, &out)
		if err != nil {
			logger.Error("Failed to expire hold", "bookingId", input.BookingID, "error", err)
			return nil, err
		}

		if !out.Released {
			// extended in storage without a signal reaching us
			extend(out.ExpiresAt)
			continue
		}

		result := &models.HallHoldResult{BookingID: input.BookingID, Expired: out.BookingExpired}
		if !out.BookingExpired {
			result.Reason = "booking no longer awaiting payment"
		}
		logger.Info("Hall hold workflow finished", "bookingId", input.BookingID, "expired", out.BookingExpired)
		return result, nil
	}

	// signals left in the channel would be dropped by continue-as-new
	for {
		var signal models.HoldExtendedSignal
		if !extendedCh.ReceiveAsync(&signal) {
			break
		}
		extend(signal.ExpiresAt)
	}

	logger.Info("Hall hold workflow continuing as new", "bookingId", input.BookingID, "expiresAt", state.ExpiresAt)
	return nil, workflow.NewContinueAsNewError(ctx, HallHoldWorkflow, models.HallHoldInput{
		TenantID:          input.TenantID,
		BookingID:         input.BookingID,
		CommunityHallCode: input.CommunityHallCode,
		ExpiresAt:         state.ExpiresAt,
	})
}
