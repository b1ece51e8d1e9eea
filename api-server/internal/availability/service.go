package availability

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"go.temporal.io/sdk/client"
)

// SlotStore reads slot availability and records payment holds
type SlotStore interface {
	SlotAvailability(ctx context.Context, q models.SlotAvailabilityQuery) ([]models.HallSlotAvailability, error)
	HoldSlots(ctx context.Context, bookingID string, expiresAt time.Time) error
}

// HoldStarter starts or extends the hold workflow of a booking.
// client.Client satisfies it.
type HoldStarter interface {
	SignalWithStartWorkflow(ctx context.Context, workflowID string, signalName string, signalArg interface{},
		options client.StartWorkflowOptions, workflow interface{}, workflowArgs ...interface{}) (client.WorkflowRun, error)
}

// Service answers slot availability checks. A timer-required check on free slots
// holds them for HoldDuration and hands the expiry to the hold workflow.
type Service struct {
	store        SlotStore
	temporal     HoldStarter
	taskQueue    string
	holdDuration time.Duration
	now          func() time.Time
}

// NewService creates a new availability Service
func NewService(store SlotStore, temporal HoldStarter, taskQueue string, holdDuration time.Duration) *Service {
	return &Service{
		store:        store,
		temporal:     temporal,
		taskQueue:    taskQueue,
		holdDuration: holdDuration,
		now:          time.Now,
	}
}

// CheckAvailability implements bookingflow.SlotAvailabilityCollaborator
func (s *Service) CheckAvailability(ctx context.Context, q models.SlotAvailabilityQuery) (*models.SlotAvailabilityResult, error) {
	slots, err := s.store.SlotAvailability(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}

	result := &models.SlotAvailabilityResult{Slots: slots}
	if !q.IsTimerRequired || result.AnyBooked() {
		return result, nil
	}

	expiresAt := s.now().Add(s.holdDuration)
	if err := s.store.HoldSlots(ctx, q.BookingID, expiresAt); err != nil {
		return nil, err
	}

	workflowID := models.HallHoldWorkflowID(q.BookingID)
	_, err = s.temporal.SignalWithStartWorkflow(ctx, workflowID, models.SignalHoldExtended,
		models.HoldExtendedSignal{ExpiresAt: expiresAt},
		client.StartWorkflowOptions{
			ID:        workflowID,
			TaskQueue: s.taskQueue,
		},
		models.HallHoldWorkflowName,
		models.HallHoldInput{
			TenantID:          q.TenantID,
			BookingID:         q.BookingID,
			CommunityHallCode: q.CommunityHallCode,
			ExpiresAt:         expiresAt,
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start hold workflow: %w", err)
	}
	log.Printf("Slots of booking %s held until %s", q.BookingID, expiresAt.Format(time.RFC3339))

	result.TimerValue = int64(s.holdDuration / time.Second)
	return result, nil
}
