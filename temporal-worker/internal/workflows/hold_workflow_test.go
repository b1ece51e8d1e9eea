package workflows

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/cx-tal-miterani/hall-booking-console/temporal-worker/internal/activities"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/testsuite"
	"go.temporal.io/sdk/workflow"
)

var startTime = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

type HallHoldWorkflowTestSuite struct {
	suite.Suite
	testsuite.WorkflowTestSuite
	env *testsuite.TestWorkflowEnvironment
}

func (s *HallHoldWorkflowTestSuite) SetupTest() {
	s.env = s.NewTestWorkflowEnvironment()
	s.env.SetStartTime(startTime)
	acts := activities.NewActivities(nil)
	s.env.RegisterActivityWithOptions(acts.ExpireHold, activity.RegisterOptions{Name: ExpireHoldActivity})
}

func (s *HallHoldWorkflowTestSuite) AfterTest(suiteName, testName string) {
	s.env.AssertExpectations(s.T())
}

func TestHallHoldWorkflowTestSuite(t *testing.T) {
	suite.Run(t, new(HallHoldWorkflowTestSuite))
}

func holdInput(expiresAt time.Time) models.HallHoldInput {
	return models.HallHoldInput{
		TenantID:          "pb.amritsar",
		BookingID:         "b-1",
		CommunityHallCode: "HALL_A",
		ExpiresAt:         expiresAt,
	}
}

func (s *HallHoldWorkflowTestSuite) TestWorkflow_ExpiresUnpaidBooking() {
	s.env.OnActivity(ExpireHoldActivity, mock.Anything, activities.ExpireHoldInput{BookingID: "b-1"}).
		Return(&activities.ExpireHoldOutput{Released: true, BookingExpired: true}, nil).Once()

	s.env.ExecuteWorkflow(HallHoldWorkflow, holdInput(startTime.Add(15*time.Minute)))

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())

	var result models.HallHoldResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.Equal("b-1", result.BookingID)
	s.True(result.Expired)
	s.Empty(result.Reason)
}

func (s *HallHoldWorkflowTestSuite) TestWorkflow_PaidBookingIsNotExpired() {
	s.env.OnActivity(ExpireHoldActivity, mock.Anything, mock.Anything).
		Return(&activities.ExpireHoldOutput{Released: true}, nil).Once()

	s.env.ExecuteWorkflow(HallHoldWorkflow, holdInput(startTime.Add(15*time.Minute)))

	var result models.HallHoldResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.False(result.Expired)
	s.NotEmpty(result.Reason)
}

func (s *HallHoldWorkflowTestSuite) TestWorkflow_SignalExtendsHold() {
	extended := startTime.Add(30 * time.Minute)

	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(models.SignalHoldExtended, models.HoldExtendedSignal{ExpiresAt: extended})
	}, 5*time.Minute)

	s.env.RegisterDelayedCallback(func() {
		val, err := s.env.QueryWorkflow(models.QueryHoldState)
		s.NoError(err)
		var state models.HallHoldState
		s.NoError(val.Get(&state))
		s.Equal(1, state.Extended)
		s.True(extended.Equal(state.ExpiresAt))
	}, 20*time.Minute)

	s.env.OnActivity(ExpireHoldActivity, mock.Anything, mock.Anything).
		Return(func(ctx context.Context, input activities.ExpireHoldInput) (*activities.ExpireHoldOutput, error) {
			s.False(s.env.Now().Before(extended), "hold released before extended expiry")
			return &activities.ExpireHoldOutput{Released: true, BookingExpired: true}, nil
		}).Once()

	s.env.ExecuteWorkflow(HallHoldWorkflow, holdInput(startTime.Add(15*time.Minute)))

	s.True(s.env.IsWorkflowCompleted())
	s.NoError(s.env.GetWorkflowError())
}

func (s *HallHoldWorkflowTestSuite) TestWorkflow_StaleSignalIgnored() {
	s.env.RegisterDelayedCallback(func() {
		s.env.SignalWorkflow(models.SignalHoldExtended, models.HoldExtendedSignal{ExpiresAt: startTime.Add(time.Minute)})
	}, time.Minute/2)

	s.env.RegisterDelayedCallback(func() {
		val, err := s.env.QueryWorkflow(models.QueryHoldState)
		s.NoError(err)
		var state models.HallHoldState
		s.NoError(val.Get(&state))
		s.Equal(0, state.Extended)
	}, 2*time.Minute)

	s.env.OnActivity(ExpireHoldActivity, mock.Anything, mock.Anything).
		Return(&activities.ExpireHoldOutput{Released: true, BookingExpired: true}, nil).Once()

	s.env.ExecuteWorkflow(HallHoldWorkflow, holdInput(startTime.Add(15*time.Minute)))

	s.NoError(s.env.GetWorkflowError())
}

func (s *HallHoldWorkflowTestSuite) TestWorkflow_HoldExtendedInStorage() {
	s.env.OnActivity(ExpireHoldActivity, mock.Anything, mock.Anything).
		Return(&activities.ExpireHoldOutput{ExpiresAt: startTime.Add(25 * time.Minute)}, nil).Once()
	s.env.OnActivity(ExpireHoldActivity, mock.Anything, mock.Anything).
		Return(&activities.ExpireHoldOutput{Released: true, BookingExpired: true}, nil).Once()

	s.env.ExecuteWorkflow(HallHoldWorkflow, holdInput(startTime.Add(15*time.Minute)))

	var result models.HallHoldResult
	s.NoError(s.env.GetWorkflowResult(&result))
	s.True(result.Expired)
}

func (s *HallHoldWorkflowTestSuite) TestWorkflow_Cancelled() {
	s.env.RegisterDelayedCallback(func() {
		s.env.CancelWorkflow()
	}, time.Minute)

	s.env.ExecuteWorkflow(HallHoldWorkflow, holdInput(startTime.Add(15*time.Minute)))

	s.True(s.env.IsWorkflowCompleted())
}

func (s *HallHoldWorkflowTestSuite) TestWorkflow_ExtensionSignalsContinueAsNew() {
	for i := 1; i <= MaxHoldChecks; i++ {
		i := i
		s.env.RegisterDelayedCallback(func() {
			s.env.SignalWorkflow(models.SignalHoldExtended, models.HoldExtendedSignal{
				ExpiresAt: startTime.Add(time.Hour + time.Duration(i)*time.Minute),
			})
		}, time.Duration(i)*time.Second)
	}

	s.env.ExecuteWorkflow(HallHoldWorkflow, holdInput(startTime.Add(time.Hour)))

	s.True(s.env.IsWorkflowCompleted())
	var canErr *workflow.ContinueAsNewError
	s.True(errors.As(s.env.GetWorkflowError(), &canErr), "expected continue-as-new, got %v", s.env.GetWorkflowError())
	// rolled over on the last signal, long before any hold lapsed
	s.True(s.env.Now().Before(startTime.Add(time.Hour)))
}
