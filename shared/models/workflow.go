package models

import "time"

// Workflow names and signals shared by the API server and the Temporal worker
const (
	HallHoldWorkflowName = "HallHoldWorkflow"
	SignalHoldExtended   = "hold-extended"
	QueryHoldState       = "hold_state"
)

// HallHoldWorkflowID returns the workflow ID of the hold for a booking
func HallHoldWorkflowID(bookingID string) string {
	return "hall-hold-" + bookingID
}

// HallHoldInput starts the hold timer for a booking's slots
type HallHoldInput struct {
	TenantID          string    `json:"tenantId"`
	BookingID         string    `json:"bookingId"`
	CommunityHallCode string    `json:"communityHallCode"`
	ExpiresAt         time.Time `json:"expiresAt"`
}

// HoldExtendedSignal moves the hold expiry when availability is rechecked
type HoldExtendedSignal struct {
	ExpiresAt time.Time `json:"expiresAt"`
}

// HallHoldResult is the outcome of the hold workflow
type HallHoldResult struct {
	BookingID string `json:"bookingId"`
	Expired   bool   `json:"expired"`
	Reason    string `json:"reason,omitempty"`
}

// HallHoldState is returned by the hold_state query
type HallHoldState struct {
	BookingID string    `json:"bookingId"`
	ExpiresAt time.Time `json:"expiresAt"`
	Extended  int       `json:"extended"`
}
