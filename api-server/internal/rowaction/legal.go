package rowaction

import "github.com/cx-tal-miterani/hall-booking-console/shared/models"

type Action string

const (
	ActionCancel         Action = "CANCEL"
	ActionCollectPayment Action = "COLLECT_PAYMENT"
)

// Actions are the controls offered for a booking in its current status
type Actions struct {
	TakeAction     bool `json:"takeAction"`
	Cancel         bool `json:"cancel"`
	CollectPayment bool `json:"collectPayment"`
}

var legalActions = map[models.BookingStatus]Actions{
	models.BookingStatusBooked:            {TakeAction: true, Cancel: true},
	models.BookingStatusCreated:           {TakeAction: true, CollectPayment: true},
	models.BookingStatusPaymentFailed:     {TakeAction: true, CollectPayment: true},
	models.BookingStatusPendingForPayment: {TakeAction: true, CollectPayment: true},
}

// LegalActions returns the actions allowed for status. Unknown, expired and
// cancelled bookings get none.
func LegalActions(status models.BookingStatus) Actions {
	return legalActions[status]
}

// Allows reports whether a is one of the offered actions
func (a Actions) Allows(action Action) bool {
	switch action {
	case ActionCancel:
		return a.Cancel
	case ActionCollectPayment:
		return a.CollectPayment
	}
	return false
}
