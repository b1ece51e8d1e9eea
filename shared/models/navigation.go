package models

// PaymentCollectionState is handed to the payment collection screen
type PaymentCollectionState struct {
	TenantID       string                `json:"tenantId"`
	BookingNo      string                `json:"bookingNo"`
	TimerValue     int64                 `json:"timerValue"`
	SlotSearchData SlotAvailabilityQuery `json:"slotSearchData"`
}

// Notification is a toast shown to the operator. Label is a translation key.
type Notification struct {
	Error bool   `json:"error"`
	Label string `json:"label"`
}

const (
	LabelHallAlreadyBooked  = "CHB_COMMUNITY_HALL_ALREADY_BOOKED"
	LabelSomethingWentWrong = "CS_SOMETHING_WENT_WRONG"
)
