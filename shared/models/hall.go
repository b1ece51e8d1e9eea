package models

import "time"

// CommunityHall is one entry of the tenant-scoped hall catalog
type CommunityHall struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

type SlotStatus string

const (
	SlotStatusAvailable SlotStatus = "AVAILABLE"
	SlotStatusBooked    SlotStatus = "BOOKED"
)

// SlotAvailabilityQuery identifies the hall/date range to revalidate before payment
type SlotAvailabilityQuery struct {
	TenantID          string `json:"tenantId"`
	BookingID         string `json:"bookingId"`
	CommunityHallCode string `json:"communityHallCode"`
	HallCode          string `json:"hallCode"`
	BookingStartDate  string `json:"bookingStartDate"`
	BookingEndDate    string `json:"bookingEndDate"`
	IsTimerRequired   bool   `json:"isTimerRequired"`
}

// HallSlotAvailability is the availability of a single slot
type HallSlotAvailability struct {
	CommunityHallCode string     `json:"communityHallCode"`
	HallCode          string     `json:"hallCode"`
	BookingDate       string     `json:"bookingDate"`
	SlotStatus        SlotStatus `json:"slotStatus"`
}

// SlotAvailabilityResult is returned by an availability check
type SlotAvailabilityResult struct {
	Slots []HallSlotAvailability `json:"hallSlotAvailabilityDetails"`
	// TimerValue is the number of seconds the slot hold is honored
	TimerValue int64 `json:"timerValue"`
}

// AnyBooked reports whether any slot is already finalized by another booking
func (r *SlotAvailabilityResult) AnyBooked() bool {
	for _, s := range r.Slots {
		if s.SlotStatus == SlotStatusBooked {
			return true
		}
	}
	return false
}

// HoldDuration returns the timer value as a duration
func (r *SlotAvailabilityResult) HoldDuration() time.Duration {
	return time.Duration(r.TimerValue) * time.Second
}
