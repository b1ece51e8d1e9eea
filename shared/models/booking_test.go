package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBooking_DateRangeLabel(t *testing.T) {
	tests := []struct {
		name     string
		slots    []BookingSlot
		expected string
	}{
		{"no slots", nil, ""},
		{"single date", []BookingSlot{{BookingDate: "2024-05-01"}}, "2024-05-01"},
		{
			name: "range uses last slot",
			slots: []BookingSlot{
				{BookingDate: "2024-05-01"},
				{BookingDate: "2024-05-02"},
				{BookingDate: "2024-05-04"},
			},
			expected: "2024-05-01 - 2024-05-04",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Booking{BookingSlotDetails: tt.slots}
			assert.Equal(t, tt.expected, b.DateRangeLabel())
		})
	}
}

func TestBooking_WithStatusDoesNotAlias(t *testing.T) {
	b := Booking{
		BookingNo:          "CHB-1",
		BookingStatus:      BookingStatusBooked,
		BookingSlotDetails: []BookingSlot{{BookingDate: "2024-05-01", HallCode: "H1"}},
	}

	cancelled := b.WithStatus(BookingStatusCancelled)
	cancelled.BookingSlotDetails[0].HallCode = "changed"

	assert.Equal(t, BookingStatusBooked, b.BookingStatus)
	assert.Equal(t, "H1", b.BookingSlotDetails[0].HallCode)
	assert.Equal(t, BookingStatusCancelled, cancelled.BookingStatus)
}

func TestSlotAvailabilityResult_AnyBooked(t *testing.T) {
	r := &SlotAvailabilityResult{Slots: []HallSlotAvailability{
		{BookingDate: "2024-05-01", SlotStatus: SlotStatusAvailable},
		{BookingDate: "2024-05-02", SlotStatus: SlotStatusBooked},
	}}
	assert.True(t, r.AnyBooked())

	r.Slots[1].SlotStatus = SlotStatusAvailable
	assert.False(t, r.AnyBooked())
}

func TestBookingStatus_IsSearchable(t *testing.T) {
	assert.True(t, BookingStatusBooked.IsSearchable())
	assert.True(t, BookingStatusCancelled.IsSearchable())
	assert.False(t, BookingStatusPaymentFailed.IsSearchable())
	assert.False(t, BookingStatus("UNKNOWN").IsSearchable())
}
