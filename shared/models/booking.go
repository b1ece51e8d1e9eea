package models

import "time"

// DateLayout is the calendar date format used on the wire for slot dates
const DateLayout = "2006-01-02"

// Booking represents a community hall booking application
type Booking struct {
	BookingID          string          `json:"bookingId"`
	BookingNo          string          `json:"bookingNo"`
	TenantID           string          `json:"tenantId"`
	CommunityHallCode  string          `json:"communityHallCode"`
	BookingStatus      BookingStatus   `json:"bookingStatus"`
	ApplicantDetail    ApplicantDetail `json:"applicantDetail"`
	BookingSlotDetails []BookingSlot   `json:"bookingSlotDetails"`
	CreatedAt          time.Time       `json:"createdAt,omitempty"`
}

// ApplicantDetail holds the applicant fields the console reads
type ApplicantDetail struct {
	ApplicantName     string `json:"applicantName"`
	ApplicantMobileNo string `json:"applicantMobileNo,omitempty"`
}

// BookingSlot is a single hall/date unit of a booking
type BookingSlot struct {
	BookingDate string `json:"bookingDate"`
	HallCode    string `json:"hallCode"`
}

type BookingStatus string

const (
	BookingStatusBooked            BookingStatus = "BOOKED"
	BookingStatusCreated           BookingStatus = "BOOKING_CREATED"
	BookingStatusPaymentFailed     BookingStatus = "PAYMENT_FAILED"
	BookingStatusPendingForPayment BookingStatus = "PENDING_FOR_PAYMENT"
	BookingStatusExpired           BookingStatus = "EXPIRED"
	BookingStatusCancelled         BookingStatus = "CANCELLED"
)

// SearchableStatuses are the statuses offered by the status filter
var SearchableStatuses = []BookingStatus{
	BookingStatusBooked,
	BookingStatusCreated,
	BookingStatusPendingForPayment,
	BookingStatusExpired,
	BookingStatusCancelled,
}

// IsSearchable reports whether s can be used as a status filter
func (s BookingStatus) IsSearchable() bool {
	for _, st := range SearchableStatuses {
		if st == s {
			return true
		}
	}
	return false
}

// Clone returns a copy of b that shares no slices with it
func (b Booking) Clone() Booking {
	c := b
	if b.BookingSlotDetails != nil {
		c.BookingSlotDetails = append([]BookingSlot(nil), b.BookingSlotDetails...)
	}
	return c
}

// WithStatus returns a copy of b with only the status replaced
func (b Booking) WithStatus(status BookingStatus) Booking {
	c := b.Clone()
	c.BookingStatus = status
	return c
}

// FirstSlot returns the first slot of the booking
func (b Booking) FirstSlot() (BookingSlot, bool) {
	if len(b.BookingSlotDetails) == 0 {
		return BookingSlot{}, false
	}
	return b.BookingSlotDetails[0], true
}

// LastSlot returns the last slot of the booking
func (b Booking) LastSlot() (BookingSlot, bool) {
	if len(b.BookingSlotDetails) == 0 {
		return BookingSlot{}, false
	}
	return b.BookingSlotDetails[len(b.BookingSlotDetails)-1], true
}

// DateRangeLabel renders the booking date column: a single date, or "first - last"
// for bookings spanning more than one slot.
func (b Booking) DateRangeLabel() string {
	first, ok := b.FirstSlot()
	if !ok {
		return ""
	}
	if len(b.BookingSlotDetails) == 1 {
		return first.BookingDate
	}
	last, _ := b.LastSlot()
	return first.BookingDate + " - " + last.BookingDate
}
