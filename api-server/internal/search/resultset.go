package search

import "github.com/cx-tal-miterani/hall-booking-console/shared/models"

// ResultSet is the last successfully fetched page of bookings.
// It is replaced wholesale on each applied search and never mutated in place.
type ResultSet struct {
	Bookings   []models.Booking `json:"bookings"`
	TotalCount int              `json:"totalCount"`
}

// Row holds the derived column values of one booking
type Row struct {
	BookingNo         string               `json:"bookingNo"`
	ApplicantName     string               `json:"applicantName"`
	CommunityHallCode string               `json:"communityHallCode"`
	BookingDate       string               `json:"bookingDate"`
	BookingStatus     models.BookingStatus `json:"bookingStatus"`
}

// Len returns the number of rows on the page
func (r ResultSet) Len() int {
	return len(r.Bookings)
}

// Rows derives the table columns for every booking on the page
func (r ResultSet) Rows() []Row {
	rows := make([]Row, 0, len(r.Bookings))
	for _, b := range r.Bookings {
		rows = append(rows, Row{
			BookingNo:         b.BookingNo,
			ApplicantName:     b.ApplicantDetail.ApplicantName,
			CommunityHallCode: b.CommunityHallCode,
			BookingDate:       b.DateRangeLabel(),
			BookingStatus:     b.BookingStatus,
		})
	}
	return rows
}

// Find returns a copy of the booking with the given number
func (r ResultSet) Find(bookingNo string) (models.Booking, bool) {
	for _, b := range r.Bookings {
		if b.BookingNo == bookingNo {
			return b.Clone(), true
		}
	}
	return models.Booking{}, false
}

func (r ResultSet) clone() ResultSet {
	bookings := make([]models.Booking, len(r.Bookings))
	for i, b := range r.Bookings {
		bookings[i] = b.Clone()
	}
	return ResultSet{Bookings: bookings, TotalCount: r.TotalCount}
}
