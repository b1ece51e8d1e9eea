package database

import (
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
)

// bookingRow is a hall_bookings row as scanned by the search query
type bookingRow struct {
	BookingID         string
	BookingNo         string
	TenantID          string
	CommunityHallCode string
	BookingStatus     string
	ApplicantName     string
	ApplicantMobileNo string
	CreatedAt         time.Time
	CommencementDate  *time.Time
}

func (r bookingRow) toModel(slots []models.BookingSlot) models.Booking {
	return models.Booking{
		BookingID:         r.BookingID,
		BookingNo:         r.BookingNo,
		TenantID:          r.TenantID,
		CommunityHallCode: r.CommunityHallCode,
		BookingStatus:     models.BookingStatus(r.BookingStatus),
		ApplicantDetail: models.ApplicantDetail{
			ApplicantName:     r.ApplicantName,
			ApplicantMobileNo: r.ApplicantMobileNo,
		},
		BookingSlotDetails: slots,
		CreatedAt:          r.CreatedAt,
	}
}

// slotRow is a booking_slots row
type slotRow struct {
	BookingID   string
	BookingDate time.Time
	HallCode    string
}

func (r slotRow) toModel() models.BookingSlot {
	return models.BookingSlot{
		BookingDate: r.BookingDate.Format(models.DateLayout),
		HallCode:    r.HallCode,
	}
}
