package database

import (
	"testing"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSearchQuery_Defaults(t *testing.T) {
	now := time.Date(2024, 6, 15, 9, 0, 0, 0, time.UTC)
	f := search.DefaultFilterState(now, 10)

	q := buildSearchQuery("pb.amritsar", f)

	assert.Equal(t,
		"WHERE b.tenant_id = $1 AND b.booking_status = $2 AND b.created_at >= $3 AND b.created_at < $4",
		q.where())
	require.Len(t, q.args, 4)
	assert.Equal(t, "BOOKED", q.args[1])
	assert.Equal(t, time.Date(2024, 5, 15, 0, 0, 0, 0, time.UTC), q.args[2])
	assert.Equal(t, time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), q.args[3])

	assert.Equal(t, "LIMIT $5 OFFSET $6", q.pageClause(f))
	assert.Equal(t, []any{10, 0}, q.args[4:])
}

func TestBuildSearchQuery_AllFilters(t *testing.T) {
	f := search.FilterState{
		BookingNo:         "CHB-1",
		CommunityHallCode: "HALL_A",
		MobileNumber:      "9123456789",
		Offset:            20,
	}

	q := buildSearchQuery("pb.amritsar", f)

	assert.Equal(t,
		"WHERE b.tenant_id = $1 AND b.booking_no = $2 AND b.community_hall_code = $3 AND b.applicant_mobile_no = $4",
		q.where())
	assert.Equal(t, "OFFSET $5", q.pageClause(f))
	assert.Equal(t, 20, q.args[4])
}

func TestOrderBy(t *testing.T) {
	tests := []struct {
		name     string
		sortBy   string
		order    search.SortOrder
		expected string
	}{
		{"default", "commencementDate", search.SortOrderDesc, "ORDER BY commencement_date DESC NULLS LAST, b.booking_no ASC"},
		{"booking number ascending", "bookingNo", search.SortOrderAsc, "ORDER BY b.booking_no ASC NULLS LAST, b.booking_no ASC"},
		{"unknown column falls back", "1; DROP TABLE hall_bookings", search.SortOrderAsc, "ORDER BY commencement_date ASC NULLS LAST, b.booking_no ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, orderBy(search.FilterState{SortBy: tt.sortBy, SortOrder: tt.order}))
		})
	}
}

func TestParseRange(t *testing.T) {
	start, end, err := parseRange(models.SlotAvailabilityQuery{BookingStartDate: "2024-05-01", BookingEndDate: "2024-05-02"})
	require.NoError(t, err)
	assert.Equal(t, 24*time.Hour, end.Sub(start))

	_, _, err = parseRange(models.SlotAvailabilityQuery{BookingStartDate: "2024-05-03", BookingEndDate: "2024-05-02"})
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, _, err = parseRange(models.SlotAvailabilityQuery{BookingStartDate: "bad", BookingEndDate: "2024-05-02"})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestBookingRow_ToModel(t *testing.T) {
	row := bookingRow{
		BookingID:         "id-1",
		BookingNo:         "CHB-1",
		TenantID:          "pb.amritsar",
		CommunityHallCode: "HALL_A",
		BookingStatus:     "BOOKED",
		ApplicantName:     "Asha",
	}
	slot := slotRow{BookingID: "id-1", BookingDate: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), HallCode: "H1"}

	b := row.toModel([]models.BookingSlot{slot.toModel()})

	assert.Equal(t, models.BookingStatusBooked, b.BookingStatus)
	assert.Equal(t, "Asha", b.ApplicantDetail.ApplicantName)
	assert.Equal(t, []models.BookingSlot{{BookingDate: "2024-05-01", HallCode: "H1"}}, b.BookingSlotDetails)
}
