package search

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "ASC"
	SortOrderDesc SortOrder = "DESC"
)

const (
	DefaultSortBy   = "commencementDate"
	DefaultPageSize = 10
)

// Filter field names accepted by SetFilterField
const (
	FieldBookingNo         = "bookingNo"
	FieldCommunityHallCode = "communityHallCode"
	FieldStatus            = "status"
	FieldMobileNumber      = "mobileNumber"
	FieldFromDate          = "fromDate"
	FieldToDate            = "toDate"
	FieldLimit             = "limit"
)

const (
	msgMobileInvalid   = "CORE_COMMON_MOBILE_ERROR"
	msgUnknownHall     = "CHB_INVALID_COMMUNITY_HALL"
	msgUnknownStatus   = "CHB_INVALID_STATUS"
	msgInvalidDate     = "CHB_INVALID_DATE"
	msgFutureDate      = "CHB_DATE_IN_FUTURE"
	msgInvertedRange   = "CHB_FROM_DATE_AFTER_TO_DATE"
	msgInvalidPageSize = "CHB_INVALID_PAGE_SIZE"
	msgUnknownField    = "CHB_UNKNOWN_FILTER"
)

var mobileNumberPattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

// ValidationError is a field-level filter error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// FilterState holds the search criteria plus pagination and sort parameters.
// It is a value type; every mutation produces a new snapshot.
type FilterState struct {
	BookingNo         string
	CommunityHallCode string
	Status            models.BookingStatus
	MobileNumber      string
	FromDate          time.Time
	ToDate            time.Time
	Offset            int
	// Limit of 0 means unbounded.
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// DefaultFilterState returns the filter used on first load and after reset
func DefaultFilterState(now time.Time, pageSize int) FilterState {
	today := truncateDate(now)
	if pageSize < 0 {
		pageSize = 0
	}
	return FilterState{
		Status:    models.BookingStatusBooked,
		FromDate:  today.AddDate(0, -1, 0),
		ToDate:    today,
		Offset:    0,
		Limit:     pageSize,
		SortBy:    DefaultSortBy,
		SortOrder: SortOrderDesc,
	}
}

// Unbounded reports whether the filter requests every matching row
func (f FilterState) Unbounded() bool {
	return f.Limit <= 0
}

// CurrentPage is the zero-based page index
func (f FilterState) CurrentPage() int {
	if f.Unbounded() {
		return 0
	}
	return f.Offset / f.Limit
}

// WithField returns a copy of f with the named field parsed from value and validated.
// Empty values clear optional fields.
func (f FilterState) WithField(name, value string, halls []models.CommunityHall, now time.Time) (FilterState, error) {
	value = strings.TrimSpace(value)
	next := f

	switch name {
	case FieldBookingNo:
		next.BookingNo = value
	case FieldCommunityHallCode:
		if value != "" && !hallKnown(halls, value) {
			return f, &ValidationError{Field: name, Message: msgUnknownHall}
		}
		next.CommunityHallCode = value
	case FieldStatus:
		status := models.BookingStatus(value)
		if value != "" && !status.IsSearchable() {
			return f, &ValidationError{Field: name, Message: msgUnknownStatus}
		}
		next.Status = status
	case FieldMobileNumber:
		if value != "" && !mobileNumberPattern.MatchString(value) {
			return f, &ValidationError{Field: name, Message: msgMobileInvalid}
		}
		next.MobileNumber = value
	case FieldFromDate, FieldToDate:
		d, err := parseDate(name, value, now)
		if err != nil {
			return f, err
		}
		if name == FieldFromDate {
			next.FromDate = d
		} else {
			next.ToDate = d
		}
		if !next.FromDate.IsZero() && !next.ToDate.IsZero() && next.FromDate.After(next.ToDate) {
			return f, &ValidationError{Field: name, Message: msgInvertedRange}
		}
	default:
		return f, &ValidationError{Field: name, Message: msgUnknownField}
	}

	return next, nil
}

func parseDate(field, value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(models.DateLayout, value, now.Location())
	if err != nil {
		return time.Time{}, &ValidationError{Field: field, Message: msgInvalidDate}
	}
	if d.After(truncateDate(now)) {
		return time.Time{}, &ValidationError{Field: field, Message: msgFutureDate}
	}
	return d, nil
}

func hallKnown(halls []models.CommunityHall, code string) bool {
	for _, h := range halls {
		if h.Code == code {
			return true
		}
	}
	return false
}

func truncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(models.DateLayout)
}

type filterJSON struct {
	BookingNo         string               `json:"bookingNo,omitempty"`
	CommunityHallCode string               `json:"communityHallCode,omitempty"`
	Status            models.BookingStatus `json:"status,omitempty"`
	MobileNumber      string               `json:"mobileNumber,omitempty"`
	FromDate          string               `json:"fromDate,omitempty"`
	ToDate            string               `json:"toDate,omitempty"`
	Offset            int                  `json:"offset"`
	Limit             int                  `json:"limit,omitempty"`
	SortBy            string               `json:"sortBy"`
	SortOrder         SortOrder            `json:"sortOrder"`
}

// MarshalJSON renders dates as calendar dates for form binding
func (f FilterState) MarshalJSON() ([]byte, error) {
	return json.Marshal(filterJSON{
		BookingNo:         f.BookingNo,
		CommunityHallCode: f.CommunityHallCode,
		Status:            f.Status,
		MobileNumber:      f.MobileNumber,
		FromDate:          formatDate(f.FromDate),
		ToDate:            formatDate(f.ToDate),
		Offset:            f.Offset,
		Limit:             f.Limit,
		SortBy:            f.SortBy,
		SortOrder:         f.SortOrder,
	})
}

// UnmarshalJSON accepts the format produced by MarshalJSON
func (f *FilterState) UnmarshalJSON(data []byte) error {
	var raw filterJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var from, to time.Time
	var err error
	if raw.FromDate != "" {
		if from, err = time.Parse(models.DateLayout, raw.FromDate); err != nil {
			return fmt.Errorf("failed to parse fromDate: %w", err)
		}
	}
	if raw.ToDate != "" {
		if to, err = time.Parse(models.DateLayout, raw.ToDate); err != nil {
			return fmt.Errorf("failed to parse toDate: %w", err)
		}
	}
	*f = FilterState{
		BookingNo:         raw.BookingNo,
		CommunityHallCode: raw.CommunityHallCode,
		Status:            raw.Status,
		MobileNumber:      raw.MobileNumber,
		FromDate:          from,
		ToDate:            to,
		Offset:            raw.Offset,
		Limit:             raw.Limit,
		SortBy:            raw.SortBy,
		SortOrder:         raw.SortOrder,
	}
	return nil
}
