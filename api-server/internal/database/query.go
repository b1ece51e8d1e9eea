package database

import (
	"fmt"
	"strings"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
)

// sortColumns maps sortable field names to SQL expressions
var sortColumns = map[string]string{
	"commencementDate": "commencement_date",
	"bookingNo":        "b.booking_no",
	"createdTime":      "b.created_at",
	"applicantName":    "b.applicant_name",
	"bookingStatus":    "b.booking_status",
}

// searchQuery builds the WHERE clause and arguments for a tenant's filter
type searchQuery struct {
	conditions []string
	args       []any
}

func (q *searchQuery) add(condition string, arg any) {
	q.args = append(q.args, arg)
	q.conditions = append(q.conditions, fmt.Sprintf(condition, len(q.args)))
}

func (q *searchQuery) where() string {
	return "WHERE " + strings.Join(q.conditions, " AND ")
}

func buildSearchQuery(tenantID string, f search.FilterState) *searchQuery {
	q := &searchQuery{}
	q.add("b.tenant_id = $%d", tenantID)

	if f.BookingNo != "" {
		q.add("b.booking_no = $%d", f.BookingNo)
	}
	if f.CommunityHallCode != "" {
		q.add("b.community_hall_code = $%d", f.CommunityHallCode)
	}
	if f.Status != "" {
		q.add("b.booking_status = $%d", string(f.Status))
	}
	if f.MobileNumber != "" {
		q.add("b.applicant_mobile_no = $%d", f.MobileNumber)
	}
	if !f.FromDate.IsZero() {
		q.add("b.created_at >= $%d", f.FromDate)
	}
	if !f.ToDate.IsZero() {
		q.add("b.created_at < $%d", f.ToDate.AddDate(0, 0, 1))
	}
	return q
}

// orderBy returns the ORDER BY clause; unknown sort fields fall back to the default
func orderBy(f search.FilterState) string {
	column, ok := sortColumns[f.SortBy]
	if !ok {
		column = sortColumns[search.DefaultSortBy]
	}
	direction := "DESC"
	if f.SortOrder == search.SortOrderAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("ORDER BY %s %s NULLS LAST, b.booking_no ASC", column, direction)
}

// pageClause appends LIMIT/OFFSET arguments; an unbounded filter only gets OFFSET
func (q *searchQuery) pageClause(f search.FilterState) string {
	var parts []string
	if !f.Unbounded() {
		q.args = append(q.args, f.Limit)
		parts = append(parts, fmt.Sprintf("LIMIT $%d", len(q.args)))
	}
	q.args = append(q.args, f.Offset)
	parts = append(parts, fmt.Sprintf("OFFSET $%d", len(q.args)))
	return strings.Join(parts, " ")
}
