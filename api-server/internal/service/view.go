package service

import (
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/rowaction"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
)

// SessionView is the read model of an operator session
type SessionView struct {
	ID           string                 `json:"id"`
	TenantID     string                 `json:"tenantId"`
	Paged        bool                   `json:"paged"`
	Filter       search.FilterState     `json:"filter"`
	FieldErrors  map[string]string      `json:"fieldErrors,omitempty"`
	Halls        []models.CommunityHall `json:"halls"`
	Rows         []RowView              `json:"rows"`
	TotalCount   int                    `json:"totalCount"`
	CurrentPage  int                    `json:"currentPage"`
	Cancel       CancelView             `json:"cancel"`
	Notification *models.Notification   `json:"notification,omitempty"`
	Navigation   *Navigation            `json:"navigation,omitempty"`
}

// RowView is one table row with its action controls
type RowView struct {
	search.Row
	Actions  rowaction.Actions `json:"actions"`
	MenuOpen bool              `json:"menuOpen"`
}

// CancelView describes the cancel confirmation dialog
type CancelView struct {
	State     string `json:"state"`
	BookingNo string `json:"bookingNo,omitempty"`
}

// Navigation is the last route the session was sent to
type Navigation struct {
	Route string                        `json:"route"`
	State models.PaymentCollectionState `json:"state"`
}

func (s *session) view() *SessionView {
	filter := s.controller.Filter()
	results := s.controller.Results()
	notification, navigation := s.outbox.snapshot()

	rows := make([]RowView, 0, results.Len())
	for _, row := range results.Rows() {
		state, _ := s.menus.State(row.BookingNo)
		rows = append(rows, RowView{
			Row:      row,
			Actions:  rowaction.LegalActions(row.BookingStatus),
			MenuOpen: state == rowaction.MenuOpen,
		})
	}

	cancel := CancelView{State: s.cancel.State().String()}
	if target, ok := s.cancel.Target(); ok {
		cancel.BookingNo = target.BookingNo
	}

	fieldErrors := s.controller.FieldErrors()
	if len(fieldErrors) == 0 {
		fieldErrors = nil
	}

	return &SessionView{
		ID:           s.id.String(),
		TenantID:     s.tenantID,
		Paged:        s.paged,
		Filter:       filter,
		FieldErrors:  fieldErrors,
		Halls:        s.controller.Halls(),
		Rows:         rows,
		TotalCount:   results.TotalCount,
		CurrentPage:  filter.CurrentPage(),
		Cancel:       cancel,
		Notification: notification,
		Navigation:   navigation,
	}
}
