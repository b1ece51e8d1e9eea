package rowaction

import (
	"errors"
	"sync"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
)

var (
	ErrUnknownRow       = errors.New("row is not in the visible result set")
	ErrActionDisabled   = errors.New("take action is disabled for this booking")
	ErrActionNotAllowed = errors.New("action is not allowed for this booking status")
)

type MenuState int

const (
	MenuClosed MenuState = iota
	MenuOpen
)

func (s MenuState) String() string {
	if s == MenuOpen {
		return "open"
	}
	return "closed"
}

type row struct {
	booking models.Booking
	state   MenuState
}

// Menus keeps the action menu state of every visible row, keyed by booking number.
// Opening one row's menu does not close another's; only a pointer interaction
// outside a menu closes it.
type Menus struct {
	mu   sync.Mutex
	rows map[string]*row
}

// NewMenus creates an empty collection
func NewMenus() *Menus {
	return &Menus{rows: make(map[string]*row)}
}

// Sync aligns the collection with the visible bookings. New rows start closed,
// rows that left the visible set are dropped and kept rows keep their state.
func (m *Menus) Sync(bookings []models.Booking) {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := make(map[string]*row, len(bookings))
	for _, b := range bookings {
		r, ok := m.rows[b.BookingNo]
		if !ok {
			r = &row{state: MenuClosed}
		}
		r.booking = b.Clone()
		next[b.BookingNo] = r
	}
	m.rows = next
}

// Toggle opens a closed menu or closes an open one
func (m *Menus) Toggle(bookingNo string) (MenuState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[bookingNo]
	if !ok {
		return MenuClosed, ErrUnknownRow
	}
	if !LegalActions(r.booking.BookingStatus).TakeAction {
		return r.state, ErrActionDisabled
	}
	if r.state == MenuOpen {
		r.state = MenuClosed
	} else {
		r.state = MenuOpen
	}
	return r.state, nil
}

// PointerDown closes every open menu except the one whose region received the
// interaction. An empty bookingNo is an interaction outside all rows.
func (m *Menus) PointerDown(bookingNo string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for no, r := range m.rows {
		if no != bookingNo {
			r.state = MenuClosed
		}
	}
}

// State returns the menu state of a row
func (m *Menus) State(bookingNo string) (MenuState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[bookingNo]
	if !ok {
		return MenuClosed, false
	}
	return r.state, true
}

// OpenRows returns the booking numbers whose menu is open
func (m *Menus) OpenRows() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	var open []string
	for no, r := range m.rows {
		if r.state == MenuOpen {
			open = append(open, no)
		}
	}
	return open
}

// Select checks that action is legal for the row and returns the booking it
// applies to. The menu state is left unchanged.
func (m *Menus) Select(bookingNo string, action Action) (models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.rows[bookingNo]
	if !ok {
		return models.Booking{}, ErrUnknownRow
	}
	if !LegalActions(r.booking.BookingStatus).Allows(action) {
		return models.Booking{}, ErrActionNotAllowed
	}
	return r.booking.Clone(), nil
}

// Len returns the number of tracked rows
func (m *Menus) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}
