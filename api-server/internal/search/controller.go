package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
)

var (
	// ErrTransport wraps failures of the search and catalog collaborators
	ErrTransport = errors.New("transport failure")
)

// SearchCollaborator executes a booking search for a filter snapshot
type SearchCollaborator interface {
	Search(ctx context.Context, filter FilterState) ([]models.Booking, int, error)
}

// CatalogCollaborator lists the hall codes of a tenant
type CatalogCollaborator interface {
	ListHallCodes(ctx context.Context, tenantID string) ([]models.CommunityHall, error)
}

// Notifier shows and clears operator toasts
type Notifier interface {
	Show(ctx context.Context, n models.Notification)
	Clear(ctx context.Context)
}

// Config carries the session context the controller needs
type Config struct {
	TenantID string
	// PageSize is the default limit; 0 leaves the result unbounded.
	PageSize int
	// FenceResponses discards search responses older than the last applied one.
	// When false the last response to arrive wins.
	FenceResponses bool
	Now            func() time.Time
}

// Option configures a Controller
type Option func(*Controller)

// WithResultsHook registers a callback run after each applied search
func WithResultsHook(fn func(ResultSet)) Option {
	return func(c *Controller) {
		c.onResults = fn
	}
}

// Controller owns the FilterState and ResultSet of one operator session
type Controller struct {
	cfg      Config
	searcher SearchCollaborator
	catalog  CatalogCollaborator
	notifier Notifier

	// applyMu orders result writes with their hook calls
	applyMu sync.Mutex

	mu          sync.Mutex
	filter      FilterState
	results     ResultSet
	fieldErrors map[string]string
	halls       []models.CommunityHall
	seq         uint64
	applied     uint64

	onResults func(ResultSet)
}

// NewController creates a Controller with default filters. Call Initialize to load the first page.
func NewController(cfg Config, searcher SearchCollaborator, catalog CatalogCollaborator, notifier Notifier, opts ...Option) *Controller {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	c := &Controller{
		cfg:         cfg,
		searcher:    searcher,
		catalog:     catalog,
		notifier:    notifier,
		fieldErrors: make(map[string]string),
	}
	c.filter = DefaultFilterState(cfg.Now(), cfg.PageSize)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Initialize resets the filter to its defaults, runs the first search and loads the hall catalog
func (c *Controller) Initialize(ctx context.Context) error {
	c.mu.Lock()
	c.filter = DefaultFilterState(c.cfg.Now(), c.cfg.PageSize)
	c.fieldErrors = make(map[string]string)
	c.mu.Unlock()

	searchErr := c.ExecuteSearch(ctx)

	var catalogErr error
	halls, err := c.catalog.ListHallCodes(ctx, c.cfg.TenantID)
	if err != nil {
		catalogErr = fmt.Errorf("%w: failed to list hall codes: %w", ErrTransport, err)
	} else {
		c.mu.Lock()
		c.halls = append([]models.CommunityHall(nil), halls...)
		c.mu.Unlock()
	}

	return errors.Join(searchErr, catalogErr)
}

// SetFilterField validates and applies one filter field, restarting pagination.
// A validation failure is recorded against the field and no search runs.
func (c *Controller) SetFilterField(ctx context.Context, name, value string) error {
	c.mu.Lock()
	next, err := c.filter.WithField(name, value, c.halls, c.cfg.Now())
	if err != nil {
		c.recordFieldError(err)
		c.mu.Unlock()
		return err
	}
	delete(c.fieldErrors, name)
	next.Offset = 0
	c.filter = next
	c.mu.Unlock()

	return c.ExecuteSearch(ctx)
}

// SetSort changes the sort column and direction. An empty column is ignored.
func (c *Controller) SetSort(ctx context.Context, columnID string, descending bool) error {
	if columnID == "" {
		return nil
	}

	c.mu.Lock()
	c.filter.SortBy = columnID
	c.filter.SortOrder = SortOrderAsc
	if descending {
		c.filter.SortOrder = SortOrderDesc
	}
	c.mu.Unlock()

	return c.ExecuteSearch(ctx)
}

// NextPage advances the offset by one page
func (c *Controller) NextPage(ctx context.Context) error {
	c.mu.Lock()
	c.filter.Offset += c.filter.Limit
	c.mu.Unlock()

	return c.ExecuteSearch(ctx)
}

// PreviousPage moves the offset back by one page, never below zero
func (c *Controller) PreviousPage(ctx context.Context) error {
	c.mu.Lock()
	c.filter.Offset -= c.filter.Limit
	if c.filter.Offset < 0 {
		c.filter.Offset = 0
	}
	c.mu.Unlock()

	return c.ExecuteSearch(ctx)
}

// SetPageSize changes the limit. The offset is kept as is.
func (c *Controller) SetPageSize(ctx context.Context, n int) error {
	c.mu.Lock()
	if n <= 0 {
		err := &ValidationError{Field: FieldLimit, Message: msgInvalidPageSize}
		c.recordFieldError(err)
		c.mu.Unlock()
		return err
	}
	delete(c.fieldErrors, FieldLimit)
	c.filter.Limit = n
	c.mu.Unlock()

	return c.ExecuteSearch(ctx)
}

// Reset restores the default filter, clears errors and toasts and searches again
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	c.filter = DefaultFilterState(c.cfg.Now(), c.cfg.PageSize)
	c.fieldErrors = make(map[string]string)
	c.mu.Unlock()

	c.notifier.Clear(ctx)
	return c.ExecuteSearch(ctx)
}

// ExecuteSearch runs the search collaborator with the current filter snapshot.
// On failure the previous ResultSet is kept and a generic toast is shown.
func (c *Controller) ExecuteSearch(ctx context.Context) error {
	c.mu.Lock()
	snapshot := c.filter
	c.seq++
	seq := c.seq
	c.mu.Unlock()

	bookings, total, err := c.searcher.Search(ctx, snapshot)
	if err != nil {
		c.notifier.Show(ctx, models.Notification{Error: true, Label: models.LabelSomethingWentWrong})
		return fmt.Errorf("%w: failed to search bookings: %w", ErrTransport, err)
	}

	rs := ResultSet{Bookings: bookings, TotalCount: total}.clone()

	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	c.mu.Lock()
	if c.cfg.FenceResponses && seq < c.applied {
		c.mu.Unlock()
		return nil
	}
	c.results = rs
	c.applied = seq
	hook := c.onResults
	c.mu.Unlock()

	if hook != nil {
		hook(rs.clone())
	}
	return nil
}

// Filter returns the current filter snapshot
func (c *Controller) Filter() FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Results returns the last applied result set
func (c *Controller) Results() ResultSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.results.clone()
}

// FieldErrors returns the field-level validation messages
func (c *Controller) FieldErrors() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.fieldErrors))
	for k, v := range c.fieldErrors {
		out[k] = v
	}
	return out
}

// Halls returns the hall catalog loaded at Initialize
func (c *Controller) Halls() []models.CommunityHall {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.CommunityHall(nil), c.halls...)
}

// TenantID returns the tenant the controller searches for
func (c *Controller) TenantID() string {
	return c.cfg.TenantID
}

func (c *Controller) recordFieldError(err error) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		c.fieldErrors[verr.Field] = verr.Message
	}
}
