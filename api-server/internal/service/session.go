package service

import (
	"context"
	"sync"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/bookingflow"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/rowaction"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/websocket"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/google/uuid"
)

// session bundles the state machines of one operator screen
type session struct {
	id       uuid.UUID
	tenantID string
	paged    bool

	controller *search.Controller
	menus      *rowaction.Menus
	cancel     *bookingflow.CancelWorkflow
	payment    *bookingflow.PaymentWorkflow
	outbox     *outbox
}

func newSession(id uuid.UUID, tenantID string, paged bool, pageSize int, deps Dependencies) *session {
	sess := &session{
		id:       id,
		tenantID: tenantID,
		paged:    paged,
		menus:    rowaction.NewMenus(),
		outbox:   &outbox{sessionID: id.String(), publisher: deps.Publisher},
	}

	searcher := deps.Metrics.InstrumentSearch(deps.Searcher(tenantID))
	sess.controller = search.NewController(search.Config{
		TenantID:       tenantID,
		PageSize:       pageSize,
		FenceResponses: deps.FenceResponses,
		Now:            deps.Now,
	}, searcher, deps.Catalog, sess.outbox, search.WithResultsHook(sess.onResults))

	sess.cancel = bookingflow.NewCancelWorkflow(deps.Mutation, sess.controller, sess.outbox)
	sess.payment = bookingflow.NewPaymentWorkflow(deps.Availability, sess.outbox, sess.outbox)
	return sess
}

func (s *session) onResults(rs search.ResultSet) {
	s.menus.Sync(rs.Bookings)
	s.outbox.resultsUpdated(rs.TotalCount)
}

// outbox records what was last shown to the operator and pushes it to websocket clients.
// It is the Notifier and Navigator of a session.
type outbox struct {
	sessionID string
	publisher Publisher

	mu           sync.Mutex
	notification *models.Notification
	navigation   *Navigation
}

func (o *outbox) Show(ctx context.Context, n models.Notification) {
	o.mu.Lock()
	o.notification = &n
	o.mu.Unlock()
	o.publish(&websocket.Message{Type: websocket.MessageTypeNotification, Notification: &n})
}

func (o *outbox) Clear(ctx context.Context) {
	o.mu.Lock()
	o.notification = nil
	o.mu.Unlock()
	o.publish(&websocket.Message{Type: websocket.MessageTypeClear})
}

func (o *outbox) GoTo(ctx context.Context, route string, state models.PaymentCollectionState) {
	o.mu.Lock()
	o.navigation = &Navigation{Route: route, State: state}
	o.mu.Unlock()
	o.publish(&websocket.Message{Type: websocket.MessageTypeNavigate, Route: route, State: &state})
}

func (o *outbox) resultsUpdated(total int) {
	o.publish(&websocket.Message{Type: websocket.MessageTypeResultsUpdated, TotalCount: &total})
}

func (o *outbox) snapshot() (*models.Notification, *Navigation) {
	o.mu.Lock()
	defer o.mu.Unlock()
	var n *models.Notification
	if o.notification != nil {
		copied := *o.notification
		n = &copied
	}
	var nav *Navigation
	if o.navigation != nil {
		copied := *o.navigation
		nav = &copied
	}
	return n, nav
}

func (o *outbox) publish(msg *websocket.Message) {
	if o.publisher == nil {
		return
	}
	msg.SessionID = o.sessionID
	o.publisher.Publish(msg)
}
