package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/bookingflow"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/metrics"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/rowaction"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/search"
	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/websocket"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/google/uuid"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrTenantRequired  = errors.New("tenant ID is required")
)

// ConsoleService defines the operator console interface
type ConsoleService interface {
	OpenSession(ctx context.Context, tenantID string, paged bool) (*SessionView, error)
	GetSession(ctx context.Context, sessionID string) (*SessionView, error)
	CloseSession(ctx context.Context, sessionID string) error
	ListHalls(ctx context.Context, sessionID string) ([]models.CommunityHall, error)

	Search(ctx context.Context, sessionID string) (*SessionView, error)
	SetFilter(ctx context.Context, sessionID, field, value string) (*SessionView, error)
	SetSort(ctx context.Context, sessionID, column string, descending bool) (*SessionView, error)
	NextPage(ctx context.Context, sessionID string) (*SessionView, error)
	PreviousPage(ctx context.Context, sessionID string) (*SessionView, error)
	SetPageSize(ctx context.Context, sessionID string, size int) (*SessionView, error)
	Reset(ctx context.Context, sessionID string) (*SessionView, error)

	ToggleMenu(ctx context.Context, sessionID, bookingNo string) (*SessionView, error)
	PointerDown(ctx context.Context, sessionID, bookingNo string) (*SessionView, error)

	RequestCancel(ctx context.Context, sessionID, bookingNo string) (*SessionView, error)
	ConfirmCancel(ctx context.Context, sessionID string) (*SessionView, error)
	DeclineCancel(ctx context.Context, sessionID string) (*SessionView, error)
	CollectPayment(ctx context.Context, sessionID, bookingNo string) (*SessionView, error)
}

// Publisher pushes session events to connected clients
type Publisher interface {
	Publish(msg *websocket.Message)
	Disconnect(sessionID string)
}

// Dependencies are the collaborators shared by every session
type Dependencies struct {
	// Searcher returns the tenant-scoped search collaborator
	Searcher     func(tenantID string) search.SearchCollaborator
	Catalog      search.CatalogCollaborator
	Mutation     bookingflow.MutationCollaborator
	Availability bookingflow.SlotAvailabilityCollaborator
	Publisher    Publisher
	Metrics      *metrics.Metrics

	PageSize       int
	FenceResponses bool
	Now            func() time.Time
}

// consoleServiceImpl implements ConsoleService
type consoleServiceImpl struct {
	deps Dependencies

	mu       sync.RWMutex
	sessions map[uuid.UUID]*session
}

// NewConsoleService creates a new ConsoleService
func NewConsoleService(deps Dependencies) ConsoleService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	return &consoleServiceImpl{
		deps:     deps,
		sessions: make(map[uuid.UUID]*session),
	}
}

func (s *consoleServiceImpl) OpenSession(ctx context.Context, tenantID string, paged bool) (*SessionView, error) {
	if tenantID == "" {
		return nil, ErrTenantRequired
	}

	pageSize := 0
	if paged {
		pageSize = s.deps.PageSize
		if pageSize <= 0 {
			pageSize = search.DefaultPageSize
		}
	}

	sess := newSession(uuid.New(), tenantID, paged, pageSize, s.deps)

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()
	s.deps.Metrics.ActiveSessions.Inc()

	log.Printf("Session %s opened for tenant %s (paged: %t)", sess.id, tenantID, paged)

	err := sess.controller.Initialize(ctx)
	if err != nil {
		log.Printf("Session %s: initialize failed: %v", sess.id, err)
	}
	return sess.view(), err
}

func (s *consoleServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.view(), nil
}

func (s *consoleServiceImpl) CloseSession(ctx context.Context, sessionID string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return ErrSessionNotFound
	}

	s.mu.Lock()
	_, ok := s.sessions[id]
	delete(s.sessions, id)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	if s.deps.Publisher != nil {
		s.deps.Publisher.Disconnect(id.String())
	}
	s.deps.Metrics.ActiveSessions.Dec()
	log.Printf("Session %s closed", id)
	return nil
}

func (s *consoleServiceImpl) ListHalls(ctx context.Context, sessionID string) ([]models.CommunityHall, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.controller.Halls(), nil
}

func (s *consoleServiceImpl) Search(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		return sess.controller.ExecuteSearch(ctx)
	})
}

func (s *consoleServiceImpl) SetFilter(ctx context.Context, sessionID, field, value string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		return sess.controller.SetFilterField(ctx, field, value)
	})
}

func (s *consoleServiceImpl) SetSort(ctx context.Context, sessionID, column string, descending bool) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		return sess.controller.SetSort(ctx, column, descending)
	})
}

func (s *consoleServiceImpl) NextPage(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		return sess.controller.NextPage(ctx)
	})
}

func (s *consoleServiceImpl) PreviousPage(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		return sess.controller.PreviousPage(ctx)
	})
}

func (s *consoleServiceImpl) SetPageSize(ctx context.Context, sessionID string, size int) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		return sess.controller.SetPageSize(ctx, size)
	})
}

func (s *consoleServiceImpl) Reset(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		return sess.controller.Reset(ctx)
	})
}

func (s *consoleServiceImpl) ToggleMenu(ctx context.Context, sessionID, bookingNo string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		_, err := sess.menus.Toggle(bookingNo)
		return err
	})
}

func (s *consoleServiceImpl) PointerDown(ctx context.Context, sessionID, bookingNo string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		sess.menus.PointerDown(bookingNo)
		return nil
	})
}

func (s *consoleServiceImpl) RequestCancel(ctx context.Context, sessionID, bookingNo string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		booking, err := sess.menus.Select(bookingNo, rowaction.ActionCancel)
		if err != nil {
			return err
		}
		return sess.cancel.RequestCancel(booking)
	})
}

func (s *consoleServiceImpl) ConfirmCancel(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		err := sess.cancel.Confirm(ctx)
		switch {
		case errors.Is(err, bookingflow.ErrNotConfirming), errors.Is(err, bookingflow.ErrWorkflowBusy):
			return err
		case errors.Is(err, bookingflow.ErrRefreshFailed):
			// the cancellation is committed; the failed search already raised its toast
			s.deps.Metrics.ObserveCancellation(nil)
			log.Printf("Session %s: %v", sess.id, err)
			return nil
		}
		s.deps.Metrics.ObserveCancellation(err)
		return err
	})
}

func (s *consoleServiceImpl) DeclineCancel(ctx context.Context, sessionID string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		return sess.cancel.Decline()
	})
}

func (s *consoleServiceImpl) CollectPayment(ctx context.Context, sessionID, bookingNo string) (*SessionView, error) {
	return s.apply(sessionID, func(sess *session) error {
		booking, err := sess.menus.Select(bookingNo, rowaction.ActionCollectPayment)
		if err != nil {
			return err
		}
		outcome, err := sess.payment.Initiate(ctx, booking)
		if !errors.Is(err, bookingflow.ErrWorkflowBusy) {
			s.deps.Metrics.ObservePayment(string(outcome))
		}
		return err
	})
}

// apply runs op against a session and returns the resulting view. The view is
// returned alongside op's error so callers can render field errors and toasts.
func (s *consoleServiceImpl) apply(sessionID string, op func(*session) error) (*SessionView, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	err = op(sess)
	return sess.view(), err
}

func (s *consoleServiceImpl) lookup(sessionID string) (*session, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}
