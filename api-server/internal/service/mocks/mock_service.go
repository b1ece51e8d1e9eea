package mocks

import (
	"context"

	"github.com/cx-tal-miterani/hall-booking-console/api-server/internal/service"
	"github.com/cx-tal-miterani/hall-booking-console/shared/models"
	"github.com/stretchr/testify/mock"
)

// MockConsoleService is a mock implementation of service.ConsoleService
type MockConsoleService struct {
	mock.Mock
}

var _ service.ConsoleService = (*MockConsoleService)(nil)

func (m *MockConsoleService) OpenSession(ctx context.Context, tenantID string, paged bool) (*service.SessionView, error) {
	args := m.Called(ctx, tenantID, paged)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) GetSession(ctx context.Context, sessionID string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) CloseSession(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}

func (m *MockConsoleService) ListHalls(ctx context.Context, sessionID string) ([]models.CommunityHall, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CommunityHall), args.Error(1)
}

func (m *MockConsoleService) Search(ctx context.Context, sessionID string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) SetFilter(ctx context.Context, sessionID, field, value string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID, field, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) SetSort(ctx context.Context, sessionID, column string, descending bool) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID, column, descending)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) NextPage(ctx context.Context, sessionID string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) PreviousPage(ctx context.Context, sessionID string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) SetPageSize(ctx context.Context, sessionID string, size int) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) Reset(ctx context.Context, sessionID string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) ToggleMenu(ctx context.Context, sessionID, bookingNo string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID, bookingNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) PointerDown(ctx context.Context, sessionID, bookingNo string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID, bookingNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) RequestCancel(ctx context.Context, sessionID, bookingNo string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID, bookingNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) ConfirmCancel(ctx context.Context, sessionID string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) DeclineCancel(ctx context.Context, sessionID string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}

func (m *MockConsoleService) CollectPayment(ctx context.Context, sessionID, bookingNo string) (*service.SessionView, error) {
	args := m.Called(ctx, sessionID, bookingNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.SessionView), args.Error(1)
}
