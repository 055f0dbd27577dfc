package mocks

import (
	"context"
	"time"

	"github.com/you/portalauth/domain"
)

// MockClientRepository implements domain.ClientRepository for testing
type MockClientRepository struct {
	CreateFunc                 func(ctx context.Context, client *domain.PortalClient) error
	FindByIDFunc               func(ctx context.Context, id uint) (*domain.PortalClient, error)
	FindByAccessCodeFunc       func(ctx context.Context, code string) (*domain.PortalClient, error)
	FindByTelegramUsernameFunc func(ctx context.Context, username string) (*domain.PortalClient, error)
	UpdateLastLoginFunc        func(ctx context.Context, id uint, at time.Time) error
}

// NewMockClientRepository creates a new MockClientRepository with default behaviors
func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{}
}

// Create creates a portal client
func (m *MockClientRepository) Create(ctx context.Context, client *domain.PortalClient) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, client)
	}
	// Default behavior: success
	return nil
}

// FindByID finds a client by id
func (m *MockClientRepository) FindByID(ctx context.Context, id uint) (*domain.PortalClient, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	// Default behavior: not found
	return nil, domain.ErrClientNotFound
}

// FindByAccessCode finds a client by access code
func (m *MockClientRepository) FindByAccessCode(ctx context.Context, code string) (*domain.PortalClient, error) {
	if m.FindByAccessCodeFunc != nil {
		return m.FindByAccessCodeFunc(ctx, code)
	}
	// Default behavior: not found
	return nil, domain.ErrClientNotFound
}

// FindByTelegramUsername finds a client by linked telegram username
func (m *MockClientRepository) FindByTelegramUsername(ctx context.Context, username string) (*domain.PortalClient, error) {
	if m.FindByTelegramUsernameFunc != nil {
		return m.FindByTelegramUsernameFunc(ctx, username)
	}
	// Default behavior: not found
	return nil, domain.ErrClientNotFound
}

// UpdateLastLogin stamps the client's last login time
func (m *MockClientRepository) UpdateLastLogin(ctx context.Context, id uint, at time.Time) error {
	if m.UpdateLastLoginFunc != nil {
		return m.UpdateLastLoginFunc(ctx, id, at)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.ClientRepository = (*MockClientRepository)(nil)
