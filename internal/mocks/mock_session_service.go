package mocks

import (
	"context"

	"github.com/you/portalauth/domain"
)

// MockSessionService implements domain.SessionService for testing
type MockSessionService struct {
	ValidateAccessCodeFunc func(ctx context.Context, code string) (*domain.PortalClient, error)
	CreateSessionFunc      func(ctx context.Context, clientID uint) (string, error)
	ValidateSessionFunc    func(ctx context.Context, token string) (*domain.PortalClient, error)
	DeleteSessionFunc      func(ctx context.Context, token string) error
}

// NewMockSessionService creates a new MockSessionService with default behaviors
func NewMockSessionService() *MockSessionService {
	return &MockSessionService{}
}

// ValidateAccessCode validates an access code
func (m *MockSessionService) ValidateAccessCode(ctx context.Context, code string) (*domain.PortalClient, error) {
	if m.ValidateAccessCodeFunc != nil {
		return m.ValidateAccessCodeFunc(ctx, code)
	}
	// Default behavior: not found
	return nil, domain.ErrClientNotFound
}

// CreateSession creates a session for a client
func (m *MockSessionService) CreateSession(ctx context.Context, clientID uint) (string, error) {
	if m.CreateSessionFunc != nil {
		return m.CreateSessionFunc(ctx, clientID)
	}
	// Default behavior: fixed token
	return "test-session-token", nil
}

// ValidateSession validates a session token
func (m *MockSessionService) ValidateSession(ctx context.Context, token string) (*domain.PortalClient, error) {
	if m.ValidateSessionFunc != nil {
		return m.ValidateSessionFunc(ctx, token)
	}
	// Default behavior: not found
	return nil, domain.ErrSessionNotFound
}

// DeleteSession revokes a session
func (m *MockSessionService) DeleteSession(ctx context.Context, token string) error {
	if m.DeleteSessionFunc != nil {
		return m.DeleteSessionFunc(ctx, token)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionService = (*MockSessionService)(nil)
