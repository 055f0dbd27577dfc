package mocks

import (
	"context"

	"github.com/you/portalauth/domain"
)

// MockSessionRepository implements domain.SessionRepository for testing
type MockSessionRepository struct {
	CreateFunc         func(ctx context.Context, session *domain.PortalSession) error
	FindByTokenFunc    func(ctx context.Context, token string) (*domain.PortalSession, error)
	DeleteByTokenFunc  func(ctx context.Context, token string) error
	DeleteByClientFunc func(ctx context.Context, clientID uint) error
}

// NewMockSessionRepository creates a new MockSessionRepository with default behaviors
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{}
}

// Create creates a session
func (m *MockSessionRepository) Create(ctx context.Context, session *domain.PortalSession) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, session)
	}
	// Default behavior: success
	return nil
}

// FindByToken finds a session by token
func (m *MockSessionRepository) FindByToken(ctx context.Context, token string) (*domain.PortalSession, error) {
	if m.FindByTokenFunc != nil {
		return m.FindByTokenFunc(ctx, token)
	}
	// Default behavior: not found
	return nil, domain.ErrSessionNotFound
}

// DeleteByToken removes a session by token
func (m *MockSessionRepository) DeleteByToken(ctx context.Context, token string) error {
	if m.DeleteByTokenFunc != nil {
		return m.DeleteByTokenFunc(ctx, token)
	}
	// Default behavior: success
	return nil
}

// DeleteByClient removes all sessions for a client
func (m *MockSessionRepository) DeleteByClient(ctx context.Context, clientID uint) error {
	if m.DeleteByClientFunc != nil {
		return m.DeleteByClientFunc(ctx, clientID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.SessionRepository = (*MockSessionRepository)(nil)
