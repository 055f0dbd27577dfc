package mocks

import (
	"context"

	"github.com/you/portalauth/domain"
)

// MockIdentityStore implements domain.IdentityStore for testing
type MockIdentityStore struct {
	SaveFunc func(ctx context.Context, identity *domain.AuthenticatedIdentity) error
	FindFunc func(ctx context.Context, username string) (*domain.AuthenticatedIdentity, error)
}

// NewMockIdentityStore creates a new MockIdentityStore with default behaviors
func NewMockIdentityStore() *MockIdentityStore {
	return &MockIdentityStore{}
}

// Save stores an identity
func (m *MockIdentityStore) Save(ctx context.Context, identity *domain.AuthenticatedIdentity) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, identity)
	}
	// Default behavior: success
	return nil
}

// Find looks up an identity by username
func (m *MockIdentityStore) Find(ctx context.Context, username string) (*domain.AuthenticatedIdentity, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, username)
	}
	// Default behavior: not found
	return nil, domain.ErrIdentityNotFound
}

// Compile-time interface compliance verification
var _ domain.IdentityStore = (*MockIdentityStore)(nil)
