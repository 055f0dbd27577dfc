package mocks

import (
	"context"

	"github.com/you/portalauth/domain"
)

// MockChallengeStore implements domain.ChallengeStore for testing
type MockChallengeStore struct {
	SaveFunc           func(ctx context.Context, challenge *domain.LoginChallenge) error
	FindByUsernameFunc func(ctx context.Context, username string) (*domain.LoginChallenge, error)
	FindByCodeFunc     func(ctx context.Context, code string) (*domain.LoginChallenge, error)
	MarkVerifiedFunc   func(ctx context.Context, username string) error
	DeleteFunc         func(ctx context.Context, username string) error
}

// NewMockChallengeStore creates a new MockChallengeStore with default behaviors
func NewMockChallengeStore() *MockChallengeStore {
	return &MockChallengeStore{}
}

// Save stores a challenge
func (m *MockChallengeStore) Save(ctx context.Context, challenge *domain.LoginChallenge) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, challenge)
	}
	// Default behavior: success
	return nil
}

// FindByUsername finds a challenge by username
func (m *MockChallengeStore) FindByUsername(ctx context.Context, username string) (*domain.LoginChallenge, error) {
	if m.FindByUsernameFunc != nil {
		return m.FindByUsernameFunc(ctx, username)
	}
	// Default behavior: not found
	return nil, domain.ErrChallengeNotFound
}

// FindByCode finds a challenge by login code
func (m *MockChallengeStore) FindByCode(ctx context.Context, code string) (*domain.LoginChallenge, error) {
	if m.FindByCodeFunc != nil {
		return m.FindByCodeFunc(ctx, code)
	}
	// Default behavior: not found
	return nil, domain.ErrChallengeNotFound
}

// MarkVerified marks a challenge verified
func (m *MockChallengeStore) MarkVerified(ctx context.Context, username string) error {
	if m.MarkVerifiedFunc != nil {
		return m.MarkVerifiedFunc(ctx, username)
	}
	// Default behavior: not found
	return domain.ErrChallengeNotFound
}

// Delete removes a challenge
func (m *MockChallengeStore) Delete(ctx context.Context, username string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, username)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.ChallengeStore = (*MockChallengeStore)(nil)
