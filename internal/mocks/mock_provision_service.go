package mocks

import (
	"context"

	"github.com/you/portalauth/domain"
)

// MockProvisionService implements domain.ProvisionService for testing
type MockProvisionService struct {
	ProvisionFunc func(ctx context.Context, username, firstName string, telegramID int64) (*domain.ProvisionResult, error)
}

// NewMockProvisionService creates a new MockProvisionService with default behaviors
func NewMockProvisionService() *MockProvisionService {
	return &MockProvisionService{}
}

// Provision finds or creates a portal account
func (m *MockProvisionService) Provision(ctx context.Context, username, firstName string, telegramID int64) (*domain.ProvisionResult, error) {
	if m.ProvisionFunc != nil {
		return m.ProvisionFunc(ctx, username, firstName, telegramID)
	}
	// Default behavior: a fresh account
	client := &domain.PortalClient{
		ID:               1,
		Name:             firstName,
		AccessCode:       "ABCD-1234",
		TelegramUsername: username,
		Status:           domain.ClientActive,
	}
	return &domain.ProvisionResult{Client: client, AccessCode: client.AccessCode, IsNew: true}, nil
}

// Compile-time interface compliance verification
var _ domain.ProvisionService = (*MockProvisionService)(nil)
