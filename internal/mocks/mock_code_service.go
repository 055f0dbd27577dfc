package mocks

import "github.com/you/portalauth/domain"

// MockCodeService implements domain.CodeService for testing
type MockCodeService struct {
	GenerateLoginCodeFunc  func() (string, error)
	GenerateAccessCodeFunc func() (string, error)
}

// NewMockCodeService creates a new MockCodeService with default behaviors
func NewMockCodeService() *MockCodeService {
	return &MockCodeService{}
}

// GenerateLoginCode generates a login code
func (m *MockCodeService) GenerateLoginCode() (string, error) {
	if m.GenerateLoginCodeFunc != nil {
		return m.GenerateLoginCodeFunc()
	}
	// Default behavior: fixed code
	return "K7M2PQ", nil
}

// GenerateAccessCode generates an access code
func (m *MockCodeService) GenerateAccessCode() (string, error) {
	if m.GenerateAccessCodeFunc != nil {
		return m.GenerateAccessCodeFunc()
	}
	// Default behavior: fixed code
	return "ABCD-1234", nil
}

// Compile-time interface compliance verification
var _ domain.CodeService = (*MockCodeService)(nil)
