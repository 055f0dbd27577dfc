package mocks

import (
	"context"
	"sync"

	"github.com/you/portalauth/domain"
)

// MockUpdateHandler implements domain.UpdateHandler for testing. It records
// every handled update id in arrival order
type MockUpdateHandler struct {
	HandleUpdateFunc func(ctx context.Context, update *domain.Update) error

	mu      sync.Mutex
	handled []int64
}

// NewMockUpdateHandler creates a new MockUpdateHandler with default behaviors
func NewMockUpdateHandler() *MockUpdateHandler {
	return &MockUpdateHandler{}
}

// HandleUpdate records the update and delegates to HandleUpdateFunc if set
func (m *MockUpdateHandler) HandleUpdate(ctx context.Context, update *domain.Update) error {
	m.mu.Lock()
	m.handled = append(m.handled, update.UpdateID)
	m.mu.Unlock()

	if m.HandleUpdateFunc != nil {
		return m.HandleUpdateFunc(ctx, update)
	}
	// Default behavior: success
	return nil
}

// Handled returns the recorded update ids in arrival order
func (m *MockUpdateHandler) Handled() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]int64, len(m.handled))
	copy(out, m.handled)
	return out
}

// Compile-time interface compliance verification
var _ domain.UpdateHandler = (*MockUpdateHandler)(nil)
