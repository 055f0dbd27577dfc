package mocks

import (
	"context"
	"sync"

	"github.com/you/portalauth/domain"
)

// MockMessengerService implements domain.MessengerService for testing. It
// records sent messages so tests can assert on reply content
type MockMessengerService struct {
	SendMessageFunc func(chatID int64, text string) error
	GetUpdatesFunc  func(ctx context.Context, afterID int64) ([]domain.Update, error)
	ConfiguredFunc  func() bool

	mu   sync.Mutex
	sent []SentMessage
}

// SentMessage is one recorded SendMessage call
type SentMessage struct {
	ChatID int64
	Text   string
}

// NewMockMessengerService creates a new MockMessengerService with default behaviors
func NewMockMessengerService() *MockMessengerService {
	return &MockMessengerService{}
}

// SendMessage records the message and delegates to SendMessageFunc if set
func (m *MockMessengerService) SendMessage(chatID int64, text string) error {
	m.mu.Lock()
	m.sent = append(m.sent, SentMessage{ChatID: chatID, Text: text})
	m.mu.Unlock()

	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(chatID, text)
	}
	// Default behavior: success
	return nil
}

// GetUpdates returns the next batch of updates
func (m *MockMessengerService) GetUpdates(ctx context.Context, afterID int64) ([]domain.Update, error) {
	if m.GetUpdatesFunc != nil {
		return m.GetUpdatesFunc(ctx, afterID)
	}
	// Default behavior: empty batch
	return nil, nil
}

// Configured reports transport configuration state
func (m *MockMessengerService) Configured() bool {
	if m.ConfiguredFunc != nil {
		return m.ConfiguredFunc()
	}
	// Default behavior: configured
	return true
}

// Sent returns a copy of the recorded messages
func (m *MockMessengerService) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// Compile-time interface compliance verification
var _ domain.MessengerService = (*MockMessengerService)(nil)
