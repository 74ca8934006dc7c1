package api

import (
	"context"
	"sync"

	"github.com/diogo/tutorchat/internal/models"
)

// MockChatClient is a mock implementation of ChatClientInterface for testing
type MockChatClient struct {
	mu sync.Mutex

	// Mock return values
	ChatReply  string
	ChatErr    error
	HealthVal  *models.HealthStatus
	HealthErr  error
	BaseURLVal string
	// Gate, when set, makes Chat block until it is closed or ctx is done
	Gate chan struct{}

	// Call counters/recorders
	ChatCalls   int
	Messages    []string
	CloseCalled bool
	closed      bool
}

// Ensure MockChatClient implements ChatClientInterface
var _ ChatClientInterface = (*MockChatClient)(nil)

func (m *MockChatClient) Chat(ctx context.Context, message string) (string, error) {
	m.mu.Lock()
	m.ChatCalls++
	m.Messages = append(m.Messages, message)
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ChatReply, m.ChatErr
}

func (m *MockChatClient) Health(ctx context.Context) (*models.HealthStatus, error) {
	return m.HealthVal, m.HealthErr
}

func (m *MockChatClient) BaseURL() string {
	if m.BaseURLVal == "" {
		return models.DefaultBaseURL
	}
	return m.BaseURLVal
}

func (m *MockChatClient) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	m.closed = true
}

func (m *MockChatClient) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Calls returns the number of Chat calls so far
func (m *MockChatClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ChatCalls
}
