package api

import (
	"context"
	"sync"

	"github.com/Elijahuni/chatbot-1/internal/models"
)

// MockClient is a ChatClient that replays canned fragments
type MockClient struct {
	// Mock return values
	Chunks []string
	Err    error
	Model  models.Model

	// Call recorders
	mu           sync.Mutex
	Calls        int
	LastMessages []models.Message
	CloseCalled  bool
}

// Ensure MockClient implements ChatClient
var _ ChatClient = (*MockClient)(nil)

// NewMockClient returns a mock that streams chunks and then fails with err, if set
func NewMockClient(chunks []string, err error) *MockClient {
	return &MockClient{Chunks: chunks, Err: err, Model: models.DefaultModel}
}

func (m *MockClient) StreamChat(ctx context.Context, messages []models.Message) ChunkStream {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls++
	m.LastMessages = append([]models.Message(nil), messages...)
	return NewSliceStream(ctx, m.Chunks, m.Err)
}

func (m *MockClient) GetModel() models.Model {
	return m.Model
}

func (m *MockClient) SetModel(model models.Model) {
	m.Model = model
}

func (m *MockClient) Close() {
	m.CloseCalled = true
}

// CallCount returns how many streams were started
func (m *MockClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

// Sent returns a copy of the messages passed to the last StreamChat call
func (m *MockClient) Sent() []models.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Message(nil), m.LastMessages...)
}
