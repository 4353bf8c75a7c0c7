package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/ssestream"

	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/models"
)

// DefaultTimeout bounds a whole streamed reply
const DefaultTimeout = 2 * time.Minute

// Client streams chat completions from an OpenAI-compatible endpoint
type Client struct {
	sdk        openai.Client
	model      models.Model
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	mu         sync.RWMutex
	closed     bool
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithModel sets the model used for every request
func WithModel(model models.Model) ClientOption {
	return func(c *Client) {
		c.model = model
	}
}

// WithBaseURL points the client at an OpenAI-compatible server
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client used by the SDK
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout bounds each streamed reply. Zero disables the bound.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// NewClient creates a Client. The key is held in memory only.
func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, apierrors.ErrMissingAPIKey
	}

	client := &Client{
		model:   models.DefaultModel,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}

	// A failed turn is reported to the user instead of being retried.
	reqOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if client.baseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(client.baseURL))
	}
	if client.httpClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(client.httpClient))
	}
	client.sdk = openai.NewClient(reqOpts...)

	return client, nil
}

// GetModel returns the model used for requests
func (c *Client) GetModel() models.Model {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.model
}

// SetModel changes the model used for requests
func (c *Client) SetModel(model models.Model) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.model = model
}

// Close marks the client closed. Later streams fail immediately.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// IsClosed returns whether the client is closed
func (c *Client) IsClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// StreamChat sends the full message list and streams the reply.
// Request failures surface through the returned stream's Err.
func (c *Client) StreamChat(ctx context.Context, messages []models.Message) ChunkStream {
	if c.IsClosed() {
		return NewSliceStream(ctx, nil, errors.New("client is closed"))
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.GetModel().Name),
		Messages: toSDKMessages(messages),
	}

	cancel := context.CancelFunc(func() {})
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	return &sdkStream{
		stream: c.sdk.Chat.Completions.NewStreaming(ctx, params),
		cancel: cancel,
	}
}

func toSDKMessages(messages []models.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case models.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Content))
		case models.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Content))
		default:
			out = append(out, openai.UserMessage(msg.Content))
		}
	}
	return out
}

// sdkStream adapts the SDK chunk stream to ChunkStream
type sdkStream struct {
	stream  *ssestream.Stream[openai.ChatCompletionChunk]
	cancel  context.CancelFunc
	current string
}

func (s *sdkStream) Next() bool {
	for s.stream.Next() {
		chunk := s.stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			s.current = delta
			return true
		}
	}
	return false
}

func (s *sdkStream) Current() string {
	return s.current
}

func (s *sdkStream) Err() error {
	return convertError(s.stream.Err())
}

func (s *sdkStream) Close() error {
	defer s.cancel()
	return s.stream.Close()
}

// convertError maps SDK failures onto the shared error types
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var sdkErr *openai.Error
	if errors.As(err, &sdkErr) {
		apiErr := apierrors.NewAPIErrorFromBody(sdkErr.StatusCode, models.EndpointChatCompletions, sdkErr.RawJSON())
		if apiErr.Code == "" {
			apiErr.Code = sdkErr.Code
		}
		if apiErr.Type == "" {
			apiErr.Type = sdkErr.Type
		}
		if apiErr.Message == "" {
			apiErr.Message = sdkErr.Message
		}
		apiErr.Err = err
		return apiErr
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apierrors.NewTimeoutError(models.EndpointChatCompletions)
	}
	return err
}
