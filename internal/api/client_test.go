package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/tidwall/gjson"

	apierrors "github.com/Elijahuni/chatbot-1/internal/errors"
	"github.com/Elijahuni/chatbot-1/internal/models"
)

// sseServer serves canned chat completion chunks and records the last request body
type sseServer struct {
	*httptest.Server
	mu       sync.Mutex
	lastBody string
	lastAuth string
}

func chunkJSON(content string) string {
	return fmt.Sprintf(`{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1700000000,"model":"gpt-3.5-turbo","choices":[{"index":0,"delta":{"content":%q},"finish_reason":null}]}`, content)
}

func newSSEServer(t *testing.T, status int, chunks []string, errBody string) *sseServer {
	t.Helper()
	s := &sseServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		s.mu.Lock()
		s.lastBody = string(body)
		s.lastAuth = r.Header.Get("Authorization")
		s.mu.Unlock()

		if status != http.StatusOK {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			_, _ = io.WriteString(w, errBody)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		for _, c := range chunks {
			fmt.Fprintf(w, "data: %s\n\n", chunkJSON(c))
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
		_, _ = io.WriteString(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *sseServer) body() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastBody
}

func (s *sseServer) auth() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAuth
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name      string
		apiKey    string
		opts      []ClientOption
		wantErr   error
		wantModel models.Model
	}{
		{
			name:      "defaults",
			apiKey:    "sk-test",
			wantModel: models.DefaultModel,
		},
		{
			name:      "with custom model",
			apiKey:    "sk-test",
			opts:      []ClientOption{WithModel(models.ModelGPT4o)},
			wantModel: models.ModelGPT4o,
		},
		{
			name:    "empty key",
			apiKey:  "",
			wantErr: apierrors.ErrMissingAPIKey,
		},
		{
			name:    "whitespace key",
			apiKey:  "   ",
			wantErr: apierrors.ErrMissingAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.apiKey, tt.opts...)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewClient() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewClient() unexpected error: %v", err)
			}
			if client.GetModel() != tt.wantModel {
				t.Errorf("GetModel() = %v, want %v", client.GetModel(), tt.wantModel)
			}
			if client.timeout != DefaultTimeout {
				t.Errorf("timeout = %v, want %v", client.timeout, DefaultTimeout)
			}
		})
	}
}

func TestClientSetModel(t *testing.T) {
	client, _ := NewClient("sk-test")
	client.SetModel(models.ModelGPT4oMini)
	if client.GetModel().Name != "gpt-4o-mini" {
		t.Errorf("GetModel() = %s, want gpt-4o-mini", client.GetModel().Name)
	}
}

func TestStreamChat(t *testing.T) {
	srv := newSSEServer(t, http.StatusOK, []string{"안녕", "", "하세요", "!"}, "")

	client, err := NewClient("sk-test", WithBaseURL(srv.URL+"/"), WithModel(models.ModelGPT35Turbo))
	if err != nil {
		t.Fatal(err)
	}

	messages := []models.Message{
		{Role: models.RoleSystem, Content: "You are a travel agent."},
		{Role: models.RoleUser, Content: "제주도 추천해줘"},
	}

	var got []string
	text, err := Collect(client.StreamChat(context.Background(), messages), func(chunk string) {
		got = append(got, chunk)
	})
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if text != "안녕하세요!" {
		t.Errorf("text = %q, want %q", text, "안녕하세요!")
	}
	// Empty deltas are not delivered
	if want := []string{"안녕", "하세요", "!"}; strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("chunks = %v, want %v", got, want)
	}

	body := srv.body()
	if m := gjson.Get(body, "model").String(); m != "gpt-3.5-turbo" {
		t.Errorf("request model = %q, want gpt-3.5-turbo", m)
	}
	if !gjson.Get(body, "stream").Bool() {
		t.Error("request should set stream=true")
	}
	roles := gjson.Get(body, "messages.#.role").Array()
	if len(roles) != 2 || roles[0].String() != "system" || roles[1].String() != "user" {
		t.Errorf("request roles = %v, want [system user]", roles)
	}
	if c := gjson.Get(body, "messages.0.content").String(); c != "You are a travel agent." {
		t.Errorf("system content = %q", c)
	}
	if auth := srv.auth(); auth != "Bearer sk-test" {
		t.Errorf("Authorization = %q, want Bearer sk-test", auth)
	}
}

func TestStreamChatAuthError(t *testing.T) {
	errBody := `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`
	srv := newSSEServer(t, http.StatusUnauthorized, nil, errBody)

	client, _ := NewClient("sk-bad", WithBaseURL(srv.URL+"/"))
	text, err := Collect(client.StreamChat(context.Background(), []models.Message{{Role: models.RoleUser, Content: "hi"}}), nil)

	if text != "" {
		t.Errorf("text = %q, want empty", text)
	}
	if !apierrors.IsAuthError(err) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if status := apierrors.GetHTTPStatus(err); status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", status)
	}
	if ep := apierrors.GetEndpoint(err); ep != models.EndpointChatCompletions {
		t.Errorf("endpoint = %q, want %q", ep, models.EndpointChatCompletions)
	}
}

func TestStreamChatRateLimit(t *testing.T) {
	errBody := `{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`
	srv := newSSEServer(t, http.StatusTooManyRequests, nil, errBody)

	client, _ := NewClient("sk-test", WithBaseURL(srv.URL+"/"))
	_, err := Collect(client.StreamChat(context.Background(), []models.Message{{Role: models.RoleUser, Content: "hi"}}), nil)

	if !apierrors.IsRateLimitError(err) {
		t.Fatalf("expected rate limit error, got %v", err)
	}
}

func TestStreamChatTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client, _ := NewClient("sk-test", WithBaseURL(srv.URL+"/"), WithTimeout(50*time.Millisecond))
	_, err := Collect(client.StreamChat(context.Background(), []models.Message{{Role: models.RoleUser, Content: "hi"}}), nil)

	if !apierrors.IsTimeoutError(err) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestStreamChatClosedClient(t *testing.T) {
	client, _ := NewClient("sk-test")
	client.Close()
	if !client.IsClosed() {
		t.Fatal("IsClosed() = false after Close()")
	}

	_, err := Collect(client.StreamChat(context.Background(), nil), nil)
	if err == nil {
		t.Error("expected error from closed client")
	}
}

func TestToSDKMessagesKeepsOrder(t *testing.T) {
	in := []models.Message{
		{Role: models.RoleSystem, Content: "s"},
		{Role: models.RoleUser, Content: "u1"},
		{Role: models.RoleAssistant, Content: "a1"},
		{Role: models.RoleUser, Content: "u2"},
	}
	out := toSDKMessages(in)
	if len(out) != len(in) {
		t.Fatalf("len = %d, want %d", len(out), len(in))
	}
	if out[0].OfSystem == nil || out[1].OfUser == nil || out[2].OfAssistant == nil || out[3].OfUser == nil {
		t.Error("roles were not mapped in order")
	}
}
