package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "chat/completions", "test API error")

	if err == nil {
		t.Fatal("Expected non-nil error")
	}

	expected := "API error [400] at chat/completions: test API error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "chat/completions", "boom")
	if noStatus.Error() != "API error at chat/completions: boom" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestNewAPIErrorFromBody(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
		wantType string
		wantMsg  string
	}{
		{
			name:     "wrapped error object",
			status:   401,
			body:     `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`,
			wantCode: "invalid_api_key",
			wantType: "invalid_request_error",
			wantMsg:  "Incorrect API key provided",
		},
		{
			name:     "bare error object",
			status:   429,
			body:     `{"message":"You exceeded your current quota","type":"insufficient_quota","code":"insufficient_quota"}`,
			wantCode: "insufficient_quota",
			wantType: "insufficient_quota",
			wantMsg:  "You exceeded your current quota",
		},
		{
			name:    "not json",
			status:  502,
			body:    "Bad Gateway",
			wantMsg: "Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewAPIErrorFromBody(tt.status, "chat/completions", tt.body)
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if err.Code != tt.wantCode {
				t.Errorf("Code = %q, want %q", err.Code, tt.wantCode)
			}
			if err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", err.Type, tt.wantType)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestAPIErrorIs(t *testing.T) {
	tests := []struct {
		name      string
		err       *APIError
		auth      bool
		rateLimit bool
	}{
		{"401", &APIError{StatusCode: 401}, true, false},
		{"403", &APIError{StatusCode: 403}, true, false},
		{"invalid key code", &APIError{StatusCode: 400, Code: "invalid_api_key"}, true, false},
		{"429", &APIError{StatusCode: 429}, false, true},
		{"quota code", &APIError{StatusCode: 400, Code: "insufficient_quota"}, false, true},
		{"500", &APIError{StatusCode: 500}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("reply failed: %w", tt.err)
			if got := IsAuthError(wrapped); got != tt.auth {
				t.Errorf("IsAuthError() = %v, want %v", got, tt.auth)
			}
			if got := IsRateLimitError(wrapped); got != tt.rateLimit {
				t.Errorf("IsRateLimitError() = %v, want %v", got, tt.rateLimit)
			}
			if GetHTTPStatus(wrapped) != tt.err.StatusCode {
				t.Errorf("GetHTTPStatus() = %d, want %d", GetHTTPStatus(wrapped), tt.err.StatusCode)
			}
		})
	}
}

func TestAPIErrorUnwrap(t *testing.T) {
	cause := errors.New("underlying")
	err := &APIError{StatusCode: 500, Endpoint: "x", Message: "m", Err: cause}
	if !errors.Is(err, cause) {
		t.Error("Expected APIError to unwrap to its cause")
	}
	if GetErrorCode(err) != "" {
		t.Errorf("GetErrorCode() = %q, want empty", GetErrorCode(err))
	}
	if GetEndpoint(err) != "x" {
		t.Errorf("GetEndpoint() = %q, want x", GetEndpoint(err))
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("test timeout error")

	expected := "request timed out: test timeout error"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if NewTimeoutError("").Error() != "request timed out" {
		t.Errorf("empty message Error() = %s", NewTimeoutError("").Error())
	}
	if !IsTimeoutError(err) {
		t.Error("Expected TimeoutError to be a timeout")
	}
	if !IsTimeoutError(fmt.Errorf("wrap: %w", context.DeadlineExceeded)) {
		t.Error("Expected DeadlineExceeded to be a timeout")
	}
	if IsNetworkError(err) {
		t.Error("Timeouts should not be reported as network errors")
	}
}

func TestNetworkError(t *testing.T) {
	opErr := &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}
	if !IsNetworkError(fmt.Errorf("request: %w", opErr)) {
		t.Error("Expected OpError to be a network error")
	}
	if IsNetworkError(nil) {
		t.Error("nil should not be a network error")
	}
	if IsNetworkError(errors.New("plain")) {
		t.Error("plain error should not be a network error")
	}
}

func TestGenerationError(t *testing.T) {
	err := NewGenerationError("bad date", ErrInvalidDate)

	expected := "flight generation failed: bad date: invalid date"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}
	if !errors.Is(err, ErrInvalidDate) {
		t.Error("Expected GenerationError to unwrap to ErrInvalidDate")
	}
	if !IsGenerationError(fmt.Errorf("wrap: %w", err)) {
		t.Error("Expected IsGenerationError to see through wrapping")
	}
	if NewGenerationError("x", nil).Error() != "flight generation failed: x" {
		t.Errorf("Error() = %s", NewGenerationError("x", nil).Error())
	}
}
