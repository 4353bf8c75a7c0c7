// Package errors provides the error types shared by the chatbot packages.
package errors

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/tidwall/gjson"
)

// Sentinel errors for common cases
var (
	ErrAuthFailed              = errors.New("authentication failed")
	ErrRateLimited             = errors.New("rate limit exceeded")
	ErrMissingAPIKey           = errors.New("no API key provided")
	ErrUnknownProfile          = errors.New("unknown profile")
	ErrSessionNotReady         = errors.New("session has no active profile")
	ErrInvalidDate             = errors.New("invalid date")
	ErrFlightSearchUnavailable = errors.New("flight search is only available for the travel profile")
	ErrSessionReset            = errors.New("session was reset while the reply was streaming")
)

// APIError represents a model API request failure
type APIError struct {
	StatusCode int
	Code       string // provider error code, e.g. "invalid_api_key"
	Type       string // provider error type, e.g. "invalid_request_error"
	Message    string
	Endpoint   string
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("API error [%d] at %s: %s", e.StatusCode, e.Endpoint, e.Message)
	}
	return fmt.Sprintf("API error at %s: %s", e.Endpoint, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Is matches the auth and rate limit sentinels by status code and provider code.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrAuthFailed:
		return e.StatusCode == 401 || e.StatusCode == 403 || e.Code == "invalid_api_key"
	case ErrRateLimited:
		return e.StatusCode == 429 || e.Code == "rate_limit_exceeded" || e.Code == "insufficient_quota"
	}
	_, ok := target.(*APIError)
	return ok
}

// NewAPIError creates a new APIError
func NewAPIError(statusCode int, endpoint, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Endpoint:   endpoint,
		Message:    message,
	}
}

// NewAPIErrorFromBody creates an APIError from a provider error body.
// Both the wrapped form {"error": {...}} and the bare error object are accepted.
func NewAPIErrorFromBody(statusCode int, endpoint, body string) *APIError {
	apiErr := NewAPIError(statusCode, endpoint, "")
	if !gjson.Valid(body) {
		apiErr.Message = body
		return apiErr
	}

	obj := gjson.Parse(body)
	if inner := obj.Get("error"); inner.IsObject() {
		obj = inner
	}

	apiErr.Code = obj.Get("code").String()
	apiErr.Type = obj.Get("type").String()
	apiErr.Message = obj.Get("message").String()
	if apiErr.Message == "" {
		apiErr.Message = body
	}
	return apiErr
}

// TimeoutError represents a request timeout
type TimeoutError struct {
	Message string
}

func (e *TimeoutError) Error() string {
	if e.Message == "" {
		return "request timed out"
	}
	return fmt.Sprintf("request timed out: %s", e.Message)
}

// NewTimeoutError creates a new TimeoutError
func NewTimeoutError(message string) *TimeoutError {
	return &TimeoutError{Message: message}
}

// GenerationError wraps a failure of the mock flight generator
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("flight generation failed: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("flight generation failed: %s", e.Message)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError creates a new GenerationError
func NewGenerationError(message string, err error) *GenerationError {
	return &GenerationError{Message: message, Err: err}
}

// IsAuthError reports whether err is an authentication failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

// IsRateLimitError reports whether err is a rate limit or quota failure
func IsRateLimitError(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeoutError reports whether err is a timeout
func IsTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	var te *TimeoutError
	if errors.As(err, &te) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsNetworkError reports whether err is a transport failure that is not a timeout
func IsNetworkError(err error) bool {
	if err == nil || IsTimeoutError(err) {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	var opErr *net.OpError
	return errors.As(err, &opErr)
}

// IsGenerationError reports whether err came from the flight generator
func IsGenerationError(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

// GetHTTPStatus returns the HTTP status of an APIError in the chain, or 0
func GetHTTPStatus(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetErrorCode returns the provider error code of an APIError in the chain
func GetErrorCode(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return ""
}

// GetEndpoint returns the endpoint of an APIError in the chain
func GetEndpoint(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Endpoint
	}
	return ""
}
