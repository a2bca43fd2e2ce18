package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrAuthorizationExpired matches any error produced by a 401 response
var ErrAuthorizationExpired = errors.New("authorization expired")

// APIError is a non-2xx response carrying an optional {"error": "..."} message
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return fmt.Sprintf("request failed (status %d): %s", e.StatusCode, e.Body)
}

// Is reports 401 responses as ErrAuthorizationExpired
func (e *APIError) Is(target error) bool {
	return target == ErrAuthorizationExpired && e.StatusCode == http.StatusUnauthorized
}

// ValidationError holds field errors, either reported by the server in an
// {"errors": [...]} payload or found before the request was sent (StatusCode 0).
type ValidationError struct {
	StatusCode int
	Messages   []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// Is reports 401 responses as ErrAuthorizationExpired
func (e *ValidationError) Is(target error) bool {
	return target == ErrAuthorizationExpired && e.StatusCode == http.StatusUnauthorized
}

// AuthenticationError is returned when login or registration is rejected
type AuthenticationError struct {
	Message string
	Err     error
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// NetworkError wraps transport failures, including the per-request timeout
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request hit its deadline
func (e *NetworkError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

func newResponseError(status int, body []byte) error {
	var payload struct {
		Error   string   `json:"error"`
		Errors  []string `json:"errors"`
		Message string   `json:"message"`
	}
	_ = json.Unmarshal(body, &payload)

	if len(payload.Errors) > 0 {
		return &ValidationError{StatusCode: status, Messages: payload.Errors}
	}

	message := payload.Error
	if message == "" {
		message = payload.Message
	}

	return &APIError{
		StatusCode: status,
		Message:    message,
		Body:       strings.TrimSpace(string(body)),
	}
}

// Message turns err into a display-ready string: joined validation messages,
// then the server's error message, then fallback. An empty fallback means err.Error().
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Error()
	}

	var authErr *AuthenticationError
	if errors.As(err, &authErr) && authErr.Message != "" {
		return authErr.Message
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}

	if fallback != "" {
		return fallback
	}
	return err.Error()
}
