package gogun

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound indicates that the requested resource could not be found.
	// A 404 *APIError satisfies errors.Is(err, ErrNotFound).
	ErrNotFound = errors.New("resource not found")

	// ErrDecodeResponse indicates a 2xx response whose body could not be
	// decoded as the expected JSON shape.
	ErrDecodeResponse = errors.New("cannot decode response body")
)

// maxRawErrorBody caps how much of a non-JSON error body is surfaced.
const maxRawErrorBody = 200

// APIError is a non-2xx response from the Mailgun API.
type APIError struct {
	// StatusCode is the HTTP status returned by Mailgun.
	StatusCode int
	// Method and URL identify the failed request.
	Method string
	URL    string
	// Message is Mailgun's error message when the body carried one,
	// otherwise a truncated copy of the raw body.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("mailgun: %s %s returned %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("mailgun: %s %s returned %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Is maps 404 responses onto the ErrNotFound sentinel.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func newAPIError(method, rawURL string, status int, body []byte) *APIError {
	apiErr := &APIError{
		StatusCode: status,
		Method:     method,
		URL:        rawURL,
	}

	var envelope struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Message != "" {
		apiErr.Message = envelope.Message
		return apiErr
	}

	raw := strings.TrimSpace(string(body))
	if len(raw) > maxRawErrorBody {
		raw = raw[:maxRawErrorBody]
	}
	apiErr.Message = raw

	return apiErr
}
