package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FallbackErrorMessage is surfaced when no usable message can be derived.
const FallbackErrorMessage = "Unexpected error. Please try again."

// HTTPError is a non-2xx response from the backend, body preserved for
// message extraction and caller-level handling.
type HTTPError struct {
	StatusCode int
	Body       []byte
	Method     string
	Path       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// IsStatus reports whether err is an HTTPError with the given status code.
func IsStatus(err error, status int) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.StatusCode == status
}

// NormalizeMessage derives the human-readable message published to the
// global error channel: a string response body verbatim, else the body's
// message field, else the error's own text, else a fixed fallback.
func NormalizeMessage(err error) string {
	if err == nil {
		return FallbackErrorMessage
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if msg := messageFromBody(httpErr.Body); msg != "" {
			return msg
		}
		return httpErr.Error()
	}

	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return FallbackErrorMessage
}

func messageFromBody(body []byte) string {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return ""
	}

	var asString string
	if err := json.Unmarshal([]byte(trimmed), &asString); err == nil {
		return strings.TrimSpace(asString)
	}

	var asObject struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal([]byte(trimmed), &asObject); err == nil {
		return strings.TrimSpace(asObject.Message)
	}

	if !strings.HasPrefix(trimmed, "{") && !strings.HasPrefix(trimmed, "[") {
		// plain-text error body
		return trimmed
	}
	return ""
}
