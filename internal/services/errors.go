package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUpstream      = errors.New("upstream error")
	ErrAuth          = errors.New("authentication failed")
	ErrConfiguration = errors.New("configuration error")
	ErrConflict      = errors.New("conflict")
)

// Wrap builds an error message that includes component context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrUpstream
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// UpstreamError describes a non-2xx response from a third-party API.
type UpstreamError struct {
	Service string
	Status  int
	Message string
	Path    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s API error [%d]: %s", e.Service, e.Status, e.Message)
}

// Unwrap lets errors.Is(err, ErrUpstream) match.
func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// NewUpstreamError decodes a best-effort message from body. It recognises the
// common JSON error shapes ({"status_message"}, {"error":{"message"}},
// {"error_description"}, {"error"}, {"message"}) and falls back to the HTTP
// status text.
func NewUpstreamError(service string, resp *http.Response, body []byte) *UpstreamError {
	upstream := &UpstreamError{Service: service}
	if resp != nil {
		upstream.Status = resp.StatusCode
		if resp.Request != nil && resp.Request.URL != nil {
			upstream.Path = resp.Request.URL.Path
		}
	}
	upstream.Message = decodeErrorMessage(body)
	if upstream.Message == "" {
		upstream.Message = http.StatusText(upstream.Status)
	}
	if upstream.Message == "" {
		upstream.Message = "unknown error"
	}
	return upstream
}

func decodeErrorMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	for _, key := range []string{"status_message", "error_description", "message"} {
		if msg := rawString(payload[key]); msg != "" {
			return msg
		}
	}
	raw, ok := payload["error"]
	if !ok {
		return ""
	}
	if msg := rawString(raw); msg != "" {
		return msg
	}
	var nested struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		return strings.TrimSpace(nested.Message)
	}
	return ""
}

func rawString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return ""
	}
	return strings.TrimSpace(value)
}

// HTTPStatus maps an error to the status code the HTTP API should return.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrAuth), errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	case errors.Is(err, ErrConfiguration):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
