package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultReason is shown when the API gives no usable reason.
const DefaultReason = "An unexpected error occurred."

// Reason is one entry of the API's error list.
type Reason struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

// Error is a non-2xx API response.
type Error struct {
	StatusCode int
	Method     string
	Path       string
	Reasons    []Reason
}

func (e *Error) Error() string {
	msgs := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		if r.Field != "" {
			msgs = append(msgs, r.Field+": "+r.Reason)
			continue
		}
		msgs = append(msgs, r.Reason)
	}
	if len(msgs) == 0 {
		return fmt.Sprintf("api %s %s returned status %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("api %s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, strings.Join(msgs, "; "))
}

// IsNotFound reports whether err is an API 404.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// ReasonsOf extracts the API reasons from err. Errors that did not come from
// an API response yield a single reason with err's message.
func ReasonsOf(err error) []Reason {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		if len(apiErr.Reasons) > 0 {
			return apiErr.Reasons
		}
		return []Reason{{Reason: DefaultReason}}
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		msg = DefaultReason
	}
	return []Reason{{Reason: msg}}
}

func decodeError(method, path string, resp *http.Response) error {
	apiErr := &Error{StatusCode: resp.StatusCode, Method: method, Path: path}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return apiErr
	}
	var payload struct {
		Errors []Reason `json:"errors"`
	}
	if json.Unmarshal(body, &payload) == nil {
		for _, r := range payload.Errors {
			if strings.TrimSpace(r.Reason) != "" {
				apiErr.Reasons = append(apiErr.Reasons, r)
			}
		}
	}
	return apiErr
}
