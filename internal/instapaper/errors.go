package instapaper

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors for common failure classes.
var (
	ErrAuthError    = errors.New("authentication failed")
	ErrNetworkError = errors.New("network error")
	ErrNotLoggedIn  = errors.New("no access tokens; call Login first")
)

// APIError is an error reported by the Instapaper API, either as an HTTP
// status >= 300 or as an error object in the response body.
type APIError struct {
	StatusCode int    // HTTP status, when the failure was at that level
	ErrorCode  int    // Instapaper error_code from the body, when present
	Message    string
}

func (e *APIError) Error() string {
	if e.ErrorCode != 0 {
		return fmt.Sprintf("instapaper api error %d: %s", e.ErrorCode, e.Message)
	}
	return fmt.Sprintf("instapaper http error: status %d", e.StatusCode)
}

// checkBody inspects a JSON response body for an API error object. The API
// reports errors as [{"type": "error", "error_code": N, "message": "..."}].
// An empty list is a legitimate success response (e.g. bookmark deletion).
func checkBody(body []byte) error {
	var objects []struct {
		Type      string `json:"type"`
		ErrorCode int    `json:"error_code"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(body, &objects); err != nil {
		// Not a JSON list; endpoint-specific handling applies.
		return nil
	}
	for _, obj := range objects {
		if obj.Type == "error" {
			return &APIError{ErrorCode: obj.ErrorCode, Message: obj.Message}
		}
	}
	return nil
}
