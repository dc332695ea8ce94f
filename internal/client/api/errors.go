package api

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidRoleTransition is returned by PromoteToOfficial when the backend
// rejects the role value with a 400. Callers get this instead of the raw
// backend body.
var ErrInvalidRoleTransition = errors.New("cannot update to this role, only 'official' is allowed")

// APIError is the single error shape every façade method returns on failure:
// either the backend's structured error payload (StatusCode > 0) or a
// transport failure (StatusCode == 0 and Message carrying the network
// error). Raw transport error types never escape the façade.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.StatusCode)
}

// IsNetwork reports whether the failure happened before any HTTP response
// arrived.
func (e *APIError) IsNetwork() bool { return e.StatusCode == 0 }

func networkError(err error) *APIError {
	return &APIError{StatusCode: 0, Message: err.Error()}
}

// backendError decodes the backend's error envelope; when the body is not
// the expected shape the status text stands in.
func backendError(statusCode int, body []byte) *APIError {
	var envelope struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Error != "" {
			msg = envelope.Error
		} else {
			msg = envelope.Message
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", statusCode)
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}
