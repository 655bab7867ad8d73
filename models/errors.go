// File: models/errors.go
package models

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is the single failure record surfaced to the browser: the upstream
// message and HTTP status. Status 0 means the request never got an answer.
type APIError struct {
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// HTTPStatus is the status the browser-facing layer should answer with.
func (e *APIError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadGateway
	}
	return e.Status
}

// NewAPIError builds an APIError, defaulting the message to the status text.
func NewAPIError(status int, message string) *APIError {
	if message == "" {
		message = http.StatusText(status)
	}
	return &APIError{Message: message, Status: status}
}

// AsAPIError converts any error into an APIError. Wrapped APIErrors are
// unwrapped; everything else is treated as a transport failure.
func AsAPIError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return &APIError{Message: err.Error(), Status: 0}
}
