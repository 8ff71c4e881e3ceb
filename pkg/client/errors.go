package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

// APIError is a non-2xx response of the API.
type APIError struct {
	StatusCode int         `json:"-"`
	Message    string      `json:"error"`
	Details    string      `json:"details,omitempty"`
	Fields     FieldErrors `json:"fields,omitempty"`
	ClientID   string      `json:"client_id,omitempty"`
	Redirect   string      `json:"redirect,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

func IsConflict(err error) bool {
	return hasStatus(err, http.StatusConflict)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil || len(body) == 0 || json.Unmarshal(body, apiErr) != nil {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}

	return apiErr
}
