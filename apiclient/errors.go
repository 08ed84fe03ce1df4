package apiclient

import (
	"crimewatch/models"
	"errors"
	"net/http"
	"strings"
)

// Messages used when the API gives nothing better.
const (
	msgConnection = "unable to connect to the reports service"
	msgGeneric    = "the reports service returned an error"
)

// APIError is every failure returned by Client. StatusCode is 0 when no response was received.
type APIError struct {
	StatusCode int
	Payload    *models.APIErrorPayload
	Message    string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether the request never got a response.
func (e *APIError) IsTransport() bool {
	return e.StatusCode == 0
}

// IsNotFound reports whether the API answered 404.
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TraceID returns the API trace id, if any.
func (e *APIError) TraceID() string {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.TraceID
}

// AsAPIError unwraps err into an *APIError.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func transportError(err error) *APIError {
	return &APIError{Message: msgConnection, Err: err}
}

// responseError builds the user-facing message for a non-2xx response:
// field errors joined, else the server message, else the HTTP status text.
func responseError(status int, payload *models.APIErrorPayload) *APIError {
	apiErr := &APIError{StatusCode: status, Payload: payload}
	switch {
	case payload != nil && len(payload.Errors) > 0:
		parts := make([]string, 0, len(payload.Errors))
		for _, fe := range payload.Errors {
			switch {
			case fe.Field != "" && fe.Message != "":
				parts = append(parts, fe.Field+": "+fe.Message)
			case fe.Message != "":
				parts = append(parts, fe.Message)
			}
		}
		apiErr.Message = strings.Join(parts, "; ")
	case payload != nil && payload.Error != "":
		apiErr.Message = payload.Error
	}
	if apiErr.Message == "" {
		if text := http.StatusText(status); text != "" {
			apiErr.Message = text
		} else {
			apiErr.Message = msgGeneric
		}
	}
	return apiErr
}
