package client

import (
	"errors"
	"fmt"
)

// User-facing messages for failures that carry no message of their own.
const (
	GenericServerMessage = "Server error"
	ConnectFailedMessage = "Unable to connect to server"
)

// ServerError is a non-2xx response, or a 2xx response whose body could not
// be decoded. Structured is true when the body carried an "error" string.
type ServerError struct {
	Status     int
	Message    string
	Structured bool
	Err        error
}

func (e *ServerError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("server error (status %d): %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("server error (status %d): %s", e.Status, e.Message)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// TransportError means the request never produced a response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Message maps an error returned by the service client to the text shown to
// the user. Transport detail is never exposed.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var se *ServerError
	if errors.As(err, &se) {
		if se.Structured && se.Message != "" {
			return se.Message
		}
		return GenericServerMessage
	}

	return ConnectFailedMessage
}
