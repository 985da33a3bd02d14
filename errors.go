package reporunner

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout is returned by WaitForExecution when the execution does not
	// reach a terminal status within the configured poll timeout.
	ErrTimeout = errors.New("timed out waiting for execution")

	// ErrSessionClosed is returned by StreamSession.Recv after the caller
	// has closed the session.
	ErrSessionClosed = errors.New("stream session closed")

	// ErrInvalidMethod is returned when a request is built with an HTTP
	// method the transport does not support. The facade only issues
	// supported methods, so callers should never observe it.
	ErrInvalidMethod = errors.New("unsupported HTTP method")
)

// APIError is a non-2xx response from the API. Message carries the raw
// error body sent by the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// TransportError is a network-level failure: the request never produced an
// HTTP response.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "http request failed: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }

// SerializationError indicates a response or stream message did not match
// the expected shape.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string { return "decoding response: " + e.Err.Error() }

func (e *SerializationError) Unwrap() error { return e.Err }

// ConnectionError is a stream handshake failure or an abrupt loss of an
// established stream connection.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "stream connection: " + e.Err.Error() }

func (e *ConnectionError) Unwrap() error { return e.Err }
