package apperrors

import "errors"

// Operational errors shared across transport and server layers.
var (
	// ErrTimeout is returned when an RPC call exceeds its time budget.
	ErrTimeout = errors.New("request timed out")

	// ErrUnreachable is returned when an endpoint cannot be dialed or
	// answers outside plain HTTP/websocket expectations.
	ErrUnreachable = errors.New("endpoint unreachable")

	// ErrInvalidResponse is returned when a reply body does not decode as a
	// JSON-RPC envelope.
	ErrInvalidResponse = errors.New("invalid response")

	// ErrInvalidInput is returned when a request cannot be built from the
	// given arguments.
	ErrInvalidInput = errors.New("invalid input")
)
