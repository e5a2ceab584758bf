package hub

import "errors"

// Domain errors for the hub command proxy.
//
// Validation errors are raised before any network I/O; upstream errors
// carry the transport fault. Check with errors.Is().
var (
	// ErrInvalidCommand is returned when a command is not on, off or stop.
	// No upstream call is made.
	ErrInvalidCommand = errors.New("hub: invalid command")

	// ErrEmptyDeviceID is returned when the device id is empty.
	// No upstream call is made.
	ErrEmptyDeviceID = errors.New("hub: device id is required")

	// ErrHubUnavailable is returned when the hub cannot be reached
	// (connection refused, DNS failure, reset, ...).
	ErrHubUnavailable = errors.New("hub: unavailable")

	// ErrHubTimeout is returned when the hub does not respond within the
	// request timeout. The in-flight request is aborted.
	ErrHubTimeout = errors.New("hub: timeout")
)
