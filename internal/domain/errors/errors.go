package errors

import "errors"

var (
	ErrAlreadyExists     = errors.New("already exists")
	ErrNotFound          = errors.New("not found")
	ErrValidation        = errors.New("validation failed")
	ErrInvalidTransition = errors.New("invalid reward status transition")
	ErrStaleStatus       = errors.New("reward status changed concurrently")

	// Downstream failure classes. remote.Error matches them via errors.Is.
	ErrTransport      = errors.New("transport failure")
	ErrRemoteRejected = errors.New("rejected by remote service")
	ErrRemoteServer   = errors.New("remote service error")
	ErrCircuitOpen    = errors.New("downstream unavailable")
)
