package remote

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	domainErrors "github.com/polkiloo/cinema/internal/domain/errors"
)

// Kind classifies a failed call.
type Kind int

const (
	KindTimeout Kind = iota + 1
	KindConnectionRefused
	// KindUnavailable means the breaker refused the call without a network attempt.
	KindUnavailable
	KindRemoteRejected
	KindRemoteError
	// KindCanceled means the caller gave up; the downstream was not at fault.
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindTimeout:
		return "timeout"
	case KindConnectionRefused:
		return "connection_refused"
	case KindUnavailable:
		return "unavailable"
	case KindRemoteRejected:
		return "rejected"
	case KindRemoteError:
		return "remote_error"
	case KindCanceled:
		return "canceled"
	default:
		return "unknown"
	}
}

// Error is returned by Client.Call for every failed call.
type Error struct {
	Downstream string
	Kind       Kind
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Downstream, e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Downstream, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Downstream, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

// Is maps kinds onto the domain failure classes.
func (e *Error) Is(target error) bool {
	switch target {
	case domainErrors.ErrTransport:
		return e.Kind == KindTimeout || e.Kind == KindConnectionRefused
	case domainErrors.ErrCircuitOpen:
		return e.Kind == KindUnavailable
	case domainErrors.ErrRemoteRejected:
		return e.Kind == KindRemoteRejected
	case domainErrors.ErrNotFound:
		return e.Kind == KindRemoteRejected && e.StatusCode == http.StatusNotFound
	case domainErrors.ErrRemoteServer:
		return e.Kind == KindRemoteError
	}
	return false
}

// Retryable reports whether the same request may succeed later.
func (e *Error) Retryable() bool {
	return e.Kind != KindRemoteRejected
}

func statusError(downstream string, status int) *Error {
	kind := KindRemoteError
	if status >= 400 && status < 500 && !transientStatus(status) {
		kind = KindRemoteRejected
	}
	return &Error{Downstream: downstream, Kind: kind, StatusCode: status}
}

// transientStatus lists 4xx answers that report load or slowness rather than a bad request.
func transientStatus(status int) bool {
	return status == http.StatusRequestTimeout || status == http.StatusTooManyRequests
}

func canceledError(downstream string, err error) *Error {
	return &Error{Downstream: downstream, Kind: KindCanceled, Err: err}
}

func transportError(downstream string, err error) *Error {
	kind := KindConnectionRefused
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) ||
		(errors.As(err, &netErr) && netErr.Timeout()) {
		kind = KindTimeout
	}
	return &Error{Downstream: downstream, Kind: kind, Err: err}
}
