package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// NetworkFailure means the request could not complete.
	NetworkFailure Kind = iota + 1

	// RemoteRejection means the remote store answered with a non-success status.
	RemoteRejection
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case RemoteRejection:
		return "remote rejection"
	default:
		return "unknown failure"
	}
}

// Error is returned by gateway implementations for any failed call.
type Error struct {
	Op         string
	Target     string // task ID, empty for list and create
	Kind       Kind
	StatusCode int // HTTP status for RemoteRejection, 0 otherwise
	Err        error
}

func (e *Error) Error() string {
	target := e.Target
	if target == "" {
		target = "-"
	}
	msg := fmt.Sprintf("%s %s: %s", e.Op, target, e.Kind)
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Network wraps err as a NetworkFailure.
func Network(op, target string, err error) error {
	return &Error{Op: op, Target: target, Kind: NetworkFailure, Err: err}
}

// Rejection builds a RemoteRejection error.
func Rejection(op, target string, status int, err error) error {
	return &Error{Op: op, Target: target, Kind: RemoteRejection, StatusCode: status, Err: err}
}

// IsNetwork reports whether err is a NetworkFailure.
func IsNetwork(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Kind == NetworkFailure
}

// IsRejection reports whether err is a RemoteRejection.
func IsRejection(err error) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Kind == RemoteRejection
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var gerr *Error
	if errors.As(err, &gerr) {
		return gerr.StatusCode
	}
	return 0
}
