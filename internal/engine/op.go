package engine

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrClosed is returned for intents issued to, or completing after, a closed engine.
	ErrClosed = errors.New("engine closed")

	// ErrStale marks a successful remote call whose result was not applied
	// because the task changed or disappeared locally while it was in flight.
	ErrStale = errors.New("stale completion ignored")

	// ErrNoSession is returned when submitting or drafting without an open session.
	ErrNoSession = errors.New("no edit session")

	// ErrSessionMode is returned when an intent does not fit the open session.
	ErrSessionMode = errors.New("edit session in wrong mode")

	// ErrIndexOutOfRange is returned for positions outside the store.
	ErrIndexOutOfRange = errors.New("task index out of range")

	// ErrMissingID is returned when the remote store answers a create without an ID.
	ErrMissingID = errors.New("created task has no id")
)

// OpError reports that an operation on a target failed.
type OpError struct {
	Op     string
	Target string
	Err    error
}

func (e *OpError) Error() string {
	target := e.Target
	if target == "" {
		target = "-"
	}
	return fmt.Sprintf("operation %s on target %s failed: %v", e.Op, target, e.Err)
}

func (e *OpError) Unwrap() error { return e.Err }

// Op is the handle of one issued intent. It completes once the remote
// outcome has been applied to the engine state.
type Op struct {
	name   string
	target string
	done   chan struct{}
	err    error
}

func newOp(name, target string) *Op {
	return &Op{name: name, target: target, done: make(chan struct{})}
}

func (o *Op) finish(err error) {
	o.err = err
	close(o.done)
}

// Name returns the gateway operation the intent maps to.
// Like Target, it is final once Done is closed.
func (o *Op) Name() string { return o.name }

// Target returns the task ID the operation addresses.
// Only valid after Done is closed.
func (o *Op) Target() string { return o.target }

// Done is closed when the operation has completed.
func (o *Op) Done() <-chan struct{} { return o.done }

// Err returns the outcome once Done is closed, nil before.
func (o *Op) Err() error {
	select {
	case <-o.done:
		return o.err
	default:
		return nil
	}
}

// Wait blocks until the operation completes or ctx is done.
func (o *Op) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
