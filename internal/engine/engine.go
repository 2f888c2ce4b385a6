// Package engine keeps an in-memory task list consistent with a remote task
// store and tracks the edit session and the detail overlay.
//
// All state is owned by a single executor goroutine. Gateway calls run on
// their own goroutines and post their completions back to the executor, so
// completions are applied one at a time in whatever order the network
// returns them. Mutations address tasks by ID; positions are resolved to IDs
// when an intent is issued.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"taskdeck/internal/gateway"
	"taskdeck/internal/task"
)

// DefaultEventBuffer is the capacity of the event channel.
const DefaultEventBuffer = 64

// Event describes one applied completion.
type Event struct {
	Op     string
	Target string
	Err    error
	Stale  bool
}

// State is a read-only copy of the engine state.
type State struct {
	Tasks   []task.Task
	Session Session
	Details Details
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger for gateway call tracing.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithEventBuffer sets the capacity of the event channel.
func WithEventBuffer(n int) Option {
	return func(e *Engine) {
		if n >= 0 {
			e.eventBuf = n
		}
	}
}

// Engine is the sync engine.
type Engine struct {
	gw       gateway.Gateway
	log      *slog.Logger
	eventBuf int

	work      chan func()
	events    chan Event
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	// owned by the executor
	store      *Store
	session    Session
	sessionSeq uint64
	details    Details
}

// New creates an engine over gw and starts its executor.
func New(gw gateway.Gateway, opts ...Option) *Engine {
	e := &Engine{
		gw:       gw,
		log:      slog.New(slog.DiscardHandler),
		eventBuf: DefaultEventBuffer,
		work:     make(chan func()),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		store:    newStore(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.events = make(chan Event, e.eventBuf)
	go e.run()
	return e
}

// Close stops the executor. Operations still in flight complete with ErrClosed.
func (e *Engine) Close() {
	e.closeOnce.Do(func() { close(e.quit) })
	<-e.done
}

// Events returns the channel of applied completions. Events are dropped
// when the channel is full.
func (e *Engine) Events() <-chan Event { return e.events }

func (e *Engine) run() {
	defer close(e.done)
	for {
		select {
		case fn := <-e.work:
			fn()
		case <-e.quit:
			return
		}
	}
}

// exec hands fn to the executor. It reports false if the engine is closed.
// It must never be called from the executor itself.
func (e *Engine) exec(fn func()) bool {
	select {
	case e.work <- fn:
		return true
	case <-e.quit:
		return false
	}
}

// call runs fn on the executor and waits for it.
func (e *Engine) call(fn func()) error {
	ran := make(chan struct{})
	if !e.exec(func() { fn(); close(ran) }) {
		return ErrClosed
	}
	<-ran
	return nil
}

// submit runs an intent body on the executor; op completes with ErrClosed if
// the engine is gone.
func (e *Engine) submit(op *Op, fn func()) *Op {
	if !e.exec(fn) {
		op.finish(ErrClosed)
	}
	return op
}

// launch performs a gateway call off the executor and applies its outcome on it.
// apply receives the gateway error and returns the operation result.
func (e *Engine) launch(ctx context.Context, op *Op, remote func(context.Context) error, apply func(error) error) {
	e.log.Debug("gateway call issued", "op", op.name, "target", op.target)
	go func() {
		rerr := remote(ctx)
		ok := e.exec(func() {
			err := apply(rerr)
			e.complete(op, err)
		})
		if !ok {
			op.finish(ErrClosed)
		}
	}()
}

func (e *Engine) complete(op *Op, err error) {
	ev := Event{Op: op.name, Target: op.target, Err: err, Stale: err == ErrStale}
	switch {
	case ev.Stale:
		e.log.Warn("stale completion ignored", "op", op.name, "target", op.target)
	case err != nil:
		e.log.Debug("gateway call failed", "op", op.name, "target", op.target, "err", err)
	default:
		e.log.Debug("gateway call applied", "op", op.name, "target", op.target)
	}
	select {
	case e.events <- ev:
	default:
		e.log.Warn("event dropped", "op", op.name, "target", op.target)
	}
	op.finish(err)
}

func (e *Engine) failure(op *Op, err error) error {
	return &OpError{Op: op.name, Target: op.target, Err: err}
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() State {
	var st State
	if err := e.call(func() {
		st = State{Tasks: e.store.Tasks(), Session: e.session, Details: e.details}
	}); err != nil {
		return State{}
	}
	return st
}

// Refresh replaces the whole store with the remote list.
// Local tasks missing from the response are discarded.
func (e *Engine) Refresh(ctx context.Context) *Op {
	op := newOp(gateway.OpList, "")
	var tasks []task.Task
	return e.submit(op, func() {
		e.launch(ctx, op, func(ctx context.Context) error {
			var err error
			tasks, err = e.gw.List(ctx)
			return err
		}, func(err error) error {
			if err != nil {
				return e.failure(op, err)
			}
			e.store.Replace(tasks)
			return nil
		})
	})
}

// BeginCreate opens a session for a new task with empty drafts.
// Any open session is discarded.
func (e *Engine) BeginCreate() error {
	return e.call(func() {
		e.openSession(ModeCreating, "", task.Draft{})
	})
}

// BeginEdit opens an editing session for the task at a 0-based position.
// The drafts are pre-populated from the task and its ID is remembered.
func (e *Engine) BeginEdit(index int) error {
	var err error
	if cerr := e.call(func() {
		t, ok := e.store.At(index)
		if !ok {
			err = fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)
			return
		}
		e.openSession(ModeEditing, t.ID, task.DraftOf(t))
	}); cerr != nil {
		return cerr
	}
	return err
}

// UpdateDraft replaces the draft values of the open session.
func (e *Engine) UpdateDraft(d task.Draft) error {
	var err error
	if cerr := e.call(func() {
		if !e.session.Open() {
			err = ErrNoSession
			return
		}
		e.session.Draft = d
	}); cerr != nil {
		return cerr
	}
	return err
}

// CancelEdit discards the session and its drafts. It never calls the gateway.
func (e *Engine) CancelEdit() error {
	return e.call(func() {
		e.session = Session{}
	})
}

// Create submits draft as a new task. With no session open a creating
// session is opened first. The task is added only after the remote store
// confirms it; on failure the session stays open.
func (e *Engine) Create(ctx context.Context, d task.Draft) *Op {
	op := newOp(gateway.OpCreate, "")
	return e.submit(op, func() {
		switch e.session.Mode {
		case ModeNone:
			e.openSession(ModeCreating, "", d)
		case ModeEditing:
			e.complete(op, e.failure(op, ErrSessionMode))
			return
		}
		e.session.Draft = d
		e.startCreate(ctx, op, d)
	})
}

// SubmitEdit submits draft for the open session: a create when creating, an
// update of the remembered task when editing.
func (e *Engine) SubmitEdit(ctx context.Context, d task.Draft) *Op {
	op := newOp("submit", "")
	return e.submit(op, func() {
		switch e.session.Mode {
		case ModeCreating:
			op.name = gateway.OpCreate
			e.session.Draft = d
			e.startCreate(ctx, op, d)
		case ModeEditing:
			op.name = gateway.OpUpdate
			op.target = e.session.TargetID
			e.session.Draft = d
			e.startUpdate(ctx, op, d)
		default:
			e.complete(op, e.failure(op, ErrNoSession))
		}
	})
}

func (e *Engine) startCreate(ctx context.Context, op *Op, d task.Draft) {
	seq := e.session.seq
	var created task.Task
	e.launch(ctx, op, func(ctx context.Context) error {
		var err error
		created, err = e.gw.Create(ctx, task.Task{
			Title:   d.Title,
			Summary: d.Summary,
			Status:  task.StatusEmpty,
		})
		return err
	}, func(err error) error {
		if err != nil {
			return e.failure(op, err)
		}
		if created.ID == "" {
			return e.failure(op, ErrMissingID)
		}
		op.target = created.ID
		e.store.Append(created)
		e.closeSession(seq)
		return nil
	})
}

func (e *Engine) startUpdate(ctx context.Context, op *Op, d task.Draft) {
	seq := e.session.seq
	id := e.session.TargetID
	version := e.store.Version(id)
	var updated task.Task
	e.launch(ctx, op, func(ctx context.Context) error {
		var err error
		updated, err = e.gw.Update(ctx, id, d)
		return err
	}, func(err error) error {
		if err != nil {
			return e.failure(op, err)
		}
		e.closeSession(seq)
		if _, ok := e.store.Get(id); !ok || e.store.Version(id) != version {
			return ErrStale
		}
		updated.ID = id
		e.store.Put(updated)
		return nil
	})
}

// Delete removes the task at a 0-based position. The position is resolved
// to an ID now; the removal on success is by that ID.
func (e *Engine) Delete(ctx context.Context, index int) *Op {
	op := newOp(gateway.OpDelete, "")
	return e.submit(op, func() {
		t, ok := e.store.At(index)
		if !ok {
			e.complete(op, e.failure(op, fmt.Errorf("%w: %d", ErrIndexOutOfRange, index)))
			return
		}
		op.target = t.ID
		e.startDelete(ctx, op)
	})
}

// DeleteID removes the task with the given ID.
func (e *Engine) DeleteID(ctx context.Context, id string) *Op {
	op := newOp(gateway.OpDelete, id)
	return e.submit(op, func() {
		e.startDelete(ctx, op)
	})
}

func (e *Engine) startDelete(ctx context.Context, op *Op) {
	id := op.target
	e.launch(ctx, op, func(ctx context.Context) error {
		return e.gw.Delete(ctx, id)
	}, func(err error) error {
		if err != nil {
			return e.failure(op, err)
		}
		e.store.Remove(id)
		if e.details.SelectedID == id {
			e.clearDetails()
		}
		return nil
	})
}

// ToggleComplete flips the completion status of a task, starting from the
// status the caller observed. On success the task is found by ID and only
// its status changes.
func (e *Engine) ToggleComplete(ctx context.Context, id string, current task.Status) *Op {
	op := newOp(gateway.OpUpdateStatus, id)
	next := current.Toggle()
	return e.submit(op, func() {
		version := e.store.Version(id)
		e.launch(ctx, op, func(ctx context.Context) error {
			return e.gw.UpdateStatus(ctx, id, next)
		}, func(err error) error {
			if err != nil {
				return e.failure(op, err)
			}
			if _, ok := e.store.Get(id); !ok || e.store.Version(id) != version {
				return ErrStale
			}
			e.store.SetStatus(id, next)
			return nil
		})
	})
}

// ViewDetails fetches the full record of a task into the detail overlay.
// The ID need not be in the store. Concurrent fetches are not cancelled;
// the last one to complete wins. On failure the overlay is unchanged.
func (e *Engine) ViewDetails(ctx context.Context, id string) *Op {
	op := newOp(gateway.OpGet, id)
	var rec task.Task
	return e.submit(op, func() {
		e.launch(ctx, op, func(ctx context.Context) error {
			var err error
			rec, err = e.gw.Get(ctx, id)
			return err
		}, func(err error) error {
			if err != nil {
				return e.failure(op, err)
			}
			if rec.ID == "" {
				rec.ID = id
			}
			e.showDetails(rec)
			return nil
		})
	})
}

// CloseDetails clears the detail overlay without a network call.
func (e *Engine) CloseDetails() error {
	return e.call(e.clearDetails)
}
