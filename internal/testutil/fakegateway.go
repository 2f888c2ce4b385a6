// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"taskdeck/internal/gateway"
	"taskdeck/internal/task"
)

// FakeGateway is an in-memory implementation of gateway.Gateway for testing.
type FakeGateway struct {
	mu     sync.Mutex
	tasks  []task.Task
	nextID int
	clock  int
	calls  []string
	gates  map[string]chan struct{}
	errs   map[string]error // op -> injected error
}

// NewFakeGateway creates an empty FakeGateway. IDs are assigned as "1", "2", ...
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		nextID: 1,
		gates:  make(map[string]chan struct{}),
		errs:   make(map[string]error),
	}
}

// AddTask seeds a task and returns its ID.
func (f *FakeGateway) AddTask(title, summary string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := f.newTaskLocked(title, summary, task.StatusEmpty)
	f.tasks = append(f.tasks, t)
	return t.ID
}

// SetOrder reorders the stored tasks to match ids. Unknown IDs are ignored.
func (f *FakeGateway) SetOrder(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []task.Task
	for _, id := range ids {
		if i := f.indexLocked(id); i >= 0 {
			out = append(out, f.tasks[i])
		}
	}
	f.tasks = out
}

// Task returns the stored copy of a task.
func (f *FakeGateway) Task(id string) (task.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i := f.indexLocked(id); i >= 0 {
		return f.tasks[i], true
	}
	return task.Task{}, false
}

// SetErr makes every later call of op fail with err. A nil err clears it.
func (f *FakeGateway) SetErr(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.errs, op)
		return
	}
	f.errs[op] = err
}

// Calls returns the operations invoked so far, as "op" or "op:id".
func (f *FakeGateway) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// Hold makes subsequent calls of op wait before touching the store.
// key is an operation name, or "op:id" to hold calls for one task only.
// Each value sent on the returned channel releases one waiting call;
// closing it releases all of them.
func (f *FakeGateway) Hold(key string) chan<- struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	gate := make(chan struct{})
	f.gates[key] = gate
	return gate
}

func (f *FakeGateway) enter(ctx context.Context, op, id string) error {
	f.mu.Lock()
	key := op
	if id != "" {
		key = op + ":" + id
	}
	f.calls = append(f.calls, key)
	gate, ok := f.gates[key]
	if !ok {
		gate = f.gates[op]
	}
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return gateway.Network(op, id, ctx.Err())
		}
	}

	f.mu.Lock()
	err := f.errs[op]
	f.mu.Unlock()
	return err
}

func (f *FakeGateway) newTaskLocked(title, summary string, status task.Status) task.Task {
	id := strconv.Itoa(f.nextID)
	f.nextID++
	stamp := f.stampLocked()
	return task.Task{
		ID:        id,
		Title:     title,
		Summary:   summary,
		Status:    status,
		CreatedAt: stamp,
		UpdatedAt: stamp,
	}
}

func (f *FakeGateway) stampLocked() string {
	f.clock++
	return fmt.Sprintf("2024-01-01T00:00:%02dZ", f.clock%60)
}

func (f *FakeGateway) indexLocked(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func notFound(op, id string) error {
	return gateway.Rejection(op, id, 404, fmt.Errorf("not found"))
}

// List implements gateway.Gateway.
func (f *FakeGateway) List(ctx context.Context) ([]task.Task, error) {
	if err := f.enter(ctx, gateway.OpList, ""); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]task.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// Create implements gateway.Gateway.
func (f *FakeGateway) Create(ctx context.Context, t task.Task) (task.Task, error) {
	if err := f.enter(ctx, gateway.OpCreate, ""); err != nil {
		return task.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := f.newTaskLocked(t.Title, t.Summary, task.ParseStatus(string(t.Status)))
	f.tasks = append(f.tasks, created)
	return created, nil
}

// Update implements gateway.Gateway.
func (f *FakeGateway) Update(ctx context.Context, id string, d task.Draft) (task.Task, error) {
	if err := f.enter(ctx, gateway.OpUpdate, id); err != nil {
		return task.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return task.Task{}, notFound(gateway.OpUpdate, id)
	}
	f.tasks[i].Title = d.Title
	f.tasks[i].Summary = d.Summary
	f.tasks[i].UpdatedAt = f.stampLocked()
	return f.tasks[i], nil
}

// UpdateStatus implements gateway.Gateway.
func (f *FakeGateway) UpdateStatus(ctx context.Context, id string, status task.Status) error {
	if err := f.enter(ctx, gateway.OpUpdateStatus, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return notFound(gateway.OpUpdateStatus, id)
	}
	f.tasks[i].Status = status
	f.tasks[i].UpdatedAt = f.stampLocked()
	return nil
}

// Delete implements gateway.Gateway.
func (f *FakeGateway) Delete(ctx context.Context, id string) error {
	if err := f.enter(ctx, gateway.OpDelete, id); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return notFound(gateway.OpDelete, id)
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// Get implements gateway.Gateway.
func (f *FakeGateway) Get(ctx context.Context, id string) (task.Task, error) {
	if err := f.enter(ctx, gateway.OpGet, id); err != nil {
		return task.Task{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return task.Task{}, notFound(gateway.OpGet, id)
	}
	return f.tasks[i], nil
}
