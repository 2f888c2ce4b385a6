// Package gateway defines the backend-agnostic interface to the remote task store.
package gateway

import (
	"context"

	"taskdeck/internal/task"
)

// Gateway defines the interface for remote task store operations.
// Each call is an independent request/response exchange; no ordering or
// transactional relationship between calls is guaranteed.
// The engine never imports a backend directly.
type Gateway interface {
	// List returns every task in remote order.
	List(ctx context.Context) ([]task.Task, error)

	// Create stores a new task and returns the canonical record,
	// including the server-assigned ID and timestamps.
	Create(ctx context.Context, t task.Task) (task.Task, error)

	// Update changes the title and summary of a task and returns the
	// updated record. Status is never sent.
	Update(ctx context.Context, id string, d task.Draft) (task.Task, error)

	// UpdateStatus sets the completion status of a task.
	UpdateStatus(ctx context.Context, id string, status task.Status) error

	// Delete removes a task.
	Delete(ctx context.Context, id string) error

	// Get returns the full record of one task.
	Get(ctx context.Context, id string) (task.Task, error)
}

// Operation names used in errors and logs.
const (
	OpList         = "list"
	OpCreate       = "create"
	OpUpdate       = "update"
	OpUpdateStatus = "update-status"
	OpDelete       = "delete"
	OpGet          = "fetch"
)
