// Package task defines the task value types shared by the gateway, the engine
// and the presentation layer.
package task

import "strings"

// Status is the completion state of a task.
type Status string

const (
	// StatusEmpty is the status of a task that is not done.
	StatusEmpty Status = "empty"

	// StatusCompleted is the status of a finished task.
	StatusCompleted Status = "completed"
)

// ParseStatus normalizes a status received from a remote store.
// Anything other than "completed" reads as StatusEmpty.
func ParseStatus(s string) Status {
	if strings.EqualFold(strings.TrimSpace(s), string(StatusCompleted)) {
		return StatusCompleted
	}
	return StatusEmpty
}

// Toggle returns the status a completion toggle moves to.
func (s Status) Toggle() Status {
	if s == StatusCompleted {
		return StatusEmpty
	}
	return StatusCompleted
}

// Task represents a single task record as known by the remote store.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Summary   string `json:"summary"`
	Status    Status `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// Completed reports whether the task is done.
func (t Task) Completed() bool {
	return t.Status == StatusCompleted
}

// Draft holds the user-editable fields of a task.
type Draft struct {
	Title   string
	Summary string
}

// DraftOf returns a draft pre-populated from t.
func DraftOf(t Task) Draft {
	return Draft{Title: t.Title, Summary: t.Summary}
}
