package engine

import "taskdeck/internal/task"

// Details is the detail overlay: the last fully fetched record of the
// selected task. The record may lag the store's copy of the same task.
type Details struct {
	SelectedID string
	Task       task.Task
	Loaded     bool
}

func (e *Engine) showDetails(t task.Task) {
	e.details = Details{SelectedID: t.ID, Task: t, Loaded: true}
}

func (e *Engine) clearDetails() {
	e.details = Details{}
}
