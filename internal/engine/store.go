package engine

import "taskdeck/internal/task"

type entry struct {
	task    task.Task
	version uint64
}

// Store is the local mirror of the remote task list.
// Tasks are keyed by ID; display order is kept as a separate sequence of IDs.
// A Store is owned by the engine's executor and is not safe for concurrent use.
type Store struct {
	order []string
	byID  map[string]*entry
}

func newStore() *Store {
	return &Store{byID: make(map[string]*entry)}
}

// Len returns the number of tasks.
func (s *Store) Len() int { return len(s.order) }

// Tasks returns a copy of the tasks in display order.
func (s *Store) Tasks() []task.Task {
	out := make([]task.Task, len(s.order))
	for i, id := range s.order {
		out[i] = s.byID[id].task
	}
	return out
}

// At returns the task at a 0-based display position.
func (s *Store) At(index int) (task.Task, bool) {
	if index < 0 || index >= len(s.order) {
		return task.Task{}, false
	}
	return s.byID[s.order[index]].task, true
}

// Get returns the task with the given ID.
func (s *Store) Get(id string) (task.Task, bool) {
	e, ok := s.byID[id]
	if !ok {
		return task.Task{}, false
	}
	return e.task, true
}

// Version returns the mutation counter of a task; 0 when absent.
func (s *Store) Version(id string) uint64 {
	if e, ok := s.byID[id]; ok {
		return e.version
	}
	return 0
}

// Replace overwrites the whole store with tasks, in order.
// Tasks without an ID and repeated IDs are skipped. Version counters of IDs
// that survive the overwrite are kept so in-flight mutations still match.
func (s *Store) Replace(tasks []task.Task) {
	next := make(map[string]*entry, len(tasks))
	order := make([]string, 0, len(tasks))
	for _, t := range tasks {
		if t.ID == "" {
			continue
		}
		if _, dup := next[t.ID]; dup {
			continue
		}
		var version uint64
		if old, ok := s.byID[t.ID]; ok {
			version = old.version
		}
		next[t.ID] = &entry{task: t, version: version}
		order = append(order, t.ID)
	}
	s.byID = next
	s.order = order
}

// Append adds t at the end. If t's ID is already present the existing entry
// is replaced in place instead.
func (s *Store) Append(t task.Task) {
	if e, ok := s.byID[t.ID]; ok {
		e.task = t
		e.version++
		return
	}
	s.byID[t.ID] = &entry{task: t}
	s.order = append(s.order, t.ID)
}

// Put replaces the record of an existing task and bumps its version.
// It reports false when the ID is unknown.
func (s *Store) Put(t task.Task) bool {
	e, ok := s.byID[t.ID]
	if !ok {
		return false
	}
	e.task = t
	e.version++
	return true
}

// SetStatus changes the status of an existing task and bumps its version.
func (s *Store) SetStatus(id string, status task.Status) bool {
	e, ok := s.byID[id]
	if !ok {
		return false
	}
	e.task.Status = status
	e.version++
	return true
}

// Remove deletes a task by ID.
func (s *Store) Remove(id string) bool {
	if _, ok := s.byID[id]; !ok {
		return false
	}
	delete(s.byID, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}
