package engine

import "taskdeck/internal/task"

// Mode is the state of the edit session.
type Mode int

const (
	ModeNone Mode = iota
	ModeCreating
	ModeEditing
)

func (m Mode) String() string {
	switch m {
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "none"
	}
}

// Session is the edit session: which task, if any, is being created or
// edited, and the draft field values.
type Session struct {
	Mode     Mode
	TargetID string // set iff Mode == ModeEditing
	Draft    task.Draft

	seq uint64
}

// Open reports whether a create or edit is in progress.
func (s Session) Open() bool { return s.Mode != ModeNone }

func (e *Engine) openSession(mode Mode, targetID string, d task.Draft) {
	e.sessionSeq++
	e.session = Session{Mode: mode, TargetID: targetID, Draft: d, seq: e.sessionSeq}
}

// closeSession resets the session to none when it is still the one
// identified by seq.
func (e *Engine) closeSession(seq uint64) {
	if e.session.seq == seq {
		e.session = Session{}
	}
}
