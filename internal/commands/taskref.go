package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"taskdeck/internal/engine"
	"taskdeck/internal/task"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses the 1-based row number shown by `taskdeck list`.
//
// Parsing rules:
// 1. No args → error: task reference required
// 2. First arg is all digits (a leading '#' is allowed) → that number
// 3. Otherwise → error: invalid task reference: <ref>
//
// Extra args after the reference are rejected.
func ParseTaskRef(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	ref := strings.TrimPrefix(args[0], "#")
	if !isAllDigits(ref) {
		return 0, fmt.Errorf("invalid task reference: %s", args[0])
	}
	num, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("invalid task reference: %s", args[0])
	}
	return num, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// lookupTask finds the task shown at 1-based row num in a snapshot.
// Returns the 0-based index with it.
func lookupTask(st engine.State, num int) (int, task.Task, error) {
	if num < 1 || num > len(st.Tasks) {
		return 0, task.Task{}, fmt.Errorf("task number out of range: %d", num)
	}
	return num - 1, st.Tasks[num-1], nil
}
