// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/task"
)

const (
	// DetailSeparator frames the detail view.
	DetailSeparator = "------------"

	// NoSummary is shown for tasks without a summary.
	NoSummary = "No summary was provided for this task"

	// NoTasks is shown for an empty task list.
	NoTasks = "You have no tasks"
)

// FormatTask formats a task line for the task list.
// Format: "{N:>4}  [x] {TITLE}\n" (4-wide right-aligned number, two spaces, checkbox, title)
func FormatTask(w io.Writer, num int, t task.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, Checkbox(t.Status), NormalizeTitle(t.Title))
}

// FormatTaskWithSummary formats a task line followed by an indented summary line.
func FormatTaskWithSummary(w io.Writer, num int, t task.Task) {
	FormatTask(w, num, t)
	fmt.Fprintf(w, "          %s\n", SummaryText(t.Summary))
}

// FormatDetails formats the full record of one task.
func FormatDetails(w io.Writer, t task.Task) {
	fmt.Fprintln(w, DetailSeparator)
	fmt.Fprintf(w, "%s [%s]\n", NormalizeTitle(t.Title), t.Status)
	fmt.Fprintln(w, DetailSeparator)
	if s := strings.TrimSpace(t.Summary); s != "" {
		fmt.Fprintln(w, s)
	}
	fmt.Fprintf(w, "Created At: %s\n", orDash(t.CreatedAt))
	fmt.Fprintf(w, "Updated At: %s\n", orDash(t.UpdatedAt))
}

// Checkbox renders a status as "[ ]" or "[x]".
func Checkbox(s task.Status) string {
	if s == task.StatusCompleted {
		return "[x]"
	}
	return "[ ]"
}

// SummaryText returns the display text for a summary.
func SummaryText(summary string) string {
	summary = flatten(summary)
	if strings.TrimSpace(summary) == "" {
		return NoSummary
	}
	return summary
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
