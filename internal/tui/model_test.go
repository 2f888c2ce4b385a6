package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"taskdeck/internal/engine"
	"taskdeck/internal/gateway"
	"taskdeck/internal/output"
	"taskdeck/internal/task"
	"taskdeck/internal/testutil"
)

func setup(t *testing.T, titles ...string) (Model, *testutil.FakeGateway) {
	t.Helper()
	gw := testutil.NewFakeGateway()
	for _, title := range titles {
		gw.AddTask(title, "")
	}
	eng := engine.New(gw)
	t.Cleanup(eng.Close)

	m := New(context.Background(), eng)
	m.eng.Refresh(context.Background())
	return step(t, m), gw
}

// step applies the next engine event to m.
func step(t *testing.T, m Model) Model {
	t.Helper()
	select {
	case ev := <-m.eng.Events():
		mm, _ := m.Update(eventMsg(ev))
		return mm.(Model)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for engine event")
		return m
	}
}

func press(t *testing.T, m Model, key string) Model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	mm, _ := m.Update(msg)
	return mm.(Model)
}

func typeText(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		m = press(t, m, string(r))
	}
	return m
}

func TestViewListsTasks(t *testing.T) {
	m, _ := setup(t, "Buy milk", "Buy eggs")

	view := m.View()
	for _, want := range []string{"Buy milk", "Buy eggs", output.NoSummary} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestViewEmptyList(t *testing.T) {
	m, _ := setup(t)

	if !strings.Contains(m.View(), output.NoTasks) {
		t.Errorf("expected %q in view", output.NoTasks)
	}
}

func TestCursorStaysInBounds(t *testing.T) {
	m, _ := setup(t, "a", "b")

	m = press(t, m, "k")
	if m.cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.cursor)
	}
	m = press(t, m, "j")
	m = press(t, m, "j")
	if m.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.cursor)
	}
}

func TestNewTaskFlow(t *testing.T) {
	m, gw := setup(t, "a")

	m = press(t, m, "n")
	if m.state.Session.Mode != engine.ModeCreating {
		t.Fatalf("mode = %v, want creating", m.state.Session.Mode)
	}
	m = typeText(t, m, "Eggs")
	m = press(t, m, "tab")
	m = typeText(t, m, "dozen")
	m = press(t, m, "enter")
	m = step(t, m)

	if m.state.Session.Open() {
		t.Fatal("session should close after create")
	}
	if n := len(m.state.Tasks); n != 2 {
		t.Fatalf("got %d tasks, want 2", n)
	}
	got := m.state.Tasks[1]
	if got.Title != "Eggs" || got.Summary != "dozen" || got.Status != task.StatusEmpty {
		t.Errorf("unexpected task %+v", got)
	}
	if _, ok := gw.Task(got.ID); !ok {
		t.Errorf("task %s not stored remotely", got.ID)
	}
}

func TestSubmitRequiresTitle(t *testing.T) {
	m, gw := setup(t)

	m = press(t, m, "n")
	m = press(t, m, "enter")

	if m.status != "title required" {
		t.Errorf("status = %q", m.status)
	}
	for _, c := range gw.Calls() {
		if c == gateway.OpCreate {
			t.Fatal("create should not be called without a title")
		}
	}
}

func TestEditPrefillsAndUpdates(t *testing.T) {
	m, gw := setup(t, "Buy milk")

	m = press(t, m, "e")
	if m.titleInput.Value() != "Buy milk" {
		t.Fatalf("title input = %q", m.titleInput.Value())
	}
	if m.state.Session.TargetID != "1" {
		t.Fatalf("target = %q", m.state.Session.TargetID)
	}
	m = press(t, m, "tab")
	m = typeText(t, m, "oat")
	m = press(t, m, "enter")
	m = step(t, m)

	if m.state.Session.Open() {
		t.Fatal("session should close after update")
	}
	remote, _ := gw.Task("1")
	if remote.Summary != "oat" {
		t.Errorf("remote summary = %q", remote.Summary)
	}
	if m.state.Tasks[0].Summary != "oat" {
		t.Errorf("local summary = %q", m.state.Tasks[0].Summary)
	}
}

func TestEscCancelsWithoutNetwork(t *testing.T) {
	m, gw := setup(t, "a")
	before := len(gw.Calls())

	m = press(t, m, "e")
	m = typeText(t, m, "xyz")
	m = press(t, m, "esc")

	if m.state.Session.Open() {
		t.Fatal("session should be closed")
	}
	if after := len(gw.Calls()); after != before {
		t.Errorf("cancel made %d gateway calls", after-before)
	}
	if m.state.Tasks[0].Title != "a" {
		t.Errorf("title changed to %q", m.state.Tasks[0].Title)
	}
}

func TestToggleKey(t *testing.T) {
	m, _ := setup(t, "a")

	m = press(t, m, "space")
	m = step(t, m)
	if !m.state.Tasks[0].Completed() {
		t.Fatal("task should be completed")
	}

	m = press(t, m, "space")
	m = step(t, m)
	if m.state.Tasks[0].Completed() {
		t.Fatal("task should be open again")
	}
}

func TestDeleteKey(t *testing.T) {
	m, gw := setup(t, "a", "b")

	m = press(t, m, "j")
	m = press(t, m, "d")
	m = step(t, m)

	if n := len(m.state.Tasks); n != 1 || m.state.Tasks[0].Title != "a" {
		t.Fatalf("unexpected tasks %+v", m.state.Tasks)
	}
	if m.cursor != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor)
	}
	if _, ok := gw.Task("2"); ok {
		t.Error("task 2 still stored remotely")
	}
}

func TestDetailsOverlay(t *testing.T) {
	m, _ := setup(t, "a")

	m = press(t, m, "enter")
	m = step(t, m)
	if !m.state.Details.Loaded || m.state.Details.SelectedID != "1" {
		t.Fatalf("details not shown: %+v", m.state.Details)
	}
	if !strings.Contains(m.View(), output.DetailSeparator) {
		t.Error("detail view not rendered")
	}

	m = press(t, m, "esc")
	if m.state.Details.Loaded {
		t.Fatal("details should be closed")
	}
}

func TestFailureShowsStatus(t *testing.T) {
	m, gw := setup(t, "a")
	gw.SetErr(gateway.OpDelete, gateway.Network(gateway.OpDelete, "1", errors.New("connection refused")))

	m = press(t, m, "d")
	m = step(t, m)

	if len(m.state.Tasks) != 1 {
		t.Fatal("task should survive a failed delete")
	}
	if !strings.Contains(m.status, "delete failed") {
		t.Errorf("status = %q", m.status)
	}
}
