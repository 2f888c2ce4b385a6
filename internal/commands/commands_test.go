package commands_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"taskdeck/internal/commands"
	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/task"
	"taskdeck/internal/testutil"
)

// runCommand is a helper to run a command with FakeGateway.
func runCommand(t *testing.T, cmd commands.Command, gw *testutil.FakeGateway, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
	}

	var g gateway.Gateway
	if gw != nil {
		g = gw
	}
	code = cmd.Run(context.Background(), cfg, g, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func expectCode(t *testing.T, got, want int) {
	t.Helper()
	if got != want {
		t.Errorf("expected exit code %d, got %d", want, got)
	}
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "taskdeck 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	expectCode(t, code, exitcode.Success)
	for _, want := range []string{"Usage:", "taskdeck edit", "taskdeck tui"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("help output should contain %q", want)
		}
	}
}

// Tests for list command
func TestListCommand_WithTasks(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "")
	gw.AddTask("Buy eggs", "")

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, gw, nil, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   1  [ ] Buy milk\n   2  [ ] Buy eggs\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_WithSummary(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "two litres")
	id := gw.AddTask("Call mom", "")
	if err := gw.UpdateStatus(context.Background(), id, task.StatusCompleted); err != nil {
		t.Fatal(err)
	}

	cmd := &commands.ListCmd{}
	cmd.SetSummary(true)
	stdout, _, code := runCommand(t, cmd, gw, nil, false)

	expectCode(t, code, exitcode.Success)
	testutil.GoldenString(t, "list_summary", stdout)
}

func TestListCommand_Empty(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeGateway(), nil, false)

	expectCode(t, code, exitcode.Success)
	if stdout != "You have no tasks\n" {
		t.Errorf("unexpected output %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.ListCmd{}, testutil.NewFakeGateway(), nil, true)

	expectCode(t, code, exitcode.Success)
	// Quiet mode should suppress the empty-list notice
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_NetworkFailure(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.SetErr(gateway.OpList, gateway.Network(gateway.OpList, "", errors.New("connection refused")))

	stdout, stderr, code := runCommand(t, &commands.ListCmd{}, gw, nil, false)

	expectCode(t, code, exitcode.BackendError)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: backend error: operation list on target - failed") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestListCommand_Unauthorized(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.SetErr(gateway.OpList, gateway.Rejection(gateway.OpList, "", 401, errors.New("bad token")))

	_, stderr, code := runCommand(t, &commands.ListCmd{}, gw, nil, false)

	expectCode(t, code, exitcode.AuthError)
	if !strings.HasPrefix(stderr, "error: auth error:") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	gw := testutil.NewFakeGateway()

	cmd := &commands.AddCmd{}
	cmd.SetSummary("two litres")
	stdout, stderr, code := runCommand(t, cmd, gw, []string{"Buy", "milk"}, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}

	got, ok := gw.Task("1")
	if !ok {
		t.Fatal("task was not created")
	}
	if got.Title != "Buy milk" || got.Summary != "two litres" || got.Status != task.StatusEmpty {
		t.Errorf("unexpected task %+v", got)
	}
	// Creating does not need the current list.
	if calls := gw.Calls(); len(calls) != 1 || calls[0] != gateway.OpCreate {
		t.Errorf("unexpected calls %v", calls)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	stdout, _, code := runCommand(t, &commands.AddCmd{}, testutil.NewFakeGateway(), []string{"Task"}, true)

	expectCode(t, code, exitcode.Success)
	if stdout != "" {
		t.Errorf("expected no stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_NoTitle(t *testing.T) {
	gw := testutil.NewFakeGateway()

	for _, args := range [][]string{nil, {"  "}} {
		_, stderr, code := runCommand(t, &commands.AddCmd{}, gw, args, false)

		expectCode(t, code, exitcode.UserError)
		if stderr != "error: title required\n" {
			t.Errorf("unexpected stderr %q", stderr)
		}
	}
	if len(gw.Calls()) != 0 {
		t.Errorf("expected no gateway calls, got %v", gw.Calls())
	}
}

func TestAddCommand_Rejected(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.SetErr(gateway.OpCreate, gateway.Rejection(gateway.OpCreate, "", 500, errors.New("boom")))

	_, stderr, code := runCommand(t, &commands.AddCmd{}, gw, []string{"Task"}, false)

	expectCode(t, code, exitcode.BackendError)
	if !strings.Contains(stderr, "remote rejection (status 500)") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for edit command
func TestEditCommand_Title(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "two litres")

	cmd := &commands.EditCmd{}
	cmd.SetTitle("Buy oat milk")
	stdout, stderr, code := runCommand(t, cmd, gw, []string{"1"}, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" || stdout != "ok\n" {
		t.Errorf("unexpected output %q / %q", stdout, stderr)
	}
	got, _ := gw.Task("1")
	// The summary is carried over from the task.
	if got.Title != "Buy oat milk" || got.Summary != "two litres" {
		t.Errorf("unexpected task %+v", got)
	}
}

func TestEditCommand_ClearSummary(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "two litres")

	cmd := &commands.EditCmd{}
	cmd.SetSummary("")
	_, _, code := runCommand(t, cmd, gw, []string{"1"}, false)

	expectCode(t, code, exitcode.Success)
	got, _ := gw.Task("1")
	if got.Title != "Buy milk" || got.Summary != "" {
		t.Errorf("unexpected task %+v", got)
	}
}

func TestEditCommand_NothingToChange(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "")

	_, stderr, code := runCommand(t, &commands.EditCmd{}, gw, []string{"1"}, false)

	expectCode(t, code, exitcode.UserError)
	if !strings.Contains(stderr, "nothing to change") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestEditCommand_EmptyTitle(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "")

	cmd := &commands.EditCmd{}
	cmd.SetTitle(" ")
	_, stderr, code := runCommand(t, cmd, gw, []string{"1"}, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: title required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for done command
func TestDoneCommand_TogglesTwice(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "")

	_, _, code := runCommand(t, &commands.DoneCmd{}, gw, []string{"1"}, false)
	expectCode(t, code, exitcode.Success)
	if got, _ := gw.Task("1"); got.Status != task.StatusCompleted {
		t.Fatalf("expected completed, got %q", got.Status)
	}

	_, _, code = runCommand(t, &commands.DoneCmd{}, gw, []string{"1"}, false)
	expectCode(t, code, exitcode.Success)
	if got, _ := gw.Task("1"); got.Status != task.StatusEmpty {
		t.Fatalf("expected empty, got %q", got.Status)
	}
}

func TestDoneCommand_NoRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeGateway(), nil, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: task reference required\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_InvalidRef(t *testing.T) {
	_, stderr, code := runCommand(t, &commands.DoneCmd{}, testutil.NewFakeGateway(), []string{"abc"}, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: invalid task reference: abc\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDoneCommand_OutOfRange(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "")

	_, stderr, code := runCommand(t, &commands.DoneCmd{}, gw, []string{"2"}, false)

	expectCode(t, code, exitcode.UserError)
	if stderr != "error: task number out of range: 2\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "")
	gw.AddTask("Buy eggs", "")

	stdout, _, code := runCommand(t, &commands.RmCmd{}, gw, []string{"2"}, false)

	expectCode(t, code, exitcode.Success)
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if _, ok := gw.Task("2"); ok {
		t.Error("task 2 should be deleted")
	}
	if _, ok := gw.Task("1"); !ok {
		t.Error("task 1 should remain")
	}
}

func TestRmCommand_Failure(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "")
	gw.SetErr(gateway.OpDelete, gateway.Network(gateway.OpDelete, "1", errors.New("timeout")))

	_, stderr, code := runCommand(t, &commands.RmCmd{}, gw, []string{"1"}, false)

	expectCode(t, code, exitcode.BackendError)
	if !strings.Contains(stderr, "operation delete on target 1 failed") {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if _, ok := gw.Task("1"); !ok {
		t.Error("task should survive a failed delete")
	}
}

// Tests for show command
func TestShowCommand(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "two litres")

	stdout, stderr, code := runCommand(t, &commands.ShowCmd{}, gw, []string{"1"}, false)

	expectCode(t, code, exitcode.Success)
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "show", stdout)

	calls := gw.Calls()
	if calls[len(calls)-1] != gateway.OpGet+":1" {
		t.Errorf("expected a fresh fetch, got calls %v", calls)
	}
}

func TestShowCommand_FetchFailure(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.AddTask("Buy milk", "")
	gw.SetErr(gateway.OpGet, gateway.Rejection(gateway.OpGet, "1", 404, errors.New("not found")))

	stdout, _, code := runCommand(t, &commands.ShowCmd{}, gw, []string{"1"}, false)

	expectCode(t, code, exitcode.BackendError)
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
}
