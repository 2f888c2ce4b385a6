package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
)

func init() {
	Register(&EditCmd{})
}

// optString is a string flag that remembers whether it was given.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// EditCmd implements the edit command.
type EditCmd struct {
	title   optString
	summary optString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(s string) { _ = c.title.Set(s) }

// SetSummary sets the new summary (for testing).
func (c *EditCmd) SetSummary(s string) { _ = c.summary.Set(s) }

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Change the title or summary of a task" }
func (c *EditCmd) Usage() string      { return "taskdeck edit [--title <text>] [--summary <text>] <n>" }
func (c *EditCmd) NeedsGateway() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.summary = optString{}, optString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.summary, "summary", "")
	fs.Var(&c.summary, "s", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, args []string, out, errOut io.Writer) int {
	num, err := ParseTaskRef(args)
	if err != nil {
		return usageError(errOut, err)
	}
	if !c.title.set && !c.summary.set {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --summary)")
		return exitcode.UserError
	}
	if c.title.set && strings.TrimSpace(c.title.value) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	eng, code := openEngine(ctx, cfg, gw, errOut)
	if eng == nil {
		return code
	}
	defer eng.Close()

	idx, _, err := lookupTask(eng.Snapshot(), num)
	if err != nil {
		return usageError(errOut, err)
	}
	if err := eng.BeginEdit(idx); err != nil {
		return reportError(errOut, err)
	}

	// Flags override the drafts pre-filled from the task.
	draft := eng.Snapshot().Session.Draft
	if c.title.set {
		draft.Title = strings.TrimSpace(c.title.value)
	}
	if c.summary.set {
		draft.Summary = c.summary.value
	}

	if err := eng.SubmitEdit(ctx, draft).Wait(ctx); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}
