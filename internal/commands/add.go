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
	"taskdeck/internal/task"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	summary string
}

// SetSummary sets the summary (for testing).
func (c *AddCmd) SetSummary(s string) {
	c.summary = s
}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "taskdeck add [--summary <text>] <title...>" }
func (c *AddCmd) NeedsGateway() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.summary, "summary", "", "")
	fs.StringVar(&c.summary, "s", "", "")
}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, args []string, out, errOut io.Writer) int {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	// Creating never needs the current list.
	eng := startEngine(cfg, gw, errOut)
	defer eng.Close()

	if err := eng.Create(ctx, task.Draft{Title: title, Summary: c.summary}).Wait(ctx); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}
