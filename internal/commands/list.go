package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskdeck` (no args) and `taskdeck list`.
type ListCmd struct {
	summary bool
}

// SetSummary enables summary lines (for testing).
func (c *ListCmd) SetSummary(on bool) {
	c.summary = on
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "taskdeck list [--summary]" }
func (c *ListCmd) NeedsGateway() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.summary, "summary", false, "")
	fs.BoolVar(&c.summary, "s", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	eng, code := openEngine(ctx, cfg, gw, errOut)
	if eng == nil {
		return code
	}
	defer eng.Close()

	tasks := eng.Snapshot().Tasks
	if len(tasks) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, output.NoTasks)
		}
		return exitcode.Success
	}

	for i, t := range tasks {
		if c.summary {
			output.FormatTaskWithSummary(out, i+1, t)
		} else {
			output.FormatTask(out, i+1, t)
		}
	}
	return exitcode.Success
}
