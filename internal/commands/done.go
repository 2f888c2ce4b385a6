package commands

import (
	"context"
	"flag"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command. It flips the task between
// completed and empty, so running it twice restores the status.
type DoneCmd struct{}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"toggle"} }
func (c *DoneCmd) Synopsis() string   { return "Toggle a task between completed and open" }
func (c *DoneCmd) Usage() string      { return "taskdeck done <n>" }
func (c *DoneCmd) NeedsGateway() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, args []string, out, errOut io.Writer) int {
	num, err := ParseTaskRef(args)
	if err != nil {
		return usageError(errOut, err)
	}

	eng, code := openEngine(ctx, cfg, gw, errOut)
	if eng == nil {
		return code
	}
	defer eng.Close()

	_, t, err := lookupTask(eng.Snapshot(), num)
	if err != nil {
		return usageError(errOut, err)
	}

	if err := eng.ToggleComplete(ctx, t.ID, t.Status).Wait(ctx); err != nil {
		return reportError(errOut, err)
	}

	printOK(cfg, out)
	return exitcode.Success
}
