package commands

import (
	"context"
	"flag"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/output"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command. The record is fetched fresh from
// the remote store, not taken from the listing.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"view"} }
func (c *ShowCmd) Synopsis() string   { return "Show the full record of a task" }
func (c *ShowCmd) Usage() string      { return "taskdeck show <n>" }
func (c *ShowCmd) NeedsGateway() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, args []string, out, errOut io.Writer) int {
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

	if err := eng.ViewDetails(ctx, t.ID).Wait(ctx); err != nil {
		return reportError(errOut, err)
	}

	output.FormatDetails(out, eng.Snapshot().Details.Task)
	return exitcode.Success
}
