package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskdeck/internal/config"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
	"taskdeck/internal/tui"
)

func init() {
	Register(&TUICmd{})
}

// TUICmd implements the interactive mode.
type TUICmd struct{}

func (c *TUICmd) Name() string       { return "tui" }
func (c *TUICmd) Aliases() []string  { return nil }
func (c *TUICmd) Synopsis() string   { return "Browse and edit tasks interactively" }
func (c *TUICmd) Usage() string      { return "taskdeck tui" }
func (c *TUICmd) NeedsGateway() bool { return true }

func (c *TUICmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TUICmd) Run(ctx context.Context, cfg *config.Config, gw gateway.Gateway, args []string, out, errOut io.Writer) int {
	// Debug logs would corrupt the alternate screen.
	eng := startEngine(cfg, gw, nil)
	defer eng.Close()

	if err := tui.Run(ctx, eng); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
