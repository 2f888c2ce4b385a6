package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"taskdeck/internal/config"
	"taskdeck/internal/engine"
	"taskdeck/internal/exitcode"
	"taskdeck/internal/gateway"
)

// startEngine starts an engine over gw with an empty store.
func startEngine(cfg *config.Config, gw gateway.Gateway, errOut io.Writer) *engine.Engine {
	return engine.New(gw, engine.WithLogger(cfg.Logger(errOut)))
}

// openEngine starts an engine over gw and loads the remote list into it.
// On failure the error is reported and a non-zero exit code is returned.
func openEngine(ctx context.Context, cfg *config.Config, gw gateway.Gateway, errOut io.Writer) (*engine.Engine, int) {
	eng := startEngine(cfg, gw, errOut)
	if err := eng.Refresh(ctx).Wait(ctx); err != nil {
		eng.Close()
		return nil, reportError(errOut, err)
	}
	return eng, exitcode.Success
}

// reportError prints err and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	switch {
	case errors.Is(err, engine.ErrIndexOutOfRange):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	case errors.Is(err, engine.ErrStale):
		fmt.Fprintln(errOut, "error: task changed while the request was in flight")
		return exitcode.BackendError
	}

	switch gateway.StatusCode(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	}

	fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	return exitcode.BackendError
}

// usageError prints a task reference error.
func usageError(errOut io.Writer, err error) int {
	if err == ErrTaskRefRequired {
		fmt.Fprintln(errOut, "error: task reference required")
	} else {
		fmt.Fprintf(errOut, "error: %v\n", err)
	}
	return exitcode.UserError
}

func printOK(cfg *config.Config, out io.Writer) {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
}
