package config

import (
	"io"
	"log/slog"
)

// Logger returns the debug logger writing to w. Without --debug every
// record is discarded.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	if !c.Debug || w == nil {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
