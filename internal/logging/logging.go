// Package logging provides structured logging setup for the realty site.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds a logger writing to w. Development logs are human-readable text
// at debug level; production logs are JSON at info level and carry the
// service name so they can be told apart in a shared sink.
func New(w io.Writer, devMode bool) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	return slog.New(h).With("service", "realty-site")
}

// Setup installs New(os.Stdout, devMode) as the default slog logger.
func Setup(devMode bool) {
	slog.SetDefault(New(os.Stdout, devMode))
}
