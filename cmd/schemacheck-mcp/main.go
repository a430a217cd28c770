// Command schemacheck-mcp serves the schemacheck validation tools to MCP
// clients over stdio. It is configured through SCHEMACHECK_* and LOG_*
// environment variables; see internal/config.
package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/schemacheck/pkg/mcpsrv"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := mcpsrv.NewServer()
	if err != nil {
		slog.Error("cannot start", "error", err)
		return 1
	}
	defer server.Close()

	slog.Info("serving on stdio", "default_draft", server.Deps().Config.DefaultDraft)
	if err := server.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("server stopped", "error", err)
		return 1
	}
	return 0
}
