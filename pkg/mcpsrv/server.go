package mcpsrv

import (
	"context"
	"fmt"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/config"
	"github.com/usestring/schemacheck/internal/logging"
	"github.com/usestring/schemacheck/internal/mcp"
	"github.com/usestring/schemacheck/internal/mcp/tools"
)

// Server is the schemacheck MCP server.
type Server struct {
	internal *mcp.Server
	deps     *Deps
	closeLog func() error
}

// NewServer builds a server from the environment configuration and opts.
// It fails when the default draft names no known draft.
func NewServer(opts ...Option) (*Server, error) {
	set := &settings{config: config.Load()}
	for _, opt := range opts {
		opt(set)
	}

	logger, closeLog, err := set.openLogger()
	if err != nil {
		return nil, err
	}

	chk, err := checker.New(set.config, logger)
	if err != nil {
		return nil, fmt.Errorf("creating checker: %w", err)
	}
	if _, err := chk.Version(set.config.DefaultDraft); err != nil {
		return nil, fmt.Errorf("default draft: %w", err)
	}
	deps := &Deps{Config: set.config, Checker: chk}

	features := mcp.AllFeatures
	if set.noTools {
		features &^= mcp.FeatureTools
	}
	if set.noPrompts {
		features &^= mcp.FeaturePrompts
	}
	extra := make([]mcp.Registration, 0, len(set.registrations))
	for _, fn := range set.registrations {
		extra = append(extra, func(srv *sdkmcp.Server) { fn(srv, deps) })
	}

	internal, err := mcp.NewServer(&tools.Deps{Config: set.config, Checker: chk}, mcp.Options{
		Features: features,
		Logger:   logger,
		Extra:    extra,
	})
	if err != nil {
		return nil, err
	}
	return &Server{internal: internal, deps: deps, closeLog: closeLog}, nil
}

// openLogger returns the logger the server uses. Unless WithLogger was
// given it installs one built from the configuration as slog.Default().
func (s *settings) openLogger() (*slog.Logger, func() error, error) {
	if s.logger != nil {
		return s.logger, nil, nil
	}
	logCfg := logging.FromConfig(s.config)
	if s.logLevel != "" {
		logCfg.Level = s.logLevel
	}
	if s.logFile != "" {
		logCfg.FilePath = s.logFile
	}
	closeLog, err := logging.Setup(logCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("setting up logging: %w", err)
	}
	return slog.Default(), closeLog, nil
}

// Run serves over stdin and stdout until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.internal.Run(ctx)
}

// Connect serves a single session over transport.
func (s *Server) Connect(ctx context.Context, transport sdkmcp.Transport) (*sdkmcp.ServerSession, error) {
	return s.internal.MCPServer().Connect(ctx, transport, nil)
}

// Close flushes and closes the log file, if any.
func (s *Server) Close() error {
	if s.closeLog == nil {
		return nil
	}
	return s.closeLog()
}

// Deps returns what custom tools share with the builtins.
func (s *Server) Deps() *Deps {
	return s.deps
}
