package mcp

import (
	"context"
	"errors"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemacheck/internal/mcp/prompts"
	"github.com/usestring/schemacheck/internal/mcp/tools"
)

// Version is reported to MCP clients.
const Version = "1.0.0"

// Features selects the builtin capabilities a server registers.
type Features uint8

const (
	// FeatureTools registers the validation tools and the draft resources.
	FeatureTools Features = 1 << iota
	// FeaturePrompts registers the workflow prompts.
	FeaturePrompts

	AllFeatures = FeatureTools | FeaturePrompts
)

// Registration adds tools, prompts or resources to a server after the
// builtins are in place.
type Registration func(*sdkmcp.Server)

// Options configures NewServer.
type Options struct {
	Features Features
	// Logger receives one record per request. Nil uses slog.Default().
	Logger *slog.Logger
	Extra  []Registration
}

// Server is an MCP server exposing a checker.
type Server struct {
	mcpServer *sdkmcp.Server
	deps      *tools.Deps
}

// NewServer builds a server around deps.
func NewServer(deps *tools.Deps, opts Options) (*Server, error) {
	if deps == nil || deps.Checker == nil || deps.Config == nil {
		return nil, errors.New("mcp: deps need a checker and a config")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		mcpServer: sdkmcp.NewServer(&sdkmcp.Implementation{Name: "schemacheck", Version: Version}, nil),
		deps:      deps,
	}
	s.mcpServer.AddReceivingMiddleware(LoggingMiddleware(logger))

	if opts.Features&FeatureTools != 0 {
		tools.Register(s.mcpServer, deps)
		s.registerResources()
	}
	if opts.Features&FeaturePrompts != 0 {
		prompts.Register(s.mcpServer, &prompts.Config{
			DefaultDraft: deps.Config.DefaultDraft,
			FormatCheck:  deps.Config.FormatCheck,
		})
	}
	for _, reg := range opts.Extra {
		reg(s.mcpServer)
	}
	return s, nil
}

// Run serves over stdin and stdout until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// MCPServer returns the SDK server.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.mcpServer
}
