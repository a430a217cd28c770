package mcpsrv

import (
	"context"
	"log/slog"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemacheck/internal/config"
)

// settings collects what the options ask for. Registrations run in the
// order their options were given, after the builtins.
type settings struct {
	config   *config.Config
	logger   *slog.Logger
	logLevel string
	logFile  string

	noTools   bool
	noPrompts bool

	registrations []func(*sdkmcp.Server, *Deps)
}

func (s *settings) register(fn func(*sdkmcp.Server, *Deps)) {
	s.registrations = append(s.registrations, fn)
}

// Option configures NewServer.
type Option func(*settings)

// WithConfig replaces the configuration read from SCHEMACHECK_* variables.
// Options that tune the configuration apply to c.
func WithConfig(c *config.Config) Option {
	return func(s *settings) { s.config = c }
}

// WithLogLevel overrides LOG_LEVEL.
func WithLogLevel(level string) Option {
	return func(s *settings) { s.logLevel = level }
}

// WithLogFile also writes logs to a rotated file at path.
func WithLogFile(path string) Option {
	return func(s *settings) { s.logFile = path }
}

// WithLogger logs to l. The level and file options are then ignored and
// slog.Default() is not replaced.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithDefaultDraft sets the draft for schemas without $schema.
func WithDefaultDraft(draft string) Option {
	return func(s *settings) { s.config.DefaultDraft = draft }
}

// WithFormatCheck sets whether format is enforced for calls that leave
// format_check unset.
func WithFormatCheck(on bool) Option {
	return func(s *settings) { s.config.FormatCheck = on }
}

// WithoutBuiltinTools leaves out the schemacheck_* tools and the draft
// resources.
func WithoutBuiltinTools() Option {
	return func(s *settings) { s.noTools = true }
}

// WithoutBuiltinPrompts leaves out the workflow prompts.
func WithoutBuiltinPrompts() Option {
	return func(s *settings) { s.noPrompts = true }
}

// WithTool adds a tool. Its output type goes through the same startup check
// as [AddTool].
func WithTool[In, Out any](tool *sdkmcp.Tool, handler func(context.Context, *sdkmcp.CallToolRequest, In) (*sdkmcp.CallToolResult, Out, error)) Option {
	return func(s *settings) {
		s.register(func(srv *sdkmcp.Server, _ *Deps) { AddTool(srv, tool, handler) })
	}
}

// WithDepsTool adds a tool whose handler is built from the server's Deps,
// so it can share the checker and its caches:
//
//	mcpsrv.WithDepsTool(tool, func(d *mcpsrv.Deps) func(context.Context, *mcp.CallToolRequest, In) (*mcp.CallToolResult, Out, error) {
//		return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) { ... }
//	})
func WithDepsTool[In, Out any](tool *sdkmcp.Tool, build func(*Deps) func(context.Context, *sdkmcp.CallToolRequest, In) (*sdkmcp.CallToolResult, Out, error)) Option {
	return func(s *settings) {
		s.register(func(srv *sdkmcp.Server, d *Deps) { AddTool(srv, tool, build(d)) })
	}
}

// WithPrompt adds a prompt.
func WithPrompt(prompt *sdkmcp.Prompt, handler sdkmcp.PromptHandler) Option {
	return func(s *settings) {
		s.register(func(srv *sdkmcp.Server, _ *Deps) { srv.AddPrompt(prompt, handler) })
	}
}

// WithResourceTemplate adds a resource template.
func WithResourceTemplate(template *sdkmcp.ResourceTemplate, handler sdkmcp.ResourceHandler) Option {
	return func(s *settings) {
		s.register(func(srv *sdkmcp.Server, _ *Deps) { srv.AddResourceTemplate(template, handler) })
	}
}
