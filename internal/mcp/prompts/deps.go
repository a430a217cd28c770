// Package prompts contains MCP prompt implementations for schemacheck.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	DefaultDraft string
	FormatCheck  bool
}
