package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "fix_validation_errors",
		Description: "RECOMMENDED: Make a document pass a JSON Schema, or fix the schema. Walks through check_schema, validate and best_match triage.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "goal",
				Description: "What should change: 'document' to fix the instance, 'schema' to fix the schema (default: document)",
				Required:    false,
			},
			{
				Name:        "draft",
				Description: "Draft the schema is written for (e.g., 'draft4'); defaults to the schema's $schema",
				Required:    false,
			},
		},
	}, HandleFixValidationErrors(cfg))

	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "write_schema",
		Description: "Write a JSON Schema for example documents: infer a starting point, tighten it, and prove it against the samples.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "draft",
				Description: "Target draft (default: draft7)",
				Required:    false,
			},
		},
	}, HandleWriteSchema(cfg))
}
