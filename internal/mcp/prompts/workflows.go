package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleFixValidationErrors guides an assistant from a failing validation to a fix.
func HandleFixValidationErrors(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments
		goal := strings.ToLower(args["goal"])
		if goal == "" {
			goal = "document"
		}
		draft := args["draft"]

		var sb strings.Builder
		sb.WriteString("# Fix Validation Errors\n\n")
		sb.WriteString("You are fixing a JSON Schema validation failure. ")
		if goal == "schema" {
			sb.WriteString("The documents are correct; change the schema so that they pass without accepting anything else.\n\n")
		} else {
			sb.WriteString("The schema is correct; change the document so that it passes.\n\n")
		}

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Check the schema** with `schemacheck_check_schema`")
		if draft != "" {
			fmt.Fprintf(&sb, " (`draft: %q`)", draft)
		}
		sb.WriteString(". A schema that fails its meta-schema cannot be trusted; fix those problems first.\n")
		sb.WriteString("2. **Validate** with `schemacheck_validate`. Read `best_match` of each failing instance before the full `errors` list.\n")
		sb.WriteString("   - `path` is where in the document the problem is; `schema_path` is the keyword that failed\n")
		sb.WriteString("   - For `anyOf` and `oneOf` failures, `context` lists why each branch failed; pick the branch the document was meant to match\n")
		sb.WriteString("   - Use `query` (a jq expression) to validate one part of a large document against a sub-schema\n")
		sb.WriteString("3. **Fix and re-validate** until `all_valid` is true. Fix one `best_match` at a time; later errors are often consequences of earlier ones.\n\n")

		sb.WriteString("## Notes\n\n")
		if cfg.FormatCheck {
			sb.WriteString("- `format` is enforced by default on this server; pass `format_check: false` to treat it as an annotation\n")
		} else {
			sb.WriteString("- `format` is an annotation by default on this server; pass `format_check: true` to enforce it\n")
		}
		fmt.Fprintf(&sb, "- Schemas without `$schema` are read as %s\n", cfg.DefaultDraft)
		sb.WriteString("- `$ref` replaces its sibling keywords in every supported draft\n")
		sb.WriteString("- The `schemacheck://dialect/{draft}` resource lists the keywords and formats of a draft\n")

		return &sdkmcp.GetPromptResult{
			Description: "Fix validation errors workflow",
			Messages: []*sdkmcp.PromptMessage{
				{Role: "user", Content: &sdkmcp.TextContent{Text: sb.String()}},
			},
		}, nil
	}
}

// HandleWriteSchema guides an assistant through writing a schema from samples.
func HandleWriteSchema(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		draft := req.Params.Arguments["draft"]
		if draft == "" {
			draft = "draft7"
		}

		var sb strings.Builder
		sb.WriteString("# Write a JSON Schema\n\n")
		fmt.Fprintf(&sb, "Write a %s JSON Schema for the example documents the user provides.\n\n", draft)

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Infer** a starting point with `schemacheck_infer_schema(samples=[...])`. It only uses type, properties, items, required and anyOf.\n")
		sb.WriteString("2. **Tighten** it by hand: enums for closed sets, `minimum`/`maximum`, `pattern`, `format`, `additionalProperties: false` where extra keys are mistakes.\n")
		if draft != "draft7" {
			fmt.Fprintf(&sb, "   - Read `schemacheck://dialect/%s` first: older drafts lack keywords such as `const`, `contains` and `if`/`then`/`else`\n", draft)
		}
		fmt.Fprintf(&sb, "3. **Check** it with `schemacheck_check_schema(draft=%q)`.\n", draft)
		sb.WriteString("4. **Prove** it with `schemacheck_validate` against every sample, then against a few documents that should fail.\n")

		return &sdkmcp.GetPromptResult{
			Description: "Write schema workflow",
			Messages: []*sdkmcp.PromptMessage{
				{Role: "user", Content: &sdkmcp.TextContent{Text: sb.String()}},
			},
		}, nil
	}
}
