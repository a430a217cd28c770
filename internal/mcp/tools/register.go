package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	AddTool(srv, &sdkmcp.Tool{
		Name:        "schemacheck_validate",
		Description: "Validate JSON or YAML documents against a JSON Schema (draft 3, 4, 6 or 7). The draft is chosen by the schema's $schema unless draft is set. Returns a summary, per-instance results with the most relevant error (best_match) and every error with its instance path and schema path, and the most common error messages. Set query to a jq expression to validate only the selected parts of each document. The schema is checked against its meta-schema first; an invalid schema fails with SCHEMA_ERROR, an unresolvable $ref with RESOLUTION_ERROR.",
	}, ToolValidate(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "schemacheck_check_schema",
		Description: "Check that a JSON Schema is valid under the meta-schema of its draft. Returns every problem found, with the most relevant one as best_match. Use this before validate when writing or editing a schema.",
	}, ToolCheckSchema(d))

	AddTool(srv, &sdkmcp.Tool{
		Name:        "schemacheck_infer_schema",
		Description: "Infer a draft-07 JSON Schema from sample documents. The schema uses type, properties, items, required and anyOf, and is verified to accept every sample before it is returned. Use it as a starting point for a hand-written schema, then check it with check_schema.",
	}, ToolInferSchema(d))
}
