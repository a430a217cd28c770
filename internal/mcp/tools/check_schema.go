package tools

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemacheck/pkg/jsonschema"
)

// CheckSchemaInput is the input for schemacheck_check_schema.
type CheckSchemaInput struct {
	Schema string `json:"schema" jsonschema:"JSON Schema document as JSON or YAML text"`
	Format string `json:"format,omitempty" jsonschema:"Text format of the schema: json or yaml (default: json, falling back to yaml)"`
	Draft  string `json:"draft,omitempty" jsonschema:"Force a draft: draft3, draft4, draft6 or draft7 (default: chosen by $schema)"`
}

// CheckSchemaOutput is the output for schemacheck_check_schema.
type CheckSchemaOutput struct {
	Draft     string      `json:"draft"`
	Valid     bool        `json:"valid"`
	BestMatch *ErrorView  `json:"best_match,omitempty"`
	Errors    []ErrorView `json:"errors,omitzero"`
	Message   string      `json:"message"`
}

// ToolCheckSchema checks a schema against the meta-schema of its draft.
func ToolCheckSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CheckSchemaInput) (*sdkmcp.CallToolResult, CheckSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CheckSchemaInput) (*sdkmcp.CallToolResult, CheckSchemaOutput, error) {
		if input.Schema == "" {
			return nil, CheckSchemaOutput{}, ErrInvalidInput("schema is required")
		}
		schema, err := decodeText(input.Schema, input.Format)
		if err != nil {
			return nil, CheckSchemaOutput{}, ErrInvalidInput("invalid schema document: " + err.Error())
		}

		class, errs, err := d.Checker.SchemaErrors(schema, input.Draft)
		if err != nil {
			return nil, CheckSchemaOutput{}, WrapCheckError(err)
		}

		output := CheckSchemaOutput{
			Draft:  class.Version(),
			Valid:  len(errs) == 0,
			Errors: make([]ErrorView, 0, len(errs)),
		}
		for _, e := range errs {
			output.Errors = append(output.Errors, newErrorView(e))
		}
		if best := jsonschema.BestMatch(errs); best != nil {
			view := newErrorView(best)
			output.BestMatch = &view
			output.Message = printer.Sprintf("schema has %d problems under %s; most relevant at %s: %s",
				len(errs), class.Version(), view.Path, view.Message)
		} else {
			output.Message = printer.Sprintf("schema is valid under %s", class.Version())
		}

		return nil, output, nil
	}
}
