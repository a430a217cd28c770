package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemacheck/pkg/infer"
)

// InferSchemaInput is the input for schemacheck_infer_schema.
type InferSchemaInput struct {
	Samples              []string `json:"samples" jsonschema:"Sample documents, each as JSON or YAML text"`
	Format               string   `json:"format,omitempty" jsonschema:"Text format of the samples: json or yaml (default: json, falling back to yaml)"`
	NoRequired           bool     `json:"no_required,omitempty" jsonschema:"Do not mark properties present in every sample as required"`
	AdditionalProperties *bool    `json:"additional_properties,omitempty" jsonschema:"Set additionalProperties on every object schema"`
}

// InferSchemaOutput is the output for schemacheck_infer_schema.
type InferSchemaOutput struct {
	Schema      any    `json:"schema"`
	SampleCount int    `json:"sample_count"`
	AllMatch    bool   `json:"all_match"`
	Message     string `json:"message"`
}

// ToolInferSchema infers a draft-07 schema that every sample satisfies and
// verifies it with the validator before returning it.
func ToolInferSchema(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, InferSchemaOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferSchemaInput) (*sdkmcp.CallToolResult, InferSchemaOutput, error) {
		if len(input.Samples) == 0 {
			return nil, InferSchemaOutput{}, ErrInvalidInput("at least one sample is required")
		}

		values := make([]any, 0, len(input.Samples))
		for i, text := range input.Samples {
			v, err := decodeText(text, input.Format)
			if err != nil {
				return nil, InferSchemaOutput{}, ErrInvalidInput(fmt.Sprintf("invalid sample %d: %v", i, err))
			}
			values = append(values, v)
		}

		opts := infer.DefaultOptions()
		opts.StrictRequired = !input.NoRequired
		opts.AdditionalProperties = input.AdditionalProperties

		result, err := infer.FromValues(opts, values...)
		if err != nil {
			return nil, InferSchemaOutput{}, ErrInvalidInput(err.Error())
		}
		if err := result.Verify(values...); err != nil {
			return nil, InferSchemaOutput{}, WrapCheckError(fmt.Errorf("inferred schema rejects its samples: %w", err))
		}
		doc, err := result.Document()
		if err != nil {
			return nil, InferSchemaOutput{}, WrapCheckError(err)
		}

		return nil, InferSchemaOutput{
			Schema:      doc,
			SampleCount: result.SampleCount,
			AllMatch:    result.AllMatch,
			Message:     printer.Sprintf("schema inferred from %d samples", result.SampleCount),
		}, nil
	}
}
