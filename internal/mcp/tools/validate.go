package tools

import (
	"context"
	"fmt"
	"sort"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/query"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

// ValidateInput is the input for schemacheck_validate.
type ValidateInput struct {
	Schema      string   `json:"schema" jsonschema:"JSON Schema document as JSON or YAML text"`
	Instances   []string `json:"instances" jsonschema:"Documents to validate, each as JSON or YAML text"`
	Format      string   `json:"format,omitempty" jsonschema:"Text format of schema and instances: json or yaml (default: json, falling back to yaml)"`
	Draft       string   `json:"draft,omitempty" jsonschema:"Force a draft: draft3, draft4, draft6 or draft7 (default: chosen by $schema)"`
	FormatCheck *bool    `json:"format_check,omitempty" jsonschema:"Enforce the format keyword (default: server configuration)"`
	Query       string   `json:"query,omitempty" jsonschema:"jq expression selecting the values to validate from each instance"`
	MaxErrors   int      `json:"max_errors,omitempty" jsonschema:"Max errors reported per instance (default: 50)"`
}

// ValidateOutput is the output for schemacheck_validate.
type ValidateOutput struct {
	Summary      ValidateSummary  `json:"summary"`
	Results      []InstanceResult `json:"results,omitzero"`
	CommonErrors []CommonError    `json:"common_errors,omitempty"`
	QueryErrors  []string         `json:"query_errors,omitempty"`
	Message      string           `json:"message"`
}

// ValidateSummary summarizes the validation results.
type ValidateSummary struct {
	Draft        string `json:"draft"`
	Instances    int    `json:"instances"`
	ValidCount   int    `json:"valid_count"`
	InvalidCount int    `json:"invalid_count"`
	AllValid     bool   `json:"all_valid"`
}

// InstanceResult contains the validation result for a single instance.
type InstanceResult struct {
	Label      string      `json:"label"`
	Valid      bool        `json:"valid"`
	ErrorCount int         `json:"error_count,omitempty"`
	Truncated  bool        `json:"truncated,omitempty"`
	BestMatch  *ErrorView  `json:"best_match,omitempty"`
	Errors     []ErrorView `json:"errors,omitempty"`
}

// CommonError represents a frequently occurring validation error.
type CommonError struct {
	Error     string `json:"error"`
	Frequency int    `json:"frequency"`
}

// localRefHandlers keep $ref from reading files of the machine the server
// runs on. Schemas reach the tools as text, so they have no file base.
var localRefHandlers = map[string]jsonschema.Handler{
	"file": refuseLocalRef,
	"":     refuseLocalRef,
}

func refuseLocalRef(_ context.Context, uri string) (any, error) {
	return nil, fmt.Errorf("local reference %q is not allowed; inline the schema or use an http(s) URL", uri)
}

// ToolValidate validates documents against a schema.
func ToolValidate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ValidateInput) (*sdkmcp.CallToolResult, ValidateOutput, error) {
		if input.Schema == "" {
			return nil, ValidateOutput{}, ErrInvalidInput("schema is required")
		}
		if len(input.Instances) == 0 {
			return nil, ValidateOutput{}, ErrInvalidInput("at least one instance is required")
		}

		schema, err := decodeText(input.Schema, input.Format)
		if err != nil {
			return nil, ValidateOutput{}, ErrInvalidInput("invalid schema document: " + err.Error())
		}

		instances := make([]checker.Instance, 0, len(input.Instances))
		for i, text := range input.Instances {
			v, err := decodeText(text, input.Format)
			if err != nil {
				return nil, ValidateOutput{}, ErrInvalidInput(fmt.Sprintf("invalid instance %d: %v", i, err))
			}
			instances = append(instances, checker.Instance{Label: fmt.Sprintf("instance[%d]", i), Value: v})
		}

		var queryErrors []string
		if input.Query != "" {
			sel, err := query.Compile(input.Query)
			if err != nil {
				return nil, ValidateOutput{}, ErrInvalidInput(err.Error())
			}
			instances, queryErrors, err = checker.Select(ctx, sel, instances)
			if err != nil {
				return nil, ValidateOutput{}, WrapCheckError(err)
			}
		}

		maxErrors := input.MaxErrors
		if maxErrors <= 0 {
			maxErrors = d.Config.ToolMaxErrors
		}

		run, err := d.Checker.Validate(ctx, schema, instances, checker.Options{
			Draft:       input.Draft,
			FormatCheck: input.FormatCheck,
			MaxErrors:   maxErrors,
			Handlers:    localRefHandlers,
		})
		if err != nil {
			return nil, ValidateOutput{}, WrapCheckError(err)
		}

		output := ValidateOutput{
			Summary: ValidateSummary{
				Draft:     run.Class.Version(),
				Instances: len(run.Reports),
			},
			Results:     make([]InstanceResult, 0, len(run.Reports)),
			QueryErrors: queryErrors,
		}

		errorCounts := make(map[string]int)
		for _, rep := range run.Reports {
			result := InstanceResult{
				Label:      rep.Label,
				Valid:      rep.Valid(),
				ErrorCount: len(rep.Errors),
				Truncated:  rep.Truncated,
			}
			if rep.Valid() {
				output.Summary.ValidCount++
			} else {
				output.Summary.InvalidCount++
				best := newErrorView(rep.Best)
				result.BestMatch = &best
			}
			for _, e := range rep.Errors {
				result.Errors = append(result.Errors, newErrorView(e))
				errorCounts[e.Message]++
			}
			output.Results = append(output.Results, result)
		}
		output.Summary.AllValid = output.Summary.Instances > 0 && output.Summary.InvalidCount == 0

		// Aggregate common errors
		if len(errorCounts) > 0 {
			output.CommonErrors = make([]CommonError, 0, len(errorCounts))
			for e, count := range errorCounts {
				output.CommonErrors = append(output.CommonErrors, CommonError{Error: e, Frequency: count})
			}
			sort.Slice(output.CommonErrors, func(i, j int) bool {
				if output.CommonErrors[i].Frequency != output.CommonErrors[j].Frequency {
					return output.CommonErrors[i].Frequency > output.CommonErrors[j].Frequency
				}
				return output.CommonErrors[i].Error < output.CommonErrors[j].Error
			})
		}

		output.Message = printer.Sprintf("%d of %d instances are valid under %s",
			output.Summary.ValidCount, output.Summary.Instances, output.Summary.Draft)

		return nil, output, nil
	}
}
