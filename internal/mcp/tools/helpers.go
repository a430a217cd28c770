// Package tools contains MCP tool implementations for schemacheck.
package tools

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/schemacheck/internal/document"
	"github.com/usestring/schemacheck/pkg/jsoncompact"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

// MIME type constant.
const MimeJSON = "application/json"

var printer = message.NewPrinter(language.English)

// ErrorView is the wire form of a validation error.
type ErrorView struct {
	Message    string   `json:"message"`
	Path       string   `json:"path"`               // Instance location as a JSON Pointer fragment
	SchemaPath string   `json:"schema_path"`        // Failed keyword location as a JSON Pointer fragment
	Keyword    string   `json:"keyword,omitempty"`  // Empty for the false schema
	Instance   any      `json:"instance,omitempty"` // Failing value, compacted
	Context    []string `json:"context,omitempty"`  // Branch errors of anyOf, oneOf and similar keywords
}

func newErrorView(e *jsonschema.ValidationError) ErrorView {
	view := ErrorView{
		Message:    e.Message,
		Path:       pointer(e.AbsolutePath()),
		SchemaPath: pointer(e.AbsoluteSchemaPath()),
		Keyword:    string(e.Validator),
		Instance:   jsoncompact.CompactValue(e.Instance, nil),
	}
	for _, c := range e.Context {
		view.Context = append(view.Context, fmt.Sprintf("%s: %s", pointer(c.AbsolutePath()), c.Message))
	}
	return view
}

func pointer(p jsonschema.Path) string {
	return "#" + p.Pointer()
}

// decodeText parses a document given as text. An empty format tries JSON
// first and falls back to YAML.
func decodeText(text, format string) (any, error) {
	data := []byte(text)
	switch strings.ToLower(format) {
	case "json":
		return document.DecodeJSON(data)
	case "yaml", "yml":
		return document.DecodeYAML(data)
	case "":
		if v, err := document.DecodeJSON(data); err == nil {
			return v, nil
		}
		return document.DecodeYAML(data)
	}
	return nil, fmt.Errorf("format must be json or yaml, got %q", format)
}
