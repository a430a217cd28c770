package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"reflect"
	"slices"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/schemacheck/internal/document"
	check "github.com/usestring/schemacheck/pkg/jsonschema"
)

// AddTool runs CheckOutputSchema for Out and registers the tool.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema checks, with the draft 7 validator, that the zero value
// of T conforms to the schema the SDK infers for T. A nil slice encodes as
// null where the schema says "array"; tag such fields omitzero or
// initialize them. json.RawMessage fields are rejected as well, since the
// generator describes them as arrays of bytes.
//
// Panics on a violation. Untyped outputs and types the generator cannot
// describe are skipped; the SDK reports the latter itself.
func CheckOutputSchema[T any](toolName string) {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return
	}
	elem := rt
	if elem.Kind() == reflect.Pointer {
		elem = elem.Elem()
	}

	if paths := findRawMessageFields(elem, nil, make(map[reflect.Type]bool)); len(paths) > 0 {
		panic(fmt.Sprintf(
			"tool %q: output type %s has json.RawMessage fields (%s), "+
				"whose inferred schema is an array of integers; use any and store a decoded document",
			toolName, elem, strings.Join(paths, ", "),
		))
	}

	inferred, err := jsonschema.ForType(elem, &jsonschema.ForOptions{})
	if err != nil {
		return
	}
	schema, err := asDocument(inferred)
	if err != nil {
		return
	}
	zero, err := asDocument(reflect.Zero(elem).Interface())
	if err != nil {
		return
	}

	err = check.Draft7().New(schema).Validate(zero)
	var verr *check.ValidationError
	if errors.As(err, &verr) {
		data, _ := json.Marshal(zero)
		panic(fmt.Sprintf(
			"tool %q: zero %s encodes as %s, which fails its output schema at %s: %s; "+
				"tag nil slices omitzero or initialize them",
			toolName, elem, data, "#"+verr.AbsolutePath().Pointer(), verr.Message,
		))
	}
}

// asDocument round-trips v through JSON into the tree form the validator reads.
func asDocument(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return document.DecodeJSON(data)
}

var rawMessageType = reflect.TypeFor[json.RawMessage]()

// findRawMessageFields lists the dotted paths of json.RawMessage values
// reachable from t. The schema generator sees those as []byte while the
// encoder writes arbitrary JSON.
func findRawMessageFields(t reflect.Type, path []string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == rawMessageType {
		return []string{strings.Join(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for f := range fieldsOf(t) {
			found = append(found, findRawMessageFields(f.Type, append(slices.Clip(path), f.Name), visiting)...)
		}
	case reflect.Slice, reflect.Array:
		found = findRawMessageFields(t.Elem(), append(slices.Clip(path), "[]"), visiting)
	case reflect.Map:
		found = findRawMessageFields(t.Elem(), append(slices.Clip(path), "[value]"), visiting)
	}
	return found
}

// fieldsOf yields the exported fields of a struct type.
func fieldsOf(t reflect.Type) iter.Seq[reflect.StructField] {
	return func(yield func(reflect.StructField) bool) {
		for i := range t.NumField() {
			if f := t.Field(i); f.IsExported() && !yield(f) {
				return
			}
		}
	}
}
