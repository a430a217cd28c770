package jsonschema_test

import (
	"fmt"
	"strings"
	"testing"

	oracle "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/schemacheck/internal/document"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

// crossSchemas are checked against every crossInstances entry with both this
// package and an independent draft 7 implementation.
var crossSchemas = []string{
	`{"type": "integer"}`,
	`{"type": ["string", "null"], "minLength": 2}`,
	`{"properties": {"a": {"type": "number", "exclusiveMaximum": 10}}, "required": ["a"]}`,
	`{"additionalProperties": false, "patternProperties": {"^x": {}}}`,
	`{"items": [{"type": "integer"}], "additionalItems": {"type": "string"}}`,
	`{"items": {"multipleOf": 0.5}, "uniqueItems": true, "maxItems": 3}`,
	`{"anyOf": [{"type": "array", "contains": {"const": 1}}, {"type": "object", "minProperties": 2}]}`,
	`{"oneOf": [{"type": "number"}, {"minimum": 0}]}`,
	`{"not": {"enum": [1, "a", null, [1]]}}`,
	`{"if": {"type": "object"}, "then": {"propertyNames": {"maxLength": 1}}, "else": {"type": "array"}}`,
	`{"dependencies": {"a": ["b"], "b": {"required": ["c"]}}}`,
	`{"definitions": {"n": {"type": "object", "properties": {"next": {"$ref": "#/definitions/n"}}, "maxProperties": 1}}, "$ref": "#/definitions/n"}`,
	`{"allOf": [true, {"properties": {"x": false}}]}`,
}

var crossInstances = []string{
	`null`, `true`, `0`, `1`, `1.0`, `2.5`, `11`, `-3`, `"a"`, `"ab"`, `"xyz"`,
	`[]`, `[1]`, `[1, "a"]`, `[1, 2, 2]`, `[0.5, 1.5, 2]`, `[[1], [1.0]]`,
	`{}`, `{"a": 1}`, `{"a": 1, "b": 2}`, `{"a": 1, "b": 2, "c": 3}`, `{"x": 1}`, `{"xa": 1, "y": 2}`,
	`{"next": {"next": {}}}`, `{"next": {"next": {"a": 1, "b": 2}}}`, `{"a": 12}`,
}

func TestCrossCheckDraft7(t *testing.T) {
	for i, schemaSrc := range crossSchemas {
		schema, err := document.DecodeJSON([]byte(schemaSrc))
		require.NoError(t, err)
		require.NoError(t, jsonschema.Draft7().CheckSchema(schema))
		v := jsonschema.Draft7().New(schema)

		reference := compileOracle(t, i, schemaSrc)

		for _, instanceSrc := range crossInstances {
			t.Run(fmt.Sprintf("%d/%s", i, instanceSrc), func(t *testing.T) {
				instance, err := document.DecodeJSON([]byte(instanceSrc))
				require.NoError(t, err)
				got, err := v.IsValid(instance)
				require.NoError(t, err)

				oracleInstance, err := oracle.UnmarshalJSON(strings.NewReader(instanceSrc))
				require.NoError(t, err)
				want := reference.Validate(oracleInstance) == nil

				assert.Equal(t, want, got, "schema %s", schemaSrc)
			})
		}
	}
}

func compileOracle(t *testing.T, i int, src string) *oracle.Schema {
	t.Helper()
	doc, err := oracle.UnmarshalJSON(strings.NewReader(src))
	require.NoError(t, err)

	compiler := oracle.NewCompiler()
	compiler.DefaultDraft(oracle.Draft7)
	url := fmt.Sprintf("schema%d.json", i)
	require.NoError(t, compiler.AddResource(url, doc))
	sch, err := compiler.Compile(url)
	require.NoError(t, err)
	return sch
}
