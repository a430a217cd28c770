// Package infer derives draft-07 JSON Schemas from sample documents.
//
// The inferred schema is the narrowest one, built from type, properties,
// items, required and anyOf, that every sample satisfies. Result.Verify
// checks that claim with the validation engine.
package infer

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/usestring/schemacheck/internal/document"
	check "github.com/usestring/schemacheck/pkg/jsonschema"
)

// Draft07 is the $schema of inferred schemas.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// ErrNoSamples is returned when no sample could be decoded.
var ErrNoSamples = errors.New("infer: no valid samples")

// Result is an inferred schema.
type Result struct {
	Schema      *jsonschema.Schema `json:"schema"`
	SampleCount int                `json:"sample_count"`
	// AllMatch is set when every sample alone infers the same schema.
	AllMatch bool `json:"all_match"`
}

// Options tune inference.
type Options struct {
	// StrictRequired lists, in each object schema, the properties every
	// object seen at that location had. Off, nothing is required.
	StrictRequired bool
	// AdditionalProperties, when set, is written into every object schema.
	AdditionalProperties *bool
	// MarkNullableAsOptional keeps a property that was null somewhere out
	// of required.
	MarkNullableAsOptional bool
}

// DefaultOptions requires always-present, never-null properties and leaves
// additionalProperties unset.
func DefaultOptions() *Options {
	return &Options{
		StrictRequired:         true,
		MarkNullableAsOptional: true,
	}
}

// Infer generates a schema from one or more JSON samples. Samples that are
// not valid JSON are skipped.
func Infer(samples ...[]byte) (*Result, error) {
	return InferWithOptions(DefaultOptions(), samples...)
}

// InferWithOptions is Infer with custom options.
func InferWithOptions(opts *Options, samples ...[]byte) (*Result, error) {
	values := make([]any, 0, len(samples))
	for _, data := range samples {
		v, err := document.DecodeJSON(data)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return FromValues(opts, values...)
}

// FromValues infers one schema accepting every value.
func FromValues(opts *Options, values ...any) (*Result, error) {
	if len(values) == 0 {
		return nil, ErrNoSamples
	}
	if opts == nil {
		opts = DefaultOptions()
	}

	root := newShape()
	allMatch := true
	var first []byte
	for i, v := range values {
		root.absorb(v)
		one, _ := json.Marshal(FromValue(v))
		if i == 0 {
			first = one
		} else if allMatch && string(one) != string(first) {
			allMatch = false
		}
	}

	schema := root.render(opts)
	schema.Version = Draft07
	return &Result{Schema: schema, SampleCount: len(values), AllMatch: allMatch}, nil
}

// FromValue infers the schema of a single value, with nothing required.
func FromValue(v any) *jsonschema.Schema {
	s := newShape()
	s.absorb(v)
	return s.render(&Options{})
}

// shape accumulates the values seen at one location of the samples.
type shape struct {
	kinds map[string]bool
	// untyped is set once a value with no JSON type was seen; the location
	// then accepts anything.
	untyped bool

	objects int
	props   map[string]*shape
	present map[string]int
	nulled  map[string]bool

	items *shape
}

func newShape() *shape {
	return &shape{kinds: make(map[string]bool)}
}

func (s *shape) absorb(v any) {
	kind := kindOf(v)
	if kind == "" {
		s.untyped = true
		return
	}
	s.kinds[kind] = true

	switch val := v.(type) {
	case map[string]any:
		if s.props == nil {
			s.props = make(map[string]*shape)
			s.present = make(map[string]int)
			s.nulled = make(map[string]bool)
		}
		s.objects++
		for k, pv := range val {
			p, ok := s.props[k]
			if !ok {
				p = newShape()
				s.props[k] = p
			}
			p.absorb(pv)
			s.present[k]++
			if pv == nil {
				s.nulled[k] = true
			}
		}
	case []any:
		for _, item := range val {
			if s.items == nil {
				s.items = newShape()
			}
			s.items.absorb(item)
		}
	}
}

// kindOf names the JSON type of v, calling whole numbers integers as
// draft 7 does. It returns "" for values JSON has no type for.
func kindOf(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case json.Number:
		if _, err := val.Int64(); err == nil {
			return "integer"
		}
		f, err := val.Float64()
		if err != nil {
			return "number"
		}
		return floatKind(f)
	case float64:
		return floatKind(val)
	case float32:
		return floatKind(float64(val))
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return "integer"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return ""
}

func floatKind(f float64) string {
	if math.Trunc(f) == f && !math.IsInf(f, 0) {
		return "integer"
	}
	return "number"
}

// render builds the narrowest schema accepting everything absorbed. Several
// kinds become an anyOf with one member per kind, sorted by name.
func (s *shape) render(opts *Options) *jsonschema.Schema {
	if s.untyped || len(s.kinds) == 0 {
		return &jsonschema.Schema{}
	}
	members := make([]*jsonschema.Schema, 0, len(s.kinds))
	for _, kind := range sortedKeys(s.kinds) {
		switch kind {
		case "object":
			members = append(members, s.renderObject(opts))
		case "array":
			members = append(members, s.renderArray(opts))
		default:
			members = append(members, &jsonschema.Schema{Type: kind})
		}
	}
	if len(members) == 1 {
		return members[0]
	}
	return &jsonschema.Schema{AnyOf: members}
}

func (s *shape) renderObject(opts *Options) *jsonschema.Schema {
	schema := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}
	for _, k := range sortedKeys(s.props) {
		schema.Properties.Set(k, s.props[k].render(opts))
		if opts.StrictRequired && s.present[k] == s.objects && !(opts.MarkNullableAsOptional && s.nulled[k]) {
			schema.Required = append(schema.Required, k)
		}
	}
	if opts.AdditionalProperties != nil {
		schema.AdditionalProperties = jsonschema.FalseSchema
		if *opts.AdditionalProperties {
			schema.AdditionalProperties = jsonschema.TrueSchema
		}
	}
	return schema
}

func (s *shape) renderArray(opts *Options) *jsonschema.Schema {
	schema := &jsonschema.Schema{Type: "array"}
	if s.items != nil {
		schema.Items = s.items.render(opts)
	}
	return schema
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Document returns the schema as a decoded JSON tree, the form the
// validation engine consumes.
func (r *Result) Document() (any, error) {
	data, err := json.Marshal(r.Schema)
	if err != nil {
		return nil, fmt.Errorf("encoding inferred schema: %w", err)
	}
	return document.DecodeJSON(data)
}

// Verify checks the schema against the draft-07 meta-schema and validates
// each sample against it. It returns the first failure.
func (r *Result) Verify(samples ...any) error {
	doc, err := r.Document()
	if err != nil {
		return err
	}
	for i, sample := range samples {
		if err := check.Validate(sample, doc, check.UsingClass(check.Draft7())); err != nil {
			return fmt.Errorf("sample %d: %w", i, err)
		}
	}
	return check.Draft7().CheckSchema(doc)
}
