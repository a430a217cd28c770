package jsonschema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Path is a sequence of object keys (string) and array indices (int).
type Path []any

// String renders the path as a chain of subscripts, e.g. ["items"][0].
func (p Path) String() string {
	var sb strings.Builder
	for _, seg := range p {
		sb.WriteByte('[')
		sb.WriteString(repr(seg))
		sb.WriteByte(']')
	}
	return sb.String()
}

// Pointer renders the path as a JSON Pointer.
func (p Path) Pointer() string {
	var sb strings.Builder
	for _, seg := range p {
		sb.WriteByte('/')
		switch s := seg.(type) {
		case string:
			s = strings.ReplaceAll(s, "~", "~0")
			sb.WriteString(strings.ReplaceAll(s, "/", "~1"))
		case int:
			sb.WriteString(strconv.Itoa(s))
		default:
			fmt.Fprint(&sb, s)
		}
	}
	return sb.String()
}

// ValidationError describes one way in which an instance fails a schema.
//
// Keyword functions create errors holding only a Message (and optionally a
// Cause or Context); the traversal engine fills in the remaining details as
// the error propagates, and each recursion hop prepends the segment it used
// to RelativePath and RelativeSchemaPath.
type ValidationError struct {
	Message string

	// Validator is the keyword that failed. It is empty for the false schema.
	Validator      Keyword
	ValidatorValue any
	Instance       any
	Schema         any

	// RelativePath locates Instance within the instance validated by Parent,
	// or within the root instance when Parent is nil.
	RelativePath Path
	// RelativeSchemaPath locates the failed keyword in the same way.
	RelativeSchemaPath Path

	// Context holds the errors of every branch of a combinator keyword.
	Context []*ValidationError
	Parent  *ValidationError

	Cause error

	detailsSet bool
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// AbsolutePath is the location of Instance within the root instance.
func (e *ValidationError) AbsolutePath() Path {
	return absolute(e, func(e *ValidationError) Path { return e.RelativePath })
}

// AbsoluteSchemaPath is the location of the failed keyword within the root schema.
func (e *ValidationError) AbsoluteSchemaPath() Path {
	return absolute(e, func(e *ValidationError) Path { return e.RelativeSchemaPath })
}

func absolute(e *ValidationError, rel func(*ValidationError) Path) Path {
	var chain []*ValidationError
	for cur := e; cur != nil; cur = cur.Parent {
		chain = append(chain, cur)
	}
	var out Path
	for i := len(chain) - 1; i >= 0; i-- {
		out = append(out, rel(chain[i])...)
	}
	if out == nil {
		out = Path{}
	}
	return out
}

// Details renders the message followed by the failing schema and instance.
func (e *ValidationError) Details() string {
	return e.details("schema", "instance")
}

func (e *ValidationError) details(schemaWord, instanceWord string) string {
	if !e.detailsSet {
		return e.Message
	}
	schemaPath := e.RelativeSchemaPath
	if len(schemaPath) > 0 {
		schemaPath = schemaPath[:len(schemaPath)-1]
	}
	return fmt.Sprintf("%s\n\nFailed validating %s in %s%s:\n%s\n\nOn %s%s:\n%s",
		e.Message,
		repr(string(e.Validator)), schemaWord, schemaPath, indentJSON(e.Schema),
		instanceWord, e.RelativePath, indentJSON(e.Instance),
	)
}

func indentJSON(v any) string {
	b, err := json.MarshalIndent(v, "    ", "  ")
	if err != nil {
		return "    " + repr(v)
	}
	return "    " + string(b)
}

// setDetails records what the engine knows about a failure. Details already
// recorded, for example by a keyword that reports on behalf of another, win.
func (e *ValidationError) setDetails(validator Keyword, value, instance, schema any) {
	if e.detailsSet {
		return
	}
	e.Validator = validator
	e.ValidatorValue = value
	e.Instance = instance
	e.Schema = schema
	e.detailsSet = true
}

func (e *ValidationError) prependPath(seg any) {
	e.RelativePath = append(Path{seg}, e.RelativePath...)
}

func (e *ValidationError) prependSchemaPath(seg any) {
	e.RelativeSchemaPath = append(Path{seg}, e.RelativeSchemaPath...)
}

// newError builds a bare error whose context children point back at it.
func newError(msg string, context ...*ValidationError) *ValidationError {
	e := &ValidationError{Message: msg, Context: context}
	for _, c := range context {
		c.Parent = e
	}
	return e
}

func errorf(format string, args ...any) *ValidationError {
	return newError(fmt.Sprintf(format, args...))
}

// SchemaError reports that a schema is not valid under its meta-schema.
// Instance is the offending schema and Schema the meta-schema fragment.
type SchemaError struct {
	ValidationError
}

// Details renders the message followed by the meta-schema and schema.
func (e *SchemaError) Details() string {
	return e.details("metaschema", "schema")
}

func newSchemaError(e *ValidationError) *SchemaError {
	return &SchemaError{ValidationError: *e}
}

// UndefinedTypeCheckError is returned by a TypeChecker asked about a type
// name it has no predicate for.
type UndefinedTypeCheckError struct {
	Type string
}

func (e *UndefinedTypeCheckError) Error() string {
	return fmt.Sprintf("type %s is unknown to this type checker", repr(e.Type))
}

// UnknownTypeError reports a schema whose type keyword names a type the
// validator cannot check.
type UnknownTypeError struct {
	Type     string
	Instance any
	Schema   any
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("unknown type %s for validator with schema:\n%s\n\nWhile checking instance:\n%s",
		repr(e.Type), indentJSON(e.Schema), indentJSON(e.Instance))
}

// FormatError reports an instance that does not conform to a format.
type FormatError struct {
	Message string
	Cause   error
}

func (e *FormatError) Error() string {
	return e.Message
}

func (e *FormatError) Unwrap() error {
	return e.Cause
}

// RefResolutionError reports a reference that could not be resolved. Every
// failure of fetching, decoding, or walking a reference is reported as one.
type RefResolutionError struct {
	Ref string
	Err error
}

func (e *RefResolutionError) Error() string {
	if e.Ref == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("resolving %s: %v", repr(e.Ref), e.Err)
}

func (e *RefResolutionError) Unwrap() error {
	return e.Err
}
