package jsonschema

import (
	"errors"
	"iter"
	"maps"
	"reflect"
)

// Keyword is a schema property name that has validation behavior.
type Keyword string

// KeywordFunc validates instance against value, the value of the keyword in
// schema. It yields bare errors; the engine fills in their details. A non-nil
// second value aborts validation.
type KeywordFunc func(v *Validator, value, instance any, schema map[string]any) iter.Seq2[*ValidationError, error]

// IDFunc returns the id a schema declares, or "".
type IDFunc func(schema any) string

var (
	// ErrTypeCheckerConflict is returned when both a type checker and default
	// types are supplied to Create or Extend.
	ErrTypeCheckerConflict = errors.New("jsonschema: do not specify default types when providing a type checker")

	// ErrDefaultTypesUnavailable is returned by Class.DefaultTypes for classes
	// built from a custom type checker.
	ErrDefaultTypesUnavailable = errors.New("jsonschema: default types cannot be used on classes using type checkers")
)

// typeMode records how a class got its type checker.
type typeMode int

const (
	typesBuiltin typeMode = iota
	typesDefault
	typesChecker
)

// Class is an immutable validator definition for one dialect: its
// meta-schema, keywords, type checker and id accessor.
type Class struct {
	metaSchema   any
	keywords     map[Keyword]KeywordFunc
	typeChecker  TypeChecker
	idOf         IDFunc
	version      string
	mode         typeMode
	defaultTypes map[string][]reflect.Type
}

type classConfig struct {
	version      string
	typeChecker  *TypeChecker
	defaultTypes map[string][]reflect.Type
	idOf         IDFunc
}

// ClassOption configures Create and Extend.
type ClassOption func(*classConfig)

// WithVersion names the dialect the class implements.
func WithVersion(version string) ClassOption {
	return func(c *classConfig) { c.version = version }
}

// WithTypeChecker sets the type checker used by the type keyword.
func WithTypeChecker(tc TypeChecker) ClassOption {
	return func(c *classConfig) { c.typeChecker = &tc }
}

// WithDefaultTypes builds the type checker from a mapping of type names to Go
// types. It cannot be combined with WithTypeChecker.
func WithDefaultTypes(types map[string][]reflect.Type) ClassOption {
	return func(c *classConfig) { c.defaultTypes = types }
}

// WithIDOf sets how the id of a schema is found. The default reads "$id".
func WithIDOf(fn IDFunc) ClassOption {
	return func(c *classConfig) { c.idOf = fn }
}

// Create builds a class from a meta-schema and a keyword table. The table is
// copied.
func Create(metaSchema any, keywords map[Keyword]KeywordFunc, opts ...ClassOption) (*Class, error) {
	var cfg classConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	c := &Class{
		metaSchema: metaSchema,
		keywords:   maps.Clone(keywords),
		idOf:       cfg.idOf,
		version:    cfg.version,
	}
	if c.keywords == nil {
		c.keywords = map[Keyword]KeywordFunc{}
	}
	if c.idOf == nil {
		c.idOf = DollarID
	}
	switch {
	case cfg.defaultTypes != nil && cfg.typeChecker != nil:
		return nil, ErrTypeCheckerConflict
	case cfg.defaultTypes != nil:
		c.mode = typesDefault
		c.defaultTypes = cfg.defaultTypes
		c.typeChecker = TypeCheckerFromGoTypes(cfg.defaultTypes)
	case cfg.typeChecker != nil:
		c.mode = typesChecker
		c.typeChecker = *cfg.typeChecker
	default:
		c.mode = typesBuiltin
		c.typeChecker = Draft7TypeChecker()
	}
	return c, nil
}

// Extend derives a class from parent. Entries of keywords replace the
// parent's entries of the same name entirely. The meta-schema and id accessor
// are inherited, and so is the type checker unless one is given. A child of a
// class created from Go types keeps the derived checker but does not report
// the types, so it may be extended again with a type checker.
func Extend(parent *Class, keywords map[Keyword]KeywordFunc, opts ...ClassOption) (*Class, error) {
	var cfg classConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.defaultTypes != nil {
		return nil, ErrTypeCheckerConflict
	}

	all := maps.Clone(parent.keywords)
	maps.Copy(all, keywords)

	tc := parent.typeChecker
	if cfg.typeChecker != nil {
		tc = *cfg.typeChecker
	}
	c, err := Create(parent.metaSchema, all,
		WithVersion(cfg.version),
		WithTypeChecker(tc),
		WithIDOf(parent.idOf),
	)
	if err != nil {
		return nil, err
	}
	// Only a class created from Go types reports them; its children carry
	// the derived checker.
	if cfg.typeChecker == nil && parent.mode == typesBuiltin {
		c.mode = typesBuiltin
	}
	return c, nil
}

// MetaSchema returns the schema that schemas of this dialect must satisfy.
func (c *Class) MetaSchema() any { return c.metaSchema }

// ID returns the id of the meta-schema, the value $schema selects this class by.
func (c *Class) ID() string { return c.idOf(c.metaSchema) }

// IDOf returns the id a schema of this dialect declares.
func (c *Class) IDOf(schema any) string { return c.idOf(schema) }

// Version returns the dialect name given to Create, if any.
func (c *Class) Version() string { return c.version }

// TypeChecker returns the type checker used by the type keyword.
func (c *Class) TypeChecker() TypeChecker { return c.typeChecker }

// Keyword returns the function registered for k.
func (c *Class) Keyword(k Keyword) (KeywordFunc, bool) {
	fn, ok := c.keywords[k]
	return fn, ok
}

// Keywords returns the keywords this class validates, sorted.
func (c *Class) Keywords() []Keyword {
	out := make([]Keyword, 0, len(c.keywords))
	for _, k := range sortedKeys(c.keywords) {
		out = append(out, Keyword(k))
	}
	return out
}

// DefaultTypes returns the Go type mapping the class was created with.
// Classes created with an explicit type checker have none.
func (c *Class) DefaultTypes() (map[string][]reflect.Type, error) {
	switch c.mode {
	case typesDefault:
		return maps.Clone(c.defaultTypes), nil
	case typesBuiltin:
		return builtinGoTypes(), nil
	}
	return nil, ErrDefaultTypesUnavailable
}

// builtinGoTypes is the mapping reported for classes that never chose a type
// checker, matching the types the decoders in this module produce.
func builtinGoTypes() map[string][]reflect.Type {
	return map[string][]reflect.Type{
		"array":   {reflect.TypeFor[[]any]()},
		"boolean": {reflect.TypeFor[bool]()},
		"integer": {reflect.TypeFor[int](), reflect.TypeFor[int64]()},
		"null":    {nil},
		"number":  {reflect.TypeFor[int](), reflect.TypeFor[int64](), reflect.TypeFor[float64]()},
		"object":  {reflect.TypeFor[map[string]any]()},
		"string":  {reflect.TypeFor[string]()},
	}
}

// CheckSchema validates schema against the class's meta-schema and returns
// the first problem as a *SchemaError. The boolean schemas are accepted by
// every class, since validators of every draft evaluate them.
func (c *Class) CheckSchema(schema any) error {
	if _, ok := schema.(bool); ok {
		return nil
	}
	meta := c.New(c.metaSchema)
	for verr, err := range meta.IterErrors(schema) {
		if err != nil {
			return err
		}
		return newSchemaError(verr)
	}
	return nil
}

// New binds the class to a root schema.
func (c *Class) New(schema any, opts ...ValidatorOption) *Validator {
	var cfg validatorConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	v := &Validator{
		class:         c,
		schema:        schema,
		resolver:      cfg.resolver,
		formatChecker: cfg.formatChecker,
	}
	if v.resolver == nil {
		v.resolver = NewResolverFromSchema(schema, c.idOf, cfg.resolverOpts...)
	}
	return v
}

// DollarID reads the "$id" of a schema, as drafts 6 and later do.
func DollarID(schema any) string {
	return stringMember(schema, "$id")
}

// LegacyID reads the "id" of a schema, as drafts 3 and 4 do.
func LegacyID(schema any) string {
	return stringMember(schema, "id")
}

func stringMember(schema any, key string) string {
	obj, ok := asObject(schema)
	if !ok {
		return ""
	}
	s, _ := obj[key].(string)
	return s
}
