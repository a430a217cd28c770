package jsonschema

import (
	"errors"
	"fmt"
	"iter"
)

// Validator validates instances against one root schema.
//
// A Validator owns a Resolver and so must not be used by more than one
// goroutine at a time. Create one per validation; the Class is shared.
type Validator struct {
	class         *Class
	schema        any
	resolver      *Resolver
	formatChecker *FormatChecker
}

type validatorConfig struct {
	resolver      *Resolver
	resolverOpts  []ResolverOption
	formatChecker *FormatChecker
}

// ValidatorOption configures Class.New.
type ValidatorOption func(*validatorConfig)

// WithResolver sets the resolver used for $ref.
func WithResolver(r *Resolver) ValidatorOption {
	return func(c *validatorConfig) { c.resolver = r }
}

// WithResolverOptions configures the resolver built when none is given.
func WithResolverOptions(opts ...ResolverOption) ValidatorOption {
	return func(c *validatorConfig) { c.resolverOpts = append(c.resolverOpts, opts...) }
}

// WithFormatChecker enables the format keyword. Without a checker, format
// is an annotation only.
func WithFormatChecker(fc *FormatChecker) ValidatorOption {
	return func(c *validatorConfig) { c.formatChecker = fc }
}

// Class returns the class the validator was built from.
func (v *Validator) Class() *Class { return v.class }

// Schema returns the root schema.
func (v *Validator) Schema() any { return v.schema }

// Resolver returns the resolver used for $ref.
func (v *Validator) Resolver() *Resolver { return v.resolver }

// FormatChecker returns the format checker, or nil.
func (v *Validator) FormatChecker() *FormatChecker { return v.formatChecker }

// IterErrors yields every error of instance under the root schema.
func (v *Validator) IterErrors(instance any) iter.Seq2[*ValidationError, error] {
	return v.IterErrorsAt(instance, v.schema)
}

// IterErrorsAt yields every error of instance under schema, a subschema of
// the root. Iteration stops after a non-nil error, which means validation
// could not be carried out.
func (v *Validator) IterErrorsAt(instance, schema any) iter.Seq2[*ValidationError, error] {
	return func(yield func(*ValidationError, error) bool) {
		switch schema {
		case true:
			return
		case false:
			e := errorf("False schema does not allow %s", repr(instance))
			e.setDetails("", nil, instance, schema)
			yield(e, nil)
			return
		}

		obj, ok := asObject(schema)
		if !ok {
			yield(nil, fmt.Errorf("jsonschema: schema must be an object or a boolean, got %T", schema))
			return
		}

		if scope := v.class.idOf(obj); scope != "" {
			v.resolver.PushScope(scope)
			defer func() { _ = v.resolver.PopScope() }()
		}

		var keys []string
		if ref, ok := obj["$ref"]; ok && ref != nil {
			keys = []string{"$ref"}
		} else {
			keys = sortedKeys(obj)
		}

		for _, key := range keys {
			k := Keyword(key)
			fn, ok := v.class.keywords[k]
			if !ok {
				continue
			}
			value := obj[key]
			for e, err := range fn(v, value, instance, obj) {
				if err != nil {
					yield(nil, err)
					return
				}
				e.setDetails(k, value, instance, obj)
				e.prependSchemaPath(key)
				if !yield(e, nil) {
					return
				}
			}
		}
	}
}

// Descend validates instance against a subschema, prepending path and
// schemaPath to the errors' relative paths. A nil segment is not prepended.
func (v *Validator) Descend(instance, schema, path, schemaPath any) iter.Seq2[*ValidationError, error] {
	return func(yield func(*ValidationError, error) bool) {
		for e, err := range v.IterErrorsAt(instance, schema) {
			if err != nil {
				yield(nil, err)
				return
			}
			if path != nil {
				e.prependPath(path)
			}
			if schemaPath != nil {
				e.prependSchemaPath(schemaPath)
			}
			if !yield(e, nil) {
				return
			}
		}
	}
}

// Validate returns the first error of instance under the root schema, or nil.
func (v *Validator) Validate(instance any) error {
	for e, err := range v.IterErrors(instance) {
		if err != nil {
			return err
		}
		return e
	}
	return nil
}

// IsValid reports whether instance has no errors under the root schema. It
// stops at the first error.
func (v *Validator) IsValid(instance any) (bool, error) {
	return v.isValidAt(instance, v.schema)
}

func (v *Validator) isValidAt(instance, schema any) (bool, error) {
	for _, err := range v.IterErrorsAt(instance, schema) {
		return false, err
	}
	return true, nil
}

// IsType reports whether instance is of the named type. A name the type
// checker does not know is an *UnknownTypeError.
func (v *Validator) IsType(instance any, typ string) (bool, error) {
	ok, err := v.class.typeChecker.IsType(instance, typ)
	var undefined *UndefinedTypeCheckError
	if errors.As(err, &undefined) {
		return false, &UnknownTypeError{Type: typ, Instance: instance, Schema: v.schema}
	}
	return ok, err
}

// collect gathers the errors of seq. A fatal error ends collection.
func collect(seq iter.Seq2[*ValidationError, error]) ([]*ValidationError, error) {
	var out []*ValidationError
	for e, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
