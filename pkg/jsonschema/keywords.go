package jsonschema

import (
	"errors"
	"fmt"
	"iter"
	"math/big"
	"regexp"
	"strings"

	"github.com/usestring/schemacheck/internal/cache"
)

const (
	KeywordRef                  Keyword = "$ref"
	KeywordAdditionalItems      Keyword = "additionalItems"
	KeywordAdditionalProperties Keyword = "additionalProperties"
	KeywordAllOf                Keyword = "allOf"
	KeywordAnyOf                Keyword = "anyOf"
	KeywordConst                Keyword = "const"
	KeywordContains             Keyword = "contains"
	KeywordDependencies         Keyword = "dependencies"
	KeywordDisallow             Keyword = "disallow"
	KeywordDivisibleBy          Keyword = "divisibleBy"
	KeywordEnum                 Keyword = "enum"
	KeywordExclusiveMaximum     Keyword = "exclusiveMaximum"
	KeywordExclusiveMinimum     Keyword = "exclusiveMinimum"
	KeywordExtends              Keyword = "extends"
	KeywordFormat               Keyword = "format"
	KeywordIf                   Keyword = "if"
	KeywordItems                Keyword = "items"
	KeywordMaxItems             Keyword = "maxItems"
	KeywordMaxLength            Keyword = "maxLength"
	KeywordMaxProperties        Keyword = "maxProperties"
	KeywordMaximum              Keyword = "maximum"
	KeywordMinItems             Keyword = "minItems"
	KeywordMinLength            Keyword = "minLength"
	KeywordMinProperties        Keyword = "minProperties"
	KeywordMinimum              Keyword = "minimum"
	KeywordMultipleOf           Keyword = "multipleOf"
	KeywordNot                  Keyword = "not"
	KeywordOneOf                Keyword = "oneOf"
	KeywordPattern              Keyword = "pattern"
	KeywordPatternProperties    Keyword = "patternProperties"
	KeywordProperties           Keyword = "properties"
	KeywordPropertyNames        Keyword = "propertyNames"
	KeywordRequired             Keyword = "required"
	KeywordType                 Keyword = "type"
	KeywordUniqueItems          Keyword = "uniqueItems"
)

type errSeq = iter.Seq2[*ValidationError, error]

func nothing(func(*ValidationError, error) bool) {}

func single(e *ValidationError) errSeq {
	return func(yield func(*ValidationError, error) bool) { yield(e, nil) }
}

// skip yields err if it is non-nil, and nothing otherwise.
func skip(err error) errSeq {
	if err == nil {
		return nothing
	}
	return func(yield func(*ValidationError, error) bool) { yield(nil, err) }
}

// forward passes seq to yield and reports whether iteration should go on.
func forward(seq errSeq, yield func(*ValidationError, error) bool) bool {
	for e, err := range seq {
		if !yield(e, err) || err != nil {
			return false
		}
	}
	return true
}

var regexCache = cache.MustMemo[string, *regexp.Regexp](cache.DefaultSize)

func compileRegex(pattern string) (*regexp.Regexp, error) {
	return regexCache.Do(pattern, func() (*regexp.Regexp, error) {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("jsonschema: invalid pattern %s: %w", repr(pattern), err)
		}
		return re, nil
	})
}

func ref(v *Validator, value, instance any, _ map[string]any) errSeq {
	return func(yield func(*ValidationError, error) bool) {
		s, ok := value.(string)
		if !ok {
			yield(nil, &RefResolutionError{Err: fmt.Errorf("$ref must be a string, got %s", repr(value))})
			return
		}
		stopped := false
		err := v.resolver.Resolving(s, func(resolved any) error {
			for e, err := range v.Descend(instance, resolved, nil, nil) {
				if err != nil {
					return err
				}
				if !yield(e, nil) {
					stopped = true
					return nil
				}
			}
			return nil
		})
		if err != nil && !stopped {
			yield(nil, err)
		}
	}
}

func patternProperties(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	patterns, _ := asObject(value)
	if obj == nil || patterns == nil {
		return skip(err)
	}
	return func(yield func(*ValidationError, error) bool) {
		for _, pattern := range sortedKeys(patterns) {
			re, err := compileRegex(pattern)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, k := range sortedKeys(obj) {
				if !re.MatchString(k) {
					continue
				}
				if !forward(v.Descend(obj[k], patterns[pattern], k, pattern), yield) {
					return
				}
			}
		}
	}
}

func propertyNames(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	if obj == nil {
		return skip(err)
	}
	return func(yield func(*ValidationError, error) bool) {
		for _, name := range sortedKeys(obj) {
			if !forward(v.Descend(name, value, nil, nil), yield) {
				return
			}
		}
	}
}

// additionalPropertyNames lists, sorted, the keys of instance matched by
// neither properties nor patternProperties of schema.
func additionalPropertyNames(instance, schema map[string]any) ([]string, error) {
	props, _ := asObject(schema["properties"])
	patterns, _ := asObject(schema["patternProperties"])
	var re *regexp.Regexp
	if len(patterns) > 0 {
		var err error
		if re, err = compileRegex(strings.Join(sortedKeys(patterns), "|")); err != nil {
			return nil, err
		}
	}
	var extras []string
	for _, k := range sortedKeys(instance) {
		if _, ok := props[k]; ok {
			continue
		}
		if re != nil && re.MatchString(k) {
			continue
		}
		extras = append(extras, k)
	}
	return extras, nil
}

func extrasMsg[T any](extras []T) (string, string) {
	verb := "were"
	if len(extras) == 1 {
		verb = "was"
	}
	return joinRepr(extras), verb
}

func additionalProperties(v *Validator, value, instance any, schema map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	if obj == nil {
		return skip(err)
	}
	extras, err := additionalPropertyNames(obj, schema)
	if err != nil {
		return skip(err)
	}
	if _, isSchema := asObject(value); isSchema {
		return func(yield func(*ValidationError, error) bool) {
			for _, extra := range extras {
				if !forward(v.Descend(obj[extra], value, extra, nil), yield) {
					return
				}
			}
		}
	}
	if value != false || len(extras) == 0 {
		return nothing
	}
	if patterns, ok := asObject(schema["patternProperties"]); ok {
		verb := "do"
		if len(extras) == 1 {
			verb = "does"
		}
		return single(errorf("%s %s not match any of the regexes: %s",
			joinRepr(extras), verb, joinRepr(sortedKeys(patterns))))
	}
	list, verb := extrasMsg(extras)
	return single(errorf("Additional properties are not allowed (%s %s unexpected)", list, verb))
}

func items(v *Validator, value, instance any, _ map[string]any) errSeq {
	arr, err := v.arrayOf(instance)
	if arr == nil {
		return skip(err)
	}
	return func(yield func(*ValidationError, error) bool) {
		if tuple, ok := asArray(value); ok {
			for i := 0; i < len(arr) && i < len(tuple); i++ {
				if !forward(v.Descend(arr[i], tuple[i], i, i), yield) {
					return
				}
			}
			return
		}
		for i, item := range arr {
			if !forward(v.Descend(item, value, i, nil), yield) {
				return
			}
		}
	}
}

func additionalItems(v *Validator, value, instance any, schema map[string]any) errSeq {
	arr, err := v.arrayOf(instance)
	if arr == nil {
		return skip(err)
	}
	tuple, ok := asArray(schema["items"])
	if !ok {
		// A single items schema, or none, already covers every element.
		return nothing
	}
	if len(arr) <= len(tuple) {
		return nothing
	}
	if _, isSchema := asObject(value); isSchema {
		return func(yield func(*ValidationError, error) bool) {
			for i := len(tuple); i < len(arr); i++ {
				if !forward(v.Descend(arr[i], value, i, nil), yield) {
					return
				}
			}
		}
	}
	if value != false {
		return nothing
	}
	list, verb := extrasMsg(arr[len(tuple):])
	return single(errorf("Additional items are not allowed (%s %s unexpected)", list, verb))
}

func constKeyword(_ *Validator, value, instance any, _ map[string]any) errSeq {
	if equal(instance, value) {
		return nothing
	}
	return single(errorf("%s was expected", repr(value)))
}

func containsKeyword(v *Validator, value, instance any, _ map[string]any) errSeq {
	arr, err := v.arrayOf(instance)
	if arr == nil {
		return skip(err)
	}
	for _, item := range arr {
		valid, err := v.isValidAt(item, value)
		if err != nil {
			return skip(err)
		}
		if valid {
			return nothing
		}
	}
	return single(errorf("None of %s are valid under the given schema", repr(instance)))
}

// objectOf returns instance as an object when the type checker calls it one.
// The result is nil otherwise, with the error of an unknown "object" type.
func (v *Validator) objectOf(instance any) (map[string]any, error) {
	if ok, err := v.IsType(instance, "object"); !ok {
		return nil, err
	}
	obj, ok := asObject(instance)
	if !ok {
		return nil, nil
	}
	if obj == nil {
		obj = map[string]any{}
	}
	return obj, nil
}

// arrayOf is objectOf for arrays. Empty arrays are returned non-nil.
func (v *Validator) arrayOf(instance any) ([]any, error) {
	if ok, err := v.IsType(instance, "array"); !ok {
		return nil, err
	}
	arr, ok := asArray(instance)
	if !ok {
		return nil, nil
	}
	if arr == nil {
		arr = []any{}
	}
	return arr, nil
}

func (v *Validator) stringOf(instance any) (string, bool, error) {
	if ok, err := v.IsType(instance, "string"); !ok {
		return "", false, err
	}
	s, ok := instance.(string)
	return s, ok, nil
}

// numericBound applies cmp to instance and bound when instance is a number.
func numericBound(v *Validator, bound, instance any, fails func(c int) bool, format string) errSeq {
	ok, err := v.IsType(instance, "number")
	if !ok {
		return skip(err)
	}
	c, ok := compareNumbers(instance, bound)
	if !ok || !fails(c) {
		return nothing
	}
	return single(errorf(format, repr(instance), repr(bound)))
}

func exclusiveMinimum(v *Validator, value, instance any, _ map[string]any) errSeq {
	return numericBound(v, value, instance, func(c int) bool { return c <= 0 },
		"%s is less than or equal to the minimum of %s")
}

func exclusiveMaximum(v *Validator, value, instance any, _ map[string]any) errSeq {
	return numericBound(v, value, instance, func(c int) bool { return c >= 0 },
		"%s is greater than or equal to the maximum of %s")
}

func minimum(v *Validator, value, instance any, _ map[string]any) errSeq {
	return numericBound(v, value, instance, func(c int) bool { return c < 0 },
		"%s is less than the minimum of %s")
}

func maximum(v *Validator, value, instance any, _ map[string]any) errSeq {
	return numericBound(v, value, instance, func(c int) bool { return c > 0 },
		"%s is greater than the maximum of %s")
}

func multipleOf(v *Validator, value, instance any, _ map[string]any) errSeq {
	ok, err := v.IsType(instance, "number")
	if !ok {
		return skip(err)
	}
	n, ok := toRat(instance)
	d, dok := toRat(value)
	if !ok || !dok || d.Sign() == 0 {
		return nothing
	}
	if new(big.Rat).Quo(n, d).IsInt() {
		return nothing
	}
	return single(errorf("%s is not a multiple of %s", repr(instance), repr(value)))
}

// sizeBound reports a failure when size compared to bound satisfies fails.
func sizeBound(size int, bound any, fails func(c int) bool) bool {
	c, ok := compareNumbers(size, bound)
	return ok && fails(c)
}

func less(c int) bool    { return c < 0 }
func greater(c int) bool { return c > 0 }

func minItems(v *Validator, value, instance any, _ map[string]any) errSeq {
	arr, err := v.arrayOf(instance)
	if arr == nil || !sizeBound(len(arr), value, less) {
		return skip(err)
	}
	return single(errorf("%s is too short", repr(instance)))
}

func maxItems(v *Validator, value, instance any, _ map[string]any) errSeq {
	arr, err := v.arrayOf(instance)
	if arr == nil || !sizeBound(len(arr), value, greater) {
		return skip(err)
	}
	return single(errorf("%s is too long", repr(instance)))
}

func uniqueItems(v *Validator, value, instance any, _ map[string]any) errSeq {
	if value != true {
		return nothing
	}
	arr, err := v.arrayOf(instance)
	if arr == nil || unique(arr) {
		return skip(err)
	}
	return single(errorf("%s has non-unique elements", repr(instance)))
}

func pattern(v *Validator, value, instance any, _ map[string]any) errSeq {
	s, ok, err := v.stringOf(instance)
	p, pok := value.(string)
	if !ok || !pok {
		return skip(err)
	}
	re, err := compileRegex(p)
	if err != nil {
		return skip(err)
	}
	if re.MatchString(s) {
		return nothing
	}
	return single(errorf("%s does not match %s", repr(instance), repr(p)))
}

func format(v *Validator, value, instance any, _ map[string]any) errSeq {
	name, ok := value.(string)
	if v.formatChecker == nil || !ok {
		return nothing
	}
	err := v.formatChecker.Check(instance, name)
	if err == nil {
		return nothing
	}
	var fe *FormatError
	if !errors.As(err, &fe) {
		return skip(err)
	}
	e := newError(fe.Message)
	e.Cause = fe.Cause
	return single(e)
}

func minLength(v *Validator, value, instance any, _ map[string]any) errSeq {
	s, ok, err := v.stringOf(instance)
	if !ok || !sizeBound(length(s), value, less) {
		return skip(err)
	}
	return single(errorf("%s is too short", repr(instance)))
}

func maxLength(v *Validator, value, instance any, _ map[string]any) errSeq {
	s, ok, err := v.stringOf(instance)
	if !ok || !sizeBound(length(s), value, greater) {
		return skip(err)
	}
	return single(errorf("%s is too long", repr(instance)))
}

func dependencies(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	deps, _ := asObject(value)
	if obj == nil || deps == nil {
		return skip(err)
	}
	return func(yield func(*ValidationError, error) bool) {
		for _, property := range sortedKeys(deps) {
			if _, present := obj[property]; !present {
				continue
			}
			dep := deps[property]
			if names, ok := asArray(dep); ok {
				for _, each := range names {
					name, _ := each.(string)
					if _, present := obj[name]; present {
						continue
					}
					if !yield(errorf("%s is a dependency of %s", repr(each), repr(property)), nil) {
						return
					}
				}
				continue
			}
			if !forward(v.Descend(instance, dep, nil, property), yield) {
				return
			}
		}
	}
}

func enum(_ *Validator, value, instance any, _ map[string]any) errSeq {
	options, ok := asArray(value)
	if !ok || contains(options, instance) {
		return nothing
	}
	return single(errorf("%s is not one of %s", repr(instance), repr(value)))
}

// typeNames normalizes a type keyword value to a list.
func typeNames(value any) []any {
	if list, ok := asArray(value); ok {
		return list
	}
	return []any{value}
}

func typesMsg(instance any, types []any) string {
	reprs := make([]string, len(types))
	for i, t := range types {
		if obj, ok := asObject(t); ok {
			if name, ok := obj["name"]; ok {
				reprs[i] = repr(name)
				continue
			}
		}
		reprs[i] = repr(t)
	}
	return fmt.Sprintf("%s is not of type %s", repr(instance), strings.Join(reprs, ", "))
}

func typeKeyword(v *Validator, value, instance any, _ map[string]any) errSeq {
	types := typeNames(value)
	for _, t := range types {
		name, ok := t.(string)
		if !ok {
			return skip(&UnknownTypeError{Type: repr(t), Instance: instance, Schema: v.schema})
		}
		matched, err := v.IsType(instance, name)
		if err != nil {
			return skip(err)
		}
		if matched {
			return nothing
		}
	}
	return single(newError(typesMsg(instance, types)))
}

func properties(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	props, _ := asObject(value)
	if obj == nil || props == nil {
		return skip(err)
	}
	return func(yield func(*ValidationError, error) bool) {
		for _, property := range sortedKeys(props) {
			child, present := obj[property]
			if !present {
				continue
			}
			if !forward(v.Descend(child, props[property], property, property), yield) {
				return
			}
		}
	}
}

func required(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	names, _ := asArray(value)
	if obj == nil || names == nil {
		return skip(err)
	}
	return func(yield func(*ValidationError, error) bool) {
		for _, each := range names {
			name, _ := each.(string)
			if _, present := obj[name]; present {
				continue
			}
			if !yield(errorf("%s is a required property", repr(each)), nil) {
				return
			}
		}
	}
}

func minProperties(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	if obj == nil || !sizeBound(len(obj), value, less) {
		return skip(err)
	}
	return single(errorf("%s does not have enough properties", repr(instance)))
}

func maxProperties(v *Validator, value, instance any, _ map[string]any) errSeq {
	obj, err := v.objectOf(instance)
	if obj == nil || !sizeBound(len(obj), value, greater) {
		return skip(err)
	}
	return single(errorf("%s has too many properties", repr(instance)))
}

func allOf(v *Validator, value, instance any, _ map[string]any) errSeq {
	subschemas, ok := asArray(value)
	if !ok {
		return nothing
	}
	return func(yield func(*ValidationError, error) bool) {
		for i, sub := range subschemas {
			if !forward(v.Descend(instance, sub, nil, i), yield) {
				return
			}
		}
	}
}

func anyOf(v *Validator, value, instance any, _ map[string]any) errSeq {
	subschemas, ok := asArray(value)
	if !ok {
		return nothing
	}
	var all []*ValidationError
	for i, sub := range subschemas {
		errs, err := collect(v.Descend(instance, sub, nil, i))
		if err != nil {
			return skip(err)
		}
		if len(errs) == 0 {
			return nothing
		}
		all = append(all, errs...)
	}
	return single(newError(
		fmt.Sprintf("%s is not valid under any of the given schemas", repr(instance)), all...))
}

func oneOf(v *Validator, value, instance any, _ map[string]any) errSeq {
	subschemas, ok := asArray(value)
	if !ok {
		return nothing
	}
	var all []*ValidationError
	first := -1
	for i, sub := range subschemas {
		errs, err := collect(v.Descend(instance, sub, nil, i))
		if err != nil {
			return skip(err)
		}
		if len(errs) == 0 {
			first = i
			break
		}
		all = append(all, errs...)
	}
	if first < 0 {
		return single(newError(
			fmt.Sprintf("%s is not valid under any of the given schemas", repr(instance)), all...))
	}

	var moreValid []any
	for _, sub := range subschemas[first+1:] {
		valid, err := v.isValidAt(instance, sub)
		if err != nil {
			return skip(err)
		}
		if valid {
			moreValid = append(moreValid, sub)
		}
	}
	if len(moreValid) == 0 {
		return nothing
	}
	moreValid = append(moreValid, subschemas[first])
	return single(errorf("%s is valid under each of %s", repr(instance), joinRepr(moreValid)))
}

func notKeyword(v *Validator, value, instance any, _ map[string]any) errSeq {
	valid, err := v.isValidAt(instance, value)
	if err != nil {
		return skip(err)
	}
	if !valid {
		return nothing
	}
	return single(errorf("%s is not allowed for %s", repr(value), repr(instance)))
}

func ifKeyword(v *Validator, value, instance any, schema map[string]any) errSeq {
	valid, err := v.isValidAt(instance, value)
	if err != nil {
		return skip(err)
	}
	if valid {
		if then, ok := schema["then"]; ok {
			return v.Descend(instance, then, nil, "then")
		}
		return nothing
	}
	if otherwise, ok := schema["else"]; ok {
		return v.Descend(instance, otherwise, nil, "else")
	}
	return nothing
}
