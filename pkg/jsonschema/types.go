package jsonschema

import (
	"maps"
	"reflect"
	"strings"
)

// TypeCheckFunc reports whether instance is of the type it is registered under.
// The checker is passed so that predicates can defer to other type names.
type TypeCheckFunc func(checker TypeChecker, instance any) bool

// TypeChecker maps JSON Schema type names to predicates.
//
// A TypeChecker is immutable: Redefine, RedefineMany and Remove return a new
// checker and leave the receiver untouched, so one value may be shared by any
// number of validators and goroutines.
type TypeChecker struct {
	checkers map[string]TypeCheckFunc
}

// NewTypeChecker returns a checker holding the given predicates.
func NewTypeChecker(checkers map[string]TypeCheckFunc) TypeChecker {
	return TypeChecker{checkers: maps.Clone(checkers)}
}

// IsType reports whether instance is of the named type.
func (tc TypeChecker) IsType(instance any, name string) (bool, error) {
	fn, ok := tc.checkers[name]
	if !ok {
		return false, &UndefinedTypeCheckError{Type: name}
	}
	return fn(tc, instance), nil
}

// Has reports whether a predicate is registered for name.
func (tc TypeChecker) Has(name string) bool {
	_, ok := tc.checkers[name]
	return ok
}

// Types returns the registered type names in sorted order.
func (tc TypeChecker) Types() []string {
	return sortedKeys(tc.checkers)
}

// Redefine returns a checker with name bound to fn.
func (tc TypeChecker) Redefine(name string, fn TypeCheckFunc) TypeChecker {
	return tc.RedefineMany(map[string]TypeCheckFunc{name: fn})
}

// RedefineMany returns a checker with every entry of definitions bound.
func (tc TypeChecker) RedefineMany(definitions map[string]TypeCheckFunc) TypeChecker {
	next := make(map[string]TypeCheckFunc, len(tc.checkers)+len(definitions))
	maps.Copy(next, tc.checkers)
	maps.Copy(next, definitions)
	return TypeChecker{checkers: next}
}

// Remove returns a checker without the given names. It fails without
// modifying anything if any name is not registered.
func (tc TypeChecker) Remove(names ...string) (TypeChecker, error) {
	next := maps.Clone(tc.checkers)
	if next == nil {
		next = map[string]TypeCheckFunc{}
	}
	for _, name := range names {
		if _, ok := next[name]; !ok {
			return tc, &UndefinedTypeCheckError{Type: name}
		}
		delete(next, name)
	}
	return TypeChecker{checkers: next}, nil
}

// String lists the registered type names.
func (tc TypeChecker) String() string {
	return "TypeChecker{" + strings.Join(tc.Types(), ", ") + "}"
}

func isArray(_ TypeChecker, v any) bool {
	_, ok := asArray(v)
	return ok
}

func isBool(_ TypeChecker, v any) bool {
	_, ok := v.(bool)
	return ok
}

func isNull(_ TypeChecker, v any) bool {
	return v == nil
}

func isNumberType(_ TypeChecker, v any) bool {
	return isNumber(v)
}

func isObject(_ TypeChecker, v any) bool {
	_, ok := asObject(v)
	return ok
}

func isString(_ TypeChecker, v any) bool {
	_, ok := v.(string)
	return ok
}

func isAny(TypeChecker, any) bool { return true }

// isIntegerDraft3 accepts integer literals only; 1.0 is a number, not an integer.
func isIntegerDraft3(_ TypeChecker, v any) bool {
	return isIntegerLiteral(v)
}

// isInteger accepts any whole-valued number, so 1.0 is an integer from draft 6 on.
func isInteger(_ TypeChecker, v any) bool {
	return isWholeNumber(v)
}

// Draft3TypeChecker knows the draft 3 types, including "any".
func Draft3TypeChecker() TypeChecker {
	return NewTypeChecker(map[string]TypeCheckFunc{
		"any":     isAny,
		"array":   isArray,
		"boolean": isBool,
		"integer": isIntegerDraft3,
		"object":  isObject,
		"null":    isNull,
		"number":  isNumberType,
		"string":  isString,
	})
}

// Draft4TypeChecker drops "any" from the draft 3 set.
func Draft4TypeChecker() TypeChecker {
	tc, _ := Draft3TypeChecker().Remove("any")
	return tc
}

// Draft6TypeChecker treats whole-valued floats as integers.
func Draft6TypeChecker() TypeChecker {
	return Draft4TypeChecker().Redefine("integer", isInteger)
}

// Draft7TypeChecker is identical to the draft 6 checker.
func Draft7TypeChecker() TypeChecker {
	return Draft6TypeChecker()
}

// TypeCheckerFromGoTypes builds a checker from a mapping of type names to Go
// types. An instance is of a type if its dynamic type is one of the listed
// types. Booleans are never accepted for "integer" or "number", even if a
// bool type is listed there.
func TypeCheckerFromGoTypes(types map[string][]reflect.Type) TypeChecker {
	checkers := make(map[string]TypeCheckFunc, len(types))
	for name, list := range types {
		list := append([]reflect.Type(nil), list...)
		numeric := name == "integer" || name == "number"
		checkers[name] = func(_ TypeChecker, v any) bool {
			if numeric {
				if _, ok := v.(bool); ok {
					return false
				}
			}
			if v == nil {
				for _, t := range list {
					if t == nil || (t.Kind() == reflect.Interface && t.NumMethod() == 0) {
						return true
					}
				}
				return false
			}
			vt := reflect.TypeOf(v)
			for _, t := range list {
				if t == nil {
					continue
				}
				if vt == t || (t.Kind() == reflect.Interface && vt.Implements(t)) {
					return true
				}
			}
			return false
		}
	}
	return TypeChecker{checkers: checkers}
}
