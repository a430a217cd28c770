package jsonschema

import (
	"errors"
	"fmt"
	"maps"
	"sync"
)

// FormatFunc reports whether instance conforms to a format. Predicates should
// accept instances of types the format does not apply to.
type FormatFunc func(instance any) (bool, error)

// ErrorMatcher selects the errors a format predicate is expected to return
// for non-conforming instances.
type ErrorMatcher func(error) bool

// Is matches errors for which errors.Is(err, target) holds.
func Is(target error) ErrorMatcher {
	return func(err error) bool { return errors.Is(err, target) }
}

// As matches errors for which errors.As finds a T in the chain.
func As[T error]() ErrorMatcher {
	return func(err error) bool {
		var target T
		return errors.As(err, &target)
	}
}

// AnyError matches every error.
func AnyError(error) bool { return true }

type formatEntry struct {
	fn     FormatFunc
	raises []ErrorMatcher
}

// FormatChecker maps format names to predicates.
type FormatChecker struct {
	mu       sync.RWMutex
	checkers map[string]formatEntry
}

var (
	formatsMu     sync.RWMutex
	globalFormats = map[string]formatEntry{}
)

// RegisterFormat adds a predicate to the process-wide format table. Only
// checkers created afterwards by NewFormatChecker see it.
func RegisterFormat(name string, fn FormatFunc, raises ...ErrorMatcher) {
	formatsMu.Lock()
	defer formatsMu.Unlock()
	globalFormats[name] = formatEntry{fn: fn, raises: raises}
}

// NewFormatChecker snapshots the process-wide format table. With no names
// every registered format is included; otherwise only the named ones are,
// and names that are not registered are skipped.
func NewFormatChecker(formats ...string) *FormatChecker {
	formatsMu.RLock()
	defer formatsMu.RUnlock()
	if len(formats) == 0 {
		return &FormatChecker{checkers: maps.Clone(globalFormats)}
	}
	checkers := make(map[string]formatEntry, len(formats))
	for _, name := range formats {
		if entry, ok := globalFormats[name]; ok {
			checkers[name] = entry
		}
	}
	return &FormatChecker{checkers: checkers}
}

// Checks registers fn under name on this checker only. Errors returned by fn
// that satisfy one of raises mark the instance as non-conforming; any other
// error aborts validation.
func (fc *FormatChecker) Checks(name string, fn FormatFunc, raises ...ErrorMatcher) *FormatChecker {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if fc.checkers == nil {
		fc.checkers = map[string]formatEntry{}
	}
	fc.checkers[name] = formatEntry{fn: fn, raises: raises}
	return fc
}

// Formats returns the names this checker knows, sorted.
func (fc *FormatChecker) Formats() []string {
	fc.mu.RLock()
	defer fc.mu.RUnlock()
	return sortedKeys(fc.checkers)
}

// Check returns nil when instance conforms to format or format is unknown,
// and a *FormatError when it does not. Errors from the predicate that were
// not declared are returned as they are.
func (fc *FormatChecker) Check(instance any, format string) error {
	fc.mu.RLock()
	entry, ok := fc.checkers[format]
	fc.mu.RUnlock()
	if !ok {
		return nil
	}

	conforms, err := entry.fn(instance)
	if err != nil {
		if !matchesAny(err, entry.raises) {
			return fmt.Errorf("checking format %s: %w", repr(format), err)
		}
		conforms = false
	}
	if conforms {
		return nil
	}
	return &FormatError{
		Message: fmt.Sprintf("%s is not a %s", repr(instance), repr(format)),
		Cause:   err,
	}
}

// Conforms is the boolean form of Check. Only undeclared predicate errors are
// returned.
func (fc *FormatChecker) Conforms(instance any, format string) (bool, error) {
	err := fc.Check(instance, format)
	if err == nil {
		return true, nil
	}
	var fe *FormatError
	if errors.As(err, &fe) {
		return false, nil
	}
	return false, err
}

func matchesAny(err error, matchers []ErrorMatcher) bool {
	for _, m := range matchers {
		if m(err) {
			return true
		}
	}
	return false
}
