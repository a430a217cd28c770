package jsonschema

import (
	"encoding/json"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// asObject returns v as a string-keyed map. Maps with string keys of other
// value types are copied into a map[string]any.
func asObject(v any) (map[string]any, bool) {
	if m, ok := v.(map[string]any); ok {
		return m, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// asArray returns v as a []any. Other slice and array kinds are copied.
func asArray(v any) ([]any, bool) {
	if a, ok := v.([]any); ok {
		return a, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		// []byte is a string in disguise, not a sequence.
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// sortedKeys returns the keys of m in lexical order so traversal is deterministic.
func sortedKeys[K ~string, V any](m map[K]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

func isIntKind(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloatKind(k reflect.Kind) bool {
	return k == reflect.Float32 || k == reflect.Float64
}

// isNumber reports whether v is any numeric value. Booleans are not numbers.
func isNumber(v any) bool {
	if v == nil {
		return false
	}
	if n, ok := v.(json.Number); ok {
		_, ok := new(big.Rat).SetString(string(n))
		return ok
	}
	k := reflect.TypeOf(v).Kind()
	return isIntKind(k) || isFloatKind(k)
}

// isIntegerLiteral reports whether v is an integer as written: a Go integer
// kind or a json.Number without fraction or exponent.
func isIntegerLiteral(v any) bool {
	if v == nil {
		return false
	}
	if n, ok := v.(json.Number); ok {
		if strings.ContainsAny(string(n), ".eE") {
			return false
		}
		_, ok := new(big.Int).SetString(string(n), 10)
		return ok
	}
	return isIntKind(reflect.TypeOf(v).Kind())
}

// isWholeNumber reports whether v is numerically an integer, whatever its literal form.
func isWholeNumber(v any) bool {
	if isIntegerLiteral(v) {
		return true
	}
	r, ok := toRat(v)
	return ok && r.IsInt()
}

// toRat converts a numeric value into an exact rational.
func toRat(v any) (*big.Rat, bool) {
	switch n := v.(type) {
	case nil, bool:
		return nil, false
	case json.Number:
		return new(big.Rat).SetString(string(n))
	case float64:
		r := new(big.Rat).SetFloat64(n)
		return r, r != nil
	case float32:
		r := new(big.Rat).SetFloat64(float64(n))
		return r, r != nil
	case int:
		return new(big.Rat).SetInt64(int64(n)), true
	case int64:
		return new(big.Rat).SetInt64(n), true
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return new(big.Rat).SetInt64(rv.Int()), true
	case rv.CanUint():
		return new(big.Rat).SetUint64(rv.Uint()), true
	case rv.CanFloat():
		r := new(big.Rat).SetFloat64(rv.Float())
		return r, r != nil
	}
	return nil, false
}

// compareNumbers returns -1, 0 or 1 comparing a and b, and false when either
// is not a finite number.
func compareNumbers(a, b any) (int, bool) {
	ra, ok := toRat(a)
	if !ok {
		return 0, false
	}
	rb, ok := toRat(b)
	if !ok {
		return 0, false
	}
	return ra.Cmp(rb), true
}

// equal is JSON equality: numbers compare by value, booleans never equal
// numbers, objects and arrays compare element-wise.
func equal(a, b any) bool {
	if isNumber(a) || isNumber(b) {
		if !isNumber(a) || !isNumber(b) {
			return false
		}
		c, ok := compareNumbers(a, b)
		return ok && c == 0
	}
	if ao, ok := asObject(a); ok {
		bo, ok := asObject(b)
		if !ok || len(ao) != len(bo) {
			return false
		}
		for k, av := range ao {
			bv, ok := bo[k]
			if !ok || !equal(av, bv) {
				return false
			}
		}
		return true
	}
	if aa, ok := asArray(a); ok {
		ba, ok := asArray(b)
		if !ok || len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !equal(aa[i], ba[i]) {
				return false
			}
		}
		return true
	}
	switch av := a.(type) {
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	return reflect.DeepEqual(a, b)
}

// contains reports whether needle is equal to any element of haystack.
func contains(haystack []any, needle any) bool {
	for _, e := range haystack {
		if equal(e, needle) {
			return true
		}
	}
	return false
}

// unique reports whether no two elements of items are equal.
func unique(items []any) bool {
	for i := range items {
		for j := i + 1; j < len(items); j++ {
			if equal(items[i], items[j]) {
				return false
			}
		}
	}
	return true
}

// repr renders v compactly for error messages. Object keys are sorted.
func repr(v any) string {
	var sb strings.Builder
	writeRepr(&sb, v)
	return sb.String()
}

func writeRepr(sb *strings.Builder, v any) {
	switch v := v.(type) {
	case nil:
		sb.WriteString("null")
		return
	case string:
		sb.WriteString(strconv.Quote(v))
		return
	case bool:
		sb.WriteString(strconv.FormatBool(v))
		return
	case json.Number:
		sb.WriteString(string(v))
		return
	case float64:
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		return
	case float32:
		sb.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
		return
	}
	if m, ok := asObject(v); ok {
		sb.WriteByte('{')
		for i, k := range sortedKeys(m) {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(strconv.Quote(k))
			sb.WriteString(": ")
			writeRepr(sb, m[k])
		}
		sb.WriteByte('}')
		return
	}
	if a, ok := asArray(v); ok {
		sb.WriteByte('[')
		for i, e := range a {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeRepr(sb, e)
		}
		sb.WriteByte(']')
		return
	}
	if b, err := json.Marshal(v); err == nil {
		sb.Write(b)
		return
	}
	sb.WriteString(reflect.ValueOf(v).String())
}

// joinRepr renders each value with repr and joins them with ", ".
func joinRepr[T any](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = repr(v)
	}
	return strings.Join(parts, ", ")
}

// length returns the number of Unicode code points in s.
func length(s string) int {
	return len([]rune(s))
}
