package jsonschema

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeChecker_IsType(t *testing.T) {
	tests := []struct {
		name     string
		checker  TypeChecker
		instance any
		typ      string
		want     bool
	}{
		{"draft3 any", Draft3TypeChecker(), map[string]any{}, "any", true},
		{"draft3 integer literal", Draft3TypeChecker(), json.Number("3"), "integer", true},
		{"draft3 whole float", Draft3TypeChecker(), json.Number("3.0"), "integer", false},
		{"draft4 whole float", Draft4TypeChecker(), 3.0, "integer", false},
		{"draft6 whole float", Draft6TypeChecker(), 3.0, "integer", true},
		{"draft7 json whole float", Draft7TypeChecker(), json.Number("3.0"), "integer", true},
		{"draft7 fraction", Draft7TypeChecker(), 3.5, "integer", false},
		{"bool is not integer", Draft7TypeChecker(), true, "integer", false},
		{"bool is not number", Draft7TypeChecker(), false, "number", false},
		{"uint is number", Draft7TypeChecker(), uint16(7), "number", true},
		{"nil is null", Draft7TypeChecker(), nil, "null", true},
		{"string", Draft7TypeChecker(), "s", "string", true},
		{"typed slice is array", Draft7TypeChecker(), []string{"a"}, "array", true},
		{"bytes are not array", Draft7TypeChecker(), []byte("a"), "array", false},
		{"typed map is object", Draft7TypeChecker(), map[string]int{}, "object", true},
		{"array is not object", Draft7TypeChecker(), []any{}, "object", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.checker.IsType(tt.instance, tt.typ)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTypeChecker_UnknownType(t *testing.T) {
	_, err := Draft4TypeChecker().IsType(1, "any")
	var undefined *UndefinedTypeCheckError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "any", undefined.Type)
}

func TestTypeChecker_Immutable(t *testing.T) {
	base := Draft7TypeChecker()
	isEven := func(_ TypeChecker, v any) bool {
		n, ok := v.(int)
		return ok && n%2 == 0
	}

	redefined := base.Redefine("even", isEven)
	assert.True(t, redefined.Has("even"))
	assert.False(t, base.Has("even"))

	removed, err := redefined.Remove("even", "null")
	require.NoError(t, err)
	assert.False(t, removed.Has("even"))
	assert.False(t, removed.Has("null"))
	assert.True(t, redefined.Has("null"))

	many := base.RedefineMany(map[string]TypeCheckFunc{"even": isEven, "string": isNull})
	ok, err := many.IsType(nil, "string")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = base.IsType(nil, "string")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypeChecker_RemoveUnknown(t *testing.T) {
	base := Draft7TypeChecker()
	_, err := base.Remove("string", "bogus")

	var undefined *UndefinedTypeCheckError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, "bogus", undefined.Type)
	assert.True(t, base.Has("string"))
}

func TestTypeChecker_PredicatesSeeChecker(t *testing.T) {
	tc := Draft7TypeChecker().Redefine("scalar", func(c TypeChecker, v any) bool {
		for _, name := range []string{"string", "number", "boolean"} {
			if ok, _ := c.IsType(v, name); ok {
				return true
			}
		}
		return false
	})
	ok, err := tc.IsType("x", "scalar")
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = tc.IsType([]any{}, "scalar")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTypeCheckerFromGoTypes(t *testing.T) {
	tc := TypeCheckerFromGoTypes(map[string][]reflect.Type{
		"integer":  {reflect.TypeFor[int](), reflect.TypeFor[bool]()},
		"null":     {nil},
		"thing":    {reflect.TypeFor[any]()},
		"stringer": {reflect.TypeFor[interface{ String() string }]()},
	})

	tests := []struct {
		instance any
		typ      string
		want     bool
	}{
		{3, "integer", true},
		{true, "integer", false},
		{int64(3), "integer", false},
		{nil, "null", true},
		{0, "null", false},
		{nil, "thing", true},
		{Path{"a"}, "stringer", true},
		{"a", "stringer", false},
	}
	for _, tt := range tests {
		got, err := tc.IsType(tt.instance, tt.typ)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%#v as %s", tt.instance, tt.typ)
	}
	assert.Equal(t, []string{"integer", "null", "stringer", "thing"}, tc.Types())
}
