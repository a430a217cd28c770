package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want bool
	}{
		{"int and float", 1, 1.0, true},
		{"json numbers", json.Number("1.0"), json.Number("1"), true},
		{"int and json number", int64(3), json.Number("3"), true},
		{"different numbers", 1, 2, false},
		{"bool is not number", true, 1, false},
		{"false is not zero", false, json.Number("0"), false},
		{"strings", "a", "a", true},
		{"nil", nil, nil, true},
		{"nil and false", nil, false, false},
		{"nested objects", map[string]any{"a": []any{1, "x"}}, map[string]any{"a": []any{1.0, "x"}}, true},
		{"object sizes", map[string]any{"a": 1}, map[string]any{"a": 1, "b": 2}, false},
		{"arrays order", []any{1, 2}, []any{2, 1}, false},
		{"typed slice", []string{"a"}, []any{"a"}, true},
		{"typed map", map[string]int{"a": 1}, map[string]any{"a": 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, equal(tt.a, tt.b))
			assert.Equal(t, tt.want, equal(tt.b, tt.a))
		})
	}
}

func TestUnique(t *testing.T) {
	assert.True(t, unique([]any{1, "1", true, nil}))
	assert.False(t, unique([]any{1, 1.0}))
	assert.False(t, unique([]any{map[string]any{"a": 1}, map[string]any{"a": json.Number("1")}}))
	assert.True(t, unique([]any{[]any{1}, []any{true}}))
}

func TestNumberKinds(t *testing.T) {
	assert.True(t, isNumber(uint8(3)))
	assert.True(t, isNumber(json.Number("1e3")))
	assert.False(t, isNumber(true))
	assert.False(t, isNumber("1"))
	assert.False(t, isNumber(nil))

	assert.True(t, isIntegerLiteral(json.Number("-12")))
	assert.False(t, isIntegerLiteral(json.Number("1.0")))
	assert.False(t, isIntegerLiteral(1.0))

	assert.True(t, isWholeNumber(1.0))
	assert.True(t, isWholeNumber(json.Number("1e2")))
	assert.False(t, isWholeNumber(json.Number("1.5")))
}

func TestRepr(t *testing.T) {
	assert.Equal(t, `"x"`, repr("x"))
	assert.Equal(t, `null`, repr(nil))
	assert.Equal(t, `1.5`, repr(1.5))
	assert.Equal(t, `12`, repr(json.Number("12")))
	assert.Equal(t, `{"a": [1, true], "b": "c"}`, repr(map[string]any{"b": "c", "a": []any{1, true}}))
}

func TestLengthCountsCodePoints(t *testing.T) {
	assert.Equal(t, 2, length("💩💩"))
}
