package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTree(t *testing.T) {
	schema := decode(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string", "minLength": 3},
			"tags": {"items": {"type": "string"}}
		},
		"required": ["id"]
	}`)
	instance := decode(t, `{"name": 1, "tags": ["a", 2, 3]}`)
	tree := NewErrorTree(allErrors(t, Draft7().New(schema), instance))

	assert.Equal(t, 4, tree.TotalErrors())
	assert.Contains(t, tree.Errors, KeywordRequired)
	assert.True(t, tree.Contains("name"))
	assert.False(t, tree.Contains("id"))
	assert.Equal(t, []any{"name", "tags"}, tree.Indices())

	name, err := tree.Child("name")
	require.NoError(t, err)
	assert.Contains(t, name.Errors, KeywordType)
	assert.NotContains(t, name.Errors, KeywordMinLength)

	tags, err := tree.Child("tags")
	require.NoError(t, err)
	assert.Equal(t, []any{1, 2}, tags.Indices())
	assert.Equal(t, 2, tags.TotalErrors())

	item, err := tags.Child(2)
	require.NoError(t, err)
	assert.Equal(t, KeywordType, item.Errors[KeywordType].Validator)
}

func TestErrorTree_ChildWithoutErrors(t *testing.T) {
	instance := decode(t, `[1, "b"]`)
	tree := NewErrorTree(allErrors(t, Draft7().New(decode(t, `{"items": {"type": "string"}, "minItems": 3}`)), instance))

	ok, err := tree.Child(1)
	require.NoError(t, err)
	assert.Zero(t, ok.TotalErrors())

	_, err = tree.Child(5)
	require.Error(t, err)
}

func TestErrorTree_Empty(t *testing.T) {
	tree := NewErrorTree(nil)
	assert.Zero(t, tree.TotalErrors())
	assert.Empty(t, tree.Indices())

	child, err := tree.Child("anything")
	require.NoError(t, err)
	assert.Zero(t, child.TotalErrors())
}
