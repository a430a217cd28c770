package query

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Invalid(t *testing.T) {
	_, err := Compile(".items[")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid jq expression")

	_, err = Compile("undefined_function(1)")
	require.Error(t, err)
}

func TestSelector_Values(t *testing.T) {
	sel, err := Compile(".items[]")
	require.NoError(t, err)
	assert.Equal(t, ".items[]", sel.Expression())

	doc := map[string]any{"items": []any{json.Number("1"), json.Number("2.5"), nil, "x"}}
	values, errs, err := sel.Values(context.Background(), doc)
	require.NoError(t, err)
	assert.Empty(t, errs)
	assert.Equal(t, []any{1, 2.5, nil, "x"}, values)
}

func TestSelector_Run(t *testing.T) {
	sel, err := Compile(".users[].name")
	require.NoError(t, err)

	inputs := []Input{
		{Label: "one.json", Value: map[string]any{"users": []any{map[string]any{"name": "a"}, map[string]any{"name": "b"}}}},
		{Value: map[string]any{"users": nil}},
		{Label: "three.json", Value: map[string]any{"users": []any{map[string]any{"name": "a"}}}},
	}

	res, err := sel.Run(context.Background(), inputs, Options{})
	require.NoError(t, err)
	assert.Equal(t, []Match{
		{Source: 0, Label: "one.json", Value: "a"},
		{Source: 0, Label: "one.json", Value: "b"},
		{Source: 2, Label: "three.json", Value: "a"},
	}, res.Matches)
	assert.Equal(t, 2, res.Count(0))
	assert.Equal(t, 0, res.Count(1))
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "input[1]: ")
	assert.Contains(t, res.Errors[0], "the path may not exist")

	res, err = sel.Run(context.Background(), inputs, Options{Unique: true})
	require.NoError(t, err)
	assert.Len(t, res.Matches, 2)
}

func TestSelector_Limit(t *testing.T) {
	sel, err := Compile(".[]")
	require.NoError(t, err)

	res, err := sel.Run(context.Background(), []Input{
		{Value: []any{1, 2, 3}},
		{Value: []any{4}},
	}, Options{Limit: 2})
	require.NoError(t, err)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, 2, res.Matches[1].Value)
}

func TestSelector_Halt(t *testing.T) {
	sel, err := Compile(`"stop" | halt_error`)
	require.NoError(t, err)

	_, errs, err := sel.Values(context.Background(), map[string]any{})
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Contains(t, errs[0], "query halted with: stop")
}

func TestSelector_Canceled(t *testing.T) {
	sel, err := Compile(".")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = sel.Values(ctx, 1)
	require.ErrorIs(t, err, context.Canceled)
}
