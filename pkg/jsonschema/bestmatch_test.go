package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bestOf(t *testing.T, schema, instance string) *ValidationError {
	t.Helper()
	errs := allErrors(t, Draft7().New(decode(t, schema)), decode(t, instance))
	best := BestMatch(errs)
	require.NotNil(t, best)
	return best
}

func TestBestMatch_Empty(t *testing.T) {
	assert.Nil(t, BestMatch(nil))
}

func TestBestMatch_PrefersShallowErrors(t *testing.T) {
	best := bestOf(t,
		`{"properties": {"foo": {"minProperties": 2, "properties": {"bar": {"type": "object"}}}}}`,
		`{"foo": {"bar": []}}`)
	assert.Equal(t, KeywordMinProperties, best.Validator)
}

func TestBestMatch_WeakKeywordsLoseTies(t *testing.T) {
	best := bestOf(t,
		`{"anyOf": [{"type": "string"}, {"type": "array"}], "minimum": 3}`,
		`1`)
	assert.Equal(t, KeywordMinimum, best.Validator)
}

func TestBestMatch_DescendsIntoContext(t *testing.T) {
	best := bestOf(t,
		`{"properties": {"foo": {"anyOf": [{"type": "string"}, {"properties": {"bar": {"type": "array"}}}]}}}`,
		`{"foo": {"bar": 12}}`)
	assert.Equal(t, KeywordType, best.Validator)
	assert.Equal(t, "array", best.ValidatorValue)
	assert.Equal(t, Path{"foo", "bar"}, best.AbsolutePath())
}

func TestBestMatch_ContextTiesGoToFirst(t *testing.T) {
	best := bestOf(t,
		`{"oneOf": [{"type": "string"}, {"type": "array"}]}`,
		`1`)
	assert.Equal(t, "string", best.ValidatorValue)
}

func TestBestMatch_NestedContext(t *testing.T) {
	best := bestOf(t,
		`{"anyOf": [{"anyOf": [{"type": "string"}, {"type": "null"}]}, {"minimum": 5}]}`,
		`1`)
	assert.Equal(t, KeywordType, best.Validator)
	assert.Equal(t, "string", best.ValidatorValue)
}

func TestBestMatchBy_StrongKeywords(t *testing.T) {
	errs := allErrors(t, Draft7().New(decode(t, `{"maximum": 0, "type": "string"}`)), decode(t, `1`))
	require.Len(t, errs, 2)

	assert.Equal(t, KeywordMaximum, BestMatch(errs).Validator)
	strong := ByRelevance(nil, []Keyword{KeywordType})
	assert.Equal(t, KeywordType, BestMatchBy(errs, strong).Validator)
}

func TestRelevance_Compare(t *testing.T) {
	deep := &ValidationError{Validator: KeywordType, RelativePath: Path{"a", "b"}}
	shallow := &ValidationError{Validator: KeywordType, RelativePath: Path{"a"}}
	weak := &ValidationError{Validator: KeywordAnyOf, RelativePath: Path{"a"}}

	assert.Positive(t, DefaultRelevance.Compare(shallow, deep))
	assert.Negative(t, DefaultRelevance.Compare(deep, shallow))
	assert.Positive(t, DefaultRelevance.Compare(shallow, weak))
	assert.Zero(t, DefaultRelevance.Compare(shallow, shallow))
}

func TestBestMatch_TiesFollowKeyOrder(t *testing.T) {
	best := bestOf(t,
		`{"properties": {"zeta": {"type": "string"}, "alpha": {"type": "string"}}}`,
		`{"zeta": 1, "alpha": 2}`)
	assert.Equal(t, Path{"alpha"}, best.AbsolutePath())

	best = bestOf(t, `{"minimum": 5, "maximum": 0}`, `3`)
	assert.Equal(t, KeywordMaximum, best.Validator)
}
