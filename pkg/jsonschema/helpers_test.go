package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/usestring/schemacheck/internal/document"
)

func decode(t *testing.T, src string) any {
	t.Helper()
	v, err := document.DecodeJSON([]byte(src))
	require.NoError(t, err)
	return v
}

func allErrors(t *testing.T, v *Validator, instance any) []*ValidationError {
	t.Helper()
	errs, err := collect(v.IterErrors(instance))
	require.NoError(t, err)
	return errs
}

// walk follows path through doc by key and index lookups.
func walk(t *testing.T, doc any, path Path) any {
	t.Helper()
	for _, seg := range path {
		switch s := seg.(type) {
		case string:
			obj, ok := asObject(doc)
			require.True(t, ok, "segment %q applied to %T", s, doc)
			doc = obj[s]
		case int:
			arr, ok := asArray(doc)
			require.True(t, ok, "index %d applied to %T", s, doc)
			require.Less(t, s, len(arr))
			doc = arr[s]
		default:
			t.Fatalf("unexpected path segment %#v", seg)
		}
	}
	return doc
}
