package document

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeJSON_PreservesNumbers(t *testing.T) {
	v, err := DecodeJSON([]byte(`{"a": 1, "b": 1.0, "c": [true, null, "x"]}`))
	require.NoError(t, err)

	m := v.(map[string]any)
	assert.Equal(t, json.Number("1"), m["a"])
	assert.Equal(t, json.Number("1.0"), m["b"])
	assert.Equal(t, []any{true, nil, "x"}, m["c"])
}

func TestDecodeJSON_RejectsTrailingData(t *testing.T) {
	_, err := DecodeJSON([]byte(`{} {}`))
	assert.ErrorIs(t, err, ErrTrailingData)
}

func TestDecodeJSON_Invalid(t *testing.T) {
	_, err := DecodeJSON([]byte(`{"a":`))
	assert.Error(t, err)
}

func TestDecodeYAML(t *testing.T) {
	src := []byte(`
type: object
properties:
  name: {type: string}
  port: {type: integer, minimum: 1}
ratio: 0.5
enabled: true
nothing: null
anchors:
  base: &b {x: 1}
  copy: *b
`)
	v, err := DecodeYAML(src)
	require.NoError(t, err)

	m := v.(map[string]any)
	assert.Equal(t, "object", m["type"])
	assert.Equal(t, 0.5, m["ratio"])
	assert.Equal(t, true, m["enabled"])
	assert.Nil(t, m["nothing"])

	port := m["properties"].(map[string]any)["port"].(map[string]any)
	assert.Equal(t, int64(1), port["minimum"])

	anchors := m["anchors"].(map[string]any)
	assert.Equal(t, anchors["base"], anchors["copy"])
}

func TestDecodeYAML_Empty(t *testing.T) {
	v, err := DecodeYAML(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "schema.json")
	yamlPath := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"type": "string"}`), 0o600))
	require.NoError(t, os.WriteFile(yamlPath, []byte("type: string\n"), 0o600))

	for _, p := range []string{jsonPath, yamlPath} {
		v, err := ReadFile(p)
		require.NoError(t, err, p)
		assert.Equal(t, map[string]any{"type": "string"}, v)
	}
}

func TestNormalize(t *testing.T) {
	in := map[string]any{
		"i": json.Number("3"),
		"f": json.Number("2.5"),
		"l": []any{json.Number("1"), int64(2)},
	}
	assert.Equal(t, map[string]any{
		"i": 3,
		"f": 2.5,
		"l": []any{1, 2},
	}, Normalize(in))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		file        string
		want        Format
	}{
		{"json content type", "application/schema+json; charset=utf-8", "x.yaml", JSON},
		{"yaml content type", "application/x-yaml", "x.json", YAML},
		{"yaml extension", "", "http://example.com/s.yml#/a", YAML},
		{"json extension", "text/plain", "s.JSON", JSON},
		{"fallback", "", "schema", JSON},
		{"malformed content type", "Application/YAML;;", "", YAML},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.contentType, tt.file))
		})
	}
}
