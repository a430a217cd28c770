package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/schemacheck/internal/checker"
	"github.com/usestring/schemacheck/internal/config"
	inferpkg "github.com/usestring/schemacheck/pkg/infer"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

const portSchema = `{
	"type": "object",
	"properties": {"port": {"type": "integer", "maximum": 65535}},
	"required": ["port"]
}`

func newChecker(t *testing.T) *checker.Checker {
	t.Helper()
	chk, err := checker.New(config.Load(), slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	return chk
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
	}
	return dir
}

func newJob(t *testing.T, dir, schema string, instances ...string) *validateJob {
	t.Helper()
	tmpl, err := parseErrorFormat("", palette{})
	require.NoError(t, err)
	job := &validateJob{schema: filepath.Join(dir, schema), tmpl: tmpl}
	for _, name := range instances {
		job.instances = append(job.instances, filepath.Join(dir, name))
	}
	return job
}

func TestValidateJob(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.json": portSchema,
		"a.json":      `{"port": 80}`,
		"b.yaml":      "port: 70000\n",
		"c.json":      `{}`,
	})
	var out bytes.Buffer
	failed, err := newJob(t, dir, "schema.json", "a.json", "b.yaml", "c.json").
		run(context.Background(), newChecker(t), nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, failed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "b.yaml#/port: 70000 is greater than the maximum of 65535"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], `c.json#: "port" is a required property`), lines[1])
	assert.Equal(t, "1 of 3 instances valid under draft7", lines[2])
}

func TestValidateJob_ErrorFormat(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.json": portSchema,
		"b.json":      `{"port": 70000}`,
	})
	job := newJob(t, dir, "schema.json", "b.json")
	tmpl, err := parseErrorFormat("{{.Error.Validator}} {{.SchemaPath}} {{.Error.Instance}}\n", palette{})
	require.NoError(t, err)
	job.tmpl = tmpl

	var out bytes.Buffer
	_, err = job.run(context.Background(), newChecker(t), nil, &out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), "maximum #/properties/port/maximum 70000\n"), out.String())
}

func TestValidateJob_QuietAndBest(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.json": `{"items": {"type": "string"}}`,
		"a.json":      `[1, 2, 3]`,
	})
	chk := newChecker(t)

	job := newJob(t, dir, "schema.json", "a.json")
	job.quiet = true
	var out bytes.Buffer
	failed, err := job.run(context.Background(), chk, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Empty(t, out.String())

	job = newJob(t, dir, "schema.json", "a.json")
	job.best = true
	out.Reset()
	_, err = job.run(context.Background(), chk, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out.String(), "\n"))
}

func TestValidateJob_Query(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.json": portSchema,
		"doc.json":    `{"servers": [{"port": 1}, {"port": "x"}]}`,
	})
	job := newJob(t, dir, "schema.json", "doc.json")
	job.query = ".servers[]"

	var out bytes.Buffer
	failed, err := job.run(context.Background(), newChecker(t), nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Contains(t, out.String(), `doc.json[1]#/port: "x" is not of type "integer"`)
	assert.Contains(t, out.String(), "1 of 2 instances valid under draft7")
}

func TestValidateJob_Stdin(t *testing.T) {
	dir := writeFiles(t, map[string]string{"schema.json": portSchema})
	job := newJob(t, dir, "schema.json")
	job.instances = []string{"-"}

	var out bytes.Buffer
	failed, err := job.run(context.Background(), newChecker(t), strings.NewReader("port: 8080\n"), &out)
	require.NoError(t, err)
	assert.Zero(t, failed)
	assert.Equal(t, "1 of 1 instances valid under draft7\n", out.String())
}

func TestValidateJob_UnreadableInstance(t *testing.T) {
	dir := writeFiles(t, map[string]string{"schema.json": portSchema})
	var out bytes.Buffer
	failed, err := newJob(t, dir, "schema.json", "missing.json").
		run(context.Background(), newChecker(t), nil, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)
	assert.Contains(t, out.String(), "warning: ")
	assert.Contains(t, out.String(), "0 of 1 instances valid")
}

func TestValidateJob_InvalidSchema(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"schema.json": `{"type": 5}`,
		"a.json":      `1`,
	})
	_, err := newJob(t, dir, "schema.json", "a.json").
		run(context.Background(), newChecker(t), nil, &bytes.Buffer{})
	var schemaErr *jsonschema.SchemaError
	require.True(t, errors.As(err, &schemaErr))
}

func TestCheckSchemas(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.json": `{"type": "string"}`,
		"bad.json":  `{"minLength": -1, "required": "a"}`,
	})
	var out bytes.Buffer
	invalid, err := checkSchemas(newChecker(t), "",
		[]string{filepath.Join(dir, "good.json"), filepath.Join(dir, "bad.json"), filepath.Join(dir, "none.json")},
		nil, &out, palette{})
	require.NoError(t, err)
	assert.Equal(t, 2, invalid)

	s := out.String()
	assert.Contains(t, s, "good.json: valid under draft7")
	assert.Contains(t, s, "bad.json#/minLength: -1 is less than the minimum of 0")
	assert.Contains(t, s, `bad.json#/required: "a" is not of type "array"`)
	assert.Contains(t, s, "bad.json: 2 problems under draft7")
	assert.Contains(t, s, "none.json: unreadable:")
}

func TestCheckSchemas_UnknownDraft(t *testing.T) {
	dir := writeFiles(t, map[string]string{"s.json": `{}`})
	_, err := checkSchemas(newChecker(t), "draft9", []string{filepath.Join(dir, "s.json")}, nil, &bytes.Buffer{}, palette{})
	require.ErrorIs(t, err, checker.ErrUnknownDraft)
}

func TestInferSchema(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.json": `{"id": 1, "name": "x"}`,
		"b.yaml": "id: 2\n",
	})
	var out bytes.Buffer
	err := inferSchema(inferpkg.DefaultOptions(), []string{filepath.Join(dir, "a.json"), filepath.Join(dir, "b.yaml")}, nil, &out)
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	assert.Equal(t, inferpkg.Draft07, schema["$schema"])
	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []any{"id"}, schema["required"])
}

func TestListDrafts(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, listDrafts(newChecker(t), &out))
	s := out.String()
	assert.Contains(t, s, "* draft7  http://json-schema.org/draft-07/schema#")
	assert.Contains(t, s, "  draft4  http://json-schema.org/draft-04/schema#")
	assert.Contains(t, s, "ipv4")
}

func TestReadDocument(t *testing.T) {
	v, err := readDocument("-", strings.NewReader("a: 1\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1)}, v)

	v, err = readDocument("-", strings.NewReader(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": json.Number("1")}, v)

	_, err = readDocument("-", strings.NewReader(`{"a": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding JSON")
}

func TestPalette(t *testing.T) {
	tmpl, err := parseErrorFormat(`{{cyan "x"}}`, palette{on: true})
	require.NoError(t, err)
	var out bytes.Buffer
	require.NoError(t, tmpl.Execute(&out, nil))
	assert.Equal(t, "\x1b[36mx\x1b[0m", out.String())

	tmpl, err = parseErrorFormat(`{{cyan "x"}}`, palette{})
	require.NoError(t, err)
	out.Reset()
	require.NoError(t, tmpl.Execute(&out, nil))
	assert.Equal(t, "x", out.String())
}
