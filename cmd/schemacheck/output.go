package main

import (
	"bytes"
	"io"
	"os"
	"text/template"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/schemacheck/internal/document"
	"github.com/usestring/schemacheck/pkg/jsonschema"
)

const (
	defaultErrorFormat = "{{cyan .Label}}{{blue .Path}}: {{.Error.Message}}\n"
	stdinLabel         = "<stdin>"
)

var printer = message.NewPrinter(language.English)

// palette colors text when enabled and passes it through otherwise.
type palette struct {
	on bool
}

func (p palette) paint(attr color.Attribute) func(a ...any) string {
	c := color.New(attr)
	if p.on {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.SprintFunc()
}

func (p palette) funcs() template.FuncMap {
	return template.FuncMap{
		"red":    p.paint(color.FgRed),
		"green":  p.paint(color.FgGreen),
		"yellow": p.paint(color.FgYellow),
		"blue":   p.paint(color.FgBlue),
		"cyan":   p.paint(color.FgCyan),
		"bold":   p.paint(color.Bold),
	}
}

// errorData is what -error-format templates are executed with.
type errorData struct {
	Label      string
	Path       string
	SchemaPath string
	Error      *jsonschema.ValidationError
}

func newErrorData(label string, e *jsonschema.ValidationError) errorData {
	return errorData{
		Label:      label,
		Path:       "#" + e.AbsolutePath().Pointer(),
		SchemaPath: "#" + e.AbsoluteSchemaPath().Pointer(),
		Error:      e,
	}
}

func parseErrorFormat(format string, p palette) (*template.Template, error) {
	if format == "" {
		format = defaultErrorFormat
	}
	return template.New("error").Funcs(p.funcs()).Parse(format)
}

// readDocument decodes the named file, or r when name is "-". Documents
// whose name does not tell the format are read as JSON, then as YAML.
func readDocument(name string, r io.Reader) (any, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return nil, err
	}
	if f := document.FormatOf(name); f != document.Unknown {
		return document.Decode(data, f)
	}
	v, jsonErr := document.DecodeJSON(data)
	if jsonErr == nil {
		return v, nil
	}
	if !looksLikeJSON(data) {
		if v, err := document.DecodeYAML(data); err == nil {
			return v, nil
		}
	}
	return nil, jsonErr
}

func looksLikeJSON(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && (data[0] == '{' || data[0] == '[')
}

func label(name string) string {
	if name == "-" {
		return stdinLabel
	}
	return name
}
