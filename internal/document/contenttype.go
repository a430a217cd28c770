package document

import (
	"mime"
	"path"
	"strings"
)

// Format is the serialization of a schema or instance document.
type Format string

const (
	JSON    Format = "json"
	YAML    Format = "yaml"
	Unknown Format = ""
)

// Classify returns the document format for a content-type header value.
// Uses mime.ParseMediaType to strip parameters (charset etc.) before
// matching. Falls back to strings.ToLower for malformed values.
func Classify(contentType string) Format {
	if contentType == "" {
		return Unknown
	}

	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}

	// application/json, application/schema+json, application/vnd.*+json
	if strings.Contains(mediaType, "json") {
		return JSON
	}

	// application/yaml, text/yaml, application/x-yaml
	if strings.Contains(mediaType, "yaml") {
		return YAML
	}

	return Unknown
}

// FormatOf guesses the format of a document from its file name or URL path.
func FormatOf(name string) Format {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return JSON
	case ".yaml", ".yml":
		return YAML
	}
	return Unknown
}

// Detect picks a format from the content type first and the name second.
// JSON is assumed when neither is conclusive.
func Detect(contentType, name string) Format {
	if f := Classify(contentType); f != Unknown {
		return f
	}
	if f := FormatOf(name); f != Unknown {
		return f
	}
	return JSON
}
