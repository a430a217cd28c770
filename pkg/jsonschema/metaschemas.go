package jsonschema

import (
	"embed"
	"fmt"
	"path"
	"strings"
	"sync"

	"github.com/usestring/schemacheck/internal/document"
)

//go:embed metaschemas/*.json
var metaSchemaFS embed.FS

// loadMetaSchemas decodes the bundled meta-schemas once, keyed by draft name.
var loadMetaSchemas = sync.OnceValues(func() (map[string]any, error) {
	entries, err := metaSchemaFS.ReadDir("metaschemas")
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(entries))
	for _, entry := range entries {
		data, err := metaSchemaFS.ReadFile(path.Join("metaschemas", entry.Name()))
		if err != nil {
			return nil, err
		}
		doc, err := document.DecodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("meta-schema %s: %w", entry.Name(), err)
		}
		out[strings.TrimSuffix(entry.Name(), ".json")] = doc
	}
	return out, nil
})

// MetaSchema returns the bundled meta-schema of a draft: "draft3", "draft4",
// "draft6" or "draft7".
func MetaSchema(draft string) (any, bool) {
	schemas, err := loadMetaSchemas()
	if err != nil {
		return nil, false
	}
	doc, ok := schemas[draft]
	return doc, ok
}

func mustMetaSchema(draft string) any {
	schemas, err := loadMetaSchemas()
	if err != nil {
		panic(fmt.Sprintf("jsonschema: bundled meta-schemas are corrupt: %v", err))
	}
	doc, ok := schemas[draft]
	if !ok {
		panic("jsonschema: no bundled meta-schema for " + draft)
	}
	return doc
}
