// Package jsoncompact shrinks decoded JSON documents for display, trimming
// long arrays, wide objects and long strings.
//
// It is used to echo the failing part of an instance back to MCP clients
// without flooding their context with large documents.
package jsoncompact

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/usestring/schemacheck/internal/document"
)

// Options controls compaction.
type Options struct {
	MaxArrayItems int // Keep the first N array items (0 = no limit)
	MaxObjectKeys int // Keep the first N object keys in sorted order (0 = no limit)
	MaxStringLen  int // Truncate strings longer than N runes (0 = no limit)
	MaxDepth      int // Replace values nested deeper than N (0 = unlimited)
}

// Default values for compaction options.
const (
	DefaultMaxArrayItems = 3
	DefaultMaxObjectKeys = 20
	DefaultMaxStringLen  = 200
	DefaultMaxDepth      = 4
)

// Markers left in place of what was trimmed.
const (
	DepthMarker = "[max depth]"
	MoreKey     = "..."
)

// DefaultOptions returns the default compaction settings.
func DefaultOptions() *Options {
	return &Options{
		MaxArrayItems: DefaultMaxArrayItems,
		MaxObjectKeys: DefaultMaxObjectKeys,
		MaxStringLen:  DefaultMaxStringLen,
		MaxDepth:      DefaultMaxDepth,
	}
}

// Compact decodes a JSON document and compacts it. Numbers stay json.Number.
// If opts is nil, DefaultOptions() is used.
func Compact(data []byte, opts *Options) (any, error) {
	v, err := document.DecodeJSON(data)
	if err != nil {
		return nil, err
	}
	return CompactValue(v, opts), nil
}

// CompactValue returns a compacted copy of a decoded document; v is not
// modified. If opts is nil, DefaultOptions() is used.
func CompactValue(v any, opts *Options) any {
	if opts == nil {
		opts = DefaultOptions()
	}
	return compact(v, opts, 0)
}

func compact(v any, opts *Options, depth int) any {
	switch val := v.(type) {
	case []any:
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return DepthMarker
		}
		return compactArray(val, opts, depth)
	case map[string]any:
		if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return DepthMarker
		}
		return compactObject(val, opts, depth)
	case string:
		return compactString(val, opts)
	}
	return v
}

func compactString(s string, opts *Options) string {
	if opts.MaxStringLen <= 0 || utf8.RuneCountInString(s) <= opts.MaxStringLen {
		return s
	}
	runes := []rune(s)
	return string(runes[:opts.MaxStringLen]) + fmt.Sprintf("... (%d more chars)", len(runes)-opts.MaxStringLen)
}

func compactArray(arr []any, opts *Options, depth int) []any {
	n := len(arr)
	if opts.MaxArrayItems > 0 && n > opts.MaxArrayItems {
		n = opts.MaxArrayItems
	}
	out := make([]any, 0, n+1)
	for _, item := range arr[:n] {
		out = append(out, compact(item, opts, depth+1))
	}
	if n < len(arr) {
		out = append(out, fmt.Sprintf("... (%d more items)", len(arr)-n))
	}
	return out
}

func compactObject(obj map[string]any, opts *Options, depth int) map[string]any {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	n := len(keys)
	if opts.MaxObjectKeys > 0 && n > opts.MaxObjectKeys {
		n = opts.MaxObjectKeys
	}

	out := make(map[string]any, n+1)
	for _, k := range keys[:n] {
		out[k] = compact(obj[k], opts, depth+1)
	}
	if n < len(keys) {
		out[MoreKey] = fmt.Sprintf("%d more keys", len(keys)-n)
	}
	return out
}
