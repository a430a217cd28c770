package checker

import (
	"context"
	"fmt"

	"github.com/usestring/schemacheck/internal/query"
)

// Select replaces each document by the values sel extracts from it. A value
// keeps the label of its document, with its position appended when the
// document yields more than one. Query errors are returned per document
// alongside the instances that were selected.
func Select(ctx context.Context, sel *query.Selector, docs []Instance) ([]Instance, []string, error) {
	inputs := make([]query.Input, len(docs))
	for i, d := range docs {
		inputs[i] = query.Input(d)
	}
	res, err := sel.Run(ctx, inputs, query.Options{})
	if err != nil {
		return nil, nil, err
	}

	counts := make(map[int]int)
	for _, m := range res.Matches {
		counts[m.Source]++
	}
	out := make([]Instance, 0, len(res.Matches))
	pos := make(map[int]int)
	for _, m := range res.Matches {
		label := m.Label
		if counts[m.Source] > 1 {
			label = fmt.Sprintf("%s[%d]", m.Label, pos[m.Source])
			pos[m.Source]++
		}
		out = append(out, Instance{Label: label, Value: m.Value})
	}
	return out, res.Errors, nil
}
