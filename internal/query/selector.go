// Package query selects the parts of a document to validate with jq
// expressions.
package query

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/schemacheck/internal/document"
)

// Selector is a compiled jq expression.
type Selector struct {
	expression string
	code       *gojq.Code
}

// Compile parses and compiles a jq expression.
func Compile(expression string) (*Selector, error) {
	q, err := gojq.Parse(expression)
	if err != nil {
		var parseErr *gojq.ParseError
		if errors.As(err, &parseErr) {
			return nil, fmt.Errorf("invalid jq expression at offset %d: %w", parseErr.Offset, err)
		}
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	code, err := gojq.Compile(q)
	if err != nil {
		return nil, fmt.Errorf("invalid jq expression: %w", err)
	}
	return &Selector{expression: expression, code: code}, nil
}

// Expression returns the source of the selector.
func (s *Selector) Expression() string {
	return s.expression
}

// Input is a document to select from. The label names it in errors.
type Input struct {
	Label string
	Value any
}

// Match is one value the selector produced.
type Match struct {
	Source int // index of the input it came from
	Label  string
	Value  any
}

// Result holds the matches of a run in output order. Errors are jq runtime
// errors, one per distinct message, prefixed by the input's label.
type Result struct {
	Matches []Match
	Errors  []string
}

// Count returns the number of matches that came from input i.
func (r *Result) Count(i int) int {
	n := 0
	for _, m := range r.Matches {
		if m.Source == i {
			n++
		}
	}
	return n
}

// Options bound a run.
type Options struct {
	// Unique drops values equal to one matched earlier.
	Unique bool
	// Limit stops the run after that many matches. Zero is unbounded.
	Limit int
}

// Values runs the selector on a single document.
func (s *Selector) Values(ctx context.Context, doc any) ([]any, []string, error) {
	res, err := s.Run(ctx, []Input{{Value: doc}}, Options{})
	if err != nil {
		return nil, nil, err
	}
	values := make([]any, len(res.Matches))
	for i, m := range res.Matches {
		values[i] = m.Value
	}
	return values, res.Errors, nil
}

// Run applies the selector to every input. Null results are matches like
// any other. Only cancellation of ctx is returned as an error; jq failures
// are collected in the result and the run moves on to the next output.
func (s *Selector) Run(ctx context.Context, inputs []Input, opts Options) (*Result, error) {
	res := &Result{}
	full := func() bool { return opts.Limit > 0 && len(res.Matches) >= opts.Limit }
	seen := make(map[string]bool)
	reported := make(map[string]bool)

	for i, in := range inputs {
		if full() {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		label := in.Label
		if label == "" {
			label = fmt.Sprintf("input[%d]", i)
		}

		outputs := s.code.RunWithContext(ctx, document.Normalize(in.Value))
		for !full() {
			v, ok := outputs.Next()
			if !ok {
				break
			}
			if err, isErr := v.(error); isErr {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				if msg := describe(label, err); !reported[msg] {
					reported[msg] = true
					res.Errors = append(res.Errors, msg)
				}
				continue
			}
			if opts.Unique {
				key := identity(v)
				if seen[key] {
					continue
				}
				seen[key] = true
			}
			res.Matches = append(res.Matches, Match{Source: i, Label: label, Value: v})
		}
	}
	return res, nil
}

// describe renders a jq runtime error. gojq reports most runtime failures
// as plain errors, so the hints key off the message text.
func describe(label string, err error) string {
	var halt *gojq.HaltError
	if errors.As(err, &halt) {
		if halt.Value() == nil {
			return label + ": query halted"
		}
		return fmt.Sprintf("%s: query halted with: %v", label, halt.Value())
	}

	msg := err.Error()
	hint := ""
	switch {
	case strings.Contains(msg, "cannot iterate over: null"):
		hint = " (the path may not exist in this document)"
	case strings.Contains(msg, "cannot index") && strings.Contains(msg, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(msg, "object") && strings.Contains(msg, "cannot be iterated"):
		hint = " (an object where an array was expected; drop the [])"
	case strings.Contains(msg, "array") && strings.Contains(msg, "cannot be indexed"):
		hint = " (an array where an object was expected; add [])"
	}
	return label + ": " + msg + hint
}

// identity keys a value for Unique.
func identity(v any) string {
	if s, ok := v.(string); ok {
		return "s:" + s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("?:%v", v)
	}
	return "j:" + string(b)
}
