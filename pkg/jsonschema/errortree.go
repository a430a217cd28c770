package jsonschema

import (
	"fmt"
	"sort"
)

// ErrorTree indexes errors by their path in the instance and their keyword.
type ErrorTree struct {
	// Errors holds the errors located at this node, by keyword.
	Errors map[Keyword]*ValidationError

	children    map[any]*ErrorTree
	instance    any
	hasInstance bool
}

// NewErrorTree builds a tree from errors, placing each one at its relative
// path.
func NewErrorTree(errs []*ValidationError) *ErrorTree {
	t := newErrorTree()
	for _, e := range errs {
		node := t
		for _, seg := range e.RelativePath {
			child, ok := node.children[seg]
			if !ok {
				child = newErrorTree()
				node.children[seg] = child
			}
			node = child
		}
		node.Errors[e.Validator] = e
		node.instance = e.Instance
		node.hasInstance = true
	}
	return t
}

func newErrorTree() *ErrorTree {
	return &ErrorTree{
		Errors:   map[Keyword]*ValidationError{},
		children: map[any]*ErrorTree{},
	}
}

// Contains reports whether any error is located at or below index.
func (t *ErrorTree) Contains(index any) bool {
	_, ok := t.children[index]
	return ok
}

// Child returns the subtree at index. An index that exists in the instance but
// has no errors yields an empty tree; an index the instance does not have is
// an error.
func (t *ErrorTree) Child(index any) (*ErrorTree, error) {
	if child, ok := t.children[index]; ok {
		return child, nil
	}
	if t.hasInstance {
		key := fmt.Sprint(index)
		if _, ok := lookup(t.instance, key); !ok {
			return nil, fmt.Errorf("jsonschema: instance has no element %s", repr(index))
		}
	}
	return newErrorTree(), nil
}

// Indices returns the indices that have errors below them: object keys first,
// sorted, then array indices in ascending order.
func (t *ErrorTree) Indices() []any {
	var keys []string
	var idx []int
	for k := range t.children {
		switch k := k.(type) {
		case string:
			keys = append(keys, k)
		case int:
			idx = append(idx, k)
		}
	}
	sort.Strings(keys)
	sort.Ints(idx)
	out := make([]any, 0, len(keys)+len(idx))
	for _, k := range keys {
		out = append(out, k)
	}
	for _, i := range idx {
		out = append(out, i)
	}
	return out
}

// TotalErrors counts the errors at this node and every node below it.
func (t *ErrorTree) TotalErrors() int {
	n := len(t.Errors)
	for _, child := range t.children {
		n += child.TotalErrors()
	}
	return n
}
