// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"strconv"
	"strings"

	"github.com/confman/conftree/ast"
)

// ReconstructOptions control how a tree is converted back into a JSON value.
// A zero value is ready for use with default settings.
type ReconstructOptions struct {
	// InferStrings, if true, infers the JSON type of a string leaf from its
	// text like any other leaf, so that a string leaf with text "42" becomes
	// the number 42. By default string leaves always yield strings.
	InferStrings bool

	// RejectCollisions, if true, reports a *CollisionError when two children
	// of an object share a key. By default the later child wins, taking the
	// position of the earlier one.
	RejectCollisions bool
}

// Document reconstructs the JSON value of the whole tree with default
// options. It reports ErrInvalidID if the tree has no root.
func (t *Tree) Document() (ast.Value, error) { return t.Reconstruct(t.root) }

// Reconstruct converts the subtree rooted at id into a JSON value with
// default options.
func (t *Tree) Reconstruct(id ID) (ast.Value, error) {
	return t.ReconstructWith(id, ReconstructOptions{})
}

// ReconstructWith converts the subtree rooted at id into a JSON value using
// the given options.
//
// A leaf is converted by the first rule matching its text: "null" (in any
// case) is null; "true" or "false" (in any case) is a Bool; text parsing as a
// base-10 integer is an Int; text parsing as a finite decimal number is a
// Float; any other text is a String. Unless opts.InferStrings is set, a leaf
// of type StringType is always a String.
//
// A container with no children is an empty object. A container whose
// children all have keys of the form "[n]" for a decimal n is an array of the
// children in stored order. Any other container is an object whose members
// are keyed by the child keys, in stored order.
func (t *Tree) ReconstructWith(id ID, opts ReconstructOptions) (ast.Value, error) {
	s := t.get(id)
	if s == nil {
		return nil, ErrInvalidID
	}
	switch s.typ {
	case ContainerType:
		return t.container(id, s, opts)
	case StringType:
		if !opts.InferStrings {
			return ast.String(s.text), nil
		}
		return LeafValue(s.text), nil
	case NullType, BoolType, DoubleType:
		return LeafValue(s.text), nil
	default:
		panic("tree: invalid node type " + s.typ.String())
	}
}

func (t *Tree) container(id ID, s *slot, opts ReconstructOptions) (ast.Value, error) {
	if len(s.children) == 0 {
		return ast.Object{}, nil
	}
	if t.isArray(s.children) {
		arr := make(ast.Array, len(s.children))
		for i, kid := range s.children {
			v, err := t.ReconstructWith(kid, opts)
			if err != nil {
				return nil, err
			}
			arr[i] = v
		}
		return arr, nil
	}

	obj := make(ast.Object, 0, len(s.children))
	pos := make(map[string]int, len(s.children))
	for _, kid := range s.children {
		v, err := t.ReconstructWith(kid, opts)
		if err != nil {
			return nil, err
		}
		key := t.slots[kid].key
		if i, ok := pos[key]; ok {
			if opts.RejectCollisions {
				return nil, &CollisionError{Container: id, Key: key}
			}
			obj[i].Value = v
			continue
		}
		pos[key] = len(obj)
		obj = append(obj, &ast.Member{Key: key, Value: v})
	}
	return obj, nil
}

// isArray reports whether the keys of all the given nodes are array labels.
func (t *Tree) isArray(ids []ID) bool {
	for _, id := range ids {
		if !IsIndexKey(t.slots[id].key) {
			return false
		}
	}
	return true
}

// ReconstructsAsArray reports whether the specified container currently
// reconstructs as a JSON array. It reports false for leaves, for empty
// containers, and for invalid IDs.
func (t *Tree) ReconstructsAsArray(id ID) bool {
	s := t.get(id)
	return s != nil && s.typ == ContainerType && len(s.children) != 0 && t.isArray(s.children)
}

// IsIndexKey reports whether key has the form "[n]" where n is a non-empty
// sequence of decimal digits.
func IsIndexKey(key string) bool {
	digits, ok := strings.CutPrefix(key, "[")
	if !ok {
		return false
	}
	digits, ok = strings.CutSuffix(digits, "]")
	if !ok || digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// LeafValue converts the raw text of a leaf to a JSON value, inferring its
// type from the syntax of the text. See ReconstructWith.
func LeafValue(text string) ast.Value {
	switch {
	case strings.EqualFold(text, "null"):
		return ast.Null
	case strings.EqualFold(text, "true"):
		return ast.Bool(true)
	case strings.EqualFold(text, "false"):
		return ast.Bool(false)
	}
	if z, err := strconv.ParseInt(text, 10, 64); err == nil {
		return ast.Int(z)
	}
	if f, ok := parseDecimal(text); ok {
		return ast.Float(f)
	}
	return ast.String(text)
}
