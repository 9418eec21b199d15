// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/confman/conftree/ast"
)

// Build constructs a new tree from the structure of v. The root of the tree
// has an empty key. Object members become children keyed by their member
// names, in document order; array elements become children keyed "[i]" for
// their index i. Scalars become leaves tagged with their JSON type.
//
// If v contains a value Build cannot represent, Build reports an error and
// no tree is returned.
func Build(v ast.Value) (*Tree, error) {
	t := New()
	root, err := t.build("", v)
	if err != nil {
		return nil, err
	}
	t.root = root
	return t, nil
}

// Parse parses a single JSON value from r and builds a tree from it.
func Parse(r io.Reader) (*Tree, error) {
	v, err := ast.ParseSingle(r)
	if err != nil {
		return nil, err
	}
	return Build(v)
}

// BuildNode constructs a detached subtree of t from v, whose top-level node
// has the given key. The caller is responsible for attaching the result.
func (t *Tree) BuildNode(key string, v ast.Value) (ID, error) { return t.build(key, v) }

func (t *Tree) build(key string, v ast.Value) (ID, error) {
	switch e := v.(type) {
	case ast.Object:
		id := t.NewContainer(key)
		for _, m := range e {
			kid, err := t.build(m.Key, m.Value)
			if err != nil {
				t.release(id)
				return NoID, err
			}
			t.attach(id, kid)
		}
		return id, nil

	case ast.Array:
		id := t.NewContainer(key)
		for i, elt := range e {
			kid, err := t.build(indexKey(i), elt)
			if err != nil {
				t.release(id)
				return NoID, err
			}
			t.attach(id, kid)
		}
		return id, nil

	case ast.Bool:
		return t.NewLeaf(key, BoolType, strconv.FormatBool(bool(e))), nil
	case ast.Int:
		return t.number(key, float64(e))
	case ast.Float:
		return t.number(key, float64(e))
	case ast.Number:
		f, err := strconv.ParseFloat(string(e), 64)
		if err != nil {
			return NoID, fmt.Errorf("invalid number %q: %w", e, err)
		}
		return t.number(key, f)
	case ast.String:
		return t.NewLeaf(key, StringType, string(e)), nil
	case nil:
		return NoID, fmt.Errorf("missing value for key %q", key)
	}
	if v == ast.Null {
		return t.NewLeaf(key, NullType, "null"), nil
	}
	return NoID, fmt.Errorf("unsupported value type %T", v)
}

func (t *Tree) number(key string, f float64) (ID, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return NoID, fmt.Errorf("number %v for key %q is out of range", f, key)
	}
	return t.NewLeaf(key, DoubleType, ast.FormatFloat(f)), nil
}

// attach adds a freshly-built child to parent without the checks of Append.
func (t *Tree) attach(parent, child ID) {
	p := &t.slots[parent]
	p.children = append(p.children, child)
	t.slots[child].parent = parent
}

func indexKey(i int) string { return "[" + strconv.Itoa(i) + "]" }
