// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package cursor implements traversal over the nodes of a configuration tree.
package cursor

import (
	"fmt"

	"github.com/confman/conftree/jpath"
	"github.com/confman/conftree/tree"
)

// Path traverses a sequential path into t from its root, where path elements
// are as documented for the Cursor.Down method. This is a convenience wrapper
// for creating a cursor, applying path, and retrieving its position.
func Path(t *tree.Tree, path ...any) (tree.ID, error) {
	c := New(t, t.Root()).Down(path...)
	if err := c.Err(); err != nil {
		return tree.NoID, err
	}
	return c.ID(), nil
}

// Find resolves the path expression s against the root of t.
func Find(t *tree.Tree, s string) (tree.ID, error) {
	e, err := jpath.Parse(s)
	if err != nil {
		return tree.NoID, fmt.Errorf("invalid path %q: %w", s, err)
	}
	id, err := Path(t, e.Elements()...)
	if err != nil {
		return tree.NoID, fmt.Errorf("path %q: %w", s, err)
	}
	return id, nil
}

// PathTo returns a path expression that resolves to id from the root of t.
// Each step is keyed by the key of the corresponding node, except that the
// elements of an array, and nodes whose key is shared by a sibling, are
// addressed by position.
func PathTo(t *tree.Tree, id tree.ID) (jpath.Expr, error) {
	if !t.Valid(id) {
		return nil, tree.ErrInvalidID
	}
	var rev jpath.Expr
	for cur := id; cur != t.Root(); {
		up := t.Parent(cur)
		if up == tree.NoID {
			return nil, fmt.Errorf("node %v is not reachable from the root", id)
		}
		kids := t.Children(up)
		key, pos, dup := t.Key(cur), 0, false
		for i, kid := range kids {
			if kid == cur {
				pos = i
			} else if t.Key(kid) == key {
				dup = true
			}
		}
		if dup || t.ReconstructsAsArray(up) {
			rev = append(rev, jpath.Step{Op: jpath.Index, Index: pos})
		} else {
			rev = append(rev, jpath.Step{Op: jpath.Member, Name: key})
		}
		cur = up
	}
	out := make(jpath.Expr, len(rev))
	for i, s := range rev {
		out[len(rev)-1-i] = s
	}
	return out, nil
}

// A Cursor is a pointer that navigates into the structure of a tree.
type Cursor struct {
	t   *tree.Tree
	org tree.ID
	stk []tree.ID
	err error
}

// New constructs a new Cursor to traverse t starting at origin.
func New(t *tree.Tree, origin tree.ID) *Cursor { return &Cursor{t: t, org: origin} }

// Origin returns the origin node of c.
func (c *Cursor) Origin() tree.ID { return c.org }

// AtOrigin reports whether c is at its origin.
func (c *Cursor) AtOrigin() bool { return len(c.stk) == 0 }

// ID reports the ID of the current node under the cursor.
func (c *Cursor) ID() tree.ID {
	if c.AtOrigin() {
		return c.org
	}
	return c.stk[len(c.stk)-1]
}

// Node returns a snapshot of the current node under the cursor.
func (c *Cursor) Node() (tree.Node, bool) { return c.t.Lookup(c.ID()) }

// Path reports the complete sequence of nodes from the origin to the current
// location in c.
func (c *Cursor) Path() []tree.ID {
	return append([]tree.ID{c.org}, c.stk...)
}

// Err reports the error from the most recent traversal operation, if any.
func (c *Cursor) Err() error { return c.err }

// Up moves the cursor one position upward in the structure, if possible.
// It returns c to permit chaining.
func (c *Cursor) Up() *Cursor {
	if n := len(c.stk); n > 0 {
		c.stk = c.stk[:n-1]
	}
	return c
}

// Reset resets the cursor to its origin and clears its error.
func (c *Cursor) Reset() { c.stk = c.stk[:0]; c.err = nil }

// Down traverses a sequential path into the tree starting from the current
// node, where path elements are either strings (denoting keys), integers
// (denoting child positions), or functions (see below). If the path cannot be
// completely consumed, traversal stops at the last node reached and an error
// is recorded. Use Err to recover the error.
//
// If a path element is a string, the current node must be a container, and
// the string resolves to its last child with that key, which is the child
// whose value the key has in the reconstructed document. Array elements have
// keys of the form "[n]".
//
// If a path element is an integer, the current node must be a container, and
// the integer resolves to the child at that position. Negative positions
// count backward from the end (-1 is last, -2 second last). An error is
// reported if the position is out of bounds.
//
// If a path element is a function, the function is executed and its result
// becomes the next node in the sequence. The function must have a signature
//
//	func(*tree.Tree, tree.ID) (tree.ID, error)
//
// If the function reports an error, traversal stops and the error is recorded.
func (c *Cursor) Down(path ...any) *Cursor {
	c.err = nil // reset error
	cur := c.ID()
	if !c.t.Valid(cur) {
		return c.setErrorf("invalid node %v", cur)
	}
	for _, elt := range path {
		switch t := elt.(type) {
		case string:
			if c.t.Type(cur) != tree.ContainerType {
				return c.setErrorf("cannot traverse %v with %q", c.t.Type(cur), t)
			}
			kids := c.t.Children(cur)
			next := tree.NoID
			for i := len(kids) - 1; i >= 0; i-- {
				if c.t.Key(kids[i]) == t {
					next = kids[i]
					break
				}
			}
			if next == tree.NoID {
				return c.setErrorf("key %q not found", t)
			}
			cur = c.push(next)

		case int:
			if c.t.Type(cur) != tree.ContainerType {
				return c.setErrorf("cannot traverse %v with %v", c.t.Type(cur), t)
			}
			kids := c.t.Children(cur)
			i, ok := fixArrayBound(len(kids), t)
			if !ok {
				return c.setErrorf("index %d out of bounds (n=%d)", t, len(kids))
			}
			cur = c.push(kids[i])

		case func(*tree.Tree, tree.ID) (tree.ID, error):
			next, err := t(c.t, cur)
			if err != nil {
				c.err = err
				return c
			} else if !c.t.Valid(next) {
				return c.setErrorf("function returned invalid node %v", next)
			}
			cur = c.push(next)

		default:
			return c.setErrorf("invalid path element %T", elt)
		}
	}
	return c
}

func (c *Cursor) push(id tree.ID) tree.ID { c.stk = append(c.stk, id); return id }

func (c *Cursor) setErrorf(msg string, args ...any) *Cursor {
	c.err = fmt.Errorf(msg, args...)
	return c
}

func fixArrayBound(n, i int) (int, bool) {
	if i < 0 {
		i += n
	}
	return i, i >= 0 && i < n
}
