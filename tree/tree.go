// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package tree implements an editable, typed tree model of a JSON document.
//
// A Tree stores nodes in an arena addressed by ID. Each node has a display
// key, a declared Type, and either raw text (leaves) or an ordered list of
// children (containers). Whether a container is an object or an array is not
// stored: it is inferred from the keys of its children when the tree is
// reconstructed into a JSON value.
//
// Use Build to convert a parsed JSON value into a Tree, the edit methods
// (AddEntry, DeleteEntry, CommitEdit) to change it, and Reconstruct or
// Document to turn it back into a JSON value.
//
// A Tree is not safe for concurrent use without external synchronization.
package tree

import (
	"fmt"
	"iter"
	"slices"
)

// An ID identifies a node within a single Tree. IDs are never reused by a
// tree, so an ID remains valid until its node is removed, regardless of
// changes elsewhere in the tree. The zero ID is never assigned to a node.
type ID int

// NoID is the zero ID, which does not refer to any node.
const NoID ID = 0

func (id ID) String() string { return fmt.Sprintf("#%d", int(id)) }

// A Node is a snapshot of the state of one node of a Tree.
type Node struct {
	ID       ID
	Key      string // display label
	Text     string // raw text; empty for containers
	Previous string // last text that passed validation
	Type     Type
	Parent   ID   // NoID for a detached node or the root
	Children []ID // nil for leaves
}

// IsLeaf reports whether n is a leaf node.
func (n Node) IsLeaf() bool { return n.Type.IsLeaf() }

type slot struct {
	live     bool
	pending  bool // an edit is awaiting validation
	key      string
	text     string
	prev     string
	typ      Type
	parent   ID
	children []ID
}

// A Tree is an arena of nodes with a designated root.
// The zero value is an empty tree ready for use.
type Tree struct {
	slots []slot // slots[0] is reserved for NoID
	root  ID
	nlive int
}

// New constructs a new empty tree.
func New() *Tree { return new(Tree) }

func (t *Tree) alloc(s slot) ID {
	if len(t.slots) == 0 {
		t.slots = append(t.slots, slot{})
	}
	s.live = true
	t.slots = append(t.slots, s)
	t.nlive++
	return ID(len(t.slots) - 1)
}

// get returns the slot for id, or nil if id does not denote a live node.
func (t *Tree) get(id ID) *slot {
	if id <= 0 || int(id) >= len(t.slots) || !t.slots[id].live {
		return nil
	}
	return &t.slots[id]
}

// NewLeaf creates a new detached leaf node with the given key, type, and
// initial text. The text is not validated. NewLeaf panics if typ is not a
// valid leaf type.
func (t *Tree) NewLeaf(key string, typ Type, text string) ID {
	if !typ.valid() || !typ.IsLeaf() {
		panic(fmt.Sprintf("tree: invalid leaf type %v", typ))
	}
	return t.alloc(slot{key: key, typ: typ, text: text, prev: text})
}

// NewContainer creates a new detached container node with the given key and
// no children.
func (t *Tree) NewContainer(key string) ID {
	return t.alloc(slot{key: key, typ: ContainerType})
}

// Append adds child as the last child of parent. The child must be detached,
// and must not be parent or one of its ancestors.
func (t *Tree) Append(parent, child ID) error {
	p, c := t.get(parent), t.get(child)
	if p == nil || c == nil {
		return ErrInvalidID
	} else if p.typ != ContainerType {
		return fmt.Errorf("append to %v: %w", parent, ErrNotContainer)
	} else if c.parent != NoID || child == t.root {
		return fmt.Errorf("append %v: %w", child, ErrAttached)
	}
	for up := parent; up != NoID; up = t.slots[up].parent {
		if up == child {
			return fmt.Errorf("append %v to %v: %w", child, parent, ErrCycle)
		}
	}
	p.children = append(p.children, child)
	c.parent = parent
	return nil
}

// Remove removes child from the children of parent, and releases child and
// all its descendants. Their IDs become invalid. If child is not a child of
// parent, Remove does nothing.
func (t *Tree) Remove(parent, child ID) {
	p := t.get(parent)
	if p == nil {
		return
	}
	i := slices.Index(p.children, child)
	if i < 0 {
		return
	}
	p.children = slices.Delete(p.children, i, i+1)
	t.release(child)
}

// release marks id and its descendants as dead.
func (t *Tree) release(id ID) {
	s := t.get(id)
	if s == nil {
		return
	}
	for _, kid := range s.children {
		t.release(kid)
	}
	*s = slot{}
	t.nlive--
	if t.root == id {
		t.root = NoID
	}
}

// Root returns the ID of the root node, or NoID if the tree is empty.
func (t *Tree) Root() ID { return t.root }

// SetRoot designates id as the root of the tree. The node must be detached.
// Any previous root and its descendants are released.
func (t *Tree) SetRoot(id ID) error {
	s := t.get(id)
	if s == nil {
		return ErrInvalidID
	} else if s.parent != NoID {
		return fmt.Errorf("set root %v: %w", id, ErrAttached)
	}
	if old := t.root; old != id {
		t.release(old)
	}
	t.root = id
	return nil
}

// Valid reports whether id refers to a live node of t.
func (t *Tree) Valid(id ID) bool { return t.get(id) != nil }

// Len reports the number of live nodes in t, attached or not.
func (t *Tree) Len() int { return t.nlive }

// Lookup returns a snapshot of the node with the given id. It reports false
// if id does not refer to a live node.
func (t *Tree) Lookup(id ID) (Node, bool) {
	s := t.get(id)
	if s == nil {
		return Node{}, false
	}
	return Node{
		ID:       id,
		Key:      s.key,
		Text:     s.text,
		Previous: s.prev,
		Type:     s.typ,
		Parent:   s.parent,
		Children: slices.Clone(s.children),
	}, true
}

// Key returns the key of the specified node, or "" if id is invalid.
func (t *Tree) Key(id ID) string {
	if s := t.get(id); s != nil {
		return s.key
	}
	return ""
}

// Text returns the raw text of the specified node, or "" if id is invalid.
func (t *Tree) Text(id ID) string {
	if s := t.get(id); s != nil {
		return s.text
	}
	return ""
}

// Type returns the declared type of the specified node.
// It returns NullType if id is invalid.
func (t *Tree) Type(id ID) Type {
	if s := t.get(id); s != nil {
		return s.typ
	}
	return NullType
}

// Children returns a copy of the child IDs of the specified node, in order.
func (t *Tree) Children(id ID) []ID {
	if s := t.get(id); s != nil {
		return slices.Clone(s.children)
	}
	return nil
}

// Parent returns the parent ID of the specified node, or NoID if the node is
// detached, is the root, or id is invalid.
func (t *Tree) Parent(id ID) ID {
	if s := t.get(id); s != nil {
		return s.parent
	}
	return NoID
}

// Pending reports whether the specified node has an edit awaiting
// validation. This is only true during the execution of ProposeEdit.
func (t *Tree) Pending(id ID) bool {
	s := t.get(id)
	return s != nil && s.pending
}

// Rename changes the key of the specified node. If another child of the
// parent of id already has that key, Rename reports a *CollisionError and
// the node keeps its key. Keys are otherwise not validated.
func (t *Tree) Rename(id ID, key string) error {
	s := t.get(id)
	if s == nil {
		return ErrInvalidID
	}
	if p := t.get(s.parent); p != nil && t.hasKey(p.children, key, id) {
		return &CollisionError{Container: s.parent, Key: key}
	}
	s.key = key
	return nil
}

// Walk returns a pre-order sequence of the nodes in the subtree rooted at id,
// paired with their depth below id.
func (t *Tree) Walk(id ID) iter.Seq2[int, Node] {
	return func(yield func(int, Node) bool) {
		t.walk(id, 0, yield)
	}
}

func (t *Tree) walk(id ID, depth int, yield func(int, Node) bool) bool {
	n, ok := t.Lookup(id)
	if !ok {
		return true
	}
	if !yield(depth, n) {
		return false
	}
	for _, kid := range n.Children {
		if !t.walk(kid, depth+1, yield) {
			return false
		}
	}
	return true
}
