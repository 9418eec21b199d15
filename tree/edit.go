// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"fmt"
	"slices"
	"strconv"
)

// EntryKind selects the kind of node created by AddEntry.
type EntryKind int

// Constants defining the valid EntryKind values.
const (
	ObjectEntry    EntryKind = iota // a keyed string member
	ArrayEntry                      // an indexed string element
	StringEntry                     // a string leaf
	BoolEntry                       // a bool leaf
	DoubleEntry                     // a number leaf
	NullEntry                       // a null leaf
	ContainerEntry                  // an empty container
)

var kindNames = [...]string{
	ObjectEntry:    "object",
	ArrayEntry:     "array",
	StringEntry:    "string",
	BoolEntry:      "bool",
	DoubleEntry:    "double",
	NullEntry:      "null",
	ContainerEntry: "container",
}

func (k EntryKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "EntryKind(" + strconv.Itoa(int(k)) + ")"
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (k *EntryKind) UnmarshalText(d []byte) error {
	if i := slices.Index(kindNames[:], string(d)); i >= 0 {
		*k = EntryKind(i)
		return nil
	}
	return fmt.Errorf("unknown entry kind %q", d)
}

// defaults gives the type and initial text of a new entry of each kind.
var defaults = [...]struct {
	typ  Type
	text string
}{
	ObjectEntry: {StringType, ""},
	ArrayEntry:  {StringType, ""},
	StringEntry: {StringType, ""},
	BoolEntry:   {BoolType, "false"},
	DoubleEntry: {DoubleType, "0.0"},
	NullEntry:   {NullType, "null"},
}

// AddEntry creates a new node of the given kind as the last child of parent,
// and returns its ID.
//
// An ArrayEntry is keyed "[n]" where n is the number of children of parent
// before the addition. An ObjectEntry is keyed by key, or if key is empty, by
// the first of "newKey", "newKey1", "newKey2", ... not already used by a child
// of parent. The other kinds are keyed like an ArrayEntry if parent currently
// reconstructs as an array, and otherwise like an ObjectEntry.
//
// If parent does not reconstruct as an array and the new key is already used
// by a child of parent, AddEntry reports a *CollisionError and adds nothing.
//
// ObjectEntry, ArrayEntry, and StringEntry nodes are empty strings, BoolEntry
// nodes are false, DoubleEntry nodes are 0.0, NullEntry nodes are null, and
// ContainerEntry nodes are empty containers.
func (t *Tree) AddEntry(parent ID, kind EntryKind, key string) (ID, error) {
	p := t.get(parent)
	if p == nil {
		return NoID, ErrInvalidID
	} else if p.typ != ContainerType {
		return NoID, fmt.Errorf("add to %v: %w", parent, ErrNotContainer)
	}

	var label string
	switch kind {
	case ArrayEntry:
		label = indexKey(len(p.children))
	case ObjectEntry:
		label = t.objectKey(p.children, key)
	case StringEntry, BoolEntry, DoubleEntry, NullEntry, ContainerEntry:
		if t.ReconstructsAsArray(parent) {
			label = indexKey(len(p.children))
		} else {
			label = t.objectKey(p.children, key)
		}
	default:
		return NoID, fmt.Errorf("unknown entry kind %v", kind)
	}

	if !t.ReconstructsAsArray(parent) && t.hasKey(p.children, label, NoID) {
		return NoID, &CollisionError{Container: parent, Key: label}
	}

	var id ID
	if kind == ContainerEntry {
		id = t.NewContainer(label)
	} else {
		d := defaults[kind]
		id = t.NewLeaf(label, d.typ, d.text)
	}
	t.attach(parent, id)
	return id, nil
}

// objectKey returns key if it is non-empty, or otherwise a fresh key not used
// by any of the given siblings.
func (t *Tree) objectKey(sibs []ID, key string) string {
	if key != "" {
		return key
	}
	used := make(map[string]bool, len(sibs))
	for _, id := range sibs {
		used[t.slots[id].key] = true
	}
	key = "newKey"
	for i := 1; used[key]; i++ {
		key = "newKey" + strconv.Itoa(i)
	}
	return key
}

// hasKey reports whether any of sibs other than skip has the given key.
func (t *Tree) hasKey(sibs []ID, key string, skip ID) bool {
	return slices.ContainsFunc(sibs, func(id ID) bool {
		return id != skip && t.slots[id].key == key
	})
}

// DeleteEntry removes the specified node and all its descendants from the
// tree. It reports ErrRoot if id is the root. Deleting a node that does not
// exist does nothing.
func (t *Tree) DeleteEntry(id ID) error {
	s := t.get(id)
	if s == nil {
		return nil
	} else if id == t.root {
		return ErrRoot
	}
	if s.parent == NoID {
		t.release(id)
	} else {
		t.Remove(s.parent, id)
	}
	return nil
}

// CommitEdit commits text as the new content of the specified leaf, subject
// to validation. See ProposeEdit.
func (t *Tree) CommitEdit(id ID, text string) (string, error) { return t.ProposeEdit(id, text) }
