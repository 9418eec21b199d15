// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"errors"
	"fmt"
)

// Errors reported by structural operations on a Tree.
var (
	ErrInvalidID    = errors.New("invalid node ID")
	ErrNotContainer = errors.New("node is not a container")
	ErrNotLeaf      = errors.New("node is not a leaf")
	ErrAttached     = errors.New("node already has a parent")
	ErrCycle        = errors.New("node is an ancestor of the target")
	ErrRoot         = errors.New("cannot delete the root node")
)

// ErrTypeMismatch is the sentinel matched by a *TypeMismatchError.
var ErrTypeMismatch = errors.New("type mismatch")

// ErrKeyCollision is the sentinel matched by a *CollisionError.
var ErrKeyCollision = errors.New("duplicate key")

// TypeMismatchError is reported when an edit does not conform to the
// declared type of its node. The rejected text is not retained by the tree.
type TypeMismatchError struct {
	Expected Type   // the declared type of the node
	Text     string // the rejected text
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch: %q is not a valid %s", e.Text, e.Expected)
}

// Is reports whether target is ErrTypeMismatch.
func (e *TypeMismatchError) Is(target error) bool { return target == ErrTypeMismatch }

// CollisionError is reported when two children of one object container
// would share a key: by AddEntry and Rename, and by reconstruction when
// collisions are rejected.
type CollisionError struct {
	Container ID     // the container holding the duplicates
	Key       string // the duplicated key
}

func (e *CollisionError) Error() string {
	return fmt.Sprintf("duplicate key %q in node %d", e.Key, e.Container)
}

// Is reports whether target is ErrKeyCollision.
func (e *CollisionError) Is(target error) bool { return target == ErrKeyCollision }
