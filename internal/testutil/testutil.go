// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package testutil defines support code for unit tests.
package testutil

import (
	"strings"
	"testing"

	"github.com/confman/conftree/tree"
)

// MustParse builds a tree from the JSON text of input, or fails t.
func MustParse(t testing.TB, input string) *tree.Tree {
	t.Helper()
	tr, err := tree.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse %#q: %v", input, err)
	}
	return tr
}

// Find follows the given keys downward from the root of tr, and returns the
// ID of the node reached. A key shared by several children selects the last
// of them. It fails t if any key is not found.
func Find(t testing.TB, tr *tree.Tree, keys ...string) tree.ID {
	t.Helper()
	cur := tr.Root()
	for _, key := range keys {
		next := tree.NoID
		for _, kid := range tr.Children(cur) {
			if tr.Key(kid) == key {
				next = kid
			}
		}
		if next == tree.NoID {
			t.Fatalf("Node %v has no child %q", cur, key)
		}
		cur = next
	}
	return cur
}

// JSON returns the compact JSON encoding of the document in tr, or fails t.
func JSON(t testing.TB, tr *tree.Tree) string {
	t.Helper()
	v, err := tr.Document()
	if err != nil {
		t.Fatalf("Document: %v", err)
	}
	return v.JSON()
}
