// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree_test

import (
	"errors"
	"testing"

	"github.com/confman/conftree/ast"
	"github.com/confman/conftree/tree"
	"github.com/google/go-cmp/cmp"
)

func TestEndToEnd(t *testing.T) {
	tr := mustParse(t, `{"enabled": true, "label": "hi", "count": 2}`)
	count := child(t, tr, tr.Root(), "count")
	if got, err := tr.CommitEdit(count, "5"); err != nil {
		t.Fatalf("CommitEdit: unexpected error: %v", err)
	} else if got != "5" {
		t.Errorf("CommitEdit: got %q, want 5", got)
	}

	want := ast.Object{
		ast.Field("enabled", true),
		ast.Field("label", "hi"),
		ast.Field("count", 5),
	}
	if got := mustDocument(t, tr); !ast.Equal(got, want) {
		t.Errorf("Document: got %s, want %s", got.JSON(), want.JSON())
	}
	if got, want := ast.FormatToString(mustDocument(t, tr)), `{
  "enabled": true,
  "label": "hi",
  "count": 5
}
`; got != want {
		t.Errorf("Formatted:\n%s\nwant:\n%s", got, want)
	}
}

func TestAddEntry(t *testing.T) {
	tests := []struct {
		name  string
		input string
		kind  tree.EntryKind
		key   string
		want  string // node dump of the new entry
		doc   string
	}{
		{"ObjectKey", `{"a": 1}`, tree.ObjectEntry, "b", "b string \n", `{"a":1,"b":""}`},
		{"ObjectFresh", `{"a": 1}`, tree.ObjectEntry, "", "newKey string \n", `{"a":1,"newKey":""}`},
		{"ObjectFreshTaken", `{"newKey": 1, "newKey1": 2}`, tree.ObjectEntry, "",
			"newKey2 string \n", `{"newKey":1,"newKey1":2,"newKey2":""}`},
		{"Array", `[true]`, tree.ArrayEntry, "ignored", "[1] string \n", `[true,""]`},
		{"ArrayInObject", `{"a": 1}`, tree.ArrayEntry, "", "[1] string \n", `{"a":1,"[1]":""}`},
		{"ArrayInEmpty", `{}`, tree.ArrayEntry, "", "[0] string \n", `[""]`},
		{"BoolInArray", `[1, 2]`, tree.BoolEntry, "x", "[2] bool false\n", `[1,2,false]`},
		{"BoolInObject", `{"a": 1}`, tree.BoolEntry, "flag", "flag bool false\n", `{"a":1,"flag":false}`},
		{"DoubleInArray", `["x"]`, tree.DoubleEntry, "", "[1] double 0.0\n", `["x",0]`},
		{"DoubleFresh", `{}`, tree.DoubleEntry, "", "newKey double 0.0\n", `{"newKey":0}`},
		{"NullInObject", `{"a": 1}`, tree.NullEntry, "z", "z null null\n", `{"a":1,"z":null}`},
		{"StringInArray", `[null]`, tree.StringEntry, "", "[1] string \n", `[null,""]`},
		{"ContainerInObject", `{"a": 1}`, tree.ContainerEntry, "sub", "sub container\n", `{"a":1,"sub":{}}`},
		{"ContainerInArray", `[1]`, tree.ContainerEntry, "", "[1] container\n", `[1,{}]`},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			tr := mustParse(t, test.input)
			id, err := tr.AddEntry(tr.Root(), test.kind, test.key)
			if err != nil {
				t.Fatalf("AddEntry: unexpected error: %v", err)
			}
			if diff := cmp.Diff(dump(tr, id), test.want); diff != "" {
				t.Errorf("New entry (-got, +want):\n%s", diff)
			}
			if got := tr.Parent(id); got != tr.Root() {
				t.Errorf("Parent: got %v, want %v", got, tr.Root())
			}
			if got := mustDocument(t, tr).JSON(); got != test.doc {
				t.Errorf("Document: got %#q, want %#q", got, test.doc)
			}
		})
	}
}

func TestAddEntryErrors(t *testing.T) {
	tr := mustParse(t, `{"a": 1}`)
	a := child(t, tr, tr.Root(), "a")
	if _, err := tr.AddEntry(a, tree.ObjectEntry, "x"); !errors.Is(err, tree.ErrNotContainer) {
		t.Errorf("AddEntry(leaf): got %v, want %v", err, tree.ErrNotContainer)
	}
	if _, err := tr.AddEntry(999, tree.ObjectEntry, "x"); !errors.Is(err, tree.ErrInvalidID) {
		t.Errorf("AddEntry(invalid): got %v, want %v", err, tree.ErrInvalidID)
	}
	if _, err := tr.AddEntry(tr.Root(), tree.EntryKind(99), "x"); err == nil {
		t.Error("AddEntry(bad kind): got nil, want error")
	}
}

func TestAddEntryCollision(t *testing.T) {
	tr := mustParse(t, `{"label": "hi", "count": 2}`)
	root := tr.Root()
	n := tr.Len()
	for _, kind := range []tree.EntryKind{tree.ObjectEntry, tree.StringEntry, tree.ContainerEntry} {
		_, err := tr.AddEntry(root, kind, "label")
		var cerr *tree.CollisionError
		if !errors.As(err, &cerr) {
			t.Errorf("AddEntry(%v, label): got %v, want *CollisionError", kind, err)
		} else if cerr.Key != "label" || cerr.Container != root {
			t.Errorf("CollisionError: got %+v", cerr)
		}
		if !errors.Is(err, tree.ErrKeyCollision) {
			t.Errorf("AddEntry(%v, label): error %v does not match ErrKeyCollision", kind, err)
		}
	}
	if got := tr.Len(); got != n {
		t.Errorf("Len: got %d, want %d", got, n)
	}
	if got := mustDocument(t, tr).JSON(); got != `{"label":"hi","count":2}` {
		t.Errorf("Document: got %#q", got)
	}

	// Array labels are positional, so a reused label in an array is allowed.
	tr = mustParse(t, `["a", "b", "c"]`)
	if err := tr.DeleteEntry(child(t, tr, tr.Root(), "[1]")); err != nil {
		t.Fatalf("DeleteEntry: unexpected error: %v", err)
	}
	if _, err := tr.AddEntry(tr.Root(), tree.StringEntry, ""); err != nil {
		t.Errorf("AddEntry(array): unexpected error: %v", err)
	}
	if got := mustDocument(t, tr).JSON(); got != `["a","c",""]` {
		t.Errorf("Document: got %#q", got)
	}
}

func TestAddThenEdit(t *testing.T) {
	tr := mustParse(t, `{"list": [1, 2]}`)
	list := child(t, tr, tr.Root(), "list")
	id, err := tr.AddEntry(list, tree.DoubleEntry, "")
	if err != nil {
		t.Fatalf("AddEntry: unexpected error: %v", err)
	}
	if _, err := tr.CommitEdit(id, "three"); !errors.Is(err, tree.ErrTypeMismatch) {
		t.Errorf("CommitEdit(three): got %v, want type mismatch", err)
	}
	if _, err := tr.CommitEdit(id, "3"); err != nil {
		t.Errorf("CommitEdit(3): unexpected error: %v", err)
	}
	if got := mustDocument(t, tr).JSON(); got != `{"list":[1,2,3]}` {
		t.Errorf("Document: got %#q", got)
	}
}

func TestDeleteEntry(t *testing.T) {
	tr := mustParse(t, `{"keep": 1, "drop": {"x": [1, 2, {"y": null}]}, "also": true}`)
	root := tr.Root()
	drop := child(t, tr, root, "drop")

	var dropped []tree.ID
	for _, n := range tr.Walk(drop) {
		dropped = append(dropped, n.ID)
	}
	before := tr.Len()

	if err := tr.DeleteEntry(drop); err != nil {
		t.Fatalf("DeleteEntry: unexpected error: %v", err)
	}
	for _, id := range dropped {
		if tr.Valid(id) {
			t.Errorf("Node %v is still valid after deleting its ancestor", id)
		}
	}
	if got, want := tr.Len(), before-len(dropped); got != want {
		t.Errorf("Len: got %d, want %d", got, want)
	}
	if got := mustDocument(t, tr).JSON(); got != `{"keep":1,"also":true}` {
		t.Errorf("Document: got %#q", got)
	}

	// Deleting a dead node is a no-op.
	if err := tr.DeleteEntry(drop); err != nil {
		t.Errorf("DeleteEntry(dead): unexpected error: %v", err)
	}
	if err := tr.DeleteEntry(tree.NoID); err != nil {
		t.Errorf("DeleteEntry(NoID): unexpected error: %v", err)
	}

	// The root cannot be deleted.
	if err := tr.DeleteEntry(root); !errors.Is(err, tree.ErrRoot) {
		t.Errorf("DeleteEntry(root): got %v, want %v", err, tree.ErrRoot)
	}
	if !tr.Valid(root) {
		t.Error("Root is no longer valid")
	}
}

func TestDeleteDetached(t *testing.T) {
	tr := mustParse(t, `{}`)
	n := tr.Len()
	id := tr.NewContainer("loose")
	tr.Append(id, tr.NewLeaf("x", tree.StringType, ""))
	if err := tr.DeleteEntry(id); err != nil {
		t.Fatalf("DeleteEntry: unexpected error: %v", err)
	}
	if got := tr.Len(); got != n {
		t.Errorf("Len: got %d, want %d", got, n)
	}
}

func TestDeleteKeepsArrayLabels(t *testing.T) {
	// Labels are assigned at creation, so deleting an element leaves a gap in
	// the labels but the container remains an array.
	tr := mustParse(t, `["a", "b", "c"]`)
	root := tr.Root()
	if err := tr.DeleteEntry(child(t, tr, root, "[1]")); err != nil {
		t.Fatalf("DeleteEntry: unexpected error: %v", err)
	}
	if diff := cmp.Diff(childKeys(tr, root), []string{"[0]", "[2]"}); diff != "" {
		t.Errorf("Keys (-got, +want):\n%s", diff)
	}
	if got := mustDocument(t, tr).JSON(); got != `["a","c"]` {
		t.Errorf("Document: got %#q", got)
	}
}

func TestEntryKind(t *testing.T) {
	for _, name := range []string{"object", "array", "string", "bool", "double", "null", "container"} {
		var k tree.EntryKind
		if err := k.UnmarshalText([]byte(name)); err != nil {
			t.Errorf("UnmarshalText(%q): unexpected error: %v", name, err)
		} else if got := k.String(); got != name {
			t.Errorf("String: got %q, want %q", got, name)
		}
	}
	var k tree.EntryKind
	if err := k.UnmarshalText([]byte("widget")); err == nil {
		t.Errorf("UnmarshalText(widget): got %v, want error", k)
	}
}
