// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package cursor_test

import (
	"errors"
	"testing"

	"github.com/confman/conftree/cursor"
	"github.com/confman/conftree/internal/testutil"
	"github.com/confman/conftree/tree"
	"github.com/google/go-cmp/cmp"
)

const testJSON = `{
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": [
    "hi",
    "yourself"
  ],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

func TestCursor(t *testing.T) {
	tr := testutil.MustParse(t, testJSON)
	root := tr.Root()

	tests := []struct {
		name string
		path []any
		want tree.ID
		fail bool
	}{
		{"NilInput", nil, root, false},
		{"NoMatch", []any{"nonesuch"}, root, true},
		{"WrongIndex", []any{11}, root, true},

		{"ArrayPos", []any{"list", 1}, testutil.Find(t, tr, "list", "[1]"), false},
		{"ArrayNeg", []any{"list", -1}, testutil.Find(t, tr, "list", "[1]"), false},
		{"ArrayLabel", []any{"list", "[0]", "x"}, testutil.Find(t, tr, "list", "[0]", "x"), false},
		{"ArrayRange", []any{"o", 25}, testutil.Find(t, tr, "o"), true},
		{"ObjPath", []any{"xyz", "d"}, testutil.Find(t, tr, "xyz", "d"), false},
		{"ObjIndex", []any{"xyz", 2}, testutil.Find(t, tr, "xyz", "q"), false},
		{"LeafKey", []any{"y", "hello", "more"}, testutil.Find(t, tr, "y", "hello"), true},
		{"LeafIndex", []any{"y", "hello", 0}, testutil.Find(t, tr, "y", "hello"), true},
		{"BadElement", []any{"y", 1.5}, testutil.Find(t, tr, "y"), true},

		{"FuncLast", []any{"o", lastChild}, testutil.Find(t, tr, "o", "[1]"), false},
		{"FuncObj", []any{"xyz", lastChild}, testutil.Find(t, tr, "xyz", "q"), false},
		{"FuncWrong", []any{"xyz", "d", lastChild}, testutil.Find(t, tr, "xyz", "d"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := cursor.New(tr, root).Down(tc.path...)
			err := c.Err()
			if err != nil {
				if tc.fail {
					t.Logf("Got expected error: %v", err)
				} else {
					t.Fatalf("Down %+v: unexpected error: %v", tc.path, err)
				}
			} else if tc.fail {
				t.Errorf("Down %+v: got %v, want error", tc.path, c.ID())
			}
			if got := c.ID(); got != tc.want {
				t.Errorf("Down %+v: got node %v (%q), want %v (%q)",
					tc.path, got, tr.Key(got), tc.want, tr.Key(tc.want))
			}
		})
	}
}

func lastChild(t *tree.Tree, id tree.ID) (tree.ID, error) {
	kids := t.Children(id)
	if len(kids) == 0 {
		return tree.NoID, errors.New("no children")
	}
	return kids[len(kids)-1], nil
}

func TestUpReset(t *testing.T) {
	tr := testutil.MustParse(t, testJSON)
	c := cursor.New(tr, tr.Root()).Down("list", 0, "x")
	if err := c.Err(); err != nil {
		t.Fatalf("Down: unexpected error: %v", err)
	}
	if got := len(c.Path()); got != 4 {
		t.Errorf("Path: got %d nodes, want 4", got)
	}
	if n, ok := c.Node(); !ok || n.Text != "1" {
		t.Errorf("Node: got %+v, %v; want text 1", n, ok)
	}

	c.Up().Up()
	if got, want := c.ID(), testutil.Find(t, tr, "list"); got != want {
		t.Errorf("Up: got %v, want %v", got, want)
	}

	c.Down("nonesuch")
	if c.Err() == nil {
		t.Error("Down(nonesuch): got nil, want error")
	}
	c.Reset()
	if !c.AtOrigin() || c.Err() != nil {
		t.Errorf("Reset: at origin %v, error %v", c.AtOrigin(), c.Err())
	}
	c.Up()
	if c.ID() != c.Origin() {
		t.Errorf("Up at origin: got %v, want %v", c.ID(), c.Origin())
	}
}

func TestFind(t *testing.T) {
	tr := testutil.MustParse(t, testJSON)
	tests := []struct {
		path string
		want []string // keys from the root, nil if the path fails
	}{
		{"$", []string{}},
		{"$.list[1].x", []string{"list", "[1]", "x"}},
		{"$.list[-2]", []string{"list", "[0]"}},
		{"$['xyz'].q", []string{"xyz", "q"}},
		{"$.o['[1]']", []string{"o", "[1]"}},
		{"$.y.nonesuch", nil},
		{"$.list[9]", nil},
		{"list.x", nil},
	}
	for _, test := range tests {
		id, err := cursor.Find(tr, test.path)
		if test.want == nil {
			if err == nil {
				t.Errorf("Find %q: got %v, want error", test.path, id)
			}
			continue
		} else if err != nil {
			t.Errorf("Find %q: unexpected error: %v", test.path, err)
			continue
		}
		if want := testutil.Find(t, tr, test.want...); id != want {
			t.Errorf("Find %q: got %v, want %v", test.path, id, want)
		}
	}
}

func TestDuplicateKeys(t *testing.T) {
	tr := testutil.MustParse(t, `{"k": 1, "j": 0, "k": 2}`)
	kids := tr.Children(tr.Root())

	// A key resolves to the child that supplies its value in the document.
	id, err := cursor.Find(tr, "$.k")
	if err != nil {
		t.Fatalf("Find: unexpected error: %v", err)
	}
	if id != kids[2] {
		t.Errorf("Find $.k: got %v, want %v", id, kids[2])
	}
	if got := tr.Text(id); got != "2" {
		t.Errorf("Find $.k: got text %q, want 2", got)
	}

	// The shadowed child is still reachable by position.
	if id, err := cursor.Find(tr, "$[0]"); err != nil || id != kids[0] {
		t.Errorf("Find $[0]: got %v, %v; want %v", id, err, kids[0])
	}
}

func TestPathTo(t *testing.T) {
	tr := testutil.MustParse(t, `{"a": {"b c": [1, {"d": null}]}, "k": 1, "k": 2}`)
	tests := []struct {
		keys []string
		want string
	}{
		{nil, "$"},
		{[]string{"a"}, "$.a"},
		{[]string{"a", "b c"}, "$.a['b c']"},
		{[]string{"a", "b c", "[1]", "d"}, "$.a['b c'][1].d"},
	}
	for _, test := range tests {
		id := testutil.Find(t, tr, test.keys...)
		e, err := cursor.PathTo(tr, id)
		if err != nil {
			t.Errorf("PathTo %v: unexpected error: %v", test.keys, err)
			continue
		}
		if got := e.String(); got != test.want {
			t.Errorf("PathTo %v: got %q, want %q", test.keys, got, test.want)
		}
		back, err := cursor.Find(tr, e.String())
		if err != nil || back != id {
			t.Errorf("Find %q: got %v, %v; want %v", e, back, err, id)
		}
	}

	// Duplicate keys are addressed by position.
	kids := tr.Children(tr.Root())
	var got []string
	for _, kid := range kids[1:] {
		e, err := cursor.PathTo(tr, kid)
		if err != nil {
			t.Fatalf("PathTo %v: unexpected error: %v", kid, err)
		}
		got = append(got, e.String())
	}
	if diff := cmp.Diff(got, []string{"$[1]", "$[2]"}); diff != "" {
		t.Errorf("PathTo duplicates (-got, +want):\n%s", diff)
	}

	if _, err := cursor.PathTo(tr, 999); !errors.Is(err, tree.ErrInvalidID) {
		t.Errorf("PathTo(invalid): got %v, want %v", err, tree.ErrInvalidID)
	}
	if _, err := cursor.PathTo(tr, tr.NewContainer("loose")); err == nil {
		t.Error("PathTo(detached): got nil, want error")
	}
}
