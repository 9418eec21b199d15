// Copyright (C) 2026 The conftree Authors. All Rights Reserved.

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
)

const confJSON = `{"enabled": true, "label": "hi", "count": 2, "tags": ["a", "b"]}`

type harness struct {
	t              *testing.T
	fs             afero.Fs
	dir            string
	stdout, stderr bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{t: t, fs: afero.NewMemMapFs()}
	h.write("/conf.json", confJSON)
	return h
}

func (h *harness) write(path, content string) {
	h.t.Helper()
	if err := afero.WriteFile(h.fs, path, []byte(content), 0o644); err != nil {
		h.t.Fatalf("WriteFile: %v", err)
	}
}

func (h *harness) run(args ...string) int {
	h.t.Helper()
	h.stdout.Reset()
	h.stderr.Reset()
	return run(args, &env{fs: h.fs, stdout: &h.stdout, stderr: &h.stderr, dir: h.dir})
}

func (h *harness) file() string {
	h.t.Helper()
	data, err := afero.ReadFile(h.fs, "/conf.json")
	if err != nil {
		h.t.Fatalf("ReadFile: %v", err)
	}
	return string(data)
}

func TestShow(t *testing.T) {
	h := newHarness(t)
	if code := h.run("show", "/conf.json"); code != 0 {
		t.Fatalf("show: exit %d: %s", code, h.stderr.String())
	}
	out := h.stdout.String()
	for _, want := range []string{
		"/conf.json <container> {}",
		`enabled <bool> true`,
		`label <string> "hi"`,
		`count <double> 2`,
		`tags <container> []`,
		`[1] <string> "b"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("show: missing %q in output:\n%s", want, out)
		}
	}

	if code := h.run("show", "/conf.json", "$.tags"); code != 0 {
		t.Fatalf("show $.tags: exit %d: %s", code, h.stderr.String())
	}
	if out := h.stdout.String(); strings.Contains(out, "enabled") || !strings.HasPrefix(out, "tags ") {
		t.Errorf("show $.tags: got\n%s", out)
	}
}

func TestGet(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		path, want string
	}{
		{"$.count", "2\n"},
		{"$.label", "\"hi\"\n"},
		{"$.tags", "[\"a\", \"b\"]\n"},
		{"$.tags[-1]", "\"b\"\n"},
	}
	for _, tc := range tests {
		if code := h.run("get", "/conf.json", tc.path); code != 0 {
			t.Errorf("get %s: exit %d: %s", tc.path, code, h.stderr.String())
			continue
		}
		if got := h.stdout.String(); got != tc.want {
			t.Errorf("get %s: got %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestSet(t *testing.T) {
	h := newHarness(t)
	if code := h.run("set", "/conf.json", "$.count", "5"); code != 0 {
		t.Fatalf("set: exit %d: %s", code, h.stderr.String())
	}
	const want = `{
  "enabled": true,
  "label": "hi",
  "count": 5,
  "tags": ["a", "b"]
}
`
	if diff := cmp.Diff(h.file(), want); diff != "" {
		t.Errorf("File after set (-got, +want):\n%s", diff)
	}

	// A rejected edit reports the mismatch and leaves the file alone.
	if code := h.run("set", "/conf.json", "$.enabled", "maybe"); code != 1 {
		t.Errorf("set maybe: got exit %d, want 1", code)
	}
	if got, want := h.stderr.String(), "Edit rejected: \"maybe\" is not a valid bool value\n"; got != want {
		t.Errorf("set maybe: got %q, want %q", got, want)
	}
	if diff := cmp.Diff(h.file(), want); diff != "" {
		t.Errorf("File after rejected set (-got, +want):\n%s", diff)
	}
}

func TestDryRun(t *testing.T) {
	h := newHarness(t)
	if code := h.run("add", "--dry-run", "/conf.json", "$.tags", "string"); code != 0 {
		t.Fatalf("add: exit %d: %s", code, h.stderr.String())
	}
	if got := h.stdout.String(); !strings.Contains(got, `"tags": ["a", "b", ""]`) {
		t.Errorf("add --dry-run: got\n%s", got)
	}
	if got := h.stderr.String(); got != "added $.tags[2]\n" {
		t.Errorf("add --dry-run: stderr %q", got)
	}
	if got := h.file(); got != confJSON {
		t.Errorf("File changed by dry run: %q", got)
	}
}

func TestStructural(t *testing.T) {
	h := newHarness(t)
	steps := [][]string{
		{"add", "/conf.json", "$", "container", "limits"},
		{"add", "/conf.json", "$.limits", "double", "max"},
		{"set", "/conf.json", "$.limits.max", "10.5"},
		{"rm", "/conf.json", "$.tags[0]"},
		{"mv", "/conf.json", "$.label", "title"},
	}
	for _, args := range steps {
		if code := h.run(args...); code != 0 {
			t.Fatalf("%v: exit %d: %s", args, code, h.stderr.String())
		}
	}
	const want = `{
  "enabled": true,
  "title": "hi",
  "count": 2,
  "tags": ["b"],
  "limits": {"max": 10.5}
}
`
	if diff := cmp.Diff(h.file(), want); diff != "" {
		t.Errorf("File after edits (-got, +want):\n%s", diff)
	}
}

func TestFmt(t *testing.T) {
	h := newHarness(t)
	if code := h.run("fmt", "/conf.json"); code != 0 {
		t.Fatalf("fmt: exit %d: %s", code, h.stderr.String())
	}
	formatted := h.stdout.String()
	if got := h.file(); got != confJSON {
		t.Errorf("fmt changed the file: %q", got)
	}
	if code := h.run("fmt", "-w", "/conf.json"); code != 0 {
		t.Fatalf("fmt -w: exit %d: %s", code, h.stderr.String())
	}
	if diff := cmp.Diff(h.file(), formatted); diff != "" {
		t.Errorf("fmt -w (-got, +want):\n%s", diff)
	}
}

func TestErrors(t *testing.T) {
	h := newHarness(t)
	tests := []struct {
		args []string
		code int
		want string
	}{
		{[]string{"show", "/nonesuch.json"}, 1, "Input error: cannot read /nonesuch.json"},
		{[]string{"get", "/conf.json", "$.nonesuch"}, 1, "Path error:"},
		{[]string{"rm", "/conf.json", "$"}, 1, "Edit error:"},
		{[]string{"mv", "/conf.json", "$.label", "count"}, 1, `Edit rejected: key "count" is already in use`},
		{[]string{"add", "/conf.json", "$", "widget"}, 2, "widget"},
		{[]string{"frob"}, 2, "frob"},
	}
	for _, tc := range tests {
		code := h.run(tc.args...)
		if code != tc.code {
			t.Errorf("%v: got exit %d, want %d", tc.args, code, tc.code)
		}
		if got := h.stderr.String(); !strings.Contains(got, tc.want) {
			t.Errorf("%v: stderr %q does not contain %q", tc.args, got, tc.want)
		}
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	if code := h.run("--version"); code != 0 {
		t.Errorf("--version: got exit %d, want 0", code)
	}
	if got := h.stdout.String(); !strings.Contains(got, Version) {
		t.Errorf("--version: got %q", got)
	}
}

func TestConfigFile(t *testing.T) {
	h := newHarness(t)
	h.write("/etc/conftree.yml", "editing:\n  key_case: snake\noutput:\n  indent: \"\\t\"\n")
	if code := h.run("--config", "/etc/conftree.yml", "mv", "/conf.json", "$.label", "displayName"); code != 0 {
		t.Fatalf("mv: exit %d: %s", code, h.stderr.String())
	}
	if got := h.file(); !strings.Contains(got, "\n\t\"display_name\": \"hi\",\n") {
		t.Errorf("File after mv: got %q", got)
	}

	h.write("/etc/bad.yml", "log:\n  format: xml\n")
	if code := h.run("--config", "/etc/bad.yml", "show", "/conf.json"); code != 1 {
		t.Errorf("bad config: got exit %d, want 1", code)
	}
	if got := h.stderr.String(); !strings.HasPrefix(got, "Configuration error:") {
		t.Errorf("bad config: stderr %q", got)
	}
}

func TestConfigDiscovery(t *testing.T) {
	h := newHarness(t)
	h.dir = "/project/sub"
	h.write("/project/.conftree.yml", "output:\n  max_line_items: 1\n")
	if code := h.run("get", "/conf.json", "$.tags"); code != 0 {
		t.Fatalf("get: exit %d: %s", code, h.stderr.String())
	}
	if got, want := h.stdout.String(), "[\n  \"a\",\n  \"b\"\n]\n"; got != want {
		t.Errorf("get $.tags: got %q, want %q", got, want)
	}
}
