// Copyright (C) 2026 The conftree Authors. All Rights Reserved.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/confman/conftree"
	"github.com/confman/conftree/tree"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/xlab/treeprint"
)

type showCmd struct {
	File string `arg:"" help:"Document to display." type:"path"`
	Path string `arg:"" optional:"" default:"$" help:"Path of the entry to display."`
}

func (c *showCmd) Run(e *env) error {
	s, err := e.open(c.File)
	if err != nil {
		return err
	}
	n, err := s.Lookup(c.Path)
	if err != nil {
		return err
	}
	label := n.Key
	if n.ID == s.Tree().Root() {
		label = c.File
	}
	pal := newPalette(e.stdout, e.noColor)
	out := treeprint.NewWithRoot(pal.label(s.Tree(), n, label))
	addChildren(out, s.Tree(), n, pal)
	_, err = io.WriteString(e.stdout, out.String())
	return err
}

// addChildren adds the children of n to br, recursively.
func addChildren(br treeprint.Tree, t *tree.Tree, n tree.Node, pal palette) {
	for _, id := range n.Children {
		kid, _ := t.Lookup(id)
		text := pal.label(t, kid, kid.Key)
		if kid.IsLeaf() {
			br.AddNode(text)
		} else {
			addChildren(br.AddBranch(text), t, kid, pal)
		}
	}
}

// A palette renders the labels of the show command.
type palette struct {
	tag   map[tree.Type]*color.Color
	value *color.Color
}

func newPalette(w io.Writer, noColor bool) palette {
	p := palette{
		tag: map[tree.Type]*color.Color{
			tree.NullType:      color.New(color.FgMagenta),
			tree.BoolType:      color.New(color.FgCyan),
			tree.DoubleType:    color.New(color.FgBlue),
			tree.StringType:    color.New(color.FgGreen),
			tree.ContainerType: color.New(color.FgYellow),
		},
		value: color.New(color.Bold),
	}
	if noColor || !isTerminal(w) {
		for _, c := range p.tag {
			c.DisableColor()
		}
		p.value.DisableColor()
	} else {
		for _, c := range p.tag {
			c.EnableColor()
		}
		p.value.EnableColor()
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// label returns the display label of n: its key, its type tag, and for
// leaves its value.
func (p palette) label(t *tree.Tree, n tree.Node, key string) string {
	if !n.IsLeaf() {
		shape := "{}"
		if t.ReconstructsAsArray(n.ID) {
			shape = "[]"
		}
		return fmt.Sprintf("%s %s %s", key, p.tag[n.Type].Sprintf("<%s>", n.Type), shape)
	}
	text := n.Text
	if n.Type == tree.StringType {
		text = conftree.Quote(text)
	}
	return fmt.Sprintf("%s %s %s", key, p.tag[n.Type].Sprintf("<%s>", n.Type), p.value.Sprint(text))
}

type getCmd struct {
	File string `arg:"" help:"Document to read." type:"path"`
	Path string `arg:"" help:"Path of the entry to print."`
}

func (c *getCmd) Run(e *env) error {
	s, err := e.open(c.File)
	if err != nil {
		return err
	}
	v, err := s.Get(c.Path)
	if err != nil {
		return err
	}
	return e.cfg.Formatter().Format(e.stdout, v)
}

type setCmd struct {
	File   string `arg:"" help:"Document to edit." type:"path"`
	Path   string `arg:"" help:"Path of the entry to change."`
	Value  string `arg:"" help:"New value, as text."`
	DryRun bool   `help:"Print the edited document instead of saving it." short:"n"`
}

func (c *setCmd) Run(e *env) error {
	s, err := e.open(c.File)
	if err != nil {
		return err
	}
	if _, err := s.Set(c.Path, c.Value); err != nil {
		return err
	}
	return e.finish(s, c.DryRun)
}

type addCmd struct {
	File   string         `arg:"" help:"Document to edit." type:"path"`
	Path   string         `arg:"" help:"Path of the object or array to add to."`
	Kind   tree.EntryKind `arg:"" help:"Kind of entry: object, array, string, bool, double, null, or container."`
	Key    string         `arg:"" optional:"" help:"Key of the new entry, if it is an object member."`
	DryRun bool           `help:"Print the edited document instead of saving it." short:"n"`
}

func (c *addCmd) Run(e *env) error {
	s, err := e.open(c.File)
	if err != nil {
		return err
	}
	p, err := s.Add(c.Path, c.Kind, c.Key)
	if err != nil {
		return err
	}
	if err := e.finish(s, c.DryRun); err != nil {
		return err
	}
	fmt.Fprintln(e.stderr, "added", p)
	return nil
}

type rmCmd struct {
	File   string `arg:"" help:"Document to edit." type:"path"`
	Path   string `arg:"" help:"Path of the entry to remove."`
	DryRun bool   `help:"Print the edited document instead of saving it." short:"n"`
}

func (c *rmCmd) Run(e *env) error {
	s, err := e.open(c.File)
	if err != nil {
		return err
	}
	if err := s.Delete(c.Path); err != nil {
		return err
	}
	return e.finish(s, c.DryRun)
}

type mvCmd struct {
	File   string `arg:"" help:"Document to edit." type:"path"`
	Path   string `arg:"" help:"Path of the entry to rename."`
	Key    string `arg:"" help:"New key of the entry."`
	DryRun bool   `help:"Print the edited document instead of saving it." short:"n"`
}

func (c *mvCmd) Run(e *env) error {
	s, err := e.open(c.File)
	if err != nil {
		return err
	}
	p, err := s.Rename(c.Path, c.Key)
	if err != nil {
		return err
	}
	if err := e.finish(s, c.DryRun); err != nil {
		return err
	}
	fmt.Fprintln(e.stderr, "renamed to", p)
	return nil
}

type fmtCmd struct {
	File  string `arg:"" help:"Document to format." type:"path"`
	Write bool   `help:"Rewrite the file in place instead of printing it." short:"w"`
}

func (c *fmtCmd) Run(e *env) error {
	s, err := e.open(c.File)
	if err != nil {
		return err
	}
	return e.finish(s, !c.Write)
}
