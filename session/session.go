// Copyright (C) 2026 The conftree Authors. All Rights Reserved.

// Package session manages an editable configuration document backed by a
// file. A Session loads a JSON document into a tree, routes edits addressed
// by path expressions to the tree, and saves the reconstructed document.
//
// A Session is not safe for concurrent use.
package session

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"

	"github.com/confman/conftree/ast"
	"github.com/confman/conftree/cursor"
	apperrors "github.com/confman/conftree/internal/errors"
	"github.com/confman/conftree/jpath"
	"github.com/confman/conftree/tree"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Options control the behaviour of a Session. A nil *Options is ready for
// use and provides default values as described.
type Options struct {
	// The filesystem holding documents (default: the OS filesystem).
	FS afero.Fs

	// The logger for session events (default: a no-op logger).
	Logger *zap.Logger

	// The formatter used to render and save documents.
	Formatter ast.Formatter

	// Options for reconstructing documents from the tree.
	Reconstruct tree.ReconstructOptions

	// If set, keys given to Add and Rename are passed through this function.
	KeyCase func(string) string

	// If true, Save copies the previous contents of its target to a file
	// with the same name plus ".bak" before replacing it.
	Backup bool
}

func (o *Options) fs() afero.Fs {
	if o == nil || o.FS == nil {
		return afero.NewOsFs()
	}
	return o.FS
}

func (o *Options) logger() *zap.Logger {
	if o == nil || o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// A Session holds a document loaded from a file.
type Session struct {
	fs   afero.Fs
	log  *zap.Logger
	opts Options

	path     string
	tree     *tree.Tree
	modified bool
}

// New constructs an empty session with the given options.
func New(opts *Options) *Session {
	s := &Session{fs: opts.fs(), log: opts.logger()}
	if opts != nil {
		s.opts = *opts
	}
	return s
}

// Path returns the path of the loaded document, or "" if none is loaded.
func (s *Session) Path() string { return s.path }

// Tree returns the tree of the loaded document, or nil if none is loaded.
// Changes made directly to the tree are not tracked by Modified.
func (s *Session) Tree() *tree.Tree { return s.tree }

// Modified reports whether the document has been edited since it was
// loaded or last saved.
func (s *Session) Modified() bool { return s.modified }

// Load reads and parses the document at path, replacing the current
// document if successful. If Load fails, the session is unchanged.
func (s *Session) Load(path string) error {
	data, err := afero.ReadFile(s.fs, path)
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.NewInputError(fmt.Sprintf("cannot read %s", path),
			fmt.Errorf("%w: %w", apperrors.ErrFileNotFound, err))
	} else if err != nil {
		return apperrors.NewInputError(fmt.Sprintf("cannot read %s", path), err)
	}
	return s.load(path, bytes.NewReader(data))
}

// Read parses a document from r, replacing the current document if
// successful. The name is used in diagnostics and as the default target of
// Save; it may be empty. If Read fails, the session is unchanged.
func (s *Session) Read(name string, r io.Reader) error { return s.load(name, r) }

func (s *Session) load(name string, r io.Reader) error {
	label := name
	if label == "" {
		label = "input"
	}
	v, err := ast.ParseSingle(r)
	if err == io.ErrUnexpectedEOF {
		return apperrors.NewInputError(fmt.Sprintf("%s is empty", label), apperrors.ErrEmptyInput)
	} else if errors.Is(err, ast.ErrExtraInput) {
		return apperrors.NewParsingError(fmt.Sprintf("%s has data after the document", label),
			fmt.Errorf("%w: %w", apperrors.ErrExtraInput, err))
	} else if err != nil {
		return apperrors.NewParsingError(fmt.Sprintf("cannot parse %s", label),
			fmt.Errorf("%w: %w", apperrors.ErrInvalidJSON, err))
	}
	switch v.(type) {
	case ast.Object, ast.Array:
	default:
		return apperrors.NewInputError(fmt.Sprintf("%s: root is not an object or array", label), apperrors.ErrNotContainer)
	}
	tr, err := tree.Build(v)
	if err != nil {
		return apperrors.NewInputError(fmt.Sprintf("cannot load %s", label), err)
	}
	s.path, s.tree, s.modified = name, tr, false
	s.log.Info("document loaded", zap.String("path", name), zap.Int("nodes", tr.Len()))
	return nil
}

// Document reconstructs the complete document.
func (s *Session) Document() (ast.Value, error) { return s.Get("$") }

// Render writes the formatted document to w.
func (s *Session) Render(w io.Writer) error {
	v, err := s.Document()
	if err != nil {
		return err
	}
	if err := s.opts.Formatter.Format(w, v); err != nil {
		return apperrors.NewOutputError("cannot write document", err)
	}
	return nil
}

// Save writes the document back to the path it was loaded from.
func (s *Session) Save() error {
	if s.path == "" {
		return apperrors.NewOutputError("document has no file name", apperrors.ErrNoDocument)
	}
	return s.SaveAs(s.path)
}

// SaveAs writes the formatted document to path. The output is written to a
// temporary file in the same directory and renamed over path, so that if
// SaveAs fails the previous contents of path are intact.
func (s *Session) SaveAs(path string) error {
	var buf bytes.Buffer
	if err := s.Render(&buf); err != nil {
		return err
	}

	mode := fs.FileMode(0o644)
	if fi, err := s.fs.Stat(path); err == nil {
		mode = fi.Mode().Perm()
		if s.opts.Backup {
			if err := s.backup(path, mode); err != nil {
				return apperrors.NewOutputError(fmt.Sprintf("cannot back up %s", path), err)
			}
		}
	}

	if err := s.writeAtomic(path, buf.Bytes(), mode); err != nil {
		return apperrors.NewOutputError(fmt.Sprintf("cannot write %s", path), err)
	}
	s.path, s.modified = path, false
	s.log.Info("document saved", zap.String("path", path), zap.Int("bytes", buf.Len()))
	return nil
}

func (s *Session) backup(path string, mode fs.FileMode) error {
	old, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return err
	}
	return afero.WriteFile(s.fs, path+".bak", old, mode)
}

func (s *Session) writeAtomic(path string, data []byte, mode fs.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	f, err := afero.TempFile(s.fs, dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Chmod(tmp, mode); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	if err := s.fs.Rename(tmp, path); err != nil {
		s.fs.Remove(tmp)
		return err
	}
	return nil
}

// find resolves a path expression to a node of the document.
func (s *Session) find(path string) (tree.ID, error) {
	if s.tree == nil {
		return tree.NoID, apperrors.NewInputError("no document", apperrors.ErrNoDocument)
	}
	id, err := cursor.Find(s.tree, path)
	if err != nil {
		return tree.NoID, apperrors.NewPathError(err.Error(), fmt.Errorf("%w: %w", apperrors.ErrNoSuchPath, err))
	}
	return id, nil
}

// Get reconstructs the value at path.
func (s *Session) Get(path string) (ast.Value, error) {
	id, err := s.find(path)
	if err != nil {
		return nil, err
	}
	v, err := s.tree.ReconstructWith(id, s.opts.Reconstruct)
	if err != nil {
		return nil, apperrors.NewOutputError(fmt.Sprintf("cannot reconstruct %s", path), err)
	}
	return v, nil
}

// Lookup returns the node at path.
func (s *Session) Lookup(path string) (tree.Node, error) {
	id, err := s.find(path)
	if err != nil {
		return tree.Node{}, err
	}
	n, _ := s.tree.Lookup(id)
	return n, nil
}

// Set proposes text as the new value of the leaf at path. If the text is
// valid for the type of the leaf, it is normalized and stored, and Set
// returns the stored text. Otherwise the leaf keeps its previous value and
// Set reports an error wrapping a *tree.TypeMismatchError.
func (s *Session) Set(path, text string) (string, error) {
	id, err := s.find(path)
	if err != nil {
		return "", err
	}
	if !s.tree.Type(id).IsLeaf() {
		return "", apperrors.NewEditError(fmt.Sprintf("%s is not a value", path), tree.ErrNotLeaf)
	}
	got, err := s.tree.CommitEdit(id, text)
	if err != nil {
		s.log.Info("edit rejected", zap.String("path", path), zap.String("text", text),
			zap.Stringer("type", s.tree.Type(id)))
		return "", apperrors.NewEditError(fmt.Sprintf("cannot set %s", path), err)
	}
	s.modified = true
	s.log.Debug("edit accepted", zap.String("path", path), zap.String("text", got))
	return got, nil
}

// Add adds a new entry of the given kind to the container at path, and
// returns the path of the new entry. The key is used only for entries that
// become object members; see tree.AddEntry. Add reports an error wrapping
// tree.ErrKeyCollision if a member with that key already exists.
func (s *Session) Add(path string, kind tree.EntryKind, key string) (jpath.Expr, error) {
	id, err := s.find(path)
	if err != nil {
		return nil, err
	}
	kid, err := s.tree.AddEntry(id, kind, s.normalize(key))
	if err != nil {
		return nil, apperrors.NewEditError(fmt.Sprintf("cannot add %s entry to %s", kind, path), err)
	}
	s.modified = true
	out, err := cursor.PathTo(s.tree, kid)
	if err != nil {
		return nil, apperrors.NewPathError("cannot locate new entry", err)
	}
	s.log.Info("entry added", zap.String("path", out.String()), zap.Stringer("kind", kind))
	return out, nil
}

// Delete removes the entry at path and all its descendants.
func (s *Session) Delete(path string) error {
	id, err := s.find(path)
	if err != nil {
		return err
	}
	n := nodeCount(s.tree, id)
	if err := s.tree.DeleteEntry(id); err != nil {
		return apperrors.NewEditError(fmt.Sprintf("cannot delete %s", path), err)
	}
	s.modified = true
	s.log.Info("entry deleted", zap.String("path", path), zap.Int("nodes", n))
	return nil
}

// Rename changes the key of the entry at path, and returns the new path of
// the entry. Rename reports an error wrapping tree.ErrKeyCollision if a
// sibling of the entry already has the key.
func (s *Session) Rename(path, key string) (jpath.Expr, error) {
	id, err := s.find(path)
	if err != nil {
		return nil, err
	}
	if id == s.tree.Root() {
		return nil, apperrors.NewEditError("cannot rename the root", tree.ErrRoot)
	}
	key = s.normalize(key)
	if key == "" {
		return nil, apperrors.NewEditError("cannot rename to an empty key", apperrors.ErrEmptyKey)
	}
	old := s.tree.Key(id)
	if err := s.tree.Rename(id, key); err != nil {
		return nil, apperrors.NewEditError(fmt.Sprintf("cannot rename %s", path), err)
	}
	s.modified = true
	out, err := cursor.PathTo(s.tree, id)
	if err != nil {
		return nil, apperrors.NewPathError("cannot locate renamed entry", err)
	}
	s.log.Info("entry renamed", zap.String("from", old), zap.String("to", key),
		zap.String("path", out.String()))
	return out, nil
}

func (s *Session) normalize(key string) string {
	if s.opts.KeyCase == nil {
		return key
	}
	return s.opts.KeyCase(key)
}

func nodeCount(t *tree.Tree, id tree.ID) int {
	var n int
	for range t.Walk(id) {
		n++
	}
	return n
}
