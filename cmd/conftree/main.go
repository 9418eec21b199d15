// Copyright (C) 2026 The conftree Authors. All Rights Reserved.

// Program conftree displays and edits JSON configuration files.
//
// Usage:
//
//	conftree show conf.json
//	conftree set conf.json '$.server.port' 8080
//	conftree add conf.json '$.server' double timeout
//
// Values are edited as text and checked against the type of the entry they
// replace, so that a number stays a number and a flag stays a flag.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/confman/conftree/internal/config"
	"github.com/confman/conftree/internal/errors"
	"github.com/confman/conftree/internal/logging"
	"github.com/confman/conftree/session"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Version information
const Version = "0.3.0"

// Globals are the flags shared by all commands.
type Globals struct {
	Config   string           `help:"Path to a configuration file (default: search from the current directory)." short:"c" type:"path"`
	LogLevel string           `help:"Log level: debug, info, warn, or error." name:"log-level"`
	NoColor  bool             `help:"Disable coloured output." name:"no-color"`
	Version  kong.VersionFlag `help:"Show version information."`
}

type cli struct {
	Globals

	Show showCmd `cmd:"" help:"Display the entries of a document as a tree."`
	Get  getCmd  `cmd:"" help:"Print the value at a path."`
	Set  setCmd  `cmd:"" help:"Change the value of an entry."`
	Add  addCmd  `cmd:"" help:"Add an entry to an object or array."`
	Rm   rmCmd   `cmd:"" help:"Remove an entry and everything below it."`
	Mv   mvCmd   `cmd:"" help:"Change the key of an entry."`
	Fmt  fmtCmd  `cmd:"" help:"Reformat a document."`
}

// env is the runtime environment passed to each command.
type env struct {
	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
	dir    string // where to search for a configuration file

	cfg     *config.Config
	log     *zap.Logger
	noColor bool
}

func main() {
	os.Exit(run(os.Args[1:], &env{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		dir:    ".",
	}))
}

// run executes the command described by args and returns an exit status.
func run(args []string, e *env) int {
	var c cli
	exited := false
	parser, err := kong.New(&c,
		kong.Name("conftree"),
		kong.Description("Display and edit JSON configuration files."),
		kong.Writers(e.stdout, e.stderr),
		kong.Exit(func(int) { exited = true }),
		kong.UsageOnError(),
		kong.Vars{"version": "conftree version " + Version},
	)
	if err != nil {
		fmt.Fprintf(e.stderr, "%v\n", err)
		return 2
	}
	ctx, err := parser.Parse(args)
	if exited {
		return 0 // help or version was printed
	} else if err != nil {
		parser.Errorf("%v", err)
		return 2
	}

	if err := e.setup(&c.Globals); err != nil {
		fmt.Fprintf(e.stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	defer e.log.Sync()

	if err := ctx.Run(e); err != nil {
		e.log.Debug("command failed", zap.String("command", ctx.Command()), zap.Error(err))
		fmt.Fprintf(e.stderr, "%s\n", errors.UserFriendlyError(err))
		return 1
	}
	return 0
}

// setup loads the configuration and constructs the logger.
func (e *env) setup(g *Globals) error {
	path := g.Config
	if path == "" && e.dir != "" {
		path = config.FindConfigFile(e.fs, e.dir)
	}
	e.cfg = config.NewConfig()
	if path != "" {
		cfg, err := config.Load(e.fs, path)
		if err != nil {
			return errors.NewConfigError(err.Error(), fmt.Errorf("%w: %w", errors.ErrInvalidConfig, err))
		}
		e.cfg = cfg
	}
	if g.LogLevel != "" {
		e.cfg.Log.Level = g.LogLevel
	}
	log, err := logging.New(logging.Options{
		Level:  e.cfg.Log.Level,
		Format: e.cfg.Log.Format,
		File:   e.cfg.Log.File,
		Output: e.stderr,
	})
	if err != nil {
		return errors.NewConfigError(err.Error(), err)
	}
	e.log = log
	e.noColor = g.NoColor || !e.cfg.Output.Color
	if path != "" {
		e.log.Debug("configuration loaded", zap.String("path", path))
	}
	return nil
}

// open loads the document at path into a new session.
func (e *env) open(path string) (*session.Session, error) {
	s := session.New(&session.Options{
		FS:          e.fs,
		Logger:      e.log,
		Formatter:   e.cfg.Formatter(),
		Reconstruct: e.cfg.ReconstructOptions(),
		KeyCase:     e.cfg.NormalizeKey,
		Backup:      e.cfg.Editing.Backup,
	})
	if err := s.Load(path); err != nil {
		return nil, err
	}
	return s, nil
}

// finish saves the document of s, or if dryRun is true, writes the document
// to stdout instead.
func (e *env) finish(s *session.Session, dryRun bool) error {
	if dryRun {
		return s.Render(e.stdout)
	}
	return s.Save()
}
