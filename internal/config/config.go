// Copyright (C) 2026 The conftree Authors. All Rights Reserved.

// Package config loads the settings of the conftree command-line tool.
package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/confman/conftree/ast"
	"github.com/confman/conftree/tree"
	"github.com/iancoleman/strcase"
	"github.com/spf13/afero"
	"github.com/tailscale/hujson"
	"gopkg.in/yaml.v3"
)

// Config represents the complete configuration for conftree
type Config struct {
	Output      OutputConfig      `yaml:"output" json:"output"`
	Editing     EditingConfig     `yaml:"editing" json:"editing"`
	Reconstruct ReconstructConfig `yaml:"reconstruct" json:"reconstruct"`
	Log         LogConfig         `yaml:"log" json:"log"`
}

// OutputConfig controls how documents are written
type OutputConfig struct {
	Indent       string `yaml:"indent" json:"indent"`
	MaxLineItems int    `yaml:"max_line_items" json:"max_line_items"`
	Align        bool   `yaml:"align" json:"align"`
	Color        bool   `yaml:"color" json:"color"`
}

// EditingConfig controls structural edits
type EditingConfig struct {
	// KeyCase is one of "", "snake", "camel", "lower_camel", "kebab".
	KeyCase string `yaml:"key_case" json:"key_case"`
	Backup  bool   `yaml:"backup" json:"backup"`
}

// ReconstructConfig controls how a tree is turned back into a document
type ReconstructConfig struct {
	InferStrings     bool `yaml:"infer_strings" json:"infer_strings"`
	RejectCollisions bool `yaml:"reject_collisions" json:"reject_collisions"`
}

// LogConfig controls diagnostic logging
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
	File   string `yaml:"file" json:"file"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Indent:       "  ",
			MaxLineItems: 3,
			Align:        false,
			Color:        true,
		},
		Editing: EditingConfig{
			KeyCase: "",
			Backup:  false,
		},
		Reconstruct: ReconstructConfig{
			InferStrings:     false,
			RejectCollisions: false,
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// configNames lists the file names searched by FindConfigFile, in order.
var configNames = []string{
	".conftree.yml", ".conftree.yaml", "conftree.yml", "conftree.yaml", ".conftree.hujson",
}

// Load loads configuration from a YAML or HuJSON file in fsys. Files named
// with a .hujson or .jsonc extension are read as JSON with comments and
// trailing commas; anything else is read as YAML.
func Load(fsys afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hujson", ".jsonc":
		std, err := hujson.Standardize(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
		if err := json.Unmarshal(std, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches fsys for a config file in dir and its parents. It
// returns "" if none is found.
func FindConfigFile(fsys afero.Fs, dir string) string {
	cur, err := filepath.Abs(dir)
	if err != nil {
		return ""
	}
	for {
		for _, name := range configNames {
			path := filepath.Join(cur, name)
			if fi, err := fsys.Stat(path); err == nil && !fi.IsDir() {
				return path
			}
		}

		// Move up one directory
		parent := filepath.Dir(cur)
		if parent == cur {
			return "" // reached the root
		}
		cur = parent
	}
}

// Validate reports an error if any setting of c is out of range.
func (c *Config) Validate() error {
	if _, ok := keyCases[c.Editing.KeyCase]; !ok {
		return fmt.Errorf("invalid key_case %q", c.Editing.KeyCase)
	}
	if strings.Trim(c.Output.Indent, " \t") != "" {
		return fmt.Errorf("invalid indent %q: only spaces and tabs are allowed", c.Output.Indent)
	}
	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

var keyCases = map[string]func(string) string{
	"":            nil,
	"snake":       strcase.ToSnake,
	"camel":       strcase.ToCamel,
	"lower_camel": strcase.ToLowerCamel,
	"kebab":       strcase.ToKebab,
}

// NormalizeKey converts key to the configured key case. Empty keys and
// array labels are returned unchanged.
func (c *Config) NormalizeKey(key string) string {
	fn := keyCases[c.Editing.KeyCase]
	if fn == nil || key == "" || tree.IsIndexKey(key) {
		return key
	}
	return fn(key)
}

// Formatter returns a formatter for the output settings of c.
func (c *Config) Formatter() ast.Formatter {
	n := c.Output.MaxLineItems
	if n == 0 {
		n = -1 // zero in a config file means "never inline"
	}
	return ast.Formatter{
		Indent:       c.Output.Indent,
		MaxLineItems: n,
		Align:        c.Output.Align,
	}
}

// ReconstructOptions returns the reconstruction options of c.
func (c *Config) ReconstructOptions() tree.ReconstructOptions {
	return tree.ReconstructOptions{
		InferStrings:     c.Reconstruct.InferStrings,
		RejectCollisions: c.Reconstruct.RejectCollisions,
	}
}
