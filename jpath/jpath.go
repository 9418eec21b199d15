// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

// Package jpath implements a parser for the subset of JSONPath used to
// address nodes of a configuration tree.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." WORD
  step = "[" "'" QTEXT "'" "]"
  step = "[" INDEX "]"

  WORD = RE `[\w-]+`
 QTEXT = RE `([^'\\]|\\.)*`
 INDEX = RE `-?\d+`

A quoted name may contain any key. Within quotes, \' denotes a quote and \\
denotes a backslash. A negative index counts backward from the end.
*/

// An Expr is a parsed path expression.
type Expr []Step

// Parse parses s as a path expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var steps Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("at offset %d: %w", len(s)-len(t), err)
		}
		steps = append(steps, step)
		t = rest
	}
	return steps, nil
}

// MustParse parses s as a path expression, and panics if it is invalid.
func MustParse(s string) Expr {
	e, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("jpath: invalid path %q: %v", s, err))
	}
	return e
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, s := range e {
		buf.WriteString(s.String())
	}
	return buf.String()
}

// Elements returns the steps of e as path elements for a cursor: a string
// for each member step and an int for each index step.
func (e Expr) Elements() []any {
	out := make([]any, len(e))
	for i, s := range e {
		if s.Op == Index {
			out[i] = s.Index
		} else {
			out[i] = s.Name
		}
	}
	return out
}

// Parent returns the expression for the parent of e, and the last step of
// e. If e is empty, Parent returns e and a zero Step.
func (e Expr) Parent() (Expr, Step) {
	if len(e) == 0 {
		return e, Step{}
	}
	return e[:len(e)-1], e[len(e)-1]
}

// Key returns an expression that extends e with a member step for name.
func (e Expr) Key(name string) Expr {
	return append(e[:len(e):len(e)], Step{Op: Member, Name: name})
}

func parseStep(s string) (_ Step, rest string, _ error) {
	if t, ok := strings.CutPrefix(s, "."); ok {
		if m := wordRE.FindString(t); m != "" {
			return Step{Op: Member, Name: m}, t[len(m):], nil
		}
		return Step{}, s, errors.New("invalid .name")
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		var out Step
		if u, ok := strings.CutPrefix(t, "'"); ok {
			name, rest, err := parseQuoted(u)
			if err != nil {
				return Step{}, s, err
			}
			out, t = Step{Op: Member, Name: name}, rest
		} else if m := indexRE.FindString(t); m != "" {
			v, err := strconv.Atoi(m)
			if err != nil {
				return Step{}, s, fmt.Errorf("invalid index %q: %w", m, err)
			}
			out, t = Step{Op: Index, Index: v}, t[len(m):]
		} else {
			return Step{}, s, fmt.Errorf("invalid value: %q", t)
		}
		u, ok := strings.CutPrefix(t, "]")
		if !ok {
			return Step{}, t, errors.New("missing close bracket")
		}
		return out, u, nil
	}
	return Step{}, s, errors.New("invalid path step")
}

// parseQuoted parses a quoted name whose open quote has been consumed.
func parseQuoted(s string) (name, rest string, _ error) {
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\'':
			return buf.String(), s[i+1:], nil
		case '\\':
			if i+1 == len(s) {
				return "", s, errors.New("incomplete escape")
			}
			i++
			buf.WriteByte(s[i])
		default:
			buf.WriteByte(c)
		}
	}
	return "", s, errors.New("missing close quote")
}

var (
	wordRE  = regexp.MustCompile(`^[\w-]+`)
	indexRE = regexp.MustCompile(`^-?\d+`)
	plainRE = regexp.MustCompile(`^[\w-]+$`)
)

// An Op is a path operator.
type Op byte

const (
	Invalid Op = iota // invalid operator
	Member            // member lookup by key
	Index             // child lookup by position
)

var opText = [...]string{
	Invalid: "invalid",
	Member:  "member",
	Index:   "index",
}

func (o Op) String() string {
	if int(o) < len(opText) {
		return opText[o]
	}
	return opText[Invalid]
}

// A Step is a single step of a path expression.
type Step struct {
	Op    Op
	Name  string // for Member
	Index int    // for Index
}

func (s Step) String() string {
	switch s.Op {
	case Member:
		if plainRE.MatchString(s.Name) {
			return "." + s.Name
		}
		r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
		return "['" + r.Replace(s.Name) + "']"
	case Index:
		return "[" + strconv.Itoa(s.Index) + "]"
	default:
		return "<invalid>"
	}
}
