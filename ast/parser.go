// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"errors"
	"fmt"
	"io"

	"github.com/confman/conftree"
)

// ErrExtraInput is reported by ParseSingle when the input contains data
// after the first value.
var ErrExtraInput = errors.New("extra data after value")

// Parse parses and returns the JSON values from r. In case of error, any
// complete values already parsed are returned along with the error.
func Parse(r io.Reader) ([]Value, error) {
	st := conftree.NewStream(r)
	var vs []Value
	for {
		v, err := parseOne(st)
		if err == io.EOF {
			return vs, nil
		} else if err != nil {
			return vs, err
		}
		vs = append(vs, v)
	}
}

// ParseSingle parses and returns a single JSON value from r. If r is empty,
// ParseSingle reports io.ErrUnexpectedEOF; if r contains data after the first
// value, ParseSingle reports an error wrapping ErrExtraInput.
func ParseSingle(r io.Reader) (Value, error) {
	st := conftree.NewStream(r)
	v, err := parseOne(st)
	if err == io.EOF {
		return nil, io.ErrUnexpectedEOF
	} else if err != nil {
		return nil, err
	}
	if _, err := parseOne(st); err == nil {
		return nil, ErrExtraInput
	} else if err != io.EOF {
		return nil, fmt.Errorf("%w: %w", ErrExtraInput, err)
	}
	return v, nil
}

func parseOne(st *conftree.Stream) (Value, error) {
	var h parseHandler
	if err := st.ParseOne(&h); err != nil {
		return nil, err
	} else if len(h.stk) != 1 {
		return nil, errors.New("incomplete value")
	}
	return h.stk[0].(Value), nil
}

// A parseHandler implements the conftree.Handler interface to construct
// values from the events of a stream.
//
// The stack holds *objectStub and *arrayStub for open containers, a
// memberStub for a member whose value has not yet been seen, and the
// completed value at the bottom when parsing is done.
type parseHandler struct {
	stk []any
}

type objectStub struct{ Object }

type arrayStub struct{ Array }

type memberStub struct{ key string }

func (h *parseHandler) push(v any) { h.stk = append(h.stk, v) }

func (h *parseHandler) pop() any {
	last := h.stk[len(h.stk)-1]
	h.stk = h.stk[:len(h.stk)-1]
	return last
}

// reduce attaches a completed value v to the enclosing container, or leaves
// it on the stack if it is at the top level.
func (h *parseHandler) reduce(v Value) error {
	if len(h.stk) == 0 {
		h.push(v)
		return nil
	}
	switch top := h.stk[len(h.stk)-1].(type) {
	case memberStub:
		h.pop()
		obj := h.stk[len(h.stk)-1].(*objectStub)
		obj.Object = append(obj.Object, &Member{Key: top.key, Value: v})
	case *arrayStub:
		top.Array = append(top.Array, v)
	default:
		return fmt.Errorf("unexpected value after %T", top)
	}
	return nil
}

func (h *parseHandler) BeginObject(loc conftree.Anchor) error {
	h.push(&objectStub{Object: Object{}})
	return nil
}

func (h *parseHandler) EndObject(loc conftree.Anchor) error {
	return h.reduce(h.pop().(*objectStub).Object)
}

func (h *parseHandler) BeginArray(loc conftree.Anchor) error {
	h.push(&arrayStub{Array: Array{}})
	return nil
}

func (h *parseHandler) EndArray(loc conftree.Anchor) error {
	return h.reduce(h.pop().(*arrayStub).Array)
}

func (h *parseHandler) BeginMember(loc conftree.Anchor) error {
	key, err := conftree.Unquote(string(loc.Text()))
	if err != nil {
		return fmt.Errorf("at %s: invalid key: %w", loc.Location().First, err)
	}
	h.push(memberStub{key: key})
	return nil
}

func (h *parseHandler) EndMember(loc conftree.Anchor) error { return nil }

func (h *parseHandler) Value(loc conftree.Anchor) error {
	v, err := AnchorValue(loc)
	if err != nil {
		return err
	}
	return h.reduce(v)
}

func (h *parseHandler) EndOfInput(loc conftree.Anchor) {}

// AnchorValue returns a Value for the scalar token at loc.
func AnchorValue(loc conftree.Anchor) (Value, error) {
	switch tok := loc.Token(); tok {
	case conftree.String:
		s, err := conftree.Unquote(string(loc.Text()))
		if err != nil {
			return nil, fmt.Errorf("at %s: invalid string: %w", loc.Location().First, err)
		}
		return String(s), nil
	case conftree.Integer, conftree.Number:
		return Number(loc.Copy()), nil
	case conftree.True:
		return Bool(true), nil
	case conftree.False:
		return Bool(false), nil
	case conftree.Null:
		return Null, nil
	default:
		return nil, fmt.Errorf("unknown value %v", tok)
	}
}
