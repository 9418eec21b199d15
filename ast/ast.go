// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines the values of a JSON document, and a parser that
// constructs them from JSON source. Object members keep the order in which
// they occur in the source.
package ast

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/confman/conftree"
)

// A Value is an arbitrary JSON value. The concrete type is one of Object,
// Array, String, Int, Float, Number, Bool, or the Null constant.
type Value interface {
	// JSON returns the compact JSON encoding of the value.
	JSON() string

	String() string
}

// An Object is an ordered collection of key-value members.
type Object []*Member

// Find returns the first member of o with the given key, or nil.
func (o Object) Find(key string) *Member {
	if i := o.Index(key); i >= 0 {
		return o[i]
	}
	return nil
}

// Index returns the offset of the first member of o with the given key, or -1.
func (o Object) Index(key string) int {
	for i, m := range o {
		if m.Key == key {
			return i
		}
	}
	return -1
}

func (o Object) Len() int { return len(o) }

// JSON satisfies the Value interface.
func (o Object) JSON() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, m := range o {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(m.JSON())
	}
	sb.WriteByte('}')
	return sb.String()
}

func (o Object) String() string { return fmt.Sprintf("Object(len=%d)", len(o)) }

// A Member is a single key-value pair belonging to an Object.
type Member struct {
	Key   string
	Value Value
}

// Field constructs an object member with the given key and value.
// The value must be a string, int, float, bool, nil, or ast.Value.
func Field(key string, value any) *Member {
	return &Member{Key: key, Value: ToValue(value)}
}

// JSON renders the member as "key":value.
func (m Member) JSON() string { return conftree.Quote(m.Key) + ":" + m.Value.JSON() }

func (m Member) String() string { return fmt.Sprintf("Member(key=%q)", m.Key) }

// An Array is a sequence of values.
type Array []Value

// ArrayOf constructs an array of the given values, converted as by ToValue.
func ArrayOf[T any](vs ...T) Array {
	out := make(Array, len(vs))
	for i, v := range vs {
		out[i] = ToValue(v)
	}
	return out
}

func (a Array) Len() int { return len(a) }

// JSON satisfies the Value interface.
func (a Array) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range a {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.JSON())
	}
	sb.WriteByte(']')
	return sb.String()
}

func (a Array) String() string { return fmt.Sprintf("Array(len=%d)", len(a)) }

// A String is an unquoted string value.
type String string

// JSON satisfies the Value interface.
func (s String) JSON() string { return conftree.Quote(string(s)) }

func (s String) String() string { return string(s) }

// An Int is an integer value.
type Int int64

// JSON satisfies the Value interface.
func (z Int) JSON() string { return strconv.FormatInt(int64(z), 10) }

func (z Int) String() string { return z.JSON() }

// A Float is a floating-point value.
type Float float64

// JSON satisfies the Value interface. Non-finite values, which JSON cannot
// represent, are rendered as null.
func (f Float) JSON() string {
	if math.IsInf(float64(f), 0) || math.IsNaN(float64(f)) {
		return "null"
	}
	return FormatFloat(float64(f))
}

func (f Float) String() string { return f.JSON() }

// A Number is a numeric value carrying its source text verbatim.
// The parser produces a Number for every numeric token.
type Number string

// IsInt reports whether the text of n is an integer with no fraction or
// exponent.
func (n Number) IsInt() bool { return !strings.ContainsAny(string(n), ".eE") }

// Int returns the value of n as an int64, truncating a fractional value.
// If n is out of range, Int returns the nearest representable value.
func (n Number) Int() int64 {
	if v, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return v
	}
	f := n.Float()
	switch {
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(f)
}

// Float returns the value of n as a float64.  Values out of range are rounded
// to ±Inf as by strconv.ParseFloat.
func (n Number) Float() float64 {
	v, _ := strconv.ParseFloat(string(n), 64)
	return v
}

// JSON satisfies the Value interface.
func (n Number) JSON() string { return string(n) }

func (n Number) String() string { return string(n) }

// A Bool is a Boolean constant, true or false.
type Bool bool

// JSON satisfies the Value interface.
func (b Bool) JSON() string { return strconv.FormatBool(bool(b)) }

func (b Bool) String() string { return b.JSON() }

type nullValue struct{}

// Null is the null constant.
var Null Value = nullValue{}

func (nullValue) JSON() string   { return "null" }
func (nullValue) String() string { return "null" }

// FormatFloat renders f as the shortest decimal string that parses back to
// the same float64. Magnitudes outside [1e-6, 1e21) use exponent notation.
func FormatFloat(f float64) string {
	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)

	// Trim a redundant leading zero from the exponent: 1e-07 becomes 1e-7.
	if n := len(s); n >= 4 && s[n-4] == 'e' && s[n-2] == '0' {
		s = s[:n-2] + s[n-1:]
	}
	return s
}

// ToValue converts a string, int, float, bool, nil, or ast.Value into an
// ast.Value. It panics if v does not have one of those types.
func ToValue(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case nil:
		return Null
	case string:
		return String(t)
	case bool:
		return Bool(t)
	case int:
		return Int(t)
	case int32:
		return Int(t)
	case int64:
		return Int(t)
	case float32:
		return Float(t)
	case float64:
		return Float(t)
	default:
		panic(fmt.Sprintf("cannot convert %T to a Value", v))
	}
}

// Equal reports whether a and b are structurally equal JSON values.  Objects
// are equal if they have the same members in the same order; numeric values
// (Int, Float, Number) are equal if their float64 values are equal.
func Equal(a, b Value) bool {
	if af, ok := numeric(a); ok {
		bf, ok := numeric(b)
		return ok && af == bf
	}
	switch x := a.(type) {
	case Object:
		y, ok := b.(Object)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i].Key != y[i].Key || !Equal(x[i].Value, y[i].Value) {
				return false
			}
		}
		return true
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	}
	return a == Null && b == Null
}

func numeric(v Value) (float64, bool) {
	switch t := v.(type) {
	case Int:
		return float64(t), true
	case Float:
		return float64(t), true
	case Number:
		return t.Float(), true
	}
	return 0, false
}
