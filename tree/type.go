// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree

import "fmt"

// Type is the declared type tag of a node. The set of tags is closed.
type Type int

// Constants defining the valid Type values.
const (
	NullType      Type = iota // JSON null
	BoolType                  // JSON true or false
	DoubleType                // JSON number
	StringType                // JSON string
	ContainerType             // JSON object or array
)

var typeNames = [...]string{
	NullType:      "null",
	BoolType:      "bool",
	DoubleType:    "double",
	StringType:    "string",
	ContainerType: "container",
}

func (t Type) String() string {
	if t.valid() {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// MarshalText implements the encoding.TextMarshaler interface.
func (t Type) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("invalid type %d", int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements the encoding.TextUnmarshaler interface.
func (t *Type) UnmarshalText(d []byte) error {
	for i, name := range typeNames {
		if name == string(d) {
			*t = Type(i)
			return nil
		}
	}
	return fmt.Errorf("unrecognized type %q", d)
}

// Types returns all the valid type tags.
func Types() []Type {
	return []Type{NullType, BoolType, DoubleType, StringType, ContainerType}
}

// IsLeaf reports whether nodes of type t are leaves.
func (t Type) IsLeaf() bool { return t != ContainerType }

func (t Type) valid() bool { return t >= 0 && int(t) < len(typeNames) }
