// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package tree

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Validate checks whether text is acceptable as the content of a leaf of
// type typ. If so, it returns the normalized text to store; otherwise it
// reports a *TypeMismatchError.
//
//   - BoolType accepts "true" or "false" in any case, normalized to lower case.
//   - DoubleType accepts a finite decimal number, stored as written.
//   - NullType accepts "null" in any case, normalized to lower case.
//   - StringType accepts any text as written.
//
// Validate reports ErrNotLeaf for ContainerType.
func Validate(typ Type, text string) (string, error) {
	switch typ {
	case BoolType:
		if strings.EqualFold(text, "true") || strings.EqualFold(text, "false") {
			return strings.ToLower(text), nil
		}
	case DoubleType:
		if _, ok := parseDecimal(text); ok {
			return text, nil
		}
	case NullType:
		if strings.EqualFold(text, "null") {
			return "null", nil
		}
	case StringType:
		return text, nil
	case ContainerType:
		return "", ErrNotLeaf
	default:
		return "", fmt.Errorf("invalid type %v", typ)
	}
	return "", &TypeMismatchError{Expected: typ, Text: text}
}

// ProposeEdit proposes text as the new content of the specified leaf. While
// the proposal is checked, the node is pending and its text is the proposed
// text. If the text is valid for the type of the node, the normalized text
// becomes both the current and the previous text of the node and is
// returned. Otherwise the node reverts to its previous text, the proposed
// text is discarded, and ProposeEdit reports a *TypeMismatchError.
func (t *Tree) ProposeEdit(id ID, text string) (string, error) {
	s := t.get(id)
	if s == nil {
		return "", ErrInvalidID
	} else if s.typ == ContainerType {
		return "", fmt.Errorf("edit %v: %w", id, ErrNotLeaf)
	}

	s.text, s.pending = text, true
	defer func() { s.pending = false }()

	norm, err := Validate(s.typ, text)
	if err != nil {
		s.text = s.prev
		return "", err
	}
	s.text, s.prev = norm, norm
	return norm, nil
}

// parseDecimal parses text as a finite float in decimal notation. Unlike
// strconv.ParseFloat it does not accept hexadecimal mantissas, digit
// separators, or the names of infinities and NaN.
func parseDecimal(text string) (float64, bool) {
	for i := 0; i < len(text); i++ {
		switch c := text[i]; {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return 0, false
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}
