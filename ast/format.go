// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"fmt"
	"io"
	"text/tabwriter"
)

// A Formatter carries the settings for pretty-printing JSON values.
// A zero value is ready for use with default settings.
type Formatter struct {
	// Indent is the text of one level of indentation (default two spaces).
	Indent string

	// MaxLineItems is the largest number of scalar elements an array may have
	// and still be rendered on one line (default 3). A negative value puts
	// every non-empty array on multiple lines.
	MaxLineItems int

	// Align, if true, pads the keys of consecutive single-line object members
	// so their values line up in a column.
	Align bool
}

func (f Formatter) indent() string {
	if f.Indent == "" {
		return "  "
	}
	return f.Indent
}

func (f Formatter) maxLineItems() int {
	if f.MaxLineItems == 0 {
		return 3
	}
	return max(f.MaxLineItems, 0)
}

// Format renders a pretty-printed representation of v to w with default
// settings.
func Format(w io.Writer, v Value) error {
	var f Formatter
	return f.Format(w, v)
}

// FormatToString formats v to a string with default settings.
// In case of error in formatting, it returns an empty string.
func FormatToString(v Value) string {
	var buf bytes.Buffer
	if Format(&buf, v) != nil {
		return ""
	}
	return buf.String()
}

// Format renders a pretty-printed representation of v to w using the settings
// from f. The output is terminated by a newline.
func (f Formatter) Format(w io.Writer, v Value) error {
	tw := tabwriter.NewWriter(w, 4, 4, 1, ' ', tabwriter.StripEscape)
	f.formatValue(tw, v, "")
	io.WriteString(tw, "\n")
	return tw.Flush()
}

type writeFlusher interface {
	io.Writer
	Flush() error
}

// formatValue writes a representation of v to w. Lines after the first are
// indented by indent.
func (f Formatter) formatValue(w writeFlusher, v Value, indent string) {
	switch t := v.(type) {
	case Array:
		f.formatArray(w, t, indent)
	case Object:
		f.formatObject(w, t, indent)
	default:
		io.WriteString(w, v.JSON())
	}
}

func (f Formatter) formatArray(w writeFlusher, a Array, indent string) {
	if f.isBoring(a) {
		io.WriteString(w, "[")
		for i, v := range a {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			f.formatValue(w, v, indent)
		}
		io.WriteString(w, "]")
		return
	}

	io.WriteString(w, "[\n")
	adent := indent + f.indent()
	for i, v := range a {
		io.WriteString(w, escape(adent))
		f.formatValue(w, v, adent)
		io.WriteString(w, sep(i, len(a)))
	}
	w.Flush()
	fmt.Fprint(w, escape(indent), "]")
}

func (f Formatter) formatObject(w writeFlusher, o Object, indent string) {
	if f.isBoring(o) {
		io.WriteString(w, "{")
		for i, m := range o {
			if i > 0 {
				io.WriteString(w, ", ")
			}
			fmt.Fprint(w, quoteKey(m.Key), ": ")
			f.formatValue(w, m.Value, indent)
		}
		io.WriteString(w, "}")
		return
	}

	io.WriteString(w, "{\n")
	mdent := indent + f.indent()
	for i, m := range o {
		fmt.Fprint(w, escape(mdent), quoteKey(m.Key), f.objSep(m.Value))
		f.formatValue(w, m.Value, mdent)
		io.WriteString(w, sep(i, len(o)))
	}
	w.Flush()
	fmt.Fprint(w, escape(indent), "}")
}

// sep returns the separator following element i of n in a multi-line value.
func sep(i, n int) string {
	if i < n-1 {
		return ",\n"
	}
	return "\n"
}

func quoteKey(key string) string { return String(key).JSON() }

// escape protects indentation from the column logic of the tabwriter, so
// that an indent containing tabs is emitted verbatim.
func escape(s string) string {
	if s == "" {
		return s
	}
	esc := string([]byte{tabwriter.Escape})
	return esc + s + esc
}

// objSep returns a key-value separator for the given value.
// Boring values get indented so they line up in columns when alignment is
// enabled; non-boring values are stapled directly to the key.
func (f Formatter) objSep(v Value) string {
	if f.Align && f.isBoring(v) {
		return ":\t"
	}
	return ": "
}

// isBoring reports whether v has a simple enough structure that it can be
// rendered on one line.
func (f Formatter) isBoring(v Value) bool {
	switch t := v.(type) {
	case Array:
		if len(t) > f.maxLineItems() {
			return false
		}
		for _, elt := range t {
			switch elt.(type) {
			case Array, Object:
				return false
			}
		}
		return true
	case Object:
		switch len(t) {
		case 0:
			return true
		case 1:
			_, isObj := t[0].Value.(Object)
			return !isObj && f.isBoring(t[0].Value)
		}
		return false
	default:
		return true
	}
}
