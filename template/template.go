// Package template implements the SQL template mini-language: a
// placeholder grammar embedded in SQL strings, compiled against typed
// arguments into an intermediate representation of literal spans, quoted
// identifiers and positional parameters, then finalized against a dialect
// profile into executable SQL plus an ordered parameter list.
package template

import (
	"fmt"
	"hash/fnv"
	"strings"
)

type partKind uint8

const (
	partLiteral partKind = iota
	partParam
	partIdent
)

// part is one element of the intermediate representation.
type part struct {
	kind partKind
	// text holds literal content or the unquoted identifier name.
	text string
	// value is the bound parameter for partParam.
	value any
}

// Template is an ordered sequence of parts. It is created empty or by
// Compile, grows only by appends, and is read-only once handed to
// Finalize. Adjacent literal spans merge; parameter and identifier parts
// never fold into a literal.
type Template struct {
	parts []part
}

// New returns an empty template.
func New() *Template {
	return &Template{}
}

// WriteString appends a literal span, merging with a trailing literal.
func (t *Template) WriteString(s string) *Template {
	if s == "" {
		return t
	}
	if n := len(t.parts); n > 0 && t.parts[n-1].kind == partLiteral {
		t.parts[n-1].text += s
		return t
	}
	t.parts = append(t.parts, part{kind: partLiteral, text: s})
	return t
}

// WriteParam appends a bound parameter slot.
func (t *Template) WriteParam(v any) *Template {
	t.parts = append(t.parts, part{kind: partParam, value: v})
	return t
}

// WriteIdent appends an identifier to be dialect-quoted at finalize time.
func (t *Template) WriteIdent(name string) *Template {
	t.parts = append(t.parts, part{kind: partIdent, text: name})
	return t
}

// Append splices another template's parts in, preserving their order.
func (t *Template) Append(o *Template) *Template {
	for _, p := range o.parts {
		switch p.kind {
		case partLiteral:
			t.WriteString(p.text)
		default:
			t.parts = append(t.parts, p)
		}
	}
	return t
}

// Empty reports whether the template has no parts.
func (t *Template) Empty() bool { return len(t.parts) == 0 }

// Params returns the bound parameters in part order.
func (t *Template) Params() []any {
	var out []any
	for _, p := range t.parts {
		if p.kind == partParam {
			out = append(out, p.value)
		}
	}
	return out
}

// Fingerprint hashes the template's shape: literal text, identifier names
// and parameter positions, but not parameter values. Two templates with
// the same fingerprint finalize to the same SQL text on a given profile.
func (t *Template) Fingerprint() uint64 {
	h := fnv.New64a()
	for _, p := range t.parts {
		switch p.kind {
		case partLiteral:
			h.Write([]byte{0})
			h.Write([]byte(p.text))
		case partIdent:
			h.Write([]byte{1})
			h.Write([]byte(p.text))
		case partParam:
			h.Write([]byte{2})
		}
	}
	return h.Sum64()
}

// String returns a debug form with ? for parameters and <name> for
// identifiers. Not executable SQL; use Finalize for that.
func (t *Template) String() string {
	var sb strings.Builder
	for _, p := range t.parts {
		switch p.kind {
		case partLiteral:
			sb.WriteString(p.text)
		case partParam:
			sb.WriteByte('?')
		case partIdent:
			fmt.Fprintf(&sb, "<%s>", p.text)
		}
	}
	return sb.String()
}
