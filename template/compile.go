package template

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/querykit/dberr"
	"github.com/Konsultn-Engineering/querykit/schema"
)

// Placeholder grammar: #[modifier][index][:label]#
//
//	modifier  none bind as parameter
//	          !    raw text, unquoted
//	          :    quoted identifier
//	          ?    parameter, even for special-cased argument types
//	index     1-based position in the argument list
//	label     map key, column name, or @ for the record's own key value
//
// A doubled ## is an escape for a literal #.

// keyLabel is the sentinel label selecting a record's own primary-key value.
const keyLabel = "@"

// Compile scans src left to right, copying text outside placeholder
// regions verbatim and resolving each placeholder against args into
// literal, identifier or parameter parts.
func Compile(src string, args ...any) (*Template, error) {
	t := New()
	n := len(src)
	start := 0
	for i := 0; i < n; {
		if src[i] != '#' {
			i++
			continue
		}
		t.WriteString(src[start:i])
		if i+1 < n && src[i+1] == '#' {
			t.WriteString("#")
			i += 2
			start = i
			continue
		}
		end := strings.IndexByte(src[i+1:], '#')
		if end < 0 {
			return nil, dberr.Malformed(src[i:], "unterminated placeholder")
		}
		end += i + 1
		if err := resolvePlaceholder(t, src[i:end+1], src[i+1:end], args); err != nil {
			return nil, err
		}
		i = end + 1
		start = i
	}
	t.WriteString(src[start:])
	return t, nil
}

// resolvePlaceholder parses one placeholder body and resolves it.
// snippet is the full #...# region for error reporting.
func resolvePlaceholder(t *Template, snippet, body string, args []any) error {
	if body == "" {
		return dberr.Malformed(snippet, "empty placeholder")
	}
	mod := byte(0)
	switch body[0] {
	case '!', ':', '?':
		mod = body[0]
		body = body[1:]
	default:
		if body[0] < '0' || body[0] > '9' {
			return dberr.Malformed(snippet, "unknown modifier %q", body[0])
		}
	}
	label := ""
	if j := strings.IndexByte(body, ':'); j >= 0 {
		label = body[j+1:]
		body = body[:j]
		if label == "" {
			return dberr.Malformed(snippet, "empty label")
		}
	}
	idx, err := strconv.Atoi(body)
	if err != nil {
		return dberr.Malformed(snippet, "malformed argument index %q", body)
	}
	if idx < 1 || idx > len(args) {
		return dberr.Malformed(snippet, "argument index %d out of range 1..%d", idx, len(args))
	}
	return resolve(t, snippet, mod, args[idx-1], label)
}

// resolve maps one argument to parts, in the fixed order: forced
// parameter, composite key, composite value, iterable, map lookup, row
// lookup, table reference, nested template, then plain modifier
// application.
func resolve(t *Template, snippet string, mod byte, v any, label string) error {
	if mod == '?' {
		t.WriteParam(v)
		return nil
	}
	switch arg := v.(type) {
	case schema.CompositeKey:
		for i, col := range arg.Columns() {
			if i > 0 {
				t.WriteString(", ")
			}
			t.WriteIdent(col)
		}
		return nil
	case schema.CompositeValue:
		for i, val := range arg.Values() {
			if i > 0 {
				t.WriteString(", ")
			}
			if err := resolve(t, snippet, mod, val, label); err != nil {
				return err
			}
		}
		return nil
	case map[string]any:
		if label == "" {
			return dberr.Malformed(snippet, "map argument requires a label")
		}
		val, ok := arg[label]
		if !ok {
			return dberr.Malformed(snippet, "map argument has no entry %q", label)
		}
		return resolve(t, snippet, mod, val, "")
	case schema.Record:
		if label == "" {
			return dberr.Malformed(snippet, "record argument requires a label")
		}
		if label == keyLabel {
			pk := arg.Table().PrimaryKey()
			if !pk.Single() {
				return &dberr.UnsupportedCompositeReferenceError{Table: arg.Table().Ref().String()}
			}
			kv, err := arg.KeyValue(pk)
			if err != nil {
				return err
			}
			scalar, err := kv.Scalar()
			if err != nil {
				return err
			}
			return resolve(t, snippet, mod, scalar, "")
		}
		val, ok := arg.Get(label)
		if !ok {
			return dberr.Malformed(snippet, "record has no column %q", label)
		}
		return resolve(t, snippet, mod, val, "")
	case schema.TableRef:
		// Rendered as dialect-quoted schema.table; modifier ignored.
		if arg.Schema != "" {
			t.WriteIdent(arg.Schema)
			t.WriteString(".")
		}
		t.WriteIdent(arg.Name)
		return nil
	case *Template:
		t.Append(arg)
		return nil
	}

	if vs, ok := asList(v); ok {
		for i, elem := range vs {
			if i > 0 {
				t.WriteString(", ")
			}
			if err := resolve(t, snippet, mod, elem, label); err != nil {
				return err
			}
		}
		return nil
	}

	if label != "" {
		return dberr.Malformed(snippet, "label %q on a non-map, non-record argument", label)
	}
	switch mod {
	case '!':
		if v == nil {
			t.WriteString("NULL")
		} else {
			t.WriteString(fmt.Sprint(v))
		}
	case ':':
		t.WriteIdent(fmt.Sprint(v))
	default:
		t.WriteParam(v)
	}
	return nil
}

// asList unwraps slice and array arguments for element-wise resolution.
// []byte stays scalar: it binds as one parameter, not per byte.
func asList(v any) ([]any, bool) {
	if vs, ok := v.([]any); ok {
		return vs, true
	}
	if _, ok := v.([]byte); ok {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
