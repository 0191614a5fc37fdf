package schema

import (
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
)

// CompositeKey is an ordered, deduplicated set of column identifiers
// forming a uniqueness constraint. Columns are sorted by interned id, so
// two keys over the same column set always carry the same order and
// compare equal regardless of construction order.
type CompositeKey struct {
	cols []string
	ids  []uint32
}

// NewKey builds a key over the given columns, deduplicating and sorting
// them by their interned ids.
func NewKey(in *Interner, columns ...string) CompositeKey {
	seen := make(map[uint32]struct{}, len(columns))
	k := CompositeKey{
		cols: make([]string, 0, len(columns)),
		ids:  make([]uint32, 0, len(columns)),
	}
	for _, c := range columns {
		id := in.Intern(c)
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		k.cols = append(k.cols, c)
		k.ids = append(k.ids, id)
	}
	sort.Sort(byID(k))
	return k
}

type byID CompositeKey

func (k byID) Len() int           { return len(k.ids) }
func (k byID) Less(i, j int) bool { return k.ids[i] < k.ids[j] }
func (k byID) Swap(i, j int) {
	k.ids[i], k.ids[j] = k.ids[j], k.ids[i]
	k.cols[i], k.cols[j] = k.cols[j], k.cols[i]
}

// Columns returns a copy of the key's columns in id order.
func (k CompositeKey) Columns() []string { return slices.Clone(k.cols) }

// Len returns the number of columns.
func (k CompositeKey) Len() int { return len(k.cols) }

// Single reports whether the key has exactly one column.
func (k CompositeKey) Single() bool { return len(k.cols) == 1 }

// Equal reports whether both keys cover the same column-identifier set.
func (k CompositeKey) Equal(other CompositeKey) bool {
	if len(k.ids) != len(other.ids) {
		return false
	}
	for i := range k.ids {
		if k.ids[i] != other.ids[i] {
			return false
		}
	}
	return true
}

// String returns a canonical form usable as a map key.
func (k CompositeKey) String() string {
	return strings.Join(k.cols, ",")
}

// CompositeValue binds concrete values to a key's columns, preserving the
// key's column order. Equality is structural over the values, not by
// reference.
type CompositeValue struct {
	key  CompositeKey
	vals []any
}

// NewValue binds values positionally to the key's columns.
func NewValue(key CompositeKey, values ...any) (CompositeValue, error) {
	if len(values) != key.Len() {
		return CompositeValue{}, fmt.Errorf("schema: key %s has %d columns, got %d values", key, key.Len(), len(values))
	}
	vals := make([]any, len(values))
	copy(vals, values)
	return CompositeValue{key: key, vals: vals}, nil
}

// Key returns the key the values are bound to.
func (v CompositeValue) Key() CompositeKey { return v.key }

// Values returns a copy of the bound values in key column order.
func (v CompositeValue) Values() []any { return slices.Clone(v.vals) }

// Get returns the value bound to the named column.
func (v CompositeValue) Get(column string) (any, bool) {
	for i, c := range v.key.cols {
		if c == column {
			return v.vals[i], true
		}
	}
	return nil, false
}

// Scalar unwraps the single bound value. It fails unless the key has
// exactly one column.
func (v CompositeValue) Scalar() (any, error) {
	if !v.key.Single() {
		return nil, fmt.Errorf("schema: key %s is composite; no scalar form", v.key)
	}
	return v.vals[0], nil
}

// Equal reports whether both values bind the same key columns to
// structurally equal values. The types must match too: int 1 and string
// "1" are different values.
func (v CompositeValue) Equal(other CompositeValue) bool {
	if !v.key.Equal(other.key) {
		return false
	}
	for i := range v.vals {
		if !reflect.DeepEqual(v.vals[i], other.vals[i]) {
			return false
		}
	}
	return true
}

// String returns a stable textual form for diagnostics and hashing.
// Distinct values of different types may render identically; Equal is the
// authority on identity.
func (v CompositeValue) String() string {
	var sb strings.Builder
	for i, c := range v.key.cols {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%s=%v", c, v.vals[i])
	}
	return sb.String()
}
