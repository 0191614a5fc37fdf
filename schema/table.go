package schema

import "fmt"

// TableRef identifies a table for rendering: dialect-quoted schema.table,
// schema segment omitted when absent.
type TableRef struct {
	Schema string
	Name   string
}

// String returns the unquoted dotted form, for error messages.
func (r TableRef) String() string {
	if r.Schema == "" {
		return r.Name
	}
	return r.Schema + "." + r.Name
}

// Column describes one mapped column.
type Column struct {
	Name string
	// Immutable columns are never emitted in UPDATE SET lists.
	Immutable bool
	// Generator names the ID generator producing a default value on
	// insert when the column carries none (see generators.go).
	Generator string
}

// Table is the metadata for one mapped entity: its (optionally
// schema-qualified) identifier, its primary key and its columns.
// Tables are built once and treated as read-only.
type Table struct {
	ref    TableRef
	pk     CompositeKey
	cols   []Column
	byName map[string]int
}

// NewTable builds table metadata. The primary key columns must appear in
// cols.
func NewTable(in *Interner, schemaName, name string, pk []string, cols []Column) (*Table, error) {
	t := &Table{
		ref:    TableRef{Schema: schemaName, Name: name},
		pk:     NewKey(in, pk...),
		cols:   cols,
		byName: make(map[string]int, len(cols)),
	}
	for i, c := range cols {
		if _, dup := t.byName[c.Name]; dup {
			return nil, fmt.Errorf("schema: table %s declares column %s twice", t.ref, c.Name)
		}
		t.byName[c.Name] = i
	}
	for _, c := range t.pk.Columns() {
		if _, ok := t.byName[c]; !ok {
			return nil, fmt.Errorf("schema: table %s primary key column %s is not declared", t.ref, c)
		}
	}
	return t, nil
}

// Ref returns the table's identifier.
func (t *Table) Ref() TableRef { return t.ref }

// PrimaryKey returns the table's primary key.
func (t *Table) PrimaryKey() CompositeKey { return t.pk }

// Columns returns the declared columns in declaration order.
func (t *Table) Columns() []Column { return t.cols }

// Column returns the named column's metadata.
func (t *Table) Column(name string) (Column, bool) {
	i, ok := t.byName[name]
	if !ok {
		return Column{}, false
	}
	return t.cols[i], true
}

// Record is the row collaborator: field access by column identifier plus
// composite-value extraction. Implemented by MapRecord here and by
// whatever entity representation the caller maps.
type Record interface {
	// Table returns the mapping the record belongs to.
	Table() *Table
	// Get returns the raw value stored under column, and whether the
	// record carries a value for it at all.
	Get(column string) (any, bool)
	// Changed reports whether the column was modified since last load.
	Changed(column string) bool
	// KeyValue materializes the record's values for the given key.
	KeyValue(key CompositeKey) (CompositeValue, error)
}

// Generated is implemented by records that accept generator-produced
// default values (primary keys filled in just before insert).
type Generated interface {
	SetGenerated(column string, v any)
}

// MapRecord is a map-backed Record. Set marks columns changed; Load
// installs values without marking them.
type MapRecord struct {
	table   *Table
	values  map[string]any
	changed map[string]bool
}

// NewRecord returns an empty record bound to the table.
func NewRecord(t *Table) *MapRecord {
	return &MapRecord{
		table:   t,
		values:  make(map[string]any, len(t.cols)),
		changed: make(map[string]bool, 4),
	}
}

// Load installs a value without marking the column changed, as after a
// fetch from the database.
func (r *MapRecord) Load(column string, v any) *MapRecord {
	r.values[column] = v
	return r
}

// Set installs a value and marks the column changed.
func (r *MapRecord) Set(column string, v any) *MapRecord {
	r.values[column] = v
	r.changed[column] = true
	return r
}

// SetGenerated installs a generator-produced value, marking the column
// changed so it joins the insert column union.
func (r *MapRecord) SetGenerated(column string, v any) {
	r.Set(column, v)
}

// Table returns the record's mapping.
func (r *MapRecord) Table() *Table { return r.table }

// Get returns the value stored under column.
func (r *MapRecord) Get(column string) (any, bool) {
	v, ok := r.values[column]
	return v, ok
}

// Changed reports whether column was modified since last load.
func (r *MapRecord) Changed(column string) bool { return r.changed[column] }

// ResetChanged clears all changed marks, as after a successful flush.
func (r *MapRecord) ResetChanged() {
	clear(r.changed)
}

// KeyValue materializes the record's current values for key. Missing
// columns bind as nil.
func (r *MapRecord) KeyValue(key CompositeKey) (CompositeValue, error) {
	vals := make([]any, 0, key.Len())
	for _, c := range key.Columns() {
		vals = append(vals, r.values[c])
	}
	return NewValue(key, vals...)
}
