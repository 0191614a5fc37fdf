// Package query assembles the canonical statement shapes — select by key,
// select by key list, delete by key, single/batch insert and single
// update — from table metadata and the template compiler, honoring the
// active dialect profile's feature set and return-clause style.
package query

import (
	"errors"

	"github.com/Konsultn-Engineering/querykit/dberr"
	"github.com/Konsultn-Engineering/querykit/dialect"
	"github.com/Konsultn-Engineering/querykit/schema"
	"github.com/Konsultn-Engineering/querykit/template"
)

// ErrNoChangedColumns is returned by Update when the record has no
// changed, mutable columns to flush.
var ErrNoChangedColumns = errors.New("query: record has no changed columns to update")

// ErrEmptyKeyList is returned by SelectByKeyList for an empty value list,
// which would otherwise render an IN () no dialect accepts.
var ErrEmptyKeyList = errors.New("query: empty key list")

// Builder assembles statements for one dialect profile. It holds no
// mutable state; a Builder may be shared across goroutines.
type Builder struct {
	profile *dialect.Profile
}

// New returns a builder for the profile.
func New(p *dialect.Profile) *Builder {
	return &Builder{profile: p}
}

// Profile returns the builder's dialect profile.
func (b *Builder) Profile() *dialect.Profile { return b.profile }

// SelectByValue builds SELECT * FROM t [WHERE k1 = v1 [AND ...]]. The
// WHERE clause is omitted when kv is nil.
func (b *Builder) SelectByValue(tbl *schema.Table, kv *schema.CompositeValue) (*template.Template, error) {
	if kv == nil {
		return template.Compile("SELECT * FROM #1#", tbl.Ref())
	}
	return template.Compile("SELECT * FROM #1# WHERE #2#", tbl.Ref(), keyEquals(*kv))
}

// DeleteByValue builds DELETE FROM t [WHERE ...], mirroring SelectByValue.
func (b *Builder) DeleteByValue(tbl *schema.Table, kv *schema.CompositeValue) (*template.Template, error) {
	if kv == nil {
		return template.Compile("DELETE FROM #1#", tbl.Ref())
	}
	return template.Compile("DELETE FROM #1# WHERE #2#", tbl.Ref(), keyEquals(*kv))
}

// SelectByKeyList builds SELECT ... WHERE key IN (...). Single-column keys
// render a plain IN list; multi-column keys need the row-wise comparison
// feature and render (k1, k2) IN ((v1, v2), ...).
func (b *Builder) SelectByKeyList(tbl *schema.Table, key schema.CompositeKey, values []schema.CompositeValue) (*template.Template, error) {
	if len(values) == 0 {
		return nil, ErrEmptyKeyList
	}
	for _, v := range values {
		if !v.Key().Equal(key) {
			return nil, errors.New("query: key-list value bound to a different key")
		}
	}
	if key.Single() {
		scalars := make([]any, len(values))
		for i, v := range values {
			s, err := v.Scalar()
			if err != nil {
				return nil, err
			}
			scalars[i] = s
		}
		return template.Compile("SELECT * FROM #1# WHERE #2# IN (#3#)", tbl.Ref(), key, scalars)
	}
	if !b.profile.Supports(dialect.RowValues) {
		return nil, &dberr.UnsupportedFeatureError{Dialect: b.profile.Name(), Feature: dialect.RowValues.String()}
	}
	rows := template.New()
	for i, v := range values {
		if i > 0 {
			rows.WriteString(", ")
		}
		rows.WriteString("(")
		for j, val := range v.Values() {
			if j > 0 {
				rows.WriteString(", ")
			}
			rows.WriteParam(val)
		}
		rows.WriteString(")")
	}
	return template.Compile("SELECT * FROM #1# WHERE (#2#) IN (#3#)", tbl.Ref(), key, rows)
}

// Insert builds a single or multi-row INSERT for the batch. The column
// list is the union of changed columns across the batch, falling back to
// the primary-key columns when nothing is marked changed (default-value-
// only inserts). Records missing a value for a union column get the
// literal DEFAULT in that position. withReturn requests generated values
// back, subject to the profile's return-clause style.
func (b *Builder) Insert(records []schema.Record, withReturn bool) (*template.Template, error) {
	if len(records) == 0 {
		return nil, errors.New("query: empty insert batch")
	}
	tbl, err := sameTable(records)
	if err != nil {
		return nil, err
	}
	if len(records) > 1 && !b.profile.Supports(dialect.BatchInsert) {
		return nil, &dberr.UnsupportedFeatureError{Dialect: b.profile.Name(), Feature: dialect.BatchInsert.String()}
	}

	cols := unionChangedColumns(tbl, records)
	if len(cols) == 0 {
		cols = tbl.PrimaryKey().Columns()
	}

	colList := template.New()
	for i, c := range cols {
		if i > 0 {
			colList.WriteString(", ")
		}
		colList.WriteIdent(c)
	}

	t, err := template.Compile("INSERT INTO #1# (#2#)", tbl.Ref(), colList)
	if err != nil {
		return nil, err
	}
	if withReturn && b.profile.ReturnClauseStyle() == dialect.OutputPrefix {
		t.WriteString(" OUTPUT INSERTED.*")
	}
	t.WriteString(" VALUES ")
	for i, rec := range records {
		if i > 0 {
			t.WriteString(", ")
		}
		t.WriteString("(")
		for j, c := range cols {
			if j > 0 {
				t.WriteString(", ")
			}
			if v, ok := rec.Get(c); ok {
				t.WriteParam(v)
			} else {
				t.WriteString("DEFAULT")
			}
		}
		t.WriteString(")")
	}
	if withReturn && b.profile.ReturnClauseStyle() == dialect.ReturnSuffix {
		t.WriteString(" RETURNING *")
	}
	return t, nil
}

// Update builds UPDATE t SET ... WHERE key, emitting SET entries only for
// changed, non-immutable columns. kv holds the key's current values.
func (b *Builder) Update(rec schema.Record, kv schema.CompositeValue, withReturn bool) (*template.Template, error) {
	tbl := rec.Table()
	set := template.New()
	for _, col := range tbl.Columns() {
		if col.Immutable || !rec.Changed(col.Name) {
			continue
		}
		v, ok := rec.Get(col.Name)
		if !ok {
			continue
		}
		if !set.Empty() {
			set.WriteString(", ")
		}
		set.WriteIdent(col.Name)
		set.WriteString(" = ")
		set.WriteParam(v)
	}
	if set.Empty() {
		return nil, ErrNoChangedColumns
	}
	t, err := template.Compile("UPDATE #1# SET #2#", tbl.Ref(), set)
	if err != nil {
		return nil, err
	}
	if withReturn && b.profile.ReturnClauseStyle() == dialect.OutputPrefix {
		t.WriteString(" OUTPUT INSERTED.*")
	}
	t.WriteString(" WHERE ").Append(keyEquals(kv))
	if withReturn && b.profile.ReturnClauseStyle() == dialect.ReturnSuffix {
		t.WriteString(" RETURNING *")
	}
	return t, nil
}

// keyEquals renders k1 = v1 [AND k2 = v2 ...] for a bound key.
func keyEquals(kv schema.CompositeValue) *template.Template {
	t := template.New()
	cols := kv.Key().Columns()
	vals := kv.Values()
	for i, c := range cols {
		if i > 0 {
			t.WriteString(" AND ")
		}
		t.WriteIdent(c)
		t.WriteString(" = ")
		t.WriteParam(vals[i])
	}
	return t
}

// sameTable verifies the batch maps to a single table.
func sameTable(records []schema.Record) (*schema.Table, error) {
	tbl := records[0].Table()
	for _, r := range records[1:] {
		if r.Table() != tbl {
			return nil, &dberr.HeterogeneousBatchError{
				Expected: tbl.Ref().String(),
				Got:      r.Table().Ref().String(),
			}
		}
	}
	return tbl, nil
}

// unionChangedColumns collects, in declaration order, every column marked
// changed on at least one record of the batch.
func unionChangedColumns(tbl *schema.Table, records []schema.Record) []string {
	var out []string
	for _, col := range tbl.Columns() {
		for _, rec := range records {
			if rec.Changed(col.Name) {
				out = append(out, col.Name)
				break
			}
		}
	}
	return out
}
