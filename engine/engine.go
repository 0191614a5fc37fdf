// Package engine ties the pieces together into a small CRUD surface:
// statements are built from table metadata, executed through an explicit
// session or transaction guard, and driver errors surface classified.
package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Konsultn-Engineering/querykit/conn"
	"github.com/Konsultn-Engineering/querykit/query"
	"github.com/Konsultn-Engineering/querykit/schema"
)

// Engine drives the query builders for one session. It holds no mutable
// state beyond the generator registry and may be shared across goroutines.
type Engine struct {
	session    *conn.Session
	builder    *query.Builder
	generators *schema.GeneratorRegistry
}

// New returns an engine over the session.
func New(s *conn.Session) *Engine {
	return &Engine{
		session:    s,
		builder:    query.New(s.Profile()),
		generators: schema.NewGeneratorRegistry(),
	}
}

// Session returns the engine's session.
func (e *Engine) Session() *conn.Session { return e.session }

// Builder returns the engine's statement builder.
func (e *Engine) Builder() *query.Builder { return e.builder }

// Generators returns the registry used to fill generated key columns on
// insert. Custom generators may be registered before first use.
func (e *Engine) Generators() *schema.GeneratorRegistry { return e.generators }

// Find runs a select by key value. A nil kv selects the whole table.
// The caller owns the returned rows.
func (e *Engine) Find(ctx context.Context, ex conn.ExecQuerier, tbl *schema.Table, kv *schema.CompositeValue) (*sql.Rows, error) {
	t, err := e.builder.SelectByValue(tbl, kv)
	if err != nil {
		return nil, err
	}
	return ex.Query(ctx, t)
}

// FindAll runs a select by key list.
func (e *Engine) FindAll(ctx context.Context, ex conn.ExecQuerier, tbl *schema.Table, key schema.CompositeKey, values []schema.CompositeValue) (*sql.Rows, error) {
	t, err := e.builder.SelectByKeyList(tbl, key, values)
	if err != nil {
		return nil, err
	}
	return ex.Query(ctx, t)
}

// Delete removes rows matching the key value and reports how many went.
func (e *Engine) Delete(ctx context.Context, ex conn.ExecQuerier, tbl *schema.Table, kv *schema.CompositeValue) (int64, error) {
	t, err := e.builder.DeleteByValue(tbl, kv)
	if err != nil {
		return 0, err
	}
	res, err := ex.Exec(ctx, t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Insert writes the batch in one statement, filling generated key columns
// first. No generated values are requested back; use InsertReturning when
// the dialect can hand them back.
func (e *Engine) Insert(ctx context.Context, ex conn.ExecQuerier, records ...schema.Record) error {
	if err := e.fillGenerated(records); err != nil {
		return err
	}
	t, err := e.builder.Insert(records, false)
	if err != nil {
		return err
	}
	_, err = ex.Exec(ctx, t)
	return err
}

// InsertReturning writes the batch and returns the rows produced by the
// dialect's RETURNING/OUTPUT clause. The caller owns the rows.
func (e *Engine) InsertReturning(ctx context.Context, ex conn.ExecQuerier, records ...schema.Record) (*sql.Rows, error) {
	if err := e.fillGenerated(records); err != nil {
		return nil, err
	}
	t, err := e.builder.Insert(records, true)
	if err != nil {
		return nil, err
	}
	return ex.Query(ctx, t)
}

// Update flushes the record's changed, mutable columns, keyed by the
// supplied current key value.
func (e *Engine) Update(ctx context.Context, ex conn.ExecQuerier, rec schema.Record, kv schema.CompositeValue) (int64, error) {
	t, err := e.builder.Update(rec, kv, false)
	if err != nil {
		return 0, err
	}
	res, err := ex.Exec(ctx, t)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// fillGenerated produces default values for generator-declared columns on
// records that carry none and can accept one.
func (e *Engine) fillGenerated(records []schema.Record) error {
	for _, rec := range records {
		target, ok := rec.(schema.Generated)
		if !ok {
			continue
		}
		for _, col := range rec.Table().Columns() {
			if col.Generator == "" {
				continue
			}
			if _, has := rec.Get(col.Name); has {
				continue
			}
			gen, ok := e.generators.Get(col.Generator)
			if !ok {
				return fmt.Errorf("engine: table %s column %s names unknown generator %q",
					rec.Table().Ref(), col.Name, col.Generator)
			}
			v, err := gen.Generate()
			if err != nil {
				return err
			}
			target.SetGenerated(col.Name, v)
		}
	}
	return nil
}
