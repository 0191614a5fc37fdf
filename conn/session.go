// Package conn is the execution boundary: it finalizes templates against
// the connection's dialect profile, hands the SQL to database/sql, and
// reclassifies any raised driver error before it surfaces.
package conn

import (
	"context"
	"database/sql"

	"github.com/Konsultn-Engineering/querykit/cache"
	"github.com/Konsultn-Engineering/querykit/dberr"
	"github.com/Konsultn-Engineering/querykit/dialect"
	"github.com/Konsultn-Engineering/querykit/schema"
	"github.com/Konsultn-Engineering/querykit/template"
)

// ExecQuerier is the minimal execution surface, satisfied by *Session and
// *Tx. Operations that may run inside or outside a transaction take one
// explicitly.
type ExecQuerier interface {
	Exec(ctx context.Context, t *template.Template) (sql.Result, error)
	Query(ctx context.Context, t *template.Template) (*sql.Rows, error)
}

// Session binds a database handle to a dialect profile, an identifier
// interner and the finalized-SQL and prepared-statement caches. A session
// may be shared across goroutines; the profile and interner are safe for
// concurrent reads.
type Session struct {
	db       *sql.DB
	profile  *dialect.Profile
	interner *schema.Interner
	queries  *cache.QueryCache
	stmts    *cache.StatementCache
}

// NewSession wraps an open database handle with the given profile.
func NewSession(db *sql.DB, p *dialect.Profile) *Session {
	return newSession(db, p, Config{}.withDefaults())
}

func newSession(db *sql.DB, p *dialect.Profile, cfg Config) *Session {
	return &Session{
		db:       db,
		profile:  p,
		interner: schema.NewInterner(),
		queries:  cache.NewQueryCache(cfg.QueryCacheSize),
		stmts:    cache.NewStatementCache(cfg.StmtCacheSize),
	}
}

// Profile returns the session's dialect profile.
func (s *Session) Profile() *dialect.Profile { return s.profile }

// Interner returns the session-owned identifier interner. Composite keys
// used with this session should be built against it.
func (s *Session) Interner() *schema.Interner { return s.interner }

// DB returns the underlying handle.
func (s *Session) DB() *sql.DB { return s.db }

// Close closes the prepared statements and the database handle.
func (s *Session) Close() error {
	s.stmts.Close()
	return s.db.Close()
}

// finalize renders the template, memoizing the SQL text by the template's
// fingerprint. Parameters are collected fresh on every call.
func (s *Session) finalize(t *template.Template) (string, []any, error) {
	fp := t.Fingerprint()
	if sqlText, ok := s.queries.Get(fp); ok {
		return sqlText, t.Params(), nil
	}
	sqlText, args, err := template.Finalize(t, s.profile)
	if err != nil {
		return "", nil, err
	}
	s.queries.Set(fp, sqlText)
	return sqlText, args, nil
}

// Exec finalizes and executes the template through a cached prepared
// statement. Driver errors come back classified.
func (s *Session) Exec(ctx context.Context, t *template.Template) (sql.Result, error) {
	sqlText, args, err := s.finalize(t)
	if err != nil {
		return nil, err
	}
	stmt, err := s.stmts.GetOrPrepare(ctx, t.Fingerprint(), s.db, sqlText)
	if err != nil {
		return nil, dberr.Classify(s.profile, sqlText, err)
	}
	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, dberr.Classify(s.profile, sqlText, err)
	}
	return res, nil
}

// Query finalizes and runs the template through a cached prepared
// statement, returning the rows. Driver errors come back classified.
// Rows stay valid if the statement is evicted while they are open;
// database/sql keeps the underlying statement alive until they close.
func (s *Session) Query(ctx context.Context, t *template.Template) (*sql.Rows, error) {
	sqlText, args, err := s.finalize(t)
	if err != nil {
		return nil, err
	}
	stmt, err := s.stmts.GetOrPrepare(ctx, t.Fingerprint(), s.db, sqlText)
	if err != nil {
		return nil, dberr.Classify(s.profile, sqlText, err)
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return nil, dberr.Classify(s.profile, sqlText, err)
	}
	return rows, nil
}

// Begin starts a transaction and returns its guard. The guard is the only
// handle on the transaction: there is no ambient per-goroutine state, and
// it is consumed by Commit or Rollback.
func (s *Session) Begin(ctx context.Context) (*Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx, session: s}, nil
}

// Tx is an explicit transaction guard. Operations scoped to the
// transaction go through its Exec/Query; Commit or Rollback consume it.
type Tx struct {
	tx      *sql.Tx
	session *Session
}

// Exec finalizes and executes the template inside the transaction.
func (t *Tx) Exec(ctx context.Context, tpl *template.Template) (sql.Result, error) {
	sqlText, args, err := t.session.finalize(tpl)
	if err != nil {
		return nil, err
	}
	res, err := t.tx.ExecContext(ctx, sqlText, args...)
	if err != nil {
		return nil, dberr.Classify(t.session.profile, sqlText, err)
	}
	return res, nil
}

// Query finalizes and runs the template inside the transaction. The
// session's statement cache holds connection-scoped statements, which a
// transaction cannot reuse, so transactional statements run unprepared.
func (t *Tx) Query(ctx context.Context, tpl *template.Template) (*sql.Rows, error) {
	sqlText, args, err := t.session.finalize(tpl)
	if err != nil {
		return nil, err
	}
	rows, err := t.tx.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, dberr.Classify(t.session.profile, sqlText, err)
	}
	return rows, nil
}

// Commit commits the transaction, consuming the guard.
func (t *Tx) Commit() error { return t.tx.Commit() }

// Rollback aborts the transaction, consuming the guard.
func (t *Tx) Rollback() error { return t.tx.Rollback() }

var (
	_ ExecQuerier = (*Session)(nil)
	_ ExecQuerier = (*Tx)(nil)
)
