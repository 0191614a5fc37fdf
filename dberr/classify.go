package dberr

import (
	"errors"
	"strconv"

	"github.com/go-sql-driver/mysql"
)

// Table is the dialect-owned lookup consulted during classification.
// It is implemented by dialect.Profile; dberr stays free of dialect imports
// so both packages can be used independently.
type Table interface {
	// ClassifyState maps a five-character SQLSTATE to a kind.
	ClassifyState(state string) Kind
	// ClassifyCode maps a vendor numeric error code to a kind.
	ClassifyCode(code int) Kind
	// Refine gives the dialect a chance to adjust a classified kind based
	// on the driver's message text. Profiles without a refinement return
	// the kind unchanged.
	Refine(k Kind, message string) Kind
}

// sqlStater is implemented by pq.Error and pgx's pgconn.PgError.
type sqlStater interface {
	SQLState() string
}

// numberer is implemented by drivers exposing numeric codes as a method
// (the SQL Server drivers, among others). The mysql driver exposes its
// number as a struct field instead and is probed concretely below.
type numberer interface {
	Number() uint16
}

// coder is implemented by drivers that expose string codes (pq.Error.Code
// via its Code field's Name method differs; sqlite drivers expose Code()).
type coder interface {
	Code() string
}

// Classify translates a raised execution error into a typed violation error
// carrying the offending statement text. Classification is idempotent:
// already-typed errors pass through unchanged. A nil err returns nil;
// errors that match no table entry come back wrapped in a StatementError.
func Classify(t Table, stmt string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ViolationError
	if errors.As(err, &ve) {
		return err
	}
	var se *StatementError
	if errors.As(err, &se) {
		return err
	}

	kind := KindUnknown
	if e, ok := probe[sqlStater](err); ok {
		kind = t.ClassifyState(e.SQLState())
	}
	if kind == KindUnknown {
		if e, ok := probe[numberer](err); ok {
			kind = t.ClassifyCode(int(e.Number()))
		}
	}
	if kind == KindUnknown {
		var me *mysql.MySQLError
		if errors.As(err, &me) {
			kind = t.ClassifyCode(int(me.Number))
		}
	}
	if kind == KindUnknown {
		if e, ok := probe[coder](err); ok {
			code := e.Code()
			if n, nerr := strconv.Atoi(code); nerr == nil {
				kind = t.ClassifyCode(n)
			} else {
				kind = t.ClassifyState(code)
			}
		}
	}
	kind = t.Refine(kind, err.Error())

	if kind == KindUnknown {
		return &StatementError{Stmt: stmt, Err: err}
	}
	return &ViolationError{Kind: kind, Stmt: stmt, Err: err}
}

// probe walks the Unwrap chain looking for an error implementing T.
func probe[T any](err error) (T, bool) {
	for err != nil {
		if e, ok := err.(T); ok {
			return e, true
		}
		err = errors.Unwrap(err)
	}
	var zero T
	return zero, false
}
