// Package dberr defines the error taxonomy shared by the template compiler,
// query builders and the statement classifier.
package dberr

import (
	"errors"
	"fmt"
)

// Kind is the closed classification of a constraint-related database error.
type Kind int

const (
	KindUnknown Kind = iota
	KindForeignKey
	KindUnique
	KindCheck
	KindDeadlock
	KindLockTimeout
)

// String returns the canonical name of the kind.
func (k Kind) String() string {
	switch k {
	case KindForeignKey:
		return "foreign_key_violation"
	case KindUnique:
		return "unique_violation"
	case KindCheck:
		return "check_violation"
	case KindDeadlock:
		return "deadlock_detected"
	case KindLockTimeout:
		return "lock_timeout"
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is matching against classified violations.
var (
	ErrForeignKeyViolation = errors.New("querykit: foreign key violation")
	ErrUniqueViolation     = errors.New("querykit: unique violation")
	ErrCheckViolation      = errors.New("querykit: check violation")
	ErrDeadlockDetected    = errors.New("querykit: deadlock detected")
	ErrLockTimeout         = errors.New("querykit: lock timeout")
)

// sentinelOf maps a kind to its sentinel, or nil for KindUnknown.
func sentinelOf(k Kind) error {
	switch k {
	case KindForeignKey:
		return ErrForeignKeyViolation
	case KindUnique:
		return ErrUniqueViolation
	case KindCheck:
		return ErrCheckViolation
	case KindDeadlock:
		return ErrDeadlockDetected
	case KindLockTimeout:
		return ErrLockTimeout
	default:
		return nil
	}
}

// ViolationError is a database error classified to one of the closed kinds.
// It carries the statement text that triggered the violation together with
// the original driver error, so the failure can be diagnosed without
// re-running the query.
type ViolationError struct {
	Kind Kind
	Stmt string
	Err  error
}

// Error returns the error string.
func (e *ViolationError) Error() string {
	return fmt.Sprintf("querykit: %s on %q: %v", e.Kind, e.Stmt, e.Err)
}

// Unwrap returns the original driver error.
func (e *ViolationError) Unwrap() error { return e.Err }

// Is reports whether the target matches this violation's sentinel.
func (e *ViolationError) Is(target error) bool {
	return target == sentinelOf(e.Kind)
}

// StatementError wraps an execution failure that could not be classified.
type StatementError struct {
	Stmt string
	Err  error
}

// Error returns the error string.
func (e *StatementError) Error() string {
	return fmt.Sprintf("querykit: statement failed: %q: %v", e.Stmt, e.Err)
}

// Unwrap returns the original driver error.
func (e *StatementError) Unwrap() error { return e.Err }

// MalformedTemplateError reports a template parse or resolution failure.
// Snippet holds the offending region of the template source.
type MalformedTemplateError struct {
	Snippet string
	Reason  string
}

// Error returns the error string.
func (e *MalformedTemplateError) Error() string {
	return fmt.Sprintf("querykit: malformed template near %q: %s", e.Snippet, e.Reason)
}

// Malformed constructs a MalformedTemplateError.
func Malformed(snippet, format string, args ...any) error {
	return &MalformedTemplateError{Snippet: snippet, Reason: fmt.Sprintf(format, args...)}
}

// UnsupportedFeatureError reports a statement shape that needs a dialect
// feature the active connection's product does not have. Callers may fall
// back to a per-record issuance strategy.
type UnsupportedFeatureError struct {
	Dialect string
	Feature string
}

// Error returns the error string.
func (e *UnsupportedFeatureError) Error() string {
	return fmt.Sprintf("querykit: dialect %s does not support %s", e.Dialect, e.Feature)
}

// HeterogeneousBatchError reports a batch operation spanning more than one
// table mapping.
type HeterogeneousBatchError struct {
	Expected string
	Got      string
}

// Error returns the error string.
func (e *HeterogeneousBatchError) Error() string {
	return fmt.Sprintf("querykit: heterogeneous batch: expected table %s, got %s", e.Expected, e.Got)
}

// UnquotableIdentifierError reports an identifier that cannot be rendered
// because the dialect has no quote character and the name contains
// characters outside its unquoted-identifier set.
type UnquotableIdentifierError struct {
	Dialect string
	Name    string
}

// Error returns the error string.
func (e *UnquotableIdentifierError) Error() string {
	return fmt.Sprintf("querykit: identifier %q cannot be quoted on dialect %s", e.Name, e.Dialect)
}

// InvalidIdentifierError reports an identifier containing the dialect's own
// quote character. No escaping scheme is assumed safe.
type InvalidIdentifierError struct {
	Dialect string
	Name    string
}

// Error returns the error string.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("querykit: identifier %q contains the quote character of dialect %s", e.Name, e.Dialect)
}

// UnsupportedCompositeReferenceError reports a row-lookup placeholder that
// referenced the record's own primary key while that key is composite.
type UnsupportedCompositeReferenceError struct {
	Table string
}

// Error returns the error string.
func (e *UnsupportedCompositeReferenceError) Error() string {
	return fmt.Sprintf("querykit: table %s has a composite primary key; cannot reference it as a scalar", e.Table)
}
