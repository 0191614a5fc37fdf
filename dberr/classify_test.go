package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querykit/dberr"
	"github.com/Konsultn-Engineering/querykit/dialect"
)

// numberedError mimics drivers exposing a numeric code as a method.
type numberedError struct {
	number  uint16
	message string
}

func (e *numberedError) Error() string  { return e.message }
func (e *numberedError) Number() uint16 { return e.number }

func TestClassify_Postgres(t *testing.T) {
	pg := dialect.Postgres(15, 0)
	tests := []struct {
		name     string
		state    string
		sentinel error
	}{
		{"unique", "23505", dberr.ErrUniqueViolation},
		{"foreign key", "23503", dberr.ErrForeignKeyViolation},
		{"check", "23514", dberr.ErrCheckViolation},
		{"deadlock", "40P01", dberr.ErrDeadlockDetected},
		{"lock timeout", "55P03", dberr.ErrLockTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := &pq.Error{Code: pq.ErrorCode(tt.state), Message: "constraint trouble"}
			err := dberr.Classify(pg, "INSERT INTO t VALUES ($1)", raw)

			assert.ErrorIs(t, err, tt.sentinel)
			var verr *dberr.ViolationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "INSERT INTO t VALUES ($1)", verr.Stmt)
			assert.ErrorIs(t, err, raw, "original driver error stays reachable")
		})
	}
}

func TestClassify_MySQLNumericCodes(t *testing.T) {
	my := dialect.MySQL(8, 0)

	raw := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'x' for key 'users.email'"}
	err := dberr.Classify(my, "INSERT INTO users ...", raw)
	assert.ErrorIs(t, err, dberr.ErrUniqueViolation)

	raw = &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	err = dberr.Classify(my, "UPDATE users ...", raw)
	assert.ErrorIs(t, err, dberr.ErrDeadlockDetected)
}

func TestClassify_SQLServerCheckRefinement(t *testing.T) {
	ms := dialect.SQLServer(15, 0)

	t.Run("547 with foreign key message", func(t *testing.T) {
		raw := &numberedError{547, `The UPDATE statement conflicted with the FOREIGN KEY constraint "FK_orders_users".`}
		err := dberr.Classify(ms, "UPDATE orders ...", raw)
		assert.ErrorIs(t, err, dberr.ErrForeignKeyViolation)
		assert.NotErrorIs(t, err, dberr.ErrCheckViolation)
	})

	t.Run("547 with check message", func(t *testing.T) {
		raw := &numberedError{547, `The INSERT statement conflicted with the CHECK constraint "CK_age".`}
		err := dberr.Classify(ms, "INSERT INTO people ...", raw)
		assert.ErrorIs(t, err, dberr.ErrCheckViolation)
	})

	t.Run("shim disabled", func(t *testing.T) {
		raw := &numberedError{547, `The UPDATE statement conflicted with the FOREIGN KEY constraint "FK".`}
		err := dberr.Classify(ms.WithoutRefinement(), "UPDATE orders ...", raw)
		assert.ErrorIs(t, err, dberr.ErrCheckViolation)
	})
}

func TestClassify_WrappedErrors(t *testing.T) {
	pg := dialect.Postgres(15, 0)
	raw := fmt.Errorf("exec: %w", &pq.Error{Code: "23505"})
	err := dberr.Classify(pg, "INSERT ...", raw)
	assert.ErrorIs(t, err, dberr.ErrUniqueViolation)
}

func TestClassify_Idempotent(t *testing.T) {
	pg := dialect.Postgres(15, 0)
	first := dberr.Classify(pg, "INSERT ...", &pq.Error{Code: "23505"})
	second := dberr.Classify(pg, "INSERT ...", first)
	assert.Same(t, first, second, "already-typed errors pass through unchanged")
}

func TestClassify_UnknownFallsBackToStatementError(t *testing.T) {
	pg := dialect.Postgres(15, 0)
	raw := errors.New("connection reset by peer")

	err := dberr.Classify(pg, "SELECT 1", raw)
	var serr *dberr.StatementError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, "SELECT 1", serr.Stmt)
	assert.ErrorIs(t, err, raw)

	// And a second pass stays a StatementError, not double-wrapped.
	again := dberr.Classify(pg, "SELECT 1", err)
	assert.Same(t, err, again)
}

func TestClassify_Nil(t *testing.T) {
	assert.NoError(t, dberr.Classify(dialect.Generic(), "SELECT 1", nil))
}
