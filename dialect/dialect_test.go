package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Konsultn-Engineering/querykit/dberr"
)

// unquoted is a profile with no quote character, for exercising the
// unquotable-identifier path.
func unquoted() *Profile {
	p := Generic()
	p.quote = 0
	p.extraIdent = "$"
	return p
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		ident   string
		want    string
		wantErr any
	}{
		{"generic quotes", Generic(), "email", `"email"`, nil},
		{"mysql backticks", MySQL(8, 0), "email", "`email`", nil},
		{"quote char inside name", Generic(), `a"b`, "", &dberr.InvalidIdentifierError{}},
		{"backtick inside name", MySQL(8, 0), "a`b", "", &dberr.InvalidIdentifierError{}},
		{"no quote char, plain name", unquoted(), "order_total$", "order_total$", nil},
		{"no quote char, odd name", unquoted(), "order total", "", &dberr.UnquotableIdentifierError{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.profile.QuoteIdentifier(tt.ident)
			switch want := tt.wantErr.(type) {
			case *dberr.InvalidIdentifierError:
				require.ErrorAs(t, err, &want)
			case *dberr.UnquotableIdentifierError:
				require.ErrorAs(t, err, &want)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFeatureSupport(t *testing.T) {
	assert.True(t, Postgres(15, 0).Supports(RowValues))
	assert.True(t, Postgres(15, 0).Supports(BatchUpdate))
	assert.True(t, MySQL(8, 0).Supports(RowValues))
	assert.False(t, MySQL(8, 0).Supports(BatchUpdate))
	assert.False(t, SQLServer(15, 0).Supports(RowValues))
	assert.False(t, Generic().Supports(RowValues))
	assert.True(t, Generic().Supports(BatchInsert))
}

func TestReturnClauseStyle(t *testing.T) {
	assert.Equal(t, ReturnSuffix, Postgres(15, 0).ReturnClauseStyle())
	assert.Equal(t, ReturnNone, Postgres(8, 1).ReturnClauseStyle())
	assert.Equal(t, ReturnNone, MySQL(8, 0).ReturnClauseStyle())
	assert.Equal(t, OutputPrefix, SQLServer(15, 0).ReturnClauseStyle())
	assert.Equal(t, ReturnNone, SQLServer(8, 0).ReturnClauseStyle())
	assert.Equal(t, ReturnSuffix, SQLite(3, 40).ReturnClauseStyle())
	assert.Equal(t, ReturnNone, SQLite(3, 31).ReturnClauseStyle())
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$3", Postgres(15, 0).Placeholder(3))
	assert.Equal(t, "?", MySQL(8, 0).Placeholder(3))
	assert.Equal(t, "@p3", SQLServer(15, 0).Placeholder(3))
}

func TestClassifyTables(t *testing.T) {
	pg := Postgres(15, 0)
	assert.Equal(t, dberr.KindUnique, pg.ClassifyState("23505"))
	assert.Equal(t, dberr.KindForeignKey, pg.ClassifyState("23503"))
	assert.Equal(t, dberr.KindDeadlock, pg.ClassifyState("40P01"))
	assert.Equal(t, dberr.KindUnknown, pg.ClassifyState("99999"), "unknown states never fail")

	my := MySQL(8, 0)
	assert.Equal(t, dberr.KindUnique, my.ClassifyCode(1062))
	assert.Equal(t, dberr.KindLockTimeout, my.ClassifyCode(1205))
	assert.Equal(t, dberr.KindUnknown, my.ClassifyCode(42))
}

func TestSQLServerRefinement(t *testing.T) {
	ms := SQLServer(15, 0)

	fkMsg := "The INSERT statement conflicted with the FOREIGN KEY constraint \"FK_orders_users\"."
	assert.Equal(t, dberr.KindForeignKey, ms.Refine(dberr.KindCheck, fkMsg))

	checkMsg := "The INSERT statement conflicted with the CHECK constraint \"CK_age\"."
	assert.Equal(t, dberr.KindCheck, ms.Refine(dberr.KindCheck, checkMsg))

	// Refinement only touches check classifications.
	assert.Equal(t, dberr.KindUnique, ms.Refine(dberr.KindUnique, fkMsg))

	// Deployments on localized drivers can disable the shim.
	off := ms.WithoutRefinement()
	assert.Equal(t, dberr.KindCheck, off.Refine(dberr.KindCheck, fkMsg))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		product string
		want    string
	}{
		{"PostgreSQL", "postgres"},
		{"MySQL Community Server", "mysql"},
		{"MariaDB", "mysql"},
		{"Microsoft SQL Server", "sqlserver"},
		{"SQLite", "sqlite"},
		{"FoobarDB", "generic"},
	}
	for _, tt := range tests {
		t.Run(tt.product, func(t *testing.T) {
			assert.Equal(t, tt.want, Detect(tt.product, 15, 0).Name())
		})
	}
}
