package dialect

import "github.com/Konsultn-Engineering/querykit/dberr"

// Postgres returns the profile for PostgreSQL at the given server version.
// RETURNING is available from 8.2 onward.
func Postgres(major, minor int) *Profile {
	returning := ReturnNone
	if major > 8 || (major == 8 && minor >= 2) {
		returning = ReturnSuffix
	}
	return &Profile{
		name:  "postgres",
		quote: '"',
		features: map[Feature]bool{
			RowValues:   true,
			BatchInsert: true,
			BatchUpdate: true,
		},
		returnStyle: returning,
		nowExpr:     "now()",
		placeholder: dollarPlaceholder,
		states: map[string]dberr.Kind{
			"23503": dberr.KindForeignKey,
			"23505": dberr.KindUnique,
			"23514": dberr.KindCheck,
			"40P01": dberr.KindDeadlock,
			"55P03": dberr.KindLockTimeout,
		},
		codes: map[int]dberr.Kind{},
	}
}
