package dialect

import "github.com/Konsultn-Engineering/querykit/dberr"

// SQLite returns the profile for SQLite at the given library version.
// RETURNING is available from 3.35. Codes are the extended result codes;
// the primary SQLITE_BUSY/SQLITE_LOCKED codes map to lock timeouts since
// SQLite has no deadlock detector distinct from its busy handler.
func SQLite(major, minor int) *Profile {
	returning := ReturnNone
	if major > 3 || (major == 3 && minor >= 35) {
		returning = ReturnSuffix
	}
	return &Profile{
		name:  "sqlite",
		quote: '"',
		features: map[Feature]bool{
			RowValues:   true,
			BatchInsert: true,
		},
		returnStyle: returning,
		nowExpr:     "CURRENT_TIMESTAMP",
		placeholder: questionPlaceholder,
		states:      map[string]dberr.Kind{},
		codes: map[int]dberr.Kind{
			787:  dberr.KindForeignKey, // SQLITE_CONSTRAINT_FOREIGNKEY
			1555: dberr.KindUnique,     // SQLITE_CONSTRAINT_PRIMARYKEY
			2067: dberr.KindUnique,     // SQLITE_CONSTRAINT_UNIQUE
			275:  dberr.KindCheck,      // SQLITE_CONSTRAINT_CHECK
			5:    dberr.KindLockTimeout,
			6:    dberr.KindLockTimeout,
		},
	}
}
