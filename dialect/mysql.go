package dialect

import "github.com/Konsultn-Engineering/querykit/dberr"

// MySQL returns the profile for MySQL/MariaDB. MySQL proper has no
// RETURNING clause at any version; classification is by numeric error
// number (the driver's SQLSTATE is too coarse to split deadlock from
// lock-wait timeout).
func MySQL(major, minor int) *Profile {
	return &Profile{
		name:       "mysql",
		quote:      '`',
		extraIdent: "$",
		features: map[Feature]bool{
			RowValues:   true,
			BatchInsert: true,
		},
		returnStyle: ReturnNone,
		nowExpr:     "NOW()",
		placeholder: questionPlaceholder,
		states:      map[string]dberr.Kind{},
		codes: map[int]dberr.Kind{
			1062: dberr.KindUnique,      // ER_DUP_ENTRY
			1451: dberr.KindForeignKey,  // ER_ROW_IS_REFERENCED_2
			1452: dberr.KindForeignKey,  // ER_NO_REFERENCED_ROW_2
			3819: dberr.KindCheck,       // ER_CHECK_CONSTRAINT_VIOLATED
			1213: dberr.KindDeadlock,    // ER_LOCK_DEADLOCK
			1205: dberr.KindLockTimeout, // ER_LOCK_WAIT_TIMEOUT
		},
	}
}
