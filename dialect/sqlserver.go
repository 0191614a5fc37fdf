package dialect

import (
	"regexp"
	"strconv"

	"github.com/Konsultn-Engineering/querykit/dberr"
)

// Error 547 covers both CHECK and FOREIGN KEY constraint conflicts; only
// the message text tells them apart. This is a known-fragile shim over
// driver message text that may be localized — see Profile.WithoutRefinement.
var mssqlFKMessage = regexp.MustCompile(`^The [A-Z ]+ statement conflicted with the FOREIGN KEY constraint`)

// SQLServer returns the profile for Microsoft SQL Server at the given
// version. The OUTPUT clause is available from SQL Server 2005 (major 9).
func SQLServer(major, minor int) *Profile {
	returning := ReturnNone
	if major >= 9 {
		returning = OutputPrefix
	}
	return &Profile{
		name:  "sqlserver",
		quote: '"',
		features: map[Feature]bool{
			BatchInsert: true,
		},
		returnStyle: returning,
		nowExpr:     "GETDATE()",
		placeholder: func(n int) string { return "@p" + strconv.Itoa(n) },
		states:      map[string]dberr.Kind{},
		codes: map[int]dberr.Kind{
			547:  dberr.KindCheck, // constraint conflict; refined below
			2601: dberr.KindUnique,
			2627: dberr.KindUnique,
			1205: dberr.KindDeadlock,
			1222: dberr.KindLockTimeout,
		},
		refine: func(k dberr.Kind, message string) dberr.Kind {
			if k == dberr.KindCheck && mssqlFKMessage.MatchString(message) {
				return dberr.KindForeignKey
			}
			return k
		},
	}
}
