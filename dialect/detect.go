package dialect

import "strings"

// Detect builds a profile from live-connection metadata: the reported
// product name and server major/minor version. Unrecognized products get
// the generic profile.
func Detect(product string, major, minor int) *Profile {
	switch {
	case containsFold(product, "postgres"):
		return Postgres(major, minor)
	case containsFold(product, "mysql"), containsFold(product, "mariadb"):
		return MySQL(major, minor)
	case containsFold(product, "sql server"), containsFold(product, "sqlserver"), containsFold(product, "mssql"):
		return SQLServer(major, minor)
	case containsFold(product, "sqlite"):
		return SQLite(major, minor)
	default:
		return Generic()
	}
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), sub)
}
