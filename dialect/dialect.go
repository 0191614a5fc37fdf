// Package dialect holds the per-database-product profiles: identifier
// quoting rules, feature support, RETURNING/OUTPUT style, placeholder
// rendering and the vendor error-code tables used for violation
// classification.
package dialect

import (
	"strconv"
	"strings"

	"github.com/Konsultn-Engineering/querykit/dberr"
)

// Feature is a statement capability a profile may or may not support.
type Feature int

const (
	// RowValues is row-wise comparison: WHERE (a, b) IN ((1, 2), (3, 4)).
	RowValues Feature = iota
	// BatchInsert is multi-row VALUES in a single INSERT.
	BatchInsert
	// BatchUpdate is multi-row update in a single statement.
	BatchUpdate
)

// String returns the feature name.
func (f Feature) String() string {
	switch f {
	case RowValues:
		return "row-wise comparison"
	case BatchInsert:
		return "batch insert"
	case BatchUpdate:
		return "batch update"
	default:
		return "feature(" + strconv.Itoa(int(f)) + ")"
	}
}

// ReturnStyle says how (or whether) a profile hands generated values back
// from an INSERT or UPDATE.
type ReturnStyle int

const (
	// ReturnNone means the product cannot return generated values.
	ReturnNone ReturnStyle = iota
	// ReturnSuffix appends a RETURNING clause after the statement.
	ReturnSuffix
	// OutputPrefix inserts an OUTPUT clause before VALUES/WHERE (SQL Server).
	OutputPrefix
)

// Profile is the immutable configuration for one database product.
// Construct one per live connection and share it freely; it is never
// mutated after construction.
type Profile struct {
	name string

	// quote is the identifier quote character, or 0 when the product has
	// none, in which case identifiers outside the unquoted set hard-fail.
	quote      rune
	extraIdent string

	features    map[Feature]bool
	returnStyle ReturnStyle
	nowExpr     string

	// placeholder renders the n-th (1-based) positional parameter.
	placeholder func(n int) string

	states map[string]dberr.Kind
	codes  map[int]dberr.Kind
	refine func(dberr.Kind, string) dberr.Kind
}

// Name returns the product name (postgres, mysql, sqlserver, sqlite, generic).
func (p *Profile) Name() string { return p.name }

// Supports reports whether the profile has the given feature.
func (p *Profile) Supports(f Feature) bool { return p.features[f] }

// ReturnClauseStyle reports how generated values come back, if at all.
func (p *Profile) ReturnClauseStyle() ReturnStyle { return p.returnStyle }

// Now returns the product's current-timestamp expression.
func (p *Profile) Now() string { return p.nowExpr }

// Placeholder renders the n-th (1-based) positional parameter marker.
func (p *Profile) Placeholder(n int) string { return p.placeholder(n) }

// QuoteIdentifier returns the quoted form of name. Products without a quote
// character accept only [A-Za-z0-9_] plus their extra allowed characters;
// anything else fails with UnquotableIdentifierError. Products with a quote
// character reject names already containing it with InvalidIdentifierError,
// since no escaping scheme is assumed safe across drivers.
func (p *Profile) QuoteIdentifier(name string) (string, error) {
	if p.quote == 0 {
		for _, r := range name {
			if !plainIdentRune(r) && !strings.ContainsRune(p.extraIdent, r) {
				return "", &dberr.UnquotableIdentifierError{Dialect: p.name, Name: name}
			}
		}
		return name, nil
	}
	if strings.ContainsRune(name, p.quote) {
		return "", &dberr.InvalidIdentifierError{Dialect: p.name, Name: name}
	}
	var sb strings.Builder
	sb.Grow(len(name) + 2)
	sb.WriteRune(p.quote)
	sb.WriteString(name)
	sb.WriteRune(p.quote)
	return sb.String(), nil
}

func plainIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}

// ClassifyState maps a SQLSTATE to a violation kind. Unknown states return
// KindUnknown, never an error.
func (p *Profile) ClassifyState(state string) dberr.Kind {
	return p.states[state]
}

// ClassifyCode maps a vendor numeric code to a violation kind. Unknown
// codes return KindUnknown, never an error.
func (p *Profile) ClassifyCode(code int) dberr.Kind {
	return p.codes[code]
}

// Refine applies the profile's message-text refinement, if any.
func (p *Profile) Refine(k dberr.Kind, message string) dberr.Kind {
	if p.refine == nil {
		return k
	}
	return p.refine(k, message)
}

// WithoutRefinement returns a copy of the profile with the message-text
// refinement hook removed. Deployments running localized drivers can use
// this to turn off the SQL Server check/foreign-key disambiguation shim.
func (p *Profile) WithoutRefinement() *Profile {
	q := *p
	q.refine = nil
	return &q
}

var _ dberr.Table = (*Profile)(nil)

func questionPlaceholder(int) string { return "?" }

func dollarPlaceholder(n int) string { return "$" + strconv.Itoa(n) }

// Generic is a least-common-denominator profile: double-quote identifier
// quoting, ? placeholders, no feature beyond batch insert, no RETURNING,
// empty violation tables. Used as a safe default and in tests.
func Generic() *Profile {
	return &Profile{
		name:  "generic",
		quote: '"',
		features: map[Feature]bool{
			BatchInsert: true,
		},
		returnStyle: ReturnNone,
		nowExpr:     "CURRENT_TIMESTAMP",
		placeholder: questionPlaceholder,
		states:      map[string]dberr.Kind{},
		codes:       map[int]dberr.Kind{},
	}
}
