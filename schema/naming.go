package schema

import (
	"strings"
	"unicode"

	pluralizer "github.com/gertd/go-pluralize"
)

// pluralizeClient is a singleton for consistent pluralization behavior.
var pluralizeClient = pluralizer.NewClient()

// NamingStrategy converts Go-side names to database identifiers when table
// metadata is derived rather than declared explicitly.
type NamingStrategy interface {
	// ColumnName converts a field name to a column name.
	ColumnName(fieldName string) string
	// TableName converts an entity name to a table name.
	TableName(entityName string) string
}

// NamingType selects one of the built-in naming conventions.
type NamingType int

const (
	SnakeCasePlural   NamingType = iota // users, blog_posts
	SnakeCaseSingular                   // user, blog_post
	CamelCasePlural                     // users, blogPosts
	CamelCaseSingular                   // user, blogPost
)

type builtinNaming struct {
	kind NamingType
}

// NewNamingStrategy returns one of the built-in strategies. Snake-case
// plural tables with snake-case columns is the common default.
func NewNamingStrategy(kind NamingType) NamingStrategy {
	return &builtinNaming{kind: kind}
}

func (n *builtinNaming) ColumnName(fieldName string) string {
	switch n.kind {
	case CamelCasePlural, CamelCaseSingular:
		return toCamelCase(fieldName)
	default:
		return toSnakeCase(fieldName)
	}
}

func (n *builtinNaming) TableName(entityName string) string {
	var base string
	switch n.kind {
	case CamelCasePlural, CamelCaseSingular:
		base = toCamelCase(entityName)
	default:
		base = toSnakeCase(entityName)
	}
	switch n.kind {
	case SnakeCasePlural, CamelCasePlural:
		return pluralizeClient.Plural(base)
	default:
		return base
	}
}

// toSnakeCase converts CamelCase/PascalCase to snake_case, keeping acronym
// runs together (HTTPServer -> http_server).
func toSnakeCase(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 4)
	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				sb.WriteByte('_')
			}
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// toCamelCase lowercases the leading acronym or letter of a PascalCase name.
func toCamelCase(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	i := 0
	for i < len(runes) && unicode.IsUpper(runes[i]) {
		// Stop before the last upper of an acronym followed by a lower.
		if i+1 < len(runes) && unicode.IsLower(runes[i+1]) && i > 0 {
			break
		}
		runes[i] = unicode.ToLower(runes[i])
		i++
	}
	return string(runes)
}
