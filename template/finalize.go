package template

import (
	"strings"

	"github.com/Konsultn-Engineering/querykit/dialect"
)

// Finalize serializes the template against a profile: literal spans are
// copied, identifiers dialect-quoted, parameters emitted as positional
// placeholders in left-to-right order. The returned SQL and parameter
// list are complete and immutable before any execution begins.
func Finalize(t *Template, p *dialect.Profile) (string, []any, error) {
	var sb strings.Builder
	var args []any
	for _, part := range t.parts {
		switch part.kind {
		case partLiteral:
			sb.WriteString(part.text)
		case partIdent:
			q, err := p.QuoteIdentifier(part.text)
			if err != nil {
				return "", nil, err
			}
			sb.WriteString(q)
		case partParam:
			args = append(args, part.value)
			sb.WriteString(p.Placeholder(len(args)))
		}
	}
	return sb.String(), args, nil
}
