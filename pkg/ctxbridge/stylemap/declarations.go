// Package stylemap translates the supported markup subset into native
// formatting calls and parses inline style declarations.
//
// Markup is parsed into a tree of StyleNode values: top-level block
// elements (div, p, h1-h6) each become one native region, inline elements
// (span, s, strike, del, u) become styled runs. Other tags contribute
// their text without adding style. A Mapper then applies the normalised
// BlockStyle and RunStyle records onto whatever native objects a writer
// hands it through the Block and Run interfaces.
package stylemap

import (
	"strconv"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// ParseDeclarations splits an inline style attribute into property/value
// pairs. Pairs are separated by ';'; a pair that does not contain exactly
// one ':' is dropped. Keys and values are trimmed, later duplicates win.
func ParseDeclarations(s string) map[string]string {
	decls := make(map[string]string)
	for _, pair := range strings.Split(s, ";") {
		if strings.Count(pair, ":") != 1 {
			continue
		}
		key, value, _ := strings.Cut(pair, ":")
		decls[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	return decls
}

// parseLength returns the numeric part of a CSS length ("12px", "3.5",
// "40%"), dropping any trailing unit. ok is false when the value does not
// start with a number.
func parseLength(s string) (v float64, ok bool) {
	lexer := css.NewLexer(parse.NewInputString(strings.TrimSpace(s)))
	for {
		tt, data := lexer.Next()
		switch tt {
		case css.WhitespaceToken:
			continue
		case css.NumberToken:
			return parseNumber(string(data))
		case css.DimensionToken:
			return parseNumber(numericPrefix(string(data)))
		case css.PercentageToken:
			return parseNumber(strings.TrimSuffix(string(data), "%"))
		default:
			return 0, false
		}
	}
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// numericPrefix cuts the unit off a dimension token.
func numericPrefix(s string) string {
	end := 0
	for i, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || ((r == '-' || r == '+') && i == 0) {
			end = i + 1
			continue
		}
		if (r == 'e' || r == 'E') && i+1 < len(s) && s[i+1] >= '0' && s[i+1] <= '9' {
			end = i + 1
			continue
		}
		break
	}
	return s[:end]
}
