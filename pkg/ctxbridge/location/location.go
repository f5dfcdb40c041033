// Package location encodes and decodes the opaque location tokens that let
// a writer target the span a reader reported. Every application family has
// its own grammar; tokens are not portable across families.
//
//	spreadsheet    [sheet!]row,col[:row,col]   1-based cells
//	presentation   slide,shape,paragraph       1-based, 0 = whole slide / shape
//	word processor start-end#digest            rune offsets, xxhash64 of covered text
package location

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrNotFound is returned when a token no longer resolves against the
	// document. Writers treat it as non-fatal.
	ErrNotFound = errors.New("location not found")
	// ErrMalformedToken is returned for tokens that do not follow the
	// family grammar. It wraps ErrNotFound.
	ErrMalformedToken = fmt.Errorf("%w: malformed token", ErrNotFound)
)

func malformed(token string) error {
	return fmt.Errorf("%w %q", ErrMalformedToken, token)
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

// ints parses a comma separated list of exactly n non-negative integers.
func ints(s string, n int) ([]int, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, false
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || v < 0 {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}
