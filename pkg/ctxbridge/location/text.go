package location

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// TextSpan is a half-open rune range [Start, End) of a document's text.
type TextSpan struct {
	Start, End int
}

// Len returns the number of runes covered.
func (s TextSpan) Len() int {
	return s.End - s.Start
}

// Slice returns the covered text of doc. The span must be valid for doc.
func (s TextSpan) Slice(doc []rune) string {
	return string(doc[s.Start:s.End])
}

// digest fingerprints the covered text so edits in between read and write
// are detected.
func digest(text string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(text))
}

// EncodeSpan renders the span of doc as a word-processor token. ok is
// false when the span is outside doc.
func EncodeSpan(doc string, span TextSpan) (string, bool) {
	runes := []rune(doc)
	if span.Start < 0 || span.End < span.Start || span.End > len(runes) {
		return "", false
	}
	return fmt.Sprintf("%d-%d#%s", span.Start, span.End, digest(span.Slice(runes))), true
}

// ParseSpan parses a word-processor token without resolving it.
func ParseSpan(token string) (TextSpan, string, error) {
	rng, sum, found := strings.Cut(token, "#")
	if !found || len(sum) != 16 {
		return TextSpan{}, "", malformed(token)
	}
	if _, err := strconv.ParseUint(sum, 16, 64); err != nil {
		return TextSpan{}, "", malformed(token)
	}
	a, b, found := strings.Cut(rng, "-")
	if !found {
		return TextSpan{}, "", malformed(token)
	}
	start, err1 := strconv.Atoi(a)
	end, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil || start < 0 || end < start {
		return TextSpan{}, "", malformed(token)
	}
	return TextSpan{Start: start, End: end}, sum, nil
}

// DecodeSpan resolves token against the current document text. It fails
// with ErrNotFound when the span is out of bounds or its text changed.
func DecodeSpan(token, doc string) (TextSpan, error) {
	span, sum, err := ParseSpan(token)
	if err != nil {
		return TextSpan{}, err
	}
	runes := []rune(doc)
	if span.End > len(runes) {
		return TextSpan{}, notFound("span %d-%d beyond document end %d", span.Start, span.End, len(runes))
	}
	if digest(span.Slice(runes)) != sum {
		return TextSpan{}, notFound("span %d-%d no longer holds the original text", span.Start, span.End)
	}
	return span, nil
}
