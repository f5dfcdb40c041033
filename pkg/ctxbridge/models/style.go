// Package models defines the canonical data structures exchanged between
// host readers, host writers and the transport layer.
package models

// StyleKey names one attribute of the fixed style attribute set.
type StyleKey string

const (
	StyleFontName        StyleKey = "FontName"
	StyleFontSize        StyleKey = "FontSize"
	StyleFontWeight      StyleKey = "FontWeight"
	StyleForegroundColor StyleKey = "ForegroundColor"
	StyleBackgroundColor StyleKey = "BackgroundColor"
	StyleUnderlineStyle  StyleKey = "UnderlineStyle"
	StyleStrikeThrough   StyleKey = "StrikeThrough"
	StyleHighlight       StyleKey = "Highlight"
)

// StyleKeys is the fixed attribute set in capture order.
var StyleKeys = []StyleKey{
	StyleFontName,
	StyleFontSize,
	StyleFontWeight,
	StyleForegroundColor,
	StyleBackgroundColor,
	StyleUnderlineStyle,
	StyleStrikeThrough,
	StyleHighlight,
}

// Valid reports whether k belongs to the fixed attribute set.
func (k StyleKey) Valid() bool {
	for _, key := range StyleKeys {
		if k == key {
			return true
		}
	}
	return false
}

// StyleAttributes maps style keys to primitive values (string, number,
// boolean or a packed color integer). Values are stored exactly as the
// native API reported them.
type StyleAttributes map[StyleKey]any

// Set stores v under k. Keys outside the fixed set and nil values are ignored.
func (s StyleAttributes) Set(k StyleKey, v any) {
	if s == nil || v == nil || !k.Valid() {
		return
	}
	s[k] = v
}

// Clone returns a shallow copy; a nil receiver yields an empty map.
func (s StyleAttributes) Clone() StyleAttributes {
	out := make(StyleAttributes, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}
