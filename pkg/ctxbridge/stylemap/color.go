package stylemap

import (
	"fmt"
	"strconv"
	"strings"
)

// Color is a parsed CSS color. A is 1 for opaque notations.
type Color struct {
	R, G, B uint8
	A       float64
}

// ParseColor accepts rgb(r,g,b), rgba(r,g,b,a) and #rgb / #rrggbb.
// Components are integers 0-255, alpha a float 0-1.
func ParseColor(s string) (Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		return parseHexColor(s[1:])
	case strings.HasPrefix(s, "rgba(") && strings.HasSuffix(s, ")"):
		return parseComponents(s[len("rgba("):len(s)-1], true)
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		return parseComponents(s[len("rgb("):len(s)-1], false)
	}
	return Color{}, false
}

func parseComponents(s string, alpha bool) (Color, bool) {
	parts := strings.Split(s, ",")
	want := 3
	if alpha {
		want = 4
	}
	if len(parts) != want {
		return Color{}, false
	}
	var rgb [3]uint8
	for i := range 3 {
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 || n > 255 {
			return Color{}, false
		}
		rgb[i] = uint8(n)
	}
	c := Color{R: rgb[0], G: rgb[1], B: rgb[2], A: 1}
	if alpha {
		a, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
		if err != nil || a < 0 || a > 1 {
			return Color{}, false
		}
		c.A = a
	}
	return c, true
}

func parseHexColor(s string) (Color, bool) {
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return Color{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return Color{}, false
	}
	return Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 1}, true
}

// BGR packs the color into the native blue-green-red integer.
func (c Color) BGR() int {
	return PackBGR(c.R, c.G, c.B)
}

// PackBGR returns (b<<16)|(g<<8)|r.
func PackBGR(r, g, b uint8) int {
	return int(b)<<16 | int(g)<<8 | int(r)
}

// UnpackBGR splits a native BGR integer into its components.
func UnpackBGR(v int) (r, g, b uint8) {
	return uint8(v), uint8(v >> 8), uint8(v >> 16)
}

// HexRGB formats a native BGR integer as the RRGGBB hex used by OOXML.
func HexRGB(bgr int) string {
	r, g, b := UnpackBGR(bgr)
	return fmt.Sprintf("%02X%02X%02X", r, g, b)
}

// ParseHexRGB is the inverse of HexRGB.
func ParseHexRGB(s string) (int, bool) {
	c, ok := parseHexColor(strings.ToLower(strings.TrimPrefix(s, "#")))
	if !ok {
		return 0, false
	}
	return c.BGR(), true
}
