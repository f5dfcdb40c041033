package stylemap

import (
	"strings"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/config"
)

// Alignment is horizontal paragraph alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	return [...]string{"left", "center", "right", "justify"}[a]
}

// VerticalAlignment is the anchoring of text inside a shape.
type VerticalAlignment int

const (
	VAlignTop VerticalAlignment = iota
	VAlignMiddle
	VAlignBottom
)

func (v VerticalAlignment) String() string {
	return [...]string{"top", "middle", "bottom"}[v]
}

// Range is an accepted numeric range with the value used for absent or
// unparsable declarations.
type Range struct {
	Min, Max, Default float64
}

// Contains reports whether v is inside the range, bounds included.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Limits bounds the values the mapper hands to native objects.
type Limits struct {
	Left, Top, Width, Height Range
	FontSize                 Range
	// AlphaThreshold is the alpha an rgba() color must exceed to be applied.
	AlphaThreshold float64
}

// DefaultLimits matches the shipped configuration template.
func DefaultLimits() Limits {
	return Limits{
		Left:           Range{Min: 0, Max: 10000, Default: 0},
		Top:            Range{Min: 0, Max: 10000, Default: 0},
		Width:          Range{Min: 1, Max: 5000, Default: 100},
		Height:         Range{Min: 1, Max: 5000, Default: 50},
		FontSize:       Range{Min: 1, Max: 1638, Default: 11},
		AlphaThreshold: 0.1,
	}
}

// LimitsFromConfig builds Limits from configuration. A nil cfg yields
// DefaultLimits.
func LimitsFromConfig(cfg *config.Config) Limits {
	if cfg == nil {
		return DefaultLimits()
	}
	conv := func(r config.RangeConfig) Range {
		return Range{Min: r.Min, Max: r.Max, Default: r.Default}
	}
	return Limits{
		Left:           conv(cfg.Geometry.Left),
		Top:            conv(cfg.Geometry.Top),
		Width:          conv(cfg.Geometry.Width),
		Height:         conv(cfg.Geometry.Height),
		FontSize:       conv(cfg.Font.Size),
		AlphaThreshold: cfg.Highlight.AlphaThreshold,
	}
}

// Dimension is a resolved numeric property. Valid is false when the
// declared value was out of range and the mutation must be skipped.
type Dimension struct {
	Value float64
	Valid bool
}

// BlockStyle is the normalised style of one block element.
type BlockStyle struct {
	Align  Alignment
	VAlign VerticalAlignment
	Left   Dimension
	Top    Dimension
	Width  Dimension
	Height Dimension
}

// RunStyle is the normalised style of one run.
type RunStyle struct {
	Bold      bool
	Italic    bool
	Underline bool
	Strike    bool
	Size      Dimension
	// Font is empty when no font-family was declared.
	Font string
	// Color and Highlight are native BGR values, nil when not applied.
	Color     *int
	Highlight *int
}

func (l Limits) dimension(decls map[string]string, key string, r Range) Dimension {
	raw, ok := decls[key]
	if !ok {
		return Dimension{Value: r.Default, Valid: true}
	}
	v, ok := parseLength(raw)
	if !ok {
		return Dimension{Value: r.Default, Valid: true}
	}
	return Dimension{Value: v, Valid: r.Contains(v)}
}

// Block resolves the block-level declarations.
func (l Limits) Block(decls map[string]string) BlockStyle {
	bs := BlockStyle{
		Left:   l.dimension(decls, "left", l.Left),
		Top:    l.dimension(decls, "top", l.Top),
		Width:  l.dimension(decls, "width", l.Width),
		Height: l.dimension(decls, "height", l.Height),
	}
	switch strings.ToLower(decls["text-align"]) {
	case "center":
		bs.Align = AlignCenter
	case "right":
		bs.Align = AlignRight
	case "justify":
		bs.Align = AlignJustify
	default:
		bs.Align = AlignLeft
	}
	switch strings.ToLower(decls["vertical-align"]) {
	case "middle":
		bs.VAlign = VAlignMiddle
	case "bottom":
		bs.VAlign = VAlignBottom
	default:
		bs.VAlign = VAlignTop
	}
	return bs
}

// Run resolves run-level declarations.
func (l Limits) Run(decls map[string]string) RunStyle {
	rs := RunStyle{
		Bold:   decls["font-weight"] == "bold",
		Italic: decls["font-style"] == "italic",
		Size:   l.dimension(decls, "font-size", l.FontSize),
	}
	if deco, ok := decls["text-decoration"]; ok {
		rs.Underline = strings.Contains(deco, "underline")
		rs.Strike = strings.Contains(deco, "line-through")
	}
	if font, ok := decls["font-family"]; ok {
		rs.Font = firstFamily(font)
	}
	if raw, ok := decls["color"]; ok {
		if c, ok := l.visible(raw); ok {
			rs.Color = &c
		}
	}
	for _, key := range []string{"background-color", "highlight"} {
		if raw, ok := decls[key]; ok {
			if c, ok := l.visible(raw); ok {
				rs.Highlight = &c
			}
		}
	}
	return rs
}

// visible parses a color and applies the alpha threshold.
func (l Limits) visible(raw string) (int, bool) {
	c, ok := ParseColor(raw)
	if !ok || c.A <= l.AlphaThreshold {
		return 0, false
	}
	return c.BGR(), true
}

func firstFamily(s string) string {
	first, _, _ := strings.Cut(s, ",")
	return strings.Trim(strings.TrimSpace(first), `"'`)
}

func merge(parent, child map[string]string) map[string]string {
	out := make(map[string]string, len(parent)+len(child))
	for k, v := range parent {
		out[k] = v
	}
	for k, v := range child {
		out[k] = v
	}
	return out
}
