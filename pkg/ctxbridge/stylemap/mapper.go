package stylemap

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Block is a native region (shape, paragraph, cell) receiving one block
// element.
type Block interface {
	SetAlignment(Alignment) error
	// SetText replaces the region content with a single run.
	SetText(text string) (Run, error)
	// AddRun appends a run holding text.
	AddRun(text string) (Run, error)
}

// Run is a native text run.
type Run interface {
	SetBold(bool) error
	SetItalic(bool) error
	SetUnderline(bool) error
	SetStrike(bool) error
	// SetSize sets the font size in points.
	SetSize(float64) error
	SetFont(string) error
	// SetColor and SetHighlight take native BGR values.
	SetColor(bgr int) error
	SetHighlight(bgr int) error
}

// Geometric is implemented by blocks that have a position and size, in points.
type Geometric interface {
	SetLeft(float64) error
	SetTop(float64) error
	SetWidth(float64) error
	SetHeight(float64) error
}

// VerticalAligner is implemented by blocks that anchor their text.
type VerticalAligner interface {
	SetVerticalAlignment(VerticalAlignment) error
}

// Mapper applies parsed markup to native objects.
type Mapper struct {
	limits Limits
	log    *zap.Logger
}

// New returns a Mapper bounded by limits.
func New(limits Limits, log *zap.Logger) *Mapper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Mapper{limits: limits, log: log.Named("stylemap")}
}

// Limits returns the limits the mapper was created with.
func (m *Mapper) Limits() Limits {
	return m.limits
}

// segment is a run-to-be: text with the declarations and tag flags in
// effect where it appeared.
type segment struct {
	text      string
	decls     map[string]string
	strike    bool
	underline bool
}

// Apply styles b after node, which must be a block. Every mutation is
// attempted; failures are logged and returned together.
func (m *Mapper) Apply(b Block, node *StyleNode) (err error) {
	try := func(what string, fn func() error) {
		if er := fn(); er != nil {
			m.log.Warn("Unable to apply style", zap.String("tag", node.Tag), zap.String("property", what), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("%s: %w", what, er))
		}
	}

	bs := m.limits.Block(node.Decls)
	if g, ok := b.(Geometric); ok {
		for _, d := range []struct {
			name string
			dim  Dimension
			set  func(float64) error
		}{
			{"left", bs.Left, g.SetLeft},
			{"top", bs.Top, g.SetTop},
			{"width", bs.Width, g.SetWidth},
			{"height", bs.Height, g.SetHeight},
		} {
			if !d.dim.Valid {
				m.log.Debug("Geometry out of range, keeping native value", zap.String("property", d.name), zap.Float64("value", d.dim.Value))
				continue
			}
			try(d.name, func() error { return d.set(d.dim.Value) })
		}
	}
	try("text-align", func() error { return b.SetAlignment(bs.Align) })
	if va, ok := b.(VerticalAligner); ok {
		try("vertical-align", func() error { return va.SetVerticalAlignment(bs.VAlign) })
	}

	if !node.HasInline() {
		text := node.PlainText()
		if strings.TrimSpace(text) == "" {
			return err
		}
		run, er := b.SetText(text)
		if er != nil {
			m.log.Warn("Unable to set block text", zap.String("tag", node.Tag), zap.Error(er))
			return multierr.Append(err, fmt.Errorf("text: %w", er))
		}
		return multierr.Append(err, m.ApplyRun(run, m.limits.Run(node.Decls)))
	}

	var segs []segment
	collect(node.Children, node.Decls, false, false, &segs)
	for _, s := range segs {
		run, er := b.AddRun(s.text)
		if er != nil {
			m.log.Warn("Unable to add run", zap.String("tag", node.Tag), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("run: %w", er))
			continue
		}
		rs := m.limits.Run(s.decls)
		rs.Strike = rs.Strike || s.strike
		rs.Underline = rs.Underline || s.underline
		err = multierr.Append(err, m.ApplyRun(run, rs))
	}
	return err
}

// ApplyRun pushes rs onto run. Each attribute is attempted independently.
func (m *Mapper) ApplyRun(run Run, rs RunStyle) (err error) {
	try := func(what string, fn func() error) {
		if er := fn(); er != nil {
			m.log.Warn("Unable to apply run style", zap.String("property", what), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("%s: %w", what, er))
		}
	}
	try("font-weight", func() error { return run.SetBold(rs.Bold) })
	try("font-style", func() error { return run.SetItalic(rs.Italic) })
	try("underline", func() error { return run.SetUnderline(rs.Underline) })
	try("line-through", func() error { return run.SetStrike(rs.Strike) })
	if rs.Size.Valid {
		try("font-size", func() error { return run.SetSize(rs.Size.Value) })
	} else {
		m.log.Debug("Font size out of range, keeping native value", zap.Float64("value", rs.Size.Value))
	}
	if rs.Font != "" {
		try("font-family", func() error { return run.SetFont(rs.Font) })
	}
	if rs.Color != nil {
		try("color", func() error { return run.SetColor(*rs.Color) })
	}
	if rs.Highlight != nil {
		try("background-color", func() error { return run.SetHighlight(*rs.Highlight) })
	}
	return err
}

func collect(nodes []*StyleNode, decls map[string]string, strike, underline bool, out *[]segment) {
	for _, n := range nodes {
		switch n.Kind {
		case KindText:
			// indentation between elements of pretty-printed markup
			if strings.TrimSpace(n.Text) == "" && strings.ContainsAny(n.Text, "\r\n") {
				continue
			}
			*out = append(*out, segment{text: n.Text, decls: decls, strike: strike, underline: underline})
		case KindBreak:
			*out = append(*out, segment{text: "\n", decls: decls, strike: strike, underline: underline})
		case KindBlock:
			if len(*out) > 0 {
				*out = append(*out, segment{text: "\n", decls: decls})
			}
			collect(n.Children, merge(decls, n.Decls), strike, underline, out)
		case KindSpan:
			collect(n.Children, merge(decls, n.Decls), strike, underline, out)
		case KindStrike:
			collect(n.Children, merge(decls, n.Decls), true, underline, out)
		case KindUnderline:
			collect(n.Children, merge(decls, n.Decls), strike, true, out)
		default:
			collect(n.Children, decls, strike, underline, out)
		}
	}
}
