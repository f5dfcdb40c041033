package spreadsheet

import (
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/stylemap"
)

// cellText collects the rich text runs of one cell. Every block of the
// markup lands in the same cell, separated by line breaks; the first
// block decides the cell alignment and the first highlighted run the fill.
type cellText struct {
	runs      []*cellRun
	align     *stylemap.Alignment
	highlight *int
}

// region is one block of markup inside the cell.
type region struct {
	cell *cellText
}

func (c *cellText) region() *region {
	if len(c.runs) > 0 {
		c.runs = append(c.runs, newRun(c, "\n"))
	}
	return &region{cell: c}
}

func (r *region) SetAlignment(a stylemap.Alignment) error {
	if r.cell.align == nil {
		r.cell.align = &a
	}
	return nil
}

// SetText appends text as a single run; nothing precedes it inside the region.
func (r *region) SetText(text string) (stylemap.Run, error) {
	return r.AddRun(text)
}

func (r *region) AddRun(text string) (stylemap.Run, error) {
	run := newRun(r.cell, text)
	r.cell.runs = append(r.cell.runs, run)
	return run, nil
}

func (c *cellText) richText() []excelize.RichTextRun {
	out := make([]excelize.RichTextRun, 0, len(c.runs))
	for _, r := range c.runs {
		out = append(out, r.rt)
	}
	return out
}

// style returns the cell-level style implied by the runs.
func (c *cellText) style() *excelize.Style {
	st := &excelize.Style{Alignment: &excelize.Alignment{Horizontal: "left", WrapText: len(c.runs) > 1}}
	if c.align != nil {
		st.Alignment.Horizontal = c.align.String()
	}
	if c.highlight != nil {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{stylemap.HexRGB(*c.highlight)}}
	}
	return st
}

type cellRun struct {
	cell *cellText
	rt   excelize.RichTextRun
}

func newRun(c *cellText, text string) *cellRun {
	return &cellRun{cell: c, rt: excelize.RichTextRun{Text: text, Font: &excelize.Font{}}}
}

func (r *cellRun) SetBold(v bool) error   { r.rt.Font.Bold = v; return nil }
func (r *cellRun) SetItalic(v bool) error { r.rt.Font.Italic = v; return nil }
func (r *cellRun) SetStrike(v bool) error { r.rt.Font.Strike = v; return nil }
func (r *cellRun) SetSize(v float64) error {
	r.rt.Font.Size = v
	return nil
}
func (r *cellRun) SetFont(v string) error { r.rt.Font.Family = v; return nil }

func (r *cellRun) SetUnderline(v bool) error {
	r.rt.Font.Underline = ""
	if v {
		r.rt.Font.Underline = "single"
	}
	return nil
}

func (r *cellRun) SetColor(bgr int) error {
	r.rt.Font.Color = stylemap.HexRGB(bgr)
	return nil
}

// SetHighlight maps to the cell fill; rich text runs have no background.
func (r *cellRun) SetHighlight(bgr int) error {
	if r.cell.highlight == nil {
		r.cell.highlight = &bgr
	}
	return nil
}
