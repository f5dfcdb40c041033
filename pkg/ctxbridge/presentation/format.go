package presentation

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/stylemap"
)

// rPrOrder is the schema order of the a:rPr children we write.
var rPrOrder = []string{"ln", "solidFill", "highlight", "latin", "ea", "cs"}

// nextShapeID returns an unused cNvPr id for the slide.
func nextShapeID(s *slide) int {
	next := 2
	for _, el := range s.tree.FindElements(".//p:cNvPr") {
		if v, err := strconv.Atoi(el.SelectAttrValue("id", "")); err == nil && v >= next {
			next = v + 1
		}
	}
	return next
}

// newTextBox appends an empty text box to the slide and returns it as a
// stylemap.Block. Geometry is given in points.
func newTextBox(s *slide, left, top, width, height float64) *shapeBlock {
	id := nextShapeID(s)
	sp := s.tree.CreateElement("p:sp")

	nv := sp.CreateElement("p:nvSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", strconv.Itoa(id))
	cNvPr.CreateAttr("name", "TextBox "+strconv.Itoa(id-1))
	nv.CreateElement("p:cNvSpPr").CreateAttr("txBox", "1")
	nv.CreateElement("p:nvPr")

	spPr := sp.CreateElement("p:spPr")
	xfrm := spPr.CreateElement("a:xfrm")
	off := xfrm.CreateElement("a:off")
	ext := xfrm.CreateElement("a:ext")
	geom := spPr.CreateElement("a:prstGeom")
	geom.CreateAttr("prst", "rect")
	geom.CreateElement("a:avLst")
	spPr.CreateElement("a:noFill")

	body := sp.CreateElement("p:txBody")
	bodyPr := body.CreateElement("a:bodyPr")
	bodyPr.CreateAttr("wrap", "square")
	bodyPr.CreateAttr("rtlCol", "0")
	body.CreateElement("a:lstStyle")
	body.CreateElement("a:p")

	b := &shapeBlock{sp: sp, off: off, ext: ext, bodyPr: bodyPr}
	_ = b.SetLeft(left)
	_ = b.SetTop(top)
	_ = b.SetWidth(width)
	_ = b.SetHeight(height)
	return b
}

// shapeBlock adapts a p:sp text box to stylemap.Block.
type shapeBlock struct {
	sp       *etree.Element
	off, ext *etree.Element
	bodyPr   *etree.Element
}

func emu(pt float64) string {
	return strconv.FormatInt(ooxml.PointsToEMU(pt), 10)
}

func (b *shapeBlock) SetLeft(pt float64) error   { b.off.CreateAttr("x", emu(pt)); return nil }
func (b *shapeBlock) SetTop(pt float64) error    { b.off.CreateAttr("y", emu(pt)); return nil }
func (b *shapeBlock) SetWidth(pt float64) error  { b.ext.CreateAttr("cx", emu(pt)); return nil }
func (b *shapeBlock) SetHeight(pt float64) error { b.ext.CreateAttr("cy", emu(pt)); return nil }

func (b *shapeBlock) paragraph() *etree.Element {
	ps := paragraphs(b.sp)
	return ps[len(ps)-1]
}

func (b *shapeBlock) SetAlignment(a stylemap.Alignment) error {
	val := map[stylemap.Alignment]string{
		stylemap.AlignLeft:    "l",
		stylemap.AlignCenter:  "ctr",
		stylemap.AlignRight:   "r",
		stylemap.AlignJustify: "just",
	}[a]
	for _, p := range paragraphs(b.sp) {
		pPr := p.SelectElement("a:pPr")
		if pPr == nil {
			pPr = etree.NewElement("a:pPr")
			p.InsertChildAt(0, pPr)
		}
		pPr.CreateAttr("algn", val)
	}
	return nil
}

func (b *shapeBlock) SetVerticalAlignment(v stylemap.VerticalAlignment) error {
	b.bodyPr.CreateAttr("anchor", map[stylemap.VerticalAlignment]string{
		stylemap.VAlignTop:    "t",
		stylemap.VAlignMiddle: "ctr",
		stylemap.VAlignBottom: "b",
	}[v])
	return nil
}

// SetText puts text into the empty text box as a single run.
func (b *shapeBlock) SetText(text string) (stylemap.Run, error) {
	return b.AddRun(text)
}

// AddRun appends a run to the text box; newlines become line breaks
// carrying the same run properties.
func (b *shapeBlock) AddRun(text string) (stylemap.Run, error) {
	p := b.paragraph()
	rs := &runSet{}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			rs.add(p.CreateElement("a:br").CreateElement("a:rPr"))
		}
		if line == "" {
			continue
		}
		r := p.CreateElement("a:r")
		rs.add(r.CreateElement("a:rPr"))
		r.CreateElement("a:t").SetText(line)
	}
	return rs, nil
}

// runSet applies run properties to every a:rPr produced for one run.
type runSet struct {
	props []*etree.Element
}

func (rs *runSet) add(rPr *etree.Element) {
	rPr.CreateAttr("lang", "en-US")
	rPr.CreateAttr("dirty", "0")
	rs.props = append(rs.props, rPr)
}

func (rs *runSet) attr(key, val string) error {
	for _, rPr := range rs.props {
		rPr.CreateAttr(key, val)
	}
	return nil
}

func flag(on bool, yes, no string) string {
	if on {
		return yes
	}
	return no
}

func (rs *runSet) SetBold(v bool) error      { return rs.attr("b", flag(v, "1", "0")) }
func (rs *runSet) SetItalic(v bool) error    { return rs.attr("i", flag(v, "1", "0")) }
func (rs *runSet) SetUnderline(v bool) error { return rs.attr("u", flag(v, "sng", "none")) }
func (rs *runSet) SetStrike(v bool) error    { return rs.attr("strike", flag(v, "sngStrike", "noStrike")) }

func (rs *runSet) SetSize(pt float64) error {
	return rs.attr("sz", strconv.Itoa(ooxml.HundredthPoints(pt)))
}

func (rs *runSet) SetFont(name string) error {
	for _, rPr := range rs.props {
		child(rPr, "latin").CreateAttr("typeface", name)
	}
	return nil
}

func (rs *runSet) SetColor(bgr int) error {
	for _, rPr := range rs.props {
		srgb(child(rPr, "solidFill"), bgr)
	}
	return nil
}

func (rs *runSet) SetHighlight(bgr int) error {
	for _, rPr := range rs.props {
		srgb(child(rPr, "highlight"), bgr)
	}
	return nil
}

func srgb(parent *etree.Element, bgr int) {
	for _, c := range parent.ChildElements() {
		parent.RemoveChild(c)
	}
	parent.CreateElement("a:srgbClr").CreateAttr("val", stylemap.HexRGB(bgr))
}

// child returns the a:tag child of rPr, creating it in schema order.
func child(rPr *etree.Element, tag string) *etree.Element {
	if el := rPr.SelectElement("a:" + tag); el != nil {
		return el
	}
	el := etree.NewElement("a:" + tag)
	rank := slices.Index(rPrOrder, tag)
	for _, c := range rPr.ChildElements() {
		if slices.Index(rPrOrder, c.Tag) > rank {
			rPr.InsertChildAt(c.Index(), el)
			return el
		}
	}
	rPr.AddChild(el)
	return el
}

// firstStyledRun returns the first a:r of shapes with run properties
// that set at least one attribute, falling back to the first run.
func firstStyledRun(shapes []*etree.Element) *etree.Element {
	var first *etree.Element
	for _, sp := range shapes {
		for _, r := range sp.FindElements("p:txBody/a:p/a:r") {
			if rPr := r.SelectElement("a:rPr"); rPr != nil && (len(rPr.Attr) > 0 || len(rPr.ChildElements()) > 0) {
				return r
			}
			if first == nil {
				first = r
			}
		}
	}
	return first
}

// captureStyle reads the fixed attribute set from an a:r element verbatim.
func captureStyle(r *etree.Element) models.StyleAttributes {
	style := models.StyleAttributes{}
	if r == nil {
		return style
	}
	rPr := r.SelectElement("a:rPr")
	if rPr == nil {
		rPr = etree.NewElement("a:rPr")
	}
	if latin := rPr.SelectElement("a:latin"); latin != nil {
		style.Set(models.StyleFontName, latin.SelectAttrValue("typeface", ""))
	}
	if sz, err := strconv.Atoi(rPr.SelectAttrValue("sz", "")); err == nil {
		style.Set(models.StyleFontSize, float64(sz)/100)
	}
	b := rPr.SelectAttrValue("b", "0")
	style.Set(models.StyleFontWeight, b == "1" || b == "true")
	if u := rPr.SelectAttrValue("u", ""); u != "" {
		style.Set(models.StyleUnderlineStyle, u)
	}
	strike := rPr.SelectAttrValue("strike", "noStrike")
	style.Set(models.StyleStrikeThrough, strike != "noStrike")
	if clr := rPr.FindElement("a:solidFill/a:srgbClr"); clr != nil {
		style.Set(models.StyleForegroundColor, clr.SelectAttrValue("val", ""))
	}
	if clr := rPr.FindElement("a:highlight/a:srgbClr"); clr != nil {
		style.Set(models.StyleHighlight, clr.SelectAttrValue("val", ""))
	}
	return style
}
