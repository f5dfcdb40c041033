package wordproc

import (
	"slices"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/stylemap"
)

// rPrOrder is the schema order of the run properties we write.
var rPrOrder = []string{"rFonts", "b", "i", "strike", "color", "sz", "szCs", "highlight", "u", "shd"}

// property returns the child tag of props, creating it in schema order.
func property(props *etree.Element, order []string, tag string) *etree.Element {
	if el := props.SelectElement("w:" + tag); el != nil {
		return el
	}
	el := etree.NewElement("w:" + tag)
	rank := slices.Index(order, tag)
	for _, c := range props.ChildElements() {
		if r := slices.Index(order, c.Tag); r > rank {
			props.InsertChildAt(c.Index(), el)
			return el
		}
	}
	props.AddChild(el)
	return el
}

func removeProperty(props *etree.Element, tag string) {
	if el := props.SelectElement("w:" + tag); el != nil {
		props.RemoveChild(el)
	}
}

// paraBlock adapts a w:p element to stylemap.Block.
type paraBlock struct {
	p *etree.Element
}

func (b paraBlock) SetAlignment(a stylemap.Alignment) error {
	pPr := b.p.SelectElement("w:pPr")
	if pPr == nil {
		pPr = etree.NewElement("w:pPr")
		b.p.InsertChildAt(0, pPr)
	}
	jc := pPr.SelectElement("w:jc")
	if jc == nil {
		jc = pPr.CreateElement("w:jc")
	}
	val := map[stylemap.Alignment]string{
		stylemap.AlignLeft:    "left",
		stylemap.AlignCenter:  "center",
		stylemap.AlignRight:   "right",
		stylemap.AlignJustify: "both",
	}[a]
	jc.CreateAttr("w:val", val)
	return nil
}

// SetText writes text as the only run of the new, still empty paragraph.
func (b paraBlock) SetText(text string) (stylemap.Run, error) {
	return b.AddRun(text)
}

func (b paraBlock) AddRun(text string) (stylemap.Run, error) {
	r := b.p.CreateElement("w:r")
	rPr := r.CreateElement("w:rPr")
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			r.CreateElement("w:br")
		}
		if line == "" {
			continue
		}
		t := r.CreateElement("w:t")
		t.CreateAttr("xml:space", "preserve")
		t.SetText(line)
	}
	return runProps{rPr}, nil
}

// runProps adapts a w:rPr element to stylemap.Run.
type runProps struct {
	rPr *etree.Element
}

func (r runProps) toggle(tag string, on bool) error {
	if on {
		property(r.rPr, rPrOrder, tag)
	} else {
		removeProperty(r.rPr, tag)
	}
	return nil
}

func (r runProps) SetBold(v bool) error   { return r.toggle("b", v) }
func (r runProps) SetItalic(v bool) error { return r.toggle("i", v) }
func (r runProps) SetStrike(v bool) error { return r.toggle("strike", v) }

func (r runProps) SetUnderline(v bool) error {
	if !v {
		removeProperty(r.rPr, "u")
		return nil
	}
	property(r.rPr, rPrOrder, "u").CreateAttr("w:val", "single")
	return nil
}

func (r runProps) SetSize(pt float64) error {
	val := strconv.Itoa(ooxml.HalfPoints(pt))
	property(r.rPr, rPrOrder, "sz").CreateAttr("w:val", val)
	property(r.rPr, rPrOrder, "szCs").CreateAttr("w:val", val)
	return nil
}

func (r runProps) SetFont(name string) error {
	el := property(r.rPr, rPrOrder, "rFonts")
	for _, attr := range []string{"w:ascii", "w:hAnsi", "w:eastAsia", "w:cs"} {
		el.CreateAttr(attr, name)
	}
	return nil
}

func (r runProps) SetColor(bgr int) error {
	property(r.rPr, rPrOrder, "color").CreateAttr("w:val", stylemap.HexRGB(bgr))
	return nil
}

// SetHighlight uses run shading; w:highlight only knows named colors.
func (r runProps) SetHighlight(bgr int) error {
	shd := property(r.rPr, rPrOrder, "shd")
	shd.CreateAttr("w:val", "clear")
	shd.CreateAttr("w:color", "auto")
	shd.CreateAttr("w:fill", stylemap.HexRGB(bgr))
	return nil
}

// captureStyle reads the fixed attribute set from a w:r element verbatim.
func captureStyle(r *etree.Element) models.StyleAttributes {
	style := models.StyleAttributes{}
	if r == nil {
		return style
	}
	rPr := r.SelectElement("w:rPr")
	if rPr == nil {
		rPr = etree.NewElement("w:rPr")
	}
	val := func(tag, attr string) (string, bool) {
		el := rPr.SelectElement("w:" + tag)
		if el == nil {
			return "", false
		}
		return el.SelectAttrValue(attr, ""), true
	}
	on := func(tag string) bool {
		v, ok := val(tag, "w:val")
		return ok && v != "0" && v != "false" && v != "off"
	}

	if v, ok := val("rFonts", "w:ascii"); ok && v != "" {
		style.Set(models.StyleFontName, v)
	}
	if v, ok := val("sz", "w:val"); ok {
		if half, err := strconv.ParseFloat(v, 64); err == nil {
			style.Set(models.StyleFontSize, half/2)
		}
	}
	style.Set(models.StyleFontWeight, on("b"))
	style.Set(models.StyleStrikeThrough, on("strike"))
	if v, ok := val("u", "w:val"); ok {
		style.Set(models.StyleUnderlineStyle, v)
	}
	if v, ok := val("color", "w:val"); ok {
		style.Set(models.StyleForegroundColor, v)
	}
	if v, ok := val("shd", "w:fill"); ok {
		style.Set(models.StyleBackgroundColor, v)
	}
	if v, ok := val("highlight", "w:val"); ok {
		style.Set(models.StyleHighlight, v)
	}
	return style
}
