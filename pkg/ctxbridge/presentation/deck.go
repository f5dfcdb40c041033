// Package presentation reads and writes presentation decks (pptx).
package presentation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml"
)

const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	slideContentType = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"
)

type slide struct {
	part string
	doc  *etree.Document
	tree *etree.Element
}

// shapes returns the text-capable shapes of the slide in z-order.
func (s *slide) shapes() []*etree.Element {
	return s.tree.SelectElements("p:sp")
}

// deck is the structural model of a pptx package.
type deck struct {
	pkg    *ooxml.Package
	part   string
	pres   *etree.Document
	slides []*slide
}

func load(pkg *ooxml.Package) (*deck, error) {
	part, err := pkg.MainPart()
	if err != nil {
		return nil, err
	}
	pres, err := pkg.XML(part)
	if err != nil {
		return nil, err
	}
	d := &deck{pkg: pkg, part: part, pres: pres}
	for _, id := range pres.FindElements("//p:sldIdLst/p:sldId") {
		target, ok := pkg.RelTarget(part, id.SelectAttrValue("r:id", ""))
		if !ok {
			continue
		}
		s, err := d.loadSlide(target)
		if err != nil {
			return nil, err
		}
		d.slides = append(d.slides, s)
	}
	return d, nil
}

func (d *deck) loadSlide(part string) (*slide, error) {
	doc, err := d.pkg.XML(part)
	if err != nil {
		return nil, fmt.Errorf("slide %s: %w", part, err)
	}
	tree := doc.FindElement("//p:cSld/p:spTree")
	if tree == nil {
		return nil, fmt.Errorf("slide %s: no shape tree", part)
	}
	return &slide{part: part, doc: doc, tree: tree}, nil
}

func (d *deck) SlideCount() int {
	return len(d.slides)
}

func (d *deck) ShapeCount(n int) int {
	if n < 1 || n > len(d.slides) {
		return 0
	}
	return len(d.slides[n-1].shapes())
}

func (d *deck) ParagraphCount(n, shape int) int {
	if d.ShapeCount(n) < shape || shape < 1 {
		return 0
	}
	return len(paragraphs(d.slides[n-1].shapes()[shape-1]))
}

func paragraphs(sp *etree.Element) []*etree.Element {
	body := sp.SelectElement("p:txBody")
	if body == nil {
		return nil
	}
	return body.SelectElements("a:p")
}

func paragraphText(p *etree.Element) string {
	var sb strings.Builder
	for _, c := range p.ChildElements() {
		switch c.Tag {
		case "r", "fld":
			if t := c.SelectElement("a:t"); t != nil {
				sb.WriteString(t.Text())
			}
		case "br":
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func shapeText(sp *etree.Element) string {
	var lines []string
	for _, p := range paragraphs(sp) {
		lines = append(lines, paragraphText(p))
	}
	return strings.Join(lines, "\n")
}

// addSlide appends an empty slide to the deck, linked to the first slide
// layout of the package when there is one.
func (d *deck) addSlide() (*slide, error) {
	n := 1
	for d.pkg.Has(fmt.Sprintf("ppt/slides/slide%d.xml", n)) {
		n++
	}
	part := fmt.Sprintf("ppt/slides/slide%d.xml", n)

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
	sld := doc.CreateElement("p:sld")
	sld.CreateAttr("xmlns:a", nsA)
	sld.CreateAttr("xmlns:r", nsR)
	sld.CreateAttr("xmlns:p", nsP)
	tree := sld.CreateElement("p:cSld").CreateElement("p:spTree")
	nv := tree.CreateElement("p:nvGrpSpPr")
	cNvPr := nv.CreateElement("p:cNvPr")
	cNvPr.CreateAttr("id", "1")
	cNvPr.CreateAttr("name", "")
	nv.CreateElement("p:cNvGrpSpPr")
	nv.CreateElement("p:nvPr")
	tree.CreateElement("p:grpSpPr")
	d.pkg.SetXML(part, doc)

	if err := d.pkg.Override(part, slideContentType); err != nil {
		return nil, err
	}
	if layout := "ppt/slideLayouts/slideLayout1.xml"; d.pkg.Has(layout) {
		if _, err := d.pkg.AddRel(part, ooxml.RelSlideLayout, "../slideLayouts/slideLayout1.xml"); err != nil {
			return nil, err
		}
	}
	rid, err := d.pkg.AddRel(d.part, ooxml.RelSlide, fmt.Sprintf("slides/slide%d.xml", n))
	if err != nil {
		return nil, err
	}

	root := d.pres.Root()
	list := root.SelectElement("p:sldIdLst")
	if list == nil {
		list = etree.NewElement("p:sldIdLst")
		// sldIdLst follows sldMasterIdLst and notesMasterIdLst
		idx := 0
		for _, c := range root.ChildElements() {
			if c.Tag == "sldMasterIdLst" || c.Tag == "notesMasterIdLst" || c.Tag == "handoutMasterIdLst" {
				idx = c.Index() + 1
			}
		}
		root.InsertChildAt(idx, list)
	}
	next := 256
	for _, id := range list.SelectElements("p:sldId") {
		if v, err := strconv.Atoi(id.SelectAttrValue("id", "")); err == nil && v >= next {
			next = v + 1
		}
	}
	sldID := list.CreateElement("p:sldId")
	sldID.CreateAttr("id", strconv.Itoa(next))
	sldID.CreateAttr("r:id", rid)
	d.pkg.SetXML(d.part, d.pres)

	s := &slide{part: part, doc: doc, tree: tree}
	d.slides = append(d.slides, s)
	return s, nil
}
