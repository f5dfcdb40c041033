// Package wordproc reads and writes word-processing documents (docx).
//
// The document text is the concatenation of all body paragraphs joined by
// newlines; location tokens address rune offsets into that text.
package wordproc

import (
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/beevik/etree"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml"
)

const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

var errNoBody = errors.New("document has no body")

type run struct {
	el    *etree.Element
	start int
	text  string
}

type paragraph struct {
	el         *etree.Element
	start, end int
	runs       []run
}

// document is the text model of a docx main part.
type document struct {
	pkg  *ooxml.Package
	part string
	doc  *etree.Document
	body *etree.Element

	paras []paragraph
	text  []rune
}

func load(pkg *ooxml.Package) (*document, error) {
	part, err := pkg.MainPart()
	if err != nil {
		return nil, err
	}
	doc, err := pkg.XML(part)
	if err != nil {
		return nil, err
	}
	body := doc.FindElement("//w:body")
	if body == nil {
		return nil, errNoBody
	}
	d := &document{pkg: pkg, part: part, doc: doc, body: body}
	d.index()
	return d, nil
}

// index rebuilds the paragraph offsets after a modification.
func (d *document) index() {
	d.paras = d.paras[:0]
	var sb strings.Builder
	offset := 0
	for i, p := range d.body.FindElements(".//w:p") {
		if i > 0 {
			sb.WriteByte('\n')
			offset++
		}
		para := paragraph{el: p, start: offset}
		for _, r := range p.FindElements(".//w:r") {
			// runs of text-box paragraphs nested in p are indexed with their own paragraph
			if ownerParagraph(r) != p {
				continue
			}
			text := runText(r)
			para.runs = append(para.runs, run{el: r, start: offset, text: text})
			sb.WriteString(text)
			offset += utf8.RuneCountInString(text)
		}
		para.end = offset
		d.paras = append(d.paras, para)
	}
	d.text = []rune(sb.String())
}

// ownerParagraph returns the nearest w:p ancestor of el.
func ownerParagraph(el *etree.Element) *etree.Element {
	for p := el.Parent(); p != nil; p = p.Parent() {
		if p.Space == "w" && p.Tag == "p" {
			return p
		}
	}
	return nil
}

func runText(r *etree.Element) string {
	var sb strings.Builder
	for _, c := range r.ChildElements() {
		switch c.Tag {
		case "t":
			sb.WriteString(c.Text())
		case "tab":
			sb.WriteByte('\t')
		case "br", "cr":
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// Text returns the whole document text.
func (d *document) Text() string {
	return string(d.text)
}

// paragraphAt returns the index of the paragraph holding rune offset off.
func (d *document) paragraphAt(off int) int {
	idx := -1
	for i, p := range d.paras {
		if p.start <= off {
			idx = i
		}
	}
	return idx
}

// firstStyledRun returns the first run overlapping [start, end) that
// carries run properties, falling back to the first overlapping run. An
// empty range selects the run holding the caret.
func (d *document) firstStyledRun(start, end int) *etree.Element {
	end = max(end, start+1)
	var first *etree.Element
	for _, p := range d.paras {
		for _, r := range p.runs {
			rEnd := r.start + utf8.RuneCountInString(r.text)
			if r.start >= end || rEnd <= start {
				continue
			}
			if r.el.SelectElement("w:rPr") != nil {
				return r.el
			}
			if first == nil {
				first = r.el
			}
		}
	}
	return first
}

// insertAfter inserts a new paragraph after paragraph idx, or at the end
// of the body (ahead of the section properties) when idx is negative.
func (d *document) insertAfter(idx int) *etree.Element {
	p := etree.NewElement("w:p")
	if idx >= 0 && idx < len(d.paras) {
		ref := d.paras[idx].el
		ref.Parent().InsertChildAt(ref.Index()+1, p)
		return p
	}
	if sect := d.body.SelectElement("w:sectPr"); sect != nil {
		d.body.InsertChildAt(sect.Index(), p)
		return p
	}
	d.body.AddChild(p)
	return p
}

// paragraphIndex returns the index of paragraph element p, or -1.
func (d *document) paragraphIndex(p *etree.Element) int {
	for i, para := range d.paras {
		if para.el == p {
			return i
		}
	}
	return -1
}
