package ooxml

import (
	"path"
	"strconv"
	"strings"

	"github.com/beevik/etree"
)

// Relationship types used by the readers and writers.
const (
	RelOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	RelSlide          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	RelSlideLayout    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"

	nsPackageRels = "http://schemas.openxmlformats.org/package/2006/relationships"
)

// Relationship is one entry of a .rels part.
type Relationship struct {
	ID     string
	Type   string
	Target string
}

// RelsPath returns the relationships part name for a source part,
// e.g. "ppt/slides/slide1.xml" -> "ppt/slides/_rels/slide1.xml.rels".
func RelsPath(part string) string {
	dir, file := path.Split(part)
	return dir + "_rels/" + file + ".rels"
}

// ResolveTarget resolves a relationship target relative to its source part.
func ResolveTarget(source, target string) string {
	if strings.HasPrefix(target, "/") {
		return strings.TrimPrefix(target, "/")
	}
	return path.Clean(path.Join(path.Dir(source), target))
}

// Rels returns the relationships of part in document order. A missing rels
// part yields no relationships.
func (p *Package) Rels(part string) ([]Relationship, error) {
	doc, err := p.XML(RelsPath(part))
	if err != nil {
		if err == ErrPartNotFound {
			return nil, nil
		}
		return nil, err
	}
	var result []Relationship
	for _, el := range doc.Root().SelectElements("Relationship") {
		result = append(result, Relationship{
			ID:     el.SelectAttrValue("Id", ""),
			Type:   el.SelectAttrValue("Type", ""),
			Target: el.SelectAttrValue("Target", ""),
		})
	}
	return result, nil
}

// RelTarget returns the resolved part name for relationship id of part.
func (p *Package) RelTarget(part, id string) (string, bool) {
	rels, err := p.Rels(part)
	if err != nil {
		return "", false
	}
	for _, r := range rels {
		if r.ID == id {
			return ResolveTarget(part, r.Target), true
		}
	}
	return "", false
}

// AddRel appends a relationship to part and returns its new id.
func (p *Package) AddRel(part, relType, target string) (string, error) {
	name := RelsPath(part)
	doc, err := p.XML(name)
	if err == ErrPartNotFound {
		doc = etree.NewDocument()
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8" standalone="yes"`)
		root := doc.CreateElement("Relationships")
		root.CreateAttr("xmlns", nsPackageRels)
		p.SetXML(name, doc)
	} else if err != nil {
		return "", err
	}

	used := make(map[string]bool)
	for _, el := range doc.Root().SelectElements("Relationship") {
		used[el.SelectAttrValue("Id", "")] = true
	}
	id := ""
	for n := 1; ; n++ {
		id = "rId" + strconv.Itoa(n)
		if !used[id] {
			break
		}
	}
	rel := doc.Root().CreateElement("Relationship")
	rel.CreateAttr("Id", id)
	rel.CreateAttr("Type", relType)
	rel.CreateAttr("Target", target)
	p.SetXML(name, doc)
	return id, nil
}

// MainPart returns the officeDocument part named by the package root rels.
func (p *Package) MainPart() (string, error) {
	rels, err := p.Rels("")
	if err != nil {
		return "", err
	}
	for _, r := range rels {
		if r.Type == RelOfficeDocument {
			return ResolveTarget("", r.Target), nil
		}
	}
	return "", ErrPartNotFound
}
