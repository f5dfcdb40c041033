// Package ooxml provides read/modify/write access to Office Open XML
// packages (docx, xlsx, pptx): zip parts, relationships, content types and
// unit conversions.
package ooxml

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/beevik/etree"
)

var (
	// ErrPartNotFound indicates the package has no part with the given name.
	ErrPartNotFound = errors.New("package part not found")
	// ErrClosed indicates the package was already closed.
	ErrClosed = errors.New("package closed")
)

const contentTypesPart = "[Content_Types].xml"

// Package is an in-memory OOXML package. Parts are loaded eagerly so the
// backing file is not held open; parsed XML parts are cached and written
// back on Save.
type Package struct {
	path   string
	parts  map[string][]byte
	docs   map[string]*etree.Document
	dirty  bool
	closed bool
}

// Open loads every part of the package at path.
func Open(path string) (*Package, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	p := New()
	p.path = path
	for _, f := range r.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, fmt.Errorf("read part %s: %w", f.Name, err)
		}
		p.parts[f.Name] = data
	}
	return p, nil
}

// New returns an empty package. Callers add parts and save it.
func New() *Package {
	return &Package{
		parts: make(map[string][]byte),
		docs:  make(map[string]*etree.Document),
	}
}

// Path returns the file the package was opened from or last saved to.
func (p *Package) Path() string {
	return p.path
}

// Dirty reports whether the package was modified since it was opened.
func (p *Package) Dirty() bool {
	return p.dirty
}

// Has reports whether the package contains part name.
func (p *Package) Has(name string) bool {
	_, inDocs := p.docs[name]
	_, inParts := p.parts[name]
	return inDocs || inParts
}

// XML returns the parsed XML of part name. The returned document is shared;
// modifications become visible on Save after SetXML or MarkDirty.
func (p *Package) XML(name string) (*etree.Document, error) {
	if p.closed {
		return nil, ErrClosed
	}
	if doc, ok := p.docs[name]; ok {
		return doc, nil
	}
	data, ok := p.parts[name]
	if !ok {
		return nil, ErrPartNotFound
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parse part %s: %w", name, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parse part %s: no root element", name)
	}
	p.docs[name] = doc
	return doc, nil
}

// SetXML stores doc as part name.
func (p *Package) SetXML(name string, doc *etree.Document) {
	p.docs[name] = doc
	delete(p.parts, name)
	p.dirty = true
}

// SetPart stores raw data as part name.
func (p *Package) SetPart(name string, data []byte) {
	p.parts[name] = data
	delete(p.docs, name)
	p.dirty = true
}

// MarkDirty records that a cached XML part was modified in place.
func (p *Package) MarkDirty() {
	p.dirty = true
}

// Override registers a content type override for part name.
func (p *Package) Override(name, contentType string) error {
	doc, err := p.XML(contentTypesPart)
	if err != nil {
		return err
	}
	partName := "/" + name
	for _, el := range doc.Root().SelectElements("Override") {
		if el.SelectAttrValue("PartName", "") == partName {
			el.CreateAttr("ContentType", contentType)
			p.MarkDirty()
			return nil
		}
	}
	el := doc.Root().CreateElement("Override")
	el.CreateAttr("PartName", partName)
	el.CreateAttr("ContentType", contentType)
	p.MarkDirty()
	return nil
}

// Names returns all part names in sorted order.
func (p *Package) Names() []string {
	seen := make(map[string]bool, len(p.parts)+len(p.docs))
	for name := range p.parts {
		seen[name] = true
	}
	for name := range p.docs {
		seen[name] = true
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Bytes serialises the package into a zip archive.
func (p *Package) Bytes() ([]byte, error) {
	if p.closed {
		return nil, ErrClosed
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	names := p.Names()
	// content types first, readers expect it near the start
	sort.SliceStable(names, func(i, j int) bool {
		return names[i] == contentTypesPart && names[j] != contentTypesPart
	})
	for _, name := range names {
		data, err := p.partBytes(name)
		if err != nil {
			return nil, err
		}
		w, err := zw.Create(name)
		if err != nil {
			return nil, err
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the package back to the file it was opened from.
func (p *Package) Save() error {
	if p.path == "" {
		return errors.New("package has no path")
	}
	return p.SaveAs(p.path)
}

// SaveAs writes the package to path through a temporary file in the same
// directory followed by an atomic replace.
func (p *Package) SaveAs(path string) error {
	data, err := p.Bytes()
	if err != nil {
		return err
	}
	if err := WriteFileAtomic(path, data); err != nil {
		return err
	}
	p.path = path
	p.dirty = false
	return nil
}

// Close drops all cached parts. The package is unusable afterwards.
func (p *Package) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.parts = nil
	p.docs = nil
	return nil
}

func (p *Package) partBytes(name string) ([]byte, error) {
	if doc, ok := p.docs[name]; ok {
		data, err := doc.WriteToBytes()
		if err != nil {
			return nil, fmt.Errorf("serialise part %s: %w", name, err)
		}
		return data, nil
	}
	if data, ok := p.parts[name]; ok {
		return data, nil
	}
	return nil, ErrPartNotFound
}

// WriteFileAtomic writes data to a temporary file next to path, syncs it
// and replaces path with it.
func WriteFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer func() {
		if err != nil {
			os.Remove(tmpPath)
		}
	}()
	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = osReplace(tmpPath, path); err != nil {
		return err
	}
	// best effort, metadata persistence is not critical for correctness
	_ = syncDir(dir)
	return nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
