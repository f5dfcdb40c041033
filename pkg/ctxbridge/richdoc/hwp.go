// Package richdoc reads rich documents stored as HWP 5 compound files.
// Only extraction is supported.
package richdoc

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/richardlehane/mscfb"
	"go.uber.org/multierr"
)

var (
	// ErrNotHWP is returned for files that are not HWP 5 compound files.
	ErrNotHWP = errors.New("not an HWP 5 document")
	// ErrProtected is returned for password protected and distribution
	// documents, whose body text is encrypted.
	ErrProtected = errors.New("protected HWP document")
)

const signature = "HWP Document File"

const (
	flagCompressed  = 1 << 0
	flagPassword    = 1 << 1
	flagDistributed = 1 << 2
)

// header is the decoded FileHeader stream.
type header struct {
	version uint32
	flags   uint32
}

func (h header) compressed() bool { return h.flags&flagCompressed != 0 }

// Version renders the version as major.minor.build.revision.
func (h header) Version() string {
	return fmt.Sprintf("%d.%d.%d.%d", h.version>>24, (h.version>>16)&0xFF, (h.version>>8)&0xFF, h.version&0xFF)
}

func parseHeader(data []byte) (header, error) {
	if len(data) < 40 || !bytes.HasPrefix(data, []byte(signature)) {
		return header{}, ErrNotHWP
	}
	h := header{
		version: binary.LittleEndian.Uint32(data[32:]),
		flags:   binary.LittleEndian.Uint32(data[36:]),
	}
	if h.version>>24 != 5 {
		return h, fmt.Errorf("%w: version %s", ErrNotHWP, h.Version())
	}
	if h.flags&(flagPassword|flagDistributed) != 0 {
		return h, ErrProtected
	}
	return h, nil
}

// container is the set of streams the reader needs, already inflated.
type container struct {
	header   header
	docInfo  []byte
	sections [][]byte
}

type section struct {
	n    int
	data []byte
}

func openContainer(path string) (c *container, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	doc, err := mscfb.New(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotHWP, err)
	}

	var (
		rawHeader []byte
		rawInfo   []byte
		sections  []section
	)
	for entry, er := doc.Next(); er == nil; entry, er = doc.Next() {
		parent := strings.Join(entry.Path, "/")
		switch {
		case parent == "" && entry.Name == "FileHeader":
			rawHeader, err = io.ReadAll(entry)
		case parent == "" && entry.Name == "DocInfo":
			rawInfo, err = io.ReadAll(entry)
		case parent == "BodyText" && strings.HasPrefix(entry.Name, "Section"):
			n, convErr := strconv.Atoi(strings.TrimPrefix(entry.Name, "Section"))
			if convErr != nil {
				continue
			}
			var data []byte
			data, err = io.ReadAll(entry)
			sections = append(sections, section{n: n, data: data})
		}
		if err != nil {
			return nil, fmt.Errorf("read stream %s: %w", entry.Name, err)
		}
	}

	h, err := parseHeader(rawHeader)
	if err != nil {
		return nil, err
	}
	sort.Slice(sections, func(i, j int) bool { return sections[i].n < sections[j].n })

	c = &container{header: h, docInfo: rawInfo}
	for _, s := range sections {
		c.sections = append(c.sections, s.data)
	}
	if h.compressed() {
		if c.docInfo, err = inflate(c.docInfo); err != nil {
			return nil, fmt.Errorf("DocInfo: %w", err)
		}
		for i := range c.sections {
			if c.sections[i], err = inflate(c.sections[i]); err != nil {
				return nil, fmt.Errorf("Section%d: %w", sections[i].n, err)
			}
		}
	}
	return c, nil
}

// text returns the document text, one line per top-level paragraph, and
// the character shape of the first non-empty paragraph.
func (c *container) text() (string, charShapeRef, error) {
	var (
		all   []string
		first charShapeRef
	)
	for i, s := range c.sections {
		paras, ref, err := sectionText(s)
		all = append(all, paras...)
		if !first.found {
			first = ref
		}
		if err != nil {
			return strings.Join(all, "\n"), first, fmt.Errorf("Section%d: %w", i, err)
		}
	}
	return strings.Join(all, "\n"), first, nil
}
