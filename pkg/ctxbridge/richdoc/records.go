package richdoc

import (
	"bytes"
	"compress/flate"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
)

// Record tags used by the reader.
const (
	tagBegin = 0x010

	tagFaceName      = tagBegin + 3
	tagCharShape     = tagBegin + 5
	tagParaHeader    = tagBegin + 50
	tagParaText      = tagBegin + 51
	tagParaCharShape = tagBegin + 52
)

// ErrTruncated is returned for a record whose header announces more data
// than the stream holds.
var ErrTruncated = errors.New("truncated record")

type record struct {
	tag   uint16
	level uint16
	data  []byte
}

// parseRecords splits a stream into tagged records. The header packs the
// tag in bits 0-9, the level in bits 10-19 and the size in bits 20-31; a
// size of 0xFFF is followed by a 32-bit size.
func parseRecords(stream []byte) ([]record, error) {
	var out []record
	for off := 0; off < len(stream); {
		if len(stream)-off < 4 {
			return out, fmt.Errorf("%w: header at %d", ErrTruncated, off)
		}
		h := binary.LittleEndian.Uint32(stream[off:])
		off += 4
		size := int(h >> 20)
		if size == 0xFFF {
			if len(stream)-off < 4 {
				return out, fmt.Errorf("%w: extended size at %d", ErrTruncated, off)
			}
			size = int(binary.LittleEndian.Uint32(stream[off:]))
			off += 4
		}
		if size > len(stream)-off {
			return out, fmt.Errorf("%w: tag %d wants %d bytes, %d left", ErrTruncated, h&0x3FF, size, len(stream)-off)
		}
		out = append(out, record{
			tag:   uint16(h & 0x3FF),
			level: uint16((h >> 10) & 0x3FF),
			data:  stream[off : off+size],
		})
		off += size
	}
	return out, nil
}

// inflate undoes the raw deflate applied to compressed streams.
func inflate(data []byte) ([]byte, error) {
	zr := flate.NewReader(bytes.NewReader(data))
	defer zr.Close()
	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("inflate: %w", err)
	}
	return out, nil
}

// controlWidth returns how many UTF-16 units a control character occupies
// in paragraph text. Inline and extended controls carry a 12 byte payload
// and repeat their code at the end.
func controlWidth(c uint16) int {
	switch c {
	case 0, 10, 13, 24, 25, 26, 27, 28, 29, 30, 31:
		return 1
	default:
		return 8
	}
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// paraText decodes a PARA_TEXT record. Tabs and line breaks are kept,
// paragraph breaks and every other control are dropped.
func paraText(data []byte) (string, error) {
	kept := make([]byte, 0, len(data))
	for i := 0; i+1 < len(data); {
		c := binary.LittleEndian.Uint16(data[i:])
		if c >= 32 {
			kept = append(kept, data[i], data[i+1])
			i += 2
			continue
		}
		switch c {
		case 9:
			kept = append(kept, '\t', 0)
		case 10:
			kept = append(kept, '\n', 0)
		case 30, 31:
			kept = append(kept, ' ', 0)
		}
		i += 2 * controlWidth(c)
	}
	text, err := utf16le.NewDecoder().Bytes(kept)
	if err != nil {
		return "", fmt.Errorf("decode paragraph text: %w", err)
	}
	return string(text), nil
}

// charShapeRef is the first character shape reference of a paragraph.
type charShapeRef struct {
	found bool
	id    uint32
}

// sectionText returns the top-level paragraphs of one BodyText section
// and the char shape of the first non-empty one. Paragraphs nested in
// controls (tables, text boxes) sit at deeper levels and are skipped.
func sectionText(stream []byte) ([]string, charShapeRef, error) {
	recs, err := parseRecords(stream)
	var (
		paras []string
		first charShapeRef
	)
	for _, r := range recs {
		switch {
		case r.tag == tagParaHeader && r.level == 0:
			paras = append(paras, "")
		case len(paras) == 0 || r.level != 1:
		case r.tag == tagParaText:
			t, er := paraText(r.data)
			if er != nil {
				return paras, first, er
			}
			paras[len(paras)-1] += t
		case r.tag == tagParaCharShape:
			// pairs of (position, shape id), the first pair starts at 0
			if !first.found && len(r.data) >= 8 && paras[len(paras)-1] != "" {
				first = charShapeRef{found: true, id: binary.LittleEndian.Uint32(r.data[4:])}
			}
		}
	}
	return paras, first, err
}
