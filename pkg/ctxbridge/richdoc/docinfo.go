package richdoc

import (
	"encoding/binary"
	"strings"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/stylemap"
)

// charShape is the subset of an HWPTAG_CHAR_SHAPE record the reader maps
// onto StyleAttributes.
type charShape struct {
	face      uint16 // first language group (hangul) face id
	size      int32  // 1/100 pt
	props     uint32
	textColor uint32 // COLORREF, 0x00BBGGRR
	shade     uint32
}

const charShapeLen = 64

func parseCharShape(data []byte) (charShape, bool) {
	if len(data) < charShapeLen {
		return charShape{}, false
	}
	le := binary.LittleEndian
	// 7 face ids, 7 ratios, 7 spacings, 7 relative sizes, 7 offsets
	return charShape{
		face:      le.Uint16(data[0:]),
		size:      int32(le.Uint32(data[42:])),
		props:     le.Uint32(data[46:]),
		textColor: le.Uint32(data[52:]),
		shade:     le.Uint32(data[60:]),
	}, true
}

func (c charShape) bold() bool      { return c.props&(1<<1) != 0 }
func (c charShape) underline() int  { return int(c.props>>2) & 0x3 }
func (c charShape) strikeout() bool { return (c.props>>18)&0x7 != 0 }

// noColor is the COLORREF used for "no shade".
const noColor = 0xFFFFFFFF

// docInfo holds the font and character shape tables of a document.
type docInfo struct {
	faces  []string
	shapes []charShape
}

func parseDocInfo(stream []byte) (docInfo, error) {
	recs, err := parseRecords(stream)
	var info docInfo
	for _, r := range recs {
		switch r.tag {
		case tagFaceName:
			info.faces = append(info.faces, faceName(r.data))
		case tagCharShape:
			if cs, ok := parseCharShape(r.data); ok {
				info.shapes = append(info.shapes, cs)
			} else {
				// keep ids aligned with record order
				info.shapes = append(info.shapes, charShape{})
			}
		}
	}
	return info, err
}

// faceName reads the name of a FACE_NAME record: one property byte, a
// 16-bit length and that many UTF-16 units.
func faceName(data []byte) string {
	if len(data) < 3 {
		return ""
	}
	n := int(binary.LittleEndian.Uint16(data[1:]))
	if 3+2*n > len(data) {
		return ""
	}
	name, err := utf16le.NewDecoder().Bytes(data[3 : 3+2*n])
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(name))
}

var underlineNames = [...]string{"none", "single", "none", "overline"}

// style maps the char shape with the given id onto the fixed attribute set.
func (info docInfo) style(ref charShapeRef) models.StyleAttributes {
	style := models.StyleAttributes{}
	if !ref.found || int(ref.id) >= len(info.shapes) {
		return style
	}
	cs := info.shapes[ref.id]
	if int(cs.face) < len(info.faces) && info.faces[cs.face] != "" {
		style.Set(models.StyleFontName, info.faces[cs.face])
	}
	if cs.size > 0 {
		style.Set(models.StyleFontSize, float64(cs.size)/100)
	}
	style.Set(models.StyleFontWeight, cs.bold())
	style.Set(models.StyleStrikeThrough, cs.strikeout())
	style.Set(models.StyleUnderlineStyle, underlineNames[cs.underline()])
	style.Set(models.StyleForegroundColor, stylemap.HexRGB(int(cs.textColor&0xFFFFFF)))
	if cs.shade != noColor {
		style.Set(models.StyleBackgroundColor, stylemap.HexRGB(int(cs.shade&0xFFFFFF)))
	}
	return style
}
