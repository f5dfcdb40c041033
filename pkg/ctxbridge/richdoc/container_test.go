package richdoc

import (
	"bytes"
	"compress/flate"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

const (
	cfbSector = 512
	cfbCutoff = 4096

	cfbFree = 0xFFFFFFFF
	cfbEnd  = 0xFFFFFFFE
	cfbFAT  = 0xFFFFFFFD
	cfbNone = 0xFFFFFFFF

	cfbStorage = 1
	cfbStream  = 2
	cfbRoot    = 5
)

// cfbEntry is one directory entry of a generated compound file.
type cfbEntry struct {
	name               string
	typ                byte
	left, right, child uint32
	data               []byte
}

// compoundFile lays entries out as a version 3 compound file: one FAT
// sector, the directory sectors, then every stream in regular sectors.
// Streams are padded to the mini stream cutoff so no mini FAT is needed.
func compoundFile(t *testing.T, entries []cfbEntry) []byte {
	t.Helper()
	dirSectors := (len(entries) + 3) / 4

	chain := func(fat []uint32, n int) []uint32 {
		for i := 0; i < n; i++ {
			next := uint32(len(fat) + 1)
			if i == n-1 {
				next = cfbEnd
			}
			fat = append(fat, next)
		}
		return fat
	}
	fat := chain([]uint32{cfbFAT}, dirSectors)

	var body bytes.Buffer
	starts := make([]uint32, len(entries))
	sizes := make([]uint32, len(entries))
	for i, e := range entries {
		starts[i] = cfbEnd
		if e.typ != cfbStream {
			continue
		}
		size := max(len(e.data), cfbCutoff)
		n := (size + cfbSector - 1) / cfbSector
		starts[i], sizes[i] = uint32(len(fat)), uint32(size)
		fat = chain(fat, n)
		padded := make([]byte, n*cfbSector)
		copy(padded, e.data)
		body.Write(padded)
	}
	require.LessOrEqual(t, len(fat), cfbSector/4, "fixture outgrows one FAT sector")

	out := make([]byte, cfbSector*(1+len(fat)))
	le := binary.LittleEndian

	h := out[:cfbSector]
	le.PutUint64(h, 0xE11AB1A1E011CFD0)
	le.PutUint16(h[24:], 0x3E)
	le.PutUint16(h[26:], 3)
	le.PutUint16(h[28:], 0xFFFE)
	le.PutUint16(h[30:], 9)
	le.PutUint16(h[32:], 6)
	le.PutUint32(h[44:], 1)
	le.PutUint32(h[48:], 1)
	le.PutUint32(h[56:], cfbCutoff)
	le.PutUint32(h[60:], cfbEnd)
	le.PutUint32(h[68:], cfbEnd)
	le.PutUint32(h[76:], 0)
	for off := 80; off < cfbSector; off += 4 {
		le.PutUint32(h[off:], cfbFree)
	}

	sector := func(n int) []byte { return out[(n+1)*cfbSector : (n+2)*cfbSector] }
	fatSector := sector(0)
	for i := 0; i < cfbSector/4; i++ {
		v := uint32(cfbFree)
		if i < len(fat) {
			v = fat[i]
		}
		le.PutUint32(fatSector[4*i:], v)
	}

	for i, e := range entries {
		b := out[2*cfbSector+i*128:]
		units := utf16.Encode([]rune(e.name))
		for j, u := range units {
			le.PutUint16(b[2*j:], u)
		}
		le.PutUint16(b[64:], uint16(2*(len(units)+1)))
		b[66] = e.typ
		b[67] = 1
		le.PutUint32(b[68:], e.left)
		le.PutUint32(b[72:], e.right)
		le.PutUint32(b[76:], e.child)
		le.PutUint32(b[116:], starts[i])
		le.PutUint32(b[120:], sizes[i])
	}
	copy(out[(2+dirSectors)*cfbSector:], body.Bytes())
	return out
}

func deflated(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw, err := flate.NewWriter(&buf, flate.BestCompression)
	require.NoError(t, err)
	_, err = zw.Write(data)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// writeHWP writes a compressed two-section document. The directory tree
// lists Section1 before Section0.
func writeHWP(t *testing.T, flags uint32) string {
	t.Helper()
	info := join(
		rec(tagFaceName, 1, faceRecord("Batang")),
		rec(tagCharShape, 1, charShapeRecord(0, 1200, 1<<1, 0, noColor)),
	)
	first := join(rec(tagParaHeader, 0, nil), rec(tagParaText, 1, text("first")), rec(tagParaCharShape, 1, shapeRef(0)))
	second := join(rec(tagParaHeader, 0, nil), rec(tagParaText, 1, text("second")))

	data := compoundFile(t, []cfbEntry{
		{name: "Root Entry", typ: cfbRoot, left: cfbNone, right: cfbNone, child: 1},
		{name: "FileHeader", typ: cfbStream, left: cfbNone, right: 2, child: cfbNone, data: fileHeader(0x05000300, flags)},
		{name: "DocInfo", typ: cfbStream, left: cfbNone, right: 3, child: cfbNone, data: deflated(t, info)},
		{name: "BodyText", typ: cfbStorage, left: cfbNone, right: cfbNone, child: 4},
		{name: "Section0", typ: cfbStream, left: 5, right: cfbNone, child: cfbNone, data: deflated(t, first)},
		{name: "Section1", typ: cfbStream, left: cfbNone, right: cfbNone, child: cfbNone, data: deflated(t, second)},
	})
	path := filepath.Join(t.TempDir(), "memo.hwp")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestOpenContainer(t *testing.T) {
	c, err := openContainer(writeHWP(t, flagCompressed))
	require.NoError(t, err)
	assert.True(t, c.header.compressed())
	assert.Equal(t, "5.0.3.0", c.header.Version())
	require.Len(t, c.sections, 2)

	got, ref, err := c.text()
	require.NoError(t, err)
	assert.Equal(t, "first\nsecond", got)
	assert.Equal(t, charShapeRef{found: true, id: 0}, ref)

	info, err := parseDocInfo(c.docInfo)
	require.NoError(t, err)
	assert.Len(t, info.shapes, 1)
}

func TestReaderCompoundFile(t *testing.T) {
	res := NewReader(testEnv(t), writeHWP(t, flagCompressed)).GetSelectedTextWithStyle(context.Background(), false)
	require.True(t, res.OK(), "%v", res.Err)
	assert.Equal(t, "first\nsecond", res.Context.SelectedText)
	assert.Equal(t, "Batang", res.Context.Style[models.StyleFontName])
	assert.Equal(t, 12.0, res.Context.Style[models.StyleFontSize])
	assert.Equal(t, true, res.Context.Style[models.StyleFontWeight])
	require.NotNil(t, res.Context.Location)
	require.NotNil(t, res.Context.File)
}

func TestReaderProtectedCompoundFile(t *testing.T) {
	res := NewReader(testEnv(t), writeHWP(t, flagCompressed|flagPassword)).GetSelectedTextWithStyle(context.Background(), false)
	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, models.KindUnsupported, res.Kind)
	assert.ErrorIs(t, res.Err, ErrProtected)
}
