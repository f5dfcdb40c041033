package spreadsheet

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/config"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host/hostfake"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

func testEnv(t *testing.T, d *hostfake.Desktop) *state.Env {
	t.Helper()
	cfg := config.Default()
	cfg.Attach.Delay = time.Millisecond
	cfg.Processes.Excel = []string{"EXCEL.EXE"}
	return state.New(cfg, zaptest.NewLogger(t), host.Host{Desktop: d})
}

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	f.SetCellValue(sheet, "A1", "Name")
	f.SetCellValue(sheet, "B1", "Qty")
	f.SetCellValue(sheet, "A2", "apple")
	f.SetCellValue(sheet, "B2", 3)
	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Family: "Arial", Size: 14, Color: "FF0000"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"FFFF00"}},
	})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "A1", "A1", style))

	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReaderSelection(t *testing.T) {
	path := writeWorkbook(t)
	d := &hostfake.Desktop{
		Running: map[string]bool{"EXCEL.EXE": true},
		Documents: map[models.FileType]host.ActiveDocument{
			models.FileTypeExcel: {Path: path, Selection: host.Selection{Sheet: "Sheet1", Range: "A1:B2"}},
		},
	}
	res := NewReader(testEnv(t, d), "").GetSelectedTextWithStyle(context.Background(), false)
	require.True(t, res.OK(), "%v", res.Err)

	assert.Equal(t, "Name\tQty\napple\t3", res.Context.SelectedText)
	require.NotNil(t, res.Context.Location)
	assert.Equal(t, "Sheet1!1,1:2,2", *res.Context.Location)
	require.NotNil(t, res.Context.File)
	assert.Equal(t, models.FileTypeExcel, res.Context.File.FileType)

	st := res.Context.Style
	assert.Equal(t, true, st[models.StyleFontWeight])
	assert.Equal(t, "Arial", st[models.StyleFontName])
	assert.Equal(t, 14.0, st[models.StyleFontSize])
	assert.True(t, hasColor(st[models.StyleForegroundColor], "FF0000"))
	assert.True(t, hasColor(st[models.StyleBackgroundColor], "FFFF00"))
}

func TestReaderFirstCellStandsForRange(t *testing.T) {
	path := writeWorkbook(t)
	d := &hostfake.Desktop{
		Running: map[string]bool{"EXCEL.EXE": true},
		Documents: map[models.FileType]host.ActiveDocument{
			models.FileTypeExcel: {Path: path, Selection: host.Selection{Sheet: "Sheet1", Range: "A2:B2"}},
		},
	}
	res := NewReader(testEnv(t, d), "").GetSelectedTextWithStyle(context.Background(), false)
	require.True(t, res.OK())
	assert.Equal(t, "apple\t3", res.Context.SelectedText)
	assert.Equal(t, false, res.Context.Style[models.StyleFontWeight])
}

func TestReaderReadAllWithPath(t *testing.T) {
	path := writeWorkbook(t)
	// the application runs but cannot report documents
	d := &hostfake.Desktop{Running: map[string]bool{"EXCEL.EXE": true}}
	res := NewReader(testEnv(t, d), path).GetSelectedTextWithStyle(context.Background(), true)
	require.True(t, res.OK(), "%v", res.Err)
	assert.Equal(t, "Name\tQty\napple\t3", res.Context.SelectedText)
}

func TestReaderReadAllEmptySheet(t *testing.T) {
	f := excelize.NewFile()
	path := filepath.Join(t.TempDir(), "blank.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	d := &hostfake.Desktop{Running: map[string]bool{"EXCEL.EXE": true}}
	res := NewReader(testEnv(t, d), path).GetSelectedTextWithStyle(context.Background(), true)
	assert.Equal(t, models.StatusEmpty, res.Status)
	assert.ErrorIs(t, res.Err, models.ErrEmptyContext)
}

func TestReaderNotRunning(t *testing.T) {
	d := &hostfake.Desktop{}
	res := NewReader(testEnv(t, d), "report.xlsx").GetSelectedTextWithStyle(context.Background(), false)

	assert.Equal(t, models.StatusFailed, res.Status)
	assert.Equal(t, models.KindTransient, res.Kind)
	assert.ErrorIs(t, res.Err, host.ErrNotRunning)
	assert.Equal(t, "", res.Context.SelectedText)
	assert.Empty(t, res.Context.Style)
	assert.NotNil(t, res.Context.Style)
	assert.Equal(t, 3, d.RunningCalls)
}

func TestWriterExactCell(t *testing.T) {
	path := writeWorkbook(t)
	w := NewWriter(testEnv(t, &hostfake.Desktop{}))
	require.NoError(t, w.OpenFile(context.Background(), path))

	p, err := w.ApplyTextWithStyle(context.Background(),
		`<p style="text-align:right"><span style="font-weight:bold;background-color:rgb(255,0,0)">Hi</span> there</p>`, "Sheet1!3,2")
	require.NoError(t, err)
	assert.Equal(t, models.Placement{Exact: true, Where: "Sheet1!B3"}, p)
	require.NoError(t, w.Save(context.Background()))
	require.NoError(t, w.Close())

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Sheet1", "B3")
	require.NoError(t, err)
	assert.Equal(t, "Hi there", v)

	runs, err := f.GetCellRichText("Sheet1", "B3")
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.NotNil(t, runs[0].Font)
	assert.True(t, runs[0].Font.Bold)

	id, err := f.GetCellStyle("Sheet1", "B3")
	require.NoError(t, err)
	st, err := f.GetStyle(id)
	require.NoError(t, err)
	assert.Equal(t, "right", st.Alignment.Horizontal)
	require.NotEmpty(t, st.Fill.Color)
	assert.True(t, hasColor(st.Fill.Color[0], "FF0000"))
}

func TestWriterFallsBackToFreeRow(t *testing.T) {
	path := writeWorkbook(t)
	w := NewWriter(testEnv(t, &hostfake.Desktop{}))
	require.NoError(t, w.OpenFile(context.Background(), path))
	defer w.Close()

	p, err := w.ApplyTextWithStyle(context.Background(), `<p>appended</p>`, "Deleted!1,1")
	require.NoError(t, err)
	assert.False(t, p.Exact)

	sheet, cell, ok := strings.Cut(p.Where, "!")
	require.True(t, ok)
	v, err := w.f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	assert.Equal(t, "appended", v)
	assert.Equal(t, "Sheet1", sheet)
}

func TestWriterForegroundSelection(t *testing.T) {
	path := writeWorkbook(t)
	d := &hostfake.Desktop{
		Running: map[string]bool{"EXCEL.EXE": true},
		Documents: map[models.FileType]host.ActiveDocument{
			models.FileTypeExcel: {Path: path, Selection: host.Selection{Sheet: "Sheet1", Range: "D5:E6"}},
		},
	}
	w := NewWriter(testEnv(t, d))
	require.NoError(t, w.OpenForeground(context.Background()))
	defer w.Close()

	p, err := w.ApplyTextWithStyle(context.Background(), "plain", "")
	require.NoError(t, err)
	assert.Equal(t, models.Placement{Exact: false, Where: "Sheet1!D5"}, p)
	assert.Equal(t, "report.xlsx", w.GetFileInfo().FileName)
}

func TestWriterSelectionOnMissingSheet(t *testing.T) {
	path := writeWorkbook(t)
	d := &hostfake.Desktop{
		Running: map[string]bool{"EXCEL.EXE": true},
		Documents: map[models.FileType]host.ActiveDocument{
			models.FileTypeExcel: {Path: path, Selection: host.Selection{Sheet: "Renamed", Range: "B2"}},
		},
	}
	w := NewWriter(testEnv(t, d))
	require.NoError(t, w.OpenForeground(context.Background()))
	defer w.Close()

	p, err := w.ApplyTextWithStyle(context.Background(), "kept", "Renamed!2,2")
	require.NoError(t, err)
	assert.False(t, p.Exact)

	sheet, cell, ok := strings.Cut(p.Where, "!")
	require.True(t, ok)
	assert.Equal(t, "Sheet1", sheet)
	v, err := w.f.GetCellValue(sheet, cell)
	require.NoError(t, err)
	assert.Equal(t, "kept", v)
}

func TestWriterNotOpen(t *testing.T) {
	w := NewWriter(testEnv(t, &hostfake.Desktop{}))
	_, err := w.ApplyTextWithStyle(context.Background(), "x", "")
	assert.ErrorIs(t, err, ErrNotOpen)
	assert.ErrorIs(t, w.Save(context.Background()), ErrNotOpen)
}

func TestRangeText(t *testing.T) {
	rows := [][]string{{"a", "b", "c"}, {"d"}, {}}
	tests := []struct {
		r1, c1, r2, c2 int
		expected       string
	}{
		{1, 1, 1, 1, "a"},
		{1, 1, 2, 3, "a\tb\tc\nd\t\t"},
		{2, 2, 3, 16384, "\n"},
		{5, 1, 6, 2, ""},
	}
	for _, tt := range tests {
		r := rangeOf(tt.r1, tt.c1, tt.r2, tt.c2)
		if got := rangeText(rows, r); got != tt.expected {
			t.Errorf("rangeText(%v) = %q, expected %q", r, got, tt.expected)
		}
	}
}

// hasColor accepts both RRGGBB and AARRGGBB spellings.
func hasColor(v any, rgb string) bool {
	s, ok := v.(string)
	return ok && strings.HasSuffix(strings.ToUpper(s), rgb)
}

func rangeOf(r1, c1, r2, c2 int) location.CellRange {
	return location.CellRange{Sheet: "S", Row1: r1, Col1: c1, Row2: r2, Col2: c2}
}

func TestNextFreeRow(t *testing.T) {
	assert.Equal(t, 1, nextFreeRow(nil))
	assert.Equal(t, 3, nextFreeRow([][]string{{"a"}, {"b"}, {"", "x"}}))
}
