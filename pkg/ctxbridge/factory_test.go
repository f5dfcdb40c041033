package ctxbridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/config"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host/hostfake"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml/ooxmltest"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

func testEnv(t *testing.T, h host.Host) *state.Env {
	t.Helper()
	cfg := config.Default()
	cfg.Attach.Delay = time.Millisecond
	return state.New(cfg, zaptest.NewLogger(t), h)
}

// stubReader returns a fixed result and counts its invocations.
type stubReader struct {
	res   models.Result
	calls int
}

func (s *stubReader) Family() models.FileType { return models.FileTypeOther }

func (s *stubReader) GetSelectedTextWithStyle(context.Context, bool) models.Result {
	s.calls++
	return s.res
}

func stub(res models.Result) (*stubReader, ReaderFunc) {
	s := &stubReader{res: res}
	return s, func(*state.Env, string) Reader { return s }
}

func withText(text string) models.Result {
	return models.Success(models.ExtractedContext{SelectedText: text})
}

func writeReport(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "Revenue"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", 1200))
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// A path with a spreadsheet extension and a live spreadsheet selection is
// answered by the spreadsheet reader alone.
func TestReadSpreadsheetPathFirstAttempt(t *testing.T) {
	path := writeReport(t)
	d := &hostfake.Desktop{
		Running: map[string]bool{"EXCEL.EXE": true},
		Documents: map[models.FileType]host.ActiveDocument{
			models.FileTypeExcel: {Path: path, Selection: host.Selection{Sheet: "Sheet1", Range: "A1:B1"}},
		},
	}
	cb := &hostfake.Clipboard{}
	env := testEnv(t, host.Host{Desktop: d, Clipboard: cb, Accessibility: &hostfake.Accessibility{}})

	word, wordFn := stub(withText("word"))
	browserStub, browserFn := stub(withText("browser"))
	acc, accFn := stub(withText("accessibility"))
	clip, clipFn := stub(withText("clipboard"))
	f := NewFactory(env,
		WithReader(string(models.FileTypeWord), wordFn),
		WithReader(ProbeBrowser, browserFn),
		WithReader(ProbeAccessibility, accFn),
		WithReader(ProbeClipboard, clipFn),
	)

	out := f.Read(context.Background(), path, DefaultOptions())
	require.True(t, out.Result.OK(), "%v", out.Result.Err)
	assert.Equal(t, string(models.FileTypeExcel), out.Reader)
	assert.Equal(t, "Revenue\t1200", out.Result.Context.SelectedText)
	require.Len(t, out.Trace, 1)
	assert.True(t, out.Trace[0].Invoked)
	assert.Equal(t, SideEffectNone, out.Trace[0].SideEffect)

	for _, s := range []*stubReader{word, browserStub, acc, clip} {
		assert.Zero(t, s.calls)
	}
	assert.Empty(t, d.Chords)
	assert.Zero(t, cb.Writes)
}

func TestReadOfficePriority(t *testing.T) {
	d := &hostfake.Desktop{Running: map[string]bool{"EXCEL.EXE": true, "POWERPNT.EXE": true}}
	env := testEnv(t, host.Host{Desktop: d})

	word, wordFn := stub(withText("word"))
	excel, excelFn := stub(models.Empty())
	ppt, pptFn := stub(withText("slide text"))
	clip, clipFn := stub(withText("clipboard"))
	f := NewFactory(env,
		WithReader(string(models.FileTypeWord), wordFn),
		WithReader(string(models.FileTypeExcel), excelFn),
		WithReader(string(models.FileTypePowerPoint), pptFn),
		WithReader(ProbeClipboard, clipFn),
	)

	out := f.Read(context.Background(), "", DefaultOptions())
	require.True(t, out.Result.OK())
	assert.Equal(t, "slide text", out.Result.Context.SelectedText)
	assert.Equal(t, string(models.FileTypePowerPoint), out.Reader)

	assert.Zero(t, word.calls, "word is not running")
	assert.Equal(t, 1, excel.calls)
	assert.Equal(t, 1, ppt.calls)
	assert.Zero(t, clip.calls)

	require.Len(t, out.Trace, 3)
	assert.False(t, out.Trace[0].Invoked)
	assert.Equal(t, models.StatusEmpty, out.Trace[1].Status)
}

func TestReadFallsThroughToBrowser(t *testing.T) {
	d := &hostfake.Desktop{Window: host.Window{Title: "Docs - Google Chrome"}}
	env := testEnv(t, host.Host{Desktop: d})

	excel, excelFn := stub(models.Failed(models.KindTransient, host.ErrNotRunning))
	browserStub, browserFn := stub(withText("from browser"))
	f := NewFactory(env,
		WithReader(string(models.FileTypeExcel), excelFn),
		WithReader(ProbeBrowser, browserFn),
	)

	out := f.Read(context.Background(), "missing.xlsx", DefaultOptions())
	require.True(t, out.Result.OK())
	assert.Equal(t, ProbeBrowser, out.Reader)
	assert.Equal(t, 1, excel.calls)
	assert.Equal(t, 1, browserStub.calls)
	assert.Equal(t, models.KindTransient, out.Trace[0].Kind)
	assert.Equal(t, SideEffectClipboard, out.Trace[1].SideEffect)
}

func TestReadClipboardIsFinal(t *testing.T) {
	d := &hostfake.Desktop{Window: host.Window{Title: "Terminal"}}
	env := testEnv(t, host.Host{Desktop: d, Accessibility: &hostfake.Accessibility{}})

	browserStub, browserFn := stub(withText("never"))
	acc, accFn := stub(models.Failed(models.KindAcquisition, host.ErrUnavailable))
	clip, clipFn := stub(models.Empty())
	f := NewFactory(env,
		WithReader(ProbeBrowser, browserFn),
		WithReader(ProbeAccessibility, accFn),
		WithReader(ProbeClipboard, clipFn),
	)

	opts := DefaultOptions()
	opts.OfficeOrder = []models.FileType{}
	out := f.Read(context.Background(), "", opts)
	assert.Equal(t, models.StatusEmpty, out.Result.Status)
	assert.Equal(t, "", out.Result.Context.SelectedText)
	assert.Empty(t, out.Reader)
	assert.Zero(t, browserStub.calls)
	assert.Equal(t, 1, acc.calls)
	assert.Equal(t, 1, clip.calls)

	names := make([]string, 0, len(out.Trace))
	for _, r := range out.Trace {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{ProbeBrowser, ProbeAccessibility, ProbeClipboard}, names)
}

func TestProbesSideEffects(t *testing.T) {
	env := testEnv(t, host.Host{Desktop: &hostfake.Desktop{}})
	f := NewFactory(env)

	probes := f.Probes("notes.docx", Options{ReadAll: true})
	require.Len(t, probes, 3)
	assert.Equal(t, string(models.FileTypeWord), probes[0].Name)
	assert.Equal(t, SideEffectNone, probes[0].SideEffect)
	assert.Equal(t, SideEffectClipboard|SideEffectSelection, probes[1].SideEffect)
	assert.Equal(t, "clipboard+selection", probes[1].SideEffect.String())
	assert.Equal(t, ProbeClipboard, probes[2].Name)

	probes = f.Probes("image.png", DefaultOptions())
	assert.Equal(t, ProbeBrowser, probes[0].Name)
}

func TestWriterDispatch(t *testing.T) {
	f := NewFactory(testEnv(t, host.Host{}))
	tests := []struct {
		fileType string
		family   models.FileType
	}{
		{"docx", models.FileTypeWord},
		{".xlsx", models.FileTypeExcel},
		{"PowerPoint", models.FileTypePowerPoint},
	}
	for _, tt := range tests {
		t.Run(tt.fileType, func(t *testing.T) {
			w, err := f.Writer(tt.fileType)
			require.NoError(t, err)
			assert.Equal(t, tt.family, w.Family())
		})
	}

	for _, bad := range []string{"hwp", "txt", ""} {
		_, err := f.Writer(bad)
		assert.ErrorIs(t, err, ErrUnsupportedFileType, bad)
		assert.Equal(t, models.KindUnsupported, Classify(err))
	}
}

func TestInjectBackgroundByIdentity(t *testing.T) {
	dir := t.TempDir()
	path := ooxmltest.WriteFile(t, dir, "notes.docx", ooxmltest.Docx("Intro", "Body"))
	id := fileid.Identify(path)
	token, ok := location.EncodeSpan("Intro\nBody", location.TextSpan{Start: 0, End: 5})
	require.True(t, ok)

	f := NewFactory(testEnv(t, host.Host{Desktop: &hostfake.Desktop{}}))
	p, err := f.Inject(context.Background(), models.InjectRequest{
		Markup:     "<p>Answer</p>",
		Location:   token,
		File:       models.FileInfo(id),
		TargetProg: true,
	})
	require.NoError(t, err)
	assert.True(t, p.Exact)

	out := f.Read(context.Background(), path, Options{ReadAll: true})
	require.True(t, out.Result.OK(), "%v", out.Result.Err)
	assert.Equal(t, "Intro\nAnswer\nBody", out.Result.Context.SelectedText)
}

func TestInjectFollowsMovedFile(t *testing.T) {
	dir := t.TempDir()
	path := ooxmltest.WriteFile(t, dir, "deck.pptx", ooxmltest.Pptx([]string{"title"}))
	id := fileid.Identify(path)
	if !id.Determinable() {
		t.Skip("file system does not report stable identifiers")
	}
	moved := filepath.Join(dir, "renamed.pptx")
	require.NoError(t, os.Rename(path, moved))

	f := NewFactory(testEnv(t, host.Host{Desktop: &hostfake.Desktop{}}))
	p, err := f.Inject(context.Background(), models.InjectRequest{
		Markup:     "<p>note</p>",
		Location:   "1,1,0",
		File:       models.FileInfo(id),
		TargetProg: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "slide 1", p.Where)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestInjectForegroundFallsBackToFile(t *testing.T) {
	path := writeReport(t)
	f := NewFactory(testEnv(t, host.Host{Desktop: &hostfake.Desktop{}}))

	p, err := f.Inject(context.Background(), models.InjectRequest{
		Markup:   "<p>total</p>",
		Location: "Sheet1!2,2",
		File:     models.FileInfo(fileid.Identify(path)),
	})
	require.NoError(t, err)
	assert.Equal(t, models.Placement{Exact: true, Where: "Sheet1!B2"}, p)

	wb, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer wb.Close()
	v, err := wb.GetCellValue("Sheet1", "B2")
	require.NoError(t, err)
	assert.Equal(t, "total", v)
}

func TestInjectUnsupported(t *testing.T) {
	f := NewFactory(testEnv(t, host.Host{}))
	_, err := f.Inject(context.Background(), models.InjectRequest{Markup: "<p>x</p>", File: models.FileInfo{FileType: models.FileTypeHwp}})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestInjectNothingToOpen(t *testing.T) {
	f := NewFactory(testEnv(t, host.Host{Desktop: &hostfake.Desktop{}}))
	_, err := f.Inject(context.Background(), models.InjectRequest{
		Markup: "<p>x</p>",
		File:   models.FileInfo{FileType: models.FileTypeWord},
	})
	var opErr *OperationError
	require.ErrorAs(t, err, &opErr)
	assert.Equal(t, models.FileTypeWord, opErr.Family)
	assert.Equal(t, "open", opErr.Op)
	assert.Equal(t, models.KindTransient, Classify(err))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, models.KindNone, Classify(nil))
	assert.Equal(t, models.KindUnresolvable, Classify(location.ErrMalformedToken))
	assert.Equal(t, models.KindTransient, Classify(NewOperationError(models.FileTypeExcel, "open", host.ErrNotRunning)))
	assert.Equal(t, models.KindAcquisition, Classify(os.ErrPermission))
}
