package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/cenkalti/backoff/v5"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

// Reader extracts the live selection of a running spreadsheet application.
type Reader struct {
	env  *state.Env
	log  *zap.Logger
	path string
}

// NewReader returns a reader. A non-empty path names the workbook to read
// when the application cannot report its foreground document.
func NewReader(env *state.Env, path string) *Reader {
	return &Reader{env: env, log: env.Log.Named("spreadsheet"), path: path}
}

// Family reports Excel.
func (r *Reader) Family() models.FileType {
	return models.FileTypeExcel
}

// GetSelectedTextWithStyle reads the current selection, or the whole active
// sheet when readAll is set. The style is the style of the first cell of the
// range. Every attempt releases its handles before the next one starts.
func (r *Reader) GetSelectedTextWithStyle(ctx context.Context, readAll bool) models.Result {
	ec, err := host.Attach(ctx, r.env.AttachPolicy(), r.log, func(int) (models.ExtractedContext, error) {
		scope := host.NewScope(r.log)
		defer scope.Close()
		return r.extract(ctx, scope, readAll)
	})
	if errors.Is(err, models.ErrEmptyContext) {
		return models.Empty()
	}
	if err != nil {
		r.log.Debug("Unable to read spreadsheet selection", zap.Error(err))
		return models.Failed(host.Kind(err), err)
	}
	return models.Success(ec)
}

func (r *Reader) extract(ctx context.Context, scope *host.Scope, readAll bool) (models.ExtractedContext, error) {
	if !host.AnyRunning(ctx, r.env.Host.Desktop, r.env.Cfg.Processes.Excel) {
		return models.ExtractedContext{}, host.ErrNotRunning
	}

	path, sel := r.path, host.Selection{}
	doc, err := r.env.Host.Desktop.ActiveDocument(ctx, models.FileTypeExcel)
	switch {
	case err == nil && (path == "" || fileid.Same(path, doc.Path)):
		path, sel = doc.Path, doc.Selection
	case err == nil:
		r.log.Debug("Foreground workbook differs from requested one", zap.String("foreground", doc.Path), zap.String("path", path))
	case path == "" && errors.Is(err, host.ErrUnavailable):
		return models.ExtractedContext{}, backoff.Permanent(err)
	case path == "":
		return models.ExtractedContext{}, err
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return models.ExtractedContext{}, backoff.Permanent(err)
		}
		// locked by the application mid-save, worth another attempt
		return models.ExtractedContext{}, fmt.Errorf("open workbook: %w", err)
	}
	scope.Add("workbook", f.Close)

	rng, rows, err := selection(f, sel, readAll)
	if err != nil {
		return models.ExtractedContext{}, backoff.Permanent(err)
	}
	token := location.EncodeCells(rng)
	id := fileid.Identify(path)
	return models.ExtractedContext{
		SelectedText: rangeText(rows, rng),
		Style:        firstCellStyle(f, rng),
		Location:     &token,
		File:         &id,
	}, nil
}

// selection resolves the range to read: the live selection, the print area
// or used range for readAll, then the selection stored in the sheet view.
func selection(f *excelize.File, sel host.Selection, readAll bool) (location.CellRange, [][]string, error) {
	sheet := sel.Sheet
	if sheet == "" {
		sheet = activeSheet(f)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return location.CellRange{}, nil, err
	}

	if readAll {
		if r, ok := printArea(f, sheet); ok {
			return r, rows, nil
		}
		if r, ok := usedRange(sheet, rows); ok {
			return r, rows, nil
		}
		return location.CellRange{}, nil, models.ErrEmptyContext
	}
	if sel.Range != "" {
		r, err := location.RangeFromRef(sheet, sel.Range)
		return r, rows, err
	}
	if r, ok := storedSelection(f, sheet); ok {
		return r, rows, nil
	}
	return location.CellRange{Sheet: sheet, Row1: 1, Col1: 1, Row2: 1, Col2: 1}, rows, nil
}
