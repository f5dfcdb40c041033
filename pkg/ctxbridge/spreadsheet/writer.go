package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/stylemap"
)

// ErrNotOpen is returned by writer calls made before a workbook was opened.
var ErrNotOpen = errors.New("no workbook open")

// Writer injects styled text into a workbook cell.
type Writer struct {
	env    *state.Env
	log    *zap.Logger
	mapper *stylemap.Mapper
	scope  *host.Scope

	f    *excelize.File
	path string
	// sel is the live selection when attached to the foreground workbook.
	sel host.Selection
}

// NewWriter returns a writer; OpenFile or OpenForeground must be called first.
func NewWriter(env *state.Env) *Writer {
	log := env.Log.Named("spreadsheet")
	return &Writer{
		env:    env,
		log:    log,
		mapper: stylemap.New(stylemap.LimitsFromConfig(env.Cfg), log),
		scope:  host.NewScope(log),
	}
}

// Family reports Excel.
func (w *Writer) Family() models.FileType {
	return models.FileTypeExcel
}

// OpenFile opens the workbook at path in the background.
func (w *Writer) OpenFile(_ context.Context, path string) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	w.scope.Add("workbook", f.Close)
	w.f, w.path = f, path
	return nil
}

// OpenForeground attaches to the workbook the application has in the
// foreground and remembers its live selection.
func (w *Writer) OpenForeground(ctx context.Context) error {
	doc, err := host.Foreground(ctx, w.env.Host, w.env.AttachPolicy(), w.log, models.FileTypeExcel, w.env.Cfg.Processes.Excel)
	if err != nil {
		return err
	}
	w.sel = doc.Selection
	return w.OpenFile(ctx, doc.Path)
}

// ApplyTextWithStyle writes markup into the cell addressed by token. An
// unresolvable token falls back to the live selection, the stored sheet
// selection and finally the first free row of column A.
func (w *Writer) ApplyTextWithStyle(_ context.Context, markup, token string) (models.Placement, error) {
	if w.f == nil {
		return models.Placement{}, ErrNotOpen
	}
	blocks, err := stylemap.Parse(markup)
	if err != nil {
		return models.Placement{}, fmt.Errorf("parse markup: %w", err)
	}

	sheet, cell, placement := w.target(token)

	ct := &cellText{}
	for _, b := range blocks {
		if err := w.mapper.Apply(ct.region(), b); err != nil {
			w.log.Debug("Block partially styled", zap.String("cell", cell), zap.Error(err))
		}
	}
	if err := w.f.SetCellRichText(sheet, cell, ct.richText()); err != nil {
		return placement, fmt.Errorf("set cell %s!%s: %w", sheet, cell, err)
	}
	if id, err := w.f.NewStyle(ct.style()); err != nil {
		w.log.Warn("Unable to create cell style", zap.Error(err))
	} else if err := w.f.SetCellStyle(sheet, cell, cell, id); err != nil {
		w.log.Warn("Unable to apply cell style", zap.String("cell", cell), zap.Error(err))
	}
	w.log.Debug("Text injected", zap.String("where", placement.Where), zap.Bool("exact", placement.Exact), zap.Int("runs", len(ct.runs)))
	return placement, nil
}

func (w *Writer) target(token string) (string, string, models.Placement) {
	active := activeSheet(w.f)
	at := func(sheet, cell string, exact bool) (string, string, models.Placement) {
		return sheet, cell, models.Placement{Exact: exact, Where: sheet + "!" + cell}
	}

	if token != "" {
		r, err := location.DecodeCells(token, w.f.GetSheetList(), active)
		if err == nil {
			cell, _ := excelize.CoordinatesToCellName(r.Col1, r.Row1)
			return at(r.Sheet, cell, true)
		}
		w.log.Info("Location no longer resolves, falling back", zap.String("token", token), zap.Error(err))
	}

	if w.sel.Range != "" {
		sheet := w.sel.Sheet
		if sheet == "" {
			sheet = active
		}
		if !slices.Contains(w.f.GetSheetList(), sheet) {
			w.log.Info("Selection sheet no longer exists", zap.String("sheet", sheet))
		} else if r, err := location.RangeFromRef(sheet, w.sel.Range); err == nil {
			cell, _ := excelize.CoordinatesToCellName(r.Col1, r.Row1)
			return at(sheet, cell, false)
		}
	}
	if r, ok := storedSelection(w.f, active); ok {
		cell, _ := excelize.CoordinatesToCellName(r.Col1, r.Row1)
		return at(active, cell, false)
	}
	rows, _ := w.f.GetRows(active)
	cell, _ := excelize.CoordinatesToCellName(1, nextFreeRow(rows))
	return at(active, cell, false)
}

// GetFileInfo returns the identity of the open workbook.
func (w *Writer) GetFileInfo() models.FileIdentity {
	return fileid.Identify(w.path)
}

// Save writes the workbook back atomically.
func (w *Writer) Save(_ context.Context) error {
	if w.f == nil {
		return ErrNotOpen
	}
	buf, err := w.f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("serialise workbook: %w", err)
	}
	return ooxml.WriteFileAtomic(w.path, buf.Bytes())
}

// Close releases the workbook.
func (w *Writer) Close() error {
	w.f = nil
	return w.scope.Close()
}
