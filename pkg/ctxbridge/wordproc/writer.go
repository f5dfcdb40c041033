package wordproc

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/stylemap"
)

// ErrNotOpen is returned by writer calls made before a document was opened.
var ErrNotOpen = errors.New("no document open")

// Writer inserts styled paragraphs into a word-processing document.
type Writer struct {
	env    *state.Env
	log    *zap.Logger
	mapper *stylemap.Mapper
	scope  *host.Scope

	doc *document
	sel host.Selection
}

// NewWriter returns a writer; OpenFile or OpenForeground must be called first.
func NewWriter(env *state.Env) *Writer {
	log := env.Log.Named("wordproc")
	return &Writer{
		env:    env,
		log:    log,
		mapper: stylemap.New(stylemap.LimitsFromConfig(env.Cfg), log),
		scope:  host.NewScope(log),
	}
}

// Family reports Word.
func (w *Writer) Family() models.FileType {
	return models.FileTypeWord
}

// OpenFile opens the document at path in the background.
func (w *Writer) OpenFile(_ context.Context, path string) error {
	pkg, err := ooxml.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	w.scope.Add("document", pkg.Close)
	doc, err := load(pkg)
	if err != nil {
		return err
	}
	w.doc = doc
	return nil
}

// OpenForeground attaches to the foreground document and keeps its selection.
func (w *Writer) OpenForeground(ctx context.Context) error {
	doc, err := host.Foreground(ctx, w.env.Host, w.env.AttachPolicy(), w.log, models.FileTypeWord, w.env.Cfg.Processes.Word)
	if err != nil {
		return err
	}
	w.sel = doc.Selection
	return w.OpenFile(ctx, doc.Path)
}

// ApplyTextWithStyle inserts one paragraph per markup block after the
// paragraph holding the end of the span addressed by token. When the token
// no longer resolves the paragraphs go after the live selection, or at the
// end of the document.
func (w *Writer) ApplyTextWithStyle(_ context.Context, markup, token string) (models.Placement, error) {
	if w.doc == nil {
		return models.Placement{}, ErrNotOpen
	}
	blocks, err := stylemap.Parse(markup)
	if err != nil {
		return models.Placement{}, fmt.Errorf("parse markup: %w", err)
	}

	after, placement := w.target(token)
	for i, b := range blocks {
		p := w.doc.insertAfter(after)
		if err := w.mapper.Apply(paraBlock{p}, b); err != nil {
			w.log.Debug("Block partially styled", zap.Int("block", i), zap.Error(err))
		}
		// keep following blocks in source order
		w.doc.index()
		after = w.doc.paragraphIndex(p)
	}
	w.doc.pkg.MarkDirty()
	w.log.Debug("Text injected", zap.String("where", placement.Where), zap.Bool("exact", placement.Exact), zap.Int("blocks", len(blocks)))
	return placement, nil
}

func (w *Writer) target(token string) (int, models.Placement) {
	endOf := func(span location.TextSpan) int {
		return w.doc.paragraphAt(max(span.End-1, span.Start))
	}
	if token != "" {
		span, err := location.DecodeSpan(token, w.doc.Text())
		if err == nil {
			idx := endOf(span)
			return idx, models.Placement{Exact: true, Where: fmt.Sprintf("after paragraph %d", idx+1)}
		}
		w.log.Info("Location no longer resolves, falling back", zap.String("token", token), zap.Error(err))
	}
	if w.sel.IsText() && w.sel.End <= len(w.doc.text) {
		idx := endOf(location.TextSpan{Start: w.sel.Start, End: w.sel.End})
		return idx, models.Placement{Where: fmt.Sprintf("after paragraph %d", idx+1)}
	}
	return -1, models.Placement{Where: "end of document"}
}

// GetFileInfo returns the identity of the open document.
func (w *Writer) GetFileInfo() models.FileIdentity {
	if w.doc == nil {
		return models.FileIdentity{FileType: models.FileTypeWord}
	}
	return fileid.Identify(w.doc.pkg.Path())
}

// Save writes the document back atomically.
func (w *Writer) Save(_ context.Context) error {
	if w.doc == nil {
		return ErrNotOpen
	}
	w.doc.pkg.SetXML(w.doc.part, w.doc.doc)
	return w.doc.pkg.Save()
}

// Close releases the document.
func (w *Writer) Close() error {
	w.doc = nil
	return w.scope.Close()
}
