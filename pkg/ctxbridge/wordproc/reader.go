package wordproc

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

// Reader extracts the selection of a word-processing document.
type Reader struct {
	env  *state.Env
	log  *zap.Logger
	path string
}

// NewReader returns a reader for the document at path, or for the
// foreground document when path is empty.
func NewReader(env *state.Env, path string) *Reader {
	return &Reader{env: env, log: env.Log.Named("wordproc"), path: path}
}

// Family reports Word.
func (r *Reader) Family() models.FileType {
	return models.FileTypeWord
}

// GetSelectedTextWithStyle returns the selected text, or the whole
// document when nothing is selected or readAll is set, with the style of
// the first styled run.
func (r *Reader) GetSelectedTextWithStyle(ctx context.Context, readAll bool) models.Result {
	path, sel, err := r.target(ctx)
	if err != nil {
		r.log.Debug("No word-processing document", zap.Error(err))
		return models.Failed(host.Kind(err), err)
	}

	scope := host.NewScope(r.log)
	defer scope.Close()

	pkg, err := ooxml.Open(path)
	if err != nil {
		return models.Failed(models.KindAcquisition, fmt.Errorf("open document: %w", err))
	}
	scope.Add("document", pkg.Close)

	doc, err := load(pkg)
	if err != nil {
		return models.Failed(models.KindAcquisition, err)
	}

	span := location.TextSpan{Start: 0, End: len(doc.text)}
	if !readAll && sel.IsText() {
		span = location.TextSpan{Start: min(sel.Start, len(doc.text)), End: min(sel.End, len(doc.text))}
	}
	token, _ := location.EncodeSpan(doc.Text(), span)
	id := fileid.Identify(path)
	r.log.Debug("Document read", zap.String("path", path), zap.Int("start", span.Start), zap.Int("end", span.End))
	return models.Success(models.ExtractedContext{
		SelectedText: span.Slice(doc.text),
		Style:        captureStyle(doc.firstStyledRun(span.Start, span.End)),
		Location:     &token,
		File:         &id,
	})
}

// target resolves the document and live selection to read. With a path the
// selection is only used when the foreground document is that same file.
func (r *Reader) target(ctx context.Context) (string, host.Selection, error) {
	if r.path != "" {
		if host.AnyRunning(ctx, r.env.Host.Desktop, r.env.Cfg.Processes.Word) {
			doc, err := r.env.Host.Desktop.ActiveDocument(ctx, models.FileTypeWord)
			if err == nil && fileid.Same(doc.Path, r.path) {
				return r.path, doc.Selection, nil
			}
		}
		return r.path, host.Selection{}, nil
	}
	doc, err := host.Foreground(ctx, r.env.Host, r.env.AttachPolicy(), r.log, models.FileTypeWord, r.env.Cfg.Processes.Word)
	if err != nil {
		return "", host.Selection{}, err
	}
	return doc.Path, doc.Selection, nil
}
