package richdoc

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

// Reader extracts text from an HWP document on disk.
type Reader struct {
	env  *state.Env
	log  *zap.Logger
	path string
}

// NewReader returns a reader for the document at path, or for the
// foreground document when path is empty.
func NewReader(env *state.Env, path string) *Reader {
	return &Reader{env: env, log: env.Log.Named("richdoc"), path: path}
}

// Family reports Hwp.
func (r *Reader) Family() models.FileType {
	return models.FileTypeHwp
}

// GetSelectedTextWithStyle reads the document body. A text selection
// reported by the host narrows the result unless readAll is set.
func (r *Reader) GetSelectedTextWithStyle(ctx context.Context, readAll bool) models.Result {
	path, sel := r.path, host.Selection{}
	if path == "" {
		doc, err := host.Foreground(ctx, r.env.Host, r.env.AttachPolicy(), r.log, models.FileTypeHwp, r.env.Cfg.Processes.Hwp)
		if err != nil {
			r.log.Debug("No rich document", zap.Error(err))
			return models.Failed(host.Kind(err), err)
		}
		path, sel = doc.Path, doc.Selection
	}

	c, err := openContainer(path)
	if err != nil {
		kind := models.KindAcquisition
		if errors.Is(err, ErrProtected) || errors.Is(err, ErrNotHWP) {
			kind = models.KindUnsupported
		}
		r.log.Warn("Unable to open rich document", zap.String("path", path), zap.Error(err))
		return models.Failed(kind, err)
	}

	text, ref, err := c.text()
	if err != nil {
		// keep what was decoded before the damaged record
		r.log.Warn("Body text partially decoded", zap.String("path", path), zap.Error(err))
	}
	info, err := parseDocInfo(c.docInfo)
	if err != nil {
		r.log.Debug("Document info partially decoded", zap.Error(err))
	}

	runes := []rune(text)
	span := location.TextSpan{Start: 0, End: len(runes)}
	if !readAll && sel.IsText() {
		span = location.TextSpan{Start: min(sel.Start, len(runes)), End: min(sel.End, len(runes))}
	}
	token, _ := location.EncodeSpan(text, span)
	id := fileid.Identify(path)
	r.log.Debug("Rich document read", zap.String("path", path), zap.String("version", c.header.Version()), zap.Int("sections", len(c.sections)))
	return models.Success(models.ExtractedContext{
		SelectedText: span.Slice(runes),
		Style:        info.style(ref),
		Location:     &token,
		File:         &id,
	})
}
