package generic

import (
	"context"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

// ClipboardReader selects everything in the foreground window, copies it
// and reads the clipboard. It never fails: anything that goes wrong yields
// an empty result.
type ClipboardReader struct {
	env *state.Env
	log *zap.Logger
}

// NewClipboardReader returns the last-resort clipboard reader.
func NewClipboardReader(env *state.Env) *ClipboardReader {
	return &ClipboardReader{env: env, log: env.Log.Named("clipboard")}
}

// Family reports Other.
func (r *ClipboardReader) Family() models.FileType {
	return models.FileTypeOther
}

// GetSelectedTextWithStyle selects everything in the foreground window and
// copies it. It never fails; nothing copied is an Empty result.
func (r *ClipboardReader) GetSelectedTextWithStyle(ctx context.Context, _ bool) models.Result {
	text, err := host.CopySelection(ctx, r.env.Host, r.env.AttachPolicy(), r.log, true)
	if err != nil {
		r.log.Debug("Clipboard simulation produced nothing", zap.Error(err))
		return models.Empty()
	}
	return models.Success(models.ExtractedContext{SelectedText: text})
}
