// Package browser reads the selection of a web browser window.
package browser

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

// ErrNotBrowser is returned when the foreground window is not a known browser.
var ErrNotBrowser = errors.New("foreground window is not a browser")

// Reader copies the browser selection through the clipboard. Browser
// content is ephemeral, so results carry neither location nor file.
type Reader struct {
	env *state.Env
	log *zap.Logger
}

// NewReader returns a reader for browser windows matching the configured titles.
func NewReader(env *state.Env) *Reader {
	return &Reader{env: env, log: env.Log.Named("browser")}
}

// Family reports Other: browser content has no file behind it.
func (r *Reader) Family() models.FileType {
	return models.FileTypeOther
}

// Matches reports whether title belongs to one of the configured browsers.
func Matches(title string, browsers []string) bool {
	for _, b := range browsers {
		if b != "" && strings.Contains(title, b) {
			return true
		}
	}
	return false
}

// GetSelectedTextWithStyle copies the browser selection, or the whole page
// when readAll is set. Browser text carries no style or location.
func (r *Reader) GetSelectedTextWithStyle(ctx context.Context, readAll bool) models.Result {
	if r.env.Host.Desktop == nil {
		return models.Failed(models.KindAcquisition, host.ErrUnavailable)
	}
	w, err := r.env.Host.Desktop.Foreground(ctx)
	if err != nil {
		return models.Failed(models.KindAcquisition, err)
	}
	if !Matches(w.Title, r.env.Cfg.Browsers) {
		return models.Failed(models.KindUnsupported, ErrNotBrowser)
	}

	text, err := host.CopySelection(ctx, r.env.Host, r.env.AttachPolicy(), r.log, readAll)
	if err != nil {
		r.log.Debug("Browser copy failed", zap.String("window", w.Title), zap.Error(err))
		return models.Failed(host.Kind(err), err)
	}
	r.log.Debug("Browser selection copied", zap.String("window", w.Title), zap.Int("length", len(text)))
	return models.Success(models.ExtractedContext{SelectedText: text})
}
