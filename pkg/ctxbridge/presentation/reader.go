package presentation

import (
	"context"
	"fmt"
	"strings"

	"github.com/beevik/etree"
	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/ooxml"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

// Reader extracts the selected shapes of a presentation.
type Reader struct {
	env  *state.Env
	log  *zap.Logger
	path string
}

// NewReader returns a reader. A non-empty path names the deck to read
// when the application cannot report its foreground document.
func NewReader(env *state.Env, path string) *Reader {
	return &Reader{env: env, log: env.Log.Named("presentation"), path: path}
}

// Family reports PowerPoint.
func (r *Reader) Family() models.FileType {
	return models.FileTypePowerPoint
}

// GetSelectedTextWithStyle returns the text of the selected shapes, the
// selected slide, or the whole deck, with the style of the first styled run.
func (r *Reader) GetSelectedTextWithStyle(ctx context.Context, readAll bool) models.Result {
	path, sel, err := r.target(ctx)
	if err != nil {
		r.log.Debug("No presentation", zap.Error(err))
		return models.Failed(host.Kind(err), err)
	}

	scope := host.NewScope(r.log)
	defer scope.Close()

	pkg, err := ooxml.Open(path)
	if err != nil {
		return models.Failed(models.KindAcquisition, fmt.Errorf("open presentation: %w", err))
	}
	scope.Add("presentation", pkg.Close)
	d, err := load(pkg)
	if err != nil {
		return models.Failed(models.KindAcquisition, err)
	}
	if d.SlideCount() == 0 {
		return models.Empty()
	}

	shapes, pos := selectShapes(d, sel, readAll)
	var texts []string
	for _, sp := range shapes {
		if t := shapeText(sp); t != "" {
			texts = append(texts, t)
		}
	}
	token := location.EncodeSlide(pos)
	id := fileid.Identify(path)
	return models.Success(models.ExtractedContext{
		SelectedText: strings.Join(texts, "\n"),
		Style:        captureStyle(firstStyledRun(shapes)),
		Location:     &token,
		File:         &id,
	})
}

// selectShapes resolves the shapes to read and the position reported for
// them: one selected shape, a whole slide, or the whole deck.
func selectShapes(d *deck, sel host.Selection, readAll bool) ([]*etree.Element, location.SlidePos) {
	if readAll || sel.Slide < 1 || sel.Slide > d.SlideCount() {
		var all []*etree.Element
		for _, s := range d.slides {
			all = append(all, s.shapes()...)
		}
		return all, location.SlidePos{Slide: 1}
	}

	onSlide := d.slides[sel.Slide-1].shapes()
	var (
		picked []*etree.Element
		index  []int
	)
	for _, n := range sel.Shapes {
		if n >= 1 && n <= len(onSlide) {
			picked = append(picked, onSlide[n-1])
			index = append(index, n)
		}
	}
	switch len(picked) {
	case 0:
		return onSlide, location.SlidePos{Slide: sel.Slide}
	case 1:
		return picked, location.SlidePos{Slide: sel.Slide, Shape: index[0]}
	default:
		return picked, location.SlidePos{Slide: sel.Slide}
	}
}

func (r *Reader) target(ctx context.Context) (string, host.Selection, error) {
	if r.path != "" {
		if host.AnyRunning(ctx, r.env.Host.Desktop, r.env.Cfg.Processes.PowerPoint) {
			doc, err := r.env.Host.Desktop.ActiveDocument(ctx, models.FileTypePowerPoint)
			if err == nil && fileid.Same(doc.Path, r.path) {
				return r.path, doc.Selection, nil
			}
		}
		return r.path, host.Selection{}, nil
	}
	doc, err := host.Foreground(ctx, r.env.Host, r.env.AttachPolicy(), r.log, models.FileTypePowerPoint, r.env.Cfg.Processes.PowerPoint)
	if err != nil {
		return "", host.Selection{}, err
	}
	return doc.Path, doc.Selection, nil
}
