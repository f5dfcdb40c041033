package presentation

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

// ErrNotOpen is returned by writer calls made before a deck was opened.
var ErrNotOpen = errors.New("no presentation open")

// Writer creates one text box per markup block on a slide.
type Writer struct {
	env    *state.Env
	log    *zap.Logger
	mapper *stylemap.Mapper
	scope  *host.Scope

	deck *deck
	sel  host.Selection
}

// NewWriter returns a writer; OpenFile or OpenForeground must be called first.
func NewWriter(env *state.Env) *Writer {
	log := env.Log.Named("presentation")
	return &Writer{
		env:    env,
		log:    log,
		mapper: stylemap.New(stylemap.LimitsFromConfig(env.Cfg), log),
		scope:  host.NewScope(log),
	}
}

// Family reports PowerPoint.
func (w *Writer) Family() models.FileType {
	return models.FileTypePowerPoint
}

// OpenFile loads the deck at path for a background write.
func (w *Writer) OpenFile(_ context.Context, path string) error {
	pkg, err := ooxml.Open(path)
	if err != nil {
		return fmt.Errorf("open presentation: %w", err)
	}
	w.scope.Add("presentation", pkg.Close)
	d, err := load(pkg)
	if err != nil {
		return err
	}
	w.deck = d
	return nil
}

// OpenForeground attaches to the deck the application has in the
// foreground and remembers its live selection.
func (w *Writer) OpenForeground(ctx context.Context) error {
	doc, err := host.Foreground(ctx, w.env.Host, w.env.AttachPolicy(), w.log, models.FileTypePowerPoint, w.env.Cfg.Processes.PowerPoint)
	if err != nil {
		return err
	}
	w.sel = doc.Selection
	return w.OpenFile(ctx, doc.Path)
}

// ApplyTextWithStyle adds a text box per top-level block to the slide
// addressed by token. A block that fails is logged and skipped.
func (w *Writer) ApplyTextWithStyle(_ context.Context, markup, token string) (models.Placement, error) {
	if w.deck == nil {
		return models.Placement{}, ErrNotOpen
	}
	blocks, err := stylemap.Parse(markup)
	if err != nil {
		return models.Placement{}, fmt.Errorf("parse markup: %w", err)
	}

	s, placement, err := w.target(token)
	if err != nil {
		return placement, err
	}

	limits := w.mapper.Limits()
	for i, b := range blocks {
		box := newTextBox(s, limits.Left.Default, limits.Top.Default, limits.Width.Default, limits.Height.Default)
		if err := w.mapper.Apply(box, b); err != nil {
			w.log.Warn("Block not fully applied", zap.Int("block", i), zap.Error(err))
		}
	}
	w.deck.pkg.SetXML(s.part, s.doc)
	w.log.Debug("Text injected", zap.String("where", placement.Where), zap.Bool("exact", placement.Exact), zap.Int("shapes", len(blocks)))
	return placement, nil
}

func (w *Writer) target(token string) (*slide, models.Placement, error) {
	where := func(n int, exact bool) models.Placement {
		return models.Placement{Exact: exact, Where: fmt.Sprintf("slide %d", n)}
	}
	if token != "" {
		pos, err := location.DecodeSlide(token, w.deck)
		if err == nil {
			return w.deck.slides[pos.Slide-1], where(pos.Slide, true), nil
		}
		w.log.Info("Location no longer resolves, falling back", zap.String("token", token), zap.Error(err))
	}
	if n := w.sel.Slide; n >= 1 && n <= w.deck.SlideCount() {
		return w.deck.slides[n-1], where(n, false), nil
	}
	if n := w.deck.SlideCount(); n > 0 {
		return w.deck.slides[n-1], where(n, false), nil
	}
	s, err := w.deck.addSlide()
	if err != nil {
		return nil, models.Placement{}, fmt.Errorf("add slide: %w", err)
	}
	return s, where(1, false), nil
}

// GetFileInfo returns the identity of the open deck.
func (w *Writer) GetFileInfo() models.FileIdentity {
	if w.deck == nil {
		return models.FileIdentity{FileType: models.FileTypePowerPoint}
	}
	return fileid.Identify(w.deck.pkg.Path())
}

// Save writes the deck back atomically.
func (w *Writer) Save(_ context.Context) error {
	if w.deck == nil {
		return ErrNotOpen
	}
	return w.deck.pkg.Save()
}

// Close releases the deck.
func (w *Writer) Close() error {
	w.deck = nil
	return w.scope.Close()
}
