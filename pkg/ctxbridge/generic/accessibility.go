// Package generic reads text from arbitrary focused controls, through the
// accessibility text-range API or by simulating a copy.
package generic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
)

// Tier names the strategy that produced a generic read.
type Tier string

const (
	TierClipboard Tier = "clipboard"
	TierSelection Tier = "selection"
	TierDocument  Tier = "document"
)

// AccessibilityReader reads the focused element. Without a live selection
// it copies through the clipboard; otherwise it reads the selected ranges;
// when neither yields text it reads the whole element.
type AccessibilityReader struct {
	env *state.Env
	log *zap.Logger

	// last is the tier of the most recent successful read.
	last Tier
}

// NewAccessibilityReader returns a reader over the host accessibility API.
func NewAccessibilityReader(env *state.Env) *AccessibilityReader {
	return &AccessibilityReader{env: env, log: env.Log.Named("generic")}
}

// Family reports Other.
func (r *AccessibilityReader) Family() models.FileType {
	return models.FileTypeOther
}

// LastTier returns the tier of the last successful read.
func (r *AccessibilityReader) LastTier() Tier {
	return r.last
}

// GetSelectedTextWithStyle reads the focused element through the tiers in
// order and returns the first one yielding text.
func (r *AccessibilityReader) GetSelectedTextWithStyle(ctx context.Context, readAll bool) models.Result {
	r.last = ""
	if r.env.Host.Accessibility == nil {
		return models.Failed(models.KindAcquisition, host.ErrUnavailable)
	}
	el, err := r.env.Host.Accessibility.FocusedElement(ctx)
	if err != nil {
		r.log.Debug("No focused element", zap.Error(err))
		return models.Failed(host.Kind(err), err)
	}
	scope := host.NewScope(r.log)
	defer scope.Close()
	scope.Add("element", el.Release)

	var (
		tiers  []Tier
		ranges []host.TextRange
	)
	if readAll {
		tiers = []Tier{TierDocument, TierClipboard}
	} else {
		ranges, err = el.Selection()
		if err != nil || len(ranges) == 0 {
			tiers = []Tier{TierClipboard, TierDocument}
		} else {
			tiers = []Tier{TierSelection, TierDocument}
		}
	}

	var errs []string
	for _, tier := range tiers {
		ec, err := r.read(ctx, el, ranges, tier)
		if err == nil && ec.HasText() {
			r.log.Debug("Generic read", zap.String("tier", string(tier)), zap.Int("length", len(ec.SelectedText)))
			r.last = tier
			return models.Success(ec)
		}
		r.log.Debug("Generic tier produced nothing", zap.String("tier", string(tier)), zap.Error(err))
		if err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", tier, err))
		}
	}
	if len(errs) == len(tiers) {
		return models.Failed(models.KindAcquisition, fmt.Errorf("all tiers failed: %s", strings.Join(errs, "; ")))
	}
	return models.Empty()
}

func (r *AccessibilityReader) read(ctx context.Context, el host.Element, ranges []host.TextRange, tier Tier) (models.ExtractedContext, error) {
	switch tier {
	case TierClipboard:
		text, err := host.CopySelection(ctx, r.env.Host, r.env.AttachPolicy(), r.log, true)
		if err != nil {
			return models.EmptyContext(), err
		}
		return models.ExtractedContext{SelectedText: text, Style: models.StyleAttributes{}}, nil
	case TierSelection:
		var texts []string
		for _, rg := range ranges {
			t, err := rg.Text()
			if err != nil {
				r.log.Debug("Selection range unreadable", zap.Error(err))
				continue
			}
			texts = append(texts, t)
		}
		if len(texts) == 0 {
			return models.EmptyContext(), host.ErrUnavailable
		}
		return models.ExtractedContext{SelectedText: strings.Join(texts, "\n"), Style: captureStyle(ranges[0])}, nil
	default:
		doc, err := el.Document()
		if err != nil {
			return models.EmptyContext(), err
		}
		text, err := doc.Text()
		if err != nil {
			return models.EmptyContext(), err
		}
		return models.ExtractedContext{SelectedText: text, Style: captureStyle(doc)}, nil
	}
}

// captureStyle queries the fixed attribute set; attributes the range does
// not report are left out.
func captureStyle(rg host.TextRange) models.StyleAttributes {
	style := models.StyleAttributes{}
	for _, k := range models.StyleKeys {
		if v, err := rg.Attribute(k); err == nil && v != nil {
			style.Set(k, v)
		}
	}
	return style
}
