package ctxbridge

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/browser"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/generic"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/presentation"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/richdoc"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/spreadsheet"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/state"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/wordproc"
)

// ReaderFunc constructs a reader. path is empty for foreground probes.
type ReaderFunc func(env *state.Env, path string) Reader

// Probe is one candidate of the read dispatch.
type Probe struct {
	Name       string
	SideEffect SideEffect
	// Applies is a side-effect free precondition; nil means always.
	Applies func(ctx context.Context) bool

	reader func() Reader
}

// ProbeRecord is what the dispatch observed for one probe.
type ProbeRecord struct {
	Name       string
	SideEffect SideEffect
	// Invoked is false when the precondition rejected the probe.
	Invoked bool
	Status  models.Status
	Kind    models.ErrorKind
	Err     error
}

// ReadOutcome is the accepted result and the trace of every probe tried.
type ReadOutcome struct {
	Result models.Result
	// Reader names the probe whose result was accepted.
	Reader string
	Trace  []ProbeRecord
}

// Factory selects readers and writers for the host environment.
type Factory struct {
	env     *state.Env
	log     *zap.Logger
	readers map[string]ReaderFunc
}

// FactoryOption customises a Factory.
type FactoryOption func(*Factory)

// WithReader replaces the reader constructed for a probe. name is a file
// family (models.FileTypeExcel, ...) or one of the Probe* names.
func WithReader(name string, fn ReaderFunc) FactoryOption {
	return func(f *Factory) {
		f.readers[name] = fn
	}
}

// NewFactory returns a factory bound to env with the default readers.
func NewFactory(env *state.Env, opts ...FactoryOption) *Factory {
	f := &Factory{env: env, log: env.Log.Named("factory"), readers: make(map[string]ReaderFunc)}
	f.readers[string(models.FileTypeWord)] = func(env *state.Env, path string) Reader {
		return wordproc.NewReader(env, path)
	}
	f.readers[string(models.FileTypeExcel)] = func(env *state.Env, path string) Reader {
		return spreadsheet.NewReader(env, path)
	}
	f.readers[string(models.FileTypePowerPoint)] = func(env *state.Env, path string) Reader {
		return presentation.NewReader(env, path)
	}
	f.readers[string(models.FileTypeHwp)] = func(env *state.Env, path string) Reader {
		return richdoc.NewReader(env, path)
	}
	f.readers[ProbeBrowser] = func(env *state.Env, _ string) Reader {
		return browser.NewReader(env)
	}
	f.readers[ProbeAccessibility] = func(env *state.Env, _ string) Reader {
		return generic.NewAccessibilityReader(env)
	}
	f.readers[ProbeClipboard] = func(env *state.Env, _ string) Reader {
		return generic.NewClipboardReader(env)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Factory) processes(ft models.FileType) []string {
	p := f.env.Cfg.Processes
	switch ft {
	case models.FileTypeWord:
		return p.Word
	case models.FileTypeExcel:
		return p.Excel
	case models.FileTypePowerPoint:
		return p.PowerPoint
	case models.FileTypeHwp:
		return p.Hwp
	default:
		return nil
	}
}

func (f *Factory) probe(name, path string, effect SideEffect, applies func(context.Context) bool) Probe {
	fn := f.readers[name]
	return Probe{
		Name:       name,
		SideEffect: effect,
		Applies:    applies,
		reader:     func() Reader { return fn(f.env, path) },
	}
}

// Probes returns the ordered candidates for a read:
//  1. the family reader for the extension of path, when one is given;
//  2. without a path, each running office application in priority order;
//  3. the browser reader when the foreground window is a known browser;
//  4. the accessibility reader, then the clipboard simulation.
func (f *Factory) Probes(path string, opts Options) []Probe {
	var probes []Probe
	if path != "" {
		switch ft := models.FileTypeFromPath(path); ft {
		case models.FileTypeWord, models.FileTypeExcel, models.FileTypePowerPoint, models.FileTypeHwp:
			probes = append(probes, f.probe(string(ft), path, SideEffectNone, nil))
		default:
			f.log.Debug("No family reader for path", zap.String("path", path))
		}
	} else {
		for _, ft := range opts.Order() {
			processes := f.processes(ft)
			probes = append(probes, f.probe(string(ft), "", SideEffectNone, func(ctx context.Context) bool {
				return host.AnyRunning(ctx, f.env.Host.Desktop, processes)
			}))
		}
	}

	copyEffect := SideEffectClipboard
	if opts.ReadAll {
		copyEffect |= SideEffectSelection
	}
	probes = append(probes, f.probe(ProbeBrowser, "", copyEffect, func(ctx context.Context) bool {
		if f.env.Host.Desktop == nil {
			return false
		}
		w, err := f.env.Host.Desktop.Foreground(ctx)
		return err == nil && browser.Matches(w.Title, f.env.Cfg.Browsers)
	}))
	if opts.ShouldUseAccessibility(f.env.Host) {
		probes = append(probes, f.probe(ProbeAccessibility, "", SideEffectClipboard|SideEffectSelection, nil))
	}
	return append(probes, f.probe(ProbeClipboard, "", SideEffectClipboard|SideEffectSelection, nil))
}

// Read runs the probes in order and accepts the first result carrying
// text. Each invoked probe may already have changed the clipboard or the
// selection by the time its result is rejected; the trace lists them. The
// last probe always produces the outcome when nothing else did.
func (f *Factory) Read(ctx context.Context, path string, opts Options) ReadOutcome {
	var (
		out  ReadOutcome
		last models.Result
		ran  bool
	)
	for _, p := range f.Probes(path, opts) {
		rec := ProbeRecord{Name: p.Name, SideEffect: p.SideEffect}
		if p.Applies != nil && !p.Applies(ctx) {
			out.Trace = append(out.Trace, rec)
			f.log.Debug("Probe not applicable", zap.String("probe", p.Name))
			continue
		}

		res := p.reader().GetSelectedTextWithStyle(ctx, opts.ReadAll)
		rec.Invoked, rec.Status, rec.Kind, rec.Err = true, res.Status, res.Kind, res.Err
		out.Trace = append(out.Trace, rec)
		last, ran = res, true
		if res.OK() {
			f.log.Debug("Probe accepted", zap.String("probe", p.Name), zap.Stringer("side_effect", p.SideEffect))
			out.Result, out.Reader = res, p.Name
			return out
		}
		f.log.Debug("Probe rejected", zap.String("probe", p.Name), zap.Stringer("status", res.Status),
			zap.String("kind", string(res.Kind)), zap.Error(res.Err))
	}
	if !ran {
		last = models.Empty()
	}
	out.Result = last
	return out
}

// Writer returns the writer for a declared file type, given as a family
// name or a file extension. There is no fallback.
func (f *Factory) Writer(fileType string) (Writer, error) {
	switch ft := models.ParseFileType(fileType); ft {
	case models.FileTypeWord:
		return wordproc.NewWriter(f.env), nil
	case models.FileTypeExcel:
		return spreadsheet.NewWriter(f.env), nil
	case models.FileTypePowerPoint:
		return presentation.NewWriter(f.env), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, fileType)
	}
}
