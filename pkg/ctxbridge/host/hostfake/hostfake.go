// Package hostfake provides scriptable in-memory host implementations for tests.
package hostfake

import (
	"context"
	"sync"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// Desktop is a scriptable host.Desktop that counts calls.
type Desktop struct {
	mu sync.Mutex

	Window    host.Window
	WindowErr error
	Running   map[string]bool
	Documents map[models.FileType]host.ActiveDocument
	// OnChord runs for every chord delivered, e.g. to emulate a copy.
	OnChord func(host.Chord) error

	RunningCalls int
	Chords       []host.Chord
}

func (d *Desktop) Foreground(context.Context) (host.Window, error) {
	return d.Window, d.WindowErr
}

func (d *Desktop) IsRunning(_ context.Context, process string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.RunningCalls++
	return d.Running[process]
}

func (d *Desktop) SendChord(_ context.Context, chord host.Chord) error {
	d.mu.Lock()
	d.Chords = append(d.Chords, chord)
	fn := d.OnChord
	d.mu.Unlock()
	if fn != nil {
		return fn(chord)
	}
	return nil
}

func (d *Desktop) ActiveDocument(_ context.Context, ft models.FileType) (host.ActiveDocument, error) {
	doc, ok := d.Documents[ft]
	if !ok {
		return host.ActiveDocument{}, host.ErrNoDocument
	}
	return doc, nil
}

// Clipboard is an in-memory clipboard.
type Clipboard struct {
	mu     sync.Mutex
	Text   string
	Writes int
}

func (c *Clipboard) ReadAll() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Text, nil
}

func (c *Clipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Text = text
	c.Writes++
	return nil
}

// Range is a fixed accessibility text range.
type Range struct {
	Value string
	Attrs models.StyleAttributes
	Err   error
}

func (r *Range) Text() (string, error) {
	return r.Value, r.Err
}

func (r *Range) Attribute(key models.StyleKey) (any, error) {
	v, ok := r.Attrs[key]
	if !ok {
		return nil, host.ErrUnavailable
	}
	return v, nil
}

// Element is a fixed accessibility element that records its release.
type Element struct {
	Selected []host.TextRange
	Doc      *Range
	Released int
}

func (e *Element) Selection() ([]host.TextRange, error) {
	return e.Selected, nil
}

func (e *Element) Document() (host.TextRange, error) {
	if e.Doc == nil {
		return nil, host.ErrUnavailable
	}
	return e.Doc, nil
}

func (e *Element) Release() error {
	e.Released++
	return nil
}

// Accessibility hands out a single focused element.
type Accessibility struct {
	Focused *Element
	Err     error
}

func (a *Accessibility) FocusedElement(context.Context) (host.Element, error) {
	if a.Err != nil {
		return nil, a.Err
	}
	if a.Focused == nil {
		return nil, host.ErrUnavailable
	}
	return a.Focused, nil
}
