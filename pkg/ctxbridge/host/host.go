// Package host defines the interfaces the core uses to talk to the host
// operating system and to the office applications running on it.
//
// Everything a reader or writer needs from outside the process goes through
// these interfaces: the foreground window, running processes, synthetic key
// chords, the document an application currently has open, accessibility
// text ranges and the clipboard. The System implementations cover what can
// be done portably; richer integrations (automation bridges) satisfy the
// same interfaces.
package host

import (
	"context"
	"errors"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

var (
	// ErrUnavailable is returned when the host cannot provide a capability.
	ErrUnavailable = errors.New("host capability unavailable")
	// ErrNotRunning is returned when the application owning a document is
	// not running.
	ErrNotRunning = errors.New("application is not running")
	// ErrNoDocument is returned when an application has no active document.
	ErrNoDocument = errors.New("no active document")
)

// Window describes the foreground window.
type Window struct {
	Title   string
	Process string
	Handle  uintptr
}

// Chord is a synthetic key combination.
type Chord string

const (
	ChordSelectAll Chord = "ctrl+a"
	ChordCopy      Chord = "ctrl+c"
)

// Selection is the live selection an application reports for its active
// document. Only the fields of the owning family are meaningful.
type Selection struct {
	// Sheet and Range address a spreadsheet selection ("Sheet1", "B2:C4").
	Sheet string
	Range string
	// Slide (1-based) and Shapes (1-based indices on that slide) address a
	// presentation selection.
	Slide  int
	Shapes []int
	// Start and End are character offsets of a word-processor selection,
	// End exclusive.
	Start int
	End   int
}

// IsText reports whether s carries a non-empty character range.
func (s Selection) IsText() bool {
	return s.End > s.Start
}

// ActiveDocument is what an application reports about its foreground document.
type ActiveDocument struct {
	Path      string
	Selection Selection
}

// Desktop exposes foreground-session facilities of the host OS.
type Desktop interface {
	// Foreground returns the window currently owning the input focus.
	Foreground(ctx context.Context) (Window, error)
	// IsRunning reports whether a process with the given executable name
	// is running.
	IsRunning(ctx context.Context, process string) bool
	// SendChord delivers a synthetic key combination to the foreground window.
	SendChord(ctx context.Context, chord Chord) error
	// ActiveDocument returns the document the application family currently
	// has in the foreground, together with its live selection.
	ActiveDocument(ctx context.Context, ft models.FileType) (ActiveDocument, error)
}

// TextRange is an accessibility text range.
type TextRange interface {
	Text() (string, error)
	// Attribute returns the native value of one attribute of the fixed
	// style attribute set.
	Attribute(key models.StyleKey) (any, error)
}

// Element is a focused accessibility element. It is a native handle and
// must be released.
type Element interface {
	// Selection returns the live selection ranges; an empty slice means no
	// live selection.
	Selection() ([]TextRange, error)
	// Document returns the range covering the whole element text.
	Document() (TextRange, error)
	Release() error
}

// Accessibility exposes the host accessibility text-range API.
type Accessibility interface {
	FocusedElement(ctx context.Context) (Element, error)
}

// Clipboard exposes the plain-text system clipboard.
type Clipboard interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

// Host bundles the host interfaces handed to readers and writers.
type Host struct {
	Desktop       Desktop
	Accessibility Accessibility
	Clipboard     Clipboard
}
