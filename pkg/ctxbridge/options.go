// Package ctxbridge extracts styled context from the host application the
// user is working in and injects styled responses back into documents.
package ctxbridge

import (
	"strings"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// SideEffect lists what a probe may change in the user's session, even
// when its result is rejected.
type SideEffect uint8

const (
	// SideEffectNone marks probes that only read.
	SideEffectNone SideEffect = 0
	// SideEffectClipboard marks probes that go through the clipboard. The
	// previous text content is restored, other formats are lost.
	SideEffectClipboard SideEffect = 1 << iota
	// SideEffectSelection marks probes that may select all content of the
	// foreground window.
	SideEffectSelection
)

func (s SideEffect) String() string {
	if s == SideEffectNone {
		return "none"
	}
	var parts []string
	if s&SideEffectClipboard != 0 {
		parts = append(parts, "clipboard")
	}
	if s&SideEffectSelection != 0 {
		parts = append(parts, "selection")
	}
	return strings.Join(parts, "+")
}

// Probe names besides the file families.
const (
	ProbeBrowser       = "browser"
	ProbeAccessibility = "accessibility"
	ProbeClipboard     = "clipboard"
)

// Options configures read dispatch.
type Options struct {
	// ReadAll asks readers for the whole content instead of the selection.
	ReadAll bool
	// OfficeOrder is the order in which running office applications are
	// probed when no path is given. If nil, Word, Excel, PowerPoint.
	OfficeOrder []models.FileType
	// UseAccessibility enables the accessibility probe ahead of the
	// clipboard fallback. If nil, it is used whenever the host provides
	// accessibility.
	UseAccessibility *bool
}

// DefaultOptions returns default read options.
func DefaultOptions() Options {
	return Options{}
}

// Order returns the office probing order.
func (o Options) Order() []models.FileType {
	if o.OfficeOrder != nil {
		return o.OfficeOrder
	}
	return []models.FileType{models.FileTypeWord, models.FileTypeExcel, models.FileTypePowerPoint}
}

// ShouldUseAccessibility returns whether the accessibility probe runs.
func (o Options) ShouldUseAccessibility(h host.Host) bool {
	if o.UseAccessibility != nil {
		return *o.UseAccessibility && h.Accessibility != nil
	}
	return h.Accessibility != nil
}
