package host

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// System is the Desktop backed by the local operating system. Document
// discovery needs an automation bridge, so ActiveDocument always reports
// ErrUnavailable.
type System struct {
	log *zap.Logger
}

// NewSystem returns the OS-backed desktop.
func NewSystem(log *zap.Logger) *System {
	if log == nil {
		log = zap.NewNop()
	}
	return &System{log: log.Named("host")}
}

// NewSystemHost returns a Host made of the OS-backed desktop and clipboard.
// No accessibility bridge is available by default.
func NewSystemHost(log *zap.Logger) Host {
	return Host{Desktop: NewSystem(log), Clipboard: SystemClipboard{}}
}

func (s *System) Foreground(_ context.Context) (Window, error) {
	return foregroundWindow()
}

func (s *System) IsRunning(_ context.Context, process string) bool {
	running, err := processRunning(process)
	if err != nil {
		s.log.Debug("Unable to enumerate processes", zap.String("process", process), zap.Error(err))
		return false
	}
	return running
}

func (s *System) SendChord(_ context.Context, chord Chord) error {
	return sendChord(chord)
}

func (s *System) ActiveDocument(_ context.Context, _ models.FileType) (ActiveDocument, error) {
	return ActiveDocument{}, ErrUnavailable
}

// sameProcessName compares executable names ignoring case and a ".exe" suffix.
func sameProcessName(a, b string) bool {
	trim := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		return strings.TrimSuffix(s, ".exe")
	}
	return trim(a) != "" && trim(a) == trim(b)
}
