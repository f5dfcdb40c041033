package host

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

type release struct {
	name string
	fn   func() error
}

// Scope owns native handles acquired during one reader or writer call and
// releases all of them, last acquired first, when closed. Callers defer
// Close right after creating the scope so every exit path releases.
type Scope struct {
	log      *zap.Logger
	releases []release
	closed   bool
}

// NewScope creates an empty scope.
func NewScope(log *zap.Logger) *Scope {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scope{log: log}
}

// Add registers a release function for a handle named name.
func (s *Scope) Add(name string, fn func() error) {
	if fn == nil {
		return
	}
	s.releases = append(s.releases, release{name: name, fn: fn})
}

// Len returns the number of handles still owned by the scope.
func (s *Scope) Len() int {
	return len(s.releases)
}

// Close releases every registered handle. It is safe to call more than once.
func (s *Scope) Close() (err error) {
	if s.closed {
		return nil
	}
	s.closed = true
	for i := len(s.releases) - 1; i >= 0; i-- {
		r := s.releases[i]
		if er := r.fn(); er != nil {
			s.log.Warn("Unable to release native handle", zap.String("handle", r.name), zap.Error(er))
			err = multierr.Append(err, fmt.Errorf("release %s: %w", r.name, er))
		}
	}
	s.releases = nil
	return err
}
