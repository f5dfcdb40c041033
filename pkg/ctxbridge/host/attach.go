package host

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// AttachPolicy bounds the attempts made to attach to an external application.
type AttachPolicy struct {
	Attempts int
	Delay    time.Duration
}

// DefaultAttachPolicy is three attempts spaced 100ms apart.
var DefaultAttachPolicy = AttachPolicy{Attempts: 3, Delay: 100 * time.Millisecond}

// Attach runs op until it succeeds or the policy is exhausted, waiting a
// fixed delay between attempts. Errors wrapped with backoff.Permanent stop
// the loop immediately. The last error is returned on failure.
func Attach[T any](ctx context.Context, p AttachPolicy, log *zap.Logger, op func(attempt int) (T, error)) (T, error) {
	if log == nil {
		log = zap.NewNop()
	}
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	attempt := 0
	return backoff.Retry(ctx, func() (T, error) {
		attempt++
		return op(attempt)
	},
		backoff.WithBackOff(backoff.NewConstantBackOff(p.Delay)),
		backoff.WithMaxTries(uint(attempts)),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Debug("Attach attempt failed", zap.Int("attempt", attempt), zap.Duration("retry_in", next), zap.Error(err))
		}),
	)
}

// AnyRunning reports whether one of processes is running. A nil desktop
// reports false.
func AnyRunning(ctx context.Context, d Desktop, processes []string) bool {
	if d == nil {
		return false
	}
	for _, p := range processes {
		if d.IsRunning(ctx, p) {
			return true
		}
	}
	return false
}

// Foreground returns the document family ft has in the foreground once one
// of processes is running, retrying per policy. A desktop that cannot report
// documents stops the loop with ErrUnavailable.
func Foreground(ctx context.Context, h Host, p AttachPolicy, log *zap.Logger, ft models.FileType, processes []string) (ActiveDocument, error) {
	if h.Desktop == nil {
		return ActiveDocument{}, ErrUnavailable
	}
	return Attach(ctx, p, log, func(int) (ActiveDocument, error) {
		if !AnyRunning(ctx, h.Desktop, processes) {
			return ActiveDocument{}, ErrNotRunning
		}
		doc, err := h.Desktop.ActiveDocument(ctx, ft)
		if errors.Is(err, ErrUnavailable) {
			return ActiveDocument{}, backoff.Permanent(err)
		}
		return doc, err
	})
}
