package host

import (
	"context"
	"errors"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// Kind classifies an attach or extraction failure.
func Kind(err error) models.ErrorKind {
	switch {
	case err == nil:
		return models.KindNone
	case errors.Is(err, ErrNotRunning), errors.Is(err, ErrNoDocument), errors.Is(err, ErrNothingCopied),
		errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return models.KindTransient
	default:
		return models.KindAcquisition
	}
}
