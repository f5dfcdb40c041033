package ctxbridge

import (
	"errors"
	"fmt"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/host"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// ErrUnsupportedFileType indicates a write for a file type no writer handles.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// OperationError represents a failed reader or writer operation.
type OperationError struct {
	Family models.FileType
	Op     string // "open", "apply", "save", "close", "locate"
	Err    error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Family, e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// NewOperationError creates a new OperationError.
func NewOperationError(family models.FileType, op string, err error) *OperationError {
	return &OperationError{
		Family: family,
		Op:     op,
		Err:    err,
	}
}

// Classify maps an error returned by the core onto its ErrorKind.
func Classify(err error) models.ErrorKind {
	switch {
	case err == nil:
		return models.KindNone
	case errors.Is(err, ErrUnsupportedFileType):
		return models.KindUnsupported
	case errors.Is(err, location.ErrNotFound):
		return models.KindUnresolvable
	default:
		return host.Kind(err)
	}
}
