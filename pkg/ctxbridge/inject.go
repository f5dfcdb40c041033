package ctxbridge

import (
	"context"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/fileid"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// Inject writes a decoded response into the document it targets: it picks
// the writer for the declared file type, opens the document, applies the
// markup at the recorded location, saves and releases everything.
//
// With TargetProg the document is opened in the background from its
// identity, falling back to the foreground document only when the identity
// cannot locate anything. Otherwise the foreground document is used, and
// the identity serves when the application is not in front.
func (f *Factory) Inject(ctx context.Context, req models.InjectRequest) (placement models.Placement, err error) {
	w, err := f.Writer(string(req.File.FileType))
	if err != nil {
		f.log.Warn("Write rejected", zap.String("file_type", string(req.File.FileType)), zap.Error(err))
		return placement, err
	}
	family := w.Family()
	defer func() {
		if er := w.Close(); er != nil {
			err = multierr.Append(err, NewOperationError(family, "close", er))
		}
	}()

	if err := f.open(ctx, w, req); err != nil {
		return placement, err
	}

	placement, err = w.ApplyTextWithStyle(ctx, req.Markup, req.Location)
	if err != nil {
		return placement, NewOperationError(family, "apply", err)
	}
	if !placement.Exact {
		f.log.Info("Placement degraded", zap.String("family", string(family)), zap.String("where", placement.Where))
	}
	if err := w.Save(ctx); err != nil {
		return placement, NewOperationError(family, "save", err)
	}
	info := w.GetFileInfo()
	f.log.Debug("Response injected", zap.String("file", info.FilePath), zap.String("where", placement.Where), zap.Bool("exact", placement.Exact))
	return placement, nil
}

func (f *Factory) open(ctx context.Context, w Writer, req models.InjectRequest) error {
	family := w.Family()
	id := req.File.Identity()

	if req.TargetProg {
		path, err := fileid.Locate(id)
		if err == nil {
			if err := w.OpenFile(ctx, path); err != nil {
				return NewOperationError(family, "open", err)
			}
			return nil
		}
		if id.Determinable() {
			return NewOperationError(family, "locate", err)
		}
		f.log.Info("Target not identifiable, using foreground document", zap.String("file", id.FilePath))
		if err := w.OpenForeground(ctx); err != nil {
			return NewOperationError(family, "open", err)
		}
		return nil
	}

	fgErr := w.OpenForeground(ctx)
	if fgErr == nil {
		if fi := w.GetFileInfo(); id.Determinable() && fi.Determinable() && !fi.SameFile(id) {
			f.log.Warn("Foreground document differs from the one read", zap.String("foreground", fi.FilePath), zap.String("read", id.FilePath))
		}
		return nil
	}
	path, err := fileid.Locate(id)
	if err != nil {
		return NewOperationError(family, "open", multierr.Combine(fgErr, err))
	}
	f.log.Info("Foreground document unavailable, opening file", zap.String("path", path), zap.Error(fgErr))
	if err := w.OpenFile(ctx, path); err != nil {
		return NewOperationError(family, "open", err)
	}
	return nil
}
