package host

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrNothingCopied is returned when the copy chord left the clipboard empty.
var ErrNothingCopied = errors.New("nothing was copied")

// CopySelection copies the foreground selection through the clipboard and
// returns it. With selectAll the whole content is selected first, which
// changes the user's selection. The clipboard is cleared before the copy so
// stale content is never mistaken for a result, and its previous text is
// put back before returning.
func CopySelection(ctx context.Context, h Host, p AttachPolicy, log *zap.Logger, selectAll bool) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if h.Desktop == nil || h.Clipboard == nil {
		return "", ErrUnavailable
	}

	scope := NewScope(log)
	defer scope.Close()

	if prev, err := h.Clipboard.ReadAll(); err == nil {
		scope.Add("clipboard", func() error { return h.Clipboard.WriteAll(prev) })
	} else {
		log.Debug("Clipboard content not preserved", zap.Error(err))
	}
	if err := h.Clipboard.WriteAll(""); err != nil {
		return "", fmt.Errorf("clear clipboard: %w", err)
	}

	if selectAll {
		if err := h.Desktop.SendChord(ctx, ChordSelectAll); err != nil {
			return "", fmt.Errorf("select all: %w", err)
		}
	}
	if err := h.Desktop.SendChord(ctx, ChordCopy); err != nil {
		return "", fmt.Errorf("copy: %w", err)
	}

	// the target application fills the clipboard asynchronously
	return Attach(ctx, p, log, func(int) (string, error) {
		text, err := h.Clipboard.ReadAll()
		if err != nil {
			return "", err
		}
		if text == "" {
			return "", ErrNothingCopied
		}
		return text, nil
	})
}
