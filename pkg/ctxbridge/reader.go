package ctxbridge

import (
	"context"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/browser"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/generic"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/presentation"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/richdoc"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/spreadsheet"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/wordproc"
)

// Reader extracts context from one family of host application. It never
// returns an error: failures are reported through the Result.
type Reader interface {
	Family() models.FileType
	GetSelectedTextWithStyle(ctx context.Context, readAll bool) models.Result
}

// Writer injects styled markup into one family of host document.
type Writer interface {
	Family() models.FileType
	// OpenFile opens the document at path in the background.
	OpenFile(ctx context.Context, path string) error
	// OpenForeground attaches to the document the application has in front.
	OpenForeground(ctx context.Context) error
	// ApplyTextWithStyle writes markup at the position named by token and
	// reports where the text actually went.
	ApplyTextWithStyle(ctx context.Context, markup, token string) (models.Placement, error)
	GetFileInfo() models.FileIdentity
	Save(ctx context.Context) error
	// Close releases every handle the writer holds.
	Close() error
}

var (
	_ Reader = (*spreadsheet.Reader)(nil)
	_ Reader = (*wordproc.Reader)(nil)
	_ Reader = (*presentation.Reader)(nil)
	_ Reader = (*richdoc.Reader)(nil)
	_ Reader = (*browser.Reader)(nil)
	_ Reader = (*generic.AccessibilityReader)(nil)
	_ Reader = (*generic.ClipboardReader)(nil)

	_ Writer = (*spreadsheet.Writer)(nil)
	_ Writer = (*wordproc.Writer)(nil)
	_ Writer = (*presentation.Writer)(nil)
)
