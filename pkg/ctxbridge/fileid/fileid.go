// Package fileid resolves stable file-system identities so a write can be
// re-associated with the exact file an earlier read came from, even after
// the file was renamed or moved within the same volume.
package fileid

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// ErrNotFound indicates no file matching the identity could be found.
var ErrNotFound = errors.New("file not found")

// maxSearchDepth bounds how deep Locate descends below each search root.
const maxSearchDepth = 2

// Identify returns the identity of the file at path. Stable identifiers are
// left nil when the file does not exist or the file system cannot report them.
func Identify(path string) models.FileIdentity {
	id := models.FileIdentity{
		FileType: models.FileTypeFromPath(path),
		FileName: filepath.Base(path),
		FilePath: path,
	}
	if abs, err := filepath.Abs(path); err == nil {
		id.FilePath = abs
	}
	if fileID, volumeID, err := stat(id.FilePath); err == nil {
		id.FileID = &fileID
		id.VolumeID = &volumeID
	}
	return id
}

// Locate returns a path to the file identified by id. The recorded path is
// preferred; when it is gone or now names a different file, the recorded
// directory and then the extra roots are searched for a file carrying the
// same stable identifiers.
func Locate(id models.FileIdentity, roots ...string) (string, error) {
	if id.FilePath != "" {
		if _, err := os.Stat(id.FilePath); err == nil {
			if !id.Determinable() || Identify(id.FilePath).SameFile(id) {
				return id.FilePath, nil
			}
		}
	}
	if !id.Determinable() {
		return "", ErrNotFound
	}

	var dirs []string
	if id.FilePath != "" {
		dirs = append(dirs, filepath.Dir(id.FilePath))
	}
	dirs = append(dirs, roots...)

	for _, dir := range dirs {
		if found := search(dir, id); found != "" {
			return found, nil
		}
	}
	return "", ErrNotFound
}

func search(root string, id models.FileIdentity) (found string) {
	base := strings.Count(filepath.Clean(root), string(filepath.Separator))
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if strings.Count(filepath.Clean(path), string(filepath.Separator))-base >= maxSearchDepth {
				return fs.SkipDir
			}
			return nil
		}
		fileID, volumeID, err := stat(path)
		if err == nil && fileID == *id.FileID && volumeID == *id.VolumeID {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	return found
}

// Same reports whether a and b name the same file: same stable identifiers
// when both are determinable, equal absolute paths otherwise.
func Same(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	ia, ib := Identify(a), Identify(b)
	if ia.Determinable() && ib.Determinable() {
		return ia.SameFile(ib)
	}
	return filepath.Clean(ia.FilePath) == filepath.Clean(ib.FilePath)
}
