package models

import (
	"path/filepath"
	"strings"
)

// FileType is the application family a file belongs to.
type FileType string

const (
	FileTypeWord       FileType = "Word"
	FileTypeExcel      FileType = "Excel"
	FileTypePowerPoint FileType = "PowerPoint"
	FileTypeHwp        FileType = "Hwp"
	FileTypeOther      FileType = "Other"
)

// FileTypeFromPath maps a file extension to its application family.
func FileTypeFromPath(path string) FileType {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(path), ".")) {
	case "doc", "docx":
		return FileTypeWord
	case "xls", "xlsx":
		return FileTypeExcel
	case "ppt", "pptx":
		return FileTypePowerPoint
	case "hwp":
		return FileTypeHwp
	default:
		return FileTypeOther
	}
}

// ParseFileType accepts either a family name ("Excel") or an extension
// ("xlsx", ".xlsx"). Unknown values map to FileTypeOther.
func ParseFileType(s string) FileType {
	s = strings.TrimSpace(s)
	for _, ft := range []FileType{FileTypeWord, FileTypeExcel, FileTypePowerPoint, FileTypeHwp} {
		if strings.EqualFold(s, string(ft)) {
			return ft
		}
	}
	return FileTypeFromPath("x." + strings.TrimPrefix(s, "."))
}

// FileIdentity identifies a document so a later write can re-open the
// exact file an earlier read came from. Nil identifiers mean the value
// could not be determined (unsaved document, unsupported file system).
type FileIdentity struct {
	// FileID is the file-system stable file identifier.
	FileID *uint64 `json:"fileId,omitempty"`
	// VolumeID identifies the volume holding the file.
	VolumeID *uint64 `json:"volumeId,omitempty"`
	// FileType is the application family of the file.
	FileType FileType `json:"fileType"`
	// FileName is the base name of the file.
	FileName string `json:"fileName"`
	// FilePath is the absolute path at extraction time.
	FilePath string `json:"filePath"`
}

// Determinable reports whether both stable identifiers are known.
func (f FileIdentity) Determinable() bool {
	return f.FileID != nil && f.VolumeID != nil
}

// SameFile reports whether f and o carry the same stable identifiers.
func (f FileIdentity) SameFile(o FileIdentity) bool {
	if !f.Determinable() || !o.Determinable() {
		return false
	}
	return *f.FileID == *o.FileID && *f.VolumeID == *o.VolumeID
}

// ExtractedContext is the (text, style, location, file) tuple a reader
// produces. SelectedText is never nil; failures yield "".
type ExtractedContext struct {
	SelectedText string
	Style        StyleAttributes
	// Location is absent for ephemeral sources (clipboard, browser).
	Location *string
	// File is absent for ephemeral sources.
	File *FileIdentity
}

// EmptyContext returns a context with empty text and an empty style map.
func EmptyContext() ExtractedContext {
	return ExtractedContext{Style: StyleAttributes{}}
}

// HasText reports whether the context carries usable text.
func (c ExtractedContext) HasText() bool {
	return strings.TrimSpace(c.SelectedText) != ""
}
