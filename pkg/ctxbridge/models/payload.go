package models

// FileInfo is the transport representation of FileIdentity.
type FileInfo struct {
	FileID   *uint64  `json:"fileId,omitempty"`
	VolumeID *uint64  `json:"volumeId,omitempty"`
	FileType FileType `json:"fileType"`
	FileName string   `json:"fileName"`
	FilePath string   `json:"filePath"`
}

// Payload is the canonical representation handed to the transport layer.
type Payload struct {
	Text            string         `json:"text"`
	StyleAttributes map[string]any `json:"styleAttributes"`
	Location        *string        `json:"location,omitempty"`
	FileInfo        *FileInfo      `json:"fileInfo,omitempty"`
}

// NewPayload converts an extracted context into its transport form.
func NewPayload(ctx ExtractedContext) Payload {
	p := Payload{
		Text:            ctx.SelectedText,
		StyleAttributes: make(map[string]any, len(ctx.Style)),
		Location:        ctx.Location,
	}
	for k, v := range ctx.Style {
		p.StyleAttributes[string(k)] = v
	}
	if ctx.File != nil {
		p.FileInfo = &FileInfo{
			FileID:   ctx.File.FileID,
			VolumeID: ctx.File.VolumeID,
			FileType: ctx.File.FileType,
			FileName: ctx.File.FileName,
			FilePath: ctx.File.FilePath,
		}
	}
	return p
}

// Identity converts the transport form back into a FileIdentity.
func (f FileInfo) Identity() FileIdentity {
	return FileIdentity(f)
}

// InjectRequest is a decoded remote response destined for a host document.
type InjectRequest struct {
	// Markup is the styled response in the supported markup subset.
	Markup string `json:"markup"`
	// Location is the token reported by the earlier read, if any.
	Location string `json:"location,omitempty"`
	// File identifies the target document.
	File FileInfo `json:"fileInfo"`
	// TargetProg requests a background write into the identified file
	// instead of the foreground document.
	TargetProg bool `json:"targetProg"`
}

// Placement reports where a writer actually put the text.
type Placement struct {
	// Exact is false when the location token could not be resolved and a
	// coarser insertion point was used.
	Exact bool `json:"exact"`
	// Where describes the insertion point in family terms.
	Where string `json:"where"`
}
