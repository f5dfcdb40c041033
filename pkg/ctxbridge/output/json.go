// Package output serialises canonical payloads for the transport layer.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

// ToJSON serialises v, indented when pretty is set. HTML characters are
// not escaped since payload text routinely carries markup.
func ToJSON(v any, pretty bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encode %T: %w", v, err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// PayloadJSON converts an extracted context to its canonical payload and
// serialises it.
func PayloadJSON(ctx models.ExtractedContext, pretty bool) ([]byte, error) {
	return ToJSON(models.NewPayload(ctx), pretty)
}

// DecodeInject parses a transport response into an inject request.
// Unknown fields are rejected.
func DecodeInject(data []byte) (models.InjectRequest, error) {
	var req models.InjectRequest
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return models.InjectRequest{}, fmt.Errorf("decode inject request: %w", err)
	}
	if req.File.FileType == "" {
		return req, fmt.Errorf("decode inject request: missing fileInfo.fileType")
	}
	return req, nil
}
