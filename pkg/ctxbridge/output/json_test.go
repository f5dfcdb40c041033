package output

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

func TestPayloadJSON(t *testing.T) {
	loc := "Sheet1!1,1"
	id := uint64(42)
	ctx := models.ExtractedContext{
		SelectedText: "<b>a</b>",
		Style:        models.StyleAttributes{models.StyleFontWeight: true},
		Location:     &loc,
		File:         &models.FileIdentity{FileID: &id, VolumeID: &id, FileType: models.FileTypeExcel, FileName: "r.xlsx", FilePath: "/tmp/r.xlsx"},
	}
	data, err := PayloadJSON(ctx, false)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"text": "<b>a</b>",
		"styleAttributes": {"FontWeight": true},
		"location": "Sheet1!1,1",
		"fileInfo": {"fileId": 42, "volumeId": 42, "fileType": "Excel", "fileName": "r.xlsx", "filePath": "/tmp/r.xlsx"}
	}`, string(data))
	assert.Contains(t, string(data), "<b>")
}

func TestPayloadJSONEphemeral(t *testing.T) {
	data, err := PayloadJSON(models.EmptyContext(), true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text": "", "styleAttributes": {}}`, string(data))
	assert.True(t, strings.Contains(string(data), "\n  "))
	assert.False(t, strings.HasSuffix(string(data), "\n"))
}

func TestDecodeInject(t *testing.T) {
	req, err := DecodeInject([]byte(`{"markup":"<p>x</p>","location":"1,0,0","fileInfo":{"fileType":"PowerPoint","fileName":"d.pptx","filePath":"/d.pptx"},"targetProg":true}`))
	require.NoError(t, err)
	assert.Equal(t, "<p>x</p>", req.Markup)
	assert.Equal(t, "1,0,0", req.Location)
	assert.Equal(t, models.FileTypePowerPoint, req.File.FileType)
	assert.True(t, req.TargetProg)
	assert.Nil(t, req.File.FileID)

	_, err = DecodeInject([]byte(`{"markup":"x","fileInfo":{"fileType":"Word"},"extra":1}`))
	assert.Error(t, err)
	_, err = DecodeInject([]byte(`{"markup":"x"}`))
	assert.Error(t, err)
}
