package spreadsheet

import (
	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/models"
)

const defaultFontSize = 11.0

// firstCellStyle captures the style of the top-left cell of r, which
// stands for the style of the whole range.
func firstCellStyle(f *excelize.File, r location.CellRange) models.StyleAttributes {
	style := models.StyleAttributes{}
	cell, err := excelize.CoordinatesToCellName(r.Col1, r.Row1)
	if err != nil {
		return style
	}
	id, err := f.GetCellStyle(r.Sheet, cell)
	if err != nil {
		return style
	}
	st, err := f.GetStyle(id)
	if err != nil || st == nil {
		return style
	}

	font := st.Font
	if font == nil {
		font = &excelize.Font{Size: defaultFontSize}
	}
	if font.Family == "" {
		if name, err := f.GetDefaultFont(); err == nil {
			font.Family = name
		}
	}
	if font.Size == 0 {
		font.Size = defaultFontSize
	}
	style.Set(models.StyleFontName, font.Family)
	style.Set(models.StyleFontSize, font.Size)
	style.Set(models.StyleFontWeight, font.Bold)
	style.Set(models.StyleStrikeThrough, font.Strike)
	if font.Underline != "" {
		style.Set(models.StyleUnderlineStyle, font.Underline)
	}
	if font.Color != "" {
		style.Set(models.StyleForegroundColor, font.Color)
	}
	if st.Fill.Type == "pattern" && len(st.Fill.Color) > 0 {
		style.Set(models.StyleBackgroundColor, st.Fill.Color[0])
	}
	return style
}
