// Package spreadsheet reads and writes spreadsheet workbooks (xlsx).
package spreadsheet

import (
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/ukaji3/ctxbridge-go/pkg/ctxbridge/location"
)

// activeSheet returns the name of the workbook's active sheet.
func activeSheet(f *excelize.File) string {
	name := f.GetSheetName(f.GetActiveSheetIndex())
	if name == "" {
		if list := f.GetSheetList(); len(list) > 0 {
			name = list[0]
		}
	}
	return name
}

// findDataBounds finds the bounding box of non-empty cells, 0-based.
// minRow is -1 for an empty sheet.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if minRow < 0 || rowIdx < minRow {
				minRow = rowIdx
			}
			if maxRow < 0 || rowIdx > maxRow {
				maxRow = rowIdx
			}
			if minCol < 0 || colIdx < minCol {
				minCol = colIdx
			}
			if maxCol < 0 || colIdx > maxCol {
				maxCol = colIdx
			}
		}
	}
	return
}

// usedRange returns the data bounds of sheet as a CellRange.
func usedRange(sheet string, rows [][]string) (location.CellRange, bool) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return location.CellRange{}, false
	}
	return location.CellRange{Sheet: sheet, Row1: minRow + 1, Col1: minCol + 1, Row2: maxRow + 1, Col2: maxCol + 1}, true
}

// printArea returns the first print area defined for sheet.
// Format: 'SheetName'!$A$1:$D$10 or SheetName!$A$1:$D$10
func printArea(f *excelize.File, sheet string) (location.CellRange, bool) {
	for _, dn := range f.GetDefinedName() {
		if !strings.EqualFold(dn.Name, "_xlnm.Print_Area") {
			continue
		}
		for _, part := range strings.Split(dn.RefersTo, ",") {
			idx := strings.LastIndex(part, "!")
			if idx < 0 {
				continue
			}
			if strings.Trim(strings.TrimSpace(part[:idx]), "'") != sheet {
				continue
			}
			if r, err := location.RangeFromRef(sheet, part[idx+1:]); err == nil {
				return r, true
			}
		}
	}
	return location.CellRange{}, false
}

// storedSelection returns the selection saved in the sheet view, if any.
func storedSelection(f *excelize.File, sheet string) (location.CellRange, bool) {
	panes, err := f.GetPanes(sheet)
	if err != nil {
		return location.CellRange{}, false
	}
	for _, sel := range panes.Selection {
		ref := strings.Fields(sel.SQRef)
		if len(ref) == 0 && sel.ActiveCell != "" {
			ref = []string{sel.ActiveCell}
		}
		if len(ref) == 0 {
			continue
		}
		if r, err := location.RangeFromRef(sheet, ref[0]); err == nil {
			return r, true
		}
	}
	return location.CellRange{}, false
}

// rangeText renders the cells of r row-major, columns separated by tabs
// and rows by newlines. The range is clipped to the data present.
func rangeText(rows [][]string, r location.CellRange) string {
	var sb strings.Builder
	last := min(r.Row2, len(rows))
	width := 0
	for row := r.Row1; row <= last; row++ {
		width = max(width, len(rows[row-1]))
	}
	right := min(r.Col2, max(width, r.Col1))
	for row := r.Row1; row <= last; row++ {
		if row > r.Row1 {
			sb.WriteByte('\n')
		}
		cells := rows[row-1]
		for col := r.Col1; col <= right; col++ {
			if col > r.Col1 {
				sb.WriteByte('\t')
			}
			if col <= len(cells) {
				sb.WriteString(cells[col-1])
			}
		}
	}
	return sb.String()
}

// nextFreeRow returns the first row below the last non-empty cell of column A.
func nextFreeRow(rows [][]string) int {
	last := 0
	for i, row := range rows {
		if len(row) > 0 && row[0] != "" {
			last = i + 1
		}
	}
	return last + 1
}
