package location

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRange is a rectangular cell range, 1-based and inclusive.
type CellRange struct {
	Sheet      string
	Row1, Col1 int
	Row2, Col2 int
}

// Single reports whether the range covers exactly one cell.
func (r CellRange) Single() bool {
	return r.Row1 == r.Row2 && r.Col1 == r.Col2
}

// Ref returns the range in A1 notation, e.g. "B2:C4".
func (r CellRange) Ref() string {
	first, err := excelize.CoordinatesToCellName(r.Col1, r.Row1)
	if err != nil {
		return ""
	}
	if r.Single() {
		return first
	}
	last, err := excelize.CoordinatesToCellName(r.Col2, r.Row2)
	if err != nil {
		return ""
	}
	return first + ":" + last
}

// RangeFromRef converts an A1 reference ("B2", "B2:C4") on sheet into a
// normalised CellRange.
func RangeFromRef(sheet, ref string) (CellRange, error) {
	first, last, found := strings.Cut(strings.ReplaceAll(ref, "$", ""), ":")
	if !found {
		last = first
	}
	c1, r1, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return CellRange{}, err
	}
	c2, r2, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return CellRange{}, err
	}
	return normalise(CellRange{Sheet: sheet, Row1: r1, Col1: c1, Row2: r2, Col2: c2}), nil
}

func normalise(r CellRange) CellRange {
	if r.Row2 < r.Row1 {
		r.Row1, r.Row2 = r.Row2, r.Row1
	}
	if r.Col2 < r.Col1 {
		r.Col1, r.Col2 = r.Col2, r.Col1
	}
	return r
}

// EncodeCells renders r as a spreadsheet token.
func EncodeCells(r CellRange) string {
	r = normalise(r)
	var sb strings.Builder
	if r.Sheet != "" {
		sb.WriteString(r.Sheet)
		sb.WriteByte('!')
	}
	fmt.Fprintf(&sb, "%d,%d", r.Row1, r.Col1)
	if !r.Single() {
		fmt.Fprintf(&sb, ":%d,%d", r.Row2, r.Col2)
	}
	return sb.String()
}

// ParseCells parses a spreadsheet token without resolving it.
func ParseCells(token string) (CellRange, error) {
	var r CellRange
	body := token
	if i := strings.LastIndex(token, "!"); i >= 0 {
		r.Sheet, body = token[:i], token[i+1:]
		if r.Sheet == "" {
			return CellRange{}, malformed(token)
		}
	}
	first, last, found := strings.Cut(body, ":")
	a, ok := ints(first, 2)
	if !ok {
		return CellRange{}, malformed(token)
	}
	b := a
	if found {
		if b, ok = ints(last, 2); !ok {
			return CellRange{}, malformed(token)
		}
	}
	r.Row1, r.Col1, r.Row2, r.Col2 = a[0], a[1], b[0], b[1]
	return normalise(r), nil
}

// DecodeCells resolves token against a workbook holding sheets. A token
// without a sheet resolves against defaultSheet.
func DecodeCells(token string, sheets []string, defaultSheet string) (CellRange, error) {
	r, err := ParseCells(token)
	if err != nil {
		return CellRange{}, err
	}
	if r.Sheet == "" {
		r.Sheet = defaultSheet
	}
	exists := false
	for _, s := range sheets {
		if s == r.Sheet {
			exists = true
			break
		}
	}
	if !exists {
		return CellRange{}, notFound("sheet %q", r.Sheet)
	}
	if r.Row1 < 1 || r.Col1 < 1 || r.Row2 > excelize.TotalRows || r.Col2 > excelize.MaxColumns {
		return CellRange{}, notFound("cells %s outside sheet limits", token)
	}
	return r, nil
}
