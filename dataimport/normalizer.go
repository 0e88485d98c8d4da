package dataimport

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Sheets carry a two-row preamble: row 0 is an ignorable title, row 1 holds
// the column headers. Data starts at row 2.
const preambleRows = 2

// SheetStructureError reports a sheet that is missing from the workbook or
// too short to contain the header preamble.
type SheetStructureError struct {
	Sheet  string
	Reason string
}

func (e *SheetStructureError) Error() string {
	return fmt.Sprintf("sheet %q: %s", e.Sheet, e.Reason)
}

// NormalizeSheet converts the named sheet into one rawRow per data row,
// zipping the header row against each data row positionally. Columns with a
// blank header are dropped from every record.
func NormalizeSheet(f *excelize.File, sheet string) ([]rawRow, error) {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &SheetStructureError{Sheet: sheet, Reason: "not found in workbook"}
	}
	return normalizeRows(sheet, rows)
}

func normalizeRows(sheet string, rows [][]string) ([]rawRow, error) {
	if len(rows) < preambleRows {
		return nil, &SheetStructureError{Sheet: sheet, Reason: "does not contain expected headers and data"}
	}

	headers := rows[1]
	out := make([]rawRow, 0, len(rows)-preambleRows)
	for _, cells := range rows[preambleRows:] {
		row := rawRow{}
		for i, header := range headers {
			name := strings.TrimSpace(header)
			if name == "" || i >= len(cells) {
				continue
			}
			row[name] = cells[i]
		}
		out = append(out, row)
	}
	return out, nil
}
