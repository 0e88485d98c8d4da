package dataimport

import (
	"strings"

	"bitbucket.org/mmdatafocus/salesfield_backend/utils"
)

// rawRow maps a trimmed header name to the cell value beneath it.
// Cells come from the workbook reader as strings.
type rawRow map[string]string

// resolveString returns the trimmed value of the first alias present in the
// row with a non-blank cell. Alias order is priority order. Absence is a
// valid resolution: the result is "" when no alias matches.
func resolveString(row rawRow, aliases ...string) string {
	for _, alias := range aliases {
		if v, ok := row[alias]; ok {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

// resolveNumber resolves like resolveString, then coerces the cell to a
// float64. Missing and non-numeric cells resolve to 0, never to an error.
func resolveNumber(row rawRow, aliases ...string) float64 {
	return utils.ParseNumber(resolveString(row, aliases...))
}
