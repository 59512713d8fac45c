package record

import (
	"strings"

	"github.com/unnatikoppikar/SchoolReportGenerator/internal/errors"
)

// ColumnIndex converts a spreadsheet column address (A, B, ..., Z, AA, AB, ...)
// to a 0-based column index using bijective base-26 numbering: "A"→0, "Z"→25,
// "AA"→26. Lowercase input is accepted.
func ColumnIndex(address string) (int, error) {
	if address == "" {
		return 0, errors.InvalidColumnAddress(address)
	}

	index := 0
	for _, r := range strings.ToUpper(address) {
		if r < 'A' || r > 'Z' {
			return 0, errors.InvalidColumnAddress(address)
		}
		index = index*26 + int(r-'A'+1)
	}
	return index - 1, nil
}

// ColumnLabel converts a 0-based column index back to its spreadsheet address.
// Inverse of ColumnIndex for all non-negative inputs.
func ColumnLabel(index int) string {
	result := ""
	index++ // spreadsheet addressing is 1-based internally
	for index > 0 {
		index--
		result = string(rune('A'+(index%26))) + result
		index /= 26
	}
	return result
}
