// =============================================================================
// Budget Importer - Spreadsheet Strategy
// =============================================================================
//
// XLSX parsing via excelize. Only the first sheet is read: the upload
// contract is a single sheet with a header row, matching the model file the
// "sample" command produces.
//
// =============================================================================

package tableloader

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SpreadsheetStrategy parses XLSX uploads with excelize.
type SpreadsheetStrategy struct{}

// Parse reads the first sheet of the workbook into header and data rows.
func (SpreadsheetStrategy) Parse(r io.Reader) ([]string, []map[string]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, fmt.Errorf("spreadsheet has no sheets")
	}

	allRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
	}
	if len(allRows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q is empty", sheetName)
	}

	headers := cleanHeaders(allRows[0])
	return headers, rowsToMaps(allRows[1:], headers), nil
}
