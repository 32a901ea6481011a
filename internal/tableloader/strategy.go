// =============================================================================
// Budget Importer - Parsing Strategies
// =============================================================================
//
// Two interchangeable strategies sit behind the loader: one for delimited
// text (CSV/TXT) and one for spreadsheets (XLSX). Keeping them behind a
// single interface means the "spreadsheet support unavailable" degradation
// is a construction-time capability decision, not a conditional scattered
// through the loader.
//
// =============================================================================

package tableloader

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Strategy parses raw upload bytes into a header and data rows. Rows come
// back as header→value maps with surrounding whitespace trimmed; blank rows
// are dropped.
type Strategy interface {
	Parse(r io.Reader) (headers []string, rows []map[string]string, err error)
}

// =============================================================================
// DELIMITED TEXT STRATEGY
// =============================================================================

// DelimitedTextStrategy parses CSV/TXT uploads. The field separator is
// auto-detected from the first non-blank line: ";" is tested before ","
// because Brazilian spreadsheet exports default to semicolons.
type DelimitedTextStrategy struct{}

// Parse reads the full upload and splits it into header and data rows.
func (DelimitedTextStrategy) Parse(r io.Reader) ([]string, []map[string]string, error) {
	data, err := io.ReadAll(bufio.NewReader(r))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read upload: %w", err)
	}

	sep, err := detectSeparator(data)
	if err != nil {
		return nil, nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	configureReader(reader, sep)

	allRows, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read delimited text: %w", err)
	}
	if len(allRows) == 0 {
		return nil, nil, fmt.Errorf("file is empty")
	}

	headers := cleanHeaders(allRows[0])
	return headers, rowsToMaps(allRows[1:], headers), nil
}

// detectSeparator inspects the first non-blank line. Semicolon wins when
// present; otherwise comma.
func detectSeparator(data []byte) (rune, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.Contains(line, ";") {
			return ';', nil
		}
		return ',', nil
	}
	return 0, fmt.Errorf("file is empty")
}

// configureReader applies the reader settings shared by every delimited
// upload: tolerate ragged rows and sloppy quoting, trim leading space.
func configureReader(reader *csv.Reader, sep rune) {
	reader.Comma = sep
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
}

// =============================================================================
// SHARED ROW HELPERS
// =============================================================================

// cleanHeaders trims whitespace from header values. Names stay otherwise
// untouched: the required-column check is exact and case-sensitive.
func cleanHeaders(headers []string) []string {
	cleaned := make([]string, len(headers))
	for i, header := range headers {
		cleaned[i] = strings.TrimSpace(header)
	}
	return cleaned
}

// rowsToMaps converts raw rows to header→value maps, skipping blank rows.
// Short rows map their missing columns to the empty string.
func rowsToMaps(raw [][]string, headers []string) []map[string]string {
	rows := make([]map[string]string, 0, len(raw))
	for _, row := range raw {
		if isRowEmpty(row) {
			continue
		}

		rowMap := make(map[string]string, len(headers))
		for i, header := range headers {
			if i < len(row) {
				rowMap[header] = strings.TrimSpace(row[i])
			} else {
				rowMap[header] = ""
			}
		}
		rows = append(rows, rowMap)
	}
	return rows
}

// isRowEmpty checks if a row contains only empty values.
func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
