// =============================================================================
// Budget Importer - Table Loader
// =============================================================================
//
// This module turns an uploaded tabular file into the ordered sequence of
// typed budget records the rest of the pipeline consumes. It is responsible
// for:
//   - Picking the parsing strategy from the file name extension
//   - Enforcing the required column set (exact, case-sensitive)
//   - Normalizing numeric and month fields into canonical form
//
// LOADING PROCESS:
//   1. Select strategy by extension (.xlsx/.xls vs .csv/.txt)
//   2. Parse the upload into header + row maps
//   3. Verify the required columns are all present
//   4. Build one immutable Record per non-blank data row
//
// The loader has no side effects: it never mutates the source bytes and
// holds no state between calls.
//
// =============================================================================

package tableloader

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ebafin/orcimport/internal/types"
)

// =============================================================================
// LOADER
// =============================================================================

// Loader parses uploads into budget records. Build it with New; the
// zero value has no strategies and rejects everything.
type Loader struct {
	spreadsheet Strategy
	delimited   Strategy
}

// Option configures a Loader.
type Option func(*Loader)

// WithoutSpreadsheet degrades the loader to delimited-text only. XLSX
// uploads then fail with a FormatError telling the operator to re-export as
// CSV, mirroring environments where the spreadsheet engine is unavailable.
func WithoutSpreadsheet() Option {
	return func(l *Loader) {
		l.spreadsheet = nil
	}
}

// New creates a Loader with both strategies enabled.
func New(opts ...Option) *Loader {
	l := &Loader{
		spreadsheet: SpreadsheetStrategy{},
		delimited:   DelimitedTextStrategy{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load parses an upload into the ordered record sequence.
//
// Failure modes:
//   - *FormatError when the extension is neither delimited text nor a
//     supported spreadsheet format (or spreadsheet support is disabled)
//   - *SchemaError listing every missing required column name
//   - a wrapped parse error when a numeric cell cannot be normalized
func (l *Loader) Load(r io.Reader, filename string) ([]types.Record, error) {
	strategy, err := l.strategyFor(filename)
	if err != nil {
		return nil, err
	}

	headers, rows, err := strategy.Parse(r)
	if err != nil {
		return nil, err
	}

	if missing := missingColumns(headers); len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	records := make([]types.Record, 0, len(rows))
	for i, row := range rows {
		record, err := buildRecord(row)
		if err != nil {
			// Data rows are 1-indexed after the header row.
			return nil, errors.Wrapf(err, "row %d", i+1)
		}
		records = append(records, record)
	}

	return records, nil
}

// strategyFor selects the parsing strategy from the file name extension.
func (l *Loader) strategyFor(filename string) (Strategy, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		if l.spreadsheet == nil {
			return nil, &FormatError{
				Filename: filename,
				Reason:   "spreadsheet support is unavailable, re-export the file as CSV",
			}
		}
		return l.spreadsheet, nil
	case ".csv", ".txt":
		return l.delimited, nil
	default:
		return nil, &FormatError{
			Filename: filename,
			Reason:   "expected .xlsx, .xls, .csv or .txt",
		}
	}
}

// missingColumns returns the required column names absent from the header,
// preserving wire order so the error message is stable.
func missingColumns(headers []string) []string {
	present := make(map[string]bool, len(headers))
	for _, h := range headers {
		present[h] = true
	}

	var missing []string
	for _, name := range types.FieldNames() {
		if !present[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// buildRecord normalizes one row map into an immutable Record.
func buildRecord(row map[string]string) (types.Record, error) {
	vlrCpf, err := NormalizeDecimal(row["vlrCpf"])
	if err != nil {
		return types.Record{}, errors.Wrap(err, "vlrCpf")
	}

	vlrCxf, err := NormalizeDecimal(row["vlrCxf"])
	if err != nil {
		return types.Record{}, errors.Wrap(err, "vlrCxf")
	}

	return types.Record{
		NumPrj: ParseIntPermissive(row["numPrj"]),
		MesAno: NormalizeMonth(row["mesAno"]),
		CodFpj: ParseIntPermissive(row["codFpj"]),
		CtaFin: ParseIntPermissive(row["ctaFin"]),
		CodCcu: strings.TrimSpace(row["codCcu"]),
		VlrCpf: vlrCpf,
		VlrCxf: vlrCxf,
	}, nil
}
