// =============================================================================
// Budget Importer - Table Loader Errors
// =============================================================================
//
// Load-time errors are fatal to a run: they are reported once, before any
// batch work begins. The two types here carry enough structure for the CLI
// to tell the operator exactly what to fix in the source file.
//
// =============================================================================

package tableloader

import (
	"fmt"
	"strings"
)

// FormatError reports an upload whose extension/content is neither delimited
// text nor a supported spreadsheet format.
type FormatError struct {
	// Filename is the name of the rejected upload.
	Filename string

	// Reason explains what was expected.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unsupported file format %q: %s", e.Filename, e.Reason)
}

// SchemaError reports required columns missing from the discovered header.
// It always lists every missing name so the operator can fix the spreadsheet
// in one pass.
type SchemaError struct {
	// Missing contains the absent required column names, in wire order.
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}
