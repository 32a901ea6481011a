// =============================================================================
// Budget Importer - Shared Types
// =============================================================================
//
// This package contains shared types used across multiple modules to avoid
// import cycles. Types defined here are used by:
//   - tableloader
//   - envelope
//   - runner
//
// =============================================================================

package types

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// =============================================================================
// BUDGET RECORD
// =============================================================================

// Record is one budget line item, produced by the table loader from a single
// spreadsheet row and consumed read-only by the envelope builder. Records are
// never mutated after construction.
type Record struct {
	// NumPrj is the project number. Nil when the source cell was blank or
	// not parseable as a number.
	NumPrj *int64

	// MesAno is the competence month, normalized to MM/YYYY where the source
	// value matched a recognized pattern.
	MesAno string

	// CodFpj is the budget category code. Nil when blank or unparsable.
	CodFpj *int64

	// CtaFin is the financial account. Nil when blank or unparsable.
	CtaFin *int64

	// CodCcu is the cost center code. Kept as a string so that leading
	// zeros and structural prefixes survive the round trip to the ERP.
	CodCcu string

	// VlrCpf is the planned value for the month.
	VlrCpf decimal.Decimal

	// VlrCxf is the actual (realized) value for the month.
	VlrCxf decimal.Decimal
}

// Fields returns the seven record values as strings, in the wire order the
// remote service expects. Nil integers render as empty strings; money values
// keep the scale they were parsed with.
func (r Record) Fields() []string {
	return []string{
		formatInt(r.NumPrj),
		r.MesAno,
		formatInt(r.CodFpj),
		formatInt(r.CtaFin),
		r.CodCcu,
		FormatDecimal(r.VlrCpf),
		FormatDecimal(r.VlrCxf),
	}
}

// FormatDecimal renders a money value at its own scale. decimal.String
// trims trailing fractional zeros ("15000.50" → "15000.5"), but the service
// has always been sent values with the fraction written out, so the parsed
// exponent is preserved here.
func FormatDecimal(d decimal.Decimal) string {
	if exp := d.Exponent(); exp < 0 {
		return d.StringFixed(-exp)
	}
	return d.String()
}

// FieldNames lists the required column headers, in wire order. The header
// check in the table loader and the element names in the envelope builder
// both derive from this list.
func FieldNames() []string {
	return []string{"numPrj", "mesAno", "codFpj", "ctaFin", "codCcu", "vlrCpf", "vlrCxf"}
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

// =============================================================================
// BATCH STATUS
// =============================================================================

// Batch outcome statuses recorded in the submission log.
const (
	// StatusOK means the remote service accepted the batch: result code "OK"
	// (case-insensitive) and no execution-level error.
	StatusOK = "OK"

	// StatusError means the service replied but rejected the batch, or
	// reported an execution-level error.
	StatusError = "ERROR"

	// StatusException means the batch failed locally before a business
	// verdict was obtained: transport failure, timeout, or an unparseable
	// response.
	StatusException = "EXCEPTION"
)
