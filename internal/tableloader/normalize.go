// =============================================================================
// Budget Importer - Field Normalization
// =============================================================================
//
// Spreadsheets exported from Brazilian systems write numbers with "." as the
// thousands separator and "," as the decimal separator ("15.000,50"), and
// competence months in a handful of shapes ("2025-07", "7/2025", full
// dates). This module converts both into the canonical forms the ERP
// contract expects: plain decimals and zero-padded MM/YYYY strings.
//
// =============================================================================

package tableloader

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	yearMonthPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)
	monthYearPattern = regexp.MustCompile(`^(\d{1,2})/(\d{4})$`)
)

// dateLayouts are the free-form date shapes recognized when a month cell
// holds a full date. Day-first before month-first: the source systems are
// Brazilian.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"02/01/2006",
	"02-01-2006",
}

// NormalizeDecimal converts a Brazilian-formatted numeric string into a
// decimal value. Policy: strip every "." (thousands separator), then turn
// the first remaining "," into the decimal point. Empty input normalizes to
// zero; anything that still fails to parse is a data error the caller
// surfaces before any batch work starts.
func NormalizeDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, nil
	}

	normalized := strings.ReplaceAll(value, ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a numeric value: %q", value)
	}
	return d, nil
}

// NormalizeMonth converts a competence value to MM/YYYY with a zero-padded
// month. Recognized inputs: "YYYY-MM", "MM/YYYY", "M/YYYY", and the full
// date layouts above. Anything else passes through unchanged: normalization
// here is best-effort, not validation, so the ERP gets to issue the
// authoritative complaint.
func NormalizeMonth(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return trimmed
	}

	if m := yearMonthPattern.FindStringSubmatch(trimmed); m != nil {
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%02d/%s", month, m[1])
	}

	if m := monthYearPattern.FindStringSubmatch(trimmed); m != nil {
		month, _ := strconv.Atoi(m[1])
		return fmt.Sprintf("%02d/%s", month, m[2])
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("01/2006")
		}
	}

	return value
}

// ParseIntPermissive parses an integer field the way the legacy importer
// did: blank or unparsable input yields nil, and a decimal component is
// truncated ("101.0" and "101,7" both become 101). Cost center codes must
// NOT go through here; they keep their leading structure as strings.
func ParseIntPermissive(value string) *int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	if n, err := strconv.ParseInt(value, 10, 64); err == nil {
		return &n
	}

	// Spreadsheet cells frequently hold "101.0"; accept and truncate.
	f, err := strconv.ParseFloat(strings.Replace(value, ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	n := int64(f)
	return &n
}
