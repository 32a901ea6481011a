package tableloader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ebafin/orcimport/internal/types"
)

func TestNormalizeDecimalBrazilianFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"thousands and decimal comma", "1.234,56", "1234.56"},
		{"zero with comma", "0,00", "0.00"},
		{"empty is zero", "", "0"},
		{"whitespace is zero", "   ", "0"},
		{"plain integer", "15000", "15000"},
		{"already dotted decimal loses the dot as thousands", "1.5", "15"},
		{"large value", "1.234.567,89", "1234567.89"},
		{"comma only", "15000,50", "15000.50"},
		{"thousands with trailing zero kept", "15.000,50", "15000.50"},
		{"negative", "-1.000,25", "-1000.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeDecimal(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, types.FormatDecimal(got))
		})
	}
}

func TestNormalizeDecimalRejectsNonNumeric(t *testing.T) {
	_, err := NormalizeDecimal("quinze mil")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "quinze mil")
}

func TestNormalizeMonth(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"year dash month", "2025-07", "07/2025"},
		{"year dash single month", "2025-7", "07/2025"},
		{"already canonical", "07/2025", "07/2025"},
		{"single digit month year", "7/2025", "07/2025"},
		{"iso date", "2025-07-15", "07/2025"},
		{"iso datetime", "2025-07-15 00:00:00", "07/2025"},
		{"brazilian date", "15/07/2025", "07/2025"},
		{"dashed brazilian date", "15-07-2025", "07/2025"},
		{"empty passes through", "", ""},
		{"unrecognized passes through", "julho de 2025", "julho de 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeMonth(tt.input))
		})
	}
}

func TestParseIntPermissive(t *testing.T) {
	assert.Nil(t, ParseIntPermissive(""))
	assert.Nil(t, ParseIntPermissive("   "))
	assert.Nil(t, ParseIntPermissive("abc"))

	if got := ParseIntPermissive("101"); assert.NotNil(t, got) {
		assert.Equal(t, int64(101), *got)
	}

	// Spreadsheet float artifacts truncate.
	if got := ParseIntPermissive("101.0"); assert.NotNil(t, got) {
		assert.Equal(t, int64(101), *got)
	}
	if got := ParseIntPermissive("101,7"); assert.NotNil(t, got) {
		assert.Equal(t, int64(101), *got)
	}

	if got := ParseIntPermissive("-3"); assert.NotNil(t, got) {
		assert.Equal(t, int64(-3), *got)
	}
}
