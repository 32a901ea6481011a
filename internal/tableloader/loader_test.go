package tableloader

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ebafin/orcimport/internal/types"
)

const sampleCSV = `numPrj;mesAno;codFpj;ctaFin;codCcu;vlrCpf;vlrCxf
101;2025-07;1;1002;1002;15.000,00;0,00
101;2025-08;1;1002;1002;20.000,00;0,00
`

func TestLoadSemicolonCSV(t *testing.T) {
	loader := New()

	records, err := loader.Load(strings.NewReader(sampleCSV), "budget.csv")
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	require.NotNil(t, first.NumPrj)
	assert.Equal(t, int64(101), *first.NumPrj)
	assert.Equal(t, "07/2025", first.MesAno)
	require.NotNil(t, first.CodFpj)
	assert.Equal(t, int64(1), *first.CodFpj)
	require.NotNil(t, first.CtaFin)
	assert.Equal(t, int64(1002), *first.CtaFin)
	assert.Equal(t, "1002", first.CodCcu)
	assert.Equal(t, "15000.00", types.FormatDecimal(first.VlrCpf))
	assert.Equal(t, "0.00", types.FormatDecimal(first.VlrCxf))

	// Input order is preserved.
	assert.Equal(t, "08/2025", records[1].MesAno)
}

func TestLoadCommaCSV(t *testing.T) {
	input := "numPrj,mesAno,codFpj,ctaFin,codCcu,vlrCpf,vlrCxf\n" +
		"101,07/2025,1,1002,1002,\"15000.00\",0\n"

	records, err := New().Load(strings.NewReader(input), "budget.txt")
	require.NoError(t, err)
	require.Len(t, records, 1)

	// With comma as the field separator the value cells carry plain dots,
	// which the Brazilian policy strips as thousands separators.
	assert.Equal(t, "1500000", types.FormatDecimal(records[0].VlrCpf))
}

func TestLoadSkipsBlankRows(t *testing.T) {
	input := sampleCSV + ";;;;;;\n\n101;2025-09;1;1002;1002;1,00;0,00\n"

	records, err := New().Load(strings.NewReader(input), "budget.csv")
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestLoadMissingColumns(t *testing.T) {
	input := "numPrj;mesAno;codFpj;ctaFin\n101;2025-07;1;1002\n"

	_, err := New().Load(strings.NewReader(input), "budget.csv")
	require.Error(t, err)

	var schemaErr *SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"codCcu", "vlrCpf", "vlrCxf"}, schemaErr.Missing)
	assert.Contains(t, err.Error(), "codCcu")
}

func TestLoadUnknownExtension(t *testing.T) {
	_, err := New().Load(strings.NewReader(sampleCSV), "budget.pdf")

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Equal(t, "budget.pdf", formatErr.Filename)
}

func TestLoadWithoutSpreadsheetRejectsXLSX(t *testing.T) {
	loader := New(WithoutSpreadsheet())

	_, err := loader.Load(strings.NewReader(""), "budget.xlsx")

	var formatErr *FormatError
	require.ErrorAs(t, err, &formatErr)
	assert.Contains(t, formatErr.Reason, "CSV")
}

func TestLoadBadNumericCell(t *testing.T) {
	input := "numPrj;mesAno;codFpj;ctaFin;codCcu;vlrCpf;vlrCxf\n" +
		"101;2025-07;1;1002;1002;quinze;0,00\n"

	_, err := New().Load(strings.NewReader(input), "budget.csv")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
	assert.Contains(t, err.Error(), "vlrCpf")
}

func TestLoadBlankIntegerCellsBecomeNil(t *testing.T) {
	input := "numPrj;mesAno;codFpj;ctaFin;codCcu;vlrCpf;vlrCxf\n" +
		";2025-07;;;1002;1,00;0,00\n"

	records, err := New().Load(strings.NewReader(input), "budget.csv")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Nil(t, records[0].NumPrj)
	assert.Nil(t, records[0].CodFpj)
	assert.Nil(t, records[0].CtaFin)
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := make([]interface{}, 0, len(types.FieldNames()))
	for _, name := range types.FieldNames() {
		headers = append(headers, name)
	}
	require.NoError(t, f.SetSheetRow(sheet, "A1", &headers))
	require.NoError(t, f.SetSheetRow(sheet, "A2",
		&[]interface{}{101, "2025-07", 1, 1002, "1002", "15.000,00", "0,00"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3",
		&[]interface{}{101, "2025-08", 1, 1002, "1002", "20.000,00", "0,00"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	require.NoError(t, f.Close())

	records, err := New().Load(&buf, "budget.xlsx")
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "07/2025", records[0].MesAno)
	assert.Equal(t, "15000.00", types.FormatDecimal(records[0].VlrCpf))
	assert.Equal(t, "08/2025", records[1].MesAno)
	assert.Equal(t, "20000.00", types.FormatDecimal(records[1].VlrCpf))
}
