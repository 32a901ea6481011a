// =============================================================================
// Budget Importer - Sample Command
// =============================================================================
//
// This file defines the 'sample' command, which writes a small template file
// with the required columns and two example rows. Operators fill it in and
// feed it back to 'import'.
//
// COMMAND USAGE:
//   orcimport sample                       # writes modelo_orcamento.xlsx
//   orcimport sample --csv                 # writes modelo_orcamento.csv
//   orcimport sample --out ./meu_modelo.xlsx
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/ebafin/orcimport/internal/types"
)

var (
	sampleOut string
	sampleCSV bool
)

// sampleRows are the example lines written into the template.
var sampleRows = [][]interface{}{
	{101, "07/2025", 1, 1002, "1002", 15000.00, 0.00},
	{101, "08/2025", 1, 1002, "1002", 20000.00, 0.00},
}

// sampleCmd represents the 'sample' command.
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Write a template file with the required columns",
	Long: `Write a template spreadsheet (or, with --csv, a ";"-separated text
file) containing the required column headers and two example budget rows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		path := sampleOut
		if path == "" {
			if sampleCSV {
				path = "modelo_orcamento.csv"
			} else {
				path = "modelo_orcamento.xlsx"
			}
		}

		var err error
		if sampleCSV {
			err = writeSampleCSV(path)
		} else {
			err = writeSampleXLSX(path)
		}
		if err != nil {
			return err
		}

		fmt.Printf("Template written to %s\n", path)
		return nil
	},
}

// writeSampleXLSX writes the template as a spreadsheet.
func writeSampleXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	headers := make([]interface{}, 0, len(types.FieldNames()))
	for _, name := range types.FieldNames() {
		headers = append(headers, name)
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range sampleRows {
		cell := fmt.Sprintf("A%d", i+2)
		rowCopy := row
		if err := f.SetSheetRow(sheet, cell, &rowCopy); err != nil {
			return fmt.Errorf("failed to write sample row %d: %w", i+1, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	return nil
}

// writeSampleCSV writes the template as ";"-separated text.
func writeSampleCSV(path string) error {
	var b strings.Builder

	b.WriteString(strings.Join(types.FieldNames(), ";"))
	b.WriteString("\n")

	for _, row := range sampleRows {
		cells := make([]string, 0, len(row))
		for _, v := range row {
			switch value := v.(type) {
			case float64:
				// Brazilian decimal separator, matching what the loader expects.
				cells = append(cells, strings.Replace(fmt.Sprintf("%.2f", value), ".", ",", 1))
			default:
				cells = append(cells, fmt.Sprintf("%v", value))
			}
		}
		b.WriteString(strings.Join(cells, ";"))
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}

	return nil
}

// init registers the sample command and its flags.
func init() {
	sampleCmd.Flags().StringVarP(&sampleOut, "out", "o", "", "Output path for the template")
	sampleCmd.Flags().BoolVar(&sampleCSV, "csv", false, "Write a ;-separated text file instead of a spreadsheet")

	rootCmd.AddCommand(sampleCmd)
}
