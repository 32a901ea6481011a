// =============================================================================
// Budget Importer - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which runs the load and
// normalization stages against an input file without touching the network.
// Operators use it to vet a spreadsheet before a real submission.
//
// COMMAND USAGE:
//   orcimport validate --file budget.xlsx
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ebafin/orcimport/internal/config"
	"github.com/ebafin/orcimport/internal/types"
)

// previewRows bounds how many normalized rows validate echoes back.
const previewRows = 5

var validateFile string

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check an input file and the configuration without sending anything",
	Long: `Load the input file, verify the required columns are present, and
normalize every row exactly as a real submission would. The configuration
file is loaded and validated as well. No network call is made.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		applyLogLevel(cfg.LogLevel)

		records, err := loadRecords(validateFile)
		if err != nil {
			return err
		}

		batches := (len(records) + cfg.BatchSize - 1) / cfg.BatchSize

		fmt.Printf("File OK: %d rows, %d batches of up to %d records\n",
			len(records), batches, cfg.BatchSize)
		fmt.Printf("Endpoint: %s\n", cfg.Endpoint)

		// Echo the first rows so the operator can eyeball the normalization.
		preview := records
		if len(preview) > previewRows {
			preview = preview[:previewRows]
		}
		fmt.Println(strings.Join(types.FieldNames(), ";"))
		for _, record := range preview {
			fmt.Println(strings.Join(record.Fields(), ";"))
		}

		return nil
	},
}

// init registers the validate command and its flags.
func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Input file (.xlsx, .xls, .csv, .txt)")
	validateCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(validateCmd)
}
