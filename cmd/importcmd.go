// =============================================================================
// Budget Importer - Import Command
// =============================================================================
//
// This file defines the 'import' command, the main entry point of the tool.
// It loads the input file, validates and normalizes the rows, and submits
// them in batches to the configured endpoint (or keeps the envelopes locally
// in simulate mode).
//
// COMMAND USAGE:
//   orcimport import --file budget.xlsx --user U --password P --company 1
//   orcimport import --file budget.csv --simulate
//
// OUTPUT:
//   <output_dir>/envio_log.csv   - one row per batch
//   <output_dir>/lotes_xml.zip   - generated envelopes (simulate mode only)
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ebafin/orcimport/internal/config"
	"github.com/ebafin/orcimport/internal/export"
	"github.com/ebafin/orcimport/internal/runner"
	"github.com/ebafin/orcimport/internal/tableloader"
	"github.com/ebafin/orcimport/internal/transport"
	"github.com/ebafin/orcimport/internal/types"
	"github.com/ebafin/orcimport/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	importFile     string
	importSimulate bool
	importUser     string
	importPassword string
	importCompany  string
	importOutDir   string
)

// =============================================================================
// IMPORT COMMAND DEFINITION
// =============================================================================

// importCmd represents the 'import' command.
var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Submit a budget file to the Senior ERP in batches",
	Long: `Read budget line items from a spreadsheet (.xlsx, .xls) or delimited
text file (.csv, .txt), normalize the values, and submit them to the
budget-grid webservice in fixed-size batches.

With --simulate no network call is made: every batch is marked OK and the
generated envelopes are written to a zip archive for inspection.`,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	applyLogLevel(cfg.LogLevel)
	applyCredentialFlags(cfg)

	if !importSimulate {
		if cfg.Credentials.User == "" || cfg.Credentials.Password == "" {
			return fmt.Errorf("user and password are required unless --simulate is set")
		}
		if cfg.Credentials.CodEmp == "" {
			return fmt.Errorf("company code is required unless --simulate is set")
		}
	}

	records, err := loadRecords(importFile)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no data rows found in %s", importFile)
	}

	outDir := cfg.OutputDir
	if importOutDir != "" {
		outDir = importOutDir
	}

	submission := cfg.Submission()

	var sender runner.Sender
	if !importSimulate {
		sender = transport.New(submission)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run := runner.New(submission, sender, cfg.BatchSize, importSimulate)
	result, err := run.Run(ctx, records)
	if err != nil {
		return err
	}

	logPath := filepath.Join(outDir, "envio_log.csv")
	if err := export.WriteLog(logPath, result.Log); err != nil {
		return err
	}
	logrus.WithField("path", logPath).Info("Submission log written")

	if importSimulate {
		zipPath := filepath.Join(outDir, "lotes_xml.zip")
		if err := export.WriteArtifactsZip(zipPath, result.Artifacts); err != nil {
			return err
		}
		logrus.WithField("path", zipPath).Info("Envelope archive written")
	}

	fmt.Printf("Lotes OK: %d/%d\n", result.OKCount, result.Batches)
	if result.OKCount < result.Batches {
		fmt.Printf("Veja o detalhe em %s\n", logPath)
	}

	return nil
}

// applyCredentialFlags lets command-line flags override the YAML file and
// the environment.
func applyCredentialFlags(cfg *config.Config) {
	if importUser != "" {
		cfg.Credentials.User = importUser
	}
	if importPassword != "" {
		cfg.Credentials.Password = importPassword
	}
	if importCompany != "" {
		cfg.Credentials.CodEmp = importCompany
	}
}

// loadRecords opens the input file and runs it through the table loader.
func loadRecords(path string) ([]types.Record, error) {
	if !utils.FileExists(path) {
		return nil, fmt.Errorf("input file not found: %s", path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer file.Close()

	loader := tableloader.New()
	return loader.Load(file, filepath.Base(path))
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init registers the import command and its flags.
func init() {
	importCmd.Flags().StringVarP(&importFile, "file", "f", "", "Input file (.xlsx, .xls, .csv, .txt)")
	importCmd.Flags().BoolVar(&importSimulate, "simulate", false, "Build envelopes without sending anything")
	importCmd.Flags().StringVar(&importUser, "user", "", "Webservice user (overrides config and environment)")
	importCmd.Flags().StringVar(&importPassword, "password", "", "Webservice password (overrides config and environment)")
	importCmd.Flags().StringVar(&importCompany, "company", "", "Company code (overrides config and environment)")
	importCmd.Flags().StringVarP(&importOutDir, "out", "o", "", "Output directory (overrides config)")
	importCmd.MarkFlagRequired("file")

	rootCmd.AddCommand(importCmd)
}
