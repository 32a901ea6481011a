// =============================================================================
// Budget Importer - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands are attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (orcimport)
//   ├── importCmd   (orcimport import)
//   ├── validateCmd (orcimport validate)
//   ├── sampleCmd   (orcimport sample)
//   └── versionCmd  (orcimport version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose)
//   2. Initializing logging before any subcommand runs
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use: "orcimport",

	Short: "Budget importer - submit spreadsheet budget lines to the Senior ERP",

	Long: `Budget importer is a CLI tool that reads financial budget line items
from a spreadsheet or delimited text file, validates and normalizes them,
and submits them in batches to the Senior ERP budget-grid webservice.

Each batch is serialized as a SOAP envelope and posted over HTTPS. The tool
writes a per-batch submission log and, in simulate mode, keeps the generated
envelopes locally instead of sending them.

Example Usage:
  orcimport import --file budget.xlsx           # Submit a spreadsheet
  orcimport import --file budget.csv --simulate # Build envelopes, send nothing
  orcimport validate --file budget.xlsx         # Check the file, no network
  orcimport sample                              # Write a sample spreadsheet`,

	// Print help when invoked without a subcommand.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},

	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogging()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// initLogging configures logrus for CLI output. The --verbose flag wins over
// whatever the configuration file asks for.
func initLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05",
	})

	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// applyLogLevel applies the configured level unless --verbose already forced
// debug output.
func applyLogLevel(level string) {
	if verbose {
		return
	}

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		logrus.WithField("log_level", level).Warn("Unknown log level, staying on info")
		return
	}

	logrus.SetLevel(parsed)
}

// init sets up the global flags.
func init() {
	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the main configuration file",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)
}
