// =============================================================================
// Budget Importer - Main Entry Point
// =============================================================================
//
// This is the main entry point for the budget importer CLI. It initializes
// the Cobra CLI framework and delegates command execution to the cmd package.
//
// USAGE:
//   orcimport import    - Submit a budget file to the Senior ERP in batches
//   orcimport validate  - Check an input file without sending anything
//   orcimport sample    - Write a template file with the required columns
//   orcimport version   - Display the application version
//
// ARCHITECTURE:
//   - cmd/        : CLI command definitions (Cobra)
//   - internal/   : Core pipeline (loading, envelopes, transport, batching)
//   - pkg/        : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/ebafin/orcimport/cmd"
)

func main() {
	cmd.Execute()
}
