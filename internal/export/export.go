// =============================================================================
// Budget Importer - Run Log and Artifact Export
// =============================================================================
//
// Serializes a finished run for the operators: the per-batch log as a
// ";"-separated CSV (the delimiter their spreadsheets expect), and the
// simulate-mode envelopes as a zip archive with one XML entry per batch.
//
// =============================================================================

package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/ebafin/orcimport/internal/runner"
	"github.com/ebafin/orcimport/pkg/utils"
)

// LogHeader is the first line of every exported run log.
const LogHeader = "timestamp;lote;status;resultado;erro_execucao;msg;grid_erros"

// gridSeparator joins multiple field-level errors into the single
// grid_erros column.
const gridSeparator = " | "

// LogBytes renders the run log as CSV text, header included, one line per
// batch in batch order.
func LogBytes(rows []runner.LogRow) []byte {
	var buf bytes.Buffer

	buf.WriteString(LogHeader)
	buf.WriteString("\n")

	for _, row := range rows {
		fields := []string{
			row.Timestamp,
			fmt.Sprintf("%d", row.Lote),
			row.Status,
			sanitize(row.Resultado),
			sanitize(row.ErroExecucao),
			sanitize(row.Msg),
			sanitize(strings.Join(row.GridErros, gridSeparator)),
		}
		buf.WriteString(strings.Join(fields, ";"))
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// WriteLog writes the run log CSV to path, creating parent directories as
// needed.
func WriteLog(path string, rows []runner.LogRow) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "creating log directory")
	}

	if err := os.WriteFile(path, LogBytes(rows), 0644); err != nil {
		return errors.Wrapf(err, "writing run log to %s", path)
	}

	return nil
}

// WriteArtifactsZip writes the retained envelopes to a zip archive at path,
// one entry per batch named lote_001.xml, lote_002.xml, and so on.
func WriteArtifactsZip(path string, artifacts []runner.Artifact) error {
	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return errors.Wrap(err, "creating archive directory")
	}

	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "creating archive %s", path)
	}
	defer file.Close()

	w := zip.NewWriter(file)

	for _, artifact := range artifacts {
		entry, err := w.Create(fmt.Sprintf("lote_%03d.xml", artifact.Lote))
		if err != nil {
			return errors.Wrapf(err, "creating archive entry for batch %d", artifact.Lote)
		}
		if _, err := entry.Write(artifact.XML); err != nil {
			return errors.Wrapf(err, "writing archive entry for batch %d", artifact.Lote)
		}
	}

	if err := w.Close(); err != nil {
		return errors.Wrap(err, "finalizing archive")
	}

	return file.Close()
}

// sanitize keeps one log row on one line: the delimiter and newlines inside
// free-text fields are replaced so the CSV stays parseable.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, ";", ",")
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return s
}
