// =============================================================================
// Budget Importer - Batch Runner
// =============================================================================
//
// Drives the whole submission: partitions the record sequence into
// fixed-size batches, and for each batch in input order runs
// build → send → parse, appending one row to the run log. Batches are
// processed strictly in sequence, one network call at a time: the remote
// service gives no guarantee about concurrent or out-of-order application,
// so serializing keeps the log order equal to input order and removes any
// ambiguity about partial application.
//
// Per-batch state machine:
//
//   PENDING → BUILT → SENT → PARSED → {OK | ERROR}
//                 \________________→ EXCEPTION
//
// A failure inside one batch never aborts the run; the failing batch is
// logged as EXCEPTION and the loop continues. Nothing is retried at this
// level (the transport owns the single-send retry budget).
//
// Simulate mode short-circuits the send: every batch counts as OK and its
// envelope bytes are retained as an artifact for export, which is how
// operators inspect payloads before pointing the importer at production.
//
// =============================================================================

package runner

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ebafin/orcimport/internal/config"
	"github.com/ebafin/orcimport/internal/envelope"
	"github.com/ebafin/orcimport/internal/response"
	"github.com/ebafin/orcimport/internal/types"
)

// timestampLayout matches the log timestamps the operators' spreadsheets
// already parse (ISO, second precision).
const timestampLayout = "2006-01-02T15:04:05"

// =============================================================================
// RESULT TYPES
// =============================================================================

// LogRow is one per-batch entry in the append-only run log.
type LogRow struct {
	// Timestamp is when the batch reached a terminal state.
	Timestamp string

	// Lote is the 1-based batch index.
	Lote int

	// Status is one of types.StatusOK, types.StatusError,
	// types.StatusException.
	Status string

	// Resultado is the remote result code, empty for EXCEPTION rows.
	Resultado string

	// ErroExecucao is the remote execution-level error, when present.
	ErroExecucao string

	// Msg is the human-readable message: the remote message for OK/ERROR
	// rows, the local error text for EXCEPTION rows.
	Msg string

	// GridErros holds the remote field-level errors verbatim, in order.
	GridErros []string
}

// Artifact is one serialized envelope retained during a simulate run.
type Artifact struct {
	// Lote is the 1-based batch index.
	Lote int

	// XML is the serialized envelope for that batch.
	XML []byte
}

// RunResult aggregates a finished run.
type RunResult struct {
	// RunID identifies the run in logs and exported artifact names.
	RunID string

	// OKCount is the number of batches classified OK.
	OKCount int

	// Batches is the total number of batches attempted.
	Batches int

	// Log holds one row per batch, in batch order.
	Log []LogRow

	// Artifacts holds the retained envelopes (simulate mode only).
	Artifacts []Artifact
}

// =============================================================================
// RUNNER
// =============================================================================

// Sender posts one serialized envelope and returns the raw response body.
// Implemented by transport.Client.
type Sender interface {
	Send(ctx context.Context, payload []byte) ([]byte, error)
}

// Runner executes a full submission for one record sequence.
type Runner struct {
	cfg       config.Submission
	sender    Sender
	batchSize int
	simulate  bool

	// now is swappable in tests.
	now func() time.Time
}

// New creates a Runner. batchSize must be positive; simulate controls
// whether batches are posted or retained locally.
func New(cfg config.Submission, sender Sender, batchSize int, simulate bool) *Runner {
	return &Runner{
		cfg:       cfg,
		sender:    sender,
		batchSize: batchSize,
		simulate:  simulate,
		now:       time.Now,
	}
}

// Run processes every batch and returns the aggregate. It never returns an
// error from a batch failure; the error return covers only programmer
// misuse (non-positive batch size).
func (r *Runner) Run(ctx context.Context, records []types.Record) (*RunResult, error) {
	if r.batchSize < 1 {
		return nil, fmt.Errorf("invalid batch size: %d", r.batchSize)
	}

	batches := chunk(records, r.batchSize)

	result := &RunResult{
		RunID:   uuid.New().String(),
		Batches: len(batches),
		Log:     make([]LogRow, 0, len(batches)),
	}

	log := logrus.WithFields(logrus.Fields{
		"run_id":   result.RunID,
		"records":  len(records),
		"batches":  len(batches),
		"simulate": r.simulate,
	})
	log.Info("Starting budget submission run")

	for i, batch := range batches {
		row := r.runBatch(ctx, i+1, batch)
		if row.Status == types.StatusOK {
			result.OKCount++
		}
		if r.simulate {
			result.Artifacts = append(result.Artifacts, Artifact{
				Lote: i + 1,
				XML:  envelope.Build(r.cfg, batch),
			})
		}
		result.Log = append(result.Log, row)
	}

	log.WithField("ok_batches", result.OKCount).Info("Run complete")
	return result, nil
}

// runBatch takes one batch to a terminal state and returns its log row.
func (r *Runner) runBatch(ctx context.Context, lote int, batch []types.Record) LogRow {
	row := LogRow{
		Timestamp: r.now().Format(timestampLayout),
		Lote:      lote,
	}

	payload := envelope.Build(r.cfg, batch)

	if r.simulate {
		row.Status = types.StatusOK
		row.Resultado = "OK"
		row.Msg = "SIMULADO"
		return row
	}

	body, err := r.sender.Send(ctx, payload)
	if err != nil {
		return r.exception(row, lote, err)
	}

	reply, err := response.Parse(body)
	if err != nil {
		return r.exception(row, lote, err)
	}

	row.Resultado = reply.Resultado
	row.ErroExecucao = reply.ErroExecucao
	row.Msg = reply.Mensagem
	row.GridErros = reply.GridErros

	// OK requires both the OK result code and a clean execution status.
	// A reply carrying only msgErr entries still counts as OK; the grid
	// errors land in the log for the operator to review.
	if strings.EqualFold(reply.Resultado, "OK") && reply.ErroExecucao == "" {
		row.Status = types.StatusOK
	} else {
		row.Status = types.StatusError
	}

	logrus.WithFields(logrus.Fields{
		"lote":      lote,
		"status":    row.Status,
		"resultado": row.Resultado,
	}).Info("Batch processed")

	return row
}

// exception records a local failure and lets the run continue.
func (r *Runner) exception(row LogRow, lote int, err error) LogRow {
	row.Status = types.StatusException
	row.Msg = err.Error()

	logrus.WithFields(logrus.Fields{
		"lote":  lote,
		"error": err,
	}).Error("Batch failed before a business verdict")

	return row
}

// chunk splits records into contiguous sub-slices of at most size elements,
// preserving order. Concatenating the result reproduces the input exactly.
func chunk(records []types.Record, size int) [][]types.Record {
	if len(records) == 0 || size <= 0 {
		return nil
	}

	numChunks := (len(records) + size - 1) / size
	result := make([][]types.Record, 0, numChunks)

	for i := 0; i < len(records); i += size {
		end := i + size
		if end > len(records) {
			end = len(records)
		}
		result = append(result, records[i:end])
	}

	return result
}
