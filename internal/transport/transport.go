// =============================================================================
// Budget Importer - Transport Module
// =============================================================================
//
// Synchronous HTTP POST of a serialized envelope to the configured SOAP
// endpoint. One Send call covers one batch: per-call timeout, TLS peer
// verification always on, and a bounded retry loop with linearly increasing
// backoff (step, 2*step, ...). Network failures and non-2xx statuses both
// consume the retry budget; after the budget is exhausted the last error
// surfaces as a *TransportError.
//
// Retries never cross batch boundaries. The batch runner treats a Send
// failure as that batch's terminal EXCEPTION and moves on.
//
// =============================================================================

package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/ebafin/orcimport/internal/config"
)

// snippetLimit bounds how much response body a TransportError carries.
const snippetLimit = 512

// =============================================================================
// TRANSPORT ERROR
// =============================================================================

// TransportError reports a batch send that failed after exhausting the
// retry budget.
type TransportError struct {
	// StatusCode is the HTTP status of the last attempt, or 0 when the
	// request never produced a response.
	StatusCode int

	// Snippet holds up to snippetLimit bytes of the last response body.
	Snippet string

	// Err is the underlying network error, when there is one.
	Err error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("endpoint returned HTTP %d: %s", e.StatusCode, e.Snippet)
	}
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// =============================================================================
// CLIENT
// =============================================================================

// Client posts envelopes to a single endpoint. Safe for reuse across
// batches within a run; the submission configuration it was built from is
// immutable.
type Client struct {
	endpoint    string
	maxRetries  uint64
	backoffStep time.Duration
	httpClient  *http.Client
}

// New creates a Client from the submission configuration. TLS certificate
// verification stays at the Go default (enabled); there is deliberately no
// option to disable it.
func New(cfg config.Submission) *Client {
	return &Client{
		endpoint:    cfg.Endpoint,
		maxRetries:  uint64(cfg.MaxRetries),
		backoffStep: cfg.BackoffStep,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Send posts one envelope and returns the raw response body. It blocks for
// the full retry budget in the worst case.
func (c *Client) Send(ctx context.Context, payload []byte) ([]byte, error) {
	var body []byte
	attempt := 0

	operation := func() error {
		attempt++
		var err error
		body, err = c.post(ctx, payload)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"endpoint": c.endpoint,
				"attempt":  attempt,
				"error":    err,
			}).Warn("Batch send attempt failed")
		}
		return err
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(&linearBackOff{step: c.backoffStep}, c.maxRetries),
		ctx,
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return nil, err
	}
	return body, nil
}

// post performs a single attempt.
func (c *Client) post(ctx context.Context, payload []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close response body")
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &TransportError{StatusCode: resp.StatusCode, Snippet: snippet(body)}
	}

	return body, nil
}

// snippet truncates a response body for error reporting.
func snippet(body []byte) string {
	if len(body) > snippetLimit {
		return string(body[:snippetLimit])
	}
	return string(body)
}

// =============================================================================
// LINEAR BACKOFF
// =============================================================================

// linearBackOff waits step, 2*step, 3*step, ... between attempts. The
// observed service behaves best with a slow linear ramp, not the
// exponential curve backoff ships with, so this small adapter feeds
// backoff.Retry instead.
type linearBackOff struct {
	step time.Duration
	n    int64
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() { b.n = 0 }
