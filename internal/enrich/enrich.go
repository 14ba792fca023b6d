// Package enrich produces a structured summary, classification, and
// follow-up questions from redacted intake text.
//
// An external classifier can be plugged in through the Provider interface;
// when none is configured, or the configured one times out or fails, the
// deterministic fallback in fallback.go runs instead, so the pipeline
// always produces a result.
package enrich

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// Provider is an external classifier. Implementations receive text that
// has already been through PII redaction and must honor ctx cancellation.
type Provider interface {
	Enrich(ctx context.Context, text string) (*models.EnrichmentResult, error)
}

// DefaultTimeout bounds a provider call when the caller supplies none.
const DefaultTimeout = 10 * time.Second

// Adapter runs enrichment with a timeout and fallback. Construct with
// NewAdapter; a nil provider means fallback-only operation.
type Adapter struct {
	provider Provider
	timeout  time.Duration
	log      *logrus.Logger
}

// NewAdapter creates an Adapter. provider may be nil.
func NewAdapter(provider Provider, timeout time.Duration, log *logrus.Logger) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{provider: provider, timeout: timeout, log: log}
}

// Enrich returns an enrichment result for the given redacted text.
// redactions is the number of PII substitutions applied to the input and
// is recorded in the result's provenance. Enrich never returns nil: a
// provider failure or timeout degrades to the deterministic fallback.
func (a *Adapter) Enrich(ctx context.Context, text string, redactions int) *models.EnrichmentResult {
	if a.provider == nil {
		return Fallback(text, redactions)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	type outcome struct {
		result *models.EnrichmentResult
		err    error
	}

	// Buffered so a provider that completes after the timeout fires can
	// deliver its result into the void and exit.
	done := make(chan outcome, 1)

	go func() {
		res, err := a.provider.Enrich(callCtx, text)
		done <- outcome{result: res, err: err}
	}()

	select {
	case <-callCtx.Done():
		a.log.WithError(callCtx.Err()).Warn("enrichment provider timed out, using fallback")
		return Fallback(text, redactions)
	case out := <-done:
		if out.err != nil {
			a.log.WithError(out.err).Warn("enrichment provider failed, using fallback")
			return Fallback(text, redactions)
		}

		res := out.result
		res.Provenance.Source = models.EnrichmentSourceExternal
		res.Provenance.Redactions = redactions
		if len(res.FollowUps) > maxFollowUps {
			res.FollowUps = res.FollowUps[:maxFollowUps]
		}
		return res
	}
}
