// Package consent implements the per-firm AI enrichment consent gate.
//
// A firm that has never recorded a choice is treated as consenting, so
// firms are not silently blocked by the absence of a record. When a firm
// has explicitly opted out, the pipeline skips enrichment entirely and
// marks the resulting record with an explicit ai_skipped indicator.
package consent

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/models"
)

// ErrNotFound is returned by stores when a firm has no consent record.
// The gate translates it into the default-allow outcome.
var ErrNotFound = errors.New("consent record not found")

// Store is the persistence interface the gate depends on. The Postgres
// implementation lives in internal/store; NewMemoryStore provides the
// fallback used when no durable store is configured.
type Store interface {
	GetConsent(ctx context.Context, firmID string) (*models.ConsentRecord, error)
	SetConsent(ctx context.Context, firmID string, allowed bool) error
}

// Gate answers whether enrichment may run for a firm.
type Gate struct {
	store Store
	log   *logrus.Logger
}

// NewGate creates a Gate backed by the given store.
func NewGate(store Store, log *logrus.Logger) *Gate {
	return &Gate{store: store, log: log}
}

// IsConsented reports whether firmID allows AI enrichment. Missing records
// and store failures both resolve to the default-allow outcome; denial is
// only ever the result of an explicit opt-out.
func (g *Gate) IsConsented(ctx context.Context, firmID string) bool {
	rec, err := g.store.GetConsent(ctx, firmID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			g.log.WithError(err).WithField("firm_id", firmID).Warn("consent lookup failed, defaulting to allow")
		}
		return true
	}

	return rec.Allowed
}

// SetConsent records an explicit consent choice for firmID.
func (g *Gate) SetConsent(ctx context.Context, firmID string, allowed bool) error {
	return g.store.SetConsent(ctx, firmID, allowed)
}

// GetConsent returns the stored record, or a default-allow record when the
// firm has never made a choice.
func (g *Gate) GetConsent(ctx context.Context, firmID string) *models.ConsentRecord {
	rec, err := g.store.GetConsent(ctx, firmID)
	if err != nil {
		return &models.ConsentRecord{FirmID: firmID, Allowed: true}
	}
	return rec
}
