package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lexintake/lexintake/internal/consent"
	"github.com/lexintake/lexintake/internal/models"
)

// ConsentStore persists per-firm AI enrichment consent choices.
// It satisfies consent.Store.
type ConsentStore struct {
	Base
}

// NewConsentStore creates a new ConsentStore.
func NewConsentStore(base Base) *ConsentStore {
	return &ConsentStore{Base: base}
}

// GetConsent returns the firm's consent record, or consent.ErrNotFound
// when the firm has never made a choice.
func (s *ConsentStore) GetConsent(ctx context.Context, firmID string) (*models.ConsentRecord, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("fetching consent: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	var rec models.ConsentRecord

	err = tx.QueryRow(ctx,
		`SELECT firm_id, allowed, updated_at FROM firm_consent WHERE firm_id = $1`,
		firmID,
	).Scan(&rec.FirmID, &rec.Allowed, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, consent.ErrNotFound
		}

		return nil, fmt.Errorf("scanning consent: %w", err)
	}

	return &rec, nil
}

// SetConsent records the firm's consent choice, overwriting any prior one.
func (s *ConsentStore) SetConsent(ctx context.Context, firmID string, allowed bool) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, firmID)
	if err != nil {
		return fmt.Errorf("setting consent: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	_, err = tx.Exec(ctx, `
		INSERT INTO firm_consent (firm_id, allowed, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (firm_id) DO UPDATE SET allowed = EXCLUDED.allowed, updated_at = now()`,
		firmID, allowed,
	)
	if err != nil {
		return fmt.Errorf("upserting consent: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing consent: %w", err)
	}

	return nil
}

var _ consent.Store = (*ConsentStore)(nil)
