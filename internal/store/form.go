package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lexintake/lexintake/internal/models"
)

// FormStore handles intake form persistence. Intakes are scoped to a firm
// transitively through their form, so form lookups are the anchor for
// every public submission.
type FormStore struct {
	Base
}

// NewFormStore creates a new FormStore.
func NewFormStore(base Base) *FormStore {
	return &FormStore{Base: base}
}

// CreateForm publishes a new intake form under the firm.
func (s *FormStore) CreateForm(ctx context.Context, firmID, slug string, retentionDays int) (*models.Form, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if slug == "" {
		return nil, models.ErrMissingSlug
	}

	if retentionDays <= 0 {
		retentionDays = models.DefaultRetentionDays
	}

	tx, err := s.beginTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("creating form: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	query := `INSERT INTO forms (id, firm_id, slug, published, retention_days)
		VALUES ($1, $2, $3, true, $4)
		RETURNING ` + formColumns

	f, err := scanForm(tx.QueryRow(ctx, query, uuid.NewString(), firmID, slug, retentionDays).Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created form: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create form: %w", err)
	}

	return f, nil
}

// GetFormBySlug fetches a form by its firm-unique slug. Two firms can own
// forms with the same slug; the firm predicate keeps the lookup unambiguous.
func (s *FormStore) GetFormBySlug(ctx context.Context, firmID, slug string) (*models.Form, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("fetching form: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	query := `SELECT ` + formColumns + ` FROM forms WHERE firm_id = $1 AND slug = $2`

	f, err := scanForm(tx.QueryRow(ctx, query, firmID, slug).Scan)
	if err != nil {
		return nil, mapLookupErr(err, models.ErrFormNotFound)
	}

	return f, nil
}

// GetForm fetches a form by ID within the firm scope.
func (s *FormStore) GetForm(ctx context.Context, firmID, id string) (*models.Form, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("fetching form: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	query := `SELECT ` + formColumns + ` FROM forms WHERE firm_id = $1 AND id = $2`

	f, err := scanForm(tx.QueryRow(ctx, query, firmID, id).Scan)
	if err != nil {
		return nil, mapLookupErr(err, models.ErrFormNotFound)
	}

	return f, nil
}

// ListForms returns the firm's forms, newest first.
func (s *FormStore) ListForms(ctx context.Context, firmID string) ([]models.Form, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("listing forms: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	rows, err := tx.Query(ctx,
		`SELECT `+formColumns+` FROM forms WHERE firm_id = $1 ORDER BY created_at DESC`,
		firmID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying forms: %w", err)
	}
	defer rows.Close()

	forms := make([]models.Form, 0, 8)

	for rows.Next() {
		f, err := scanForm(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning form row: %w", err)
		}

		forms = append(forms, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating forms: %w", err)
	}

	return forms, nil
}
