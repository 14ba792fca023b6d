package store

import (
	"context"
	"fmt"

	"github.com/lexintake/lexintake/internal/models"
)

// UploadStore handles uploaded-document persistence.
type UploadStore struct {
	Base
}

// NewUploadStore creates a new UploadStore.
func NewUploadStore(base Base) *UploadStore {
	return &UploadStore{Base: base}
}

// CreateUpload inserts a processed upload and returns the stored record.
func (s *UploadStore) CreateUpload(ctx context.Context, firmID string, u *models.Upload) (*models.Upload, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("creating upload: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	enrichJSON, limitJSON, err := marshalPipelineResults(u.Enrichment, u.Limitation)
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO uploads (id, firm_id, filename, mime_type, size,
			extracted_text, enrichment, limitation, ai_skipped, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + uploadColumns

	row := tx.QueryRow(ctx, query,
		u.ID, firmID, u.Filename, u.MimeType, u.Size,
		u.ExtractedText, enrichJSON, limitJSON, u.AISkipped, u.Status,
	)

	stored, err := scanUpload(row.Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created upload: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create upload: %w", err)
	}

	s.notify("uploads", "insert", firmID)

	return stored, nil
}

// SetExtractedText attaches the redacted document text and advances the
// upload to the extracted state.
func (s *UploadStore) SetExtractedText(ctx context.Context, firmID, id, text string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, firmID)
	if err != nil {
		return fmt.Errorf("updating upload text: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	tag, err := tx.Exec(ctx, `UPDATE uploads SET extracted_text = $3, status = $4
		WHERE firm_id = $1 AND id = $2`,
		firmID, id, text, models.UploadStatusExtracted,
	)
	if err != nil {
		return fmt.Errorf("updating upload text: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrUploadNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing upload text update: %w", err)
	}

	s.notify("uploads", "update", firmID)

	return nil
}

// CompleteUpload attaches the pipeline results and marks the upload
// completed, returning the final record.
func (s *UploadStore) CompleteUpload(
	ctx context.Context, firmID, id string,
	enrichment *models.EnrichmentResult, limitation *models.LimitationResult, aiSkipped bool,
) (*models.Upload, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("completing upload: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	enrichJSON, limitJSON, err := marshalPipelineResults(enrichment, limitation)
	if err != nil {
		return nil, err
	}

	query := `UPDATE uploads SET enrichment = $3, limitation = $4, ai_skipped = $5, status = $6
		WHERE firm_id = $1 AND id = $2
		RETURNING ` + uploadColumns

	row := tx.QueryRow(ctx, query,
		firmID, id, enrichJSON, limitJSON, aiSkipped, models.UploadStatusCompleted,
	)

	u, err := scanUpload(row.Scan)
	if err != nil {
		return nil, mapLookupErr(err, models.ErrUploadNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing upload completion: %w", err)
	}

	s.notify("uploads", "update", firmID)

	return u, nil
}

// GetUpload fetches a single upload by ID within the firm scope.
func (s *UploadStore) GetUpload(ctx context.Context, firmID, id string) (*models.Upload, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("fetching upload: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	query := `SELECT ` + uploadColumns + ` FROM uploads WHERE firm_id = $1 AND id = $2`

	u, err := scanUpload(tx.QueryRow(ctx, query, firmID, id).Scan)
	if err != nil {
		return nil, mapLookupErr(err, models.ErrUploadNotFound)
	}

	return u, nil
}

// ListUploads returns the firm's uploads as list-view summaries, newest first.
func (s *UploadStore) ListUploads(ctx context.Context, firmID string, limit int) ([]models.UploadSummary, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("listing uploads: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	rows, err := tx.Query(ctx, `
		SELECT id, filename, mime_type, status, created_at
		FROM uploads WHERE firm_id = $1
		ORDER BY created_at DESC LIMIT $2`,
		firmID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying uploads: %w", err)
	}
	defer rows.Close()

	uploads := make([]models.UploadSummary, 0, 32)

	for rows.Next() {
		var u models.UploadSummary
		if err := rows.Scan(&u.ID, &u.Filename, &u.MimeType, &u.Status, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning upload row: %w", err)
		}

		uploads = append(uploads, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating uploads: %w", err)
	}

	return uploads, nil
}
