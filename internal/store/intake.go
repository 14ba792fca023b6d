package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/lexintake/lexintake/internal/models"
)

// IntakeStore handles intake persistence and dashboard reads.
type IntakeStore struct {
	Base
}

// NewIntakeStore creates a new IntakeStore.
func NewIntakeStore(base Base) *IntakeStore {
	return &IntakeStore{Base: base}
}

// CreateIntake inserts a processed intake and returns the stored record.
// The firm on the stored row always comes from the resolved firm context;
// any firm value already on the intake is overwritten.
func (s *IntakeStore) CreateIntake(ctx context.Context, firmID string, in *models.Intake) (*models.Intake, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("creating intake: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	contactJSON, err := s.encryptContact(ctx, firmID, in.Contact)
	if err != nil {
		return nil, fmt.Errorf("preparing intake contact: %w", err)
	}

	enrichJSON, limitJSON, err := marshalPipelineResults(in.Enrichment, in.Limitation)
	if err != nil {
		return nil, err
	}

	var claimType *string
	if in.ClaimType != "" {
		claimType = &in.ClaimType
	}

	var eventDate *string
	if in.EventDate != "" {
		eventDate = &in.EventDate
	}

	// Email and voice intakes have no originating form.
	var formID *string
	if in.FormID != "" {
		formID = &in.FormID
	}

	query := `INSERT INTO intakes (id, form_id, firm_id, slug, channel, client_name,
			contact, narrative, claim_type, event_date, consent, enrichment, limitation, ai_skipped, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + intakeColumns

	row := tx.QueryRow(ctx, query,
		in.ID, formID, firmID, in.Slug, in.Channel, in.ClientName,
		contactJSON, in.Narrative, claimType, eventDate, in.Consent,
		enrichJSON, limitJSON, in.AISkipped, in.Status,
	)

	stored, rawContact, err := scanIntake(row.Scan)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created intake: %w", err)
	}

	stored.Contact, err = s.decryptContact(ctx, firmID, rawContact)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing create intake: %w", err)
	}

	s.notify("intakes", "insert", firmID)

	return stored, nil
}

// GetIntake fetches a single intake by ID within the firm scope.
func (s *IntakeStore) GetIntake(ctx context.Context, firmID, id string) (*models.Intake, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("fetching intake: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	query := `SELECT ` + intakeColumns + ` FROM intakes WHERE firm_id = $1 AND id = $2`

	row := tx.QueryRow(ctx, query, firmID, id)

	in, rawContact, err := scanIntake(row.Scan)
	if err != nil {
		return nil, mapLookupErr(err, models.ErrIntakeNotFound)
	}

	in.Contact, err = s.decryptContact(ctx, firmID, rawContact)
	if err != nil {
		return nil, err
	}

	return in, nil
}

// buildIntakeFilter builds the WHERE clause and args for ListIntakes.
// The firm predicate is always first; everything else is optional.
func buildIntakeFilter(firmID string, f models.IntakeFilter) (where string, args []any, nextArg int) {
	conditions := []string{"firm_id = $1"}
	args = append(args, firmID)
	argIdx := 2

	if f.Status != "" {
		conditions = append(conditions, "status = $"+strconv.Itoa(argIdx))
		args = append(args, f.Status)
		argIdx++
	}
	if f.Area != "" {
		conditions = append(conditions, "enrichment->>'classification' = $"+strconv.Itoa(argIdx))
		args = append(args, f.Area)
		argIdx++
	}
	if f.Urgency != "" {
		conditions = append(conditions, "limitation->>'badge' = $"+strconv.Itoa(argIdx))
		args = append(args, string(f.Urgency))
		argIdx++
	}
	if f.From != "" {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx)+"::date")
		args = append(args, f.From)
		argIdx++
	}
	if f.To != "" {
		conditions = append(conditions, "created_at < ($"+strconv.Itoa(argIdx)+"::date + INTERVAL '1 day')")
		args = append(args, f.To)
		argIdx++
	}

	return "WHERE " + strings.Join(conditions, " AND "), args, argIdx
}

// ListIntakes returns the firm's intakes, newest first, applying the
// dashboard filters.
func (s *IntakeStore) ListIntakes(ctx context.Context, firmID string, f models.IntakeFilter) ([]models.Intake, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("listing intakes: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	where, args, argIdx := buildIntakeFilter(firmID, f)

	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	query := fmt.Sprintf(
		"SELECT %s FROM intakes %s ORDER BY created_at DESC LIMIT $%d",
		intakeColumns, where, argIdx,
	)
	args = append(args, limit)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying intakes: %w", err)
	}
	defer rows.Close()

	intakes := make([]models.Intake, 0, 32)

	for rows.Next() {
		in, rawContact, err := scanIntake(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning intake row: %w", err)
		}

		in.Contact, err = s.decryptContact(ctx, firmID, rawContact)
		if err != nil {
			return nil, err
		}

		intakes = append(intakes, *in)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating intakes: %w", err)
	}

	return intakes, nil
}

// UpdateSummary replaces the enrichment summary on an intake.
func (s *IntakeStore) UpdateSummary(ctx context.Context, firmID, id, summary string) (*models.Intake, error) {
	return s.updateIntake(ctx, firmID, id,
		`UPDATE intakes
			SET enrichment = jsonb_set(COALESCE(enrichment, '{}'::jsonb), '{summary}', to_jsonb($3::text))
			WHERE firm_id = $1 AND id = $2
			RETURNING `+intakeColumns,
		summary)
}

// UpdateStatus moves an intake through its lifecycle.
func (s *IntakeStore) UpdateStatus(ctx context.Context, firmID, id string, status models.IntakeStatus) (*models.Intake, error) {
	return s.updateIntake(ctx, firmID, id,
		`UPDATE intakes SET status = $3 WHERE firm_id = $1 AND id = $2 RETURNING `+intakeColumns,
		status)
}

func (s *IntakeStore) updateIntake(ctx context.Context, firmID, id, query string, arg any) (*models.Intake, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, firmID)
	if err != nil {
		return nil, fmt.Errorf("updating intake: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	row := tx.QueryRow(ctx, query, firmID, id, arg)

	in, rawContact, err := scanIntake(row.Scan)
	if err != nil {
		return nil, mapLookupErr(err, models.ErrIntakeNotFound)
	}

	in.Contact, err = s.decryptContact(ctx, firmID, rawContact)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing intake update: %w", err)
	}

	s.notify("intakes", "update", firmID)

	return in, nil
}

// PurgeExpired deletes intakes older than their form's retention policy.
// Returns the number of rows removed. Intended for the retention sweep.
func (s *IntakeStore) PurgeExpired(ctx context.Context, firmID string) (int64, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, firmID)
	if err != nil {
		return 0, fmt.Errorf("purging intakes: %w", err)
	}

	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback after commit.

	tag, err := tx.Exec(ctx, `
		DELETE FROM intakes i
		USING forms f
		WHERE i.firm_id = $1
		  AND f.id = i.form_id
		  AND i.created_at < now() - make_interval(days => f.retention_days)`,
		firmID,
	)
	if err != nil {
		return 0, fmt.Errorf("deleting expired intakes: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("committing intake purge: %w", err)
	}

	return tag.RowsAffected(), nil
}
