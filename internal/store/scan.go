package store

import (
	"encoding/json"
	"fmt"

	"github.com/lexintake/lexintake/internal/models"
)

// intakeColumns lists the columns selected for intake queries.
const intakeColumns = `id, form_id, firm_id, slug, channel, client_name,
	contact, narrative, claim_type, event_date, consent, enrichment,
	limitation, ai_skipped, status, created_at`

// uploadColumns lists the columns selected for upload queries.
const uploadColumns = `id, firm_id, filename, mime_type, size,
	extracted_text, enrichment, limitation, ai_skipped, status, created_at`

// formColumns lists the columns selected for form queries.
const formColumns = `id, firm_id, slug, published, retention_days, created_at, updated_at`

// scanIntake scans a single row into a models.Intake. The contact column
// is returned raw; callers decrypt it via decryptContact.
func scanIntake(scan func(dest ...any) error) (*models.Intake, []byte, error) {
	var in models.Intake
	var contact []byte
	var formID, claimType, eventDate *string
	var enrichment, limitation []byte

	err := scan(
		&in.ID,
		&formID,
		&in.FirmID,
		&in.Slug,
		&in.Channel,
		&in.ClientName,
		&contact,
		&in.Narrative,
		&claimType,
		&eventDate,
		&in.Consent,
		&enrichment,
		&limitation,
		&in.AISkipped,
		&in.Status,
		&in.CreatedAt,
	)
	if err != nil {
		return nil, nil, err
	}

	if formID != nil {
		in.FormID = *formID
	}

	if claimType != nil {
		in.ClaimType = *claimType
	}

	if eventDate != nil {
		in.EventDate = *eventDate
	}

	if len(enrichment) > 0 {
		if err := json.Unmarshal(enrichment, &in.Enrichment); err != nil {
			return nil, nil, fmt.Errorf("unmarshalling intake enrichment: %w", err)
		}
	}

	if len(limitation) > 0 {
		if err := json.Unmarshal(limitation, &in.Limitation); err != nil {
			return nil, nil, fmt.Errorf("unmarshalling intake limitation: %w", err)
		}
	}

	return &in, contact, nil
}

// scanUpload scans a single row into a models.Upload.
func scanUpload(scan func(dest ...any) error) (*models.Upload, error) {
	var u models.Upload
	var enrichment, limitation []byte

	err := scan(
		&u.ID,
		&u.FirmID,
		&u.Filename,
		&u.MimeType,
		&u.Size,
		&u.ExtractedText,
		&enrichment,
		&limitation,
		&u.AISkipped,
		&u.Status,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(enrichment) > 0 {
		if err := json.Unmarshal(enrichment, &u.Enrichment); err != nil {
			return nil, fmt.Errorf("unmarshalling upload enrichment: %w", err)
		}
	}

	if len(limitation) > 0 {
		if err := json.Unmarshal(limitation, &u.Limitation); err != nil {
			return nil, fmt.Errorf("unmarshalling upload limitation: %w", err)
		}
	}

	return &u, nil
}

// scanForm scans a single row into a models.Form.
func scanForm(scan func(dest ...any) error) (*models.Form, error) {
	var f models.Form

	err := scan(
		&f.ID,
		&f.FirmID,
		&f.Slug,
		&f.Published,
		&f.RetentionDays,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &f, nil
}

// marshalPipelineResults marshals the enrichment and limitation columns,
// preserving SQL NULL when a stage produced no result.
func marshalPipelineResults(enrichment *models.EnrichmentResult, limitation *models.LimitationResult) (enrichJSON, limitJSON []byte, err error) {
	if enrichment != nil {
		enrichJSON, err = json.Marshal(enrichment)
		if err != nil {
			return nil, nil, fmt.Errorf("marshalling enrichment: %w", err)
		}
	}

	if limitation != nil {
		limitJSON, err = json.Marshal(limitation)
		if err != nil {
			return nil, nil, fmt.Errorf("marshalling limitation: %w", err)
		}
	}

	return enrichJSON, limitJSON, nil
}
