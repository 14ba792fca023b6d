// Package domain defines the canonical service and store interfaces shared
// across API layers (REST, client, CLI). Consumers should depend on these
// interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/lexintake/lexintake/internal/models"
)

// IntakeService defines the intake pipeline and dashboard operations.
type IntakeService interface {
	SubmitIntake(ctx context.Context, firmID, formSlug string, req models.SubmitIntakeRequest) (*models.Intake, error)
	SubmitEmailIntake(ctx context.Context, firmID string, req models.EmailIntakeRequest) (*models.Intake, error)
	SubmitVoiceIntake(ctx context.Context, firmID string, req models.VoiceIntakeRequest) (*models.Intake, error)
	GetIntake(ctx context.Context, firmID, intakeID string) (*models.Intake, error)
	ListIntakes(ctx context.Context, firmID string, filter models.IntakeFilter) ([]models.Intake, error)
	UpdateSummary(ctx context.Context, firmID, intakeID, actorID string, req models.UpdateSummaryRequest) (*models.Intake, error)
	UpdateStatus(ctx context.Context, firmID, intakeID, actorID string, req models.UpdateStatusRequest) (*models.Intake, error)
	ExportIntake(ctx context.Context, firmID, intakeID string) (*models.Intake, error)
}

// UploadService defines document intake operations. Documents arrive with
// their text already extracted upstream; the pipeline treats that text like
// a narrative.
type UploadService interface {
	CreateUpload(ctx context.Context, firmID string, req models.CreateUploadRequest) (*models.Upload, error)
	GetUpload(ctx context.Context, firmID, uploadID string) (*models.Upload, error)
	ListUploads(ctx context.Context, firmID string, limit int) ([]models.UploadSummary, error)
}

// FormService defines intake form management.
type FormService interface {
	CreateForm(ctx context.Context, firmID, slug string, retentionDays int) (*models.Form, error)
	GetFormBySlug(ctx context.Context, firmID, slug string) (*models.Form, error)
	ListForms(ctx context.Context, firmID string) ([]models.Form, error)
}

// ConsentService defines the per-firm AI consent surface.
type ConsentService interface {
	GetConsent(ctx context.Context, firmID string) (*models.ConsentRecord, error)
	SetConsent(ctx context.Context, firmID, actorID string, allowed bool) (*models.ConsentRecord, error)
}

// AuditService defines audit trail queries.
type AuditService interface {
	QueryAudit(ctx context.Context, firmID string, opts models.AuditQueryOpts) ([]models.AuditEvent, bool, error)
	RecentAudit(firmID string, n int) []models.AuditEvent
}

// FirmResolver maps API keys to firm IDs. Backed by the firms table or the
// in-memory key table in DB-less mode.
type FirmResolver interface {
	GetFirmByAPIKey(ctx context.Context, apiKey string) (string, error)
}

// IntakeStore is the persistence contract the intake service depends on.
type IntakeStore interface {
	CreateIntake(ctx context.Context, firmID string, in *models.Intake) (*models.Intake, error)
	GetIntake(ctx context.Context, firmID, id string) (*models.Intake, error)
	ListIntakes(ctx context.Context, firmID string, f models.IntakeFilter) ([]models.Intake, error)
	UpdateSummary(ctx context.Context, firmID, id, summary string) (*models.Intake, error)
	UpdateStatus(ctx context.Context, firmID, id string, status models.IntakeStatus) (*models.Intake, error)
}

// UploadStore is the persistence contract the upload service depends on.
type UploadStore interface {
	CreateUpload(ctx context.Context, firmID string, u *models.Upload) (*models.Upload, error)
	SetExtractedText(ctx context.Context, firmID, id, text string) error
	CompleteUpload(ctx context.Context, firmID, id string, enrichment *models.EnrichmentResult, limitation *models.LimitationResult, aiSkipped bool) (*models.Upload, error)
	GetUpload(ctx context.Context, firmID, id string) (*models.Upload, error)
	ListUploads(ctx context.Context, firmID string, limit int) ([]models.UploadSummary, error)
}

// FormStore is the persistence contract for intake forms.
type FormStore interface {
	CreateForm(ctx context.Context, firmID, slug string, retentionDays int) (*models.Form, error)
	GetFormBySlug(ctx context.Context, firmID, slug string) (*models.Form, error)
	GetForm(ctx context.Context, firmID, id string) (*models.Form, error)
	ListForms(ctx context.Context, firmID string) ([]models.Form, error)
}

// AuditQueryStore is the durable side of the audit trail.
type AuditQueryStore interface {
	QueryAudit(ctx context.Context, firmID string, opts models.AuditQueryOpts) ([]models.AuditEvent, bool, error)
}
