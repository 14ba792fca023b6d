package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/audit"
	"github.com/lexintake/lexintake/internal/consent"
	"github.com/lexintake/lexintake/internal/domain"
	"github.com/lexintake/lexintake/internal/enrich"
	"github.com/lexintake/lexintake/internal/metrics"
	"github.com/lexintake/lexintake/internal/models"
	"github.com/lexintake/lexintake/internal/redact"
	"github.com/lexintake/lexintake/internal/sol"
)

// Compile-time check: *UploadService must satisfy domain.UploadService.
var _ domain.UploadService = (*UploadService)(nil)

// UploadService runs uploaded-document text through the same pipeline
// stages as narratives. The document binary never reaches this service;
// text extraction happens upstream.
type UploadService struct {
	uploads      domain.UploadStore
	gate         *consent.Gate
	enricher     *enrich.Adapter
	calculator   *sol.Calculator
	trail        *audit.Trail
	jurisdiction string
	ruleVersion  string
	log          *logrus.Logger
	now          func() time.Time
}

// NewUploadService creates an UploadService.
func NewUploadService(
	uploads domain.UploadStore,
	gate *consent.Gate,
	enricher *enrich.Adapter,
	calculator *sol.Calculator,
	trail *audit.Trail,
	jurisdiction, ruleVersion string,
	log *logrus.Logger,
) *UploadService {
	return &UploadService{
		uploads:      uploads,
		gate:         gate,
		enricher:     enricher,
		calculator:   calculator,
		trail:        trail,
		jurisdiction: jurisdiction,
		ruleVersion:  ruleVersion,
		log:          log,
		now:          time.Now,
	}
}

// CreateUpload registers a document, then redacts, enriches, and completes
// it. Each stage is persisted, so a crash mid-pipeline leaves the record
// at its last reached status instead of losing it. Documents carry no
// event date, so the limitation stage reports insufficient information
// rather than guessing an expiry.
func (s *UploadService) CreateUpload(
	ctx context.Context, firmID string, req models.CreateUploadRequest,
) (*models.Upload, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	draft := &models.Upload{
		ID:        uuid.NewString(),
		Filename:  req.Filename,
		MimeType:  req.MimeType,
		Size:      req.Size,
		Status:    models.UploadStatusUploaded,
		CreatedAt: s.now().UTC(),
	}

	created, err := s.uploads.CreateUpload(ctx, firmID, draft)
	if err != nil {
		return nil, err
	}

	s.trail.Record("upload.created", firmID, "system", "upload", created.ID, map[string]any{
		"filename":  created.Filename,
		"mime_type": created.MimeType,
		"size":      created.Size,
	})

	red := redact.Redact(req.Text)
	if err := s.uploads.SetExtractedText(ctx, firmID, created.ID, red.RedactedText); err != nil {
		return nil, err
	}

	var enrichment *models.EnrichmentResult
	aiSkipped := false

	if s.gate.IsConsented(ctx, firmID) {
		enrichment = s.enricher.Enrich(ctx, red.RedactedText, len(red.Tokens))
		metrics.EnrichmentsTotal.WithLabelValues(enrichment.Provenance.Source).Inc()
	} else {
		aiSkipped = true
		metrics.EnrichmentsTotal.WithLabelValues("skipped").Inc()
	}

	classification := ""
	if enrichment != nil {
		classification = enrichment.Classification
	}

	limitation := s.calculator.Compute(classification, "", s.jurisdiction, s.ruleVersion)

	stored, err := s.uploads.CompleteUpload(ctx, firmID, created.ID, enrichment, &limitation, aiSkipped)
	if err != nil {
		return nil, err
	}

	s.trail.Record("upload.processed", firmID, "system", "upload", stored.ID, map[string]any{
		"filename":   stored.Filename,
		"ai_skipped": stored.AISkipped,
		"redactions": len(red.Tokens),
	})

	return stored, nil
}

// GetUpload returns a single upload by ID (pass-through).
func (s *UploadService) GetUpload(ctx context.Context, firmID, uploadID string) (*models.Upload, error) {
	return s.uploads.GetUpload(ctx, firmID, uploadID)
}

// ListUploads returns the firm's uploads as summaries (pass-through).
func (s *UploadService) ListUploads(ctx context.Context, firmID string, limit int) ([]models.UploadSummary, error) {
	return s.uploads.ListUploads(ctx, firmID, limit)
}
