// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"strings"
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

// Compile-time check: *IntakeService must satisfy domain.IntakeService.
var _ domain.IntakeService = (*IntakeService)(nil)

// EventPublisher pushes pipeline events to connected dashboards.
// Fire-and-forget; a nil publisher disables live events.
type EventPublisher interface {
	PublishIntake(firmID string, in *models.Intake)
}

// IntakeService runs the intake pipeline: consent gate, PII redaction,
// enrichment, limitation calculation, persistence, audit.
type IntakeService struct {
	intakes      domain.IntakeStore
	forms        domain.FormStore
	gate         *consent.Gate
	enricher     *enrich.Adapter
	calculator   *sol.Calculator
	trail        *audit.Trail
	events       EventPublisher
	jurisdiction string
	ruleVersion  string
	log          *logrus.Logger
	now          func() time.Time
}

// NewIntakeService creates an IntakeService.
func NewIntakeService(
	intakes domain.IntakeStore,
	forms domain.FormStore,
	gate *consent.Gate,
	enricher *enrich.Adapter,
	calculator *sol.Calculator,
	trail *audit.Trail,
	events EventPublisher,
	jurisdiction, ruleVersion string,
	log *logrus.Logger,
) *IntakeService {
	return &IntakeService{
		intakes:      intakes,
		forms:        forms,
		gate:         gate,
		enricher:     enricher,
		calculator:   calculator,
		trail:        trail,
		events:       events,
		jurisdiction: jurisdiction,
		ruleVersion:  ruleVersion,
		log:          log,
		now:          time.Now,
	}
}

// process runs the shared pipeline stages on a draft intake and persists it.
// The draft's Narrative still contains raw PII on entry; it is stored
// redacted and the raw text never leaves this method.
func (s *IntakeService) process(ctx context.Context, firmID string, draft *models.Intake) (*models.Intake, error) {
	consented := s.gate.IsConsented(ctx, firmID)

	red := redact.Redact(draft.Narrative)
	draft.Narrative = red.RedactedText

	if consented {
		draft.Enrichment = s.enricher.Enrich(ctx, red.RedactedText, len(red.Tokens))
		metrics.EnrichmentsTotal.WithLabelValues(draft.Enrichment.Provenance.Source).Inc()
	} else {
		draft.AISkipped = true
		metrics.EnrichmentsTotal.WithLabelValues("skipped").Inc()
	}

	// A claim type stated by the client takes priority over the AI
	// classification, and still drives the deadline when enrichment is
	// skipped for lack of consent.
	claimBasis := draft.ClaimType
	if claimBasis == "" && draft.Enrichment != nil {
		claimBasis = draft.Enrichment.Classification
	}

	limitation := s.calculator.Compute(claimBasis, draft.EventDate, s.jurisdiction, s.ruleVersion)
	draft.Limitation = &limitation

	stored, err := s.intakes.CreateIntake(ctx, firmID, draft)
	if err != nil {
		return nil, err
	}

	metrics.IntakesTotal.WithLabelValues(stored.Channel).Inc()

	s.trail.Record("intake.created", firmID, "system", "intake", stored.ID, map[string]any{
		"channel":    stored.Channel,
		"ai_skipped": stored.AISkipped,
		"badge":      string(limitation.Badge),
		"redactions": len(red.Tokens),
	})

	if s.events != nil {
		s.events.PublishIntake(firmID, stored)
	}

	return stored, nil
}

// SubmitIntake processes a public web-form submission against a published form.
func (s *IntakeService) SubmitIntake(
	ctx context.Context, firmID, formSlug string, req models.SubmitIntakeRequest,
) (*models.Intake, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	form, err := s.forms.GetFormBySlug(ctx, firmID, formSlug)
	if err != nil {
		return nil, err
	}

	if !form.Published {
		return nil, models.ErrFormNotFound
	}

	draft := &models.Intake{
		ID:         uuid.NewString(),
		FormID:     form.ID,
		Slug:       form.Slug,
		Channel:    models.ChannelWeb,
		ClientName: strings.TrimSpace(req.Client.FirstName + " " + req.Client.LastName),
		Contact: models.Contact{
			Email:    req.Client.Email,
			Phone:    req.Client.Phone,
			Location: req.Case.Location,
		},
		Narrative: req.Case.Narrative,
		ClaimType: strings.TrimSpace(req.Case.ClaimType),
		EventDate: req.Case.EventDate,
		Consent:   req.Consent.GDPR,
		Status:    models.IntakeStatusNew,
		CreatedAt: s.now().UTC(),
	}

	return s.process(ctx, firmID, draft)
}

// SubmitEmailIntake processes an inbound email delivered by the mail
// gateway. The sender's address doubles as the client identity; attachment
// contents never pass through this endpoint, only their names.
func (s *IntakeService) SubmitEmailIntake(
	ctx context.Context, firmID string, req models.EmailIntakeRequest,
) (*models.Intake, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	narrative := req.BodyText
	if req.Subject != "" {
		narrative = req.Subject + "\n\n" + req.BodyText
	}

	draft := &models.Intake{
		ID:         uuid.NewString(),
		Slug:       models.ChannelEmail,
		Channel:    models.ChannelEmail,
		ClientName: clientNameFromEmail(req.FromEmail),
		Contact:    models.Contact{Email: req.FromEmail},
		Narrative:  narrative,
		Consent:    true,
		Status:     models.IntakeStatusNew,
		CreatedAt:  s.now().UTC(),
	}

	stored, err := s.process(ctx, firmID, draft)
	if err != nil {
		return nil, err
	}

	if len(req.Attachments) > 0 {
		names := make([]string, 0, len(req.Attachments))
		for _, a := range req.Attachments {
			names = append(names, a.Filename)
		}

		s.trail.Record("intake.attachments_received", firmID, "system", "intake", stored.ID, map[string]any{
			"count":     len(names),
			"filenames": names,
		})
	}

	return stored, nil
}

// clientNameFromEmail derives a display name from the address local part.
func clientNameFromEmail(addr string) string {
	local, _, found := strings.Cut(addr, "@")
	if !found || local == "" {
		return addr
	}

	return local
}

// SubmitVoiceIntake processes a call transcript produced by the external
// transcription service.
func (s *IntakeService) SubmitVoiceIntake(
	ctx context.Context, firmID string, req models.VoiceIntakeRequest,
) (*models.Intake, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	callerName := req.CallerName
	if callerName == "" {
		callerName = "Unknown caller"
	}

	draft := &models.Intake{
		ID:         uuid.NewString(),
		Slug:       models.ChannelVoice,
		Channel:    models.ChannelVoice,
		ClientName: callerName,
		Narrative:  req.Transcript,
		Consent:    true,
		Status:     models.IntakeStatusNew,
		CreatedAt:  s.now().UTC(),
	}

	return s.process(ctx, firmID, draft)
}

// GetIntake returns a single intake by ID (pass-through).
func (s *IntakeService) GetIntake(ctx context.Context, firmID, intakeID string) (*models.Intake, error) {
	return s.intakes.GetIntake(ctx, firmID, intakeID)
}

// ListIntakes returns the firm's intakes with dashboard filters (pass-through).
func (s *IntakeService) ListIntakes(ctx context.Context, firmID string, filter models.IntakeFilter) ([]models.Intake, error) {
	return s.intakes.ListIntakes(ctx, firmID, filter)
}

// UpdateSummary applies a solicitor's edit to the enrichment summary.
func (s *IntakeService) UpdateSummary(
	ctx context.Context, firmID, intakeID, actorID string, req models.UpdateSummaryRequest,
) (*models.Intake, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	in, err := s.intakes.UpdateSummary(ctx, firmID, intakeID, req.Summary)
	if err != nil {
		return nil, err
	}

	s.trail.Record("intake.summary_edited", firmID, actorID, "intake", intakeID, nil)

	return in, nil
}

// UpdateStatus moves an intake through its lifecycle.
func (s *IntakeService) UpdateStatus(
	ctx context.Context, firmID, intakeID, actorID string, req models.UpdateStatusRequest,
) (*models.Intake, error) {
	if !models.ValidStatus(req.Status) {
		return nil, models.ErrInvalidStatus
	}

	in, err := s.intakes.UpdateStatus(ctx, firmID, intakeID, req.Status)
	if err != nil {
		return nil, err
	}

	s.trail.Record("intake.status_changed", firmID, actorID, "intake", intakeID, map[string]any{
		"status": string(req.Status),
	})

	return in, nil
}

// ExportIntake returns the full intake for export, refusing records that
// have outlived their form's retention policy.
func (s *IntakeService) ExportIntake(ctx context.Context, firmID, intakeID string) (*models.Intake, error) {
	in, err := s.intakes.GetIntake(ctx, firmID, intakeID)
	if err != nil {
		return nil, err
	}

	retention := models.DefaultRetentionDays
	if in.FormID != "" {
		form, err := s.forms.GetForm(ctx, firmID, in.FormID)
		if err == nil {
			retention = form.RetentionDays
		}
	}

	if s.now().UTC().After(in.CreatedAt.AddDate(0, 0, retention)) {
		return nil, models.ErrRetentionExpired
	}

	s.trail.Record("intake.exported", firmID, "system", "intake", intakeID, nil)

	return in, nil
}
