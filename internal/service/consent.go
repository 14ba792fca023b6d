package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/audit"
	"github.com/lexintake/lexintake/internal/consent"
	"github.com/lexintake/lexintake/internal/domain"
	"github.com/lexintake/lexintake/internal/models"
)

// Compile-time check: *ConsentService must satisfy domain.ConsentService.
var _ domain.ConsentService = (*ConsentService)(nil)

// ConsentService exposes the firm's AI consent choice and audits changes.
type ConsentService struct {
	gate  *consent.Gate
	trail *audit.Trail
	log   *logrus.Logger
}

// NewConsentService creates a ConsentService.
func NewConsentService(gate *consent.Gate, trail *audit.Trail, log *logrus.Logger) *ConsentService {
	return &ConsentService{gate: gate, trail: trail, log: log}
}

// GetConsent returns the firm's consent record, defaulting to allowed
// when the firm has never made a choice.
func (s *ConsentService) GetConsent(ctx context.Context, firmID string) (*models.ConsentRecord, error) {
	return s.gate.GetConsent(ctx, firmID), nil
}

// SetConsent records the firm's consent choice.
func (s *ConsentService) SetConsent(ctx context.Context, firmID, actorID string, allowed bool) (*models.ConsentRecord, error) {
	if err := s.gate.SetConsent(ctx, firmID, allowed); err != nil {
		return nil, err
	}

	s.trail.Record("consent.changed", firmID, actorID, "firm", firmID, map[string]any{
		"allowed": allowed,
	})

	return s.gate.GetConsent(ctx, firmID), nil
}
