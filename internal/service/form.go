package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/audit"
	"github.com/lexintake/lexintake/internal/domain"
	"github.com/lexintake/lexintake/internal/models"
)

// Compile-time check: *FormService must satisfy domain.FormService.
var _ domain.FormService = (*FormService)(nil)

// FormService manages a firm's published intake forms.
type FormService struct {
	forms domain.FormStore
	trail *audit.Trail
	log   *logrus.Logger
}

// NewFormService creates a FormService.
func NewFormService(forms domain.FormStore, trail *audit.Trail, log *logrus.Logger) *FormService {
	return &FormService{forms: forms, trail: trail, log: log}
}

// CreateForm publishes a new intake form under the firm.
func (s *FormService) CreateForm(ctx context.Context, firmID, slug string, retentionDays int) (*models.Form, error) {
	form, err := s.forms.CreateForm(ctx, firmID, slug, retentionDays)
	if err != nil {
		return nil, err
	}

	s.trail.Record("form.created", firmID, "system", "form", form.ID, map[string]any{
		"slug":           form.Slug,
		"retention_days": form.RetentionDays,
	})

	return form, nil
}

// GetFormBySlug returns a form by its firm-unique slug (pass-through).
func (s *FormService) GetFormBySlug(ctx context.Context, firmID, slug string) (*models.Form, error) {
	return s.forms.GetFormBySlug(ctx, firmID, slug)
}

// ListForms returns the firm's forms (pass-through).
func (s *FormService) ListForms(ctx context.Context, firmID string) ([]models.Form, error) {
	return s.forms.ListForms(ctx, firmID)
}
