package api_test

import (
	"context"

	"github.com/lexintake/lexintake/internal/models"
)

// mockIntakeRepo implements api.IntakeRepository with function fields.
type mockIntakeRepo struct {
	submitFn        func(ctx context.Context, firmID, formSlug string, req models.SubmitIntakeRequest) (*models.Intake, error)
	submitEmailFn   func(ctx context.Context, firmID string, req models.EmailIntakeRequest) (*models.Intake, error)
	submitVoiceFn   func(ctx context.Context, firmID string, req models.VoiceIntakeRequest) (*models.Intake, error)
	getFn           func(ctx context.Context, firmID, intakeID string) (*models.Intake, error)
	listFn          func(ctx context.Context, firmID string, filter models.IntakeFilter) ([]models.Intake, error)
	updateSummaryFn func(ctx context.Context, firmID, intakeID, actorID string, req models.UpdateSummaryRequest) (*models.Intake, error)
	updateStatusFn  func(ctx context.Context, firmID, intakeID, actorID string, req models.UpdateStatusRequest) (*models.Intake, error)
	exportFn        func(ctx context.Context, firmID, intakeID string) (*models.Intake, error)
}

func (m *mockIntakeRepo) SubmitIntake(ctx context.Context, firmID, formSlug string, req models.SubmitIntakeRequest) (*models.Intake, error) {
	return m.submitFn(ctx, firmID, formSlug, req)
}

func (m *mockIntakeRepo) SubmitEmailIntake(ctx context.Context, firmID string, req models.EmailIntakeRequest) (*models.Intake, error) {
	return m.submitEmailFn(ctx, firmID, req)
}

func (m *mockIntakeRepo) SubmitVoiceIntake(ctx context.Context, firmID string, req models.VoiceIntakeRequest) (*models.Intake, error) {
	return m.submitVoiceFn(ctx, firmID, req)
}

func (m *mockIntakeRepo) GetIntake(ctx context.Context, firmID, intakeID string) (*models.Intake, error) {
	return m.getFn(ctx, firmID, intakeID)
}

func (m *mockIntakeRepo) ListIntakes(ctx context.Context, firmID string, filter models.IntakeFilter) ([]models.Intake, error) {
	return m.listFn(ctx, firmID, filter)
}

func (m *mockIntakeRepo) UpdateSummary(ctx context.Context, firmID, intakeID, actorID string, req models.UpdateSummaryRequest) (*models.Intake, error) {
	return m.updateSummaryFn(ctx, firmID, intakeID, actorID, req)
}

func (m *mockIntakeRepo) UpdateStatus(ctx context.Context, firmID, intakeID, actorID string, req models.UpdateStatusRequest) (*models.Intake, error) {
	return m.updateStatusFn(ctx, firmID, intakeID, actorID, req)
}

func (m *mockIntakeRepo) ExportIntake(ctx context.Context, firmID, intakeID string) (*models.Intake, error) {
	return m.exportFn(ctx, firmID, intakeID)
}

// mockUploadRepo implements api.UploadRepository.
type mockUploadRepo struct {
	createFn func(ctx context.Context, firmID string, req models.CreateUploadRequest) (*models.Upload, error)
	getFn    func(ctx context.Context, firmID, uploadID string) (*models.Upload, error)
	listFn   func(ctx context.Context, firmID string, limit int) ([]models.UploadSummary, error)
}

func (m *mockUploadRepo) CreateUpload(ctx context.Context, firmID string, req models.CreateUploadRequest) (*models.Upload, error) {
	return m.createFn(ctx, firmID, req)
}

func (m *mockUploadRepo) GetUpload(ctx context.Context, firmID, uploadID string) (*models.Upload, error) {
	return m.getFn(ctx, firmID, uploadID)
}

func (m *mockUploadRepo) ListUploads(ctx context.Context, firmID string, limit int) ([]models.UploadSummary, error) {
	return m.listFn(ctx, firmID, limit)
}

// mockFormRepo implements api.FormRepository.
type mockFormRepo struct {
	createFn    func(ctx context.Context, firmID, slug string, retentionDays int) (*models.Form, error)
	getBySlugFn func(ctx context.Context, firmID, slug string) (*models.Form, error)
	listFn      func(ctx context.Context, firmID string) ([]models.Form, error)
}

func (m *mockFormRepo) CreateForm(ctx context.Context, firmID, slug string, retentionDays int) (*models.Form, error) {
	return m.createFn(ctx, firmID, slug, retentionDays)
}

func (m *mockFormRepo) GetFormBySlug(ctx context.Context, firmID, slug string) (*models.Form, error) {
	return m.getBySlugFn(ctx, firmID, slug)
}

func (m *mockFormRepo) ListForms(ctx context.Context, firmID string) ([]models.Form, error) {
	return m.listFn(ctx, firmID)
}

// mockConsentRepo implements api.ConsentRepository.
type mockConsentRepo struct {
	getFn func(ctx context.Context, firmID string) (*models.ConsentRecord, error)
	setFn func(ctx context.Context, firmID, actorID string, allowed bool) (*models.ConsentRecord, error)
}

func (m *mockConsentRepo) GetConsent(ctx context.Context, firmID string) (*models.ConsentRecord, error) {
	return m.getFn(ctx, firmID)
}

func (m *mockConsentRepo) SetConsent(ctx context.Context, firmID, actorID string, allowed bool) (*models.ConsentRecord, error) {
	return m.setFn(ctx, firmID, actorID, allowed)
}

// mockAuditRepo implements api.AuditRepository.
type mockAuditRepo struct {
	queryFn  func(ctx context.Context, firmID string, opts models.AuditQueryOpts) ([]models.AuditEvent, bool, error)
	recentFn func(firmID string, n int) []models.AuditEvent
}

func (m *mockAuditRepo) QueryAudit(ctx context.Context, firmID string, opts models.AuditQueryOpts) ([]models.AuditEvent, bool, error) {
	return m.queryFn(ctx, firmID, opts)
}

func (m *mockAuditRepo) RecentAudit(firmID string, n int) []models.AuditEvent {
	return m.recentFn(firmID, n)
}
