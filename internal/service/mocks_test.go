package service

import (
	"context"
	"sync"

	"github.com/lexintake/lexintake/internal/models"
)

// mockIntakeStore records calls and returns configured responses.
type mockIntakeStore struct {
	mu    sync.Mutex
	calls []string

	createIntake  func(ctx context.Context, firmID string, in *models.Intake) (*models.Intake, error)
	getIntake     func(ctx context.Context, firmID, id string) (*models.Intake, error)
	listIntakes   func(ctx context.Context, firmID string, f models.IntakeFilter) ([]models.Intake, error)
	updateSummary func(ctx context.Context, firmID, id, summary string) (*models.Intake, error)
	updateStatus  func(ctx context.Context, firmID, id string, status models.IntakeStatus) (*models.Intake, error)
}

func (m *mockIntakeStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockIntakeStore) CreateIntake(ctx context.Context, firmID string, in *models.Intake) (*models.Intake, error) {
	m.record("CreateIntake")
	return m.createIntake(ctx, firmID, in)
}

func (m *mockIntakeStore) GetIntake(ctx context.Context, firmID, id string) (*models.Intake, error) {
	m.record("GetIntake")
	return m.getIntake(ctx, firmID, id)
}

func (m *mockIntakeStore) ListIntakes(ctx context.Context, firmID string, f models.IntakeFilter) ([]models.Intake, error) {
	m.record("ListIntakes")
	return m.listIntakes(ctx, firmID, f)
}

func (m *mockIntakeStore) UpdateSummary(ctx context.Context, firmID, id, summary string) (*models.Intake, error) {
	m.record("UpdateSummary")
	return m.updateSummary(ctx, firmID, id, summary)
}

func (m *mockIntakeStore) UpdateStatus(ctx context.Context, firmID, id string, status models.IntakeStatus) (*models.Intake, error) {
	m.record("UpdateStatus")
	return m.updateStatus(ctx, firmID, id, status)
}

// mockUploadStore records calls and returns configured responses.
type mockUploadStore struct {
	mu    sync.Mutex
	calls []string

	createUpload     func(ctx context.Context, firmID string, u *models.Upload) (*models.Upload, error)
	setExtractedText func(ctx context.Context, firmID, id, text string) error
	completeUpload   func(ctx context.Context, firmID, id string, enrichment *models.EnrichmentResult, limitation *models.LimitationResult, aiSkipped bool) (*models.Upload, error)
	getUpload        func(ctx context.Context, firmID, id string) (*models.Upload, error)
	listUploads      func(ctx context.Context, firmID string, limit int) ([]models.UploadSummary, error)
}

func (m *mockUploadStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockUploadStore) CreateUpload(ctx context.Context, firmID string, u *models.Upload) (*models.Upload, error) {
	m.record("CreateUpload")
	return m.createUpload(ctx, firmID, u)
}

func (m *mockUploadStore) SetExtractedText(ctx context.Context, firmID, id, text string) error {
	m.record("SetExtractedText")
	return m.setExtractedText(ctx, firmID, id, text)
}

func (m *mockUploadStore) CompleteUpload(
	ctx context.Context, firmID, id string,
	enrichment *models.EnrichmentResult, limitation *models.LimitationResult, aiSkipped bool,
) (*models.Upload, error) {
	m.record("CompleteUpload")
	return m.completeUpload(ctx, firmID, id, enrichment, limitation, aiSkipped)
}

func (m *mockUploadStore) GetUpload(ctx context.Context, firmID, id string) (*models.Upload, error) {
	m.record("GetUpload")
	return m.getUpload(ctx, firmID, id)
}

func (m *mockUploadStore) ListUploads(ctx context.Context, firmID string, limit int) ([]models.UploadSummary, error) {
	m.record("ListUploads")
	return m.listUploads(ctx, firmID, limit)
}

// mockFormStore records calls and returns configured responses.
type mockFormStore struct {
	mu    sync.Mutex
	calls []string

	createForm    func(ctx context.Context, firmID, slug string, retentionDays int) (*models.Form, error)
	getFormBySlug func(ctx context.Context, firmID, slug string) (*models.Form, error)
	getForm       func(ctx context.Context, firmID, id string) (*models.Form, error)
	listForms     func(ctx context.Context, firmID string) ([]models.Form, error)
}

func (m *mockFormStore) record(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, name)
}

func (m *mockFormStore) CreateForm(ctx context.Context, firmID, slug string, retentionDays int) (*models.Form, error) {
	m.record("CreateForm")
	return m.createForm(ctx, firmID, slug, retentionDays)
}

func (m *mockFormStore) GetFormBySlug(ctx context.Context, firmID, slug string) (*models.Form, error) {
	m.record("GetFormBySlug")
	return m.getFormBySlug(ctx, firmID, slug)
}

func (m *mockFormStore) GetForm(ctx context.Context, firmID, id string) (*models.Form, error) {
	m.record("GetForm")
	return m.getForm(ctx, firmID, id)
}

func (m *mockFormStore) ListForms(ctx context.Context, firmID string) ([]models.Form, error) {
	m.record("ListForms")
	return m.listForms(ctx, firmID)
}

// mockPublisher captures published intake events.
type mockPublisher struct {
	mu        sync.Mutex
	published []string
}

func (m *mockPublisher) PublishIntake(firmID string, in *models.Intake) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, firmID+"/"+in.ID)
}
