package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lexintake/lexintake/internal/models"
)

// The memory stores back the service when no DATABASE_URL is configured.
// They enforce the same firm-scoping contract as the Postgres stores:
// writes stamp the resolved firm onto the record, and reads report
// cross-firm IDs as not found.

// MemoryIntakeStore is an in-process IntakeStore substitute.
type MemoryIntakeStore struct {
	mu      sync.RWMutex
	intakes map[string]models.Intake
}

// NewMemoryIntakeStore creates an empty in-memory intake store.
func NewMemoryIntakeStore() *MemoryIntakeStore {
	return &MemoryIntakeStore{intakes: make(map[string]models.Intake)}
}

// CreateIntake stores the intake under the resolved firm. Any firm value
// already on the record is overwritten.
func (s *MemoryIntakeStore) CreateIntake(_ context.Context, firmID string, in *models.Intake) (*models.Intake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.intakes[in.ID]; exists {
		return nil, models.ErrDuplicateKey
	}

	stored := *in
	stored.FirmID = firmID
	s.intakes[in.ID] = stored

	out := stored

	return &out, nil
}

// GetIntake fetches an intake by ID within the firm scope.
func (s *MemoryIntakeStore) GetIntake(_ context.Context, firmID, id string) (*models.Intake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	in, ok := s.intakes[id]
	if !ok || in.FirmID != firmID {
		return nil, models.ErrIntakeNotFound
	}

	out := in

	return &out, nil
}

func matchesFilter(in models.Intake, f models.IntakeFilter) bool {
	if f.Status != "" && in.Status != f.Status {
		return false
	}
	if f.Area != "" && (in.Enrichment == nil || in.Enrichment.Classification != f.Area) {
		return false
	}
	if f.Urgency != "" && (in.Limitation == nil || in.Limitation.Badge != f.Urgency) {
		return false
	}
	if f.From != "" {
		from, err := time.Parse("2006-01-02", f.From)
		if err == nil && in.CreatedAt.Before(from) {
			return false
		}
	}
	if f.To != "" {
		to, err := time.Parse("2006-01-02", f.To)
		if err == nil && !in.CreatedAt.Before(to.AddDate(0, 0, 1)) {
			return false
		}
	}

	return true
}

// ListIntakes returns the firm's intakes, newest first, applying the
// dashboard filters.
func (s *MemoryIntakeStore) ListIntakes(_ context.Context, firmID string, f models.IntakeFilter) ([]models.Intake, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	intakes := make([]models.Intake, 0, len(s.intakes))

	for _, in := range s.intakes {
		if in.FirmID != firmID || !matchesFilter(in, f) {
			continue
		}

		intakes = append(intakes, in)
	}

	sort.Slice(intakes, func(i, j int) bool {
		return intakes[i].CreatedAt.After(intakes[j].CreatedAt)
	})

	limit := f.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	if len(intakes) > limit {
		intakes = intakes[:limit]
	}

	return intakes, nil
}

// UpdateSummary replaces the enrichment summary on an intake.
func (s *MemoryIntakeStore) UpdateSummary(_ context.Context, firmID, id, summary string) (*models.Intake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intakes[id]
	if !ok || in.FirmID != firmID {
		return nil, models.ErrIntakeNotFound
	}

	if in.Enrichment == nil {
		in.Enrichment = &models.EnrichmentResult{}
	} else {
		enrichment := *in.Enrichment
		in.Enrichment = &enrichment
	}

	in.Enrichment.Summary = summary
	s.intakes[id] = in

	out := in

	return &out, nil
}

// UpdateStatus moves an intake through its lifecycle.
func (s *MemoryIntakeStore) UpdateStatus(_ context.Context, firmID, id string, status models.IntakeStatus) (*models.Intake, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	in, ok := s.intakes[id]
	if !ok || in.FirmID != firmID {
		return nil, models.ErrIntakeNotFound
	}

	in.Status = status
	s.intakes[id] = in

	out := in

	return &out, nil
}

// MemoryUploadStore is an in-process UploadStore substitute.
type MemoryUploadStore struct {
	mu      sync.RWMutex
	uploads map[string]models.Upload
}

// NewMemoryUploadStore creates an empty in-memory upload store.
func NewMemoryUploadStore() *MemoryUploadStore {
	return &MemoryUploadStore{uploads: make(map[string]models.Upload)}
}

// CreateUpload stores the upload under the resolved firm.
func (s *MemoryUploadStore) CreateUpload(_ context.Context, firmID string, u *models.Upload) (*models.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.uploads[u.ID]; exists {
		return nil, models.ErrDuplicateKey
	}

	stored := *u
	stored.FirmID = firmID
	s.uploads[u.ID] = stored

	out := stored

	return &out, nil
}

// SetExtractedText attaches the redacted text and marks the upload extracted.
func (s *MemoryUploadStore) SetExtractedText(_ context.Context, firmID, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.uploads[id]
	if !ok || u.FirmID != firmID {
		return models.ErrUploadNotFound
	}

	u.ExtractedText = text
	u.Status = models.UploadStatusExtracted
	s.uploads[id] = u

	return nil
}

// CompleteUpload attaches the pipeline results and marks the upload completed.
func (s *MemoryUploadStore) CompleteUpload(
	_ context.Context, firmID, id string,
	enrichment *models.EnrichmentResult, limitation *models.LimitationResult, aiSkipped bool,
) (*models.Upload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.uploads[id]
	if !ok || u.FirmID != firmID {
		return nil, models.ErrUploadNotFound
	}

	u.Enrichment = enrichment
	u.Limitation = limitation
	u.AISkipped = aiSkipped
	u.Status = models.UploadStatusCompleted
	s.uploads[id] = u

	out := u

	return &out, nil
}

// GetUpload fetches an upload by ID within the firm scope.
func (s *MemoryUploadStore) GetUpload(_ context.Context, firmID, id string) (*models.Upload, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.uploads[id]
	if !ok || u.FirmID != firmID {
		return nil, models.ErrUploadNotFound
	}

	out := u

	return &out, nil
}

// ListUploads returns the firm's uploads as summaries, newest first.
func (s *MemoryUploadStore) ListUploads(_ context.Context, firmID string, limit int) ([]models.UploadSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	uploads := make([]models.UploadSummary, 0, len(s.uploads))

	for _, u := range s.uploads {
		if u.FirmID != firmID {
			continue
		}

		uploads = append(uploads, models.UploadSummary{
			ID:        u.ID,
			Filename:  u.Filename,
			MimeType:  u.MimeType,
			Status:    u.Status,
			CreatedAt: u.CreatedAt,
		})
	}

	sort.Slice(uploads, func(i, j int) bool {
		return uploads[i].CreatedAt.After(uploads[j].CreatedAt)
	})

	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}

	if len(uploads) > limit {
		uploads = uploads[:limit]
	}

	return uploads, nil
}

// MemoryFormStore is an in-process FormStore substitute.
type MemoryFormStore struct {
	mu    sync.RWMutex
	forms map[string]models.Form
	now   func() time.Time
}

// NewMemoryFormStore creates an empty in-memory form store.
func NewMemoryFormStore() *MemoryFormStore {
	return &MemoryFormStore{forms: make(map[string]models.Form), now: time.Now}
}

// CreateForm publishes a new intake form under the firm. Slugs are unique
// per firm, not globally.
func (s *MemoryFormStore) CreateForm(_ context.Context, firmID, slug string, retentionDays int) (*models.Form, error) {
	if slug == "" {
		return nil, models.ErrMissingSlug
	}

	if retentionDays <= 0 {
		retentionDays = models.DefaultRetentionDays
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, f := range s.forms {
		if f.FirmID == firmID && f.Slug == slug {
			return nil, models.ErrDuplicateKey
		}
	}

	now := s.now().UTC()
	f := models.Form{
		ID:            uuid.NewString(),
		FirmID:        firmID,
		Slug:          slug,
		Published:     true,
		RetentionDays: retentionDays,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.forms[f.ID] = f

	out := f

	return &out, nil
}

// GetFormBySlug fetches a form by its firm-unique slug.
func (s *MemoryFormStore) GetFormBySlug(_ context.Context, firmID, slug string) (*models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.forms {
		if f.FirmID == firmID && f.Slug == slug {
			out := f

			return &out, nil
		}
	}

	return nil, models.ErrFormNotFound
}

// GetForm fetches a form by ID within the firm scope.
func (s *MemoryFormStore) GetForm(_ context.Context, firmID, id string) (*models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.forms[id]
	if !ok || f.FirmID != firmID {
		return nil, models.ErrFormNotFound
	}

	out := f

	return &out, nil
}

// ListForms returns the firm's forms, newest first.
func (s *MemoryFormStore) ListForms(_ context.Context, firmID string) ([]models.Form, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	forms := make([]models.Form, 0, len(s.forms))

	for _, f := range s.forms {
		if f.FirmID == firmID {
			forms = append(forms, f)
		}
	}

	sort.Slice(forms, func(i, j int) bool {
		return forms[i].CreatedAt.After(forms[j].CreatedAt)
	})

	return forms, nil
}

// MemoryAuditStore is an in-process AuditStore substitute. Unlike the
// bounded audit ring it keeps everything recorded for the process
// lifetime, so the query surface behaves like the durable table.
type MemoryAuditStore struct {
	mu      sync.RWMutex
	entries []models.AuditEvent
	nextID  int64
}

// NewMemoryAuditStore creates an empty in-memory audit store.
func NewMemoryAuditStore() *MemoryAuditStore {
	return &MemoryAuditStore{nextID: 1}
}

// RecordAudit appends an audit event.
func (s *MemoryAuditStore) RecordAudit(_ context.Context, e models.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e.ID = s.nextID
	s.nextID++
	s.entries = append(s.entries, e)

	return nil
}

func matchesAuditFilter(e models.AuditEvent, opts models.AuditQueryOpts) bool {
	if opts.EntityType != "" && e.EntityType != opts.EntityType {
		return false
	}
	if opts.EntityID != "" && e.EntityID != opts.EntityID {
		return false
	}
	if opts.EventType != "" && e.EventType != opts.EventType {
		return false
	}
	if opts.Since != nil && e.CreatedAt.Before(*opts.Since) {
		return false
	}

	return true
}

// QueryAudit returns the firm's audit entries matching the filters,
// newest first.
func (s *MemoryAuditStore) QueryAudit(
	_ context.Context, firmID string, opts models.AuditQueryOpts,
) ([]models.AuditEvent, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.AuditEvent, 0, 32)

	// Entries append in ID order; walk backwards for newest first.
	for i := len(s.entries) - 1; i >= 0; i-- {
		e := s.entries[i]
		if e.FirmID != firmID || !matchesAuditFilter(e, opts) {
			continue
		}

		matched = append(matched, e)
	}

	limit := opts.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = 50
	}

	if opts.Offset > 0 {
		if opts.Offset >= len(matched) {
			return []models.AuditEvent{}, false, nil
		}

		matched = matched[opts.Offset:]
	}

	hasMore := len(matched) > limit
	if hasMore {
		matched = matched[:limit]
	}

	return matched, hasMore, nil
}

// MemoryFirmStore resolves API keys against a fixed key → firm table,
// loaded from configuration at startup.
type MemoryFirmStore struct {
	mu       sync.RWMutex
	byKeyRef map[string]string
}

// NewMemoryFirmStore creates a firm store from API key hash → firm ID pairs.
func NewMemoryFirmStore(keys map[string]string) *MemoryFirmStore {
	byKeyRef := make(map[string]string, len(keys))
	for hash, firmID := range keys {
		byKeyRef[hash] = firmID
	}

	return &MemoryFirmStore{byKeyRef: byKeyRef}
}

// AddKey registers an API key for a firm.
func (s *MemoryFirmStore) AddKey(apiKey, firmID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byKeyRef[HashAPIKey(apiKey)] = firmID
}

// GetFirmByAPIKey looks up a firm ID by API key hash.
func (s *MemoryFirmStore) GetFirmByAPIKey(_ context.Context, apiKey string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	firmID, ok := s.byKeyRef[HashAPIKey(apiKey)]
	if !ok {
		return "", models.ErrFirmNotFound
	}

	return firmID, nil
}
