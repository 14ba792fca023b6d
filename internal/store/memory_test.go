package store

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/lexintake/lexintake/internal/models"
)

func memIntake(id, formID string, created time.Time) *models.Intake {
	return &models.Intake{
		ID:         id,
		FormID:     formID,
		Slug:       "contact-us",
		Channel:    models.ChannelWeb,
		ClientName: "Jordan Byrne",
		Contact:    models.Contact{Email: "jordan@example.com"},
		Narrative:  "Slipped on wet flooring at the supermarket.",
		Consent:    true,
		Status:     models.IntakeStatusNew,
		CreatedAt:  created,
	}
}

func TestMemoryIntakeFirmIsolation(t *testing.T) {
	s := NewMemoryIntakeStore()
	ctx := context.Background()

	in := memIntake("in-1", "form-1", time.Now())
	if _, err := s.CreateIntake(ctx, "firm-a", in); err != nil {
		t.Fatalf("CreateIntake: %v", err)
	}

	if _, err := s.GetIntake(ctx, "firm-b", "in-1"); !errors.Is(err, models.ErrIntakeNotFound) {
		t.Errorf("cross-firm get error = %v, want ErrIntakeNotFound", err)
	}

	list, err := s.ListIntakes(ctx, "firm-b", models.IntakeFilter{})
	if err != nil {
		t.Fatalf("ListIntakes: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("firm-b sees %d foreign intakes", len(list))
	}

	if _, err := s.UpdateStatus(ctx, "firm-b", "in-1", models.IntakeStatusClosed); !errors.Is(err, models.ErrIntakeNotFound) {
		t.Errorf("cross-firm update error = %v, want ErrIntakeNotFound", err)
	}
}

func TestMemoryCreateIntakeOverwritesForgedFirm(t *testing.T) {
	s := NewMemoryIntakeStore()

	in := memIntake("in-1", "form-1", time.Now())
	in.FirmID = "firm-forged"

	stored, err := s.CreateIntake(context.Background(), "firm-a", in)
	if err != nil {
		t.Fatalf("CreateIntake: %v", err)
	}

	if stored.FirmID != "firm-a" {
		t.Errorf("stored firm = %q, want resolved firm-a", stored.FirmID)
	}

	if _, err := s.GetIntake(context.Background(), "firm-a", "in-1"); err != nil {
		t.Errorf("resolved firm cannot read its own intake: %v", err)
	}
}

func TestMemoryListIntakesFiltersAndOrder(t *testing.T) {
	s := NewMemoryIntakeStore()
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	older := memIntake("in-old", "form-1", base)
	older.Enrichment = &models.EnrichmentResult{Classification: "Contract"}
	older.Limitation = &models.LimitationResult{Badge: models.BadgeGreen}

	newer := memIntake("in-new", "form-1", base.Add(48*time.Hour))
	newer.Enrichment = &models.EnrichmentResult{Classification: "Personal Injury"}
	newer.Limitation = &models.LimitationResult{Badge: models.BadgeRed}
	newer.Status = models.IntakeStatusInReview

	for _, in := range []*models.Intake{older, newer} {
		if _, err := s.CreateIntake(ctx, "firm-a", in); err != nil {
			t.Fatalf("CreateIntake %s: %v", in.ID, err)
		}
	}

	all, err := s.ListIntakes(ctx, "firm-a", models.IntakeFilter{})
	if err != nil {
		t.Fatalf("ListIntakes: %v", err)
	}
	if len(all) != 2 || all[0].ID != "in-new" {
		t.Fatalf("list order wrong: %+v", ids(all))
	}

	tests := []struct {
		name   string
		filter models.IntakeFilter
		want   []string
	}{
		{"by area", models.IntakeFilter{Area: "Personal Injury"}, []string{"in-new"}},
		{"by urgency", models.IntakeFilter{Urgency: models.BadgeGreen}, []string{"in-old"}},
		{"by status", models.IntakeFilter{Status: models.IntakeStatusInReview}, []string{"in-new"}},
		{"from date excludes older", models.IntakeFilter{From: "2026-03-02"}, []string{"in-new"}},
		{"to date is inclusive", models.IntakeFilter{To: "2026-03-01"}, []string{"in-old"}},
		{"limit", models.IntakeFilter{Limit: 1}, []string{"in-new"}},
		{"no match", models.IntakeFilter{Area: "Defamation"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.ListIntakes(ctx, "firm-a", tt.filter)
			if err != nil {
				t.Fatalf("ListIntakes: %v", err)
			}

			if strings.Join(ids(got), ",") != strings.Join(tt.want, ",") {
				t.Errorf("got %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func ids(intakes []models.Intake) []string {
	out := make([]string, 0, len(intakes))
	for _, in := range intakes {
		out = append(out, in.ID)
	}

	return out
}

func TestMemoryUpdateSummaryDoesNotAliasEnrichment(t *testing.T) {
	s := NewMemoryIntakeStore()
	ctx := context.Background()

	in := memIntake("in-1", "form-1", time.Now())
	enrichment := &models.EnrichmentResult{Summary: "Original.", Classification: "Contract"}
	in.Enrichment = enrichment

	if _, err := s.CreateIntake(ctx, "firm-a", in); err != nil {
		t.Fatalf("CreateIntake: %v", err)
	}

	updated, err := s.UpdateSummary(ctx, "firm-a", "in-1", "Edited by solicitor.")
	if err != nil {
		t.Fatalf("UpdateSummary: %v", err)
	}

	if updated.Enrichment.Summary != "Edited by solicitor." {
		t.Errorf("summary = %q", updated.Enrichment.Summary)
	}
	if updated.Enrichment.Classification != "Contract" {
		t.Errorf("classification lost: %q", updated.Enrichment.Classification)
	}
	if enrichment.Summary != "Original." {
		t.Errorf("caller's enrichment mutated: %q", enrichment.Summary)
	}
}

func TestMemoryFormSlugPerFirm(t *testing.T) {
	s := NewMemoryFormStore()
	ctx := context.Background()

	fa, err := s.CreateForm(ctx, "firm-a", "contact-us", 30)
	if err != nil {
		t.Fatalf("CreateForm firm-a: %v", err)
	}

	fb, err := s.CreateForm(ctx, "firm-b", "contact-us", 60)
	if err != nil {
		t.Fatalf("CreateForm firm-b: %v", err)
	}

	got, err := s.GetFormBySlug(ctx, "firm-a", "contact-us")
	if err != nil {
		t.Fatalf("GetFormBySlug: %v", err)
	}
	if got.ID != fa.ID || got.ID == fb.ID {
		t.Errorf("slug lookup returned %q, want firm-a's form %q", got.ID, fa.ID)
	}

	if _, err := s.CreateForm(ctx, "firm-a", "contact-us", 30); !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("duplicate slug error = %v, want ErrDuplicateKey", err)
	}

	if _, err := s.CreateForm(ctx, "firm-a", "", 30); !errors.Is(err, models.ErrMissingSlug) {
		t.Errorf("empty slug error = %v, want ErrMissingSlug", err)
	}
}

func TestMemoryFormDefaultRetention(t *testing.T) {
	s := NewMemoryFormStore()

	f, err := s.CreateForm(context.Background(), "firm-a", "no-policy", 0)
	if err != nil {
		t.Fatalf("CreateForm: %v", err)
	}

	if f.RetentionDays != models.DefaultRetentionDays {
		t.Errorf("retention = %d, want default %d", f.RetentionDays, models.DefaultRetentionDays)
	}
}

func TestMemoryUploadStore(t *testing.T) {
	s := NewMemoryUploadStore()
	ctx := context.Background()

	u := &models.Upload{
		ID:        "up-1",
		Filename:  "statement.pdf",
		MimeType:  "application/pdf",
		Size:      2048,
		Status:    models.UploadStatusUploaded,
		CreatedAt: time.Now(),
	}

	if _, err := s.CreateUpload(ctx, "firm-a", u); err != nil {
		t.Fatalf("CreateUpload: %v", err)
	}

	if _, err := s.GetUpload(ctx, "firm-b", "up-1"); !errors.Is(err, models.ErrUploadNotFound) {
		t.Errorf("cross-firm get error = %v, want ErrUploadNotFound", err)
	}

	// Staged writes are firm-scoped too.
	if err := s.SetExtractedText(ctx, "firm-b", "up-1", "text"); !errors.Is(err, models.ErrUploadNotFound) {
		t.Errorf("cross-firm text update error = %v, want ErrUploadNotFound", err)
	}

	if err := s.SetExtractedText(ctx, "firm-a", "up-1", "The contract was breached on 2025-11-02."); err != nil {
		t.Fatalf("SetExtractedText: %v", err)
	}

	got, err := s.GetUpload(ctx, "firm-a", "up-1")
	if err != nil {
		t.Fatalf("GetUpload: %v", err)
	}
	if got.Status != models.UploadStatusExtracted {
		t.Errorf("status = %q, want extracted", got.Status)
	}

	done, err := s.CompleteUpload(ctx, "firm-a", "up-1", nil, &models.LimitationResult{}, true)
	if err != nil {
		t.Fatalf("CompleteUpload: %v", err)
	}
	if done.Status != models.UploadStatusCompleted || !done.AISkipped {
		t.Errorf("completed = %+v", done)
	}

	list, err := s.ListUploads(ctx, "firm-a", 0)
	if err != nil {
		t.Fatalf("ListUploads: %v", err)
	}
	if len(list) != 1 || list[0].Filename != "statement.pdf" {
		t.Fatalf("list = %+v", list)
	}
}

func TestMemoryAuditQuery(t *testing.T) {
	s := NewMemoryAuditStore()
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	events := []models.AuditEvent{
		{EventType: "intake.created", FirmID: "firm-a", EntityType: "intake", EntityID: "in-1", CreatedAt: base},
		{EventType: "intake.status_changed", FirmID: "firm-a", EntityType: "intake", EntityID: "in-1", CreatedAt: base.Add(time.Hour)},
		{EventType: "intake.created", FirmID: "firm-b", EntityType: "intake", EntityID: "in-2", CreatedAt: base.Add(2 * time.Hour)},
	}
	for _, e := range events {
		if err := s.RecordAudit(ctx, e); err != nil {
			t.Fatalf("RecordAudit: %v", err)
		}
	}

	got, hasMore, err := s.QueryAudit(ctx, "firm-a", models.AuditQueryOpts{})
	if err != nil {
		t.Fatalf("QueryAudit: %v", err)
	}
	if hasMore {
		t.Error("hasMore = true")
	}
	if len(got) != 2 || got[0].EventType != "intake.status_changed" {
		t.Fatalf("firm-a entries wrong: %+v", got)
	}

	byType, _, err := s.QueryAudit(ctx, "firm-a", models.AuditQueryOpts{EventType: "intake.created"})
	if err != nil {
		t.Fatalf("QueryAudit by type: %v", err)
	}
	if len(byType) != 1 || byType[0].EntityID != "in-1" {
		t.Fatalf("by-type entries wrong: %+v", byType)
	}

	since := base.Add(30 * time.Minute)
	recent, _, err := s.QueryAudit(ctx, "firm-a", models.AuditQueryOpts{Since: &since})
	if err != nil {
		t.Fatalf("QueryAudit since: %v", err)
	}
	if len(recent) != 1 || recent[0].EventType != "intake.status_changed" {
		t.Fatalf("since entries wrong: %+v", recent)
	}

	paged, hasMore, err := s.QueryAudit(ctx, "firm-a", models.AuditQueryOpts{Limit: 1})
	if err != nil {
		t.Fatalf("QueryAudit paged: %v", err)
	}
	if !hasMore || len(paged) != 1 {
		t.Errorf("paged = %d entries, hasMore = %v", len(paged), hasMore)
	}
}

func TestMemoryFirmStoreLookup(t *testing.T) {
	s := NewMemoryFirmStore(nil)
	s.AddKey("sk-firm-a", "firm-a")

	firmID, err := s.GetFirmByAPIKey(context.Background(), "sk-firm-a")
	if err != nil {
		t.Fatalf("GetFirmByAPIKey: %v", err)
	}
	if firmID != "firm-a" {
		t.Errorf("firmID = %q", firmID)
	}

	if _, err := s.GetFirmByAPIKey(context.Background(), "sk-unknown"); !errors.Is(err, models.ErrFirmNotFound) {
		t.Errorf("unknown key error = %v, want ErrFirmNotFound", err)
	}
}

func TestBuildIntakeFilter(t *testing.T) {
	where, args, nextArg := buildIntakeFilter("firm-a", models.IntakeFilter{
		Status: models.IntakeStatusNew,
		Area:   "Contract",
	})

	if !strings.Contains(where, "firm_id = $1") {
		t.Errorf("firm predicate missing: %q", where)
	}
	if !strings.Contains(where, "status = $2") || !strings.Contains(where, "classification' = $3") {
		t.Errorf("where = %q", where)
	}
	if len(args) != 3 || nextArg != 4 {
		t.Errorf("args = %v, nextArg = %d", args, nextArg)
	}
}

func TestBuildAuditFilter(t *testing.T) {
	since := time.Now()
	where, args, nextArg := buildAuditFilter("firm-a", models.AuditQueryOpts{
		EntityType: "intake",
		Since:      &since,
	})

	if !strings.Contains(where, "firm_id = $1") || !strings.Contains(where, "entity_type = $2") || !strings.Contains(where, "created_at >= $3") {
		t.Errorf("where = %q", where)
	}
	if len(args) != 3 || nextArg != 4 {
		t.Errorf("args = %v, nextArg = %d", args, nextArg)
	}
}
