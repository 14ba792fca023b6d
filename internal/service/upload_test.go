package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/lexintake/lexintake/internal/audit"
	"github.com/lexintake/lexintake/internal/consent"
	"github.com/lexintake/lexintake/internal/enrich"
	"github.com/lexintake/lexintake/internal/models"
	"github.com/lexintake/lexintake/internal/sol"
)

func newUploadHarness() (*UploadService, *mockUploadStore, *consent.MemoryStore, *audit.Ring) {
	log := testLogger()
	consents := consent.NewMemoryStore()
	ring := audit.NewRing(0)

	// The mock keeps real records so the staged status writes are observable.
	records := map[string]models.Upload{}
	uploads := &mockUploadStore{
		createUpload: func(_ context.Context, firmID string, u *models.Upload) (*models.Upload, error) {
			stored := *u
			stored.FirmID = firmID
			records[u.ID] = stored

			out := stored

			return &out, nil
		},
		setExtractedText: func(_ context.Context, firmID, id, text string) error {
			u, ok := records[id]
			if !ok || u.FirmID != firmID {
				return models.ErrUploadNotFound
			}

			u.ExtractedText = text
			u.Status = models.UploadStatusExtracted
			records[id] = u

			return nil
		},
		completeUpload: func(_ context.Context, firmID, id string, enrichment *models.EnrichmentResult, limitation *models.LimitationResult, aiSkipped bool) (*models.Upload, error) {
			u, ok := records[id]
			if !ok || u.FirmID != firmID {
				return nil, models.ErrUploadNotFound
			}

			u.Enrichment = enrichment
			u.Limitation = limitation
			u.AISkipped = aiSkipped
			u.Status = models.UploadStatusCompleted
			records[id] = u

			out := u

			return &out, nil
		},
	}

	svc := NewUploadService(
		uploads,
		consent.NewGate(consents, log),
		enrich.NewAdapter(nil, 0, log),
		sol.NewCalculator(),
		audit.NewTrail(ring, nil, nil, log),
		"", "",
		log,
	)

	return svc, uploads, consents, ring
}

func TestCreateUploadPipeline(t *testing.T) {
	svc, _, _, ring := newUploadHarness()

	req := models.CreateUploadRequest{
		Filename: "accident-report.pdf",
		MimeType: "application/pdf",
		Size:     4096,
		Text:     "Accident report for the claimant. Contact john.doe@example.com with queries.",
	}

	u, err := svc.CreateUpload(context.Background(), "firm-a", req)
	if err != nil {
		t.Fatalf("CreateUpload: %v", err)
	}

	if u.Status != models.UploadStatusCompleted {
		t.Errorf("status = %q", u.Status)
	}
	if strings.Contains(u.ExtractedText, "john.doe@example.com") {
		t.Errorf("raw email leaked into stored text: %q", u.ExtractedText)
	}
	if u.Enrichment == nil || u.Enrichment.Classification != "Personal Injury" {
		t.Errorf("enrichment = %+v", u.Enrichment)
	}

	// Uploads carry no event date, so the limitation stage reports
	// insufficient information instead of an expiry.
	if u.Limitation == nil {
		t.Fatal("limitation missing")
	}
	if u.Limitation.ExpiryDate != nil {
		t.Errorf("expiry computed without an event date: %q", *u.Limitation.ExpiryDate)
	}

	recent := ring.Recent("firm-a", 10)
	if len(recent) < 2 || recent[0].EventType != "upload.processed" || recent[1].EventType != "upload.created" {
		t.Errorf("audit ring = %+v", recent)
	}
}

func TestCreateUploadStatusProgression(t *testing.T) {
	svc, uploads, _, _ := newUploadHarness()

	var statusAtFirstWrite models.UploadStatus
	inner := uploads.createUpload
	uploads.createUpload = func(ctx context.Context, firmID string, u *models.Upload) (*models.Upload, error) {
		statusAtFirstWrite = u.Status
		return inner(ctx, firmID, u)
	}

	u, err := svc.CreateUpload(context.Background(), "firm-a", models.CreateUploadRequest{
		Filename: "report.pdf",
		Text:     "Report on a negligence claim.",
	})
	if err != nil {
		t.Fatalf("CreateUpload: %v", err)
	}

	if statusAtFirstWrite != models.UploadStatusUploaded {
		t.Errorf("initial status = %q, want uploaded", statusAtFirstWrite)
	}
	if u.Status != models.UploadStatusCompleted {
		t.Errorf("final status = %q, want completed", u.Status)
	}

	want := []string{"CreateUpload", "SetExtractedText", "CompleteUpload"}
	if len(uploads.calls) != len(want) {
		t.Fatalf("store calls = %v, want %v", uploads.calls, want)
	}
	for i, name := range want {
		if uploads.calls[i] != name {
			t.Errorf("call %d = %q, want %q", i, uploads.calls[i], name)
		}
	}
}

func TestCreateUploadConsentOptOut(t *testing.T) {
	svc, _, consents, _ := newUploadHarness()
	ctx := context.Background()

	if err := consents.SetConsent(ctx, "firm-a", false); err != nil {
		t.Fatalf("SetConsent: %v", err)
	}

	u, err := svc.CreateUpload(ctx, "firm-a", models.CreateUploadRequest{
		Filename: "note.txt",
		Text:     "Short note about a contract dispute.",
	})
	if err != nil {
		t.Fatalf("CreateUpload: %v", err)
	}

	if !u.AISkipped || u.Enrichment != nil {
		t.Errorf("AISkipped = %v, enrichment = %+v", u.AISkipped, u.Enrichment)
	}
}

func TestCreateUploadValidation(t *testing.T) {
	svc, uploads, _, _ := newUploadHarness()

	if _, err := svc.CreateUpload(context.Background(), "firm-a", models.CreateUploadRequest{Text: "no filename"}); !errors.Is(err, models.ErrMissingFilename) {
		t.Errorf("error = %v, want ErrMissingFilename", err)
	}

	if len(uploads.calls) != 0 {
		t.Errorf("store called on invalid payload: %v", uploads.calls)
	}
}
