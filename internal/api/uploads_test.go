package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/lexintake/lexintake/internal/api"
	"github.com/lexintake/lexintake/internal/models"
)

func TestUploadCreate_Valid(t *testing.T) {
	t.Parallel()

	repo := &mockUploadRepo{
		createFn: func(_ context.Context, _ string, req models.CreateUploadRequest) (*models.Upload, error) {
			return &models.Upload{
				ID:       "up-1",
				Filename: req.Filename,
				MimeType: req.MimeType,
				Size:     req.Size,
				Status:   models.UploadStatusCompleted,
			}, nil
		},
	}

	r := newTestRouter()
	h := api.NewUploadHandler(repo, testLogger())
	r.POST("/uploads", h.Create)

	body := `{"filename":"letter.pdf","mimeType":"application/pdf","size":2048,"text":"Notice of termination dated 3 March."}`
	w := doRequest(r, http.MethodPost, "/uploads", body)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var up models.Upload
	if err := json.Unmarshal(w.Body.Bytes(), &up); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if up.ID != "up-1" || up.Filename != "letter.pdf" {
		t.Errorf("unexpected upload %+v", up)
	}
}

func TestUploadCreate_MissingText(t *testing.T) {
	t.Parallel()

	r := newTestRouter()
	h := api.NewUploadHandler(&mockUploadRepo{}, testLogger())
	r.POST("/uploads", h.Create)

	w := doRequest(r, http.MethodPost, "/uploads", `{"filename":"letter.pdf"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUploadGet_NotFound(t *testing.T) {
	t.Parallel()

	repo := &mockUploadRepo{
		getFn: func(_ context.Context, _, _ string) (*models.Upload, error) {
			return nil, models.ErrUploadNotFound
		},
	}

	r := newTestRouter()
	h := api.NewUploadHandler(repo, testLogger())
	r.GET("/uploads/:id", h.Get)

	w := doRequest(r, http.MethodGet, "/uploads/missing", "")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}

func TestUploadList_PassesLimit(t *testing.T) {
	t.Parallel()

	var gotLimit int
	repo := &mockUploadRepo{
		listFn: func(_ context.Context, _ string, limit int) ([]models.UploadSummary, error) {
			gotLimit = limit

			return []models.UploadSummary{{ID: "up-1"}}, nil
		},
	}

	r := newTestRouter()
	h := api.NewUploadHandler(repo, testLogger())
	r.GET("/uploads", h.List)

	w := doRequest(r, http.MethodGet, "/uploads?limit=5", "")

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if gotLimit != 5 {
		t.Errorf("expected limit 5, got %d", gotLimit)
	}
}
