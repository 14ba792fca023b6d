package models

import "time"

// UploadStatus is the processing state of an uploaded document.
type UploadStatus string

// Upload processing states.
const (
	UploadStatusUploaded  UploadStatus = "uploaded"
	UploadStatusExtracted UploadStatus = "extracted"
	UploadStatusCompleted UploadStatus = "completed"
)

// Upload is one uploaded document run through the intake pipeline.
// The document itself is parsed by the external extraction service; this
// service only ever sees the extracted plain text.
type Upload struct {
	ID            string            `json:"id"`
	FirmID        string            `json:"-"`
	Filename      string            `json:"filename"`
	MimeType      string            `json:"mime_type"`
	Size          int64             `json:"size"`
	ExtractedText string            `json:"-"`
	Enrichment    *EnrichmentResult `json:"enrichment,omitempty"`
	Limitation    *LimitationResult `json:"limitation,omitempty"`
	AISkipped     bool              `json:"ai_skipped"`
	Status        UploadStatus      `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
}

// MaxExtractedTextLen bounds the extracted text accepted per upload.
const MaxExtractedTextLen = 100000

// CreateUploadRequest registers a document whose text has already been
// extracted upstream.
type CreateUploadRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Text     string `json:"text"`
}

// Validate checks the upload payload.
func (r CreateUploadRequest) Validate() error {
	if r.Filename == "" {
		return ErrMissingFilename
	}
	if r.Text == "" {
		return ErrMissingText
	}
	if len(r.Text) > MaxExtractedTextLen {
		return ErrFieldTooLong("text", MaxExtractedTextLen)
	}
	return nil
}

// UploadSummary is the list-view projection of an upload.
type UploadSummary struct {
	ID        string       `json:"id"`
	Filename  string       `json:"filename"`
	MimeType  string       `json:"mime_type"`
	Status    UploadStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}
