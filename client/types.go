package client

import "time"

// Contact holds redaction-safe contact details for an intake.
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Provenance records how an enrichment result was produced.
type Provenance struct {
	Source     string `json:"source"`
	Model      string `json:"model"`
	PromptTag  string `json:"prompt_tag"`
	Redactions int    `json:"redactions"`
}

// EnrichmentResult is the structured output of the enrichment stage.
type EnrichmentResult struct {
	Summary        string     `json:"summary"`
	Classification string     `json:"classification"`
	FollowUps      []string   `json:"follow_ups"`
	Provenance     Provenance `json:"provenance"`
}

// LimitationResult is the output of the limitation-period calculator.
// ExpiryDate and DaysRemaining are nil when the inputs were insufficient.
type LimitationResult struct {
	ExpiryDate        *string `json:"expiry_date,omitempty"`
	DaysRemaining     *int    `json:"days_remaining,omitempty"`
	Badge             string  `json:"badge,omitempty"`
	Basis             string  `json:"basis,omitempty"`
	Disclaimer        string  `json:"disclaimer,omitempty"`
	Version           string  `json:"version,omitempty"`
	DisclaimerVersion string  `json:"disclaimer_version,omitempty"`
}

// Intake is a processed intake record. Narrative is stored redacted;
// the raw submission text is never returned by the API.
type Intake struct {
	ID         string            `json:"id"`
	FormID     string            `json:"form_id"`
	Slug       string            `json:"slug"`
	Channel    string            `json:"channel"`
	ClientName string            `json:"client_name"`
	Contact    Contact           `json:"contact"`
	Narrative  string            `json:"narrative"`
	ClaimType  string            `json:"claim_type,omitempty"`
	EventDate  string            `json:"event_date,omitempty"`
	Consent    bool              `json:"consent"`
	Enrichment *EnrichmentResult `json:"enrichment,omitempty"`
	Limitation *LimitationResult `json:"limitation,omitempty"`
	AISkipped  bool              `json:"ai_skipped"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

// IntakeClient is the claimant block of a web-form submission.
type IntakeClient struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// IntakeCase is the matter block of a web-form submission.
type IntakeCase struct {
	ClaimType string `json:"claimType"`
	EventDate string `json:"eventDate"`
	Location  string `json:"location"`
	Narrative string `json:"narrative"`
}

// IntakeConsent is the consent block of a web-form submission.
type IntakeConsent struct {
	GDPR        bool   `json:"gdpr"`
	ConsentText string `json:"consentText"`
}

// SubmitIntakeRequest is a public web-form submission payload.
type SubmitIntakeRequest struct {
	Client  IntakeClient  `json:"client"`
	Case    IntakeCase    `json:"case"`
	Consent IntakeConsent `json:"consent"`
}

// EmailAttachment describes an attachment on an email intake.
type EmailAttachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// EmailIntakeRequest is an email-gateway submission payload.
type EmailIntakeRequest struct {
	FromEmail   string            `json:"fromEmail"`
	Subject     string            `json:"subject"`
	BodyText    string            `json:"bodyText"`
	Attachments []EmailAttachment `json:"attachments,omitempty"`
}

// VoiceIntakeRequest is a voice-transcription submission payload.
type VoiceIntakeRequest struct {
	Transcript string `json:"transcript"`
	CallerName string `json:"callerName"`
}

// IntakeListOptions filters the dashboard intake list.
type IntakeListOptions struct {
	Area    string
	Urgency string
	From    string
	To      string
	Status  string
	Limit   int
}

// Upload is a processed document upload. The extracted text is stored
// redacted server-side and never returned by the API.
type Upload struct {
	ID         string            `json:"id"`
	Filename   string            `json:"filename"`
	MimeType   string            `json:"mime_type"`
	Size       int64             `json:"size"`
	Enrichment *EnrichmentResult `json:"enrichment,omitempty"`
	Limitation *LimitationResult `json:"limitation,omitempty"`
	AISkipped  bool              `json:"ai_skipped"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

// UploadSummary is the list-view projection of an upload.
type UploadSummary struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mime_type"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUploadRequest registers a document whose text was extracted upstream.
type CreateUploadRequest struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`
	Text     string `json:"text"`
}

// Form is a published intake form.
type Form struct {
	ID            string    `json:"id"`
	Slug          string    `json:"slug"`
	Published     bool      `json:"published"`
	RetentionDays int       `json:"retention_days"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CreateFormRequest creates an intake form. RetentionDays of zero
// selects the server default.
type CreateFormRequest struct {
	Slug          string `json:"slug"`
	RetentionDays int    `json:"retentionDays,omitempty"`
}

// ConsentRecord is a firm's AI enrichment consent state.
type ConsentRecord struct {
	Allowed   bool       `json:"allowed"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// AuditEvent is one entry in the append-only audit trail.
type AuditEvent struct {
	ID         int64          `json:"id"`
	EventType  string         `json:"event_type"`
	ActorID    string         `json:"actor_id,omitempty"`
	EntityType string         `json:"entity_type,omitempty"`
	EntityID   string         `json:"entity_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

// AuditQueryOptions filters the durable audit log.
type AuditQueryOptions struct {
	EntityType string
	EntityID   string
	EventType  string
	Since      *time.Time
	Limit      int
	Offset     int
}

// HealthResponse is the liveness check payload.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	Enrichment    string  `json:"enrichment"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// ReadyResponse is the readiness check payload.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
