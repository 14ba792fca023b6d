package models

import (
	"net/mail"
	"time"
)

// IntakeStatus is the lifecycle status of an intake.
type IntakeStatus string

// Intake lifecycle states.
const (
	IntakeStatusNew      IntakeStatus = "new"
	IntakeStatusInReview IntakeStatus = "in-review"
	IntakeStatusClosed   IntakeStatus = "closed"
)

// ValidStatus reports whether s is a known lifecycle status.
func ValidStatus(s IntakeStatus) bool {
	switch s {
	case IntakeStatusNew, IntakeStatusInReview, IntakeStatusClosed:
		return true
	}
	return false
}

// Intake channels.
const (
	ChannelWeb   = "web"
	ChannelEmail = "email"
	ChannelVoice = "voice"
)

// Contact holds the client contact fields of an intake.
type Contact struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
}

// Intake is one client submission, received via web form, email, or voice.
// FirmID is set by the store from the resolved firm context and is never
// serialized to API responses.
type Intake struct {
	ID         string            `json:"id"`
	FormID     string            `json:"form_id"`
	FirmID     string            `json:"-"`
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
	Status     IntakeStatus      `json:"status"`
	CreatedAt  time.Time         `json:"created_at"`
}

// Maximum field lengths for intake payloads.
const (
	MaxNarrativeLen  = 20000
	MaxNameLen       = 200
	MaxClaimTypeLen  = 100
	MaxSubjectLen    = 500
)

// SubmitIntakeRequest is the public web-form submission payload.
type SubmitIntakeRequest struct {
	Client struct {
		FirstName string `json:"firstName"`
		LastName  string `json:"lastName"`
		Email     string `json:"email"`
		Phone     string `json:"phone"`
	} `json:"client"`
	Case struct {
		ClaimType string `json:"claimType"`
		EventDate string `json:"eventDate"`
		Location  string `json:"location"`
		Narrative string `json:"narrative"`
	} `json:"case"`
	Consent struct {
		GDPR        bool   `json:"gdpr"`
		ConsentText string `json:"consentText"`
	} `json:"consent"`
}

// Validate checks the submission payload for required fields and limits.
func (r SubmitIntakeRequest) Validate() error {
	if r.Case.Narrative == "" {
		return ErrMissingNarrative
	}
	if len(r.Case.Narrative) > MaxNarrativeLen {
		return ErrFieldTooLong("narrative", MaxNarrativeLen)
	}
	if r.Client.Email == "" {
		return ErrMissingEmail
	}
	if _, err := mail.ParseAddress(r.Client.Email); err != nil {
		return ErrMissingEmail
	}
	if len(r.Client.FirstName)+len(r.Client.LastName) > MaxNameLen {
		return ErrFieldTooLong("client name", MaxNameLen)
	}
	if len(r.Case.ClaimType) > MaxClaimTypeLen {
		return ErrFieldTooLong("claimType", MaxClaimTypeLen)
	}
	if !r.Consent.GDPR {
		return ErrMissingConsent
	}
	return nil
}

// EmailIntakeRequest is an inbound email delivered by the mail gateway.
type EmailIntakeRequest struct {
	FromEmail   string            `json:"fromEmail"`
	Subject     string            `json:"subject"`
	BodyText    string            `json:"bodyText"`
	Attachments []EmailAttachment `json:"attachments"`
}

// EmailAttachment is metadata for an email attachment; contents are not
// carried through this endpoint.
type EmailAttachment struct {
	Filename string `json:"filename"`
	MimeType string `json:"mimeType,omitempty"`
	Size     int64  `json:"size,omitempty"`
}

// Validate checks the email intake payload.
func (r EmailIntakeRequest) Validate() error {
	if r.FromEmail == "" {
		return ErrMissingEmail
	}
	if _, err := mail.ParseAddress(r.FromEmail); err != nil {
		return ErrMissingEmail
	}
	if r.BodyText == "" {
		return ErrMissingNarrative
	}
	if len(r.BodyText) > MaxNarrativeLen {
		return ErrFieldTooLong("bodyText", MaxNarrativeLen)
	}
	if len(r.Subject) > MaxSubjectLen {
		return ErrFieldTooLong("subject", MaxSubjectLen)
	}
	return nil
}

// VoiceIntakeRequest carries a transcript produced by the external
// transcription service. Audio parsing never happens in this service.
type VoiceIntakeRequest struct {
	Transcript string `json:"transcript"`
	CallerName string `json:"callerName"`
}

// Validate checks the voice intake payload.
func (r VoiceIntakeRequest) Validate() error {
	if r.Transcript == "" {
		return ErrMissingText
	}
	if len(r.Transcript) > MaxNarrativeLen {
		return ErrFieldTooLong("transcript", MaxNarrativeLen)
	}
	return nil
}

// UpdateSummaryRequest edits the enrichment summary from the dashboard.
type UpdateSummaryRequest struct {
	Summary string `json:"summary"`
}

// Validate checks the summary edit payload.
func (r UpdateSummaryRequest) Validate() error {
	if len(r.Summary) < 5 {
		return ErrSummaryTooShort
	}
	return nil
}

// UpdateStatusRequest moves an intake through its lifecycle.
type UpdateStatusRequest struct {
	Status IntakeStatus `json:"status"`
}

// IntakeFilter holds dashboard list filters. Zero values mean "no filter".
type IntakeFilter struct {
	Area    string
	Urgency Badge
	From    string
	To      string
	Status  IntakeStatus
	Limit   int
}
