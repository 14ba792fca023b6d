package models

import "time"

// ConsentRecord is a firm's AI-enrichment consent choice. A firm with no
// record has never made a choice and is treated as consenting.
type ConsentRecord struct {
	FirmID    string     `json:"-"`
	Allowed   bool       `json:"allowed"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// SetConsentRequest toggles AI enrichment for the calling firm.
type SetConsentRequest struct {
	Consent *bool `json:"consent"`
}

// Validate checks that the consent flag is present.
func (r SetConsentRequest) Validate() error {
	if r.Consent == nil {
		return ErrMissingConsent
	}
	return nil
}
