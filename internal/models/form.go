package models

import "time"

// Form is a published intake form owned by a firm. Intakes reference their
// form; they are scoped to a firm transitively through it, which is why
// intake lookups always re-check the firm on the fetched row.
type Form struct {
	ID            string    `json:"id"`
	FirmID        string    `json:"-"`
	Slug          string    `json:"slug"`
	Published     bool      `json:"published"`
	RetentionDays int       `json:"retention_days"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// DefaultRetentionDays applies when a form has no retention policy set.
const DefaultRetentionDays = 90
