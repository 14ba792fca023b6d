package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation.
var (
	ErrMissingSlug      = errors.New("slug is required")
	ErrMissingNarrative = errors.New("narrative is required")
	ErrMissingEmail     = errors.New("email is required")
	ErrMissingConsent   = errors.New("consent is required")
	ErrMissingFilename  = errors.New("filename is required")
	ErrMissingText      = errors.New("text is required")
	ErrSummaryTooShort  = errors.New("summary must be at least 5 characters")
	ErrInvalidStatus    = errors.New("invalid status")
)

// Sentinel errors for entity lookups.
//
// A record whose stored firm does not match the caller's firm is reported
// with the same not-found sentinel as a genuinely missing record, so a
// cross-firm probe cannot learn whether the record exists.
var (
	ErrIntakeNotFound = errors.New("intake not found")
	ErrUploadNotFound = errors.New("upload not found")
	ErrFormNotFound   = errors.New("form not found")
	ErrFirmNotFound   = errors.New("firm not found")
)

// ErrRetentionExpired indicates a record has outlived its form's retention
// policy and can no longer be exported (maps to HTTP 410 Gone).
var ErrRetentionExpired = errors.New("record past retention period")

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrStoreUnavailable indicates the durable store is absent or unreachable
// and no in-memory fallback covers the operation (maps to HTTP 503).
var ErrStoreUnavailable = errors.New("store unavailable")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
