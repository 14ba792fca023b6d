package api

import "github.com/lexintake/lexintake/internal/domain"

// Handlers depend on the canonical domain interfaces; the aliases keep
// handler signatures short without re-declaring method sets.

// IntakeRepository defines intake operations used by IntakeHandler.
type IntakeRepository = domain.IntakeService

// UploadRepository defines upload operations used by UploadHandler.
type UploadRepository = domain.UploadService

// FormRepository defines form operations used by FormHandler.
type FormRepository = domain.FormService

// ConsentRepository defines consent operations used by ConsentHandler.
type ConsentRepository = domain.ConsentService

// AuditRepository defines audit operations used by AuditHandler.
type AuditRepository = domain.AuditService
