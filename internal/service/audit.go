package service

import (
	"context"

	"github.com/lexintake/lexintake/internal/audit"
	"github.com/lexintake/lexintake/internal/domain"
	"github.com/lexintake/lexintake/internal/models"
)

// Compile-time check: *AuditService must satisfy domain.AuditService.
var _ domain.AuditService = (*AuditService)(nil)

// AuditService exposes the audit trail to the dashboard: durable queries
// against the audit store and the low-latency in-memory ring feed.
type AuditService struct {
	store domain.AuditQueryStore
	trail *audit.Trail
}

// NewAuditService creates an AuditService.
func NewAuditService(store domain.AuditQueryStore, trail *audit.Trail) *AuditService {
	return &AuditService{store: store, trail: trail}
}

// QueryAudit returns durable audit entries matching the filters.
func (s *AuditService) QueryAudit(
	ctx context.Context, firmID string, opts models.AuditQueryOpts,
) ([]models.AuditEvent, bool, error) {
	if s.store == nil {
		return nil, false, models.ErrStoreUnavailable
	}

	return s.store.QueryAudit(ctx, firmID, opts)
}

// RecentAudit returns the newest in-memory trail entries for the firm.
func (s *AuditService) RecentAudit(firmID string, n int) []models.AuditEvent {
	return s.trail.Recent(firmID, n)
}
