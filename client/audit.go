package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// AuditService provides read access to the audit trail.
type AuditService struct {
	c *Client
}

// auditQueryResponse wraps the durable audit query response.
type auditQueryResponse struct {
	Events  []AuditEvent `json:"events"`
	Count   int          `json:"count"`
	HasMore bool         `json:"has_more"`
}

// auditRecentResponse wraps the in-memory recent events response.
type auditRecentResponse struct {
	Events []AuditEvent `json:"events"`
	Count  int          `json:"count"`
}

// Query returns durable audit events for the authenticated firm,
// newest first, with pagination.
func (s *AuditService) Query(ctx context.Context, opts *AuditQueryOptions) ([]AuditEvent, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.EntityType != "" {
			params.Set("entityType", opts.EntityType)
		}
		if opts.EntityID != "" {
			params.Set("entityId", opts.EntityID)
		}
		if opts.EventType != "" {
			params.Set("eventType", opts.EventType)
		}
		if opts.Since != nil {
			params.Set("since", opts.Since.Format(time.RFC3339))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp auditQueryResponse
	if err := s.c.get(ctx, "/api/v1/audit", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Events, resp.HasMore, nil
}

// Recent returns the newest audit events from the server's in-memory
// ring. Cheaper than Query but bounded and not durable.
func (s *AuditService) Recent(ctx context.Context, limit int) ([]AuditEvent, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	var resp auditRecentResponse
	if err := s.c.get(ctx, "/api/v1/audit/recent", params, &resp); err != nil {
		return nil, err
	}
	return resp.Events, nil
}
