package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/lexintake/lexintake/internal/models"
)

// AuditStore provides data access for the audit_log table. It satisfies
// audit.Recorder so the trail's background worker can drain into it.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// RecordAudit inserts an audit log entry.
func (s *AuditStore) RecordAudit(ctx context.Context, e models.AuditEvent) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx, e.FirmID)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	var metadataJSON []byte
	if e.Metadata != nil {
		metadataJSON, err = json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling audit metadata: %w", err)
		}
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO audit_log (firm_id, event_type, actor_id, entity_type, entity_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.FirmID, e.EventType, e.ActorID, e.EntityType, e.EntityID, metadataJSON, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting audit entry: %w", err)
	}

	return tx.Commit(ctx)
}

// buildAuditFilter builds the WHERE clause and args from AuditQueryOpts.
// The firm predicate is always first.
func buildAuditFilter(firmID string, opts models.AuditQueryOpts) (where string, args []any, nextArg int) {
	conditions := []string{"firm_id = $1"}
	args = append(args, firmID)
	argIdx := 2

	if opts.EntityType != "" {
		conditions = append(conditions, "entity_type = $"+strconv.Itoa(argIdx))
		args = append(args, opts.EntityType)
		argIdx++
	}
	if opts.EntityID != "" {
		conditions = append(conditions, "entity_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.EntityID)
		argIdx++
	}
	if opts.EventType != "" {
		conditions = append(conditions, "event_type = $"+strconv.Itoa(argIdx))
		args = append(args, opts.EventType)
		argIdx++
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *opts.Since)
		argIdx++
	}

	return "WHERE " + strings.Join(conditions, " AND "), args, argIdx
}

// QueryAudit returns audit entries matching the given filters, newest
// first. Returns entries, a hasMore flag, and any error.
func (s *AuditStore) QueryAudit(
	ctx context.Context, firmID string, opts models.AuditQueryOpts,
) ([]models.AuditEvent, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx, firmID)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // read-only tx.

	where, args, argIdx := buildAuditFilter(firmID, opts)

	limit := opts.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT id, firm_id, event_type, actor_id, entity_type, entity_id, metadata, created_at FROM audit_log %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	entries := make([]models.AuditEvent, 0, limit)

	for rows.Next() {
		var e models.AuditEvent
		var metadata []byte

		if err := rows.Scan(&e.ID, &e.FirmID, &e.EventType, &e.ActorID, &e.EntityType, &e.EntityID, &metadata, &e.CreatedAt); err != nil {
			return nil, false, fmt.Errorf("scanning audit row: %w", err)
		}

		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, false, fmt.Errorf("unmarshalling audit metadata: %w", err)
			}
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating audit log: %w", err)
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	return entries, hasMore, nil
}
