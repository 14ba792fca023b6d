// Package store provides focused, single-concern data access stores
// for LexIntake.
//
// Each store owns one domain (intakes, uploads, forms, consent, audit)
// and embeds shared helpers (Pool, crypto, logger) via the Base struct.
// Stores never import each other; shared logic lives in this file or
// in dedicated helper files (encrypt.go, scan.go).
//
// Every query runs inside a transaction that sets app.firm_id via
// set_config, so Postgres row-level security acts as a second fence
// behind the explicit firm_id predicates in each query.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/crypto"
	"github.com/lexintake/lexintake/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// maxListLimit is a defense-in-depth cap on limit values for list queries.
const maxListLimit = 500

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool   *dbpool.Pool
	Log    *logrus.Logger
	Crypto *crypto.Service
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// setFirm sets the firm context for RLS policies within a transaction.
func setFirm(ctx context.Context, tx pgx.Tx, firmID string) error {
	if _, err := uuid.Parse(firmID); err != nil {
		return fmt.Errorf("invalid firm ID format: %w", err)
	}

	_, err := tx.Exec(ctx, "SELECT set_config('app.firm_id', $1, true)", firmID)
	if err != nil {
		return fmt.Errorf("setting firm context: %w", err)
	}

	return nil
}

// beginTx starts a read-write transaction and sets the firm context.
func (b *Base) beginTx(ctx context.Context, firmID string) (pgx.Tx, error) {
	tx, err := b.Pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}

	if err := setFirm(ctx, tx, firmID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}

// beginReadTx starts a read-only transaction and sets the firm context.
func (b *Base) beginReadTx(ctx context.Context, firmID string) (pgx.Tx, error) {
	tx, err := b.Pool.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("beginning read transaction: %w", err)
	}

	if err := setFirm(ctx, tx, firmID); err != nil {
		tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on setup failure.

		return nil, err
	}

	return tx, nil
}

// notify sends a pg_notify on the intake_changes channel (best-effort, post-commit).
func (b *Base) notify(table, op, firmID string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	payload, _ := json.Marshal(map[string]any{ //nolint:errcheck // static keys, cannot fail.
		"table":   table,
		"op":      op,
		"firm_id": firmID,
	})
	if _, err := b.Pool.Exec(ctx, "SELECT pg_notify('intake_changes', $1)", string(payload)); err != nil {
		b.Log.WithError(err).Warn("failed to send " + op + " " + table + " notification")
	}
}

// mapLookupErr translates row-level lookup failures into the shared
// not-found sentinel so callers cannot distinguish cross-firm probes
// from genuinely missing records.
func mapLookupErr(err, notFound error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	return err
}

// isUniqueViolation reports whether err is a Postgres unique constraint violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
