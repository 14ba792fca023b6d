package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/lexintake/lexintake/internal/dbpool"
	"github.com/lexintake/lexintake/internal/models"
)

// FirmStore handles firm lookups (API key → firm ID). It runs outside the
// firm-scoped transaction helpers because it resolves the firm in the
// first place.
type FirmStore struct {
	Pool *dbpool.Pool
}

// NewFirmStore creates a new FirmStore.
func NewFirmStore(pool *dbpool.Pool) *FirmStore {
	return &FirmStore{Pool: pool}
}

// HashAPIKey returns the hex SHA-256 of an API key. Only the hash is
// ever stored or compared.
func HashAPIKey(apiKey string) string {
	hash := sha256.Sum256([]byte(apiKey))

	return hex.EncodeToString(hash[:])
}

// GetFirmByAPIKey looks up a firm ID by API key hash.
func (s *FirmStore) GetFirmByAPIKey(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var firmID string

	err := s.Pool.QueryRow(ctx, "SELECT id FROM firms WHERE api_key_hash = $1", HashAPIKey(apiKey)).Scan(&firmID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", models.ErrFirmNotFound
		}

		return "", fmt.Errorf("looking up firm by API key: %w", err)
	}

	return firmID, nil
}

// FirmExists reports whether the firm ID is provisioned.
func (s *FirmStore) FirmExists(ctx context.Context, firmID string) (bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var exists bool

	err := s.Pool.QueryRow(ctx, "SELECT EXISTS (SELECT 1 FROM firms WHERE id = $1)", firmID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking firm existence: %w", err)
	}

	return exists, nil
}
