package consent

import (
	"context"
	"sync"
	"time"

	"github.com/lexintake/lexintake/internal/models"
)

// MemoryStore is the in-memory consent store used when no durable store is
// configured. Per-instance only: a multi-process deployment needs the
// Postgres store for cross-instance consistency.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]models.ConsentRecord
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]models.ConsentRecord)}
}

// GetConsent returns the firm's record, or ErrNotFound if none exists.
func (m *MemoryStore) GetConsent(_ context.Context, firmID string) (*models.ConsentRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[firmID]
	if !ok {
		return nil, ErrNotFound
	}

	out := rec
	return &out, nil
}

// SetConsent records an explicit choice for the firm.
func (m *MemoryStore) SetConsent(_ context.Context, firmID string, allowed bool) error {
	now := time.Now().UTC()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[firmID] = models.ConsentRecord{FirmID: firmID, Allowed: allowed, UpdatedAt: &now}
	return nil
}
