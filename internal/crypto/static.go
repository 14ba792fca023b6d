package crypto

import (
	"context"
	"encoding/hex"
	"fmt"
	"sync"
)

// StaticProvider returns a single key from a hex-encoded string for all firms.
// Intended for dev/test single-firm use.
type StaticProvider struct {
	key      []byte
	firstFID string
	fidOnce  sync.Once
}

// NewStaticProvider creates a StaticProvider from a hex-encoded 32-byte key.
func NewStaticProvider(hexKey string) (*StaticProvider, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("crypto/static: invalid hex key: %w", err)
	}

	if len(key) != 32 {
		return nil, fmt.Errorf("crypto/static: key must be 32 bytes, got %d", len(key))
	}

	return &StaticProvider{key: key}, nil
}

// GetKey returns a copy of the static key for the first firm seen.
// Returns an error if called with a different firm ID; multi-firm
// use requires the vault provider.
func (p *StaticProvider) GetKey(_ context.Context, firmID string) ([]byte, error) {
	p.fidOnce.Do(func() { p.firstFID = firmID })

	if firmID != p.firstFID {
		return nil, fmt.Errorf("crypto/static: multi-firm use requires vault provider; saw firm %s after %s", firmID, p.firstFID)
	}

	out := make([]byte, len(p.key))
	copy(out, p.key)
	return out, nil
}
