// Package crypto provides firm-aware AES-256-GCM encryption.
package crypto

import "context"

// KeyProvider returns AES-256 encryption keys for firms.
type KeyProvider interface {
	// GetKey returns the 32-byte AES-256 key for the given firm.
	GetKey(ctx context.Context, firmID string) ([]byte, error)
}
