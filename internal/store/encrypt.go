package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lexintake/lexintake/internal/models"
)

// encryptContact marshals the contact fields to JSON, encrypts via
// crypto.Service, and returns JSON bytes for the JSONB contact column.
// Stored as {"_enc": "base64..."} envelope. When no crypto service is
// configured the contact is stored as plain JSON.
func (b *Base) encryptContact(ctx context.Context, firmID string, contact models.Contact) ([]byte, error) {
	plain, err := json.Marshal(contact)
	if err != nil {
		return nil, fmt.Errorf("marshalling contact: %w", err)
	}

	if b.Crypto == nil {
		return plain, nil
	}

	ciphertext, err := b.Crypto.Encrypt(ctx, firmID, plain)
	if err != nil {
		return nil, fmt.Errorf("encrypting contact: %w", err)
	}

	envelope := map[string]string{"_enc": ciphertext}

	enc, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("marshalling encrypted envelope: %w", err)
	}

	return enc, nil
}

// decryptContact reverses encryptContact. Rows written without a crypto
// service (no "_enc" envelope) are read back as plain JSON.
func (b *Base) decryptContact(ctx context.Context, firmID string, raw []byte) (models.Contact, error) {
	var envelope map[string]string
	if err := json.Unmarshal(raw, &envelope); err == nil {
		if ciphertext, ok := envelope["_enc"]; ok {
			if b.Crypto == nil {
				return models.Contact{}, fmt.Errorf("contact is encrypted but no encryption key is configured")
			}

			plain, err := b.Crypto.Decrypt(ctx, firmID, ciphertext)
			if err != nil {
				return models.Contact{}, fmt.Errorf("decrypting contact: %w", err)
			}

			raw = plain
		}
	}

	var contact models.Contact
	if err := json.Unmarshal(raw, &contact); err != nil {
		return models.Contact{}, fmt.Errorf("unmarshalling contact: %w", err)
	}

	return contact, nil
}
