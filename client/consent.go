package client

import "context"

// ConsentService handles the firm-level AI enrichment consent flag.
type ConsentService struct {
	c *Client
}

// Get returns the firm's current consent state. A firm that has never
// recorded a choice reports allowed.
func (s *ConsentService) Get(ctx context.Context) (*ConsentRecord, error) {
	var rec ConsentRecord
	if err := s.c.get(ctx, "/api/v1/consent", nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Set records the firm's consent choice.
func (s *ConsentService) Set(ctx context.Context, allowed bool) (*ConsentRecord, error) {
	var rec ConsentRecord
	body := map[string]bool{"consent": allowed}
	if err := s.c.put(ctx, "/api/v1/consent", body, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}
