package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lexintake/lexintake/internal/models"
)

// maxProviderResponse caps how much of a classifier response is read.
const maxProviderResponse = 1 << 20 // 1 MB

// HTTPProvider calls an external classifier service. The service receives
// redacted text on POST /enrich and answers with an EnrichmentResult.
// Timeouts and fallback are the Adapter's job; this type only does the wire
// call and honors ctx cancellation through the request.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a provider targeting the classifier at baseURL.
func NewHTTPProvider(baseURL string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{},
	}
}

// Enrich sends redacted text to the classifier and decodes its result.
func (p *HTTPProvider) Enrich(ctx context.Context, text string) (*models.EnrichmentResult, error) {
	body, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encoding enrich request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/enrich", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building enrich request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling enrich provider: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("enrich provider returned status %d", resp.StatusCode)
	}

	var result models.EnrichmentResult
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxProviderResponse)).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding enrich response: %w", err)
	}

	if result.Classification == "" {
		return nil, fmt.Errorf("enrich provider returned no classification")
	}

	return &result, nil
}
