package models

// Enrichment sources recorded in provenance.
const (
	EnrichmentSourceExternal = "external"
	EnrichmentSourceFallback = "fallback"
)

// Provenance records where an enrichment result came from, so that a
// stored result can always be traced back to the classifier that made it.
type Provenance struct {
	Source     string `json:"source"`
	Model      string `json:"model"`
	PromptTag  string `json:"prompt_tag"`
	Redactions int    `json:"redactions"`
}

// EnrichmentResult is the structured output of the enrichment adapter.
// The input text is redacted before enrichment, so Summary and FollowUps
// never contain raw PII.
type EnrichmentResult struct {
	Summary        string     `json:"summary"`
	Classification string     `json:"classification"`
	FollowUps      []string   `json:"follow_ups"`
	Provenance     Provenance `json:"provenance"`
}
