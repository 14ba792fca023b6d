package enrich

import (
	"strings"

	"github.com/lexintake/lexintake/internal/models"
)

// Provenance stamps for the deterministic fallback.
const (
	fallbackModel     = "heuristic-v1"
	fallbackPromptTag = "intake-v1"
)

// maxFollowUps caps the follow-up question list.
const maxFollowUps = 5

// maxSummaryRunes bounds the first-sentence summary.
const maxSummaryRunes = 180

// classificationRule maps keywords to a claim category. Rules are applied
// in order and the first match wins; earlier, more specific rules must
// stay ahead of later, more general ones because reordering changes
// classification outcomes.
type classificationRule struct {
	category string
	keywords []string
}

var classificationRules = []classificationRule{
	{"Personal Injury", []string{"accident", "injur", "whiplash", "hospital", "doctor"}},
	{"Defamation", []string{"defam", "libel", "slander", "reputation"}},
	{"Contract", []string{"contract", "agreement", "breach", "terms"}},
	{"Negligence", []string{"negligence", "duty of care", "omission"}},
	{"Family", []string{"family", "divorce", "custody", "maintenance"}},
	{"Conveyancing", []string{"property", "conveyancing", "title", "lease"}},
	{"Commercial", []string{"company", "commercial", "shareholder"}},
	{"Employment", []string{"employ", "workplace", "dismissal", "harass"}},
}

// DefaultCategory is returned when no rule matches.
const DefaultCategory = "Other"

// genericFollowUps are asked when no category-specific questions apply.
var genericFollowUps = []string{
	"Please provide any documents or photos relevant to the matter.",
	"Were there any witnesses? If so, please share their contact details.",
	"Have you received any correspondence from the other party or insurers?",
}

var categoryFollowUps = map[string][]string{
	"Personal Injury": {
		"What was the extent of your injuries?",
		"Have you sought medical treatment?",
		"Do you have any documentation of the incident?",
		"Have you reported this to any authorities?",
	},
	"Employment": {
		"How long were you employed before the incident?",
		"Did you raise a grievance with your employer?",
		"Do you have a copy of your contract of employment?",
	},
	"Contract": {
		"Do you have a signed copy of the agreement?",
		"When did the other party stop performing their obligations?",
		"Have you suffered a quantifiable loss as a result?",
	},
}

// Fallback is the deterministic enrichment used when no external
// classifier is configured or the configured one fails.
func Fallback(text string, redactions int) *models.EnrichmentResult {
	return &models.EnrichmentResult{
		Summary:        firstSentence(text),
		Classification: Classify(text),
		FollowUps:      followUps(Classify(text)),
		Provenance: models.Provenance{
			Source:     models.EnrichmentSourceFallback,
			Model:      fallbackModel,
			PromptTag:  fallbackPromptTag,
			Redactions: redactions,
		},
	}
}

// Classify maps text to a claim category by ordered, case-insensitive
// keyword matching. First matching rule wins; DefaultCategory if none.
func Classify(text string) string {
	t := strings.ToLower(text)
	for _, rule := range classificationRules {
		for _, kw := range rule.keywords {
			if strings.Contains(t, kw) {
				return rule.category
			}
		}
	}
	return DefaultCategory
}

// firstSentence derives the summary: everything up to the first period or
// newline, truncated to maxSummaryRunes, with a trailing period restored.
func firstSentence(text string) string {
	cut := strings.IndexAny(text, ".\n")
	s := text
	if cut >= 0 {
		s = text[:cut]
	}

	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxSummaryRunes {
		runes = runes[:maxSummaryRunes]
	}

	out := strings.TrimSpace(string(runes))
	if out == "" {
		return "Summary unavailable."
	}
	if !strings.HasSuffix(out, ".") {
		out += "."
	}
	return out
}

// followUps returns at most maxFollowUps questions, preferring
// category-specific ones over the generic fallbacks.
func followUps(category string) []string {
	qs, ok := categoryFollowUps[category]
	if !ok {
		qs = genericFollowUps
	}

	if len(qs) > maxFollowUps {
		qs = qs[:maxFollowUps]
	}

	out := make([]string, len(qs))
	copy(out, qs)
	return out
}
