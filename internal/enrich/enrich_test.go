package enrich_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lexintake/lexintake/internal/enrich"
	"github.com/lexintake/lexintake/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return log
}

func TestClassify_OrderedFirstMatchWins(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "personal injury", text: "I was in a car accident and went to hospital", want: "Personal Injury"},
		{name: "defamation", text: "They published libel about me", want: "Defamation"},
		{name: "contract", text: "They are in breach of our agreement", want: "Contract"},
		{name: "negligence", text: "The builder owed me a duty of care", want: "Negligence"},
		{name: "family", text: "I am seeking custody of my children", want: "Family"},
		{name: "conveyancing", text: "There is an issue with the title deeds on the lease", want: "Conveyancing"},
		{name: "commercial", text: "A shareholder dispute in the company", want: "Commercial"},
		{name: "employment", text: "I suffered an unfair dismissal at my workplace", want: "Employment"},
		{name: "no match", text: "Something else entirely happened", want: "Other"},
		{name: "case insensitive", text: "WHIPLASH after the collision", want: "Personal Injury"},
		// "accident" (rule 1) appears alongside "contract" (rule 3):
		// earlier rule must win regardless of word order in the text.
		{name: "earlier rule wins", text: "The contract dispute arose after the accident", want: "Personal Injury"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := enrich.Classify(tc.text); got != tc.want {
				t.Errorf("Classify(%q) = %q, want %q", tc.text, got, tc.want)
			}
		})
	}
}

func TestFallback_SummaryFromFirstSentence(t *testing.T) {
	res := enrich.Fallback("I slipped at work. It was raining that day.", 2)

	if res.Summary != "I slipped at work." {
		t.Errorf("Summary = %q", res.Summary)
	}
	if res.Provenance.Source != models.EnrichmentSourceFallback {
		t.Errorf("Source = %q", res.Provenance.Source)
	}
	if res.Provenance.Redactions != 2 {
		t.Errorf("Redactions = %d, want 2", res.Provenance.Redactions)
	}
}

func TestFallback_SummaryTruncatedAndTerminated(t *testing.T) {
	long := strings.Repeat("a", 500)
	res := enrich.Fallback(long, 0)

	if got := len([]rune(res.Summary)); got > 181 {
		t.Errorf("summary length = %d runes, want <= 181", got)
	}
	if !strings.HasSuffix(res.Summary, ".") {
		t.Errorf("summary %q missing trailing period", res.Summary)
	}
}

func TestFallback_EmptyNarrative(t *testing.T) {
	res := enrich.Fallback("", 0)

	if res.Summary != "Summary unavailable." {
		t.Errorf("Summary = %q", res.Summary)
	}
	if res.Classification != enrich.DefaultCategory {
		t.Errorf("Classification = %q", res.Classification)
	}
}

func TestFallback_FollowUpsCappedAndSpecific(t *testing.T) {
	res := enrich.Fallback("I was injured in an accident", 0)

	if len(res.FollowUps) == 0 || len(res.FollowUps) > 5 {
		t.Fatalf("got %d follow-ups, want 1..5", len(res.FollowUps))
	}
	if res.FollowUps[0] != "What was the extent of your injuries?" {
		t.Errorf("expected domain-specific follow-ups, got %q", res.FollowUps[0])
	}

	generic := enrich.Fallback("something uncategorised", 0)
	if len(generic.FollowUps) != 3 {
		t.Errorf("generic follow-ups = %d, want 3", len(generic.FollowUps))
	}
}

type stubProvider struct {
	result *models.EnrichmentResult
	err    error
	delay  time.Duration
}

func (p *stubProvider) Enrich(ctx context.Context, _ string) (*models.EnrichmentResult, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return p.result, p.err
}

func TestAdapter_NilProviderUsesFallback(t *testing.T) {
	a := enrich.NewAdapter(nil, time.Second, testLogger())

	res := a.Enrich(context.Background(), "A workplace dismissal dispute.", 1)

	if res.Provenance.Source != models.EnrichmentSourceFallback {
		t.Errorf("Source = %q, want fallback", res.Provenance.Source)
	}
	if res.Classification != "Employment" {
		t.Errorf("Classification = %q", res.Classification)
	}
}

func TestAdapter_ProviderResultStamped(t *testing.T) {
	p := &stubProvider{result: &models.EnrichmentResult{
		Summary:        "External summary.",
		Classification: "Contract",
		FollowUps:      []string{"q1", "q2", "q3", "q4", "q5", "q6", "q7"},
		Provenance:     models.Provenance{Model: "big-model-4", PromptTag: "intake-v2"},
	}}
	a := enrich.NewAdapter(p, time.Second, testLogger())

	res := a.Enrich(context.Background(), "text", 3)

	if res.Provenance.Source != models.EnrichmentSourceExternal {
		t.Errorf("Source = %q, want external", res.Provenance.Source)
	}
	if res.Provenance.Redactions != 3 {
		t.Errorf("Redactions = %d, want 3", res.Provenance.Redactions)
	}
	if len(res.FollowUps) != 5 {
		t.Errorf("follow-ups = %d, want capped at 5", len(res.FollowUps))
	}
}

func TestAdapter_ProviderErrorFallsBack(t *testing.T) {
	a := enrich.NewAdapter(&stubProvider{err: errors.New("upstream 500")}, time.Second, testLogger())

	res := a.Enrich(context.Background(), "A breach of contract claim.", 0)

	if res.Provenance.Source != models.EnrichmentSourceFallback {
		t.Errorf("Source = %q, want fallback after provider error", res.Provenance.Source)
	}
	if res.Classification != "Contract" {
		t.Errorf("Classification = %q", res.Classification)
	}
}

func TestAdapter_TimeoutFallsBack(t *testing.T) {
	p := &stubProvider{delay: 500 * time.Millisecond, result: &models.EnrichmentResult{Summary: "late"}}
	a := enrich.NewAdapter(p, 20*time.Millisecond, testLogger())

	start := time.Now()
	res := a.Enrich(context.Background(), "An accident claim.", 0)

	if elapsed := time.Since(start); elapsed > 200*time.Millisecond {
		t.Errorf("Enrich blocked for %v past its timeout", elapsed)
	}
	if res.Provenance.Source != models.EnrichmentSourceFallback {
		t.Errorf("Source = %q, want fallback after timeout", res.Provenance.Source)
	}
}
