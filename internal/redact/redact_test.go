package redact_test

import (
	"strings"
	"testing"

	"github.com/lexintake/lexintake/internal/redact"
)

func TestRedact_MasksAllThreeTypes(t *testing.T) {
	text := "Contact john.doe@example.com or +353 86 123 4567 about the incident on 2024-03-01."

	res := redact.Redact(text)

	for _, tok := range res.Tokens {
		if strings.Contains(res.RedactedText, tok.Value) {
			t.Errorf("redacted text still contains %q (%s)", tok.Value, tok.Type)
		}
		if !strings.Contains(res.RedactedText, tok.Token) {
			t.Errorf("redacted text missing placeholder %q", tok.Token)
		}
	}

	wantTypes := map[string]bool{redact.TypeEmail: false, redact.TypePhone: false, redact.TypeDate: false}
	for _, tok := range res.Tokens {
		wantTypes[tok.Type] = true
	}
	for typ, seen := range wantTypes {
		if !seen {
			t.Errorf("no %s token produced", typ)
		}
	}
}

func TestRedact_SequentialPlaceholders(t *testing.T) {
	text := "Emails: a@example.com, b@example.com, c@example.com."

	res := redact.Redact(text)

	var emails []redact.Token
	for _, tok := range res.Tokens {
		if tok.Type == redact.TypeEmail {
			emails = append(emails, tok)
		}
	}

	if len(emails) != 3 {
		t.Fatalf("got %d email tokens, want 3", len(emails))
	}

	want := []string{"[EMAIL_1]", "[EMAIL_2]", "[EMAIL_3]"}
	for i, tok := range emails {
		if tok.Token != want[i] {
			t.Errorf("token %d = %q, want %q", i, tok.Token, want[i])
		}
	}
}

func TestRedact_RepeatedValueSubstitutedEverywhere(t *testing.T) {
	text := "Write to a@example.com. I said a@example.com twice."

	res := redact.Redact(text)

	if strings.Contains(res.RedactedText, "a@example.com") {
		t.Errorf("repeated value survived: %q", res.RedactedText)
	}
	if got := strings.Count(res.RedactedText, "[EMAIL_1]"); got != 2 {
		t.Errorf("placeholder count = %d, want 2", got)
	}
	// One token per distinct value, not per occurrence.
	if len(res.Tokens) != 1 {
		t.Errorf("got %d tokens, want 1", len(res.Tokens))
	}
}

func TestRedact_NoPIIIsNoOp(t *testing.T) {
	text := "The meeting went fine and nothing else happened."

	res := redact.Redact(text)

	if res.RedactedText != text {
		t.Errorf("text changed: %q", res.RedactedText)
	}
	if len(res.Tokens) != 0 {
		t.Errorf("got %d tokens, want 0", len(res.Tokens))
	}
}

func TestRedact_AlreadyRedactedIsStable(t *testing.T) {
	first := redact.Redact("Call 086 123 4567 or mail x@y.ie on 01/02/2024.")
	second := redact.Redact(first.RedactedText)

	if second.RedactedText != first.RedactedText {
		t.Errorf("second pass changed text: %q -> %q", first.RedactedText, second.RedactedText)
	}
	if len(second.Tokens) != 0 {
		t.Errorf("second pass produced %d tokens, want 0", len(second.Tokens))
	}
}

func TestRedact_DateFormats(t *testing.T) {
	for _, text := range []string{"on 2024-03-01", "on 01/02/2024", "on 2024/03/01", "on 01-02-2024"} {
		res := redact.Redact(text)
		found := false
		for _, tok := range res.Tokens {
			if tok.Type == redact.TypeDate {
				found = true
			}
		}
		if !found {
			t.Errorf("no date token for %q (got %v)", text, res.Tokens)
		}
	}
}
