// Package redact masks common PII patterns (emails, phone numbers, dates)
// in free text before it is sent to enrichment or written to logs.
//
// The token mapping is ephemeral: it is returned to the caller for the
// lifetime of one enrichment call and never persisted.
package redact

import (
	"fmt"
	"regexp"
	"strings"
)

// Token types, in the order their patterns are applied.
const (
	TypeEmail = "email"
	TypePhone = "phone"
	TypeDate  = "date"
)

var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	// Pragmatic phone matcher: international and local forms, at least
	// seven digits so short numbers are left alone.
	phoneRe = regexp.MustCompile(`(\+?\d{1,3}[\s-]?)?(\(\d{2,4}\)[\s-]?)?\d{3}[\s-]?\d{4,}`)
	dateRe  = regexp.MustCompile(`\d{4}[-/]\d{2}[-/]\d{2}|\d{2}[-/]\d{2}[-/]\d{4}`)
)

// Token is one (type, original value, placeholder) substitution.
type Token struct {
	Type  string `json:"type"`
	Value string `json:"-"`
	Token string `json:"token"`
}

// Result holds the redacted text and the substitutions that produced it.
type Result struct {
	RedactedText string
	Tokens       []Token
}

// Redact masks emails, phone numbers, and dates in text, in that fixed
// order. Each match of a given type becomes a sequentially numbered
// placeholder ("[EMAIL_1]", "[PHONE_2]", ...). Every literal occurrence of
// a matched value is substituted, not just the first, so the returned text
// never contains any token value even when matches repeat across types.
func Redact(text string) Result {
	out := text
	var tokens []Token

	for _, p := range []struct {
		re  *regexp.Regexp
		typ string
	}{
		{emailRe, TypeEmail},
		{phoneRe, TypePhone},
		{dateRe, TypeDate},
	} {
		counter := 0
		for {
			value := p.re.FindString(out)
			if value == "" {
				break
			}

			counter++
			placeholder := fmt.Sprintf("[%s_%d]", strings.ToUpper(p.typ), counter)
			tokens = append(tokens, Token{Type: p.typ, Value: value, Token: placeholder})
			out = strings.ReplaceAll(out, value, placeholder)
		}
	}

	return Result{RedactedText: out, Tokens: tokens}
}
