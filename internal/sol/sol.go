// Package sol computes limitation-period ("statute of limitations")
// assessments: expiry date, days remaining, and an urgency badge for a
// classified claim.
//
// Strategies are keyed by (jurisdiction, version) so that rule changes
// ship as new versions while historical results stay reproducible; every
// result is stamped with the strategy version and a separately versioned
// disclaimer string.
package sol

import (
	"fmt"
	"strings"
	"time"

	"github.com/lexintake/lexintake/internal/models"
)

// Defaults applied when the caller does not specify a strategy.
const (
	DefaultJurisdiction = "ie"
	DefaultVersion      = "v1"
)

// DisclaimerVersion is bumped whenever any disclaimer wording changes.
const DisclaimerVersion = "2025-01"

// Badge thresholds in calendar days remaining.
const (
	redThreshold   = 30
	amberThreshold = 90
)

// A strategy maps a claim classification and event date to a result.
// now is the assessment time; strategies never call time.Now themselves.
type strategy func(classification string, eventDate, now time.Time) models.LimitationResult

// Calculator resolves (jurisdiction, version) to a strategy and runs it.
type Calculator struct {
	strategies map[string]strategy
	now        func() time.Time
}

// NewCalculator creates a Calculator with all known strategies registered.
func NewCalculator() *Calculator {
	return &Calculator{
		strategies: map[string]strategy{
			strategyKey(DefaultJurisdiction, DefaultVersion): computeIEv1,
		},
		now: time.Now,
	}
}

func strategyKey(jurisdiction, version string) string {
	return strings.ToLower(jurisdiction) + "-" + strings.ToLower(version)
}

// Compute runs the limitation assessment. Empty jurisdiction/version
// select the defaults; unknown combinations fall back to the default
// strategy. Missing classification or event date, or an unparseable event
// date, yields a disclaimer-only result rather than a fabricated deadline.
func (c *Calculator) Compute(classification, eventDateISO, jurisdiction, version string) models.LimitationResult {
	if jurisdiction == "" {
		jurisdiction = DefaultJurisdiction
	}
	if version == "" {
		version = DefaultVersion
	}

	stamp := strategyKey(jurisdiction, version)
	strat, ok := c.strategies[stamp]
	if !ok {
		stamp = strategyKey(DefaultJurisdiction, DefaultVersion)
		strat = c.strategies[stamp]
	}

	if classification == "" || eventDateISO == "" {
		return insufficientInfo(stamp)
	}

	eventDate, err := parseEventDate(eventDateISO)
	if err != nil {
		return insufficientInfo(stamp)
	}

	return strat(classification, eventDate, c.now())
}

func insufficientInfo(version string) models.LimitationResult {
	return models.LimitationResult{
		Disclaimer:        "Insufficient information for limitation assessment.",
		Version:           version,
		DisclaimerVersion: DisclaimerVersion,
	}
}

func parseEventDate(iso string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", iso); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, iso)
}

// yearsForClaimIEv1 maps a classification to a limitation period in years
// by ordered substring rules. First match wins; the order is load-bearing.
func yearsForClaimIEv1(classification string) (int, bool) {
	c := strings.ToLower(classification)
	switch {
	case strings.Contains(c, "defamation"):
		return 1, true
	case strings.Contains(c, "personal injury"), strings.Contains(c, "pi"):
		return 2, true
	case strings.Contains(c, "contract"), strings.Contains(c, "negligence"):
		return 6, true
	}
	return 0, false
}

// computeIEv1 is the Ireland v1 strategy.
func computeIEv1(classification string, eventDate, now time.Time) models.LimitationResult {
	const version = "ie-v1"

	years, ok := yearsForClaimIEv1(classification)
	if !ok {
		// Unknown category: no computed expiry and the non-alarming
		// green tier, so users are not shown a false deadline.
		return models.LimitationResult{
			Badge:             models.BadgeGreen,
			Disclaimer:        "Claim category not recognised for limitation mapping (" + version + ").",
			Version:           version,
			DisclaimerVersion: DisclaimerVersion,
		}
	}

	expiry := eventDate.AddDate(years, 0, 0)
	days := calendarDaysBetween(now, expiry)

	badge := models.BadgeGreen
	switch {
	case days < redThreshold:
		badge = models.BadgeRed
	case days <= amberThreshold:
		badge = models.BadgeAmber
	}

	expiryISO := expiry.Format("2006-01-02")

	return models.LimitationResult{
		ExpiryDate:        &expiryISO,
		DaysRemaining:     &days,
		Badge:             badge,
		Basis:             fmt.Sprintf("%s - %d years from date of event", classification, years),
		Disclaimer:        "Indicative only; seek legal advice. Not a substitute for professional judgment.",
		Version:           version,
		DisclaimerVersion: DisclaimerVersion,
	}
}

// calendarDaysBetween returns whole UTC calendar days from a to b,
// ignoring time of day. Negative when b is in the past.
func calendarDaysBetween(a, b time.Time) int {
	au := a.UTC()
	bu := b.UTC()
	ad := time.Date(au.Year(), au.Month(), au.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(bu.Year(), bu.Month(), bu.Day(), 0, 0, 0, 0, time.UTC)

	return int(bd.Sub(ad) / (24 * time.Hour))
}
