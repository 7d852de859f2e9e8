package match

import (
	"strings"
	"time"
	"unicode"
)

// Category buckets a match into the lifecycle stage that drives cache
// policy and poll cadence.
type Category string

const (
	CategoryFinished Category = "finished"
	CategoryLive     Category = "live"
	CategoryUpcoming Category = "upcoming"
	CategoryOther    Category = "other"
)

// Status vocabularies differ between the CMS and the sports-data provider,
// and the provider mixes English and Swedish labels. Long synonyms are
// matched case-insensitively as substrings so variants like "Match finished"
// or "Slutspelad efter straffar" land in the right bucket. The short
// abbreviations ("FT", "AET", "Over") are matched as whole words only:
// "Halftime" contains "ft" and "Overtime" contains "over", and both are
// live statuses.
var (
	finishedSynonyms = []string{"finished", "slutspelad", "fulltime", "full-time", "avslutad"}
	finishedTokens   = []string{"ft", "aet", "over"}
	liveSynonyms     = []string{"live", "ongoing", "inprogress", "in progress", "halftime", "half-time", "paus", "1st half", "2nd half", "penalty", "overtime"}
	upcomingSynonyms = []string{"upcoming", "not started", "notstarted", "scheduled", "kommande", "ej startad", "pre-match"}
)

// Classify maps a raw status string to its lifecycle category. Pure and
// deterministic; unknown input maps to CategoryOther.
func Classify(status string) Category {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return CategoryOther
	}

	// Finished wins over live so "slutspelad efter förlängning" is never
	// misread as overtime still running.
	for _, synonym := range finishedSynonyms {
		if strings.Contains(normalized, synonym) {
			return CategoryFinished
		}
	}
	if containsToken(normalized, finishedTokens) {
		return CategoryFinished
	}
	for _, synonym := range liveSynonyms {
		if strings.Contains(normalized, synonym) {
			return CategoryLive
		}
	}
	for _, synonym := range upcomingSynonyms {
		if strings.Contains(normalized, synonym) {
			return CategoryUpcoming
		}
	}

	return CategoryOther
}

// containsToken reports whether any word of the normalized status equals one
// of the tokens. Words are runs of letters and digits.
func containsToken(normalized string, tokens []string) bool {
	words := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		for _, token := range tokens {
			if word == token {
				return true
			}
		}
	}
	return false
}

// ClassifyWithKickoff falls back to the kickoff time when the status alone
// is ambiguous: a match with no recognizable status but a future kickoff is
// treated as upcoming.
func ClassifyWithKickoff(status string, kickoffAt, now time.Time) Category {
	if category := Classify(status); category != CategoryOther {
		return category
	}
	if !kickoffAt.IsZero() && kickoffAt.After(now) {
		return CategoryUpcoming
	}
	return CategoryOther
}

// Lifecycle classifies the match record itself.
func (m UnifiedMatch) Lifecycle(now time.Time) Category {
	return ClassifyWithKickoff(m.Status, m.KickoffAt, now)
}
