package curate

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/axeandlord/brief/internal/config"
	"github.com/axeandlord/brief/internal/database"
	"github.com/axeandlord/brief/internal/feeds"
)

// ScoreCap is the upper bound on an article's relevance score. There is no
// lower bound; the min_score threshold is the survival gate.
const ScoreCap = 2.0

var clickbaitPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bYOU WON'?T BELIEVE\b`),
	regexp.MustCompile(`\bSHOCKING\b`),
	regexp.MustCompile(`\bBREAKING\b.*!`),
	regexp.MustCompile(`^\d+\s+(?:THINGS|WAYS|REASONS)\b`),
	regexp.MustCompile(`\bWHAT HAPPENS NEXT\b`),
}

var numericUnitPattern = regexp.MustCompile(`(?i)\d+(?:\.\d+)?\s*(?:percent|%|million|billion|thousand)`)

// extractionExempt reports whether a link belongs to a domain class where
// full-text extraction is known to fail; those get no quality penalty.
func extractionExempt(link string) bool {
	return strings.Contains(link, "arxiv") || strings.Contains(link, "reddit.com")
}

// Score computes the relevance score for an article. Deterministic: the
// same article, config, weights, and reference time always produce the same
// score. The category weight is multiplicative and applied before any
// bonuses, so a zero-interest category stays suppressed.
func Score(a feeds.Article, cfg *config.Config, weights *database.Weights, now time.Time) float64 {
	score := 0.5 // neutral prior

	categoryWeight := 1.0
	if w, ok := cfg.Interests.Categories[a.Category]; ok {
		categoryWeight = w
	}
	if weights != nil {
		if learned, ok := weights.Categories[a.Category]; ok {
			categoryWeight *= learned
		}
	}
	score *= categoryWeight

	// Static keyword tiers: at most one bonus per tier.
	text := strings.ToLower(a.Title + " " + a.Summary)
	for _, kw := range cfg.Interests.Keywords.HighPriority {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += 0.3
			break
		}
	}
	for _, kw := range cfg.Interests.Keywords.MediumPriority {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += 0.2
			break
		}
	}
	for _, kw := range cfg.Interests.Keywords.LowPriority {
		if strings.Contains(text, strings.ToLower(kw)) {
			score += 0.1
			break
		}
	}

	// Learned keyword boosts are cumulative. Iterate in sorted order so the
	// floating-point sum is reproducible.
	if weights != nil && len(weights.Keywords) > 0 {
		kws := make([]string, 0, len(weights.Keywords))
		for kw := range weights.Keywords {
			kws = append(kws, kw)
		}
		sort.Strings(kws)
		for _, kw := range kws {
			if strings.Contains(text, strings.ToLower(kw)) {
				score += (weights.Keywords[kw] - 1.0) * 0.1
			}
		}
	}

	score += a.Reliability * cfg.Scoring.ReliabilityWeight
	if a.Reliability >= 0.9 {
		score += cfg.Scoring.HighReliabilityBonus
	}

	// Recency: freshest applicable tier only.
	age := now.Sub(a.Published)
	switch {
	case age < 3*time.Hour:
		score += 0.15
	case age < 6*time.Hour:
		score += 0.1
	case age < 12*time.Hour:
		score += 0.05
	}

	if a.FullText != "" {
		// Substantive content, quotes, and hard numbers indicate real reporting.
		if len(a.FullText) > 500 {
			score += 0.1
		}
		if strings.ContainsAny(a.FullText, `"'`) {
			score += 0.05
		}
		if numericUnitPattern.MatchString(a.FullText) {
			score += 0.05
		}
	} else if a.Link != "" && !extractionExempt(a.Link) {
		// Extraction failed: possibly paywalled or low quality.
		score -= 0.1
	}

	titleUpper := strings.ToUpper(a.Title)
	for _, pattern := range clickbaitPatterns {
		if pattern.MatchString(titleUpper) {
			score -= 0.15
			break
		}
	}

	if score > ScoreCap {
		score = ScoreCap
	}
	return score
}
