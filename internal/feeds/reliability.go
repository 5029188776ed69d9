package feeds

import "strings"

// DefaultReliability is the fallback reliability for unknown sources.
const DefaultReliability = 0.75

// sourceReliability holds per-source reliability scores used when the feed
// config does not specify one. Higher scores mean more trustworthy. Kept as
// an ordered list: lookup is by substring and the first match wins, so a
// name matching several entries always resolves the same way.
var sourceReliability = []struct {
	name  string
	score float64
}{
	// Tier 1 (0.90-1.0)
	{"Reuters", 0.95},
	{"CBC", 0.90},
	{"Radio-Canada", 0.90},
	{"Le Devoir", 0.90},
	{"Bloomberg", 0.90},
	{"The Economist", 0.95},
	{"ArXiv", 1.0},
	{"ScienceDaily", 0.95},

	// Tier 2 (0.80-0.89)
	{"CTV", 0.85},
	{"Global News", 0.85},
	{"Montreal Gazette", 0.85},
	{"Al Jazeera", 0.85},
	{"BNN", 0.85},

	// Tier 3 (0.70-0.79)
	{"TechCrunch", 0.80},
	{"The Verge", 0.80},
	{"TVA", 0.80},
	{"Journal de Montreal", 0.75},
}

// ReliabilityScore returns the reliability score for a source name, matching
// known sources by substring in list order.
func ReliabilityScore(sourceName string) float64 {
	nameLower := strings.ToLower(sourceName)
	for _, entry := range sourceReliability {
		if strings.Contains(nameLower, strings.ToLower(entry.name)) {
			return entry.score
		}
	}
	return DefaultReliability
}
