package curate

import "github.com/axeandlord/brief/internal/textsim"

// CorroborationThreshold is the title similarity above which another batch
// article counts as independent coverage of the same story.
const CorroborationThreshold = 0.7

// CrossReferenceBonus returns a raw corroboration bonus for an article based
// on how many other batch titles report a similar story: ≥3 → 0.30, ≥2 →
// 0.20, ≥1 → 0.15, else 0. The caller scales the bonus by the configured
// cross-reference weight. Degenerate input yields 0.
func CrossReferenceBonus(title string, allTitles []string) float64 {
	others := make([]string, 0, len(allTitles))
	for _, t := range allTitles {
		if t != title {
			others = append(others, t)
		}
	}
	if len(others) == 0 {
		return 0
	}

	docs := append([]string{title}, others...)
	v, err := textsim.NewVectorizer(docs)
	if err != nil {
		return 0
	}

	self := v.Vector(title)
	count := 0
	for _, other := range others {
		if textsim.Cosine(self, v.Vector(other)) >= CorroborationThreshold {
			count++
		}
	}

	switch {
	case count >= 3:
		return 0.30
	case count >= 2:
		return 0.20
	case count >= 1:
		return 0.15
	}
	return 0
}
