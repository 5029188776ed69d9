package curate

import (
	"log"

	"github.com/axeandlord/brief/internal/database"
	"github.com/axeandlord/brief/internal/feeds"
	"github.com/axeandlord/brief/internal/textsim"
)

// Relation is one similarity pair found during deduplication.
type Relation struct {
	HashA      string
	HashB      string
	Type       string
	Similarity float64
}

// Dedupe removes near-duplicate articles from a batch by pairwise title
// similarity, keeping the higher-reliability member of each duplicate pair
// (ties keep the earlier-indexed article). Pairs above relationThreshold are
// reported as relations: same_story at or above dedupThreshold, otherwise
// related_topic. On vectorization failure the input is returned unchanged —
// tolerating duplicates beats failing the run.
func Dedupe(articles []feeds.Article, dedupThreshold, relationThreshold float64) ([]feeds.Article, []Relation) {
	if len(articles) < 2 {
		return articles, nil
	}

	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}

	sim, err := textsim.PairwiseSimilarities(titles)
	if err != nil {
		log.Printf("Title vectorization failed, skipping dedup: %v", err)
		return articles, nil
	}

	keep := make([]bool, len(articles))
	for i := range keep {
		keep[i] = true
	}

	var relations []Relation
	for i := 0; i < len(articles); i++ {
		for j := i + 1; j < len(articles); j++ {
			s := sim[i][j]

			if s >= relationThreshold {
				relType := database.RelationRelatedTopic
				if s >= dedupThreshold {
					relType = database.RelationSameStory
				}
				relations = append(relations, Relation{
					HashA:      articles[i].Hash,
					HashB:      articles[j].Hash,
					Type:       relType,
					Similarity: s,
				})
			}

			// Eliminations accumulate greedily in index order; an article
			// already marked eliminated still wins later comparisons.
			if s >= dedupThreshold {
				if articles[i].Reliability >= articles[j].Reliability {
					keep[j] = false
				} else {
					keep[i] = false
				}
			}
		}
	}

	survivors := make([]feeds.Article, 0, len(articles))
	for i, a := range articles {
		if keep[i] {
			survivors = append(survivors, a)
		}
	}
	return survivors, relations
}
