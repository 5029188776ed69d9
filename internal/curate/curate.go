// Package curate implements the scoring, deduplication, and section
// allocation engine behind the daily briefing, driven by learned user
// preference weights.
package curate

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/axeandlord/brief/internal/config"
	"github.com/axeandlord/brief/internal/database"
	"github.com/axeandlord/brief/internal/feeds"
	"github.com/axeandlord/brief/internal/textsim"
)

// CuratedArticle wraps an article with its computed score, optional AI
// summary text, and related coverage from earlier briefings. It lives only
// for the duration of a curation run.
type CuratedArticle struct {
	Article      feeds.Article
	Score        float64
	AISummary    string
	WhyItMatters string
	Related      []database.CachedArticle
}

// Summarizer fills in AI summary text on curated articles. Implementations
// must tolerate failure silently; summaries are best-effort.
type Summarizer interface {
	Summarize(ctx context.Context, articles []*CuratedArticle)
}

// Result holds the outcome of a curation run.
type Result struct {
	Sections      map[string][]*CuratedArticle
	SectionOrder  []string
	InputCount    int
	SurvivorCount int
	ScoredCount   int
	RelationCount int
	BoostedCount  int
	ShownCount    int
}

// Curator runs the batch curation pipeline: dedup, score, cross-reference
// boost, sort, and section allocation, reading a preference snapshot at the
// start of the run.
type Curator struct {
	cfg        *config.Config
	db         *database.DB
	summarizer Summarizer
}

// New creates a Curator. summarizer may be nil to skip AI summaries.
func New(cfg *config.Config, db *database.DB, summarizer Summarizer) *Curator {
	return &Curator{cfg: cfg, db: db, summarizer: summarizer}
}

// Run curates a batch of articles into briefing sections. Storage errors
// are fatal: the scoring pipeline needs a consistent weight snapshot.
func (c *Curator) Run(ctx context.Context, articles []feeds.Article) (*Result, error) {
	r := &Result{InputCount: len(articles)}

	weights, err := c.db.GetLearnedWeights()
	if err != nil {
		return nil, fmt.Errorf("loading learned weights: %w", err)
	}
	if len(weights.Categories) > 0 || len(weights.Keywords) > 0 {
		log.Printf("Loaded %d category weights, %d keyword weights",
			len(weights.Categories), len(weights.Keywords))
	} else {
		log.Println("No learned weights yet (new user)")
	}

	// Periodic decay keeps one-time signals from sticking forever. The
	// curation run is the scheduling guard against double application.
	decayed, err := c.db.DecayOldPreferences(c.cfg.Learning.DecayAfterDays, c.cfg.Learning.DecayFactor)
	if err != nil {
		return nil, fmt.Errorf("decaying preferences: %w", err)
	}
	if decayed > 0 {
		log.Printf("Decayed %d stale preference weights", decayed)
	}

	survivors, relations := Dedupe(articles, c.cfg.Dedup.SimilarityThreshold, c.cfg.Dedup.RelationThreshold)
	r.SurvivorCount = len(survivors)
	log.Printf("Deduplicated %d articles to %d", len(articles), len(survivors))

	for _, rel := range relations {
		if err := c.db.RecordArticleRelation(rel.HashA, rel.HashB, rel.Type, rel.Similarity); err != nil {
			log.Printf("Failed to record relation: %v", err)
		}
	}
	r.RelationCount = len(relations)

	now := time.Now().UTC()
	var scored []*CuratedArticle
	for _, a := range survivors {
		s := Score(a, c.cfg, weights, now)
		if s >= c.cfg.Scoring.MinScore {
			scored = append(scored, &CuratedArticle{Article: a, Score: s})
		}
	}
	r.ScoredCount = len(scored)
	log.Printf("%d articles above score threshold %.2f", len(scored), c.cfg.Scoring.MinScore)

	sortByScore(scored)

	// Corroboration: stories covered by multiple surviving sources score up.
	titles := make([]string, len(scored))
	for i, cu := range scored {
		titles[i] = cu.Article.Title
	}
	for _, cu := range scored {
		bonus := CrossReferenceBonus(cu.Article.Title, titles)
		if bonus > 0 {
			cu.Score += bonus * c.cfg.Scoring.CrossReferenceBonus
			r.BoostedCount++
		}
	}
	if r.BoostedCount > 0 {
		sortByScore(scored)
		log.Printf("Cross-reference bonus applied to %d articles", r.BoostedCount)
	}

	if c.summarizer != nil {
		c.summarizer.Summarize(ctx, scored)
	}

	r.Sections = Allocate(scored, c.cfg.Brief.Sections)
	for _, s := range c.cfg.Brief.Sections {
		r.SectionOrder = append(r.SectionOrder, s.Name)
	}

	// Historical context from earlier briefings. Looked up before this
	// batch is cached so articles cannot match their own run.
	for _, name := range r.SectionOrder {
		for _, cu := range r.Sections[name] {
			keywords := textsim.Keywords(cu.Article.Title, 5)
			related, err := c.db.FindRelatedCachedArticles(keywords, cu.Article.Category, 30, 3)
			if err != nil {
				log.Printf("Failed to look up related articles: %v", err)
				continue
			}
			for _, rel := range related {
				if rel.ArticleHash != cu.Article.Hash {
					cu.Related = append(cu.Related, rel)
				}
			}
		}
	}

	// Track shown articles so engagement signals can attach to them later.
	for _, name := range r.SectionOrder {
		for _, cu := range r.Sections[name] {
			a := cu.Article
			if err := c.db.RecordArticleShown(a.Hash, a.Title, a.Source, a.Category, a.Link); err != nil {
				log.Printf("Failed to record shown article: %v", err)
				continue
			}
			if err := c.db.CacheArticle(database.CachedArticle{
				ArticleHash: a.Hash,
				Title:       a.Title,
				Summary:     a.Summary,
				AISummary:   cu.AISummary,
				Source:      a.Source,
				Category:    a.Category,
				URL:         a.Link,
				PublishedAt: a.Published.Format(time.DateTime),
			}); err != nil {
				log.Printf("Failed to cache article: %v", err)
			}
			r.ShownCount++
		}
	}
	log.Printf("Tracked %d shown articles for learning", r.ShownCount)

	return r, nil
}

// sortByScore sorts descending by score, stable so ties keep batch order.
func sortByScore(scored []*CuratedArticle) {
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
}
