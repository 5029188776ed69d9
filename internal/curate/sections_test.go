package curate

import (
	"testing"

	"github.com/axeandlord/brief/internal/config"
	"github.com/axeandlord/brief/internal/feeds"
)

func curated(title, link, category string, score float64) *CuratedArticle {
	return &CuratedArticle{
		Article: feeds.Article{
			Title:    title,
			Link:     link,
			Category: category,
			Hash:     feeds.ArticleHash(title, link),
		},
		Score: score,
	}
}

func TestAllocateExclusivity(t *testing.T) {
	scored := []*CuratedArticle{
		curated("A", "https://x.com/a", "tech_ai", 1.5),
		curated("B", "https://x.com/b", "tech_ai", 1.4),
		curated("C", "https://x.com/c", "finance", 1.3),
		curated("D", "https://x.com/d", "world", 1.2),
	}
	sections := []config.Section{
		{Name: "Top Stories", Count: 2},
		{Name: "AI", Count: 2, Category: "tech_ai"},
		{Name: "Markets", Count: 2, Category: "finance"},
	}

	result := Allocate(scored, sections)

	seen := make(map[string]string)
	for name, items := range result {
		for _, c := range items {
			if prev, ok := seen[c.Article.Link]; ok {
				t.Errorf("article %s appears in both %s and %s", c.Article.Link, prev, name)
			}
			seen[c.Article.Link] = name
		}
	}
}

func TestAllocateDeclarationOrderWins(t *testing.T) {
	scored := []*CuratedArticle{
		curated("A", "https://x.com/a", "tech_ai", 1.5),
		curated("B", "https://x.com/b", "finance", 1.4),
	}
	sections := []config.Section{
		{Name: "Top Stories", Count: 2},
		{Name: "AI", Count: 2, Category: "tech_ai"},
	}

	result := Allocate(scored, sections)

	// Top Stories, declared first, consumes the tech_ai article even though
	// the AI section would also want it.
	if len(result["Top Stories"]) != 2 {
		t.Errorf("expected Top Stories to take both, got %d", len(result["Top Stories"]))
	}
	if len(result["AI"]) != 0 {
		t.Errorf("expected AI section empty, got %d", len(result["AI"]))
	}
}

func TestAllocateCategoryFilter(t *testing.T) {
	scored := []*CuratedArticle{
		curated("A", "https://x.com/a", "world", 1.5),
		curated("B", "https://x.com/b", "finance", 1.4),
		curated("C", "https://x.com/c", "finance", 1.3),
	}
	sections := []config.Section{
		{Name: "Markets", Count: 5, Category: "finance"},
	}

	result := Allocate(scored, sections)
	if len(result["Markets"]) != 2 {
		t.Fatalf("expected 2 finance articles, got %d", len(result["Markets"]))
	}
	for _, c := range result["Markets"] {
		if c.Article.Category != "finance" {
			t.Errorf("non-finance article %s in Markets", c.Article.Link)
		}
	}
}

func TestAllocateRespectsCapacityAndOrder(t *testing.T) {
	scored := []*CuratedArticle{
		curated("A", "https://x.com/a", "world", 1.5),
		curated("B", "https://x.com/b", "world", 1.4),
		curated("C", "https://x.com/c", "world", 1.3),
	}
	sections := []config.Section{{Name: "Top Stories", Count: 2}}

	result := Allocate(scored, sections)
	top := result["Top Stories"]
	if len(top) != 2 {
		t.Fatalf("expected capacity 2, got %d", len(top))
	}
	if top[0].Score < top[1].Score {
		t.Error("expected section to preserve score order")
	}
	if top[0].Article.Link != "https://x.com/a" || top[1].Article.Link != "https://x.com/b" {
		t.Error("expected top two articles by score")
	}
}

func TestAllocateEmptyInput(t *testing.T) {
	result := Allocate(nil, []config.Section{{Name: "Top Stories", Count: 5}})
	if len(result["Top Stories"]) != 0 {
		t.Errorf("expected empty section, got %d", len(result["Top Stories"]))
	}
}
