package database

import "testing"

func TestCacheArticleReplace(t *testing.T) {
	db := openTestDB(t)

	a := CachedArticle{
		ArticleHash: "abc123",
		Title:       "Fed raises rates",
		Summary:     "summary",
		Source:      "Reuters",
		Category:    "finance",
		URL:         "https://example.com/fed",
		PublishedAt: "2026-08-29 10:00:00",
	}
	if err := db.CacheArticle(a); err != nil {
		t.Fatalf("cache: %v", err)
	}

	a.AISummary = "The Fed raised rates by half a point."
	if err := db.CacheArticle(a); err != nil {
		t.Fatalf("re-cache: %v", err)
	}

	var count int
	db.conn.QueryRow("SELECT COUNT(*) FROM article_cache WHERE article_hash = 'abc123'").Scan(&count)
	if count != 1 {
		t.Errorf("expected 1 cached row, got %d", count)
	}

	var aiSummary string
	db.conn.QueryRow("SELECT ai_summary FROM article_cache WHERE article_hash = 'abc123'").Scan(&aiSummary)
	if aiSummary == "" {
		t.Error("expected AI summary updated on replace")
	}
}

func TestFindRelatedCachedArticles(t *testing.T) {
	db := openTestDB(t)

	db.CacheArticle(CachedArticle{ArticleHash: "h1", Title: "Fed raises interest rates", Category: "finance"})
	db.CacheArticle(CachedArticle{ArticleHash: "h2", Title: "New AI model released", Category: "tech_ai"})
	db.CacheArticle(CachedArticle{ArticleHash: "h3", Title: "Election polls tighten", Category: "politics"})

	related, err := db.FindRelatedCachedArticles([]string{"interest"}, "tech_ai", 7, 5)
	if err != nil {
		t.Fatalf("find related: %v", err)
	}

	// Matches by category (tech_ai) or keyword (interest).
	if len(related) != 2 {
		t.Fatalf("expected 2 related articles, got %d", len(related))
	}
	hashes := map[string]bool{}
	for _, a := range related {
		hashes[a.ArticleHash] = true
	}
	if !hashes["h1"] || !hashes["h2"] {
		t.Errorf("expected h1 and h2, got %v", hashes)
	}
}
