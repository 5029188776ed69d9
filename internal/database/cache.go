package database

import (
	"fmt"
	"strings"
	"time"
)

// CacheArticle stores a shown article for historical context and relation
// building. Re-caching the same hash replaces the previous row.
func (db *DB) CacheArticle(a CachedArticle) error {
	_, err := db.conn.Exec(`
		INSERT OR REPLACE INTO article_cache
		(article_hash, title, summary, ai_summary, source, category, url, published_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ArticleHash, a.Title, a.Summary, a.AISummary, a.Source, a.Category, a.URL, a.PublishedAt,
	)
	if err != nil {
		return fmt.Errorf("caching article %s: %w", a.ArticleHash, err)
	}
	return nil
}

// FindRelatedCachedArticles looks up recent cached articles matching the
// category or any of the keywords, newest first.
func (db *DB) FindRelatedCachedArticles(keywords []string, category string, daysBack, limit int) ([]CachedArticle, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysBack).Format(time.DateTime)

	conds := []string{"category = ?"}
	args := []any{category}
	for _, kw := range keywords {
		conds = append(conds, "title LIKE ?")
		args = append(args, "%"+kw+"%")
	}
	args = append(args, cutoff, limit)

	query := fmt.Sprintf(`
		SELECT article_hash, COALESCE(title, ''), COALESCE(summary, ''), COALESCE(ai_summary, ''),
			COALESCE(source, ''), COALESCE(category, ''), COALESCE(url, ''),
			COALESCE(published_at, ''), fetched_at
		FROM article_cache
		WHERE (%s) AND fetched_at > ?
		ORDER BY fetched_at DESC
		LIMIT ?`, strings.Join(conds, " OR "))

	rows, err := db.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []CachedArticle
	for rows.Next() {
		var a CachedArticle
		if err := rows.Scan(&a.ArticleHash, &a.Title, &a.Summary, &a.AISummary,
			&a.Source, &a.Category, &a.URL, &a.PublishedAt, &a.FetchedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
