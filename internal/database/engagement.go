package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// RecordArticleShown records that an article was selected into a briefing
// section. Idempotent: repeated calls for the same hash are no-ops and do
// not touch the original shown timestamp.
func (db *DB) RecordArticleShown(articleHash, title, source, category, url string) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO article_engagement
		(article_hash, title, source, category, url, shown_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		articleHash, title, source, category, url, now(),
	)
	if err != nil {
		return fmt.Errorf("recording shown article %s: %w", articleHash, err)
	}
	return nil
}

// RecordClick marks an article clicked, appends a click-history entry tagged
// with hour-of-day and day-of-week, and boosts the category weight. The
// engagement update and the preference boost commit together.
func (db *DB) RecordClick(articleHash, category string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("recording click: %w", err)
	}
	defer tx.Rollback()

	t := time.Now().UTC()
	ts := t.Format(time.DateTime)

	if _, err := tx.Exec(`
		UPDATE article_engagement
		SET clicked = 1, click_time = ?
		WHERE article_hash = ?`,
		ts, articleHash,
	); err != nil {
		return fmt.Errorf("updating engagement for click: %w", err)
	}

	if _, err := tx.Exec(`
		INSERT INTO click_history
		(article_hash, category, clicked_at, hour_of_day, day_of_week)
		VALUES (?, ?, ?, ?, ?)`,
		articleHash, category, ts, t.Hour(), int(t.Weekday()),
	); err != nil {
		return fmt.Errorf("inserting click history: %w", err)
	}

	if err := boostPreference(tx, category, "", 0.05, ProvenanceClick); err != nil {
		return err
	}

	return tx.Commit()
}

// feedbackValue maps a feedback type to its signed value.
func feedbackValue(feedbackType string) int {
	if feedbackType == "like" || feedbackType == "more_like_this" {
		return 1
	}
	return -1
}

// RecordFeedback records explicit user feedback. Latest feedback wins on the
// engagement row. The category weight moves by ±0.1 and each of up to 5
// supplied keywords by ±0.05, all in one transaction.
func (db *DB) RecordFeedback(articleHash, feedbackType, category string, keywords []string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("recording feedback: %w", err)
	}
	defer tx.Rollback()

	value := feedbackValue(feedbackType)

	if _, err := tx.Exec(`
		UPDATE article_engagement
		SET feedback = ?, feedback_time = ?
		WHERE article_hash = ?`,
		value, now(), articleHash,
	); err != nil {
		return fmt.Errorf("updating engagement for feedback: %w", err)
	}

	keywordsJSON, _ := json.Marshal(keywords)
	if _, err := tx.Exec(`
		INSERT INTO feedback_log (article_hash, feedback_type, category, keywords)
		VALUES (?, ?, ?, ?)`,
		articleHash, feedbackType, category, string(keywordsJSON),
	); err != nil {
		return fmt.Errorf("inserting feedback log: %w", err)
	}

	boost := 0.1
	if value < 0 {
		boost = -0.1
	}
	if err := boostPreference(tx, category, "", boost, ProvenanceFeedback); err != nil {
		return err
	}

	// Keyword-level signal carries half the category weight.
	if len(keywords) > 5 {
		keywords = keywords[:5]
	}
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if err := boostPreference(tx, category, kw, boost*0.5, ProvenanceFeedback); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetEngagement returns the engagement row for an article hash, or nil.
func (db *DB) GetEngagement(articleHash string) (*Engagement, error) {
	row := db.conn.QueryRow(`
		SELECT article_hash, title, source, category, url,
			clicked, click_time, feedback, feedback_time, shown_at
		FROM article_engagement WHERE article_hash = ?`,
		articleHash,
	)

	var e Engagement
	var clicked int
	err := row.Scan(&e.ArticleHash, &e.Title, &e.Source, &e.Category, &e.URL,
		&clicked, &e.ClickTime, &e.Feedback, &e.FeedbackTime, &e.ShownAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	e.Clicked = clicked != 0
	return &e, nil
}

// GetEngagementStats aggregates the last 30 days of engagement for the stats
// endpoint and CLI.
func (db *DB) GetEngagementStats() (*EngagementStats, error) {
	stats := &EngagementStats{}

	row := db.conn.QueryRow(`
		SELECT COUNT(*),
			COALESCE(SUM(clicked), 0),
			COALESCE(SUM(CASE WHEN feedback = 1 THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN feedback = -1 THEN 1 ELSE 0 END), 0)
		FROM article_engagement
		WHERE shown_at > datetime('now', '-30 days')`)
	if err := row.Scan(&stats.TotalShown, &stats.TotalClicked, &stats.TotalLikes, &stats.TotalDislikes); err != nil {
		return nil, fmt.Errorf("querying engagement stats: %w", err)
	}

	rows, err := db.conn.Query(`
		SELECT COALESCE(category, ''),
			COUNT(*),
			COALESCE(SUM(clicked), 0),
			ROUND(100.0 * COALESCE(SUM(clicked), 0) / COUNT(*), 1)
		FROM article_engagement
		WHERE shown_at > datetime('now', '-30 days')
		GROUP BY category
		ORDER BY 4 DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying category stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cs CategoryStats
		if err := rows.Scan(&cs.Category, &cs.Shown, &cs.Clicked, &cs.ClickRate); err != nil {
			return nil, err
		}
		stats.ByCategory = append(stats.ByCategory, cs)
	}
	return stats, rows.Err()
}
