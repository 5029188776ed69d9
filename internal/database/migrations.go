package database

import "database/sql"

// Migration represents a single schema migration step.
type Migration struct {
	Version     int
	Description string
	Up          func(tx *sql.Tx) error
}

// migrations is the ordered list of all schema migrations.
// Append new migrations to the end with incrementing Version numbers.
var migrations = []Migration{
	{
		Version:     1,
		Description: "initial schema",
		Up: func(tx *sql.Tx) error {
			_, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS user_preferences (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    category TEXT NOT NULL,
    keyword TEXT NOT NULL DEFAULT '',
    weight REAL DEFAULT 1.0,
    source TEXT, -- 'click', 'feedback', 'decay'
    updated_at TEXT DEFAULT (datetime('now')),
    UNIQUE(category, keyword)
);

CREATE TABLE IF NOT EXISTS article_engagement (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    article_hash TEXT NOT NULL UNIQUE,
    title TEXT,
    source TEXT,
    category TEXT,
    url TEXT,
    clicked INTEGER DEFAULT 0,
    click_time TEXT,
    feedback INTEGER,
    feedback_time TEXT,
    shown_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS click_history (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    article_hash TEXT NOT NULL,
    category TEXT,
    clicked_at TEXT DEFAULT (datetime('now')),
    hour_of_day INTEGER,
    day_of_week INTEGER
);

CREATE TABLE IF NOT EXISTS feedback_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    article_hash TEXT NOT NULL,
    feedback_type TEXT,
    category TEXT,
    keywords TEXT,
    created_at TEXT DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS source_health (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    source_name TEXT NOT NULL UNIQUE,
    url TEXT,
    last_success TEXT,
    last_failure TEXT,
    success_count INTEGER DEFAULT 0,
    failure_count INTEGER DEFAULT 0,
    avg_articles INTEGER DEFAULT 0,
    is_active INTEGER DEFAULT 1
);

CREATE TABLE IF NOT EXISTS article_relations (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    article_hash TEXT NOT NULL,
    related_hash TEXT NOT NULL,
    relation_type TEXT,
    similarity_score REAL,
    created_at TEXT DEFAULT (datetime('now')),
    UNIQUE(article_hash, related_hash)
);

CREATE TABLE IF NOT EXISTS article_cache (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    article_hash TEXT NOT NULL UNIQUE,
    title TEXT,
    summary TEXT,
    ai_summary TEXT,
    source TEXT,
    category TEXT,
    url TEXT,
    published_at TEXT,
    fetched_at TEXT DEFAULT (datetime('now')),
    keywords TEXT
);

CREATE INDEX IF NOT EXISTS idx_engagement_hash ON article_engagement(article_hash);
CREATE INDEX IF NOT EXISTS idx_engagement_category ON article_engagement(category);
CREATE INDEX IF NOT EXISTS idx_click_history_category ON click_history(category);
CREATE INDEX IF NOT EXISTS idx_preferences_updated ON user_preferences(updated_at);
CREATE INDEX IF NOT EXISTS idx_article_cache_hash ON article_cache(article_hash);
CREATE INDEX IF NOT EXISTS idx_article_cache_date ON article_cache(fetched_at);
`)
			return err
		},
	},
}
