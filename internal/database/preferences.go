package database

import (
	"database/sql"
	"fmt"
	"time"
)

// execer is satisfied by both *sql.DB and *sql.Tx so preference boosts can
// run standalone or inside an engagement transaction.
type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

// BoostPreference upserts a learned weight. An absent row starts from the
// neutral 1.0 before the delta is applied; the result is always clamped to
// [MinWeight, MaxWeight]. Provenance and timestamp are overwritten on every
// call. An empty keyword means a category-level weight.
func (db *DB) BoostPreference(category, keyword string, delta float64, provenance string) error {
	return boostPreference(db.conn, category, keyword, delta, provenance)
}

func boostPreference(e execer, category, keyword string, delta float64, provenance string) error {
	ts := now()
	_, err := e.Exec(`
		INSERT INTO user_preferences (category, keyword, weight, source, updated_at)
		VALUES (?, ?, MIN(?, MAX(?, 1.0 + ?)), ?, ?)
		ON CONFLICT(category, keyword) DO UPDATE SET
			weight = MIN(?, MAX(?, weight + ?)),
			source = ?,
			updated_at = ?`,
		category, keyword, MaxWeight, MinWeight, delta, provenance, ts,
		MaxWeight, MinWeight, delta, provenance, ts,
	)
	if err != nil {
		return fmt.Errorf("boosting preference %s/%s: %w", category, keyword, err)
	}
	return nil
}

// GetLearnedWeights returns the learned preference weights for curation.
// Duplicate rows per key are averaged; keywords are capped to the top 50 by
// weight so downstream scoring and prompt cost stay bounded.
func (db *DB) GetLearnedWeights() (*Weights, error) {
	weights := &Weights{
		Categories: make(map[string]float64),
		Keywords:   make(map[string]float64),
	}

	rows, err := db.conn.Query(`
		SELECT category, AVG(weight)
		FROM user_preferences
		WHERE keyword = ''
		GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("querying category weights: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var category string
		var weight float64
		if err := rows.Scan(&category, &weight); err != nil {
			return nil, err
		}
		weights.Categories[category] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	kwRows, err := db.conn.Query(`
		SELECT keyword, AVG(weight) AS avg_weight
		FROM user_preferences
		WHERE keyword != ''
		GROUP BY keyword
		ORDER BY avg_weight DESC
		LIMIT 50`)
	if err != nil {
		return nil, fmt.Errorf("querying keyword weights: %w", err)
	}
	defer kwRows.Close()

	for kwRows.Next() {
		var keyword string
		var weight float64
		if err := kwRows.Scan(&keyword, &weight); err != nil {
			return nil, err
		}
		weights.Keywords[keyword] = weight
	}
	return weights, kwRows.Err()
}

// DecayOldPreferences multiplies weights not updated within the last `days`
// by decayFactor, floored at DecayFloor, and marks them as decay-adjusted.
// Returns the number of rows decayed.
func (db *DB) DecayOldPreferences(days int, decayFactor float64) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days).Format(time.DateTime)

	result, err := db.conn.Exec(`
		UPDATE user_preferences
		SET weight = MAX(?, weight * ?),
			source = ?,
			updated_at = ?
		WHERE updated_at < ?`,
		DecayFloor, decayFactor, ProvenanceDecay, now(), cutoff,
	)
	if err != nil {
		return 0, fmt.Errorf("decaying preferences: %w", err)
	}
	return result.RowsAffected()
}

// GetPreferences returns all preference rows, for inspection and tests.
func (db *DB) GetPreferences() ([]Preference, error) {
	rows, err := db.conn.Query(`
		SELECT category, keyword, weight, COALESCE(source, ''), updated_at
		FROM user_preferences ORDER BY category, keyword`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []Preference
	for rows.Next() {
		var p Preference
		if err := rows.Scan(&p.Category, &p.Keyword, &p.Weight, &p.Source, &p.UpdatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, p)
	}
	return prefs, rows.Err()
}