package database

import "fmt"

// RecordSourceSuccess records a successful fetch from a source, keeping a
// running average of articles per fetch.
func (db *DB) RecordSourceSuccess(sourceName, url string, articleCount int) error {
	_, err := db.conn.Exec(`
		INSERT INTO source_health (source_name, url, last_success, success_count, avg_articles)
		VALUES (?, ?, ?, 1, ?)
		ON CONFLICT(source_name) DO UPDATE SET
			last_success = excluded.last_success,
			success_count = success_count + 1,
			avg_articles = (avg_articles + ?) / 2`,
		sourceName, url, now(), articleCount, articleCount,
	)
	if err != nil {
		return fmt.Errorf("recording source success for %s: %w", sourceName, err)
	}
	return nil
}

// RecordSourceFailure records a failed fetch from a source.
func (db *DB) RecordSourceFailure(sourceName, url string) error {
	_, err := db.conn.Exec(`
		INSERT INTO source_health (source_name, url, last_failure, failure_count)
		VALUES (?, ?, ?, 1)
		ON CONFLICT(source_name) DO UPDATE SET
			last_failure = excluded.last_failure,
			failure_count = failure_count + 1`,
		sourceName, url, now(),
	)
	if err != nil {
		return fmt.Errorf("recording source failure for %s: %w", sourceName, err)
	}
	return nil
}

// GetUnhealthySources returns sources whose failures exceed the threshold
// and whose most recent result was a failure.
func (db *DB) GetUnhealthySources(failureThreshold int) ([]string, error) {
	rows, err := db.conn.Query(`
		SELECT source_name
		FROM source_health
		WHERE failure_count > ?
		AND (last_success IS NULL OR last_failure > last_success)`,
		failureThreshold,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sources []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		sources = append(sources, name)
	}
	return sources, rows.Err()
}
