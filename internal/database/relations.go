package database

import "fmt"

// RecordArticleRelation stores a similarity relation between two articles.
// Re-insertion of an existing pair is ignored.
func (db *DB) RecordArticleRelation(articleHash, relatedHash, relationType string, similarity float64) error {
	_, err := db.conn.Exec(`
		INSERT OR IGNORE INTO article_relations
		(article_hash, related_hash, relation_type, similarity_score)
		VALUES (?, ?, ?, ?)`,
		articleHash, relatedHash, relationType, similarity,
	)
	if err != nil {
		return fmt.Errorf("recording relation %s -> %s: %w", articleHash, relatedHash, err)
	}
	return nil
}

// GetRelations returns all relations involving the given article hash.
func (db *DB) GetRelations(articleHash string) ([]ArticleRelation, error) {
	rows, err := db.conn.Query(`
		SELECT article_hash, related_hash, relation_type, similarity_score, created_at
		FROM article_relations
		WHERE article_hash = ? OR related_hash = ?
		ORDER BY similarity_score DESC`,
		articleHash, articleHash,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []ArticleRelation
	for rows.Next() {
		var r ArticleRelation
		if err := rows.Scan(&r.ArticleHash, &r.RelatedHash, &r.RelationType, &r.Similarity, &r.CreatedAt); err != nil {
			return nil, err
		}
		relations = append(relations, r)
	}
	return relations, rows.Err()
}
