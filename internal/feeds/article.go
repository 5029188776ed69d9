package feeds

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Article is a normalized article from any RSS feed. It is immutable once
// fetched; curation only reads it.
type Article struct {
	Title       string
	Link        string
	Summary     string
	FullText    string // extracted full text, empty when extraction failed
	Source      string
	Category    string
	Published   time.Time
	Reliability float64
	Hash        string
}

// ArticleHash derives the stable identity key for an article from its title
// and link: the first 16 hex characters of the MD5 digest.
func ArticleHash(title, link string) string {
	sum := md5.Sum([]byte(title + ":" + link))
	return hex.EncodeToString(sum[:])[:16]
}
