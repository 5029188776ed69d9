package feeds

import (
	"log"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/axeandlord/brief/internal/config"
	"github.com/axeandlord/brief/internal/database"
)

const maxPerFeed = 20

// Collector fetches and normalizes articles from configured RSS feeds,
// recording per-source health in the learning database.
type Collector struct {
	feeds []config.Feed
	db    *database.DB
}

// NewCollector creates a feed collector. db may be nil, in which case
// source health is not recorded.
func NewCollector(feeds []config.Feed, db *database.DB) *Collector {
	return &Collector{feeds: feeds, db: db}
}

// CollectAll fetches all configured feeds and returns articles published
// within maxAge of now. Feed failures are logged and skipped; a run only
// fails if every feed fails.
func (c *Collector) CollectAll(maxAge time.Duration) []Article {
	parser := gofeed.NewParser()
	cutoff := time.Now().UTC().Add(-maxAge)

	var all []Article
	for _, fc := range c.feeds {
		articles, err := c.collectFeed(parser, fc, cutoff)
		if err != nil {
			log.Printf("Failed to fetch feed %s: %v", fc.URL, err)
			if c.db != nil {
				c.db.RecordSourceFailure(fc.Name, fc.URL)
			}
			continue
		}

		if c.db != nil {
			c.db.RecordSourceSuccess(fc.Name, fc.URL, len(articles))
		}
		log.Printf("Fetched %d articles from %s", len(articles), fc.Name)
		all = append(all, articles...)
	}
	return all
}

func (c *Collector) collectFeed(parser *gofeed.Parser, fc config.Feed, cutoff time.Time) ([]Article, error) {
	feed, err := parser.ParseURL(fc.URL)
	if err != nil {
		return nil, err
	}

	reliability := fc.Reliability
	if reliability == 0 {
		reliability = ReliabilityScore(fc.Name)
	}

	var articles []Article
	for _, item := range feed.Items {
		if len(articles) >= maxPerFeed {
			break
		}

		a := normalizeItem(item, fc.Name, fc.Category, reliability)
		if a == nil {
			continue
		}
		if a.Published.Before(cutoff) {
			continue
		}
		articles = append(articles, *a)
	}
	return articles, nil
}

// normalizeItem converts a gofeed item into an Article, or nil when the
// item has no usable title or link.
func normalizeItem(item *gofeed.Item, source, category string, reliability float64) *Article {
	link := item.Link
	if link == "" {
		link = item.GUID
	}
	title := strings.TrimSpace(item.Title)
	if link == "" || title == "" {
		return nil
	}

	var summary string
	if item.Content != "" {
		summary = stripHTML(item.Content)
	} else if item.Description != "" {
		summary = stripHTML(item.Description)
	}

	published := time.Now().UTC()
	if item.PublishedParsed != nil {
		published = item.PublishedParsed.UTC()
	} else if item.UpdatedParsed != nil {
		published = item.UpdatedParsed.UTC()
	}

	return &Article{
		Title:       title,
		Link:        link,
		Summary:     summary,
		Source:      source,
		Category:    category,
		Published:   published,
		Reliability: reliability,
		Hash:        ArticleHash(title, link),
	}
}

// stripHTML removes tags and decodes common entities from feed content.
func stripHTML(text string) string {
	var result strings.Builder
	inTag := false
	for _, r := range text {
		if r == '<' {
			inTag = true
			result.WriteRune(' ')
			continue
		}
		if r == '>' {
			inTag = false
			continue
		}
		if !inTag {
			result.WriteRune(r)
		}
	}

	s := result.String()
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	s = strings.ReplaceAll(s, "&lt;", "<")
	s = strings.ReplaceAll(s, "&gt;", ">")
	s = strings.ReplaceAll(s, "&quot;", `"`)
	s = strings.ReplaceAll(s, "&#39;", "'")

	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
