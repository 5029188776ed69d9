// Package fulltext fetches full article text via HTTP and readability
// extraction. Extraction is best-effort: failures leave FullText empty and
// the scorer treats that as a quality signal.
package fulltext

import (
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/axeandlord/brief/internal/feeds"
)

// Result holds the results of a content fetch run.
type Result struct {
	Fetched int
	Failed  int
}

// Fetcher fetches full article text for a batch of articles.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a content fetcher with the given per-request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
}

// FetchAll fills in FullText for each article where extraction succeeds.
// Once a domain returns an HTTP error, remaining articles from it are
// skipped for the rest of the run.
func (f *Fetcher) FetchAll(articles []feeds.Article) ([]feeds.Article, *Result) {
	result := &Result{}
	failedDomains := make(map[string]struct{})

	for i := range articles {
		u, _ := url.Parse(articles[i].Link)
		domain := ""
		if u != nil {
			domain = strings.ToLower(u.Host)
		}

		if _, failed := failedDomains[domain]; failed {
			result.Failed++
			continue
		}

		text, httpErr := f.fetchContent(articles[i].Link)
		if httpErr != nil {
			result.Failed++
			if domain != "" {
				failedDomains[domain] = struct{}{}
			}
			log.Printf("HTTP error for %s — skipping remaining from %s", articles[i].Link, domain)
			continue
		}

		if text != "" {
			articles[i].FullText = text
			result.Fetched++
		} else {
			result.Failed++
		}
	}

	log.Printf("Content fetch complete: %d fetched, %d failed", result.Fetched, result.Failed)
	return articles, result
}

func (f *Fetcher) fetchContent(articleURL string) (string, error) {
	req, err := http.NewRequest("GET", articleURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", "brief/1.0 (news briefing)")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", nil // connection error, not HTTP error
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", &httpError{code: resp.StatusCode}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil
	}

	parsedURL, _ := url.Parse(articleURL)
	article, err := readability.FromReader(strings.NewReader(string(bodyBytes)), parsedURL)
	if err != nil {
		return "", nil
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) > 100 {
		return text, nil
	}
	return "", nil
}

type httpError struct {
	code int
}

func (e *httpError) Error() string {
	return http.StatusText(e.code)
}
