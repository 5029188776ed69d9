// Package summarize generates short AI summaries for top-scored articles.
package summarize

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/axeandlord/brief/internal/config"
	"github.com/axeandlord/brief/internal/curate"
	"github.com/axeandlord/brief/internal/llm"
)

const articlePrompt = `You are summarizing one article for a personal daily news briefing.

Title: %s
Source: %s
Category: %s

Article text:
%s

Respond in exactly this format, with no extra commentary:
SUMMARY: A factual 2-3 sentence summary of what happened.
WHY IT MATTERS: One sentence on why a reader following this topic should care.`

const maxContentChars = 2000

var (
	summaryPattern    = regexp.MustCompile(`(?is)SUMMARY:\s*(.+?)(?:WHY IT MATTERS:|$)`)
	whyMattersPattern = regexp.MustCompile(`(?is)WHY IT MATTERS:\s*(.+)$`)
)

// Summarizer fills AISummary and WhyItMatters on the highest scored
// articles of a curation run. Failures are logged and skipped; a briefing
// without summaries is still a briefing.
type Summarizer struct {
	cfg      config.Summaries
	provider llm.Provider
}

// New creates a Summarizer using the given provider. provider may be nil,
// in which case Summarize is a no-op.
func New(cfg config.Summaries, provider llm.Provider) *Summarizer {
	return &Summarizer{cfg: cfg, provider: provider}
}

// Summarize generates summaries for up to MaxArticles articles. The input
// is expected to be sorted by score descending; articles past the limit
// keep their feed summary only.
func (s *Summarizer) Summarize(ctx context.Context, articles []*curate.CuratedArticle) {
	if s.provider == nil {
		log.Println("No LLM provider available, skipping AI summaries")
		return
	}

	limit := s.cfg.MaxArticles
	if limit <= 0 || limit > len(articles) {
		limit = len(articles)
	}

	summarized := 0
	for _, cu := range articles[:limit] {
		if err := s.summarizeOne(ctx, cu); err != nil {
			log.Printf("Summary failed for %q: %v", cu.Article.Title, err)
			continue
		}
		summarized++
	}
	log.Printf("AI summaries: %d of %d articles", summarized, limit)
}

func (s *Summarizer) summarizeOne(ctx context.Context, cu *curate.CuratedArticle) error {
	content := cu.Article.FullText
	if content == "" {
		content = cu.Article.Summary
	}
	if len(content) > maxContentChars {
		content = content[:maxContentChars]
	}
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("no content to summarize")
	}

	prompt := fmt.Sprintf(articlePrompt, cu.Article.Title, cu.Article.Source, cu.Article.Category, content)
	response, err := s.provider.Generate(ctx, prompt, 300)
	if err != nil {
		return err
	}

	summary, why := ParseResponse(response)
	if summary == "" {
		return fmt.Errorf("response had no summary section")
	}

	cu.AISummary = summary
	if s.cfg.IncludeWhyItMatters {
		cu.WhyItMatters = why
	}
	return nil
}

// ParseResponse extracts the summary and why-it-matters lines from a model
// response. Either part may be empty if the model ignored the format.
func ParseResponse(text string) (summary, whyItMatters string) {
	if m := summaryPattern.FindStringSubmatch(text); m != nil {
		summary = strings.TrimSpace(m[1])
	}
	if m := whyMattersPattern.FindStringSubmatch(text); m != nil {
		whyItMatters = strings.TrimSpace(m[1])
	}
	return summary, whyItMatters
}
