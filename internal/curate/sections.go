package curate

import "github.com/axeandlord/brief/internal/config"

// Allocate assigns scored articles to briefing sections. scored must already
// be sorted by score descending (stable, batch order breaking ties).
//
// Sections are filled greedily in declaration order with a single top-down
// pass each; a link claimed by an earlier section is never reused. This
// order dependence is deliberate — downstream output reproducibility relies
// on it — so do not replace it with a globally optimal assignment.
func Allocate(scored []*CuratedArticle, sections []config.Section) map[string][]*CuratedArticle {
	result := make(map[string][]*CuratedArticle, len(sections))
	usedLinks := make(map[string]bool)

	for _, section := range sections {
		var picked []*CuratedArticle
		for _, c := range scored {
			if len(picked) >= section.Count {
				break
			}
			if usedLinks[c.Article.Link] {
				continue
			}
			if section.Category != "" && c.Article.Category != section.Category {
				continue
			}
			picked = append(picked, c)
			usedLinks[c.Article.Link] = true
		}
		result[section.Name] = picked
	}
	return result
}
