// Package render writes the curated briefing to a static HTML page. The
// page is self-contained: feedback buttons post to the local API server
// when it is running and queue silently when it is not.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/yuin/goldmark"

	"github.com/axeandlord/brief/internal/curate"
)

//go:embed templates/*.html
var templateFS embed.FS

var md = goldmark.New()

// Section is one rendered briefing section.
type Section struct {
	Name     string
	Articles []*curate.CuratedArticle
}

// Page is the template context for one briefing.
type Page struct {
	Date         string
	GeneratedAt  string
	Sections     []Section
	ArticleCount int
	APIPort      int
}

// Renderer renders curation results to HTML.
type Renderer struct {
	tmpl *template.Template
}

// New parses the embedded briefing template.
func New() (*Renderer, error) {
	funcMap := template.FuncMap{
		"markdown": renderMarkdown,
		"score":    func(s float64) string { return fmt.Sprintf("%.2f", s) },
	}
	tmpl, err := template.New("briefing.html").Funcs(funcMap).ParseFS(templateFS, "templates/briefing.html")
	if err != nil {
		return nil, fmt.Errorf("parsing briefing template: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render produces the HTML page for a curation result.
func (r *Renderer) Render(result *curate.Result, apiPort int, now time.Time) ([]byte, error) {
	page := Page{
		Date:        now.Format("Monday, January 2, 2006"),
		GeneratedAt: now.Format("15:04 MST"),
		APIPort:     apiPort,
	}
	for _, name := range result.SectionOrder {
		articles := result.Sections[name]
		if len(articles) == 0 {
			continue
		}
		page.Sections = append(page.Sections, Section{Name: name, Articles: articles})
		page.ArticleCount += len(articles)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "briefing.html", page); err != nil {
		return nil, fmt.Errorf("rendering briefing: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteFile renders the briefing and writes it to path, creating parent
// directories as needed.
func (r *Renderer) WriteFile(path string, result *curate.Result, apiPort int, now time.Time) error {
	html, err := r.Render(result, apiPort, now)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, html, 0o644); err != nil {
		return fmt.Errorf("writing briefing: %w", err)
	}
	return nil
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}
