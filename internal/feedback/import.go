// Package feedback imports engagement recorded outside the API server,
// replaying a JSON export of clicks and feedback against the learning
// store.
package feedback

import (
	"encoding/json"
	"fmt"
	"io"
	"log"

	"github.com/axeandlord/brief/internal/database"
	"github.com/axeandlord/brief/internal/textsim"
)

// Export is the JSON shape the briefing page writes.
type Export struct {
	Clicks   map[string]ClickEntry    `json:"clicks"`
	Feedback map[string]FeedbackEntry `json:"feedback"`
}

type ClickEntry struct {
	Category string `json:"category"`
}

type FeedbackEntry struct {
	Action   string `json:"action"`
	Category string `json:"category"`
}

// Result counts what an import run applied.
type Result struct {
	Clicks   int
	Feedback int
	Skipped  int
}

// Import replays an exported engagement file against the learning store.
// Individual failures are logged and counted, not fatal.
func Import(db *database.DB, r io.Reader) (*Result, error) {
	var export Export
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("parsing feedback export: %w", err)
	}

	result := &Result{}
	for hash, entry := range export.Clicks {
		if hash == "" {
			result.Skipped++
			continue
		}
		if err := db.RecordClick(hash, entry.Category); err != nil {
			log.Printf("Failed to import click for %s: %v", hash, err)
			result.Skipped++
			continue
		}
		result.Clicks++
	}

	for hash, entry := range export.Feedback {
		if hash == "" || entry.Action == "" {
			result.Skipped++
			continue
		}
		if err := db.RecordFeedback(hash, entry.Action, entry.Category, titleKeywords(db, hash)); err != nil {
			log.Printf("Failed to import feedback for %s: %v", hash, err)
			result.Skipped++
			continue
		}
		result.Feedback++
	}

	return result, nil
}

func titleKeywords(db *database.DB, articleHash string) []string {
	e, err := db.GetEngagement(articleHash)
	if err != nil || e == nil || e.Title == nil {
		return nil
	}
	return textsim.Keywords(*e.Title, 5)
}
