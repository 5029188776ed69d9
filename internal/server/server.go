// Package server exposes the local feedback API. The rendered briefing
// page posts engagement events here; everything is bound to loopback.
package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/axeandlord/brief/internal/database"
	"github.com/axeandlord/brief/internal/textsim"
)

// FeedbackEvent is one engagement signal from the briefing page.
type FeedbackEvent struct {
	Type     string `json:"type"`
	Hash     string `json:"hash"`
	Category string `json:"category"`
	Action   string `json:"action"`
}

// FeedbackRequest is a batch of events, flushed from the page's queue.
type FeedbackRequest struct {
	Events []FeedbackEvent `json:"events"`
}

// Server is the feedback API server.
type Server struct {
	db     *database.DB
	engine *gin.Engine
}

// New creates the feedback API server and registers its routes.
func New(db *database.DB) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), corsMiddleware())

	s := &Server{db: db, engine: engine}

	api := engine.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/stats", s.handleStats)
	api.GET("/related/:hash", s.handleRelated)
	api.POST("/feedback", s.handleFeedback)

	return s
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run starts the server on the given loopback port.
func (s *Server) Run(port int) error {
	addr := fmt.Sprintf("127.0.0.1:%d", port)
	log.Printf("Feedback API listening on http://%s", addr)
	return s.engine.Run(addr)
}

// The briefing page is opened from disk, so its origin is null and every
// request is cross-origin. The server only binds loopback.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (s *Server) handleStats(c *gin.Context) {
	stats, err := s.db.GetEngagementStats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	prefs, err := s.db.GetPreferences()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"engagement":  stats,
		"preferences": len(prefs),
	})
}

// handleRelated returns the similarity relations recorded for one article,
// strongest first.
func (s *Server) handleRelated(c *gin.Context) {
	relations, err := s.db.GetRelations(c.Param("hash"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"relations": relations, "count": len(relations)})
}

// handleFeedback processes a batch of engagement events. Events without a
// hash are skipped, not rejected: one malformed event must not lose the
// rest of the batch.
func (s *Server) handleFeedback(c *gin.Context) {
	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	processed, skipped := 0, 0
	for _, ev := range req.Events {
		if ev.Hash == "" {
			skipped++
			continue
		}
		if err := s.processEvent(ev); err != nil {
			log.Printf("Failed to process %s event for %s: %v", ev.Type, ev.Hash, err)
			skipped++
			continue
		}
		processed++
	}

	c.JSON(http.StatusOK, gin.H{"processed": processed, "skipped": skipped})
}

func (s *Server) processEvent(ev FeedbackEvent) error {
	switch ev.Type {
	case "click":
		return s.db.RecordClick(ev.Hash, ev.Category)
	case "feedback":
		return s.db.RecordFeedback(ev.Hash, ev.Action, ev.Category, s.titleKeywords(ev.Hash))
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
}

// titleKeywords pulls keywords from the shown article's title so feedback
// can boost keyword-level weights, not just the category.
func (s *Server) titleKeywords(articleHash string) []string {
	e, err := s.db.GetEngagement(articleHash)
	if err != nil || e == nil || e.Title == nil {
		return nil
	}
	return textsim.Keywords(*e.Title, 5)
}
