package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/axeandlord/brief/internal/database"
)

func newTestServer(t *testing.T) (*Server, *database.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "brief.db"))
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return New(db), db
}

func postFeedback(t *testing.T, s *Server, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func decodeCounts(t *testing.T, w *httptest.ResponseRecorder) (processed, skipped int) {
	t.Helper()
	var resp struct {
		Processed int `json:"processed"`
		Skipped   int `json:"skipped"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp.Processed, resp.Skipped
}

func TestHealthEndpoint(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), "healthy") {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestFeedbackClickEvent(t *testing.T) {
	s, db := newTestServer(t)
	if err := db.RecordArticleShown("hash1", "Fed raises rates", "Wire", "finance", "https://example.com/a"); err != nil {
		t.Fatal(err)
	}

	w := postFeedback(t, s, `{"events":[{"type":"click","hash":"hash1","category":"finance"}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	processed, skipped := decodeCounts(t, w)
	if processed != 1 || skipped != 0 {
		t.Errorf("processed = %d, skipped = %d", processed, skipped)
	}

	e, err := db.GetEngagement("hash1")
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || !e.Clicked {
		t.Error("click was not recorded on engagement row")
	}
}

func TestFeedbackLikeBoostsKeywords(t *testing.T) {
	s, db := newTestServer(t)
	if err := db.RecordArticleShown("hash2", "Quantum computing milestone reached", "Wire", "technology", "https://example.com/q"); err != nil {
		t.Fatal(err)
	}

	w := postFeedback(t, s, `{"events":[{"type":"feedback","hash":"hash2","category":"technology","action":"like"}]}`)
	processed, _ := decodeCounts(t, w)
	if processed != 1 {
		t.Fatalf("processed = %d, want 1", processed)
	}

	prefs, err := db.GetPreferences()
	if err != nil {
		t.Fatal(err)
	}
	var gotCategory, gotKeyword bool
	for _, p := range prefs {
		if p.Category == "technology" && p.Keyword == "" && p.Weight > 1.0 {
			gotCategory = true
		}
		if p.Keyword == "quantum" && p.Weight > 1.0 {
			gotKeyword = true
		}
	}
	if !gotCategory {
		t.Error("category weight was not boosted")
	}
	if !gotKeyword {
		t.Error("title keyword weight was not boosted")
	}
}

func TestFeedbackSkipsEventsWithoutHash(t *testing.T) {
	s, db := newTestServer(t)
	if err := db.RecordArticleShown("hash3", "Something happened", "Wire", "world", "https://example.com/w"); err != nil {
		t.Fatal(err)
	}

	w := postFeedback(t, s, `{"events":[
		{"type":"click","category":"world"},
		{"type":"click","hash":"hash3","category":"world"}
	]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	processed, skipped := decodeCounts(t, w)
	if processed != 1 || skipped != 1 {
		t.Errorf("processed = %d, skipped = %d, want 1/1", processed, skipped)
	}
}

func TestFeedbackUnknownTypeSkipped(t *testing.T) {
	s, _ := newTestServer(t)
	w := postFeedback(t, s, `{"events":[{"type":"hover","hash":"hash4","category":"world"}]}`)
	processed, skipped := decodeCounts(t, w)
	if processed != 0 || skipped != 1 {
		t.Errorf("processed = %d, skipped = %d, want 0/1", processed, skipped)
	}
}

func TestFeedbackInvalidPayload(t *testing.T) {
	s, _ := newTestServer(t)
	w := postFeedback(t, s, `not json`)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestStatsEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	if err := db.RecordArticleShown("hash5", "A story", "Wire", "science", "https://example.com/s"); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Engagement struct {
			TotalShown int `json:"TotalShown"`
		} `json:"engagement"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if resp.Engagement.TotalShown != 1 {
		t.Errorf("TotalShown = %d, want 1", resp.Engagement.TotalShown)
	}
}

func TestRelatedEndpoint(t *testing.T) {
	s, db := newTestServer(t)
	if err := db.RecordArticleRelation("hash6", "hash7", "same_story", 0.83); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/related/hash6", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Count     int `json:"count"`
		Relations []struct {
			RelatedHash  string  `json:"RelatedHash"`
			RelationType string  `json:"RelationType"`
			Similarity   float64 `json:"Similarity"`
		} `json:"relations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding related: %v", err)
	}
	if resp.Count != 1 || len(resp.Relations) != 1 {
		t.Fatalf("count = %d, want 1", resp.Count)
	}
	if resp.Relations[0].RelatedHash != "hash7" || resp.Relations[0].RelationType != "same_story" {
		t.Errorf("relation = %+v", resp.Relations[0])
	}
}

func TestRelatedEndpointEmpty(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/api/related/nothing", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp struct {
		Count int `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding related: %v", err)
	}
	if resp.Count != 0 {
		t.Errorf("count = %d, want 0", resp.Count)
	}
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/feedback", nil)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing CORS allow-origin header")
	}
}
