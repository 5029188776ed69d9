package database

import (
	"math"
	"testing"
	"time"
)

func backdatePreference(t *testing.T, db *DB, category, keyword string, days int) {
	t.Helper()
	past := time.Now().UTC().AddDate(0, 0, -days).Format(time.DateTime)
	_, err := db.conn.Exec(
		`UPDATE user_preferences SET updated_at = ? WHERE category = ? AND keyword = ?`,
		past, category, keyword,
	)
	if err != nil {
		t.Fatalf("backdating preference: %v", err)
	}
}

func TestBoostCreatesNeutralPlusDelta(t *testing.T) {
	db := openTestDB(t)

	if err := db.BoostPreference("tech_ai", "", 0.1, ProvenanceFeedback); err != nil {
		t.Fatalf("boost: %v", err)
	}

	weights, err := db.GetLearnedWeights()
	if err != nil {
		t.Fatalf("weights: %v", err)
	}
	if got := weights.Categories["tech_ai"]; math.Abs(got-1.1) > 1e-9 {
		t.Errorf("expected weight 1.1, got %v", got)
	}
}

func TestBoostAccumulates(t *testing.T) {
	db := openTestDB(t)

	db.BoostPreference("finance", "", 0.1, ProvenanceFeedback)
	db.BoostPreference("finance", "", 0.05, ProvenanceClick)

	weights, _ := db.GetLearnedWeights()
	if got := weights.Categories["finance"]; math.Abs(got-1.15) > 1e-9 {
		t.Errorf("expected weight 1.15, got %v", got)
	}

	prefs, _ := db.GetPreferences()
	if len(prefs) != 1 {
		t.Fatalf("expected a single row per key, got %d", len(prefs))
	}
	if prefs[0].Source != ProvenanceClick {
		t.Errorf("expected latest provenance %q, got %q", ProvenanceClick, prefs[0].Source)
	}
}

func TestBoostClampsToUpperBound(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 50; i++ {
		db.BoostPreference("tech_ai", "", 0.1, ProvenanceFeedback)
	}

	weights, _ := db.GetLearnedWeights()
	if got := weights.Categories["tech_ai"]; got > MaxWeight {
		t.Errorf("weight %v exceeds upper bound %v", got, MaxWeight)
	}
	if got := weights.Categories["tech_ai"]; math.Abs(got-MaxWeight) > 1e-9 {
		t.Errorf("expected weight clamped to %v, got %v", MaxWeight, got)
	}
}

func TestBoostClampsToLowerBound(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 50; i++ {
		db.BoostPreference("politics", "", -0.1, ProvenanceFeedback)
	}

	weights, _ := db.GetLearnedWeights()
	if got := weights.Categories["politics"]; math.Abs(got-MinWeight) > 1e-9 {
		t.Errorf("expected weight clamped to %v, got %v", MinWeight, got)
	}
}

func TestKeywordWeightsSeparateFromCategory(t *testing.T) {
	db := openTestDB(t)

	db.BoostPreference("politics", "", -0.1, ProvenanceFeedback)
	db.BoostPreference("politics", "election", -0.05, ProvenanceFeedback)

	weights, _ := db.GetLearnedWeights()
	if got := weights.Categories["politics"]; math.Abs(got-0.9) > 1e-9 {
		t.Errorf("expected category weight 0.9, got %v", got)
	}
	if got := weights.Keywords["election"]; math.Abs(got-0.95) > 1e-9 {
		t.Errorf("expected keyword weight 0.95, got %v", got)
	}
}

func TestKeywordWeightsCappedAt50(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 60; i++ {
		kw := string(rune('a'+i%26)) + string(rune('a'+i/26))
		db.BoostPreference("tech_ai", kw, 0.05, ProvenanceFeedback)
	}

	weights, _ := db.GetLearnedWeights()
	if len(weights.Keywords) != 50 {
		t.Errorf("expected keyword map capped at 50, got %d", len(weights.Keywords))
	}
}

func TestDecayOnlyTouchesOldRows(t *testing.T) {
	db := openTestDB(t)

	db.BoostPreference("tech_ai", "", 1.0, ProvenanceFeedback) // weight 2.0
	db.BoostPreference("finance", "", 1.0, ProvenanceFeedback)
	backdatePreference(t, db, "tech_ai", "", 40)

	n, err := db.DecayOldPreferences(30, 0.95)
	if err != nil {
		t.Fatalf("decay: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 row decayed, got %d", n)
	}

	weights, _ := db.GetLearnedWeights()
	if got := weights.Categories["tech_ai"]; math.Abs(got-1.9) > 1e-9 {
		t.Errorf("expected decayed weight 1.9, got %v", got)
	}
	if got := weights.Categories["finance"]; math.Abs(got-2.0) > 1e-9 {
		t.Errorf("expected fresh weight untouched at 2.0, got %v", got)
	}

	prefs, _ := db.GetPreferences()
	for _, p := range prefs {
		if p.Category == "tech_ai" && p.Source != ProvenanceDecay {
			t.Errorf("expected decay provenance, got %q", p.Source)
		}
	}
}

func TestDecayNeverIncreasesOrDropsBelowFloor(t *testing.T) {
	db := openTestDB(t)

	db.BoostPreference("politics", "", -0.4, ProvenanceFeedback) // weight 0.6
	backdatePreference(t, db, "politics", "", 40)

	// Repeated decay shrinks toward the floor but never below it.
	for i := 0; i < 20; i++ {
		if _, err := db.DecayOldPreferences(30, 0.5); err != nil {
			t.Fatalf("decay: %v", err)
		}
		backdatePreference(t, db, "politics", "", 40)
	}

	weights, _ := db.GetLearnedWeights()
	if got := weights.Categories["politics"]; math.Abs(got-DecayFloor) > 1e-9 {
		t.Errorf("expected weight floored at %v, got %v", DecayFloor, got)
	}
}
