package database

// Provenance tags for preference weight updates.
const (
	ProvenanceClick    = "click"
	ProvenanceFeedback = "feedback"
	ProvenanceDecay    = "decay"
)

// Weight bounds and decay floor for learned preferences.
const (
	MinWeight  = 0.1
	MaxWeight  = 3.0
	DecayFloor = 0.5
)

// Weights holds the learned preference multipliers used by the scorer.
// Categories maps category name to weight; Keywords maps keyword to weight
// (capped to the top 50 by weight).
type Weights struct {
	Categories map[string]float64
	Keywords   map[string]float64
}

// Preference is one learned weight row. An empty Keyword means the row is a
// category-level weight.
type Preference struct {
	Category  string
	Keyword   string
	Weight    float64
	Source    string
	UpdatedAt string
}

// Engagement tracks how the user interacted with one shown article.
type Engagement struct {
	ArticleHash  string
	Title        *string
	Source       *string
	Category     *string
	URL          *string
	Clicked      bool
	ClickTime    *string
	Feedback     *int
	FeedbackTime *string
	ShownAt      string
}

// ArticleRelation links two articles found similar during curation.
type ArticleRelation struct {
	ArticleHash  string
	RelatedHash  string
	RelationType string
	Similarity   float64
	CreatedAt    string
}

// Relation types recorded by the deduplicator.
const (
	RelationSameStory    = "same_story"
	RelationRelatedTopic = "related_topic"
)

// CachedArticle is a shown article persisted for historical context.
type CachedArticle struct {
	ArticleHash string
	Title       string
	Summary     string
	AISummary   string
	Source      string
	Category    string
	URL         string
	PublishedAt string
	FetchedAt   string
}

// SourceHealth tracks fetch success/failure counters per source.
type SourceHealth struct {
	SourceName   string
	URL          *string
	LastSuccess  *string
	LastFailure  *string
	SuccessCount int
	FailureCount int
	AvgArticles  int
	IsActive     bool
}

// EngagementStats aggregates the last 30 days of engagement.
type EngagementStats struct {
	TotalShown    int
	TotalClicked  int
	TotalLikes    int
	TotalDislikes int
	ByCategory    []CategoryStats
}

// CategoryStats holds per-category engagement counts.
type CategoryStats struct {
	Category  string
	Shown     int
	Clicked   int
	ClickRate float64
}
