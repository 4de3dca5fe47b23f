package engine

import "time"

// ProductionStatus is a production's lifecycle stage.
type ProductionStatus string

const (
	StatusPreviews ProductionStatus = "previews"
	StatusRunning  ProductionStatus = "running"
	StatusClosed   ProductionStatus = "closed"
)

// Production identifies one show. Identity is owned by the external catalog;
// the engine only reads it to filter family inputs.
type Production struct {
	ID       string           `json:"id" db:"id"`
	Slug     string           `json:"slug" db:"slug"`
	Title    string           `json:"title" db:"title"`
	Venue    string           `json:"venue" db:"venue"`
	Status   ProductionStatus `json:"status" db:"status"`
	OpenedAt time.Time        `json:"opened_at" db:"opened_at"`
}

// Review is one critic write-up as ingested. Immutable input.
type Review struct {
	ProductionID string    `json:"production_id" db:"production_id"`
	Source       string    `json:"source" db:"source"`
	Critic       string    `json:"critic" db:"critic"`
	Score        *float64  `json:"score,omitempty" db:"score"`
	Rating       string    `json:"rating" db:"rating"`
	Designation  string    `json:"designation" db:"designation"`
	Excerpt      string    `json:"excerpt" db:"excerpt"`
	PublishedAt  time.Time `json:"published_at" db:"published_at"`
	CollectedAt  time.Time `json:"collected_at" db:"collected_at"`
}

// AudienceRating is one platform's aggregate rating for one production.
type AudienceRating struct {
	ProductionID string    `json:"production_id" db:"production_id"`
	Platform     string    `json:"platform" db:"platform"`
	Average      float64   `json:"average" db:"average"`
	MaxScale     float64   `json:"max_scale" db:"max_scale"`
	Samples      int       `json:"samples" db:"samples"`
	CollectedAt  time.Time `json:"collected_at" db:"collected_at"`
}

// Sentiment is a discussion thread's categorical sentiment.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentMixed    Sentiment = "mixed"
	SentimentNegative Sentiment = "negative"
)

// BuzzThread is one discussion thread about a production.
type BuzzThread struct {
	ProductionID string    `json:"production_id" db:"production_id"`
	Platform     string    `json:"platform" db:"platform"`
	ExternalID   string    `json:"external_id" db:"external_id"`
	Title        string    `json:"title" db:"title"`
	Upvotes      int       `json:"upvotes" db:"upvotes"`
	Comments     int       `json:"comments" db:"comments"`
	Sentiment    Sentiment `json:"sentiment" db:"sentiment"`
	PostedAt     time.Time `json:"posted_at" db:"posted_at"`
	CollectedAt  time.Time `json:"collected_at" db:"collected_at"`
}

// Engagement is the thread's combined upvote and comment count.
func (t BuzzThread) Engagement() int { return t.Upvotes + t.Comments }

// Normalized is one rating expression converted to the 0-100 scale.
// Inferred marks values that came from keyword fallback or the default
// rather than an exact parse.
type Normalized struct {
	Score    float64 `json:"score"`
	Inferred bool    `json:"inferred"`
}

// ComputedReview is one review after normalization, trust resolution and
// designation bonus. Aggregation output only; never persisted by the engine.
type ComputedReview struct {
	Source      string  `json:"source"`
	Critic      string  `json:"critic,omitempty"`
	Tier        int     `json:"tier"`
	TierWeight  float64 `json:"tier_weight"`
	Score       float64 `json:"score"`
	Inferred    bool    `json:"inferred"`
	Designation string  `json:"designation,omitempty"`
	Excerpt     string  `json:"excerpt,omitempty"`
}

// CriticScore is the critic family result.
type CriticScore struct {
	SimpleAverage       float64          `json:"simple_average"`
	TierWeightedAverage float64          `json:"tier_weighted_average"`
	ReviewCount         int              `json:"review_count"`
	Tier1Count          int              `json:"tier1_count"`
	Label               string           `json:"label"`
	Reviews             []ComputedReview `json:"reviews"`
}

// AudiencePlatformScore is one platform's contribution to the audience score.
type AudiencePlatformScore struct {
	Platform   string  `json:"platform"`
	Normalized int     `json:"normalized"`
	Weight     float64 `json:"weight"`
	Samples    int     `json:"samples"`
}

// AudienceScore is the audience family result.
type AudienceScore struct {
	Score        float64                 `json:"score"`
	Platforms    []AudiencePlatformScore `json:"platforms"`
	TotalSamples int                     `json:"total_samples"`
	// Divergence is advisory only and never changes the score.
	Divergence string `json:"divergence,omitempty"`
}

// BuzzScore is the discussion-activity family result.
type BuzzScore struct {
	Score            float64      `json:"score"`
	VolumeScore      float64      `json:"volume_score"`
	VolumeNote       string       `json:"volume_note"`
	SentimentScore   float64      `json:"sentiment_score"`
	SentimentNote    string       `json:"sentiment_note"`
	StalenessPenalty float64      `json:"staleness_penalty"`
	Threads          []BuzzThread `json:"threads"` // newest first
}

// Family names one of the three score families.
type Family string

const (
	FamilyCritic   Family = "critic"
	FamilyAudience Family = "audience"
	FamilyBuzz     Family = "buzz"
)

// CompositeScore blends the present families into one overall score.
// Weights holds the renormalized weights actually used; Families holds the
// raw family scores that were present.
type CompositeScore struct {
	Score    int                `json:"score"`
	Weights  map[Family]float64 `json:"weights"`
	Families map[Family]float64 `json:"families"`
}

// ConfidenceLevel is a qualitative reliability label.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// Confidence is the reliability verdict plus its justifications.
// Reasons is never empty.
type Confidence struct {
	Level   ConfidenceLevel `json:"level"`
	Reasons []string        `json:"reasons"`
}

// Inputs bundles everything the engine scores one production from.
type Inputs struct {
	Production Production       `json:"production"`
	Reviews    []Review         `json:"reviews"`
	Audience   []AudienceRating `json:"audience"`
	Threads    []BuzzThread     `json:"threads"`
}

// Scorecard is the full engine output for one production. Nil family results
// mean "no data", never zero.
type Scorecard struct {
	ProductionID string          `json:"production_id"`
	Critic       *CriticScore    `json:"critic,omitempty"`
	Audience     *AudienceScore  `json:"audience,omitempty"`
	Buzz         *BuzzScore      `json:"buzz,omitempty"`
	Composite    *CompositeScore `json:"composite,omitempty"`
	Confidence   Confidence      `json:"confidence"`
	Methodology  string          `json:"methodology"`
	ComputedAt   time.Time       `json:"computed_at"`
}
