package competitors

import (
	"time"
)

// CompetitorID identifier type
type CompetitorID string

// AnalysisID identifier type
type AnalysisID string

// Aggregate Root: Competitor, a tracked company being monitored. Owned by the
// user that created it; deleting it cascades to its analyses.
type Competitor struct {
	ID             CompetitorID `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	Website        string       `json:"website"`
	Features       []string     `json:"features"`
	MarketPosition string       `json:"market_position"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
	CreatedBy      string       `json:"created_by"`
	LastAnalyzed   *time.Time   `json:"last_analyzed,omitempty"`
}

// Analysis is one point-in-time AI-assisted SWOT record for a competitor.
// Immutable once inserted; only the owning competitor's last_analyzed pointer
// moves afterwards.
type Analysis struct {
	ID             AnalysisID   `json:"id"`
	CompetitorID   CompetitorID `json:"competitor"`
	CompetitorName string       `json:"competitor_name,omitempty"`
	AnalysisDate   time.Time    `json:"analysis_date"`
	Strengths      []string     `json:"strengths"`
	Weaknesses     []string     `json:"weaknesses"`
	Opportunities  []string     `json:"opportunities"`
	Threats        []string     `json:"threats"`
	MarketShare    *float64     `json:"market_share"`
	AIInsights     string       `json:"ai_insights"`
	SentimentScore *float64     `json:"sentiment_score"`
	RawURL         string       `json:"raw_url,omitempty"`
	CreatedBy      string       `json:"created_by"`
}
