package insight

// Normalized payloads: model output after extraction and default-filling,
// ready for persistence or direct return to the caller.

// Profile is a single-company profile used to create a competitor record.
type Profile struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Website        string   `json:"website"`
	Features       []string `json:"features"`
	MarketPosition string   `json:"market_position"`
}

// SWOT is one structured analysis of an existing competitor.
type SWOT struct {
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Opportunities  []string `json:"opportunities"`
	Threats        []string `json:"threats"`
	MarketShare    *float64 `json:"market_share,omitempty"`
	SentimentScore *float64 `json:"sentiment_score,omitempty"`
	Summary        string   `json:"summary"`
}

// ShareSplit, TextSplit and ListSplit hold one value per compared company.
type ShareSplit struct {
	Company1 float64 `json:"company1"`
	Company2 float64 `json:"company2"`
}

type TextSplit struct {
	Company1 string `json:"company1"`
	Company2 string `json:"company2"`
}

type ListSplit struct {
	Company1 []string `json:"company1"`
	Company2 []string `json:"company2"`
}

// FeatureComparison is one row of a side-by-side feature matrix.
type FeatureComparison struct {
	Feature     string `json:"feature"`
	Company1Has bool   `json:"company1Has"`
	Company2Has bool   `json:"company2Has"`
	Notes       string `json:"notes"`
}

// Comparison is a transient head-to-head result; never persisted.
type Comparison struct {
	MarketShare       ShareSplit          `json:"marketShare"`
	Revenue           TextSplit           `json:"revenue"`
	Strengths         ListSplit           `json:"strengths"`
	Weaknesses        ListSplit           `json:"weaknesses"`
	FeatureComparison []FeatureComparison `json:"featureComparison"`
	OverallAnalysis   string              `json:"overallAnalysis"`
}

// SearchResult is one candidate company from a free-text search; transient.
type SearchResult struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Website     string   `json:"website"`
	Industry    string   `json:"industry"`
	Features    []string `json:"features"`
}
