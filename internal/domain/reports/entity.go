package reports

import "time"

// ReportID identifier type
type ReportID string

// Report is a user-authored analysis document tying free-form JSON data to a
// set of competitors.
type Report struct {
	ID            ReportID       `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	CompetitorIDs []string       `json:"competitors"`
	Data          map[string]any `json:"data"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	CreatedBy     string         `json:"created_by"`
}
