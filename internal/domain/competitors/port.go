package competitors

import (
	"context"
	"time"
)

// Repository port (interface for competitor persistence). Listing is ordered
// by updated_at descending; all reads are scoped to the owning user.
type Repository interface {
	Save(ctx context.Context, c *Competitor) error
	Get(ctx context.Context, user string, id CompetitorID) (*Competitor, error)
	GetByName(ctx context.Context, user string, name string) (*Competitor, error)
	List(ctx context.Context, user string) ([]*Competitor, error)
	// Delete removes the competitor and its analyses in one transaction.
	Delete(ctx context.Context, user string, id CompetitorID) error
	// MarkAnalyzed moves the last_analyzed pointer; last write wins.
	MarkAnalyzed(ctx context.Context, id CompetitorID, at time.Time) error
	MarketPositions(ctx context.Context, user string) ([]string, error)
	Count(ctx context.Context, user string) (int64, error)
}

// AnalysisRepository port. Listing is ordered by analysis_date descending.
type AnalysisRepository interface {
	Save(ctx context.Context, a *Analysis) error
	Get(ctx context.Context, user string, id AnalysisID) (*Analysis, error)
	ListByCompetitor(ctx context.Context, user string, id CompetitorID) ([]*Analysis, error)
	Latest(ctx context.Context, user string, limit int) ([]*Analysis, error)
}
