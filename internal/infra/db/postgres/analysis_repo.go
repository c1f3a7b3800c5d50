package postgres

import (
	"context"
	"database/sql"

	domain "github.com/rivalradar/rivalradar/internal/domain/competitors"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

var _ domain.AnalysisRepository = (*AnalysisRepository)(nil)

// Save inserts an analysis record. Rows are immutable, plain insert.
func (r *AnalysisRepository) Save(ctx context.Context, a *domain.Analysis) error {
	const q = `
INSERT INTO competitor_analyses
(id, competitor_id, analysis_date, strengths, weaknesses, opportunities, threats,
 market_share, ai_insights, sentiment_score, raw_url, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12);
`
	strengths, err := encodeList(a.Strengths)
	if err != nil {
		return err
	}
	weaknesses, err := encodeList(a.Weaknesses)
	if err != nil {
		return err
	}
	opportunities, err := encodeList(a.Opportunities)
	if err != nil {
		return err
	}
	threats, err := encodeList(a.Threats)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		a.ID, a.CompetitorID, a.AnalysisDate,
		strengths, weaknesses, opportunities, threats,
		nullFloat(a.MarketShare), a.AIInsights, nullFloat(a.SentimentScore),
		a.RawURL, a.CreatedBy,
	)
	return err
}

const analysisCols = `a.id, a.competitor_id, c.name, a.analysis_date,
       a.strengths, a.weaknesses, a.opportunities, a.threats,
       a.market_share, a.ai_insights, a.sentiment_score, a.raw_url, a.created_by`

const analysisJoin = `
FROM competitor_analyses a
JOIN competitors c ON c.id = a.competitor_id`

func scanAnalysis(row interface{ Scan(...any) error }) (*domain.Analysis, error) {
	var a domain.Analysis
	var strengths, weaknesses, opportunities, threats []byte
	var share, sentiment sql.NullFloat64
	if err := row.Scan(
		&a.ID, &a.CompetitorID, &a.CompetitorName, &a.AnalysisDate,
		&strengths, &weaknesses, &opportunities, &threats,
		&share, &a.AIInsights, &sentiment, &a.RawURL, &a.CreatedBy,
	); err != nil {
		return nil, err
	}
	var err error
	if a.Strengths, err = decodeList(strengths); err != nil {
		return nil, err
	}
	if a.Weaknesses, err = decodeList(weaknesses); err != nil {
		return nil, err
	}
	if a.Opportunities, err = decodeList(opportunities); err != nil {
		return nil, err
	}
	if a.Threats, err = decodeList(threats); err != nil {
		return nil, err
	}
	if share.Valid {
		v := share.Float64
		a.MarketShare = &v
	}
	if sentiment.Valid {
		v := sentiment.Float64
		a.SentimentScore = &v
	}
	return &a, nil
}

func (r *AnalysisRepository) Get(ctx context.Context, user string, id domain.AnalysisID) (*domain.Analysis, error) {
	const q = `
SELECT ` + analysisCols + analysisJoin + `
WHERE a.created_by=$1 AND a.id=$2 LIMIT 1;
`
	return scanAnalysis(r.db.QueryRowContext(ctx, q, user, id))
}

func (r *AnalysisRepository) ListByCompetitor(ctx context.Context, user string, id domain.CompetitorID) ([]*domain.Analysis, error) {
	const q = `
SELECT ` + analysisCols + analysisJoin + `
WHERE a.created_by=$1 AND a.competitor_id=$2
ORDER BY a.analysis_date DESC;
`
	return r.queryMany(ctx, q, user, id)
}

func (r *AnalysisRepository) Latest(ctx context.Context, user string, limit int) ([]*domain.Analysis, error) {
	if limit <= 0 {
		limit = 5
	}
	const q = `
SELECT ` + analysisCols + analysisJoin + `
WHERE a.created_by=$1
ORDER BY a.analysis_date DESC LIMIT $2;
`
	return r.queryMany(ctx, q, user, limit)
}

func (r *AnalysisRepository) queryMany(ctx context.Context, q string, args ...any) ([]*domain.Analysis, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
