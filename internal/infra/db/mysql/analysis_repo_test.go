package mysql

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/rivalradar/rivalradar/internal/domain/competitors"
)

func TestAnalysisSave(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAnalysisRepository(db)

	share := 12.5
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO competitor_analyses")).
		WithArgs(
			domain.AnalysisID("a-1"), domain.CompetitorID("c-1"), testTime,
			[]byte(`["brand"]`), []byte(`["price"]`), []byte(`[]`), []byte(`[]`),
			share, "raw model output", nil,
			"", "alice",
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Save(context.Background(), &domain.Analysis{
		ID:           "a-1",
		CompetitorID: "c-1",
		AnalysisDate: testTime,
		Strengths:    []string{"brand"},
		Weaknesses:   []string{"price"},
		MarketShare:  &share,
		AIInsights:   "raw model output",
		CreatedBy:    "alice",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisListByCompetitor(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAnalysisRepository(db)

	cols := []string{"id", "competitor_id", "name", "analysis_date",
		"strengths", "weaknesses", "opportunities", "threats",
		"market_share", "ai_insights", "sentiment_score", "raw_url", "created_by"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM competitor_analyses a")).
		WithArgs("alice", domain.CompetitorID("c-1")).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"a-1", "c-1", "Acme Corp", testTime,
			[]byte(`["brand"]`), []byte(`[]`), []byte(`[]`), []byte(`[]`),
			12.5, "raw", nil, "", "alice",
		))

	list, err := repo.ListByCompetitor(context.Background(), "alice", "c-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme Corp", list[0].CompetitorName)
	require.NotNil(t, list[0].MarketShare)
	assert.Equal(t, 12.5, *list[0].MarketShare)
	assert.Nil(t, list[0].SentimentScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisGet(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAnalysisRepository(db)

	cols := []string{"id", "competitor_id", "name", "analysis_date",
		"strengths", "weaknesses", "opportunities", "threats",
		"market_share", "ai_insights", "sentiment_score", "raw_url", "created_by"}
	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.created_by=? AND a.id=?")).
		WithArgs("alice", domain.AnalysisID("a-1")).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"a-1", "c-1", "Acme Corp", testTime,
			[]byte(`["brand"]`), []byte(`[]`), []byte(`[]`), []byte(`[]`),
			nil, "raw", 0.4, "", "alice",
		))

	a, err := repo.Get(context.Background(), "alice", "a-1")
	require.NoError(t, err)
	assert.Equal(t, domain.AnalysisID("a-1"), a.ID)
	assert.Equal(t, "Acme Corp", a.CompetitorName)
	assert.Nil(t, a.MarketShare)
	require.NotNil(t, a.SentimentScore)
	assert.Equal(t, 0.4, *a.SentimentScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisLatestDefaultLimit(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAnalysisRepository(db)

	cols := []string{"id", "competitor_id", "name", "analysis_date",
		"strengths", "weaknesses", "opportunities", "threats",
		"market_share", "ai_insights", "sentiment_score", "raw_url", "created_by"}
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY a.analysis_date DESC LIMIT ?")).
		WithArgs("alice", 5).
		WillReturnRows(sqlmock.NewRows(cols))

	list, err := repo.Latest(context.Background(), "alice", 0)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NoError(t, mock.ExpectationsWereMet())
}
