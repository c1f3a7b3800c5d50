package competitors

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domai "github.com/rivalradar/rivalradar/internal/domain/ai"
	domain "github.com/rivalradar/rivalradar/internal/domain/competitors"
	"github.com/rivalradar/rivalradar/internal/domain/insight"
)

//
// fakes
//

type fakeRepo struct {
	byID         map[domain.CompetitorID]*domain.Competitor
	markAnalyzed []time.Time
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: make(map[domain.CompetitorID]*domain.Competitor)}
}

func (f *fakeRepo) Save(ctx context.Context, c *domain.Competitor) error {
	cp := *c
	f.byID[c.ID] = &cp
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, user string, id domain.CompetitorID) (*domain.Competitor, error) {
	c, ok := f.byID[id]
	if !ok || c.CreatedBy != user {
		return nil, sql.ErrNoRows
	}
	cp := *c
	return &cp, nil
}

func (f *fakeRepo) GetByName(ctx context.Context, user string, name string) (*domain.Competitor, error) {
	for _, c := range f.byID {
		if c.CreatedBy == user && c.Name == name {
			cp := *c
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) List(ctx context.Context, user string) ([]*domain.Competitor, error) {
	var out []*domain.Competitor
	for _, c := range f.byID {
		if c.CreatedBy == user {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRepo) Delete(ctx context.Context, user string, id domain.CompetitorID) error {
	if _, ok := f.byID[id]; !ok {
		return sql.ErrNoRows
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) MarkAnalyzed(ctx context.Context, id domain.CompetitorID, at time.Time) error {
	f.markAnalyzed = append(f.markAnalyzed, at)
	if c, ok := f.byID[id]; ok {
		c.LastAnalyzed = &at
	}
	return nil
}

func (f *fakeRepo) MarketPositions(ctx context.Context, user string) ([]string, error) {
	return []string{"Leader"}, nil
}

func (f *fakeRepo) Count(ctx context.Context, user string) (int64, error) {
	var n int64
	for _, c := range f.byID {
		if c.CreatedBy == user {
			n++
		}
	}
	return n, nil
}

type fakeAnalysisRepo struct {
	saved []*domain.Analysis
}

func (f *fakeAnalysisRepo) Save(ctx context.Context, a *domain.Analysis) error {
	cp := *a
	f.saved = append(f.saved, &cp)
	return nil
}

func (f *fakeAnalysisRepo) Get(ctx context.Context, user string, id domain.AnalysisID) (*domain.Analysis, error) {
	for _, a := range f.saved {
		if a.ID == id && a.CreatedBy == user {
			return a, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAnalysisRepo) ListByCompetitor(ctx context.Context, user string, id domain.CompetitorID) ([]*domain.Analysis, error) {
	var out []*domain.Analysis
	for _, a := range f.saved {
		if a.CompetitorID == id && a.CreatedBy == user {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAnalysisRepo) Latest(ctx context.Context, user string, limit int) ([]*domain.Analysis, error) {
	var out []*domain.Analysis
	for _, a := range f.saved {
		if a.CreatedBy == user {
			out = append(out, a)
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeAI struct {
	response string
	err      error
	prompts  []string
}

func (f *fakeAI) Complete(ctx context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeSnapshots struct {
	keys []string
	err  error
}

func (f *fakeSnapshots) PutText(ctx context.Context, key, text string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "http://store/" + key, nil
}

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

var testTime = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func newService(ai *fakeAI) (*Service, *fakeRepo, *fakeAnalysisRepo) {
	repo := newFakeRepo()
	analyses := &fakeAnalysisRepo{}
	svc := &Service{
		Repo:     repo,
		Analyses: analyses,
		AI:       ai,
		Clock:    fixedClock{at: testTime},
	}
	return svc, repo, analyses
}

func seedCompetitor(t *testing.T, svc *Service) *domain.Competitor {
	t.Helper()
	c, err := svc.Create(context.Background(), "alice", Command{
		Name:           "Acme Corp",
		Description:    "Makes everything",
		Website:        "https://acme.example",
		Features:       []string{"anvils"},
		MarketPosition: "Leader",
	})
	require.NoError(t, err)
	return c
}

//
// CRUD
//

func TestCreateCompetitor(t *testing.T) {
	svc, repo, _ := newService(&fakeAI{})

	c := seedCompetitor(t, svc)

	assert.NotEmpty(t, c.ID)
	assert.Equal(t, testTime, c.CreatedAt)
	assert.Equal(t, testTime, c.UpdatedAt)
	assert.Equal(t, "alice", c.CreatedBy)
	assert.Nil(t, c.LastAnalyzed)
	assert.Len(t, repo.byID, 1)
}

func TestCreateCompetitorRequiresName(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})

	_, err := svc.Create(context.Background(), "alice", Command{Name: "   "})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "name", vErr.Field)
}

func TestCreateCompetitorDuplicateName(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})
	seedCompetitor(t, svc)

	_, err := svc.Create(context.Background(), "alice", Command{Name: "Acme Corp"})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Contains(t, vErr.Error(), "already exists")
}

func TestCreateCompetitorSameNameDifferentUser(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})
	seedCompetitor(t, svc)

	// uniqueness is per owner
	_, err := svc.Create(context.Background(), "bob", Command{Name: "Acme Corp"})
	assert.NoError(t, err)
}

func TestCreateCompetitorBadWebsite(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})

	_, err := svc.Create(context.Background(), "alice", Command{Name: "Acme", Website: "acme.example"})

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "website", vErr.Field)
}

func TestUpdateCompetitorKeepsOwnName(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})
	c := seedCompetitor(t, svc)

	// saving under its own name is not a duplicate
	updated, err := svc.Update(context.Background(), "alice", c.ID, Command{
		Name:        "Acme Corp",
		Description: "Updated",
	})
	require.NoError(t, err)
	assert.Equal(t, "Updated", updated.Description)
	assert.Equal(t, c.CreatedAt, updated.CreatedAt)
}

func TestUpdateCompetitorNotFound(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})

	_, err := svc.Update(context.Background(), "alice", "missing", Command{Name: "x"})
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestGetScopedToUser(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})
	c := seedCompetitor(t, svc)

	_, err := svc.Get(context.Background(), "bob", c.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

//
// analyze pipeline
//

const swotResponse = `Here is the analysis:
{
  "strengths": ["brand"],
  "weaknesses": ["price"],
  "opportunities": ["apac"],
  "threats": ["newcomers"],
  "market_share": 12.5,
  "sentiment_score": 0.4,
  "summary": "solid incumbent"
}`

func TestAnalyzePersistsOneRow(t *testing.T) {
	ai := &fakeAI{response: swotResponse}
	svc, repo, analyses := newService(ai)
	c := seedCompetitor(t, svc)

	a, err := svc.Analyze(context.Background(), "alice", c.ID)
	require.NoError(t, err)

	require.Len(t, analyses.saved, 1)
	assert.Equal(t, c.ID, a.CompetitorID)
	assert.Equal(t, "Acme Corp", a.CompetitorName)
	assert.Equal(t, []string{"brand"}, a.Strengths)
	require.NotNil(t, a.MarketShare)
	assert.Equal(t, 12.5, *a.MarketShare)
	// raw model output is kept verbatim
	assert.Equal(t, swotResponse, a.AIInsights)

	require.Len(t, repo.markAnalyzed, 1)
	assert.Equal(t, a.AnalysisDate, repo.markAnalyzed[0])
	stored, err := svc.Get(context.Background(), "alice", c.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.LastAnalyzed)
	assert.Equal(t, testTime, *stored.LastAnalyzed)
}

func TestAnalyzeExtractionFailureWritesNothing(t *testing.T) {
	ai := &fakeAI{response: "I could not produce an analysis."}
	svc, repo, analyses := newService(ai)
	c := seedCompetitor(t, svc)

	_, err := svc.Analyze(context.Background(), "alice", c.ID)

	var exErr *insight.ExtractionError
	require.True(t, errors.As(err, &exErr))
	assert.Empty(t, analyses.saved)
	assert.Empty(t, repo.markAnalyzed)
}

func TestAnalyzeUpstreamFailureWritesNothing(t *testing.T) {
	ai := &fakeAI{err: &domai.UpstreamError{Kind: domai.KindQuota, Err: errors.New("429")}}
	svc, repo, analyses := newService(ai)
	c := seedCompetitor(t, svc)

	_, err := svc.Analyze(context.Background(), "alice", c.ID)

	var upErr *domai.UpstreamError
	require.True(t, errors.As(err, &upErr))
	assert.Equal(t, domai.KindQuota, upErr.Kind)
	assert.Empty(t, analyses.saved)
	assert.Empty(t, repo.markAnalyzed)
}

func TestAnalyzeUnknownCompetitor(t *testing.T) {
	svc, _, _ := newService(&fakeAI{response: swotResponse})

	_, err := svc.Analyze(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestAnalyzeSnapshotsRawResponse(t *testing.T) {
	ai := &fakeAI{response: swotResponse}
	svc, _, _ := newService(ai)
	snaps := &fakeSnapshots{}
	svc.Snapshots = snaps
	c := seedCompetitor(t, svc)

	a, err := svc.Analyze(context.Background(), "alice", c.ID)
	require.NoError(t, err)

	require.Len(t, snaps.keys, 1)
	assert.Contains(t, snaps.keys[0], string(c.ID))
	assert.Equal(t, "http://store/"+snaps.keys[0], a.RawURL)
}

func TestAnalyzeSnapshotFailureWritesNothing(t *testing.T) {
	ai := &fakeAI{response: swotResponse}
	svc, _, analyses := newService(ai)
	svc.Snapshots = &fakeSnapshots{err: errors.New("bucket down")}
	c := seedCompetitor(t, svc)

	_, err := svc.Analyze(context.Background(), "alice", c.ID)

	require.Error(t, err)
	assert.Empty(t, analyses.saved)
}

//
// fetch_from_ai pipeline
//

const profileResponse = `{
  "name": "Globex",
  "description": "Energy conglomerate",
  "website": "https://globex.example",
  "features": ["power"],
  "market_position": "Challenger"
}`

func TestFetchFromAICreatesCompetitor(t *testing.T) {
	ai := &fakeAI{response: profileResponse}
	svc, repo, _ := newService(ai)

	c, err := svc.FetchFromAI(context.Background(), "alice", "Globex")
	require.NoError(t, err)

	assert.Equal(t, "Globex", c.Name)
	assert.Equal(t, "Challenger", c.MarketPosition)
	assert.Equal(t, "alice", c.CreatedBy)
	assert.Len(t, repo.byID, 1)
	require.Len(t, ai.prompts, 1)
	assert.Contains(t, ai.prompts[0], "Globex")
}

func TestFetchFromAIRequiresName(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})

	_, err := svc.FetchFromAI(context.Background(), "alice", "  ")

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
}

func TestFetchFromAIBadPayloadWritesNothing(t *testing.T) {
	ai := &fakeAI{response: `{"description": "no name here"}`}
	svc, repo, _ := newService(ai)

	_, err := svc.FetchFromAI(context.Background(), "alice", "Globex")

	var scErr *insight.SchemaError
	require.True(t, errors.As(err, &scErr))
	assert.Empty(t, repo.byID)
}

func TestFetchFromAIDuplicateWritesNothing(t *testing.T) {
	ai := &fakeAI{response: profileResponse}
	svc, repo, _ := newService(ai)
	_, err := svc.Create(context.Background(), "alice", Command{Name: "Globex"})
	require.NoError(t, err)

	_, err = svc.FetchFromAI(context.Background(), "alice", "Globex")

	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Len(t, repo.byID, 1)
}

//
// market overview
//

func TestMarketOverview(t *testing.T) {
	ai := &fakeAI{response: swotResponse}
	svc, _, _ := newService(ai)
	c := seedCompetitor(t, svc)
	_, err := svc.Analyze(context.Background(), "alice", c.ID)
	require.NoError(t, err)

	overview, err := svc.MarketOverview(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, int64(1), overview["total_competitors"])
	assert.Equal(t, []string{"Leader"}, overview["market_positions"])
	recent, ok := overview["recent_analyses"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, recent, 1)
	assert.Equal(t, "Acme Corp", recent[0]["competitor_name"])
}

func TestGetAnalysis(t *testing.T) {
	ai := &fakeAI{response: swotResponse}
	svc, _, _ := newService(ai)
	c := seedCompetitor(t, svc)
	a, err := svc.Analyze(context.Background(), "alice", c.ID)
	require.NoError(t, err)

	got, err := svc.GetAnalysis(context.Background(), "alice", a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, []string{"brand"}, got.Strengths)

	// analyses are scoped to their owner too
	_, err = svc.GetAnalysis(context.Background(), "bob", a.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestListAnalysesUnknownCompetitor(t *testing.T) {
	svc, _, _ := newService(&fakeAI{})

	_, err := svc.ListAnalyses(context.Background(), "alice", "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
