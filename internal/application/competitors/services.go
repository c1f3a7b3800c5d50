package competitors

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/rivalradar/rivalradar/internal/application"
	domai "github.com/rivalradar/rivalradar/internal/domain/ai"
	domain "github.com/rivalradar/rivalradar/internal/domain/competitors"
	"github.com/rivalradar/rivalradar/internal/domain/insight"
	"github.com/rivalradar/rivalradar/internal/infra/ai/prompt"
)

// SnapshotStore port (interface for raw-response snapshot storage)
type SnapshotStore interface {
	PutText(ctx context.Context, key, text string) (string, error)
}

// Service implements the competitor use-cases: CRUD plus the two AI ingestion
// flows (analyze, fetch_from_ai). Safe for concurrent use.
type Service struct {
	Repo      domain.Repository
	Analyses  domain.AnalysisRepository
	AI        domai.Client
	Snapshots SnapshotStore // optional; nil skips raw snapshots
	Clock     application.Clock
}

//
// ==== USE CASES ====
//

// Command carries caller-supplied competitor fields for create/update.
type Command struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Website        string   `json:"website"`
	Features       []string `json:"features"`
	MarketPosition string   `json:"market_position"`
}

// Create persists a new competitor owned by user.
func (s *Service) Create(ctx context.Context, user string, cmd Command) (*domain.Competitor, error) {
	if err := s.validate(ctx, user, cmd, ""); err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	c := &domain.Competitor{
		ID:             domain.CompetitorID(uuid.New().String()),
		Name:           cmd.Name,
		Description:    cmd.Description,
		Website:        cmd.Website,
		Features:       featuresOrEmpty(cmd.Features),
		MarketPosition: cmd.MarketPosition,
		CreatedAt:      now,
		UpdatedAt:      now,
		CreatedBy:      user,
	}
	if err := s.Repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Get one competitor by id
func (s *Service) Get(ctx context.Context, user string, id domain.CompetitorID) (*domain.Competitor, error) {
	return s.Repo.Get(ctx, user, id)
}

// List the user's competitors, most recently updated first
func (s *Service) List(ctx context.Context, user string) ([]*domain.Competitor, error) {
	return s.Repo.List(ctx, user)
}

// Update replaces the mutable fields of an existing competitor.
func (s *Service) Update(ctx context.Context, user string, id domain.CompetitorID, cmd Command) (*domain.Competitor, error) {
	c, err := s.Repo.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, user, cmd, id); err != nil {
		return nil, err
	}
	c.Name = cmd.Name
	c.Description = cmd.Description
	c.Website = cmd.Website
	c.Features = featuresOrEmpty(cmd.Features)
	c.MarketPosition = cmd.MarketPosition
	c.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a competitor and, with it, its analyses.
func (s *Service) Delete(ctx context.Context, user string, id domain.CompetitorID) error {
	return s.Repo.Delete(ctx, user, id)
}

// Analyze runs the SWOT pipeline for an existing competitor and persists
// exactly one analysis row. The raw model response is stored verbatim as
// ai_insights (and snapshotted to object storage when configured); the
// structured SWOT fields come from the normalized payload. Persistence only
// happens after the whole pipeline has succeeded, so a failure anywhere
// leaves no partial write.
func (s *Service) Analyze(ctx context.Context, user string, id domain.CompetitorID) (*domain.Analysis, error) {
	c, err := s.Repo.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}

	raw, err := s.AI.Complete(ctx, prompt.Analyze(prompt.Company{
		Name:           c.Name,
		Description:    c.Description,
		Website:        c.Website,
		Features:       c.Features,
		MarketPosition: c.MarketPosition,
	}))
	if err != nil {
		return nil, err
	}
	candidate, err := insight.Extract(raw, insight.Object)
	if err != nil {
		return nil, err
	}
	swot, err := insight.NormalizeSWOT(candidate)
	if err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	analysisID := domain.AnalysisID(uuid.New().String())

	var rawURL string
	if s.Snapshots != nil {
		key := fmt.Sprintf("%s/%s/%s.txt", user, id, analysisID)
		if rawURL, err = s.Snapshots.PutText(ctx, key, raw); err != nil {
			return nil, err
		}
	}

	a := &domain.Analysis{
		ID:             analysisID,
		CompetitorID:   c.ID,
		CompetitorName: c.Name,
		AnalysisDate:   now,
		Strengths:      swot.Strengths,
		Weaknesses:     swot.Weaknesses,
		Opportunities:  swot.Opportunities,
		Threats:        swot.Threats,
		MarketShare:    swot.MarketShare,
		AIInsights:     raw,
		SentimentScore: swot.SentimentScore,
		RawURL:         rawURL,
		CreatedBy:      user,
	}
	if err := s.Analyses.Save(ctx, a); err != nil {
		return nil, err
	}
	// Last write wins here; concurrent analyses are additive rows anyway.
	if err := s.Repo.MarkAnalyzed(ctx, c.ID, now); err != nil {
		return nil, err
	}
	return a, nil
}

// FetchFromAI researches a company by name through the profile pipeline and
// persists it as a new competitor owned by user. Nothing is persisted unless
// the full normalized profile exists.
func (s *Service) FetchFromAI(ctx context.Context, user string, companyName string) (*domain.Competitor, error) {
	if strings.TrimSpace(companyName) == "" {
		return nil, &domain.ValidationError{Field: "company_name", Reason: "is required"}
	}

	raw, err := s.AI.Complete(ctx, prompt.Profile(companyName))
	if err != nil {
		return nil, err
	}
	candidate, err := insight.Extract(raw, insight.Object)
	if err != nil {
		return nil, err
	}
	p, err := insight.NormalizeProfile(candidate)
	if err != nil {
		return nil, err
	}

	return s.Create(ctx, user, Command{
		Name:           p.Name,
		Description:    p.Description,
		Website:        p.Website,
		Features:       p.Features,
		MarketPosition: p.MarketPosition,
	})
}

// ListAnalyses returns a competitor's analyses, newest first.
func (s *Service) ListAnalyses(ctx context.Context, user string, id domain.CompetitorID) ([]*domain.Analysis, error) {
	if _, err := s.Repo.Get(ctx, user, id); err != nil {
		return nil, err
	}
	return s.Analyses.ListByCompetitor(ctx, user, id)
}

// GetAnalysis returns one analysis row.
func (s *Service) GetAnalysis(ctx context.Context, user string, id domain.AnalysisID) (*domain.Analysis, error) {
	return s.Analyses.Get(ctx, user, id)
}

// MarketOverview aggregates totals, distinct market positions and the five
// most recent analyses.
func (s *Service) MarketOverview(ctx context.Context, user string) (map[string]any, error) {
	total, err := s.Repo.Count(ctx, user)
	if err != nil {
		return nil, err
	}
	positions, err := s.Repo.MarketPositions(ctx, user)
	if err != nil {
		return nil, err
	}
	recent, err := s.Analyses.Latest(ctx, user, 5)
	if err != nil {
		return nil, err
	}

	summaries := make([]map[string]any, 0, len(recent))
	for _, a := range recent {
		summaries = append(summaries, map[string]any{
			"competitor_name": a.CompetitorName,
			"analysis_date":   a.AnalysisDate,
			"market_share":    a.MarketShare,
			"sentiment_score": a.SentimentScore,
		})
	}
	if positions == nil {
		positions = []string{}
	}
	return map[string]any{
		"total_competitors": total,
		"market_positions":  positions,
		"recent_analyses":   summaries,
	}, nil
}

// validate enforces the persistence constraints: required name, field length
// limits, a parseable website and per-owner name uniqueness. selfID is the
// record being updated, "" on create.
func (s *Service) validate(ctx context.Context, user string, cmd Command, selfID domain.CompetitorID) error {
	if strings.TrimSpace(cmd.Name) == "" {
		return &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	if len(cmd.Name) > domain.MaxNameLen {
		return &domain.ValidationError{Field: "name", Reason: fmt.Sprintf("exceeds %d characters", domain.MaxNameLen)}
	}
	if len(cmd.Website) > domain.MaxWebsiteLen {
		return &domain.ValidationError{Field: "website", Reason: fmt.Sprintf("exceeds %d characters", domain.MaxWebsiteLen)}
	}
	if len(cmd.MarketPosition) > domain.MaxMarketPositionLen {
		return &domain.ValidationError{Field: "market_position", Reason: fmt.Sprintf("exceeds %d characters", domain.MaxMarketPositionLen)}
	}
	if cmd.Website != "" {
		u, err := url.Parse(cmd.Website)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return &domain.ValidationError{Field: "website", Reason: "must be an http(s) URL"}
		}
	}

	existing, err := s.Repo.GetByName(ctx, user, cmd.Name)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil
	case err != nil:
		return err
	case existing.ID != selfID:
		return &domain.ValidationError{Field: "name", Reason: "already exists"}
	}
	return nil
}

func featuresOrEmpty(f []string) []string {
	if f == nil {
		return []string{}
	}
	return f
}
