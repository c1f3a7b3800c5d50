package intel

import (
	"context"
	"strings"

	domai "github.com/rivalradar/rivalradar/internal/domain/ai"
	domain "github.com/rivalradar/rivalradar/internal/domain/competitors"
	"github.com/rivalradar/rivalradar/internal/domain/insight"
	"github.com/rivalradar/rivalradar/internal/infra/ai/prompt"
)

// Service answers the stateless intelligence queries (company search and
// head-to-head comparison). Nothing here touches the database.
type Service struct {
	AI domai.Client
}

// SearchCompanies asks the model for companies matching query and returns the
// normalized result list, capped at five entries.
func (s *Service) SearchCompanies(ctx context.Context, query string) ([]insight.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &domain.ValidationError{Field: "query", Reason: "is required"}
	}

	raw, err := s.AI.Complete(ctx, prompt.Search(query))
	if err != nil {
		return nil, err
	}
	candidate, err := insight.Extract(raw, insight.Array)
	if err != nil {
		return nil, err
	}
	return insight.NormalizeSearchResults(candidate)
}

// CompareCompanies runs a structured comparison of two companies. Both sides
// may be described with as much or as little detail as the caller has; only
// the names are required.
func (s *Service) CompareCompanies(ctx context.Context, c1, c2 prompt.Company) (*insight.Comparison, error) {
	if strings.TrimSpace(c1.Name) == "" {
		return nil, &domain.ValidationError{Field: "company1", Reason: "name is required"}
	}
	if strings.TrimSpace(c2.Name) == "" {
		return nil, &domain.ValidationError{Field: "company2", Reason: "name is required"}
	}

	raw, err := s.AI.Complete(ctx, prompt.Compare(c1, c2))
	if err != nil {
		return nil, err
	}
	candidate, err := insight.Extract(raw, insight.Object)
	if err != nil {
		return nil, err
	}
	return insight.NormalizeComparison(candidate)
}
