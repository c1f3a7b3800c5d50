package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rivalradar/rivalradar/internal/application"
	competitors "github.com/rivalradar/rivalradar/internal/domain/competitors"
	domain "github.com/rivalradar/rivalradar/internal/domain/reports"
)

// Service implements report CRUD plus the dashboard feed.
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

// Command carries caller-supplied report fields for create/update.
type Command struct {
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	CompetitorIDs []string       `json:"competitors"`
	Data          map[string]any `json:"data"`
}

func (s *Service) Create(ctx context.Context, user string, cmd Command) (*domain.Report, error) {
	if err := validate(cmd); err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	rep := &domain.Report{
		ID:            domain.ReportID(uuid.New().String()),
		Title:         cmd.Title,
		Description:   cmd.Description,
		CompetitorIDs: idsOrEmpty(cmd.CompetitorIDs),
		Data:          dataOrEmpty(cmd.Data),
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     user,
	}
	if err := s.Repo.Save(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Service) Get(ctx context.Context, user string, id domain.ReportID) (*domain.Report, error) {
	return s.Repo.Get(ctx, user, id)
}

func (s *Service) List(ctx context.Context, user string) ([]*domain.Report, error) {
	return s.Repo.List(ctx, user)
}

func (s *Service) Update(ctx context.Context, user string, id domain.ReportID, cmd Command) (*domain.Report, error) {
	rep, err := s.Repo.Get(ctx, user, id)
	if err != nil {
		return nil, err
	}
	if err := validate(cmd); err != nil {
		return nil, err
	}
	rep.Title = cmd.Title
	rep.Description = cmd.Description
	rep.CompetitorIDs = idsOrEmpty(cmd.CompetitorIDs)
	rep.Data = dataOrEmpty(cmd.Data)
	rep.UpdatedAt = s.Clock.Now()
	if err := s.Repo.Save(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

func (s *Service) Delete(ctx context.Context, user string, id domain.ReportID) error {
	return s.Repo.Delete(ctx, user, id)
}

// DashboardData returns the static comparison dataset backing the dashboard
// charts. The numbers are illustrative placeholders until per-account
// aggregation lands.
func (s *Service) DashboardData(ctx context.Context) ([]map[string]any, error) {
	rows := []struct {
		category    string
		yourCompany int
		competitors int
	}{
		{"Feature Coverage", 85, 65},
		{"Market Share", 35, 65},
		{"Innovation", 90, 70},
		{"Pricing", 60, 75},
		{"Customer Satisfaction", 88, 72},
	}
	out := make([]map[string]any, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]any{
			"category":    r.category,
			"yourCompany": r.yourCompany,
			"competitors": r.competitors,
		})
	}
	return out, nil
}

func validate(cmd Command) error {
	if strings.TrimSpace(cmd.Title) == "" {
		return &competitors.ValidationError{Field: "title", Reason: "is required"}
	}
	if len(cmd.Title) > competitors.MaxNameLen {
		return &competitors.ValidationError{Field: "title", Reason: fmt.Sprintf("exceeds %d characters", competitors.MaxNameLen)}
	}
	return nil
}

func idsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}

func dataOrEmpty(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}
