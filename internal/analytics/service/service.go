// Package service aggregates portal-wide counts and distributions for the
// dashboard and the analytics overview.
package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	collabstore "innoport/internal/collab/store"
	patentmodels "innoport/internal/patent/models"
	patentstore "innoport/internal/patent/store"
	researchmodels "innoport/internal/research/models"
	researchstore "innoport/internal/research/store"
	startupmodels "innoport/internal/startup/models"
	startupstore "innoport/internal/startup/store"
)

// InterestTotaler reports the sum of all expressed interest.
type InterestTotaler interface {
	Total(ctx context.Context) (float64, error)
}

type Service struct {
	projects researchstore.Store
	patents  patentstore.Store
	startups startupstore.Store
	collabs  collabstore.Store
	interest InterestTotaler
	logger   *slog.Logger
}

func New(projects researchstore.Store, patents patentstore.Store, startups startupstore.Store, collabs collabstore.Store, interest InterestTotaler, logger *slog.Logger) (*Service, error) {
	if projects == nil || patents == nil || startups == nil || collabs == nil {
		return nil, errors.New("all entity stores are required")
	}
	if interest == nil {
		return nil, errors.New("interest totaler is required")
	}
	return &Service{
		projects: projects,
		patents:  patents,
		startups: startups,
		collabs:  collabs,
		interest: interest,
		logger:   logger,
	}, nil
}

// DashboardSummary is the four headline counts on the landing dashboard.
type DashboardSummary struct {
	ResearchProjects int `json:"research_projects"`
	Patents          int `json:"patents"`
	Startups         int `json:"startups"`
	Collaborations   int `json:"collaborations"`
}

// Dashboard runs the four counts concurrently. A failed count renders as
// zero rather than failing the whole page; the error is logged and the other
// cards still fill in.
func (s *Service) Dashboard(ctx context.Context) (DashboardSummary, error) {
	var summary DashboardSummary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		summary.ResearchProjects = s.countOrZero(gctx, "research_projects", s.projects.Count)
		return nil
	})
	g.Go(func() error {
		summary.Patents = s.countOrZero(gctx, "patents", s.patents.Count)
		return nil
	})
	g.Go(func() error {
		summary.Startups = s.countOrZero(gctx, "startups", s.startups.Count)
		return nil
	})
	g.Go(func() error {
		summary.Collaborations = s.countOrZero(gctx, "collaborations", s.collabs.Count)
		return nil
	})

	if err := g.Wait(); err != nil {
		return DashboardSummary{}, err
	}
	return summary, nil
}

func (s *Service) countOrZero(ctx context.Context, name string, count func(context.Context) (int, error)) int {
	n, err := count(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "dashboard count failed", "entity", name, "error", err)
		}
		return 0
	}
	return n
}

// Overview is the full analytics page payload.
type Overview struct {
	ProjectsByStatus map[string]int `json:"projects_by_status"`
	PatentsByStatus  map[string]int `json:"patents_by_status"`
	PatentsByYear    map[int]int    `json:"patents_by_year"`
	StartupsBySector map[string]int `json:"startups_by_sector"`
	StartupsByStage  map[string]int `json:"startups_by_stage"`
	TotalInterest    float64        `json:"total_interest"`
	VerifiedStartups int            `json:"verified_startups"`
	ApprovedProjects int            `json:"approved_projects"`
}

// BuildOverview fans out the aggregate queries concurrently. Unlike the
// dashboard, a failed aggregate fails the overview: a partial analytics page
// is worse than an error the admin can retry.
func (s *Service) BuildOverview(ctx context.Context) (Overview, error) {
	overview := Overview{
		ProjectsByStatus: make(map[string]int),
		PatentsByStatus:  make(map[string]int),
		PatentsByYear:    make(map[int]int),
		StartupsBySector: make(map[string]int),
		StartupsByStage:  make(map[string]int),
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		projects, err := s.projects.List(gctx, researchmodels.ListFilter{})
		if err != nil {
			return err
		}
		for _, project := range projects {
			overview.ProjectsByStatus[string(project.Status)]++
			if project.Status == researchmodels.StatusApproved {
				overview.ApprovedProjects++
			}
		}
		return nil
	})
	g.Go(func() error {
		patents, err := s.patents.List(gctx, patentmodels.ListFilter{})
		if err != nil {
			return err
		}
		for _, patent := range patents {
			overview.PatentsByStatus[string(patent.Status)]++
			overview.PatentsByYear[patent.FiledDate.Year()]++
		}
		return nil
	})
	g.Go(func() error {
		startups, err := s.startups.List(gctx, startupmodels.ListFilter{})
		if err != nil {
			return err
		}
		for _, startup := range startups {
			overview.StartupsBySector[startup.Sector]++
			overview.StartupsByStage[string(startup.Stage)]++
			if startup.IsVerified {
				overview.VerifiedStartups++
			}
		}
		return nil
	})
	g.Go(func() error {
		total, err := s.interest.Total(gctx)
		if err != nil {
			return err
		}
		overview.TotalInterest = total
		return nil
	})

	if err := g.Wait(); err != nil {
		return Overview{}, err
	}
	return overview, nil
}
