package service

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aptivohq/aptivo-backend/internal/model"
	"github.com/aptivohq/aptivo-backend/internal/repository"
)

// DashboardSummary is the staff landing-page aggregate.
type DashboardSummary struct {
	TotalCandidates   int                         `json:"total_candidates"`
	TotalTickets      int                         `json:"total_tickets"`
	TotalExamVersions int                         `json:"total_exam_versions"`
	TotalAttempts     int                         `json:"total_attempts"`
	AttemptsByStatus  map[model.AttemptStatus]int `json:"attempts_by_status"`
	RecentScores      []repository.RecentScore    `json:"recent_scores"`
}

// DashboardService aggregates counts for the staff overview.
type DashboardService struct {
	db            *pgxpool.Pool
	dashboardRepo *repository.DashboardRepository
}

// NewDashboardService creates a new DashboardService.
func NewDashboardService(db *pgxpool.Pool, dashboardRepo *repository.DashboardRepository) *DashboardService {
	return &DashboardService{db: db, dashboardRepo: dashboardRepo}
}

// GetSummary returns the dashboard aggregate.
func (s *DashboardService) GetSummary(ctx context.Context) (*DashboardSummary, error) {
	candidates, tickets, versions, attempts, err := s.dashboardRepo.GetSummaryCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("summary counts: %w", err)
	}
	byStatus, err := s.dashboardRepo.GetAttemptStatusCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("status counts: %w", err)
	}
	recent, err := s.dashboardRepo.GetRecentScores(ctx, 10)
	if err != nil {
		return nil, fmt.Errorf("recent scores: %w", err)
	}

	return &DashboardSummary{
		TotalCandidates:   candidates,
		TotalTickets:      tickets,
		TotalExamVersions: versions,
		TotalAttempts:     attempts,
		AttemptsByStatus:  byStatus,
		RecentScores:      recent,
	}, nil
}
