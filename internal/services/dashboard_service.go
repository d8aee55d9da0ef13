package services

import (
	"context"

	"lead-backend/internal/cache"
	"lead-backend/internal/models"
	"lead-backend/internal/repositories"
)

// DashboardStats backs the dashboard cards and charts.
type DashboardStats struct {
	Counts   *repositories.DashboardCounts `json:"counts"`
	ByStatus map[string]int                `json:"by_status"`
	BySource map[string]int                `json:"by_source"`
	ByCity   map[string]int                `json:"by_city"`
}

type DashboardService struct {
	buyerRepo *repositories.BuyerRepository
}

func NewDashboardService(db repositories.DBTX) *DashboardService {
	return &DashboardService{buyerRepo: repositories.NewBuyerRepository(db)}
}

// Stats aggregates lead counts, serving from Redis when a fresh snapshot
// exists. Any lead write invalidates the cached copy.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var cached DashboardStats
	if cache.GetDashboardStats(ctx, &cached) {
		return &cached, nil
	}

	counts, err := s.buyerRepo.CountDashboard(ctx)
	if err != nil {
		return nil, models.NewPersistenceError("dashboard counts", err)
	}

	stats := &DashboardStats{Counts: counts}
	for column, dest := range map[string]*map[string]int{
		"status": &stats.ByStatus,
		"source": &stats.BySource,
		"city":   &stats.ByCity,
	} {
		grouped, err := s.buyerRepo.GroupCount(ctx, column)
		if err != nil {
			return nil, models.NewPersistenceError("dashboard group counts", err)
		}
		*dest = grouped
	}

	cache.SetDashboardStats(ctx, stats)
	return stats, nil
}
