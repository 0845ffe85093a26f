package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
	"github.com/tripsight/tripsight-engine/pkg/models"
	"github.com/tripsight/tripsight-engine/pkg/repositories"
)

// DashboardService serves the aggregate views backing the operational
// dashboard.
type DashboardService interface {
	KPIs(ctx context.Context, filter models.TripFilter) (*models.KPISummary, error)
	Charts(ctx context.Context, filter models.TripFilter) (*models.ChartData, error)
}

type dashboardService struct {
	tripRepo repositories.TripRepository
	logger   *zap.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(tripRepo repositories.TripRepository, logger *zap.Logger) DashboardService {
	return &dashboardService{
		tripRepo: tripRepo,
		logger:   logger.Named("dashboard"),
	}
}

func (s *dashboardService) KPIs(ctx context.Context, filter models.TripFilter) (*models.KPISummary, error) {
	summary, err := s.tripRepo.KPISummary(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDataAccessError("postgres", "kpi summary", err)
	}
	return summary, nil
}

func (s *dashboardService) Charts(ctx context.Context, filter models.TripFilter) (*models.ChartData, error) {
	data, err := s.tripRepo.ChartData(ctx, filter)
	if err != nil {
		return nil, apperrors.NewDataAccessError("postgres", "chart data", err)
	}
	return data, nil
}
