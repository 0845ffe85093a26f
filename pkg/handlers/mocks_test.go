package handlers

import (
	"context"

	"github.com/tripsight/tripsight-engine/pkg/models"
	"github.com/tripsight/tripsight-engine/pkg/services"
)

// mockSearchService is a configurable mock for handler tests.
type mockSearchService struct {
	matches []models.SearchMatch
	trips   []models.Trip
	err     error

	lastQuery  string
	lastTopK   int
	lastReason string
	lastLimit  int
}

func (m *mockSearchService) Search(ctx context.Context, queryText string, topK int) ([]models.SearchMatch, error) {
	m.lastQuery = queryText
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	return m.matches, nil
}

func (m *mockSearchService) ExamplesFor(ctx context.Context, reasonText string, limit int) ([]models.Trip, error) {
	m.lastReason = reasonText
	m.lastLimit = limit
	if m.err != nil {
		return nil, m.err
	}
	return m.trips, nil
}

// mockIndexerService is a configurable mock for handler tests.
type mockIndexerService struct {
	indexed int
	err     error
	calls   int
}

func (m *mockIndexerService) Rebuild(ctx context.Context) (int, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.indexed, nil
}

// mockAssistantService is a configurable mock for handler tests.
type mockAssistantService struct {
	result       *services.AskResult
	err          error
	lastQuestion string
}

func (m *mockAssistantService) Ask(ctx context.Context, question string) (*services.AskResult, error) {
	m.lastQuestion = question
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

// mockDashboardService is a configurable mock for handler tests.
type mockDashboardService struct {
	summary    *models.KPISummary
	charts     *models.ChartData
	err        error
	lastFilter models.TripFilter
}

func (m *mockDashboardService) KPIs(ctx context.Context, filter models.TripFilter) (*models.KPISummary, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.summary, nil
}

func (m *mockDashboardService) Charts(ctx context.Context, filter models.TripFilter) (*models.ChartData, error) {
	m.lastFilter = filter
	if m.err != nil {
		return nil, m.err
	}
	return m.charts, nil
}

var (
	_ services.SearchService    = (*mockSearchService)(nil)
	_ services.IndexerService   = (*mockIndexerService)(nil)
	_ services.AssistantService = (*mockAssistantService)(nil)
	_ services.DashboardService = (*mockDashboardService)(nil)
)
