package services

import (
	"context"

	"github.com/tripsight/tripsight-engine/pkg/models"
	"github.com/tripsight/tripsight-engine/pkg/repositories"
	"github.com/tripsight/tripsight-engine/pkg/vector"
)

// mockTripRepo implements repositories.TripRepository with function
// fields. Unset fields return zero values.
type mockTripRepo struct {
	DistinctCancellationReasonsFunc func(ctx context.Context) ([]models.ReasonEntry, error)
	ExamplesForReasonFunc           func(ctx context.Context, reasonText string, limit int) ([]models.Trip, error)
	ExecuteReadOnlyFunc             func(ctx context.Context, sqlQuery string) (*repositories.QueryResult, error)
	KPISummaryFunc                  func(ctx context.Context, filter models.TripFilter) (*models.KPISummary, error)
	ChartDataFunc                   func(ctx context.Context, filter models.TripFilter) (*models.ChartData, error)
}

func (m *mockTripRepo) DistinctCancellationReasons(ctx context.Context) ([]models.ReasonEntry, error) {
	if m.DistinctCancellationReasonsFunc != nil {
		return m.DistinctCancellationReasonsFunc(ctx)
	}
	return nil, nil
}

func (m *mockTripRepo) ExamplesForReason(ctx context.Context, reasonText string, limit int) ([]models.Trip, error) {
	if m.ExamplesForReasonFunc != nil {
		return m.ExamplesForReasonFunc(ctx, reasonText, limit)
	}
	return nil, nil
}

func (m *mockTripRepo) ExecuteReadOnly(ctx context.Context, sqlQuery string) (*repositories.QueryResult, error) {
	if m.ExecuteReadOnlyFunc != nil {
		return m.ExecuteReadOnlyFunc(ctx, sqlQuery)
	}
	return &repositories.QueryResult{}, nil
}

func (m *mockTripRepo) KPISummary(ctx context.Context, filter models.TripFilter) (*models.KPISummary, error) {
	if m.KPISummaryFunc != nil {
		return m.KPISummaryFunc(ctx, filter)
	}
	return &models.KPISummary{}, nil
}

func (m *mockTripRepo) ChartData(ctx context.Context, filter models.TripFilter) (*models.ChartData, error) {
	if m.ChartDataFunc != nil {
		return m.ChartDataFunc(ctx, filter)
	}
	return &models.ChartData{}, nil
}

var _ repositories.TripRepository = (*mockTripRepo)(nil)

// mockIndex implements VectorIndex and records calls.
type mockIndex struct {
	ResetFunc  func(ctx context.Context, dims int) error
	UpsertFunc func(ctx context.Context, records []vector.Record) error
	QueryFunc  func(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error)

	ResetCalls  int
	UpsertCalls int
	QueryCalls  int

	Upserted [][]vector.Record
}

func (m *mockIndex) Reset(ctx context.Context, dims int) error {
	m.ResetCalls++
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx, dims)
	}
	return nil
}

func (m *mockIndex) Upsert(ctx context.Context, records []vector.Record) error {
	m.UpsertCalls++
	m.Upserted = append(m.Upserted, records)
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, records)
	}
	return nil
}

func (m *mockIndex) Query(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error) {
	m.QueryCalls++
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, embedding, topK)
	}
	return nil, nil
}

var _ VectorIndex = (*mockIndex)(nil)
