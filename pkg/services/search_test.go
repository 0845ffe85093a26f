package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
	"github.com/tripsight/tripsight-engine/pkg/llm"
	"github.com/tripsight/tripsight-engine/pkg/models"
	"github.com/tripsight/tripsight-engine/pkg/vector"
)

func newSearchService(index *mockIndex, repo *mockTripRepo) SearchService {
	embedder := llm.NewMockClient()
	embedder.CreateEmbeddingFunc = func(ctx context.Context, input string) ([]float32, error) {
		return []float32{0.1, 0.2}, nil
	}
	if repo == nil {
		repo = &mockTripRepo{}
	}
	return NewSearchService(index, embedder, repo, DefaultSearchConfig(), zap.NewNop())
}

func hitsWithDistances(distances ...float64) []vector.Hit {
	hits := make([]vector.Hit, len(distances))
	for i, d := range distances {
		hits[i] = vector.Hit{Document: "reason", Distance: d, Count: 1}
	}
	return hits
}

func TestSearchThresholdAndRank(t *testing.T) {
	ctx := context.Background()

	t.Run("filters below minimum similarity", func(t *testing.T) {
		// Similarities: 0.9, 0.39, 0.41.
		index := &mockIndex{
			QueryFunc: func(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error) {
				return hitsWithDistances(0.1, 0.61, 0.59), nil
			},
		}
		matches, err := newSearchService(index, nil).Search(ctx, "driver not found", 5)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.InDelta(t, 0.9, matches[0].Similarity, 1e-9)
		assert.InDelta(t, 0.41, matches[1].Similarity, 1e-9)
	})

	t.Run("ranks keep pre-filter positions", func(t *testing.T) {
		index := &mockIndex{
			QueryFunc: func(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error) {
				return hitsWithDistances(0.2, 0.8, 0.3), nil
			},
		}
		matches, err := newSearchService(index, nil).Search(ctx, "driver not found", 5)
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.Equal(t, 1, matches[0].Rank)
		assert.Equal(t, 3, matches[1].Rank)
	})

	t.Run("all below threshold yields empty slice", func(t *testing.T) {
		index := &mockIndex{
			QueryFunc: func(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error) {
				return hitsWithDistances(0.7, 0.8), nil
			},
		}
		matches, err := newSearchService(index, nil).Search(ctx, "driver not found", 5)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}

func TestLabelQualityBoundaries(t *testing.T) {
	svc := newSearchService(&mockIndex{}, nil).(*searchService)

	cases := []struct {
		name       string
		similarity float64
		want       models.QualityTier
	}{
		{"exactly high boundary", 0.60, models.TierHigh},
		{"just below high", 0.599999, models.TierMedium},
		{"exactly medium boundary", 0.45, models.TierMedium},
		{"just below medium", 0.449999, models.TierLow},
		{"well above high", 0.95, models.TierHigh},
		{"just above minimum", 0.41, models.TierLow},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, svc.labelQuality(tc.similarity))
		})
	}
}

func TestSearchAppliesQualityTiers(t *testing.T) {
	// Similarities: 0.7 (High), 0.5 (Medium), 0.42 (Low).
	index := &mockIndex{
		QueryFunc: func(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error) {
			return hitsWithDistances(0.3, 0.5, 0.58), nil
		},
	}
	matches, err := newSearchService(index, nil).Search(context.Background(), "driver not found", 3)
	require.NoError(t, err)
	require.Len(t, matches, 3)
	assert.Equal(t, models.TierHigh, matches[0].Quality)
	assert.Equal(t, models.TierMedium, matches[1].Quality)
	assert.Equal(t, models.TierLow, matches[2].Quality)
}

func TestSearchNormalization(t *testing.T) {
	ctx := context.Background()

	t.Run("applies substitutions before embedding", func(t *testing.T) {
		var embedded string
		embedder := llm.NewMockClient()
		embedder.CreateEmbeddingFunc = func(ctx context.Context, input string) ([]float32, error) {
			embedded = input
			return []float32{0.1}, nil
		}
		svc := NewSearchService(&mockIndex{}, embedder, &mockTripRepo{}, DefaultSearchConfig(), zap.NewNop())

		_, err := svc.Search(ctx, "  Did NOT find my driver, cant reach  ", 3)
		require.NoError(t, err)
		assert.Equal(t, "did not found my driver, can't reach", embedded)
	})

	t.Run("whitespace-only query skips the store", func(t *testing.T) {
		index := &mockIndex{}
		embedder := llm.NewMockClient()
		svc := NewSearchService(index, embedder, &mockTripRepo{}, DefaultSearchConfig(), zap.NewNop())

		matches, err := svc.Search(ctx, "   \t ", 3)
		require.NoError(t, err)
		assert.Empty(t, matches)
		assert.Equal(t, 0, embedder.CreateEmbeddingCalls)
		assert.Equal(t, 0, index.QueryCalls)
	})

	t.Run("non-positive topK skips the store", func(t *testing.T) {
		index := &mockIndex{}
		matches, err := newSearchService(index, nil).Search(ctx, "driver not found", 0)
		require.NoError(t, err)
		assert.Empty(t, matches)
		assert.Equal(t, 0, index.QueryCalls)
	})
}

func TestSearchErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("embedding failure is a data access error", func(t *testing.T) {
		embedder := llm.NewMockClient()
		embedder.CreateEmbeddingFunc = func(ctx context.Context, input string) ([]float32, error) {
			return nil, errors.New("embedding service down")
		}
		svc := NewSearchService(&mockIndex{}, embedder, &mockTripRepo{}, DefaultSearchConfig(), zap.NewNop())

		_, err := svc.Search(ctx, "driver not found", 3)
		var dae *apperrors.DataAccessError
		require.ErrorAs(t, err, &dae)
		assert.Equal(t, "embedding", dae.Store)
	})

	t.Run("index failure is a qdrant data access error", func(t *testing.T) {
		index := &mockIndex{
			QueryFunc: func(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error) {
				return nil, errors.New("collection missing")
			},
		}
		_, err := newSearchService(index, nil).Search(ctx, "driver not found", 3)
		var dae *apperrors.DataAccessError
		require.ErrorAs(t, err, &dae)
		assert.Equal(t, "qdrant", dae.Store)
	})

	t.Run("out of range similarity is surfaced, not clamped", func(t *testing.T) {
		index := &mockIndex{
			QueryFunc: func(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error) {
				return hitsWithDistances(-0.5), nil
			},
		}
		_, err := newSearchService(index, nil).Search(ctx, "driver not found", 3)
		require.ErrorIs(t, err, apperrors.ErrSimilarityOutOfRange)
	})
}

func TestExamplesFor(t *testing.T) {
	ctx := context.Background()

	t.Run("returns repository trips", func(t *testing.T) {
		repo := &mockTripRepo{
			ExamplesForReasonFunc: func(ctx context.Context, reasonText string, limit int) ([]models.Trip, error) {
				assert.Equal(t, "driver not found", reasonText)
				assert.Equal(t, 3, limit)
				return []models.Trip{{TripID: 1}, {TripID: 2}}, nil
			},
		}
		trips, err := newSearchService(&mockIndex{}, repo).ExamplesFor(ctx, "driver not found", 3)
		require.NoError(t, err)
		assert.Len(t, trips, 2)
	})

	t.Run("non-positive limit skips the store", func(t *testing.T) {
		called := false
		repo := &mockTripRepo{
			ExamplesForReasonFunc: func(ctx context.Context, reasonText string, limit int) ([]models.Trip, error) {
				called = true
				return nil, nil
			},
		}
		trips, err := newSearchService(&mockIndex{}, repo).ExamplesFor(ctx, "driver not found", 0)
		require.NoError(t, err)
		assert.Empty(t, trips)
		assert.False(t, called)
	})

	t.Run("repository failure is wrapped", func(t *testing.T) {
		repo := &mockTripRepo{
			ExamplesForReasonFunc: func(ctx context.Context, reasonText string, limit int) ([]models.Trip, error) {
				return nil, errors.New("timeout")
			},
		}
		_, err := newSearchService(&mockIndex{}, repo).ExamplesFor(ctx, "driver not found", 3)
		var dae *apperrors.DataAccessError
		require.ErrorAs(t, err, &dae)
		assert.Equal(t, "postgres", dae.Store)
	})
}
