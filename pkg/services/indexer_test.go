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
)

func reasonEntries(texts ...string) []models.ReasonEntry {
	entries := make([]models.ReasonEntry, len(texts))
	for i, t := range texts {
		id := int64(i + 1)
		entries[i] = models.ReasonEntry{
			ReasonText:      t,
			OccurrenceCount: 10 * (i + 1),
			SampleTripID:    &id,
		}
	}
	return entries
}

func newTestEmbedder() *llm.MockClient {
	m := llm.NewMockClient()
	m.CreateEmbeddingsFunc = func(ctx context.Context, inputs []string) ([][]float32, error) {
		out := make([][]float32, len(inputs))
		for i := range inputs {
			out[i] = []float32{float32(len(inputs[i])), 0.5}
		}
		return out, nil
	}
	return m
}

func TestReasonPointID(t *testing.T) {
	t.Run("stable across surface variants", func(t *testing.T) {
		a := reasonPointID("Driver not found")
		b := reasonPointID("  driver NOT found  ")
		assert.Equal(t, a, b)
	})

	t.Run("distinct texts get distinct ids", func(t *testing.T) {
		assert.NotEqual(t, reasonPointID("driver not found"), reasonPointID("customer busy"))
	})

	t.Run("id repeats on every call", func(t *testing.T) {
		assert.Equal(t, reasonPointID("vehicle breakdown"), reasonPointID("vehicle breakdown"))
	})
}

func TestIndexerRebuild(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	t.Run("indexes all reasons and resets first", func(t *testing.T) {
		repo := &mockTripRepo{
			DistinctCancellationReasonsFunc: func(ctx context.Context) ([]models.ReasonEntry, error) {
				return reasonEntries("driver not found", "customer busy", "vehicle breakdown"), nil
			},
		}
		index := &mockIndex{}
		var resetBeforeUpsert bool
		index.ResetFunc = func(ctx context.Context, dims int) error {
			resetBeforeUpsert = index.UpsertCalls == 0
			assert.Equal(t, 2, dims)
			return nil
		}

		svc := NewIndexerService(repo, index, newTestEmbedder(),
			IndexerConfig{BatchSize: 2000, EmbeddingDims: 2}, logger)

		count, err := svc.Rebuild(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
		assert.Equal(t, 1, index.ResetCalls)
		assert.True(t, resetBeforeUpsert)

		require.Len(t, index.Upserted, 1)
		records := index.Upserted[0]
		require.Len(t, records, 3)
		assert.Equal(t, "driver not found", records[0].Document)
		assert.Equal(t, reasonPointID("driver not found"), records[0].ID)
		assert.Equal(t, int64(10), records[0].Count)
		require.NotNil(t, records[0].SampleTripID)
		assert.Equal(t, int64(1), *records[0].SampleTripID)
	})

	t.Run("batching does not change what gets indexed", func(t *testing.T) {
		texts := []string{"a", "b", "c", "d", "e"}
		repo := &mockTripRepo{
			DistinctCancellationReasonsFunc: func(ctx context.Context) ([]models.ReasonEntry, error) {
				return reasonEntries(texts...), nil
			},
		}
		index := &mockIndex{}
		svc := NewIndexerService(repo, index, newTestEmbedder(),
			IndexerConfig{BatchSize: 2, EmbeddingDims: 2}, logger)

		count, err := svc.Rebuild(ctx)
		require.NoError(t, err)
		assert.Equal(t, 5, count)
		assert.Equal(t, 3, index.UpsertCalls)

		var seen []string
		for _, batch := range index.Upserted {
			for _, r := range batch {
				seen = append(seen, r.Document)
			}
		}
		assert.Equal(t, texts, seen)
	})

	t.Run("empty store yields empty index", func(t *testing.T) {
		repo := &mockTripRepo{}
		index := &mockIndex{}
		svc := NewIndexerService(repo, index, newTestEmbedder(),
			IndexerConfig{EmbeddingDims: 2}, logger)

		count, err := svc.Rebuild(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
		assert.Equal(t, 1, index.ResetCalls)
		assert.Equal(t, 0, index.UpsertCalls)
	})

	t.Run("repository failure is a postgres data access error", func(t *testing.T) {
		repo := &mockTripRepo{
			DistinctCancellationReasonsFunc: func(ctx context.Context) ([]models.ReasonEntry, error) {
				return nil, errors.New("connection refused")
			},
		}
		svc := NewIndexerService(repo, &mockIndex{}, newTestEmbedder(),
			IndexerConfig{EmbeddingDims: 2}, logger)

		_, err := svc.Rebuild(ctx)
		require.Error(t, err)
		var dae *apperrors.DataAccessError
		require.ErrorAs(t, err, &dae)
		assert.Equal(t, "postgres", dae.Store)
	})

	t.Run("reset failure is a qdrant data access error", func(t *testing.T) {
		repo := &mockTripRepo{
			DistinctCancellationReasonsFunc: func(ctx context.Context) ([]models.ReasonEntry, error) {
				return reasonEntries("driver not found"), nil
			},
		}
		index := &mockIndex{
			ResetFunc: func(ctx context.Context, dims int) error {
				return errors.New("collection locked")
			},
		}
		svc := NewIndexerService(repo, index, newTestEmbedder(),
			IndexerConfig{EmbeddingDims: 2}, logger)

		_, err := svc.Rebuild(ctx)
		var dae *apperrors.DataAccessError
		require.ErrorAs(t, err, &dae)
		assert.Equal(t, "qdrant", dae.Store)
	})
}
