package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
	"github.com/tripsight/tripsight-engine/pkg/llm"
	"github.com/tripsight/tripsight-engine/pkg/repositories"
	"github.com/tripsight/tripsight-engine/pkg/retry"
	"github.com/tripsight/tripsight-engine/pkg/vector"
)

// IndexerService rebuilds the cancellation reason vector index from the
// relational store.
type IndexerService interface {
	// Rebuild fully replaces the vector index and returns the number of
	// distinct reasons indexed. An interrupted rebuild can leave a
	// partial index; callers must treat that as requiring a retry.
	Rebuild(ctx context.Context) (int, error)
}

// IndexerConfig tunes the rebuild.
type IndexerConfig struct {
	// BatchSize is the embed/upsert batch size. Any value >= 1 yields
	// the same final index state.
	BatchSize int
	// EmbeddingDims must match the embedding model's output width.
	EmbeddingDims int
}

type indexerService struct {
	tripRepo repositories.TripRepository
	index    VectorIndex
	embedder llm.EmbeddingClient
	cfg      IndexerConfig
	logger   *zap.Logger
}

// NewIndexerService creates an IndexerService.
func NewIndexerService(
	tripRepo repositories.TripRepository,
	index VectorIndex,
	embedder llm.EmbeddingClient,
	cfg IndexerConfig,
	logger *zap.Logger,
) IndexerService {
	if cfg.BatchSize < 1 {
		cfg.BatchSize = 2000
	}
	return &indexerService{
		tripRepo: tripRepo,
		index:    index,
		embedder: embedder,
		cfg:      cfg,
		logger:   logger.Named("indexer"),
	}
}

func (s *indexerService) Rebuild(ctx context.Context) (int, error) {
	entries, err := s.tripRepo.DistinctCancellationReasons(ctx)
	if err != nil {
		return 0, apperrors.NewDataAccessError("postgres", "distinct reasons", err)
	}

	if err := s.index.Reset(ctx, s.cfg.EmbeddingDims); err != nil {
		return 0, apperrors.NewDataAccessError("qdrant", "reset collection", err)
	}

	indexed := 0
	for start := 0; start < len(entries); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(entries) {
			end = len(entries)
		}
		batch := entries[start:end]

		texts := make([]string, len(batch))
		for i, e := range batch {
			texts[i] = e.ReasonText
		}

		embeddings, err := retry.DoWithResult(ctx, nil, func() ([][]float32, error) {
			return s.embedder.CreateEmbeddings(ctx, texts)
		})
		if err != nil {
			return indexed, apperrors.NewDataAccessError("embedding", "embed batch", err)
		}

		records := make([]vector.Record, len(batch))
		for i, e := range batch {
			records[i] = vector.Record{
				ID:           reasonPointID(e.ReasonText),
				Document:     e.ReasonText,
				Embedding:    embeddings[i],
				Count:        int64(e.OccurrenceCount),
				SampleTripID: e.SampleTripID,
			}
		}

		if err := retry.Do(ctx, nil, func() error {
			return s.index.Upsert(ctx, records)
		}); err != nil {
			return indexed, apperrors.NewDataAccessError("qdrant", "upsert batch", err)
		}

		indexed += len(batch)
		s.logger.Info("Indexed reason batch",
			zap.Int("indexed", indexed),
			zap.Int("total", len(entries)))
	}

	s.logger.Info("Reason index rebuilt", zap.Int("count", indexed))
	return indexed, nil
}
