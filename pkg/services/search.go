package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/tripsight/tripsight-engine/pkg/apperrors"
	"github.com/tripsight/tripsight-engine/pkg/llm"
	"github.com/tripsight/tripsight-engine/pkg/models"
	"github.com/tripsight/tripsight-engine/pkg/repositories"
)

// SearchService runs semantic search over indexed cancellation reasons.
type SearchService interface {
	// Search returns threshold-filtered matches for a free-text query,
	// in ascending distance order, at most topK long.
	Search(ctx context.Context, queryText string, topK int) ([]models.SearchMatch, error)

	// ExamplesFor fetches a bounded sample of trips whose reason matches
	// exactly, for display and audit.
	ExamplesFor(ctx context.Context, reasonText string, limit int) ([]models.Trip, error)
}

// Substitution is one fixed textual replacement applied during query
// normalization.
type Substitution struct {
	From string
	To   string
}

// DefaultSubstitutions fix the common misspellings and contractions seen
// in cancellation queries. Applied in order.
func DefaultSubstitutions() []Substitution {
	return []Substitution{
		{From: "not find", To: "not found"},
		{From: "cant", To: "can't"},
	}
}

// SearchConfig tunes thresholds and normalization.
type SearchConfig struct {
	MinSimilarity float64
	HighTier      float64
	MediumTier    float64
	Substitutions []Substitution
}

// DefaultSearchConfig returns the standard thresholds.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		MinSimilarity: 0.40,
		HighTier:      0.60,
		MediumTier:    0.45,
		Substitutions: DefaultSubstitutions(),
	}
}

type searchService struct {
	index    VectorIndex
	embedder llm.EmbeddingClient
	tripRepo repositories.TripRepository
	cfg      SearchConfig
	logger   *zap.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(
	index VectorIndex,
	embedder llm.EmbeddingClient,
	tripRepo repositories.TripRepository,
	cfg SearchConfig,
	logger *zap.Logger,
) SearchService {
	return &searchService{
		index:    index,
		embedder: embedder,
		tripRepo: tripRepo,
		cfg:      cfg,
		logger:   logger.Named("search"),
	}
}

// normalizeQuery trims, lowercases and applies the configured fixed
// substitutions in order. This is a lookup-table step, not NLP.
func (s *searchService) normalizeQuery(queryText string) string {
	q := normalizeReason(queryText)
	for _, sub := range s.cfg.Substitutions {
		q = strings.ReplaceAll(q, sub.From, sub.To)
	}
	return q
}

func (s *searchService) Search(ctx context.Context, queryText string, topK int) ([]models.SearchMatch, error) {
	if topK <= 0 {
		return []models.SearchMatch{}, nil
	}
	query := s.normalizeQuery(queryText)
	if query == "" {
		return []models.SearchMatch{}, nil
	}

	embedding, err := s.embedder.CreateEmbedding(ctx, query)
	if err != nil {
		return nil, apperrors.NewDataAccessError("embedding", "embed query", err)
	}

	hits, err := s.index.Query(ctx, embedding, topK)
	if err != nil {
		return nil, apperrors.NewDataAccessError("qdrant", "query", err)
	}

	matches := make([]models.SearchMatch, 0, len(hits))
	for i, hit := range hits {
		similarity := 1 - hit.Distance
		// The similarity formula is only valid for bounded cosine
		// distance. An out-of-range value means the collection metric is
		// wrong; surface it instead of clamping.
		if similarity < 0 || similarity > 1 {
			return nil, fmt.Errorf("hit %q has distance %v: %w",
				hit.Document, hit.Distance, apperrors.ErrSimilarityOutOfRange)
		}
		if similarity < s.cfg.MinSimilarity {
			continue
		}

		matches = append(matches, models.SearchMatch{
			// Rank reflects the position in the pre-filter top-k list, so
			// filtered-out neighbors leave gaps.
			Rank:            i + 1,
			ReasonText:      hit.Document,
			Distance:        hit.Distance,
			Similarity:      similarity,
			Quality:         s.labelQuality(similarity),
			OccurrenceCount: int(hit.Count),
			SampleTripID:    hit.SampleTripID,
		})
	}

	s.logger.Debug("Semantic search completed",
		zap.String("query", query),
		zap.Int("top_k", topK),
		zap.Int("candidates", len(hits)),
		zap.Int("matches", len(matches)))

	return matches, nil
}

// labelQuality buckets a similarity score into a coarse confidence tier.
func (s *searchService) labelQuality(similarity float64) models.QualityTier {
	switch {
	case similarity >= s.cfg.HighTier:
		return models.TierHigh
	case similarity >= s.cfg.MediumTier:
		return models.TierMedium
	default:
		return models.TierLow
	}
}

func (s *searchService) ExamplesFor(ctx context.Context, reasonText string, limit int) ([]models.Trip, error) {
	if limit <= 0 {
		return []models.Trip{}, nil
	}
	trips, err := s.tripRepo.ExamplesForReason(ctx, reasonText, limit)
	if err != nil {
		return nil, apperrors.NewDataAccessError("postgres", "examples for reason", err)
	}
	return trips, nil
}
