package services

import (
	"context"

	"github.com/tripsight/tripsight-engine/pkg/vector"
)

// VectorIndex abstracts the qdrant-backed embedding store so services
// can be tested with fakes. vector.Store satisfies it.
type VectorIndex interface {
	Reset(ctx context.Context, dims int) error
	Upsert(ctx context.Context, records []vector.Record) error
	Query(ctx context.Context, embedding []float32, topK int) ([]vector.Hit, error)
}
