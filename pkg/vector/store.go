// Package vector owns all qdrant operations for the cancellation reason
// index.
package vector

import (
	"context"
	"fmt"
	"strings"

	pb "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// PointsAPI is the subset of the qdrant points client the store uses.
type PointsAPI interface {
	Upsert(ctx context.Context, in *pb.UpsertPoints, opts ...grpc.CallOption) (*pb.PointsOperationResponse, error)
	Search(ctx context.Context, in *pb.SearchPoints, opts ...grpc.CallOption) (*pb.SearchResponse, error)
}

// CollectionsAPI is the subset of the qdrant collections client the store
// uses.
type CollectionsAPI interface {
	List(ctx context.Context, in *pb.ListCollectionsRequest, opts ...grpc.CallOption) (*pb.ListCollectionsResponse, error)
	Create(ctx context.Context, in *pb.CreateCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
	Delete(ctx context.Context, in *pb.DeleteCollection, opts ...grpc.CallOption) (*pb.CollectionOperationResponse, error)
}

// Store is the sole owner of the qdrant collection holding reason
// embeddings.
type Store struct {
	conn        *grpc.ClientConn
	points      PointsAPI
	collections CollectionsAPI
	collection  string
	logger      *zap.Logger
}

// New creates a Store connected to qdrant at the given gRPC address.
func New(addr, collection string, logger *zap.Logger) (*Store, error) {
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("vector: dial qdrant %s: %w", addr, err)
	}
	return &Store{
		conn:        conn,
		points:      pb.NewPointsClient(conn),
		collections: pb.NewCollectionsClient(conn),
		collection:  collection,
		logger:      logger.Named("vector"),
	}, nil
}

// NewWithClients creates a Store with injected clients. Used in tests.
func NewWithClients(points PointsAPI, collections CollectionsAPI, collection string, logger *zap.Logger) *Store {
	return &Store{
		points:      points,
		collections: collections,
		collection:  collection,
		logger:      logger.Named("vector"),
	}
}

// Close closes the underlying gRPC connection.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// Exists reports whether the collection is present.
func (s *Store) Exists(ctx context.Context) (bool, error) {
	list, err := s.collections.List(ctx, &pb.ListCollectionsRequest{})
	if err != nil {
		return false, fmt.Errorf("vector: list collections: %w", err)
	}
	for _, c := range list.GetCollections() {
		if c.GetName() == s.collection {
			return true, nil
		}
	}
	return false, nil
}

// Reset drops the collection if it exists and re-creates it empty with
// cosine distance. Absence of a prior collection is not an error.
func (s *Store) Reset(ctx context.Context, dims int) error {
	_, err := s.collections.Delete(ctx, &pb.DeleteCollection{
		CollectionName: s.collection,
	})
	if err != nil && !isNotFound(err) {
		return fmt.Errorf("vector: delete collection %s: %w", s.collection, err)
	}

	d := uint64(dims)
	_, err = s.collections.Create(ctx, &pb.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &pb.VectorsConfig{
			Config: &pb.VectorsConfig_Params{
				Params: &pb.VectorParams{
					Size:     d,
					Distance: pb.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("vector: create collection %s: %w", s.collection, err)
	}

	s.logger.Info("Collection reset", zap.String("collection", s.collection), zap.Int("dims", dims))
	return nil
}

// Upsert stores reason records into the collection. Records sharing an ID
// overwrite each other, which makes rebuilds idempotent.
func (s *Store) Upsert(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}

	points := make([]*pb.PointStruct, len(records))
	for i, r := range records {
		payload := map[string]*pb.Value{
			"document": {Kind: &pb.Value_StringValue{StringValue: r.Document}},
			"count":    {Kind: &pb.Value_IntegerValue{IntegerValue: r.Count}},
		}
		if r.SampleTripID != nil {
			payload["sample_trip_id"] = &pb.Value{Kind: &pb.Value_IntegerValue{IntegerValue: *r.SampleTripID}}
		}

		points[i] = &pb.PointStruct{
			Id: &pb.PointId{
				PointIdOptions: &pb.PointId_Uuid{Uuid: r.ID},
			},
			Vectors: &pb.Vectors{
				VectorsOptions: &pb.Vectors_Vector{
					Vector: &pb.Vector{Data: r.Embedding},
				},
			},
			Payload: payload,
		}
	}

	wait := true
	_, err := s.points.Upsert(ctx, &pb.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("vector: upsert %d points: %w", len(records), err)
	}
	return nil
}

// Query performs k-NN search and returns hits in ascending distance
// order. Qdrant reports a cosine similarity score; distance is 1 - score.
func (s *Store) Query(ctx context.Context, embedding []float32, topK int) ([]Hit, error) {
	resp, err := s.points.Search(ctx, &pb.SearchPoints{
		CollectionName: s.collection,
		Vector:         embedding,
		Limit:          uint64(topK),
		WithPayload:    &pb.WithPayloadSelector{SelectorOptions: &pb.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("vector: search: %w", err)
	}

	hits := make([]Hit, len(resp.GetResult()))
	for i, r := range resp.GetResult() {
		hit := Hit{
			ID:       r.GetId().GetUuid(),
			Distance: 1 - float64(r.GetScore()),
		}
		payload := r.GetPayload()
		if v, ok := payload["document"]; ok {
			hit.Document = v.GetStringValue()
		}
		if v, ok := payload["count"]; ok {
			hit.Count = v.GetIntegerValue()
		}
		if v, ok := payload["sample_trip_id"]; ok {
			id := v.GetIntegerValue()
			hit.SampleTripID = &id
		}
		hits[i] = hit
	}
	return hits, nil
}

// isNotFound matches qdrant "collection doesn't exist" errors.
func isNotFound(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") || strings.Contains(msg, "doesn't exist") ||
		strings.Contains(msg, "does not exist")
}
