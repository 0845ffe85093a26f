package vector

// Record is a single reason vector to store in qdrant.
type Record struct {
	ID           string // deterministic UUID derived from normalized reason text
	Document     string // trimmed reason text
	Embedding    []float32
	Count        int64
	SampleTripID *int64
}

// Hit is a single nearest-neighbor result. Distance is cosine distance
// (1 - qdrant similarity score); lower is closer.
type Hit struct {
	ID           string
	Document     string
	Distance     float64
	Count        int64
	SampleTripID *int64
}
