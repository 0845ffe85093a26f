package models

// ReasonEntry is a deduplicated cancellation reason with its aggregate
// occurrence count. Entries are grouped by normalized (trimmed,
// lowercased) text at the query layer, so two surface variants of the
// same reason collapse into one entry with a summed count.
type ReasonEntry struct {
	ReasonText      string `json:"reason_text"`
	OccurrenceCount int    `json:"occurrence_count"`
	SampleTripID    *int64 `json:"sample_trip_id,omitempty"`
}

// QualityTier is a coarse bucket summarizing match confidence.
type QualityTier string

const (
	TierHigh    QualityTier = "High"
	TierMedium  QualityTier = "Medium"
	TierLow     QualityTier = "Low"
	TierUnknown QualityTier = "Unknown"
)

// SearchMatch is a single semantic search hit. Rank is the 1-based
// position in the pre-filter nearest-neighbor list, so ranks may have
// gaps where below-threshold neighbors were dropped.
type SearchMatch struct {
	Rank            int         `json:"rank"`
	ReasonText      string      `json:"reason_text"`
	Distance        float64     `json:"distance"`
	Similarity      float64     `json:"similarity"`
	Quality         QualityTier `json:"quality"`
	OccurrenceCount int         `json:"occurrence_count"`
	SampleTripID    *int64      `json:"sample_trip_id,omitempty"`
}
