package services

import (
	"crypto/md5"
	"strings"

	"github.com/google/uuid"
)

// normalizeReason lowercases and trims reason text. Both the point id
// hash and the search-side normalization build on this, so an id is a
// pure function of the normalized text.
func normalizeReason(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// reasonPointID derives the stable vector point id for a reason. The MD5
// digest of the normalized text is rendered as a UUID, which is what
// qdrant accepts as a point id. Rebuilding with unchanged data therefore
// overwrites rather than duplicates.
func reasonPointID(text string) string {
	sum := md5.Sum([]byte(normalizeReason(text)))
	id, err := uuid.FromBytes(sum[:])
	if err != nil {
		// uuid.FromBytes only fails on length != 16; an MD5 digest is
		// always 16 bytes.
		panic(err)
	}
	return id.String()
}
