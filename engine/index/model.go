package index

import "github.com/google/uuid"

// Record is a single entity vector to store.
type Record struct {
	// ID is the entity's natural key (candidate email or job id).
	ID        string
	Embedding []float32
	Payload   map[string]string
}

// Hit is a single nearest-neighbor result.
type Hit struct {
	// ID is the entity's natural key, recovered from the payload.
	ID string
	// Score is the cosine similarity reported by Qdrant, in [-1, 1].
	Score float32
	// Vector is populated only by Fetch.
	Vector []float32
	Meta   map[string]string
}

// pointNamespace scopes the UUIDv5 derivation of Qdrant point ids.
var pointNamespace = uuid.MustParse("8e7f3c1a-4b6d-4f29-9c51-2a87d0e3b514")

// PointID derives the deterministic Qdrant point id for an entity key.
// Qdrant only accepts UUID or integer point ids, so the natural key maps to
// a UUIDv5 and rides along in the payload under "entity_id".
func PointID(naturalID string) string {
	return uuid.NewSHA1(pointNamespace, []byte(naturalID)).String()
}
