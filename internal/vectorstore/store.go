package vectorstore

import "context"

// Record is the persisted triple held by the index. Metadata carries
// the chunk text under the "text" key.
type Record struct {
	ID       string
	Vector   []float32
	Metadata map[string]string
}

// Match is one query result. Score is the cosine similarity to the
// query vector.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]string
}

// Store is the vector index client. Both backends delegate consistency
// and isolation entirely to the backing service; there is no
// in-process locking here.
type Store interface {
	// Ping verifies the configured index exists with the expected
	// vector dimension. An absent index or a dimension mismatch is
	// reported as errs.ErrIndexNotConfigured; provisioning the index
	// itself is an external setup concern.
	Ping(ctx context.Context) error

	// Upsert inserts or overwrites records by id. Repeated calls with
	// the same records are no-ops in effect.
	Upsert(ctx context.Context, records []Record) error

	// Query returns up to topK records ordered by descending cosine
	// similarity to vector, metadata included. Ties at equal
	// similarity are broken by the backing service's internal order,
	// which is not deterministic.
	Query(ctx context.Context, vector []float32, topK int) ([]Match, error)
}
