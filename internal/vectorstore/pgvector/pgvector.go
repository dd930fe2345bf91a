package pgvector

import (
	"context"
	"fmt"
	"strings"

	"github.com/askdoc/askdoc/internal/pkg/errs"
	"github.com/askdoc/askdoc/internal/repo"
	"github.com/askdoc/askdoc/internal/vectorstore"
)

type chunkRepo interface {
	Upsert(ctx context.Context, recs []repo.ChunkRecord) error
	Search(ctx context.Context, vector []float32, topK int) ([]repo.ChunkMatch, error)
	HasVectorExtension(ctx context.Context) (bool, error)
	EmbeddingDimension(ctx context.Context) (int, error)
}

// Store adapts the Postgres chunk table to the vector store contract,
// for deployments that keep vectors next to the rest of their data
// instead of in a managed index.
type Store struct {
	chunks    chunkRepo
	dimension int
}

func New(chunks chunkRepo, dimension int) *Store {
	return &Store{chunks: chunks, dimension: dimension}
}

// Ping verifies the pgvector extension is installed and, when the
// chunks.embedding column declares a dimension, that it matches the
// configured embedding dimension. An untyped column is accepted;
// Postgres then rejects mismatched vectors at query time instead.
func (s *Store) Ping(ctx context.Context) error {
	installed, err := s.chunks.HasVectorExtension(ctx)
	if err != nil {
		return err
	}
	if !installed {
		return fmt.Errorf("%w: pgvector extension missing", errs.ErrIndexNotConfigured)
	}
	declared, err := s.chunks.EmbeddingDimension(ctx)
	if err != nil {
		return err
	}
	if declared > 0 && s.dimension > 0 && declared != s.dimension {
		return fmt.Errorf("%w: chunks.embedding has dimension %d, embeddings have %d",
			errs.ErrIndexNotConfigured, declared, s.dimension)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, records []vectorstore.Record) error {
	recs := make([]repo.ChunkRecord, 0, len(records))
	for _, rec := range records {
		filename, index := splitChunkID(rec.ID)
		recs = append(recs, repo.ChunkRecord{
			ID:         rec.ID,
			Filename:   filename,
			ChunkIndex: index,
			Embedding:  rec.Vector,
			Content:    rec.Metadata["text"],
		})
	}
	return s.chunks.Upsert(ctx, recs)
}

func (s *Store) Query(ctx context.Context, vector []float32, topK int) ([]vectorstore.Match, error) {
	found, err := s.chunks.Search(ctx, vector, topK)
	if err != nil {
		return nil, err
	}
	matches := make([]vectorstore.Match, 0, len(found))
	for _, m := range found {
		matches = append(matches, vectorstore.Match{
			ID:       m.ID,
			Score:    m.Score,
			Metadata: map[string]string{"text": m.Content},
		})
	}
	return matches, nil
}

// splitChunkID undoes "{filename}-{index}". Filenames may themselves
// contain dashes, so split at the last one.
func splitChunkID(id string) (string, int) {
	pos := strings.LastIndex(id, "-")
	if pos < 0 {
		return id, 0
	}
	var index int
	if _, err := fmt.Sscanf(id[pos+1:], "%d", &index); err != nil {
		return id, 0
	}
	return id[:pos], index
}
