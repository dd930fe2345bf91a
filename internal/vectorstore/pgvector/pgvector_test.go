package pgvector

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/askdoc/askdoc/internal/pkg/errs"
	"github.com/askdoc/askdoc/internal/repo"
	"github.com/askdoc/askdoc/internal/vectorstore"
)

type fakeChunkRepo struct {
	extension bool
	dimension int
	upserted  []repo.ChunkRecord
	found     []repo.ChunkMatch
}

func (f *fakeChunkRepo) Upsert(ctx context.Context, recs []repo.ChunkRecord) error {
	f.upserted = append(f.upserted, recs...)
	return nil
}

func (f *fakeChunkRepo) Search(ctx context.Context, vector []float32, topK int) ([]repo.ChunkMatch, error) {
	return f.found, nil
}

func (f *fakeChunkRepo) HasVectorExtension(ctx context.Context) (bool, error) {
	return f.extension, nil
}

func (f *fakeChunkRepo) EmbeddingDimension(ctx context.Context) (int, error) {
	return f.dimension, nil
}

func TestPingMissingExtension(t *testing.T) {
	s := New(&fakeChunkRepo{extension: false}, 768)
	err := s.Ping(context.Background())
	require.ErrorIs(t, err, errs.ErrIndexNotConfigured)
	require.Contains(t, err.Error(), "pgvector extension")
}

func TestPingDimensionMismatch(t *testing.T) {
	s := New(&fakeChunkRepo{extension: true, dimension: 1536}, 768)
	err := s.Ping(context.Background())
	require.ErrorIs(t, err, errs.ErrIndexNotConfigured)
	require.Contains(t, err.Error(), "dimension 1536")
}

func TestPingMatchingDimension(t *testing.T) {
	s := New(&fakeChunkRepo{extension: true, dimension: 768}, 768)
	require.NoError(t, s.Ping(context.Background()))
}

func TestPingUntypedColumn(t *testing.T) {
	s := New(&fakeChunkRepo{extension: true, dimension: -1}, 768)
	require.NoError(t, s.Ping(context.Background()))
}

func TestUpsertSplitsIDs(t *testing.T) {
	fake := &fakeChunkRepo{extension: true, dimension: 3}
	s := New(fake, 3)

	err := s.Upsert(context.Background(), []vectorstore.Record{
		{ID: "annual-report.pdf-2", Vector: []float32{1, 2, 3}, Metadata: map[string]string{"text": "body"}},
	})
	require.NoError(t, err)
	require.Len(t, fake.upserted, 1)
	require.Equal(t, "annual-report.pdf", fake.upserted[0].Filename)
	require.Equal(t, 2, fake.upserted[0].ChunkIndex)
	require.Equal(t, "body", fake.upserted[0].Content)
}

func TestQueryMapsMatches(t *testing.T) {
	fake := &fakeChunkRepo{extension: true, found: []repo.ChunkMatch{
		{ID: "a.txt-0", Content: "first", Score: 0.9},
	}}
	s := New(fake, 3)

	matches, err := s.Query(context.Background(), []float32{1, 2, 3}, 5)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	require.Equal(t, "a.txt-0", matches[0].ID)
	require.Equal(t, "first", matches[0].Metadata["text"])
}

func TestSplitChunkID(t *testing.T) {
	cases := []struct {
		id       string
		filename string
		index    int
	}{
		{"policy.txt-0", "policy.txt", 0},
		{"policy.txt-12", "policy.txt", 12},
		{"annual-report-2024.pdf-3", "annual-report-2024.pdf", 3},
		{"noindex", "noindex", 0},
		{"trailing-dash-", "trailing-dash-", 0},
	}
	for _, tc := range cases {
		filename, index := splitChunkID(tc.id)
		require.Equal(t, tc.filename, filename, tc.id)
		require.Equal(t, tc.index, index, tc.id)
	}
}
