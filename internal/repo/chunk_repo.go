package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
)

type ChunkRecord struct {
	ID         string
	Filename   string
	ChunkIndex int
	Embedding  []float32
	Content    string
}

type ChunkMatch struct {
	ID      string
	Content string
	Score   float32
}

type ChunkRepo struct {
	db *sqlx.DB
}

func NewChunkRepo(db *sqlx.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

func (r *ChunkRepo) Upsert(ctx context.Context, recs []ChunkRecord) error {
	const query = `
		INSERT INTO chunks (id, filename, chunk_index, embedding, content, mtime)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			content = EXCLUDED.content,
			mtime = EXCLUDED.mtime
	`
	now := time.Now().UnixMilli()
	for _, rec := range recs {
		if _, err := r.db.ExecContext(ctx, query,
			rec.ID,
			rec.Filename,
			rec.ChunkIndex,
			pgvector.NewVector(rec.Embedding),
			rec.Content,
			now,
		); err != nil {
			return err
		}
	}
	return nil
}

// Search returns the topK nearest chunks by cosine distance. Equal
// distances come back in whatever order the planner picks.
func (r *ChunkRepo) Search(ctx context.Context, vector []float32, topK int) ([]ChunkMatch, error) {
	const query = `
		SELECT id, content, 1 - (embedding <=> $1) AS score
		FROM chunks
		ORDER BY embedding <=> $1
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, pgvector.NewVector(vector), topK)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var matches []ChunkMatch
	for rows.Next() {
		var m ChunkMatch
		if err := rows.Scan(&m.ID, &m.Content, &m.Score); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// EmbeddingDimension returns the declared dimension of the
// chunks.embedding column, or -1 when the column is an untyped
// vector. For the vector type, atttypmod holds the dimension
// directly.
func (r *ChunkRepo) EmbeddingDimension(ctx context.Context) (int, error) {
	var typmod int
	err := r.db.GetContext(ctx, &typmod, `
		SELECT atttypmod FROM pg_attribute
		WHERE attrelid = 'chunks'::regclass
		  AND attname = 'embedding'
		  AND NOT attisdropped
	`)
	if err != nil {
		return 0, err
	}
	return typmod, nil
}

// HasVectorExtension reports whether the pgvector extension is
// installed in the connected database.
func (r *ChunkRepo) HasVectorExtension(ctx context.Context) (bool, error) {
	var installed bool
	err := r.db.GetContext(ctx, &installed,
		`SELECT EXISTS (SELECT 1 FROM pg_extension WHERE extname = 'vector')`)
	if err != nil {
		return false, err
	}
	return installed, nil
}
