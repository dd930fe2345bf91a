package service

import (
	"context"
	"io"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc/internal/ai"
	"github.com/askdoc/askdoc/internal/chunker"
	"github.com/askdoc/askdoc/internal/extract"
	"github.com/askdoc/askdoc/internal/model"
	"github.com/askdoc/askdoc/internal/vectorstore"
)

type IngestService struct {
	chunker  *chunker.Chunker
	embedder ai.IEmbedder
	store    vectorstore.Store
	retry    retryPolicy
}

func NewIngestService(ch *chunker.Chunker, embedder ai.IEmbedder, store vectorstore.Store, opts PipelineOptions) *IngestService {
	return &IngestService{
		chunker:  ch,
		embedder: embedder,
		store:    store,
		retry:    newRetryPolicy(opts),
	}
}

// Ingest runs the upload pipeline: extract text, window it into
// chunks, embed each chunk with document intent, upsert into the
// index. Returns the number of chunks stored.
//
// Re-uploading a filename overwrites records id by id. If the new
// document chunks shorter, record ids beyond the new count stay in the
// index; that orphaning is part of the id scheme, not cleaned up here.
func (s *IngestService) Ingest(ctx context.Context, filename string, r io.Reader) (int, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("filename", filename))

	text, err := extract.Text(filename, r)
	if err != nil {
		return 0, err
	}

	count := 0
	for index, piece := range s.chunker.Chunks(text) {
		chunk := model.Chunk{Filename: filename, Index: index, Text: piece}

		var vec []float32
		err := s.retry.run(ctx, "embed document chunk", func(ctx context.Context) error {
			var embedErr error
			vec, embedErr = s.embedder.Embed(ctx, chunk.Text, ai.TaskRetrievalDocument)
			return embedErr
		})
		if err != nil {
			return count, err
		}

		record := vectorstore.Record{
			ID:       chunk.ID(),
			Vector:   vec,
			Metadata: map[string]string{"text": chunk.Text},
		}
		err = s.retry.run(ctx, "upsert chunk", func(ctx context.Context) error {
			return s.store.Upsert(ctx, []vectorstore.Record{record})
		})
		if err != nil {
			return count, err
		}
		count++
	}

	logger.Info("document ingested", zap.Int("chunks", count))
	return count, nil
}
