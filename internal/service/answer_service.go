package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/askdoc/askdoc/internal/ai"
	"github.com/askdoc/askdoc/internal/pkg/errs"
	"github.com/askdoc/askdoc/internal/rag"
	"github.com/askdoc/askdoc/internal/vectorstore"
)

type AnswerService struct {
	embedder  ai.IEmbedder
	generator ai.IGenerator
	store     vectorstore.Store
	topK      int
	cache     *expirable.LRU[string, string]
	retry     retryPolicy
}

func NewAnswerService(embedder ai.IEmbedder, generator ai.IGenerator, store vectorstore.Store, topK int, opts PipelineOptions) *AnswerService {
	if topK <= 0 {
		topK = 5
	}
	return &AnswerService{
		embedder:  embedder,
		generator: generator,
		store:     store,
		topK:      topK,
		cache:     expirable.NewLRU[string, string](1024, nil, 2*time.Hour),
		retry:     newRetryPolicy(opts),
	}
}

// Answer runs the query pipeline: embed the question with query
// intent, fetch the top-k most similar chunks, assemble their text
// into a context block, prompt the model and normalize its output.
// Repeated questions are served from an in-process cache.
func (s *AnswerService) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: empty question", errs.ErrInvalid)
	}
	logger := logutil.GetLogger(ctx)

	cacheKey := answerCacheKey(question)
	if cached, ok := s.cache.Get(cacheKey); ok {
		logger.Debug("answer cache hit")
		return cached, nil
	}

	var queryVec []float32
	err := s.retry.run(ctx, "embed query", func(ctx context.Context) error {
		var embedErr error
		queryVec, embedErr = s.embedder.Embed(ctx, question, ai.TaskRetrievalQuery)
		return embedErr
	})
	if err != nil {
		return "", err
	}

	var matches []vectorstore.Match
	err = s.retry.run(ctx, "query index", func(ctx context.Context) error {
		var queryErr error
		matches, queryErr = s.store.Query(ctx, queryVec, s.topK)
		return queryErr
	})
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		// Not an error: the model answers without grounding.
		logger.Warn("no similar chunks found", zap.String("question", question))
	}

	prompt := rag.BuildPrompt(rag.AssembleContext(matches), question)

	var raw string
	err = s.retry.run(ctx, "generate answer", func(ctx context.Context) error {
		var genErr error
		raw, genErr = s.generator.Generate(ctx, prompt)
		return genErr
	})
	if err != nil {
		return "", err
	}

	answer := rag.FormatAnswer(raw)
	s.cache.Add(cacheKey, answer)
	logger.Info("question answered", zap.Int("matches", len(matches)))
	return answer, nil
}

// Invalidate drops every cached answer. Called after an ingest so a
// re-uploaded document is reflected by the next ask instead of after
// the cache TTL.
func (s *AnswerService) Invalidate() {
	s.cache.Purge()
}

func answerCacheKey(question string) string {
	hash := sha256.Sum256([]byte(question))
	return "answer:" + hex.EncodeToString(hash[:])
}
