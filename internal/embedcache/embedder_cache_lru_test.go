package embedcache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/askdoc/askdoc/internal/ai"
)

type countingEmbedder struct {
	calls int
	err   error
}

func (c *countingEmbedder) Embed(ctx context.Context, text string, taskType string) ([]float32, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return []float32{1, 2, 3}, nil
}

func (c *countingEmbedder) ModelName() string { return "test-model" }
func (c *countingEmbedder) Dimension() int    { return 3 }

func TestLRUCachesRepeatCalls(t *testing.T) {
	inner := &countingEmbedder{}
	e := WrapLRU(inner, 16, time.Minute)

	first, err := e.Embed(context.Background(), "same text", ai.TaskRetrievalDocument)
	require.NoError(t, err)
	second, err := e.Embed(context.Background(), "same text", ai.TaskRetrievalDocument)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, inner.calls)
}

func TestLRUKeyIncludesTaskType(t *testing.T) {
	inner := &countingEmbedder{}
	e := WrapLRU(inner, 16, time.Minute)

	_, err := e.Embed(context.Background(), "text", ai.TaskRetrievalDocument)
	require.NoError(t, err)
	_, err = e.Embed(context.Background(), "text", ai.TaskRetrievalQuery)
	require.NoError(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestLRUDoesNotCacheErrors(t *testing.T) {
	inner := &countingEmbedder{err: errors.New("boom")}
	e := WrapLRU(inner, 16, time.Minute)

	_, err := e.Embed(context.Background(), "text", ai.TaskRetrievalQuery)
	require.Error(t, err)
	_, err = e.Embed(context.Background(), "text", ai.TaskRetrievalQuery)
	require.Error(t, err)
	require.Equal(t, 2, inner.calls)
}

func TestLRUReturnsCopy(t *testing.T) {
	inner := &countingEmbedder{}
	e := WrapLRU(inner, 16, time.Minute)

	first, err := e.Embed(context.Background(), "text", ai.TaskRetrievalDocument)
	require.NoError(t, err)
	first[0] = 99

	second, err := e.Embed(context.Background(), "text", ai.TaskRetrievalDocument)
	require.NoError(t, err)
	require.Equal(t, float32(1), second[0])
}

func TestWrapLRUPassthrough(t *testing.T) {
	inner := &countingEmbedder{}
	require.Equal(t, ai.IEmbedder(inner), WrapLRU(inner, 0, time.Minute))
	require.Equal(t, ai.IEmbedder(inner), WrapLRU(inner, 16, 0))
}

func TestBuildCacheKey(t *testing.T) {
	key, contentHash, model := buildCacheKey("m", ai.TaskRetrievalQuery, "text")
	require.Equal(t, "embed:m:RETRIEVAL_QUERY:"+contentHash, key)
	require.Equal(t, "m", model)
	require.Len(t, contentHash, 64)

	_, otherHash, _ := buildCacheKey("m", ai.TaskRetrievalQuery, "other")
	require.NotEqual(t, contentHash, otherHash)
}
