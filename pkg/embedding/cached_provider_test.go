package embedding

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingProvider struct {
	calls int
	err   error
}

func (p *countingProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return &EmbeddingResponse{
		Embedding: EmbeddingResponseEmbedding{Values: []float32{float32(len(text))}},
	}, nil
}

func TestCachedProviderHitsCacheOnRepeat(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute)

	first, err := cached.Generate("where is the salon", "RETRIEVAL_QUERY")
	assert.NoError(t, err)

	second, err := cached.Generate("where is the salon", "RETRIEVAL_QUERY")
	assert.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, first, second)
}

func TestCachedProviderKeyIncludesTaskType(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute)

	_, err := cached.Generate("same text", "RETRIEVAL_QUERY")
	assert.NoError(t, err)
	_, err = cached.Generate("same text", "RETRIEVAL_DOCUMENT")
	assert.NoError(t, err)

	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderDoesNotCacheErrors(t *testing.T) {
	inner := &countingProvider{err: errors.New("backend down")}
	cached := NewCachedProvider(inner, time.Minute)

	_, err := cached.Generate("query", "RETRIEVAL_QUERY")
	assert.Error(t, err)

	inner.err = nil
	_, err = cached.Generate("query", "RETRIEVAL_QUERY")
	assert.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedProviderFlush(t *testing.T) {
	inner := &countingProvider{}
	cached := NewCachedProvider(inner, time.Minute)

	_, _ = cached.Generate("query", "RETRIEVAL_QUERY")
	cached.Flush()
	_, _ = cached.Generate("query", "RETRIEVAL_QUERY")

	assert.Equal(t, 2, inner.calls)
}
