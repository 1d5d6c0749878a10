package rag

import (
	"context"
	"errors"
	"testing"
	"time"

	"mariia-hub-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func newTestRetriever(embedder *fakeEmbedder, searcher *fakeSearcher, model *fakeLLM, cfg Config) *Retriever {
	logger := testLogger()
	return NewRetriever(cfg.normalize(), embedder, searcher, NewReranker(model, logger), logger)
}

func TestRetrieveEmptyQuery(t *testing.T) {
	r := newTestRetriever(&fakeEmbedder{}, &fakeSearcher{}, &fakeLLM{}, Config{})

	_, err := r.Retrieve(context.Background(), "   ", store.Filters{})

	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("quota exhausted")}
	r := newTestRetriever(embedder, &fakeSearcher{}, &fakeLLM{}, Config{})

	_, err := r.Retrieve(context.Background(), "opening hours", store.Filters{})

	assert.ErrorIs(t, err, ErrEmbeddingFailure)
}

func TestRetrieveStoreUnavailable(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("connection refused")}
	r := newTestRetriever(&fakeEmbedder{vector: []float32{0.1}}, searcher, &fakeLLM{}, Config{})

	_, err := r.Retrieve(context.Background(), "opening hours", store.Filters{})

	assert.ErrorIs(t, err, ErrStoreUnavailable)
}

func TestRetrieveThresholdAndBuckets(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{
		scoredDoc(1, 0.95),
		scoredDoc(2, 0.85),
		scoredDoc(3, 0.65), // below threshold, must be dropped
	}}
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.1, 0.2}},
		searcher,
		&fakeLLM{},
		Config{SimilarityThreshold: 0.7, MaxRetrievedDocuments: 5},
	)

	results, err := r.Retrieve(context.Background(), "can I book a massage", store.Filters{})

	assert.NoError(t, err)
	assert.Len(t, results, 2)
	assert.Equal(t, "doc-1", results[0].Document.ID)
	assert.Equal(t, store.RelevanceHigh, results[0].Relevance)
	assert.Equal(t, "doc-2", results[1].Document.ID)
	assert.Equal(t, store.RelevanceMedium, results[1].Relevance)
}

func TestRelevanceBucketBoundaries(t *testing.T) {
	assert.Equal(t, store.RelevanceMedium, store.RelevanceOf(0.9))
	assert.Equal(t, store.RelevanceHigh, store.RelevanceOf(0.91))
	assert.Equal(t, store.RelevanceLow, store.RelevanceOf(0.7))
	assert.Equal(t, store.RelevanceMedium, store.RelevanceOf(0.71))
}

func TestRetrieveOrderedByScoreWithoutRerank(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{
		scoredDoc(1, 0.75),
		scoredDoc(2, 0.93),
		scoredDoc(3, 0.81),
	}}
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.5}},
		searcher,
		&fakeLLM{},
		Config{SimilarityThreshold: 0.7, MaxRetrievedDocuments: 5, RerankResults: false},
	)

	results, err := r.Retrieve(context.Background(), "pricing", store.Filters{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"doc-2", "doc-3", "doc-1"}, []string{
		results[0].Document.ID, results[1].Document.ID, results[2].Document.ID,
	})
}

func TestRetrievePassesLimitThresholdAndFilters(t *testing.T) {
	searcher := &fakeSearcher{}
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.5}},
		searcher,
		&fakeLLM{},
		Config{SimilarityThreshold: 0.8, MaxRetrievedDocuments: 3},
	)

	filters := store.Filters{
		Category: "pricing",
		Tags:     []string{"massage", "spa"},
		DateRange: &store.DateRange{
			Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		},
	}

	_, err := r.Retrieve(context.Background(), "massage prices", filters)

	assert.NoError(t, err)
	assert.Equal(t, 3, searcher.lastLimit)
	assert.Equal(t, 0.8, searcher.lastThreshold)
	assert.Equal(t, filters, searcher.lastFilters)
}

func TestRetrieveNoMatchesReturnsEmpty(t *testing.T) {
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.5}},
		&fakeSearcher{},
		&fakeLLM{},
		Config{SimilarityThreshold: 0.7, MaxRetrievedDocuments: 5},
	)

	results, err := r.Retrieve(context.Background(), "something obscure", store.Filters{})

	assert.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveRerankAppliesModelOrder(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{
		scoredDoc(1, 0.92),
		scoredDoc(2, 0.85),
		scoredDoc(3, 0.78),
	}}
	model := &fakeLLM{generateResponse: "[3,1,2]"}
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.5}},
		searcher,
		model,
		Config{SimilarityThreshold: 0.7, MaxRetrievedDocuments: 5, RerankResults: true},
	)

	results, err := r.Retrieve(context.Background(), "refund policy", store.Filters{})

	assert.NoError(t, err)
	assert.Equal(t, []string{"doc-3", "doc-1", "doc-2"}, []string{
		results[0].Document.ID, results[1].Document.ID, results[2].Document.ID,
	})
}

func TestRetrieveSingleResultSkipsRerank(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{scoredDoc(1, 0.9)}}
	model := &fakeLLM{generateErr: errors.New("should never be called")}
	r := newTestRetriever(
		&fakeEmbedder{vector: []float32{0.5}},
		searcher,
		model,
		Config{SimilarityThreshold: 0.7, MaxRetrievedDocuments: 5, RerankResults: true},
	)

	results, err := r.Retrieve(context.Background(), "loyalty program", store.Filters{})

	assert.NoError(t, err)
	assert.Len(t, results, 1)
	assert.Empty(t, model.lastPrompt)
}
