package rag

import (
	"context"
	"errors"
	"testing"

	"mariia-hub-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func rerankFixture() []store.RetrievalResult {
	return []store.RetrievalResult{
		retrievalResult(1, 0.92),
		retrievalResult(2, 0.85),
		retrievalResult(3, 0.78),
	}
}

func ids(results []store.RetrievalResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Document.ID
	}
	return out
}

func TestRerankReordersByModelIndices(t *testing.T) {
	model := &fakeLLM{generateResponse: "[2,3,1]"}
	r := NewReranker(model, testLogger())

	results := r.Rerank(context.Background(), "gift cards", rerankFixture())

	assert.Equal(t, []string{"doc-2", "doc-3", "doc-1"}, ids(results))
	assert.Equal(t, 0.0, model.lastOptions.Temperature)
}

func TestRerankExtractsArrayFromChatter(t *testing.T) {
	model := &fakeLLM{generateResponse: "Sure! The best order is: [3,2,1]. Hope that helps."}
	r := NewReranker(model, testLogger())

	results := r.Rerank(context.Background(), "gift cards", rerankFixture())

	assert.Equal(t, []string{"doc-3", "doc-2", "doc-1"}, ids(results))
}

func TestRerankMalformedOutputKeepsOriginalOrder(t *testing.T) {
	model := &fakeLLM{generateResponse: "I think the second one is most relevant."}
	r := NewReranker(model, testLogger())

	results := r.Rerank(context.Background(), "gift cards", rerankFixture())

	assert.Equal(t, []string{"doc-1", "doc-2", "doc-3"}, ids(results))
}

func TestRerankModelFailureKeepsOriginalOrder(t *testing.T) {
	model := &fakeLLM{generateErr: errors.New("model overloaded")}
	r := NewReranker(model, testLogger())

	results := r.Rerank(context.Background(), "gift cards", rerankFixture())

	assert.Equal(t, []string{"doc-1", "doc-2", "doc-3"}, ids(results))
}

func TestRerankIgnoresOutOfRangeAndDuplicateIndices(t *testing.T) {
	model := &fakeLLM{generateResponse: "[7,2,2,0,-1,1]"}
	r := NewReranker(model, testLogger())

	results := r.Rerank(context.Background(), "gift cards", rerankFixture())

	// 7, 0 and -1 are out of range, the duplicate 2 is dropped, and the
	// never-mentioned doc-3 keeps its place at the tail.
	assert.Equal(t, []string{"doc-2", "doc-1", "doc-3"}, ids(results))
}

func TestRerankAppendsUnmentionedResults(t *testing.T) {
	model := &fakeLLM{generateResponse: "[3]"}
	r := NewReranker(model, testLogger())

	results := r.Rerank(context.Background(), "gift cards", rerankFixture())

	assert.Equal(t, []string{"doc-3", "doc-1", "doc-2"}, ids(results))
	assert.Len(t, results, 3)
}

func TestRerankFewerThanTwoResultsIsNoop(t *testing.T) {
	model := &fakeLLM{generateErr: errors.New("should not be called")}
	r := NewReranker(model, testLogger())

	single := []store.RetrievalResult{retrievalResult(1, 0.9)}
	assert.Equal(t, single, r.Rerank(context.Background(), "gift cards", single))
	assert.Empty(t, r.Rerank(context.Background(), "gift cards", nil))
	assert.Empty(t, model.lastPrompt)
}

func TestParseIndexList(t *testing.T) {
	order, err := parseIndexList("noise [1, 2,3] trailing")
	assert.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, order)

	_, err = parseIndexList("no array here")
	assert.ErrorIs(t, err, ErrMalformedModelOutput)

	_, err = parseIndexList(`["a","b"]`)
	assert.ErrorIs(t, err, ErrMalformedModelOutput)
}
