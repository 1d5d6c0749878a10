package rag

import (
	"context"
	"fmt"
	"io"
	"log"

	"mariia-hub-be/pkg/embedding"
	"mariia-hub-be/pkg/llm"
	"mariia-hub-be/pkg/store"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
}

func (f *fakeEmbedder) Generate(text string, taskType string) (*embedding.EmbeddingResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: f.vector},
	}, nil
}

type fakeSearcher struct {
	results []store.ScoredDocument
	err     error

	lastLimit     int
	lastThreshold float64
	lastFilters   store.Filters
}

func (f *fakeSearcher) SearchSimilar(_ context.Context, _ []float32, limit int, threshold float64, filters store.Filters) ([]store.ScoredDocument, error) {
	f.lastLimit = limit
	f.lastThreshold = threshold
	f.lastFilters = filters
	if f.err != nil {
		return nil, f.err
	}
	return f.results, nil
}

type fakeLLM struct {
	chatResponse     string
	chatErr          error
	generateResponse string
	generateErr      error

	lastMessages []llm.Message
	lastPrompt   string
	lastOptions  llm.Options
}

func (f *fakeLLM) Chat(_ context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	f.lastMessages = history
	f.lastOptions = llm.Options{}
	for _, opt := range options {
		opt(&f.lastOptions)
	}
	if f.chatErr != nil {
		return "", f.chatErr
	}
	return f.chatResponse, nil
}

func (f *fakeLLM) Generate(_ context.Context, prompt string, options ...llm.Option) (string, error) {
	f.lastPrompt = prompt
	f.lastOptions = llm.Options{}
	for _, opt := range options {
		opt(&f.lastOptions)
	}
	if f.generateErr != nil {
		return "", f.generateErr
	}
	return f.generateResponse, nil
}

func scoredDoc(id int, score float64) store.ScoredDocument {
	return store.ScoredDocument{
		Document: store.Document{
			ID:      fmt.Sprintf("doc-%d", id),
			Content: fmt.Sprintf("Content of document %d about salon services.", id),
			Metadata: store.DocumentMeta{
				Title:    fmt.Sprintf("Document %d", id),
				Source:   "faq",
				Category: "services",
			},
		},
		Score: score,
	}
}

func retrievalResult(id int, score float64) store.RetrievalResult {
	s := scoredDoc(id, score)
	return store.RetrievalResult{
		Document:  s.Document,
		Score:     s.Score,
		Relevance: store.RelevanceOf(s.Score),
	}
}
