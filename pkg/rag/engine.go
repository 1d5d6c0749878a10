package rag

import (
	"context"
	"log"

	"mariia-hub-be/pkg/embedding"
	"mariia-hub-be/pkg/llm"
	"mariia-hub-be/pkg/store"
)

// DocumentSearcher is the similarity search primitive the engine retrieves
// through. Implementations apply the filters as a strict narrowing of the
// corpus before scoring, return at most limit results with similarity in
// [0,1], and never return scores below threshold.
type DocumentSearcher interface {
	SearchSimilar(ctx context.Context, vector []float32, limit int, threshold float64, filters store.Filters) ([]store.ScoredDocument, error)
}

// Engine ties retrieval, reranking and answer synthesis together. All state
// is per-instance; nothing module-level is shared, so independent engines can
// run concurrently with different configs.
type Engine struct {
	cfg       Config
	embedder  embedding.EmbeddingProvider
	searcher  DocumentSearcher
	llm       llm.LLMProvider
	reranker  *Reranker
	synth     *Synthesizer
	retriever *Retriever
	logger    *log.Logger
}

// NewEngine wires an engine instance. The logger must not be nil; pass
// log.Default() if there is no dedicated one.
func NewEngine(
	cfg Config,
	embedder embedding.EmbeddingProvider,
	searcher DocumentSearcher,
	llmProvider llm.LLMProvider,
	logger *log.Logger,
) *Engine {
	cfg = cfg.normalize()

	reranker := NewReranker(llmProvider, logger)
	retriever := NewRetriever(cfg, embedder, searcher, reranker, logger)
	synth := NewSynthesizer(cfg, retriever, llmProvider, logger)

	return &Engine{
		cfg:       cfg,
		embedder:  embedder,
		searcher:  searcher,
		llm:       llmProvider,
		reranker:  reranker,
		retriever: retriever,
		synth:     synth,
		logger:    logger,
	}
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// RetrieveDocuments returns the ranked, threshold-passing results for a query.
func (e *Engine) RetrieveDocuments(ctx context.Context, query string, filters store.Filters) ([]store.RetrievalResult, error) {
	return e.retriever.Retrieve(ctx, query, filters)
}

// GenerateAnswer retrieves context for the query and synthesizes a grounded
// answer with citations and a confidence estimate.
func (e *Engine) GenerateAnswer(ctx context.Context, query string, opts *AnswerOptions) (*store.RAGResponse, error) {
	return e.synth.GenerateAnswer(ctx, query, opts)
}
