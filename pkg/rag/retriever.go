package rag

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"

	"mariia-hub-be/pkg/embedding"
	"mariia-hub-be/pkg/store"
)

// Retriever runs the retrieval pipeline: candidate filtering, similarity
// search, threshold filtering, bucketing and (optionally) reranking.
type Retriever struct {
	cfg      Config
	embedder embedding.EmbeddingProvider
	searcher DocumentSearcher
	reranker *Reranker
	logger   *log.Logger
}

func NewRetriever(
	cfg Config,
	embedder embedding.EmbeddingProvider,
	searcher DocumentSearcher,
	reranker *Reranker,
	logger *log.Logger,
) *Retriever {
	return &Retriever{
		cfg:      cfg,
		embedder: embedder,
		searcher: searcher,
		reranker: reranker,
		logger:   logger,
	}
}

// Retrieve returns at most cfg.MaxRetrievedDocuments results, every one with
// score >= cfg.SimilarityThreshold, ordered highest score first (or by the
// reranker's order when reranking is enabled and more than one result
// survives the threshold).
func (r *Retriever) Retrieve(ctx context.Context, query string, filters store.Filters) ([]store.RetrievalResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}

	embeddingRes, err := r.embedder.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbeddingFailure, err)
	}

	scored, err := r.searcher.SearchSimilar(
		ctx,
		embeddingRes.Embedding.Values,
		r.cfg.MaxRetrievedDocuments,
		r.cfg.SimilarityThreshold,
		filters,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	r.logger.Printf("[RETRIEVAL] Raw search results: %d documents", len(scored))

	results := r.bucketAndFilter(scored)

	// Highest score first before any rerank decision.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if r.cfg.RerankResults && len(results) > 1 {
		results = r.reranker.Rerank(ctx, query, results)
	}

	return results, nil
}

// bucketAndFilter drops sub-threshold candidates and derives the relevance
// bucket for the survivors. The searcher already thresholds; this keeps the
// guarantee independent of the searcher implementation.
func (r *Retriever) bucketAndFilter(scored []store.ScoredDocument) []store.RetrievalResult {
	results := make([]store.RetrievalResult, 0, len(scored))
	for i, s := range scored {
		if s.Score < r.cfg.SimilarityThreshold {
			r.logger.Printf("[RETRIEVAL] Candidate %d: Score=%.4f [FILTERED]", i+1, s.Score)
			continue
		}
		r.logger.Printf("[RETRIEVAL] Candidate %d: Score=%.4f [KEEP]", i+1, s.Score)
		results = append(results, store.RetrievalResult{
			Document:  s.Document,
			Score:     s.Score,
			Relevance: store.RelevanceOf(s.Score),
		})
	}
	return results
}
