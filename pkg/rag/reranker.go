package rag

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"mariia-hub-be/pkg/llm"
	"mariia-hub-be/pkg/store"
	"mariia-hub-be/pkg/utils"
)

const rerankExcerptLength = 300

// Reranker reorders retrieval results using the generation model's relevance
// judgment. It is strictly an optimization: every failure path returns the
// input order unchanged so retrieval itself can never fail here.
type Reranker struct {
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewReranker(llmProvider llm.LLMProvider, logger *log.Logger) *Reranker {
	return &Reranker{
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Rerank asks the model for a relevance-ranked list of 1-based indices and
// re-sequences the results accordingly. Out-of-range indices are ignored and
// results the model never mentioned keep their original relative order at the
// tail, so nothing is silently dropped.
func (r *Reranker) Rerank(ctx context.Context, query string, results []store.RetrievalResult) []store.RetrievalResult {
	if len(results) < 2 {
		return results
	}

	prompt := r.buildPrompt(query, results)

	raw, err := r.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		r.logger.Printf("[RERANK] Model call failed, keeping original order: %v", err)
		return results
	}

	order, err := parseIndexList(raw)
	if err != nil {
		r.logger.Printf("[RERANK] %v, keeping original order", err)
		return results
	}

	return applyOrder(results, order)
}

func (r *Reranker) buildPrompt(query string, results []store.RetrievalResult) string {
	var b strings.Builder

	b.WriteString("You are ranking search results for relevance to a question.\n\n")
	b.WriteString(fmt.Sprintf("Question: %s\n\nResults:\n", query))

	for i, res := range results {
		b.WriteString(fmt.Sprintf("%d. %s (similarity %.2f)\n", i+1, res.Document.Metadata.Title, res.Score))
		b.WriteString(utils.Truncate(res.Document.Content, rerankExcerptLength))
		b.WriteString("\n\n")
	}

	b.WriteString("Return ONLY a JSON array of the result numbers ordered from most to least relevant, e.g. [2,1,3].")
	return b.String()
}

// parseIndexList extracts the first JSON array from the model output and
// decodes it as 1-based indices.
func parseIndexList(raw string) ([]int, error) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no index array in %q", ErrMalformedModelOutput, utils.Truncate(raw, 120))
	}

	var order []int
	if err := json.Unmarshal([]byte(raw[start:end+1]), &order); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedModelOutput, err)
	}
	return order, nil
}

func applyOrder(results []store.RetrievalResult, order []int) []store.RetrievalResult {
	reordered := make([]store.RetrievalResult, 0, len(results))
	seen := make(map[int]bool, len(results))

	for _, idx := range order {
		pos := idx - 1
		if pos < 0 || pos >= len(results) || seen[pos] {
			continue
		}
		reordered = append(reordered, results[pos])
		seen[pos] = true
	}

	// Unmentioned results keep their original relative order.
	for i, res := range results {
		if !seen[i] {
			reordered = append(reordered, res)
		}
	}

	return reordered
}
