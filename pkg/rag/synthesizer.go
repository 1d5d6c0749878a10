package rag

import (
	"context"
	"fmt"
	"log"
	"sort"

	"mariia-hub-be/pkg/llm"
	"mariia-hub-be/pkg/store"
	"mariia-hub-be/pkg/utils"
)

const (
	snippetLength = 200

	defaultGroundedTemperature = 0.5
	defaultDirectTemperature   = 0.7

	noContextConfidence = 0.5
	maxConfidence       = 0.95
)

// AnswerOptions are the per-call knobs of GenerateAnswer. All fields are
// optional.
type AnswerOptions struct {
	// Context is extra caller-supplied grounding appended after the
	// retrieved blocks.
	Context string

	// ConversationHistory is prepended before the user's query.
	ConversationHistory []llm.Message

	// Temperature overrides the per-path default (0.5 grounded, 0.7 direct).
	Temperature *float64

	// MaxLength bounds the generated answer in tokens.
	MaxLength int

	// Style is one of "professional", "friendly", "academic".
	// Empty resolves to "professional".
	Style string
}

func (o *AnswerOptions) style() string {
	if o == nil || o.Style == "" {
		return "professional"
	}
	return o.Style
}

func (o *AnswerOptions) temperature(fallback float64) float64 {
	if o == nil || o.Temperature == nil {
		return fallback
	}
	return *o.Temperature
}

// Synthesizer assembles context from retrieved documents and produces a
// grounded answer with citations and a confidence estimate.
type Synthesizer struct {
	cfg         Config
	retriever   *Retriever
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewSynthesizer(cfg Config, retriever *Retriever, llmProvider llm.LLMProvider, logger *log.Logger) *Synthesizer {
	return &Synthesizer{
		cfg:         cfg,
		retriever:   retriever,
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// GenerateAnswer retrieves context for the query (no filters) and answers.
// With zero retrieved documents it falls back to a direct answer with
// confidence pinned at 0.5; on the grounded path confidence is
// min(0.95, mean(scores)) — a function of retrieval quality, deliberately not
// of the model's self-reported certainty.
func (s *Synthesizer) GenerateAnswer(ctx context.Context, query string, opts *AnswerOptions) (*store.RAGResponse, error) {
	results, err := s.retriever.Retrieve(ctx, query, store.Filters{})
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		return s.answerWithoutContext(ctx, query, opts)
	}
	return s.answerGrounded(ctx, query, results, opts)
}

func (s *Synthesizer) answerWithoutContext(ctx context.Context, query string, opts *AnswerOptions) (*store.RAGResponse, error) {
	s.logger.Printf("[SYNTHESIS] No context found, answering directly")

	answer, err := s.invoke(ctx, buildDirectMessages(query, opts), opts, defaultDirectTemperature)
	if err != nil {
		return nil, err
	}

	return &store.RAGResponse{
		Answer:      answer,
		Sources:     []store.Source{},
		Confidence:  noContextConfidence,
		UsedContext: false,
	}, nil
}

func (s *Synthesizer) answerGrounded(ctx context.Context, query string, results []store.RetrievalResult, opts *AnswerOptions) (*store.RAGResponse, error) {
	// Context blocks go in descending score order regardless of how the
	// reranker sequenced the results; sources follow the assembled order.
	ordered := make([]store.RetrievalResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Score > ordered[j].Score
	})

	messages := buildGroundedMessages(query, ordered, opts, s.cfg.IncludeMetadata)

	answer, err := s.invoke(ctx, messages, opts, defaultGroundedTemperature)
	if err != nil {
		return nil, err
	}

	sources := make([]store.Source, len(ordered))
	var sum float64
	for i, res := range ordered {
		sources[i] = store.Source{
			DocumentID: res.Document.ID,
			Title:      res.Document.Metadata.Title,
			Snippet:    utils.Truncate(res.Document.Content, snippetLength),
			Relevance:  res.Score,
		}
		sum += res.Score
	}

	confidence := sum / float64(len(ordered))
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	s.logger.Printf("[SYNTHESIS] Answer grounded on %d documents (confidence %.2f)", len(ordered), confidence)

	return &store.RAGResponse{
		Answer:      answer,
		Sources:     sources,
		Confidence:  confidence,
		UsedContext: true,
	}, nil
}

func (s *Synthesizer) invoke(ctx context.Context, messages []llm.Message, opts *AnswerOptions, defaultTemp float64) (string, error) {
	llmOpts := []llm.Option{llm.WithTemperature(opts.temperature(defaultTemp))}
	if opts != nil && opts.MaxLength > 0 {
		llmOpts = append(llmOpts, llm.WithMaxTokens(opts.MaxLength))
	}

	answer, err := s.llmProvider.Chat(ctx, messages, llmOpts...)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	return answer, nil
}
