package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mariia-hub-be/pkg/llm"
	"mariia-hub-be/pkg/store"

	"github.com/stretchr/testify/assert"
)

func newTestSynthesizer(searcher *fakeSearcher, model *fakeLLM, cfg Config) *Synthesizer {
	cfg = cfg.normalize()
	logger := testLogger()
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	retriever := NewRetriever(cfg, embedder, searcher, NewReranker(model, logger), logger)
	return NewSynthesizer(cfg, retriever, model, logger)
}

func TestGenerateAnswerGrounded(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{
		scoredDoc(1, 0.9),
		scoredDoc(2, 0.8),
	}}
	model := &fakeLLM{chatResponse: "We offer Swedish and deep tissue massage."}
	s := newTestSynthesizer(searcher, model, Config{RerankResults: false})

	res, err := s.GenerateAnswer(context.Background(), "what massages do you offer", nil)

	assert.NoError(t, err)
	assert.Equal(t, "We offer Swedish and deep tissue massage.", res.Answer)
	assert.True(t, res.UsedContext)
	assert.InDelta(t, 0.85, res.Confidence, 1e-9)
	assert.Len(t, res.Sources, 2)
	assert.Equal(t, "doc-1", res.Sources[0].DocumentID)
	assert.Equal(t, "Document 1", res.Sources[0].Title)
	assert.Equal(t, 0.9, res.Sources[0].Relevance)
}

func TestGenerateAnswerConfidenceIsCapped(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{
		scoredDoc(1, 0.99),
		scoredDoc(2, 0.97),
	}}
	s := newTestSynthesizer(searcher, &fakeLLM{chatResponse: "answer"}, Config{RerankResults: false})

	res, err := s.GenerateAnswer(context.Background(), "opening hours", nil)

	assert.NoError(t, err)
	assert.Equal(t, 0.95, res.Confidence)
}

func TestGenerateAnswerWithoutContext(t *testing.T) {
	model := &fakeLLM{chatResponse: "I don't have that in my records."}
	s := newTestSynthesizer(&fakeSearcher{}, model, Config{})

	res, err := s.GenerateAnswer(context.Background(), "do you sell cars", nil)

	assert.NoError(t, err)
	assert.False(t, res.UsedContext)
	assert.Equal(t, 0.5, res.Confidence)
	assert.NotNil(t, res.Sources)
	assert.Empty(t, res.Sources)
	assert.Equal(t, defaultDirectTemperature, model.lastOptions.Temperature)
}

func TestGenerateAnswerGenerationFailure(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{scoredDoc(1, 0.9)}}
	model := &fakeLLM{chatErr: errors.New("model timeout")}
	s := newTestSynthesizer(searcher, model, Config{RerankResults: false})

	_, err := s.GenerateAnswer(context.Background(), "opening hours", nil)

	assert.ErrorIs(t, err, ErrGenerationFailure)
}

func TestGenerateAnswerSourcesFollowScoreOrder(t *testing.T) {
	// The reranker puts a lower scored document first; the context blocks and
	// the citation list still go highest score first.
	searcher := &fakeSearcher{results: []store.ScoredDocument{
		scoredDoc(1, 0.95),
		scoredDoc(2, 0.8),
	}}
	model := &fakeLLM{generateResponse: "[2,1]", chatResponse: "answer"}
	s := newTestSynthesizer(searcher, model, Config{RerankResults: true})

	res, err := s.GenerateAnswer(context.Background(), "opening hours", nil)

	assert.NoError(t, err)
	assert.Equal(t, "doc-1", res.Sources[0].DocumentID)
	assert.Equal(t, "doc-2", res.Sources[1].DocumentID)
}

func TestGenerateAnswerTemperatureDefaultsAndOverride(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{scoredDoc(1, 0.9)}}
	model := &fakeLLM{chatResponse: "answer"}
	s := newTestSynthesizer(searcher, model, Config{RerankResults: false})

	_, err := s.GenerateAnswer(context.Background(), "opening hours", nil)
	assert.NoError(t, err)
	assert.Equal(t, defaultGroundedTemperature, model.lastOptions.Temperature)

	custom := 0.2
	_, err = s.GenerateAnswer(context.Background(), "opening hours", &AnswerOptions{Temperature: &custom})
	assert.NoError(t, err)
	assert.Equal(t, 0.2, model.lastOptions.Temperature)
}

func TestGenerateAnswerMaxLengthSetsMaxTokens(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{scoredDoc(1, 0.9)}}
	model := &fakeLLM{chatResponse: "answer"}
	s := newTestSynthesizer(searcher, model, Config{RerankResults: false})

	_, err := s.GenerateAnswer(context.Background(), "opening hours", &AnswerOptions{MaxLength: 256})

	assert.NoError(t, err)
	assert.Equal(t, 256, model.lastOptions.MaxTokens)
}

func TestGroundedPromptContainsDocumentsAndStyle(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{scoredDoc(1, 0.9)}}
	model := &fakeLLM{chatResponse: "answer"}
	s := newTestSynthesizer(searcher, model, Config{IncludeMetadata: true, RerankResults: false})

	_, err := s.GenerateAnswer(context.Background(), "opening hours", &AnswerOptions{
		Style:   "friendly",
		Context: "The customer is a VIP member.",
	})

	assert.NoError(t, err)
	system := model.lastMessages[0].Content
	assert.Equal(t, "system", model.lastMessages[0].Role)
	assert.Contains(t, system, "--- CONTENT OF: Document 1 ---")
	assert.Contains(t, system, "Source: faq")
	assert.Contains(t, system, "The customer is a VIP member.")
	assert.Contains(t, system, styleInstructions["friendly"])
}

func TestGroundedPromptOmitsMetadataWhenDisabled(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{scoredDoc(1, 0.9)}}
	model := &fakeLLM{chatResponse: "answer"}
	s := newTestSynthesizer(searcher, model, Config{IncludeMetadata: false, RerankResults: false})

	_, err := s.GenerateAnswer(context.Background(), "opening hours", nil)

	assert.NoError(t, err)
	assert.NotContains(t, model.lastMessages[0].Content, "Source: faq")
}

func TestConversationHistoryIsPrepended(t *testing.T) {
	searcher := &fakeSearcher{results: []store.ScoredDocument{scoredDoc(1, 0.9)}}
	model := &fakeLLM{chatResponse: "answer"}
	s := newTestSynthesizer(searcher, model, Config{RerankResults: false})

	history := []llm.Message{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello, how can I help?"},
	}
	_, err := s.GenerateAnswer(context.Background(), "what about facials", &AnswerOptions{ConversationHistory: history})

	assert.NoError(t, err)
	assert.Len(t, model.lastMessages, 4)
	assert.Equal(t, "hi", model.lastMessages[1].Content)
	assert.Equal(t, "assistant", model.lastMessages[2].Role)
	assert.Equal(t, "what about facials", model.lastMessages[3].Content)
}

func TestUnknownStyleFallsBackToProfessional(t *testing.T) {
	msgs := buildDirectMessages("q", &AnswerOptions{Style: "sarcastic"})
	assert.True(t, strings.Contains(msgs[0].Content, styleInstructions["professional"]))
}
