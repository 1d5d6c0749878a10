package store

import "time"

// Document represents a knowledge base article as seen by the RAG system.
// Retrieval treats documents as read-only references; only the lifecycle
// service mutates them.
type Document struct {
	ID       string         `json:"id"`
	Content  string         `json:"content"`
	Metadata DocumentMeta   `json:"metadata"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// DocumentMeta carries the descriptive fields of a document.
// Tags has no ordering significance.
type DocumentMeta struct {
	Title     string     `json:"title"`
	Source    string     `json:"source"`
	Category  string     `json:"category"`
	Tags      []string   `json:"tags"`
	Author    string     `json:"author,omitempty"`
	Language  string     `json:"language,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Filters narrows the candidate pool before similarity scoring.
// Category and Source are exact matches, DateRange is inclusive on
// Metadata.CreatedAt, Tags matches on any intersection.
type Filters struct {
	Category  string     `json:"category,omitempty"`
	Source    string     `json:"source,omitempty"`
	Tags      []string   `json:"tags,omitempty"`
	DateRange *DateRange `json:"date_range,omitempty"`
}

type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// IsZero reports whether no predicate is set.
func (f Filters) IsZero() bool {
	return f.Category == "" && f.Source == "" && len(f.Tags) == 0 && f.DateRange == nil
}

// ScoredDocument is a document annotated with its similarity to a query,
// as returned by the similarity search primitive.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"` // 0.0 to 1.0 (1.0 = identical)
}

// Relevance is the coarse bucket derived from a similarity score.
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
	RelevanceLow    Relevance = "low"
)

// RelevanceOf buckets a similarity score: >0.9 high, >0.7 medium, else low.
func RelevanceOf(score float64) Relevance {
	switch {
	case score > 0.9:
		return RelevanceHigh
	case score > 0.7:
		return RelevanceMedium
	default:
		return RelevanceLow
	}
}

// RetrievalResult is one scored hit of a retrieval call. Ephemeral, never
// persisted or cached by the engine.
type RetrievalResult struct {
	Document  Document  `json:"document"`
	Score     float64   `json:"score"`
	Relevance Relevance `json:"relevance"`
}

// Source is one citation entry of a grounded answer.
type Source struct {
	DocumentID string  `json:"document_id"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Relevance  float64 `json:"relevance"`
}

// RAGResponse is the outcome of one answer-synthesis call.
type RAGResponse struct {
	Answer      string   `json:"answer"`
	Sources     []Source `json:"sources"`
	Confidence  float64  `json:"confidence"`
	UsedContext bool     `json:"used_context"`
}
