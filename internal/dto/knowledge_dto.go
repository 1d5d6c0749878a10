package dto

import (
	"time"

	"mariia-hub-be/pkg/llm"
	"mariia-hub-be/pkg/store"

	"github.com/google/uuid"
)

// --- Document lifecycle ---

type DocumentMetadataDTO struct {
	Title    string   `json:"title" validate:"required"`
	Source   string   `json:"source"`
	Category string   `json:"category"`
	Tags     []string `json:"tags"`
	Author   string   `json:"author,omitempty"`
	Language string   `json:"language,omitempty"`
}

type DocumentInputDTO struct {
	Id       *uuid.UUID          `json:"id,omitempty"`
	Content  string              `json:"content" validate:"required"`
	Metadata DocumentMetadataDTO `json:"metadata" validate:"required"`
}

type AddDocumentsRequest struct {
	Documents []DocumentInputDTO `json:"documents" validate:"required,min=1,max=100,dive"`
}

// AddDocumentItemResult reports one item of a batch ingestion. The batch is
// best-effort: earlier successes stand even when a later item fails.
type AddDocumentItemResult struct {
	Id      uuid.UUID `json:"id"`
	Success bool      `json:"success"`
	Error   string    `json:"error,omitempty"`
}

type AddDocumentsResponse struct {
	Results []AddDocumentItemResult `json:"results"`
}

// MetadataPatch carries only the metadata keys the caller wants to change;
// nil pointers leave the stored value untouched.
type MetadataPatch struct {
	Title    *string   `json:"title,omitempty"`
	Source   *string   `json:"source,omitempty"`
	Category *string   `json:"category,omitempty"`
	Tags     *[]string `json:"tags,omitempty"`
	Author   *string   `json:"author,omitempty"`
	Language *string   `json:"language,omitempty"`
}

type UpdateDocumentRequest struct {
	Id       uuid.UUID      `json:"-"`
	Content  *string        `json:"content,omitempty"`
	Metadata *MetadataPatch `json:"metadata,omitempty"`
}

// --- Retrieval / answers ---

type DateRangeDTO struct {
	Start time.Time `json:"start" validate:"required"`
	End   time.Time `json:"end" validate:"required"`
}

type FiltersDTO struct {
	Category  string        `json:"category,omitempty"`
	Source    string        `json:"source,omitempty"`
	Tags      []string      `json:"tags,omitempty"`
	DateRange *DateRangeDTO `json:"date_range,omitempty"`
}

type SearchRequest struct {
	Query   string      `json:"query" validate:"required"`
	Filters *FiltersDTO `json:"filters,omitempty"`
}

type SearchResponse struct {
	Results []store.RetrievalResult `json:"results"`
}

type AnswerOptionsDTO struct {
	Context             string        `json:"context,omitempty"`
	ConversationHistory []llm.Message `json:"conversation_history,omitempty" validate:"max=50"`
	Temperature         *float64      `json:"temperature,omitempty" validate:"omitempty,gte=0,lte=2"`
	MaxLength           int           `json:"max_length,omitempty" validate:"gte=0"`
	Style               string        `json:"style,omitempty" validate:"omitempty,oneof=professional friendly academic"`
}

type AskRequest struct {
	Query   string            `json:"query" validate:"required"`
	Options *AnswerOptionsDTO `json:"options,omitempty"`
}

// --- Statistics ---

type StatisticsResponse struct {
	TotalDocuments      int64            `json:"total_documents"`
	DocumentsByCategory map[string]int64 `json:"documents_by_category"`
	DocumentsBySource   map[string]int64 `json:"documents_by_source"`
}

// --- Reindex pipeline ---

// PublishReindexMessage is the payload of one reindex job on the bus.
type PublishReindexMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}

type ReindexResponse struct {
	Scheduled int `json:"scheduled"`
}
