package contract

import (
	"context"

	"mariia-hub-be/internal/entity"
	"mariia-hub-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredKnowledgeDocument wraps KnowledgeDocument with its similarity score
type ScoredKnowledgeDocument struct {
	Document   *entity.KnowledgeDocument
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type KnowledgeDocumentRepository interface {
	Create(ctx context.Context, doc *entity.KnowledgeDocument) error
	Update(ctx context.Context, doc *entity.KnowledgeDocument) error
	// Delete is a hard delete; there is no tombstone row left behind.
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KnowledgeDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KnowledgeDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// CountByField groups all documents on a metadata column and counts them.
	CountByField(ctx context.Context, field string) (map[string]int64, error)
	// SearchSimilarWithScore returns documents with their similarity scores,
	// filtered by threshold and the given specifications, best match first.
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int, threshold float64, specs ...specification.Specification) ([]*ScoredKnowledgeDocument, error)
}
