package service

import (
	"context"

	"mariia-hub-be/internal/entity"
	"mariia-hub-be/internal/repository/specification"
	"mariia-hub-be/internal/repository/unitofwork"
	"mariia-hub-be/pkg/rag"
	"mariia-hub-be/pkg/store"
)

// knowledgeSearcher adapts the knowledge document repository to the retrieval
// engine's search primitive. Filters are translated to SQL specifications so
// the candidate pool is narrowed before the vector distance is evaluated.
type knowledgeSearcher struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewKnowledgeSearcher(uowFactory unitofwork.RepositoryFactory) rag.DocumentSearcher {
	return &knowledgeSearcher{uowFactory: uowFactory}
}

func (s *knowledgeSearcher) SearchSimilar(ctx context.Context, vector []float32, limit int, threshold float64, filters store.Filters) ([]store.ScoredDocument, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	scored, err := uow.KnowledgeDocumentRepository().SearchSimilarWithScore(
		ctx, vector, limit, threshold, filterSpecifications(filters)...,
	)
	if err != nil {
		return nil, err
	}

	results := make([]store.ScoredDocument, 0, len(scored))
	for _, hit := range scored {
		results = append(results, store.ScoredDocument{
			Document: toStoreDocument(hit.Document),
			Score:    hit.Similarity,
		})
	}
	return results, nil
}

func filterSpecifications(filters store.Filters) []specification.Specification {
	var specs []specification.Specification
	if filters.Category != "" {
		specs = append(specs, specification.ByCategory{Category: filters.Category})
	}
	if filters.Source != "" {
		specs = append(specs, specification.BySource{Source: filters.Source})
	}
	if len(filters.Tags) > 0 {
		specs = append(specs, specification.TagsOverlap{Tags: filters.Tags})
	}
	if filters.DateRange != nil {
		specs = append(specs, specification.CreatedBetween{
			Start: filters.DateRange.Start,
			End:   filters.DateRange.End,
		})
	}
	return specs
}

func toStoreDocument(doc *entity.KnowledgeDocument) store.Document {
	return store.Document{
		ID:      doc.Id.String(),
		Content: doc.Content,
		Metadata: store.DocumentMeta{
			Title:     doc.Title,
			Source:    doc.Source,
			Category:  doc.Category,
			Tags:      doc.Tags,
			Author:    doc.Author,
			Language:  doc.Language,
			CreatedAt: doc.CreatedAt,
			UpdatedAt: doc.UpdatedAt,
		},
	}
}
