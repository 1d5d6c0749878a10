package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"mariia-hub-be/internal/dto"
	"mariia-hub-be/internal/entity"
	"mariia-hub-be/internal/pkg/logger"
	"mariia-hub-be/internal/repository/specification"
	"mariia-hub-be/internal/repository/unitofwork"
	"mariia-hub-be/pkg/embedding"
	"mariia-hub-be/pkg/events"
	pktNats "mariia-hub-be/pkg/nats"
	"mariia-hub-be/pkg/rag"

	"github.com/google/uuid"
)

const embedDocumentTaskType = "RETRIEVAL_DOCUMENT"

type IKnowledgeService interface {
	AddDocuments(ctx context.Context, docs []dto.DocumentInputDTO) ([]dto.AddDocumentItemResult, error)
	UpdateDocument(ctx context.Context, req *dto.UpdateDocumentRequest) error
	DeleteDocument(ctx context.Context, id uuid.UUID) error
	GetStatistics(ctx context.Context) (*dto.StatisticsResponse, error)
	ReindexAll(ctx context.Context) (int, error)
}

type knowledgeService struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	publisherService  IPublisherService
	eventPublisher    *pktNats.Publisher
	logger            logger.ILogger
}

func NewKnowledgeService(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	sysLogger logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		publisherService:  publisherService,
		eventPublisher:    eventPublisher,
		logger:            sysLogger,
	}
}

// AddDocuments ingests documents one by one: embed, then persist. The batch
// is best-effort; a failed item is reported in its result entry and does not
// undo documents that are already stored.
func (s *knowledgeService) AddDocuments(ctx context.Context, docs []dto.DocumentInputDTO) ([]dto.AddDocumentItemResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	results := make([]dto.AddDocumentItemResult, 0, len(docs))

	for _, input := range docs {
		id := uuid.New()
		if input.Id != nil {
			id = *input.Id
		}

		doc, err := s.ingestOne(ctx, uow, id, input)
		if err != nil {
			s.logger.Error("knowledge", "Failed to ingest document", map[string]interface{}{
				"document_id": id.String(),
				"error":       err.Error(),
			})
			results = append(results, dto.AddDocumentItemResult{Id: id, Success: false, Error: err.Error()})
			continue
		}

		results = append(results, dto.AddDocumentItemResult{Id: doc.Id, Success: true})
		s.publishEvent(ctx, "KNOWLEDGE_DOCUMENT_ADDED", doc)
	}

	return results, nil
}

func (s *knowledgeService) ingestOne(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID, input dto.DocumentInputDTO) (*entity.KnowledgeDocument, error) {
	embeddingRes, err := s.embeddingProvider.Generate(input.Content, embedDocumentTaskType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrEmbeddingFailure, err)
	}

	doc := &entity.KnowledgeDocument{
		Id:        id,
		Title:     input.Metadata.Title,
		Content:   input.Content,
		Category:  input.Metadata.Category,
		Source:    input.Metadata.Source,
		Tags:      input.Metadata.Tags,
		Author:    input.Metadata.Author,
		Language:  input.Metadata.Language,
		Embedding: embeddingRes.Embedding.Values,
		CreatedAt: time.Now(),
	}

	if err := uow.KnowledgeDocumentRepository().Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}
	return doc, nil
}

// UpdateDocument merges the metadata patch over the stored document and
// refreshes updated_at. The embedding is regenerated only when new content is
// supplied and actually differs; a metadata-only update keeps the stored
// embedding untouched.
func (s *knowledgeService) UpdateDocument(ctx context.Context, req *dto.UpdateDocumentRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", rag.ErrNotFound, req.Id)
	}

	merged := mergeMetadata(*existing, req.Metadata)

	if req.Content != nil && *req.Content != existing.Content {
		embeddingRes, err := s.embeddingProvider.Generate(*req.Content, embedDocumentTaskType)
		if err != nil {
			return fmt.Errorf("%w: %v", rag.ErrEmbeddingFailure, err)
		}
		merged.Content = *req.Content
		merged.Embedding = embeddingRes.Embedding.Values
	}

	now := time.Now()
	merged.UpdatedAt = &now

	if err := uow.KnowledgeDocumentRepository().Update(ctx, &merged); err != nil {
		return fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}

	s.publishEvent(ctx, "KNOWLEDGE_DOCUMENT_UPDATED", &merged)
	return nil
}

// mergeMetadata applies a patch over a copy of the stored document. Pure on
// purpose: the input entity is never mutated, which keeps concurrent readers
// of the old value safe.
func mergeMetadata(doc entity.KnowledgeDocument, patch *dto.MetadataPatch) entity.KnowledgeDocument {
	if patch == nil {
		return doc
	}
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Source != nil {
		doc.Source = *patch.Source
	}
	if patch.Category != nil {
		doc.Category = *patch.Category
	}
	if patch.Tags != nil {
		tags := make([]string, len(*patch.Tags))
		copy(tags, *patch.Tags)
		doc.Tags = tags
	}
	if patch.Author != nil {
		doc.Author = *patch.Author
	}
	if patch.Language != nil {
		doc.Language = *patch.Language
	}
	return doc
}

func (s *knowledgeService) DeleteDocument(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.KnowledgeDocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}
	if existing == nil {
		return fmt.Errorf("%w: %s", rag.ErrNotFound, id)
	}

	if err := uow.KnowledgeDocumentRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}

	s.publishEvent(ctx, "KNOWLEDGE_DOCUMENT_DELETED", existing)
	return nil
}

// GetStatistics derives counts by scanning the stored metadata. Nothing is
// cached; the dashboard polls this rarely enough that honest counts beat a
// stale aggregate.
func (s *knowledgeService) GetStatistics(ctx context.Context) (*dto.StatisticsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.KnowledgeDocumentRepository()

	total, err := repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}

	byCategory, err := repo.CountByField(ctx, "category")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}

	bySource, err := repo.CountByField(ctx, "source")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}

	return &dto.StatisticsResponse{
		TotalDocuments:      total,
		DocumentsByCategory: byCategory,
		DocumentsBySource:   bySource,
	}, nil
}

// ReindexAll schedules an embedding refresh for every stored document, one
// message per document. The consumer re-embeds sequentially so the embedding
// provider sees at most one in-flight request.
func (s *knowledgeService) ReindexAll(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	docs, err := uow.KnowledgeDocumentRepository().FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", rag.ErrStoreUnavailable, err)
	}

	scheduled := 0
	for _, doc := range docs {
		payload, err := json.Marshal(dto.PublishReindexMessage{DocumentId: doc.Id})
		if err != nil {
			return scheduled, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			return scheduled, err
		}
		scheduled++
	}

	s.logger.Info("knowledge", "Scheduled reindex", map[string]interface{}{"documents": scheduled})
	return scheduled, nil
}

func (s *knowledgeService) publishEvent(ctx context.Context, eventType string, doc *entity.KnowledgeDocument) {
	if s.eventPublisher == nil {
		return
	}

	evt := events.BaseEvent{
		Type: eventType,
		Data: map[string]interface{}{
			"document_id": doc.Id,
			"title":       doc.Title,
			"category":    doc.Category,
		},
		OccurredAt: time.Now(),
	}

	// Notification delivery is auxiliary; log and move on.
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("knowledge", "Failed to publish event", map[string]interface{}{
			"event": eventType,
			"error": err.Error(),
		})
	}
}
