package mapper

import (
	"time"

	"mariia-hub-be/internal/entity"
	"mariia-hub-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeDocumentMapper struct{}

func NewKnowledgeDocumentMapper() *KnowledgeDocumentMapper {
	return &KnowledgeDocumentMapper{}
}

func (m *KnowledgeDocumentMapper) ToEntity(d *model.KnowledgeDocument) *entity.KnowledgeDocument {
	if d == nil {
		return nil
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.KnowledgeDocument{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		Category:  d.Category,
		Source:    d.Source,
		Tags:      []string(d.Tags),
		Author:    d.Author,
		Language:  d.Language,
		Embedding: d.Embedding.Slice(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *KnowledgeDocumentMapper) ToModel(d *entity.KnowledgeDocument) *model.KnowledgeDocument {
	if d == nil {
		return nil
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.KnowledgeDocument{
		Id:        d.Id,
		Title:     d.Title,
		Content:   d.Content,
		Category:  d.Category,
		Source:    d.Source,
		Tags:      datatypes.NewJSONSlice(d.Tags),
		Author:    d.Author,
		Language:  d.Language,
		Embedding: pgvector.NewVector(d.Embedding),
		CreatedAt: d.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *KnowledgeDocumentMapper) ToEntities(docs []*model.KnowledgeDocument) []*entity.KnowledgeDocument {
	entities := make([]*entity.KnowledgeDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
