package entity

import (
	"time"

	"github.com/google/uuid"
)

// KnowledgeDocument is a unit of knowledge in the support knowledge base.
// Embedding is derived from Content and regenerated whenever Content changes;
// a persisted document never has a nil embedding.
type KnowledgeDocument struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Title     string
	Content   string
	Category  string
	Source    string
	Tags      []string
	Author    string
	Language  string
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt *time.Time
}
