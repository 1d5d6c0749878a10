package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type KnowledgeDocument struct {
	Id        uuid.UUID                       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string                          `gorm:"type:text;not null"`
	Content   string                          `gorm:"type:text;not null"`
	Category  string                          `gorm:"type:varchar(100);index"`
	Source    string                          `gorm:"type:varchar(255);index"`
	Tags      datatypes.JSONSlice[string]     `gorm:"type:jsonb"`
	Author    string                          `gorm:"type:varchar(255)"`
	Language  string                          `gorm:"type:varchar(16)"`
	Embedding pgvector.Vector                 `gorm:"type:vector(768)"` // text-embedding-004 / nomic-embed-text use 768 dimensions
	CreatedAt time.Time                       `gorm:"autoCreateTime"`
	UpdatedAt time.Time                       `gorm:"autoUpdateTime"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}
