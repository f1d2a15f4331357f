package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Document struct {
	Id        uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title     string                      `gorm:"type:varchar(255);not null"`
	Content   string                      `gorm:"type:text;not null"`
	Summary   string                      `gorm:"type:text"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Embedding pgvector.Vector             `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	UserId    uuid.UUID                   `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt time.Time                   `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt              `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
