package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document is a team knowledge document. Summary, Tags and Embedding are
// derived by the enrichment pipeline and always written together; Summary can
// be stale relative to Content only between an edit request arriving and its
// re-enrichment completing.
type Document struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Summary   string
	Tags      []string
	Embedding []float32
	UserId    uuid.UUID
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
