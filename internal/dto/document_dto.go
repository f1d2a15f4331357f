package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateDocumentRequest struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
}

type DocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Summary   string     `json:"summary"`
	Tags      []string   `json:"tags"`
	Embedding []float32  `json:"embedding,omitempty"`
	CreatedBy uuid.UUID  `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateDocumentRequest struct {
	Id      uuid.UUID
	Title   string `json:"title"`
	Content string `json:"content"`
}

type DeleteDocumentResponse struct {
	Id uuid.UUID `json:"id"`
}

type RegenerateSummaryResponse struct {
	Id      uuid.UUID `json:"id"`
	Summary string    `json:"summary"`
}

type RegenerateTagsResponse struct {
	Id   uuid.UUID `json:"id"`
	Tags []string  `json:"tags"`
}

type SemanticSearchRequest struct {
	Query string `json:"query" validate:"required"`
}

// Similarity is nil when the hit came from an exact title match, and
// omitted for scores that cannot be represented in JSON (NaN).
type SemanticSearchResult struct {
	Id         uuid.UUID `json:"id"`
	Title      string    `json:"title"`
	Summary    string    `json:"summary"`
	Tags       []string  `json:"tags"`
	CreatedBy  uuid.UUID `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
	Similarity *float64  `json:"similarity,omitempty"`
}

type SemanticSearchResponse struct {
	Results []SemanticSearchResult `json:"results"`
}

type TeamQARequest struct {
	Question string `json:"question" validate:"required"`
}

type QASource struct {
	Title string   `json:"title"`
	Score *float64 `json:"score"`
}

type TeamQAResponse struct {
	Answer  string     `json:"answer"`
	Sources []QASource `json:"sources"`
}
