package retrieval

import "github.com/google/uuid"

// Document is the ranker's read-only view of a stored document. The service
// layer maps persistence entities into this shape; OwnerName is only filled
// when the caller needs it for context rendering.
type Document struct {
	Id        uuid.UUID
	Title     string
	Content   string
	Summary   string
	Tags      []string
	Embedding []float32
	OwnerId   uuid.UUID
	OwnerName string
}

// RankedCandidate pairs a corpus document with its query similarity. It is
// produced fresh per query and never persisted.
type RankedCandidate struct {
	Document *Document

	// Score is the cosine similarity in [-1, 1]. Undefined when Exact is
	// set: the exact-title path skips embedding entirely.
	Score float64

	// Exact marks the exact-title short-circuit result.
	Exact bool
}
