package embedding

import "context"

// Task types hint the provider at how the embedding will be used. Gemini
// distinguishes these; other providers ignore them.
const (
	TaskTypeDocument = "RETRIEVAL_DOCUMENT"
	TaskTypeQuery    = "RETRIEVAL_QUERY"
)

// EmbeddingProvider converts text into a fixed-dimensionality vector.
// Implementations are constructed explicitly and injected; there is no
// package-level client.
type EmbeddingProvider interface {
	Generate(ctx context.Context, text string, taskType string) ([]float32, error)
}
