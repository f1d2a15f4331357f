package enrichment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"team-knowledge-be/internal/pkg/apperrors"
	"team-knowledge-be/pkg/llm"

	"github.com/stretchr/testify/assert"
)

// scriptedLLM returns canned responses in call order.
type scriptedLLM struct {
	responses []string
	errAt     int // 1-based call index that fails; 0 means never
	calls     int
	prompts   []string
}

func (f *scriptedLLM) Generate(ctx context.Context, prompt string, _ ...llm.Option) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.errAt != 0 && f.calls == f.errAt {
		return "", apperrors.Provider("generate", errors.New("model unavailable"))
	}
	return f.responses[f.calls-1], nil
}

type fakeEmbedder struct {
	vector []float32
	err    error
	calls  int
	texts  []string
}

func (f *fakeEmbedder) Generate(ctx context.Context, text string, taskType string) ([]float32, error) {
	f.calls++
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

func TestEnrichProducesAllDerivedFields(t *testing.T) {
	llmFake := &scriptedLLM{responses: []string{
		"A short summary.",
		"Go, Backend ,search",
	}}
	embedder := &fakeEmbedder{vector: []float32{0.1, 0.2}}
	pipeline := NewPipeline(llmFake, embedder)

	result, err := pipeline.Enrich(context.Background(), "My Doc", "Some content", "Alice")
	assert.NoError(t, err)
	assert.Equal(t, "A short summary.", result.Summary)
	assert.Equal(t, []string{"go", "backend", "search"}, result.Tags)
	assert.Equal(t, []float32{0.1, 0.2}, result.Embedding)

	// Both structural texts include title and content.
	assert.Contains(t, llmFake.prompts[0], "{title: My Doc, content: Some content}")
	assert.Contains(t, llmFake.prompts[1], "{title: My Doc, content: Some content}")

	// The embedded text is built from every derived field plus the owner.
	assert.Len(t, embedder.texts, 1)
	embedded := embedder.texts[0]
	assert.Contains(t, embedded, "Title: My Doc")
	assert.Contains(t, embedded, "Content: Some content")
	assert.Contains(t, embedded, "Summary: A short summary.")
	assert.Contains(t, embedded, "Tags: go, backend, search")
	assert.Contains(t, embedded, "CreatedBy: Alice")
}

func TestEnrichIsAllOrNothingOnSummaryFailure(t *testing.T) {
	llmFake := &scriptedLLM{errAt: 1}
	embedder := &fakeEmbedder{vector: []float32{1}}
	pipeline := NewPipeline(llmFake, embedder)

	_, err := pipeline.Enrich(context.Background(), "Doc", "Content", "Alice")
	assert.ErrorIs(t, err, apperrors.ErrProvider)
	assert.Equal(t, 1, llmFake.calls, "tags must not be requested after summary fails")
	assert.Equal(t, 0, embedder.calls, "embedding must not be requested after summary fails")
}

func TestEnrichAbortsWhenTagsFail(t *testing.T) {
	llmFake := &scriptedLLM{
		responses: []string{"Summary.", ""},
		errAt:     2,
	}
	embedder := &fakeEmbedder{vector: []float32{1}}
	pipeline := NewPipeline(llmFake, embedder)

	_, err := pipeline.Enrich(context.Background(), "Doc", "Content", "Alice")
	assert.ErrorIs(t, err, apperrors.ErrProvider)
	assert.Equal(t, 0, embedder.calls)
}

func TestEnrichRejectsEmptyInput(t *testing.T) {
	pipeline := NewPipeline(&scriptedLLM{}, &fakeEmbedder{})

	_, err := pipeline.Enrich(context.Background(), "  ", "Content", "Alice")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestSummarizeSkipsTagsAndEmbedding(t *testing.T) {
	llmFake := &scriptedLLM{responses: []string{"Fresh summary."}}
	embedder := &fakeEmbedder{}
	pipeline := NewPipeline(llmFake, embedder)

	summary, err := pipeline.Summarize(context.Background(), "Doc", "Content")
	assert.NoError(t, err)
	assert.Equal(t, "Fresh summary.", summary)
	assert.Equal(t, 1, llmFake.calls)
	assert.Equal(t, 0, embedder.calls)
	assert.True(t, strings.HasPrefix(llmFake.prompts[0], "Summarize this document in 3-5 sentences:"))
}

func TestGenerateTagsSkipsSummaryAndEmbedding(t *testing.T) {
	llmFake := &scriptedLLM{responses: []string{"Apple, Banana ,cherry"}}
	embedder := &fakeEmbedder{}
	pipeline := NewPipeline(llmFake, embedder)

	tags, err := pipeline.GenerateTags(context.Background(), "Doc", "Content")
	assert.NoError(t, err)
	assert.Equal(t, []string{"apple", "banana", "cherry"}, tags)
	assert.Equal(t, 1, llmFake.calls)
	assert.Equal(t, 0, embedder.calls)
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "trims lowercases and splits",
			raw:  "Apple, Banana ,cherry",
			want: []string{"apple", "banana", "cherry"},
		},
		{
			name: "drops empty tokens",
			raw:  "go, ,, distributed systems,",
			want: []string{"go", "distributed systems"},
		},
		{
			name: "caps runaway lists",
			raw:  "a,b,c,d,e,f,g,h,i,j,k",
			want: []string{"a", "b", "c", "d", "e", "f", "g", "h"},
		},
		{
			name: "whitespace only yields nothing",
			raw:  "  ,  ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTags(tt.raw))
		})
	}
}
