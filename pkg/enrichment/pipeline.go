package enrichment

import (
	"context"
	"fmt"
	"strings"

	"team-knowledge-be/internal/pkg/apperrors"
	"team-knowledge-be/pkg/embedding"
	"team-knowledge-be/pkg/llm"
)

// maxTags bounds the parsed tag list. The model is asked for 3-5 keywords
// but its output is untrusted; runaway lists get cut instead of persisted.
const maxTags = 8

// Result holds the derived fields for a document. The pipeline either
// produces all of them or fails; there is no partial result.
type Result struct {
	Summary   string
	Tags      []string
	Embedding []float32
}

// Pipeline derives summary, tags and embedding for a document's text through
// serial provider calls. Steps are dependent (the embedded text includes the
// summary and tags), so there is nothing to parallelize.
type Pipeline struct {
	llmProvider       llm.LLMProvider
	embeddingProvider embedding.EmbeddingProvider
}

func NewPipeline(llmProvider llm.LLMProvider, embeddingProvider embedding.EmbeddingProvider) *Pipeline {
	return &Pipeline{
		llmProvider:       llmProvider,
		embeddingProvider: embeddingProvider,
	}
}

// Enrich runs the full derivation: summary, then tags, then the embedding of
// the combined text. ownerName is the display name of the document's author,
// rendered into the embedded text. Any step failure aborts the rest.
func (p *Pipeline) Enrich(ctx context.Context, title, content, ownerName string) (*Result, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("title and content must not be empty")
	}

	text := structuralText(title, content)

	summary, err := p.requestSummary(ctx, text)
	if err != nil {
		return nil, err
	}

	tags, err := p.requestTags(ctx, text)
	if err != nil {
		return nil, err
	}

	embeddingText := embeddingText(title, content, summary, tags, ownerName)
	vector, err := p.embeddingProvider.Generate(ctx, embeddingText, embedding.TaskTypeDocument)
	if err != nil {
		return nil, err
	}

	return &Result{
		Summary:   summary,
		Tags:      tags,
		Embedding: vector,
	}, nil
}

// Summarize regenerates only the summary, skipping tags and embedding.
func (p *Pipeline) Summarize(ctx context.Context, title, content string) (string, error) {
	return p.requestSummary(ctx, structuralText(title, content))
}

// GenerateTags regenerates only the tag list, skipping summary and embedding.
func (p *Pipeline) GenerateTags(ctx context.Context, title, content string) ([]string, error) {
	return p.requestTags(ctx, structuralText(title, content))
}

func (p *Pipeline) requestSummary(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize this document in 3-5 sentences:\n\n%s", text)
	summary, err := p.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(summary) == "" {
		return "", apperrors.Provider("summary generation", fmt.Errorf("empty response"))
	}
	return summary, nil
}

func (p *Pipeline) requestTags(ctx context.Context, text string) ([]string, error) {
	prompt := fmt.Sprintf(
		"Extract 3 to 5 meaningful tags (keywords) for this document. Return them as a comma-separated list:\n\n%s",
		text,
	)
	raw, err := p.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	tags := ParseTags(raw)
	if len(tags) == 0 {
		return nil, apperrors.Provider("tag generation", fmt.Errorf("no usable tags in response %q", raw))
	}
	return tags, nil
}

// ParseTags splits a comma-separated model response into lowercase trimmed
// tags. Empty tokens are dropped and the list is capped at maxTags.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.ToLower(strings.TrimSpace(part))
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
		if len(tags) == maxTags {
			break
		}
	}
	return tags
}

func structuralText(title, content string) string {
	return fmt.Sprintf("{title: %s, content: %s}", title, content)
}

func embeddingText(title, content, summary string, tags []string, ownerName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\n", title)
	fmt.Fprintf(&b, "Content: %s\n", content)
	fmt.Fprintf(&b, "Summary: %s\n", summary)
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(tags, ", "))
	fmt.Fprintf(&b, "CreatedBy: %s", ownerName)
	return b.String()
}
