package qa

import (
	"context"
	"fmt"
	"strings"

	"team-knowledge-be/internal/pkg/apperrors"
	"team-knowledge-be/pkg/llm"
	"team-knowledge-be/pkg/retrieval"
)

// topContextDocs is how many ranked documents feed the grounding context.
const topContextDocs = 3

// EmptyCorpusAnswer is returned without a generation call when there are no
// documents to ground on. Deterministic by design.
const EmptyCorpusAnswer = "There are no documents in the knowledge base yet, so I cannot answer this question."

// unknownOwner is rendered when the owner's display name did not resolve.
const unknownOwner = "Unknown"

// Source cites a document used as grounding context: title plus similarity
// score. Score is nil for the exact-title path, where no score exists.
type Source struct {
	Title string
	Score *float64
}

// Result is the orchestrator's answer with its citations.
type Result struct {
	Answer  string
	Sources []Source
}

// Orchestrator answers questions over the document corpus: rank, assemble a
// grounding context from the top candidates, issue one generation call.
type Orchestrator struct {
	ranker      *retrieval.Ranker
	llmProvider llm.LLMProvider
}

func NewOrchestrator(ranker *retrieval.Ranker, llmProvider llm.LLMProvider) *Orchestrator {
	return &Orchestrator{
		ranker:      ranker,
		llmProvider: llmProvider,
	}
}

// Answer ranks the corpus against the question, grounds a prompt on the top
// three candidates (or the single exact-title match) and returns the model's
// raw answer with title+score citations. Adapter failures abort the whole
// operation; no partial answer is produced.
func (o *Orchestrator) Answer(ctx context.Context, question string, corpus []*retrieval.Document) (*Result, error) {
	if strings.TrimSpace(question) == "" {
		return nil, apperrors.Validation("question must not be empty")
	}

	if len(corpus) == 0 {
		return &Result{
			Answer:  EmptyCorpusAnswer,
			Sources: []Source{},
		}, nil
	}

	ranked, err := o.ranker.Rank(ctx, question, corpus)
	if err != nil {
		return nil, err
	}
	topDocs := retrieval.Truncate(ranked, topContextDocs)

	grounding := buildGroundingContext(topDocs)
	prompt := buildPrompt(grounding, question)

	answer, err := o.llmProvider.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(topDocs))
	for _, candidate := range topDocs {
		source := Source{Title: candidate.Document.Title}
		if !candidate.Exact {
			score := candidate.Score
			source.Score = &score
		}
		sources = append(sources, source)
	}

	return &Result{
		Answer:  answer,
		Sources: sources,
	}, nil
}

// buildGroundingContext renders each candidate into a fixed template block
// and joins the blocks with blank lines. Sources cite titles only; the full
// content lives here and is discarded after the generation call.
func buildGroundingContext(candidates []*retrieval.RankedCandidate) string {
	blocks := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		doc := candidate.Document

		score := "n/a"
		if !candidate.Exact {
			score = fmt.Sprintf("%.4f", candidate.Score)
		}

		ownerName := doc.OwnerName
		if ownerName == "" {
			ownerName = unknownOwner
		}

		block := fmt.Sprintf(
			"Title: %s\nSummary: %s\nContent: %s\nScore: %s\nTags: %s\nCreated By: %s",
			doc.Title,
			doc.Summary,
			doc.Content,
			score,
			strings.Join(doc.Tags, ", "),
			ownerName,
		)
		blocks = append(blocks, block)
	}
	return strings.Join(blocks, "\n\n")
}

func buildPrompt(grounding, question string) string {
	var b strings.Builder
	b.WriteString("You are a helpful assistant for team documents.\n")
	b.WriteString("Use only the following docs as context when answering, and base your answer primarily on the context whose score is highest.\n")
	b.WriteString("Do not use the \"/\" character in your answer. Respond the way a chatbot would, so the user gets what they need and nothing unnecessary.\n\n")
	b.WriteString("Context:\n")
	b.WriteString(grounding)
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\nAnswer in a clear and concise way:")
	return b.String()
}
