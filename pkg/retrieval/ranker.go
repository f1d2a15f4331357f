package retrieval

import (
	"context"
	"errors"
	"sort"
	"strings"

	"team-knowledge-be/internal/pkg/apperrors"
	"team-knowledge-be/pkg/embedding"
	"team-knowledge-be/pkg/similarity"
)

// Ranker scores a document corpus against a query. Every call does a full
// linear scan plus at most one embedding request; there is no index and no
// caching of prior queries. That tradeoff is deliberate for small corpora.
type Ranker struct {
	embeddingProvider embedding.EmbeddingProvider
}

func NewRanker(embeddingProvider embedding.EmbeddingProvider) *Ranker {
	return &Ranker{
		embeddingProvider: embeddingProvider,
	}
}

// Rank returns the corpus ordered by descending similarity to queryText.
//
// If exactly one document's title equals queryText case-insensitively and in
// its entirety, that document is returned alone with Exact set and no
// embedding is requested. Otherwise the query is embedded once and every
// document is scored with cosine similarity; NaN scores (zero vectors) sort
// last, ties keep corpus order. The caller decides how many results to keep.
func (r *Ranker) Rank(ctx context.Context, queryText string, corpus []*Document) ([]*RankedCandidate, error) {
	if strings.TrimSpace(queryText) == "" {
		return nil, apperrors.Validation("query must not be empty")
	}

	if len(corpus) == 0 {
		return []*RankedCandidate{}, nil
	}

	if exact := findExactTitleMatch(queryText, corpus); exact != nil {
		return []*RankedCandidate{{Document: exact, Exact: true}}, nil
	}

	queryEmbedding, err := r.embeddingProvider.Generate(ctx, queryText, embedding.TaskTypeQuery)
	if err != nil {
		return nil, err
	}

	candidates := make([]*RankedCandidate, 0, len(corpus))
	for _, doc := range corpus {
		score, err := similarity.Cosine(queryEmbedding, doc.Embedding)
		if err != nil {
			var dimErr *similarity.ErrDimensionMismatch
			if errors.As(err, &dimErr) {
				return nil, apperrors.DimensionMismatch(dimErr.LenB, dimErr.LenA)
			}
			return nil, err
		}
		candidates = append(candidates, &RankedCandidate{
			Document: doc,
			Score:    score,
		})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return similarity.IsWorse(candidates[j].Score, candidates[i].Score)
	})

	return candidates, nil
}

// findExactTitleMatch returns the single document whose title equals the
// query case-insensitively, or nil when there is no match or the match is
// ambiguous (more than one).
func findExactTitleMatch(queryText string, corpus []*Document) *Document {
	var match *Document
	for _, doc := range corpus {
		if strings.EqualFold(doc.Title, queryText) {
			if match != nil {
				return nil
			}
			match = doc
		}
	}
	return match
}

// Truncate limits a ranked list to at most n candidates.
func Truncate(candidates []*RankedCandidate, n int) []*RankedCandidate {
	if n < 0 || n >= len(candidates) {
		return candidates
	}
	return candidates[:n]
}
