package similarity

import (
	"fmt"
	"math"
)

// ErrDimensionMismatch is returned when two vectors of different lengths are
// compared. Mixed-dimensionality corpora happen when the embedding model
// changes between writes; refusing the comparison beats returning a garbage
// score.
type ErrDimensionMismatch struct {
	LenA int
	LenB int
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("embedding dimension mismatch: %d vs %d", e.LenA, e.LenB)
}

// Cosine computes the cosine similarity between two vectors: dot(a,b) / (|a|*|b|).
// Result is in [-1, 1]. If either vector is all-zero the result is NaN;
// callers ranking by score must sort NaN last (see IsWorse).
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, &ErrDimensionMismatch{LenA: len(a), LenB: len(b)}
	}

	var dot, normA, normB float64
	for i := range a {
		av := float64(a[i])
		bv := float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// IsWorse reports whether score a ranks strictly below score b under the
// total order used for ranking: NaN is treated as the minimum, everything
// else compares numerically.
func IsWorse(a, b float64) bool {
	aNaN := math.IsNaN(a)
	bNaN := math.IsNaN(b)
	if aNaN {
		return !bNaN
	}
	if bNaN {
		return false
	}
	return a < b
}

// Normalize scales a vector to unit length. Zero vectors are returned as-is.
func Normalize(vec []float32) []float32 {
	var magnitude float64
	for _, v := range vec {
		magnitude += float64(v) * float64(v)
	}
	magnitude = math.Sqrt(magnitude)

	if magnitude == 0 {
		return vec
	}

	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = float32(float64(v) / magnitude)
	}
	return normalized
}
