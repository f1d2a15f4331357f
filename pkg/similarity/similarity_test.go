package similarity

import (
	"math"
	"testing"
)

func TestCosineSelfSimilarity(t *testing.T) {
	vectors := [][]float32{
		{1, 0},
		{0.5, 0.5, 0.5},
		{-3, 2, 7, 0.1},
	}

	for _, v := range vectors {
		score, err := Cosine(v, v)
		if err != nil {
			t.Fatalf("Cosine(v, v) error: %v", err)
		}
		if math.Abs(score-1.0) > 1e-6 {
			t.Errorf("Cosine(v, v) = %f, want 1.0", score)
		}
	}
}

func TestCosineScalarMultiples(t *testing.T) {
	a := []float32{3, -1, 2}

	positive := []float32{6, -2, 4}
	score, err := Cosine(a, positive)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(score-1.0) > 1e-6 {
		t.Errorf("Cosine(a, 2a) = %f, want 1.0", score)
	}

	negative := []float32{-3, 1, -2}
	score, err = Cosine(a, negative)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(score-(-1.0)) > 1e-6 {
		t.Errorf("Cosine(a, -a) = %f, want -1.0", score)
	}
}

func TestCosineSymmetry(t *testing.T) {
	a := []float32{0.9, 0.1, 0.3}
	b := []float32{0.2, 0.8, 0.5}

	ab, err := Cosine(a, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ba, err := Cosine(b, a)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ab != ba {
		t.Errorf("Cosine not symmetric: %f vs %f", ab, ba)
	}
}

func TestCosineZeroVectorIsNaN(t *testing.T) {
	score, err := Cosine([]float32{0, 0}, []float32{1, 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !math.IsNaN(score) {
		t.Errorf("Cosine(zero, v) = %f, want NaN", score)
	}
}

func TestCosineDimensionMismatch(t *testing.T) {
	_, err := Cosine([]float32{1, 2}, []float32{1, 2, 3})
	if err == nil {
		t.Fatal("expected dimension mismatch error, got nil")
	}
	var dimErr *ErrDimensionMismatch
	if !asDimErr(err, &dimErr) {
		t.Fatalf("expected *ErrDimensionMismatch, got %T", err)
	}
	if dimErr.LenA != 2 || dimErr.LenB != 3 {
		t.Errorf("unexpected lengths in error: %d, %d", dimErr.LenA, dimErr.LenB)
	}
}

func asDimErr(err error, target **ErrDimensionMismatch) bool {
	e, ok := err.(*ErrDimensionMismatch)
	if ok {
		*target = e
	}
	return ok
}

func TestIsWorse(t *testing.T) {
	nan := math.NaN()
	tests := []struct {
		name string
		a, b float64
		want bool
	}{
		{"lower score is worse", 0.1, 0.9, true},
		{"higher score is not worse", 0.9, 0.1, false},
		{"equal scores", 0.5, 0.5, false},
		{"NaN is worse than any number", nan, -1.0, true},
		{"number is not worse than NaN", -1.0, nan, false},
		{"NaN vs NaN keeps order", nan, nan, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWorse(tt.a, tt.b); got != tt.want {
				t.Errorf("IsWorse(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	v := Normalize([]float32{3, 4})
	var magnitude float64
	for _, x := range v {
		magnitude += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(magnitude)-1.0) > 1e-6 {
		t.Errorf("normalized magnitude = %f, want 1.0", math.Sqrt(magnitude))
	}

	zero := Normalize([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("Normalize(zero) changed the vector: %v", zero)
	}
}
