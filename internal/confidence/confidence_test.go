package confidence_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/bharatml/codemix/internal/confidence"
	"github.com/bharatml/codemix/pkg/provider/embeddings/mock"
)

func TestScore_IdenticalVectorsScoreOne(t *testing.T) {
	t.Parallel()
	p := &mock.Provider{BatchResult: [][]float32{{0.5, 0.5, 0.1}, {0.5, 0.5, 0.1}}}
	s := confidence.New(p, nil)
	got := s.Score(context.Background(), "hello", "hello")
	if math.Abs(got-1.0) > 1e-9 {
		t.Errorf("Score = %v, want 1.0", got)
	}
}

func TestScore_OrthogonalVectorsScoreZero(t *testing.T) {
	t.Parallel()
	p := &mock.Provider{BatchResult: [][]float32{{1, 0}, {0, 1}}}
	s := confidence.New(p, nil)
	if got := s.Score(context.Background(), "a", "b"); got != 0.0 {
		t.Errorf("Score = %v, want 0.0", got)
	}
}

func TestScore_NegativeSimilarityClampedToZero(t *testing.T) {
	t.Parallel()
	p := &mock.Provider{BatchResult: [][]float32{{1, 0}, {-1, 0}}}
	s := confidence.New(p, nil)
	if got := s.Score(context.Background(), "a", "b"); got != 0.0 {
		t.Errorf("Score = %v, want clamped 0.0", got)
	}
}

func TestScore_ProviderErrorYieldsExactlyZero(t *testing.T) {
	t.Parallel()
	p := &mock.Provider{Err: errors.New("model offline")}
	s := confidence.New(p, nil)
	if got := s.Score(context.Background(), "a", "b"); got != 0.0 {
		t.Errorf("Score = %v, want exactly 0.0 on provider failure", got)
	}
}

func TestScore_NilProviderYieldsZero(t *testing.T) {
	t.Parallel()
	s := confidence.New(nil, nil)
	if got := s.Score(context.Background(), "a", "b"); got != 0.0 {
		t.Errorf("Score = %v, want 0.0", got)
	}
}

func TestScore_AlwaysInUnitInterval(t *testing.T) {
	t.Parallel()
	cases := [][][]float32{
		{{1, 2, 3}, {3, 2, 1}},
		{{0.1, 0.9}, {0.9, 0.1}},
		{{-1, -1}, {-1, -1}},
	}
	for _, vecs := range cases {
		p := &mock.Provider{BatchResult: vecs}
		s := confidence.New(p, nil)
		got := s.Score(context.Background(), "x", "y")
		if got < 0 || got > 1 {
			t.Errorf("Score = %v out of [0,1] for vecs %v", got, vecs)
		}
	}
}

func TestCosine_Errors(t *testing.T) {
	t.Parallel()
	if _, err := confidence.Cosine(nil, []float32{1}); err == nil {
		t.Error("expected error for empty vector")
	}
	if _, err := confidence.Cosine([]float32{1, 2}, []float32{1}); err == nil {
		t.Error("expected error for length mismatch")
	}
	if _, err := confidence.Cosine([]float32{0, 0}, []float32{1, 1}); err == nil {
		t.Error("expected error for zero-magnitude vector")
	}
}

func TestScore_UsesSingleBatchCall(t *testing.T) {
	t.Parallel()
	p := &mock.Provider{BatchResult: [][]float32{{1, 0}, {1, 0}}}
	s := confidence.New(p, nil)
	s.Score(context.Background(), "source", "translated")
	if p.BatchCount() != 1 {
		t.Errorf("EmbedBatch called %d times, want 1", p.BatchCount())
	}
	if len(p.BatchTexts[0]) != 2 || p.BatchTexts[0][0] != "source" || p.BatchTexts[0][1] != "translated" {
		t.Errorf("unexpected batch contents: %v", p.BatchTexts[0])
	}
}
