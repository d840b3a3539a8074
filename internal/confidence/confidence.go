// Package confidence scores translation output by semantic similarity
// between source and translated text.
//
// The score is the cosine similarity of the two texts' embedding vectors,
// clamped to [0, 1]. It is a bounded proxy for translation adequacy, not a
// calibrated quality metric, and it is only as cross-lingual as the
// configured embedding model. Scoring never fails: any provider error
// degrades to a score of exactly 0.0.
package confidence

import (
	"context"
	"errors"
	"log/slog"
	"math"

	"github.com/bharatml/codemix/internal/observe"
	"github.com/bharatml/codemix/pkg/provider/embeddings"
)

// LowThreshold is the display policy cut-off: results scoring below it are
// flagged as low confidence for the caller's UI.
const LowThreshold = 0.5

// Scorer computes bounded similarity scores via an embeddings provider.
// A nil provider is allowed and always scores 0.0.
type Scorer struct {
	provider embeddings.Provider
	metrics  *observe.Metrics
}

// New creates a Scorer over provider. metrics may be nil.
func New(provider embeddings.Provider, metrics *observe.Metrics) *Scorer {
	return &Scorer{provider: provider, metrics: metrics}
}

// Score returns the cosine similarity of source and translated in [0, 1].
// Provider failures, missing vectors, and dimension mismatches all return
// 0.0 — confidence problems are never allowed to fail a translation call.
func (s *Scorer) Score(ctx context.Context, source, translated string) float64 {
	if s.provider == nil {
		return 0.0
	}
	vecs, err := s.provider.EmbedBatch(ctx, []string{source, translated})
	if err != nil || len(vecs) != 2 {
		slog.Warn("confidence scoring unavailable", "model", s.provider.ModelID(), "err", err)
		if s.metrics != nil {
			s.metrics.RecordProviderRequest(ctx, "embeddings", "error")
		}
		return 0.0
	}
	if s.metrics != nil {
		s.metrics.RecordProviderRequest(ctx, "embeddings", "ok")
	}

	sim, err := Cosine(vecs[0], vecs[1])
	if err != nil {
		slog.Warn("cosine similarity failed", "err", err)
		return 0.0
	}
	return clamp01(sim)
}

// Cosine returns the cosine similarity of two vectors. Returns an error for
// mismatched lengths, empty vectors, or a zero-magnitude vector.
func Cosine(a, b []float32) (float64, error) {
	if len(a) == 0 || len(b) == 0 {
		return 0, errors.New("confidence: empty vector")
	}
	if len(a) != len(b) {
		return 0, errors.New("confidence: vector length mismatch")
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, errors.New("confidence: zero-magnitude vector")
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
