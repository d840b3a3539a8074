// Package embeddings defines the Provider interface for sentence embedding
// backends.
//
// An embeddings provider maps text strings to dense float32 vectors (e.g.,
// OpenAI text-embedding-3 or a local sentence-transformer served by Ollama).
// The pipeline uses these vectors for semantic similarity between a source
// text and its translation — a bounded confidence proxy, not a calibrated
// quality metric. Cross-lingual similarity is only meaningful when the
// configured model is multilingual; a monolingual English model will score
// EN→HI pairs poorly regardless of translation quality.
//
// Implementations must be safe for concurrent use.
package embeddings

import "context"

// Provider is the abstraction over any text-embedding backend.
//
// All vectors returned by a single Provider instance share one
// dimensionality; callers must not mix vectors from different providers in
// the same similarity computation.
type Provider interface {
	// Embed computes the embedding vector for a single text string. The
	// text is passed to the model verbatim; any model-specific prompt
	// formatting is the caller's responsibility.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch computes embedding vectors for a slice of texts in one
	// provider call. The returned slice has the same length and order as
	// texts. On error the entire result is nil — no partial results.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// ModelID returns the provider-specific model identifier, for logging
	// and for ensuring consistent model usage.
	ModelID() string
}
