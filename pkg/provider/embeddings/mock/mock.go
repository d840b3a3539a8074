// Package mock provides a test double for the embeddings.Provider interface.
//
// Use Provider to return pre-canned vectors without a live model and to
// verify which texts were submitted for embedding:
//
//	p := &mock.Provider{
//	    BatchResult: [][]float32{{1, 0}, {0, 1}},
//	}
//	vecs, _ := p.EmbedBatch(ctx, []string{"a", "b"})
package mock

import (
	"context"
	"sync"

	"github.com/bharatml/codemix/pkg/provider/embeddings"
)

// Provider is a mock implementation of embeddings.Provider.
type Provider struct {
	mu sync.Mutex

	// Result is returned by Embed. Nil yields a zero-length vector.
	Result []float32

	// BatchResult is returned by EmbedBatch. When nil, EmbedBatch returns
	// one copy of Result per input text.
	BatchResult [][]float32

	// Err, if non-nil, is returned by both Embed and EmbedBatch.
	Err error

	// Model is returned by ModelID. Defaults to "mock-embed".
	Model string

	// EmbedTexts records every text passed to Embed, in order.
	EmbedTexts []string

	// BatchTexts records every slice passed to EmbedBatch, in order.
	BatchTexts [][]string
}

// Compile-time interface assertion.
var _ embeddings.Provider = (*Provider)(nil)

// Embed records the call and returns Result, Err.
func (p *Provider) Embed(_ context.Context, text string) ([]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.EmbedTexts = append(p.EmbedTexts, text)
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Result, nil
}

// EmbedBatch records the call and returns BatchResult, Err. When
// BatchResult is nil, each input text maps to Result.
func (p *Provider) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]string, len(texts))
	copy(cp, texts)
	p.BatchTexts = append(p.BatchTexts, cp)
	if p.Err != nil {
		return nil, p.Err
	}
	if p.BatchResult != nil {
		return p.BatchResult, nil
	}
	out := make([][]float32, len(texts))
	for i := range out {
		out[i] = p.Result
	}
	return out, nil
}

// ModelID returns Model, defaulting to "mock-embed".
func (p *Provider) ModelID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Model == "" {
		return "mock-embed"
	}
	return p.Model
}

// BatchCount returns the number of EmbedBatch calls recorded.
func (p *Provider) BatchCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.BatchTexts)
}
