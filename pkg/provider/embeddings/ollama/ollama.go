// Package ollama provides an embeddings provider backed by a local Ollama
// server.
//
// Ollama (https://ollama.com) serves local embedding models such as
// paraphrase-multilingual, nomic-embed-text, and all-minilm through its
// native /api/embed endpoint. For code-mixed Hindi/English confidence
// scoring a multilingual model is strongly recommended.
//
// Example:
//
//	p, err := ollama.New("", "paraphrase-multilingual") // http://localhost:11434
//	vec, err := p.Embed(ctx, "main aaj bahut khush hoon")
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bharatml/codemix/pkg/provider/embeddings"
)

// DefaultBaseURL is the default address of a locally running Ollama server.
const DefaultBaseURL = "http://localhost:11434"

// Compile-time interface assertion.
var _ embeddings.Provider = (*Provider)(nil)

// Provider implements embeddings.Provider using Ollama's /api/embed
// endpoint. It is safe for concurrent use.
type Provider struct {
	baseURL    string
	model      string
	httpClient *http.Client
}

// Option is a functional option for Provider.
type Option func(*Provider)

// WithTimeout sets a per-request HTTP timeout. Zero (the default) means no
// timeout.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.httpClient.Timeout = d }
}

// New constructs an Ollama embeddings Provider. baseURL may be empty, in
// which case DefaultBaseURL is used; model must name an embedding model
// available to the server.
func New(baseURL, model string, opts ...Option) (*Provider, error) {
	if model == "" {
		return nil, errors.New("ollama embeddings: model must not be empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	p := &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// embedRequest is the JSON body sent to /api/embed.
type embedRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// embedResponse is the JSON body returned by /api/embed.
type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed implements embeddings.Provider.
func (p *Provider) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := p.callEmbed(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: embed: %w", err)
	}
	if len(vecs) == 0 {
		return nil, errors.New("ollama embeddings: embed: empty response")
	}
	return vecs[0], nil
}

// EmbedBatch implements embeddings.Provider. Passing an empty texts slice
// returns (nil, nil) without a network request.
func (p *Provider) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := p.callEmbed(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("ollama embeddings: embed batch: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("ollama embeddings: embed batch: expected %d embeddings, got %d", len(texts), len(vecs))
	}
	return vecs, nil
}

// ModelID implements embeddings.Provider.
func (p *Provider) ModelID() string { return p.model }

// callEmbed POSTs to /api/embed and returns the raw vectors.
func (p *Provider) callEmbed(ctx context.Context, texts []string) ([][]float32, error) {
	body, err := json.Marshal(embedRequest{Model: p.model, Input: texts})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("empty embeddings in response")
	}
	return result.Embeddings, nil
}
