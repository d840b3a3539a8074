// Package marian provides a translation backend that talks to a MarianMT /
// OPUS-MT model server over its REST API.
//
// The server is expected to expose two endpoints:
//
//   - POST /models/load  {"model": "<id>"}        — pull the model into memory
//   - POST /translate    {"model": "<id>", "text": "<input>"}
//     → {"translation": "<output>"}
//
// This matches the common huggingface/transformers serving shims used for
// the Helsinki-NLP OPUS-MT checkpoints.
//
// Example:
//
//	l, err := marian.New("http://localhost:8500", marian.WithTimeout(30*time.Second))
//	h, err := l.Load(ctx, "Helsinki-NLP/opus-mt-en-hi")
//	out, err := h.Generate(ctx, "How are you?")
package marian

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bharatml/codemix/pkg/provider/translation"
)

// Compile-time interface assertion.
var _ translation.Loader = (*Loader)(nil)

const (
	defaultTimeout    = 60 * time.Second
	loadEndpoint      = "/models/load"
	translateEndpoint = "/translate"
)

// Loader implements translation.Loader against a Marian model server.
// It is safe for concurrent use.
type Loader struct {
	serverURL  string
	httpClient *http.Client
	device     string
}

// Option is a functional option for configuring a Loader.
type Option func(*Loader)

// WithTimeout sets the per-request HTTP timeout. Defaults to 60 s, generous
// enough for a cold model load on CPU.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) { l.httpClient.Timeout = d }
}

// WithDevice sets the execution device hint ("cpu" or "cuda") passed through
// to the server on load requests. The pipeline itself is device-agnostic.
func WithDevice(device string) Option {
	return func(l *Loader) { l.device = device }
}

// New creates a Loader targeting the Marian server at serverURL
// (e.g., "http://localhost:8500"). serverURL must be non-empty.
func New(serverURL string, opts ...Option) (*Loader, error) {
	if serverURL == "" {
		return nil, errors.New("marian: serverURL must not be empty")
	}
	l := &Loader{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(l)
	}
	return l, nil
}

// loadRequest is the JSON body for POST /models/load.
type loadRequest struct {
	Model  string `json:"model"`
	Device string `json:"device,omitempty"`
}

// translateRequest is the JSON body for POST /translate.
type translateRequest struct {
	Model string `json:"model"`
	Text  string `json:"text"`
}

// translateResponse is the JSON body returned by POST /translate.
type translateResponse struct {
	Translation string `json:"translation"`
}

// Load implements translation.Loader. It asks the server to pull modelID
// into memory and returns a Handle bound to that identifier. The returned
// error is non-nil when the server rejects the model or cannot be reached;
// in that case nothing is cached and a later retry is fine.
func (l *Loader) Load(ctx context.Context, modelID string) (translation.Handle, error) {
	if modelID == "" {
		return nil, errors.New("marian: modelID must not be empty")
	}
	body, err := json.Marshal(loadRequest{Model: modelID, Device: l.device})
	if err != nil {
		return nil, fmt.Errorf("marian: marshal load request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, l.serverURL+loadEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("marian: build load request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marian: load %q: %w", modelID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("marian: load %q: unexpected status %d", modelID, resp.StatusCode)
	}

	return &handle{loader: l, modelID: modelID}, nil
}

// handle is a loaded Marian model. It carries no state beyond the model
// identifier; inference is stateless HTTP.
type handle struct {
	loader  *Loader
	modelID string
}

var _ translation.Handle = (*handle)(nil)

// ModelID implements translation.Handle.
func (h *handle) ModelID() string { return h.modelID }

// Generate implements translation.Handle by POSTing to /translate.
func (h *handle) Generate(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(translateRequest{Model: h.modelID, Text: text})
	if err != nil {
		return "", fmt.Errorf("marian: marshal translate request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.loader.serverURL+translateEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("marian: build translate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.loader.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("marian: translate with %q: %w", h.modelID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("marian: translate with %q: unexpected status %d", h.modelID, resp.StatusCode)
	}

	var result translateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("marian: decode translate response: %w", err)
	}
	return result.Translation, nil
}
