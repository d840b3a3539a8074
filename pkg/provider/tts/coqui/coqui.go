// Package coqui provides a text-to-speech provider backed by a locally
// running Coqui TTS server (ghcr.io/coqui-ai/tts-cpu). Synthesis is
// performed via GET /api/tts with URL query parameters; the WAV response is
// written to the requested output file.
//
// Typical usage:
//
//	p, err := coqui.New("http://localhost:5002",
//	    coqui.WithTimeout(15*time.Second),
//	)
//	err = p.SynthesizeFile(ctx, "नमस्ते", "hi", "out.wav")
package coqui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/bharatml/codemix/pkg/provider/tts"
)

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

const (
	defaultTimeout = 30 * time.Second
	apiTTSEndpoint = "/api/tts"
)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithTimeout sets the per-request HTTP timeout for calls to the TTS server.
// Defaults to 30 s.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) { p.httpClient.Timeout = d }
}

// WithSpeaker sets the speaker_id query parameter for multi-speaker models.
// Leave empty for single-speaker models.
func WithSpeaker(id string) Option {
	return func(p *Provider) { p.speakerID = id }
}

// Provider implements tts.Provider backed by a Coqui TTS server. It is safe
// for concurrent use.
type Provider struct {
	serverURL  string
	speakerID  string
	httpClient *http.Client
}

// New creates a Provider that targets the Coqui TTS server at serverURL
// (e.g. "http://localhost:5002"). serverURL must be non-empty.
func New(serverURL string, opts ...Option) (*Provider, error) {
	if serverURL == "" {
		return nil, errors.New("coqui: serverURL must not be empty")
	}
	p := &Provider{
		serverURL:  strings.TrimRight(serverURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// SynthesizeFile performs a single GET /api/tts request and writes the WAV
// response to outPath.
func (p *Provider) SynthesizeFile(ctx context.Context, text, lang, outPath string) error {
	if text == "" {
		return errors.New("coqui: text must not be empty")
	}

	params := url.Values{}
	params.Set("text", text)
	if p.speakerID != "" {
		params.Set("speaker_id", p.speakerID)
	}
	if lang != "" {
		params.Set("language_id", lang)
	}

	reqURL := p.serverURL + apiTTSEndpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("coqui: create tts request: %w", err)
	}
	req.Header.Set("Accept", "audio/wav")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("coqui: GET %s: %w", apiTTSEndpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("coqui: GET %s returned status %d", apiTTSEndpoint, resp.StatusCode)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("coqui: create output %q: %w", outPath, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("coqui: write output %q: %w", outPath, err)
	}
	return nil
}
