// Package whisper provides a speech-to-text provider backed by the
// whisper.cpp CGO bindings. The whisper.cpp static library (libwhisper.a)
// and headers (whisper.h) must be available at link time via LIBRARY_PATH
// and C_INCLUDE_PATH environment variables.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/bharatml/codemix/pkg/provider/stt"
)

const defaultLanguage = "hi"

// Compile-time interface assertion.
var _ stt.Provider = (*Provider)(nil)

// Provider implements stt.Provider using the whisper.cpp Go bindings (CGO).
// The model is loaded once at construction and shared across all calls; each
// transcription creates its own whisper context, so concurrent calls do not
// interfere.
type Provider struct {
	model    whisperlib.Model
	language string
}

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithLanguage sets the BCP-47 language code passed to whisper (e.g. "hi",
// "en"). Defaults to "hi".
func WithLanguage(lang string) Option {
	return func(p *Provider) { p.language = lang }
}

// New creates a Provider that loads the whisper.cpp model from modelPath.
// The caller must call Close when the provider is no longer needed.
func New(modelPath string, opts ...Option) (*Provider, error) {
	if modelPath == "" {
		return nil, errors.New("whisper: modelPath must not be empty")
	}
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load model %q: %w", modelPath, err)
	}

	p := &Provider{model: model, language: defaultLanguage}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Close releases the whisper model.
func (p *Provider) Close() error {
	if p.model != nil {
		return p.model.Close()
	}
	return nil
}

// TranscribeFile reads the 16-bit PCM WAV file at audioPath and returns the
// concatenated transcript text. A missing file surfaces the os.Open error,
// which wraps fs.ErrNotExist.
func (p *Provider) TranscribeFile(ctx context.Context, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("whisper: context already cancelled: %w", err)
	}

	wav, err := os.ReadFile(audioPath)
	if err != nil {
		return "", fmt.Errorf("whisper: read audio %q: %w", audioPath, err)
	}

	info, err := parseWAV(wav)
	if err != nil {
		return "", err
	}
	samples := pcmToFloat32Mono(wav[info.DataOffset:info.DataOffset+info.DataLen], info.Channels)

	// Contexts are not thread-safe; the model is. Create a fresh context per
	// transcription.
	wctx, err := p.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("whisper: create context: %w", err)
	}
	if err := wctx.SetLanguage(p.language); err != nil {
		slog.Warn("whisper: failed to set language, using default", "language", p.language, "err", err)
	}

	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("whisper: process audio: %w", err)
	}

	var parts []string
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("whisper: read segment: %w", err)
		}
		if text := strings.TrimSpace(segment.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " "), nil
}
