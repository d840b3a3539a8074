// Package speech is the voice front-end of the translation pipeline: it
// transcribes a recorded audio file, runs the text pipeline on the
// transcript, and optionally speaks the translation back out.
package speech

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bharatml/codemix/internal/langid"
	"github.com/bharatml/codemix/internal/pipeline"
	"github.com/bharatml/codemix/pkg/provider/stt"
	"github.com/bharatml/codemix/pkg/provider/tts"
)

// ErrNoSTT is returned by TranslateAudio when no speech-to-text provider is
// configured.
var ErrNoSTT = errors.New("speech: no speech-to-text provider configured")

// Front couples the text pipeline with speech providers. The TTS provider
// is optional; without one, TranslateAudio only returns text.
type Front struct {
	pipeline *pipeline.Pipeline
	stt      stt.Provider
	tts      tts.Provider
}

// New assembles a Front. p and sttProvider are required for TranslateAudio;
// ttsProvider may be nil to disable spoken output.
func New(p *pipeline.Pipeline, sttProvider stt.Provider, ttsProvider tts.Provider) *Front {
	return &Front{pipeline: p, stt: sttProvider, tts: ttsProvider}
}

// AudioResult is the outcome of a voice translation: the transcript that
// went into the pipeline plus the pipeline result.
type AudioResult struct {
	// Transcript is the raw speech-to-text output fed to the pipeline.
	Transcript string `json:"transcript"`

	// Result is the text pipeline outcome for the transcript.
	Result *pipeline.Result `json:"result"`

	// SpokenPath is the audio file holding the synthesized translation.
	// Empty when synthesis was disabled or skipped.
	SpokenPath string `json:"spoken_path,omitempty"`
}

// TranslateAudio transcribes the audio file at audioPath, translates the
// transcript toward target, and, when speakPath is non-empty and a TTS
// provider is configured, synthesizes the translation to that file.
//
// Transcription errors (including a missing input file) are returned to the
// caller; translation failures follow the pipeline's own degrade-don't-fail
// contract. A failed synthesis is logged and leaves SpokenPath empty rather
// than discarding the finished translation.
func (f *Front) TranslateAudio(ctx context.Context, audioPath string, target langid.Language, speakPath string) (*AudioResult, error) {
	if f.stt == nil {
		return nil, ErrNoSTT
	}

	transcript, err := f.stt.TranscribeFile(ctx, audioPath)
	if err != nil {
		return nil, fmt.Errorf("speech: transcribe %q: %w", audioPath, err)
	}
	slog.Info("transcribed audio", "path", audioPath, "chars", len(transcript))

	res, err := f.pipeline.Translate(ctx, transcript, target)
	if err != nil {
		return nil, err
	}

	out := &AudioResult{Transcript: transcript, Result: res}

	if speakPath != "" && f.tts != nil && !res.Failed() {
		lang := speechLang(target)
		if err := f.tts.SynthesizeFile(ctx, res.Translation, lang, speakPath); err != nil {
			slog.Error("speech synthesis failed", "path", speakPath, "err", err)
		} else {
			out.SpokenPath = speakPath
		}
	}
	return out, nil
}

// speechLang maps a target language onto the BCP-47 code the TTS server
// expects.
func speechLang(target langid.Language) string {
	if target == langid.LangHindi {
		return "hi"
	}
	return "en"
}
