// Package tts defines the text-to-speech provider interface used by the
// speech front-end. Implementations live in subpackages (coqui, mock).
package tts

import "context"

// Provider renders text to an audio file. Implementations must be safe for
// concurrent use.
type Provider interface {
	// SynthesizeFile renders text in the given BCP-47 language ("hi", "en")
	// and writes the resulting WAV audio to outPath, overwriting any
	// existing file.
	SynthesizeFile(ctx context.Context, text, lang, outPath string) error
}
