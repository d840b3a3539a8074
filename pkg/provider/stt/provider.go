// Package stt defines the speech-to-text provider interface used by the
// speech front-end. Implementations live in subpackages (whisper, mock).
package stt

import "context"

// Provider transcribes recorded audio files. Implementations must be safe
// for concurrent use.
type Provider interface {
	// TranscribeFile reads the audio file at audioPath and returns its
	// transcript. A missing file is reported with an error wrapping
	// fs.ErrNotExist.
	TranscribeFile(ctx context.Context, audioPath string) (string, error)
}
