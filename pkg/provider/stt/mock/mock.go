// Package mock provides a test double for the stt.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/bharatml/codemix/pkg/provider/stt"
)

// Provider is a mock implementation of stt.Provider.
type Provider struct {
	mu sync.Mutex

	// Text is the transcript returned by TranscribeFile.
	Text string

	// Err, if non-nil, is returned by TranscribeFile.
	Err error

	// Paths records every audio path passed to TranscribeFile, in order.
	Paths []string
}

// Compile-time interface assertion.
var _ stt.Provider = (*Provider)(nil)

// TranscribeFile records the call and returns Text, Err.
func (p *Provider) TranscribeFile(_ context.Context, audioPath string) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.Paths = append(p.Paths, audioPath)
	if p.Err != nil {
		return "", p.Err
	}
	return p.Text, nil
}

// Calls returns the number of TranscribeFile calls recorded.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Paths)
}
