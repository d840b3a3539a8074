// Package mock provides a test double for the tts.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/bharatml/codemix/pkg/provider/tts"
)

// Call records a single invocation of SynthesizeFile.
type Call struct {
	Text    string
	Lang    string
	OutPath string
}

// Provider is a mock implementation of tts.Provider.
type Provider struct {
	mu sync.Mutex

	// Err, if non-nil, is returned by SynthesizeFile.
	Err error

	// CallLog records every SynthesizeFile invocation in order.
	CallLog []Call
}

// Compile-time interface assertion.
var _ tts.Provider = (*Provider)(nil)

// SynthesizeFile records the call and returns Err.
func (p *Provider) SynthesizeFile(_ context.Context, text, lang, outPath string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.CallLog = append(p.CallLog, Call{Text: text, Lang: lang, OutPath: outPath})
	return p.Err
}

// Calls returns the number of SynthesizeFile calls recorded.
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.CallLog)
}
