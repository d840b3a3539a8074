// Package mock provides test doubles for the translation.Loader and
// translation.Handle interfaces.
//
// Use Loader to serve pre-canned translations without a live model server
// and to count how often models are loaded and invoked:
//
//	l := &mock.Loader{
//	    GenerateFunc: func(modelID, text string) (string, error) {
//	        return "[" + modelID + "] " + text, nil
//	    },
//	}
//	h, _ := l.Load(ctx, "Helsinki-NLP/opus-mt-en-hi")
//	out, _ := h.Generate(ctx, "hello")
package mock

import (
	"context"
	"sync"

	"github.com/bharatml/codemix/pkg/provider/translation"
)

// LoadCall records a single invocation of Load.
type LoadCall struct {
	// Ctx is the context passed to Load.
	Ctx context.Context
	// ModelID is the identifier passed to Load.
	ModelID string
}

// GenerateCall records a single invocation of Generate on any handle created
// by the Loader.
type GenerateCall struct {
	// ModelID is the identifier of the handle that was invoked.
	ModelID string
	// Text is the input passed to Generate.
	Text string
}

// Loader is a mock implementation of translation.Loader.
type Loader struct {
	mu sync.Mutex

	// LoadErr, if non-nil, is returned by every Load call.
	LoadErr error

	// LoadDelay, if set, is invoked inside Load before returning. Tests use
	// it to hold concurrent loads open and observe single-flight behaviour.
	LoadDelay func()

	// GenerateFunc computes the translation returned by handles. When nil,
	// Generate echoes the input text.
	GenerateFunc func(modelID, text string) (string, error)

	// LoadCalls records every call to Load in order.
	LoadCalls []LoadCall

	// GenerateCalls records every Generate call across all handles.
	GenerateCalls []GenerateCall
}

var _ translation.Loader = (*Loader)(nil)

// Load records the call and returns a handle bound to modelID, or LoadErr.
func (l *Loader) Load(ctx context.Context, modelID string) (translation.Handle, error) {
	l.mu.Lock()
	l.LoadCalls = append(l.LoadCalls, LoadCall{Ctx: ctx, ModelID: modelID})
	delay := l.LoadDelay
	err := l.LoadErr
	l.mu.Unlock()

	if delay != nil {
		delay()
	}
	if err != nil {
		return nil, err
	}
	return &handle{loader: l, modelID: modelID}, nil
}

// LoadCount returns the number of Load calls recorded for modelID, or the
// total across all identifiers when modelID is empty.
func (l *Loader) LoadCount(modelID string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if modelID == "" {
		return len(l.LoadCalls)
	}
	var n int
	for _, c := range l.LoadCalls {
		if c.ModelID == modelID {
			n++
		}
	}
	return n
}

// GenerateCount returns the total number of Generate calls across all
// handles created by this Loader.
func (l *Loader) GenerateCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.GenerateCalls)
}

// Reset clears all recorded calls.
func (l *Loader) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.LoadCalls = nil
	l.GenerateCalls = nil
}

type handle struct {
	loader  *Loader
	modelID string
}

var _ translation.Handle = (*handle)(nil)

func (h *handle) ModelID() string { return h.modelID }

// Generate records the call and delegates to the Loader's GenerateFunc,
// defaulting to echoing the input.
func (h *handle) Generate(_ context.Context, text string) (string, error) {
	h.loader.mu.Lock()
	h.loader.GenerateCalls = append(h.loader.GenerateCalls, GenerateCall{ModelID: h.modelID, Text: text})
	fn := h.loader.GenerateFunc
	h.loader.mu.Unlock()

	if fn == nil {
		return text, nil
	}
	return fn(h.modelID, text)
}
