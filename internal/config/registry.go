package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bharatml/codemix/pkg/provider/embeddings"
	"github.com/bharatml/codemix/pkg/provider/stt"
	"github.com/bharatml/codemix/pkg/provider/translation"
	"github.com/bharatml/codemix/pkg/provider/tts"
)

// ErrProviderNotRegistered is returned by Create* methods when no factory
// has been registered under the requested provider name.
var ErrProviderNotRegistered = errors.New("config: provider not registered")

// Registry maps provider names to their constructor functions for each
// provider type. It is safe for concurrent use.
type Registry struct {
	mu          sync.RWMutex
	translation map[string]func(ProviderEntry) (translation.Loader, error)
	embeddings  map[string]func(ProviderEntry) (embeddings.Provider, error)
	stt         map[string]func(ProviderEntry) (stt.Provider, error)
	tts         map[string]func(ProviderEntry) (tts.Provider, error)
}

// NewRegistry returns an empty, ready-to-use [Registry].
func NewRegistry() *Registry {
	return &Registry{
		translation: make(map[string]func(ProviderEntry) (translation.Loader, error)),
		embeddings:  make(map[string]func(ProviderEntry) (embeddings.Provider, error)),
		stt:         make(map[string]func(ProviderEntry) (stt.Provider, error)),
		tts:         make(map[string]func(ProviderEntry) (tts.Provider, error)),
	}
}

// RegisterTranslation registers a translation loader factory under name.
// Subsequent calls with the same name overwrite the previous registration.
func (r *Registry) RegisterTranslation(name string, factory func(ProviderEntry) (translation.Loader, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.translation[name] = factory
}

// RegisterEmbeddings registers an embeddings provider factory under name.
func (r *Registry) RegisterEmbeddings(name string, factory func(ProviderEntry) (embeddings.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.embeddings[name] = factory
}

// RegisterSTT registers a speech-to-text provider factory under name.
func (r *Registry) RegisterSTT(name string, factory func(ProviderEntry) (stt.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stt[name] = factory
}

// RegisterTTS registers a text-to-speech provider factory under name.
func (r *Registry) RegisterTTS(name string, factory func(ProviderEntry) (tts.Provider, error)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tts[name] = factory
}

// CreateTranslation instantiates a translation loader using the factory
// registered under entry.Name. Returns [ErrProviderNotRegistered] if no
// factory has been registered for that name.
func (r *Registry) CreateTranslation(entry ProviderEntry) (translation.Loader, error) {
	r.mu.RLock()
	factory, ok := r.translation[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: translation/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateEmbeddings instantiates an embeddings provider using the factory
// registered under entry.Name.
func (r *Registry) CreateEmbeddings(entry ProviderEntry) (embeddings.Provider, error) {
	r.mu.RLock()
	factory, ok := r.embeddings[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: embeddings/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateSTT instantiates a speech-to-text provider using the factory
// registered under entry.Name.
func (r *Registry) CreateSTT(entry ProviderEntry) (stt.Provider, error) {
	r.mu.RLock()
	factory, ok := r.stt[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: stt/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}

// CreateTTS instantiates a text-to-speech provider using the factory
// registered under entry.Name.
func (r *Registry) CreateTTS(entry ProviderEntry) (tts.Provider, error) {
	r.mu.RLock()
	factory, ok := r.tts[entry.Name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: tts/%q", ErrProviderNotRegistered, entry.Name)
	}
	return factory(entry)
}
