package resilience

import (
	"context"

	"github.com/bharatml/codemix/pkg/provider/translation"
)

// TranslationFallback implements [translation.Loader] with automatic
// failover across multiple model servers. Each backend has its own circuit
// breaker; when the primary fails or its breaker is open, the next healthy
// fallback is tried.
//
// Failover covers the Load call. The returned handle stays pinned to the
// backend that served the load, which keeps a cached model talking to the
// server that actually holds it.
type TranslationFallback struct {
	group *FallbackGroup[translation.Loader]
}

// Compile-time interface assertion.
var _ translation.Loader = (*TranslationFallback)(nil)

// NewTranslationFallback creates a [TranslationFallback] with primary as the
// preferred backend.
func NewTranslationFallback(primary translation.Loader, primaryName string, cfg FallbackConfig) *TranslationFallback {
	return &TranslationFallback{
		group: NewFallbackGroup(primary, primaryName, cfg),
	}
}

// AddFallback registers an additional translation loader as a fallback.
func (f *TranslationFallback) AddFallback(name string, loader translation.Loader) {
	f.group.AddFallback(name, loader)
}

// Load asks the first healthy backend to load modelID and returns its
// handle. If the primary fails, subsequent fallbacks are tried in order.
func (f *TranslationFallback) Load(ctx context.Context, modelID string) (translation.Handle, error) {
	return ExecuteWithResult(f.group, func(l translation.Loader) (translation.Handle, error) {
		return l.Load(ctx, modelID)
	})
}
