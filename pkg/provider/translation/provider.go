// Package translation defines the Loader and Handle interfaces for neural
// translation backends.
//
// A translation backend hosts one or more pretrained translation models
// (e.g., the Helsinki-NLP OPUS-MT family) addressed by a model identifier
// string such as "Helsinki-NLP/opus-mt-en-hi". Loading a model may be
// expensive — the backend might have to pull weights into memory — which is
// why loading and generation are split: the orchestrator memoizes handles
// per identifier and only ever loads a given model once per process.
//
// Implementations must be safe for concurrent use. A Handle, once returned,
// is treated as immutable and may be shared for inference across concurrent
// callers.
package translation

import "context"

// Handle is a loaded translation model, bound to a single model identifier.
type Handle interface {
	// Generate translates text with this model and returns the decoded
	// output. Returns an error if the backend call fails or ctx is
	// cancelled; callers decide the fallback policy.
	Generate(ctx context.Context, text string) (string, error)

	// ModelID returns the identifier this handle was loaded for.
	ModelID() string
}

// Loader resolves model identifiers to ready-to-use handles.
type Loader interface {
	// Load makes the model identified by modelID available for generation
	// and returns its Handle. Load may be slow on first call for a given
	// identifier; callers that need at-most-once loading should go through
	// a memoizing cache rather than calling Load directly per request.
	Load(ctx context.Context, modelID string) (Handle, error)
}
