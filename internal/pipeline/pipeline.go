// Package pipeline orchestrates the code-mix translation flow: script and
// language detection, slang normalization, glossary pre-pass, route
// selection, transliteration and/or neural translation, glossary post-pass,
// and confidence scoring.
//
// Translate never fails for operational reasons. Model loading or inference
// errors degrade the translation text to ErrorSentinel with a confidence of
// 0.0; the only error Translate itself returns is an invalid target
// language, which is a caller bug rather than a runtime condition.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bharatml/codemix/internal/confidence"
	"github.com/bharatml/codemix/internal/glossary"
	"github.com/bharatml/codemix/internal/langid"
	"github.com/bharatml/codemix/internal/modelcache"
	"github.com/bharatml/codemix/internal/normalize"
	"github.com/bharatml/codemix/internal/observe"
	"github.com/bharatml/codemix/internal/translit"
)

// ErrorSentinel is the translation text reported when model loading or
// inference fails. Kept stable because callers and downstream tooling match
// on it.
const ErrorSentinel = "Error in translation"

// defaultGenerateTimeout bounds a single model inference call when the
// configuration does not set one.
const defaultGenerateTimeout = 30 * time.Second

// ErrInvalidTarget is returned when the requested target language is not
// Hindi or English.
var ErrInvalidTarget = errors.New("pipeline: target language must be Hindi or English")

// ModelIDs names the translation models used by each routing direction.
type ModelIDs struct {
	// EnHi is the English→Hindi model identifier.
	EnHi string

	// HiEn is the Hindi→English model identifier.
	HiEn string
}

// Config carries pipeline tunables.
type Config struct {
	Models ModelIDs

	// GenerateTimeout bounds a single inference call. Zero means
	// defaultGenerateTimeout.
	GenerateTimeout time.Duration
}

// Deps bundles the pipeline's collaborators. Detector, Normalizer,
// Transliterator, and Glossary may be nil, in which case zero-value or
// empty defaults are used. Models must be set; Scorer and Metrics are
// optional.
type Deps struct {
	Detector       *langid.Detector
	Normalizer     *normalize.Normalizer
	Transliterator *translit.Transliterator
	Glossary       *glossary.Glossary
	Models         *modelcache.Cache
	Scorer         *confidence.Scorer
	Metrics        *observe.Metrics
}

// Result is the outcome of one translation call.
type Result struct {
	// Original is the input text exactly as received.
	Original string `json:"original"`

	// Normalized is the text actually submitted to the selected model (or
	// passed through on identity routes): slang-normalized and, on
	// transliterating routes, converted to Devanagari.
	Normalized string `json:"normalized"`

	// Translation is the final output text, or ErrorSentinel when the
	// model path failed.
	Translation string `json:"translation"`

	// Confidence is the semantic similarity score in [0, 1]; 0.0 when
	// scoring was unavailable or the translation failed.
	Confidence float64 `json:"confidence"`

	// Route is the routing decision taken for this call.
	Route Route `json:"route"`

	// Logs records per-stage intermediate output in execution order.
	Logs *StepLog `json:"logs"`
}

// LowConfidence reports whether the result falls below the display
// threshold.
func (r *Result) LowConfidence() bool {
	return r.Confidence < confidence.LowThreshold
}

// Failed reports whether the model path produced the error sentinel.
func (r *Result) Failed() bool {
	return r.Translation == ErrorSentinel
}

// Pipeline is the translation orchestrator. It is safe for concurrent use;
// all per-call state lives in the Result.
type Pipeline struct {
	detector       *langid.Detector
	normalizer     *normalize.Normalizer
	transliterator *translit.Transliterator
	glossary       *glossary.Glossary
	models         *modelcache.Cache
	scorer         *confidence.Scorer
	metrics        *observe.Metrics
	cfg            Config
}

// New assembles a Pipeline from deps and cfg.
func New(deps Deps, cfg Config) *Pipeline {
	if deps.Detector == nil {
		deps.Detector = langid.NewDetector()
	}
	if deps.Normalizer == nil {
		deps.Normalizer = normalize.NewWithMap(nil)
	}
	if deps.Transliterator == nil {
		deps.Transliterator = translit.New()
	}
	if deps.Glossary == nil {
		deps.Glossary = glossary.NewWithEntries(nil)
	}
	if cfg.GenerateTimeout <= 0 {
		cfg.GenerateTimeout = defaultGenerateTimeout
	}
	return &Pipeline{
		detector:       deps.Detector,
		normalizer:     deps.Normalizer,
		transliterator: deps.Transliterator,
		glossary:       deps.Glossary,
		models:         deps.Models,
		scorer:         deps.Scorer,
		metrics:        deps.Metrics,
		cfg:            cfg,
	}
}

// Translate runs the full pipeline on text toward target. target must be
// Hindi or English.
func (p *Pipeline) Translate(ctx context.Context, text string, target langid.Language) (*Result, error) {
	if target != langid.LangHindi && target != langid.LangEnglish {
		return nil, fmt.Errorf("%w: got %q", ErrInvalidTarget, target)
	}

	start := time.Now()
	logs := NewStepLog()

	det := p.detector.Detect(text)
	logs.Add(StepDetectedScript, string(det.Script))
	logs.Add(StepDetectedLang, string(det.Language))

	// Slang normalization only makes sense on Latin-script input; Devanagari
	// text passes through untouched.
	normalized := text
	if det.Script == langid.ScriptLatin {
		normalized = p.normalizer.NormalizeSlang(text)
		logs.Add(StepSlangNormalized, normalized)
	}

	normalized, _ = p.glossary.ApplyPre(normalized)

	decision := Decide(det, target)
	slog.Debug("route selected",
		"route", decision.Route,
		"direction", decision.Direction,
		"script", det.Script,
		"lang", det.Language,
		"target", target)

	var translation string
	switch decision.Route {
	case RouteTranslate:
		translation = p.generate(ctx, decision.Direction, normalized, logs)

	case RouteTransliterate:
		normalized = p.transliterator.ToDevanagari(normalized)
		logs.Add(StepTransliteration, normalized)
		translation = normalized
		logs.Add(StepRawTranslation, translation)

	case RouteTransliterateTranslate:
		normalized = p.transliterator.ToDevanagari(normalized)
		logs.Add(StepTransliteration, normalized)
		translation = p.generate(ctx, decision.Direction, normalized, logs)

	default:
		translation = normalized
		logs.Add(StepRawTranslation, translation)
	}

	// The glossary post-pass matches terms against the ORIGINAL input: the
	// model output no longer contains the source-language terms the
	// glossary keys on.
	translation = p.glossary.ApplyPost(translation, text)
	logs.Add(StepGlossaryApplied, translation)

	var score float64
	if p.scorer != nil && translation != ErrorSentinel {
		score = p.scorer.Score(ctx, text, translation)
	}

	res := &Result{
		Original:    text,
		Normalized:  normalized,
		Translation: translation,
		Confidence:  score,
		Route:       decision.Route,
		Logs:        logs,
	}

	if p.metrics != nil {
		p.metrics.RecordTranslate(ctx, string(decision.Route), time.Since(start))
		if res.LowConfidence() {
			p.metrics.RecordLowConfidence(ctx)
		}
	}
	return res, nil
}

// generate resolves the model for direction and runs inference on text,
// recording the raw output. Any failure along the way degrades to the
// error sentinel.
func (p *Pipeline) generate(ctx context.Context, dir Direction, text string, logs *StepLog) string {
	modelID := p.modelID(dir)
	if modelID == "" || p.models == nil {
		slog.Error("no model configured for direction", "direction", dir)
		logs.Add(StepRawTranslation, ErrorSentinel)
		return ErrorSentinel
	}

	handle, err := p.models.Get(ctx, modelID)
	if err != nil {
		logs.Add(StepRawTranslation, ErrorSentinel)
		if p.metrics != nil {
			p.metrics.RecordProviderRequest(ctx, "translation", "error")
		}
		return ErrorSentinel
	}

	genCtx, cancel := context.WithTimeout(ctx, p.cfg.GenerateTimeout)
	defer cancel()

	out, err := handle.Generate(genCtx, text)
	if err != nil {
		slog.Error("inference failed", "model", modelID, "err", err)
		logs.Add(StepRawTranslation, ErrorSentinel)
		if p.metrics != nil {
			p.metrics.RecordProviderRequest(ctx, "translation", "error")
		}
		return ErrorSentinel
	}

	logs.Add(StepRawTranslation, out)
	if p.metrics != nil {
		p.metrics.RecordProviderRequest(ctx, "translation", "ok")
	}
	return out
}

func (p *Pipeline) modelID(dir Direction) string {
	switch dir {
	case DirectionEnHi:
		return p.cfg.Models.EnHi
	case DirectionHiEn:
		return p.cfg.Models.HiEn
	}
	return ""
}
