package pipeline_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/bharatml/codemix/internal/confidence"
	"github.com/bharatml/codemix/internal/glossary"
	"github.com/bharatml/codemix/internal/langid"
	"github.com/bharatml/codemix/internal/modelcache"
	"github.com/bharatml/codemix/internal/pipeline"
	embmock "github.com/bharatml/codemix/pkg/provider/embeddings/mock"
	trmock "github.com/bharatml/codemix/pkg/provider/translation/mock"
)

const (
	modelEnHi = "Helsinki-NLP/opus-mt-en-hi"
	modelHiEn = "Helsinki-NLP/opus-mt-hi-en"
)

func newTestPipeline(loader *trmock.Loader) *pipeline.Pipeline {
	return pipeline.New(pipeline.Deps{
		Models: modelcache.New(loader, nil),
	}, pipeline.Config{
		Models: pipeline.ModelIDs{EnHi: modelEnHi, HiEn: modelHiEn},
	})
}

func TestTranslate_HinglishToHindiNeverTouchesAModel(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{}
	p := newTestPipeline(loader)

	res, err := p.Translate(context.Background(), "Main aaj bahut happy hoon", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Route != pipeline.RouteTransliterate {
		t.Errorf("Route = %q, want %q", res.Route, pipeline.RouteTransliterate)
	}
	if loader.LoadCount("") != 0 {
		t.Errorf("model loaded %d times on transliterate route, want 0", loader.LoadCount(""))
	}
	if loader.GenerateCount() != 0 {
		t.Errorf("model invoked %d times on transliterate route, want 0", loader.GenerateCount())
	}

	translit, ok := res.Logs.Get(pipeline.StepTransliteration)
	if !ok {
		t.Fatal("transliteration step missing from log")
	}
	raw, ok := res.Logs.Get(pipeline.StepRawTranslation)
	if !ok {
		t.Fatal("raw_translation step missing from log")
	}
	if raw != translit {
		t.Errorf("raw_translation %q differs from transliteration %q", raw, translit)
	}
	if res.Translation != translit {
		t.Errorf("Translation = %q, want the transliteration %q", res.Translation, translit)
	}
	if !strings.ContainsRune(res.Translation, 'ह') {
		t.Errorf("Translation %q contains no Devanagari", res.Translation)
	}
}

func TestTranslate_EnglishToHindiSelectsEnHiModel(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{
		GenerateFunc: func(modelID, text string) (string, error) {
			return "कोड-मिक्स को संभालना काफी कठिन है।", nil
		},
	}
	p := newTestPipeline(loader)

	res, err := p.Translate(context.Background(), "Code-mix is quite difficult to handle.", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Route != pipeline.RouteTranslate {
		t.Errorf("Route = %q, want %q", res.Route, pipeline.RouteTranslate)
	}
	if n := loader.LoadCount(modelEnHi); n != 1 {
		t.Errorf("en-hi model loaded %d times, want 1", n)
	}
	if n := loader.LoadCount(modelHiEn); n != 0 {
		t.Errorf("hi-en model loaded %d times, want 0", n)
	}
	if res.Translation != "कोड-मिक्स को संभालना काफी कठिन है।" {
		t.Errorf("Translation = %q", res.Translation)
	}
	if _, ok := res.Logs.Get(pipeline.StepTransliteration); ok {
		t.Error("transliteration step recorded on a plain translate route")
	}
}

func TestTranslate_HinglishToEnglishTransliteratesThenTranslates(t *testing.T) {
	t.Parallel()
	var modelInput string
	loader := &trmock.Loader{
		GenerateFunc: func(modelID, text string) (string, error) {
			modelInput = text
			return "I am very happy today", nil
		},
	}
	p := newTestPipeline(loader)

	res, err := p.Translate(context.Background(), "main aaj bahut khush hoon", langid.LangEnglish)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Route != pipeline.RouteTransliterateTranslate {
		t.Errorf("Route = %q, want %q", res.Route, pipeline.RouteTransliterateTranslate)
	}
	if n := loader.LoadCount(modelHiEn); n != 1 {
		t.Errorf("hi-en model loaded %d times, want 1", n)
	}

	translit, _ := res.Logs.Get(pipeline.StepTransliteration)
	if modelInput != translit {
		t.Errorf("model received %q, want the transliteration %q", modelInput, translit)
	}
	if res.Normalized != translit {
		t.Errorf("Normalized = %q, want model input %q", res.Normalized, translit)
	}
	if res.Translation != "I am very happy today" {
		t.Errorf("Translation = %q", res.Translation)
	}
}

func TestTranslate_DevanagariToEnglish(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{
		GenerateFunc: func(modelID, text string) (string, error) {
			return "I am very happy today", nil
		},
	}
	p := newTestPipeline(loader)

	res, err := p.Translate(context.Background(), "मैं आज बहुत खुश हूँ", langid.LangEnglish)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Route != pipeline.RouteTranslate {
		t.Errorf("Route = %q, want %q", res.Route, pipeline.RouteTranslate)
	}
	if n := loader.LoadCount(modelHiEn); n != 1 {
		t.Errorf("hi-en model loaded %d times, want 1", n)
	}
	// Devanagari input is never slang-normalized.
	if _, ok := res.Logs.Get(pipeline.StepSlangNormalized); ok {
		t.Error("slang_normalized step recorded for Devanagari input")
	}
	if res.Normalized != "मैं आज बहुत खुश हूँ" {
		t.Errorf("Normalized = %q, want input unchanged", res.Normalized)
	}
}

func TestTranslate_IdentityRoutePassesThrough(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{}
	p := newTestPipeline(loader)

	res, err := p.Translate(context.Background(), "मैं आज बहुत खुश हूँ", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Route != pipeline.RouteIdentity {
		t.Errorf("Route = %q, want %q", res.Route, pipeline.RouteIdentity)
	}
	if res.Translation != "मैं आज बहुत खुश हूँ" {
		t.Errorf("Translation = %q, want input unchanged", res.Translation)
	}
	if loader.LoadCount("") != 0 {
		t.Error("identity route loaded a model")
	}
}

func TestTranslate_SlangNormalizedBeforeRouting(t *testing.T) {
	t.Parallel()
	var modelInput string
	loader := &trmock.Loader{
		GenerateFunc: func(modelID, text string) (string, error) {
			modelInput = text
			return "ok", nil
		},
	}
	p := newTestPipeline(loader)

	// "prof" is in the default slang map; the sentence is function-word
	// heavy, so it classifies as English and goes to the en-hi model.
	res, err := p.Translate(context.Background(), "The prof is at it and we have to do this", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	norm, ok := res.Logs.Get(pipeline.StepSlangNormalized)
	if !ok {
		t.Fatal("slang_normalized step missing")
	}
	if !strings.Contains(norm, "professor") {
		t.Errorf("slang_normalized = %q, want prof expanded to professor", norm)
	}
	if modelInput != norm {
		t.Errorf("model received %q, want the normalized text %q", modelInput, norm)
	}
}

func TestTranslate_ModelLoadFailureYieldsSentinel(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{LoadErr: errors.New("server down")}
	p := newTestPipeline(loader)

	res, err := p.Translate(context.Background(), "Code-mix is quite difficult to handle.", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate returned error for operational failure: %v", err)
	}
	if res.Translation != pipeline.ErrorSentinel {
		t.Errorf("Translation = %q, want %q", res.Translation, pipeline.ErrorSentinel)
	}
	if !res.Failed() {
		t.Error("Failed() = false, want true")
	}
	if res.Confidence != 0.0 {
		t.Errorf("Confidence = %v, want 0.0 on failure", res.Confidence)
	}
	if raw, _ := res.Logs.Get(pipeline.StepRawTranslation); raw != pipeline.ErrorSentinel {
		t.Errorf("raw_translation = %q, want sentinel", raw)
	}
}

func TestTranslate_InferenceFailureYieldsSentinel(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{
		GenerateFunc: func(modelID, text string) (string, error) {
			return "", errors.New("OOM")
		},
	}
	p := newTestPipeline(loader)

	res, err := p.Translate(context.Background(), "Code-mix is quite difficult to handle.", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Translation != pipeline.ErrorSentinel {
		t.Errorf("Translation = %q, want %q", res.Translation, pipeline.ErrorSentinel)
	}
}

func TestTranslate_InvalidTargetIsAnError(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(&trmock.Loader{})
	if _, err := p.Translate(context.Background(), "hello", langid.LangHinglish); !errors.Is(err, pipeline.ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
	if _, err := p.Translate(context.Background(), "hello", langid.Language("Klingon")); !errors.Is(err, pipeline.ErrInvalidTarget) {
		t.Errorf("err = %v, want ErrInvalidTarget", err)
	}
}

func TestTranslate_GlossaryPostPassUsesOriginalText(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{
		GenerateFunc: func(modelID, text string) (string, error) {
			return "some output", nil
		},
	}
	g := glossary.NewWithEntries([]glossary.Entry{{Source: "Bank", Target: "Bank"}})
	p := pipeline.New(pipeline.Deps{
		Glossary: g,
		Models:   modelcache.New(loader, nil),
	}, pipeline.Config{Models: pipeline.ModelIDs{EnHi: modelEnHi, HiEn: modelHiEn}})

	res, err := p.Translate(context.Background(), "I went to the Bank today", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if _, ok := res.Logs.Get(pipeline.StepGlossaryApplied); !ok {
		t.Error("glossary_applied step missing")
	}
	// Identity glossary terms never alter the model output.
	if res.Translation != "some output" {
		t.Errorf("Translation = %q, want model output unchanged", res.Translation)
	}
}

func TestTranslate_ConfidenceScoredOnSuccess(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{
		GenerateFunc: func(modelID, text string) (string, error) {
			return "output", nil
		},
	}
	emb := &embmock.Provider{BatchResult: [][]float32{{1, 0}, {1, 0}}}
	p := pipeline.New(pipeline.Deps{
		Models: modelcache.New(loader, nil),
		Scorer: confidence.New(emb, nil),
	}, pipeline.Config{Models: pipeline.ModelIDs{EnHi: modelEnHi, HiEn: modelHiEn}})

	res, err := p.Translate(context.Background(), "Code-mix is quite difficult to handle.", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if res.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", res.Confidence)
	}
	if res.LowConfidence() {
		t.Error("LowConfidence() = true for score 1.0")
	}
	if emb.BatchCount() != 1 {
		t.Errorf("embeddings called %d times, want 1", emb.BatchCount())
	}
}

func TestTranslate_StepLogOrderAndJSON(t *testing.T) {
	t.Parallel()
	p := newTestPipeline(&trmock.Loader{})

	res, err := p.Translate(context.Background(), "main aaj bahut khush hoon", langid.LangHindi)
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}

	var names []string
	for _, s := range res.Logs.Steps() {
		names = append(names, s.Name)
	}
	want := []string{
		pipeline.StepDetectedScript,
		pipeline.StepDetectedLang,
		pipeline.StepSlangNormalized,
		pipeline.StepTransliteration,
		pipeline.StepRawTranslation,
		pipeline.StepGlossaryApplied,
	}
	if len(names) != len(want) {
		t.Fatalf("step names = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("step %d = %q, want %q", i, names[i], want[i])
		}
	}

	data, err := json.Marshal(res.Logs)
	if err != nil {
		t.Fatalf("marshal step log: %v", err)
	}
	// Keys must appear in execution order, not alphabetical order.
	if di, ri := strings.Index(string(data), pipeline.StepDetectedScript), strings.Index(string(data), pipeline.StepRawTranslation); di > ri {
		t.Errorf("JSON keys out of execution order: %s", data)
	}
}

func TestTranslate_ModelHandleReusedAcrossCalls(t *testing.T) {
	t.Parallel()
	loader := &trmock.Loader{
		GenerateFunc: func(modelID, text string) (string, error) {
			return "out", nil
		},
	}
	p := newTestPipeline(loader)

	for range 3 {
		if _, err := p.Translate(context.Background(), "Code-mix is quite difficult to handle.", langid.LangHindi); err != nil {
			t.Fatalf("Translate: %v", err)
		}
	}
	if n := loader.LoadCount(modelEnHi); n != 1 {
		t.Errorf("model loaded %d times across 3 calls, want 1", n)
	}
	if n := loader.GenerateCount(); n != 3 {
		t.Errorf("Generate called %d times, want 3", n)
	}
}
