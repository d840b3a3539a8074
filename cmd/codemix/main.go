// Command codemix is the entry point for the code-mix translation pipeline:
// one-shot text or voice translation from the command line, or an HTTP
// server exposing the pipeline.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bharatml/codemix/internal/confidence"
	"github.com/bharatml/codemix/internal/config"
	"github.com/bharatml/codemix/internal/glossary"
	"github.com/bharatml/codemix/internal/health"
	"github.com/bharatml/codemix/internal/langid"
	"github.com/bharatml/codemix/internal/modelcache"
	"github.com/bharatml/codemix/internal/normalize"
	"github.com/bharatml/codemix/internal/observe"
	"github.com/bharatml/codemix/internal/pipeline"
	"github.com/bharatml/codemix/internal/resilience"
	"github.com/bharatml/codemix/internal/server"
	"github.com/bharatml/codemix/internal/speech"
	"github.com/bharatml/codemix/internal/translit"
	"github.com/bharatml/codemix/pkg/provider/embeddings"
	ollamaembed "github.com/bharatml/codemix/pkg/provider/embeddings/ollama"
	oaembed "github.com/bharatml/codemix/pkg/provider/embeddings/openai"
	"github.com/bharatml/codemix/pkg/provider/stt"
	"github.com/bharatml/codemix/pkg/provider/stt/whisper"
	"github.com/bharatml/codemix/pkg/provider/translation"
	"github.com/bharatml/codemix/pkg/provider/translation/marian"
	trmock "github.com/bharatml/codemix/pkg/provider/translation/mock"
	"github.com/bharatml/codemix/pkg/provider/tts"
	"github.com/bharatml/codemix/pkg/provider/tts/coqui"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	text := flag.String("text", "", "translate this text and print the result as JSON")
	audio := flag.String("audio", "", "transcribe and translate this WAV file")
	target := flag.String("target", "Hindi", "target language: Hindi or English")
	speak := flag.String("speak", "", "write the spoken translation to this WAV file (voice mode)")
	serve := flag.Bool("serve", false, "run the HTTP server")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("config file not found, using defaults", "path", *configPath)
			cfg = config.Default()
		} else {
			fmt.Fprintf(os.Stderr, "codemix: %v\n", err)
			return 1
		}
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	slog.SetDefault(newLogger(cfg.Server.LogLevel))

	// ── Provider registry ─────────────────────────────────────────────────────
	reg := config.NewRegistry()
	registerBuiltinProviders(reg, cfg)

	providers, err := buildProviders(cfg, reg)
	if err != nil {
		slog.Error("failed to build providers", "err", err)
		return 1
	}

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Metrics ───────────────────────────────────────────────────────────────
	var metrics *observe.Metrics
	if *serve {
		shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{ServiceName: "codemix"})
		if err != nil {
			slog.Error("failed to initialise metrics", "err", err)
			return 1
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				slog.Warn("metrics shutdown error", "err", err)
			}
		}()
		metrics = observe.DefaultMetrics()
	}

	// ── Pipeline assembly ─────────────────────────────────────────────────────
	var scorer *confidence.Scorer
	if providers.Embeddings != nil {
		scorer = confidence.New(providers.Embeddings, metrics)
	}

	models := modelcache.New(providers.Translation, metrics)
	p := pipeline.New(pipeline.Deps{
		Detector:       langid.NewDetector(),
		Normalizer:     normalize.New(cfg.Resources.SlangMap),
		Transliterator: translit.New(),
		Glossary:       glossary.New(cfg.Resources.Glossary),
		Models:         models,
		Scorer:         scorer,
		Metrics:        metrics,
	}, pipeline.Config{
		Models: pipeline.ModelIDs{
			EnHi: cfg.Models.EnHi,
			HiEn: cfg.Models.HiEn,
		},
		GenerateTimeout: cfg.Models.GenerateTimeout.Std(),
	})

	switch {
	case *text != "":
		return runText(ctx, p, *text, langid.Language(*target))

	case *audio != "":
		front := speech.New(p, providers.STT, providers.TTS)
		return runAudio(ctx, front, *audio, langid.Language(*target), *speak)

	case *serve:
		printStartupSummary(cfg)
		srv := server.New(cfg.Server.ListenAddr, p, metrics, health.Checker{
			Name: "translation",
			Check: func(context.Context) error {
				if providers.Translation == nil {
					return errors.New("no translation provider configured")
				}
				return nil
			},
		})
		slog.Info("server ready — press Ctrl+C to shut down")
		if err := srv.ListenAndServe(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("server error", "err", err)
			return 1
		}
		slog.Info("goodbye")
		return 0

	default:
		flag.Usage()
		return 2
	}
}

// runText translates a single input and prints the result as indented JSON.
func runText(ctx context.Context, p *pipeline.Pipeline, text string, target langid.Language) int {
	res, err := p.Translate(ctx, text, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "codemix: %v\n", err)
		return 1
	}
	return printJSON(res)
}

// runAudio transcribes a WAV file, translates the transcript, and optionally
// speaks the translation.
func runAudio(ctx context.Context, front *speech.Front, audioPath string, target langid.Language, speakPath string) int {
	res, err := front.TranslateAudio(ctx, audioPath, target, speakPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "codemix: %v\n", err)
		return 1
	}
	return printJSON(res)
}

func printJSON(v any) int {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "codemix: encode result: %v\n", err)
		return 1
	}
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// providerSet holds the instantiated external collaborators of the pipeline.
type providerSet struct {
	Translation translation.Loader
	Embeddings  embeddings.Provider
	STT         stt.Provider
	TTS         tts.Provider
}

// registerBuiltinProviders wires all built-in provider factories into reg.
// Each factory receives a config.ProviderEntry and constructs the provider
// from the real implementation packages.
func registerBuiltinProviders(reg *config.Registry, cfg *config.Config) {
	// ── Translation ───────────────────────────────────────────────────────────

	reg.RegisterTranslation("marian", func(entry config.ProviderEntry) (translation.Loader, error) {
		var opts []marian.Option
		if cfg.Models.UseGPU {
			opts = append(opts, marian.WithDevice("cuda"))
		}
		if timeout := cfg.Models.GenerateTimeout.Std(); timeout > 0 {
			opts = append(opts, marian.WithTimeout(timeout))
		}
		primary, err := marian.New(entry.BaseURL, opts...)
		if err != nil {
			return nil, err
		}

		// An optional second model server takes over when the primary's
		// circuit breaker opens.
		fallbackURL := optString(entry.Options, "fallback_url")
		if fallbackURL == "" {
			return primary, nil
		}
		backup, err := marian.New(fallbackURL, opts...)
		if err != nil {
			return nil, err
		}
		group := resilience.NewTranslationFallback(primary, entry.BaseURL, resilience.FallbackConfig{})
		group.AddFallback(fallbackURL, backup)
		return group, nil
	})

	// Echo loader for development and demos without a model server.
	reg.RegisterTranslation("mock", func(config.ProviderEntry) (translation.Loader, error) {
		return &trmock.Loader{}, nil
	})

	// ── Embeddings ────────────────────────────────────────────────────────────

	reg.RegisterEmbeddings("ollama", func(entry config.ProviderEntry) (embeddings.Provider, error) {
		return ollamaembed.New(entry.BaseURL, entry.Model)
	})

	reg.RegisterEmbeddings("openai", func(entry config.ProviderEntry) (embeddings.Provider, error) {
		var opts []oaembed.Option
		if entry.BaseURL != "" {
			opts = append(opts, oaembed.WithBaseURL(entry.BaseURL))
		}
		return oaembed.New(entry.APIKey, entry.Model, opts...)
	})

	// ── STT ───────────────────────────────────────────────────────────────────

	reg.RegisterSTT("whisper", func(entry config.ProviderEntry) (stt.Provider, error) {
		modelPath := entry.Model
		if modelPath == "" {
			modelPath = optString(entry.Options, "model_path")
		}
		var opts []whisper.Option
		if lang := optString(entry.Options, "language"); lang != "" {
			opts = append(opts, whisper.WithLanguage(lang))
		}
		return whisper.New(modelPath, opts...)
	})

	// ── TTS ───────────────────────────────────────────────────────────────────

	reg.RegisterTTS("coqui", func(entry config.ProviderEntry) (tts.Provider, error) {
		var opts []coqui.Option
		if speaker := optString(entry.Options, "speaker_id"); speaker != "" {
			opts = append(opts, coqui.WithSpeaker(speaker))
		}
		return coqui.New(entry.BaseURL, opts...)
	})
}

// buildProviders instantiates every provider named in cfg using the registry.
func buildProviders(cfg *config.Config, reg *config.Registry) (*providerSet, error) {
	ps := &providerSet{}

	if name := cfg.Providers.Translation.Name; name != "" {
		p, err := reg.CreateTranslation(cfg.Providers.Translation)
		if err != nil {
			return nil, fmt.Errorf("create translation provider %q: %w", name, err)
		}
		ps.Translation = p
		slog.Info("provider created", "kind", "translation", "name", name)
	}

	if name := cfg.Providers.Embeddings.Name; name != "" {
		p, err := reg.CreateEmbeddings(cfg.Providers.Embeddings)
		if err != nil {
			return nil, fmt.Errorf("create embeddings provider %q: %w", name, err)
		}
		ps.Embeddings = p
		slog.Info("provider created", "kind", "embeddings", "name", name)
	}

	if name := cfg.Providers.STT.Name; name != "" {
		p, err := reg.CreateSTT(cfg.Providers.STT)
		if err != nil {
			return nil, fmt.Errorf("create stt provider %q: %w", name, err)
		}
		ps.STT = p
		slog.Info("provider created", "kind", "stt", "name", name)
	}

	if name := cfg.Providers.TTS.Name; name != "" {
		p, err := reg.CreateTTS(cfg.Providers.TTS)
		if err != nil {
			return nil, fmt.Errorf("create tts provider %q: %w", name, err)
		}
		ps.TTS = p
		slog.Info("provider created", "kind", "tts", "name", name)
	}

	return ps, nil
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        codemix — startup summary      ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printLine("EN→HI model", cfg.Models.EnHi)
	printLine("HI→EN model", cfg.Models.HiEn)
	printProvider("Translation", cfg.Providers.Translation.Name, cfg.Providers.Translation.Model)
	printProvider("Embeddings", cfg.Providers.Embeddings.Name, cfg.Providers.Embeddings.Model)
	printProvider("STT", cfg.Providers.STT.Name, cfg.Providers.STT.Model)
	printProvider("TTS", cfg.Providers.TTS.Name, cfg.Providers.TTS.Model)
	printLine("Listen addr", cfg.Server.ListenAddr)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printProvider(kind, name, model string) {
	value := name
	if value == "" {
		value = "(not configured)"
	} else if model != "" {
		value = name + " / " + model
	}
	printLine(kind, value)
}

func printLine(kind, value string) {
	if len([]rune(value)) > 19 {
		value = string([]rune(value)[:16]) + "…"
	}
	fmt.Printf("║  %-14s : %-19s ║\n", kind, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// optString extracts a string value from a provider Options map[string]any.
// Returns "" if the map is nil, the key is absent, or the value is not a
// string.
func optString(opts map[string]any, key string) string {
	if opts == nil {
		return ""
	}
	v, ok := opts[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
