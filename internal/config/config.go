// Package config provides the configuration schema, loader, and provider
// registry for the codemix translation server.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Default model identifiers for the two translation directions.
const (
	DefaultModelEnHi = "Helsinki-NLP/opus-mt-en-hi"
	DefaultModelHiEn = "Helsinki-NLP/opus-mt-hi-en"
)

// LogLevel controls log verbosity for the codemix server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Duration wraps time.Duration so config fields can be written as "30s" or
// "2m" in YAML.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("config: invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Config is the root configuration structure for codemix.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Models    ModelsConfig    `yaml:"models"`
	Resources ResourcesConfig `yaml:"resources"`
	Providers ProvidersConfig `yaml:"providers"`
}

// ServerConfig holds network and logging settings for the codemix server.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`
}

// ModelsConfig names the translation models for each routing direction and
// how they are run.
type ModelsConfig struct {
	// EnHi is the English→Hindi model identifier.
	EnHi string `yaml:"en_hi"`

	// HiEn is the Hindi→English model identifier.
	HiEn string `yaml:"hi_en"`

	// UseGPU requests GPU inference from the model server when available.
	UseGPU bool `yaml:"use_gpu"`

	// GenerateTimeout bounds a single inference call (e.g., "30s").
	GenerateTimeout Duration `yaml:"generate_timeout"`
}

// ResourcesConfig points at the data files the text pipeline loads at
// startup. Empty paths fall back to built-in defaults.
type ResourcesConfig struct {
	// SlangMap is the path to a JSON file of slang → standard-form entries.
	SlangMap string `yaml:"slang_map"`

	// Glossary is the path to a CSV glossary with Source/Target columns.
	Glossary string `yaml:"glossary"`
}

// ProvidersConfig declares which provider implementation to use for each
// external dependency. Each field selects a named provider registered in the
// [Registry].
type ProvidersConfig struct {
	Translation ProviderEntry `yaml:"translation"`
	Embeddings  ProviderEntry `yaml:"embeddings"`
	STT         ProviderEntry `yaml:"stt"`
	TTS         ProviderEntry `yaml:"tts"`
}

// ProviderEntry is the common configuration block shared by all provider
// types. The Name field is used to look up the constructor in the [Registry].
type ProviderEntry struct {
	// Name selects the registered provider implementation (e.g., "marian",
	// "whisper").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default endpoint. For file-backed
	// providers (whisper) this is the model file path.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider.
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`
}
