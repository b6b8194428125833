package llm

import (
	"fmt"
	"log/slog"
	"time"
)

// Supported generator backends.
const (
	BackendOllama = "ollama"
	BackendOpenAI = "openai"
	BackendStub   = "stub"
)

// Config selects and configures a generator backend.
type Config struct {
	Backend          string
	BaseURL          string
	Model            string
	APIKey           string
	Temperature      float64
	TopP             float64
	RepeatPenalty    float64
	MaxTokens        int
	RequestTimeout   time.Duration
	InferenceTimeout time.Duration

	// StubText is returned by the stub backend for every call.
	StubText string
}

// New builds the generator named by cfg.Backend.
func New(cfg Config, logger *slog.Logger) (Generator, error) {
	switch cfg.Backend {
	case BackendOllama, "":
		oc := DefaultOllamaConfig()
		if cfg.BaseURL != "" {
			oc.BaseURL = cfg.BaseURL
		}
		if cfg.Model != "" {
			oc.Model = cfg.Model
		}
		if cfg.RequestTimeout > 0 {
			oc.RequestTimeout = cfg.RequestTimeout
		}
		if cfg.InferenceTimeout > 0 {
			oc.InferenceTimeout = cfg.InferenceTimeout
		}
		if cfg.Temperature > 0 {
			oc.Options.Temperature = cfg.Temperature
		}
		if cfg.TopP > 0 {
			oc.Options.TopP = cfg.TopP
		}
		if cfg.RepeatPenalty > 0 {
			oc.Options.RepeatPenalty = cfg.RepeatPenalty
		}
		if cfg.MaxTokens > 0 {
			oc.Options.NumPredict = cfg.MaxTokens
		}
		return NewOllamaClient(oc), nil

	case BackendOpenAI:
		return NewOpenAIGenerator(OpenAIConfig{
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
			MaxTokens:   cfg.MaxTokens,
		}, logger)

	case BackendStub:
		return &StubGenerator{Text: cfg.StubText}, nil

	default:
		return nil, fmt.Errorf("unknown generator backend %q", cfg.Backend)
	}
}
