package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ramonehamilton/pauper-combos/internal/combos"
	"github.com/ramonehamilton/pauper-combos/internal/discovery"
	"github.com/ramonehamilton/pauper-combos/internal/llm"
	"github.com/ramonehamilton/pauper-combos/internal/training"
)

// Config represents the application configuration.
type Config struct {
	// Snapshot locations
	Data DataConfig `toml:"data"`

	// Card source
	Scryfall ScryfallConfig `toml:"scryfall"`

	// Candidate generator subset prefixes
	Candidates combos.CandidateBounds `toml:"candidates"`

	// Training example synthesis
	Synthesis training.Config `toml:"synthesis"`

	// Combo discovery search
	Search discovery.Config `toml:"search"`

	// Text generation backend
	Generator GeneratorConfig `toml:"generator"`

	// External fine-tuning command
	Trainer TrainerConfig `toml:"trainer"`

	// Interactive explorer
	Explorer ExplorerConfig `toml:"explorer"`

	// Application configuration
	App AppConfig `toml:"app"`
}

// DataConfig contains snapshot settings.
type DataConfig struct {
	Dir        string `toml:"dir"`         // Directory holding the JSON snapshots
	CombosFile string `toml:"combos_file"` // Optional YAML file of extra known combos
}

// ScryfallConfig contains card download settings.
type ScryfallConfig struct {
	BaseURL   string  `toml:"base_url"`   // API endpoint
	Query     string  `toml:"query"`      // Search query selecting the card pool
	Unique    string  `toml:"unique"`     // Scryfall unique mode (cards, prints, art)
	RateLimit float64 `toml:"rate_limit"` // Requests per second
	Timeout   string  `toml:"timeout"`    // HTTP timeout (e.g., "30s")
}

// GeneratorConfig contains text generation settings. The API key is read
// from the environment, never from this file.
type GeneratorConfig struct {
	Backend          string  `toml:"backend"`           // ollama, openai or stub
	BaseURL          string  `toml:"base_url"`          // Backend endpoint
	Model            string  `toml:"model"`             // Model name
	Temperature      float64 `toml:"temperature"`       // Sampling temperature
	TopP             float64 `toml:"top_p"`             // Nucleus sampling
	RepeatPenalty    float64 `toml:"repeat_penalty"`    // Ollama only
	MaxTokens        int     `toml:"max_tokens"`        // Default generation length
	RequestTimeout   string  `toml:"request_timeout"`   // Availability checks
	InferenceTimeout string  `toml:"inference_timeout"` // Generation calls
	StubText         string  `toml:"stub_text"`         // Canned reply for the stub backend
}

// TrainerConfig contains fine-tuning settings.
type TrainerConfig struct {
	Command   []string `toml:"command"`    // External training command and fixed arguments
	OutputDir string   `toml:"output_dir"` // Adapter and checkpoint directory
	Resume    bool     `toml:"resume"`     // Resume from the latest checkpoint
}

// ExplorerConfig contains interactive explorer settings.
type ExplorerConfig struct {
	Watch         bool `toml:"watch"`          // Reload cards when the snapshot changes
	ValidateLimit int  `toml:"validate_limit"` // Known combos checked by "validate"
}

// AppConfig contains general application settings.
type AppConfig struct {
	DebugMode bool `toml:"debug_mode"` // Enable debug logging
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:        "data",
			CombosFile: "",
		},
		Scryfall: ScryfallConfig{
			BaseURL:   "https://api.scryfall.com",
			Query:     "legal:pauper",
			Unique:    "cards",
			RateLimit: 10,
			Timeout:   "30s",
		},
		Candidates: combos.DefaultCandidateBounds(),
		Synthesis:  training.DefaultConfig(),
		Search:     discovery.DefaultConfig(),
		Generator: GeneratorConfig{
			Backend:          llm.BackendOllama,
			BaseURL:          "http://localhost:11434",
			Model:            "gemma-mtg-combo-finder",
			Temperature:      0.3,
			TopP:             0.9,
			RepeatPenalty:    1.1,
			MaxTokens:        512,
			RequestTimeout:   "30s",
			InferenceTimeout: "300s",
		},
		Trainer: TrainerConfig{
			Command:   []string{"python", "train_mtg_model.py"},
			OutputDir: "mtg-combo-finder",
			Resume:    true,
		},
		Explorer: ExplorerConfig{
			Watch:         true,
			ValidateLimit: 3,
		},
		App: AppConfig{
			DebugMode: false,
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".pauper-combos", "config.toml"), nil
}

// Load loads the configuration from path, or from DefaultPath when path is
// empty. Returns default config if the file doesn't exist. Keys absent from
// the file keep their default values.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	config := DefaultConfig()

	// If file doesn't exist, return default config
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return config, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration to path, creating parent directories.
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Data.Dir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if _, err := time.ParseDuration(c.Scryfall.Timeout); err != nil {
		return fmt.Errorf("invalid scryfall timeout %q: %w", c.Scryfall.Timeout, err)
	}
	if c.Scryfall.RateLimit <= 0 {
		return fmt.Errorf("scryfall rate limit must be positive: %v", c.Scryfall.RateLimit)
	}

	b := c.Candidates
	for name, v := range map[string]int{
		"flicker": b.Flicker, "etb": b.ETB, "untap": b.Untap,
		"tap": b.Tap, "token": b.Token, "sacrifice": b.Sacrifice,
	} {
		if v < 0 {
			return fmt.Errorf("%s prefix cannot be negative: %d", name, v)
		}
	}

	if err := c.Synthesis.Validate(); err != nil {
		return fmt.Errorf("invalid synthesis config: %w", err)
	}
	if err := c.Search.Validate(); err != nil {
		return fmt.Errorf("invalid search config: %w", err)
	}

	switch c.Generator.Backend {
	case llm.BackendOllama, llm.BackendOpenAI, llm.BackendStub:
	default:
		return fmt.Errorf("unknown generator backend %q", c.Generator.Backend)
	}
	if _, err := time.ParseDuration(c.Generator.RequestTimeout); err != nil {
		return fmt.Errorf("invalid request timeout %q: %w", c.Generator.RequestTimeout, err)
	}
	if _, err := time.ParseDuration(c.Generator.InferenceTimeout); err != nil {
		return fmt.Errorf("invalid inference timeout %q: %w", c.Generator.InferenceTimeout, err)
	}

	if len(c.Trainer.Command) == 0 || c.Trainer.Command[0] == "" {
		return fmt.Errorf("trainer command cannot be empty")
	}
	if c.Trainer.OutputDir == "" {
		return fmt.Errorf("trainer output directory cannot be empty")
	}

	if c.Explorer.ValidateLimit < 0 {
		return fmt.Errorf("validate limit cannot be negative: %d", c.Explorer.ValidateLimit)
	}

	return nil
}

// GetScryfallTimeout returns the Scryfall HTTP timeout as a duration.
func (c *Config) GetScryfallTimeout() (time.Duration, error) {
	return time.ParseDuration(c.Scryfall.Timeout)
}

// LLM converts the generator section into an llm.Config. apiKey comes from
// the environment.
func (c *Config) LLM(apiKey string) (llm.Config, error) {
	requestTimeout, err := time.ParseDuration(c.Generator.RequestTimeout)
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid request timeout %q: %w", c.Generator.RequestTimeout, err)
	}
	inferenceTimeout, err := time.ParseDuration(c.Generator.InferenceTimeout)
	if err != nil {
		return llm.Config{}, fmt.Errorf("invalid inference timeout %q: %w", c.Generator.InferenceTimeout, err)
	}

	return llm.Config{
		Backend:          c.Generator.Backend,
		BaseURL:          c.Generator.BaseURL,
		Model:            c.Generator.Model,
		APIKey:           apiKey,
		Temperature:      c.Generator.Temperature,
		TopP:             c.Generator.TopP,
		RepeatPenalty:    c.Generator.RepeatPenalty,
		MaxTokens:        c.Generator.MaxTokens,
		RequestTimeout:   requestTimeout,
		InferenceTimeout: inferenceTimeout,
		StubText:         c.Generator.StubText,
	}, nil
}
