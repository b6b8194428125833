package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIConfig configures a generator backed by an OpenAI-compatible chat
// completions endpoint, such as a vLLM or llama.cpp server hosting the
// fine-tuned model.
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float64
	TopP        float64
	MaxTokens   int
}

// OpenAIGenerator implements Generator over the chat completions API.
type OpenAIGenerator struct {
	Lease

	client openai.Client
	config OpenAIConfig
	logger *slog.Logger
}

// NewOpenAIGenerator creates a generator. An API key is required even for
// local servers, which usually accept any value.
func NewOpenAIGenerator(cfg OpenAIConfig, logger *slog.Logger) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	if cfg.Model == "" {
		cfg.Model = "gemma-mtg-combo-finder"
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 512
	}

	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
		config: cfg,
		logger: logger,
	}, nil
}

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, instruction, input string) (string, error) {
	maxTokens := g.config.MaxTokens
	if n, ok := MaxTokens(ctx); ok {
		maxTokens = n
	}

	params := openai.ChatCompletionNewParams{
		Model: g.config.Model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(Prompt(instruction, input)),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}
	if g.config.Temperature > 0 {
		params.Temperature = openai.Float(g.config.Temperature)
	}
	if g.config.TopP > 0 {
		params.TopP = openai.Float(g.config.TopP)
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	g.logger.DebugContext(ctx, "generation completed",
		"model", g.config.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason)

	return CleanResponse(resp.Choices[0].Message.Content), nil
}

// Model returns the configured model name.
func (g *OpenAIGenerator) Model() string {
	return g.config.Model
}
