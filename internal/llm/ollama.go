package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// OllamaConfig configures the Ollama client.
type OllamaConfig struct {
	// BaseURL is the Ollama API endpoint.
	BaseURL string

	// Model is the model name to use. For the combo finder this is the base
	// model with the trained adapter applied via a Modelfile.
	Model string

	// RequestTimeout is the timeout for API requests.
	RequestTimeout time.Duration

	// InferenceTimeout is the timeout for inference (generation) requests.
	InferenceTimeout time.Duration

	// Options are the sampling options sent with every Generate call.
	Options GenerateOptions
}

// DefaultOllamaConfig returns sensible defaults.
func DefaultOllamaConfig() *OllamaConfig {
	return &OllamaConfig{
		BaseURL:          "http://localhost:11434",
		Model:            "gemma-mtg-combo-finder",
		RequestTimeout:   30 * time.Second,
		InferenceTimeout: 300 * time.Second,
		Options:          DefaultGenerateOptions(),
	}
}

// OllamaClient provides access to Ollama API. It implements Generator.
type OllamaClient struct {
	Lease

	config     *OllamaConfig
	httpClient *http.Client
	available  bool
	modelReady bool
	mu         sync.RWMutex
}

// OllamaStatus represents the status of Ollama.
type OllamaStatus struct {
	Available    bool     `json:"available"`
	Version      string   `json:"version,omitempty"`
	ModelReady   bool     `json:"model_ready"`
	ModelName    string   `json:"model_name"`
	ModelsLoaded []string `json:"models_loaded,omitempty"`
	Error        string   `json:"error,omitempty"`
}

// GenerateRequest is the request body for generation.
type GenerateRequest struct {
	Model   string           `json:"model"`
	Prompt  string           `json:"prompt"`
	Stream  bool             `json:"stream"`
	Options *GenerateOptions `json:"options,omitempty"`
	System  string           `json:"system,omitempty"`
}

// GenerateOptions are optional parameters for generation.
type GenerateOptions struct {
	Temperature   float64  `json:"temperature,omitempty"`
	TopP          float64  `json:"top_p,omitempty"`
	TopK          int      `json:"top_k,omitempty"`
	NumPredict    int      `json:"num_predict,omitempty"`
	RepeatPenalty float64  `json:"repeat_penalty,omitempty"`
	Stop          []string `json:"stop,omitempty"`
}

// DefaultGenerateOptions favours focused reasoning over creativity.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{
		Temperature:   0.3,
		TopP:          0.9,
		NumPredict:    512,
		RepeatPenalty: 1.1,
		Stop:          []string{"<end_of_turn>"},
	}
}

// GenerateResponse is the response from generation.
type GenerateResponse struct {
	Model              string `json:"model"`
	CreatedAt          string `json:"created_at"`
	Response           string `json:"response"`
	Done               bool   `json:"done"`
	TotalDuration      int64  `json:"total_duration,omitempty"`
	LoadDuration       int64  `json:"load_duration,omitempty"`
	PromptEvalCount    int    `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64  `json:"prompt_eval_duration,omitempty"`
	EvalCount          int    `json:"eval_count,omitempty"`
	EvalDuration       int64  `json:"eval_duration,omitempty"`
}

// VersionResponse is the response from the version endpoint.
type VersionResponse struct {
	Version string `json:"version"`
}

// ListModelsResponse is the response from listing models.
type ListModelsResponse struct {
	Models []ModelInfo `json:"models"`
}

// ModelInfo describes a model.
type ModelInfo struct {
	Name       string    `json:"name"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

// NewOllamaClient creates a new Ollama client.
func NewOllamaClient(config *OllamaConfig) *OllamaClient {
	if config == nil {
		config = DefaultOllamaConfig()
	}

	return &OllamaClient{
		config: config,
		httpClient: &http.Client{
			Timeout: config.RequestTimeout,
		},
	}
}

// CheckAvailability checks if Ollama is available and the model is ready.
func (c *OllamaClient) CheckAvailability(ctx context.Context) *OllamaStatus {
	status := &OllamaStatus{
		ModelName: c.config.Model,
	}

	var version VersionResponse
	if err := c.getJSON(ctx, "/api/version", &version); err != nil {
		status.Error = fmt.Sprintf("Ollama not available: %v", err)
		c.setAvailability(false, false)
		return status
	}
	status.Available = true
	status.Version = version.Version

	var tags ListModelsResponse
	if err := c.getJSON(ctx, "/api/tags", &tags); err != nil {
		status.Error = fmt.Sprintf("Failed to list models: %v", err)
		c.setAvailability(true, false)
		return status
	}

	status.ModelsLoaded = make([]string, 0, len(tags.Models))
	for _, m := range tags.Models {
		status.ModelsLoaded = append(status.ModelsLoaded, m.Name)
	}
	status.ModelReady = hasModel(status.ModelsLoaded, c.config.Model)
	if !status.ModelReady {
		status.Error = fmt.Sprintf("Model %s not found; create it with `ollama create`", c.config.Model)
	}

	c.setAvailability(status.Available, status.ModelReady)
	return status
}

// IsAvailable returns whether Ollama is currently available.
func (c *OllamaClient) IsAvailable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available && c.modelReady
}

// Generate implements Generator using the configured sampling options.
func (c *OllamaClient) Generate(ctx context.Context, instruction, input string) (string, error) {
	opts := c.config.Options
	if n, ok := MaxTokens(ctx); ok {
		opts.NumPredict = n
	}
	resp, err := c.Complete(ctx, Prompt(instruction, input), &opts)
	if err != nil {
		return "", err
	}
	return CleanResponse(resp.Response), nil
}

// Complete sends a raw prompt to the model.
func (c *OllamaClient) Complete(ctx context.Context, prompt string, options *GenerateOptions) (*GenerateResponse, error) {
	if !c.IsAvailable() {
		// Quick re-check
		status := c.CheckAvailability(ctx)
		if !status.Available || !status.ModelReady {
			return nil, fmt.Errorf("ollama not available: %s", status.Error)
		}
	}

	req := &GenerateRequest{
		Model:   c.config.Model,
		Prompt:  prompt,
		Stream:  false,
		Options: options,
	}

	return c.doGenerate(ctx, req)
}

// doGenerate performs the generate API call.
func (c *OllamaClient) doGenerate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	url := c.config.BaseURL + "/api/generate"

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	// Use inference timeout for generation
	client := &http.Client{Timeout: c.config.InferenceTimeout}
	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("generate request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("generate failed with status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var genResp GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &genResp, nil
}

// hasModel reports whether model is among the loaded names. A model without
// a tag matches any tag of the same name.
func hasModel(loaded []string, model string) bool {
	_, _, tagged := strings.Cut(model, ":")
	for _, l := range loaded {
		if l == model {
			return true
		}
		if name, _, _ := strings.Cut(l, ":"); !tagged && name == model {
			return true
		}
	}
	return false
}

// getJSON decodes the response of a GET on the Ollama API.
func (c *OllamaClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// setAvailability updates the availability status.
func (c *OllamaClient) setAvailability(available, modelReady bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available = available
	c.modelReady = modelReady
}

// Model returns the configured model name.
func (c *OllamaClient) Model() string {
	return c.config.Model
}
