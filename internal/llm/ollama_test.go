package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestDefaultOllamaConfig(t *testing.T) {
	config := DefaultOllamaConfig()

	if config.BaseURL != "http://localhost:11434" {
		t.Errorf("unexpected BaseURL: %s", config.BaseURL)
	}
	if config.Model != "gemma-mtg-combo-finder" {
		t.Errorf("unexpected Model: %s", config.Model)
	}
	if config.RequestTimeout != 30*time.Second {
		t.Errorf("unexpected RequestTimeout: %v", config.RequestTimeout)
	}
	if config.Options.Temperature != 0.3 || config.Options.TopP != 0.9 || config.Options.RepeatPenalty != 1.1 {
		t.Errorf("unexpected sampling options: %+v", config.Options)
	}
	if config.Options.NumPredict != 512 {
		t.Errorf("unexpected NumPredict: %d", config.Options.NumPredict)
	}
}

func TestNewOllamaClient(t *testing.T) {
	t.Run("with nil config uses defaults", func(t *testing.T) {
		client := NewOllamaClient(nil)
		if client == nil {
			t.Fatal("expected non-nil client")
		}
		if client.config.BaseURL != "http://localhost:11434" {
			t.Error("expected default config")
		}
	})

	t.Run("with custom config", func(t *testing.T) {
		client := NewOllamaClient(&OllamaConfig{
			BaseURL: "http://custom:11434",
			Model:   "gemma2:2b",
		})
		if client.config.BaseURL != "http://custom:11434" {
			t.Errorf("expected custom BaseURL, got %s", client.config.BaseURL)
		}
		if client.Model() != "gemma2:2b" {
			t.Errorf("expected custom Model, got %s", client.Model())
		}
	})
}

// newOllamaServer serves the version, tags and generate endpoints. Each
// generate request is passed to onGenerate.
func newOllamaServer(t *testing.T, models []ModelInfo, onGenerate func(GenerateRequest) string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version":
			_ = json.NewEncoder(w).Encode(VersionResponse{Version: "0.5.1"})
		case "/api/tags":
			_ = json.NewEncoder(w).Encode(ListModelsResponse{Models: models})
		case "/api/generate":
			var req GenerateRequest
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			_ = json.NewEncoder(w).Encode(GenerateResponse{
				Model:    req.Model,
				Response: onGenerate(req),
				Done:     true,
			})
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

func testOllamaConfig(url string) *OllamaConfig {
	return &OllamaConfig{
		BaseURL:          url,
		Model:            "gemma-mtg-combo-finder",
		RequestTimeout:   5 * time.Second,
		InferenceTimeout: 30 * time.Second,
		Options:          DefaultGenerateOptions(),
	}
}

func TestOllamaClient_CheckAvailability(t *testing.T) {
	t.Run("available with model", func(t *testing.T) {
		server := newOllamaServer(t, []ModelInfo{{Name: "gemma-mtg-combo-finder:latest"}}, nil)
		client := NewOllamaClient(testOllamaConfig(server.URL))

		status := client.CheckAvailability(context.Background())
		if !status.Available {
			t.Error("expected Ollama to be available")
		}
		if !status.ModelReady {
			t.Error("expected model to be ready")
		}
		if status.Version != "0.5.1" {
			t.Errorf("unexpected version: %s", status.Version)
		}
	})

	t.Run("available without model", func(t *testing.T) {
		server := newOllamaServer(t, nil, nil)
		client := NewOllamaClient(testOllamaConfig(server.URL))

		status := client.CheckAvailability(context.Background())
		if !status.Available {
			t.Error("expected Ollama to be available")
		}
		if status.ModelReady {
			t.Error("expected model to not be ready")
		}
		if !strings.Contains(status.Error, "not found") {
			t.Errorf("unexpected error: %q", status.Error)
		}
	})

	t.Run("not running", func(t *testing.T) {
		client := NewOllamaClient(&OllamaConfig{
			BaseURL:        "http://localhost:99999",
			Model:          "gemma-mtg-combo-finder",
			RequestTimeout: 1 * time.Second,
		})

		status := client.CheckAvailability(context.Background())
		if status.Available {
			t.Error("expected Ollama to not be available")
		}
		if status.Error == "" {
			t.Error("expected error message")
		}
	})
}

func TestHasModel(t *testing.T) {
	loaded := []string{"gemma-mtg-combo-finder:latest", "gemma2:2b"}
	tests := []struct {
		model string
		want  bool
	}{
		{"gemma-mtg-combo-finder", true},
		{"gemma-mtg-combo-finder:latest", true},
		{"gemma-mtg-combo-finder:v2", false},
		{"gemma2:2b", true},
		{"gemma2:9b", false},
		{"gemma", false},
	}
	for _, tt := range tests {
		if got := hasModel(loaded, tt.model); got != tt.want {
			t.Errorf("hasModel(%q) = %v, want %v", tt.model, got, tt.want)
		}
	}
}

func TestOllamaClient_IsAvailable(t *testing.T) {
	client := NewOllamaClient(nil)

	if client.IsAvailable() {
		t.Error("expected not available initially")
	}

	client.setAvailability(true, true)

	if !client.IsAvailable() {
		t.Error("expected available after setting")
	}
}

func TestOllamaClient_Generate(t *testing.T) {
	var got GenerateRequest
	server := newOllamaServer(t, []ModelInfo{{Name: "gemma-mtg-combo-finder"}}, func(req GenerateRequest) string {
		got = req
		return "Yes, this is an infinite combo.<end_of_turn>\n"
	})
	client := NewOllamaClient(testOllamaConfig(server.URL))

	text, err := client.Generate(context.Background(), "Analyze these cards.", "Cards:\nA\nB")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if text != "Yes, this is an infinite combo." {
		t.Errorf("unexpected text: %q", text)
	}
	if got.Prompt != "Analyze these cards.\n\nCards:\nA\nB" {
		t.Errorf("unexpected prompt: %q", got.Prompt)
	}
	if got.Options == nil || got.Options.NumPredict != 512 || got.Options.RepeatPenalty != 1.1 {
		t.Errorf("unexpected options: %+v", got.Options)
	}
	if got.Stream {
		t.Error("expected non-streaming request")
	}
}

func TestOllamaClient_GenerateMaxTokensOverride(t *testing.T) {
	var numPredict int
	server := newOllamaServer(t, []ModelInfo{{Name: "gemma-mtg-combo-finder"}}, func(req GenerateRequest) string {
		numPredict = req.Options.NumPredict
		return "ok"
	})
	client := NewOllamaClient(testOllamaConfig(server.URL))

	ctx := WithMaxTokens(context.Background(), 768)
	if _, err := client.Generate(ctx, "instruction", ""); err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if numPredict != 768 {
		t.Errorf("NumPredict = %d, want 768", numPredict)
	}
	if client.config.Options.NumPredict != 512 {
		t.Error("override must not change the client configuration")
	}
}

func TestOllamaClient_GenerateNotAvailable(t *testing.T) {
	client := NewOllamaClient(&OllamaConfig{
		BaseURL:        "http://localhost:99999",
		Model:          "gemma-mtg-combo-finder",
		RequestTimeout: 1 * time.Second,
	})

	_, err := client.Generate(context.Background(), "Hello", "")
	if err == nil {
		t.Error("expected error when Ollama not available")
	}
}

func TestOllamaClient_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/version":
			_ = json.NewEncoder(w).Encode(VersionResponse{Version: "0.5.1"})
		case "/api/tags":
			_ = json.NewEncoder(w).Encode(ListModelsResponse{Models: []ModelInfo{{Name: "gemma-mtg-combo-finder"}}})
		default:
			http.Error(w, "out of memory", http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewOllamaClient(testOllamaConfig(server.URL))
	_, err := client.Generate(context.Background(), "Hello", "")
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status error, got %v", err)
	}
}

func TestOllamaClient_ImplementsGenerator(t *testing.T) {
	var _ Generator = NewOllamaClient(nil)

	client := NewOllamaClient(nil)
	if err := client.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := client.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
}
