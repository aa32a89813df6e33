package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pulsebeat_backend/internal/config"
	"pulsebeat_backend/internal/model"
)

func ollamaConfig(baseURL string) *config.Config {
	cfg := &config.Config{}
	cfg.Ollama.BaseURL = baseURL
	cfg.Ollama.Model = "llama3"
	cfg.Ollama.TimeoutSeconds = 5
	cfg.Ollama.MaxTokens = 100
	return cfg
}

func TestGenerateFallbackWhenUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer ts.Close()

	s := NewOllamaService(ollamaConfig(ts.URL))
	result := s.Generate(context.Background(), "hola", nil, nil, "")

	if result.Source != model.SourceFallback {
		t.Fatalf("source = %q, want %q", result.Source, model.SourceFallback)
	}
	if result.Text == "" {
		t.Fatal("fallback must carry user-facing text")
	}
}

func TestGenerateErrorOnBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer ts.Close()

	s := NewOllamaService(ollamaConfig(ts.URL))
	result := s.Generate(context.Background(), "hola", nil, nil, "")

	if result.Source != model.SourceError {
		t.Fatalf("source = %q, want %q", result.Source, model.SourceError)
	}
	if result.Text == "" {
		t.Fatal("error result must carry user-facing text")
	}
}

func TestGenerateSuccess(t *testing.T) {
	var prompt string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.WriteHeader(http.StatusOK)
		case "/api/generate":
			var req struct {
				Model  string `json:"model"`
				Prompt string `json:"prompt"`
				Stream bool   `json:"stream"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Errorf("bad generate body: %v", err)
			}
			if req.Stream {
				t.Error("generate request must not be streaming")
			}
			prompt = req.Prompt
			json.NewEncoder(w).Encode(map[string]string{
				"response": "  Tenemos varios modelos disponibles.  ",
			})
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	s := NewOllamaService(ollamaConfig(ts.URL))
	products := []model.Product{{Name: "SoundWave X3", Price: 149.99, Category: model.CategoryHeadphones}}
	history := []model.ChatMessage{{Content: "hola", IsBot: false}, {Content: "¡Hola! 😊", IsBot: true}}

	result := s.Generate(context.Background(), "¿qué auriculares tienen?", products, history, "marta")

	if result.Source != model.SourceOllama {
		t.Fatalf("source = %q, want %q", result.Source, model.SourceOllama)
	}
	if result.Text != "Tenemos varios modelos disponibles." {
		t.Fatalf("text = %q, want trimmed model output", result.Text)
	}
	if result.Latency <= 0 {
		t.Fatalf("latency = %v, want > 0", result.Latency)
	}

	for _, want := range []string{"SoundWave X3", "marta", "Usuario: hola", "Pregunta del usuario: ¿qué auriculares tienen?"} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q:\n%s", want, prompt)
		}
	}
}
