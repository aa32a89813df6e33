package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pulsebeat_backend/internal/config"
	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/pkg/logger"

	"go.uber.org/zap"
)

// GenerationResult is what the LLM layer hands back to the chat
// pipeline. It never carries an error: degraded states are expressed as
// fallback or error sources with user-facing Spanish text, so the
// conversation always gets an answer.
type GenerationResult struct {
	Text    string
	Source  string
	Latency float64
}

const (
	fallbackUnavailable = "Lo siento, nuestro sistema de asistencia inteligente no está disponible en este momento. ¿Puedo ayudarte con alguna consulta básica sobre nuestros productos? 🤔"
	errorBadStatus      = "Lo siento, estoy teniendo problemas para procesar tu consulta. ¿Puedes intentarlo con otras palabras o preguntarme sobre nuestros productos destacados? 🔄"
	errorUnreachable    = "Disculpa, no puedo responder en este momento. ¿Puedo ayudarte con información básica sobre nuestros productos o servicios? 🙇"
)

type OllamaService struct {
	baseURL   string
	modelName string
	maxTokens int
	client    *http.Client
	probe     *http.Client
}

func NewOllamaService(cfg *config.Config) *OllamaService {
	return &OllamaService{
		baseURL:   strings.TrimRight(cfg.Ollama.BaseURL, "/"),
		modelName: cfg.Ollama.Model,
		maxTokens: cfg.Ollama.MaxTokens,
		client:    &http.Client{Timeout: time.Duration(cfg.Ollama.TimeoutSeconds) * time.Second},
		probe:     &http.Client{Timeout: 5 * time.Second},
	}
}

// Available probes the Ollama tags endpoint with a short timeout.
func (s *OllamaService) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/api/tags", nil)
	if err != nil {
		return false
	}
	resp, err := s.probe.Do(req)
	if err != nil {
		logger.Log.Warn("Ollama availability probe failed", zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

type generateRequest struct {
	Model   string                 `json:"model"`
	Prompt  string                 `json:"prompt"`
	Stream  bool                   `json:"stream"`
	Options map[string]interface{} `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Generate asks the local model for an answer, enriched with product
// data, recent conversation turns and the customer's name when known.
func (s *OllamaService) Generate(ctx context.Context, message string, products []model.Product, history []model.ChatMessage, username string) GenerationResult {
	start := time.Now()

	if !s.Available(ctx) {
		logger.Log.Warn("Ollama is not available, serving fallback")
		return GenerationResult{Text: fallbackUnavailable, Source: model.SourceFallback, Latency: time.Since(start).Seconds()}
	}

	prompt := s.buildPrompt(message, products, history, username)

	body, err := json.Marshal(generateRequest{
		Model:  s.modelName,
		Prompt: prompt,
		Stream: false,
		Options: map[string]interface{}{
			"temperature": 0.7,
			"top_p":       0.9,
			"max_tokens":  s.maxTokens,
		},
	})
	if err != nil {
		logger.Log.Error("Failed to encode Ollama request", zap.Error(err))
		return GenerationResult{Text: errorUnreachable, Source: model.SourceError, Latency: time.Since(start).Seconds()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return GenerationResult{Text: errorUnreachable, Source: model.SourceError, Latency: time.Since(start).Seconds()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Error("Ollama request failed", zap.Error(err))
		return GenerationResult{Text: errorUnreachable, Source: model.SourceError, Latency: time.Since(start).Seconds()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Log.Error("Ollama returned non-200 status", zap.Int("status", resp.StatusCode))
		return GenerationResult{Text: errorBadStatus, Source: model.SourceError, Latency: time.Since(start).Seconds()}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return GenerationResult{Text: errorUnreachable, Source: model.SourceError, Latency: time.Since(start).Seconds()}
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		logger.Log.Error("Failed to decode Ollama response", zap.Error(err))
		return GenerationResult{Text: errorUnreachable, Source: model.SourceError, Latency: time.Since(start).Seconds()}
	}

	text := strings.TrimSpace(parsed.Response)
	logger.Log.Info("Ollama response received",
		zap.Float64("latency", time.Since(start).Seconds()),
		zap.Int("length", len(text)))

	return GenerationResult{Text: text, Source: model.SourceOllama, Latency: time.Since(start).Seconds()}
}

func (s *OllamaService) buildPrompt(message string, products []model.Product, history []model.ChatMessage, username string) string {
	var b strings.Builder

	b.WriteString("Eres el asistente virtual oficial de PulseBeat Tech, una tienda especializada " +
		"en tecnología de audio de alta calidad. Tu nombre es PulseBeat Assistant. " +
		"La tienda vende principalmente: auriculares (headphones), altavoces (speakers) " +
		"y dispositivos de streaming de audio.\n")

	if username != "" {
		fmt.Fprintf(&b, "\nEstás hablando con %s, un cliente registrado.\n", username)
	}

	if len(products) > 0 {
		b.WriteString("\nInformación de productos relevantes:\n")
		for i, p := range products {
			fmt.Fprintf(&b, "%d. %s: $%.2f\n", i+1, p.Name, p.Price)
			if p.Description != "" {
				fmt.Fprintf(&b, "   Descripción: %s...\n", truncate(p.Description, 100))
			}
			fmt.Fprintf(&b, "   Categoría: %s\n", p.Category)
		}
	}

	if len(history) > 0 {
		b.WriteString("\nHistorial de conversación reciente:\n")
		turns := history
		if len(turns) > 3 {
			turns = turns[len(turns)-3:]
		}
		for _, msg := range turns {
			sender := "Usuario"
			if msg.IsBot {
				sender = "Tú"
			}
			fmt.Fprintf(&b, "%s: %s\n", sender, msg.Content)
		}
	}

	b.WriteString("\nPautas para tus respuestas:" +
		"\n1. Sé conciso pero informativo." +
		"\n2. Responde siempre en español a menos que te pregunten en otro idioma." +
		"\n3. Incluye un emoji relevante al final de tu respuesta." +
		"\n4. Nunca inventes especificaciones de productos que no conoces." +
		"\n5. Si no estás seguro de algo, ofrece contactar con servicio al cliente." +
		"\n6. Mantén un tono amigable y profesional." +
		"\n7. Si te preguntan por un producto específico, proporciona detalles precisos.")

	fmt.Fprintf(&b, "\n\nPregunta del usuario: %s", message)

	return b.String()
}
