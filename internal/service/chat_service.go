package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/nlu"
	"pulsebeat_backend/internal/util"
	"pulsebeat_backend/pkg/logger"
	"pulsebeat_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ConversationStore is the persistence surface the chat pipeline needs.
// *repository.ChatRepository satisfies it.
type ConversationStore interface {
	GetOrCreateConversation(sessionID string, userID *uint, location, sourcePage, browserInfo string) (*model.ChatConversation, error)
	AppendMessage(msg *model.ChatMessage) error
	RecentMessages(conversationID uint, limit int) ([]model.ChatMessage, error)
	FindMessage(id uint) (*model.ChatMessage, error)
	SetFeedback(messageID uint, feedback bool) error
	CreateReviewFlag(messageID uint) error
}

// CatalogSearcher is the product lookup surface the chat pipeline
// needs. *ProductService satisfies it.
type CatalogSearcher interface {
	Search(query string, limit int) []model.Product
	Featured(limit int) []model.Product
	Details(nameOrID string) *model.Product
}

// ResponseGenerator produces free-form answers when no rule applies.
// *OllamaService satisfies it.
type ResponseGenerator interface {
	Generate(ctx context.Context, message string, products []model.Product, history []model.ChatMessage, username string) GenerationResult
}

const (
	historyLimit        = 5
	confidenceThreshold = 0.7

	priceClarification = "¿De qué producto específico te gustaría saber el precio? Puedo ayudarte a encontrar la información que necesitas. 🔍"
	staticFallback     = "Lo siento, no pude entender completamente tu consulta. ¿Podrías reformularla o ser más específico? Estoy aquí para ayudarte con información sobre nuestros productos de audio. 🎧"
)

// ChatRequest carries one user turn plus the request metadata stored on
// first contact of a session.
type ChatRequest struct {
	Message     string
	SessionID   string
	UserID      *uint
	Username    string
	Location    string
	SourcePage  string
	BrowserInfo string
}

// ChatResult is the full outcome of a processed turn.
type ChatResult struct {
	Reply          BotReply
	MessageID      uint
	SessionID      string
	ProcessingTime float64
}

// ChatService runs the chatbot pipeline: intent classification, entity
// extraction, routing between canned answers, catalog lookups and the
// LLM, and persistence of both sides of the exchange.
type ChatService struct {
	store     ConversationStore
	catalog   CatalogSearcher
	generator ResponseGenerator
	responder *Responder
}

func NewChatService(store ConversationStore, catalog CatalogSearcher, generator ResponseGenerator, responder *Responder) *ChatService {
	return &ChatService{
		store:     store,
		catalog:   catalog,
		generator: generator,
		responder: responder,
	}
}

// ProcessMessage handles one user turn end to end. Persistence problems
// around the actual answer are logged and tolerated: answering the
// customer takes precedence over bookkeeping.
func (s *ChatService) ProcessMessage(ctx context.Context, req ChatRequest) (*ChatResult, error) {
	start := time.Now()

	intent := nlu.Classify(req.Message)
	entities := nlu.Extract(req.Message)

	logger.Log.Info("Chat message received",
		zap.String("session_id", req.SessionID),
		zap.String("intent", intent.Primary),
		zap.Float64("confidence", intent.Confidence))

	conversation, err := s.store.GetOrCreateConversation(req.SessionID, req.UserID, req.Location, req.SourcePage, req.BrowserInfo)
	if err != nil {
		return nil, err
	}

	userMsg := &model.ChatMessage{
		ConversationID:   conversation.ID,
		Content:          req.Message,
		IsBot:            false,
		Source:           model.SourceUser,
		DetectedIntent:   intent.Primary,
		DetectedEntities: model.EntityMap(entities),
	}
	if err := s.store.AppendMessage(userMsg); err != nil {
		logger.Log.Error("Failed to store user message", zap.Error(err))
	}

	history, err := s.store.RecentMessages(conversation.ID, historyLimit)
	if err != nil {
		logger.Log.Error("Failed to load conversation history", zap.Error(err))
		history = nil
	}

	reply := s.route(ctx, req, intent, entities, history)

	elapsed := time.Since(start).Seconds()
	botMsg := &model.ChatMessage{
		ConversationID:   conversation.ID,
		Content:          reply.Response,
		IsBot:            true,
		Source:           reply.Source,
		DetectedIntent:   intent.Primary,
		DetectedEntities: model.EntityMap(entities),
		ProcessingTime:   &elapsed,
	}
	if err := s.store.AppendMessage(botMsg); err != nil {
		logger.Log.Error("Failed to store bot message", zap.Error(err))
	}

	monitoring.ChatResponseCounter.WithLabelValues(reply.Source, intent.Primary).Inc()

	return &ChatResult{
		Reply:          reply,
		MessageID:      botMsg.ID,
		SessionID:      req.SessionID,
		ProcessingTime: math.Round(time.Since(start).Seconds()*100) / 100,
	}, nil
}

// route picks the answer for a turn: high-confidence intents get rule
// handling first, everything else goes to the generator with catalog
// context, and a static fallback covers the rest.
func (s *ChatService) route(ctx context.Context, req ChatRequest, intent nlu.IntentResult, entities nlu.EntitySet, history []model.ChatMessage) BotReply {
	lower := strings.ToLower(req.Message)

	if intent.Confidence > confidenceThreshold {
		switch intent.Primary {
		case nlu.IntentGeneral:
			if containsWord(lower, "hola", "hey", "saludos", "buenos") {
				return s.responder.FormatBotResponse(s.responder.Predefined(CannedGreeting), model.SourcePredefined, intent.Primary, entities)
			}
			if containsWord(lower, "gracias", "agradezco", "thanks") {
				return s.responder.FormatBotResponse(s.responder.Predefined(CannedThanks), model.SourcePredefined, intent.Primary, entities)
			}
			if containsWord(lower, "adiós", "adios", "chao", "hasta luego") {
				return s.responder.FormatBotResponse(s.responder.Predefined(CannedFarewell), model.SourcePredefined, intent.Primary, entities)
			}

		case nlu.IntentProductSearch:
			if name, ok := nlu.ExtractProductName(req.Message); ok {
				if products := s.catalog.Search(name, chatSearchLimit); len(products) > 0 {
					text := s.responder.FormatProductRecommendations(products, name)
					return s.responder.FormatBotResponse(text, model.SourceProducts, intent.Primary, entities)
				}
			}
			text := s.responder.FormatProductRecommendations(s.catalog.Featured(chatSearchLimit), "")
			return s.responder.FormatBotResponse(text, model.SourceProducts, intent.Primary, entities)

		case nlu.IntentPrice:
			if name, ok := nlu.ExtractProductName(req.Message); ok {
				if product := s.catalog.Details(name); product != nil {
					text := "El precio de **" + product.Name + "** es $" + formatPrice(product.Price) +
						". ¿Te gustaría más información sobre este producto o añadirlo al carrito? 💰"
					return s.responder.FormatBotResponse(text, model.SourcePrice, intent.Primary, entities)
				}
			}
			return s.responder.FormatBotResponse(priceClarification, model.SourcePredefined, intent.Primary, entities)

		case nlu.IntentProductInfo:
			if name, ok := nlu.ExtractProductName(req.Message); ok {
				if product := s.catalog.Details(name); product != nil {
					text := s.responder.FormatSingleProductDetails(product)
					return s.responder.FormatBotResponse(text, model.SourceProductDetails, intent.Primary, entities)
				}
			}
		}
	}

	var related []model.Product
	if name, ok := nlu.ExtractProductName(req.Message); ok {
		related = s.catalog.Search(name, chatSearchLimit)
	}

	result := s.generator.Generate(ctx, req.Message, related, history, req.Username)
	if result.Text != "" {
		return s.responder.FormatBotResponse(result.Text, result.Source, intent.Primary, entities)
	}

	return s.responder.FormatBotResponse(staticFallback, model.SourceFallback, intent.Primary, entities)
}

// RecordFeedback attaches a thumbs up/down to a bot message. Negative
// feedback also files the message for human review.
func (s *ChatService) RecordFeedback(messageID uint, feedback bool) error {
	msg, err := s.store.FindMessage(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrMessageNotFound
		}
		return err
	}
	if !msg.IsBot {
		return errors.New("feedback is only accepted on bot messages")
	}

	if err := s.store.SetFeedback(messageID, feedback); err != nil {
		return err
	}

	if !feedback {
		if err := s.store.CreateReviewFlag(messageID); err != nil {
			logger.Log.Error("Failed to flag message for review", zap.Uint("message_id", messageID), zap.Error(err))
		}
	}

	logger.Log.Info("Chat feedback recorded",
		zap.Uint("message_id", messageID),
		zap.Bool("positive", feedback))
	return nil
}

func containsWord(haystack string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(haystack, w) {
			return true
		}
	}
	return false
}

func formatPrice(price float64) string {
	return fmt.Sprintf("%.2f", price)
}
