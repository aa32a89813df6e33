package controller

import (
	"net/http"
	"strings"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/service"
	"pulsebeat_backend/internal/util"
	"pulsebeat_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	validationPrompt = "Por favor, envía un mensaje para que pueda ayudarte. 😊"
	badRequestReply  = "Lo siento, hubo un error al procesar tu solicitud. Por favor, inténtalo de nuevo. 🔄"
	internalReply    = "Lo siento, estoy teniendo problemas para procesar tu solicitud en este momento. ¿Podrías intentarlo de nuevo más tarde? 🙇"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// ChatTurnRequest is one widget request: either a user message or
// feedback on a previous bot answer.
type ChatTurnRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
	Feedback  *bool  `json:"feedback"`
	MessageID *uint  `json:"message_id"`
}

// Chat godoc
// @Summary Chatbot conversation turn
// @Description Processes a chat message through intent analysis, catalog lookups and the LLM, or records feedback on a previous bot answer
// @Tags chatbot
// @Accept json
// @Produce json
// @Param body body ChatTurnRequest true "User message or feedback"
// @Success 200 {object} object "Bot reply with suggestions and metadata"
// @Failure 400 {object} object "Malformed request body"
// @Failure 500 {object} object "Unexpected processing failure"
// @Router /api/chatbot/chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	var req ChatTurnRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		logger.Log.Error("Invalid chat request body", zap.Error(err))
		ctx.JSON(http.StatusBadRequest, gin.H{
			"response": badRequestReply,
			"source":   model.SourceError,
		})
		return
	}

	// Feedback turns short-circuit the pipeline.
	if req.Feedback != nil && req.MessageID != nil {
		if err := c.ChatService.RecordFeedback(*req.MessageID, *req.Feedback); err != nil {
			logger.Log.Error("Failed to record chat feedback", zap.Error(err))
		}
		ctx.JSON(http.StatusOK, gin.H{"success": true})
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		ctx.JSON(http.StatusOK, gin.H{
			"response": validationPrompt,
			"source":   model.SourceValidation,
		})
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		logger.Log.Warn("Chat request without session_id")
		sessionID = "temp_" + model.GenerateUUID()
	}

	chatReq := service.ChatRequest{
		Message:     message,
		SessionID:   sessionID,
		Location:    ctx.GetHeader("X-Forwarded-For"),
		SourcePage:  ctx.GetHeader("Referer"),
		BrowserInfo: ctx.GetHeader("User-Agent"),
	}
	if claims := util.GetUserFromContext(ctx); claims != nil {
		chatReq.UserID = &claims.UserID
		chatReq.Username = claims.Username
	}

	result, err := c.ChatService.ProcessMessage(ctx.Request.Context(), chatReq)
	if err != nil {
		logger.Log.Error("Chat pipeline failed", zap.String("session_id", sessionID), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{
			"response": internalReply,
			"source":   model.SourceError,
		})
		return
	}

	payload := gin.H{
		"response":        result.Reply.Response,
		"source":          result.Reply.Source,
		"suggestions":     result.Reply.Suggestions,
		"message_id":      result.MessageID,
		"session_id":      result.SessionID,
		"processing_time": result.ProcessingTime,
	}
	if result.Reply.Intent != "" {
		payload["intent"] = result.Reply.Intent
	}
	if len(result.Reply.Entities) > 0 {
		payload["entities"] = result.Reply.Entities
	}

	ctx.JSON(http.StatusOK, payload)
}
