package repository

import (
	"errors"
	"pulsebeat_backend/internal/model"
	"strings"
	"time"

	"gorm.io/gorm"
)

type ChatRepository struct {
	DB *gorm.DB
}

func NewChatRepository(db *gorm.DB) *ChatRepository {
	return &ChatRepository{DB: db}
}

// GetOrCreateConversation loads the conversation for a session id,
// creating it on first contact. session_id carries a unique index, so a
// racing create is recovered by refetching the winner's row.
func (r *ChatRepository) GetOrCreateConversation(sessionID string, userID *uint, location, sourcePage, browserInfo string) (*model.ChatConversation, error) {
	var conv model.ChatConversation
	err := r.DB.Where("session_id = ?", sessionID).First(&conv).Error
	if err == nil {
		if conv.UserID == nil && userID != nil {
			conv.UserID = userID
			if err := r.DB.Model(&conv).Update("user_id", userID).Error; err != nil {
				return nil, err
			}
		}
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = model.ChatConversation{
		SessionID:    sessionID,
		UserID:       userID,
		UserLocation: location,
		SourcePage:   sourcePage,
		BrowserInfo:  browserInfo,
	}
	if err := r.DB.Create(&conv).Error; err != nil {
		if strings.Contains(err.Error(), "Duplicate entry") {
			err = r.DB.Where("session_id = ?", sessionID).First(&conv).Error
			return &conv, err
		}
		return nil, err
	}
	return &conv, nil
}

// AppendMessage stores a message and bumps the conversation's
// updated_at in the same transaction, so "last activity" ordering stays
// consistent with the message log.
func (r *ChatRepository) AppendMessage(msg *model.ChatMessage) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.ChatConversation{}).
			Where("id = ?", msg.ConversationID).
			Update("updated_at", time.Now()).
			Error
	})
}

// RecentMessages returns the last limit messages of a conversation in
// chronological order, ready to paste into an LLM prompt.
func (r *ChatRepository) RecentMessages(conversationID uint, limit int) ([]model.ChatMessage, error) {
	var messages []model.ChatMessage
	err := r.DB.Where("conversation_id = ?", conversationID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *ChatRepository) FindMessage(id uint) (*model.ChatMessage, error) {
	var msg model.ChatMessage
	err := r.DB.First(&msg, id).Error
	return &msg, err
}

func (r *ChatRepository) SetFeedback(messageID uint, feedback bool) error {
	return r.DB.Model(&model.ChatMessage{}).
		Where("id = ?", messageID).
		Update("feedback", feedback).
		Error
}

// CreateReviewFlag files a bot answer for human review. Repeated
// negative feedback on the same message keeps a single flag.
func (r *ChatRepository) CreateReviewFlag(messageID uint) error {
	flag := model.TrainingFeedback{MessageID: messageID}
	return r.DB.Where("message_id = ?", messageID).
		Attrs(model.TrainingFeedback{Notes: "Retroalimentación negativa del usuario"}).
		FirstOrCreate(&flag).Error
}

func (r *ChatRepository) PendingReviewFlags(limit int) ([]model.TrainingFeedback, error) {
	var flags []model.TrainingFeedback
	err := r.DB.Preload("Message").
		Where("reviewed = ?", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&flags).Error
	return flags, err
}

func (r *ChatRepository) ResolveReviewFlag(id uint, correctResponse, notes string) error {
	return r.DB.Model(&model.TrainingFeedback{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"correct_response": correctResponse,
			"notes":            notes,
			"reviewed":         true,
		}).Error
}
