package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Response source tags carried on every bot message.
const (
	SourceUser           = "user"
	SourcePredefined     = "predefined"
	SourceProducts       = "products"
	SourcePrice          = "price"
	SourceProductDetails = "product_details"
	SourceOllama         = "ollama"
	SourceFallback       = "fallback"
	SourceError          = "error"
	SourceValidation     = "validation"
)

// EntityMap stores detected entities as a JSON text column. Keys are
// entity types, values the matched substrings.
type EntityMap map[string][]string

func (m EntityMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *EntityMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported entity column type %T", value)
	}
}

// ChatConversation groups the messages of one chat session. The session id
// is the idempotency key; the user reference is weak so anonymous sessions
// survive on their own.
type ChatConversation struct {
	BaseModel
	SessionID    string        `gorm:"size:100;uniqueIndex;not null" json:"session_id"`
	UserID       *uint         `gorm:"index" json:"user_id,omitempty"`
	User         *User         `json:"-"`
	UserLocation string        `gorm:"size:100" json:"user_location,omitempty"`
	SourcePage   string        `gorm:"size:255" json:"source_page,omitempty"`
	BrowserInfo  string        `gorm:"type:text" json:"browser_info,omitempty"`
	Messages     []ChatMessage `gorm:"foreignKey:ConversationID" json:"-"`
}

func (ChatConversation) TableName() string {
	return "chat_conversations"
}

// ChatMessage is one turn of a conversation. Feedback is the only field
// mutated after creation, and only on bot messages.
type ChatMessage struct {
	BaseModel
	ConversationID   uint      `gorm:"index;not null" json:"conversation_id"`
	Content          string    `gorm:"type:text;not null" json:"content"`
	IsBot            bool      `gorm:"default:false" json:"is_bot"`
	Source           string    `gorm:"size:50;default:'user'" json:"source"`
	DetectedIntent   string    `gorm:"size:100" json:"detected_intent,omitempty"`
	DetectedEntities EntityMap `gorm:"type:json" json:"detected_entities,omitempty"`
	Feedback         *bool     `json:"feedback,omitempty"`
	ProcessingTime   *float64  `json:"processing_time,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}

// TrainingFeedback is filed when a bot message gets negative feedback so a
// human can review it later. Never deleted by the chat flow.
type TrainingFeedback struct {
	BaseModel
	MessageID       uint         `gorm:"index;not null" json:"message_id"`
	Message         *ChatMessage `json:"-"`
	CorrectResponse string       `gorm:"type:text" json:"correct_response,omitempty"`
	Notes           string       `gorm:"type:text" json:"notes,omitempty"`
	Reviewed        bool         `gorm:"default:false" json:"reviewed"`
}

func (TrainingFeedback) TableName() string {
	return "training_feedback"
}
