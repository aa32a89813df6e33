package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/service"
	"pulsebeat_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type memStore struct {
	messages []*model.ChatMessage
	feedback map[uint]bool
	flags    map[uint]bool
	nextID   uint
}

func newMemStore() *memStore {
	return &memStore{feedback: map[uint]bool{}, flags: map[uint]bool{}}
}

func (s *memStore) GetOrCreateConversation(sessionID string, userID *uint, location, sourcePage, browserInfo string) (*model.ChatConversation, error) {
	return &model.ChatConversation{BaseModel: model.BaseModel{ID: 1}, SessionID: sessionID}, nil
}

func (s *memStore) AppendMessage(msg *model.ChatMessage) error {
	s.nextID++
	msg.ID = s.nextID
	s.messages = append(s.messages, msg)
	return nil
}

func (s *memStore) RecentMessages(conversationID uint, limit int) ([]model.ChatMessage, error) {
	return nil, nil
}

func (s *memStore) FindMessage(id uint) (*model.ChatMessage, error) {
	for _, m := range s.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *memStore) SetFeedback(messageID uint, feedback bool) error {
	s.feedback[messageID] = feedback
	return nil
}

func (s *memStore) CreateReviewFlag(messageID uint) error {
	s.flags[messageID] = true
	return nil
}

type emptyCatalog struct{}

func (emptyCatalog) Search(query string, limit int) []model.Product { return nil }
func (emptyCatalog) Featured(limit int) []model.Product { return nil }
func (emptyCatalog) Details(nameOrID string) *model.Product { return nil }

type stubGenerator struct{}

func (stubGenerator) Generate(ctx context.Context, message string, products []model.Product, history []model.ChatMessage, username string) service.GenerationResult {
	return service.GenerationResult{Text: "Claro 😊", Source: model.SourceOllama}
}

func newChatRouter(store *memStore) *gin.Engine {
	chatService := service.NewChatService(store, emptyCatalog{}, stubGenerator{}, service.NewResponderWithSeed(7))
	ctrl := NewChatController(chatService)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.POST("/api/chatbot/chat", ctrl.Chat)
	return router
}

func postChat(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/chatbot/chat", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestChatRejectsNonPost(t *testing.T) {
	router := newChatRouter(newMemStore())

	req := httptest.NewRequest(http.MethodGet, "/api/chatbot/chat", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", w.Code)
	}
}

func TestChatEmptyMessage(t *testing.T) {
	router := newChatRouter(newMemStore())

	w := postChat(t, router, `{"message":"   ","session_id":"s-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["source"] != model.SourceValidation {
		t.Fatalf("source = %v, want %q", resp["source"], model.SourceValidation)
	}
	if resp["response"] == "" {
		t.Fatal("validation reply must carry text")
	}
}

func TestChatMalformedBody(t *testing.T) {
	router := newChatRouter(newMemStore())

	w := postChat(t, router, `{"message":`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["source"] != model.SourceError {
		t.Fatalf("source = %v, want %q", resp["source"], model.SourceError)
	}
}

func TestChatSynthesizesSessionID(t *testing.T) {
	router := newChatRouter(newMemStore())

	w := postChat(t, router, `{"message":"hey"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	session, _ := resp["session_id"].(string)
	if !strings.HasPrefix(session, "temp_") {
		t.Fatalf("session_id = %q, want a temp_ session", session)
	}
}

func TestChatFullTurnPayload(t *testing.T) {
	store := newMemStore()
	router := newChatRouter(store)

	w := postChat(t, router, `{"message":"hey","session_id":"widget-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp["session_id"] != "widget-1" {
		t.Fatalf("session_id = %v", resp["session_id"])
	}
	if resp["source"] != model.SourcePredefined {
		t.Fatalf("source = %v, want %q", resp["source"], model.SourcePredefined)
	}
	if _, ok := resp["message_id"].(float64); !ok {
		t.Fatalf("message_id missing or not numeric: %v", resp["message_id"])
	}
	if _, ok := resp["processing_time"].(float64); !ok {
		t.Fatalf("processing_time missing: %v", resp["processing_time"])
	}
	if suggestions, ok := resp["suggestions"].([]interface{}); !ok || len(suggestions) == 0 {
		t.Fatalf("suggestions missing: %v", resp["suggestions"])
	}
}

func TestChatFeedbackRoundTrip(t *testing.T) {
	store := newMemStore()
	router := newChatRouter(store)

	// First turn produces a bot message to rate.
	w := postChat(t, router, `{"message":"hey","session_id":"widget-1"}`)
	var first map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &first); err != nil {
		t.Fatal(err)
	}
	botID := uint(first["message_id"].(float64))

	w = postChat(t, router, `{"feedback":false,"message_id":`+jsonUint(botID)+`,"session_id":"widget-1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["success"] != true {
		t.Fatalf("body = %v, want success true", resp)
	}

	if got, ok := store.feedback[botID]; !ok || got {
		t.Fatalf("feedback = %v/%v, want recorded negative", got, ok)
	}
	if !store.flags[botID] {
		t.Fatal("negative feedback must flag the message for review")
	}
}

func jsonUint(v uint) string {
	b, _ := json.Marshal(v)
	return string(b)
}
