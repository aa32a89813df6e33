package service

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/util"
	"pulsebeat_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}

type fakeStore struct {
	conv     model.ChatConversation
	messages []*model.ChatMessage
	feedback map[uint]bool
	flags    map[uint]bool
	nextID   uint
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		conv:     model.ChatConversation{BaseModel: model.BaseModel{ID: 1}, SessionID: "s-1"},
		feedback: map[uint]bool{},
		flags:    map[uint]bool{},
	}
}

func (f *fakeStore) GetOrCreateConversation(sessionID string, userID *uint, location, sourcePage, browserInfo string) (*model.ChatConversation, error) {
	f.conv.SessionID = sessionID
	return &f.conv, nil
}

func (f *fakeStore) AppendMessage(msg *model.ChatMessage) error {
	f.nextID++
	msg.ID = f.nextID
	f.messages = append(f.messages, msg)
	return nil
}

func (f *fakeStore) RecentMessages(conversationID uint, limit int) ([]model.ChatMessage, error) {
	start := 0
	if len(f.messages) > limit {
		start = len(f.messages) - limit
	}
	out := make([]model.ChatMessage, 0, limit)
	for _, m := range f.messages[start:] {
		out = append(out, *m)
	}
	return out, nil
}

func (f *fakeStore) FindMessage(id uint) (*model.ChatMessage, error) {
	for _, m := range f.messages {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStore) SetFeedback(messageID uint, feedback bool) error {
	f.feedback[messageID] = feedback
	return nil
}

func (f *fakeStore) CreateReviewFlag(messageID uint) error {
	f.flags[messageID] = true
	return nil
}

type fakeCatalog struct {
	searchResults []model.Product
	featured      []model.Product
	details       *model.Product
	lastQuery     string
}

func (f *fakeCatalog) Search(query string, limit int) []model.Product {
	f.lastQuery = query
	return f.searchResults
}

func (f *fakeCatalog) Featured(limit int) []model.Product { return f.featured }

func (f *fakeCatalog) Details(nameOrID string) *model.Product { return f.details }

type fakeGenerator struct {
	result GenerationResult
	calls  int
}

func (f *fakeGenerator) Generate(ctx context.Context, message string, products []model.Product, history []model.ChatMessage, username string) GenerationResult {
	f.calls++
	return f.result
}

func newTestChatService(store *fakeStore, catalog *fakeCatalog, gen *fakeGenerator) *ChatService {
	return NewChatService(store, catalog, gen, NewResponderWithSeed(7))
}

func TestProcessMessageGreeting(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := newTestChatService(store, &fakeCatalog{}, gen)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "hey", SessionID: "s-1"})
	if err != nil {
		t.Fatal(err)
	}

	if result.Reply.Source != model.SourcePredefined {
		t.Fatalf("source = %q, want %q", result.Reply.Source, model.SourcePredefined)
	}
	if !inPool(result.Reply.Response, predefinedResponses[CannedGreeting]) {
		t.Fatalf("response %q not from the greeting pool", result.Reply.Response)
	}
	if gen.calls != 0 {
		t.Fatalf("generator called %d times for a canned greeting", gen.calls)
	}

	if len(store.messages) != 2 {
		t.Fatalf("stored %d messages, want user + bot", len(store.messages))
	}
	if store.messages[0].IsBot || !store.messages[1].IsBot {
		t.Fatal("message order must be user first, bot second")
	}
	if store.messages[1].ProcessingTime == nil {
		t.Fatal("bot message must record processing time")
	}
	if result.MessageID != store.messages[1].ID {
		t.Fatalf("message_id = %d, want the bot message id %d", result.MessageID, store.messages[1].ID)
	}
}

func TestProcessMessagePriceLookup(t *testing.T) {
	store := newFakeStore()
	catalog := &fakeCatalog{details: &model.Product{Name: "SoundWave X3", Price: 149.99}}
	gen := &fakeGenerator{}
	svc := newTestChatService(store, catalog, gen)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{
		Message:   "qué precio tiene, cuánto cuesta, hay ofertas del soundwave x3",
		SessionID: "s-1",
	})
	if err != nil {
		t.Fatal(err)
	}

	if result.Reply.Source != model.SourcePrice {
		t.Fatalf("source = %q, want %q", result.Reply.Source, model.SourcePrice)
	}
	if !strings.Contains(result.Reply.Response, "**SoundWave X3**") ||
		!strings.Contains(result.Reply.Response, "$149.99") {
		t.Fatalf("price reply missing product or price: %q", result.Reply.Response)
	}
	if len(result.Reply.Suggestions) == 0 || len(result.Reply.Suggestions) > 3 {
		t.Fatalf("suggestions = %v, want 1-3", result.Reply.Suggestions)
	}
	if gen.calls != 0 {
		t.Fatal("price questions with a known product must not reach the generator")
	}
}

func TestProcessMessagePriceWithoutProductAsksForIt(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := newTestChatService(store, &fakeCatalog{}, gen)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{
		Message:   "qué precio tiene, cuánto cuesta, hay ofertas del soundwave x3",
		SessionID: "s-1",
	})
	if err != nil {
		t.Fatal(err)
	}

	// Catalog has no such product, so the bot asks which one is meant.
	if result.Reply.Source != model.SourcePredefined {
		t.Fatalf("source = %q, want %q", result.Reply.Source, model.SourcePredefined)
	}
	if result.Reply.Response == "" {
		t.Fatal("clarification must carry text")
	}
}

func TestProcessMessageFallsThroughToGenerator(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{result: GenerationResult{Text: "Claro, puedo ayudarte 😊", Source: model.SourceOllama}}
	svc := newTestChatService(store, &fakeCatalog{}, gen)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "algo interesante", SessionID: "s-1"})
	if err != nil {
		t.Fatal(err)
	}

	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1", gen.calls)
	}
	if result.Reply.Source != model.SourceOllama {
		t.Fatalf("source = %q, want %q", result.Reply.Source, model.SourceOllama)
	}
	if result.Reply.Response != "Claro, puedo ayudarte 😊" {
		t.Fatalf("response = %q", result.Reply.Response)
	}
}

func TestProcessMessageStaticFallbackOnEmptyGeneration(t *testing.T) {
	store := newFakeStore()
	gen := &fakeGenerator{}
	svc := newTestChatService(store, &fakeCatalog{}, gen)

	result, err := svc.ProcessMessage(context.Background(), ChatRequest{Message: "algo interesante", SessionID: "s-1"})
	if err != nil {
		t.Fatal(err)
	}

	if result.Reply.Source != model.SourceFallback {
		t.Fatalf("source = %q, want %q", result.Reply.Source, model.SourceFallback)
	}
	if result.Reply.Response == "" {
		t.Fatal("fallback must carry text")
	}
}

func TestRecordFeedbackNegativeFlagsReview(t *testing.T) {
	store := newFakeStore()
	svc := newTestChatService(store, &fakeCatalog{}, &fakeGenerator{})

	bot := &model.ChatMessage{IsBot: true}
	store.AppendMessage(bot)

	if err := svc.RecordFeedback(bot.ID, false); err != nil {
		t.Fatal(err)
	}
	if got, ok := store.feedback[bot.ID]; !ok || got {
		t.Fatalf("feedback = %v/%v, want recorded negative", got, ok)
	}
	if !store.flags[bot.ID] {
		t.Fatal("negative feedback must file a review flag")
	}
}

func TestRecordFeedbackPositiveDoesNotFlag(t *testing.T) {
	store := newFakeStore()
	svc := newTestChatService(store, &fakeCatalog{}, &fakeGenerator{})

	bot := &model.ChatMessage{IsBot: true}
	store.AppendMessage(bot)

	if err := svc.RecordFeedback(bot.ID, true); err != nil {
		t.Fatal(err)
	}
	if store.flags[bot.ID] {
		t.Fatal("positive feedback must not file a review flag")
	}
}

func TestRecordFeedbackRejectsUserMessages(t *testing.T) {
	store := newFakeStore()
	svc := newTestChatService(store, &fakeCatalog{}, &fakeGenerator{})

	user := &model.ChatMessage{IsBot: false}
	store.AppendMessage(user)

	if err := svc.RecordFeedback(user.ID, false); err == nil {
		t.Fatal("feedback on a user message must fail")
	}
}

func TestRecordFeedbackUnknownMessage(t *testing.T) {
	store := newFakeStore()
	svc := newTestChatService(store, &fakeCatalog{}, &fakeGenerator{})

	if err := svc.RecordFeedback(99, false); !errors.Is(err, util.ErrMessageNotFound) {
		t.Fatalf("err = %v, want %v", err, util.ErrMessageNotFound)
	}
}
