package service

import (
	"strings"
	"testing"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/nlu"
)

func TestPredefinedUnknownKind(t *testing.T) {
	r := NewResponderWithSeed(1)
	if got := r.Predefined("no_such_kind"); got != "" {
		t.Fatalf("Predefined(unknown) = %q, want empty", got)
	}
}

func TestPredefinedDrawsFromPool(t *testing.T) {
	r := NewResponderWithSeed(1)
	for i := 0; i < 20; i++ {
		got := r.Predefined(CannedGreeting)
		if !inPool(got, predefinedResponses[CannedGreeting]) {
			t.Fatalf("Predefined(greeting) = %q, not in pool", got)
		}
	}
}

func TestSuggestionsCappedAtThree(t *testing.T) {
	r := NewResponderWithSeed(1)

	got := r.Suggestions(nlu.IntentProductSearch)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for _, s := range got {
		if !inPool(s, contextualSuggestions[nlu.IntentProductSearch]) {
			t.Fatalf("suggestion %q not from the intent's pool", s)
		}
	}
}

func TestSuggestionsDefaultForUnknownIntent(t *testing.T) {
	r := NewResponderWithSeed(1)

	got := r.Suggestions("intencion_inexistente")
	if len(got) != len(defaultSuggestions) {
		t.Fatalf("len = %d, want %d", len(got), len(defaultSuggestions))
	}
	for i, s := range got {
		if s != defaultSuggestions[i] {
			t.Fatalf("got[%d] = %q, want %q", i, s, defaultSuggestions[i])
		}
	}
}

func TestFormatBotResponseAddsEmojiToLLMText(t *testing.T) {
	r := NewResponderWithSeed(1)

	reply := r.FormatBotResponse("Claro que puedo ayudarte", model.SourceOllama, nlu.IntentGeneral, nil)
	if reply.Response == "Claro que puedo ayudarte" {
		t.Fatal("expected an emoji appended to emoji-less LLM output")
	}
	if !strings.HasPrefix(reply.Response, "Claro que puedo ayudarte ") {
		t.Fatalf("response = %q, want original text plus emoji", reply.Response)
	}
}

func TestFormatBotResponseKeepsExistingEmoji(t *testing.T) {
	r := NewResponderWithSeed(1)

	text := "Claro que puedo ayudarte 😊"
	reply := r.FormatBotResponse(text, model.SourceOllama, nlu.IntentGeneral, nil)
	if reply.Response != text {
		t.Fatalf("response = %q, want unchanged", reply.Response)
	}
}

func TestFormatBotResponseLeavesCannedTextAlone(t *testing.T) {
	r := NewResponderWithSeed(1)

	text := "respuesta sin emoji"
	reply := r.FormatBotResponse(text, model.SourcePredefined, nlu.IntentGeneral, nil)
	if reply.Response != text {
		t.Fatalf("response = %q, want unchanged for non-LLM sources", reply.Response)
	}
}

func TestFormatBotResponseCarriesEntities(t *testing.T) {
	r := NewResponderWithSeed(1)

	entities := nlu.EntitySet{nlu.EntitySpecificProduct: {"roomfill"}}
	reply := r.FormatBotResponse("ok", model.SourcePrice, nlu.IntentPrice, entities)

	if reply.Intent != nlu.IntentPrice {
		t.Fatalf("intent = %q, want %q", reply.Intent, nlu.IntentPrice)
	}
	if len(reply.Entities[nlu.EntitySpecificProduct]) != 1 {
		t.Fatalf("entities = %v, want the extracted product", reply.Entities)
	}
}

func TestFormatProductRecommendationsEmptyList(t *testing.T) {
	r := NewResponderWithSeed(1)

	got := r.FormatProductRecommendations(nil, "auriculares")
	if !inPool(got, predefinedResponses[CannedProductsNotFound]) {
		t.Fatalf("empty catalog reply %q not from the not-found pool", got)
	}
}

func TestFormatProductRecommendationsListsEveryProduct(t *testing.T) {
	r := NewResponderWithSeed(1)
	products := []model.Product{
		{Name: "SoundWave X3", Price: 149.99, Category: model.CategoryHeadphones, Description: "Graves profundos."},
		{Name: "PulseBox", Price: 79.99, Category: model.CategorySpeakers},
	}

	got := r.FormatProductRecommendations(products, "audio")
	for _, want := range []string{"1. **SoundWave X3** - $149.99", "2. **PulseBox** - $79.99", "Graves profundos."} {
		if !strings.Contains(got, want) {
			t.Fatalf("recommendations missing %q:\n%s", want, got)
		}
	}
}

func TestFormatSingleProductDetails(t *testing.T) {
	r := NewResponderWithSeed(1)
	product := &model.Product{
		Name:        "RoomFill",
		Price:       129.99,
		Category:    model.CategoryStreaming,
		Description: "Reproductor multiroom.",
	}

	got := r.FormatSingleProductDetails(product)
	for _, want := range []string{"**RoomFill**", "$129.99", "Streaming", "Reproductor multiroom."} {
		if !strings.Contains(got, want) {
			t.Fatalf("details missing %q:\n%s", want, got)
		}
	}
}

func TestSeededRespondersAgree(t *testing.T) {
	a := NewResponderWithSeed(42)
	b := NewResponderWithSeed(42)

	for i := 0; i < 10; i++ {
		if x, y := a.Predefined(CannedGreeting), b.Predefined(CannedGreeting); x != y {
			t.Fatalf("draw %d diverged: %q vs %q", i, x, y)
		}
	}
}

func inPool(s string, pool []string) bool {
	for _, p := range pool {
		if s == p {
			return true
		}
	}
	return false
}
