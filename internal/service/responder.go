package service

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/nlu"
)

// Canned response kinds understood by Responder.Predefined.
const (
	CannedGreeting         = "saludo"
	CannedFarewell         = "despedida"
	CannedThanks           = "agradecimiento"
	CannedProductsNotFound = "productos_no_encontrados"
	CannedGenericError     = "error_generico"
)

var predefinedResponses = map[string][]string{
	CannedGreeting: {
		"¡Hola! Soy el asistente virtual de PulseBeat Tech. ¿En qué puedo ayudarte hoy? 😊",
		"¡Bienvenido a PulseBeat Tech! Estoy aquí para ayudarte con nuestros productos de audio. ¿Qué estás buscando? 🎧",
		"¡Hola! Encantado de atenderte. ¿Cómo puedo asistirte con nuestros productos? 👋",
	},
	CannedFarewell: {
		"¡Gracias por contactarnos! Si necesitas algo más, estaré aquí para ayudarte. ¡Hasta pronto! 👋",
		"Ha sido un placer ayudarte. ¡Vuelve pronto! 😊",
		"¡Que tengas un excelente día! Estamos para servirte cuando lo necesites. 🎵",
	},
	CannedThanks: {
		"¡De nada! Estoy aquí para ayudarte. ¿Hay algo más en lo que pueda asistirte? 😊",
		"Es un placer poder ayudarte. ¿Necesitas algo más? 🎧",
		"No hay de qué. ¿Puedo ayudarte con algo más sobre nuestros productos? 👍",
	},
	CannedProductsNotFound: {
		"Lo siento, no encontré productos que coincidan con tu búsqueda. ¿Puedes ser más específico o quieres ver nuestras categorías disponibles? 🔍",
		"No tenemos productos que coincidan exactamente con esa descripción. ¿Te gustaría ver alternativas similares o explorar nuestro catálogo? 📋",
		"No encontré resultados para esa consulta. ¿Quieres que te muestre nuestros productos más populares? 🎧",
	},
	CannedGenericError: {
		"Lo siento, estoy teniendo problemas para procesar tu solicitud. ¿Puedes intentarlo de nuevo o preguntar de otra forma? 🔄",
		"Parece que hay un problema técnico. ¿Podemos intentar con otra consulta? 🛠️",
		"No pude completar esa operación. ¿Puedo ayudarte con algo más mientras tanto? 🤔",
	},
}

var contextualSuggestions = map[string][]string{
	nlu.IntentProductSearch: {
		"Ver más detalles",
		"Comparar modelos",
		"Ver precio",
		"Añadir al carrito",
	},
	nlu.IntentPrice: {
		"Ver especificaciones",
		"Comparar con otros modelos",
		"Ver opiniones",
		"Añadir al carrito",
	},
	nlu.IntentProductInfo: {
		"Ver precio",
		"Ver productos similares",
		"Conocer disponibilidad",
		"Añadir al carrito",
	},
	nlu.IntentSupport: {
		"Contactar soporte",
		"Ver garantía",
		"Preguntar por reembolso",
		"Buscar solución",
	},
}

var defaultSuggestions = []string{"Ver productos", "Preguntar precio", "Contactar soporte"}

var responseEmojis = []string{"😊", "👍", "🎧", "🎵", "🔊", "💰", "📦", "🎚️", "🎛️"}

var emojiMarkers = []string{"😊", "👍", "🎧", "💰", "📦"}

// BotReply is the chat payload as the frontend widget consumes it. The
// controller adds message_id, session_id and processing_time on top.
type BotReply struct {
	Response    string        `json:"response"`
	Source      string        `json:"source"`
	Suggestions []string      `json:"suggestions"`
	Intent      string        `json:"intent,omitempty"`
	Entities    nlu.EntitySet `json:"entities,omitempty"`
}

// Responder assembles user-facing chat text: canned answers, product
// lists and the follow-up suggestions attached to every reply. All
// randomness goes through one seedable source so tests stay
// deterministic.
type Responder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewResponder() *Responder {
	return NewResponderWithSeed(time.Now().UnixNano())
}

func NewResponderWithSeed(seed int64) *Responder {
	return &Responder{rng: rand.New(rand.NewSource(seed))}
}

func (r *Responder) pick(options []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return options[r.rng.Intn(len(options))]
}

func (r *Responder) sample(options []string, n int) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	idx := r.rng.Perm(len(options))[:n]
	out := make([]string, 0, n)
	for _, i := range idx {
		out = append(out, options[i])
	}
	return out
}

// Predefined returns a random canned answer of the given kind, or ""
// when the kind is unknown.
func (r *Responder) Predefined(kind string) string {
	pool, ok := predefinedResponses[kind]
	if !ok {
		return ""
	}
	return r.pick(pool)
}

// Suggestions returns up to three follow-up chips for an intent.
func (r *Responder) Suggestions(intent string) []string {
	pool, ok := contextualSuggestions[intent]
	if !ok {
		return append([]string(nil), defaultSuggestions...)
	}
	if len(pool) > 3 {
		return r.sample(pool, 3)
	}
	return append([]string(nil), pool...)
}

// FormatBotResponse wraps raw text into the wire reply, guaranteeing an
// emoji on LLM output and attaching contextual suggestions.
func (r *Responder) FormatBotResponse(text, source, intent string, entities nlu.EntitySet) BotReply {
	if source == model.SourceOllama && !containsAny(text, emojiMarkers) {
		text += " " + r.pick(responseEmojis)
	}

	reply := BotReply{
		Response: text,
		Source:   source,
		Intent:   intent,
	}
	if intent != "" {
		reply.Suggestions = r.Suggestions(intent)
	} else {
		reply.Suggestions = []string{}
	}
	if len(entities) > 0 {
		reply.Entities = entities
	}
	return reply
}

// FormatProductRecommendations renders a numbered product list with a
// random intro and follow-up question. An empty list falls back to the
// "nothing found" canned pool.
func (r *Responder) FormatProductRecommendations(products []model.Product, query string) string {
	if len(products) == 0 {
		return r.Predefined(CannedProductsNotFound)
	}

	intros := []string{
		fmt.Sprintf("He encontrado %d productos que podrían interesarte:", len(products)),
		fmt.Sprintf("Aquí tienes %d recomendaciones basadas en tu búsqueda:", len(products)),
	}
	if query != "" {
		intros = append(intros, fmt.Sprintf("Estos son los productos que coinciden con '%s':", query))
	} else {
		intros = append(intros, "Estos productos podrían interesarte:")
	}

	var b strings.Builder
	b.WriteString(r.pick(intros))
	b.WriteString("\n\n")

	for i, product := range products {
		fmt.Fprintf(&b, "%d. **%s** - $%.2f\n", i+1, product.Name, product.Price)
		if product.Description != "" {
			fmt.Fprintf(&b, "   %s\n", truncate(product.Description, 100))
		}
		if product.Category != "" {
			fmt.Fprintf(&b, "   Categoría: %s\n", product.Category)
		}
		if i < len(products)-1 {
			b.WriteString("\n")
		}
	}

	followups := []string{
		"¿Te gustaría más información sobre alguno de estos productos? 🎧",
		"¿Hay algún producto específico que te interese conocer más? 🔍",
		"¿Puedo ayudarte a decidir cuál se adapta mejor a tus necesidades? 🤔",
	}
	b.WriteString("\n")
	b.WriteString(r.pick(followups))

	return b.String()
}

// FormatSingleProductDetails renders a product card with a random
// call-to-action.
func (r *Responder) FormatSingleProductDetails(product *model.Product) string {
	if product == nil {
		return r.Predefined(CannedProductsNotFound)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", product.Name)
	fmt.Fprintf(&b, "💰 **Precio:** $%.2f\n", product.Price)
	if product.Category != "" {
		fmt.Fprintf(&b, "🏷️ **Categoría:** %s\n", product.Category)
	}
	if product.Description != "" {
		fmt.Fprintf(&b, "\n📝 **Descripción:**\n%s\n", product.Description)
	}

	ctas := []string{
		"¿Te gustaría añadir este producto al carrito? 🛒",
		"¿Quieres ver productos similares o tienes alguna pregunta específica? 🔍",
		"Si estás interesado, puedo ayudarte con el proceso de compra. ¿Qué te parece? 💳",
	}
	b.WriteString("\n")
	b.WriteString(r.pick(ctas))

	return b.String()
}

func containsAny(s string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(s, m) {
			return true
		}
	}
	return false
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}
