package nlu

import "regexp"

// Intent labels. The wire format keeps the Spanish labels the store
// frontend already understands.
const (
	IntentProductSearch = "busqueda_producto"
	IntentProductInfo   = "info_producto"
	IntentPrice         = "precio_producto"
	IntentComparison    = "comparacion_productos"
	IntentPurchase      = "compra_carrito"
	IntentShipping      = "envio_entrega"
	IntentSupport       = "soporte_problema"
	IntentGeneral       = "general"
)

// Entity type keys.
const (
	EntityAudio           = "producto_audio"
	EntitySpeaker         = "producto_altavoz"
	EntityStreaming       = "producto_streaming"
	EntityPrice           = "precio"
	EntityTime            = "tiempo"
	EntitySpecificProduct = "producto_especifico"
)

// intentCategory couples an intent label with its rule set. Declaration
// order is significant: ties are broken by the first category to reach
// the winning match count, which keeps classification deterministic.
type intentCategory struct {
	name  string
	rules []*regexp.Regexp
}

var intentCategories = []intentCategory{
	{IntentProductSearch, compileAll(
		`(?:busco|quiero|necesito|tienen|venden|hay)(?:.*)(?:auriculares|audífonos|altavoces|speakers|dispositivos)`,
		`(?:me interesan?|me gustan?)(?:.*)(?:productos|auriculares|altavoces)`,
		`(?:cuáles|que)(?:.*)(?:productos|modelos|opciones)(?:.*)(?:tienen|ofrecen)`,
		`(?:estoy buscando)(?:.*)`,
		`(?:muestrame|muéstrame|muestra|ver)(?:.*)(?:productos|catálogo|ofertas)`,
	)},
	{IntentProductInfo, compileAll(
		`(?:cómo|como)(?:.*)(?:funciona|es)(?:.*)`,
		`(?:características|caracteristicas|specs|especificaciones)(?:.*)`,
		`(?:detalles|información|informacion)(?:.*)(?:sobre|de|del)(?:.*)`,
		`(?:me puedes contar|explícame|explicame)(?:.*)(?:sobre|acerca)`,
		`(?:color|tamaño|peso|dimensiones|material)`,
	)},
	{IntentPrice, compileAll(
		`(?:cuánto|cuanto)(?:.*)(?:cuesta|vale|es el precio|es el costo)`,
		`(?:precio|costo|valor)(?:.*)(?:de|del|de los|sobre)`,
		`(?:qué|que)(?:.*)(?:precio|costo)`,
		`(?:es caro|es barato|económico|economico)`,
		`(?:ofertas|descuentos|promociones)`,
	)},
	{IntentComparison, compileAll(
		`(?:comparar|comparación|comparacion)(?:.*)`,
		`(?:diferencias|diferencia)(?:.*)(?:entre|con)`,
		`(?:qué|que|cual|cuál)(?:.*)(?:mejor|peor|recomendable)`,
		`(?:ventajas|desventajas)(?:.*)`,
		`(?:versus|vs|o)(?:.*)`,
	)},
	{IntentPurchase, compileAll(
		`(?:comprar|adquirir|conseguir)(?:.*)`,
		`(?:añadir|anadir|agregar|poner)(?:.*)(?:carrito|cesta|carro)`,
		`(?:cómo|como)(?:.*)(?:compro|comprar|adquiero|puedo comprar)`,
		`(?:proceso de compra|checkout)`,
		`(?:pasarela de pago|pagar)`,
	)},
	{IntentShipping, compileAll(
		`(?:envío|envio|enviar|envían|envian|mandan)(?:.*)`,
		`(?:entrega|recibir|recibo|llega)(?:.*)`,
		`(?:cuánto|cuanto)(?:.*)(?:tarda|demora|toma|tiempo)`,
		`(?:a domicilio|shipping|seguimiento|tracking)`,
		`(?:internacional|fuera del país|fuera del pais)`,
	)},
	{IntentSupport, compileAll(
		`(?:problema|issue|error|falla|no funciona)(?:.*)`,
		`(?:ayuda|soporte|asistencia)(?:.*)(?:con|sobre|para)`,
		`(?:garantía|garantia|servicio|reparación|reparacion)`,
		`(?:no puedo|tengo problemas|dificultad)`,
		`(?:se dañó|se daño|roto|descompuesto)`,
	)},
	{IntentGeneral, compileAll(
		`(?:hola|hey|saludos|buenos días|buenas tardes|buenas noches)`,
		`(?:gracias|muchas gracias|te agradezco|agradecido)`,
		`(?:adiós|adios|chao|hasta luego|hasta pronto)`,
		`(?:cómo estás|como estas|qué tal|que tal)`,
		`(?:quién eres|quien eres|qué eres|que eres|tu nombre)`,
	)},
}

// Product-type patterns capture the mention plus up to three trailing
// words ("auriculares inalámbricos con bluetooth").
var productPatterns = []struct {
	re         *regexp.Regexp
	entityType string
}{
	{regexp.MustCompile(`(?:auriculares|audífonos|headphones)(?:\s[\p{L}\p{N}_]+){0,3}`), EntityAudio},
	{regexp.MustCompile(`(?:altavoces|bocinas|speakers|parlantes)(?:\s[\p{L}\p{N}_]+){0,3}`), EntitySpeaker},
	{regexp.MustCompile(`(?:streaming|streamer|reproductor)(?:\s[\p{L}\p{N}_]+){0,3}`), EntityStreaming},
}

var (
	priceRe = regexp.MustCompile(`\$\s*\d+(?:[.,]\d+)?|\d+(?:[.,]\d+)?\s*(?:dólares|dolares|pesos)`)
	timeRe  = regexp.MustCompile(`(?:hoy|mañana|pasado mañana|ayer|próxima semana|proximo mes)`)
)

// knownProducts mirrors the seeded catalog; matched as lowercase
// substrings before any token heuristics run.
var knownProducts = []string{
	"pulsebeat pro", "soundwave x3", "bassboost elite", "soundtower",
	"pulsebox", "roomfill",
}

var stopWords = map[string]bool{
	"producto": true, "productos": true, "el": true, "la": true, "los": true,
	"las": true, "un": true, "una": true, "unos": true, "unas": true,
	"vender": true, "venden": true, "tiene": true, "tienen": true,
	"quiero": true, "busco": true, "precio": true, "precios": true,
	"cuanto": true, "cuánto": true, "cuesta": true, "cuestan": true,
	"sobre": true, "acerca": true, "para": true, "como": true, "cómo": true,
}

func compileAll(patterns ...string) []*regexp.Regexp {
	rules := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		rules = append(rules, regexp.MustCompile(p))
	}
	return rules
}
