package nlu

import (
	"strings"
	"unicode/utf8"
)

// EntitySet maps entity types to their matched substrings. A type with no
// matches is absent, never present with an empty list.
type EntitySet map[string][]string

// Extract pulls structured mentions out of raw text: product-type
// phrases, price tokens, temporal keywords and known product names. The
// passes are independent and additive.
func Extract(text string) EntitySet {
	msg := normalize(text)
	entities := EntitySet{}

	for _, p := range productPatterns {
		if matches := p.re.FindAllString(msg, -1); len(matches) > 0 {
			entities[p.entityType] = matches
		}
	}

	if matches := priceRe.FindAllString(msg, -1); len(matches) > 0 {
		entities[EntityPrice] = matches
	}

	if matches := timeRe.FindAllString(msg, -1); len(matches) > 0 {
		entities[EntityTime] = matches
	}

	for _, product := range knownProducts {
		if strings.Contains(msg, product) {
			entities[EntitySpecificProduct] = append(entities[EntitySpecificProduct], product)
		}
	}

	return entities
}

// ExtractProductName guesses which product the message is about. A known
// product name always wins; otherwise the longest token that survives the
// stop-word and short-token filters is taken, first occurrence breaking
// ties.
func ExtractProductName(text string) (string, bool) {
	entities := Extract(text)
	if specifics := entities[EntitySpecificProduct]; len(specifics) > 0 {
		return specifics[0], true
	}

	best := ""
	bestLen := 0
	for _, word := range strings.Fields(normalize(text)) {
		n := utf8.RuneCountInString(word)
		if n <= 3 || stopWords[word] {
			continue
		}
		if n > bestLen {
			best = word
			bestLen = n
		}
	}

	if best == "" {
		return "", false
	}
	return best, true
}
