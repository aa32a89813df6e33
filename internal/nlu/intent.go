// Package nlu holds the chatbot's pattern-based intent classifier and
// entity extractor. Both are pure functions over normalized text: no
// side effects, no error paths, deterministic output. The pattern tables
// are package-level and read-only after init.
package nlu

import "strings"

// IntentResult is the outcome of classifying one message. Confidence is
// the winning category's rule-match count over the total across all
// matched categories, so it always lands in (0, 1].
type IntentResult struct {
	Primary    string         `json:"primary_intent"`
	Confidence float64        `json:"confidence"`
	All        map[string]int `json:"all_intents"`
}

// Classify maps raw user text to its primary intent. Each category
// contributes the number of its rules that match anywhere in the text; a
// rule matching several times still counts once. With no matches at all
// the message defaults to the general intent at full confidence.
func Classify(text string) IntentResult {
	msg := normalize(text)

	matched := make(map[string]int)
	for _, cat := range intentCategories {
		count := 0
		for _, rule := range cat.rules {
			if rule.MatchString(msg) {
				count++
			}
		}
		if count > 0 {
			matched[cat.name] = count
		}
	}

	if len(matched) == 0 {
		return IntentResult{
			Primary:    IntentGeneral,
			Confidence: 1.0,
			All:        map[string]int{IntentGeneral: 1},
		}
	}

	total := 0
	for _, n := range matched {
		total += n
	}

	// Walk categories in declaration order so ties resolve the same way
	// every time.
	primary := ""
	best := 0
	for _, cat := range intentCategories {
		if n := matched[cat.name]; n > best {
			primary = cat.name
			best = n
		}
	}

	return IntentResult{
		Primary:    primary,
		Confidence: float64(best) / float64(total),
		All:        matched,
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
