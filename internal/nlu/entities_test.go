package nlu

import "testing"

func TestExtractProductTypeWithTrailingWords(t *testing.T) {
	entities := Extract("busco auriculares inalámbricos con bluetooth por favor")

	got := entities[EntityAudio]
	if len(got) != 1 {
		t.Fatalf("producto_audio = %v, want one match", got)
	}
	if got[0] != "auriculares inalámbricos con bluetooth" {
		t.Fatalf("match = %q, want the mention plus three trailing words", got[0])
	}
}

func TestExtractPriceAndKnownProduct(t *testing.T) {
	entities := Extract("¿El SoundWave X3 cuesta $150?")

	if got := entities[EntityPrice]; len(got) != 1 || got[0] != "$150" {
		t.Fatalf("precio = %v, want [$150]", got)
	}
	if got := entities[EntitySpecificProduct]; len(got) != 1 || got[0] != "soundwave x3" {
		t.Fatalf("producto_especifico = %v, want [soundwave x3]", got)
	}
}

func TestExtractTimeKeyword(t *testing.T) {
	entities := Extract("¿llega pasado mañana?")

	got := entities[EntityTime]
	if len(got) != 1 || got[0] != "pasado mañana" {
		t.Fatalf("tiempo = %v, want [pasado mañana]", got)
	}
}

func TestExtractOmitsEmptyTypes(t *testing.T) {
	entities := Extract("hola")

	if len(entities) != 0 {
		t.Fatalf("entities = %v, want none", entities)
	}
}

func TestExtractProductNamePrefersKnownProduct(t *testing.T) {
	name, ok := ExtractProductName("cuéntame más del RoomFill por favor")

	if !ok || name != "roomfill" {
		t.Fatalf("got (%q, %v), want (roomfill, true)", name, ok)
	}
}

func TestExtractProductNameFallsBackToLongestToken(t *testing.T) {
	name, ok := ExtractProductName("busco auriculares baratos")

	if !ok || name != "auriculares" {
		t.Fatalf("got (%q, %v), want (auriculares, true)", name, ok)
	}
}

func TestExtractProductNameFirstOccurrenceBreaksTies(t *testing.T) {
	name, ok := ExtractProductName("cascos azules")

	if !ok || name != "cascos" {
		t.Fatalf("got (%q, %v), want (cascos, true)", name, ok)
	}
}

func TestExtractProductNameNoneFromStopWords(t *testing.T) {
	if name, ok := ExtractProductName("el precio"); ok {
		t.Fatalf("got (%q, true), want no product", name)
	}
}
