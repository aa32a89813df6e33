package service

import (
	"testing"

	"pulsebeat_backend/internal/model"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"SoundWave X3", "soundwave-x3"},
		{"  BassBoost   Elite  ", "bassboost-elite"},
		{"RoomFill (2024)", "roomfill-2024"},
	}
	for _, tt := range tests {
		if got := Slugify(tt.name); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestNormalizeCategory(t *testing.T) {
	tests := []struct {
		in   string
		want model.ProductCategory
	}{
		{"headphones", model.CategoryHeadphones},
		{" SPEAKERS ", model.CategorySpeakers},
		{"streaming", model.CategoryStreaming},
		{"Headphones", model.CategoryHeadphones},
		{"vinilos", model.ProductCategory("vinilos")},
	}
	for _, tt := range tests {
		if got := model.NormalizeCategory(tt.in); got != tt.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCartTotal(t *testing.T) {
	carts := NewCartService(nil, nil)
	cart := &model.Cart{
		Items: []model.CartItem{
			{Product: model.Product{Price: 149.99}, Quantity: 2},
			{Product: model.Product{Price: 79.99}, Quantity: 1},
		},
	}

	if got, want := carts.Total(cart), 149.99*2+79.99; got != want {
		t.Fatalf("Total = %v, want %v", got, want)
	}
}
