package model

import "strings"

type ProductCategory string

const (
	CategoryHeadphones ProductCategory = "Headphones"
	CategorySpeakers   ProductCategory = "Speakers"
	CategoryStreaming  ProductCategory = "Streaming"
)

// AllCategories returns the catalog categories in display order.
func AllCategories() []ProductCategory {
	return []ProductCategory{CategoryHeadphones, CategorySpeakers, CategoryStreaming}
}

// NormalizeCategory maps loose category words to the canonical label.
// Unrecognized input passes through unchanged so the query simply finds
// nothing.
func NormalizeCategory(category string) ProductCategory {
	switch strings.ToLower(strings.TrimSpace(category)) {
	case "headphones":
		return CategoryHeadphones
	case "speakers":
		return CategorySpeakers
	case "streaming":
		return CategoryStreaming
	}
	return ProductCategory(category)
}

// swagger:model Product
type Product struct {
	BaseModel
	Name        string          `gorm:"size:100;not null;index" json:"name"`
	Slug        string          `gorm:"size:120;uniqueIndex;not null" json:"slug"`
	Image       string          `gorm:"size:255" json:"image"`
	Description string          `gorm:"type:text" json:"description"`
	Price       float64         `gorm:"not null" json:"price"`
	Category    ProductCategory `gorm:"type:enum('Headphones','Speakers','Streaming')" json:"category"`
	Featured    bool            `gorm:"default:false" json:"featured"`
}

func (Product) TableName() string {
	return "products"
}
