package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/repository"
	"pulsebeat_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	featuredCacheKey = "products:featured"
	featuredCacheTTL = 5 * time.Minute
	chatSearchLimit  = 5
)

// ProductService serves the shop catalog and doubles as the chatbot's
// product lookup. Chat-facing methods degrade to empty results instead
// of failing, so a catalog hiccup never breaks a conversation.
type ProductService struct {
	repo  *repository.ProductRepository
	redis *redis.Client
}

func NewProductService(repo *repository.ProductRepository, rdb *redis.Client) *ProductService {
	return &ProductService{repo: repo, redis: rdb}
}

func (s *ProductService) List() ([]model.Product, error) {
	return s.repo.FindAll()
}

func (s *ProductService) GetBySlug(slug string) (*model.Product, error) {
	return s.repo.FindBySlug(slug)
}

func (s *ProductService) GetByID(id uint) (*model.Product, error) {
	return s.repo.FindByID(id)
}

func (s *ProductService) Create(product *model.Product) error {
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}
	return s.repo.Create(product)
}

func (s *ProductService) Update(product *model.Product) error {
	return s.repo.Update(product)
}

func (s *ProductService) Delete(id uint) error {
	return s.repo.Delete(id)
}

// ByCategory accepts loose category words and normalizes them to the
// canonical labels before filtering.
func (s *ProductService) ByCategory(category string) []model.Product {
	products, err := s.repo.FindByCategory(model.NormalizeCategory(category))
	if err != nil {
		logger.Log.Error("Product lookup by category failed", zap.String("category", category), zap.Error(err))
		return []model.Product{}
	}
	return products
}

// Categories lists the catalog categories.
func (s *ProductService) Categories() []model.ProductCategory {
	return model.AllCategories()
}

// Search backs the chat pipeline. Queries shorter than three runes are
// too ambiguous to match against, so they get the featured list instead.
func (s *ProductService) Search(query string, limit int) []model.Product {
	if limit <= 0 {
		limit = chatSearchLimit
	}
	if utf8.RuneCountInString(strings.TrimSpace(query)) < 3 {
		return s.Featured(limit)
	}

	products, err := s.repo.Search(query, limit)
	if err != nil {
		logger.Log.Error("Product search failed", zap.String("query", query), zap.Error(err))
		return []model.Product{}
	}
	return products
}

// Featured returns the most recent products, cached in Redis so the
// chat hot path rarely touches MySQL.
func (s *ProductService) Featured(limit int) []model.Product {
	if limit <= 0 {
		limit = chatSearchLimit
	}
	ctx := context.Background()

	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, featuredCacheKey).Result(); err == nil {
			var products []model.Product
			if json.Unmarshal([]byte(cached), &products) == nil {
				if len(products) > limit {
					products = products[:limit]
				}
				return products
			}
		}
	}

	products, err := s.repo.FindFeatured(limit)
	if err != nil {
		logger.Log.Error("Failed to load featured products", zap.Error(err))
		return []model.Product{}
	}

	if s.redis != nil {
		if encoded, err := json.Marshal(products); err == nil {
			if err := s.redis.Set(ctx, featuredCacheKey, encoded, featuredCacheTTL).Err(); err != nil {
				logger.Log.Warn("Failed to cache featured products", zap.Error(err))
			}
		}
	}

	return products
}

// Details resolves a chat product mention: numeric id first, then exact
// name, then partial match. Returns nil when nothing fits.
func (s *ProductService) Details(nameOrID string) *model.Product {
	nameOrID = strings.TrimSpace(nameOrID)
	if nameOrID == "" {
		return nil
	}

	if id, err := strconv.ParseUint(nameOrID, 10, 32); err == nil {
		product, err := s.repo.FindByID(uint(id))
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Log.Error("Product lookup by id failed", zap.Error(err))
			}
			return nil
		}
		return product
	}

	product, err := s.repo.FindByName(nameOrID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Log.Error("Product lookup by name failed", zap.String("name", nameOrID), zap.Error(err))
		}
		return nil
	}
	return product
}

// Slugify builds a URL slug from a product name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.Join(strings.Fields(slug), "-")
	var b strings.Builder
	for _, r := range slug {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
