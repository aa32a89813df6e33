package repository

import (
	"pulsebeat_backend/internal/model"
	"strings"

	"gorm.io/gorm"
)

type ProductRepository struct {
	DB *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{DB: db}
}

func (r *ProductRepository) Create(product *model.Product) error {
	return r.DB.Create(product).Error
}

func (r *ProductRepository) Update(product *model.Product) error {
	return r.DB.Save(product).Error
}

func (r *ProductRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Product{}, id).Error
}

func (r *ProductRepository) FindByID(id uint) (*model.Product, error) {
	var product model.Product
	err := r.DB.First(&product, id).Error
	return &product, err
}

func (r *ProductRepository) FindBySlug(slug string) (*model.Product, error) {
	var product model.Product
	err := r.DB.Where("slug = ?", slug).First(&product).Error
	return &product, err
}

func (r *ProductRepository) FindAll() ([]model.Product, error) {
	var products []model.Product
	err := r.DB.Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *ProductRepository) FindFeatured(limit int) ([]model.Product, error) {
	var products []model.Product
	err := r.DB.Where("featured = ?", true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// Search matches the query against name, description and category. A
// query that names a category returns that whole category on top of the
// textual matches.
func (r *ProductRepository) Search(query string, limit int) ([]model.Product, error) {
	like := "%" + query + "%"
	tx := r.DB.Where("name LIKE ? OR description LIKE ?", like, like)

	for _, category := range model.AllCategories() {
		if strings.Contains(strings.ToLower(query), strings.ToLower(string(category))) {
			tx = tx.Or("category = ?", category)
		}
	}

	var products []model.Product
	err := tx.Limit(limit).Find(&products).Error
	return products, err
}

func (r *ProductRepository) FindByCategory(category model.ProductCategory) ([]model.Product, error) {
	var products []model.Product
	err := r.DB.Where("category = ?", category).Find(&products).Error
	return products, err
}

// FindByName resolves a product mention from chat: exact name first,
// then the first partial match.
func (r *ProductRepository) FindByName(name string) (*model.Product, error) {
	var product model.Product
	err := r.DB.Where("LOWER(name) = ?", strings.ToLower(name)).First(&product).Error
	if err == nil {
		return &product, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	err = r.DB.Where("name LIKE ?", "%"+name+"%").First(&product).Error
	return &product, err
}
