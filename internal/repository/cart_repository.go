package repository

import (
	"pulsebeat_backend/internal/model"

	"gorm.io/gorm"
)

type CartRepository struct {
	DB *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{DB: db}
}

func (r *CartRepository) Create(cart *model.Cart) error {
	return r.DB.Create(cart).Error
}

func (r *CartRepository) FindByCode(code string) (*model.Cart, error) {
	var cart model.Cart
	err := r.DB.Preload("Items.Product").
		Where("cart_code = ? AND paid = ?", code, false).
		First(&cart).Error
	return &cart, err
}

func (r *CartRepository) FindByID(id uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.DB.Preload("Items.Product").First(&cart, id).Error
	return &cart, err
}

func (r *CartRepository) FindItem(cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.DB.Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	return &item, err
}

func (r *CartRepository) CreateItem(item *model.CartItem) error {
	return r.DB.Create(item).Error
}

func (r *CartRepository) UpdateItem(item *model.CartItem) error {
	return r.DB.Save(item).Error
}

func (r *CartRepository) DeleteItem(itemID uint) error {
	return r.DB.Delete(&model.CartItem{}, itemID).Error
}

func (r *CartRepository) MarkPaid(cartID uint) error {
	return r.DB.Model(&model.Cart{}).
		Where("id = ?", cartID).
		Update("paid", true).
		Error
}

func (r *CartRepository) ItemCount(cartID uint) (int64, error) {
	var total int64
	err := r.DB.Model(&model.CartItem{}).
		Where("cart_id = ?", cartID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}
