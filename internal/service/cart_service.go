package service

import (
	"errors"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/repository"
	"pulsebeat_backend/internal/util"

	"gorm.io/gorm"
)

type CartService struct {
	CartRepo    *repository.CartRepository
	ProductRepo *repository.ProductRepository
}

func NewCartService(cartRepo *repository.CartRepository, productRepo *repository.ProductRepository) *CartService {
	return &CartService{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
	}
}

// AddItem puts a product into the cart identified by cartCode, creating
// the cart on first use. Adding an existing product bumps its quantity.
func (s *CartService) AddItem(cartCode string, productID uint, userID *uint) (*model.Cart, error) {
	product, err := s.ProductRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrProductNotFound
		}
		return nil, err
	}

	cart, err := s.CartRepo.FindByCode(cartCode)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		cart = &model.Cart{CartCode: cartCode, UserID: userID}
		if err := s.CartRepo.Create(cart); err != nil {
			return nil, err
		}
	}

	item, err := s.CartRepo.FindItem(cart.ID, product.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		item = &model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 1}
		if err := s.CartRepo.CreateItem(item); err != nil {
			return nil, err
		}
	} else {
		item.Quantity++
		if err := s.CartRepo.UpdateItem(item); err != nil {
			return nil, err
		}
	}

	return s.CartRepo.FindByID(cart.ID)
}

func (s *CartService) GetCart(cartCode string) (*model.Cart, error) {
	cart, err := s.CartRepo.FindByCode(cartCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}

// ProductInCart reports whether the product already sits in the cart.
// Unknown carts simply report false.
func (s *CartService) ProductInCart(cartCode string, productID uint) (bool, error) {
	cart, err := s.CartRepo.FindByCode(cartCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}

	if _, err := s.CartRepo.FindItem(cart.ID, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// ItemCount returns the total quantity across the cart, 0 for unknown
// carts so the widget badge renders without a round trip.
func (s *CartService) ItemCount(cartCode string) (int64, error) {
	cart, err := s.CartRepo.FindByCode(cartCode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return s.CartRepo.ItemCount(cart.ID)
}

func (s *CartService) UpdateQuantity(itemID uint, quantity int) (*model.CartItem, error) {
	if quantity < 1 {
		return nil, errors.New("quantity must be at least 1")
	}

	var item model.CartItem
	if err := s.CartRepo.DB.Preload("Product").First(&item, itemID).Error; err != nil {
		return nil, err
	}

	item.Quantity = quantity
	if err := s.CartRepo.UpdateItem(&item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *CartService) RemoveItem(itemID uint) error {
	return s.CartRepo.DeleteItem(itemID)
}

// Total sums price*quantity across the cart's items.
func (s *CartService) Total(cart *model.Cart) float64 {
	var total float64
	for _, item := range cart.Items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}
