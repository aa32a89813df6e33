package controller

import (
	"errors"
	"strconv"

	"pulsebeat_backend/internal/service"
	"pulsebeat_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CartController struct {
	CartService *service.CartService
}

func NewCartController(cartService *service.CartService) *CartController {
	return &CartController{CartService: cartService}
}

type AddItemRequest struct {
	CartCode  string `json:"cart_code" binding:"required"`
	ProductID uint   `json:"product_id" binding:"required"`
}

// AddItem godoc
// @Summary Add a product to a cart
// @Tags cart
// @Accept json
// @Produce json
// @Param body body AddItemRequest true "Cart code and product"
// @Success 200 {object} util.Response{data=model.Cart}
// @Failure 404 {object} util.Response
// @Router /api/cart/add [post]
func (c *CartController) AddItem(ctx *gin.Context) {
	var req AddItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var userID *uint
	if claims := util.GetUserFromContext(ctx); claims != nil {
		userID = &claims.UserID
	}

	cart, err := c.CartService.AddItem(req.CartCode, req.ProductID, userID)
	if err != nil {
		if errors.Is(err, util.ErrProductNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, cart)
}

// Get godoc
// @Summary Fetch an unpaid cart with items
// @Tags cart
// @Produce json
// @Param cart_code query string true "Cart code"
// @Success 200 {object} util.Response{data=model.Cart}
// @Failure 404 {object} util.Response
// @Router /api/cart [get]
func (c *CartController) Get(ctx *gin.Context) {
	cart, err := c.CartService.GetCart(ctx.Query("cart_code"))
	if err != nil {
		if errors.Is(err, util.ErrCartNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{
		"cart":      cart,
		"sum_total": c.CartService.Total(cart),
	})
}

// Stat godoc
// @Summary Cart badge counter
// @Tags cart
// @Produce json
// @Param cart_code query string true "Cart code"
// @Success 200 {object} util.Response{data=object}
// @Router /api/cart/stat [get]
func (c *CartController) Stat(ctx *gin.Context) {
	count, err := c.CartService.ItemCount(ctx.Query("cart_code"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"num_of_items": count})
}

// ProductIn godoc
// @Summary Whether a product is already in the cart
// @Tags cart
// @Produce json
// @Param cart_code query string true "Cart code"
// @Param product_id query int true "Product ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/cart/contains [get]
func (c *CartController) ProductIn(ctx *gin.Context) {
	productID, err := strconv.ParseUint(ctx.Query("product_id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid product_id")
		return
	}

	in, err := c.CartService.ProductInCart(ctx.Query("cart_code"), uint(productID))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"product_in_cart": in})
}

type UpdateQuantityRequest struct {
	ItemID   uint `json:"item_id" binding:"required"`
	Quantity int  `json:"quantity" binding:"required,min=1"`
}

// UpdateQuantity godoc
// @Summary Change a cart item's quantity
// @Tags cart
// @Accept json
// @Produce json
// @Param body body UpdateQuantityRequest true "Item and new quantity"
// @Success 200 {object} util.Response{data=model.CartItem}
// @Router /api/cart/item [put]
func (c *CartController) UpdateQuantity(ctx *gin.Context) {
	var req UpdateQuantityRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	item, err := c.CartService.UpdateQuantity(req.ItemID, req.Quantity)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, item)
}

// RemoveItem godoc
// @Summary Remove an item from the cart
// @Tags cart
// @Produce json
// @Param id path int true "Cart item ID"
// @Success 200 {object} util.Response
// @Router /api/cart/item/{id} [delete]
func (c *CartController) RemoveItem(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid item id")
		return
	}
	if err := c.CartService.RemoveItem(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}
