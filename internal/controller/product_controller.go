package controller

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"

	"pulsebeat_backend/internal/model"
	"pulsebeat_backend/internal/service"
	"pulsebeat_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ProductController struct {
	ProductService *service.ProductService
	StorageService *service.StorageService
}

func NewProductController(productService *service.ProductService, storageService *service.StorageService) *ProductController {
	return &ProductController{
		ProductService: productService,
		StorageService: storageService,
	}
}

// List godoc
// @Summary List all products
// @Tags products
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Product}
// @Router /api/products [get]
func (c *ProductController) List(ctx *gin.Context) {
	if category := ctx.Query("category"); category != "" {
		util.Success(ctx, c.ProductService.ByCategory(category))
		return
	}

	products, err := c.ProductService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, products)
}

// Detail godoc
// @Summary Product detail by slug
// @Tags products
// @Produce json
// @Param slug path string true "Product slug"
// @Success 200 {object} util.Response{data=model.Product}
// @Failure 404 {object} util.Response
// @Router /api/products/{slug} [get]
func (c *ProductController) Detail(ctx *gin.Context) {
	product, err := c.ProductService.GetBySlug(ctx.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, product)
}

// Featured godoc
// @Summary Most recent products
// @Tags products
// @Produce json
// @Success 200 {object} util.Response{data=[]model.Product}
// @Router /api/products/featured [get]
func (c *ProductController) Featured(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))
	util.Success(ctx, c.ProductService.Featured(limit))
}

// Search godoc
// @Summary Search the catalog
// @Tags products
// @Produce json
// @Param q query string true "Search query"
// @Success 200 {object} util.Response{data=[]model.Product}
// @Router /api/products/search [get]
func (c *ProductController) Search(ctx *gin.Context) {
	query := ctx.Query("q")
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "5"))
	util.Success(ctx, c.ProductService.Search(query, limit))
}

// Categories godoc
// @Summary List catalog categories
// @Tags products
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Router /api/products/categories [get]
func (c *ProductController) Categories(ctx *gin.Context) {
	util.Success(ctx, c.ProductService.Categories())
}

type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category" binding:"required"`
	Featured    bool    `json:"featured"`
	Image       string  `json:"image"`
}

// Create godoc
// @Summary Create a product
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ProductRequest true "Product"
// @Success 201 {object} util.Response{data=model.Product}
// @Failure 400 {object} util.Response
// @Router /api/admin/products [post]
func (c *ProductController) Create(ctx *gin.Context) {
	var req ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    model.ProductCategory(req.Category),
		Featured:    req.Featured,
		Image:       req.Image,
	}
	if err := c.ProductService.Create(product); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, product)
}

// Update godoc
// @Summary Update a product
// @Tags admin
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Product ID"
// @Param body body ProductRequest true "Product"
// @Success 200 {object} util.Response{data=model.Product}
// @Failure 404 {object} util.Response
// @Router /api/admin/products/{id} [put]
func (c *ProductController) Update(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid product id")
		return
	}

	product, err := c.ProductService.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	var req ProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = req.Price
	product.Category = model.ProductCategory(req.Category)
	product.Featured = req.Featured
	if req.Image != "" {
		product.Image = req.Image
	}

	if err := c.ProductService.Update(product); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, product)
}

// Delete godoc
// @Summary Delete a product
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Product ID"
// @Success 200 {object} util.Response
// @Router /api/admin/products/{id} [delete]
func (c *ProductController) Delete(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid product id")
		return
	}
	if err := c.ProductService.Delete(uint(id)); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": id})
}

// UploadImage godoc
// @Summary Upload a product image
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "Image file"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Router /api/admin/products/image [post]
func (c *ProductController) UploadImage(ctx *gin.Context) {
	file, header, err := ctx.Request.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "missing image file")
		return
	}
	defer file.Close()

	filename := model.GenerateUUID() + filepath.Ext(header.Filename)
	url, err := c.StorageService.Upload(ctx.Request.Context(), filename, file, header.Size, header.Header.Get("Content-Type"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, util.Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    gin.H{"url": url},
	})
}
