package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/repository"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/service"
	apperrors "github.com/abu0505/tokyo-shoes-sub000/internal/errors"
	"github.com/abu0505/tokyo-shoes-sub000/internal/middleware"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name        string                `json:"name" binding:"required"`
	Brand       string                `json:"brand" binding:"required"`
	Description string                `json:"description"`
	Price       float64               `json:"price" binding:"required,gte=0"`
	Category    model.ProductCategory `json:"category"`
	ImageURL    string                `json:"image_url"`
}

type AddVariantRequest struct {
	Size          string `json:"size" binding:"required"`
	StockQuantity int    `json:"stock_quantity" binding:"gte=0"`
}

type SetStockRequest struct {
	StockQuantity *int `json:"stock_quantity" binding:"required,gte=0"`
}

// GetProducts lists the catalog with optional filters
// GET /api/v1/products?brand=&category=&search=&sort=&order=&limit=&offset=
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	filter := repository.ProductFilter{
		Brand:           c.Query("brand"),
		Search:          c.Query("search"),
		Limit:           parseQueryInt(c, "limit", 50),
		Offset:          parseQueryInt(c, "offset", 0),
		IncludeVariants: c.Query("include_variants") == "true",
	}

	if category := c.Query("category"); category != "" {
		cat := model.ProductCategory(category)
		filter.Category = &cat
	}

	switch c.Query("sort") {
	case "price":
		filter.SortBy = repository.ProductSortPrice
	case "name":
		filter.SortBy = repository.ProductSortName
	default:
		filter.SortBy = repository.ProductSortCreatedAt
	}
	filter.SortAscending = c.Query("order") == "asc"

	products, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		log.Error("Failed to fetch products", err, nil)
		apperrors.InternalError(c, "Failed to fetch products")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GetProduct returns one product with its variants
// GET /api/v1/products/:id
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	product, err := ctrl.productService.GetProductByID(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to fetch product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// GetBrands lists distinct brands in the catalog
// GET /api/v1/products/brands
func (ctrl *ProductController) GetBrands(c *gin.Context) {
	brands, err := ctrl.productService.GetBrands()
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch brands")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"brands": brands,
	})
}

// GetVariants lists sizes and stock for a product
// GET /api/v1/products/:id/variants
func (ctrl *ProductController) GetVariants(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := ctrl.productService.GetVariants(id)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to fetch variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
	})
}

// CreateProduct adds a catalog entry (admin)
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	if err := ctrl.productService.CreateProduct(product); err != nil {
		if errors.Is(err, service.ErrInvalidPrice) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Price must not be negative")
			return
		}
		log.Error("Failed to create product", err, map[string]interface{}{
			"name": req.Name,
		})
		apperrors.InternalError(c, "Failed to create product")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"product": product,
	})
}

// UpdateProduct edits a catalog entry (admin)
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	product := &model.Product{
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	}
	product.ID = id

	if err := ctrl.productService.UpdateProduct(product); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrInvalidPrice) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Price must not be negative")
			return
		}
		apperrors.InternalError(c, "Failed to update product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product": product,
	})
}

// DeleteProduct removes a catalog entry (admin)
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete product")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted",
	})
}

// AddVariant adds a size to a product (admin)
// POST /api/v1/admin/products/:id/variants
func (ctrl *ProductController) AddVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddVariantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	variant, err := ctrl.productService.AddVariant(id, req.Size, req.StockQuantity)
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		if errors.Is(err, service.ErrInvalidStock) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Stock quantity must not be negative")
			return
		}
		info := apperrors.ParseError(err, "variant")
		if info.Code == apperrors.VariantExists {
			apperrors.Conflict(c, info.Code, info.Message)
			return
		}
		apperrors.InternalError(c, "Failed to add variant")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"variant": variant,
	})
}

// SetVariantStock sets the stock level for a size (admin)
// PUT /api/v1/admin/variants/:id/stock
func (ctrl *ProductController) SetVariantStock(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	if err := ctrl.productService.SetVariantStock(id, *req.StockQuantity); err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.VariantNotFound, "Variant not found")
			return
		}
		if errors.Is(err, service.ErrInvalidStock) {
			apperrors.BadRequest(c, apperrors.ValidationInvalidRange, "Stock quantity must not be negative")
			return
		}
		apperrors.InternalError(c, "Failed to update stock")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock updated",
	})
}

// DeleteVariant removes a size from a product (admin)
// DELETE /api/v1/admin/variants/:id
func (ctrl *ProductController) DeleteVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteVariant(id); err != nil {
		if errors.Is(err, service.ErrVariantNotFound) {
			apperrors.NotFound(c, apperrors.VariantNotFound, "Variant not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variant deleted",
	})
}

// parseIDParam reads a positive integer path parameter, responding with a
// validation error when it is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid ID")
		return 0, false
	}
	return uint(id), true
}

func parseQueryInt(c *gin.Context, name string, fallback int) int {
	value := c.Query(name)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
