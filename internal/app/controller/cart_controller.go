package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/service"
	apperrors "github.com/abu0505/tokyo-shoes-sub000/internal/errors"
	"github.com/abu0505/tokyo-shoes-sub000/internal/middleware"
)

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{
		cartService: cartService,
	}
}

type AddToCartRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

type UpdateCartRequest struct {
	Quantity *int `json:"quantity" binding:"required,gte=0"`
}

// GetCart returns the user's cart
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItems, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		log.Error("Failed to fetch cart", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.InternalError(c, "Failed to fetch cart")
		return
	}

	var subtotal float64
	for _, item := range cartItems {
		subtotal += item.UnitPrice * float64(item.Quantity)
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_items": cartItems,
		"count":      len(cartItems),
		"subtotal":   subtotal,
	})
}

// AddToCart adds a product+size+color line to the cart
// POST /api/v1/cart
func (ctrl *CartController) AddToCart(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid add to cart request", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cartItem, err := ctrl.cartService.AddToCart(userID, req.ProductID, req.Size, req.Color, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrSizeNotStocked):
			apperrors.BadRequest(c, apperrors.ProductSizeInvalid, "Requested size is not available for this product")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must be at least 1")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.Conflict(c, apperrors.StockInsufficient, "Not enough stock for the requested quantity")
		default:
			log.Error("Failed to add to cart", err, map[string]interface{}{
				"user_id":    userID,
				"product_id": req.ProductID,
			})
			apperrors.InternalError(c, "Failed to add to cart")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"cart_item": cartItem,
	})
}

// UpdateCartItem changes a line's quantity; zero removes the line
// PUT /api/v1/cart/:id
func (ctrl *CartController) UpdateCartItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	cartItem, err := ctrl.cartService.UpdateQuantity(userID, cartItemID, *req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound), errors.Is(err, service.ErrNotCartItemOwner):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		case errors.Is(err, service.ErrInvalidQuantity):
			apperrors.BadRequest(c, apperrors.CartInvalidQuantity, "Quantity must not be negative")
		case errors.Is(err, service.ErrInsufficientStock):
			apperrors.Conflict(c, apperrors.StockInsufficient, "Not enough stock for the requested quantity")
		default:
			apperrors.InternalError(c, "Failed to update cart item")
		}
		return
	}

	if cartItem == nil {
		c.JSON(http.StatusOK, gin.H{
			"message": "Cart item removed",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"cart_item": cartItem,
	})
}

// RemoveCartItem deletes one line from the cart
// DELETE /api/v1/cart/:id
func (ctrl *CartController) RemoveCartItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	cartItemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveFromCart(userID, cartItemID); err != nil {
		switch {
		case errors.Is(err, service.ErrCartItemNotFound), errors.Is(err, service.ErrNotCartItemOwner):
			apperrors.NotFound(c, apperrors.CartItemNotFound, "Cart item not found")
		default:
			apperrors.InternalError(c, "Failed to remove cart item")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart item removed",
	})
}

// ClearCart empties the cart
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		apperrors.InternalError(c, "Failed to clear cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Cart cleared",
	})
}
