package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/service"
	apperrors "github.com/abu0505/tokyo-shoes-sub000/internal/errors"
	"github.com/abu0505/tokyo-shoes-sub000/internal/middleware"
)

type CheckoutController struct {
	checkoutService service.CheckoutService
}

func NewCheckoutController(checkoutService service.CheckoutService) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
	}
}

type PlaceOrderRequest struct {
	ShippingMethod  model.ShippingMethod `json:"shipping_method"`
	ShippingAddress string               `json:"shipping_address" binding:"required"`
	CardNumber      string               `json:"card_number" binding:"required"`
	CardHolder      string               `json:"card_holder" binding:"required"`
}

// Reconcile checks the cart against live inventory
// POST /api/v1/checkout/reconcile
func (ctrl *CheckoutController) Reconcile(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	issues, err := ctrl.checkoutService.Reconcile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
			return
		}
		log.Error("Stock reconciliation failed", err, map[string]interface{}{
			"user_id": userID,
		})
		apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.StockCheckFailed, "Could not verify stock, please try again")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"issues":       issues,
		"can_checkout": len(issues) == 0,
	})
}

// Quote prices the cart for a shipping method
// GET /api/v1/checkout/quote?shipping_method=standard
func (ctrl *CheckoutController) Quote(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	method := model.ShippingMethod(c.DefaultQuery("shipping_method", string(model.ShippingStandard)))

	quote, err := ctrl.checkoutService.QuoteCart(c.Request.Context(), userID, method)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrInvalidShippingMethod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown shipping method")
		default:
			apperrors.InternalError(c, "Failed to price cart")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"quote": quote,
	})
}

// PlaceOrder turns the cart into an order
// POST /api/v1/orders
func (ctrl *CheckoutController) PlaceOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	order, err := ctrl.checkoutService.PlaceOrder(c.Request.Context(), userID, service.PlaceOrderInput{
		ShippingMethod:  req.ShippingMethod,
		ShippingAddress: req.ShippingAddress,
		CardNumber:      req.CardNumber,
		CardHolder:      req.CardHolder,
	})
	if err != nil {
		var stockErr *service.StockIssuesError
		switch {
		case errors.As(err, &stockErr):
			c.JSON(http.StatusConflict, gin.H{
				"error":   apperrors.StockIssuesOutstanding,
				"message": "Some cart items are no longer available at the requested quantities",
				"issues":  stockErr.Issues,
			})
		case errors.Is(err, service.ErrEmptyCart):
			apperrors.BadRequest(c, apperrors.CartEmpty, "Cart is empty")
		case errors.Is(err, service.ErrShippingAddressRequired):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "Shipping address is required")
		case errors.Is(err, service.ErrInvalidShippingMethod):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Unknown shipping method")
		case respondCouponError(c, err):
			// Applied coupon went invalid between apply and checkout.
		default:
			log.Error("Failed to place order", err, map[string]interface{}{
				"user_id": userID,
			})
			apperrors.InternalError(c, "Failed to place order")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}
