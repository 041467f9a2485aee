package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abu0505/tokyo-shoes-sub000/internal/app/model"
	"github.com/abu0505/tokyo-shoes-sub000/internal/app/service"
	apperrors "github.com/abu0505/tokyo-shoes-sub000/internal/errors"
	"github.com/abu0505/tokyo-shoes-sub000/internal/middleware"
)

type CouponController struct {
	couponService service.CouponService
}

func NewCouponController(couponService service.CouponService) *CouponController {
	return &CouponController{
		couponService: couponService,
	}
}

type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

type CouponRequest struct {
	Code            string             `json:"code" binding:"required"`
	DiscountType    model.DiscountType `json:"discount_type" binding:"required"`
	DiscountValue   float64            `json:"discount_value" binding:"required,gt=0"`
	StartsAt        *time.Time         `json:"starts_at"`
	ExpiresAt       *time.Time         `json:"expires_at"`
	UsageLimitTotal *int               `json:"usage_limit_total"`
	IsActive        *bool              `json:"is_active"`
}

// respondCouponError maps the coupon validation taxonomy to responses.
// Every rejection is a 422 with a distinct code so the storefront can
// show a precise message at the coupon input.
func respondCouponError(c *gin.Context, err error) bool {
	var code, message string
	switch {
	case errors.Is(err, service.ErrCouponNotFound):
		code, message = apperrors.CouponNotFound, "Coupon code not found"
	case errors.Is(err, service.ErrCouponInactive):
		code, message = apperrors.CouponInactive, "This coupon is not active"
	case errors.Is(err, service.ErrCouponNotYetStarted):
		code, message = apperrors.CouponNotYetStarted, "This coupon is not valid yet"
	case errors.Is(err, service.ErrCouponExpired):
		code, message = apperrors.CouponExpired, "This coupon has expired"
	case errors.Is(err, service.ErrCouponUsageLimitReached):
		code, message = apperrors.CouponUsageLimitReached, "This coupon has reached its usage limit"
	default:
		return false
	}

	apperrors.RespondWithError(c, http.StatusUnprocessableEntity, code, message)
	return true
}

// ApplyCoupon validates a code and attaches it to the checkout session
// POST /api/v1/checkout/coupon
func (ctrl *CouponController) ApplyCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	applied, err := ctrl.couponService.Apply(c.Request.Context(), userID, req.Code)
	if err != nil {
		if respondCouponError(c, err) {
			return
		}
		log.Error("Failed to apply coupon", err, map[string]interface{}{
			"user_id": userID,
			"code":    req.Code,
		})
		apperrors.InternalError(c, "Failed to apply coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applied_coupon": applied,
	})
}

// RemoveCoupon detaches the applied coupon from the checkout session
// DELETE /api/v1/checkout/coupon
func (ctrl *CouponController) RemoveCoupon(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.couponService.Remove(c.Request.Context(), userID); err != nil {
		apperrors.InternalError(c, "Failed to remove coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon removed",
	})
}

// GetAppliedCoupon returns the coupon currently applied to the session
// GET /api/v1/checkout/coupon
func (ctrl *CouponController) GetAppliedCoupon(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	applied, err := ctrl.couponService.GetApplied(c.Request.Context(), userID)
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch applied coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"applied_coupon": applied,
	})
}

// ListCoupons lists all coupons (admin)
// GET /api/v1/admin/coupons
func (ctrl *CouponController) ListCoupons(c *gin.Context) {
	coupons, err := ctrl.couponService.ListCoupons()
	if err != nil {
		apperrors.InternalError(c, "Failed to fetch coupons")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupons": coupons,
		"count":   len(coupons),
	})
}

// CreateCoupon creates a coupon (admin)
// POST /api/v1/admin/coupons
func (ctrl *CouponController) CreateCoupon(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	coupon := couponFromRequest(&req)
	if err := ctrl.couponService.CreateCoupon(coupon); err != nil {
		if respondCouponAdminError(c, err) {
			return
		}
		info := apperrors.ParseError(err, "coupon")
		if info.Code == apperrors.CouponCodeExists {
			apperrors.Conflict(c, info.Code, info.Message)
			return
		}
		log.Error("Failed to create coupon", err, map[string]interface{}{
			"code": req.Code,
		})
		apperrors.InternalError(c, "Failed to create coupon")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"coupon": coupon,
	})
}

// UpdateCoupon edits a coupon (admin)
// PUT /api/v1/admin/coupons/:id
func (ctrl *CouponController) UpdateCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req CouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data")
		return
	}

	coupon := couponFromRequest(&req)
	coupon.ID = id

	if err := ctrl.couponService.UpdateCoupon(coupon); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
			return
		}
		if respondCouponAdminError(c, err) {
			return
		}
		apperrors.InternalError(c, "Failed to update coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"coupon": coupon,
	})
}

// DeleteCoupon removes a coupon (admin)
// DELETE /api/v1/admin/coupons/:id
func (ctrl *CouponController) DeleteCoupon(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.couponService.DeleteCoupon(id); err != nil {
		if errors.Is(err, service.ErrCouponNotFound) {
			apperrors.NotFound(c, apperrors.CouponNotFound, "Coupon not found")
			return
		}
		apperrors.InternalError(c, "Failed to delete coupon")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Coupon deleted",
	})
}

func respondCouponAdminError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, service.ErrInvalidCouponValue):
		apperrors.BadRequest(c, apperrors.CouponInvalidValue, "Invalid discount value for the coupon type")
	case errors.Is(err, service.ErrInvalidCouponWindow):
		apperrors.BadRequest(c, apperrors.CouponInvalidWindow, "Coupon expiry must be after its start")
	default:
		return false
	}
	return true
}

func couponFromRequest(req *CouponRequest) *model.Coupon {
	coupon := &model.Coupon{
		Code:            req.Code,
		DiscountType:    req.DiscountType,
		DiscountValue:   req.DiscountValue,
		ExpiresAt:       req.ExpiresAt,
		UsageLimitTotal: req.UsageLimitTotal,
		IsActive:        true,
	}
	if req.StartsAt != nil {
		coupon.StartsAt = *req.StartsAt
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	return coupon
}
